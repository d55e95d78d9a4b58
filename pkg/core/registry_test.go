package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssignTypeIDs_FirstSeenOrder(t *testing.T) {
	names := [][]string{
		{"actin", "myosin"},
		{"myosin", "", "arp2/3", "actin"},
	}

	ids, mapping := AssignTypeIDs(names, nil)

	assert.Equal(t, [][]int{{0, 1, 0, 0}, {1, 0, 2, 0}}, ids)
	assert.Equal(t, TypeMapping{
		0: {Name: "actin"},
		1: {Name: "myosin"},
		2: {Name: "arp2/3"},
	}, mapping)
}

func TestAssignTypeIDs_Stable(t *testing.T) {
	names := [][]string{{"b", "a", "c"}, {"c", "a"}, {"d"}}

	first, firstMapping := AssignTypeIDs(names, nil)
	second, secondMapping := AssignTypeIDs(names, nil)

	assert.Equal(t, first, second)
	assert.Equal(t, firstMapping, secondMapping)
}

func TestAssignTypeIDs_ExistingIDs(t *testing.T) {
	names := [][]string{{"microtubule", "motor"}, {"motor", "microtubule"}}
	existing := [][]int{{1, 7}, {7, 1}}

	ids, mapping := AssignTypeIDs(names, existing)

	assert.Equal(t, existing, ids)
	assert.Equal(t, TypeMapping{1: {Name: "microtubule"}, 7: {Name: "motor"}}, mapping)
}

func TestAssignTypeIDs_Empty(t *testing.T) {
	ids, mapping := AssignTypeIDs([][]string{{}, {""}}, nil)

	assert.Equal(t, [][]int{{0}, {0}}, ids)
	assert.Empty(t, mapping)
}

func TestResolveTypeNames(t *testing.T) {
	mapping := TypeMapping{1: {Name: "microtubule"}, 7: {Name: "motor"}}

	names, err := ResolveTypeNames([][]int{{1, 7, 0}, {7, 0, 0}}, []int{2, 1}, mapping)

	require.NoError(t, err)
	assert.Equal(t, [][]string{{"microtubule", "motor"}, {"motor"}}, names)
}

func TestResolveTypeNames_UnknownID(t *testing.T) {
	mapping := TypeMapping{1: {Name: "microtubule"}}

	_, err := ResolveTypeNames([][]int{{1}, {1, 4}}, nil, mapping)

	var unknown *UnknownTypeIDError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, UnknownTypeIDError{Timestep: 1, Agent: 1, TypeID: 4}, *unknown)
	assert.Contains(t, err.Error(), "unknown type ID 4")
}

func TestTypeMappingIDOf(t *testing.T) {
	mapping := TypeMapping{3: {Name: "actin"}}

	id, ok := mapping.IDOf("actin")
	assert.True(t, ok)
	assert.Equal(t, 3, id)

	_, ok = mapping.IDOf("myosin")
	assert.False(t, ok)
}
