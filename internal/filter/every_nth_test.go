package filter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryNthTimestep(t *testing.T) {
	a := threeStepTrajectory()
	before := a.Clone()

	out, err := (&EveryNthTimestep{N: 2}).Apply(a)

	require.NoError(t, err)
	assert.Equal(t, []float64{0, 0.1}, out.Times)
	assert.Equal(t, []int{2, 2}, out.NAgents)
	assert.Equal(t, a.Positions[2], out.Positions[1])
	assert.Equal(t, a.Subpoints[2], out.Subpoints[1])
	assert.Equal(t, a.Types[2], out.Types[1])
	assert.Equal(t, a.TypeIDs[2], out.TypeIDs[1])
	assert.Equal(t, a.TypeMapping, out.TypeMapping)
	assert.Empty(t, cmp.Diff(before, a), "input must not change")

	out.Positions[0][1][0] = 1000
	assert.NotEqual(t, 1000.0, a.Positions[0][1][0])
}

func TestEveryNthTimestep_StrideOneCopies(t *testing.T) {
	a := threeStepTrajectory()

	out, err := (&EveryNthTimestep{N: 1}).Apply(a)

	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(a, out))
}

func TestEveryNthTimestep_LargeStride(t *testing.T) {
	out, err := (&EveryNthTimestep{N: 10}).Apply(threeStepTrajectory())

	require.NoError(t, err)
	assert.Equal(t, []float64{0}, out.Times)
}

func TestEveryNthTimestep_KeepsUnsetTypeIDs(t *testing.T) {
	a := threeStepTrajectory()
	a.TypeIDs, a.TypeMapping = nil, nil

	out, err := (&EveryNthTimestep{N: 2}).Apply(a)

	require.NoError(t, err)
	assert.Nil(t, out.TypeIDs)
	assert.Nil(t, out.TypeMapping)
}

func TestEveryNthTimestep_InvalidN(t *testing.T) {
	for _, n := range []int{0, -3} {
		_, err := (&EveryNthTimestep{N: n}).Apply(threeStepTrajectory())

		var paramErr *InvalidFilterParameterError
		require.True(t, errors.As(err, &paramErr))
		assert.Equal(t, "n", paramErr.Parameter)
		assert.Equal(t, n, paramErr.Value)
	}
}
