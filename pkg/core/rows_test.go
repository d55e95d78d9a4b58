package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAgentDataFromRows(t *testing.T) {
	rows := []AgentRow{
		{Time: 1, UniqueID: 10, Type: "B", Position: Vec3{1, 1, 1}, Radius: 2},
		{Time: 0, UniqueID: 20, Type: "A", Position: Vec3{2, 2, 2}, Radius: 3},
		{Time: 1, UniqueID: 30, Type: "A", Position: Vec3{3, 3, 3}, Rotation: Vec3{0, 90, 0}, Radius: 4},
	}

	a := AgentDataFromRows(rows)

	assert.Equal(t, []float64{0, 1}, a.Times)
	assert.Equal(t, []int{1, 2}, a.NAgents)
	assert.Equal(t, 2, a.MaxAgents())
	assert.Equal(t, []int{10, 30}, a.UniqueIDs[1])
	assert.Equal(t, [][]string{{"A"}, {"B", "A"}}, a.Types)
	assert.Equal(t, Vec3{0, 90, 0}, a.Rotations[1][1])
	assert.Equal(t, []float64{3, 1}, a.Radii[0])
	assert.Equal(t, VizTypeDefault, a.VizTypes[1][0])
	assert.Nil(t, a.TypeIDs)
	assert.NoError(t, a.Validate())
}
