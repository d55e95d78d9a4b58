package buffer

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/simularium/simconv/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cytosimMapping = core.TypeMapping{
	1: {Name: "microtubule"},
	7: {Name: "motor complex"},
}

func TestDecode(t *testing.T) {
	a, err := Decode(cytosimFrames(), cytosimMapping)
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 0.05, 0.1}, a.Times)
	assert.Equal(t, []int{2, 2, 2}, a.NAgents)
	assert.Equal(t, 2, a.MaxAgents())
	assert.Equal(t, 6, a.MaxSubpoints())
	assert.Equal(t, []core.VizType{core.VizTypeFiber, core.VizTypeDefault}, a.VizTypes[0])
	assert.Equal(t, []int{1, 12}, a.UniqueIDs[1])
	assert.Equal(t, [][]int{{1, 7}, {1, 7}, {1, 7}}, a.TypeIDs)
	assert.Equal(t, []string{"microtubule", "motor complex"}, a.Types[2])
	assert.Equal(t, core.Vec3{-72.52, -21.9, 43.59}, a.Positions[2][1])
	assert.Equal(t, []float64{1, 2}, a.Radii[0])
	assert.Equal(t, []int{5, 0}, a.NSubpoints[0])
	assert.Equal(t, []int{6, 0}, a.NSubpoints[1])
	assert.Equal(t, core.Vec3{36.93, 36.8, 16.78}, a.Subpoints[0][0][0])
	assert.Equal(t, core.Vec3{11.4, 65.07, 29.01}, a.Subpoints[0][0][4])
	assert.Equal(t, core.Vec3{}, a.Subpoints[0][0][5], "padding point")
	assert.Equal(t, core.Vec3{12.85, 66.92, -1.47}, a.Subpoints[1][0][5])
	assert.Equal(t, cytosimMapping, a.TypeMapping)
	require.NoError(t, a.Validate())
}

func TestDecode_UnevenAgentCounts(t *testing.T) {
	frames := []Frame{
		{Time: 0, Data: concat(
			record(1000, 1, 0, [3]float64{1, 1, 1}, [3]float64{0, 0, 90}, 3),
			record(1000, 2, 0, [3]float64{2, 2, 2}, [3]float64{}, 3),
		)},
		{Time: 1, Data: record(1000, 1, 0, [3]float64{1, 1, 2}, [3]float64{}, 3)},
	}

	a, err := Decode(frames, core.TypeMapping{0: {Name: "cell"}})

	require.NoError(t, err)
	assert.Equal(t, []int{2, 1}, a.NAgents)
	assert.Equal(t, core.Vec3{0, 0, 90}, a.Rotations[0][0])
	assert.Equal(t, [][]string{{"cell", "cell"}, {"cell"}}, a.Types)
	// padding keeps the allocation defaults
	assert.Equal(t, 1.0, a.Radii[1][1])
	assert.Equal(t, 0, a.UniqueIDs[1][1])
}

func TestDecode_UnknownTypeID(t *testing.T) {
	_, err := Decode(cytosimFrames(), core.TypeMapping{1: {Name: "microtubule"}})

	var unknown *core.UnknownTypeIDError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, 7, unknown.TypeID)
	assert.Equal(t, 0, unknown.Timestep)
	assert.Equal(t, 1, unknown.Agent)
}

func TestDecode_Malformed(t *testing.T) {
	frames := cytosimFrames()
	frames[2].Data = frames[2].Data[:20]

	a, err := Decode(frames, cytosimMapping)

	var malformed *MalformedBufferError
	require.True(t, errors.As(err, &malformed))
	assert.Equal(t, 2, malformed.Frame)
	assert.Nil(t, a)
}

func TestEncode(t *testing.T) {
	frames := cytosimFrames()
	a, err := Decode(frames, cytosimMapping)
	require.NoError(t, err)

	encoded, err := Encode(a)

	require.NoError(t, err)
	assert.Equal(t, frames, encoded)
}

func TestEncode_SkipsPadding(t *testing.T) {
	a := core.NewAgentData(1, 3, 4)
	a.NAgents[0] = 1
	a.VizTypes[0][0] = core.VizTypeFiber
	a.UniqueIDs[0][0] = 5
	a.Types[0] = []string{"fiber", "ghost", "ghost"}
	a.Positions[0][0] = core.Vec3{1, 2, 3}
	a.NSubpoints[0][0] = 2
	a.Subpoints[0][0] = []core.Vec3{{1, 1, 1}, {2, 2, 2}, {9, 9, 9}, {9, 9, 9}}
	a.UniqueIDs[0][1] = 99
	a.Positions[0][1] = core.Vec3{9, 9, 9}

	frames, err := Encode(a)

	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, record(1001, 5, 0, [3]float64{1, 2, 3}, [3]float64{}, 1, 1, 1, 1, 2, 2, 2), frames[0].Data)
	assert.Nil(t, a.TypeIDs, "encoding must not assign IDs on the input")
}

func TestEncode_CapacityError(t *testing.T) {
	a := core.NewAgentData(1, 1, 1)
	a.NAgents[0] = 1
	a.Types[0] = []string{"fiber"}
	a.NSubpoints[0][0] = 3

	_, err := Encode(a)

	var capErr *core.CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, "n_subpoints", capErr.Field)
}

func TestRoundTrip(t *testing.T) {
	a := core.AgentDataFromRows([]core.AgentRow{
		{Time: 0, UniqueID: 0, Type: "cell 1#phase 4", Position: core.Vec3{-4.27, -2.51, 0}, Radius: 0.084},
		{Time: 0, UniqueID: 1, Type: "cell 0#phase 4", Position: core.Vec3{-2.28, 4.3, 0}, Radius: 0.084},
		{Time: 360, UniqueID: 1, Type: "cell 0#phase 4", Position: core.Vec3{-2.2, 4.1, 0}, Rotation: core.Vec3{10, 20, 30}, Radius: 0.09},
	})
	a.EnsureTypeMapping()

	frames, err := Encode(a)
	require.NoError(t, err)
	decoded, err := Decode(frames, a.TypeMapping)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(a, decoded))
}

func TestRoundTrip_Fibers(t *testing.T) {
	a, err := Decode(cytosimFrames(), cytosimMapping)
	require.NoError(t, err)

	frames, err := Encode(a)
	require.NoError(t, err)
	again, err := Decode(frames, a.TypeMapping)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(a, again))
}
