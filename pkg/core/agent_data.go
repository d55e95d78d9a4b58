// pkg/core/agent_data.go
package core

import "slices"

// AgentData is the dense, padded spatial model of a trajectory.
//
// Per-agent arrays are indexed [timestep][agent]; Subpoints is additionally
// indexed by point. Only the first NAgents[t] agent slots of timestep t hold
// data, and only the first NSubpoints[t][n] points of an agent are valid.
// Everything beyond is padding and carries no meaning.
type AgentData struct {
	Times      []float64
	NAgents    []int
	VizTypes   [][]VizType
	UniqueIDs  [][]int
	Types      [][]string
	Positions  [][]Vec3
	Rotations  [][]Vec3
	Radii      [][]float64
	NSubpoints [][]int
	Subpoints  [][][]Vec3

	DrawFiberPoints bool

	// TypeIDs is nil until IDs are assigned. When set it is index-aligned with Types.
	TypeIDs [][]int

	// TypeMapping is derived from TypeIDs and Types. nil means it must be rebuilt
	// (see EnsureTypeMapping) before the model is exported.
	TypeMapping TypeMapping
}

// NewAgentData allocates a zeroed model of the given dimensions with every
// radius set to 1. TypeIDs and TypeMapping are left unset.
func NewAgentData(totalSteps, maxAgents, maxSubpoints int) *AgentData {
	a := &AgentData{
		Times:      make([]float64, totalSteps),
		NAgents:    make([]int, totalSteps),
		VizTypes:   newGrid[VizType](totalSteps, maxAgents),
		UniqueIDs:  newGrid[int](totalSteps, maxAgents),
		Types:      make([][]string, totalSteps),
		Positions:  newGrid[Vec3](totalSteps, maxAgents),
		Rotations:  newGrid[Vec3](totalSteps, maxAgents),
		Radii:      newGrid[float64](totalSteps, maxAgents),
		NSubpoints: newGrid[int](totalSteps, maxAgents),
		Subpoints:  make([][][]Vec3, totalSteps),
	}
	points := make([]Vec3, totalSteps*maxAgents*maxSubpoints)
	for t := range totalSteps {
		a.Types[t] = make([]string, 0, maxAgents)
		a.Subpoints[t] = make([][]Vec3, maxAgents)
		for n := range maxAgents {
			start := (t*maxAgents + n) * maxSubpoints
			a.Subpoints[t][n] = points[start : start+maxSubpoints : start+maxSubpoints]
			a.Radii[t][n] = 1
		}
	}
	return a
}

// newGrid allocates a [rows][cols] grid over one backing array.
func newGrid[T any](rows, cols int) [][]T {
	backing := make([]T, rows*cols)
	grid := make([][]T, rows)
	for i := range rows {
		grid[i] = backing[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return grid
}

func cloneGrid[T any](g [][]T) [][]T {
	if g == nil {
		return nil
	}
	out := make([][]T, len(g))
	for i, row := range g {
		out[i] = slices.Clone(row)
	}
	return out
}

// TotalSteps is the number of timesteps.
func (a *AgentData) TotalSteps() int {
	return len(a.Times)
}

// MaxAgents is the capacity of the agent axis.
func (a *AgentData) MaxAgents() int {
	capacity := 0
	for _, row := range a.UniqueIDs {
		capacity = max(capacity, len(row))
	}
	return capacity
}

// MaxSubpoints is the capacity of the subpoint axis, in points.
func (a *AgentData) MaxSubpoints() int {
	capacity := 0
	for _, agents := range a.Subpoints {
		for _, points := range agents {
			capacity = max(capacity, len(points))
		}
	}
	return capacity
}

// typeName returns the type name of a valid slot, or "" when the producer left it out.
func (a *AgentData) typeName(t, n int) string {
	if t < len(a.Types) && n < len(a.Types[t]) {
		return a.Types[t][n]
	}
	return ""
}

// Clone returns a deep copy. Unset TypeIDs and TypeMapping stay unset.
func (a *AgentData) Clone() *AgentData {
	out := &AgentData{
		Times:           slices.Clone(a.Times),
		NAgents:         slices.Clone(a.NAgents),
		VizTypes:        cloneGrid(a.VizTypes),
		UniqueIDs:       cloneGrid(a.UniqueIDs),
		Types:           cloneGrid(a.Types),
		Positions:       cloneGrid(a.Positions),
		Rotations:       cloneGrid(a.Rotations),
		Radii:           cloneGrid(a.Radii),
		NSubpoints:      cloneGrid(a.NSubpoints),
		DrawFiberPoints: a.DrawFiberPoints,
		TypeIDs:         cloneGrid(a.TypeIDs),
		TypeMapping:     a.TypeMapping.Clone(),
	}
	if a.Subpoints != nil {
		out.Subpoints = make([][][]Vec3, len(a.Subpoints))
		for t, agents := range a.Subpoints {
			out.Subpoints[t] = cloneGrid(agents)
		}
	}
	return out
}

// EnsureTypeMapping assigns type IDs if they are unset and rebuilds an
// invalidated TypeMapping from the existing IDs.
func (a *AgentData) EnsureTypeMapping() {
	if a.TypeIDs == nil {
		a.TypeIDs, a.TypeMapping = AssignTypeIDs(a.Types, nil)
		return
	}
	if a.TypeMapping == nil {
		_, a.TypeMapping = AssignTypeIDs(a.Types, a.TypeIDs)
	}
}

// Validate checks that every count fits the arrays it indexes into.
func (a *AgentData) Validate() error {
	for t := range a.TotalSteps() {
		if t >= len(a.NAgents) {
			return &CapacityError{Field: "n_agents", Timestep: t, Agent: -1, Count: 0, Capacity: len(a.NAgents)}
		}
		n := a.NAgents[t]
		capacity := min(
			rowLen(a.VizTypes, t), rowLen(a.UniqueIDs, t), rowLen(a.Positions, t),
			rowLen(a.Rotations, t), rowLen(a.Radii, t), rowLen(a.NSubpoints, t),
			rowLen(a.Subpoints, t), rowLen(a.Types, t),
		)
		if a.TypeIDs != nil {
			capacity = min(capacity, rowLen(a.TypeIDs, t))
		}
		if n < 0 || n > capacity {
			return &CapacityError{Field: "n_agents", Timestep: t, Agent: -1, Count: n, Capacity: capacity}
		}
		for i := range n {
			sp := a.NSubpoints[t][i]
			if sp < 0 || sp > len(a.Subpoints[t][i]) {
				return &CapacityError{Field: "n_subpoints", Timestep: t, Agent: i, Count: sp, Capacity: len(a.Subpoints[t][i])}
			}
		}
	}
	return nil
}

func rowLen[T any](g [][]T, t int) int {
	if t >= len(g) {
		return 0
	}
	return len(g[t])
}
