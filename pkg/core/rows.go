// pkg/core/rows.go
package core

import (
	"slices"
)

// AgentRow is the state of one simple (non-fiber) agent at one time.
type AgentRow struct {
	Time     float64
	UniqueID int
	Type     string
	Position Vec3
	Rotation Vec3
	Radius   float64
}

// AgentDataFromRows builds the dense model from flat rows. Rows are grouped by
// time in ascending order; within a time they keep their input order. All
// agents get the default viz type.
func AgentDataFromRows(rows []AgentRow) *AgentData {
	var times []float64
	counts := make(map[float64]int)
	for _, row := range rows {
		if _, ok := counts[row.Time]; !ok {
			times = append(times, row.Time)
		}
		counts[row.Time]++
	}
	slices.Sort(times)

	maxAgents := 0
	step := make(map[float64]int, len(times))
	for t, time := range times {
		step[time] = t
		maxAgents = max(maxAgents, counts[time])
	}

	a := NewAgentData(len(times), maxAgents, 0)
	copy(a.Times, times)
	for _, row := range rows {
		t := step[row.Time]
		n := a.NAgents[t]
		a.VizTypes[t][n] = VizTypeDefault
		a.UniqueIDs[t][n] = row.UniqueID
		a.Types[t] = append(a.Types[t], row.Type)
		a.Positions[t][n] = row.Position
		a.Rotations[t][n] = row.Rotation
		a.Radii[t][n] = row.Radius
		a.NAgents[t]++
	}
	return a
}
