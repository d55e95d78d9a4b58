package filter

import (
	"slices"

	"github.com/simularium/simconv/pkg/core"
)

// EveryNthTimestep keeps timesteps 0, N, 2N, ... Times are kept as they are.
type EveryNthTimestep struct {
	N int
}

func (f *EveryNthTimestep) Name() string {
	return TypeEveryNthTimestep
}

func (f *EveryNthTimestep) Validate() error {
	if f.N < 1 {
		return &InvalidFilterParameterError{Filter: f.Name(), Parameter: "n", Value: f.N, Reason: "must be at least 1"}
	}
	return nil
}

func (f *EveryNthTimestep) Apply(a *core.AgentData) (*core.AgentData, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	var keep []int
	for t := 0; t < a.TotalSteps(); t += f.N {
		keep = append(keep, t)
	}

	out := &core.AgentData{
		Times:           pick(a.Times, keep),
		NAgents:         pick(a.NAgents, keep),
		VizTypes:        pickRows(a.VizTypes, keep),
		UniqueIDs:       pickRows(a.UniqueIDs, keep),
		Types:           pickRows(a.Types, keep),
		Positions:       pickRows(a.Positions, keep),
		Rotations:       pickRows(a.Rotations, keep),
		Radii:           pickRows(a.Radii, keep),
		NSubpoints:      pickRows(a.NSubpoints, keep),
		DrawFiberPoints: a.DrawFiberPoints,
		TypeIDs:         pickRows(a.TypeIDs, keep),
		TypeMapping:     a.TypeMapping.Clone(),
	}
	if a.Subpoints != nil {
		out.Subpoints = make([][][]core.Vec3, len(keep))
		for i, t := range keep {
			out.Subpoints[i] = pickRows(a.Subpoints[t], nil)
		}
	}
	return out, nil
}

func pick[T any](values []T, keep []int) []T {
	if values == nil {
		return nil
	}
	out := make([]T, len(keep))
	for i, t := range keep {
		out[i] = values[t]
	}
	return out
}

// pickRows copies the kept rows of a grid; a nil keep copies every row.
func pickRows[T any](grid [][]T, keep []int) [][]T {
	if grid == nil {
		return nil
	}
	if keep == nil {
		keep = make([]int, len(grid))
		for i := range keep {
			keep[i] = i
		}
	}
	out := make([][]T, len(keep))
	for i, t := range keep {
		out[i] = slices.Clone(grid[t])
	}
	return out
}
