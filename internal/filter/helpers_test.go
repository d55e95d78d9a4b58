package filter

import "github.com/simularium/simconv/pkg/core"

// threeStepTrajectory has a fiber and a simple agent at times 0, 0.05 and 0.1.
func threeStepTrajectory() *core.AgentData {
	a := core.NewAgentData(3, 2, 3)
	copy(a.Times, []float64{0, 0.05, 0.1})
	for t := range 3 {
		a.NAgents[t] = 2
		a.Types[t] = []string{"microtubule", "motor complex"}
		a.VizTypes[t][0], a.VizTypes[t][1] = core.VizTypeFiber, core.VizTypeDefault
		a.UniqueIDs[t][0], a.UniqueIDs[t][1] = 1, 12
		a.NSubpoints[t][0] = 2
		a.Subpoints[t][0][0] = core.Vec3{36.93, 36.8, 16.78}
		a.Subpoints[t][0][1] = core.Vec3{30.55, 43.87, 19.5 + float64(t)}
		a.Positions[t][1] = core.Vec3{-73.5 + float64(t), -25.2, 43.89}
		a.Rotations[t][1] = core.Vec3{0, 0, 90}
		a.Radii[t][1] = 2
	}
	a.EnsureTypeMapping()
	return a
}
