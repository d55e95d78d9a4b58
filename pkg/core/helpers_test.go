package core

// agent describes one valid agent slot for newTestAgentData.
type agent struct {
	uid      int
	typeName string
	pos      Vec3
	points   []Vec3
}

// newTestAgentData builds a model with one timestep per entry of steps,
// at times 0, 1, 2, ...
func newTestAgentData(steps ...[]agent) *AgentData {
	maxAgents, maxPoints := 0, 0
	for _, agents := range steps {
		maxAgents = max(maxAgents, len(agents))
		for _, ag := range agents {
			maxPoints = max(maxPoints, len(ag.points))
		}
	}
	a := NewAgentData(len(steps), maxAgents, maxPoints)
	for t, agents := range steps {
		a.Times[t] = float64(t)
		a.NAgents[t] = len(agents)
		for n, ag := range agents {
			a.VizTypes[t][n] = VizTypeDefault
			if len(ag.points) > 0 {
				a.VizTypes[t][n] = VizTypeFiber
			}
			a.UniqueIDs[t][n] = ag.uid
			a.Types[t] = append(a.Types[t], ag.typeName)
			a.Positions[t][n] = ag.pos
			a.NSubpoints[t][n] = len(ag.points)
			copy(a.Subpoints[t][n], ag.points)
		}
	}
	return a
}
