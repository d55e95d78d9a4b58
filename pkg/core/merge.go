// pkg/core/merge.go
package core

// AppendAgents merges incoming into a, which must cover the same timesteps.
//
// Agents of both trajectories are laid side by side on the agent axis, with a
// capacity of max(a.NAgents) + max(incoming.NAgents). Type IDs of the result
// come from one fresh registry over the merged type names, so equal names
// share an ID. Unique IDs of a are kept; each distinct incoming unique ID is
// moved up to the first value not yet used in the result, and keeps that
// value in every timestep it appears in.
//
// The only error is a *TimestepMismatchError, returned before anything is
// modified. incoming must not be used after a successful merge.
func (a *AgentData) AppendAgents(incoming *AgentData) error {
	totalSteps := a.TotalSteps()
	if incoming.TotalSteps() != totalSteps {
		return &TimestepMismatchError{Existing: totalSteps, Incoming: incoming.TotalSteps()}
	}

	maxAgents := maxOf(a.NAgents) + maxOf(incoming.NAgents)
	merged := NewAgentData(totalSteps, maxAgents, max(a.MaxSubpoints(), incoming.MaxSubpoints()))
	copy(merged.Times, a.Times)
	merged.DrawFiberPoints = a.DrawFiberPoints || incoming.DrawFiberPoints

	usedIDs := make(map[int]bool)
	for t := range totalSteps {
		for n := range a.NAgents[t] {
			usedIDs[a.UniqueIDs[t][n]] = true
		}
	}
	remapped := make(map[int]int)

	for t := range totalSteps {
		i := 0
		for n := range a.NAgents[t] {
			merged.copyAgent(t, i, a, n)
			merged.UniqueIDs[t][i] = a.UniqueIDs[t][n]
			merged.Types[t] = append(merged.Types[t], a.typeName(t, n))
			i++
		}
		for n := range incoming.NAgents[t] {
			merged.copyAgent(t, i, incoming, n)
			raw := incoming.UniqueIDs[t][n]
			uid, ok := remapped[raw]
			if !ok {
				uid = raw
				for usedIDs[uid] {
					uid++
				}
				remapped[raw] = uid
				usedIDs[uid] = true
			}
			merged.UniqueIDs[t][i] = uid
			merged.Types[t] = append(merged.Types[t], incoming.typeName(t, n))
			i++
		}
		merged.NAgents[t] = i
	}

	merged.TypeIDs, merged.TypeMapping = AssignTypeIDs(merged.Types, nil)
	*a = *merged
	return nil
}

// Merge returns the merge of base and incoming without modifying either.
func Merge(base, incoming *AgentData) (*AgentData, error) {
	if base.TotalSteps() != incoming.TotalSteps() {
		return nil, &TimestepMismatchError{Existing: base.TotalSteps(), Incoming: incoming.TotalSteps()}
	}
	result := base.Clone()
	if err := result.AppendAgents(incoming); err != nil {
		return nil, err
	}
	return result, nil
}

// copyAgent copies the spatial state of src's agent n at timestep t into slot i.
func (a *AgentData) copyAgent(t, i int, src *AgentData, n int) {
	a.VizTypes[t][i] = src.VizTypes[t][n]
	a.Positions[t][i] = src.Positions[t][n]
	a.Rotations[t][i] = src.Rotations[t][n]
	a.Radii[t][i] = src.Radii[t][n]
	a.NSubpoints[t][i] = src.NSubpoints[t][n]
	copy(a.Subpoints[t][i], src.Subpoints[t][n])
}

func maxOf(values []int) int {
	result := 0
	for _, v := range values {
		result = max(result, v)
	}
	return result
}
