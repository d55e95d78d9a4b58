// pkg/core/registry.go
package core

import "maps"

// Geometry holds optional display settings for a type
type Geometry struct {
	DisplayType string `json:"displayType,omitempty"`
	URL         string `json:"url,omitempty"`
	Color       string `json:"color,omitempty"`
}

// TypeInfo is the metadata recorded for one type ID
type TypeInfo struct {
	Name     string    `json:"name"`
	Geometry *Geometry `json:"geometry,omitempty"`
}

// TypeMapping maps type IDs to their metadata. Encoded as JSON, the keys are
// the stringified IDs.
type TypeMapping map[int]TypeInfo

// IDOf returns the ID recorded for a type name.
func (m TypeMapping) IDOf(name string) (int, bool) {
	for id, info := range m {
		if info.Name == name {
			return id, true
		}
	}
	return 0, false
}

// Clone returns a deep copy; a nil mapping stays nil.
func (m TypeMapping) Clone() TypeMapping {
	if m == nil {
		return nil
	}
	out := maps.Clone(m)
	for id, info := range out {
		if info.Geometry != nil {
			g := *info.Geometry
			info.Geometry = &g
			out[id] = info
		}
	}
	return out
}

// AssignTypeIDs maps type names to small integer IDs.
//
// Without existing IDs, names get IDs in the order they are first seen,
// timestep by timestep and agent by agent, starting at 0. Empty names get no
// ID and stay 0 in the returned array.
//
// With existing IDs, those IDs are returned as they are and only the mapping
// is built, from the first (name, ID) pair seen for every name.
func AssignTypeIDs(names [][]string, existing [][]int) ([][]int, TypeMapping) {
	useExisting := existing != nil
	typeIDs := existing
	if !useExisting {
		maxAgents := 0
		for _, row := range names {
			maxAgents = max(maxAgents, len(row))
		}
		typeIDs = newGrid[int](len(names), maxAgents)
	}

	mapping := make(TypeMapping)
	ids := make(map[string]int)
	next := 0
	for t, row := range names {
		for n, name := range row {
			if name == "" {
				continue
			}
			id, seen := ids[name]
			if !seen {
				if useExisting {
					if t >= len(existing) || n >= len(existing[t]) {
						continue
					}
					id = existing[t][n]
				} else {
					id = next
					next++
				}
				ids[name] = id
				mapping[id] = TypeInfo{Name: name}
			}
			if !useExisting {
				typeIDs[t][n] = id
			}
		}
	}
	return typeIDs, mapping
}

// ResolveTypeNames looks up the name of every valid type ID. When nAgents is
// nil every slot of typeIDs is treated as valid.
func ResolveTypeNames(typeIDs [][]int, nAgents []int, mapping TypeMapping) ([][]string, error) {
	names := make([][]string, len(typeIDs))
	for t, row := range typeIDs {
		n := len(row)
		if nAgents != nil {
			n = min(n, nAgents[t])
		}
		names[t] = make([]string, n)
		for i := range n {
			info, ok := mapping[row[i]]
			if !ok {
				return nil, &UnknownTypeIDError{Timestep: t, Agent: i, TypeID: row[i]}
			}
			names[t][i] = info.Name
		}
	}
	return names, nil
}
