package buffer

import "github.com/simularium/simconv/pkg/core"

// Decode converts packed frames into the dense model. Type names are looked
// up in mapping, which is kept as the model's type mapping; an agent whose
// type ID is missing from it fails with *core.UnknownTypeIDError.
func Decode(frames []Frame, mapping core.TypeMapping) (*core.AgentData, error) {
	dims, err := ScanDimensions(frames)
	if err != nil {
		return nil, err
	}

	a := core.NewAgentData(dims.TotalSteps, dims.MaxAgents, dims.MaxSubpoints)
	typeIDs := make([][]int, dims.TotalSteps)
	for t, frame := range frames {
		typeIDs[t] = make([]int, dims.MaxAgents)
		a.Times[t] = frame.Time
		n := 0
		err := walkRecords(t, frame.Data, func(record []float64) {
			a.VizTypes[t][n] = core.VizType(record[VizTypeIndex])
			a.UniqueIDs[t][n] = int(record[UIDIndex])
			typeIDs[t][n] = int(record[TIDIndex])
			a.Positions[t][n] = core.Vec3{record[PosXIndex], record[PosYIndex], record[PosZIndex]}
			a.Rotations[t][n] = core.Vec3{record[RotXIndex], record[RotYIndex], record[RotZIndex]}
			a.Radii[t][n] = record[RadiusIndex]

			points := PointCount(len(record) - PrefixLen)
			a.NSubpoints[t][n] = points
			for p := range points {
				i := SPIndex + p*ScalarsPerPoint
				a.Subpoints[t][n][p] = core.Vec3{record[i], record[i+1], record[i+2]}
			}
			n++
		})
		if err != nil {
			return nil, err
		}
		a.NAgents[t] = n
	}

	names, err := core.ResolveTypeNames(typeIDs, a.NAgents, mapping)
	if err != nil {
		return nil, err
	}
	a.Types = names
	a.TypeIDs = typeIDs
	a.TypeMapping = mapping.Clone()
	if a.TypeMapping == nil {
		a.TypeMapping = make(core.TypeMapping)
	}
	return a, nil
}

// Encode packs the valid agents of every timestep into frames. Padding agents
// and padding subpoints are never written. When the model has no type IDs
// yet they are assigned for the output only; a is not modified.
func Encode(a *core.AgentData) ([]Frame, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	typeIDs := a.TypeIDs
	if typeIDs == nil {
		typeIDs, _ = core.AssignTypeIDs(a.Types, nil)
	}

	frames := make([]Frame, a.TotalSteps())
	for t := range frames {
		size := 0
		for n := range a.NAgents[t] {
			size += RecordLen(ScalarsPerPoint * a.NSubpoints[t][n])
		}

		data := make([]float64, size)
		i := 0
		for n := range a.NAgents[t] {
			points := a.NSubpoints[t][n]
			record := data[i : i+RecordLen(ScalarsPerPoint*points)]
			pos, rot := a.Positions[t][n], a.Rotations[t][n]

			record[VizTypeIndex] = float64(a.VizTypes[t][n])
			record[UIDIndex] = float64(a.UniqueIDs[t][n])
			record[TIDIndex] = float64(typeIDs[t][n])
			record[PosXIndex], record[PosYIndex], record[PosZIndex] = pos[0], pos[1], pos[2]
			record[RotXIndex], record[RotYIndex], record[RotZIndex] = rot[0], rot[1], rot[2]
			record[RadiusIndex] = a.Radii[t][n]
			record[NSPIndex] = float64(ScalarsPerPoint * points)
			for p, point := range a.Subpoints[t][n][:points] {
				copy(record[SPIndex+p*ScalarsPerPoint:], point[:])
			}
			i += len(record)
		}
		frames[t] = Frame{FrameNumber: t, Time: a.Times[t], Data: data}
	}
	return frames, nil
}
