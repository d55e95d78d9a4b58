package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/simularium/simconv/pkg/buffer"
	"github.com/simularium/simconv/pkg/core"
)

// Build encodes a trajectory into an envelope. t is not modified.
func Build(t *core.TrajectoryData) (*Envelope, error) {
	if t.AgentData == nil {
		return nil, errors.New("trajectory has no agent data")
	}

	a := t.AgentData
	if a.TypeIDs == nil || a.TypeMapping == nil {
		a = a.Clone()
		a.EnsureTypeMapping()
	}

	frames, err := buffer.Encode(a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode agent data: %w", err)
	}

	mapping := a.TypeMapping.Clone()
	if _, ok := mapping[0]; !ok && usesTypeIDZero(a) {
		// unnamed agents keep ID 0 and still need an entry to be read back
		mapping[0] = core.TypeInfo{}
	}

	plots := t.Plots
	if plots == nil {
		plots = make([]json.RawMessage, 0)
	}

	camera := t.MetaData.CameraDefaults
	return &Envelope{
		TrajectoryInfo: TrajectoryInfo{
			Version:      TrajectoryInfoVersion,
			TimeUnits:    Units{Magnitude: t.TimeUnits.Magnitude, Name: t.TimeUnits.Name},
			TimeStepSize: t.TimeStepSize(),
			TotalSteps:   len(frames),
			SpatialUnits: Units{Magnitude: t.SpatialUnits.Magnitude, Name: t.SpatialUnits.Name},
			Size:         toVector3(t.MetaData.BoxSize),
			CameraDefault: &Camera{
				Position:       toVector3(camera.Position),
				LookAtPosition: toVector3(camera.LookAtPosition),
				UpVector:       toVector3(camera.UpVector),
				FOVDegrees:     camera.FOVDegrees,
			},
			TypeMapping: mapping,
		},
		SpatialData: SpatialData{
			Version:     SpatialDataVersion,
			MsgType:     MsgTypeVisData,
			BundleStart: 0,
			BundleSize:  len(frames),
			BundleData:  frames,
		},
		PlotData: PlotData{
			Version: PlotDataVersion,
			Data:    plots,
		},
	}, nil
}

// Read decodes an envelope back into a trajectory. A missing camera falls
// back to core.DefaultCamera and missing units to seconds and meters.
func Read(env *Envelope) (*core.TrajectoryData, error) {
	info := env.TrajectoryInfo
	a, err := buffer.Decode(env.SpatialData.BundleData, info.TypeMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to decode spatial data: %w", err)
	}

	camera := core.DefaultCamera()
	if info.CameraDefault != nil {
		camera = core.CameraData{
			Position:       info.CameraDefault.Position.vec3(),
			LookAtPosition: info.CameraDefault.LookAtPosition.vec3(),
			UpVector:       info.CameraDefault.UpVector.vec3(),
			FOVDegrees:     info.CameraDefault.FOVDegrees,
		}
	}

	return &core.TrajectoryData{
		MetaData: core.MetaData{
			BoxSize:        info.Size.vec3(),
			CameraDefaults: camera,
		},
		AgentData:    a,
		TimeUnits:    readUnits(info.TimeUnits, "s"),
		SpatialUnits: readUnits(info.SpatialUnits, "m"),
		Plots:        env.PlotData.Data,
	}, nil
}

// usesTypeIDZero reports whether a valid agent slot carries type ID 0.
func usesTypeIDZero(a *core.AgentData) bool {
	for t, n := range a.NAgents {
		for i := range n {
			if a.TypeIDs[t][i] == 0 {
				return true
			}
		}
	}
	return false
}

func readUnits(u Units, fallback string) core.UnitData {
	if u.Name == "" {
		return core.NewUnitData(fallback)
	}
	return core.UnitData{Name: u.Name, Magnitude: u.Magnitude}
}

// Decode reads one JSON envelope from r.
func Decode(r io.Reader) (*Envelope, error) {
	var env Envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	return &env, nil
}

// Encode writes env to w as JSON.
func Encode(w io.Writer, env *Envelope) error {
	if err := json.NewEncoder(w).Encode(env); err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}
	return nil
}
