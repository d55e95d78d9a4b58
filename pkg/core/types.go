// pkg/core/types.go
package core

import (
	"encoding/json"
	"fmt"
	"math"
)

// Vec3 is an XYZ triple: a position, an euler rotation in degrees or a subpoint.
type Vec3 [3]float64

// VizType tags how the viewer draws an agent.
type VizType int

const (
	VizTypeDefault VizType = 1000
	VizTypeFiber   VizType = 1001
)

// UnitData describes the units of time or space values
type UnitData struct {
	Name      string  `json:"name"`
	Magnitude float64 `json:"magnitude"`
}

// NewUnitData returns units with the given name and a magnitude of 1.
func NewUnitData(name string) UnitData {
	return UnitData{Name: name, Magnitude: 1}
}

// String renders the units as shown to viewers, e.g. "10 nm" or "s".
func (u UnitData) String() string {
	if math.Abs(u.Magnitude-1) > 1e-12 {
		return fmt.Sprintf("%g %s", u.Magnitude, u.Name)
	}
	return u.Name
}

// CameraData holds the default view of the 3D scene
type CameraData struct {
	Position       Vec3
	LookAtPosition Vec3
	UpVector       Vec3
	FOVDegrees     float64
}

// DefaultCamera looks down the Z axis at the origin from 120 units away.
func DefaultCamera() CameraData {
	return CameraData{
		Position:   Vec3{0, 0, 120},
		UpVector:   Vec3{0, 1, 0},
		FOVDegrees: 50,
	}
}

// MetaData holds trajectory-level settings that are not per agent
type MetaData struct {
	BoxSize        Vec3
	CameraDefaults CameraData
}

// TrajectoryData is everything needed to produce one trajectory envelope.
// Plots are carried through untouched.
type TrajectoryData struct {
	MetaData     MetaData
	AgentData    *AgentData
	TimeUnits    UnitData
	SpatialUnits UnitData
	Plots        []json.RawMessage
}

// TimeStepSize is the spacing of the first two timesteps, or 0 for a single step.
func (t *TrajectoryData) TimeStepSize() float64 {
	if t.AgentData == nil || len(t.AgentData.Times) < 2 {
		return 0
	}
	return t.AgentData.Times[1] - t.AgentData.Times[0]
}
