// Package v1 contains the JSON envelope that trajectories are exchanged in.
// This format is what the simularium viewer loads.
package v1

import (
	"encoding/json"

	"github.com/simularium/simconv/pkg/buffer"
	"github.com/simularium/simconv/pkg/core"
)

const (
	TrajectoryInfoVersion = 3
	SpatialDataVersion    = 1
	PlotDataVersion       = 1

	// MsgTypeVisData marks a spatial data bundle.
	MsgTypeVisData = 1
)

// Envelope is the root JSON structure
type Envelope struct {
	TrajectoryInfo TrajectoryInfo `json:"trajectoryInfo"`
	SpatialData    SpatialData    `json:"spatialData"`
	PlotData       PlotData       `json:"plotData"`
}

// TrajectoryInfo describes the trajectory as a whole
type TrajectoryInfo struct {
	Version       int              `json:"version"`
	TimeUnits     Units            `json:"timeUnits"`
	TimeStepSize  float64          `json:"timeStepSize"`
	TotalSteps    int              `json:"totalSteps"`
	SpatialUnits  Units            `json:"spatialUnits"`
	Size          Vector3          `json:"size"`
	CameraDefault *Camera          `json:"cameraDefault,omitempty"`
	TypeMapping   core.TypeMapping `json:"typeMapping"`
}

// Units is a unit name with a magnitude, e.g. 10 nm
type Units struct {
	Magnitude float64 `json:"magnitude"`
	Name      string  `json:"name"`
}

// Vector3 is an XYZ triple written as an object
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Camera is the default camera of the viewer
type Camera struct {
	Position       Vector3 `json:"position"`
	LookAtPosition Vector3 `json:"lookAtPosition"`
	UpVector       Vector3 `json:"upVector"`
	FOVDegrees     float64 `json:"fovDegrees"`
}

// SpatialData holds one packed frame per timestep
type SpatialData struct {
	Version     int            `json:"version"`
	MsgType     int            `json:"msgType"`
	BundleStart int            `json:"bundleStart"`
	BundleSize  int            `json:"bundleSize"`
	BundleData  []buffer.Frame `json:"bundleData"`
}

// PlotData carries plots through untouched
type PlotData struct {
	Version int               `json:"version"`
	Data    []json.RawMessage `json:"data"`
}

func toVector3(v core.Vec3) Vector3 {
	return Vector3{X: v[0], Y: v[1], Z: v[2]}
}

func (v Vector3) vec3() core.Vec3 {
	return core.Vec3{v.X, v.Y, v.Z}
}
