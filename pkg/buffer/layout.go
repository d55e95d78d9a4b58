// Package buffer implements the packed per-timestep agent buffer used on the
// wire, and its conversion to and from the dense core.AgentData model.
//
// A frame's data is a flat list of agent records with no separators:
//
//	[VIZ_TYPE, UID, TYPE_ID, POS_X, POS_Y, POS_Z, ROT_X, ROT_Y, ROT_Z, RADIUS,
//	 N_SUBPOINTS, SP_0_X, SP_0_Y, SP_0_Z, SP_1_X, ...]
//
// N_SUBPOINTS counts subpoint scalars, three per point, so every record is
// PrefixLen + N_SUBPOINTS values long.
package buffer

// Field offsets from the start of a record.
const (
	VizTypeIndex = iota
	UIDIndex
	TIDIndex
	PosXIndex
	PosYIndex
	PosZIndex
	RotXIndex
	RotYIndex
	RotZIndex
	RadiusIndex
	NSPIndex
	SPIndex
)

// PrefixLen is the number of fixed values in every record, which is also the
// length of a record without subpoints.
const PrefixLen = SPIndex

// ScalarsPerPoint is the number of values per subpoint.
const ScalarsPerPoint = 3

// RecordLen is the length of a record declaring nspScalars subpoint values.
func RecordLen(nspScalars int) int {
	return PrefixLen + nspScalars
}

// PointCount converts a subpoint scalar count to a point count.
func PointCount(nspScalars int) int {
	return nspScalars / ScalarsPerPoint
}

// Frame is one timestep on the wire.
type Frame struct {
	FrameNumber int       `json:"frameNumber"`
	Time        float64   `json:"time"`
	Data        []float64 `json:"data"`
}
