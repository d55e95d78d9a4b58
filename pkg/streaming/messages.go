// Package streaming defines the messages a trajectory is streamed to a
// viewer server with.
package streaming

import (
	"encoding/json"

	"github.com/simularium/simconv/pkg/buffer"
)

// Message type constants matching the streaming protocol.
const (
	TypeTrajectoryInfo = "trajectory_info"
	TypeFrame          = "frame"
	TypeEndTrajectory  = "end_trajectory"
	TypeAck            = "ack"
)

// Envelope wraps all messages sent over the WebSocket.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// AckMessage is the server's acknowledgement response.
type AckMessage struct {
	Type string `json:"type"` // always "ack"
	For  string `json:"for"`  // the message type being acknowledged
}

// TrajectoryInfoPayload opens a trajectory. Info and Plots hold the
// trajectoryInfo and plotData objects of the trajectory envelope. Receiving
// it for a name that is already open starts that trajectory over.
type TrajectoryInfoPayload struct {
	Name  string          `json:"name"`
	Info  json.RawMessage `json:"info"`
	Plots json.RawMessage `json:"plots,omitempty"`
}

// FramePayload carries one packed frame.
type FramePayload struct {
	Name  string       `json:"name"`
	Frame buffer.Frame `json:"frame"`
}

// EndTrajectoryPayload closes a trajectory.
type EndTrajectoryPayload struct {
	Name        string `json:"name"`
	TotalFrames int    `json:"totalFrames"`
}
