package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/simularium/simconv/internal/config"
	v1 "github.com/simularium/simconv/internal/export/v1"
	"github.com/simularium/simconv/pkg/streaming"
)

// Backend streams trajectories frame by frame to a viewer server.
// It implements storage.Backend but not storage.Loader.
type Backend struct {
	conn *connection
	cfg  config.WebSocketConfig

	// one trajectory is streamed at a time
	streamMu sync.Mutex
}

// New creates a new WebSocket storage backend.
func New(cfg config.WebSocketConfig, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	return &Backend{
		conn: newConnection(logger),
		cfg:  cfg,
	}
}

// Init connects to the WebSocket server.
func (b *Backend) Init() error {
	return b.conn.dial(b.cfg.URL, b.cfg.Secret)
}

// Close disconnects from the WebSocket server.
func (b *Backend) Close() error {
	return b.conn.close()
}

// marshalEnvelope builds a JSON-encoded Envelope from a message type and payload.
func marshalEnvelope(msgType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	env := streaming.Envelope{Type: msgType, Payload: raw}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("marshal %s envelope: %w", msgType, err)
	}
	return data, nil
}

// maxStreamAttempts bounds how often one trajectory is streamed from the
// start after its connection dropped.
const maxStreamAttempts = 3

// SaveTrajectory sends trajectory_info and waits for its ack, streams every
// frame, then sends end_trajectory and waits for the server to confirm. If
// the connection drops on the way the whole trajectory is streamed again on
// the new connection, so the server never confirms a partial trajectory.
func (b *Backend) SaveTrajectory(ctx context.Context, name string, env *v1.Envelope) error {
	b.streamMu.Lock()
	defer b.streamMu.Unlock()

	msgs, err := trajectoryMessages(name, env)
	if err != nil {
		return err
	}

	for attempt := 1; attempt <= maxStreamAttempts; attempt++ {
		err = b.stream(ctx, msgs)
		if !errors.Is(err, errConnectionDropped) {
			return err
		}
		b.conn.logger.Warn("Connection dropped while streaming, restarting trajectory",
			"name", name, "attempt", attempt)
	}
	return fmt.Errorf("stream %s: %w after %d attempts", name, err, maxStreamAttempts)
}

// streamMessages are the messages of one trajectory in send order.
type streamMessages struct {
	info   []byte
	frames [][]byte
	end    []byte
}

func trajectoryMessages(name string, env *v1.Envelope) (*streamMessages, error) {
	info, err := json.Marshal(env.TrajectoryInfo)
	if err != nil {
		return nil, fmt.Errorf("marshal trajectory info: %w", err)
	}
	plots, err := json.Marshal(env.PlotData)
	if err != nil {
		return nil, fmt.Errorf("marshal plot data: %w", err)
	}

	msgs := &streamMessages{}
	msgs.info, err = marshalEnvelope(streaming.TypeTrajectoryInfo, streaming.TrajectoryInfoPayload{
		Name:  name,
		Info:  info,
		Plots: plots,
	})
	if err != nil {
		return nil, err
	}

	frames := env.SpatialData.BundleData
	msgs.frames = make([][]byte, len(frames))
	for i, frame := range frames {
		msgs.frames[i], err = marshalEnvelope(streaming.TypeFrame, streaming.FramePayload{Name: name, Frame: frame})
		if err != nil {
			return nil, err
		}
	}

	msgs.end, err = marshalEnvelope(streaming.TypeEndTrajectory, streaming.EndTrajectoryPayload{
		Name:        name,
		TotalFrames: len(frames),
	})
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// stream sends msgs over one session of the connection.
func (b *Backend) stream(ctx context.Context, msgs *streamMessages) error {
	s := b.conn.current()

	if err := b.conn.sendAndWait(ctx, s, msgs.info, streaming.TypeTrajectoryInfo, ackTimeout); err != nil {
		return err
	}
	for i, data := range msgs.frames {
		if err := b.conn.send(ctx, s, data); err != nil {
			return fmt.Errorf("send frame %d: %w", i, err)
		}
	}
	return b.conn.sendAndWait(ctx, s, msgs.end, streaming.TypeEndTrajectory, ackTimeout)
}
