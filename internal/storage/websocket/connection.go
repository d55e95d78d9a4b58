package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	ws "github.com/gorilla/websocket"

	"github.com/simularium/simconv/pkg/streaming"
)

const (
	sendChSize   = 1024
	ackChSize    = 16
	maxReconnect = 10
	maxBackoff   = 30 * time.Second
	writeWait    = 10 * time.Second
	ackTimeout   = 30 * time.Second
)

// errConnectionDropped is returned to a stream whose connection dropped
// after the stream started. Messages of that stream may not have arrived.
var errConnectionDropped = errors.New("websocket connection dropped")

// outgoing is a queued message tagged with the connection epoch it was
// queued for.
type outgoing struct {
	epoch uint64
	data  []byte
}

// incomingAck is an ack tagged with the epoch of the connection it was
// read from.
type incomingAck struct {
	epoch uint64
	ack   streaming.AckMessage
}

// session identifies one unbroken stretch of a connection.
type session struct {
	epoch   uint64
	dropped <-chan struct{}
}

// connection manages a WebSocket connection with a single write goroutine.
type connection struct {
	mu     sync.Mutex
	conn   *ws.Conn
	sendCh chan outgoing
	ackCh  chan incomingAck
	done   chan struct{} // closed on shutdown
	closed bool

	// epoch counts dropped connections; dropped is closed when the
	// connection of the current epoch drops.
	epoch   uint64
	dropped chan struct{}

	// stopWriter ends the running writeLoop, which closes writerExited.
	stopWriter   chan struct{}
	writerExited chan struct{}

	wsURL   string
	secret  string
	backoff time.Duration

	logger *slog.Logger
}

func newConnection(logger *slog.Logger) *connection {
	return &connection{
		sendCh:  make(chan outgoing, sendChSize),
		ackCh:   make(chan incomingAck, ackChSize),
		done:    make(chan struct{}),
		dropped: make(chan struct{}),
		backoff: time.Second,
		logger:  logger,
	}
}

// dial connects to the WebSocket server and starts read/write loops.
func (c *connection) dial(rawURL, secret string) error {
	c.wsURL = rawURL
	c.secret = secret

	conn, err := c.dialOnce()
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.startLoops(conn)
	c.mu.Unlock()

	return nil
}

// startLoops makes conn current and starts its read/write loops.
// c.mu must be held.
func (c *connection) startLoops(conn *ws.Conn) {
	c.conn = conn
	c.stopWriter = make(chan struct{})
	c.writerExited = make(chan struct{})
	go c.writeLoop(conn, c.stopWriter, c.writerExited)
	go c.readLoop(conn, c.epoch)
}

// dialOnce performs a single WebSocket dial with the secret query param.
func (c *connection) dialOnce() (*ws.Conn, error) {
	u, err := url.Parse(c.wsURL)
	if err != nil {
		return nil, fmt.Errorf("invalid websocket URL: %w", err)
	}
	q := u.Query()
	q.Set("secret", c.secret)
	u.RawQuery = q.Encode()

	conn, _, err := ws.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial failed: %w", err)
	}
	return conn, nil
}

// current returns the session that newly queued messages belong to.
func (c *connection) current() session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return session{epoch: c.epoch, dropped: c.dropped}
}

// writeLoop drains sendCh and writes messages to conn. Messages queued for
// an earlier epoch are discarded. It returns on error, stop or shutdown.
func (c *connection) writeLoop(conn *ws.Conn, stop <-chan struct{}, exited chan<- struct{}) {
	defer close(exited)
	for {
		select {
		case <-c.done:
			return
		case <-stop:
			return
		case msg := <-c.sendCh:
			c.mu.Lock()
			epoch := c.epoch
			c.mu.Unlock()

			if msg.epoch != epoch {
				c.logger.Debug("Discarding message queued before reconnect", "epoch", msg.epoch)
				continue
			}

			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.logger.Warn("WebSocket SetWriteDeadline error", "error", err)
				go c.reconnect(conn)
				return
			}
			if err := conn.WriteMessage(ws.TextMessage, msg.data); err != nil {
				c.logger.Warn("WebSocket write error", "error", err)
				go c.reconnect(conn)
				return
			}
		}
	}
}

// readLoop reads ack messages from conn, which belongs to epoch, and routes
// them to ackCh.
func (c *connection) readLoop(conn *ws.Conn, epoch uint64) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
				return
			default:
			}
			c.logger.Warn("WebSocket read error", "error", err)
			go c.reconnect(conn)
			return
		}

		var ack streaming.AckMessage
		if err := json.Unmarshal(message, &ack); err != nil {
			c.logger.Debug("Non-ack message received", "raw", string(message))
			continue
		}

		if ack.Type == streaming.TypeAck {
			select {
			case c.ackCh <- incomingAck{epoch: epoch, ack: ack}:
			default:
				c.logger.Debug("Ack channel full, dropping", "for", ack.For)
			}
		}
	}
}

// reconnect replaces the failed connection, retrying with exponential
// backoff. Once the old writer has exited it starts a new epoch, so the
// stream that was running when failed dropped is told to start over. Only
// the first caller for a given failed connection does anything.
func (c *connection) reconnect(failed *ws.Conn) {
	c.mu.Lock()
	if c.closed || c.conn != failed {
		c.mu.Unlock()
		return
	}
	c.conn = nil
	stop, exited := c.stopWriter, c.writerExited
	c.mu.Unlock()

	_ = failed.Close()
	close(stop)
	<-exited

	c.mu.Lock()
	c.epoch++
	close(c.dropped)
	c.dropped = make(chan struct{})
	c.mu.Unlock()

	backoff := c.backoff
	for attempt := 1; attempt <= maxReconnect; attempt++ {
		select {
		case <-c.done:
			return
		case <-time.After(backoff):
		}

		c.logger.Info("Reconnecting to WebSocket", "attempt", attempt)
		conn, err := c.dialOnce()
		if err != nil {
			c.logger.Warn("Reconnect dial failed", "attempt", attempt, "error", err)
			backoff = min(backoff*2, maxBackoff)
			continue
		}

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			_ = conn.Close()
			return
		}
		c.startLoops(conn)
		c.mu.Unlock()

		c.logger.Info("WebSocket reconnected", "attempt", attempt)
		return
	}

	c.logger.Error("WebSocket reconnect failed after max attempts", "maxAttempts", maxReconnect)
}

// send queues data for the write loop, blocking while the queue is full.
// It fails with errConnectionDropped once s has ended.
func (c *connection) send(ctx context.Context, s session, data []byte) error {
	select {
	case <-s.dropped:
		return errConnectionDropped
	default:
	}

	select {
	case c.sendCh <- outgoing{epoch: s.epoch, data: data}:
		return nil
	case <-s.dropped:
		return errConnectionDropped
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return fmt.Errorf("connection closed")
	}
}

// sendAndWait sends data and blocks until the server acknowledges with a
// matching ack message, the timeout expires, s ends or ctx is done.
func (c *connection) sendAndWait(ctx context.Context, s session, data []byte, ackFor string, timeout time.Duration) error {
	if err := c.send(ctx, s, data); err != nil {
		return err
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case in := <-c.ackCh:
			if in.epoch == s.epoch && in.ack.For == ackFor {
				return nil
			}
			// Not our ack, keep waiting.
		case <-s.dropped:
			return errConnectionDropped
		case <-timer.C:
			return fmt.Errorf("timeout waiting for ack of %q", ackFor)
		case <-ctx.Done():
			return ctx.Err()
		case <-c.done:
			return fmt.Errorf("connection closed while waiting for ack of %q", ackFor)
		}
	}
}

// close sends a WebSocket close frame and shuts down all goroutines.
func (c *connection) close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.WriteMessage(
			ws.CloseMessage,
			ws.FormatCloseMessage(ws.CloseNormalClosure, ""),
		)
		return conn.Close()
	}
	return nil
}
