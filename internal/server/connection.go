package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lox/galaxygen/galaxy"
	"github.com/lox/galaxygen/internal/preset"
	"github.com/lox/galaxygen/internal/session"
	"golang.org/x/time/rate"
)

// Connection represents a WebSocket connection to a viewer
type Connection struct {
	id        string
	conn      *websocket.Conn
	send      chan *Message
	session   *session.Session
	limiter   *rate.Limiter
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	sendMu    sync.RWMutex
	closed    bool
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, sess *session.Session, limiter *rate.Limiter, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	id := uuid.NewString()

	return &Connection{
		id:      id,
		conn:    conn,
		send:    make(chan *Message, 64),
		session: sess,
		limiter: limiter,
		logger:  logger.WithPrefix("conn").With("id", id[:8]),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// ID returns the connection's unique id
func (c *Connection) ID() string {
	return c.id
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Done is closed when the connection shuts down
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		c.sendMu.Lock()
		c.closed = true
		close(c.send)
		c.sendMu.Unlock()
		err = c.conn.Close()
	})
	return err
}

// ErrConnectionClosed is returned when sending on a closed connection
var ErrConnectionClosed = errors.New("connection closed")

// ErrSendBufferFull is returned when a slow viewer falls too far behind
var ErrSendBufferFull = errors.New("send buffer full")

// SendMessage queues a message for the viewer without blocking
func (c *Connection) SendMessage(msg *Message) error {
	c.sendMu.RLock()
	if c.closed {
		c.sendMu.RUnlock()
		return ErrConnectionClosed
	}

	select {
	case c.send <- msg:
		c.sendMu.RUnlock()
		return nil
	default:
		c.sendMu.RUnlock()
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrSendBufferFull
	}
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096
)

// readPump handles incoming messages from the viewer
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the viewer
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes incoming messages from the viewer
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type)

	switch msg.Type {
	case MessageTypeSetParam:
		var data SetParamData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse set_param data")
			return
		}
		c.handleSetParam(data)

	case MessageTypeApplyPreset:
		var data ApplyPresetData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse apply_preset data")
			return
		}
		c.regenerate(func(ctx context.Context) (*galaxy.Cloud, error) {
			return c.session.ApplyPreset(ctx, data.Name)
		})

	case MessageTypeRandomize:
		c.regenerate(c.session.Randomize)

	case MessageTypeRegenerate:
		c.regenerate(c.session.Regenerate)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) handleSetParam(data SetParamData) {
	if err := c.session.Set(data.Key, data.Value); err != nil {
		code := "invalid_value"
		if errors.Is(err, session.ErrUnknownKey) {
			code = "unknown_param"
		}
		c.sendError(code, err.Error())
		return
	}

	c.logger.Debug("Parameter updated", "key", data.Key, "value", data.Value)
	response, err := NewMessage(MessageTypeSettings, SettingsData{Settings: c.session.Settings()})
	if err != nil {
		c.logger.Error("Failed to create settings message", "error", err)
		return
	}
	_ = c.SendMessage(response)
}

// regenerate runs a cloud-producing session call under the per-connection
// rate limit. The new cloud reaches every viewer through the session listener.
func (c *Connection) regenerate(fn func(ctx context.Context) (*galaxy.Cloud, error)) {
	if !c.limiter.Allow() {
		c.sendError("rate_limited", "Too many regeneration requests")
		return
	}

	if _, err := fn(c.ctx); err != nil {
		code := "regenerate_failed"
		switch {
		case errors.Is(err, preset.ErrUnknownPreset):
			code = "unknown_preset"
		case errors.Is(err, galaxy.ErrInvalidParameter):
			code = "invalid_parameter"
		}
		c.sendError(code, err.Error())
	}
}

// sendError sends an error message to the viewer
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}
	_ = c.SendMessage(errorMsg)
}
