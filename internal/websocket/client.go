package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"intituas-ai-be/internal/constant"
	"intituas-ai-be/internal/dto"
	"intituas-ai-be/internal/pkg/serverutils"

	"github.com/gofiber/websocket/v2"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 256 * 1024
)

const (
	FrameAnswer         = "answer"
	FrameError          = "error"
	FrameHistoryUpdated = constant.HistoryUpdatedNotification
)

// Frame is every message the server writes.
type Frame struct {
	Type  string      `json:"type"`
	Id    string      `json:"id,omitempty"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// inboundFrame is an AnswerRequest plus an optional correlation id echoed
// back on the reply.
type inboundFrame struct {
	Id string `json:"id,omitempty"`
	dto.AnswerRequest
}

type Answerer interface {
	Answer(ctx context.Context, req dto.AnswerRequest) dto.AnswerResponse
}

// AllowFunc reports whether one more generative call may run.
type AllowFunc func(ctx context.Context) bool

// Client is a middleman between the websocket connection and the hub.
type Client struct {
	Hub *Hub

	Conn *websocket.Conn

	// UserID is "" for anonymous sockets
	UserID string

	// Buffered channel of outbound messages.
	Send chan []byte

	answerer Answerer
	allow    AllowFunc
}

func NewClient(hub *Hub, conn *websocket.Conn, userId string, answerer Answerer, allow AllowFunc) *Client {
	return &Client{
		Hub:      hub,
		Conn:     conn,
		UserID:   userId,
		Send:     make(chan []byte, 64),
		answerer: answerer,
		allow:    allow,
	}
}

// Serve registers the client and pumps until the peer goes away or the hub
// stops.
func (c *Client) Serve() {
	if !c.Hub.Register(c) {
		c.Conn.Close()
		return
	}
	go c.writePump()
	c.readPump()
}

// handleFrame answers one inbound frame. Frames are handled in order, one at
// a time per connection.
func (c *Client) handleFrame(ctx context.Context, raw []byte) Frame {
	var in inboundFrame
	if err := json.Unmarshal(raw, &in); err != nil {
		return Frame{Type: FrameError, Error: "Invalid frame"}
	}

	if err := serverutils.ValidateRequest(&in.AnswerRequest); err != nil {
		var verr *serverutils.ValidationError
		if errors.As(err, &verr) {
			return Frame{Type: FrameError, Id: in.Id, Error: "Validation failed", Data: verr.Fields}
		}
		return Frame{Type: FrameError, Id: in.Id, Error: "Validation failed"}
	}

	if c.allow != nil && !c.allow(ctx) {
		return Frame{Type: FrameError, Id: in.Id, Error: constant.UsageLimitMessage}
	}

	in.UserId = c.UserID
	return Frame{Type: FrameAnswer, Id: in.Id, Data: c.answerer.Answer(ctx, in.AnswerRequest)}
}

func (c *Client) queue(frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	select {
	case c.Send <- data:
	default:
		c.Hub.logger.Warn("Client", "Send buffer full, dropping frame", map[string]interface{}{"user_id": c.UserID})
	}
}

// readPump reads question frames and queues the replies.
func (c *Client) readPump() {
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		// Answers can outlast a pong interval, so the deadline restarts per read.
		_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn("Client", "Unexpected websocket close", map[string]interface{}{"user_id": c.UserID, "error": err.Error()})
			}
			return
		}
		c.queue(c.handleFrame(ctx, raw))
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-c.Hub.done:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
