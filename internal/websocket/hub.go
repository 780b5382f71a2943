package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"intituas-ai-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const clusterChannel = "intituas:ws"

type Hub struct {
	// userId -> connected clients; anonymous sockets live under ""
	clients map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	// closed once Run returns
	done chan struct{}

	mu sync.RWMutex

	// Redis fans notifications out to the other instances
	rdb        *redis.Client
	instanceID string

	logger logger.ILogger
}

type clusterMessage struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	defer h.stop()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.UserID] == nil {
				h.clients[client.UserID] = make(map[*Client]struct{})
			}
			h.clients[client.UserID][client] = struct{}{}
			h.mu.Unlock()
			h.logger.Debug("Hub", "Client registered", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if set, ok := h.clients[client.UserID]; ok {
				if _, ok := set[client]; ok {
					delete(set, client)
					close(client.Send)
				}
				if len(set) == 0 {
					delete(h.clients, client.UserID)
				}
			}
			h.mu.Unlock()
			h.logger.Debug("Hub", "Client unregistered", map[string]interface{}{"user_id": client.UserID})
		}
	}
}

// stop signals the write pumps to hang up and releases anyone still waiting
// on register or unregister. Send channels stay open: a read pump may still
// be queueing its last reply.
func (h *Hub) stop() {
	close(h.done)
	h.mu.Lock()
	h.clients = make(map[string]map[*Client]struct{})
	h.mu.Unlock()
}

// Done is closed once Run returns.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// Register adds the client to the hub. It reports false once the hub has
// stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes the client and closes its send channel. It is a no-op
// once the hub has stopped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Connections reports how many sockets are open on this instance.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// Notify pushes a frame to every socket of userId, here and on the other
// instances. Anonymous sockets are never addressed.
func (h *Hub) Notify(userId, frameType string, data interface{}) {
	if userId == "" {
		return
	}

	payload, err := json.Marshal(Frame{Type: frameType, Data: data})
	if err != nil {
		h.logger.Error("Hub", "Failed to encode notification", map[string]interface{}{"error": err.Error()})
		return
	}

	h.deliverLocal(userId, payload)

	if h.rdb != nil {
		msg, _ := json.Marshal(clusterMessage{Origin: h.instanceID, TargetUserID: userId, Message: payload})
		if err := h.rdb.Publish(context.Background(), clusterChannel, msg).Err(); err != nil {
			h.logger.Warn("Hub", "Failed to publish cluster notification", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *Hub) deliverLocal(userId string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[userId] {
		select {
		case client.Send <- payload:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping message", map[string]interface{}{"user_id": userId})
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()
	messages := pubsub.Channel()

	for {
		var msg *redis.Message
		select {
		case <-ctx.Done():
			return
		case m, ok := <-messages:
			if !ok {
				return
			}
			msg = m
		}

		var payload clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("Hub", "Dropping malformed cluster message", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.Origin == h.instanceID {
			continue
		}
		h.deliverLocal(payload.TargetUserID, payload.Message)
	}
}
