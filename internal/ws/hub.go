package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/nyc360/feed-engine/pkg/logger"
)

const redisPubSubChannel = "nyc360:feed:events"

// Event types pushed to the browser
const (
	EventToasts = "toasts"
)

// Event represents a real-time event sent via WebSocket
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub manages WebSocket clients and broadcasts messages
type Hub struct {
	// Registered clients grouped by viewer key
	clients map[string]map[*Client]bool

	// Register/unregister channels
	register   chan *Client
	unregister chan *Client

	// Broadcast to a specific viewer
	broadcast chan *targetedEvent

	// Events for other instances, drained by publishRedis
	publish chan *redisMessage

	mu          sync.RWMutex
	redisClient *redis.Client
	instanceID  string
	ctx         context.Context
	cancel      context.CancelFunc
}

type targetedEvent struct {
	ViewerKey string
	Data      []byte
	// set for events raised here, which other instances must see too
	Fanout bool
}

// NewHub creates a new Hub. redisClient may be nil for a single instance.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *targetedEvent, 256),
		publish:     make(chan *redisMessage, 256),
		redisClient: redisClient,
		instanceID:  uuid.NewString(),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.ctx.Done():
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	// Start Redis subscriber if Redis is available
	if h.redisClient != nil {
		go h.subscribeRedis()
		go h.publishRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.viewerKey] == nil {
				h.clients[client.viewerKey] = make(map[*Client]bool)
			}
			h.clients[client.viewerKey][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients[msg.ViewerKey] {
				select {
				case client.send <- msg.Data:
				default:
					// slow consumer
					h.removeLocked(client)
				}
			}
			h.mu.Unlock()
			if msg.Fanout && h.redisClient != nil {
				h.forward(msg)
			}

		case <-h.ctx.Done():
			return
		}
	}
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.viewerKey]
	if !ok {
		return
	}
	if _, ok := clients[client]; ok {
		delete(clients, client)
		close(client.send)
		if len(clients) == 0 {
			delete(h.clients, client.viewerKey)
		}
	}
}

// SendToViewer queues an event for every connection of a viewer, here and on
// other instances through Redis. It never blocks: callers hold viewer locks.
// It reports false when the event was dropped.
func (h *Hub) SendToViewer(viewerKey string, event *Event) bool {
	data, err := json.Marshal(event)
	if err != nil {
		logger.GetLogger().Error().Err(err).Str("type", event.Type).Msg("ws: marshal event")
		return false
	}
	select {
	case h.broadcast <- &targetedEvent{ViewerKey: viewerKey, Data: data, Fanout: true}:
		return true
	case <-h.ctx.Done():
		return false
	default:
		logger.GetLogger().Warn().Str("viewer", viewerKey).Str("type", event.Type).Msg("ws: broadcast queue full, event dropped")
		return false
	}
}

// forward hands an event to the Redis publisher without stalling the loop
func (h *Hub) forward(msg *targetedEvent) {
	select {
	case h.publish <- &redisMessage{Origin: h.instanceID, ViewerKey: msg.ViewerKey, Event: msg.Data}:
	default:
		logger.GetLogger().Warn().Str("viewer", msg.ViewerKey).Msg("ws: publish queue full, event not fanned out")
	}
}

// publishRedis sends queued events to the other instances, in queue order
func (h *Hub) publishRedis() {
	for {
		select {
		case msg := <-h.publish:
			payload, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := h.redisClient.Publish(h.ctx, redisPubSubChannel, payload).Err(); err != nil && h.ctx.Err() == nil {
				logger.GetLogger().Warn().Err(err).Str("viewer", msg.ViewerKey).Msg("ws: redis publish failed")
			}
		case <-h.ctx.Done():
			return
		}
	}
}

// Connections returns the number of open sockets for viewerKey
func (h *Hub) Connections(viewerKey string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[viewerKey])
}

// deliver queues an event from another instance for local connections only
func (h *Hub) deliver(viewerKey string, data []byte) {
	select {
	case h.broadcast <- &targetedEvent{ViewerKey: viewerKey, Data: data}:
	case <-h.ctx.Done():
	}
}

type redisMessage struct {
	Origin    string          `json:"origin"`
	ViewerKey string          `json:"viewer_key"`
	Event     json.RawMessage `json:"event"`
}

// subscribeRedis listens for events published by other instances
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var rm redisMessage
			if err := json.Unmarshal([]byte(msg.Payload), &rm); err != nil || rm.Origin == h.instanceID {
				continue
			}
			h.deliver(rm.ViewerKey, rm.Event)
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}
