package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// Event is the frame pushed to browsers.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ClientObserver is told how many clients are connected after every change.
type ClientObserver interface {
	SetWSClients(n int)
}

type topicEvent struct {
	topic string
	data  []byte
}

// Hub keeps websocket clients grouped by topic and fans events out to them.
// A topic is "<session>:<resource>".
type Hub struct {
	topics     map[string]map[*Client]struct{}
	broadcast  chan topicEvent
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	closeOnce  sync.Once
	mu         sync.RWMutex
	observer   ClientObserver
	logger     *zap.Logger
}

// NewHub creates a hub. Run must be started before clients connect.
func NewHub(observer ClientObserver, logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		topics:     make(map[string]map[*Client]struct{}),
		broadcast:  make(chan topicEvent, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		observer:   observer,
		logger:     logger,
	}
}

// Run processes registrations and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			clients, ok := h.topics[client.topic]
			if !ok {
				clients = make(map[*Client]struct{})
				h.topics[client.topic] = clients
			}
			clients[client] = struct{}{}
			h.mu.Unlock()
			h.report()

		case client := <-h.unregister:
			h.remove(client)

		case event := <-h.broadcast:
			h.mu.Lock()
			for client := range h.topics[event.topic] {
				select {
				case client.send <- event.data:
				default:
					h.logger.Warn("dropping slow websocket client", zap.String("topic", event.topic), zap.String("client_id", client.id))
					h.dropLocked(client)
				}
			}
			h.mu.Unlock()
			h.report()
		}
	}
}

// Publish queues a state event for every client of topic. It never blocks;
// when the broadcast buffer is full the event is dropped.
func (h *Hub) Publish(topic string, payload interface{}) {
	if h == nil {
		return
	}
	data, err := json.Marshal(Event{Type: "state", Data: payload})
	if err != nil {
		h.logger.Warn("failed to encode websocket event", zap.String("topic", topic), zap.Error(err))
		return
	}
	select {
	case h.broadcast <- topicEvent{topic: topic, data: data}:
	default:
		h.logger.Warn("websocket broadcast buffer full", zap.String("topic", topic))
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.topics {
		n += len(clients)
	}
	return n
}

// ErrHubClosed is returned by Serve once Run has stopped.
var ErrHubClosed = errors.New("websocket hub closed")

func (h *Hub) subscribe(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.done:
		return ErrHubClosed
	}
}

func (h *Hub) unsubscribe(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	h.dropLocked(client)
	h.mu.Unlock()
	h.report()
}

func (h *Hub) dropLocked(client *Client) {
	clients, ok := h.topics[client.topic]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.topics, client.topic)
	}
}

func (h *Hub) closeAll() {
	h.closeOnce.Do(func() { close(h.done) })
	h.mu.Lock()
	for topic, clients := range h.topics {
		for client := range clients {
			close(client.send)
		}
		delete(h.topics, topic)
	}
	h.mu.Unlock()
	h.report()
}

func (h *Hub) report() {
	if h.observer == nil {
		return
	}
	h.observer.SetWSClients(h.Clients())
}
