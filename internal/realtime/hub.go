package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/storefront/internal/notify"
	"github.com/yungbote/storefront/internal/platform/logger"
)

type Event string

const (
	EventCartChanged  Event = "CartChanged"
	EventNotification Event = "Notification"
)

type Message struct {
	Event Event `json:"event"`
	Data  any   `json:"data,omitempty"`
}

type Client struct {
	ID       uuid.UUID
	Outbound chan Message
	done     chan struct{}
	once     sync.Once
}

// Hub pushes cart changes and notifications to open storefront pages.
type Hub struct {
	mu        sync.RWMutex
	log       *logger.Logger
	clients   map[*Client]struct{}
	heartbeat time.Duration
}

func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		log:       log.With("component", "SSEHub"),
		clients:   make(map[*Client]struct{}),
		heartbeat: 15 * time.Second,
	}
}

// NewClient registers a subscriber. Callers must CloseClient it.
func (hub *Hub) NewClient() *Client {
	c := &Client{
		ID:       uuid.New(),
		Outbound: make(chan Message, 16),
		done:     make(chan struct{}),
	}
	hub.mu.Lock()
	hub.clients[c] = struct{}{}
	hub.mu.Unlock()
	hub.log.Debug("SSE client connected", "clientID", c.ID)
	return c
}

func (hub *Hub) Broadcast(msg Message) {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	for c := range hub.clients {
		select {
		case c.Outbound <- msg:
		default:
			hub.log.Warn("Dropping SSE message; outbound buffer full", "clientID", c.ID, "event", msg.Event)
		}
	}
}

// Notify makes the hub a notification sink.
func (hub *Hub) Notify(_ context.Context, n notify.Notification) error {
	hub.Broadcast(Message{Event: EventNotification, Data: n})
	return nil
}

func (hub *Hub) Clients() int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()
	return len(hub.clients)
}

func (hub *Hub) CloseClient(c *Client) {
	c.once.Do(func() {
		close(c.done)
		hub.mu.Lock()
		delete(hub.clients, c)
		hub.mu.Unlock()
		close(c.Outbound)
		hub.log.Debug("SSE client disconnected", "clientID", c.ID)
	})
}

// ServeHTTP streams c's messages until the request ends or c is closed.
func (hub *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request, c *Client) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	heartbeat := time.NewTicker(hub.heartbeat)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg, ok := <-c.Outbound:
			if !ok {
				return
			}
			raw, err := json.Marshal(msg)
			if err != nil {
				hub.log.Warn("Failed to marshal SSE message", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, raw)
			flusher.Flush()
		}
	}
}
