package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/dukerupert/society/internal/events"
)

// Stats counts per-client deliveries since the hub was created.
type Stats struct {
	Delivered int `json:"delivered"`
	Filtered  int `json:"filtered"`
	Dropped   int `json:"dropped"`
}

// Hub tracks live-feed subscribers and fans change messages out to those
// whose entity filter matches. It satisfies events.Broadcaster.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	stats   Stats
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	n := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("subscriber joined", "clients", n, "entities", c.filterList())
}

// Unregister removes a client and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		h.logger.Debug("subscriber left", "clients", n)
	}
}

// Broadcast queues msg on every subscribed client. A client whose buffer is
// full misses the message; the writer is never blocked.
func (h *Hub) Broadcast(msg events.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encode change message", "type", msg.Type, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		if !c.wants(msg.Entity) {
			h.stats.Filtered++
			continue
		}
		select {
		case c.send <- data:
			h.stats.Delivered++
		default:
			h.stats.Dropped++
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Stats() Stats {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.stats
}

// Dropped returns how many deliveries were skipped on full buffers.
func (h *Hub) Dropped() int {
	return h.Stats().Dropped
}
