package stream

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/mcoot/pegjump/internal/model"
	"github.com/mcoot/pegjump/internal/services/session"
)

// Hub fans session events out to websocket clients as JSON messages
type Hub struct {
	mu      sync.RWMutex
	clients map[model.SessionID]map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates an empty Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[model.SessionID]map[*Client]struct{}),
		logger:  logger.With(slog.String("component", "stream")),
	}
}

// Register adds a client to its session's audience
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[client.sessionID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[client.sessionID] = set
	}
	set[client] = struct{}{}

	h.logger.Info("stream client registered",
		slog.String("session_id", string(client.sessionID)),
		slog.Int("session_clients", len(set)))
}

// Unregister removes a client and closes its send channel. Safe to call twice.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	set, ok := h.clients[client.sessionID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	close(client.send)
	if len(set) == 0 {
		delete(h.clients, client.sessionID)
	}
	h.logger.Info("stream client unregistered", slog.String("session_id", string(client.sessionID)))
}

// HandleUpdate is a session.Subscriber. Every event becomes one message;
// a session_ended update disconnects the session's clients afterwards.
func (h *Hub) HandleUpdate(u session.Update) {
	for _, evt := range u.Events {
		data, err := json.Marshal(evt)
		if err != nil {
			h.logger.Error("failed to encode event",
				slog.String("session_id", string(evt.SessionID)),
				slog.String("error", err.Error()))
			continue
		}
		h.Send(evt.SessionID, data)
	}

	if u.Session != nil && u.HasEvent(model.EventSessionEnded) {
		h.CloseSession(u.Session.ID)
	}
}

// Send queues a message for every client of a session. Clients whose buffer
// is full miss the message.
func (h *Hub) Send(id model.SessionID, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[id] {
		select {
		case client.send <- message:
		default:
			h.logger.Warn("stream message dropped - client buffer full",
				slog.String("session_id", string(id)))
		}
	}
}

// CloseSession disconnects every client of a session
func (h *Hub) CloseSession(id model.SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients[id] {
		h.removeLocked(client)
	}
}

// Close disconnects every client
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.clients {
		for client := range set {
			h.removeLocked(client)
		}
	}
}

// ClientCount returns the number of clients watching a session
func (h *Hub) ClientCount(id model.SessionID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[id])
}
