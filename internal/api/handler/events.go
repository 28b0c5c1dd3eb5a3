package handler

import (
	"net/http"

	"github.com/mcoot/pegjump/internal/api/stream"
	"github.com/mcoot/pegjump/internal/services/session"
)

// EventsHandler streams session events over websockets
type EventsHandler struct {
	controller *session.Controller
	hub        *stream.Hub
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(controller *session.Controller, hub *stream.Hub) *EventsHandler {
	return &EventsHandler{
		controller: controller,
		hub:        hub,
	}
}

// Stream handles GET /api/v1/sessions/{id}/ws
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)

	// Refuse the upgrade for unknown sessions so clients get a JSON error
	if _, err := h.controller.GetSession(r.Context(), id); err != nil {
		WriteError(w, err)
		return
	}

	stream.ServeWS(w, r, h.hub, id)
}
