package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pegjump/internal/api/request"
	"github.com/mcoot/pegjump/internal/api/response"
	"github.com/mcoot/pegjump/internal/model"
	"github.com/mcoot/pegjump/internal/services/session"
)

// SessionHandler handles game session endpoints
type SessionHandler struct {
	controller *session.Controller
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller *session.Controller) *SessionHandler {
	return &SessionHandler{
		controller: controller,
	}
}

func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(mux.Vars(r)["id"])
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s, err := h.controller.CreateSession(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.SessionStateFromModel(s))
}

// Get handles GET /api/v1/sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.controller.GetSession(r.Context(), sessionID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionStateFromModel(s))
}

// End handles DELETE /api/v1/sessions/{id}
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.EndSession(r.Context(), sessionID(r)); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Activate handles POST /api/v1/sessions/{id}/activate
func (h *SessionHandler) Activate(w http.ResponseWriter, r *http.Request) {
	var req request.ActivateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Row == nil || req.Col == nil {
		WriteError(w, NewInvalidRequestError("row and col are required"))
		return
	}

	activation, s, err := h.controller.ActivateCell(r.Context(), sessionID(r), *req.Row, *req.Col)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ActivateResponse{
		Activation: string(activation),
		State:      response.SessionStateFromModel(s),
	})
}

// Pan handles POST /api/v1/sessions/{id}/pan
func (h *SessionHandler) Pan(w http.ResponseWriter, r *http.Request) {
	var req request.PanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	s, err := h.controller.Pan(r.Context(), sessionID(r), req.Direction)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionStateFromModel(s))
}

// Undo handles POST /api/v1/sessions/{id}/undo
func (h *SessionHandler) Undo(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.controller.Undo)
}

// Reset handles POST /api/v1/sessions/{id}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.controller.Reset)
}

// DismissAdvisory handles DELETE /api/v1/sessions/{id}/advisory
func (h *SessionHandler) DismissAdvisory(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.controller.DismissAdvisory)
}

// respond runs a body-less session operation and writes the resulting state
func (h *SessionHandler) respond(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id model.SessionID) (*model.Session, error)) {
	s, err := op(r.Context(), sessionID(r))
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionStateFromModel(s))
}
