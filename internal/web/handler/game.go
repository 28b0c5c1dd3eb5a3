package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/pegjump/internal/model"
	"github.com/mcoot/pegjump/internal/services/session"
	"github.com/mcoot/pegjump/internal/web/middleware"
	"github.com/mcoot/pegjump/internal/web/sse"
	"github.com/mcoot/pegjump/internal/web/templates/components"
	"github.com/mcoot/pegjump/internal/web/templates/layout"
	"github.com/mcoot/pegjump/internal/web/templates/pages"
)

// GameHandler handles game pages and actions
type GameHandler struct {
	sessionController *session.Controller
	hubManager        *sse.HubManager
	logger            *slog.Logger
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(sessionController *session.Controller, hubManager *sse.HubManager, logger *slog.Logger) *GameHandler {
	return &GameHandler{
		sessionController: sessionController,
		hubManager:        hubManager,
		logger:            logger.With(slog.String("component", "web-game")),
	}
}

// Create starts a new game and sends the browser to it
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessionController.CreateSession(r.Context())
	if err != nil {
		h.logger.Error("failed to create session", slog.Any("error", err))
		middleware.SetFlash(w, middleware.FlashError, "Could not start a new game")
		redirect(w, r, "/")
		return
	}
	redirect(w, r, components.GamePath(sess.ID))
}

// View renders the game page
func (h *GameHandler) View(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessionController.GetSession(r.Context(), sessionID(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data := pages.GameData{
		PageData: layout.PageData{
			Title: "Game",
			Flash: middleware.GetFlash(r.Context()),
		},
		Game: components.NewGameView(sess),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Game(data).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render game page", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// Cell activates the cell named by the form's visible row and col
func (h *GameHandler) Cell(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if err := r.ParseForm(); err != nil {
		h.badRequest(w, r, id, "Invalid form data")
		return
	}
	row, err := strconv.Atoi(r.FormValue("row"))
	if err != nil {
		h.badRequest(w, r, id, "Invalid row")
		return
	}
	col, err := strconv.Atoi(r.FormValue("col"))
	if err != nil {
		h.badRequest(w, r, id, "Invalid column")
		return
	}

	_, sess, err := h.sessionController.ActivateCell(r.Context(), id, row, col)
	h.respond(w, r, sess, err)
}

// Pan moves the viewport in the direction named by the path
func (h *GameHandler) Pan(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	sess, err := h.sessionController.Pan(r.Context(), id, mux.Vars(r)["direction"])
	if errors.Is(err, model.ErrInvalidDirection) {
		h.badRequest(w, r, id, "Unknown pan direction")
		return
	}
	h.respond(w, r, sess, err)
}

// Undo reverts the last move
func (h *GameHandler) Undo(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessionController.Undo(r.Context(), sessionID(r))
	h.respond(w, r, sess, err)
}

// Reset starts the game over
func (h *GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessionController.Reset(r.Context(), sessionID(r))
	h.respond(w, r, sess, err)
}

// Dismiss hides the advisory toast
func (h *GameHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	sess, err := h.sessionController.DismissAdvisory(r.Context(), sessionID(r))
	h.respond(w, r, sess, err)
}

// End finishes the game and returns to the home page
func (h *GameHandler) End(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionController.EndSession(r.Context(), sessionID(r)); err != nil {
		h.fail(w, r, err)
		return
	}
	middleware.SetFlash(w, middleware.FlashInfo, "Game ended")
	redirect(w, r, "/")
}

// Events streams game fragments for the session over SSE
func (h *GameHandler) Events(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if _, err := h.sessionController.GetSession(r.Context(), id); err != nil {
		if errors.Is(err, model.ErrSessionNotFound) {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load session for events", slog.String("session_id", string(id)), slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	sse.ServeSSE(w, r, h.hubManager.GetOrCreateHub(id))
}

// respond answers an action: HTMX requests get the re-rendered game body,
// plain form posts are redirected back to the game page
func (h *GameHandler) respond(w http.ResponseWriter, r *http.Request, sess *model.Session, err error) {
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !isHTMX(r) {
		http.Redirect(w, r, components.GamePath(sess.ID), http.StatusSeeOther)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := components.GameBody(components.NewGameView(sess)).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render game", slog.String("session_id", string(sess.ID)), slog.Any("error", err))
	}
}

// fail sends unknown sessions home with a flash and reports anything else as a 500
func (h *GameHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, model.ErrSessionNotFound) {
		middleware.SetFlash(w, middleware.FlashError, "Game not found")
		redirect(w, r, "/")
		return
	}
	if errors.Is(err, model.ErrConcurrentUpdate) {
		h.logger.Warn("game action lost a race", slog.String("session_id", string(sessionID(r))))
		if isHTMX(r) {
			http.Error(w, "Game is busy, try again", http.StatusConflict)
			return
		}
		middleware.SetFlash(w, middleware.FlashError, "Game is busy, try again")
		http.Redirect(w, r, components.GamePath(sessionID(r)), http.StatusSeeOther)
		return
	}
	h.logger.Error("game action failed",
		slog.String("session_id", string(sessionID(r))),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func (h *GameHandler) badRequest(w http.ResponseWriter, r *http.Request, id model.SessionID, message string) {
	if isHTMX(r) {
		http.Error(w, message, http.StatusBadRequest)
		return
	}
	middleware.SetFlash(w, middleware.FlashError, message)
	http.Redirect(w, r, components.GamePath(id), http.StatusSeeOther)
}

// redirect navigates the browser, using HX-Redirect for HTMX requests
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func sessionID(r *http.Request) model.SessionID {
	return model.SessionID(mux.Vars(r)["id"])
}
