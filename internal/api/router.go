package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pegjump/internal/api/handler"
	"github.com/mcoot/pegjump/internal/api/middleware"
	"github.com/mcoot/pegjump/internal/api/response"
	"github.com/mcoot/pegjump/internal/api/stream"
	"github.com/mcoot/pegjump/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	SessionController *session.Controller
	StreamHub         *stream.Hub
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	Mount(r, cfg)
	return r
}

// Mount registers the API routes under /api/v1 on an existing router
func Mount(r *mux.Router, cfg RouterConfig) {
	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.SessionController)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Session routes
	sessions := api.PathPrefix("/sessions").Subrouter()
	sessions.HandleFunc("", sessionHandler.Create).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/{id}", sessionHandler.End).Methods(http.MethodDelete)
	sessions.HandleFunc("/{id}/activate", sessionHandler.Activate).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/pan", sessionHandler.Pan).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/undo", sessionHandler.Undo).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/reset", sessionHandler.Reset).Methods(http.MethodPost)
	sessions.HandleFunc("/{id}/advisory", sessionHandler.DismissAdvisory).Methods(http.MethodDelete)

	// Event stream, only when a hub is wired
	if cfg.StreamHub != nil {
		eventsHandler := handler.NewEventsHandler(cfg.SessionController, cfg.StreamHub)
		sessions.HandleFunc("/{id}/ws", eventsHandler.Stream).Methods(http.MethodGet)
	}

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.HealthResponse{Status: "ok"})
}
