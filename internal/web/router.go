package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/pegjump/internal/services/session"
	"github.com/mcoot/pegjump/internal/web/handler"
	"github.com/mcoot/pegjump/internal/web/middleware"
	"github.com/mcoot/pegjump/internal/web/sse"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger            *slog.Logger
	SessionController *session.Controller
	HubManager        *sse.HubManager
	StaticDir         string // Path to static files directory
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	Mount(r, cfg)
	return r
}

// Mount registers the web routes on an existing router
func Mount(r *mux.Router, cfg RouterConfig) {
	hubManager := cfg.HubManager
	if hubManager == nil {
		hubManager = sse.NewHubManager(cfg.Logger)
	}

	homeHandler := handler.NewHomeHandler(cfg.Logger)
	gameHandler := handler.NewGameHandler(cfg.SessionController, hubManager, cfg.Logger)

	if cfg.StaticDir != "" {
		staticHandler := http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDir)))
		r.PathPrefix("/static/").Handler(staticHandler)
	}

	pages := r.NewRoute().Subrouter()
	pages.Use(middleware.Flash())
	pages.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)

	pages.HandleFunc("/game", gameHandler.Create).Methods(http.MethodPost)
	pages.HandleFunc("/game/{id}", gameHandler.View).Methods(http.MethodGet)
	pages.HandleFunc("/game/{id}/cell", gameHandler.Cell).Methods(http.MethodPost)
	pages.HandleFunc("/game/{id}/pan/{direction}", gameHandler.Pan).Methods(http.MethodPost)
	pages.HandleFunc("/game/{id}/undo", gameHandler.Undo).Methods(http.MethodPost)
	pages.HandleFunc("/game/{id}/reset", gameHandler.Reset).Methods(http.MethodPost)
	pages.HandleFunc("/game/{id}/dismiss", gameHandler.Dismiss).Methods(http.MethodPost)
	pages.HandleFunc("/game/{id}/end", gameHandler.End).Methods(http.MethodPost)
	pages.HandleFunc("/game/{id}/events", gameHandler.Events).Methods(http.MethodGet)
}
