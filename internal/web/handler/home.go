package handler

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/pegjump/internal/web/middleware"
	"github.com/mcoot/pegjump/internal/web/templates/layout"
	"github.com/mcoot/pegjump/internal/web/templates/pages"
)

// HomeHandler handles the home page
type HomeHandler struct {
	logger *slog.Logger
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		logger: logger.With(slog.String("component", "web-home")),
	}
}

// Home renders the rules and the new game button
func (h *HomeHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := pages.HomeData{
		PageData: layout.PageData{
			Title: "Home",
			Flash: middleware.GetFlash(r.Context()),
		},
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.Home(data).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render home page", slog.Any("error", err))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
