package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/pegjump/internal/middleware"
)

// Logging creates request logging middleware for the web interface
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Logging(logger.With(slog.String("surface", "web")))
}
