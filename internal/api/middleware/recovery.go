package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/pegjump/internal/api/apierr"
	"github.com/mcoot/pegjump/internal/middleware"
)

// Recovery creates panic recovery middleware for the API.
// A panic becomes a 500 with the usual JSON error body.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("surface", "api")), apiPanicHandler)
}

func apiPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	apierr.WriteError(w, apierr.NewInternalError())
}
