package middleware

import (
	"log/slog"
	"net/http"

	"github.com/mcoot/pegjump/internal/middleware"
)

// Recovery creates panic recovery middleware for the web interface.
// A panic renders a plain HTML error page.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return middleware.Recovery(logger.With(slog.String("surface", "web")), webPanicHandler)
}

func webPanicHandler(w http.ResponseWriter, _ *http.Request, _ any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Error</title></head>
<body>
<h1>Something went wrong</h1>
<p>The game could not be displayed.</p>
<p><a href="/">Back to the start page</a></p>
</body>
</html>`))
}
