package sse

import (
	"bytes"
	"context"

	"github.com/mcoot/pegjump/internal/model"
	"github.com/mcoot/pegjump/internal/web/templates/components"
)

// SSE event names the game page listens for
const (
	EventGameUpdate   = "game-update"
	EventSessionEnded = "session-ended"
)

// Renderer turns sessions into HTML fragments for SSE
type Renderer struct{}

// NewRenderer creates a new Renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderGame renders the game body of a session
func (r *Renderer) RenderGame(ctx context.Context, sess *model.Session) (string, error) {
	var buf bytes.Buffer
	if err := components.GameBody(components.NewGameView(sess)).Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderEnded renders the notice that replaces the game body once a session ends
func (r *Renderer) RenderEnded() string {
	return `<p class="ended">This game has ended. <a href="/">Start a new one</a></p>`
}

// WrapForOOBSwap wraps HTML in a div with hx-swap-oob for out-of-band swaps
func WrapForOOBSwap(id, html string) string {
	return `<div id="` + id + `" hx-swap-oob="true">` + html + `</div>`
}
