package sse

import (
	"context"
	"log/slog"

	"github.com/mcoot/pegjump/internal/model"
	"github.com/mcoot/pegjump/internal/services/session"
	"github.com/mcoot/pegjump/internal/web/templates/components"
)

// Broadcaster pushes re-rendered game fragments to the pages watching a
// session. It subscribes to the session controller.
type Broadcaster struct {
	hubManager *HubManager
	renderer   *Renderer
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		renderer:   NewRenderer(),
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// HandleUpdate is a session.Subscriber
func (b *Broadcaster) HandleUpdate(update session.Update) {
	if update.HasEvent(model.EventSessionEnded) {
		b.BroadcastSessionEnded(update.Session.ID)
		return
	}
	b.BroadcastGame(context.Background(), update.Session)
}

// BroadcastGame pushes the session's game body to its watchers
func (b *Broadcaster) BroadcastGame(ctx context.Context, sess *model.Session) {
	hub := b.hubManager.GetHub(sess.ID)
	if hub == nil {
		return
	}

	html, err := b.renderer.RenderGame(ctx, sess)
	if err != nil {
		b.logger.Error("sse failed to render game",
			slog.String("session_id", string(sess.ID)),
			slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(EventGameUpdate, WrapForOOBSwap(components.GameBodyID, html))
}

// BroadcastSessionEnded tells watchers the session is gone and closes its hub
func (b *Broadcaster) BroadcastSessionEnded(id model.SessionID) {
	hub := b.hubManager.GetHub(id)
	if hub == nil {
		return
	}
	hub.BroadcastEvent(EventSessionEnded, WrapForOOBSwap(components.GameBodyID, b.renderer.RenderEnded()))
	b.hubManager.RemoveHub(id)
}
