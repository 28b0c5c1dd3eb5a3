package advisory

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/pegjump/internal/dependencies/clock"
	"github.com/mcoot/pegjump/internal/model"
	"github.com/mcoot/pegjump/internal/services/session"
)

// DefaultDuration is how long an advisory message stays up
const DefaultDuration = 4 * time.Second

// dismissTimeout bounds the storage round trip made when a timer fires
const dismissTimeout = 5 * time.Second

// Dismisser clears a session's advisory message if current, given the message
// on display once the session is locked, still reports true
type Dismisser interface {
	DismissAdvisoryIf(ctx context.Context, id model.SessionID, current func(message string) bool) (*model.Session, error)
}

// Scheduler auto-clears advisory messages. Each session has at most one
// pending timer: a new milestone cancels and restarts it, and ending the
// session cancels it. A timer only clears the message it was started for.
type Scheduler struct {
	dismisser Dismisser
	clock     clock.Clock
	duration  time.Duration
	logger    *slog.Logger

	mu      sync.Mutex
	pending map[model.SessionID]*pendingClear
	nextGen uint64
	closed  bool
}

type pendingClear struct {
	gen     uint64
	message string
	timer   clock.Timer
}

// New creates a Scheduler. A non-positive duration selects DefaultDuration.
func New(dismisser Dismisser, clock clock.Clock, duration time.Duration, logger *slog.Logger) *Scheduler {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Scheduler{
		dismisser: dismisser,
		clock:     clock,
		duration:  duration,
		logger:    logger.With(slog.String("component", "advisory")),
		pending:   make(map[model.SessionID]*pendingClear),
	}
}

// Duration returns how long messages stay up
func (s *Scheduler) Duration() time.Duration {
	return s.duration
}

// HandleUpdate is a session.Subscriber
func (s *Scheduler) HandleUpdate(u session.Update) {
	if u.Session == nil {
		return
	}
	id := u.Session.ID

	switch {
	case u.HasEvent(model.EventSessionEnded):
		s.Cancel(id)
	case u.HasEvent(model.EventMilestoneReached):
		s.Schedule(id, u.Session.State.AdvisoryMessage)
	case u.HasEvent(model.EventAdvisoryCleared):
		s.Cancel(id)
	}
}

// Resume starts a timer for a loaded session that shows a message but has
// none pending, such as one saved by an earlier process. It is a
// session.LoadHook.
func (s *Scheduler) Resume(sess *model.Session) {
	message := sess.State.AdvisoryMessage
	if message == "" || s.Pending(sess.ID) {
		return
	}
	s.logger.Debug("resuming advisory timer", slog.String("session_id", string(sess.ID)))
	s.Schedule(sess.ID, message)
}

// Schedule starts the clear timer for message, replacing any pending one
func (s *Scheduler) Schedule(id model.SessionID, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if p, ok := s.pending[id]; ok {
		p.timer.Stop()
	}

	s.nextGen++
	gen := s.nextGen
	s.pending[id] = &pendingClear{
		gen:     gen,
		message: message,
		timer:   s.clock.AfterFunc(s.duration, func() { s.fire(id, gen) }),
	}
}

// Cancel stops the pending timer for a session, if any
func (s *Scheduler) Cancel(id model.SessionID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.pending[id]; ok {
		p.timer.Stop()
		delete(s.pending, id)
	}
}

// Pending reports whether a clear is scheduled for the session
func (s *Scheduler) Pending(id model.SessionID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[id]
	return ok
}

// Close cancels every pending timer. Later Schedule calls are ignored.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, id)
	}
	s.closed = true
}

func (s *Scheduler) fire(id model.SessionID, gen uint64) {
	if !s.isCurrent(id, gen, "") {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dismissTimeout)
	defer cancel()

	_, err := s.dismisser.DismissAdvisoryIf(ctx, id, func(message string) bool {
		return s.isCurrent(id, gen, message)
	})
	s.finish(id, gen)

	switch {
	case err == nil:
		s.logger.Debug("advisory cleared", slog.String("session_id", string(id)))
	case errors.Is(err, model.ErrSessionNotFound):
		// Session expired or ended before the message did
	default:
		s.logger.Error("failed to clear advisory",
			slog.String("session_id", string(id)),
			slog.String("error", err.Error()),
		)
	}
}

// isCurrent reports whether gen is still the live timer for the session and,
// when message is not empty, whether it was started for that message
func (s *Scheduler) isCurrent(id model.SessionID, gen uint64, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pending[id]
	if !ok || p.gen != gen {
		return false
	}
	return message == "" || p.message == message
}

func (s *Scheduler) finish(id model.SessionID, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pending[id]; ok && p.gen == gen {
		delete(s.pending, id)
	}
}
