package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/mcoot/pegjump/internal/dependencies/clock"
	"github.com/mcoot/pegjump/internal/dependencies/random"
	"github.com/mcoot/pegjump/internal/engine"
	"github.com/mcoot/pegjump/internal/model"
	"github.com/mcoot/pegjump/internal/storage"
)

const (
	// IDLength is the length of generated session ids
	IDLength = 12

	// maxIDAttempts bounds the search for an unused session id
	maxIDAttempts = 8
)

// Pan directions accepted by Pan
const (
	DirectionLeft  = "left"
	DirectionRight = "right"
)

var errIDSpaceExhausted = errors.New("could not allocate an unused session id")

// Update is published after every operation that changed a session
type Update struct {
	// Session is the state after the operation. For a session_ended update it
	// is the final state before deletion.
	Session *model.Session
	Events  []model.Event
}

// HasEvent reports whether the update carries an event of the given type
func (u Update) HasEvent(t model.EventType) bool {
	for _, evt := range u.Events {
		if evt.Type == t {
			return true
		}
	}
	return false
}

// Subscriber receives updates synchronously while the session is still locked.
// Subscribers must not call back into the controller for the same session.
type Subscriber func(Update)

// LoadHook sees every session the controller reads from storage, before any
// interaction is applied. Hooks must not modify the session.
type LoadHook func(*model.Session)

// Controller hosts game sessions. Each operation loads the session, replays it
// into an engine, applies the interaction and saves the result. Operations on
// one session are serialized so each engine sees a single synchronous caller.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger

	locksMu sync.Mutex
	locks   map[model.SessionID]*sessionLock

	subsMu      sync.RWMutex
	subscribers []Subscriber
	loadHooks   []LoadHook
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewController creates a new session Controller
func NewController(
	storage storage.Storage,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "session")),
		locks:   make(map[model.SessionID]*sessionLock),
	}
}

// Subscribe registers a subscriber for all future updates
func (c *Controller) Subscribe(sub Subscriber) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	c.subscribers = append(c.subscribers, sub)
}

// OnLoad registers a hook run whenever a stored session is read. It lets
// per-session work that lives outside storage, such as timers, be picked up
// again for sessions this process has not seen yet.
func (c *Controller) OnLoad(hook LoadHook) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	c.loadHooks = append(c.loadHooks, hook)
}

// CreateSession starts a new game in a freshly reset state
func (c *Controller) CreateSession(ctx context.Context) (*model.Session, error) {
	id, err := c.newSessionID(ctx)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	session := &model.Session{
		ID:        id,
		State:     model.NewGameState(),
		CreatedAt: now,
		UpdatedAt: now,
	}

	unlock := c.lock(id)
	defer unlock()

	if err := c.storage.SaveSession(ctx, session); err != nil {
		c.logger.Error("failed to save session",
			slog.String("session_id", string(id)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("session created", slog.String("session_id", string(id)))

	c.publish(Update{
		Session: session.Clone(),
		Events: []model.Event{{
			Type:      model.EventSessionCreated,
			Timestamp: now,
			SessionID: id,
		}},
	})
	return session, nil
}

// GetSession retrieves a session by ID
func (c *Controller) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	c.loaded(session)
	return session, nil
}

// ActivateCell applies a cell activation given in visible coordinates
func (c *Controller) ActivateCell(ctx context.Context, id model.SessionID, row, col int) (model.Activation, *model.Session, error) {
	var activation model.Activation
	session, err := c.update(ctx, id, func(e *engine.Engine) {
		activation = e.ActivateCell(row, col)
	})
	if err != nil {
		return "", nil, err
	}

	c.logger.Debug("cell activated",
		slog.String("session_id", string(id)),
		slog.Int("row", row),
		slog.Int("col", col),
		slog.String("activation", string(activation)),
	)
	return activation, session, nil
}

// Pan shifts the viewport in the named direction
func (c *Controller) Pan(ctx context.Context, id model.SessionID, direction string) (*model.Session, error) {
	switch direction {
	case DirectionLeft:
		return c.PanLeft(ctx, id)
	case DirectionRight:
		return c.PanRight(ctx, id)
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidDirection, direction)
	}
}

// PanLeft shifts the viewport left, clamped at the board edge
func (c *Controller) PanLeft(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.update(ctx, id, func(e *engine.Engine) { e.PanLeft() })
}

// PanRight shifts the viewport right, clamped at the board edge
func (c *Controller) PanRight(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.update(ctx, id, func(e *engine.Engine) { e.PanRight() })
}

// Undo reverts the last move, if any
func (c *Controller) Undo(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.update(ctx, id, func(e *engine.Engine) { e.Undo() })
}

// Reset starts the session's game over
func (c *Controller) Reset(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.update(ctx, id, func(e *engine.Engine) { e.Reset() })
}

// DismissAdvisory clears the advisory message
func (c *Controller) DismissAdvisory(ctx context.Context, id model.SessionID) (*model.Session, error) {
	return c.update(ctx, id, func(e *engine.Engine) { e.DismissAdvisory() })
}

// DismissAdvisoryIf clears the advisory message only if current accepts the
// message on display. current is evaluated while the session is locked, so no
// update can be published between the check and the dismissal.
func (c *Controller) DismissAdvisoryIf(ctx context.Context, id model.SessionID, current func(message string) bool) (*model.Session, error) {
	return c.update(ctx, id, func(e *engine.Engine) {
		if message, ok := e.AdvisoryMessage(); ok && current(message) {
			e.DismissAdvisory()
		}
	})
}

// EndSession deletes a session and notifies subscribers
func (c *Controller) EndSession(ctx context.Context, id model.SessionID) error {
	unlock := c.lock(id)
	defer unlock()

	session, err := c.storage.GetSession(ctx, id)
	if err != nil {
		return err
	}
	if err := c.storage.DeleteSession(ctx, id); err != nil {
		return err
	}

	c.logger.Info("session ended",
		slog.String("session_id", string(id)),
		slog.Int("move_count", session.MoveCount),
	)

	c.publish(Update{
		Session: session,
		Events: []model.Event{{
			Type:      model.EventSessionEnded,
			Timestamp: c.clock.Now(),
			SessionID: id,
		}},
	})
	return nil
}

// update runs apply against the session's engine. The in-process lock orders
// updates on this instance; the storage transaction guards against other
// instances sharing the store. Interactions that emit no events leave the
// stored session untouched.
func (c *Controller) update(ctx context.Context, id model.SessionID, apply func(*engine.Engine)) (*model.Session, error) {
	unlock := c.lock(id)
	defer unlock()

	var events []model.Event
	session, err := c.storage.UpdateSession(ctx, id, func(session *model.Session) error {
		events = nil
		c.loaded(session)

		e, err := engine.Restore(session.State,
			engine.WithClock(c.clock.Now),
			engine.WithListener(func(evt model.Event) {
				evt.SessionID = id
				events = append(events, evt)
			}),
		)
		if err != nil {
			c.logger.Error("stored session is inconsistent",
				slog.String("session_id", string(id)),
				slog.String("error", err.Error()),
			)
			return fmt.Errorf("restore session %s: %w", id, err)
		}

		apply(e)
		if len(events) == 0 {
			return storage.ErrUnchanged
		}

		session.State = e.Snapshot()
		session.UpdatedAt = c.clock.Now()
		for _, evt := range events {
			if evt.Type == model.EventMoveApplied {
				session.MoveCount++
			}
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, model.ErrSessionNotFound) && !errors.Is(err, model.ErrInvalidState) {
			c.logger.Error("failed to update session",
				slog.String("session_id", string(id)),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}
	if len(events) == 0 {
		return session, nil
	}

	for _, evt := range events {
		if payload, ok := evt.Payload.(model.MilestoneReachedPayload); ok {
			c.logger.Info("milestone reached",
				slog.String("session_id", string(id)),
				slog.Int("row", payload.Row),
				slog.Bool("victory", payload.Victory),
			)
		}
	}

	c.publish(Update{Session: session.Clone(), Events: events})
	return session, nil
}

// loaded passes a freshly read session to the load hooks
func (c *Controller) loaded(session *model.Session) {
	c.subsMu.RLock()
	hooks := make([]LoadHook, len(c.loadHooks))
	copy(hooks, c.loadHooks)
	c.subsMu.RUnlock()

	for _, hook := range hooks {
		hook(session)
	}
}

func (c *Controller) publish(update Update) {
	c.subsMu.RLock()
	subs := make([]Subscriber, len(c.subscribers))
	copy(subs, c.subscribers)
	c.subsMu.RUnlock()

	for _, sub := range subs {
		sub(update)
	}
}

// lock acquires the per-session mutex and returns its release function.
// Entries are reference counted so the map only holds sessions in use.
func (c *Controller) lock(id model.SessionID) func() {
	c.locksMu.Lock()
	l, ok := c.locks[id]
	if !ok {
		l = &sessionLock{}
		c.locks[id] = l
	}
	l.refs++
	c.locksMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		c.locksMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, id)
		}
		c.locksMu.Unlock()
	}
}

func (c *Controller) newSessionID(ctx context.Context) (model.SessionID, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := model.SessionID(c.random.String(IDLength, random.Alphanumeric))
		if id == "" {
			continue
		}
		exists, err := c.storage.SessionExists(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", errIDSpaceExhausted
}
