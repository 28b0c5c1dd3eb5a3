package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/mcoot/pegjump/internal/model"
	"github.com/mcoot/pegjump/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Sessions are cloned on the way in and out so callers never share state
// with the store.
type Storage struct {
	mu       sync.RWMutex
	sessions map[model.SessionID]*model.Session
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		sessions: make(map[model.SessionID]*model.Session),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return session.Clone(), nil
}

// UpdateSession runs fn under the store's write lock, so it never conflicts
func (s *Storage) UpdateSession(ctx context.Context, id model.SessionID, fn storage.UpdateFunc) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}

	session := stored.Clone()
	if err := fn(session); err != nil {
		if errors.Is(err, storage.ErrUnchanged) {
			return stored.Clone(), nil
		}
		return nil, err
	}
	s.sessions[id] = session.Clone()
	return session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *Storage) SessionExists(ctx context.Context, id model.SessionID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok, nil
}
