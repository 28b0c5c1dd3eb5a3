package storage

import (
	"context"
	"errors"

	"github.com/mcoot/pegjump/internal/model"
)

// ErrUnchanged is returned by an UpdateSession apply function to skip the save
var ErrUnchanged = errors.New("session unchanged")

// UpdateFunc mutates a loaded session in place. It may run more than once
// when a concurrent writer wins, so it must not have side effects beyond
// the session it is given.
type UpdateFunc func(session *model.Session) error

// Storage defines the interface for hosting live game sessions
type Storage interface {
	// SaveSession creates or replaces a session
	SaveSession(ctx context.Context, session *model.Session) error

	// GetSession returns model.ErrSessionNotFound for unknown or expired ids
	GetSession(ctx context.Context, id model.SessionID) (*model.Session, error)

	// UpdateSession loads a session, applies fn and saves the result as one
	// atomic read-modify-write. If fn returns ErrUnchanged nothing is written
	// and the loaded session is returned. Any other error from fn is returned
	// unsaved. Implementations retry fn when another writer got there first
	// and give up with model.ErrConcurrentUpdate.
	UpdateSession(ctx context.Context, id model.SessionID, fn UpdateFunc) (*model.Session, error)

	DeleteSession(ctx context.Context, id model.SessionID) error
	SessionExists(ctx context.Context, id model.SessionID) (bool, error)
}
