package model

import "time"

// SessionID uniquely identifies a hosted game session
type SessionID string

// Activation describes what a cell activation did
type Activation string

const (
	ActivationIgnored    Activation = "ignored"    // Out of bounds or nothing to do
	ActivationSelected   Activation = "selected"   // A piece became the selection
	ActivationDeselected Activation = "deselected" // The selection was cleared
	ActivationMoved      Activation = "moved"      // A jump was applied
)

// GameState is a complete snapshot of one engine
type GameState struct {
	Board             Board      `json:"board"`
	Selection         *Position  `json:"selection,omitempty"`
	ValidMoves        []Position `json:"valid_moves,omitempty"`
	History           []Board    `json:"history,omitempty"`
	ViewportOffset    int        `json:"viewport_offset"`
	HighestRowReached int        `json:"highest_row_reached"`
	AdvisoryMessage   string     `json:"advisory_message,omitempty"`
}

// NewGameState returns the state of a freshly reset game
func NewGameState() GameState {
	return GameState{
		Board:             NewBoard(),
		ViewportOffset:    DefaultViewportOffset,
		HighestRowReached: StartRow,
	}
}

// Clone returns a deep copy that shares no slices with s
func (s GameState) Clone() GameState {
	clone := s
	if s.Selection != nil {
		sel := *s.Selection
		clone.Selection = &sel
	}
	if s.ValidMoves != nil {
		clone.ValidMoves = append([]Position(nil), s.ValidMoves...)
	}
	if s.History != nil {
		clone.History = append([]Board(nil), s.History...)
	}
	return clone
}

// Session is a hosted game: one engine's state plus bookkeeping
type Session struct {
	ID        SessionID `json:"id"`
	State     GameState `json:"state"`
	MoveCount int       `json:"move_count"` // Moves applied over the session's lifetime
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy of the session
func (s *Session) Clone() *Session {
	clone := *s
	clone.State = s.State.Clone()
	return &clone
}
