package model

import "time"

// EventType identifies the type of event
type EventType string

const (
	// Session lifecycle events
	EventSessionCreated EventType = "session_created"
	EventSessionEnded   EventType = "session_ended"

	// Engine events
	EventPieceSelected    EventType = "piece_selected"
	EventSelectionCleared EventType = "selection_cleared"
	EventMoveApplied      EventType = "move_applied"
	EventMilestoneReached EventType = "milestone_reached"
	EventUndone           EventType = "undone"
	EventReset            EventType = "reset"
	EventPanned           EventType = "panned"
	EventAdvisoryCleared  EventType = "advisory_cleared"
)

// Event is the base structure for all events
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID SessionID `json:"session_id"` // Set by the session controller
	Payload   any       `json:"payload,omitempty"`
}

// PieceSelectedPayload contains data for piece selected events
type PieceSelectedPayload struct {
	Position   Position   `json:"position"`
	ValidMoves []Position `json:"valid_moves"`
}

// MoveAppliedPayload contains data for move applied events
type MoveAppliedPayload struct {
	From    Position `json:"from"`
	Jumped  Position `json:"jumped"`
	To      Position `json:"to"`
	Pieces  int      `json:"pieces"`
	History int      `json:"history"`
}

// MilestoneReachedPayload contains data for milestone events
type MilestoneReachedPayload struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
	Victory bool   `json:"victory"`
}

// UndonePayload contains data for undo events
type UndonePayload struct {
	Remaining int `json:"remaining"`
}

// PannedPayload contains data for pan events
type PannedPayload struct {
	From int `json:"from"`
	To   int `json:"to"`
}
