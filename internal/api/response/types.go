package response

import (
	"time"

	"github.com/mcoot/pegjump/internal/engine"
	"github.com/mcoot/pegjump/internal/model"
)

// Position represents a board position in API responses
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// PositionFromModel converts a model.Position
func PositionFromModel(p model.Position) Position {
	return Position{Row: p.Row, Col: p.Col}
}

// SessionState is the full view of a session returned by every endpoint that
// touches one. Board rows use 'o' for a piece and '.' for an empty cell.
type SessionState struct {
	ID                string     `json:"id"`
	Board             []string   `json:"board"`
	VisibleBoard      []string   `json:"visible_board"`
	RowLabels         []string   `json:"row_labels"`
	ViewportOffset    int        `json:"viewport_offset"`
	Selection         *Position  `json:"selection"`
	ValidMoves        []Position `json:"valid_moves"`
	HighestRowReached int        `json:"highest_row_reached"`
	AdvisoryMessage   string     `json:"advisory_message,omitempty"`
	CanUndo           bool       `json:"can_undo"`
	CanPanLeft        bool       `json:"can_pan_left"`
	CanPanRight       bool       `json:"can_pan_right"`
	HasMoves          bool       `json:"has_moves"`
	Pieces            int        `json:"pieces"`
	MoveCount         int        `json:"move_count"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// SessionStateFromModel converts a model.Session
func SessionStateFromModel(s *model.Session) SessionState {
	state := s.State
	viewport := engine.ViewportAt(state.ViewportOffset)

	resp := SessionState{
		ID:                string(s.ID),
		Board:             state.Board.RowStrings(),
		VisibleBoard:      state.Board.WindowStrings(state.ViewportOffset),
		RowLabels:         model.RowLabels(),
		ViewportOffset:    state.ViewportOffset,
		ValidMoves:        make([]Position, 0, len(state.ValidMoves)),
		HighestRowReached: state.HighestRowReached,
		AdvisoryMessage:   state.AdvisoryMessage,
		CanUndo:           len(state.History) > 0,
		CanPanLeft:        viewport.CanPanLeft(),
		CanPanRight:       viewport.CanPanRight(),
		HasMoves:          engine.HasAnyMove(state.Board),
		Pieces:            state.Board.PieceCount(),
		MoveCount:         s.MoveCount,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
	if state.Selection != nil {
		sel := PositionFromModel(*state.Selection)
		resp.Selection = &sel
	}
	for _, m := range state.ValidMoves {
		resp.ValidMoves = append(resp.ValidMoves, PositionFromModel(m))
	}
	return resp
}

// ActivateResponse is the response for a cell activation
type ActivateResponse struct {
	Activation string       `json:"activation"`
	State      SessionState `json:"state"`
}

// HealthResponse is the response for the health check
type HealthResponse struct {
	Status string `json:"status"`
}
