package components

import (
	"github.com/mcoot/pegjump/internal/engine"
	"github.com/mcoot/pegjump/internal/model"
)

// CellView is one visible cell of the board
type CellView struct {
	Row      int // Visible row
	Col      int // Visible column
	Occupied bool
	Selected bool
	Target   bool // A valid destination for the selected piece
}

// RowView is one board row with its display label
type RowView struct {
	Label string
	Goal  bool // Above the starting rows
	Cells []CellView
}

// GameView is everything the game components need to render a session
type GameView struct {
	ID              model.SessionID
	Rows            []RowView
	Offset          int
	Advisory        string
	HighestRowLabel string
	Pieces          int
	MoveCount       int
	CanUndo         bool
	CanPanLeft      bool
	CanPanRight     bool
	HasMoves        bool
}

// NewGameView projects a session onto its visible window
func NewGameView(sess *model.Session) GameView {
	state := sess.State
	vp := engine.ViewportAt(state.ViewportOffset)

	view := GameView{
		ID:              sess.ID,
		Rows:            make([]RowView, model.Rows),
		Offset:          vp.Offset(),
		Advisory:        state.AdvisoryMessage,
		HighestRowLabel: model.RowLabel(state.HighestRowReached),
		Pieces:          state.Board.PieceCount(),
		MoveCount:       sess.MoveCount,
		CanUndo:         len(state.History) > 0,
		CanPanLeft:      vp.CanPanLeft(),
		CanPanRight:     vp.CanPanRight(),
		HasMoves:        engine.HasAnyMove(state.Board),
	}

	window := state.Board.Window(vp.Offset())
	for row := range window {
		cells := make([]CellView, len(window[row]))
		for col, occupied := range window[row] {
			cells[col] = CellView{Row: row, Col: col, Occupied: occupied}
		}
		view.Rows[row] = RowView{
			Label: model.RowLabel(row),
			Goal:  row < model.StartRow,
			Cells: cells,
		}
	}

	if state.Selection != nil {
		if row, col, ok := vp.ToVisible(*state.Selection); ok {
			view.Rows[row].Cells[col].Selected = true
		}
	}
	for _, m := range state.ValidMoves {
		if row, col, ok := vp.ToVisible(m); ok {
			view.Rows[row].Cells[col].Target = true
		}
	}
	return view
}

// Class returns the cell button's CSS classes
func (c CellView) Class() string {
	classes := "cell empty"
	if c.Occupied {
		classes = "cell piece"
	}
	if c.Selected {
		classes += " selected"
	}
	if c.Target {
		classes += " target"
	}
	return classes
}

// ActionPath returns the path a game action posts to
func (v GameView) ActionPath(action string) string {
	return GamePath(v.ID) + "/" + action
}
