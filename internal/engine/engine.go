package engine

import (
	"fmt"
	"time"

	"github.com/mcoot/pegjump/internal/model"
)

// Listener receives the events an engine emits as interactions change its state
type Listener func(model.Event)

// Engine owns the state of one peg-jump game and applies player interactions to it.
//
// All interactions are synchronous and never fail: anything that does not make
// sense on the current board is a no-op. An Engine is not safe for concurrent
// use; callers serialize access.
type Engine struct {
	board      model.Board
	selection  *model.Position
	validMoves []model.Position
	history    []model.Board
	viewport   Viewport
	highestRow int
	advisory   string

	now      func() time.Time
	listener Listener
}

// Option configures an Engine
type Option func(*Engine)

// WithListener registers the listener that receives emitted events
func WithListener(l Listener) Option {
	return func(e *Engine) {
		e.listener = l
	}
}

// WithClock sets the time source used to stamp events
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an engine holding a freshly reset game
func New(opts ...Option) *Engine {
	e := &Engine{
		board:      model.NewBoard(),
		viewport:   NewViewport(),
		highestRow: model.StartRow,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Restore creates an engine from a snapshot. The valid-move set is recomputed
// from the selection rather than trusted.
func Restore(state model.GameState, opts ...Option) (*Engine, error) {
	if state.ViewportOffset < 0 || state.ViewportOffset > model.MaxViewportOffset {
		return nil, fmt.Errorf("%w: viewport offset %d out of range", model.ErrInvalidState, state.ViewportOffset)
	}
	if state.HighestRowReached < 0 || state.HighestRowReached > model.StartRow {
		return nil, fmt.Errorf("%w: highest row %d out of range", model.ErrInvalidState, state.HighestRowReached)
	}

	e := New(opts...)
	e.board = state.Board
	e.viewport = Viewport{offset: state.ViewportOffset}
	e.highestRow = state.HighestRowReached
	e.advisory = state.AdvisoryMessage
	if len(state.History) > 0 {
		e.history = append([]model.Board(nil), state.History...)
	}

	if state.Selection != nil {
		sel := *state.Selection
		if !e.board.Get(sel) {
			return nil, fmt.Errorf("%w: selection %s is not a piece", model.ErrInvalidState, sel)
		}
		e.selection = &sel
		e.validMoves = CalculateValidMoves(e.board, sel)
	}
	return e, nil
}

// OnEvent replaces the engine's listener
func (e *Engine) OnEvent(l Listener) {
	e.listener = l
}

// Snapshot returns a deep copy of the engine's state
func (e *Engine) Snapshot() model.GameState {
	state := model.GameState{
		Board:             e.board,
		ViewportOffset:    e.viewport.Offset(),
		HighestRowReached: e.highestRow,
		AdvisoryMessage:   e.advisory,
	}
	if e.selection != nil {
		sel := *e.selection
		state.Selection = &sel
	}
	if len(e.validMoves) > 0 {
		state.ValidMoves = e.ValidMoves()
	}
	if len(e.history) > 0 {
		state.History = append([]model.Board(nil), e.history...)
	}
	return state
}

// Board returns a copy of the current board
func (e *Engine) Board() model.Board {
	return e.board
}

// VisibleBoard returns the cells inside the current viewport
func (e *Engine) VisibleBoard() [][]bool {
	return e.board.Window(e.viewport.Offset())
}

// Selection returns the selected piece, if any
func (e *Engine) Selection() (model.Position, bool) {
	if e.selection == nil {
		return model.Position{}, false
	}
	return *e.selection, true
}

// ValidMoves returns the destinations reachable from the selection
func (e *Engine) ValidMoves() []model.Position {
	return append([]model.Position(nil), e.validMoves...)
}

// ViewportOffset returns the absolute column shown at visible column 0
func (e *Engine) ViewportOffset() int {
	return e.viewport.Offset()
}

// Viewport returns the engine's viewport for coordinate translation
func (e *Engine) Viewport() Viewport {
	return e.viewport
}

// AdvisoryMessage returns the milestone message currently on display
func (e *Engine) AdvisoryMessage() (string, bool) {
	return e.advisory, e.advisory != ""
}

// HighestRowReached returns the lowest row index any piece has reached
func (e *Engine) HighestRowReached() int {
	return e.highestRow
}

// HistoryLen returns how many moves can be undone
func (e *Engine) HistoryLen() int {
	return len(e.history)
}

func (e *Engine) CanUndo() bool     { return len(e.history) > 0 }
func (e *Engine) CanPanLeft() bool  { return e.viewport.CanPanLeft() }
func (e *Engine) CanPanRight() bool { return e.viewport.CanPanRight() }

// HasMoves reports whether any piece on the board can still jump
func (e *Engine) HasMoves() bool {
	return HasAnyMove(e.board)
}

// ActivateCell handles the player targeting a cell given in visible coordinates.
//
// With a piece selected, targeting an empty cell in the valid-move set applies the
// jump. Targeting the selected piece deselects it, targeting another piece selects
// that piece instead, and targeting any other empty cell clears the selection.
func (e *Engine) ActivateCell(visibleRow, visibleCol int) model.Activation {
	pos, ok := e.viewport.ToAbsolute(visibleRow, visibleCol)
	if !ok {
		return model.ActivationIgnored
	}
	occupied := e.board.Get(pos)

	if e.selection != nil && !occupied && IsValidMove(e.validMoves, pos) {
		e.applyMove(*e.selection, pos)
		return model.ActivationMoved
	}

	if occupied {
		if e.selection != nil && *e.selection == pos {
			e.clearSelection()
			return model.ActivationDeselected
		}
		e.selectPiece(pos)
		return model.ActivationSelected
	}

	if e.selection == nil {
		return model.ActivationIgnored
	}
	e.clearSelection()
	return model.ActivationDeselected
}

// PanLeft shifts the viewport left. Returns false at the left edge.
func (e *Engine) PanLeft() bool {
	return e.pan(e.viewport.PanLeft)
}

// PanRight shifts the viewport right. Returns false at the right edge.
func (e *Engine) PanRight() bool {
	return e.pan(e.viewport.PanRight)
}

// Undo restores the board from before the last move. The highest row reached
// is not rolled back. Returns false when there is nothing to undo.
func (e *Engine) Undo() bool {
	if len(e.history) == 0 {
		return false
	}
	last := len(e.history) - 1
	e.board = e.history[last]
	e.history = e.history[:last]
	e.selection = nil
	e.validMoves = nil

	e.emit(model.EventUndone, model.UndonePayload{Remaining: len(e.history)})
	return true
}

// Reset starts the game over and recentres the viewport.
// The advisory message is left for its clear timer.
func (e *Engine) Reset() {
	e.board = model.NewBoard()
	e.selection = nil
	e.validMoves = nil
	e.history = nil
	e.viewport.Reset()
	e.highestRow = model.StartRow

	e.emit(model.EventReset, nil)
}

// DismissAdvisory clears the advisory message. Returns false if none was shown.
func (e *Engine) DismissAdvisory() bool {
	if e.advisory == "" {
		return false
	}
	e.advisory = ""
	e.emit(model.EventAdvisoryCleared, nil)
	return true
}

func (e *Engine) selectPiece(pos model.Position) {
	e.selection = &pos
	e.validMoves = CalculateValidMoves(e.board, pos)

	e.emit(model.EventPieceSelected, model.PieceSelectedPayload{
		Position:   pos,
		ValidMoves: e.ValidMoves(),
	})
}

func (e *Engine) clearSelection() {
	e.selection = nil
	e.validMoves = nil
	e.emit(model.EventSelectionCleared, nil)
}

func (e *Engine) applyMove(from, to model.Position) {
	e.history = append(e.history, e.board)
	e.board = applyJump(e.board, from, to)
	e.selection = nil
	e.validMoves = nil

	e.emit(model.EventMoveApplied, model.MoveAppliedPayload{
		From:    from,
		Jumped:  midpoint(from, to),
		To:      to,
		Pieces:  e.board.PieceCount(),
		History: len(e.history),
	})

	if to.Row >= e.highestRow {
		return
	}
	e.highestRow = to.Row
	if msg, ok := MilestoneMessage(to.Row); ok {
		e.advisory = msg
		e.emit(model.EventMilestoneReached, model.MilestoneReachedPayload{
			Row:     to.Row,
			Message: msg,
			Victory: to.Row == VictoryRow,
		})
	}
}

func (e *Engine) pan(move func()) bool {
	from := e.viewport.Offset()
	move()
	to := e.viewport.Offset()
	if from == to {
		return false
	}
	e.emit(model.EventPanned, model.PannedPayload{From: from, To: to})
	return true
}

func (e *Engine) emit(eventType model.EventType, payload any) {
	if e.listener == nil {
		return
	}
	e.listener(model.Event{
		Type:      eventType,
		Timestamp: e.now(),
		Payload:   payload,
	})
}
