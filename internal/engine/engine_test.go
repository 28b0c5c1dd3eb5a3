package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/pegjump/internal/model"
)

type EngineSuite struct {
	suite.Suite
	engine *Engine
	events []model.Event
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.events = nil
	s.engine = New(WithListener(func(evt model.Event) {
		s.events = append(s.events, evt)
	}))
}

// tap activates an absolute board position, translating through the current viewport
func (s *EngineSuite) tap(row, col int) model.Activation {
	return s.engine.ActivateCell(row, col-s.engine.ViewportOffset())
}

func (s *EngineSuite) eventTypes() []model.EventType {
	var types []model.EventType
	for _, evt := range s.events {
		types = append(types, evt.Type)
	}
	return types
}

// jump selects from and jumps to, asserting the move was applied
func (s *EngineSuite) jump(from, to model.Position) {
	s.Require().Equal(model.ActivationSelected, s.tap(from.Row, from.Col))
	s.Require().Equal(model.ActivationMoved, s.tap(to.Row, to.Col))
}

// Initial state tests

func (s *EngineSuite) TestNewEngineInitialState() {
	board := s.engine.Board()
	for row := 0; row < model.Rows; row++ {
		for col := 0; col < model.TotalCols; col++ {
			s.Equal(row >= model.StartRow, board[row][col], "cell (%d,%d)", row, col)
		}
	}

	_, selected := s.engine.Selection()
	s.False(selected)
	s.Empty(s.engine.ValidMoves())
	s.Equal(model.DefaultViewportOffset, s.engine.ViewportOffset())
	s.Equal(18, s.engine.ViewportOffset())
	s.Equal(model.StartRow, s.engine.HighestRowReached())
	s.False(s.engine.CanUndo())
	s.True(s.engine.CanPanLeft())
	s.True(s.engine.CanPanRight())

	_, hasMessage := s.engine.AdvisoryMessage()
	s.False(hasMessage)
}

func (s *EngineSuite) TestVisibleBoardMatchesOffset() {
	s.engine.board.Set(model.Position{Row: 0, Col: 20}, true)

	visible := s.engine.VisibleBoard()
	s.Len(visible, model.Rows)
	s.Len(visible[0], model.VisibleCols)
	s.True(visible[0][20-model.DefaultViewportOffset])
	s.True(visible[model.StartRow][0])
	s.False(visible[model.StartRow-1][0])
}

// Move calculator tests

func (s *EngineSuite) TestCalculateValidMovesEmptySourceHasNoMoves() {
	board := model.NewBoard()
	for row := 0; row < model.StartRow; row++ {
		for col := 0; col < model.TotalCols; col++ {
			s.Empty(CalculateValidMoves(board, model.Position{Row: row, Col: col}))
		}
	}

	// Holes punched into the filled area are empty too
	board.Set(model.Position{Row: 10, Col: 10}, false)
	s.Empty(CalculateValidMoves(board, model.Position{Row: 10, Col: 10}))
}

func (s *EngineSuite) TestCalculateValidMovesOutOfBounds() {
	board := model.NewBoard()
	s.Empty(CalculateValidMoves(board, model.Position{Row: -1, Col: 0}))
	s.Empty(CalculateValidMoves(board, model.Position{Row: model.Rows, Col: 0}))
	s.Empty(CalculateValidMoves(board, model.Position{Row: 10, Col: model.TotalCols}))
}

func (s *EngineSuite) TestCalculateValidMovesFreshBoard() {
	board := model.NewBoard()

	// Row 4 is empty, so the first filled row has nothing to jump over
	s.Empty(CalculateValidMoves(board, model.Position{Row: 5, Col: 7}))
	s.Equal([]model.Position{{Row: 4, Col: 7}}, CalculateValidMoves(board, model.Position{Row: 6, Col: 7}))
	s.Empty(CalculateValidMoves(board, model.Position{Row: 10, Col: 10}))
}

func (s *EngineSuite) TestCalculateValidMovesNeedsOccupiedMidpoint() {
	board := model.NewBoard()
	board.Set(model.Position{Row: 5, Col: 7}, false)
	s.Empty(CalculateValidMoves(board, model.Position{Row: 6, Col: 7}))

	// The hole opens a jump into it from below
	s.Equal([]model.Position{{Row: 5, Col: 7}}, CalculateValidMoves(board, model.Position{Row: 7, Col: 7}))
}

func (s *EngineSuite) TestCalculateValidMovesDirectionOrder() {
	var board model.Board
	center := model.Position{Row: 10, Col: 10}
	board.Set(center, true)
	for _, p := range []model.Position{{Row: 9, Col: 10}, {Row: 11, Col: 10}, {Row: 10, Col: 9}, {Row: 10, Col: 11}} {
		board.Set(p, true)
	}

	moves := CalculateValidMoves(board, center)
	s.Equal([]model.Position{
		{Row: 8, Col: 10},
		{Row: 12, Col: 10},
		{Row: 10, Col: 8},
		{Row: 10, Col: 12},
	}, moves)
}

func (s *EngineSuite) TestCalculateValidMovesNoDiagonals() {
	var board model.Board
	board.Set(model.Position{Row: 10, Col: 10}, true)
	board.Set(model.Position{Row: 9, Col: 9}, true)
	board.Set(model.Position{Row: 11, Col: 11}, true)

	s.Empty(CalculateValidMoves(board, model.Position{Row: 10, Col: 10}))
}

func (s *EngineSuite) TestCalculateValidMovesRespectsEdges() {
	var board model.Board
	corner := model.Position{Row: 0, Col: 0}
	board.Set(corner, true)
	board.Set(model.Position{Row: 0, Col: 1}, true)
	board.Set(model.Position{Row: 1, Col: 0}, true)

	s.Equal([]model.Position{{Row: 2, Col: 0}, {Row: 0, Col: 2}}, CalculateValidMoves(board, corner))
}

func (s *EngineSuite) TestCalculateValidMovesIsPure() {
	board := model.NewBoard()
	before := board

	first := CalculateValidMoves(board, model.Position{Row: 6, Col: 7})
	second := CalculateValidMoves(board, model.Position{Row: 6, Col: 7})

	s.Equal(first, second)
	s.Empty(cmp.Diff(before, board))
}

// Selection state machine tests

func (s *EngineSuite) TestSelectOccupiedCell() {
	s.Equal(model.ActivationSelected, s.tap(6, 20))

	sel, ok := s.engine.Selection()
	s.True(ok)
	s.Equal(model.Position{Row: 6, Col: 20}, sel)
	s.Equal([]model.Position{{Row: 4, Col: 20}}, s.engine.ValidMoves())
	s.Equal([]model.EventType{model.EventPieceSelected}, s.eventTypes())
}

func (s *EngineSuite) TestSelectPieceWithoutMoves() {
	s.Equal(model.ActivationSelected, s.tap(5, 20))
	s.Empty(s.engine.ValidMoves())
}

func (s *EngineSuite) TestSelectSameCellTogglesOff() {
	s.tap(6, 20)
	s.Equal(model.ActivationDeselected, s.tap(6, 20))

	_, ok := s.engine.Selection()
	s.False(ok)
	s.Empty(s.engine.ValidMoves())
}

func (s *EngineSuite) TestSelectDifferentPieceReselects() {
	s.tap(6, 20)
	s.Equal(model.ActivationSelected, s.tap(10, 21))

	sel, _ := s.engine.Selection()
	s.Equal(model.Position{Row: 10, Col: 21}, sel)
	// Deep inside the filled area there is nowhere to land
	s.Empty(s.engine.ValidMoves())
}

func (s *EngineSuite) TestEmptyNonMoveCellClearsSelection() {
	s.tap(6, 20)
	s.Equal(model.ActivationDeselected, s.tap(0, 25))

	_, ok := s.engine.Selection()
	s.False(ok)
	s.Empty(s.engine.ValidMoves())
}

func (s *EngineSuite) TestEmptyCellWithoutSelectionIsIgnored() {
	s.Equal(model.ActivationIgnored, s.tap(0, 25))
	s.Empty(s.events)
}

func (s *EngineSuite) TestOutOfBoundsActivationIsIgnored() {
	s.tap(6, 20)
	before := s.engine.Snapshot()

	s.Equal(model.ActivationIgnored, s.engine.ActivateCell(-1, 0))
	s.Equal(model.ActivationIgnored, s.engine.ActivateCell(model.Rows, 0))
	s.Equal(model.ActivationIgnored, s.engine.ActivateCell(0, -1))
	s.Equal(model.ActivationIgnored, s.engine.ActivateCell(0, model.VisibleCols))

	s.Equal(before, s.engine.Snapshot())
}

// Move application tests

func (s *EngineSuite) TestScenarioJumpNeedsOccupiedMidpoint() {
	s.engine.viewport = Viewport{offset: 0}

	// (4,7) starts empty, so (3,7) is not offered
	s.Equal(model.ActivationSelected, s.engine.ActivateCell(5, 7))
	s.NotContains(s.engine.ValidMoves(), model.Position{Row: 3, Col: 7})
	s.Equal(model.ActivationDeselected, s.engine.ActivateCell(5, 7))

	s.engine.board.Set(model.Position{Row: 4, Col: 7}, true)
	s.Equal(model.ActivationSelected, s.engine.ActivateCell(5, 7))
	s.Contains(s.engine.ValidMoves(), model.Position{Row: 3, Col: 7})

	s.Equal(model.ActivationMoved, s.engine.ActivateCell(3, 7))

	board := s.engine.Board()
	s.False(board[5][7])
	s.False(board[4][7])
	s.True(board[3][7])
}

func (s *EngineSuite) TestMoveChangesExactlyThreeCells() {
	before := s.engine.Board()
	s.jump(model.Position{Row: 6, Col: 20}, model.Position{Row: 4, Col: 20})
	after := s.engine.Board()

	var removed, added []model.Position
	for row := 0; row < model.Rows; row++ {
		for col := 0; col < model.TotalCols; col++ {
			switch {
			case before[row][col] && !after[row][col]:
				removed = append(removed, model.Position{Row: row, Col: col})
			case !before[row][col] && after[row][col]:
				added = append(added, model.Position{Row: row, Col: col})
			}
		}
	}

	s.ElementsMatch([]model.Position{{Row: 6, Col: 20}, {Row: 5, Col: 20}}, removed)
	s.Equal([]model.Position{{Row: 4, Col: 20}}, added)
	s.Equal(before.PieceCount()-1, after.PieceCount())
}

func (s *EngineSuite) TestMoveClearsSelectionAndPushesHistory() {
	s.jump(model.Position{Row: 6, Col: 20}, model.Position{Row: 4, Col: 20})

	_, ok := s.engine.Selection()
	s.False(ok)
	s.Empty(s.engine.ValidMoves())
	s.Equal(1, s.engine.HistoryLen())
	s.True(s.engine.CanUndo())
}

func (s *EngineSuite) TestMoveEmitsEvent() {
	s.jump(model.Position{Row: 6, Col: 20}, model.Position{Row: 4, Col: 20})

	s.Equal([]model.EventType{
		model.EventPieceSelected,
		model.EventMoveApplied,
		model.EventMilestoneReached,
	}, s.eventTypes())

	payload, ok := s.events[1].Payload.(model.MoveAppliedPayload)
	s.Require().True(ok)
	s.Equal(model.Position{Row: 6, Col: 20}, payload.From)
	s.Equal(model.Position{Row: 5, Col: 20}, payload.Jumped)
	s.Equal(model.Position{Row: 4, Col: 20}, payload.To)
	s.Equal(1, payload.History)
}

func (s *EngineSuite) TestStaleValidMoveIsNotApplied() {
	s.tap(6, 20)
	// Board changes under the selection without recomputing moves
	s.engine.board.Set(model.Position{Row: 5, Col: 20}, false)
	s.engine.validMoves = nil

	s.Equal(model.ActivationDeselected, s.tap(4, 20))
	s.False(s.engine.Board()[4][20])
}

func (s *EngineSuite) TestHistorySnapshotsAreIndependent() {
	s.jump(model.Position{Row: 6, Col: 20}, model.Position{Row: 4, Col: 20})
	snapshot := s.engine.Snapshot()
	pushed := snapshot.History[0]

	s.jump(model.Position{Row: 6, Col: 22}, model.Position{Row: 4, Col: 22})

	s.Empty(cmp.Diff(pushed, s.engine.history[0]))
	s.True(s.engine.history[0][6][22])
}

// Milestone tests

func (s *EngineSuite) TestFirstMoveReachesRowFour() {
	s.jump(model.Position{Row: 6, Col: 20}, model.Position{Row: 4, Col: 20})

	s.Equal(4, s.engine.HighestRowReached())
	msg, ok := s.engine.AdvisoryMessage()
	s.True(ok)
	s.Equal("Nice start! The journey has just begun.", msg)
}

func (s *EngineSuite) TestMilestoneFiresOncePerRow() {
	s.climbToTop()

	var rows []int
	for _, evt := range s.events {
		if evt.Type == model.EventMilestoneReached {
			rows = append(rows, evt.Payload.(model.MilestoneReachedPayload).Row)
		}
	}
	s.Equal([]int{4, 3, 2, 1, 0}, rows)

	msg, _ := s.engine.AdvisoryMessage()
	s.Equal("VICTORY! You have conquered the board!", msg)
	s.Equal(0, s.engine.HighestRowReached())

	last := s.events[len(s.events)-1].Payload.(model.MilestoneReachedPayload)
	s.True(last.Victory)
}

func (s *EngineSuite) TestMilestoneNotRepeatedForReachedRow() {
	s.jump(model.Position{Row: 6, Col: 20}, model.Position{Row: 4, Col: 20})
	s.events = nil

	s.jump(model.Position{Row: 6, Col: 24}, model.Position{Row: 4, Col: 24})

	s.NotContains(s.eventTypes(), model.EventMilestoneReached)
	s.Equal(4, s.engine.HighestRowReached())
}

func (s *EngineSuite) TestMilestoneSkippedRowIsNotAnnounced() {
	var board model.Board
	board.Set(model.Position{Row: 5, Col: 22}, true)
	board.Set(model.Position{Row: 4, Col: 22}, true)
	s.engine.board = board

	s.jump(model.Position{Row: 5, Col: 22}, model.Position{Row: 3, Col: 22})

	s.Equal(3, s.engine.HighestRowReached())
	msg, _ := s.engine.AdvisoryMessage()
	s.Equal("Making progress! You're getting the hang of this.", msg)

	var milestones int
	for _, evt := range s.events {
		if evt.Type == model.EventMilestoneReached {
			milestones++
		}
	}
	s.Equal(1, milestones)
}

func (s *EngineSuite) TestNoMilestoneForLateralMove() {
	s.jump(model.Position{Row: 6, Col: 20}, model.Position{Row: 4, Col: 20})
	s.engine.DismissAdvisory()
	s.events = nil

	// Sideways jump along row 5 into the hole left at (5,20)
	s.jump(model.Position{Row: 5, Col: 22}, model.Position{Row: 5, Col: 20})

	s.NotContains(s.eventTypes(), model.EventMilestoneReached)
	_, ok := s.engine.AdvisoryMessage()
	s.False(ok)
	s.Equal(4, s.engine.HighestRowReached())
}

func (s *EngineSuite) TestUndoDoesNotRollBackMilestone() {
	s.jump(model.Position{Row: 6, Col: 20}, model.Position{Row: 4, Col: 20})
	s.engine.DismissAdvisory()
	s.Require().True(s.engine.Undo())
	s.events = nil

	s.jump(model.Position{Row: 6, Col: 20}, model.Position{Row: 4, Col: 20})

	s.Equal(4, s.engine.HighestRowReached())
	s.NotContains(s.eventTypes(), model.EventMilestoneReached)
}

// Undo tests

func (s *EngineSuite) TestUndoIsLeftInverseOfMove() {
	before := s.engine.Board()
	s.jump(model.Position{Row: 6, Col: 20}, model.Position{Row: 4, Col: 20})
	s.tap(6, 22)

	s.True(s.engine.Undo())

	s.Empty(cmp.Diff(before, s.engine.Board()))
	_, ok := s.engine.Selection()
	s.False(ok)
	s.Empty(s.engine.ValidMoves())
	s.False(s.engine.CanUndo())
}

func (s *EngineSuite) TestUndoRestoresInOrder() {
	first := s.engine.Board()
	s.jump(model.Position{Row: 6, Col: 20}, model.Position{Row: 4, Col: 20})
	second := s.engine.Board()
	s.jump(model.Position{Row: 5, Col: 22}, model.Position{Row: 5, Col: 20})

	s.True(s.engine.Undo())
	s.Empty(cmp.Diff(second, s.engine.Board()))
	s.True(s.engine.Undo())
	s.Empty(cmp.Diff(first, s.engine.Board()))
}

func (s *EngineSuite) TestUndoWithEmptyHistoryIsNoop() {
	s.tap(6, 20)
	before := s.engine.Snapshot()
	s.events = nil

	s.False(s.engine.Undo())
	s.Equal(before, s.engine.Snapshot())
	s.Empty(s.events)
}

// Reset tests

func (s *EngineSuite) TestResetRestoresInitialState() {
	s.climbToTop()
	s.Require().Equal(model.ActivationSelected, s.tap(0, 20))
	s.engine.PanRight()

	s.engine.Reset()

	s.Empty(cmp.Diff(model.NewBoard(), s.engine.Board()))
	_, ok := s.engine.Selection()
	s.False(ok)
	s.Empty(s.engine.ValidMoves())
	s.False(s.engine.CanUndo())
	s.Equal(model.DefaultViewportOffset, s.engine.ViewportOffset())
	s.Equal(model.StartRow, s.engine.HighestRowReached())
}

func (s *EngineSuite) TestResetKeepsAdvisoryForTimer() {
	s.jump(model.Position{Row: 6, Col: 20}, model.Position{Row: 4, Col: 20})
	s.engine.Reset()

	_, ok := s.engine.AdvisoryMessage()
	s.True(ok)
}

func (s *EngineSuite) TestFreshResetHasNoAdvisory() {
	s.engine.Reset()

	s.Equal(model.StartRow, s.engine.HighestRowReached())
	_, ok := s.engine.AdvisoryMessage()
	s.False(ok)
}

func (s *EngineSuite) TestMilestonesFireAgainAfterReset() {
	s.jump(model.Position{Row: 6, Col: 20}, model.Position{Row: 4, Col: 20})
	s.engine.DismissAdvisory()
	s.engine.Reset()
	s.events = nil

	s.jump(model.Position{Row: 6, Col: 20}, model.Position{Row: 4, Col: 20})
	s.Contains(s.eventTypes(), model.EventMilestoneReached)
}

// Viewport tests

func (s *EngineSuite) TestPanClampsForAnySequence() {
	sequence := []bool{false, false, false, false, false, true, true, true, true, true, true, true, true, true, true, false, true, true}
	for _, right := range sequence {
		if right {
			s.engine.PanRight()
		} else {
			s.engine.PanLeft()
		}
		offset := s.engine.ViewportOffset()
		s.GreaterOrEqual(offset, 0)
		s.LessOrEqual(offset, model.MaxViewportOffset)
	}
}

func (s *EngineSuite) TestPanLeftStopsAtZero() {
	s.True(s.engine.PanLeft())
	s.Equal(13, s.engine.ViewportOffset())
	s.engine.PanLeft()
	s.engine.PanLeft()
	s.True(s.engine.PanLeft())
	s.Equal(0, s.engine.ViewportOffset())
	s.False(s.engine.CanPanLeft())
	s.False(s.engine.PanLeft())
	s.Equal(0, s.engine.ViewportOffset())
}

func (s *EngineSuite) TestPanRightStopsAtMax() {
	for i := 0; i < 10; i++ {
		s.engine.PanRight()
	}
	s.Equal(model.MaxViewportOffset, s.engine.ViewportOffset())
	s.Equal(36, s.engine.ViewportOffset())
	s.False(s.engine.CanPanRight())
}

func (s *EngineSuite) TestActivationUsesViewportOffset() {
	s.engine.PanLeft() // offset 13

	s.Equal(model.ActivationSelected, s.engine.ActivateCell(6, 2))
	sel, _ := s.engine.Selection()
	s.Equal(model.Position{Row: 6, Col: 15}, sel)

	s.Equal(model.ActivationMoved, s.engine.ActivateCell(4, 2))
	s.True(s.engine.Board()[4][15])
}

func (s *EngineSuite) TestPanKeepsSelection() {
	s.tap(6, 20)
	s.engine.PanRight()

	sel, ok := s.engine.Selection()
	s.True(ok)
	s.Equal(model.Position{Row: 6, Col: 20}, sel)
}

func (s *EngineSuite) TestPanEmitsOnlyWhenMoved() {
	s.engine.viewport = Viewport{offset: 0}
	s.engine.PanLeft()
	s.Empty(s.events)

	s.engine.PanRight()
	s.Require().Len(s.events, 1)
	s.Equal(model.PannedPayload{From: 0, To: 5}, s.events[0].Payload)
}

// Snapshot tests

func (s *EngineSuite) TestSnapshotRestoreRoundTrip() {
	s.jump(model.Position{Row: 6, Col: 20}, model.Position{Row: 4, Col: 20})
	s.tap(6, 22)
	s.engine.PanRight()

	restored, err := Restore(s.engine.Snapshot())
	s.Require().NoError(err)

	s.Equal(s.engine.Snapshot(), restored.Snapshot())
	s.Equal([]model.Position{{Row: 4, Col: 22}, {Row: 6, Col: 20}}, restored.ValidMoves())
}

func (s *EngineSuite) TestRestoreRecomputesValidMoves() {
	state := model.NewGameState()
	state.Selection = &model.Position{Row: 6, Col: 7}
	state.ValidMoves = []model.Position{{Row: 19, Col: 19}}

	restored, err := Restore(state)
	s.Require().NoError(err)
	s.Equal([]model.Position{{Row: 4, Col: 7}}, restored.ValidMoves())
}

func (s *EngineSuite) TestRestoreRejectsInconsistentState() {
	state := model.NewGameState()
	state.ViewportOffset = model.MaxViewportOffset + 1
	_, err := Restore(state)
	s.ErrorIs(err, model.ErrInvalidState)

	state = model.NewGameState()
	state.HighestRowReached = 9
	_, err = Restore(state)
	s.ErrorIs(err, model.ErrInvalidState)

	state = model.NewGameState()
	state.Selection = &model.Position{Row: 0, Col: 0}
	_, err = Restore(state)
	s.ErrorIs(err, model.ErrInvalidState)
}

func (s *EngineSuite) TestHasMoves() {
	s.True(s.engine.HasMoves())

	s.engine.board = model.Board{}
	s.engine.board.Set(model.Position{Row: 10, Col: 10}, true)
	s.False(s.engine.HasMoves())
}

// climbToTop plays five jumps that set a new record on each of rows 4 to 0.
// Pieces above the filled area are placed by hand before each jump.
func (s *EngineSuite) climbToTop() {
	var b model.Board
	for _, p := range []model.Position{
		{Row: 6, Col: 20}, {Row: 5, Col: 20},
		{Row: 5, Col: 21}, {Row: 4, Col: 21},
	} {
		b.Set(p, true)
	}
	s.engine.board = b
	s.engine.highestRow = model.StartRow

	s.jump(model.Position{Row: 6, Col: 20}, model.Position{Row: 4, Col: 20})
	s.jump(model.Position{Row: 5, Col: 21}, model.Position{Row: 3, Col: 21})

	s.engine.board.Set(model.Position{Row: 3, Col: 20}, true)
	s.jump(model.Position{Row: 4, Col: 20}, model.Position{Row: 2, Col: 20})

	s.engine.board.Set(model.Position{Row: 2, Col: 21}, true)
	s.jump(model.Position{Row: 3, Col: 21}, model.Position{Row: 1, Col: 21})

	s.engine.board.Set(model.Position{Row: 1, Col: 20}, true)
	s.jump(model.Position{Row: 2, Col: 20}, model.Position{Row: 0, Col: 20})
}
