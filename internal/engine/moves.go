package engine

import "github.com/mcoot/pegjump/internal/model"

// jumpDirections lists the four jumps in the order moves are reported: up, down, left, right
var jumpDirections = [4]model.Position{
	{Row: -2, Col: 0},
	{Row: 2, Col: 0},
	{Row: 0, Col: -2},
	{Row: 0, Col: 2},
}

// CalculateValidMoves returns every destination reachable from pos by a single jump.
// A jump travels two cells up, down, left or right over an occupied midpoint into an
// empty cell. An empty or out-of-bounds source has no moves.
func CalculateValidMoves(board model.Board, pos model.Position) []model.Position {
	if !board.Get(pos) {
		return nil
	}

	var moves []model.Position
	for _, d := range jumpDirections {
		dest := model.Position{Row: pos.Row + d.Row, Col: pos.Col + d.Col}
		if !dest.InBounds() {
			continue
		}
		if !board.Get(dest) && board.Get(midpoint(pos, dest)) {
			moves = append(moves, dest)
		}
	}
	return moves
}

// IsValidMove reports whether to is one of the destinations computed for from
func IsValidMove(moves []model.Position, to model.Position) bool {
	for _, m := range moves {
		if m == to {
			return true
		}
	}
	return false
}

// HasAnyMove reports whether any piece on the board can still jump
func HasAnyMove(board model.Board) bool {
	for row := 0; row < model.Rows; row++ {
		for col := 0; col < model.TotalCols; col++ {
			if len(CalculateValidMoves(board, model.Position{Row: row, Col: col})) > 0 {
				return true
			}
		}
	}
	return false
}

// applyJump returns a new board with the piece at from moved to to and the
// midpoint piece removed. The input board is not modified.
func applyJump(board model.Board, from, to model.Position) model.Board {
	next := board
	next.Set(from, false)
	next.Set(midpoint(from, to), false)
	next.Set(to, true)
	return next
}

func midpoint(from, to model.Position) model.Position {
	return model.Position{
		Row: from.Row + (to.Row-from.Row)/2,
		Col: from.Col + (to.Col-from.Col)/2,
	}
}
