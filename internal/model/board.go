package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Board dimensions and viewport geometry
const (
	Rows        = 20
	TotalCols   = 51
	VisibleCols = 15

	// StartRow is the first row filled with pieces on a fresh board
	StartRow = 5

	// PanStep is how many columns a single pan moves the viewport
	PanStep = 5

	MaxViewportOffset     = TotalCols - VisibleCols
	DefaultViewportOffset = MaxViewportOffset / 2
)

// Cell glyphs used by the text encoding of a board
const (
	PieceGlyph = 'o'
	EmptyGlyph = '.'
)

// Position identifies a cell on the full board
type Position struct {
	Row int `json:"row"` // 0-indexed from top
	Col int `json:"col"` // 0-indexed from left, absolute board column
}

// InBounds returns true if the position lies on the board
func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < Rows && p.Col >= 0 && p.Col < TotalCols
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Board is the full grid of cells, true where a piece sits.
// It is a value type: assigning or passing a Board copies it.
type Board [Rows][TotalCols]bool

// NewBoard returns the starting layout: rows from StartRow down are full
func NewBoard() Board {
	var b Board
	for row := StartRow; row < Rows; row++ {
		for col := 0; col < TotalCols; col++ {
			b[row][col] = true
		}
	}
	return b
}

// Get returns whether a piece sits at pos. Out-of-bounds positions are empty.
func (b *Board) Get(pos Position) bool {
	if !pos.InBounds() {
		return false
	}
	return b[pos.Row][pos.Col]
}

// Set places or removes a piece. Out-of-bounds positions are ignored.
func (b *Board) Set(pos Position, occupied bool) {
	if pos.InBounds() {
		b[pos.Row][pos.Col] = occupied
	}
}

// PieceCount returns the number of pieces on the board
func (b *Board) PieceCount() int {
	count := 0
	for row := 0; row < Rows; row++ {
		for col := 0; col < TotalCols; col++ {
			if b[row][col] {
				count++
			}
		}
	}
	return count
}

// TopmostRow returns the smallest row index holding a piece, or Rows if empty
func (b *Board) TopmostRow() int {
	for row := 0; row < Rows; row++ {
		for col := 0; col < TotalCols; col++ {
			if b[row][col] {
				return row
			}
		}
	}
	return Rows
}

// Window returns the Rows x VisibleCols slice of the board starting at offset
func (b *Board) Window(offset int) [][]bool {
	offset = ClampOffset(offset)
	window := make([][]bool, Rows)
	for row := 0; row < Rows; row++ {
		window[row] = make([]bool, VisibleCols)
		copy(window[row], b[row][offset:offset+VisibleCols])
	}
	return window
}

// RowStrings encodes each row as a string of PieceGlyph and EmptyGlyph
func (b *Board) RowStrings() []string {
	rows := make([]string, Rows)
	for row := 0; row < Rows; row++ {
		rows[row] = encodeRow(b[row][:])
	}
	return rows
}

// WindowStrings encodes the visible window at offset the same way as RowStrings
func (b *Board) WindowStrings(offset int) []string {
	window := b.Window(offset)
	rows := make([]string, len(window))
	for i, cells := range window {
		rows[i] = encodeRow(cells)
	}
	return rows
}

// ParseBoard decodes the output of RowStrings
func ParseBoard(rows []string) (Board, error) {
	var b Board
	if len(rows) != Rows {
		return b, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidBoard, Rows, len(rows))
	}
	for row, line := range rows {
		if len(line) != TotalCols {
			return b, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidBoard, row, len(line), TotalCols)
		}
		for col := 0; col < len(line); col++ {
			switch line[col] {
			case PieceGlyph:
				b[row][col] = true
			case EmptyGlyph:
			default:
				return b, fmt.Errorf("%w: unexpected %q at %s", ErrInvalidBoard, line[col], Position{Row: row, Col: col})
			}
		}
	}
	return b, nil
}

// MarshalJSON encodes the board as an array of row strings
func (b Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.RowStrings())
}

// UnmarshalJSON decodes an array of row strings
func (b *Board) UnmarshalJSON(data []byte) error {
	var rows []string
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidBoard, err)
	}
	parsed, err := ParseBoard(rows)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ClampOffset limits a viewport offset to [0, MaxViewportOffset]
func ClampOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > MaxViewportOffset {
		return MaxViewportOffset
	}
	return offset
}

func encodeRow(cells []bool) string {
	var sb strings.Builder
	sb.Grow(len(cells))
	for _, occupied := range cells {
		if occupied {
			sb.WriteByte(PieceGlyph)
		} else {
			sb.WriteByte(EmptyGlyph)
		}
	}
	return sb.String()
}
