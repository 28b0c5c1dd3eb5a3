package engine

import "github.com/mcoot/pegjump/internal/model"

// Viewport tracks which VisibleCols-wide window of the board is shown
type Viewport struct {
	offset int
}

// NewViewport returns a viewport centred on the board
func NewViewport() Viewport {
	return Viewport{offset: model.DefaultViewportOffset}
}

// ViewportAt returns a viewport at offset, clamped to the board
func ViewportAt(offset int) Viewport {
	return Viewport{offset: model.ClampOffset(offset)}
}

// Offset returns the absolute column of the leftmost visible column
func (v Viewport) Offset() int {
	return v.offset
}

// PanLeft moves the window PanStep columns left, stopping at the board edge
func (v *Viewport) PanLeft() {
	v.offset = model.ClampOffset(v.offset - model.PanStep)
}

// PanRight moves the window PanStep columns right, stopping at the board edge
func (v *Viewport) PanRight() {
	v.offset = model.ClampOffset(v.offset + model.PanStep)
}

// CanPanLeft reports whether PanLeft would change the offset
func (v Viewport) CanPanLeft() bool {
	return v.offset > 0
}

// CanPanRight reports whether PanRight would change the offset
func (v Viewport) CanPanRight() bool {
	return v.offset < model.MaxViewportOffset
}

// ToAbsolute translates visible coordinates into a board position.
// ok is false when the visible coordinates fall outside the window.
func (v Viewport) ToAbsolute(visibleRow, visibleCol int) (pos model.Position, ok bool) {
	if visibleRow < 0 || visibleRow >= model.Rows || visibleCol < 0 || visibleCol >= model.VisibleCols {
		return model.Position{}, false
	}
	return model.Position{Row: visibleRow, Col: visibleCol + v.offset}, true
}

// ToVisible translates a board position into visible coordinates.
// ok is false when the position is not inside the current window.
func (v Viewport) ToVisible(pos model.Position) (row, col int, ok bool) {
	col = pos.Col - v.offset
	if !pos.InBounds() || col < 0 || col >= model.VisibleCols {
		return 0, 0, false
	}
	return pos.Row, col, true
}

// Reset recentres the viewport
func (v *Viewport) Reset() {
	v.offset = model.DefaultViewportOffset
}
