// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package layout places formatted patient blocks into a fixed two-column
// grid. It computes coordinates and region widths only; wrapping text inside
// a region is left to the Surface.
//
// Blocks alternate left and right columns. The vertical cursor advances by
// the row height after every right-column block, regardless of how much
// text either block holds. There is no page break: rows beyond the page
// height overflow and are clipped by the surface.
package layout

import (
	"github.com/samber/lo"

	"github.com/pdiddy/handoff/pkg/types"
)

// Columns is the number of blocks per row.
const Columns = 2

// Slot is the grid position assigned to one block.
type Slot struct {
	// Column is 0 (left) or 1 (right).
	Column int `json:"column" yaml:"column"`

	// Y is the vertical offset from the top margin.
	Y float64 `json:"y" yaml:"y"`
}

// Surface draws a bordered text region of fixed width whose top-left corner
// is at (x, y), wrapping text into lines of lineHeight.
type Surface interface {
	TextBlock(x, y, width, lineHeight float64, text string)
}

// Grid holds the geometry of the two-column layout.
type Grid struct {
	cfg types.LayoutConfig
}

// NewGrid returns a Grid for cfg, filling unset geometry with defaults.
func NewGrid(cfg types.LayoutConfig) Grid {
	return Grid{cfg: cfg.WithDefaults()}
}

// Place returns the slot of the block at 0-based position i.
func (g Grid) Place(i int) Slot {
	return Slot{
		Column: i % Columns,
		Y:      float64(i/Columns) * g.cfg.RowHeight,
	}
}

// Slots returns the slots of the first n blocks.
func (g Grid) Slots(n int) []Slot {
	return lo.Times(n, g.Place)
}

// X returns the left edge of a column.
func (g Grid) X(column int) float64 {
	return g.cfg.LeftMargin + float64(column)*(g.cfg.ColumnWidth+g.cfg.Gutter)
}

// Origin returns the absolute top-left corner of s on the page.
func (g Grid) Origin(s Slot) (x, y float64) {
	return g.X(s.Column), g.cfg.TopMargin + s.Y
}

// Render draws blocks onto s in order and returns the slot used for each.
func (g Grid) Render(s Surface, blocks []string) []Slot {
	c := g.NewCursor()
	slots := make([]Slot, 0, len(blocks))
	for _, text := range blocks {
		slot := c.Next()
		x, y := g.Origin(slot)
		s.TextBlock(x, y, g.cfg.ColumnWidth, g.cfg.LineHeight, text)
		slots = append(slots, slot)
	}
	return slots
}

// Overflows returns the indexes of slots whose top edge lies at or beyond
// pageHeight. Those blocks are not visible on the page.
func (g Grid) Overflows(slots []Slot, pageHeight float64) []int {
	var out []int
	for i, s := range slots {
		if _, y := g.Origin(s); y >= pageHeight {
			out = append(out, i)
		}
	}
	return out
}

// Cursor walks the grid one block at a time.
type Cursor struct {
	column    int
	y         float64
	rowHeight float64
}

// NewCursor returns a cursor positioned at the first slot.
func (g Grid) NewCursor() *Cursor {
	return &Cursor{rowHeight: g.cfg.RowHeight}
}

// Next returns the current slot and advances the cursor. The column toggles
// after every block; the row advances after the right column.
func (c *Cursor) Next() Slot {
	s := Slot{Column: c.column, Y: c.y}
	c.column = (c.column + 1) % Columns
	if c.column == 0 {
		c.y += c.rowHeight
	}
	return s
}
