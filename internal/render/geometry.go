// Package render turns the canvas state into terminal cells, text and PNG
// images. It owns no state; everything is derived from the placed items and
// connections handed to it.
package render

import (
	"fmt"

	"schemaboard/internal/diagram"
	"schemaboard/internal/layout"
	"schemaboard/internal/schema"
)

const (
	DefaultUnitsPerCol = 10
	DefaultUnitsPerRow = 20
	DefaultBoxWidth    = 200 // canvas units
	DefaultMaxColumns  = 7   // fits a box inside layout.DefaultSeparation


	headerRows = 3 // top border, title, rule
)

type Cell struct {
	X, Y int
}

type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Geometry converts canvas units to terminal cells.
type Geometry struct {
	UnitsPerCol int
	UnitsPerRow int
	BoxWidth    int
	// MaxColumns caps the column rows of a box; the last row then reads
	// "+N more". Zero means no cap.
	MaxColumns int
}

func NewGeometry() Geometry {
	return Geometry{
		UnitsPerCol: DefaultUnitsPerCol,
		UnitsPerRow: DefaultUnitsPerRow,
		BoxWidth:    DefaultBoxWidth,
		MaxColumns:  DefaultMaxColumns,
	}
}

// MaxColumnsFor is the largest column count whose box is no taller than
// separation, so that boxes kept apart by the placer never overlap.
func MaxColumnsFor(separation, unitsPerRow int) int {
	if unitsPerRow <= 0 {
		unitsPerRow = DefaultUnitsPerRow
	}
	return max(separation/unitsPerRow-headerRows-1, 1)
}

// visibleColumns splits a table's columns into the rows drawn in full and
// the count folded into the "+N more" row.
func (g Geometry) visibleColumns(t schema.Table) (shown, hidden int) {
	n := len(t.Columns)
	if g.MaxColumns <= 0 || n <= g.MaxColumns {
		return n, 0
	}
	shown = g.MaxColumns - 1
	return shown, n - shown
}

func (g Geometry) columnRows(t schema.Table) int {
	shown, hidden := g.visibleColumns(t)
	if hidden > 0 {
		return shown + 1
	}
	return shown
}

func (g Geometry) normalized() Geometry {
	if g.UnitsPerCol <= 0 {
		g.UnitsPerCol = DefaultUnitsPerCol
	}
	if g.UnitsPerRow <= 0 {
		g.UnitsPerRow = DefaultUnitsPerRow
	}
	if g.BoxWidth <= 0 {
		g.BoxWidth = DefaultBoxWidth
	}
	return g
}

func (g Geometry) CellOf(p layout.Point) Cell {
	g = g.normalized()
	return Cell{X: floorDiv(p.X, g.UnitsPerCol), Y: floorDiv(p.Y, g.UnitsPerRow)}
}

func (g Geometry) PointOf(c Cell) layout.Point {
	g = g.normalized()
	return layout.Point{X: c.X * g.UnitsPerCol, Y: c.Y * g.UnitsPerRow}
}

// BoxRect is the cell rectangle of an item: border, title, rule, one row
// per column, border.
func (g Geometry) BoxRect(item diagram.PlacedItem) Rect {
	g = g.normalized()
	c := g.CellOf(item.Position)
	return Rect{
		X: c.X,
		Y: c.Y,
		W: g.BoxWidth / g.UnitsPerCol,
		H: g.columnRows(item.Table) + headerRows + 1,
	}
}

// Anchor returns the cell just outside the box on the given column row:
// right of the right edge for a start, left of the left edge for an end.
// Folded columns anchor on the "+N more" row.
func (g Geometry) Anchor(item diagram.PlacedItem, columnID string, start bool) (Cell, bool) {
	row := item.Table.ColumnIndex(columnID)
	if row < 0 {
		return Cell{}, false
	}
	if shown, hidden := g.visibleColumns(item.Table); hidden > 0 && row > shown {
		row = shown
	}
	r := g.BoxRect(item)
	y := r.Y + headerRows + row
	if start {
		return Cell{X: r.X + r.W, Y: y}, true
	}
	return Cell{X: r.X - 1, Y: y}, true
}

type Part int

const (
	PartNone Part = iota
	PartHeader
	PartColumn
	PartFooter
	PartMore // the "+N more" row of a clipped box
)

type Hit struct {
	ItemID   string
	ColumnID string
	Part     Part
}

// HitTest finds what lies under a cell. Later items are drawn on top, so
// they win.
func (g Geometry) HitTest(items []diagram.PlacedItem, x, y int) Hit {
	for i := len(items) - 1; i >= 0; i-- {
		item := items[i]
		r := g.BoxRect(item)
		if !r.Contains(x, y) {
			continue
		}
		row := y - r.Y
		switch {
		case row < headerRows:
			return Hit{ItemID: item.ID(), Part: PartHeader}
		case row == r.H-1:
			return Hit{ItemID: item.ID(), Part: PartFooter}
		default:
			if shown, hidden := g.visibleColumns(item.Table); hidden > 0 && row-headerRows >= shown {
				return Hit{ItemID: item.ID(), Part: PartMore}
			}
			return Hit{ItemID: item.ID(), ColumnID: item.Table.Columns[row-headerRows].ID, Part: PartColumn}
		}
	}
	return Hit{}
}

// Route is the orthogonal path of a connection: out of the start row to the
// right, across at the midpoint column, into the end row from the left.
func (g Geometry) Route(from, to Cell) []Cell {
	if from.Y == to.Y {
		return []Cell{from, to}
	}
	midX := (from.X + to.X) / 2
	return []Cell{from, {X: midX, Y: from.Y}, {X: midX, Y: to.Y}, to}
}

// ConnectionPath resolves both anchors of a connection. ok is false when an
// endpoint no longer exists.
func (g Geometry) ConnectionPath(items []diagram.PlacedItem, conn diagram.Connection) ([]Cell, bool) {
	start, ok := findItem(items, conn.Start.ItemID)
	if !ok {
		return nil, false
	}
	end, ok := findItem(items, conn.End.ItemID)
	if !ok {
		return nil, false
	}
	from, ok := g.Anchor(start, conn.Start.ColumnID, true)
	if !ok {
		return nil, false
	}
	to, ok := g.Anchor(end, conn.End.ColumnID, false)
	if !ok {
		return nil, false
	}
	return g.Route(from, to), true
}

// Extent returns the bounding rectangle of every box, or false when there
// are none.
func (g Geometry) Extent(items []diagram.PlacedItem) (Rect, bool) {
	if len(items) == 0 {
		return Rect{}, false
	}
	first := g.BoxRect(items[0])
	minX, minY := first.X, first.Y
	maxX, maxY := first.X+first.W, first.Y+first.H
	for _, item := range items[1:] {
		r := g.BoxRect(item)
		minX = min(minX, r.X)
		minY = min(minY, r.Y)
		maxX = max(maxX, r.X+r.W)
		maxY = max(maxY, r.Y+r.H)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}, true
}

func findItem(items []diagram.PlacedItem, id string) (diagram.PlacedItem, bool) {
	for _, item := range items {
		if item.ID() == id {
			return item, true
		}
	}
	return diagram.PlacedItem{}, false
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func moreLabel(hidden int) string {
	return fmt.Sprintf("+%d more", hidden)
}
