package render

import (
	"strings"

	"schemaboard/internal/diagram"
	"schemaboard/internal/schema"
)

// Ghost is an outline drawn where a dragged table would land.
type Ghost struct {
	Table schema.Table
	At    Cell
}

// LinkPreview is the rubber band drawn while a link is being dragged.
type LinkPreview struct {
	From diagram.Endpoint
	To   Cell
}

type Options struct {
	Width, Height int
	// OriginX/OriginY is the canvas cell shown at the top-left corner.
	OriginX, OriginY int
	Selected         string
	Ghost            *Ghost
	Link             *LinkPreview
}

// ASCII draws connections first so that boxes appear on top of them.
func (g Geometry) ASCII(items []diagram.PlacedItem, conns []diagram.Connection, opts Options) []string {
	width, height := opts.Width, opts.Height
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	canvas := newGrid(width, height, opts.OriginX, opts.OriginY)

	for _, conn := range conns {
		if path, ok := g.ConnectionPath(items, conn); ok {
			canvas.path(path, true)
		}
	}

	if opts.Link != nil {
		if origin, ok := findItem(items, opts.Link.From.ItemID); ok {
			if from, ok := g.Anchor(origin, opts.Link.From.ColumnID, true); ok {
				canvas.path(g.Route(from, opts.Link.To), true)
			}
		}
	}

	for _, item := range items {
		r := g.BoxRect(item)
		marker := ""
		if opts.Link != nil && opts.Link.From.ItemID == item.ID() {
			marker = opts.Link.From.ColumnID
		}
		shown, hidden := g.visibleColumns(item.Table)
		more := ""
		if hidden > 0 {
			more = moreLabel(hidden)
		}
		canvas.box(r, item.Table.Name, item.Table.Columns[:shown], more, item.ID() == opts.Selected, marker)
	}

	if opts.Ghost != nil {
		r := g.BoxRect(diagram.PlacedItem{Table: opts.Ghost.Table})
		r.X, r.Y = opts.Ghost.At.X, opts.Ghost.At.Y
		canvas.ghost(r, opts.Ghost.Table.Name)
	}

	return canvas.lines()
}

type grid struct {
	cells            [][]rune
	originX, originY int
}

func newGrid(width, height, originX, originY int) *grid {
	cells := make([][]rune, height)
	for i := range cells {
		cells[i] = []rune(strings.Repeat(" ", width))
	}
	return &grid{cells: cells, originX: originX, originY: originY}
}

func (g *grid) set(x, y int, r rune) {
	x -= g.originX
	y -= g.originY
	if y < 0 || y >= len(g.cells) || x < 0 || x >= len(g.cells[y]) {
		return
	}
	g.cells[y][x] = r
}

func (g *grid) text(x, y, maxWidth int, s string) {
	for i, r := range []rune(s) {
		if i >= maxWidth {
			break
		}
		g.set(x+i, y, r)
	}
}

func (g *grid) box(r Rect, name string, columns []schema.Column, more string, selected bool, marker string) {
	edge, horizontal, vertical := '+', '-', '|'
	if selected {
		edge, horizontal, vertical = '#', '#', '#'
	}
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			switch {
			case (y == r.Y || y == r.Y+2 || y == r.Y+r.H-1) && (x == r.X || x == r.X+r.W-1):
				g.set(x, y, edge)
			case y == r.Y || y == r.Y+2 || y == r.Y+r.H-1:
				g.set(x, y, horizontal)
			case x == r.X || x == r.X+r.W-1:
				g.set(x, y, vertical)
			default:
				g.set(x, y, ' ')
			}
		}
	}

	inner := r.W - 2
	g.text(r.X+1, r.Y+1, inner, name)
	for i, col := range columns {
		y := r.Y + headerRows + i
		line := " " + col.Name
		if col.DataType != "" && len(line)+len(col.DataType)+1 <= inner {
			line += strings.Repeat(" ", inner-len(line)-len(col.DataType)) + col.DataType
		}
		if col.ID == marker {
			line = "*" + line[1:]
		}
		g.text(r.X+1, y, inner, line)
	}
	if more != "" {
		g.text(r.X+1, r.Y+headerRows+len(columns), inner, " "+more)
	}
}

func (g *grid) ghost(r Rect, title string) {
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			if y == r.Y || y == r.Y+r.H-1 || x == r.X || x == r.X+r.W-1 {
				g.set(x, y, '.')
			}
		}
	}
	g.text(r.X+1, r.Y+1, r.W-2, title)
}

// path draws an axis-aligned polyline with box-drawing corners and an
// optional arrow head on the last point.
func (g *grid) path(points []Cell, arrow bool) {
	if len(points) < 2 {
		return
	}
	for i := 0; i < len(points)-1; i++ {
		a, b := points[i], points[i+1]
		if a.Y == b.Y {
			for x := min(a.X, b.X); x <= max(a.X, b.X); x++ {
				g.set(x, a.Y, '─')
			}
		} else {
			for y := min(a.Y, b.Y); y <= max(a.Y, b.Y); y++ {
				g.set(a.X, y, '│')
			}
		}
	}
	for i := 1; i < len(points)-1; i++ {
		g.set(points[i].X, points[i].Y, corner(points[i-1], points[i], points[i+1]))
	}
	if arrow {
		last, prev := points[len(points)-1], points[len(points)-2]
		g.set(last.X, last.Y, arrowHead(prev, last))
	}
}

func corner(prev, cur, next Cell) rune {
	left := prev.X < cur.X || next.X < cur.X
	right := prev.X > cur.X || next.X > cur.X
	up := prev.Y < cur.Y || next.Y < cur.Y
	down := prev.Y > cur.Y || next.Y > cur.Y
	switch {
	case right && down:
		return '┌'
	case left && down:
		return '┐'
	case right && up:
		return '└'
	case left && up:
		return '┘'
	case left || right:
		return '─'
	default:
		return '│'
	}
}

func arrowHead(prev, last Cell) rune {
	switch {
	case last.X > prev.X:
		return '>'
	case last.X < prev.X:
		return '<'
	case last.Y > prev.Y:
		return 'v'
	case last.Y < prev.Y:
		return '^'
	default:
		return '>'
	}
}

func (g *grid) lines() []string {
	out := make([]string, len(g.cells))
	for i, row := range g.cells {
		out[i] = string(row)
	}
	return out
}
