// Package diagram owns the placed tables and the links between their columns.
package diagram

import (
	"fmt"
	"io"
	"log/slog"

	"schemaboard/internal/layout"
	"schemaboard/internal/schema"
)

// PlacedItem is a catalog table dropped on the canvas. Position is the
// top-left corner in canvas units.
type PlacedItem struct {
	Table    schema.Table
	Position layout.Point
}

func (p PlacedItem) ID() string {
	return p.Table.ID
}

type Option func(*Canvas)

func WithPlacer(p layout.Placer) Option {
	return func(c *Canvas) {
		c.placer = p
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Canvas) {
		if l != nil {
			c.log = l
		}
	}
}

// Canvas is the single source of truth for the rendering surface: placed
// items in insertion order plus the connection store.
type Canvas struct {
	items       []PlacedItem
	index       map[string]int
	connections *ConnectionStore
	placer      layout.Placer
	log         *slog.Logger
}

func NewCanvas(opts ...Option) *Canvas {
	c := &Canvas{
		items:       make([]PlacedItem, 0),
		index:       make(map[string]int),
		connections: NewConnectionStore(),
		placer:      layout.NewPlacer(),
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Place drops table at the nearest free point to desired. Placing a table
// that is already on the canvas does nothing.
func (c *Canvas) Place(table schema.Table, desired layout.Point) bool {
	if _, ok := c.index[table.ID]; ok {
		return false
	}
	pos, ok := c.placer.Resolve(desired, c.Occupied(), "")
	if !ok {
		c.log.Warn("no free slot for table", "table", table.ID, "desired", desired, "max_steps", c.placer.MaxSteps)
		return false
	}
	c.index[table.ID] = len(c.items)
	c.items = append(c.items, PlacedItem{Table: table, Position: pos})
	c.log.Info("table placed", "table", table.ID, "x", pos.X, "y", pos.Y)
	return true
}

// Move repositions a placed item, ignoring its own previous slot while
// searching. Unknown ids are ignored.
func (c *Canvas) Move(itemID string, desired layout.Point) bool {
	i, ok := c.index[itemID]
	if !ok {
		return false
	}
	pos, ok := c.placer.Resolve(desired, c.Occupied(), itemID)
	if !ok {
		c.log.Warn("no free slot for move", "table", itemID, "desired", desired, "max_steps", c.placer.MaxSteps)
		return false
	}
	c.items[i].Position = pos
	c.log.Info("table moved", "table", itemID, "x", pos.X, "y", pos.Y)
	return true
}

// Remove deletes the item and every connection touching it.
func (c *Canvas) Remove(itemID string) bool {
	i, ok := c.index[itemID]
	if !ok {
		return false
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	delete(c.index, itemID)
	for j := i; j < len(c.items); j++ {
		c.index[c.items[j].ID()] = j
	}
	dropped := c.connections.RemoveByItem(itemID)
	c.log.Info("table removed", "table", itemID, "connections_dropped", dropped)
	return true
}

// Connect links two placed columns. A self-loop is refused before the
// endpoints are looked up; both endpoints must exist.
func (c *Canvas) Connect(start, end Endpoint) (Connection, error) {
	if start == end {
		return Connection{}, &ConnectionError{Start: start, End: end, Err: ErrSelfLoop}
	}
	if !c.HasEndpoint(start) {
		return Connection{}, &ConnectionError{Start: start, End: end, Err: fmt.Errorf("start: %w", ErrUnknownEndpoint)}
	}
	if !c.HasEndpoint(end) {
		return Connection{}, &ConnectionError{Start: start, End: end, Err: fmt.Errorf("end: %w", ErrUnknownEndpoint)}
	}
	conn, err := c.connections.Add(start, end)
	if err != nil {
		return Connection{}, err
	}
	c.log.Info("columns connected", "from", start.String(), "to", end.String())
	return conn, nil
}

func (c *Canvas) HasEndpoint(e Endpoint) bool {
	item, ok := c.Get(e.ItemID)
	if !ok {
		return false
	}
	_, ok = item.Table.Column(e.ColumnID)
	return ok
}

func (c *Canvas) Get(itemID string) (PlacedItem, bool) {
	i, ok := c.index[itemID]
	if !ok {
		return PlacedItem{}, false
	}
	return c.items[i], true
}

func (c *Canvas) Has(itemID string) bool {
	_, ok := c.index[itemID]
	return ok
}

func (c *Canvas) List() []PlacedItem {
	out := make([]PlacedItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Canvas) Len() int {
	return len(c.items)
}

func (c *Canvas) Connections() []Connection {
	return c.connections.List()
}

func (c *Canvas) ConnectionsOf(itemID string) []Connection {
	return c.connections.Touching(itemID)
}

// Occupied returns the current positions in insertion order.
func (c *Canvas) Occupied() []layout.Slot {
	slots := make([]layout.Slot, len(c.items))
	for i, item := range c.items {
		slots[i] = layout.Slot{ID: item.ID(), Position: item.Position}
	}
	return slots
}

// AllPlaced reports whether every catalog table is on the canvas.
func (c *Canvas) AllPlaced(catalog *schema.Catalog) bool {
	if catalog == nil || catalog.Len() == 0 {
		return false
	}
	for _, t := range catalog.Tables() {
		if !c.Has(t.ID) {
			return false
		}
	}
	return true
}
