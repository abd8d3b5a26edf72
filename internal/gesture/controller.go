// Package gesture arbitrates pointer gestures over the canvas. Only one
// gesture is active at a time; a drag-start that arrives while another
// gesture is in flight is dropped, not queued.
package gesture

import (
	"io"
	"log/slog"

	"schemaboard/internal/diagram"
	"schemaboard/internal/schema"
)

type State int

const (
	Idle State = iota
	DraggingTableFromCatalog
	DraggingItemOnCanvas
	DraggingColumnEndpoint
)

func (s State) String() string {
	switch s {
	case Idle:
		return "IDLE"
	case DraggingTableFromCatalog:
		return "DRAG TABLE"
	case DraggingItemOnCanvas:
		return "MOVE"
	case DraggingColumnEndpoint:
		return "LINK"
	default:
		return "UNKNOWN"
	}
}

// Outcome tells the caller what an event did to the model.
type Outcome int

const (
	Ignored Outcome = iota
	Started
	Placed
	Moved
	Connected
	Removed
	Cancelled
	Discarded
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Started:
		return "started"
	case Placed:
		return "placed"
	case Moved:
		return "moved"
	case Connected:
		return "connected"
	case Removed:
		return "removed"
	case Cancelled:
		return "cancelled"
	case Discarded:
		return "discarded"
	default:
		return "unknown"
	}
}

type Option func(*Controller)

func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

type Controller struct {
	catalog *schema.Catalog
	canvas  *diagram.Canvas
	log     *slog.Logger

	state   State
	pending string // table or item being dragged
	origin  diagram.Endpoint
}

func NewController(catalog *schema.Catalog, canvas *diagram.Canvas, opts ...Option) *Controller {
	c := &Controller{
		catalog: catalog,
		canvas:  canvas,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		state:   Idle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) State() State {
	return c.state
}

// Pending returns the table id (catalog drag) or item id (item drag) of the
// active gesture.
func (c *Controller) Pending() string {
	return c.pending
}

// Origin returns the endpoint a link drag started from.
func (c *Controller) Origin() (diagram.Endpoint, bool) {
	if c.state != DraggingColumnEndpoint {
		return diagram.Endpoint{}, false
	}
	return c.origin, true
}

// ItemDragEnabled is false while a link is being drawn; the rendering
// surface must not let boxes move freely then.
func (c *Controller) ItemDragEnabled() bool {
	return c.state != DraggingColumnEndpoint
}

// Handle applies one event. The error is only non-nil when a column drop
// was rejected by the canvas.
func (c *Controller) Handle(ev Event) (Outcome, error) {
	from := c.state
	out, err := c.handle(ev)
	if out != Ignored || from != c.state {
		c.log.Debug("gesture", "event", ev, "from", from.String(), "to", c.state.String(), "outcome", out.String())
	}
	return out, err
}

func (c *Controller) handle(ev Event) (Outcome, error) {
	switch ev := ev.(type) {
	case Cancel:
		if c.state == Idle {
			return Ignored, nil
		}
		c.reset()
		return Cancelled, nil

	case Remove:
		if (c.state == DraggingItemOnCanvas && c.pending == ev.ItemID) ||
			(c.state == DraggingColumnEndpoint && c.origin.ItemID == ev.ItemID) {
			c.reset()
		}
		if c.canvas.Remove(ev.ItemID) {
			return Removed, nil
		}
		return Ignored, nil

	case CatalogDragStart:
		if c.state != Idle {
			return Ignored, nil
		}
		if _, ok := c.catalog.Lookup(ev.TableID); !ok {
			return Ignored, nil
		}
		c.state = DraggingTableFromCatalog
		c.pending = ev.TableID
		return Started, nil

	case CatalogDrop:
		if c.state != DraggingTableFromCatalog {
			return Ignored, nil
		}
		tableID := c.pending
		c.reset()
		if !ev.OverCanvas {
			return Discarded, nil
		}
		table, _ := c.catalog.Lookup(tableID)
		if !c.canvas.Place(table, ev.Point) {
			return Discarded, nil
		}
		return Placed, nil

	case ItemDragStart:
		if c.state != Idle || !c.canvas.Has(ev.ItemID) {
			return Ignored, nil
		}
		c.state = DraggingItemOnCanvas
		c.pending = ev.ItemID
		return Started, nil

	case ItemDragStop:
		if c.state != DraggingItemOnCanvas {
			return Ignored, nil
		}
		itemID := c.pending
		c.reset()
		if ev.ItemID != itemID {
			return Cancelled, nil
		}
		if !c.canvas.Move(itemID, ev.Point) {
			return Ignored, nil
		}
		return Moved, nil

	case ColumnDragStart:
		origin := diagram.Endpoint{ItemID: ev.ItemID, ColumnID: ev.ColumnID}
		if c.state != Idle || !c.canvas.HasEndpoint(origin) {
			return Ignored, nil
		}
		c.state = DraggingColumnEndpoint
		c.origin = origin
		return Started, nil

	case ColumnDrop:
		if c.state != DraggingColumnEndpoint {
			return Ignored, nil
		}
		origin := c.origin
		c.reset()
		target := diagram.Endpoint{ItemID: ev.ItemID, ColumnID: ev.ColumnID}
		if target == origin {
			return Discarded, nil
		}
		if _, err := c.canvas.Connect(origin, target); err != nil {
			return Discarded, err
		}
		return Connected, nil
	}
	return Ignored, nil
}

func (c *Controller) reset() {
	c.state = Idle
	c.pending = ""
	c.origin = diagram.Endpoint{}
}
