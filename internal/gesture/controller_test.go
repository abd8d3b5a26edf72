package gesture

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemaboard/internal/diagram"
	"schemaboard/internal/layout"
	"schemaboard/internal/schema"
)

func newFixture() (*Controller, *diagram.Canvas) {
	catalog := schema.NewCatalog([]schema.Table{
		{ID: "1", Name: "Employees", Columns: []schema.Column{{ID: "1_1", Name: "Name"}, {ID: "1_2", Name: "Age"}}},
		{ID: "2", Name: "Patients", Columns: []schema.Column{{ID: "2_1", Name: "PatientName"}, {ID: "2_2", Name: "Disease"}}},
		{ID: "3", Name: "Associates", Columns: []schema.Column{{ID: "3_1", Name: "AssociatesName"}}},
	})
	canvas := diagram.NewCanvas()
	return NewController(catalog, canvas), canvas
}

func mustHandle(t *testing.T, c *Controller, ev Event, want Outcome) {
	t.Helper()
	got, err := c.Handle(ev)
	require.NoError(t, err)
	require.Equal(t, want, got, "event %v", ev)
}

func drop(t *testing.T, c *Controller, tableID string, x, y int) {
	t.Helper()
	mustHandle(t, c, CatalogDragStart{TableID: tableID}, Started)
	mustHandle(t, c, CatalogDrop{Point: layout.Point{X: x, Y: y}, OverCanvas: true}, Placed)
}

func TestCatalogDragAndDrop(t *testing.T) {
	c, canvas := newFixture()

	mustHandle(t, c, CatalogDragStart{TableID: "1"}, Started)
	assert.Equal(t, DraggingTableFromCatalog, c.State())
	assert.Equal(t, "1", c.Pending())

	mustHandle(t, c, CatalogDrop{Point: layout.Point{X: 100, Y: 100}, OverCanvas: true}, Placed)
	assert.Equal(t, Idle, c.State())

	item, ok := canvas.Get("1")
	require.True(t, ok)
	assert.Equal(t, layout.Point{X: 100, Y: 100}, item.Position)
}

func TestCatalogDropOutsideCanvas(t *testing.T) {
	c, canvas := newFixture()
	mustHandle(t, c, CatalogDragStart{TableID: "1"}, Started)
	mustHandle(t, c, CatalogDrop{Point: layout.Point{X: 5, Y: 5}, OverCanvas: false}, Discarded)
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 0, canvas.Len())
}

func TestCatalogDragUnknownTable(t *testing.T) {
	c, _ := newFixture()
	mustHandle(t, c, CatalogDragStart{TableID: "42"}, Ignored)
	assert.Equal(t, Idle, c.State())
}

func TestCatalogDropAlreadyPlaced(t *testing.T) {
	c, canvas := newFixture()
	drop(t, c, "1", 100, 100)

	mustHandle(t, c, CatalogDragStart{TableID: "1"}, Started)
	mustHandle(t, c, CatalogDrop{Point: layout.Point{X: 900, Y: 900}, OverCanvas: true}, Discarded)

	item, _ := canvas.Get("1")
	assert.Equal(t, layout.Point{X: 100, Y: 100}, item.Position)
	assert.Equal(t, 1, canvas.Len())
}

func TestItemDrag(t *testing.T) {
	c, canvas := newFixture()
	drop(t, c, "1", 100, 100)
	drop(t, c, "2", 600, 100)

	mustHandle(t, c, ItemDragStart{ItemID: "1"}, Started)
	assert.Equal(t, DraggingItemOnCanvas, c.State())
	mustHandle(t, c, ItemDragStop{ItemID: "1", Point: layout.Point{X: 650, Y: 150}}, Moved)
	assert.Equal(t, Idle, c.State())

	item, _ := canvas.Get("1")
	assert.Equal(t, layout.Point{X: 820, Y: 320}, item.Position)
}

func TestItemDragStopForOtherItemCancels(t *testing.T) {
	c, canvas := newFixture()
	drop(t, c, "1", 100, 100)
	drop(t, c, "2", 600, 100)

	mustHandle(t, c, ItemDragStart{ItemID: "1"}, Started)
	mustHandle(t, c, ItemDragStop{ItemID: "2", Point: layout.Point{X: 0, Y: 900}}, Cancelled)
	item, _ := canvas.Get("2")
	assert.Equal(t, layout.Point{X: 600, Y: 100}, item.Position)
}

func TestItemDragStopWithoutStartIsIgnored(t *testing.T) {
	c, canvas := newFixture()
	drop(t, c, "1", 100, 100)
	mustHandle(t, c, ItemDragStop{ItemID: "1", Point: layout.Point{X: 900, Y: 900}}, Ignored)
	item, _ := canvas.Get("1")
	assert.Equal(t, layout.Point{X: 100, Y: 100}, item.Position)
}

func TestItemDragStartUnplaced(t *testing.T) {
	c, _ := newFixture()
	mustHandle(t, c, ItemDragStart{ItemID: "1"}, Ignored)
	assert.Equal(t, Idle, c.State())
}

func TestColumnLink(t *testing.T) {
	c, canvas := newFixture()
	drop(t, c, "1", 0, 0)
	drop(t, c, "2", 300, 0)

	mustHandle(t, c, ColumnDragStart{ItemID: "1", ColumnID: "1_1"}, Started)
	origin, ok := c.Origin()
	require.True(t, ok)
	assert.Equal(t, diagram.Endpoint{ItemID: "1", ColumnID: "1_1"}, origin)

	mustHandle(t, c, ColumnDrop{ItemID: "2", ColumnID: "2_1"}, Connected)
	assert.Equal(t, Idle, c.State())

	conns := canvas.Connections()
	require.Len(t, conns, 1)
	assert.Equal(t, diagram.Endpoint{ItemID: "1", ColumnID: "1_1"}, conns[0].Start)
	assert.Equal(t, diagram.Endpoint{ItemID: "2", ColumnID: "2_1"}, conns[0].End)
}

func TestColumnDropOnOrigin(t *testing.T) {
	c, canvas := newFixture()
	drop(t, c, "1", 0, 0)

	mustHandle(t, c, ColumnDragStart{ItemID: "1", ColumnID: "1_1"}, Started)
	mustHandle(t, c, ColumnDrop{ItemID: "1", ColumnID: "1_1"}, Discarded)
	assert.Empty(t, canvas.Connections())
	assert.Equal(t, Idle, c.State())
}

func TestColumnDropOnSameTableOtherColumn(t *testing.T) {
	c, canvas := newFixture()
	drop(t, c, "1", 0, 0)

	mustHandle(t, c, ColumnDragStart{ItemID: "1", ColumnID: "1_1"}, Started)
	mustHandle(t, c, ColumnDrop{ItemID: "1", ColumnID: "1_2"}, Connected)
	assert.Len(t, canvas.Connections(), 1)
}

func TestColumnDropOnUnknownColumn(t *testing.T) {
	c, canvas := newFixture()
	drop(t, c, "1", 0, 0)

	mustHandle(t, c, ColumnDragStart{ItemID: "1", ColumnID: "1_1"}, Started)
	out, err := c.Handle(ColumnDrop{ItemID: "3", ColumnID: "3_1"})
	assert.Equal(t, Discarded, out)
	assert.True(t, errors.Is(err, diagram.ErrUnknownEndpoint))
	assert.Empty(t, canvas.Connections())
	assert.Equal(t, Idle, c.State())
}

func TestColumnDragBlocksItemDrag(t *testing.T) {
	c, canvas := newFixture()
	drop(t, c, "1", 100, 100)
	drop(t, c, "2", 600, 100)

	mustHandle(t, c, ColumnDragStart{ItemID: "1", ColumnID: "1_1"}, Started)
	assert.False(t, c.ItemDragEnabled())

	mustHandle(t, c, ItemDragStart{ItemID: "2"}, Ignored)
	mustHandle(t, c, ItemDragStop{ItemID: "1", Point: layout.Point{X: 50, Y: 50}}, Ignored)
	assert.Equal(t, DraggingColumnEndpoint, c.State())

	item, _ := canvas.Get("1")
	assert.Equal(t, layout.Point{X: 100, Y: 100}, item.Position)

	mustHandle(t, c, Cancel{}, Cancelled)
	assert.True(t, c.ItemDragEnabled())
}

func TestSecondDragStartIsDropped(t *testing.T) {
	c, _ := newFixture()
	drop(t, c, "1", 0, 0)

	mustHandle(t, c, ItemDragStart{ItemID: "1"}, Started)
	mustHandle(t, c, ColumnDragStart{ItemID: "1", ColumnID: "1_1"}, Ignored)
	mustHandle(t, c, CatalogDragStart{TableID: "2"}, Ignored)
	assert.Equal(t, DraggingItemOnCanvas, c.State())
	assert.Equal(t, "1", c.Pending())
}

func TestCancelFromEveryState(t *testing.T) {
	starts := map[string]func(c *Controller){
		"catalog": func(c *Controller) { c.Handle(CatalogDragStart{TableID: "2"}) },
		"item":    func(c *Controller) { c.Handle(ItemDragStart{ItemID: "1"}) },
		"column":  func(c *Controller) { c.Handle(ColumnDragStart{ItemID: "1", ColumnID: "1_1"}) },
	}
	for name, start := range starts {
		t.Run(name, func(t *testing.T) {
			c, canvas := newFixture()
			drop(t, c, "1", 0, 0)
			before := canvas.List()

			start(c)
			require.NotEqual(t, Idle, c.State())
			mustHandle(t, c, Cancel{}, Cancelled)
			assert.Equal(t, Idle, c.State())
			assert.Equal(t, before, canvas.List())
			assert.Empty(t, canvas.Connections())
		})
	}

	c, _ := newFixture()
	mustHandle(t, c, Cancel{}, Ignored)
}

func TestRemoveCascadesConnections(t *testing.T) {
	c, canvas := newFixture()
	drop(t, c, "1", 0, 0)
	drop(t, c, "2", 300, 0)

	mustHandle(t, c, ColumnDragStart{ItemID: "1", ColumnID: "1_1"}, Started)
	mustHandle(t, c, ColumnDrop{ItemID: "2", ColumnID: "2_1"}, Connected)

	mustHandle(t, c, Remove{ItemID: "1"}, Removed)
	assert.Empty(t, canvas.Connections())
	assert.False(t, canvas.Has("1"))

	mustHandle(t, c, Remove{ItemID: "1"}, Ignored)
}

func TestRemoveLinkOriginCancelsGesture(t *testing.T) {
	c, canvas := newFixture()
	drop(t, c, "1", 0, 0)
	drop(t, c, "2", 300, 0)

	mustHandle(t, c, ColumnDragStart{ItemID: "1", ColumnID: "1_1"}, Started)
	mustHandle(t, c, Remove{ItemID: "1"}, Removed)
	assert.Equal(t, Idle, c.State())

	mustHandle(t, c, ColumnDrop{ItemID: "2", ColumnID: "2_1"}, Ignored)
	assert.Empty(t, canvas.Connections())
}

func TestRemoveOtherItemKeepsGesture(t *testing.T) {
	c, _ := newFixture()
	drop(t, c, "1", 0, 0)
	drop(t, c, "2", 300, 0)

	mustHandle(t, c, ItemDragStart{ItemID: "1"}, Started)
	mustHandle(t, c, Remove{ItemID: "2"}, Removed)
	assert.Equal(t, DraggingItemOnCanvas, c.State())
	mustHandle(t, c, ItemDragStop{ItemID: "1", Point: layout.Point{X: 300, Y: 0}}, Moved)
}

func TestScenarios(t *testing.T) {
	t.Run("A: collision displacement", func(t *testing.T) {
		c, canvas := newFixture()
		drop(t, c, "1", 100, 100)
		drop(t, c, "2", 105, 105)
		item, _ := canvas.Get("2")
		assert.Equal(t, layout.Point{X: 325, Y: 325}, item.Position)
	})

	t.Run("B: remove clears links", func(t *testing.T) {
		c, canvas := newFixture()
		drop(t, c, "1", 0, 0)
		drop(t, c, "2", 300, 0)
		mustHandle(t, c, ColumnDragStart{ItemID: "1", ColumnID: "1_1"}, Started)
		mustHandle(t, c, ColumnDrop{ItemID: "2", ColumnID: "2_1"}, Connected)
		mustHandle(t, c, Remove{ItemID: "1"}, Removed)
		assert.Empty(t, canvas.Connections())
	})

	t.Run("C: self loop", func(t *testing.T) {
		_, canvas := newFixture()
		canvas.Place(schema.Table{ID: "1", Columns: []schema.Column{{ID: "1_1"}}}, layout.Point{})
		_, err := canvas.Connect(diagram.Endpoint{ItemID: "1", ColumnID: "1_1"}, diagram.Endpoint{ItemID: "1", ColumnID: "1_1"})
		assert.True(t, diagram.IsSelfLoop(err))
		assert.Len(t, canvas.Connections(), 0)
	})

	t.Run("D: exclusivity", func(t *testing.T) {
		c, canvas := newFixture()
		drop(t, c, "1", 100, 100)
		mustHandle(t, c, ColumnDragStart{ItemID: "1", ColumnID: "1_1"}, Started)
		mustHandle(t, c, ItemDragStop{ItemID: "1", Point: layout.Point{X: 50, Y: 50}}, Ignored)
		item, _ := canvas.Get("1")
		assert.Equal(t, layout.Point{X: 100, Y: 100}, item.Position)
	})
}

func TestStateStrings(t *testing.T) {
	assert.Equal(t, "IDLE", Idle.String())
	assert.Equal(t, "LINK", DraggingColumnEndpoint.String())
	assert.Equal(t, "connected", Connected.String())
}
