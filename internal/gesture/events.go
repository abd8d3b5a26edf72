package gesture

import (
	"fmt"

	"schemaboard/internal/layout"
)

// Event is one pointer gesture notification. The concrete types below are
// the whole input surface of the controller.
type Event interface {
	event()
}

type CatalogDragStart struct {
	TableID string
}

// CatalogDrop ends a catalog drag. OverCanvas is false when the pointer was
// released outside the canvas.
type CatalogDrop struct {
	Point      layout.Point
	OverCanvas bool
}

type ItemDragStart struct {
	ItemID string
}

type ItemDragStop struct {
	ItemID string
	Point  layout.Point
}

type ColumnDragStart struct {
	ItemID   string
	ColumnID string
}

type ColumnDrop struct {
	ItemID   string
	ColumnID string
}

type Cancel struct{}

type Remove struct {
	ItemID string
}

func (CatalogDragStart) event() {}
func (CatalogDrop) event()      {}
func (ItemDragStart) event()    {}
func (ItemDragStop) event()     {}
func (ColumnDragStart) event()  {}
func (ColumnDrop) event()       {}
func (Cancel) event()           {}
func (Remove) event()           {}

func (e CatalogDragStart) String() string {
	return fmt.Sprintf("CatalogDragStart(%s)", e.TableID)
}

func (e CatalogDrop) String() string {
	return fmt.Sprintf("CatalogDrop(%d,%d canvas=%t)", e.Point.X, e.Point.Y, e.OverCanvas)
}

func (e ItemDragStart) String() string {
	return fmt.Sprintf("ItemDragStart(%s)", e.ItemID)
}

func (e ItemDragStop) String() string {
	return fmt.Sprintf("ItemDragStop(%s,%d,%d)", e.ItemID, e.Point.X, e.Point.Y)
}

func (e ColumnDragStart) String() string {
	return fmt.Sprintf("ColumnDragStart(%s,%s)", e.ItemID, e.ColumnID)
}

func (e ColumnDrop) String() string {
	return fmt.Sprintf("ColumnDrop(%s,%s)", e.ItemID, e.ColumnID)
}

func (Cancel) String() string {
	return "Cancel()"
}

func (e Remove) String() string {
	return fmt.Sprintf("Remove(%s)", e.ItemID)
}
