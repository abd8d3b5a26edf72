package main

import (
	tea "github.com/charmbracelet/bubbletea"

	"schemaboard/internal/gesture"
	"schemaboard/internal/render"
)

// handleMouse turns terminal mouse reports into gesture events. A press
// starts a gesture, motion moves the cursor (and with it the ghost or link
// preview), and the release ends it.
func (m *model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.mouseDown = true
			m.mousePress(msg.X, msg.Y)
		case tea.MouseButtonWheelUp:
			m.scroll(msg.X, -1)
		case tea.MouseButtonWheelDown:
			m.scroll(msg.X, 1)
		}
	case tea.MouseActionMotion:
		if m.mouseDown {
			m.followPointer(msg.X, msg.Y)
		}
	case tea.MouseActionRelease:
		if !m.mouseDown {
			return
		}
		m.mouseDown = false
		m.mouseRelease(msg.X, msg.Y)
	}
}

func (m *model) mousePress(x, y int) {
	if x < catalogWidth {
		m.pane = PaneCatalog
		row, ok := m.rowAt(y)
		if !ok {
			return
		}
		m.selectedRow = row
		m.gestures.Handle(gesture.CatalogDragStart{TableID: m.visible[row].ID})
		return
	}

	cell, ok := m.followPointer(x, y)
	if !ok {
		return
	}
	m.pane = PaneCanvas
	hit := m.geometry.HitTest(m.canvas.List(), cell.X, cell.Y)
	switch hit.Part {
	case render.PartHeader, render.PartFooter:
		m.beginItemDrag(hit.ItemID, cell)
	case render.PartColumn:
		if m.gestures.State() == gesture.Idle {
			m.link()
		}
	}
}

func (m *model) mouseRelease(x, y int) {
	cell, over := m.followPointer(x, y)
	switch m.gestures.State() {
	case gesture.DraggingTableFromCatalog:
		tableID := m.gestures.Pending()
		out, err := m.gestures.Handle(gesture.CatalogDrop{
			Point:      m.geometry.PointOf(cell),
			OverCanvas: over,
		})
		m.reportDrop(out, tableID, over, err)
		if out == gesture.Placed {
			m.pane = PaneCanvas
		}
	case gesture.DraggingItemOnCanvas:
		if !over {
			m.gestures.Handle(gesture.Cancel{})
			m.clearMessages()
			return
		}
		m.stopMove(render.Cell{X: cell.X - m.grabDX, Y: cell.Y - m.grabDY})
	case gesture.DraggingColumnEndpoint:
		hit := render.Hit{}
		if over {
			hit = m.geometry.HitTest(m.canvas.List(), cell.X, cell.Y)
		}
		origin, _ := m.gestures.Origin()
		if hit.ItemID == origin.ItemID && hit.ColumnID == origin.ColumnID {
			// a plain click keeps the link open so the target can be clicked
			return
		}
		m.finishLink(hit)
	}
}

// followPointer moves the canvas cursor under the pointer. ok is false when
// the pointer is outside the canvas pane.
func (m *model) followPointer(x, y int) (render.Cell, bool) {
	cell, ok := m.screenToWorld(x, y)
	if !ok {
		return cell, false
	}
	m.cursorX = x - catalogWidth
	m.cursorY = y
	return cell, true
}

func (m *model) scroll(x, delta int) {
	if x < catalogWidth {
		if delta < 0 {
			m.handleListMove("up", 1)
		} else {
			m.handleListMove("down", 1)
		}
		return
	}
	m.panY += delta
}
