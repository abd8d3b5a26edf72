package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"schemaboard/internal/diagram"
	"schemaboard/internal/gesture"
	"schemaboard/internal/layout"
	"schemaboard/internal/render"
	"schemaboard/internal/schema"
)

func newCanvas(cfg *Config, log *slog.Logger) *diagram.Canvas {
	return diagram.NewCanvas(diagram.WithPlacer(cfg.Placer), diagram.WithLogger(log))
}

func newModel(cfg *Config, cat *schema.Catalog, canvas *diagram.Canvas, log *slog.Logger) model {
	filter := textinput.New()
	filter.Prompt = "/ "
	filter.Placeholder = "filter"
	filter.CharLimit = 64
	filter.Width = catalogWidth - 6

	fileInput := textinput.New()
	fileInput.Prompt = ""
	fileInput.CharLimit = 200
	fileInput.Width = 40

	m := model{
		pane:      PaneCatalog,
		mode:      ModeNormal,
		catalog:   cat,
		canvas:    canvas,
		gestures:  gesture.NewController(cat, canvas, gesture.WithLogger(log)),
		geometry:  cfg.Geometry,
		filter:    filter,
		fileInput: fileInput,
		config:    cfg,
		log:       log,
	}
	m.refreshVisible()
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureCursorInBounds()
		m.ensureRowVisible()
		return m, nil

	case tea.MouseMsg:
		if m.mode == ModeNormal && !m.help {
			m.handleMouse(msg)
		}
		return m, nil

	case tea.KeyMsg:
		if m.help {
			switch msg.String() {
			case "esc", "q", "?":
				m.help = false
			}
			return m, nil
		}
		switch m.mode {
		case ModeFilter:
			return m.updateFilter(msg)
		case ModeFileInput:
			return m.updateFileInput(msg)
		case ModeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c":
		return m, tea.Quit
	case "q":
		if m.config.Confirmations {
			m.mode = ModeConfirm
			m.confirmAction = ConfirmQuit
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.help = true
	case "tab":
		if m.pane == PaneCatalog {
			m.pane = PaneCanvas
		} else {
			m.pane = PaneCatalog
		}
	case "esc":
		m.zPanMode = false
		if out, _ := m.gestures.Handle(gesture.Cancel{}); out == gesture.Cancelled {
			m.setSuccess("Cancelled")
		} else {
			m.clearMessages()
		}
	case "z":
		if m.pane == PaneCanvas {
			m.zPanMode = !m.zPanMode
		}
	case "/":
		m.pane = PaneCatalog
		m.mode = ModeFilter
		cmd := m.filter.Focus()
		return m, cmd
	case "g":
		m.grabSelected()
	case "enter":
		if m.gestures.State() == gesture.Idle && m.pane == PaneCatalog {
			m.grabSelected()
		} else {
			m.drop()
		}
	case "m":
		if m.gestures.State() == gesture.DraggingItemOnCanvas {
			m.drop()
		} else {
			m.startMove()
		}
	case "a":
		m.link()
	case "d":
		m.requestRemove()
	case "s":
		cmd := m.promptFile(FileOpSave)
		return m, cmd
	case "o":
		cmd := m.promptFile(FileOpOpen)
		return m, cmd
	case "P":
		cmd := m.promptFile(FileOpSavePNG)
		return m, cmd
	case "T":
		cmd := m.promptFile(FileOpSaveText)
		return m, cmd
	case "y":
		m.copyDiagram()
	case "h", "j", "k", "l", "H", "J", "K", "L",
		"left", "right", "up", "down",
		"shift+left", "shift+right", "shift+up", "shift+down":
		m.handleNavigation(key, m.getMoveSpeed(key))
	}
	return m, nil
}

func (m model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filter.Blur()
		m.mode = ModeNormal
		return m, nil
	case "esc":
		m.filter.Blur()
		m.filter.SetValue("")
		m.mode = ModeNormal
		m.refreshVisible()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.refreshVisible()
	return m, cmd
}

func (m model) updateFileInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.fileInput.Blur()
		m.mode = ModeNormal
		m.clearMessages()
		return m, nil
	case "enter":
		name := strings.TrimSpace(m.fileInput.Value())
		if name == "" {
			m.errorMessage = "filename is required"
			return m, nil
		}
		path, err := m.config.SavePath(withExtension(name, m.fileOp))
		if err != nil {
			m.log.Warn("save path", "err", err)
			m.errorMessage = err.Error()
			return m, nil
		}
		if m.fileOp == FileOpOpen {
			m.fileInput.Blur()
			m.mode = ModeNormal
			m.openDiagram(path)
			return m, nil
		}
		if _, err := os.Stat(path); err == nil && m.config.Confirmations {
			m.pendingFile = path
			m.confirmAction = ConfirmOverwriteFile
			m.mode = ModeConfirm
			return m, nil
		}
		m.fileInput.Blur()
		m.writeFile(m.fileOp, path)
		return m, nil
	}
	var cmd tea.Cmd
	m.fileInput, cmd = m.fileInput.Update(msg)
	return m, cmd
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.mode = ModeNormal
		switch m.confirmAction {
		case ConfirmRemoveItem:
			m.remove(m.confirmItemID)
			m.confirmItemID = ""
		case ConfirmQuit:
			return m, tea.Quit
		case ConfirmOverwriteFile:
			m.fileInput.Blur()
			m.writeFile(m.fileOp, m.pendingFile)
			m.pendingFile = ""
		}
	case "n", "N", "esc":
		if m.confirmAction == ConfirmOverwriteFile {
			// back to the filename prompt
			m.mode = ModeFileInput
			return m, nil
		}
		m.mode = ModeNormal
		m.confirmItemID = ""
	}
	return m, nil
}

func (m *model) promptFile(op FileOperation) tea.Cmd {
	m.fileOp = op
	m.mode = ModeFileInput
	m.clearMessages()
	name := ""
	if m.filename != "" {
		name = strings.TrimSuffix(filepath.Base(m.filename), filepath.Ext(m.filename))
	}
	m.fileInput.SetValue(name)
	m.fileInput.CursorEnd()
	return m.fileInput.Focus()
}

func withExtension(name string, op FileOperation) string {
	if filepath.Ext(name) != "" {
		return name
	}
	switch op {
	case FileOpSavePNG:
		return name + ".png"
	case FileOpSaveText:
		return name + ".txt"
	default:
		return name + ".yaml"
	}
}

// grabSelected starts dragging the highlighted catalog table. The ghost
// follows the canvas cursor until it is dropped.
func (m *model) grabSelected() {
	id, ok := m.selectedTable()
	if !ok {
		return
	}
	out, _ := m.gestures.Handle(gesture.CatalogDragStart{TableID: id})
	if out != gesture.Started {
		return
	}
	m.pane = PaneCanvas
	table, _ := m.catalog.Lookup(id)
	m.setSuccess(fmt.Sprintf("Dragging %s: hjkl to move, enter to drop, esc to cancel", table.Name))
}

func (m *model) drop() {
	switch m.gestures.State() {
	case gesture.DraggingTableFromCatalog:
		tableID := m.gestures.Pending()
		over := m.pane == PaneCanvas
		out, err := m.gestures.Handle(gesture.CatalogDrop{
			Point:      m.geometry.PointOf(m.worldCell()),
			OverCanvas: over,
		})
		m.reportDrop(out, tableID, over, err)
	case gesture.DraggingItemOnCanvas:
		c := m.worldCell()
		m.stopMove(render.Cell{X: c.X - m.grabDX, Y: c.Y - m.grabDY})
	case gesture.DraggingColumnEndpoint:
		m.link()
	}
}

func (m *model) startMove() {
	hit := m.hitAtCursor()
	if hit.ItemID == "" {
		m.errorMessage = "no table under cursor"
		return
	}
	m.beginItemDrag(hit.ItemID, m.worldCell())
}

func (m *model) beginItemDrag(itemID string, at render.Cell) {
	item, ok := m.canvas.Get(itemID)
	if !ok {
		return
	}
	out, _ := m.gestures.Handle(gesture.ItemDragStart{ItemID: itemID})
	if out != gesture.Started {
		return
	}
	r := m.geometry.BoxRect(item)
	m.grabDX = at.X - r.X
	m.grabDY = at.Y - r.Y
	m.setSuccess(fmt.Sprintf("Moving %s: hjkl to move, enter to drop, esc to cancel", item.Table.Name))
}

func (m *model) stopMove(topLeft render.Cell) {
	itemID := m.gestures.Pending()
	out, _ := m.gestures.Handle(gesture.ItemDragStop{ItemID: itemID, Point: m.dropPoint(itemID, topLeft)})
	switch out {
	case gesture.Moved:
		m.setSuccess("Moved " + itemName(m.canvas, itemID))
	case gesture.Ignored:
		m.errorMessage = "no free slot near the drop point"
	}
	m.grabDX, m.grabDY = 0, 0
}

// dropPoint converts the dragged box's top-left cell back to canvas units,
// keeping the item's offset inside its cell so a drop in place is a no-op.
func (m *model) dropPoint(itemID string, topLeft render.Cell) layout.Point {
	p := m.geometry.PointOf(topLeft)
	item, ok := m.canvas.Get(itemID)
	if !ok {
		return p
	}
	snapped := m.geometry.PointOf(m.geometry.CellOf(item.Position))
	return layout.Point{
		X: p.X + item.Position.X - snapped.X,
		Y: p.Y + item.Position.Y - snapped.Y,
	}
}

// link starts a link on the column under the cursor, or finishes the link
// in progress there.
func (m *model) link() {
	hit := m.hitAtCursor()
	switch m.gestures.State() {
	case gesture.Idle:
		if hit.Part != render.PartColumn {
			m.errorMessage = "place the cursor on a column to link it"
			return
		}
		out, _ := m.gestures.Handle(gesture.ColumnDragStart{ItemID: hit.ItemID, ColumnID: hit.ColumnID})
		if out == gesture.Started {
			m.setSuccess(fmt.Sprintf("Linking from %s: move to a column and press a", m.endpointName(hit.ItemID, hit.ColumnID)))
		}
	case gesture.DraggingColumnEndpoint:
		m.finishLink(hit)
	}
}

func (m *model) finishLink(hit render.Hit) {
	if hit.Part != render.PartColumn {
		m.gestures.Handle(gesture.Cancel{})
		m.setSuccess("Link cancelled")
		return
	}
	origin, _ := m.gestures.Origin()
	out, err := m.gestures.Handle(gesture.ColumnDrop{ItemID: hit.ItemID, ColumnID: hit.ColumnID})
	switch {
	case err != nil:
		m.setError(err)
	case out == gesture.Connected:
		m.setSuccess(fmt.Sprintf("Linked %s → %s",
			m.endpointName(origin.ItemID, origin.ColumnID),
			m.endpointName(hit.ItemID, hit.ColumnID)))
	default:
		m.setSuccess("Link cancelled")
	}
}

func (m *model) endpointName(itemID, columnID string) string {
	item, ok := m.canvas.Get(itemID)
	if !ok {
		return itemID + "." + columnID
	}
	col, ok := item.Table.Column(columnID)
	if !ok {
		return item.Table.Name + "." + columnID
	}
	return item.Table.Name + "." + col.Name
}

func (m *model) requestRemove() {
	hit := m.hitAtCursor()
	if hit.ItemID == "" {
		m.errorMessage = "no table under cursor"
		return
	}
	if m.config.Confirmations {
		m.confirmItemID = hit.ItemID
		m.confirmAction = ConfirmRemoveItem
		m.mode = ModeConfirm
		return
	}
	m.remove(hit.ItemID)
}

func (m *model) remove(itemID string) {
	name := itemName(m.canvas, itemID)
	if out, _ := m.gestures.Handle(gesture.Remove{ItemID: itemID}); out == gesture.Removed {
		m.setSuccess("Removed " + name)
	}
}

func (m *model) reportDrop(out gesture.Outcome, tableID string, over bool, err error) {
	table, _ := m.catalog.Lookup(tableID)
	switch {
	case err != nil:
		m.setError(err)
	case out == gesture.Placed:
		m.setSuccess("Placed " + table.Name)
	case !over:
		m.clearMessages()
	case m.canvas.Has(tableID):
		m.errorMessage = table.Name + " is already on the canvas"
	default:
		m.errorMessage = "no free slot near the drop point"
	}
}
