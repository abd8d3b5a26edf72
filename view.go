package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"schemaboard/internal/gesture"
	"schemaboard/internal/render"
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true)
	selectedRowStyle = lipgloss.NewStyle().Reverse(true)
	placedRowStyle   = lipgloss.NewStyle().Faint(true)
	separatorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cursorStyle      = lipgloss.NewStyle().Reverse(true)
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func (m model) View() string {
	if m.help {
		return m.helpView()
	}
	h := m.bodyHeight()
	left := lipgloss.NewStyle().
		Width(catalogWidth - 1).
		Height(h).
		MaxHeight(h).
		Render(strings.Join(m.catalogLines(), "\n"))
	sep := separatorStyle.Render(strings.TrimSuffix(strings.Repeat("│\n", h), "\n"))

	var result strings.Builder
	result.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, sep, m.canvasView()))
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	return result.String()
}

func (m model) catalogLines() []string {
	title := fmt.Sprintf("Tables %d/%d", len(m.visible), m.catalog.Len())
	lines := []string{titleStyle.Render(title), m.filter.View()}

	maxName := catalogWidth - 4
	end := min(len(m.visible), m.listOffset+m.listHeight())
	for i := m.listOffset; i < end; i++ {
		t := m.visible[i]
		name := []rune(t.Name)
		if len(name) > maxName {
			name = append(name[:maxName-1], '…')
		}
		marker := "  "
		if m.canvas.Has(t.ID) {
			marker = "✓ "
		}
		row := marker + string(name)
		switch {
		case i == m.selectedRow && m.pane == PaneCatalog:
			row = selectedRowStyle.Render(row)
		case m.canvas.Has(t.ID):
			row = placedRowStyle.Render(row)
		}
		lines = append(lines, row)
	}
	if len(m.visible) == 0 {
		lines = append(lines, placedRowStyle.Render("  no matching tables"))
	}
	return lines
}

func (m model) canvasView() string {
	opts := render.Options{
		Width:   m.canvasWidth(),
		Height:  m.bodyHeight(),
		OriginX: m.panX,
		OriginY: m.panY,
	}
	at := m.worldCell()
	switch m.gestures.State() {
	case gesture.DraggingTableFromCatalog:
		if table, ok := m.catalog.Lookup(m.gestures.Pending()); ok && m.pane == PaneCanvas {
			opts.Ghost = &render.Ghost{Table: table, At: at}
		}
	case gesture.DraggingItemOnCanvas:
		if item, ok := m.canvas.Get(m.gestures.Pending()); ok {
			opts.Selected = item.ID()
			opts.Ghost = &render.Ghost{Table: item.Table, At: render.Cell{X: at.X - m.grabDX, Y: at.Y - m.grabDY}}
		}
	case gesture.DraggingColumnEndpoint:
		if origin, ok := m.gestures.Origin(); ok {
			opts.Link = &render.LinkPreview{From: origin, To: at}
		}
	}

	lines := m.geometry.ASCII(m.canvas.List(), m.canvas.Connections(), opts)
	if m.pane == PaneCanvas && m.cursorY >= 0 && m.cursorY < len(lines) {
		runes := []rune(lines[m.cursorY])
		if m.cursorX >= 0 && m.cursorX < len(runes) {
			lines[m.cursorY] = string(runes[:m.cursorX]) +
				cursorStyle.Render(string(runes[m.cursorX])) +
				string(runes[m.cursorX+1:])
		}
	}
	return strings.Join(lines, "\n")
}

func (m model) statusLine() string {
	switch m.mode {
	case ModeFilter:
		return fmt.Sprintf("Mode: FILTER | %d of %d tables | Enter=apply, Esc=clear", len(m.visible), m.catalog.Len())
	case ModeFileInput:
		opStr := m.fileOpString()
		if m.errorMessage != "" {
			return fmt.Sprintf("Mode: FILE | %s | %s filename: %s | Enter=retry, Esc=cancel",
				errorStyle.Render("ERROR: "+m.errorMessage), opStr, m.fileInput.View())
		}
		return fmt.Sprintf("Mode: FILE | %s filename: %s | Enter=confirm, Esc=cancel", opStr, m.fileInput.View())
	case ModeConfirm:
		var message string
		switch m.confirmAction {
		case ConfirmRemoveItem:
			message = fmt.Sprintf("Remove %s and its %d links? (y/n)",
				itemName(m.canvas, m.confirmItemID), len(m.canvas.ConnectionsOf(m.confirmItemID)))
		case ConfirmQuit:
			message = "Quit schemaboard? Unsaved changes will be lost. (y/n)"
		case ConfirmOverwriteFile:
			message = fmt.Sprintf("File %s already exists. Overwrite? (y/n)", m.pendingFile)
		}
		return fmt.Sprintf("Mode: CONFIRM | %s", message)
	}

	modeStr := m.modeString()
	if m.zPanMode {
		modeStr = "PAN"
	}
	at := m.worldCell()
	status := fmt.Sprintf("Mode: %s | Cursor: (%d,%d)", modeStr, at.X, at.Y)
	if m.canvas.AllPlaced(m.catalog) {
		status += " | All tables are on the canvas"
	}
	if m.successMessage != "" {
		status += fmt.Sprintf(" | %s", m.successMessage)
	}
	if m.errorMessage != "" {
		status += " | " + errorStyle.Render("ERROR: "+m.errorMessage)
	} else if m.successMessage == "" {
		status += " | ? for help | q to quit"
	}
	return status
}

func (m model) modeString() string {
	if s := m.gestures.State(); s != gesture.Idle {
		return s.String()
	}
	if m.pane == PaneCatalog {
		return "CATALOG"
	}
	return "NORMAL"
}

func (m model) fileOpString() string {
	switch m.fileOp {
	case FileOpSave:
		return "Save"
	case FileOpOpen:
		return "Open"
	case FileOpSavePNG:
		return "Export PNG"
	case FileOpSaveText:
		return "Export text"
	default:
		return "File"
	}
}

func (m model) helpView() string {
	helpLines := []string{
		"schemaboard help",
		"================",
		"",
		"Panes:",
		"------",
		"  tab              Switch between the table list and the canvas",
		"  /                Filter the table list (Enter=apply, Esc=clear)",
		"  j/k              Select a table in the list",
		"",
		"Tables:",
		"-------",
		"  g / Enter        Grab the selected table; move it with h/j/k/l",
		"  Enter            Drop it at the cursor",
		"  m                Move the table under the cursor (m or Enter drops it)",
		"  d                Remove the table under the cursor and its links",
		"",
		"Links:",
		"------",
		"  a                On a column: start a link, then on another column: finish it",
		"  Esc              Cancel whatever is being dragged",
		"",
		"Canvas:",
		"-------",
		"  h/j/k/l, arrows  Move the cursor (Shift = 2x)",
		"  z                Toggle pan mode",
		"",
		"Mouse:",
		"------",
		"  Drag a table from the list onto the canvas to place it",
		"  Drag a table by its title to move it",
		"  Drag from one column to another to link them",
		"",
		"Files:",
		"------",
		"  s                Save diagram",
		"  o                Open diagram",
		"  P                Export PNG",
		"  T                Export text",
		"  y                Copy the diagram to the clipboard",
		"",
		"  ?                Toggle this help",
		"  q                Quit",
	}
	h := max(m.height, 1)
	if len(helpLines) > h {
		helpLines = helpLines[:h]
	}
	return strings.Join(helpLines, "\n")
}
