package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"schemaboard/internal/diagram"
	"schemaboard/internal/render"
)

// newLogger writes to path when set. The terminal belongs to the UI, so
// nothing is ever logged to stdout or stderr.
func newLogger(path string) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), io.NopCloser(nil), nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewTextHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), file, nil
}

func (m *model) canvasWidth() int {
	w := m.width - catalogWidth
	if w < 1 {
		return 1
	}
	return w
}

// Leave room for status line
func (m *model) bodyHeight() int {
	h := m.height - 1
	if h < 1 {
		return 1
	}
	return h
}

func (m *model) worldCell() render.Cell {
	return render.Cell{X: m.cursorX + m.panX, Y: m.cursorY + m.panY}
}

// screenToWorld maps a terminal position to a canvas cell. ok is false when
// the position is over the catalog pane or the status line.
func (m *model) screenToWorld(x, y int) (render.Cell, bool) {
	if x < catalogWidth || y >= m.bodyHeight() {
		return render.Cell{}, false
	}
	return render.Cell{X: x - catalogWidth + m.panX, Y: y + m.panY}, true
}

func (m *model) hitAtCursor() render.Hit {
	c := m.worldCell()
	return m.geometry.HitTest(m.canvas.List(), c.X, c.Y)
}

func (m *model) refreshVisible() {
	m.visible = m.catalog.Filter(m.filter.Value(), m.config.CaseSensitive)
	if m.selectedRow >= len(m.visible) {
		m.selectedRow = len(m.visible) - 1
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
	m.ensureRowVisible()
}

func (m *model) listHeight() int {
	h := m.bodyHeight() - listTop
	if h < 1 {
		return 1
	}
	return h
}

func (m *model) ensureRowVisible() {
	if m.selectedRow < m.listOffset {
		m.listOffset = m.selectedRow
	}
	if m.selectedRow >= m.listOffset+m.listHeight() {
		m.listOffset = m.selectedRow - m.listHeight() + 1
	}
	if m.listOffset < 0 {
		m.listOffset = 0
	}
}

// rowAt returns the catalog table shown on screen row y.
func (m *model) rowAt(y int) (int, bool) {
	i := y - listTop + m.listOffset
	if y < listTop || i < 0 || i >= len(m.visible) {
		return 0, false
	}
	return i, true
}

func (m *model) selectedTable() (string, bool) {
	if m.selectedRow < 0 || m.selectedRow >= len(m.visible) {
		return "", false
	}
	return m.visible[m.selectedRow].ID, true
}

func (m *model) setError(err error) {
	m.errorMessage = err.Error()
	m.successMessage = ""
}

func (m *model) setSuccess(msg string) {
	m.successMessage = msg
	m.errorMessage = ""
}

func (m *model) clearMessages() {
	m.errorMessage = ""
	m.successMessage = ""
}

func (m *model) renderedDiagram() ([]string, error) {
	return m.geometry.Text(m.canvas.List(), m.canvas.Connections())
}

func copyToClipboard(lines []string) error {
	return clipboard.WriteAll(strings.Join(lines, "\n"))
}

func itemName(canvas *diagram.Canvas, id string) string {
	if item, ok := canvas.Get(id); ok && item.Table.Name != "" {
		return item.Table.Name
	}
	return id
}
