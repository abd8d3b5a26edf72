package main

import (
	"fmt"
	"path/filepath"

	"schemaboard/internal/gesture"
	"schemaboard/internal/render"
	"schemaboard/internal/store"
)

func (m *model) writeFile(op FileOperation, path string) {
	var err error
	switch op {
	case FileOpSave:
		err = store.Save(path, m.canvas)
		if err == nil {
			m.filename = path
		}
	case FileOpSavePNG:
		err = m.geometry.WritePNG(path, m.canvas.List(), m.canvas.Connections())
	case FileOpSaveText:
		err = m.exportVisualTXT(path)
	}
	if err != nil {
		m.errorMessage = fmt.Sprintf("Error saving file: %s", err)
		m.mode = ModeFileInput
		return
	}
	m.mode = ModeNormal
	absPath, _ := filepath.Abs(path)
	m.setSuccess(fmt.Sprintf("Saved to %s", absPath))
	m.log.Info("file written", "path", absPath, "op", int(op))
}

func (m *model) exportVisualTXT(path string) error {
	lines, err := m.renderedDiagram()
	if err != nil {
		return err
	}
	return render.WriteText(path, lines)
}

func (m *model) copyDiagram() {
	lines, err := m.renderedDiagram()
	if err != nil {
		m.setError(err)
		return
	}
	if err := copyToClipboard(lines); err != nil {
		m.setError(fmt.Errorf("clipboard: %w", err))
		return
	}
	m.setSuccess(fmt.Sprintf("Copied %d lines to the clipboard", len(lines)))
}

// openDiagram replaces the canvas with the one stored at path. A file that
// loads only partly is still opened and the problems are shown; a file
// with nothing usable leaves the current canvas alone.
func (m *model) openDiagram(path string) {
	canvas := newCanvas(m.config, m.log)
	err := store.Load(path, m.catalog, canvas)
	if err != nil && canvas.Len() == 0 {
		m.setError(err)
		return
	}

	m.canvas = canvas
	m.gestures = gesture.NewController(m.catalog, canvas, gesture.WithLogger(m.log))
	m.filename = path
	m.cursorX, m.cursorY, m.panX, m.panY = 0, 0, 0, 0
	if err != nil {
		m.log.Warn("diagram opened with errors", "path", path, "err", err)
		m.setError(fmt.Errorf("opened with problems: %w", err))
		return
	}
	m.setSuccess(fmt.Sprintf("Opened %s", path))
}
