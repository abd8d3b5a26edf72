package main

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"

	"schemaboard/internal/diagram"
	"schemaboard/internal/gesture"
	"schemaboard/internal/render"
	"schemaboard/internal/schema"
)

type model struct {
	width    int
	height   int
	cursorX  int // canvas pane cell, relative to the pane
	cursorY  int
	panX     int
	panY     int
	zPanMode bool

	pane        Pane
	mode        Mode
	help        bool
	selectedRow int
	listOffset  int
	visible     []schema.Table

	catalog  *schema.Catalog
	canvas   *diagram.Canvas
	gestures *gesture.Controller
	geometry render.Geometry

	filter    textinput.Model
	fileInput textinput.Model

	// grab offset of an item being moved, so the box keeps its position
	// relative to the pointer
	grabDX, grabDY int
	mouseDown      bool

	fileOp        FileOperation
	filename      string
	pendingFile   string
	confirmAction ConfirmAction
	confirmItemID string

	errorMessage   string
	successMessage string

	config *Config
	log    *slog.Logger
}
