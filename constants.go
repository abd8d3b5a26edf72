package main

type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeFileInput
	ModeConfirm
)

type Pane int

const (
	PaneCatalog Pane = iota
	PaneCanvas
)

type FileOperation int

const (
	FileOpSave FileOperation = iota
	FileOpOpen
	FileOpSavePNG
	FileOpSaveText
)

type ConfirmAction int

const (
	ConfirmRemoveItem ConfirmAction = iota
	ConfirmQuit
	ConfirmOverwriteFile
)

const (
	catalogWidth = 28 // left pane, including the separator
	listTop      = 2  // title and filter rows above the catalog list
	version      = "0.1.0"
)
