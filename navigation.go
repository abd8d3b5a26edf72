package main

func (m *model) handleNavigation(key string, speed int) {
	if m.pane == PaneCatalog {
		m.handleListMove(key, speed)
		return
	}
	if m.zPanMode {
		m.handlePan(key, speed)
		return
	}
	m.handleCursorMove(key, speed)
}

func (m *model) handlePan(key string, speed int) {
	switch key {
	case "h", "left", "H", "shift+left":
		m.panX -= speed
	case "l", "right", "L", "shift+right":
		m.panX += speed
	case "k", "up", "K", "shift+up":
		m.panY -= speed
	case "j", "down", "J", "shift+down":
		m.panY += speed
	}
}

// handleCursorMove scrolls the view when the cursor would leave the pane.
func (m *model) handleCursorMove(key string, speed int) {
	switch key {
	case "h", "left", "H", "shift+left":
		m.cursorX -= speed
	case "l", "right", "L", "shift+right":
		m.cursorX += speed
	case "k", "up", "K", "shift+up":
		m.cursorY -= speed
	case "j", "down", "J", "shift+down":
		m.cursorY += speed
	}
	m.ensureCursorInBounds()
}

func (m *model) handleListMove(key string, speed int) {
	switch key {
	case "k", "up", "K", "shift+up":
		m.selectedRow -= speed
	case "j", "down", "J", "shift+down":
		m.selectedRow += speed
	default:
		return
	}
	if m.selectedRow < 0 {
		m.selectedRow = 0
	}
	if m.selectedRow >= len(m.visible) {
		m.selectedRow = len(m.visible) - 1
	}
	m.ensureRowVisible()
}

func (m *model) ensureCursorInBounds() {
	if m.cursorX < 0 {
		m.panX += m.cursorX
		m.cursorX = 0
	}
	if m.cursorY < 0 {
		m.panY += m.cursorY
		m.cursorY = 0
	}
	if w := m.canvasWidth(); m.width > 0 && m.cursorX >= w {
		m.panX += m.cursorX - w + 1
		m.cursorX = w - 1
	}
	if h := m.bodyHeight(); m.height > 0 && m.cursorY >= h {
		m.panY += m.cursorY - h + 1
		m.cursorY = h - 1
	}
}

func (m *model) getMoveSpeed(key string) int {
	switch key {
	case "H", "L", "K", "J", "shift+left", "shift+right", "shift+up", "shift+down":
		return 2
	default:
		return 1
	}
}
