package render

import (
	"fmt"
	"os"
	"strings"

	"schemaboard/internal/diagram"
)

// Text renders the whole diagram, cropped to its extent, independent of any
// viewport.
func (g Geometry) Text(items []diagram.PlacedItem, conns []diagram.Connection) ([]string, error) {
	bounds, ok := g.Extent(items)
	if !ok {
		return nil, ErrEmpty
	}
	// anchors sit one cell outside the boxes
	lines := g.ASCII(items, conns, Options{
		Width:   bounds.W + 2,
		Height:  bounds.H,
		OriginX: bounds.X - 1,
		OriginY: bounds.Y,
	})
	return trimLines(lines), nil
}

// WriteText writes rendered lines to a file.
func WriteText(filename string, lines []string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", filename, err)
	}
	defer file.Close()

	for _, line := range trimLines(lines) {
		if _, err := fmt.Fprintln(file, line); err != nil {
			return err
		}
	}
	return nil
}

func trimLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = strings.TrimRight(line, " ")
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}
