package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"

	"schemaboard/internal/diagram"
	"schemaboard/internal/schema"
)

// ErrEmpty is returned when there is nothing on the canvas to draw.
var ErrEmpty = errors.New("nothing to export")

const (
	charWidth  = 8.0
	charHeight = 16.0
	padding    = 2
	fontSize   = 12.0
	arrowSize  = 6.0
	arrowAngle = 0.5 // radians
)

// Image rasterises the diagram, one terminal cell per 8x16 pixels.
func (g Geometry) Image(items []diagram.PlacedItem, conns []diagram.Connection) (image.Image, error) {
	dc, err := g.draw(items, conns)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

func (g Geometry) EncodePNG(w io.Writer, items []diagram.PlacedItem, conns []diagram.Connection) error {
	dc, err := g.draw(items, conns)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func (g Geometry) WritePNG(filename string, items []diagram.PlacedItem, conns []diagram.Connection) error {
	dc, err := g.draw(items, conns)
	if err != nil {
		return err
	}
	if err := dc.SavePNG(filename); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}

func (g Geometry) draw(items []diagram.PlacedItem, conns []diagram.Connection) (*gg.Context, error) {
	bounds, ok := g.Extent(items)
	if !ok {
		return nil, ErrEmpty
	}
	minX := bounds.X - padding
	minY := bounds.Y - padding
	imageWidth := int(float64(bounds.W+2*padding) * charWidth)
	imageHeight := int(float64(bounds.H+2*padding) * charHeight)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(color.Black)

	ttfFont, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	dc.SetFontFace(truetype.NewFace(ttfFont, &truetype.Options{
		Size:    fontSize,
		DPI:     72,
		Hinting: font.HintingFull,
	}))

	// connections go first so boxes cover their ends
	for _, conn := range conns {
		if path, ok := g.ConnectionPath(items, conn); ok {
			drawPathPNG(dc, path, minX, minY)
		}
	}
	for _, item := range items {
		shown, hidden := g.visibleColumns(item.Table)
		more := ""
		if hidden > 0 {
			more = moreLabel(hidden)
		}
		drawBoxPNG(dc, g.BoxRect(item), item.Table.Name, item.Table.Columns[:shown], more, minX, minY)
	}
	return dc, nil
}

func toPixel(c Cell, minX, minY int) (float64, float64) {
	return (float64(c.X-minX) + 0.5) * charWidth, (float64(c.Y-minY) + 0.5) * charHeight
}

func drawPathPNG(dc *gg.Context, points []Cell, minX, minY int) {
	if len(points) < 2 {
		return
	}
	dc.SetLineWidth(1.0)
	dc.SetColor(color.Black)
	for i := 0; i < len(points)-1; i++ {
		x1, y1 := toPixel(points[i], minX, minY)
		x2, y2 := toPixel(points[i+1], minX, minY)
		dc.DrawLine(x1, y1, x2, y2)
		dc.Stroke()
	}
	fx, fy := toPixel(points[len(points)-2], minX, minY)
	tx, ty := toPixel(points[len(points)-1], minX, minY)
	drawArrowPNG(dc, fx, fy, tx, ty)
}

func drawArrowPNG(dc *gg.Context, fx, fy, tx, ty float64) {
	dx := tx - fx
	dy := ty - fy
	length := math.Sqrt(dx*dx + dy*dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	dc.MoveTo(tx, ty)
	dc.LineTo(tx-arrowSize*dx+arrowSize*dy*arrowAngle, ty-arrowSize*dy-arrowSize*dx*arrowAngle)
	dc.LineTo(tx-arrowSize*dx-arrowSize*dy*arrowAngle, ty-arrowSize*dy+arrowSize*dx*arrowAngle)
	dc.ClosePath()
	dc.Fill()
}

func drawBoxPNG(dc *gg.Context, r Rect, name string, columns []schema.Column, more string, minX, minY int) {
	x := float64(r.X-minX) * charWidth
	y := float64(r.Y-minY) * charHeight
	width := float64(r.W) * charWidth
	height := float64(r.H) * charHeight

	dc.SetColor(color.White)
	dc.DrawRectangle(x, y, width, height)
	dc.Fill()

	dc.SetLineWidth(1.0)
	dc.SetColor(color.Black)
	dc.DrawRectangle(x, y, width, height)
	dc.Stroke()
	rule := y + float64(headerRows-1)*charHeight + charHeight/2
	dc.DrawLine(x, rule, x+width, rule)
	dc.Stroke()

	dc.DrawString(name, x+charWidth, y+2*charHeight-charHeight/4)
	for i, col := range columns {
		baseline := y + float64(headerRows+i+1)*charHeight - charHeight/4
		dc.DrawString(col.Name, x+charWidth, baseline)
		if col.DataType != "" {
			tw, _ := dc.MeasureString(col.DataType)
			dc.DrawString(col.DataType, x+width-charWidth-tw, baseline)
		}
	}
	if more != "" {
		dc.DrawString(more, x+charWidth, y+float64(headerRows+len(columns)+1)*charHeight-charHeight/4)
	}
}
