package render

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemaboard/internal/diagram"
)

func TestImageSize(t *testing.T) {
	g := NewGeometry()
	img, err := g.Image(sampleItems(), []diagram.Connection{sampleConnection()})
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, (50+2*padding)*int(charWidth), b.Dx())
	assert.Equal(t, (6+2*padding)*int(charHeight), b.Dy())
}

func TestImageEmpty(t *testing.T) {
	_, err := NewGeometry().Image(nil, nil)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestEncodePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewGeometry().EncodePNG(&buf, sampleItems(), nil))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 432, img.Bounds().Dx())
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagram.png")
	require.NoError(t, NewGeometry().WritePNG(path, sampleItems(), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}
