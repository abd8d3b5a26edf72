package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemaboard/internal/diagram"
	"schemaboard/internal/layout"
	"schemaboard/internal/schema"
)

func testCatalog() *schema.Catalog {
	return schema.NewCatalog([]schema.Table{
		{ID: "users", Name: "Users", Columns: []schema.Column{{ID: "id", Name: "ID"}, {ID: "email", Name: "Email"}}},
		{ID: "orders", Name: "Orders", Columns: []schema.Column{{ID: "user_id", Name: "User"}}},
	})
}

func populated(t *testing.T, cat *schema.Catalog) *diagram.Canvas {
	t.Helper()
	canvas := diagram.NewCanvas()
	users, _ := cat.Lookup("users")
	orders, _ := cat.Lookup("orders")
	require.True(t, canvas.Place(users, layout.Point{X: 0, Y: 0}))
	require.True(t, canvas.Place(orders, layout.Point{X: 400, Y: 40}))
	_, err := canvas.Connect(
		diagram.Endpoint{ItemID: "orders", ColumnID: "user_id"},
		diagram.Endpoint{ItemID: "users", ColumnID: "id"},
	)
	require.NoError(t, err)
	return canvas
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cat := testCatalog()
	path := filepath.Join(t.TempDir(), "diagram.yaml")
	require.NoError(t, Save(path, populated(t, cat)))

	loaded := diagram.NewCanvas()
	require.NoError(t, Load(path, cat, loaded))

	items := loaded.List()
	require.Len(t, items, 2)
	assert.Equal(t, "users", items[0].ID())
	assert.Equal(t, layout.Point{X: 400, Y: 40}, items[1].Position)

	conns := loaded.Connections()
	require.Len(t, conns, 1)
	assert.Equal(t, diagram.Endpoint{ItemID: "orders", ColumnID: "user_id"}, conns[0].Start)
	assert.NotEmpty(t, conns[0].ID)
}

func TestEncodeFormat(t *testing.T) {
	var sb strings.Builder
	require.NoError(t, Encode(&sb, populated(t, testCatalog())))

	out := sb.String()
	assert.Contains(t, out, "version: 1")
	assert.Contains(t, out, "- table: users")
	assert.Contains(t, out, "item: orders")
	assert.Contains(t, out, "column: user_id")
}

func TestDecodeKeepsValidEntries(t *testing.T) {
	doc := `
version: 1
items:
  - {table: users, x: 0, y: 0}
  - {table: ghosts, x: 500, y: 0}
  - {table: orders, x: 100, y: 100}
connections:
  - {from: {item: orders, column: user_id}, to: {item: users, column: id}}
  - {from: {item: ghosts, column: id}, to: {item: users, column: id}}
  - {from: {item: users, column: id}, to: {item: users, column: id}}
`
	canvas := diagram.NewCanvas()
	err := Decode(strings.NewReader(doc), testCatalog(), canvas)
	require.Error(t, err)
	assert.ErrorContains(t, err, `unknown table "ghosts"`)
	assert.ErrorIs(t, err, diagram.ErrUnknownEndpoint)
	assert.ErrorIs(t, err, diagram.ErrSelfLoop)

	assert.Equal(t, 2, canvas.Len())
	assert.Len(t, canvas.Connections(), 1)

	// orders overlapped users and was pushed along the diagonal
	orders, ok := canvas.Get("orders")
	require.True(t, ok)
	assert.Equal(t, layout.Point{X: 220, Y: 220}, orders.Position)
}

func TestDecodeEmptyAndBad(t *testing.T) {
	canvas := diagram.NewCanvas()
	assert.NoError(t, Decode(strings.NewReader(""), testCatalog(), canvas))
	assert.Zero(t, canvas.Len())

	err := Decode(strings.NewReader("items: ["), testCatalog(), canvas)
	assert.ErrorContains(t, err, "failed to parse diagram")

	err = Decode(strings.NewReader("version: 9\n"), testCatalog(), canvas)
	assert.ErrorContains(t, err, "unsupported diagram version")
}

func TestLoadMissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "nope.yaml"), testCatalog(), diagram.NewCanvas())
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
