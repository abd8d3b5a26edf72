// Package store reads and writes diagram files. A diagram file records which
// catalog tables sit where and which columns are linked; table definitions
// themselves always come from the catalog.
package store

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"schemaboard/internal/diagram"
	"schemaboard/internal/layout"
	"schemaboard/internal/schema"
)

const Version = 1

type Document struct {
	Version     int          `yaml:"version"`
	Items       []Item       `yaml:"items"`
	Connections []Connection `yaml:"connections,omitempty"`
}

type Item struct {
	Table string `yaml:"table"`
	X     int    `yaml:"x"`
	Y     int    `yaml:"y"`
}

type Endpoint struct {
	Item   string `yaml:"item"`
	Column string `yaml:"column"`
}

type Connection struct {
	From Endpoint `yaml:"from"`
	To   Endpoint `yaml:"to"`
}

// Snapshot captures the canvas in file form.
func Snapshot(canvas *diagram.Canvas) Document {
	doc := Document{Version: Version}
	for _, item := range canvas.List() {
		doc.Items = append(doc.Items, Item{Table: item.ID(), X: item.Position.X, Y: item.Position.Y})
	}
	for _, conn := range canvas.Connections() {
		doc.Connections = append(doc.Connections, Connection{
			From: Endpoint{Item: conn.Start.ItemID, Column: conn.Start.ColumnID},
			To:   Endpoint{Item: conn.End.ItemID, Column: conn.End.ColumnID},
		})
	}
	return doc
}

// Apply replays a document onto canvas: every item through Place, then
// every connection through Connect, so the canvas rules are checked again.
// Entries that fail are skipped and reported together.
func Apply(doc Document, catalog *schema.Catalog, canvas *diagram.Canvas) error {
	if doc.Version > Version {
		return fmt.Errorf("unsupported diagram version %d", doc.Version)
	}

	var errs []error
	for _, item := range doc.Items {
		table, ok := catalog.Lookup(item.Table)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown table %q", item.Table))
			continue
		}
		if !canvas.Place(table, layout.Point{X: item.X, Y: item.Y}) {
			errs = append(errs, fmt.Errorf("table %q could not be placed", item.Table))
		}
	}
	for _, conn := range doc.Connections {
		start := diagram.Endpoint{ItemID: conn.From.Item, ColumnID: conn.From.Column}
		end := diagram.Endpoint{ItemID: conn.To.Item, ColumnID: conn.To.Column}
		if _, err := canvas.Connect(start, end); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func Encode(w io.Writer, canvas *diagram.Canvas) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Snapshot(canvas)); err != nil {
		return fmt.Errorf("failed to encode diagram: %w", err)
	}
	return enc.Close()
}

func Decode(r io.Reader, catalog *schema.Catalog, canvas *diagram.Canvas) error {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse diagram: %w", err)
	}
	return Apply(doc, catalog, canvas)
}

func Save(path string, canvas *diagram.Canvas) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create diagram file: %w", err)
	}
	defer file.Close()

	if err := Encode(file, canvas); err != nil {
		return err
	}
	return file.Close()
}

func Load(path string, catalog *schema.Catalog, canvas *diagram.Canvas) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open diagram file: %w", err)
	}
	defer file.Close()

	if err := Decode(file, catalog, canvas); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
