// Package catalog loads the read-only list of tables offered for dragging.
// Tables come from a YAML file, the embedded demo set, or a live database.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"schemaboard/internal/schema"
)

type Kind string

const (
	KindBuiltin  Kind = "builtin"
	KindYAML     Kind = "yaml"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindMySQL    Kind = "mysql"
)

// Source says where the catalog comes from. Path is used by yaml and sqlite,
// DSN by postgres and mysql (sqlite accepts either).
type Source struct {
	Kind   Kind
	Path   string
	DSN    string
	Schema string
}

//go:embed builtin.yaml
var builtinYAML []byte

type document struct {
	Tables []schema.Table `yaml:"tables"`
}

func Load(ctx context.Context, src Source) (*schema.Catalog, error) {
	src.Kind = Kind(strings.ToLower(string(src.Kind)))
	switch src.Kind {
	case KindBuiltin, "":
		return Builtin()
	case KindYAML:
		return LoadFile(src.Path)
	case KindSQLite, KindPostgres, KindMySQL:
		return Introspect(ctx, src)
	default:
		return nil, fmt.Errorf("unsupported catalog source: %s", src.Kind)
	}
}

func Builtin() (*schema.Catalog, error) {
	cat, err := Parse(builtinYAML)
	if err != nil {
		return nil, fmt.Errorf("builtin catalog: %w", err)
	}
	return cat, nil
}

func LoadFile(path string) (*schema.Catalog, error) {
	if path == "" {
		return nil, fmt.Errorf("catalog file path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

func Parse(data []byte) (*schema.Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := Validate(doc.Tables); err != nil {
		return nil, err
	}
	return schema.NewCatalog(doc.Tables), nil
}

// Validate checks the id rules the canvas relies on: table ids unique and
// non-empty, column ids unique within their table.
func Validate(tables []schema.Table) error {
	seen := make(map[string]bool, len(tables))
	for i, t := range tables {
		if t.ID == "" {
			return fmt.Errorf("table %d has no id", i)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate table id %q", t.ID)
		}
		seen[t.ID] = true

		cols := make(map[string]bool, len(t.Columns))
		for j, c := range t.Columns {
			if c.ID == "" {
				return fmt.Errorf("table %q: column %d has no id", t.ID, j)
			}
			if cols[c.ID] {
				return fmt.Errorf("table %q: duplicate column id %q", t.ID, c.ID)
			}
			cols[c.ID] = true
		}
	}
	return nil
}
