// Package schema holds the read-only table descriptors offered by the catalog.
package schema

import "strings"

type Column struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	DataType string `yaml:"type"`
}

type Table struct {
	ID      string   `yaml:"id"`
	Name    string   `yaml:"name"`
	Columns []Column `yaml:"columns"`
}

// Column returns the column with the given id, or false.
func (t Table) Column(id string) (Column, bool) {
	for _, col := range t.Columns {
		if col.ID == id {
			return col, true
		}
	}
	return Column{}, false
}

// ColumnIndex returns the row index of a column inside the table box, or -1.
func (t Table) ColumnIndex(id string) int {
	for i, col := range t.Columns {
		if col.ID == id {
			return i
		}
	}
	return -1
}

// Catalog is an ordered list of tables. It is never mutated after construction.
type Catalog struct {
	tables []Table
	index  map[string]int
}

func NewCatalog(tables []Table) *Catalog {
	c := &Catalog{
		tables: make([]Table, len(tables)),
		index:  make(map[string]int, len(tables)),
	}
	copy(c.tables, tables)
	for i, t := range c.tables {
		c.index[t.ID] = i
	}
	return c
}

func (c *Catalog) Len() int {
	return len(c.tables)
}

func (c *Catalog) Tables() []Table {
	out := make([]Table, len(c.tables))
	copy(out, c.tables)
	return out
}

func (c *Catalog) Lookup(id string) (Table, bool) {
	i, ok := c.index[id]
	if !ok {
		return Table{}, false
	}
	return c.tables[i], true
}

// Filter returns the tables whose name contains query, in catalog order.
// An empty query matches everything.
func (c *Catalog) Filter(query string, caseSensitive bool) []Table {
	if query == "" {
		return c.Tables()
	}
	needle := query
	if !caseSensitive {
		needle = strings.ToLower(query)
	}
	out := make([]Table, 0, len(c.tables))
	for _, t := range c.tables {
		name := t.Name
		if !caseSensitive {
			name = strings.ToLower(name)
		}
		if strings.Contains(name, needle) {
			out = append(out, t)
		}
	}
	return out
}
