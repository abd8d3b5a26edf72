package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func demoTables() []Table {
	return []Table{
		{ID: "1", Name: "Employees", Columns: []Column{{ID: "1_1", Name: "Name"}, {ID: "1_2", Name: "Age"}}},
		{ID: "2", Name: "Patients", Columns: []Column{{ID: "2_1", Name: "PatientName"}}},
		{ID: "6", Name: "Business Team", Columns: []Column{{ID: "6_1", Name: "Name"}}},
		{ID: "7", Name: "HR Teams", Columns: []Column{{ID: "7_1", Name: "Name"}}},
	}
}

func TestCatalogLookup(t *testing.T) {
	c := NewCatalog(demoTables())
	require.Equal(t, 4, c.Len())

	tbl, ok := c.Lookup("2")
	require.True(t, ok)
	assert.Equal(t, "Patients", tbl.Name)

	_, ok = c.Lookup("nope")
	assert.False(t, ok)
}

func TestCatalogIsReadOnly(t *testing.T) {
	src := demoTables()
	c := NewCatalog(src)
	src[0].Name = "Changed"

	got := c.Tables()
	got[1].Name = "AlsoChanged"

	tbl, _ := c.Lookup("1")
	assert.Equal(t, "Employees", tbl.Name)
	tbl, _ = c.Lookup("2")
	assert.Equal(t, "Patients", tbl.Name)
}

func TestCatalogFilter(t *testing.T) {
	c := NewCatalog(demoTables())

	tests := []struct {
		name          string
		query         string
		caseSensitive bool
		want          []string
	}{
		{"empty query keeps everything", "", false, []string{"1", "2", "6", "7"}},
		{"insensitive", "team", false, []string{"6", "7"}},
		{"sensitive miss", "team", true, []string{}},
		{"sensitive hit", "Team", true, []string{"6", "7"}},
		{"no match", "zzz", false, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := []string{}
			for _, tbl := range c.Filter(tt.query, tt.caseSensitive) {
				ids = append(ids, tbl.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestTableColumn(t *testing.T) {
	tbl := demoTables()[0]

	col, ok := tbl.Column("1_2")
	require.True(t, ok)
	assert.Equal(t, "Age", col.Name)
	assert.Equal(t, 1, tbl.ColumnIndex("1_2"))
	assert.Equal(t, -1, tbl.ColumnIndex("9_9"))
}
