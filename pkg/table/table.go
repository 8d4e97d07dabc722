// Package table provides the small in-memory tabular model the graph
// builders and enrichers join on. Rows are open-ended key→value cells so
// every source column survives into graph attributes untouched.
package table

import (
	"fmt"
	"sort"
	"strings"
)

// Row is a single record. A cell is null when the key is absent or the
// value is nil.
type Row map[string]any

// Table is an ordered collection of rows with a declared column list.
// Column order is the order of first appearance.
type Table struct {
	columns []string
	colSet  map[string]struct{}
	rows    []Row
}

// New creates an empty table with the given columns.
func New(columns ...string) *Table {
	t := &Table{colSet: make(map[string]struct{})}
	for _, c := range columns {
		t.addColumn(c)
	}
	return t
}

func (t *Table) addColumn(name string) {
	if _, ok := t.colSet[name]; ok {
		return
	}
	t.colSet[name] = struct{}{}
	t.columns = append(t.columns, name)
}

// Columns returns the column names in declaration order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// HasColumn reports whether the table declares the named column.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.colSet[name]
	return ok
}

// RequireColumns returns an error naming the first missing column.
// Builders treat this as fatal per-stage input validation.
func (t *Table) RequireColumns(names ...string) error {
	for _, name := range names {
		if !t.HasColumn(name) {
			return fmt.Errorf("required column %q missing (have %v)", name, t.columns)
		}
	}
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns the underlying rows. Callers must not reorder them.
func (t *Table) Rows() []Row {
	return t.rows
}

// Append adds a row, declaring any columns not yet seen.
func (t *Table) Append(row Row) {
	keys := make([]string, 0, len(row))
	for k := range row {
		if _, ok := t.colSet[k]; !ok {
			keys = append(keys, k)
		}
	}
	// Sort new columns so declaration order is stable regardless of map order.
	sort.Strings(keys)
	for _, k := range keys {
		t.addColumn(k)
	}
	t.rows = append(t.rows, row)
}

// DeclareColumn declares a column without touching any rows. Useful after
// writing derived cells directly into rows.
func (t *Table) DeclareColumn(name string) {
	t.addColumn(name)
}

// SetColumn sets the value of a column on every row.
func (t *Table) SetColumn(name string, value any) {
	t.addColumn(name)
	for _, row := range t.rows {
		row[name] = value
	}
}

// Filter returns a new table with the rows for which keep returns true.
func (t *Table) Filter(keep func(Row) bool) *Table {
	out := New(t.columns...)
	for _, row := range t.rows {
		if keep(row) {
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// DropDuplicates removes rows that are exact duplicates over all columns
// except those listed in ignore. The first occurrence wins. Returns the
// deduplicated table and the number of rows removed.
func (t *Table) DropDuplicates(ignore ...string) (*Table, int) {
	skip := make(map[string]struct{}, len(ignore))
	for _, name := range ignore {
		skip[name] = struct{}{}
	}
	keyCols := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if _, ok := skip[c]; !ok {
			keyCols = append(keyCols, c)
		}
	}

	out := New(t.columns...)
	seen := make(map[string]struct{}, len(t.rows))
	removed := 0
	var key strings.Builder
	for _, row := range t.rows {
		key.Reset()
		for _, c := range keyCols {
			fmt.Fprintf(&key, "%v\x1f", row[c])
		}
		k := key.String()
		if _, dup := seen[k]; dup {
			removed++
			continue
		}
		seen[k] = struct{}{}
		out.rows = append(out.rows, row)
	}
	return out, removed
}

// Concat concatenates tables into one, unioning their columns.
func Concat(tables ...*Table) *Table {
	out := New()
	for _, t := range tables {
		if t == nil {
			continue
		}
		for _, c := range t.columns {
			out.addColumn(c)
		}
		out.rows = append(out.rows, t.rows...)
	}
	return out
}
