// Package table holds the in-memory row/column dataset that the cleaning
// pipeline transforms. Rows keep insertion order; each row is addressable
// by column name through the table's column index.
package table

import (
	"fmt"
	"strings"

	"catalogclean/domain/core"
)

// Table is an ordered set of typed columns and rows
type Table struct {
	columns []Column
	index   map[string]int
	rows    []Row
}

// New creates an empty table with the given columns
func New(columns []Column) (*Table, error) {
	t := &Table{
		columns: make([]Column, 0, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for _, col := range columns {
		if _, exists := t.index[col.Name]; exists {
			return nil, fmt.Errorf("%w: %s", core.ErrColumnExists, col.Name)
		}
		t.index[col.Name] = len(t.columns)
		t.columns = append(t.columns, col)
	}
	return t, nil
}

// Columns returns a copy of the column list
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Names returns the column names in order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Column looks up a column by name
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// Has reports whether a column with this name exists
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Index returns the position of a column, or -1
func (t *Table) Index(name string) int {
	if i, ok := t.index[name]; ok {
		return i
	}
	return -1
}

// SetType changes the declared type of a column
func (t *Table) SetType(name string, typ ColumnType) error {
	i, ok := t.index[name]
	if !ok {
		return core.NewColumnNotFoundError(name)
	}
	t.columns[i].Type = typ
	return nil
}

// Len returns the number of rows
func (t *Table) Len() int { return len(t.rows) }

// Width returns the number of columns
func (t *Table) Width() int { return len(t.columns) }

// Shape returns (rows, columns)
func (t *Table) Shape() (int, int) { return len(t.rows), len(t.columns) }

// Rows exposes the row slice; callers may modify values in place
func (t *Table) Rows() []Row { return t.rows }

// Row returns the i-th row
func (t *Table) Row(i int) Row { return t.rows[i] }

// Append adds a row; it must have one value per column
func (t *Table) Append(row Row) error {
	if len(row) != len(t.columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(row), len(t.columns))
	}
	t.rows = append(t.rows, row)
	return nil
}

// Get returns the value of a named column in row i
func (t *Table) Get(i int, name string) (Value, bool) {
	c, ok := t.index[name]
	if !ok {
		return Value{}, false
	}
	return t.rows[i][c], true
}

// Set replaces the value of a named column in row i
func (t *Table) Set(i int, name string, v Value) error {
	c, ok := t.index[name]
	if !ok {
		return core.NewColumnNotFoundError(name)
	}
	t.rows[i][c] = v
	return nil
}

// Values returns a copy of one column's values in row order
func (t *Table) Values(name string) ([]Value, error) {
	c, ok := t.index[name]
	if !ok {
		return nil, core.NewColumnNotFoundError(name)
	}
	out := make([]Value, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[c]
	}
	return out, nil
}

// AddColumn appends a column with one value per existing row
func (t *Table) AddColumn(col Column, values []Value) error {
	if _, exists := t.index[col.Name]; exists {
		return fmt.Errorf("%w: %s", core.ErrColumnExists, col.Name)
	}
	if len(values) != len(t.rows) {
		return fmt.Errorf("column %s has %d values, table has %d rows", col.Name, len(values), len(t.rows))
	}
	t.index[col.Name] = len(t.columns)
	t.columns = append(t.columns, col)
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], values[i])
	}
	return nil
}

// DropColumn removes a column and its values
func (t *Table) DropColumn(name string) error {
	c, ok := t.index[name]
	if !ok {
		return core.NewColumnNotFoundError(name)
	}
	t.columns = append(t.columns[:c], t.columns[c+1:]...)
	for i, row := range t.rows {
		t.rows[i] = append(row[:c], row[c+1:]...)
	}
	t.reindex()
	return nil
}

// Retain keeps only the rows for which keep returns true, preserving order
func (t *Table) Retain(keep func(i int, row Row) bool) int {
	kept := t.rows[:0]
	removed := 0
	for i, row := range t.rows {
		if keep(i, row) {
			kept = append(kept, row)
		} else {
			removed++
		}
	}
	for i := len(kept); i < len(t.rows); i++ {
		t.rows[i] = nil
	}
	t.rows = kept
	return removed
}

// RowKey encodes a whole row so equal rows produce equal keys
func (t *Table) RowKey(i int) string {
	var b strings.Builder
	for c, v := range t.rows[i] {
		if c > 0 {
			b.WriteByte(0x1f)
		}
		b.WriteString(v.key())
	}
	return b.String()
}

// Clone returns a deep copy
func (t *Table) Clone() *Table {
	out := &Table{
		columns: t.Columns(),
		index:   make(map[string]int, len(t.index)),
		rows:    make([]Row, len(t.rows)),
	}
	for k, v := range t.index {
		out.index[k] = v
	}
	for i, row := range t.rows {
		out.rows[i] = append(Row(nil), row...)
	}
	return out
}

// Head returns a copy holding at most the first n rows
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.rows) {
		n = len(t.rows)
	}
	out := &Table{
		columns: t.Columns(),
		index:   make(map[string]int, len(t.index)),
		rows:    make([]Row, n),
	}
	for k, v := range t.index {
		out.index[k] = v
	}
	for i := 0; i < n; i++ {
		out.rows[i] = append(Row(nil), t.rows[i]...)
	}
	return out
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.columns))
	for i, col := range t.columns {
		t.index[col.Name] = i
	}
}
