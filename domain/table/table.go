package table

import (
	"fmt"

	"gosift/domain/core"
)

// Column holds one named, typed sequence of cells
type Column struct {
	Name   string
	Type   ValueType
	Values []Value
}

// Len returns the number of cells
func (c *Column) Len() int {
	return len(c.Values)
}

// MissingCount returns the number of Null cells
func (c *Column) MissingCount() int {
	n := 0
	for _, v := range c.Values {
		if v.IsNull() {
			n++
		}
	}
	return n
}

// NonNullCount returns the number of present cells
func (c *Column) NonNullCount() int {
	return len(c.Values) - c.MissingCount()
}

// Example returns the first non-null value, if any
func (c *Column) Example() (Value, bool) {
	for _, v := range c.Values {
		if !v.IsNull() {
			return v, true
		}
	}
	return Null(), false
}

// Distinct returns the column's distinct non-null values in their stable
// textual form, ordered by first appearance.
func (c *Column) Distinct() []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range c.Values {
		if v.IsNull() {
			continue
		}
		s := v.Render()
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// Floats returns the non-null numeric payloads in row order. The second
// return is false when the column type is not numeric.
func (c *Column) Floats() ([]float64, bool) {
	if !c.Type.IsNumeric() {
		return nil, false
	}
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if f, ok := v.AsFloat(); ok {
			out = append(out, f)
		}
	}
	return out, true
}

// Bounds returns the observed min and max over non-null numeric cells.
// ok is false for non-numeric or all-null columns.
func (c *Column) Bounds() (min, max float64, ok bool) {
	vals, numeric := c.Floats()
	if !numeric || len(vals) == 0 {
		return 0, 0, false
	}
	min, max = vals[0], vals[0]
	for _, f := range vals[1:] {
		if f < min {
			min = f
		}
		if f > max {
			max = f
		}
	}
	return min, max, true
}

// Table is an immutable snapshot of tabular data: an ordered sequence of
// named columns of equal length. Mutating a loaded Table is never valid;
// every downstream derivation builds a new Table or an index view instead.
type Table struct {
	columns []Column
	rows    int
}

// New validates and assembles a Table from columns. Column names must be
// unique and every column must have the same length. A table with zero
// columns or zero rows is valid (the empty-dataset edge, not an error).
func New(columns []Column) (*Table, error) {
	rows := 0
	if len(columns) > 0 {
		rows = len(columns[0].Values)
	}
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if col.Name == "" {
			return nil, fmt.Errorf("column name cannot be empty")
		}
		if seen[col.Name] {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		seen[col.Name] = true
		if len(col.Values) != rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, len(col.Values), rows)
		}
	}
	return &Table{columns: columns, rows: rows}, nil
}

// MustNew is New for derivations that preserve an already-validated shape,
// where a constructor error is unreachable. It panics instead of returning
// one so shape bugs surface at the call site.
func MustNew(columns []Column) *Table {
	t, err := New(columns)
	if err != nil {
		panic(fmt.Sprintf("table: invalid derived shape: %v", err))
	}
	return t
}

// NumRows returns the row count
func (t *Table) NumRows() int {
	return t.rows
}

// NumCols returns the column count
func (t *Table) NumCols() int {
	return len(t.columns)
}

// IsEmpty reports whether the table has zero rows or zero columns
func (t *Table) IsEmpty() bool {
	return t.rows == 0 || len(t.columns) == 0
}

// Names returns the column names in source order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Column looks up a column by name
func (t *Table) Column(name string) (*Column, error) {
	for i := range t.columns {
		if t.columns[i].Name == name {
			return &t.columns[i], nil
		}
	}
	return nil, core.NewNotFoundError("column", name)
}

// ColumnAt returns the column at position i in source order
func (t *Table) ColumnAt(i int) *Column {
	return &t.columns[i]
}

// Select builds a new Table containing the given rows of the source, in the
// given order. Row indices outside the table are rejected.
func (t *Table) Select(rows []int) (*Table, error) {
	columns := make([]Column, len(t.columns))
	for i := range t.columns {
		src := &t.columns[i]
		values := make([]Value, len(rows))
		for j, r := range rows {
			if r < 0 || r >= t.rows {
				return nil, fmt.Errorf("row index %d out of range [0,%d)", r, t.rows)
			}
			values[j] = src.Values[r]
		}
		columns[i] = Column{Name: src.Name, Type: src.Type, Values: values}
	}
	return New(columns)
}
