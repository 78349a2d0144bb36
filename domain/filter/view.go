package filter

import (
	"fmt"
	"math"

	"gosift/domain/table"
)

// View is a filtered, row-order-preserving projection of a Table: the
// source plus the indices of surviving rows, in source order. Views are
// ephemeral; they hold no copied data until materialized.
type View struct {
	source *table.Table
	rows   []int
}

// NewView builds a view over explicit row indices. The engine is the usual
// producer; tests and the sampler use this directly.
func NewView(source *table.Table, rows []int) *View {
	return &View{source: source, rows: rows}
}

// Source returns the underlying table
func (v *View) Source() *table.Table {
	return v.source
}

// NumRows returns the number of surviving rows
func (v *View) NumRows() int {
	return len(v.rows)
}

// Rows returns the surviving row indices in view order
func (v *View) Rows() []int {
	out := make([]int, len(v.rows))
	copy(out, v.rows)
	return out
}

// PercentOfSource returns the view's share of the source rows as a
// percentage rounded to one decimal. An empty source yields 0.
func (v *View) PercentOfSource() float64 {
	total := v.source.NumRows()
	if total == 0 {
		return 0
	}
	return round1(float64(len(v.rows)) / float64(total) * 100)
}

// Materialize copies the surviving rows into a new Table, preserving view
// order. The indices are valid by construction, so a selection failure is a
// shape bug and panics like table.MustNew.
func (v *View) Materialize() *table.Table {
	t, err := v.source.Select(v.rows)
	if err != nil {
		panic(fmt.Sprintf("filter: view holds invalid rows: %v", err))
	}
	return t
}

// Head materializes at most n leading rows of the view for previews.
func (v *View) Head(n int) *table.Table {
	if n > len(v.rows) {
		n = len(v.rows)
	}
	if n < 0 {
		n = 0
	}
	t, err := v.source.Select(v.rows[:n])
	if err != nil {
		panic(fmt.Sprintf("filter: view holds invalid rows: %v", err))
	}
	return t
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
