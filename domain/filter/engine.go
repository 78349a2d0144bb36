package filter

import (
	"fmt"

	"gosift/domain/core"
	"gosift/domain/table"
)

// Apply evaluates the filter set against the table and returns the view of
// surviving rows. Composition is pure intersection: a row survives iff every
// predicate accepts it, so the result is identical for any ordering of
// specs. Row order in the view equals source order restricted to survivors.
func Apply(t *table.Table, specs []Spec) (*View, error) {
	preds, err := compile(t, specs)
	if err != nil {
		return nil, err
	}

	var rows []int
	for i := 0; i < t.NumRows(); i++ {
		keep := true
		for _, p := range preds {
			if !p.matches(i) {
				keep = false
				break
			}
		}
		if keep {
			rows = append(rows, i)
		}
	}
	return NewView(t, rows), nil
}

// DefaultAllowed returns the full set of observed distinct non-null values
// for a column, in first-appearance order. Calling layers use this as the
// allowed set for an unset categorical filter so that "nothing selected"
// behaves as a no-op rather than as "no rows".
func DefaultAllowed(t *table.Table, column string) ([]string, error) {
	col, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	if col.Type.IsNumeric() {
		return nil, fmt.Errorf("%w: %q is %s", core.ErrNotCategorical, column, col.Type)
	}
	return col.Distinct(), nil
}

// predicate is a spec bound to its resolved column.
type predicate struct {
	spec Spec
	col  *table.Column
}

func compile(t *table.Table, specs []Spec) ([]predicate, error) {
	preds := make([]predicate, 0, len(specs))
	for _, s := range specs {
		col, err := t.Column(s.Column)
		if err != nil {
			return nil, err
		}
		switch s.Kind {
		case KindCategorical:
			if col.Type.IsNumeric() {
				return nil, fmt.Errorf("%w: %q is %s", core.ErrNotCategorical, s.Column, col.Type)
			}
		case KindNumericRange:
			if !col.Type.IsNumeric() {
				return nil, fmt.Errorf("%w: %q is %s", core.ErrNotNumeric, s.Column, col.Type)
			}
		default:
			return nil, fmt.Errorf("%w: %q", core.ErrUnknownFilterKind, s.Kind)
		}
		preds = append(preds, predicate{spec: s, col: col})
	}
	return preds, nil
}

// matches reports whether row i survives this predicate. Null cells never
// match either filter kind.
func (p predicate) matches(i int) bool {
	v := p.col.Values[i]
	if v.IsNull() {
		return false
	}
	switch p.spec.Kind {
	case KindCategorical:
		_, ok := p.spec.Allowed[v.Render()]
		return ok
	case KindNumericRange:
		f, ok := v.AsFloat()
		return ok && f >= p.spec.Min && f <= p.spec.Max
	}
	return false
}
