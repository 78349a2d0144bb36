package filter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gosift/domain/core"
	"gosift/domain/table"
)

// Kind tags the filter variant
type Kind string

const (
	KindCategorical  Kind = "categorical"
	KindNumericRange Kind = "numeric_range"
)

// Spec is a single filter predicate over one named column. A filter set is
// an unordered collection of Specs whose semantics are the AND of all
// member predicates; nothing about a Spec depends on its position in the set.
type Spec struct {
	Kind   Kind   `json:"kind"`
	Column string `json:"column"`

	// Allowed holds the surviving values for a categorical filter in their
	// stable textual form. An empty set means "no rows": the caller asked
	// for nothing, and the engine must not quietly widen that to everything.
	Allowed map[string]struct{} `json:"-"`

	// Min and Max are the inclusive bounds for a numeric range filter.
	Min float64 `json:"min,omitempty"`
	Max float64 `json:"max,omitempty"`
}

// Note records a column whose range filter was suppressed because the
// column is constant; constant columns cannot be narrowed, only reported.
type Note struct {
	Column  string `json:"column"`
	Message string `json:"message"`
}

// Categorical builds a filter keeping rows whose value in column is a
// member of allowed. Null cells never match, whatever the allowed set.
func Categorical(column string, allowed []string) Spec {
	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}
	return Spec{Kind: KindCategorical, Column: column, Allowed: set}
}

// NumericRange builds an inclusive range filter over a numeric column of t.
// A constant column is uninformative: instead of a filter the caller gets a
// Note stating the single value, and no filtering occurs.
func NumericRange(t *table.Table, column string, min, max float64) (Spec, *Note, error) {
	col, err := t.Column(column)
	if err != nil {
		return Spec{}, nil, err
	}
	if !col.Type.IsNumeric() {
		return Spec{}, nil, fmt.Errorf("%w: %q is %s", core.ErrNotNumeric, column, col.Type)
	}
	if min > max {
		return Spec{}, nil, fmt.Errorf("%w: %v > %v", core.ErrInvertedBounds, min, max)
	}

	lo, hi, ok := col.Bounds()
	if ok && lo == hi {
		note := ConstantNote(column, lo)
		return Spec{}, &note, nil
	}

	return Spec{Kind: KindNumericRange, Column: column, Min: min, Max: max}, nil, nil
}

// ConstantNote reports the single value of a constant column.
func ConstantNote(column string, value float64) Note {
	return Note{
		Column:  column,
		Message: fmt.Sprintf("all values in %q are %s", column, formatBound(value)),
	}
}

// Key returns the canonical serialization of the spec. Allowed values are
// sorted so that logically equal filters key equal, which is what keeps
// derivation memoization order-independent.
func (s Spec) Key() string {
	switch s.Kind {
	case KindCategorical:
		vals := make([]string, 0, len(s.Allowed))
		for v := range s.Allowed {
			vals = append(vals, v)
		}
		sort.Strings(vals)
		return fmt.Sprintf("cat:%s:%s", s.Column, strings.Join(vals, "\x1f"))
	case KindNumericRange:
		return fmt.Sprintf("range:%s:%s..%s", s.Column, formatBound(s.Min), formatBound(s.Max))
	}
	return fmt.Sprintf("unknown:%s", s.Column)
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
