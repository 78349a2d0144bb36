package profile

import (
	"fmt"
	"sort"

	"gosift/domain/core"
	"gosift/domain/table"
)

// ValueCount is one category with its occurrence count and its share of the
// column's non-null values.
type ValueCount struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Breakdown counts the distinct values of a categorical column, descending
// by count with ties in first-appearance order, capped at top entries. The
// second return is how many further distinct values fell past the cap.
func Breakdown(t *table.Table, column string, top int) ([]ValueCount, int, error) {
	col, err := t.Column(column)
	if err != nil {
		return nil, 0, err
	}
	if col.Type.IsNumeric() {
		return nil, 0, fmt.Errorf("%w: %q is %s", core.ErrNotCategorical, column, col.Type)
	}

	counts := make(map[string]int)
	var order []string
	nonNull := 0
	for _, v := range col.Values {
		if v.IsNull() {
			continue
		}
		nonNull++
		s := v.Render()
		if _, seen := counts[s]; !seen {
			order = append(order, s)
		}
		counts[s]++
	}

	out := make([]ValueCount, len(order))
	for i, val := range order {
		out[i] = ValueCount{
			Value:   val,
			Count:   counts[val],
			Percent: round1(float64(counts[val]) / float64(nonNull) * 100),
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	remaining := 0
	if top > 0 && len(out) > top {
		remaining = len(out) - top
		out = out[:top]
	}
	return out, remaining, nil
}
