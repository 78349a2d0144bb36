package ui

import (
	"net/url"
	"strconv"
	"strings"

	"gosift/models"
)

// Form field prefixes. Each filterable column renders as cat_<column>
// (multi-valued) or as a min_<column>/max_<column> pair; has_cat_<column>
// always submits, so a multiselect with nothing ticked still arrives as an
// empty allowed set instead of disappearing from the form data.
const (
	fieldCategorical     = "cat_"
	fieldCategoricalMark = "has_cat_"
	fieldRangeMin        = "min_"
	fieldRangeMax        = "max_"
)

// parseSelection reconstructs a filter selection from submitted form
// values. Range bounds that fail to parse, and pairs missing one side,
// drop silently: an incomplete range cannot narrow anything.
func parseSelection(values url.Values) models.Selection {
	sel := models.Selection{}
	mins := make(map[string]float64)
	maxs := make(map[string]float64)

	ensure := func(column string) {
		if sel.Categorical == nil {
			sel.Categorical = make(map[string][]string)
		}
		if _, ok := sel.Categorical[column]; !ok {
			sel.Categorical[column] = []string{}
		}
	}

	for key, vals := range values {
		switch {
		case strings.HasPrefix(key, fieldCategoricalMark):
			column := strings.TrimPrefix(key, fieldCategoricalMark)
			if column != "" {
				ensure(column)
			}
		case strings.HasPrefix(key, fieldCategorical):
			column := strings.TrimPrefix(key, fieldCategorical)
			if column == "" {
				continue
			}
			ensure(column)
			for _, v := range vals {
				if v != "" {
					sel.Categorical[column] = append(sel.Categorical[column], v)
				}
			}
		case strings.HasPrefix(key, fieldRangeMin):
			if column, bound, ok := parseBound(key, fieldRangeMin, vals); ok {
				mins[column] = bound
			}
		case strings.HasPrefix(key, fieldRangeMax):
			if column, bound, ok := parseBound(key, fieldRangeMax, vals); ok {
				maxs[column] = bound
			}
		}
	}

	for column, lo := range mins {
		hi, ok := maxs[column]
		if !ok {
			continue
		}
		if sel.Ranges == nil {
			sel.Ranges = make(map[string]models.RangeRequest)
		}
		sel.Ranges[column] = models.RangeRequest{Min: lo, Max: hi}
	}
	return sel
}

func parseBound(key, prefix string, vals []string) (string, float64, bool) {
	column := strings.TrimPrefix(key, prefix)
	if column == "" || len(vals) == 0 {
		return "", 0, false
	}
	bound, err := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
	if err != nil {
		return "", 0, false
	}
	return column, bound, true
}
