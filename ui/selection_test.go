package ui

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gosift/models"
)

func TestParseSelectionReadsCategoricalValues(t *testing.T) {
	sel := parseSelection(url.Values{
		"has_cat_region": {"1"},
		"cat_region":     {"North", "South"},
	})

	require.Contains(t, sel.Categorical, "region")
	assert.Equal(t, []string{"North", "South"}, sel.Categorical["region"])
	assert.Nil(t, sel.Ranges)
}

func TestParseSelectionMarkerAloneMeansEmptySet(t *testing.T) {
	// A multiselect with everything unticked submits only its marker. That
	// must survive as an empty allowed set, not vanish from the selection.
	sel := parseSelection(url.Values{"has_cat_region": {"1"}})

	require.Contains(t, sel.Categorical, "region")
	assert.Empty(t, sel.Categorical["region"])
}

func TestParseSelectionReadsRangePairs(t *testing.T) {
	sel := parseSelection(url.Values{
		"min_amount": {"10.5"},
		"max_amount": {"99"},
	})

	require.Contains(t, sel.Ranges, "amount")
	assert.Equal(t, models.RangeRequest{Min: 10.5, Max: 99}, sel.Ranges["amount"])
}

func TestParseSelectionDropsHalfRanges(t *testing.T) {
	sel := parseSelection(url.Values{
		"min_amount": {"10"},
		"max_other":  {"99"},
	})

	assert.Nil(t, sel.Ranges)
}

func TestParseSelectionDropsUnparsableBounds(t *testing.T) {
	sel := parseSelection(url.Values{
		"min_amount": {"oops"},
		"max_amount": {"99"},
	})

	assert.Nil(t, sel.Ranges)
}

func TestParseSelectionIgnoresUnrelatedFields(t *testing.T) {
	sel := parseSelection(url.Values{
		"column": {"city"},
		"x":      {"amount"},
		"y":      {"units"},
	})

	assert.Nil(t, sel.Categorical)
	assert.Nil(t, sel.Ranges)
}

func TestParseSelectionSkipsBarePrefixes(t *testing.T) {
	sel := parseSelection(url.Values{
		"cat_":     {"North"},
		"has_cat_": {"1"},
		"min_":     {"1"},
		"max_":     {"2"},
	})

	assert.Nil(t, sel.Categorical)
	assert.Nil(t, sel.Ranges)
}

func TestParseSelectionEmptyFormSelectsEverything(t *testing.T) {
	sel := parseSelection(url.Values{})

	assert.Nil(t, sel.Categorical)
	assert.Nil(t, sel.Ranges)
}
