package ui

import (
	"math"
	"net/http"
)

// handleFragmentOverview renders the filtered-view panel: how many rows
// survive, the compile notes, and a preview of the leading rows.
func (a *App) handleFragmentOverview(w http.ResponseWriter, r *http.Request) {
	entry, ok := a.entryFromRequest(w, r)
	if !ok {
		return
	}
	sel := parseSelection(r.URL.Query())
	derived, err := a.insights.Derive(entry.Token, sel)
	if err != nil {
		a.renderError(w, err.Error())
		return
	}
	preview, err := a.insights.Preview(entry.Token, sel)
	if err != nil {
		a.renderError(w, err.Error())
		return
	}

	data := overviewData{
		Rows:        derived.View.NumRows(),
		TotalRows:   entry.Table.NumRows(),
		Percent:     derived.View.PercentOfSource(),
		Sampled:     derived.Sampled.NumRows() < derived.View.NumRows(),
		SampledRows: derived.Sampled.NumRows(),
		Notes:       derived.Notes,
		Preview:     gridOf(preview),
		PreviewRows: preview.NumRows(),
	}
	a.renderTemplate(w, "overview.html", data)
}

// handleFragmentSummary renders the describe-style statistics table for
// the current selection.
func (a *App) handleFragmentSummary(w http.ResponseWriter, r *http.Request) {
	entry, ok := a.entryFromRequest(w, r)
	if !ok {
		return
	}
	derived, err := a.insights.Derive(entry.Token, parseSelection(r.URL.Query()))
	if err != nil {
		a.renderError(w, err.Error())
		return
	}

	data := summaryData{Empty: derived.View.NumRows() == 0}
	if !data.Empty {
		data.Summary = gridOf(derived.Summary)
	}
	a.renderTemplate(w, "summary.html", data)
}

// handleFragmentBreakdown renders value counts for one categorical
// column over the filtered view.
func (a *App) handleFragmentBreakdown(w http.ResponseWriter, r *http.Request) {
	entry, ok := a.entryFromRequest(w, r)
	if !ok {
		return
	}
	column := r.URL.Query().Get("column")
	if column == "" {
		a.renderError(w, "Choose a column to break down.")
		return
	}

	counts, remaining, err := a.insights.Breakdown(entry.Token, parseSelection(r.URL.Query()), column)
	if err != nil {
		a.renderError(w, err.Error())
		return
	}

	data := breakdownData{
		Column:    column,
		Rows:      breakdownRows(counts),
		Remaining: remaining,
		Top:       a.config.Display.BreakdownTop,
	}
	a.renderTemplate(w, "breakdown.html", data)
}

// handleFragmentSnapshot renders the headline numbers for one numeric
// column over the filtered view.
func (a *App) handleFragmentSnapshot(w http.ResponseWriter, r *http.Request) {
	entry, ok := a.entryFromRequest(w, r)
	if !ok {
		return
	}
	column := r.URL.Query().Get("column")
	if column == "" {
		a.renderError(w, "Choose a numeric column.")
		return
	}

	snap, err := a.insights.Snapshot(entry.Token, parseSelection(r.URL.Query()), column)
	if err != nil {
		a.renderError(w, err.Error())
		return
	}
	a.renderTemplate(w, "snapshot.html", snapshotData{Snapshot: snap})
}

// handleFragmentCorrelation renders the Pearson coefficient between two
// numeric columns over the filtered view.
func (a *App) handleFragmentCorrelation(w http.ResponseWriter, r *http.Request) {
	entry, ok := a.entryFromRequest(w, r)
	if !ok {
		return
	}
	x := r.URL.Query().Get("x")
	y := r.URL.Query().Get("y")
	if x == "" || y == "" {
		a.renderError(w, "Choose two numeric columns.")
		return
	}
	if x == y {
		a.renderError(w, "Pick two different columns.")
		return
	}

	corr, err := a.insights.Correlate(entry.Token, parseSelection(r.URL.Query()), x, y)
	if err != nil {
		a.renderError(w, err.Error())
		return
	}

	data := correlationData{
		Correlation: corr,
		Strength:    strengthWord(corr.R),
	}
	a.renderTemplate(w, "correlation.html", data)
}

// strengthWord labels a Pearson coefficient for the panel headline.
func strengthWord(r float64) string {
	abs := math.Abs(r)
	direction := "positive"
	if r < 0 {
		direction = "negative"
	}
	switch {
	case abs >= 0.7:
		return "strong " + direction
	case abs >= 0.4:
		return "moderate " + direction
	default:
		return "weak " + direction
	}
}
