package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"gosift/domain/core"
	"gosift/domain/table"
	"gosift/internal/session"
)

// handleIndex renders the landing page: loaded datasets plus the upload
// and demo forms.
func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	a.renderIndex(w, "")
}

func (a *App) renderIndex(w http.ResponseWriter, errMessage string) {
	data := indexData{
		Title:    "Datasets",
		Datasets: a.insights.Datasets(),
		Error:    errMessage,
	}
	a.renderTemplate(w, "index.html", data)
}

// handleDatasetDetail renders the profile page for one dataset: the
// column inventory, the applied type conversions, the missing-value
// ledger, and the filter form whose panels load as fragments.
func (a *App) handleDatasetDetail(w http.ResponseWriter, r *http.Request) {
	entry, ok := a.entryFromRequest(w, r)
	if !ok {
		return
	}

	fields, err := a.insights.FilterFields(entry.Token)
	if err != nil {
		a.logger.Error("[UI] filter fields for %s: %v", entry.Token, err)
		http.Error(w, "Failed to inspect dataset", http.StatusInternalServerError)
		return
	}

	numeric, categorical := table.Classify(entry.Table)
	data := datasetData{
		Title:       entry.SourceName,
		Dataset:     datasetInfo(entry),
		Inventory:   entry.Inventory,
		Changes:     entry.ChangeLog,
		Missing:     entry.Missing,
		Fields:      fields,
		Categorical: categorical,
		Numeric:     numeric,
	}
	a.renderTemplate(w, "dataset.html", data)
}

// entryFromRequest resolves the {token} URL parameter to a cached
// dataset. On failure it has already written the response.
func (a *App) entryFromRequest(w http.ResponseWriter, r *http.Request) (*session.Entry, bool) {
	token, err := core.ParseDatasetToken(chi.URLParam(r, "token"))
	if err != nil {
		http.Error(w, "Invalid dataset token", http.StatusBadRequest)
		return nil, false
	}
	entry, err := a.insights.Entry(token)
	if err != nil {
		http.Error(w, "Dataset not found", http.StatusNotFound)
		return nil, false
	}
	return entry, true
}
