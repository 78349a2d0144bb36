package api

import (
	"time"

	"gosift/domain/filter"
	"gosift/domain/profile"
	"gosift/domain/table"
	"gosift/models"
)

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// LoadResourceRequest names a dataset file in the local data directory.
type LoadResourceRequest struct {
	Name string `json:"name" binding:"required"`
}

// QueryRequest profiles the result set of a read-only SQL query.
type QueryRequest struct {
	Name  string `json:"name" binding:"required"`
	Query string `json:"query" binding:"required"`
}

// DatasetResponse confirms a load and carries the identity token clients
// use for every later call.
type DatasetResponse struct {
	Token      string    `json:"token"`
	SourceName string    `json:"source_name"`
	Rows       int       `json:"rows"`
	Columns    int       `json:"columns"`
	Changes    []string  `json:"changes"`
	LoadedAt   time.Time `json:"loaded_at"`
}

// ProfileResponse carries the load-time profile of a dataset.
type ProfileResponse struct {
	Token      string               `json:"token"`
	SourceName string               `json:"source_name"`
	Rows       int                  `json:"rows"`
	Columns    int                  `json:"columns"`
	Inventory  []profile.ColumnInfo `json:"inventory"`
	Changes    []string             `json:"changes"`
	Missing    []profile.Entry      `json:"missing"`
	LoadedAt   time.Time            `json:"loaded_at"`
}

// ViewRequest is a filter selection posted against a dataset.
type ViewRequest struct {
	Selection models.Selection `json:"selection"`
}

// ViewResponse reports what survived a selection.
type ViewResponse struct {
	Rows        int           `json:"rows"`
	TotalRows   int           `json:"total_rows"`
	Percent     float64       `json:"percent"`
	SampledRows int           `json:"sampled_rows"`
	Sampled     bool          `json:"sampled"`
	Notes       []filter.Note `json:"notes,omitempty"`
}

// BreakdownResponse counts categories over the filtered view. Remaining is
// how many further categories fell past the display cap.
type BreakdownResponse struct {
	Column    string               `json:"column"`
	Values    []profile.ValueCount `json:"values"`
	Remaining int                  `json:"remaining"`
}

// Grid renders a table for JSON clients: column names, column types, and
// cells in their stable textual form with null cells empty.
type Grid struct {
	Columns []string   `json:"columns"`
	Types   []string   `json:"types"`
	Rows    [][]string `json:"rows"`
}

func gridFrom(t *table.Table) Grid {
	g := Grid{
		Columns: t.Names(),
		Types:   make([]string, t.NumCols()),
		Rows:    make([][]string, t.NumRows()),
	}
	for c := 0; c < t.NumCols(); c++ {
		g.Types[c] = t.ColumnAt(c).Type.String()
	}
	for r := 0; r < t.NumRows(); r++ {
		row := make([]string, t.NumCols())
		for c := 0; c < t.NumCols(); c++ {
			row[c] = t.ColumnAt(c).Values[r].Render()
		}
		g.Rows[r] = row
	}
	return g
}
