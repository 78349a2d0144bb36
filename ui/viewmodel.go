package ui

import (
	"html/template"

	"gosift/adapters/describe"
	"gosift/domain/filter"
	"gosift/domain/profile"
	"gosift/domain/table"
	"gosift/internal/session"
	"gosift/models"
)

// grid is a table flattened for template ranging: header names plus rows
// of rendered cells, null cells empty.
type grid struct {
	Columns []string
	Rows    [][]string
}

func gridOf(t *table.Table) grid {
	g := grid{Columns: t.Names(), Rows: make([][]string, t.NumRows())}
	for r := 0; r < t.NumRows(); r++ {
		row := make([]string, t.NumCols())
		for c := 0; c < t.NumCols(); c++ {
			row[c] = t.ColumnAt(c).Values[r].Render()
		}
		g.Rows[r] = row
	}
	return g
}

type indexData struct {
	Title    string
	Datasets []models.DatasetInfo
	Error    string
}

// datasetData drives the detail page: the load-time profile plus the
// filter form fields and the column lists the analysis selects offer.
type datasetData struct {
	Title       string
	Dataset     models.DatasetInfo
	Inventory   []profile.ColumnInfo
	Changes     []string
	Missing     []profile.Entry
	Fields      []models.FilterField
	Categorical []string
	Numeric     []string
}

type overviewData struct {
	Rows        int
	TotalRows   int
	Percent     float64
	Sampled     bool
	SampledRows int
	Notes       []filter.Note
	Preview     grid
	PreviewRows int
}

type summaryData struct {
	Summary grid
	Empty   bool
}

// breakdownRow carries one category bar; Share is the bar width relative
// to the most frequent category.
type breakdownRow struct {
	Value   string
	Count   int
	Percent float64
	Share   float64
}

type breakdownData struct {
	Column    string
	Rows      []breakdownRow
	Remaining int
	Top       int
}

type snapshotData struct {
	Snapshot *describe.Snapshot
}

type correlationData struct {
	Correlation *describe.Correlation
	Strength    string
}

type reportData struct {
	Title       string
	Token       string
	DownloadURL string
	Body        template.HTML
}

func breakdownRows(values []profile.ValueCount) []breakdownRow {
	if len(values) == 0 {
		return nil
	}
	top := values[0].Count
	for _, v := range values {
		if v.Count > top {
			top = v.Count
		}
	}
	rows := make([]breakdownRow, len(values))
	for i, v := range values {
		rows[i] = breakdownRow{
			Value:   v.Value,
			Count:   v.Count,
			Percent: v.Percent,
			Share:   float64(v.Count) / float64(top) * 100,
		}
	}
	return rows
}

func datasetInfo(entry *session.Entry) models.DatasetInfo {
	return models.DatasetInfo{
		Token:      entry.Token.String(),
		SourceName: entry.SourceName,
		Rows:       entry.Table.NumRows(),
		Columns:    entry.Table.NumCols(),
		LoadedAt:   entry.LoadedAt,
	}
}
