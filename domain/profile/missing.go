package profile

import (
	"math"
	"sort"

	"gosift/domain/table"
)

// Entry is one row of the missing-value report.
type Entry struct {
	Column  string  `json:"column"`
	Count   int     `json:"missing_count"`
	Percent float64 `json:"missing_percent"`
}

// MissingValues reports every column with at least one Null, ordered by
// missing count descending; ties keep original column order. Percentages
// are rounded to one decimal. An empty table yields an empty report rather
// than a division by zero.
func MissingValues(t *table.Table) []Entry {
	rows := t.NumRows()
	if rows == 0 {
		return nil
	}

	var report []Entry
	for i := 0; i < t.NumCols(); i++ {
		col := t.ColumnAt(i)
		count := col.MissingCount()
		if count == 0 {
			continue
		}
		report = append(report, Entry{
			Column:  col.Name,
			Count:   count,
			Percent: round1(float64(count) / float64(rows) * 100),
		})
	}

	sort.SliceStable(report, func(i, j int) bool {
		return report[i].Count > report[j].Count
	})
	return report
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
