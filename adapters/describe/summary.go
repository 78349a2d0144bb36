package describe

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"gosift/domain/table"
)

// Summarizer renders per-column descriptive statistics in tabular form.
type Summarizer struct{}

// NewSummarizer creates a new summarizer
func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

// summaryRow holds one source column's statistics before assembly.
type summaryRow struct {
	column string
	count  int64
	unique table.Value
	top    table.Value
	freq   table.Value
	mean   table.Value
	std    table.Value
	min    table.Value
	q25    table.Value
	q50    table.Value
	q75    table.Value
	max    table.Value
}

// Summarize profiles every column of t into a summary table with one row
// per source column, in source order. Numeric columns report count, mean,
// sample std, min, quartiles, and max; the rest report count, unique, the
// most frequent value, and its frequency. Stats that do not apply to a
// column stay null, as does every stat of a fully null column except count.
func (s *Summarizer) Summarize(t *table.Table) *table.Table {
	rows := make([]summaryRow, 0, t.NumCols())
	for i := 0; i < t.NumCols(); i++ {
		col := t.ColumnAt(i)
		if col.Type.IsNumeric() {
			rows = append(rows, numericStats(col))
		} else {
			rows = append(rows, categoricalStats(col))
		}
	}
	return assemble(rows)
}

func numericStats(col *table.Column) summaryRow {
	row := nullRow(col.Name)
	xs, _ := col.Floats()
	row.count = int64(len(xs))
	if len(xs) == 0 {
		return row
	}

	mean, _ := stats.Mean(xs)
	min, _ := stats.Min(xs)
	max, _ := stats.Max(xs)
	row.mean = roundedFloat(mean)
	row.min = roundedFloat(min)
	row.max = roundedFloat(max)

	if len(xs) >= 2 {
		std, _ := stats.StandardDeviationSample(xs)
		row.std = roundedFloat(std)
	}

	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)
	row.q25 = roundedFloat(quantile(sorted, 0.25))
	row.q50 = roundedFloat(quantile(sorted, 0.50))
	row.q75 = roundedFloat(quantile(sorted, 0.75))
	return row
}

func categoricalStats(col *table.Column) summaryRow {
	row := nullRow(col.Name)
	counts := make(map[string]int)
	order := make([]string, 0)
	nonNull := 0
	for _, v := range col.Values {
		if v.Missing {
			continue
		}
		nonNull++
		key := v.Render()
		if counts[key] == 0 {
			order = append(order, key)
		}
		counts[key]++
	}

	row.count = int64(nonNull)
	row.unique = table.Int(int64(len(order)))
	if nonNull == 0 {
		return row
	}

	top, freq := order[0], counts[order[0]]
	for _, key := range order[1:] {
		if counts[key] > freq {
			top, freq = key, counts[key]
		}
	}
	row.top = table.Text(top)
	row.freq = table.Int(int64(freq))
	return row
}

func nullRow(name string) summaryRow {
	return summaryRow{
		column: name,
		unique: table.Null(),
		top:    table.Null(),
		freq:   table.Null(),
		mean:   table.Null(),
		std:    table.Null(),
		min:    table.Null(),
		q25:    table.Null(),
		q50:    table.Null(),
		q75:    table.Null(),
		max:    table.Null(),
	}
}

func assemble(rows []summaryRow) *table.Table {
	n := len(rows)
	columns := make([]table.Value, n)
	counts := make([]table.Value, n)
	uniques := make([]table.Value, n)
	tops := make([]table.Value, n)
	freqs := make([]table.Value, n)
	means := make([]table.Value, n)
	stds := make([]table.Value, n)
	mins := make([]table.Value, n)
	q25s := make([]table.Value, n)
	q50s := make([]table.Value, n)
	q75s := make([]table.Value, n)
	maxs := make([]table.Value, n)
	for i, r := range rows {
		columns[i] = table.Text(r.column)
		counts[i] = table.Int(r.count)
		uniques[i] = r.unique
		tops[i] = r.top
		freqs[i] = r.freq
		means[i] = r.mean
		stds[i] = r.std
		mins[i] = r.min
		q25s[i] = r.q25
		q50s[i] = r.q50
		q75s[i] = r.q75
		maxs[i] = r.max
	}
	return table.MustNew([]table.Column{
		{Name: "column", Type: table.TypeText, Values: columns},
		{Name: "count", Type: table.TypeInteger, Values: counts},
		{Name: "unique", Type: table.TypeInteger, Values: uniques},
		{Name: "top", Type: table.TypeText, Values: tops},
		{Name: "freq", Type: table.TypeInteger, Values: freqs},
		{Name: "mean", Type: table.TypeFloat, Values: means},
		{Name: "std", Type: table.TypeFloat, Values: stds},
		{Name: "min", Type: table.TypeFloat, Values: mins},
		{Name: "25%", Type: table.TypeFloat, Values: q25s},
		{Name: "50%", Type: table.TypeFloat, Values: q50s},
		{Name: "75%", Type: table.TypeFloat, Values: q75s},
		{Name: "max", Type: table.TypeFloat, Values: maxs},
	})
}

// quantile interpolates linearly between the two nearest ranks of the
// sorted sample.
func quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * p
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

func roundedFloat(v float64) table.Value {
	return table.Float(round2(v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
