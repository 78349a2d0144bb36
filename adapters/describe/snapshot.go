package describe

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"gosift/domain/core"
	"gosift/domain/table"
)

// Snapshot captures the headline numbers for one numeric column.
// Std is 0 when fewer than two values are present.
type Snapshot struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Range  float64 `json:"range"`
}

// Correlation reports the Pearson coefficient over rows where both
// columns are present.
type Correlation struct {
	ColumnX string  `json:"column_x"`
	ColumnY string  `json:"column_y"`
	Pairs   int     `json:"pairs"`
	R       float64 `json:"r"`
}

// Snapshot computes the headline numbers for a numeric column, ignoring
// null cells.
func (s *Summarizer) Snapshot(t *table.Table, column string) (*Snapshot, error) {
	col, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	xs, ok := col.Floats()
	if !ok {
		return nil, fmt.Errorf("%w: %q is %s", core.ErrNotNumeric, column, col.Type)
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("column %q has no non-null values", column)
	}

	mean, _ := stats.Mean(xs)
	median, _ := stats.Median(xs)
	min, _ := stats.Min(xs)
	max, _ := stats.Max(xs)
	snap := &Snapshot{
		Column: column,
		Count:  len(xs),
		Mean:   mean,
		Median: median,
		Min:    min,
		Max:    max,
		Range:  max - min,
	}
	if len(xs) >= 2 {
		std, _ := stats.StandardDeviationSample(xs)
		snap.Std = std
	}
	return snap, nil
}

// Correlation computes the Pearson coefficient between two numeric
// columns. Rows where either side is null are dropped before computing,
// so the reported pair count can be smaller than the table.
func (s *Summarizer) Correlation(t *table.Table, columnX, columnY string) (*Correlation, error) {
	colX, err := t.Column(columnX)
	if err != nil {
		return nil, err
	}
	colY, err := t.Column(columnY)
	if err != nil {
		return nil, err
	}
	if !colX.Type.IsNumeric() {
		return nil, fmt.Errorf("%w: %q is %s", core.ErrNotNumeric, columnX, colX.Type)
	}
	if !colY.Type.IsNumeric() {
		return nil, fmt.Errorf("%w: %q is %s", core.ErrNotNumeric, columnY, colY.Type)
	}

	xs := make([]float64, 0, colX.Len())
	ys := make([]float64, 0, colY.Len())
	for i := range colX.Values {
		vx, vy := colX.Values[i], colY.Values[i]
		if vx.Missing || vy.Missing {
			continue
		}
		fx, _ := vx.AsFloat()
		fy, _ := vy.AsFloat()
		xs = append(xs, fx)
		ys = append(ys, fy)
	}
	if len(xs) < 2 {
		return nil, fmt.Errorf("columns %q and %q share fewer than two complete rows", columnX, columnY)
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) {
		return nil, fmt.Errorf("correlation between %q and %q is undefined: a side has no variation", columnX, columnY)
	}
	return &Correlation{ColumnX: columnX, ColumnY: columnY, Pairs: len(xs), R: r}, nil
}
