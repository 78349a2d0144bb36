package coerce

import (
	"fmt"

	"gosift/domain/table"
	"gosift/internal"
)

// Engine conservatively repairs Text columns to numeric or datetime types.
// A conversion is accepted only when the trial's success ratio strictly
// exceeds the configured threshold; false-positive conversions corrupt every
// downstream statistic, so the engine prefers leaving a column alone.
type Engine struct {
	config Config
	logger *internal.Logger
}

// Config defines the conversion thresholds
type Config struct {
	// NumericThreshold is the success ratio a trial must strictly exceed.
	// The same gate applies to numeric and temporal trials.
	NumericThreshold float64
	// MissingSkipRatio is the missing-value ratio above which a column is
	// skipped outright: too sparse to trust any conversion decision.
	MissingSkipRatio float64
}

// DefaultConfig returns the stated policy defaults
func DefaultConfig() Config {
	return Config{
		NumericThreshold: 0.9,
		MissingSkipRatio: 0.5,
	}
}

// NewEngine creates an inference engine with the given thresholds
func NewEngine(config Config) *Engine {
	return &Engine{config: config, logger: internal.DefaultLogger}
}

// Infer returns a new Table with eligible Text columns repaired, plus the
// ordered change log of conversions it made. The source Table is never
// mutated. Columns that fail every trial are carried over unchanged, and
// their absence from the change log is the only record of that outcome.
func (e *Engine) Infer(t *table.Table) (*table.Table, []string) {
	var changes []string
	columns := make([]table.Column, t.NumCols())
	for i := 0; i < t.NumCols(); i++ {
		src := t.ColumnAt(i)
		converted, change := e.inferColumn(src, t.NumRows())
		columns[i] = converted
		if change != "" {
			changes = append(changes, change)
		}
	}
	return table.MustNew(columns), changes
}

// inferColumn runs the trials for one column. The returned change entry is
// empty when the column is carried over as-is.
func (e *Engine) inferColumn(src *table.Column, rows int) (table.Column, string) {
	if src.Type != table.TypeText || rows == 0 {
		return *src, ""
	}

	missing := src.MissingCount()
	if float64(missing)/float64(rows) > e.config.MissingSkipRatio {
		e.logger.Debug("[Coercer] skipping %q: %d/%d values missing", src.Name, missing, rows)
		return *src, ""
	}
	nonNull := rows - missing

	if col, ok := e.tryNumericColumn(src, nonNull); ok {
		change := fmt.Sprintf("%s → numeric", src.Name)
		e.logger.Info("[Coercer] %s", change)
		return col, change
	}

	if col, ok := e.tryTemporalColumn(src, nonNull); ok {
		change := fmt.Sprintf("%s → datetime", src.Name)
		e.logger.Info("[Coercer] %s", change)
		return col, change
	}

	return *src, ""
}

// tryNumericColumn attempts the numeric trial. Non-null values that fail to
// parse count as Null for the trial; the trial succeeds only if the parsed
// share of the original non-null values strictly exceeds the threshold.
func (e *Engine) tryNumericColumn(src *table.Column, nonNull int) (table.Column, bool) {
	parsed := 0
	allIntegral := true
	for _, v := range src.Values {
		s, ok := v.AsString()
		if !ok {
			continue
		}
		if _, numOK := ParseNumeric(s); numOK {
			parsed++
			if _, intOK := ParseInteger(s); !intOK {
				allIntegral = false
			}
		}
	}
	if float64(parsed)/float64(nonNull) <= e.config.NumericThreshold {
		return table.Column{}, false
	}

	// Integer only when the repaired column has no Nulls at all: original
	// misses and trial failures both force the wider Float type.
	toInteger := allIntegral && parsed == len(src.Values)

	values := make([]table.Value, len(src.Values))
	for i, v := range src.Values {
		s, ok := v.AsString()
		if !ok {
			values[i] = table.Null()
			continue
		}
		if toInteger {
			n, _ := ParseInteger(s)
			values[i] = table.Int(n)
			continue
		}
		if f, numOK := ParseNumeric(s); numOK {
			values[i] = table.Float(f)
		} else {
			values[i] = table.Null()
		}
	}

	colType := table.TypeFloat
	if toInteger {
		colType = table.TypeInteger
	}
	return table.Column{Name: src.Name, Type: colType, Values: values}, true
}

// tryTemporalColumn attempts the temporal trial under the identical
// success-ratio rule.
func (e *Engine) tryTemporalColumn(src *table.Column, nonNull int) (table.Column, bool) {
	parsed := 0
	for _, v := range src.Values {
		s, ok := v.AsString()
		if !ok {
			continue
		}
		if _, tsOK := ParseTimestamp(s); tsOK {
			parsed++
		}
	}
	if float64(parsed)/float64(nonNull) <= e.config.NumericThreshold {
		return table.Column{}, false
	}

	values := make([]table.Value, len(src.Values))
	for i, v := range src.Values {
		s, ok := v.AsString()
		if !ok {
			values[i] = table.Null()
			continue
		}
		if ts, tsOK := ParseTimestamp(s); tsOK {
			values[i] = table.Time(ts)
		} else {
			values[i] = table.Null()
		}
	}
	return table.Column{Name: src.Name, Type: table.TypeDateTime, Values: values}, true
}
