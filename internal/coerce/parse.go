package coerce

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// timestampLayouts are the formats a temporal trial accepts, tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
}

// ParseNumeric attempts to parse a literal as a number. The same rule types
// columns at load time and drives conversion trials, so parser typing and
// inference can never disagree on what counts as numeric. Infinities and NaN
// are rejected: they would poison every downstream statistic.
func ParseNumeric(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// ParseInteger attempts to parse a literal as a lossless int64.
func ParseInteger(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// ParseBoolean accepts only true/false literals, case-insensitively. Numeric
// stand-ins like 1/0 or yes/no stay numeric or text so boolean typing never
// competes with the numeric rules.
func ParseBoolean(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

// ParseTimestamp attempts to parse a literal against the accepted layouts.
// Digit-only strings are not treated as epoch seconds: a column that failed
// the numeric trial must not sneak into datetime through its numbers.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
