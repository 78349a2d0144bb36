package models

import "time"

// Filter field kinds as rendered to clients.
const (
	FieldCategorical = "categorical"
	FieldRange       = "numeric_range"
	FieldConstant    = "constant"
)

// RangeRequest bounds one numeric column, inclusive on both ends.
type RangeRequest struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Selection describes a requested filter set in user terms: allowed
// values per categorical column and bounds per numeric column. The zero
// value selects everything.
type Selection struct {
	Categorical map[string][]string     `json:"categorical,omitempty"`
	Ranges      map[string]RangeRequest `json:"ranges,omitempty"`
}

// FilterField describes one filterable column for form rendering.
// Constant numeric columns surface as FieldConstant with an explanatory
// note instead of an adjustable range.
type FilterField struct {
	Column  string   `json:"column"`
	Kind    string   `json:"kind"`
	Choices []string `json:"choices,omitempty"`
	Min     float64  `json:"min"`
	Max     float64  `json:"max"`
	Note    string   `json:"note,omitempty"`
}

// DatasetInfo summarizes one cached dataset for listings.
type DatasetInfo struct {
	Token      string    `json:"token"`
	SourceName string    `json:"source_name"`
	Rows       int       `json:"rows"`
	Columns    int       `json:"columns"`
	LoadedAt   time.Time `json:"loaded_at"`
}
