package table

import (
	"strconv"
	"time"
)

// ValueType represents the semantic type of a column
type ValueType string

const (
	TypeInteger  ValueType = "integer"
	TypeFloat    ValueType = "float"
	TypeText     ValueType = "text"
	TypeDateTime ValueType = "datetime"
	TypeBoolean  ValueType = "boolean"
)

// String returns the string representation
func (vt ValueType) String() string {
	return string(vt)
}

// IsNumeric reports whether the type participates in numeric statistics
func (vt ValueType) IsNumeric() bool {
	return vt == TypeInteger || vt == TypeFloat
}

// Value represents a single typed cell. Exactly one payload pointer is set
// for a present value; Missing marks a Null cell with no payload. The
// column, not the cell, carries the semantic type. Integer and Float use
// separate fields so integers survive export without float round-off.
type Value struct {
	IntVal    *int64
	FloatVal  *float64
	StringVal *string
	BoolVal   *bool
	TimeVal   *time.Time
	Missing   bool
}

// Null creates a missing value
func Null() Value {
	return Value{Missing: true}
}

// Int creates an integer value
func Int(v int64) Value {
	return Value{IntVal: &v}
}

// Float creates a float value
func Float(v float64) Value {
	return Value{FloatVal: &v}
}

// Text creates a text value; empty strings are treated as missing
func Text(s string) Value {
	if s == "" {
		return Null()
	}
	return Value{StringVal: &s}
}

// Bool creates a boolean value
func Bool(b bool) Value {
	return Value{BoolVal: &b}
}

// Time creates a datetime value
func Time(t time.Time) Value {
	return Value{TimeVal: &t}
}

// IsNull reports whether the cell is missing
func (v Value) IsNull() bool {
	return v.Missing
}

// AsFloat returns the numeric payload, widening integers
func (v Value) AsFloat() (float64, bool) {
	switch {
	case v.Missing:
		return 0, false
	case v.FloatVal != nil:
		return *v.FloatVal, true
	case v.IntVal != nil:
		return float64(*v.IntVal), true
	}
	return 0, false
}

// AsInt returns the integer payload
func (v Value) AsInt() (int64, bool) {
	if v.Missing || v.IntVal == nil {
		return 0, false
	}
	return *v.IntVal, true
}

// AsString returns the text payload
func (v Value) AsString() (string, bool) {
	if v.Missing || v.StringVal == nil {
		return "", false
	}
	return *v.StringVal, true
}

// AsBool returns the boolean payload
func (v Value) AsBool() (bool, bool) {
	if v.Missing || v.BoolVal == nil {
		return false, false
	}
	return *v.BoolVal, true
}

// AsTime returns the datetime payload
func (v Value) AsTime() (time.Time, bool) {
	if v.Missing || v.TimeVal == nil {
		return time.Time{}, false
	}
	return *v.TimeVal, true
}

// Render returns the stable textual form of the value: empty string for
// Null, lossless decimal forms for Integer and Float, RFC3339 for DateTime,
// true/false for Boolean. Categorical matching and CSV export both use this
// form, so the two always agree.
func (v Value) Render() string {
	switch {
	case v.Missing:
		return ""
	case v.IntVal != nil:
		return strconv.FormatInt(*v.IntVal, 10)
	case v.FloatVal != nil:
		return strconv.FormatFloat(*v.FloatVal, 'g', -1, 64)
	case v.BoolVal != nil:
		return strconv.FormatBool(*v.BoolVal)
	case v.TimeVal != nil:
		return v.TimeVal.Format(time.RFC3339)
	case v.StringVal != nil:
		return *v.StringVal
	}
	return ""
}
