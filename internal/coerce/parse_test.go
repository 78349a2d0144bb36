package coerce

import (
	"testing"
	"time"
)

func TestParseNumeric(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{"42", 42, true},
		{"-3.5", -3.5, true},
		{"1e5", 100000, true},
		{"  7.25  ", 7.25, true},
		{"0", 0, true},
		{"", 0, false},
		{"abc", 0, false},
		{"12x", 0, false},
		{"Inf", 0, false},
		{"-Inf", 0, false},
		{"NaN", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseNumeric(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseNumeric(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseNumeric(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseInteger(t *testing.T) {
	tests := []struct {
		input string
		want  int64
		ok    bool
	}{
		{"42", 42, true},
		{"-17", -17, true},
		{" 8 ", 8, true},
		{"3.5", 0, false},
		{"1e3", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseInteger(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseInteger(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseInteger(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseBoolean(t *testing.T) {
	tests := []struct {
		input string
		want  bool
		ok    bool
	}{
		{"true", true, true},
		{"TRUE", true, true},
		{"True", true, true},
		{"false", false, true},
		{"False", false, true},
		{" false ", false, true},
		{"1", false, false},
		{"0", false, false},
		{"yes", false, false},
		{"no", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseBoolean(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseBoolean(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("ParseBoolean(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
		ok    bool
	}{
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"2024-03-15T10:30:00Z", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"2024-03-15 10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), true},
		{"03/15/2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"2024/03/15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"15-Mar-2024", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), true},
		{"not a date", time.Time{}, false},
		{"1700000000", time.Time{}, false},
		{"", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseTimestamp(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
