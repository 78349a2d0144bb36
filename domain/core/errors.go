package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound        = errors.New("resource not found")
	ErrDatasetNotFound = fmt.Errorf("%w: dataset", ErrNotFound)
	ErrColumnNotFound  = fmt.Errorf("%w: column", ErrNotFound)

	// Load errors
	ErrParse       = errors.New("input could not be parsed")
	ErrEmptyHeader = fmt.Errorf("%w: header row is empty", ErrParse)

	// Filter errors
	ErrNotNumeric        = errors.New("column is not numeric")
	ErrNotCategorical    = errors.New("column is not categorical")
	ErrConstantColumn    = errors.New("column is constant")
	ErrInvertedBounds    = errors.New("range lower bound exceeds upper bound")
	ErrUnknownFilterKind = errors.New("unknown filter kind")
)

// Error constructors with context
func NewNotFoundError(resource string, name string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, resource, name)
}

func NewParseError(detail string, cause error) error {
	if cause != nil {
		return fmt.Errorf("%w: %s: %v", ErrParse, detail, cause)
	}
	return fmt.Errorf("%w: %s", ErrParse, detail)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsParseError(err error) bool {
	return errors.Is(err, ErrParse)
}
