package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	// DatasetToken identifies one loaded dataset for caching purposes.
	// Two loads with the same token are the same dataset; a token change
	// invalidates every cached derivation.
	DatasetToken string

	// ExportID tags a generated export artifact.
	ExportID ID
)

// NewDatasetToken derives the identity token from the source name. The token
// is the normalized name itself: the session cache is keyed by source name,
// so equal names mean the same dataset even if the bytes differ.
func NewDatasetToken(sourceName string) (DatasetToken, error) {
	name := strings.TrimSpace(sourceName)
	if name == "" {
		return "", fmt.Errorf("dataset source name cannot be empty")
	}
	return DatasetToken(name), nil
}

// NewExportID creates a fresh export artifact identifier.
func NewExportID() ExportID {
	return ExportID(NewID())
}

// String conversions for domain IDs
func (t DatasetToken) String() string { return string(t) }
func (id ExportID) String() string    { return ID(id).String() }

// ParseDatasetToken parses a string into a DatasetToken
func ParseDatasetToken(s string) (DatasetToken, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("dataset token cannot be empty")
	}
	return DatasetToken(s), nil
}
