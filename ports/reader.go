package ports

import (
	"context"
	"io"

	"gosift/domain/table"
)

// TableReader parses one input format into a typed table.
// Implementations must yield a valid empty table for inputs that carry
// headers but no data rows.
type TableReader interface {
	Read(src io.Reader) (*table.Table, error)
}

// TableSource loads tabular data from a backing store for profiling.
// Sources are read-only; nothing in the pipeline writes back.
type TableSource interface {
	Query(ctx context.Context, query string, args ...interface{}) (*table.Table, error)
}
