package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"gosift/adapters/delimited"
	"gosift/domain/table"
	"gosift/ports"
)

// tableSource implements the TableSource interface over PostgreSQL.
// Result cells are read in their textual form and run through the same
// column typing as file input, so a query behaves like loading the
// equivalent CSV.
type tableSource struct {
	db *sqlx.DB
}

// NewTableSource creates a new query-backed table source
func NewTableSource(db *sqlx.DB) ports.TableSource {
	return &tableSource{db: db}
}

// Connect opens a PostgreSQL pool and verifies the connection.
// The caller registers the driver.
func Connect(url string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Query runs a SELECT and converts the result set into a table.
// Statements that could write are rejected up front.
func (s *tableSource) Query(ctx context.Context, query string, args ...interface{}) (*table.Table, error) {
	if !isReadOnly(query) {
		return nil, fmt.Errorf("only SELECT queries are allowed, got: %.40s", strings.TrimSpace(query))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read column names: %w", err)
	}

	grid := [][]string{names}
	cells := make([]sql.NullString, len(names))
	scan := make([]interface{}, len(names))
	for i := range cells {
		scan[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		record := make([]string, len(names))
		for i, cell := range cells {
			if cell.Valid {
				record[i] = cell.String
			}
		}
		grid = append(grid, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return delimited.FromGrid(grid), nil
}

func isReadOnly(query string) bool {
	head := strings.ToLower(strings.TrimSpace(query))
	return strings.HasPrefix(head, "select") || strings.HasPrefix(head, "with")
}
