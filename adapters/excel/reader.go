package excel

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"gosift/adapters/delimited"
	"gosift/domain/core"
	"gosift/domain/table"
	"gosift/internal"
)

// Reader loads workbook data into typed tables. Only the first sheet is
// read; cell values arrive as strings and go through the same column
// typing as delimited input.
type Reader struct {
	logger *internal.Logger
}

// NewReader creates a new workbook reader
func NewReader() *Reader {
	return &Reader{logger: internal.DefaultLogger}
}

// Read parses the first sheet of an xlsx workbook from src.
func (r *Reader) Read(src io.Reader) (*table.Table, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, core.NewParseError("failed to open workbook", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, core.NewParseError("workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, core.NewParseError(fmt.Sprintf("failed to read sheet %q", sheet), err)
	}

	t := delimited.FromGrid(rows)
	r.logger.Debug("[Excel] parsed sheet %q (%d columns, %d rows)", sheet, t.NumCols(), t.NumRows())
	return t, nil
}

// ReadFile parses the first sheet of the workbook at path.
func (r *Reader) ReadFile(path string) (*table.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.NewNotFoundError("dataset", path)
		}
		return nil, fmt.Errorf("failed to open workbook file: %w", err)
	}
	defer file.Close()

	return r.Read(file)
}
