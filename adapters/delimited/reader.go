package delimited

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"gosift/domain/core"
	"gosift/domain/table"
	"gosift/internal"
	"gosift/internal/coerce"
)

// Reader parses delimited text into typed tables.
type Reader struct {
	logger *internal.Logger
}

// NewReader creates a new delimited reader
func NewReader() *Reader {
	return &Reader{logger: internal.DefaultLogger}
}

// Read parses CSV content from src. The first record is the header row;
// every later record becomes one table row. Structural problems such as
// ragged records or broken quoting surface as parse errors, while inputs
// with no data rows produce a valid empty table.
func (r *Reader) Read(src io.Reader) (*table.Table, error) {
	records, err := csv.NewReader(src).ReadAll()
	if err != nil {
		return nil, core.NewParseError("malformed delimited input", err)
	}

	t := FromGrid(records)
	r.logger.Debug("[Delimited] parsed %d columns, %d rows", t.NumCols(), t.NumRows())
	return t, nil
}

// ReadBytes parses CSV content held in memory.
func (r *Reader) ReadBytes(data []byte) (*table.Table, error) {
	return r.Read(bytes.NewReader(data))
}

// FromGrid converts raw string records into a typed table. Header cells
// are trimmed, blank headers are named positionally, and duplicate
// headers get a numeric suffix. Data rows shorter than the header are
// padded with empty cells and longer rows are truncated, so ragged grids
// from spreadsheet sources still convert.
func FromGrid(records [][]string) *table.Table {
	if len(records) == 0 {
		return table.MustNew(nil)
	}

	names := headerNames(records[0])
	cells := make([][]string, len(names))
	for i := range cells {
		cells[i] = make([]string, 0, len(records)-1)
	}
	for _, record := range records[1:] {
		for i := range names {
			cell := ""
			if i < len(record) {
				cell = strings.TrimSpace(record[i])
			}
			cells[i] = append(cells[i], cell)
		}
	}

	columns := make([]table.Column, len(names))
	for i, name := range names {
		columns[i] = typeColumn(name, cells[i])
	}
	return table.MustNew(columns)
}

func headerNames(header []string) []string {
	names := make([]string, len(header))
	for i, cell := range header {
		name := strings.TrimSpace(cell)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		names[i] = name
	}

	seen := make(map[string]bool, len(names))
	for i, name := range names {
		unique := name
		for suffix := 1; seen[unique]; suffix++ {
			unique = fmt.Sprintf("%s.%d", name, suffix)
		}
		seen[unique] = true
		names[i] = unique
	}
	return names
}

// typeColumn picks the narrowest type that fits every present cell.
// Integer applies only when no cell is blank, since a null cannot live
// in an integer column. Timestamps are left as text for the inference
// pass to upgrade.
func typeColumn(name string, cells []string) table.Column {
	present := 0
	integers := true
	numerics := true
	booleans := true
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		present++
		if _, ok := coerce.ParseInteger(cell); !ok {
			integers = false
		}
		if _, ok := coerce.ParseNumeric(cell); !ok {
			numerics = false
		}
		if _, ok := coerce.ParseBoolean(cell); !ok {
			booleans = false
		}
	}

	values := make([]table.Value, len(cells))
	switch {
	case present == 0:
		for i := range cells {
			values[i] = table.Null()
		}
		return table.Column{Name: name, Type: table.TypeText, Values: values}
	case integers && present == len(cells):
		for i, cell := range cells {
			n, _ := coerce.ParseInteger(cell)
			values[i] = table.Int(n)
		}
		return table.Column{Name: name, Type: table.TypeInteger, Values: values}
	case numerics:
		for i, cell := range cells {
			if cell == "" {
				values[i] = table.Null()
				continue
			}
			f, _ := coerce.ParseNumeric(cell)
			values[i] = table.Float(f)
		}
		return table.Column{Name: name, Type: table.TypeFloat, Values: values}
	case booleans:
		for i, cell := range cells {
			if cell == "" {
				values[i] = table.Null()
				continue
			}
			b, _ := coerce.ParseBoolean(cell)
			values[i] = table.Bool(b)
		}
		return table.Column{Name: name, Type: table.TypeBoolean, Values: values}
	default:
		for i, cell := range cells {
			values[i] = table.Text(cell)
		}
		return table.Column{Name: name, Type: table.TypeText, Values: values}
	}
}
