package delimited

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"gosift/domain/table"
)

// Writer renders tables back to delimited text.
type Writer struct{}

// NewWriter creates a new delimited writer
func NewWriter() *Writer {
	return &Writer{}
}

// Write streams t to dst as CSV. The header carries the column names and
// every cell is the value's textual form, with null cells written blank.
// Integer, float, and text cells survive a write-then-read round trip
// unchanged; datetime and boolean cells keep a stable textual form.
func (w *Writer) Write(dst io.Writer, t *table.Table) error {
	if t.NumCols() == 0 {
		return nil
	}

	out := csv.NewWriter(dst)
	if err := out.Write(t.Names()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	record := make([]string, t.NumCols())
	for row := 0; row < t.NumRows(); row++ {
		for col := 0; col < t.NumCols(); col++ {
			record[col] = t.ColumnAt(col).Values[row].Render()
		}
		if err := out.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	out.Flush()
	return out.Error()
}

// Bytes renders t as CSV held in memory.
func (w *Writer) Bytes(t *table.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.Write(&buf, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
