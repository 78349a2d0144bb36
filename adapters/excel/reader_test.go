package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gosift/domain/core"
	"gosift/domain/table"
)

func workbookBytes(t *testing.T, cells map[string]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	for cell, value := range cells {
		require.NoError(t, f.SetCellValue("Sheet1", cell, value))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestReadFirstSheet(t *testing.T) {
	data := workbookBytes(t, map[string]interface{}{
		"A1": "name", "B1": "qty",
		"A2": "alice", "B2": 3,
		"A3": "bob", "B3": 5,
	})

	tbl, err := NewReader().Read(bytes.NewReader(data))

	require.NoError(t, err)
	assert.Equal(t, []string{"name", "qty"}, tbl.Names())
	require.Equal(t, 2, tbl.NumRows())

	qty, err := tbl.Column("qty")
	require.NoError(t, err)
	assert.Equal(t, table.TypeInteger, qty.Type)
	n, ok := qty.Values[1].AsInt()
	require.True(t, ok)
	assert.Equal(t, int64(5), n)
}

func TestReadPadsTrailingBlankCells(t *testing.T) {
	data := workbookBytes(t, map[string]interface{}{
		"A1": "name", "B1": "qty",
		"A2": "alice",
	})

	tbl, err := NewReader().Read(bytes.NewReader(data))

	require.NoError(t, err)
	qty, err := tbl.Column("qty")
	require.NoError(t, err)
	require.Equal(t, 1, tbl.NumRows())
	assert.True(t, qty.Values[0].Missing)
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := NewReader().Read(bytes.NewReader([]byte("not a workbook")))

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrParse)
}

func TestReadFileMissingPath(t *testing.T) {
	_, err := NewReader().ReadFile("/nonexistent/sales.xlsx")

	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
