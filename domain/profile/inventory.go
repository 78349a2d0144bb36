package profile

import (
	"gosift/domain/table"
)

// ColumnInfo describes one column for the inventory output: its name, its
// inferred type, how many values are present, and one example value in its
// stable textual form. Example is empty for an all-null column.
type ColumnInfo struct {
	Name    string          `json:"name"`
	Type    table.ValueType `json:"type"`
	NonNull int             `json:"non_null"`
	Example string          `json:"example"`
}

// Inventory summarizes every column of the table in source order.
func Inventory(t *table.Table) []ColumnInfo {
	infos := make([]ColumnInfo, 0, t.NumCols())
	for i := 0; i < t.NumCols(); i++ {
		col := t.ColumnAt(i)
		info := ColumnInfo{
			Name:    col.Name,
			Type:    col.Type,
			NonNull: col.NonNullCount(),
		}
		if ex, ok := col.Example(); ok {
			info.Example = ex.Render()
		}
		infos = append(infos, info)
	}
	return infos
}
