package table

// Classify partitions the table's columns into numeric and categorical
// groups for downstream use. Numeric means Integer or Float; Text, DateTime
// and Boolean columns are all categorical for filtering and breakdown
// purposes. Both groups preserve source column order. Classification depends
// only on column types, so filtering never moves a column between groups.
func Classify(t *Table) (numeric, categorical []string) {
	for i := 0; i < t.NumCols(); i++ {
		col := t.ColumnAt(i)
		if col.Type.IsNumeric() {
			numeric = append(numeric, col.Name)
		} else {
			categorical = append(categorical, col.Name)
		}
	}
	return numeric, categorical
}
