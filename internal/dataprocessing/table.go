package dataprocessing

// Row is a single parsed CSV record keyed by column name.
type Row map[string]string

// RowTable is an ordered sequence of uniform rows. The header defines the
// column set; every row holds exactly one value per header column.
type RowTable struct {
	Columns []string
	Rows    []Row
}

// HasColumn reports whether the table's header declares the given column.
func (t *RowTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// MissingColumns returns the subset of required columns absent from the
// header, preserving the order of the required list.
func (t *RowTable) MissingColumns(required []string) []string {
	var missing []string
	for _, c := range required {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Len returns the number of data rows.
func (t *RowTable) Len() int {
	return len(t.Rows)
}
