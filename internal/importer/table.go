package importer

// Table is a loaded tabular dataset: a header plus rows keyed by column name.
type Table struct {
	Columns []string
	Rows    []Row
}

// Row is one data row. Cells that were empty or missing in the source are absent.
type Row struct {
	Line  int // 1-based source line (the header is line 1)
	cells map[string]string
}

// NewRow builds a row from header-aligned values. Empty values and values
// beyond len(values) are treated as absent; values beyond the header are dropped.
func NewRow(line int, columns, values []string) Row {
	cells := make(map[string]string, len(columns))
	for i, col := range columns {
		if i >= len(values) || values[i] == "" {
			continue
		}
		// First occurrence wins for duplicated headers.
		if _, ok := cells[col]; ok {
			continue
		}
		cells[col] = values[i]
	}
	return Row{Line: line, cells: cells}
}

// Get returns the raw cell value and whether it was present.
func (r Row) Get(col string) (string, bool) {
	v, ok := r.cells[col]
	return v, ok
}

// tableFromRecords treats records[0] as the header.
func tableFromRecords(records [][]string) *Table {
	if len(records) == 0 {
		return &Table{}
	}
	t := &Table{Columns: records[0]}
	for i, rec := range records[1:] {
		t.addRecord(i+2, rec)
	}
	return t
}

// addRecord appends a data record unless every field is empty.
func (t *Table) addRecord(line int, rec []string) {
	if isBlank(rec) {
		return
	}
	t.Rows = append(t.Rows, NewRow(line, t.Columns, rec))
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if v != "" {
			return false
		}
	}
	return true
}
