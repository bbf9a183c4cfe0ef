package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

var errNoHeader = errors.New("no header row")

// CSVReader reads delimited passbook exports with a header row.
type CSVReader struct{}

// Format returns the reader name.
func (c *CSVReader) Format() string { return "csv" }

// Read parses CSV data. Ragged rows are accepted: short rows leave the
// trailing columns absent and extra fields are ignored. Row.Line is the
// physical line the record starts on. Input without a header row is an
// error.
func (c *CSVReader) Read(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var table *Table
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}

		if table == nil {
			rec[0] = strings.TrimPrefix(rec[0], utf8BOM)
			table = &Table{Columns: rec}
			continue
		}
		line, _ := cr.FieldPos(0)
		table.addRecord(line, rec)
	}

	if table == nil {
		return nil, fmt.Errorf("reading CSV: %w", errNoHeader)
	}
	return table, nil
}
