package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// PassbookSheet is the worksheet name used by passbook Excel exports.
const PassbookSheet = "Passbook Payment History"

// XLSXReader reads one named worksheet of an Excel workbook. The first row
// of the sheet is the header.
type XLSXReader struct {
	Sheet string
}

// Format returns the reader name.
func (x *XLSXReader) Format() string { return "xlsx" }

// Read parses the workbook and returns the configured sheet as a Table.
// Cell values are the formatted text shown by Excel.
func (x *XLSXReader) Read(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheet := x.Sheet
	if sheet == "" {
		sheet = PassbookSheet
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return tableFromRecords(rows), nil
}
