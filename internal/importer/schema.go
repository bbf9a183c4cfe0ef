package importer

import (
	"fmt"
	"strings"
)

// Passbook export column names.
const (
	ColDate    = "Date"
	ColTime    = "Time"
	ColDetails = "Transaction Details"
	ColAccount = "Your Account"
	ColAmount  = "Amount"
	ColUPIRef  = "UPI Ref No."
	ColOrderID = "Order ID"
	ColRemarks = "Remarks"
	ColTags    = "Tags"
	ColComment = "Comment"
)

// RequiredColumns lists every column a passbook export must carry.
var RequiredColumns = []string{
	ColDate, ColTime, ColDetails, ColAccount, ColAmount,
	ColUPIRef, ColOrderID, ColRemarks, ColTags, ColComment,
}

// ValidateColumns checks that all required columns are present. Extra
// columns are ignored. The error names every missing column.
func ValidateColumns(columns []string) error {
	have := make(map[string]bool, len(columns))
	for _, c := range columns {
		have[c] = true
	}

	var missing []string
	for _, c := range RequiredColumns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing columns %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return nil
}
