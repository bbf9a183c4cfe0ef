package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateTimeLayout is the canonical, sortable text form of Transaction.DateTime
// (ISO-8601 without a zone offset).
const DateTimeLayout = "2006-01-02T15:04:05"

// MonthLayout formats the month bucket used by filters.
const MonthLayout = "2006-01"

// DefaultCategory is assigned when a row carries no tag.
const DefaultCategory = "Uncategorized"

// Transaction is one normalized passbook row.
type Transaction struct {
	ID          string // uuid, assigned once at normalization
	DateTime    time.Time
	Account     string
	Amount      decimal.Decimal // sign follows the source export
	Description string
	UPIRef      string // dedup key
	OrderID     string
	Remarks     string
	Category    string
	Comment     string
}

// Month returns the "YYYY-MM" bucket of the transaction.
func (t Transaction) Month() string {
	return t.DateTime.Format(MonthLayout)
}

// FormatDateTime renders the canonical datetime text.
func (t Transaction) FormatDateTime() string {
	return t.DateTime.Format(DateTimeLayout)
}

// ParseDateTime parses the canonical datetime text.
func ParseDateTime(s string) (time.Time, error) {
	return time.Parse(DateTimeLayout, s)
}
