package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budgetviz/budgetviz/internal/model"
)

// sourceDateTimeLayout matches "DD/MM/YYYY HH:MM:SS".
const sourceDateTimeLayout = "02/01/2006 15:04:05"

// absentText stands in for a missing required text cell.
const absentText = "None"

// RowError describes why a single row was dropped.
type RowError struct {
	Line   int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d [%s]: %v", e.Line, e.Column, e.Err)
}

func (e *RowError) Unwrap() []error {
	return []error{ErrRowNormalization, e.Err}
}

// Normalizer converts schema-valid rows into transactions.
type Normalizer struct {
	DefaultCategory string
	NewID           func() string

	// OnAbsent, when set, is called for each required text column that was
	// absent and replaced with placeholder text.
	OnAbsent func(line int, column string)
}

// NewNormalizer returns a Normalizer with uuid ids and the given default category.
func NewNormalizer(defaultCategory string) *Normalizer {
	if defaultCategory == "" {
		defaultCategory = model.DefaultCategory
	}
	return &Normalizer{DefaultCategory: defaultCategory, NewID: uuid.NewString}
}

// Normalize converts one row. The error, if any, is a *RowError.
func (n *Normalizer) Normalize(row Row) (model.Transaction, error) {
	when, err := ParseDateTime(cell(row, ColDate), cell(row, ColTime))
	if err != nil {
		return model.Transaction{}, &RowError{Line: row.Line, Column: ColDate, Err: err}
	}

	raw, _ := row.Get(ColAmount)
	amount, err := ParseAmount(raw)
	if err != nil {
		return model.Transaction{}, &RowError{Line: row.Line, Column: ColAmount, Err: err}
	}

	newID := n.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	category := n.DefaultCategory
	if category == "" {
		category = model.DefaultCategory
	}

	return model.Transaction{
		ID:          newID(),
		DateTime:    when,
		Account:     n.requiredText(row, ColAccount),
		Amount:      amount,
		Description: n.requiredText(row, ColDetails),
		UPIRef:      n.requiredText(row, ColUPIRef),
		OrderID:     optionalText(row, ColOrderID, ""),
		Remarks:     optionalText(row, ColRemarks, ""),
		Category:    optionalText(row, ColTags, category),
		Comment:     optionalText(row, ColComment, ""),
	}, nil
}

// ParseDateTime joins the date and time cells with a space and parses them
// as "DD/MM/YYYY HH:MM:SS" (24-hour, zero-padded).
func ParseDateTime(date, clock string) (time.Time, error) {
	joined := strings.TrimSpace(date) + " " + strings.TrimSpace(clock)
	t, err := time.Parse(sourceDateTimeLayout, joined)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing datetime %q: %w", joined, err)
	}
	return t, nil
}

// ParseAmount strips thousands separators and surrounding whitespace, then
// parses a signed decimal.
func ParseAmount(raw string) (decimal.Decimal, error) {
	cleaned := stripAmount(raw)
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: empty", raw)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	return d, nil
}

func stripAmount(raw string) string {
	return strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
}

func (n *Normalizer) requiredText(row Row, col string) string {
	v, ok := row.Get(col)
	if !ok {
		if n.OnAbsent != nil {
			n.OnAbsent(row.Line, col)
		}
		return absentText
	}
	return v
}

func optionalText(row Row, col, def string) string {
	if v, ok := row.Get(col); ok {
		return v
	}
	return def
}

func cell(row Row, col string) string {
	v, _ := row.Get(col)
	return v
}
