package importer

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/budgetviz/budgetviz/internal/model"
)

func passbookRow(values ...string) Row {
	return NewRow(2, RequiredColumns, values)
}

func fixedIDs(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func TestNormalize_FullRow(t *testing.T) {
	n := NewNormalizer("")
	n.NewID = fixedIDs("id-1")

	txn, err := n.Normalize(passbookRow(
		"02/03/2024", "09:05:12", "Paid to Grocer", "1234", " -1,250.50 ",
		"REF002", "ORD77", "weekly", "Groceries", "split",
	))
	require.NoError(t, err)

	assert.Equal(t, "id-1", txn.ID)
	assert.Equal(t, time.Date(2024, 3, 2, 9, 5, 12, 0, time.UTC), txn.DateTime)
	assert.Equal(t, "1234", txn.Account)
	assert.Equal(t, "-1250.50", txn.Amount.StringFixed(2))
	assert.Equal(t, "Paid to Grocer", txn.Description)
	assert.Equal(t, "REF002", txn.UPIRef)
	assert.Equal(t, "ORD77", txn.OrderID)
	assert.Equal(t, "weekly", txn.Remarks)
	assert.Equal(t, "Groceries", txn.Category)
	assert.Equal(t, "split", txn.Comment)
}

func TestNormalize_OptionalDefaults(t *testing.T) {
	n := NewNormalizer("")
	txn, err := n.Normalize(passbookRow("01/03/2024", "14:30:00", "Coffee", "1234", "150.00", "REF001"))
	require.NoError(t, err)

	assert.Equal(t, "", txn.OrderID)
	assert.Equal(t, "", txn.Remarks)
	assert.Equal(t, model.DefaultCategory, txn.Category)
	assert.Equal(t, "", txn.Comment)
}

func TestNormalize_ConfiguredDefaultCategory(t *testing.T) {
	n := NewNormalizer("Misc")
	txn, err := n.Normalize(passbookRow("01/03/2024", "14:30:00", "Coffee", "1234", "150.00", "REF001"))
	require.NoError(t, err)
	assert.Equal(t, "Misc", txn.Category)
}

func TestNormalize_AbsentRequiredTextIsPlaceholder(t *testing.T) {
	var flagged []string
	n := NewNormalizer("")
	n.OnAbsent = func(line int, column string) {
		assert.Equal(t, 2, line)
		flagged = append(flagged, column)
	}

	txn, err := n.Normalize(passbookRow("01/03/2024", "14:30:00", "", "", "150.00", ""))
	require.NoError(t, err)

	assert.Equal(t, absentText, txn.Account)
	assert.Equal(t, absentText, txn.Description)
	assert.Equal(t, absentText, txn.UPIRef)
	assert.ElementsMatch(t, []string{ColAccount, ColDetails, ColUPIRef}, flagged)
}

func TestNormalize_UniqueIDs(t *testing.T) {
	n := NewNormalizer("")
	row := passbookRow("01/03/2024", "14:30:00", "Coffee", "1234", "150.00", "REF001")

	a, err := n.Normalize(row)
	require.NoError(t, err)
	b, err := n.Normalize(row)
	require.NoError(t, err)

	assert.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID, "ids are never derived from content")
}

func TestNormalize_BadDate(t *testing.T) {
	tests := []struct{ date, clock string }{
		{"2024-03-01", "14:30:00"},
		{"31/02/2024", "14:30:00"},
		{"01/03/2024", "2:30 PM"},
		{"01/03/2024", ""},
		{"", "14:30:00"},
		{"1/3/2024", "14:30:00"},
	}
	n := NewNormalizer("")
	for _, tt := range tests {
		_, err := n.Normalize(passbookRow(tt.date, tt.clock, "x", "1", "1.00", "R"))
		require.Error(t, err, "date %q time %q", tt.date, tt.clock)
		assert.ErrorIs(t, err, ErrRowNormalization)

		var rowErr *RowError
		require.True(t, errors.As(err, &rowErr))
		assert.Equal(t, ColDate, rowErr.Column)
		assert.Equal(t, 2, rowErr.Line)
	}
}

func TestNormalize_BadAmount(t *testing.T) {
	n := NewNormalizer("")
	for _, amount := range []string{"N/A", "", "  ", "12.3.4", "₹100"} {
		_, err := n.Normalize(passbookRow("01/03/2024", "14:30:00", "x", "1", amount, "R"))
		require.Error(t, err, "amount %q", amount)
		assert.ErrorIs(t, err, ErrRowNormalization)
		assert.Contains(t, err.Error(), "parsing amount")
	}
}

func TestParseDateTime_RoundTrip(t *testing.T) {
	inputs := [][2]string{
		{"01/03/2024", "14:30:00"},
		{"29/02/2024", "00:00:00"},
		{"31/12/1999", "23:59:59"},
		{" 15/08/2023 ", " 07:08:09 "},
	}
	for _, in := range inputs {
		when, err := ParseDateTime(in[0], in[1])
		require.NoError(t, err)

		txn := model.Transaction{DateTime: when}
		back, err := model.ParseDateTime(txn.FormatDateTime())
		require.NoError(t, err)
		assert.True(t, back.Equal(when), "round trip of %v", in)
		assert.Equal(t, when.Format("02/01/2006 15:04:05"), back.Format("02/01/2006 15:04:05"))
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"150.00", "150"},
		{"1,250.50", "1250.5"},
		{" -50,000 ", "-50000"},
		{"1,00,000.25", "100000.25"},
		{"+7", "7"},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "%q -> %s", tt.raw, got)
	}
}

func TestParseAmount_StripIsIdempotent(t *testing.T) {
	for _, raw := range []string{"1,250.50", " 9,99,999 ", "-0.5", "1,,2"} {
		once := stripAmount(raw)
		assert.Equal(t, once, stripAmount(once))

		a, errA := ParseAmount(raw)
		b, errB := ParseAmount(once)
		require.NoError(t, errA)
		require.NoError(t, errB)
		assert.True(t, a.Equal(b))
	}
}

func TestRowError_Error(t *testing.T) {
	err := &RowError{Line: 7, Column: ColAmount, Err: errors.New("boom")}
	assert.Equal(t, "line 7 [Amount]: boom", err.Error())
}
