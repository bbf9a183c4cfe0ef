package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func importedProject(t *testing.T) string {
	t.Helper()
	dir := newProject(t)
	stageImport(t, dir)
	_, _, err := runBudgetviz(t, dir, "import")
	require.NoError(t, err)
	return dir
}

func TestList_All(t *testing.T) {
	dir := importedProject(t)

	out, _, err := runBudgetviz(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03-01T14:30:00")
	assert.Contains(t, out, "-1250.50")
	assert.Contains(t, out, "50000.00")
	assert.Contains(t, out, "3 of 3 transactions")
}

func TestList_Filtered(t *testing.T) {
	dir := importedProject(t)

	out, _, err := runBudgetviz(t, dir, "list", "--month", "2024-03")
	require.NoError(t, err)
	assert.Contains(t, out, "Coffee Shop")
	assert.Contains(t, out, "Paid to Grocer")
	assert.NotContains(t, out, "Salary")
	assert.Contains(t, out, "2 of 3 transactions")

	out, _, err = runBudgetviz(t, dir, "list", "--month", "2024-03", "--category", "Food")
	require.NoError(t, err)
	assert.Contains(t, out, "Coffee Shop")
	assert.Contains(t, out, "1 of 3 transactions")
}

func TestFilters(t *testing.T) {
	dir := importedProject(t)

	out, _, err := runBudgetviz(t, dir, "filters")
	require.NoError(t, err)
	assert.Contains(t, out, "Months: All, 2024-03, 2024-04")
	assert.Contains(t, out, "Categories: All, Food, Groceries, Uncategorized")
}

func TestSummary(t *testing.T) {
	dir := importedProject(t)

	out, _, err := runBudgetviz(t, dir, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "150.00")
	assert.Contains(t, out, "-1250.50")
	assert.Contains(t, out, "48899.50")

	out, _, err = runBudgetviz(t, dir, "summary", "--month", "2024-04")
	require.NoError(t, err)
	assert.NotContains(t, out, "Food")
	assert.Contains(t, out, "50000.00")
}

func TestHistory(t *testing.T) {
	dir := newProject(t)

	out, _, err := runBudgetviz(t, dir, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No imports yet.")

	stageImport(t, dir)
	_, _, err = runBudgetviz(t, dir, "import")
	require.NoError(t, err)

	out, _, err = runBudgetviz(t, dir, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "upi_passbook.csv")
	assert.Contains(t, out, "imported")
}

func TestList_SkipsUnreadableStoredRecords(t *testing.T) {
	dir := newProject(t)
	doc := `{"transactions": {
		"1": {"id": "a", "datetime": "2024-03-01T10:00:00", "account": "nan", "amount": NaN,
		      "description": "nan", "upi_ref": "R1", "category": "nan"},
		"2": {"id": "b", "datetime": "2024-03-02T10:00:00", "account": "1", "amount": 20,
		      "description": "Lunch", "upi_ref": "R2", "category": "Food"}
	}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "data", "db.json"), []byte(doc), 0o644))

	out, stderr, err := runBudgetviz(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Lunch")
	assert.Contains(t, out, "1 of 1 transactions")
	assert.Contains(t, stderr, "skipping unreadable stored record")
}
