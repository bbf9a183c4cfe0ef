// Package query filters and summarizes stored transactions for display.
package query

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/budgetviz/budgetviz/internal/model"
)

// All matches every month or category.
const All = "All"

// Filter selects transactions by month ("YYYY-MM") and category.
// An empty value or All matches everything.
type Filter struct {
	Month    string
	Category string
}

// Match reports whether t passes the filter.
func (f Filter) Match(t model.Transaction) bool {
	if !isAll(f.Month) && t.Month() != f.Month {
		return false
	}
	if !isAll(f.Category) && t.Category != f.Category {
		return false
	}
	return true
}

// Apply returns the transactions passing f, keeping their order.
func Apply(txns []model.Transaction, f Filter) []model.Transaction {
	var out []model.Transaction
	for _, t := range txns {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Months returns the distinct months present, sorted ascending.
func Months(txns []model.Transaction) []string {
	return distinct(txns, model.Transaction.Month)
}

// Categories returns the distinct categories present, sorted ascending.
func Categories(txns []model.Transaction) []string {
	return distinct(txns, func(t model.Transaction) string { return t.Category })
}

// CategoryTotal is the summed amount of one category.
type CategoryTotal struct {
	Category string
	Count    int
	Total    decimal.Decimal
}

// Summarize totals amounts per category, sorted by category name.
func Summarize(txns []model.Transaction) []CategoryTotal {
	byCat := make(map[string]*CategoryTotal)
	for _, t := range txns {
		ct, ok := byCat[t.Category]
		if !ok {
			ct = &CategoryTotal{Category: t.Category}
			byCat[t.Category] = ct
		}
		ct.Count++
		ct.Total = ct.Total.Add(t.Amount)
	}

	out := make([]CategoryTotal, 0, len(byCat))
	for _, ct := range byCat {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func distinct(txns []model.Transaction, key func(model.Transaction) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range txns {
		k := key(t)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func isAll(v string) bool {
	return v == "" || v == All
}
