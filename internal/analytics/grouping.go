package analytics

import (
	"sort"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/wealthsense/internal/domain"
	"github.com/shopspring/decimal"
)

// CategoryAmount is the expense total for one category.
type CategoryAmount struct {
	Category domain.Category `json:"category"`
	Amount   float64         `json:"amount"`
}

// Breakdown lists expense totals in first-occurrence order.
type Breakdown []CategoryAmount

// Map returns the breakdown keyed by category.
func (b Breakdown) Map() map[domain.Category]float64 {
	m := make(map[domain.Category]float64, len(b))
	for _, c := range b {
		m[c.Category] = c.Amount
	}
	return m
}

// Sorted returns a copy ordered by amount, largest first. Equal amounts
// keep their relative order.
func (b Breakdown) Sorted() Breakdown {
	out := append(Breakdown(nil), b...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	return out
}

// Total sums the breakdown.
func (b Breakdown) Total() float64 {
	total := decimal.Zero
	for _, c := range b {
		total = total.Add(decimal.NewFromFloat(c.Amount))
	}
	return total.InexactFloat64()
}

// CategoryBreakdown sums Expense amounts per category. Income is ignored
// and categories without expense never appear.
func CategoryBreakdown(txs []domain.Transaction) Breakdown {
	var order []domain.Category
	sums := make(map[domain.Category]decimal.Decimal)
	for _, tx := range txs {
		if tx.Type != domain.TypeExpense {
			continue
		}
		cur, seen := sums[tx.Category]
		if !seen {
			order = append(order, tx.Category)
		}
		sums[tx.Category] = cur.Add(decimal.NewFromFloat(tx.Amount))
	}

	out := make(Breakdown, 0, len(order))
	for _, c := range order {
		if !sums[c].IsPositive() {
			continue
		}
		out = append(out, CategoryAmount{Category: c, Amount: sums[c].InexactFloat64()})
	}
	return out
}

// GroupByDate partitions txs by date. Each group keeps the relative order
// the records had in txs.
func GroupByDate(txs []domain.Transaction) map[civil.Date][]domain.Transaction {
	groups := make(map[civil.Date][]domain.Transaction)
	for _, tx := range txs {
		groups[tx.Date] = append(groups[tx.Date], tx)
	}
	return groups
}

// SortedDatesDescending returns each distinct date once, most recent first.
func SortedDatesDescending(txs []domain.Transaction) []civil.Date {
	seen := make(map[civil.Date]struct{})
	dates := make([]civil.Date, 0)
	for _, tx := range txs {
		if _, ok := seen[tx.Date]; ok {
			continue
		}
		seen[tx.Date] = struct{}{}
		dates = append(dates, tx.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].After(dates[j]) })
	return dates
}

// DayGroup is one section of the ledger view.
type DayGroup struct {
	Date         civil.Date           `json:"date"`
	Transactions []domain.Transaction `json:"transactions"`
}

// Ledger combines GroupByDate and SortedDatesDescending into the ordered
// list the transaction history screen renders.
func Ledger(txs []domain.Transaction) []DayGroup {
	groups := GroupByDate(txs)
	dates := SortedDatesDescending(txs)
	out := make([]DayGroup, 0, len(dates))
	for _, d := range dates {
		out = append(out, DayGroup{Date: d, Transactions: groups[d]})
	}
	return out
}
