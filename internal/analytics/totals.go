package analytics

import (
	"github.com/dvloznov/wealthsense/internal/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

func sumWhere(txs []domain.Transaction, keep func(domain.Transaction) bool) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if keep(tx) {
			total = total.Add(decimal.NewFromFloat(tx.Amount))
		}
	}
	return total
}

func totalByType(txs []domain.Transaction, t domain.TransactionType) decimal.Decimal {
	return sumWhere(txs, func(tx domain.Transaction) bool { return tx.Type == t })
}

// TotalByType sums the amounts of every transaction of type t.
func TotalByType(txs []domain.Transaction, t domain.TransactionType) float64 {
	return totalByType(txs, t).InexactFloat64()
}

// NetBalance is total income minus total expense.
func NetBalance(txs []domain.Transaction) float64 {
	return netBalance(txs).InexactFloat64()
}

func netBalance(txs []domain.Transaction) decimal.Decimal {
	return totalByType(txs, domain.TypeIncome).Sub(totalByType(txs, domain.TypeExpense))
}

// PaymentModeCount counts transactions of any type settled with mode.
func PaymentModeCount(txs []domain.Transaction, mode domain.PaymentMode) int {
	n := 0
	for _, tx := range txs {
		if tx.PaymentMode == mode {
			n++
		}
	}
	return n
}

// TopIncomeCategory returns the category of the largest single Income
// record. On equal amounts the earliest record in txs wins. ok is false
// when there is no income at all.
func TopIncomeCategory(txs []domain.Transaction) (category domain.Category, ok bool) {
	var best float64
	for _, tx := range txs {
		if tx.Type != domain.TypeIncome {
			continue
		}
		if !ok || tx.Amount > best {
			best = tx.Amount
			category = tx.Category
			ok = true
		}
	}
	return category, ok
}
