package analytics

import (
	"github.com/dvloznov/wealthsense/internal/domain"
	"github.com/shopspring/decimal"
)

// The zero-income conventions differ per ratio on purpose: retention and
// digital share report 0, burn rate divides by 1. Displays built on the
// earlier app depend on both behaviours.

// percent returns round(num / den * 100), rounding halves away from zero.
// den must be non-zero.
func percent(num, den decimal.Decimal) int {
	return int(num.Mul(hundred).Div(den).Round(0).IntPart())
}

// RetentionRate is max(0, round(net / income * 100)), or 0 without income.
func RetentionRate(txs []domain.Transaction) int {
	income := totalByType(txs, domain.TypeIncome)
	if income.IsZero() {
		return 0
	}
	return max(0, percent(netBalance(txs), income))
}

// DigitalPaymentShare is the rounded share of records paid over UPI.
func DigitalPaymentShare(txs []domain.Transaction) int {
	if len(txs) == 0 {
		return 0
	}
	upi := decimal.NewFromInt(int64(PaymentModeCount(txs, domain.ModeUPI)))
	return percent(upi, decimal.NewFromInt(int64(len(txs))))
}

// BurnRate is round(expense / income * 100) with a zero income treated as 1.
func BurnRate(txs []domain.Transaction) int {
	return percent(totalByType(txs, domain.TypeExpense), incomeOrOne(txs))
}

// LiquidityGauge is the savings bar width: net / income * 100 clamped to
// [5, 100], again treating zero income as 1. It is not rounded.
func LiquidityGauge(txs []domain.Transaction) float64 {
	ratio := netBalance(txs).Mul(hundred).Div(incomeOrOne(txs)).InexactFloat64()
	return min(max(ratio, 5), 100)
}

func incomeOrOne(txs []domain.Transaction) decimal.Decimal {
	income := totalByType(txs, domain.TypeIncome)
	if income.IsZero() {
		return decimal.NewFromInt(1)
	}
	return income
}
