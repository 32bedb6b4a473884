package analytics

import "github.com/dvloznov/wealthsense/internal/domain"

// Summary carries every number the dashboard and profile screens show.
type Summary struct {
	TotalIncome         float64         `json:"totalIncome"`
	TotalExpense        float64         `json:"totalExpense"`
	NetBalance          float64         `json:"netBalance"`
	Categories          Breakdown       `json:"categories"`
	TopIncomeCategory   domain.Category `json:"topIncomeCategory,omitempty"`
	RetentionRate       int             `json:"retentionRate"`
	DigitalPaymentShare int             `json:"digitalPaymentShare"`
	BurnRate            int             `json:"burnRate"`
	LiquidityGauge      float64         `json:"liquidityGauge"`
	TransactionCount    int             `json:"transactionCount"`
	UPICount            int             `json:"upiCount"`
}

// Summarize computes a Summary. It is recomputed on every read; nothing
// here is cached or persisted.
func Summarize(txs []domain.Transaction) Summary {
	top, _ := TopIncomeCategory(txs)
	return Summary{
		TotalIncome:         TotalByType(txs, domain.TypeIncome),
		TotalExpense:        TotalByType(txs, domain.TypeExpense),
		NetBalance:          NetBalance(txs),
		Categories:          CategoryBreakdown(txs),
		TopIncomeCategory:   top,
		RetentionRate:       RetentionRate(txs),
		DigitalPaymentShare: DigitalPaymentShare(txs),
		BurnRate:            BurnRate(txs),
		LiquidityGauge:      LiquidityGauge(txs),
		TransactionCount:    len(txs),
		UPICount:            PaymentModeCount(txs, domain.ModeUPI),
	}
}
