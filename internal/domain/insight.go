package domain

import "fmt"

// RiskLevel is the coach's assessment of financial stability.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// RiskLevels lists the accepted values in ascending order.
var RiskLevels = []RiskLevel{RiskLow, RiskMedium, RiskHigh}

// ParseRiskLevel accepts exactly "Low", "Medium" or "High".
func ParseRiskLevel(s string) (RiskLevel, error) {
	for _, r := range RiskLevels {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("invalid risk level %q", s)
}

// SpendingInsight is coaching text derived from the transaction history.
// It lives in memory only and is replaced on every successful fetch.
type SpendingInsight struct {
	Summary     string    `json:"summary"`
	Suggestions []string  `json:"suggestions"`
	RiskLevel   RiskLevel `json:"riskLevel"`
}
