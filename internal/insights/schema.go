package insights

import (
	"github.com/dvloznov/wealthsense/internal/domain"
	"google.golang.org/genai"
)

// ResponseSchema is the structured-output constraint sent with every
// request.
func ResponseSchema() *genai.Schema {
	levels := make([]string, len(domain.RiskLevels))
	for i, l := range domain.RiskLevels {
		levels[i] = string(l)
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"summary": {
				Type:        genai.TypeString,
				Description: "A brief 2-sentence summary of the financial health.",
			},
			"suggestions": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "Three actionable financial tips.",
			},
			"riskLevel": {
				Type:        genai.TypeString,
				Enum:        levels,
				Description: "Financial stability risk level.",
			},
		},
		Required:         []string{"summary", "suggestions", "riskLevel"},
		PropertyOrdering: []string{"summary", "suggestions", "riskLevel"},
	}
}
