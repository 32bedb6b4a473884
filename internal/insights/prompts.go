package insights

import (
	"fmt"
	"strings"

	"github.com/dvloznov/wealthsense/internal/domain"
	"github.com/dvloznov/wealthsense/internal/format"
)

// Template is the fixed instruction text wrapped around the transaction
// lines. Every template asks for the same three-field answer.
type Template struct {
	Name         string
	Instructions string
}

// PersonalTemplate coaches a household on cash flow and savings.
var PersonalTemplate = Template{
	Name: domain.PersonalSetName,
	Instructions: "Analyze the following list of recent financial transactions (Incomes and Expenses) from an Indian user.\n" +
		"Provide coaching on their cash flow, savings potential, and spending habits.\n" +
		"Be encouraging but honest. Highlight any concerning trends and offer 3 actionable tips relevant to the Indian middle-class context.\n",
}

// ContractorTemplate coaches a small contractor on project margins.
var ContractorTemplate = Template{
	Name: domain.ContractorSetName,
	Instructions: "Analyze the following list of recent business transactions (Project Payments and Site Expenses) from an Indian contractor.\n" +
		"Provide coaching on project cash flow, labor and material costs, and working capital.\n" +
		"Be practical and direct. Highlight cost overruns or risky patterns and offer 3 actionable tips for a small construction business in India.\n",
}

// TemplateFor picks the wording that matches a category vocabulary.
// Unknown names get the personal wording.
func TemplateFor(categorySetName string) Template {
	if strings.EqualFold(strings.TrimSpace(categorySetName), domain.ContractorSetName) {
		return ContractorTemplate
	}
	return PersonalTemplate
}

// PromptOptions bounds and localizes the rendered prompt.
type PromptOptions struct {
	// Currency is the ISO code used to render amounts.
	Currency string
	// MaxLines caps the number of transaction lines. Zero means no cap.
	MaxLines int
}

// BuildPrompt renders one line per transaction in the given order and
// embeds them in the template. txs is expected newest first, so when the
// cap applies the newest lines are kept.
func BuildPrompt(t Template, txs []domain.Transaction, opts PromptOptions) string {
	shown := txs
	if opts.MaxLines > 0 && len(shown) > opts.MaxLines {
		shown = shown[:opts.MaxLines]
	}

	var b strings.Builder
	b.WriteString(t.Instructions)
	b.WriteString("\nReturn a short summary of their financial health, an ordered list of suggestions, ")
	b.WriteString("and a riskLevel that is exactly one of Low, Medium or High.\n")
	b.WriteString("\nTransactions:\n")

	for _, tx := range shown {
		b.WriteString(transactionLine(tx, opts.Currency))
		b.WriteByte('\n')
	}
	if omitted := len(txs) - len(shown); omitted > 0 {
		fmt.Fprintf(&b, "(%d older transactions omitted)\n", omitted)
	}
	return b.String()
}

// transactionLine renders "- date: [type] description (category) via mode - amount".
func transactionLine(tx domain.Transaction, currency string) string {
	return fmt.Sprintf("- %s: [%s] %s (%s) via %s - %s",
		tx.Date, tx.Type, tx.Description, tx.Category, tx.PaymentMode,
		format.Amount(currency, tx.Amount))
}
