// Package format renders money amounts for prompts and terminal output.
package format

import (
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Amount renders v with the narrow currency symbol and locale digit
// grouping, at most two fraction digits. Rupee amounts use Indian grouping
// (1,00,000). An unrecognized code is printed as a prefix instead.
func Amount(currencyCode string, v float64) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	p := message.NewPrinter(localeFor(code))
	digits := p.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))

	unit, err := currency.ParseISO(code)
	if err != nil {
		if code == "" {
			return digits
		}
		return code + " " + digits
	}
	return p.Sprint(currency.NarrowSymbol(unit)) + digits
}

// Number renders v with locale grouping and no currency.
func Number(currencyCode string, v float64) string {
	p := message.NewPrinter(localeFor(strings.ToUpper(strings.TrimSpace(currencyCode))))
	return p.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

func localeFor(code string) language.Tag {
	if code == "INR" {
		return language.MustParse("en-IN")
	}
	return language.English
}
