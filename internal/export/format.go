package export

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatAmount renders a rounded amount with thousands separators,
// followed by the currency when one is given.
func FormatAmount(d decimal.Decimal, currency string) string {
	s := printer.Sprintf("%d", d.Round(0).IntPart())
	if currency == "" {
		return s
	}
	return s + " " + currency
}

// FormatNumber renders v with thousands separators and the given decimals.
func FormatNumber(v float64, decimals int) string {
	return printer.Sprintf("%.*f", decimals, v)
}
