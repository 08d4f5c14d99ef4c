package importer

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = strings.NewReplacer("$", "", "€", "", "£", "", " ", "", " ", "")

// parseAmount reads "1,234.56" style amounts, or "1.234,56" when decimalComma
// is set. Currency symbols and spaces are ignored.
func parseAmount(s string, decimalComma bool) (decimal.Decimal, error) {
	clean := currencySymbols.Replace(s)

	if decimalComma {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	return decimal.NewFromString(clean)
}
