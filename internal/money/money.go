// Package money holds the small set of helpers shared by everything that
// renders or divides currency amounts.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Format renders an amount as dollars with two decimals, e.g. "$70.00".
func Format(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}

	return "$" + d.StringFixed(2)
}

// Percent returns part/whole*100. A zero whole yields 0 rather than a division error.
func Percent(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}

	return part.Div(whole).Mul(hundred).InexactFloat64()
}
