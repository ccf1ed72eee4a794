// Package money holds decimal helpers for prices and totals.
package money

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Prices are emitted as JSON numbers, matching the fixture format.
	decimal.MarshalJSONWithoutQuotes = true
}

var hundred = decimal.NewFromInt(100)

// New parses a price literal such as "3.49". It panics on malformed input and is meant for
// constants and tests.
func New(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Cents rounds to two decimal places.
func Cents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns amount * pct / 100.
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return amount.Mul(pct).Div(hundred)
}

// NonNegative floors d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Format renders d as dollars, e.g. "$4.50".
func Format(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Float converts to float64 for GraphQL Float fields.
func Float(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
