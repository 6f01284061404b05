// Package format renders amounts the way the dashboard displays them.
package format

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Currency formats d as dollars with thousands separators and two decimals,
// e.g. "$1,234.50" or "$-42.10".
func Currency(d decimal.Decimal) string {
	return "$" + humanize.FormatFloat("#,###.##", d.Round(2).InexactFloat64())
}

// CurrencyFloat is Currency for values that have already left decimal space.
func CurrencyFloat(f float64) string {
	return Currency(decimal.NewFromFloat(f))
}

// Percent formats a percentage with one decimal.
func Percent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// Compact formats whole amounts for chart axes, e.g. "12,345".
func Compact(f float64) string {
	return humanize.FormatFloat("#,###.", f)
}
