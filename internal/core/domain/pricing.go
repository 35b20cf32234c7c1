package domain

import (
	"math"
	"strconv"
)

// DefaultTaxRate is the VAT rate applied to quotes unless configured otherwise.
const DefaultTaxRate = 0.22

// Totals is the derived price breakdown of a list of quote items.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	Tax        float64 `json:"tax"`
	GrandTotal float64 `json:"grandTotal"`
}

// Price computes subtotal, tax and grand total from scratch. Sums are kept
// unrounded; rounding happens only in FormatAmount.
func Price(items []QuoteItem, taxRate float64) Totals {
	var subtotal float64
	for _, item := range items {
		subtotal += item.LineTotal()
	}
	tax := subtotal * taxRate
	return Totals{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal + tax,
	}
}

// FormatAmount renders a monetary value with exactly two decimals.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatPercent renders a rate such as 0.22 as "22", dropping float noise
// below a hundredth of a percent.
func FormatPercent(rate float64) string {
	return strconv.FormatFloat(math.Round(rate*10000)/100, 'f', -1, 64)
}
