package pricing

import (
	"github.com/shopspring/decimal"

	"posdash/internal/cart"
)

// Summary is the derived money breakdown for a cart. It is recomputed from
// scratch on every query and never mutated independently. Values keep full
// decimal precision; rounding to two places happens only when formatting
// for display.
type Summary struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxAmount  decimal.Decimal `json:"taxAmount"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// Zero is the summary of an empty cart.
func Zero() Summary {
	return Summary{
		Subtotal:   decimal.Zero,
		TaxAmount:  decimal.Zero,
		GrandTotal: decimal.Zero,
	}
}

// Summarize computes subtotal, tax and grand total for the given lines.
// taxRate is a fraction (0.08 for 8%).
func Summarize(lines []cart.Line, taxRate decimal.Decimal) Summary {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal())
	}
	tax := subtotal.Mul(taxRate)
	return Summary{
		Subtotal:   subtotal,
		TaxAmount:  tax,
		GrandTotal: subtotal.Add(tax),
	}
}

// DisplayTotal renders the grand total rounded to two places, the only
// point where rounding is applied.
func (s Summary) DisplayTotal() string {
	return s.GrandTotal.StringFixed(2)
}
