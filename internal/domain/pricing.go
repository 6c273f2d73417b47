package domain

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TaxRate is the flat tax applied to the cart subtotal.
const TaxRate = 0.05

// CartSummary captures the aggregated monetary results of totalling a cart.
// Values are kept unrounded; rounding happens only when formatting for
// display.
type CartSummary struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

// Summarize totals the cart lines and applies the flat tax rate.
func Summarize(cart Cart) CartSummary {
	var subtotal float64
	for _, line := range cart.Lines {
		subtotal += line.LineTotal()
	}
	tax := subtotal * TaxRate
	return CartSummary{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}

var displayPrinter = message.NewPrinter(language.AmericanEnglish)

// FormatAmount renders a monetary amount for display with a dollar sign and
// exactly two decimal places, e.g. "$105.00".
func FormatAmount(amount float64) string {
	return displayPrinter.Sprintf("$%.2f", amount)
}
