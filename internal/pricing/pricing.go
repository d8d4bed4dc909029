// Package pricing derives checkout amounts from a cart subtotal.
package pricing

import "github.com/shopspring/decimal"

var (
	// TaxRate is the flat sales tax applied to every subtotal.
	TaxRate = decimal.RequireFromString("0.08")
	// FlatShipping is charged unless the subtotal exceeds FreeShippingOver.
	FlatShipping = decimal.RequireFromString("9.99")
	// FreeShippingOver is an exclusive threshold.
	FreeShippingOver = decimal.NewFromInt(100)
)

// Summary is the priced breakdown of a cart.
type Summary struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	Shipping     decimal.Decimal `json:"shipping"`
	Total        decimal.Decimal `json:"total"`
	FreeShipping bool            `json:"freeShipping"`
}

// Compute prices a subtotal. It holds no state; callers recompute it from the
// current cart on every render.
func Compute(subtotal decimal.Decimal) Summary {
	tax := subtotal.Mul(TaxRate)
	shipping := FlatShipping
	if subtotal.GreaterThan(FreeShippingOver) {
		shipping = decimal.Zero
	}
	return Summary{
		Subtotal:     subtotal,
		Tax:          tax,
		Shipping:     shipping,
		Total:        subtotal.Add(tax).Add(shipping),
		FreeShipping: shipping.IsZero(),
	}
}
