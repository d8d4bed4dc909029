package domain

import "github.com/shopspring/decimal"

// MaxLineQuantity bounds the quantity of a single cart or order line.
const MaxLineQuantity = 999

// CartLine pairs a product snapshot with a positive quantity.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal returns price × quantity for the line.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
