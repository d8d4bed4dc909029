package domain

import "github.com/shopspring/decimal"

// Cents converts a currency amount to integer cents, rounding half away from zero.
func Cents(d decimal.Decimal) int64 {
	return d.Round(2).Shift(2).IntPart()
}

// FromCents converts integer cents to a currency amount.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}
