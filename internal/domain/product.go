package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Carts and orders keep value copies of it.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Category    string          `json:"category"`
	Rating      float64         `json:"rating"`
	CreatedAt   time.Time       `json:"-"`
}
