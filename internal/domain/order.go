package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is a free-form status string; the known values are listed below.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// Order is a checked-out cart. Total is stored at checkout and never
// recomputed from Lines.
type Order struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Lines     []CartLine      `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Status    OrderStatus     `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}
