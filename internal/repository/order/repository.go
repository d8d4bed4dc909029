package order

import (
	"context"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// Repository stores placed orders together with their frozen lines.
type Repository interface {
	// Create persists a new pending order and returns it with ID and
	// CreatedAt assigned.
	Create(ctx context.Context, userID string, lines []domain.CartLine, total decimal.Decimal) (*domain.Order, error)
	// ListByUser returns the user's orders, newest first.
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}
