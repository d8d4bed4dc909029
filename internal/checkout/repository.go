package checkout

import (
	"context"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

// OrderCreator is the write side of the order repository.
type OrderCreator interface {
	Create(ctx context.Context, userID string, lines []domain.CartLine, total decimal.Decimal) (*domain.Order, error)
}

type repoSubmitter struct {
	orders OrderCreator
}

// NewRepositorySubmitter submits orders by persisting them directly.
func NewRepositorySubmitter(orders OrderCreator) Submitter {
	return repoSubmitter{orders: orders}
}

func (s repoSubmitter) Submit(ctx context.Context, in SubmitInput) (*domain.Order, error) {
	return s.orders.Create(ctx, in.UserID, in.Lines, in.Total)
}
