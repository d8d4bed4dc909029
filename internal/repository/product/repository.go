package product

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
}
