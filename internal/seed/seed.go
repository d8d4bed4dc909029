package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, category domain.Category) (*domain.Category, error)
}

type productSeed struct {
	ID          string
	Name        string
	Description string
	Price       string
	Category    string
	Rating      float64
}

var categories = []domain.Category{
	{ID: "electronics", Name: "Electronics"},
	{ID: "clothing", Name: "Clothing"},
	{ID: "home", Name: "Home & Kitchen"},
	{ID: "sports", Name: "Sports"},
}

var products = []productSeed{
	{"1", "Wireless Headphones", "Over-ear headphones with active noise cancelling", "199.99", "electronics", 4.5},
	{"2", "Smart Watch", "Fitness tracking and notifications on your wrist", "249.99", "electronics", 4.3},
	{"3", "Cotton T-Shirt", "Soft everyday tee", "19.99", "clothing", 4.1},
	{"4", "Denim Jacket", "Classic fit, stonewashed", "79.50", "clothing", 4.6},
	{"5", "Coffee Mug", "Ceramic, dishwasher safe", "12.99", "home", 4.8},
	{"6", "Desk Lamp", "LED lamp with wireless charging base", "45.50", "home", 4.2},
	{"7", "Yoga Mat", "Non-slip, 6mm thick", "29.99", "sports", 4.4},
	{"8", "Running Shoes", "Lightweight trainers for road running", "89.99", "sports", 4.7},
}

// Apply inserts a demo catalog for manual testing. It is idempotent because
// both writers upsert.
func Apply(ctx context.Context, productRepo ProductWriter, categoryRepo CategoryWriter) error {
	for _, c := range categories {
		if _, err := categoryRepo.Upsert(ctx, c); err != nil {
			return fmt.Errorf("upsert category %s: %w", c.ID, err)
		}
	}

	for _, p := range products {
		price, err := decimal.NewFromString(p.Price)
		if err != nil {
			return fmt.Errorf("parse price for %s: %w", p.ID, err)
		}
		_, err = productRepo.Upsert(ctx, domain.Product{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       price,
			Image:       fmt.Sprintf("https://picsum.photos/seed/storefront-%s/400/400", p.ID),
			Category:    p.Category,
			Rating:      p.Rating,
		})
		if err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}

	return nil
}
