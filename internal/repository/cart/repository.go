package cart

import (
	"context"

	"storefront/internal/domain"
)

// Repository keeps a session's cart lines so they survive a server restart.
type Repository interface {
	Get(ctx context.Context, sessionID string) ([]domain.CartLine, error)
	Save(ctx context.Context, sessionID string, lines []domain.CartLine) error
	Delete(ctx context.Context, sessionID string) error
}
