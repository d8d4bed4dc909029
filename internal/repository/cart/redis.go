package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/domain"
)

const keyPrefix = "cart:"

type redisRepo struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis stores each session's lines under cart:<session id>, expiring
// after ttl of inactivity.
func NewRedis(client *redis.Client, ttl time.Duration) Repository {
	return &redisRepo{client: client, ttl: ttl}
}

func (r *redisRepo) Get(ctx context.Context, sessionID string) ([]domain.CartLine, error) {
	data, err := r.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis get cart: %w", err)
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return lines, nil
}

// Save writes the lines; an empty cart deletes the key instead.
func (r *redisRepo) Save(ctx context.Context, sessionID string, lines []domain.CartLine) error {
	if len(lines) == 0 {
		return r.Delete(ctx, sessionID)
	}
	data, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	if err := r.client.Set(ctx, keyPrefix+sessionID, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set cart: %w", err)
	}
	return nil
}

func (r *redisRepo) Delete(ctx context.Context, sessionID string) error {
	if err := r.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("redis del cart: %w", err)
	}
	return nil
}
