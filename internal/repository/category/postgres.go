package category

import (
	"context"

	"storefront/internal/db"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool db.DBTX
}

func NewPostgres(pool db.DBTX) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT id, name
FROM categories
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, c domain.Category) (*domain.Category, error) {
	const q = `
INSERT INTO categories (id, name)
VALUES ($1, $2)
ON CONFLICT (id) DO UPDATE
SET name = COALESCE(NULLIF(EXCLUDED.name, ''), categories.name)
RETURNING id, name
`
	var out domain.Category
	if err := r.pool.QueryRow(ctx, q, c.ID, c.Name).Scan(&out.ID, &out.Name); err != nil {
		return nil, err
	}
	return &out, nil
}
