package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"

	"storefront/internal/db"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool   db.DBTX
	logger *log.Logger
}

func NewPostgres(pool db.DBTX, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `id, name, COALESCE(description, ''), price_cents, COALESCE(image, ''), category_id, rating, created_at`

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	r.logger.Printf("product repo: list count=%d", len(result))
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	q := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Printf("product repo: get id=%s not found", id)
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (id, name, description, price_cents, image, category_id, rating)
VALUES ($1, $2, NULLIF($3, ''), $4, NULLIF($5, ''), $6, $7)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    image = EXCLUDED.image,
    category_id = EXCLUDED.category_id,
    rating = EXCLUDED.rating
RETURNING created_at
`
	out := p
	err := r.pool.QueryRow(ctx, q,
		p.ID,
		p.Name,
		p.Description,
		domain.Cents(p.Price),
		p.Image,
		p.Category,
		p.Rating,
	).Scan(&out.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert id=%s error=%v", p.ID, err)
		return nil, err
	}
	r.logger.Printf("product repo: upserted id=%s", p.ID)
	return &out, nil
}

func scanProduct(row pgx.Row) (domain.Product, error) {
	var (
		p     domain.Product
		cents int64
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &cents, &p.Image, &p.Category, &p.Rating, &p.CreatedAt); err != nil {
		return domain.Product{}, err
	}
	p.Price = domain.FromCents(cents)
	return p, nil
}
