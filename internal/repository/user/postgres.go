package user

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"storefront/internal/db"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool   db.DBTX
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool db.DBTX, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (email, name, password_hash)
VALUES ($1, $2, $3)
RETURNING id::text, email, name, password_hash, created_at
`
	return r.scanUser(r.pool.QueryRow(ctx, q, strings.ToLower(u.Email), u.Name, u.PasswordHash))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
SELECT id::text, email, name, password_hash, created_at
FROM users
WHERE lower(email) = lower($1)
LIMIT 1
`
	return r.scanUser(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `
SELECT id::text, email, name, password_hash, created_at
FROM users
WHERE id = $1
LIMIT 1
`
	return r.scanUser(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: scan error=%v", err)
		return nil, err
	}
	return &u, nil
}
