package order

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/db"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool   db.DBTX
	logger *log.Logger
	now    func() time.Time
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool db.DBTX, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{
		pool:   pool,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *postgresRepo) Create(ctx context.Context, userID string, lines []domain.CartLine, total decimal.Decimal) (*domain.Order, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}
	if len(lines) == 0 {
		return nil, errors.New("order needs at least one line")
	}

	o := &domain.Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Lines:     append([]domain.CartLine(nil), lines...),
		Total:     total,
		Status:    domain.OrderStatusPending,
		CreatedAt: r.now().Truncate(time.Microsecond),
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	const orderQuery = `
INSERT INTO orders (id, user_id, total_cents, status, created_at)
VALUES ($1, $2, $3, $4, $5)
`
	if _, err := tx.Exec(ctx, orderQuery, o.ID, o.UserID, domain.Cents(o.Total), string(o.Status), o.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	const lineQuery = `
INSERT INTO order_lines (order_id, position, product_id, name, description, image, category_id, rating, price_cents, quantity)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	for i, l := range o.Lines {
		p := l.Product
		if _, err := tx.Exec(ctx, lineQuery,
			o.ID,
			i,
			p.ID,
			p.Name,
			p.Description,
			p.Image,
			p.Category,
			p.Rating,
			domain.Cents(p.Price),
			l.Quantity,
		); err != nil {
			return nil, fmt.Errorf("insert order line: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	r.logger.Printf("order repo: created order_id=%s user_id=%s lines=%d", o.ID, o.UserID, len(o.Lines))
	return o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const ordersQuery = `
SELECT id::text, user_id::text, total_cents, status, created_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC, id
`
	rows, err := r.pool.Query(ctx, ordersQuery, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var (
			o          domain.Order
			totalCents int64
			status     string
		)
		if err := rows.Scan(&o.ID, &o.UserID, &totalCents, &status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		o.Total = domain.FromCents(totalCents)
		o.Status = domain.OrderStatus(status)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order rows: %w", err)
	}
	if len(orders) == 0 {
		return []domain.Order{}, nil
	}

	ids := make([]uuid.UUID, len(orders))
	for i := range orders {
		id, err := uuid.Parse(orders[i].ID)
		if err != nil {
			return nil, fmt.Errorf("parse order id %q: %w", orders[i].ID, err)
		}
		ids[i] = id
	}

	const linesQuery = `
SELECT order_id::text, product_id, name, description, image, category_id, rating, price_cents, quantity
FROM order_lines
WHERE order_id = ANY($1)
ORDER BY order_id, position
`
	lineRows, err := r.pool.Query(ctx, linesQuery, ids)
	if err != nil {
		return nil, fmt.Errorf("batch load order lines: %w", err)
	}
	defer lineRows.Close()

	byOrder := make(map[string][]domain.CartLine, len(orders))
	for lineRows.Next() {
		var (
			orderID    string
			l          domain.CartLine
			priceCents int64
		)
		if err := lineRows.Scan(
			&orderID,
			&l.Product.ID,
			&l.Product.Name,
			&l.Product.Description,
			&l.Product.Image,
			&l.Product.Category,
			&l.Product.Rating,
			&priceCents,
			&l.Quantity,
		); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		l.Product.Price = domain.FromCents(priceCents)
		byOrder[orderID] = append(byOrder[orderID], l)
	}
	if err := lineRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate order line rows: %w", err)
	}

	for i := range orders {
		if lines, ok := byOrder[orders[i].ID]; ok {
			orders[i].Lines = lines
		} else {
			orders[i].Lines = []domain.CartLine{}
		}
	}
	return orders, nil
}
