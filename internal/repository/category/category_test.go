package category

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/domain"
	"storefront/internal/migrate"
)

func TestPostgres_UpsertAndList(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool)
	for _, c := range []domain.Category{{ID: "home", Name: "Home"}, {ID: "electronics", Name: "Electronics"}} {
		if _, err := repo.Upsert(ctx, c); err != nil {
			t.Fatalf("upsert %s: %v", c.ID, err)
		}
	}

	list, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != "electronics" || list[1].ID != "home" {
		t.Fatalf("unexpected list %+v", list)
	}
}

func TestPostgres_UpsertKeepsNameWhenBlank(t *testing.T) {
	ctx := context.Background()
	pool := testPool(ctx, t)
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	resetTables(ctx, t, pool)

	repo := NewPostgres(pool)
	if _, err := repo.Upsert(ctx, domain.Category{ID: "home", Name: "Home"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := repo.Upsert(ctx, domain.Category{ID: "home"})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if got.Name != "Home" {
		t.Fatalf("expected name to be kept, got %+v", got)
	}
}

func testPool(ctx context.Context, t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	return pool
}

func resetTables(ctx context.Context, t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(ctx, `TRUNCATE products, categories CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}
}
