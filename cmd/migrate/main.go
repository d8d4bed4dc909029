package main

import (
	"context"
	"log"
	"os"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/migrate"
)

func main() {
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	version, dirty, err := migrate.Version(ctx, pool)
	if err != nil {
		logger.Fatalf("read schema version: %v", err)
	}
	logger.Printf("migrations applied version=%d dirty=%t", version, dirty)
}
