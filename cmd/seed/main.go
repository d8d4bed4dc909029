package main

import (
	"context"
	"log"
	"os"

	"storefront/internal/config"
	"storefront/internal/db"
	categoryrepo "storefront/internal/repository/category"
	productrepo "storefront/internal/repository/product"
	"storefront/internal/seed"
)

func main() {
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)
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

	if err := seed.Apply(ctx, productrepo.NewPostgres(pool, logger), categoryrepo.NewPostgres(pool)); err != nil {
		logger.Fatalf("seed apply: %v", err)
	}

	logger.Println("seed applied")
}
