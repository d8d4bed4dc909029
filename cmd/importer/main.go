package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/importer"
	categoryrepo "storefront/internal/repository/category"
	productrepo "storefront/internal/repository/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to product CSV (id,name,description,price,image,category,rating)")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
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

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, productrepo.NewPostgres(pool, logger), categoryrepo.NewPostgres(pool))

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed: %v", err)
	}

	logger.Printf("imported %d products in %s", count, time.Since(start).Truncate(time.Millisecond))
}
