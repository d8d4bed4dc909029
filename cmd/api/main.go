package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/httpserver"
	"storefront/internal/metrics"
	cartrepo "storefront/internal/repository/cart"
	"storefront/internal/repository/catalogfile"
	categoryrepo "storefront/internal/repository/category"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	tokenrepo "storefront/internal/repository/token"
	userrepo "storefront/internal/repository/user"
	authsvc "storefront/internal/service/auth"
	catalogsvc "storefront/internal/service/catalog"
	"storefront/internal/session"
)

func main() {
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	categoryRepo := categoryrepo.NewPostgres(dbpool)
	userRepo := userrepo.NewPostgres(dbpool, logger)
	tokenRepo := tokenrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)

	var source catalogsvc.Source = catalogsvc.NewRepositorySource(productRepo, categoryRepo)
	if cfg.CatalogFile != "" {
		feed, err := catalogfile.Load(cfg.CatalogFile)
		if err != nil {
			logger.Fatalf("load catalog file: %v", err)
		}
		source = feed
		logger.Printf("catalog feed from file %s", cfg.CatalogFile)
	}
	catalogService := catalogsvc.New(source, logger)
	if err := catalogService.Reload(ctx); err != nil {
		logger.Fatalf("load catalog: %v", err)
	}

	var carts cartrepo.Repository
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer client.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Fatalf("connect to redis: %v", err)
		}
		carts = cartrepo.NewRedis(client, cfg.CartTTL())
		logger.Printf("cart persistence enabled redis=%s", cfg.RedisAddr)
	}

	sessions := session.NewRegistry(carts, cfg.SessionTTL(), logger)
	go sessions.Run(ctx, time.Minute)

	submitter := checkout.NewBreakerSubmitter(
		checkout.NewRepositorySubmitter(orderRepo),
		cfg.CheckoutBreakerFailures,
		cfg.CheckoutBreakerOpenFor(),
		logger,
	)

	m := metrics.New()
	m.WatchCheckoutBreaker(submitter.Open)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Catalog:     catalogService,
		Auth:        authsvc.New(userRepo, tokenRepo, logger),
		Orders:      orderRepo,
		Checkout:    checkout.New(submitter, logger),
		Sessions:    sessions,
		Metrics:     m,
		CORSOrigins: cfg.CORSOrigins,
		AuthLimit: httpserver.AuthLimit{
			Rate:  rate.Limit(float64(cfg.AuthAttemptsPerMinute) / 60),
			Burst: cfg.AuthBurst,
		},
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
