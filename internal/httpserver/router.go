package httpserver

import (
	"context"
	"errors"
	"io"
	"log"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/domain"
	"storefront/internal/metrics"
	authsvc "storefront/internal/service/auth"
	catalogsvc "storefront/internal/service/catalog"
	"storefront/internal/session"
	"storefront/internal/store"
)

type CatalogService interface {
	Browse(q catalog.Query) catalogsvc.Listing
	Get(id string) (domain.Product, error)
}

type AuthService interface {
	Signup(ctx context.Context, in authsvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string) error
	AccessTTLSeconds() int
}

// OrderLister loads a user's history when they sign in.
type OrderLister interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, cart *store.Cart, account *store.Account) (*checkout.Receipt, error)
}

// Deps groups the collaborators handed to the router.
type Deps struct {
	Catalog  CatalogService
	Auth     AuthService
	Orders   OrderLister
	Checkout CheckoutService
	Sessions *session.Registry
	// Metrics may be nil.
	Metrics     *metrics.Metrics
	CORSOrigins []string
	AuthLimit   AuthLimit
}

func (d Deps) validate() error {
	switch {
	case d.Catalog == nil:
		return errors.New("catalog service is required")
	case d.Auth == nil:
		return errors.New("auth service is required")
	case d.Orders == nil:
		return errors.New("order lister is required")
	case d.Checkout == nil:
		return errors.New("checkout service is required")
	case d.Sessions == nil:
		return errors.New("session registry is required")
	}
	return nil
}

type handlers struct {
	deps   Deps
	logger *log.Logger
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db Pinger, deps Deps) (*gin.Engine, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if err := deps.validate(); err != nil {
		return nil, err
	}
	corsCfg := corsConfig(deps.CORSOrigins)
	if err := corsCfg.Validate(); err != nil {
		return nil, err
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.LoggerWithWriter(logger.Writer()),
		gin.Recovery(),
		cors.New(corsCfg),
		deps.Metrics.Middleware(),
	)

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	h := &handlers{deps: deps, logger: logger}

	shop := router.Group("/", sessionMiddleware(deps, logger))
	shop.GET("/session", h.sessionView)

	shop.GET("/catalog", h.browseCatalog)
	shop.GET("/catalog/products/:id", h.getProduct)

	shop.GET("/cart", h.getCart)
	shop.POST("/cart/items", h.addCartItem)
	shop.PATCH("/cart/items/:id", h.updateCartItem)
	shop.DELETE("/cart/items/:id", h.removeCartItem)
	shop.DELETE("/cart", h.clearCart)
	shop.POST("/cart/checkout", h.checkout)

	shop.GET("/orders", h.orderHistory)

	limitAuth := authRateLimit(deps.AuthLimit, logger)
	shop.POST("/auth/signup", limitAuth, h.signup)
	shop.POST("/auth/login", limitAuth, h.login)
	shop.POST("/auth/logout", h.logout)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", sessionHeader},
		ExposeHeaders: []string{sessionHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
