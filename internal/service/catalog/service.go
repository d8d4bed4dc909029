package catalog

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"storefront/internal/catalog"
	"storefront/internal/domain"
	categoryrepo "storefront/internal/repository/category"
	productrepo "storefront/internal/repository/product"
)

// Source is the read-only product feed behind the catalog.
type Source interface {
	Products(ctx context.Context) ([]domain.Product, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

type repoSource struct {
	products   productrepo.Repository
	categories categoryrepo.Repository
}

// NewRepositorySource reads the feed from the product and category tables.
func NewRepositorySource(products productrepo.Repository, categories categoryrepo.Repository) Source {
	return &repoSource{products: products, categories: categories}
}

func (s *repoSource) Products(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *repoSource) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// Listing is what the catalog view renders for one query.
type Listing struct {
	Products   []domain.Product  `json:"products"`
	Categories []domain.Category `json:"categories"`
	Count      int               `json:"count"`
	Search     string            `json:"search"`
	Category   string            `json:"category"`
	Sort       catalog.SortKey   `json:"sort"`
}

const memoLimit = 128

type Service struct {
	source Source
	logger *log.Logger

	mu         sync.RWMutex
	memo       *catalog.Memo
	byID       map[string]domain.Product
	categories []domain.Category
}

func New(source Source, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		source: source,
		logger: logger,
		memo:   catalog.NewMemo(nil, memoLimit),
		byID:   map[string]domain.Product{},
	}
}

// Reload fetches the feed again and drops every cached listing.
func (s *Service) Reload(ctx context.Context) error {
	products, err := s.source.Products(ctx)
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	categories, err := s.source.Categories(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}

	byID := make(map[string]domain.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	s.mu.Lock()
	s.memo = catalog.NewMemo(products, memoLimit)
	s.byID = byID
	s.categories = withAll(categories)
	s.mu.Unlock()

	s.logger.Printf("catalog: reloaded products=%d categories=%d", len(products), len(categories))
	return nil
}

// Browse filters and sorts the catalog.
func (s *Service) Browse(q catalog.Query) Listing {
	q = q.Normalize()

	s.mu.RLock()
	memo := s.memo
	categories := append([]domain.Category(nil), s.categories...)
	s.mu.RUnlock()

	products := memo.Apply(q)
	return Listing{
		Products:   products,
		Categories: categories,
		Count:      len(products),
		Search:     q.Search,
		Category:   q.Category,
		Sort:       q.Sort,
	}
}

func (s *Service) Get(id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[id]
	if !ok {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, nil
}

// Categories lists the filter options, the "all" pseudo-category first.
func (s *Service) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category(nil), s.categories...)
}

func withAll(categories []domain.Category) []domain.Category {
	out := make([]domain.Category, 0, len(categories)+1)
	out = append(out, domain.Category{ID: domain.AllCategories, Name: "All"})
	for _, c := range categories {
		if c.ID == domain.AllCategories {
			continue
		}
		out = append(out, c)
	}
	return out
}
