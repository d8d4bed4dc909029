package catalog

import (
	"slices"
	"sync"

	"storefront/internal/domain"
)

// Memo caches listings over one immutable product list, keyed by query.
type Memo struct {
	products []domain.Product
	limit    int

	mu      sync.Mutex
	entries map[Query][]domain.Product
	order   []Query
}

// NewMemo keeps at most limit listings; the oldest entry is evicted first.
func NewMemo(products []domain.Product, limit int) *Memo {
	if limit < 1 {
		limit = 1
	}
	return &Memo{
		products: slices.Clone(products),
		limit:    limit,
		entries:  make(map[Query][]domain.Product),
	}
}

// Products returns the full, unfiltered list.
func (m *Memo) Products() []domain.Product {
	return slices.Clone(m.products)
}

// Apply returns the listing for q, computing it at most once per cached query.
func (m *Memo) Apply(q Query) []domain.Product {
	q = q.Normalize()

	m.mu.Lock()
	defer m.mu.Unlock()
	if cached, ok := m.entries[q]; ok {
		return slices.Clone(cached)
	}

	result := Apply(m.products, q)
	if len(m.order) >= m.limit {
		oldest := m.order[0]
		m.order = m.order[1:]
		delete(m.entries, oldest)
	}
	m.entries[q] = result
	m.order = append(m.order, q)
	return slices.Clone(result)
}

// Len reports how many listings are cached.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
