// Package catalog derives the browsable product list from a search term,
// a category and a sort key.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"storefront/internal/domain"
)

// SortKey selects the ordering of a catalog listing.
type SortKey string

const (
	SortByName      SortKey = "name"
	SortByPriceLow  SortKey = "price-low"
	SortByPriceHigh SortKey = "price-high"
	SortByRating    SortKey = "rating"
)

// Query is the full input of a listing besides the product list itself.
type Query struct {
	Search   string
	Category string
	Sort     SortKey
}

// DefaultQuery matches everything, sorted by name.
func DefaultQuery() Query {
	return Query{Category: domain.AllCategories, Sort: SortByName}
}

// Normalize fills in defaults so equal listings compare equal.
func (q Query) Normalize() Query {
	if strings.TrimSpace(q.Category) == "" {
		q.Category = domain.AllCategories
	}
	switch q.Sort {
	case SortByPriceLow, SortByPriceHigh, SortByRating:
	default:
		q.Sort = SortByName
	}
	return q
}

// Apply filters and sorts products. The input slice is left untouched.
func Apply(products []domain.Product, q Query) []domain.Product {
	q = q.Normalize()
	term := strings.ToLower(q.Search)

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matchesSearch(p, term) && matchesCategory(p, q.Category) {
			out = append(out, p)
		}
	}

	slices.SortStableFunc(out, comparator(q.Sort))
	return out
}

func matchesSearch(p domain.Product, term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term)
}

func matchesCategory(p domain.Product, category string) bool {
	return category == domain.AllCategories || p.Category == category
}

func comparator(key SortKey) func(a, b domain.Product) int {
	switch key {
	case SortByPriceLow:
		return func(a, b domain.Product) int { return a.Price.Cmp(b.Price) }
	case SortByPriceHigh:
		return func(a, b domain.Product) int { return b.Price.Cmp(a.Price) }
	case SortByRating:
		return func(a, b domain.Product) int { return cmp.Compare(b.Rating, a.Rating) }
	default:
		// Collators are not safe for concurrent use.
		col := collate.New(language.English)
		return func(a, b domain.Product) int { return col.CompareString(a.Name, b.Name) }
	}
}
