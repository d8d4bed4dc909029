package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, category domain.Category) (*domain.Category, error)
}

// CSVImporter reads a product feed export and inserts/updates products and
// the categories they reference.
//
// Expected headers: id, name, description, price, image, category, rating.
// An optional category_name column names the category on first sight.
type CSVImporter struct {
	reader       *csv.Reader
	productRepo  ProductWriter
	categoryRepo CategoryWriter
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:       csvr,
		productRepo:  products,
		categoryRepo: categories,
	}
}

// Run upserts every row and returns the number of products written.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"id", "name", "price"} {
		if _, ok := index[required]; !ok {
			return 0, fmt.Errorf("missing %q column", required)
		}
	}

	var (
		imported int
		line     = 1
		seen     = map[string]bool{}
	)
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return imported, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		p, categoryName, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("row %d: %w", line, err)
		}

		if p.Category != "" && !seen[p.Category] && i.categoryRepo != nil {
			if _, err := i.categoryRepo.Upsert(ctx, domain.Category{ID: p.Category, Name: categoryName}); err != nil {
				return imported, fmt.Errorf("upsert category %q: %w", p.Category, err)
			}
			seen[p.Category] = true
		}

		if _, err := i.productRepo.Upsert(ctx, p); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", p.ID, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Product, string, error) {
	p := domain.Product{
		ID:          pick(record, index, "id"),
		Name:        pick(record, index, "name"),
		Description: pick(record, index, "description"),
		Image:       pick(record, index, "image"),
		Category:    pick(record, index, "category"),
	}
	if p.ID == "" || p.Name == "" {
		return domain.Product{}, "", errors.New("id and name are required")
	}

	price, err := decimal.NewFromString(pick(record, index, "price"))
	if err != nil || price.IsNegative() {
		return domain.Product{}, "", fmt.Errorf("invalid price for %q", p.ID)
	}
	p.Price = price

	if raw := pick(record, index, "rating"); raw != "" {
		rating, err := strconv.ParseFloat(raw, 64)
		if err != nil || rating < 0 || rating > 5 {
			return domain.Product{}, "", fmt.Errorf("invalid rating for %q", p.ID)
		}
		p.Rating = rating
	}

	categoryName := pick(record, index, "category_name")
	if categoryName == "" {
		categoryName = titleCase(p.Category)
	}
	return p, categoryName, nil
}

func titleCase(id string) string {
	words := strings.FieldsFunc(id, func(r rune) bool { return r == '-' || r == '_' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
