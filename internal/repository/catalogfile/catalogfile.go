// Package catalogfile reads a static product feed from a YAML document.
package catalogfile

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"storefront/internal/domain"
)

type fileDoc struct {
	Categories []fileCategory `yaml:"categories"`
	Products   []fileProduct  `yaml:"products"`
}

type fileCategory struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

type fileProduct struct {
	ID          string  `yaml:"id"`
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Price       string  `yaml:"price"`
	Image       string  `yaml:"image"`
	Category    string  `yaml:"category"`
	Rating      float64 `yaml:"rating"`
}

// Catalog is an immutable product feed loaded from a file.
type Catalog struct {
	products   []domain.Product
	categories []domain.Category
}

// Load opens and parses the YAML catalog at path.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a YAML catalog. Prices are read as decimal strings.
func Parse(r io.Reader) (*Catalog, error) {
	var doc fileDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return &Catalog{}, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c := &Catalog{}
	seenCat := map[string]bool{}
	for _, fc := range doc.Categories {
		if fc.ID == "" {
			return nil, fmt.Errorf("category id is required")
		}
		if seenCat[fc.ID] {
			return nil, fmt.Errorf("duplicate category %q", fc.ID)
		}
		seenCat[fc.ID] = true
		name := fc.Name
		if name == "" {
			name = fc.ID
		}
		c.categories = append(c.categories, domain.Category{ID: fc.ID, Name: name})
	}

	seen := map[string]bool{}
	for i, fp := range doc.Products {
		if fp.ID == "" {
			return nil, fmt.Errorf("product #%d: id is required", i+1)
		}
		if seen[fp.ID] {
			return nil, fmt.Errorf("duplicate product %q", fp.ID)
		}
		seen[fp.ID] = true

		price, err := decimal.NewFromString(fp.Price)
		if err != nil {
			return nil, fmt.Errorf("product %q: invalid price %q", fp.ID, fp.Price)
		}
		if price.IsNegative() {
			return nil, fmt.Errorf("product %q: price must not be negative", fp.ID)
		}
		if fp.Rating < 0 || fp.Rating > 5 {
			return nil, fmt.Errorf("product %q: rating must be between 0 and 5", fp.ID)
		}
		c.products = append(c.products, domain.Product{
			ID:          fp.ID,
			Name:        fp.Name,
			Description: fp.Description,
			Price:       price,
			Image:       fp.Image,
			Category:    fp.Category,
			Rating:      fp.Rating,
		})
		if fp.Category != "" && !seenCat[fp.Category] {
			seenCat[fp.Category] = true
			c.categories = append(c.categories, domain.Category{ID: fp.Category, Name: fp.Category})
		}
	}
	return c, nil
}

func (c *Catalog) Products(context.Context) ([]domain.Product, error) {
	return append([]domain.Product(nil), c.products...), nil
}

func (c *Catalog) Categories(context.Context) ([]domain.Category, error) {
	return append([]domain.Category(nil), c.categories...), nil
}
