package importer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
	err   error
}

type stubCategoryRepo struct {
	items []domain.Category
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.items = append(s.items, p)
	return &p, nil
}

func (s *stubCategoryRepo) Upsert(_ context.Context, c domain.Category) (*domain.Category, error) {
	s.items = append(s.items, c)
	return &c, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `id,name,description,price,image,category,rating,category_name
1,Wireless Headphones,Noise cancelling,199.99,https://example.com/1.jpg,electronics,4.5,Electronics
2,Coffee Mug,,12.99,,home-kitchen,4.8,
,,,,,,,
3,Smart Watch,Fitness tracking,249.00,,electronics,4.2,`

	repo := &stubProductRepo{}
	catRepo := &stubCategoryRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo, catRepo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 products imported, got %d", count)
	}
	if len(repo.items) != 3 {
		t.Fatalf("expected 3 products saved, got %d", len(repo.items))
	}

	first := repo.items[0]
	if first.ID != "1" || first.Name != "Wireless Headphones" || first.Category != "electronics" || first.Rating != 4.5 {
		t.Fatalf("unexpected product data: %+v", first)
	}
	if !first.Price.Equal(decimal.RequireFromString("199.99")) {
		t.Fatalf("unexpected price %s", first.Price)
	}

	if len(catRepo.items) != 2 {
		t.Fatalf("expected 2 category upserts, got %+v", catRepo.items)
	}
	if catRepo.items[0].Name != "Electronics" || catRepo.items[1].Name != "Home Kitchen" {
		t.Fatalf("unexpected category names: %+v", catRepo.items)
	}
}

func TestCSVImporter_RejectsBadRows(t *testing.T) {
	cases := map[string]string{
		"missing price column": "id,name\n1,Mug\n",
		"bad price":            "id,name,price\n1,Mug,cheap\n",
		"negative price":       "id,name,price\n1,Mug,-3\n",
		"bad rating":           "id,name,price,rating\n1,Mug,3,7\n",
		"missing name":         "id,name,price\n1,,3\n",
	}
	for name, data := range cases {
		imp := NewCSVImporter(strings.NewReader(data), &stubProductRepo{}, &stubCategoryRepo{})
		if _, err := imp.Run(context.Background()); err == nil {
			t.Fatalf("expected error for case %s", name)
		}
	}
}

func TestCSVImporter_PropagatesWriteErrors(t *testing.T) {
	repo := &stubProductRepo{err: errors.New("db down")}
	imp := NewCSVImporter(strings.NewReader("id,name,price\n1,Mug,3\n"), repo, nil)
	count, err := imp.Run(context.Background())
	if err == nil || count != 0 {
		t.Fatalf("expected write error, got count=%d err=%v", count, err)
	}
}
