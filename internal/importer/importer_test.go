package importer

import (
	"context"
	"strings"
	"testing"

	"shopcart-api/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
}

func (s *stubProductRepo) Create(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `name,price,stock,images,main_image,material,color,category,description
Walnut Coffee Table,250000,5,https://cdn.example.com/t1.jpg|https://cdn.example.com/t2.jpg,https://cdn.example.com/t2.jpg,walnut,brown,tables,Solid walnut top
,100,1,https://cdn.example.com/x.jpg,,,,,no name so skipped
Oak Bookshelf,320000,0,https://cdn.example.com/b1.jpg,missing.jpg,oak,natural,storage,Five shelves`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 products imported, got %d", count)
	}

	table := repo.items[0]
	if table.Name != "Walnut Coffee Table" || table.Price != 250000 || table.Stock != 5 {
		t.Fatalf("unexpected product data: %+v", table)
	}
	if len(table.Images) != 2 || table.MainImage != "https://cdn.example.com/t2.jpg" {
		t.Fatalf("images not parsed: %+v", table)
	}
	if table.ID == "" {
		t.Fatalf("expected generated id")
	}

	// A main_image not present in the list falls back to the first image.
	shelf := repo.items[1]
	if shelf.MainImage != "https://cdn.example.com/b1.jpg" {
		t.Fatalf("main image fallback wrong: %q", shelf.MainImage)
	}
}

func TestCSVImporter_RejectsBadRows(t *testing.T) {
	csvData := `name,price,stock,images
Free Chair,0,1,https://cdn.example.com/c.jpg
No Images,100,1,
Negative Stock,100,-3,https://cdn.example.com/n.jpg`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected only the clamped-stock row, got %d", count)
	}
	if repo.items[0].Name != "Negative Stock" || repo.items[0].Stock != 0 {
		t.Fatalf("stock not clamped: %+v", repo.items[0])
	}
}
