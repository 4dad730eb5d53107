// Package importer loads catalog products from a CSV export. Rows carry
// name, price, stock, a pipe-separated image list, and the descriptive
// fields; the first image becomes the main image unless the main_image
// column names another one.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"shopcart-api/internal/domain"
)

type ProductWriter interface {
	Create(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts products.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and inserts one product per row, returning the count
// of imported products.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		product, ok := parseRow(record, index)
		if !ok {
			continue
		}
		if _, err := i.productRepo.Create(ctx, product); err != nil {
			return imported, fmt.Errorf("insert product %q: %w", product.Name, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return index
}

func parseRow(record []string, index map[string]int) (domain.Product, bool) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	name := field("name")
	if name == "" {
		return domain.Product{}, false
	}

	price, err := strconv.ParseFloat(field("price"), 64)
	if err != nil || price <= 0 {
		return domain.Product{}, false
	}

	stock, _ := strconv.Atoi(field("stock"))
	if stock < 0 {
		stock = 0
	}

	var images []string
	for _, img := range strings.Split(field("images"), "|") {
		if img = strings.TrimSpace(img); img != "" {
			images = append(images, img)
		}
	}
	if len(images) == 0 {
		return domain.Product{}, false
	}

	mainImage := field("main_image")
	found := false
	for _, img := range images {
		if img == mainImage {
			found = true
			break
		}
	}
	if !found {
		mainImage = images[0]
	}

	return domain.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Price:       price,
		Stock:       stock,
		Images:      images,
		MainImage:   mainImage,
		Material:    field("material"),
		Color:       field("color"),
		Category:    field("category"),
		Description: field("description"),
	}, true
}
