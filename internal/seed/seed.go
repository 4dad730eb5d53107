package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	Name        string
	Price       float64
	Stock       int
	Images      []string
	Category    string
	Material    string
	Color       string
	Description string
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	products := []productSeed{
		{
			Name:        "Walnut Coffee Table",
			Price:       250000,
			Stock:       12,
			Images:      []string{"https://cdn.example.com/walnut-table-1.jpg", "https://cdn.example.com/walnut-table-2.jpg"},
			Category:    "tables",
			Material:    "walnut",
			Color:       "brown",
			Description: "Solid walnut coffee table with a hand-rubbed oil finish",
		},
		{
			Name:        "Linen Lounge Chair",
			Price:       180000,
			Stock:       8,
			Images:      []string{"https://cdn.example.com/linen-chair-1.jpg"},
			Category:    "chairs",
			Material:    "linen",
			Color:       "beige",
			Description: "Lounge chair upholstered in washed linen",
		},
		{
			Name:        "Oak Bookshelf",
			Price:       320000,
			Stock:       0,
			Images:      []string{"https://cdn.example.com/oak-shelf-1.jpg", "https://cdn.example.com/oak-shelf-2.jpg"},
			Category:    "storage",
			Material:    "oak",
			Color:       "natural",
			Description: "Five-tier oak bookshelf",
		},
	}

	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	if err := upsertPromo(ctx, pool); err != nil {
		return fmt.Errorf("upsert promo: %w", err)
	}

	return nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	mainImage := ""
	if len(p.Images) > 0 {
		mainImage = p.Images[0]
	}
	const q = `
INSERT INTO products (name, price, stock, images, main_image, material, color, category, description)
SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9
WHERE NOT EXISTS (SELECT 1 FROM products WHERE name = $1)
`
	_, err := pool.Exec(ctx, q, p.Name, p.Price, p.Stock, p.Images, mainImage, p.Material, p.Color, p.Category, p.Description)
	return err
}

func upsertPromo(ctx context.Context, pool *pgxpool.Pool) error {
	const q = `
INSERT INTO promo_codes (code, discount_percent, description, min_order_amount, is_active)
VALUES ('SAVE10', 10, '10% off your order', 0, TRUE)
ON CONFLICT (code) DO UPDATE
SET discount_percent = EXCLUDED.discount_percent,
    description = EXCLUDED.description,
    is_active = EXCLUDED.is_active
`
	_, err := pool.Exec(ctx, q)
	return err
}
