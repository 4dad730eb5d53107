package product

import (
	"context"

	"shopcart-api/internal/domain"
)

// Repository is the storefront/admin surface over the products collection.
type Repository interface {
	ListLimited(ctx context.Context, limit int) ([]domain.Product, error)
	ListAll(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string, limit int) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	UpdateAggregates(ctx context.Context, id string, rating float64, reviews int) error
}
