package review

import (
	"context"

	"shopcart-api/internal/domain"
)

type Repository interface {
	Create(ctx context.Context, rv domain.Review) (*domain.Review, error)
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
	List(ctx context.Context) ([]domain.Review, error)
	Update(ctx context.Context, rv domain.Review) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
}
