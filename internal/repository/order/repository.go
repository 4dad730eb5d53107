package order

import (
	"context"

	"shopcart-api/internal/domain"
)

type Repository interface {
	// Create persists a new order. When promoID is non-empty the promo's
	// usage counter is incremented in the same transaction, so an order can
	// never land without its usage bump.
	Create(ctx context.Context, o domain.Order, promoID string) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
}
