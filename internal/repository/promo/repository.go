package promo

import (
	"context"

	"shopcart-api/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.PromoCode, error)
	GetByID(ctx context.Context, id string) (*domain.PromoCode, error)
	// GetByCode matches case-insensitively; codes are stored upper-cased.
	GetByCode(ctx context.Context, code string) (*domain.PromoCode, error)
	Create(ctx context.Context, p domain.PromoCode) (*domain.PromoCode, error)
	Update(ctx context.Context, p domain.PromoCode) (*domain.PromoCode, error)
	Delete(ctx context.Context, id string) error
}

// Usage counts are not bumped here. The increment happens inside the order
// repository's insert transaction so a placed order and its promo count
// can never diverge.
