package listdoc

import (
	"context"

	"shopcart-api/internal/domain"
)

// Repository stores one document per actor per list kind. Reads return
// domain.ErrNotFound when the actor has no document yet; writes replace the
// whole document.
type Repository interface {
	GetCart(ctx context.Context, userID string) ([]domain.CartLine, error)
	PutCart(ctx context.Context, userID string, lines []domain.CartLine) error
	GetFavorites(ctx context.Context, userID string) ([]domain.FavoriteItem, error)
	PutFavorites(ctx context.Context, userID string, items []domain.FavoriteItem) error
	DeleteAll(ctx context.Context, userID string) error
}
