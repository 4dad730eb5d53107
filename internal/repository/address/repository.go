package address

import (
	"context"

	"shopcart-api/internal/domain"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.Address, error)
	GetByID(ctx context.Context, userID, id string) (*domain.Address, error)
	Create(ctx context.Context, userID string, a domain.Address) (*domain.Address, error)
	Update(ctx context.Context, userID string, a domain.Address) (*domain.Address, error)
	Delete(ctx context.Context, userID, id string) error
	// SetDefault marks one address as the default and clears the flag on
	// every other address of the same user, in one transaction.
	SetDefault(ctx context.Context, userID, id string) error
}
