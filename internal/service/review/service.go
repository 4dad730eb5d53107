// Package review owns review CRUD and the denormalized rating/reviews
// aggregates on the parent product. Every add, edit or delete re-reads all
// reviews of the product and writes the aggregates back; a full rescan per
// edit, acceptable at small review volumes.
package review

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"

	"shopcart-api/internal/domain"
)

var (
	ErrRatingOutOfRange = errors.New("rating must be between 0 and 5")
	ErrEmptyText        = errors.New("review text required")
)

type reviewRepo interface {
	Create(ctx context.Context, rv domain.Review) (*domain.Review, error)
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID string) ([]domain.Review, error)
	List(ctx context.Context) ([]domain.Review, error)
	Update(ctx context.Context, rv domain.Review) (*domain.Review, error)
	Delete(ctx context.Context, id string) error
}

type productRepo interface {
	UpdateAggregates(ctx context.Context, id string, rating float64, reviews int) error
}

type Service struct {
	reviews  reviewRepo
	products productRepo
}

func New(reviews reviewRepo, products productRepo) *Service {
	return &Service{reviews: reviews, products: products}
}

// Add creates a review and recomputes the product aggregates.
func (s *Service) Add(ctx context.Context, productID string, rating float64, text, user string) (*domain.Review, error) {
	if rating < 0 || rating > 5 {
		return nil, ErrRatingOutOfRange
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	rv, err := s.reviews.Create(ctx, domain.Review{
		ID:        uuid.NewString(),
		ProductID: productID,
		Rating:    rating,
		Text:      text,
		User:      user,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Recompute(ctx, productID); err != nil {
		return nil, err
	}
	return rv, nil
}

// Update edits an existing review (admin path) and recomputes aggregates
// for its product.
func (s *Service) Update(ctx context.Context, id string, rating float64, text, user string) (*domain.Review, error) {
	if rating < 0 || rating > 5 {
		return nil, ErrRatingOutOfRange
	}
	existing, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.reviews.Update(ctx, domain.Review{
		ID:     id,
		Rating: rating,
		Text:   text,
		User:   user,
	})
	if err != nil {
		return nil, err
	}
	if err := s.Recompute(ctx, existing.ProductID); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a review and recomputes aggregates for its product.
func (s *Service) Delete(ctx context.Context, id string) error {
	existing, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}
	return s.Recompute(ctx, existing.ProductID)
}

// ListByProduct returns all reviews of one product, newest first.
func (s *Service) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	return s.reviews.ListByProduct(ctx, productID)
}

// List returns every review (admin table).
func (s *Service) List(ctx context.Context) ([]domain.Review, error) {
	return s.reviews.List(ctx)
}

// Recompute rereads all reviews of the product and writes rating (mean,
// rounded to one decimal) and reviews (count) back to it.
func (s *Service) Recompute(ctx context.Context, productID string) error {
	reviews, err := s.reviews.ListByProduct(ctx, productID)
	if err != nil {
		return err
	}
	rating := 0.0
	if len(reviews) > 0 {
		var sum float64
		for _, rv := range reviews {
			sum += rv.Rating
		}
		rating = math.Round(sum/float64(len(reviews))*10) / 10
	}
	return s.products.UpdateAggregates(ctx, productID, rating, len(reviews))
}
