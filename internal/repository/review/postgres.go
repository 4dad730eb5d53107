package review

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopcart-api/internal/domain"
)

const reviewColumns = `id::text, product_id::text, rating, text, user_name, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, rv domain.Review) (*domain.Review, error) {
	const q = `
INSERT INTO reviews (id, product_id, rating, text, user_name)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + reviewColumns + `
`
	return scanReview(r.pool.QueryRow(ctx, q, rv.ID, rv.ProductID, rv.Rating, rv.Text, rv.User))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	const q = `
SELECT ` + reviewColumns + `
FROM reviews
WHERE id = $1
`
	rv, err := scanReview(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return rv, nil
}

func (r *postgresRepo) ListByProduct(ctx context.Context, productID string) ([]domain.Review, error) {
	const q = `
SELECT ` + reviewColumns + `
FROM reviews
WHERE product_id = $1
ORDER BY created_at DESC
`
	return r.queryReviews(ctx, q, productID)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Review, error) {
	const q = `
SELECT ` + reviewColumns + `
FROM reviews
ORDER BY created_at DESC
`
	return r.queryReviews(ctx, q)
}

func (r *postgresRepo) Update(ctx context.Context, rv domain.Review) (*domain.Review, error) {
	const q = `
UPDATE reviews
SET rating = $2, text = $3, user_name = $4
WHERE id = $1
RETURNING ` + reviewColumns + `
`
	updated, err := scanReview(r.pool.QueryRow(ctx, q, rv.ID, rv.Rating, rv.Text, rv.User))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) queryReviews(ctx context.Context, q string, args ...interface{}) ([]domain.Review, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

func scanReview(row pgx.Row) (*domain.Review, error) {
	var rv domain.Review
	if err := row.Scan(
		&rv.ID,
		&rv.ProductID,
		&rv.Rating,
		&rv.Text,
		&rv.User,
		&rv.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &rv, nil
}
