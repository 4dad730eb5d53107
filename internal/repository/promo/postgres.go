package promo

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopcart-api/internal/domain"
)

const promoColumns = `id::text, code, discount_percent, description, min_order_amount, expires_at, is_active, usage_limit, usage_count, created_at, updated_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.PromoCode, error) {
	const q = `
SELECT ` + promoColumns + `
FROM promo_codes
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promos []domain.PromoCode
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, err
		}
		promos = append(promos, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return promos, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.PromoCode, error) {
	const q = `
SELECT ` + promoColumns + `
FROM promo_codes
WHERE id = $1
`
	return r.getOne(ctx, q, id)
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	const q = `
SELECT ` + promoColumns + `
FROM promo_codes
WHERE code = $1
`
	return r.getOne(ctx, q, strings.ToUpper(strings.TrimSpace(code)))
}

func (r *postgresRepo) Create(ctx context.Context, p domain.PromoCode) (*domain.PromoCode, error) {
	const q = `
INSERT INTO promo_codes (id, code, discount_percent, description, min_order_amount, expires_at, is_active, usage_limit, usage_count)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
RETURNING ` + promoColumns + `
`
	row := r.pool.QueryRow(ctx, q,
		p.ID, p.Code, p.DiscountPercent, p.Description, p.MinOrderAmount,
		p.ExpiresAt, p.IsActive, p.UsageLimit, p.UsageCount,
	)
	created, err := scanPromo(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.PromoCode) (*domain.PromoCode, error) {
	const q = `
UPDATE promo_codes
SET code = $2, discount_percent = $3, description = $4, min_order_amount = $5,
    expires_at = $6, is_active = $7, usage_limit = $8, updated_at = now()
WHERE id = $1
RETURNING ` + promoColumns + `
`
	row := r.pool.QueryRow(ctx, q,
		p.ID, p.Code, p.DiscountPercent, p.Description, p.MinOrderAmount,
		p.ExpiresAt, p.IsActive, p.UsageLimit,
	)
	updated, err := scanPromo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, domain.ErrConflict
		}
		return nil, err
	}
	return updated, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM promo_codes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) getOne(ctx context.Context, q string, arg interface{}) (*domain.PromoCode, error) {
	p, err := scanPromo(r.pool.QueryRow(ctx, q, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanPromo(row pgx.Row) (*domain.PromoCode, error) {
	var p domain.PromoCode
	if err := row.Scan(
		&p.ID,
		&p.Code,
		&p.DiscountPercent,
		&p.Description,
		&p.MinOrderAmount,
		&p.ExpiresAt,
		&p.IsActive,
		&p.UsageLimit,
		&p.UsageCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
