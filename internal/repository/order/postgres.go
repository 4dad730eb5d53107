package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopcart-api/internal/domain"
)

const orderColumns = `id::text, user_id::text, user_email, user_name, items, delivery_address, applied_promo, pricing, payment_method, order_notes, status, created_at, updated_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, o domain.Order, promoID string) (*domain.Order, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return nil, fmt.Errorf("marshal items: %w", err)
	}
	address, err := json.Marshal(o.DeliveryAddress)
	if err != nil {
		return nil, fmt.Errorf("marshal address: %w", err)
	}
	var promo []byte
	if o.AppliedPromo != nil {
		promo, err = json.Marshal(o.AppliedPromo)
		if err != nil {
			return nil, fmt.Errorf("marshal promo: %w", err)
		}
	}
	pricing, err := json.Marshal(o.Pricing)
	if err != nil {
		return nil, fmt.Errorf("marshal pricing: %w", err)
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO orders (id, user_id, user_email, user_name, items, delivery_address, applied_promo, pricing, payment_method, order_notes, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + orderColumns + `
`
	row := tx.QueryRow(ctx, q,
		o.ID, o.UserID, o.UserEmail, o.UserName,
		items, address, promo, pricing,
		o.PaymentMethod, o.OrderNotes, o.Status,
	)
	created, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	if promoID != "" {
		cmd, err := tx.Exec(ctx, `
UPDATE promo_codes
SET usage_count = usage_count + 1, updated_at = now()
WHERE id = $1
`, promoID)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			return nil, domain.ErrNotFound
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	return r.queryOrders(ctx, q, userID)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Order, error) {
	const q = `
SELECT ` + orderColumns + `
FROM orders
ORDER BY created_at DESC
`
	return r.queryOrders(ctx, q)
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error) {
	const q = `
UPDATE orders
SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns + `
`
	o, err := scanOrder(r.pool.QueryRow(ctx, q, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) queryOrders(ctx context.Context, q string, args ...interface{}) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		o       domain.Order
		items   []byte
		address []byte
		promo   []byte
		pricing []byte
	)
	if err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.UserEmail,
		&o.UserName,
		&items,
		&address,
		&promo,
		&pricing,
		&o.PaymentMethod,
		&o.OrderNotes,
		&o.Status,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if err := json.Unmarshal(address, &o.DeliveryAddress); err != nil {
		return nil, fmt.Errorf("unmarshal address: %w", err)
	}
	if len(promo) > 0 {
		if err := json.Unmarshal(promo, &o.AppliedPromo); err != nil {
			return nil, fmt.Errorf("unmarshal promo: %w", err)
		}
	}
	if err := json.Unmarshal(pricing, &o.Pricing); err != nil {
		return nil, fmt.Errorf("unmarshal pricing: %w", err)
	}
	return &o, nil
}
