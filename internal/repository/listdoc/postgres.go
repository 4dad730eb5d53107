package listdoc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"shopcart-api/internal/domain"
)

// List kinds; one row per (user, kind).
const (
	kindCart      = "cart"
	kindFavorites = "favorites"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetCart(ctx context.Context, userID string) ([]domain.CartLine, error) {
	raw, err := r.get(ctx, userID, kindCart)
	if err != nil {
		return nil, err
	}
	var lines []domain.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *postgresRepo) PutCart(ctx context.Context, userID string, lines []domain.CartLine) error {
	if lines == nil {
		lines = []domain.CartLine{}
	}
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return r.put(ctx, userID, kindCart, raw)
}

func (r *postgresRepo) GetFavorites(ctx context.Context, userID string) ([]domain.FavoriteItem, error) {
	raw, err := r.get(ctx, userID, kindFavorites)
	if err != nil {
		return nil, err
	}
	var items []domain.FavoriteItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *postgresRepo) PutFavorites(ctx context.Context, userID string, items []domain.FavoriteItem) error {
	if items == nil {
		items = []domain.FavoriteItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return r.put(ctx, userID, kindFavorites, raw)
}

func (r *postgresRepo) DeleteAll(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM actor_lists WHERE user_id = $1`, userID)
	return err
}

func (r *postgresRepo) get(ctx context.Context, userID, kind string) ([]byte, error) {
	const q = `
SELECT items
FROM actor_lists
WHERE user_id = $1 AND kind = $2
`
	var raw []byte
	if err := r.pool.QueryRow(ctx, q, userID, kind).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return raw, nil
}

func (r *postgresRepo) put(ctx context.Context, userID, kind string, raw []byte) error {
	const q = `
INSERT INTO actor_lists (user_id, kind, items, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (user_id, kind) DO UPDATE
SET items = EXCLUDED.items,
    updated_at = now()
`
	_, err := r.pool.Exec(ctx, q, userID, kind, raw)
	return err
}
