// File: internal/cart/postgres/cart_repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/cart"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/domain/apperrors"
)

// CartRepository implements cart.Repository on PostgreSQL.
type CartRepository struct {
	pool *pgxpool.Pool
}

func NewCartRepository(pool *pgxpool.Pool) *CartRepository {
	return &CartRepository{pool: pool}
}

const cartColumns = `id, user_id, session_id, status, total_items, total_price_cents, currency, expires_at, created_at, updated_at`

func (r *CartRepository) Create(ctx context.Context, c *cart.Cart) error {
	query := `
		INSERT INTO carts (user_id, session_id, status, total_items, total_price_cents, currency, expires_at)
		VALUES ($1, $2, $3, 0, 0, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		c.UserID, c.SessionID, c.Status, c.Currency, c.ExpiresAt,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // one ACTIVE cart per session
			return fmt.Errorf("session already has an active cart: %w", apperrors.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create cart: %w", err)
	}
	return nil
}

func (r *CartRepository) FindActiveByUser(ctx context.Context, userID int64) (*cart.Cart, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM carts
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, cartColumns)
	return r.findOne(ctx, query, userID, cart.StatusActive)
}

func (r *CartRepository) FindActiveBySession(ctx context.Context, sessionID string) (*cart.Cart, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM carts
		WHERE session_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, cartColumns)
	return r.findOne(ctx, query, sessionID, cart.StatusActive)
}

func (r *CartRepository) findOne(ctx context.Context, query string, args ...any) (*cart.Cart, error) {
	c := &cart.Cart{}
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&c.ID, &c.UserID, &c.SessionID, &c.Status,
		&c.TotalItems, &c.TotalPriceCents, &c.Currency,
		&c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}

	items, err := r.ListItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	c.Items = items
	return c, nil
}

func (r *CartRepository) UpdateStatus(ctx context.Context, cartID int64, status string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE carts SET status = $1, updated_at = NOW() WHERE id = $2`, status, cartID)
	if err != nil {
		return fmt.Errorf("failed to update cart status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *CartRepository) UpdateTotals(ctx context.Context, c *cart.Cart) error {
	query := `
		UPDATE carts
		SET total_items = $1, total_price_cents = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		c.TotalItems, c.TotalPriceCents, c.ID,
	).Scan(&c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to update cart totals: %w", err)
	}
	return nil
}

func (r *CartRepository) FindItem(ctx context.Context, cartID, productID int64) (*cart.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, product_name, product_image_url, unit_price_cents, quantity, created_at, updated_at
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2
	`
	item := &cart.CartItem{}
	err := r.pool.QueryRow(ctx, query, cartID, productID).Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.ProductName, &item.ProductImageURL,
		&item.UnitPriceCents, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cart item: %w", err)
	}
	return item, nil
}

func (r *CartRepository) InsertItem(ctx context.Context, item *cart.CartItem) error {
	query := `
		INSERT INTO cart_items (cart_id, product_id, product_name, product_image_url, unit_price_cents, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		item.CartID, item.ProductID, item.ProductName, item.ProductImageURL,
		item.UnitPriceCents, item.Quantity,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique (cart_id, product_id)
			return fmt.Errorf("product already in cart: %w", apperrors.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to insert cart item: %w", err)
	}
	return nil
}

func (r *CartRepository) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $1, updated_at = NOW() WHERE id = $2`, quantity, itemID)
	if err != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *CartRepository) DeleteItem(ctx context.Context, itemID int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *CartRepository) DeleteItems(ctx context.Context, cartID int64) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}
	return nil
}

func (r *CartRepository) ListItems(ctx context.Context, cartID int64) ([]cart.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, product_name, product_image_url, unit_price_cents, quantity, created_at, updated_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []cart.CartItem{}
	for rows.Next() {
		var item cart.CartItem
		if err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.ProductName, &item.ProductImageURL,
			&item.UnitPriceCents, &item.Quantity, &item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cart items: %w", err)
	}
	return items, nil
}

func (r *CartRepository) MarkExpired(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `
		UPDATE carts SET status = $1, updated_at = NOW()
		WHERE status = $2 AND expires_at < NOW()
	`, cart.StatusExpired, cart.StatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to mark expired carts: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *CartRepository) PurgeOld(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)
	result, err := r.pool.Exec(ctx, `
		DELETE FROM carts
		WHERE status IN ($1, $2) AND updated_at < $3
	`, cart.StatusExpired, cart.StatusAbandoned, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge carts: %w", err)
	}
	return result.RowsAffected(), nil
}

var _ cart.Repository = (*CartRepository)(nil)
