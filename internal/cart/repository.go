// File: internal/cart/repository.go
package cart

import (
	"context"
	"time"
)

// Repository persists carts and their items. Find methods return the cart
// with items loaded.
type Repository interface {
	Create(ctx context.Context, c *Cart) error
	FindActiveByUser(ctx context.Context, userID int64) (*Cart, error)
	FindActiveBySession(ctx context.Context, sessionID string) (*Cart, error)
	UpdateStatus(ctx context.Context, cartID int64, status string) error
	UpdateTotals(ctx context.Context, c *Cart) error

	FindItem(ctx context.Context, cartID, productID int64) (*CartItem, error)
	InsertItem(ctx context.Context, item *CartItem) error
	UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) error
	DeleteItem(ctx context.Context, itemID int64) error
	DeleteItems(ctx context.Context, cartID int64) error
	ListItems(ctx context.Context, cartID int64) ([]CartItem, error)

	// MarkExpired flips ACTIVE carts whose TTL has elapsed to EXPIRED.
	MarkExpired(ctx context.Context) (int64, error)
	// PurgeOld deletes EXPIRED and ABANDONED carts not touched since the cutoff.
	PurgeOld(ctx context.Context, olderThan time.Duration) (int64, error)
}
