// File: internal/order/repository.go
package order

import "context"

// Repository persists orders. Create writes the order and its items in one
// transaction; find methods return orders with items loaded.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	FindByNumber(ctx context.Context, orderNumber string, userID int64) (*Order, error)
	ListByUser(ctx context.Context, userID int64, filter ListFilter) ([]Order, int64, error)
	// UpdateStatus persists status and the ship/deliver timestamps together.
	UpdateStatus(ctx context.Context, o *Order) error
}
