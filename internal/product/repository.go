// File: internal/product/repository.go
package product

import "context"

// Repository persists catalog entries.
type Repository interface {
	Create(ctx context.Context, p *Product) error
	// FindByID returns the product regardless of active state; callers decide
	// whether inactive products are visible.
	FindByID(ctx context.Context, id int64) (*Product, error)
	ListActive(ctx context.Context, filter ListFilter) ([]Product, int64, error)
	Update(ctx context.Context, p *Product) error
	// Deactivate soft-deletes the product. The row survives so historical
	// orders keep a valid reference.
	Deactivate(ctx context.Context, id int64) error
}
