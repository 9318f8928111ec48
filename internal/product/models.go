// File: internal/product/models.go
package product

import "time"

// Product is a catalog entry. Prices are integer cents; float arithmetic
// never touches money.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl"`
	PriceCents  int64     `json:"priceCents"`
	Currency    string    `json:"currency"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreateProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	PriceCents  int64  `json:"priceCents" binding:"required,gt=0"`
	Currency    string `json:"currency"`
}

// UpdateProductRequest carries a partial update; nil fields are untouched.
type UpdateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
	PriceCents  *int64  `json:"priceCents"`
	Currency    *string `json:"currency"`
	IsActive    *bool   `json:"isActive"`
}

// ListFilter narrows the catalog listing. Zero values mean "no constraint".
type ListFilter struct {
	Search        string
	MinPriceCents int64
	MaxPriceCents int64
	Page          int
	PageSize      int
}

// ListResult is a page of the catalog.
type ListResult struct {
	Items    []Product `json:"items"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
}
