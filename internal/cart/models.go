// File: internal/cart/models.go
package cart

import "time"

// Cart statuses. ACTIVE carts accept mutations; every other status is
// terminal for the row, and the owner transparently gets a fresh cart.
const (
	StatusActive    = "ACTIVE"
	StatusCheckout  = "CHECKOUT"
	StatusCompleted = "COMPLETED"
	StatusExpired   = "EXPIRED"
	StatusAbandoned = "ABANDONED"
)

// Cart is a shopping cart owned by either a registered user or an anonymous
// session. Exactly one of UserID/SessionID identifies the owner for lookup;
// both may be set once a guest logs in. Tax is an order-level concern; cart
// totals are plain sums of the current items.
type Cart struct {
	ID              int64      `json:"id"`
	UserID          *int64     `json:"userId,omitempty"`
	SessionID       string     `json:"sessionId"`
	Status          string     `json:"status"`
	TotalItems      int        `json:"totalItems"`
	TotalPriceCents int64      `json:"totalPriceCents"`
	Currency        string     `json:"currency"`
	Items           []CartItem `json:"items"`
	ExpiresAt       time.Time  `json:"expiresAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// CartItem is one product line. Product name, image and unit price are
// snapshotted at add time.
type CartItem struct {
	ID              int64     `json:"id"`
	CartID          int64     `json:"-"`
	ProductID       int64     `json:"productId"`
	ProductName     string    `json:"productName"`
	ProductImageURL string    `json:"productImageUrl"`
	UnitPriceCents  int64     `json:"unitPriceCents"`
	Quantity        int       `json:"quantity"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// LineTotalCents is quantity times the snapshotted unit price.
func (i CartItem) LineTotalCents() int64 {
	return i.UnitPriceCents * int64(i.Quantity)
}

// IsExpired reports whether the cart's TTL has elapsed.
func (c *Cart) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// RecomputeTotals rebuilds totalItems and totalPriceCents from the items.
// Totals are always derived from the live item set, never incrementally
// patched, so repeated recomputation is idempotent.
func (c *Cart) RecomputeTotals() {
	var count int
	var total int64
	for _, item := range c.Items {
		count += item.Quantity
		total += item.LineTotalCents()
	}
	c.TotalItems = count
	c.TotalPriceCents = total
}

type AddItemRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// Owner identifies whose cart to operate on. UserID wins when present.
type Owner struct {
	UserID    *int64
	SessionID string
}
