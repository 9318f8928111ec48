// File: internal/order/models.go
package order

import (
	"time"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/domain/apperrors"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/domain/money"
)

// Status is the order lifecycle state.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
	StatusRefunded   Status = "REFUNDED"
)

// allowedTransitions is the complete edge set of the status machine.
// CANCELLED and REFUNDED are terminal.
var allowedTransitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {StatusRefunded},
	StatusCancelled:  {},
	StatusRefunded:   {},
}

// ParseStatus validates a client-supplied status string.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if _, ok := allowedTransitions[s]; !ok {
		return "", apperrors.ErrValidation
	}
	return s, nil
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range allowedTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Order is a placed order. Item prices are snapshotted at creation, so
// later catalog edits never change what was billed. Orders are never hard
// deleted; cancellation is a status.
type Order struct {
	ID            int64       `json:"id"`
	OrderNumber   string      `json:"orderNumber"`
	UserID        int64       `json:"userId"`
	UserEmail     string      `json:"userEmail"`
	Status        Status      `json:"status"`
	Items         []OrderItem `json:"items"`
	SubtotalCents int64       `json:"subtotalCents"`
	TaxCents      int64       `json:"taxCents"`
	TotalCents    int64       `json:"totalCents"`
	Currency      string      `json:"currency"`
	ShippedAt     *time.Time  `json:"shippedAt,omitempty"`
	DeliveredAt   *time.Time  `json:"deliveredAt,omitempty"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// OrderItem is one snapshotted line of an order, immutable after creation.
type OrderItem struct {
	ID                 int64  `json:"id"`
	OrderID            int64  `json:"-"`
	ProductID          int64  `json:"productId"`
	ProductName        string `json:"productName"`
	ProductDescription string `json:"productDescription"`
	ProductImageURL    string `json:"productImageUrl"`
	Quantity           int    `json:"quantity"`
	PriceCents         int64  `json:"priceCents"`
	Currency           string `json:"currency"`
}

// LineTotalCents is quantity times the snapshotted unit price.
func (i OrderItem) LineTotalCents() int64 {
	return i.PriceCents * int64(i.Quantity)
}

// CalculateTotals rebuilds subtotal, tax and total from the items. Always a
// full recompute; incremental updates drift.
func (o *Order) CalculateTotals() {
	var subtotal int64
	for _, item := range o.Items {
		subtotal += item.LineTotalCents()
	}
	o.SubtotalCents = subtotal
	o.TaxCents = money.Tax(subtotal)
	o.TotalCents = subtotal + o.TaxCents
}

// CanBeCancelled reports whether the order is still early enough in its
// lifecycle to cancel.
func (o *Order) CanBeCancelled() bool {
	switch o.Status {
	case StatusPending, StatusConfirmed, StatusProcessing:
		return true
	default:
		return false
	}
}

// Transition moves the order to target, enforcing the edge table. Shipping
// and delivery timestamps are stamped on first entry into those states.
func (o *Order) Transition(target Status, now time.Time) error {
	if !o.Status.CanTransitionTo(target) {
		return apperrors.ErrInvalidStatusTransition
	}
	o.Status = target
	switch target {
	case StatusShipped:
		if o.ShippedAt == nil {
			o.ShippedAt = &now
		}
	case StatusDelivered:
		if o.DeliveredAt == nil {
			o.DeliveredAt = &now
		}
	}
	return nil
}

// Cancel is Transition(CANCELLED) behind the friendlier cancellability
// check, so callers get ErrOrderNotCancellable instead of a generic
// transition failure.
func (o *Order) Cancel(now time.Time) error {
	if !o.CanBeCancelled() {
		return apperrors.ErrOrderNotCancellable
	}
	return o.Transition(StatusCancelled, now)
}

type CreateOrderItemRequest struct {
	ProductID int64 `json:"productId" binding:"required,gt=0"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	Items []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListFilter narrows and pages an order listing for one user.
type ListFilter struct {
	Status   Status
	Search   string
	Page     int
	PageSize int
}

// ListResult is a page of orders.
type ListResult struct {
	Items    []Order `json:"items"`
	Total    int64   `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
}
