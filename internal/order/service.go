// File: internal/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/domain/apperrors"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/order/events"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/platform/middleware"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/product/client"
)

const (
	defaultCurrency  = "GTQ"
	defaultPageSize  = 20
	maxPageSize      = 100
	maxCreateRetries = 3
)

// Service implements order creation, lookup and lifecycle transitions.
type Service struct {
	repo         Repository
	products     client.Getter
	publisher    events.Publisher
	numberPrefix string
	numberLength int
	logger       *zap.Logger
}

func NewService(repo Repository, products client.Getter, publisher events.Publisher, numberPrefix string, numberLength int, logger *zap.Logger) *Service {
	return &Service{
		repo:         repo,
		products:     products,
		publisher:    publisher,
		numberPrefix: numberPrefix,
		numberLength: numberLength,
		logger:       logger,
	}
}

// Create places an order for the identified user. Every line is snapshotted
// from the catalog; an unknown or inactive product rejects the whole order.
// The order number is derived from the creation timestamp, so a collision
// with a concurrent order is possible and handled by retrying with a fresh
// number.
func (s *Service) Create(ctx context.Context, ident middleware.Identity, req CreateOrderRequest) (*Order, error) {
	items := make([]OrderItem, 0, len(req.Items))
	for _, line := range req.Items {
		snap, err := s.products.GetProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, apperrors.ErrProductUnavailable) {
				return nil, fmt.Errorf("product %d: %w", line.ProductID, apperrors.ErrProductUnavailable)
			}
			return nil, err
		}
		items = append(items, OrderItem{
			ProductID:          snap.ID,
			ProductName:        snap.Name,
			ProductDescription: snap.Description,
			ProductImageURL:    snap.ImageURL,
			Quantity:           line.Quantity,
			PriceCents:         snap.PriceCents,
			Currency:           snap.Currency,
		})
	}

	o := &Order{
		UserID:    ident.UserID,
		UserEmail: ident.Email,
		Status:    StatusPending,
		Items:     items,
		Currency:  defaultCurrency,
	}
	o.CalculateTotals()

	var err error
	for attempt := 0; attempt < maxCreateRetries; attempt++ {
		o.OrderNumber = s.generateNumber(time.Now(), attempt)
		err = s.repo.Create(ctx, o)
		if err == nil {
			break
		}
		if !errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, err
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to allocate order number: %w", err)
	}

	s.publish(ctx, events.OrderEvent{
		Type:        events.TypeOrderCreated,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Status:      string(o.Status),
		TotalCents:  o.TotalCents,
		OccurredAt:  time.Now(),
	})

	s.logger.Info("order created",
		zap.String("order_number", o.OrderNumber),
		zap.Int64("user_id", o.UserID),
		zap.Int64("total_cents", o.TotalCents),
	)
	return o, nil
}

// Get returns one of the user's orders. A number belonging to another user
// is indistinguishable from a number that does not exist.
func (s *Service) Get(ctx context.Context, ident middleware.Identity, orderNumber string) (*Order, error) {
	return s.repo.FindByNumber(ctx, orderNumber, ident.UserID)
}

// List returns a page of the user's orders, optionally filtered by status
// or an order-number search.
func (s *Service) List(ctx context.Context, ident middleware.Identity, filter ListFilter) (ListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}

	items, total, err := s.repo.ListByUser(ctx, ident.UserID, filter)
	if err != nil {
		return ListResult{}, err
	}
	if items == nil {
		items = []Order{}
	}
	return ListResult{Items: items, Total: total, Page: filter.Page, PageSize: filter.PageSize}, nil
}

// UpdateStatus moves the order along the status machine.
func (s *Service) UpdateStatus(ctx context.Context, ident middleware.Identity, orderNumber, rawStatus string) (*Order, error) {
	target, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("unknown status %q: %w", rawStatus, apperrors.ErrValidation)
	}

	o, err := s.repo.FindByNumber(ctx, orderNumber, ident.UserID)
	if err != nil {
		return nil, err
	}

	if err := o.Transition(target, time.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}

	s.publish(ctx, events.OrderEvent{
		Type:        events.TypeOrderStatusChanged,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Status:      string(o.Status),
		TotalCents:  o.TotalCents,
		OccurredAt:  time.Now(),
	})

	s.logger.Info("order status updated",
		zap.String("order_number", o.OrderNumber),
		zap.String("status", string(o.Status)),
	)
	return o, nil
}

// Cancel cancels the order if it has not shipped yet.
func (s *Service) Cancel(ctx context.Context, ident middleware.Identity, orderNumber string) (*Order, error) {
	o, err := s.repo.FindByNumber(ctx, orderNumber, ident.UserID)
	if err != nil {
		return nil, err
	}

	if err := o.Cancel(time.Now()); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, o); err != nil {
		return nil, err
	}

	s.publish(ctx, events.OrderEvent{
		Type:        events.TypeOrderCancelled,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Status:      string(o.Status),
		TotalCents:  o.TotalCents,
		OccurredAt:  time.Now(),
	})

	s.logger.Info("order cancelled", zap.String("order_number", o.OrderNumber))
	return o, nil
}

// generateNumber builds a prefixed, fixed-width number from the creation
// timestamp. The timestamp is lossily compressed to the digits that fit, so
// the attempt offset perturbs retries after a collision.
func (s *Service) generateNumber(now time.Time, attempt int) string {
	digits := s.numberLength - len(s.numberPrefix)
	if digits < 1 {
		digits = 5
	}
	mod := int64(1)
	for i := 0; i < digits; i++ {
		mod *= 10
	}
	value := (now.UnixMilli() + int64(attempt)) % mod
	return fmt.Sprintf("%s%0*d", s.numberPrefix, digits, value)
}

// publish sends the event best-effort. A broker outage must not fail the
// order operation that already committed.
func (s *Service) publish(ctx context.Context, event events.OrderEvent) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("type", event.Type),
			zap.String("order_number", event.OrderNumber),
			zap.Error(err),
		)
	}
}
