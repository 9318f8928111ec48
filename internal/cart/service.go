// File: internal/cart/service.go
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/domain/apperrors"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/product/client"
)

const defaultCurrency = "GTQ"

// Service implements the cart operations. Every mutation ends with a full
// totals recompute so the stored totals always match the stored items.
type Service struct {
	repo     Repository
	products client.Getter
	ttl      time.Duration
	logger   *zap.Logger
}

func NewService(repo Repository, products client.Getter, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{repo: repo, products: products, ttl: ttl, logger: logger}
}

// Get returns the owner's active cart, creating an empty one when none
// exists. An expired cart is flipped to EXPIRED and replaced transparently;
// the caller never sees stale contents.
func (s *Service) Get(ctx context.Context, owner Owner) (*Cart, error) {
	return s.getOrCreate(ctx, owner)
}

// AddItem adds a product to the cart, snapshotting name, image and price
// from the catalog. Adding a product already in the cart increments its
// quantity instead of creating a second line.
func (s *Service) AddItem(ctx context.Context, owner Owner, req AddItemRequest) (*Cart, error) {
	c, err := s.getOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}

	snap, err := s.products.GetProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindItem(ctx, c.ID, req.ProductID)
	switch {
	case err == nil:
		if err := s.repo.UpdateItemQuantity(ctx, existing.ID, existing.Quantity+req.Quantity); err != nil {
			return nil, err
		}
	case errors.Is(err, apperrors.ErrNotFound):
		item := &CartItem{
			CartID:          c.ID,
			ProductID:       snap.ID,
			ProductName:     snap.Name,
			ProductImageURL: snap.ImageURL,
			UnitPriceCents:  snap.PriceCents,
			Quantity:        req.Quantity,
		}
		if err := s.repo.InsertItem(ctx, item); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.refreshTotals(ctx, c)
}

// UpdateQuantity sets the quantity of a cart line. A quantity of zero or
// less removes the line.
func (s *Service) UpdateQuantity(ctx context.Context, owner Owner, productID int64, quantity int) (*Cart, error) {
	c, err := s.getOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindItem(ctx, c.ID, productID)
	if err != nil {
		return nil, err
	}

	if quantity <= 0 {
		if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
			return nil, err
		}
	} else {
		if err := s.repo.UpdateItemQuantity(ctx, item.ID, quantity); err != nil {
			return nil, err
		}
	}

	return s.refreshTotals(ctx, c)
}

// RemoveItem deletes one product line from the cart.
func (s *Service) RemoveItem(ctx context.Context, owner Owner, productID int64) (*Cart, error) {
	c, err := s.getOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindItem(ctx, c.ID, productID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItem(ctx, item.ID); err != nil {
		return nil, err
	}

	return s.refreshTotals(ctx, c)
}

// Clear removes every item, leaving an empty active cart.
func (s *Service) Clear(ctx context.Context, owner Owner) (*Cart, error) {
	c, err := s.getOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := s.repo.DeleteItems(ctx, c.ID); err != nil {
		return nil, err
	}
	return s.refreshTotals(ctx, c)
}

// Checkout closes the cart. An empty cart cannot be checked out. The next
// Get creates a fresh cart for the owner.
func (s *Service) Checkout(ctx context.Context, owner Owner) (*Cart, error) {
	c, err := s.getOrCreate(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, fmt.Errorf("cart is empty: %w", apperrors.ErrValidation)
	}

	if err := s.repo.UpdateStatus(ctx, c.ID, StatusCheckout); err != nil {
		return nil, err
	}
	c.Status = StatusCheckout

	s.logger.Info("cart checked out",
		zap.Int64("cart_id", c.ID),
		zap.Int64("total_price_cents", c.TotalPriceCents),
	)
	return c, nil
}

// Sweep is the periodic maintenance pass: expire overdue active carts and
// purge dead carts past the retention window.
func (s *Service) Sweep(purgeAfter time.Duration) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		expired, err := s.repo.MarkExpired(ctx)
		if err != nil {
			return fmt.Errorf("failed to expire carts: %w", err)
		}
		purged, err := s.repo.PurgeOld(ctx, purgeAfter)
		if err != nil {
			return fmt.Errorf("failed to purge carts: %w", err)
		}
		if expired > 0 || purged > 0 {
			s.logger.Info("cart sweep", zap.Int64("expired", expired), zap.Int64("purged", purged))
		}
		return nil
	}
}

func (s *Service) getOrCreate(ctx context.Context, owner Owner) (*Cart, error) {
	c, err := s.findActive(ctx, owner)
	switch {
	case err == nil:
		if !c.IsExpired(time.Now()) {
			return c, nil
		}
		// TTL elapsed between sweeps. Retire the row and fall through to a
		// fresh cart.
		if err := s.repo.UpdateStatus(ctx, c.ID, StatusExpired); err != nil {
			return nil, err
		}
	case errors.Is(err, apperrors.ErrNotFound):
		// no active cart yet
	default:
		return nil, err
	}

	return s.create(ctx, owner)
}

func (s *Service) findActive(ctx context.Context, owner Owner) (*Cart, error) {
	if owner.UserID != nil {
		return s.repo.FindActiveByUser(ctx, *owner.UserID)
	}
	if owner.SessionID == "" {
		return nil, apperrors.ErrNotFound
	}
	return s.repo.FindActiveBySession(ctx, owner.SessionID)
}

func (s *Service) create(ctx context.Context, owner Owner) (*Cart, error) {
	sessionID := owner.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	c := &Cart{
		UserID:    owner.UserID,
		SessionID: sessionID,
		Status:    StatusActive,
		Currency:  defaultCurrency,
		Items:     []CartItem{},
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.logger.Info("cart created", zap.Int64("cart_id", c.ID), zap.String("session_id", sessionID))
	return c, nil
}

// refreshTotals reloads the items, recomputes totals and persists them.
func (s *Service) refreshTotals(ctx context.Context, c *Cart) (*Cart, error) {
	items, err := s.repo.ListItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []CartItem{}
	}
	c.Items = items
	c.RecomputeTotals()
	if err := s.repo.UpdateTotals(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
