// File: internal/cart/service_test.go
package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/domain/apperrors"
	"github.com/Allan-Sanchez/prueba-tecnica-blautech/internal/product/client"
)

// mockCartRepo is an in-memory cart.Repository.
type mockCartRepo struct {
	carts      map[int64]*Cart
	items      map[int64]*CartItem
	nextCartID int64
	nextItemID int64
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{
		carts:      map[int64]*Cart{},
		items:      map[int64]*CartItem{},
		nextCartID: 1,
		nextItemID: 1,
	}
}

func (m *mockCartRepo) Create(_ context.Context, c *Cart) error {
	// Mirrors the partial unique index: one ACTIVE cart per session.
	for _, existing := range m.carts {
		if existing.Status == StatusActive && existing.SessionID == c.SessionID {
			return apperrors.ErrAlreadyExists
		}
	}
	c.ID = m.nextCartID
	m.nextCartID++
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	copied := *c
	m.carts[c.ID] = &copied
	return nil
}

func (m *mockCartRepo) FindActiveByUser(ctx context.Context, userID int64) (*Cart, error) {
	for _, c := range m.carts {
		if c.Status == StatusActive && c.UserID != nil && *c.UserID == userID {
			return m.withItems(ctx, c)
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCartRepo) FindActiveBySession(ctx context.Context, sessionID string) (*Cart, error) {
	for _, c := range m.carts {
		if c.Status == StatusActive && c.SessionID == sessionID {
			return m.withItems(ctx, c)
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCartRepo) withItems(ctx context.Context, c *Cart) (*Cart, error) {
	copied := *c
	items, err := m.ListItems(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	copied.Items = items
	return &copied, nil
}

func (m *mockCartRepo) UpdateStatus(_ context.Context, cartID int64, status string) error {
	c, ok := m.carts[cartID]
	if !ok {
		return apperrors.ErrNotFound
	}
	c.Status = status
	return nil
}

func (m *mockCartRepo) UpdateTotals(_ context.Context, c *Cart) error {
	stored, ok := m.carts[c.ID]
	if !ok {
		return apperrors.ErrNotFound
	}
	stored.TotalItems = c.TotalItems
	stored.TotalPriceCents = c.TotalPriceCents
	return nil
}

func (m *mockCartRepo) FindItem(_ context.Context, cartID, productID int64) (*CartItem, error) {
	for _, item := range m.items {
		if item.CartID == cartID && item.ProductID == productID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockCartRepo) InsertItem(_ context.Context, item *CartItem) error {
	for _, existing := range m.items {
		if existing.CartID == item.CartID && existing.ProductID == item.ProductID {
			return apperrors.ErrAlreadyExists
		}
	}
	item.ID = m.nextItemID
	m.nextItemID++
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *mockCartRepo) UpdateItemQuantity(_ context.Context, itemID int64, quantity int) error {
	item, ok := m.items[itemID]
	if !ok {
		return apperrors.ErrNotFound
	}
	item.Quantity = quantity
	return nil
}

func (m *mockCartRepo) DeleteItem(_ context.Context, itemID int64) error {
	if _, ok := m.items[itemID]; !ok {
		return apperrors.ErrNotFound
	}
	delete(m.items, itemID)
	return nil
}

func (m *mockCartRepo) DeleteItems(_ context.Context, cartID int64) error {
	for id, item := range m.items {
		if item.CartID == cartID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *mockCartRepo) ListItems(_ context.Context, cartID int64) ([]CartItem, error) {
	items := []CartItem{}
	for _, item := range m.items {
		if item.CartID == cartID {
			items = append(items, *item)
		}
	}
	return items, nil
}

func (m *mockCartRepo) MarkExpired(_ context.Context) (int64, error) {
	var count int64
	now := time.Now()
	for _, c := range m.carts {
		if c.Status == StatusActive && now.After(c.ExpiresAt) {
			c.Status = StatusExpired
			count++
		}
	}
	return count, nil
}

func (m *mockCartRepo) PurgeOld(_ context.Context, olderThan time.Duration) (int64, error) {
	var count int64
	cutoff := time.Now().Add(-olderThan)
	for id, c := range m.carts {
		if (c.Status == StatusExpired || c.Status == StatusAbandoned) && c.UpdatedAt.Before(cutoff) {
			delete(m.carts, id)
			count++
		}
	}
	return count, nil
}

// mockProducts serves snapshots from a fixed map.
type mockProducts struct {
	products map[int64]client.Snapshot
}

func (m *mockProducts) GetProduct(_ context.Context, id int64) (*client.Snapshot, error) {
	snap, ok := m.products[id]
	if !ok || !snap.IsActive {
		return nil, apperrors.ErrProductUnavailable
	}
	return &snap, nil
}

func newTestCartService(t *testing.T) (*Service, *mockCartRepo) {
	t.Helper()
	repo := newMockCartRepo()
	products := &mockProducts{products: map[int64]client.Snapshot{
		5: {ID: 5, Name: "Keyboard", PriceCents: 2500, Currency: "GTQ", IsActive: true},
		7: {ID: 7, Name: "Mouse", PriceCents: 1200, Currency: "GTQ", IsActive: true},
		9: {ID: 9, Name: "Retired", PriceCents: 900, Currency: "GTQ", IsActive: false},
	}}
	return NewService(repo, products, 30*24*time.Hour, zap.NewNop()), repo
}

func userOwner(id int64) Owner {
	return Owner{UserID: &id}
}

func TestGetCreatesCartLazily(t *testing.T) {
	svc, _ := newTestCartService(t)

	c, err := svc.Get(context.Background(), userOwner(1))
	require.NoError(t, err)
	assert.Equal(t, StatusActive, c.Status)
	assert.Empty(t, c.Items)
	assert.NotEmpty(t, c.SessionID)
	assert.Zero(t, c.TotalItems)
	assert.Zero(t, c.TotalPriceCents)
}

func TestGetReturnsSameCart(t *testing.T) {
	svc, _ := newTestCartService(t)
	ctx := context.Background()

	first, err := svc.Get(ctx, userOwner(1))
	require.NoError(t, err)
	second, err := svc.Get(ctx, userOwner(1))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestAddItemMergesQuantity(t *testing.T) {
	svc, _ := newTestCartService(t)
	ctx := context.Background()
	owner := userOwner(1)

	_, err := svc.AddItem(ctx, owner, AddItemRequest{ProductID: 5, Quantity: 1})
	require.NoError(t, err)

	c, err := svc.AddItem(ctx, owner, AddItemRequest{ProductID: 5, Quantity: 2})
	require.NoError(t, err)

	// One row with quantity 3, not two rows.
	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
	assert.Equal(t, 3, c.TotalItems)
	assert.Equal(t, int64(7500), c.TotalPriceCents)
}

func TestAddItemSnapshotsProduct(t *testing.T) {
	svc, _ := newTestCartService(t)

	c, err := svc.AddItem(context.Background(), userOwner(1), AddItemRequest{ProductID: 7, Quantity: 2})
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, "Mouse", c.Items[0].ProductName)
	assert.Equal(t, int64(1200), c.Items[0].UnitPriceCents)
	assert.Equal(t, int64(2400), c.TotalPriceCents)
}

func TestAddItemUnavailableProduct(t *testing.T) {
	svc, _ := newTestCartService(t)

	_, err := svc.AddItem(context.Background(), userOwner(1), AddItemRequest{ProductID: 9, Quantity: 1})
	assert.ErrorIs(t, err, apperrors.ErrProductUnavailable)

	_, err = svc.AddItem(context.Background(), userOwner(1), AddItemRequest{ProductID: 404, Quantity: 1})
	assert.ErrorIs(t, err, apperrors.ErrProductUnavailable)
}

func TestUpdateQuantity(t *testing.T) {
	svc, _ := newTestCartService(t)
	ctx := context.Background()
	owner := userOwner(1)

	_, err := svc.AddItem(ctx, owner, AddItemRequest{ProductID: 5, Quantity: 3})
	require.NoError(t, err)

	c, err := svc.UpdateQuantity(ctx, owner, 5, 1)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 1, c.Items[0].Quantity)
	assert.Equal(t, int64(2500), c.TotalPriceCents)
}

func TestUpdateQuantityZeroDeletesItem(t *testing.T) {
	svc, _ := newTestCartService(t)
	ctx := context.Background()
	owner := userOwner(1)

	_, err := svc.AddItem(ctx, owner, AddItemRequest{ProductID: 5, Quantity: 3})
	require.NoError(t, err)

	c, err := svc.UpdateQuantity(ctx, owner, 5, 0)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Zero(t, c.TotalItems)
	assert.Zero(t, c.TotalPriceCents)
}

func TestRemoveItemRecomputesTotals(t *testing.T) {
	svc, _ := newTestCartService(t)
	ctx := context.Background()
	owner := userOwner(1)

	_, err := svc.AddItem(ctx, owner, AddItemRequest{ProductID: 5, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, owner, AddItemRequest{ProductID: 7, Quantity: 2})
	require.NoError(t, err)

	c, err := svc.RemoveItem(ctx, owner, 5)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, int64(7), c.Items[0].ProductID)
	assert.Equal(t, 2, c.TotalItems)
	assert.Equal(t, int64(2400), c.TotalPriceCents)
}

func TestClear(t *testing.T) {
	svc, _ := newTestCartService(t)
	ctx := context.Background()
	owner := userOwner(1)

	_, err := svc.AddItem(ctx, owner, AddItemRequest{ProductID: 5, Quantity: 2})
	require.NoError(t, err)

	c, err := svc.Clear(ctx, owner)
	require.NoError(t, err)
	assert.Empty(t, c.Items)
	assert.Equal(t, StatusActive, c.Status)
	assert.Zero(t, c.TotalPriceCents)
}

func TestExpiredCartIsReplacedTransparently(t *testing.T) {
	svc, repo := newTestCartService(t)
	ctx := context.Background()
	owner := userOwner(1)

	stale, err := svc.AddItem(ctx, owner, AddItemRequest{ProductID: 5, Quantity: 2})
	require.NoError(t, err)

	// Force the TTL into the past.
	repo.carts[stale.ID].ExpiresAt = time.Now().Add(-time.Minute)

	fresh, err := svc.Get(ctx, owner)
	require.NoError(t, err)
	assert.NotEqual(t, stale.ID, fresh.ID)
	assert.Empty(t, fresh.Items)
	assert.Equal(t, StatusExpired, repo.carts[stale.ID].Status)
}

func TestCheckout(t *testing.T) {
	svc, _ := newTestCartService(t)
	ctx := context.Background()
	owner := userOwner(1)

	_, err := svc.AddItem(ctx, owner, AddItemRequest{ProductID: 5, Quantity: 1})
	require.NoError(t, err)

	c, err := svc.Checkout(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, StatusCheckout, c.Status)

	// The checked-out cart is no longer the active one.
	next, err := svc.Get(ctx, owner)
	require.NoError(t, err)
	assert.NotEqual(t, c.ID, next.ID)
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc, _ := newTestCartService(t)

	_, err := svc.Checkout(context.Background(), userOwner(1))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGuestCartBySession(t *testing.T) {
	svc, _ := newTestCartService(t)
	ctx := context.Background()

	first, err := svc.AddItem(ctx, Owner{}, AddItemRequest{ProductID: 5, Quantity: 1})
	require.NoError(t, err)
	require.NotEmpty(t, first.SessionID)

	// Returning with the minted session id reaches the same cart.
	second, err := svc.Get(ctx, Owner{SessionID: first.SessionID})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	require.Len(t, second.Items, 1)
}

func TestGuestExpiredCartReplacedOnSameSession(t *testing.T) {
	svc, repo := newTestCartService(t)
	ctx := context.Background()

	stale, err := svc.AddItem(ctx, Owner{}, AddItemRequest{ProductID: 5, Quantity: 2})
	require.NoError(t, err)
	owner := Owner{SessionID: stale.SessionID}

	repo.carts[stale.ID].ExpiresAt = time.Now().Add(-time.Minute)

	// The retired row keeps the session id; the replacement must still insert.
	fresh, err := svc.Get(ctx, owner)
	require.NoError(t, err)
	assert.NotEqual(t, stale.ID, fresh.ID)
	assert.Equal(t, stale.SessionID, fresh.SessionID)
	assert.Empty(t, fresh.Items)
	assert.Equal(t, StatusExpired, repo.carts[stale.ID].Status)
}

func TestGuestCheckoutThenFreshCartOnSameSession(t *testing.T) {
	svc, _ := newTestCartService(t)
	ctx := context.Background()

	first, err := svc.AddItem(ctx, Owner{}, AddItemRequest{ProductID: 5, Quantity: 1})
	require.NoError(t, err)
	owner := Owner{SessionID: first.SessionID}

	checked, err := svc.Checkout(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, StatusCheckout, checked.Status)

	next, err := svc.Get(ctx, owner)
	require.NoError(t, err)
	assert.NotEqual(t, checked.ID, next.ID)
	assert.Equal(t, first.SessionID, next.SessionID)
	assert.Empty(t, next.Items)
}

func TestSweep(t *testing.T) {
	svc, repo := newTestCartService(t)
	ctx := context.Background()

	live, err := svc.Get(ctx, userOwner(1))
	require.NoError(t, err)

	overdue, err := svc.Get(ctx, userOwner(2))
	require.NoError(t, err)
	repo.carts[overdue.ID].ExpiresAt = time.Now().Add(-time.Hour)

	dead, err := svc.Get(ctx, userOwner(3))
	require.NoError(t, err)
	repo.carts[dead.ID].Status = StatusExpired
	repo.carts[dead.ID].UpdatedAt = time.Now().Add(-10 * 24 * time.Hour)

	require.NoError(t, svc.Sweep(7*24*time.Hour)(ctx))

	assert.Equal(t, StatusActive, repo.carts[live.ID].Status)
	assert.Equal(t, StatusExpired, repo.carts[overdue.ID].Status)
	assert.NotContains(t, repo.carts, dead.ID)
}
