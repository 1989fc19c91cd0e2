package cartrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kingjawir/marketplace/core/repositories"
	"github.com/kingjawir/marketplace/core/repositories/cartrepo"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	stock   map[string]int
	items   map[string]cartrepo.CartItem
	deleted []string
}

func newMemStore() *memStore {
	return &memStore{
		stock: map[string]int{"kopi": 5},
		items: map[string]cartrepo.CartItem{},
	}
}

func (m *memStore) List(ctx context.Context, userID string) ([]cartrepo.CartLine, error) {
	return nil, nil
}

func (m *memStore) Get(ctx context.Context, userID, id string) (cartrepo.CartItem, error) {
	it, ok := m.items[id]
	if !ok || it.UserID != userID {
		return cartrepo.CartItem{}, cartrepo.ErrCartItemNotFound
	}
	return it, nil
}

func (m *memStore) GetByProduct(ctx context.Context, userID, productID string) (cartrepo.CartItem, error) {
	for _, it := range m.items {
		if it.UserID == userID && it.ProductID == productID {
			return it, nil
		}
	}
	return cartrepo.CartItem{}, cartrepo.ErrCartItemNotFound
}

func (m *memStore) ProductStock(ctx context.Context, productID string) (int, error) {
	s, ok := m.stock[productID]
	if !ok {
		return 0, cartrepo.ErrProductNotFound
	}
	return s, nil
}

func (m *memStore) Upsert(ctx context.Context, userID, productID string, qty int) (cartrepo.CartItem, error) {
	id := userID + "/" + productID
	it := m.items[id]
	it.CartItemID, it.UserID, it.ProductID = id, userID, productID
	it.Quantity += qty
	m.items[id] = it
	return it, nil
}

func (m *memStore) SetQuantity(ctx context.Context, id string, qty int) (cartrepo.CartItem, error) {
	it := m.items[id]
	it.Quantity = qty
	m.items[id] = it
	return it, nil
}

func (m *memStore) Delete(ctx context.Context, userID, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.items, id)
	return nil
}

func (m *memStore) Clear(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

func TestAddCountsExistingQuantity(t *testing.T) {
	m := newMemStore()
	repo := cartrepo.NewRepository(logger.NewDiscard(), m)
	ctx := context.Background()

	it, err := repo.Add(ctx, "u1", "kopi", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, it.Quantity)

	_, err = repo.Add(ctx, "u1", "kopi", 3)
	var stockErr *cartrepo.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 5, stockErr.Available)
	assert.Equal(t, 3, stockErr.InCart)
	assert.ErrorIs(t, err, repositories.ErrInvalid)

	it, err = repo.Add(ctx, "u1", "kopi", 2)
	require.NoError(t, err)
	assert.Equal(t, 5, it.Quantity)

	_, err = repo.Add(ctx, "u1", "teh", 1)
	assert.ErrorIs(t, err, cartrepo.ErrProductNotFound)

	_, err = repo.Add(ctx, "u1", "kopi", 0)
	assert.ErrorIs(t, err, cartrepo.ErrInvalidQuantity)
}

func TestUpdateRemovesOnZero(t *testing.T) {
	m := newMemStore()
	m.items["a"] = cartrepo.CartItem{CartItemID: "a", UserID: "u1", ProductID: "kopi", Quantity: 1}
	repo := cartrepo.NewRepository(logger.NewDiscard(), m)
	ctx := context.Background()

	_, removed, err := repo.Update(ctx, "u1", "a", 9)
	var stockErr *cartrepo.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.False(t, removed)

	it, removed, err := repo.Update(ctx, "u1", "a", 4)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Equal(t, 4, it.Quantity)

	_, removed, err = repo.Update(ctx, "u1", "a", 0)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, []string{"a"}, m.deleted)

	_, _, err = repo.Update(ctx, "u2", "a", 1)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestNewCartTotals(t *testing.T) {
	cart := cartrepo.NewCart([]cartrepo.CartLine{
		{CartItem: cartrepo.CartItem{Quantity: 2}, Price: 15000},
		{CartItem: cartrepo.CartItem{Quantity: 1}, Price: 7500},
	})
	assert.Equal(t, 3, cart.TotalItems)
	assert.Equal(t, int64(37500), cart.TotalPrice)

	empty := cartrepo.NewCart(nil)
	assert.NotNil(t, empty.Items)
	assert.Zero(t, empty.TotalPrice)
}
