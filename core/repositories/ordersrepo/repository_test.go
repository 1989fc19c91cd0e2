package ordersrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kingjawir/marketplace/core/repositories"
	"github.com/kingjawir/marketplace/core/repositories/ordersrepo"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

type memStore struct {
	orders    map[string]ordersrepo.OrderDetail
	stores    map[string]string
	cancelled []string
	set       []string
}

func newMemStore(status string) *memStore {
	return &memStore{
		orders: map[string]ordersrepo.OrderDetail{
			"o1": {
				Order: ordersrepo.Order{OrderID: "o1", UserID: "buyer", Status: status},
				Items: []ordersrepo.OrderItem{{OrderItemID: "i1", StoreID: strptr("s1"), StoreUserID: strptr("seller")}},
			},
		},
		stores: map[string]string{"seller": "s1", "other": "s2"},
	}
}

func (m *memStore) Checkout(ctx context.Context, userID string, plan func([]ordersrepo.CheckoutLine) (int64, error)) (ordersrepo.Order, error) {
	total, err := plan(nil)
	if err != nil {
		return ordersrepo.Order{}, err
	}
	return ordersrepo.Order{OrderID: "new", TotalAmount: total}, nil
}

func (m *memStore) GetByID(ctx context.Context, id string) (ordersrepo.OrderDetail, error) {
	o, ok := m.orders[id]
	if !ok {
		return ordersrepo.OrderDetail{}, ordersrepo.ErrOrderNotFound
	}
	return o, nil
}

func (m *memStore) ListByUser(ctx context.Context, userID string, p fop.Page) ([]ordersrepo.OrderDetail, int, error) {
	return nil, 0, nil
}

func (m *memStore) ListByStore(ctx context.Context, storeID string, status *string, p fop.Page) ([]ordersrepo.OrderDetail, int, error) {
	return nil, 0, nil
}

func (m *memStore) StoreIDByUser(ctx context.Context, userID string) (string, error) {
	id, ok := m.stores[userID]
	if !ok {
		return "", ordersrepo.ErrNoStore
	}
	return id, nil
}

func (m *memStore) SetStatus(ctx context.Context, id, from, to string) (ordersrepo.Order, error) {
	m.set = append(m.set, from+">"+to)
	return ordersrepo.Order{OrderID: id, Status: to}, nil
}

func (m *memStore) Cancel(ctx context.Context, id, from string) (ordersrepo.Order, error) {
	m.cancelled = append(m.cancelled, id)
	return ordersrepo.Order{OrderID: id, Status: ordersrepo.StatusCancelled}, nil
}

func TestCanTransition(t *testing.T) {
	allowed := map[string][]string{
		ordersrepo.StatusPending: {ordersrepo.StatusPaid, ordersrepo.StatusCancelled},
		ordersrepo.StatusPaid:    {ordersrepo.StatusShipped, ordersrepo.StatusCancelled},
		ordersrepo.StatusShipped: {ordersrepo.StatusDone},
	}
	all := []string{ordersrepo.StatusPending, ordersrepo.StatusPaid, ordersrepo.StatusShipped, ordersrepo.StatusDone, ordersrepo.StatusCancelled}

	for _, from := range all {
		for _, to := range all {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}
			assert.Equal(t, want, ordersrepo.CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestPlanCheckout(t *testing.T) {
	_, err := ordersrepo.PlanCheckout(nil)
	assert.ErrorIs(t, err, ordersrepo.ErrEmptyCart)

	total, err := ordersrepo.PlanCheckout([]ordersrepo.CheckoutLine{
		{Name: "Kopi", Price: 50000, Stock: 10, Quantity: 2},
		{Name: "Teh", Price: 20000, Stock: 1, Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(120000), total)

	_, err = ordersrepo.PlanCheckout([]ordersrepo.CheckoutLine{{Name: "Teh", Price: 1, Stock: 1, Quantity: 3}})
	var stockErr *ordersrepo.StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Teh", stockErr.Product)
	assert.Equal(t, 1, stockErr.Available)
}

func TestGetAccess(t *testing.T) {
	repo := ordersrepo.NewRepository(logger.NewDiscard(), newMemStore(ordersrepo.StatusPending))
	ctx := context.Background()

	for _, actor := range []ordersrepo.Actor{{UserID: "buyer"}, {UserID: "seller"}, {UserID: "root", IsAdmin: true}} {
		_, err := repo.Get(ctx, actor, "o1")
		assert.NoError(t, err, actor.UserID)
	}
	_, err := repo.Get(ctx, ordersrepo.Actor{UserID: "stranger"}, "o1")
	assert.ErrorIs(t, err, repositories.ErrForbidden)
}

func TestBuyerCancel(t *testing.T) {
	m := newMemStore(ordersrepo.StatusPending)
	repo := ordersrepo.NewRepository(logger.NewDiscard(), m)
	ctx := context.Background()

	_, err := repo.Cancel(ctx, "seller", "o1")
	assert.ErrorIs(t, err, ordersrepo.ErrNoAccess)

	o, err := repo.Cancel(ctx, "buyer", "o1")
	require.NoError(t, err)
	assert.Equal(t, ordersrepo.StatusCancelled, o.Status)

	paid := newMemStore(ordersrepo.StatusPaid)
	_, err = ordersrepo.NewRepository(logger.NewDiscard(), paid).Cancel(ctx, "buyer", "o1")
	var tErr *ordersrepo.TransitionError
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, ordersrepo.StatusPaid, tErr.From)
	assert.Empty(t, paid.cancelled)
}

func TestSellerUpdateStatus(t *testing.T) {
	ctx := context.Background()

	m := newMemStore(ordersrepo.StatusPaid)
	repo := ordersrepo.NewRepository(logger.NewDiscard(), m)

	_, err := repo.UpdateStatus(ctx, "other", "o1", ordersrepo.StatusShipped)
	assert.ErrorIs(t, err, ordersrepo.ErrNotInOrder)

	_, err = repo.UpdateStatus(ctx, "buyer", "o1", ordersrepo.StatusShipped)
	assert.ErrorIs(t, err, ordersrepo.ErrNoStore)

	_, err = repo.UpdateStatus(ctx, "seller", "o1", "LOST")
	assert.ErrorIs(t, err, ordersrepo.ErrInvalidStatus)

	_, err = repo.UpdateStatus(ctx, "seller", "o1", ordersrepo.StatusDone)
	var tErr *ordersrepo.TransitionError
	require.True(t, errors.As(err, &tErr))

	_, err = repo.UpdateStatus(ctx, "seller", "o1", ordersrepo.StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, []string{"PAID>SHIPPED"}, m.set)

	_, err = repo.UpdateStatus(ctx, "seller", "o1", ordersrepo.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, []string{"o1"}, m.cancelled)
}
