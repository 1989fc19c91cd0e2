package storesrepo_test

import (
	"context"
	"strings"
	"testing"

	"github.com/kingjawir/marketplace/core/repositories"
	"github.com/kingjawir/marketplace/core/repositories/storesrepo"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	stores  map[string]storesrepo.StoreDetail
	active  bool
	deleted bool
	update  storesrepo.UpdateStore
}

func (m *memStore) Create(ctx context.Context, in storesrepo.CreateStore) (storesrepo.Store, error) {
	s := storesrepo.Store{StoreID: "s-" + in.UserID, UserID: in.UserID, Name: in.Name, Slug: in.Slug, Description: in.Description}
	m.stores[in.UserID] = storesrepo.StoreDetail{Store: s}
	return s, nil
}

func (m *memStore) GetByUserID(ctx context.Context, userID string) (storesrepo.StoreDetail, error) {
	s, ok := m.stores[userID]
	if !ok {
		return storesrepo.StoreDetail{}, storesrepo.ErrStoreNotFound
	}
	return s, nil
}

func (m *memStore) GetBySlug(ctx context.Context, slug string) (storesrepo.StoreDetail, error) {
	return storesrepo.StoreDetail{}, storesrepo.ErrStoreNotFound
}

func (m *memStore) List(ctx context.Context, f storesrepo.QueryFilter, p fop.Page) ([]storesrepo.StoreDetail, int, error) {
	return nil, 0, nil
}

func (m *memStore) Update(ctx context.Context, storeID string, in storesrepo.UpdateStore) (storesrepo.Store, error) {
	m.update = in
	return storesrepo.Store{StoreID: storeID}, nil
}

func (m *memStore) HasActiveOrders(ctx context.Context, storeID string) (bool, error) {
	return m.active, nil
}

func (m *memStore) Delete(ctx context.Context, storeID, userID string) error {
	m.deleted = true
	return nil
}

func newRepo(m *memStore) *storesrepo.Repository {
	if m.stores == nil {
		m.stores = map[string]storesrepo.StoreDetail{}
	}
	return storesrepo.NewRepository(logger.NewDiscard(), m)
}

func TestCreateStore(t *testing.T) {
	m := &memStore{}
	repo := newRepo(m)
	ctx := context.Background()

	desc := "  "
	s, err := repo.Create(ctx, storesrepo.CreateStore{UserID: "u1", Name: "  Toko Kopi Gayo ", Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "Toko Kopi Gayo", s.Name)
	assert.True(t, strings.HasPrefix(s.Slug, "toko-kopi-gayo-"), s.Slug)
	assert.Nil(t, s.Description)

	_, err = repo.Create(ctx, storesrepo.CreateStore{UserID: "u1", Name: "Lagi"})
	assert.ErrorIs(t, err, storesrepo.ErrStoreExists)
	assert.ErrorIs(t, err, repositories.ErrAlreadyExists)
}

func TestUpdateStoreRegeneratesSlugOnRename(t *testing.T) {
	m := &memStore{stores: map[string]storesrepo.StoreDetail{
		"u1": {Store: storesrepo.Store{StoreID: "s1", UserID: "u1", Name: "Lama", Slug: "lama-abc"}},
	}}
	repo := newRepo(m)
	ctx := context.Background()

	same := "Lama"
	_, err := repo.Update(ctx, "u1", storesrepo.UpdateStore{Name: &same})
	require.NoError(t, err)
	assert.Nil(t, m.update.Slug)

	renamed := "Baru Sekali"
	_, err = repo.Update(ctx, "u1", storesrepo.UpdateStore{Name: &renamed})
	require.NoError(t, err)
	require.NotNil(t, m.update.Slug)
	assert.True(t, strings.HasPrefix(*m.update.Slug, "baru-sekali-"))

	_, err = repo.Update(ctx, "nobody", storesrepo.UpdateStore{Name: &renamed})
	assert.ErrorIs(t, err, storesrepo.ErrNoStore)
}

func TestDeleteStoreBlockedByActiveOrders(t *testing.T) {
	m := &memStore{active: true, stores: map[string]storesrepo.StoreDetail{
		"u1": {Store: storesrepo.Store{StoreID: "s1", UserID: "u1"}},
	}}
	repo := newRepo(m)

	err := repo.Delete(context.Background(), "u1")
	assert.ErrorIs(t, err, storesrepo.ErrActiveOrders)
	assert.False(t, m.deleted)

	m.active = false
	require.NoError(t, repo.Delete(context.Background(), "u1"))
	assert.True(t, m.deleted)
}
