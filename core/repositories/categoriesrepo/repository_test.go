package categoriesrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kingjawir/marketplace/core/repositories"
	"github.com/kingjawir/marketplace/core/repositories/categoriesrepo"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	categories map[string]categoriesrepo.CategoryWithCount
	created    categoriesrepo.CreateCategory
	deleted    string
}

func (m *memStore) Create(ctx context.Context, in categoriesrepo.CreateCategory) (categoriesrepo.Category, error) {
	m.created = in
	return categoriesrepo.Category{CategoryID: "c1", Name: in.Name, Slug: in.Slug}, nil
}

func (m *memStore) GetByID(ctx context.Context, id string) (categoriesrepo.CategoryWithCount, error) {
	c, ok := m.categories[id]
	if !ok {
		return categoriesrepo.CategoryWithCount{}, categoriesrepo.ErrCategoryNotFound
	}
	return c, nil
}

func (m *memStore) GetBySlug(ctx context.Context, slug string) (categoriesrepo.CategoryWithCount, error) {
	return categoriesrepo.CategoryWithCount{}, categoriesrepo.ErrCategoryNotFound
}

func (m *memStore) List(ctx context.Context) ([]categoriesrepo.CategoryWithCount, error) {
	return nil, nil
}

func (m *memStore) Update(ctx context.Context, id string, in categoriesrepo.UpdateCategory) (categoriesrepo.Category, error) {
	return categoriesrepo.Category{CategoryID: id}, nil
}

func (m *memStore) Delete(ctx context.Context, id string) error {
	m.deleted = id
	return nil
}

func TestCreateDerivesSlug(t *testing.T) {
	m := &memStore{}
	repo := categoriesrepo.NewRepository(logger.NewDiscard(), m)

	c, err := repo.Create(context.Background(), categoriesrepo.CreateCategory{Name: " Makanan & Minuman "})
	require.NoError(t, err)
	assert.Equal(t, "Makanan & Minuman", c.Name)
	assert.Equal(t, "makanan-minuman", c.Slug)

	_, err = repo.Create(context.Background(), categoriesrepo.CreateCategory{Name: "X", Slug: "Not A Slug"})
	assert.ErrorIs(t, err, categoriesrepo.ErrInvalidSlug)
}

func TestDeleteRefusesCategoryWithProducts(t *testing.T) {
	m := &memStore{categories: map[string]categoriesrepo.CategoryWithCount{
		"full":  {Category: categoriesrepo.Category{CategoryID: "full"}, ProductCount: 3},
		"empty": {Category: categoriesrepo.Category{CategoryID: "empty"}},
	}}
	repo := categoriesrepo.NewRepository(logger.NewDiscard(), m)
	ctx := context.Background()

	err := repo.Delete(ctx, "full")
	var inUse *categoriesrepo.InUseError
	require.True(t, errors.As(err, &inUse))
	assert.Equal(t, 3, inUse.Products)
	assert.ErrorIs(t, err, repositories.ErrInvalid)

	require.NoError(t, repo.Delete(ctx, "empty"))
	assert.Equal(t, "empty", m.deleted)

	assert.ErrorIs(t, repo.Delete(ctx, "missing"), repositories.ErrNotFound)
}
