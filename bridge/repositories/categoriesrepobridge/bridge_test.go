package categoriesrepobridge_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kingjawir/marketplace/bridge/repositories/categoriesrepobridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/repositories/categoriesrepo"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/authtoken"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCategories struct {
	byID map[string]categoriesrepo.CategoryWithCount
}

func (m *memCategories) Create(_ context.Context, in categoriesrepo.CreateCategory) (categoriesrepo.Category, error) {
	for _, c := range m.byID {
		switch {
		case c.Name == in.Name:
			return categoriesrepo.Category{}, categoriesrepo.ErrNameTaken
		case c.Slug == in.Slug:
			return categoriesrepo.Category{}, categoriesrepo.ErrSlugTaken
		}
	}
	c := categoriesrepo.Category{CategoryID: "c-" + in.Slug, Name: in.Name, Slug: in.Slug, Description: in.Description}
	m.byID[c.CategoryID] = categoriesrepo.CategoryWithCount{Category: c}
	return c, nil
}

func (m *memCategories) GetByID(_ context.Context, id string) (categoriesrepo.CategoryWithCount, error) {
	c, ok := m.byID[id]
	if !ok {
		return categoriesrepo.CategoryWithCount{}, categoriesrepo.ErrCategoryNotFound
	}
	return c, nil
}

func (m *memCategories) GetBySlug(_ context.Context, slug string) (categoriesrepo.CategoryWithCount, error) {
	for _, c := range m.byID {
		if c.Slug == slug {
			return c, nil
		}
	}
	return categoriesrepo.CategoryWithCount{}, categoriesrepo.ErrCategoryNotFound
}

func (m *memCategories) List(context.Context) ([]categoriesrepo.CategoryWithCount, error) {
	out := make([]categoriesrepo.CategoryWithCount, 0, len(m.byID))
	for _, c := range m.byID {
		out = append(out, c)
	}
	return out, nil
}

func (m *memCategories) Update(_ context.Context, id string, in categoriesrepo.UpdateCategory) (categoriesrepo.Category, error) {
	c := m.byID[id]
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Slug != nil {
		c.Slug = *in.Slug
	}
	m.byID[id] = c
	return c.Category, nil
}

func (m *memCategories) Delete(_ context.Context, id string) error {
	delete(m.byID, id)
	return nil
}

type env struct {
	h     *web.WebHandler
	mem   *memCategories
	admin string
	buyer string
}

func newEnv(t *testing.T) env {
	t.Helper()
	log := logger.NewDiscard()
	tokens, err := authtoken.NewManager(authtoken.Config{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	require.NoError(t, err)
	admin, err := tokens.Issue(authtoken.Subject{UserID: "u-admin", Role: mid.RoleAdmin, EmailVerified: true})
	require.NoError(t, err)
	buyer, err := tokens.Issue(authtoken.Subject{UserID: "u-buyer", Role: mid.RoleCustomer, EmailVerified: true})
	require.NoError(t, err)

	e := env{
		mem:   &memCategories{byID: map[string]categoriesrepo.CategoryWithCount{}},
		admin: admin.AccessToken,
		buyer: buyer.AccessToken,
	}
	e.h = web.NewWebHandler(web.HandlerOptions{}, web.WithGlobalMiddleware(mid.Errors(log)))
	categoriesrepobridge.AddHttpRoutes(e.h.Group(""), categoriesrepobridge.Config{
		Repository:    categoriesrepo.NewRepository(log, e.mem),
		Authenticated: mid.Authenticate(tokens),
	})
	return e
}

func (e env) do(t *testing.T, method, path, body, token string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec.Code, out
}

func TestCreateRequiresAdmin(t *testing.T) {
	e := newEnv(t)

	code, _ := e.do(t, http.MethodPost, "/categories", `{"name":"Elektronik"}`, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	code, _ = e.do(t, http.MethodPost, "/categories", `{"name":"Elektronik"}`, e.buyer)
	assert.Equal(t, http.StatusForbidden, code)

	code, body := e.do(t, http.MethodPost, "/categories", `{"name":"Rumah Tangga"}`, e.admin)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "rumah-tangga", body["data"].(map[string]any)["category"].(map[string]any)["slug"])

	code, body = e.do(t, http.MethodPost, "/categories", `{"name":"Rumah Tangga"}`, e.admin)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Nama category sudah ada", body["message"])

	code, _ = e.do(t, http.MethodPost, "/categories", `{"name":"Alat","slug":"Bad Slug"}`, e.admin)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestReadAndDelete(t *testing.T) {
	e := newEnv(t)
	e.mem.byID["c1"] = categoriesrepo.CategoryWithCount{
		Category:     categoriesrepo.Category{CategoryID: "c1", Name: "Fashion", Slug: "fashion"},
		ProductCount: 3,
	}

	code, body := e.do(t, http.MethodGet, "/categories", "", "")
	require.Equal(t, http.StatusOK, code)
	list := body["data"].(map[string]any)["categories"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, float64(3), list[0].(map[string]any)["productCount"])

	code, _ = e.do(t, http.MethodGet, "/categories/tidak-ada", "", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, body = e.do(t, http.MethodDelete, "/categories/c1", "", e.admin)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Tidak bisa hapus category yang masih memiliki 3 produk", body["message"])

	c := e.mem.byID["c1"]
	c.ProductCount = 0
	e.mem.byID["c1"] = c
	code, body = e.do(t, http.MethodDelete, "/categories/c1", "", e.admin)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Category berhasil dihapus", body["message"])
}
