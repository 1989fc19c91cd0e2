package cartrepobridge_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kingjawir/marketplace/bridge/repositories/cartrepobridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/repositories/cartrepo"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/authtoken"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type product struct {
	price int64
	stock int
}

// memCart holds the lines of a single shopper.
type memCart struct {
	products map[string]product
	items    []cartrepo.CartItem
	seq      int
}

func (m *memCart) List(_ context.Context, userID string) ([]cartrepo.CartLine, error) {
	var lines []cartrepo.CartLine
	for _, it := range m.items {
		p := m.products[it.ProductID]
		lines = append(lines, cartrepo.CartLine{CartItem: it, ProductName: it.ProductID, Price: p.price, Stock: p.stock, StoreName: "Toko Ani"})
	}
	return lines, nil
}

func (m *memCart) find(match func(cartrepo.CartItem) bool) (int, error) {
	for i, it := range m.items {
		if match(it) {
			return i, nil
		}
	}
	return -1, cartrepo.ErrCartItemNotFound
}

func (m *memCart) Get(_ context.Context, userID, id string) (cartrepo.CartItem, error) {
	i, err := m.find(func(it cartrepo.CartItem) bool { return it.CartItemID == id })
	if err != nil {
		return cartrepo.CartItem{}, err
	}
	return m.items[i], nil
}

func (m *memCart) GetByProduct(_ context.Context, userID, productID string) (cartrepo.CartItem, error) {
	i, err := m.find(func(it cartrepo.CartItem) bool { return it.ProductID == productID })
	if err != nil {
		return cartrepo.CartItem{}, err
	}
	return m.items[i], nil
}

func (m *memCart) ProductStock(_ context.Context, productID string) (int, error) {
	p, ok := m.products[productID]
	if !ok {
		return 0, cartrepo.ErrProductNotFound
	}
	return p.stock, nil
}

func (m *memCart) Upsert(_ context.Context, userID, productID string, qty int) (cartrepo.CartItem, error) {
	if i, err := m.find(func(it cartrepo.CartItem) bool { return it.ProductID == productID }); err == nil {
		m.items[i].Quantity += qty
		return m.items[i], nil
	}
	m.seq++
	it := cartrepo.CartItem{CartItemID: fmt.Sprintf("ci%d", m.seq), UserID: userID, ProductID: productID, Quantity: qty}
	m.items = append(m.items, it)
	return it, nil
}

func (m *memCart) SetQuantity(_ context.Context, id string, qty int) (cartrepo.CartItem, error) {
	i, err := m.find(func(it cartrepo.CartItem) bool { return it.CartItemID == id })
	if err != nil {
		return cartrepo.CartItem{}, err
	}
	m.items[i].Quantity = qty
	return m.items[i], nil
}

func (m *memCart) Delete(_ context.Context, userID, id string) error {
	i, err := m.find(func(it cartrepo.CartItem) bool { return it.CartItemID == id })
	if err != nil {
		return err
	}
	m.items = append(m.items[:i], m.items[i+1:]...)
	return nil
}

func (m *memCart) Clear(_ context.Context, userID string) (int64, error) {
	n := int64(len(m.items))
	m.items = nil
	return n, nil
}

func newHandler(t *testing.T, mem *memCart) (*web.WebHandler, string) {
	t.Helper()
	log := logger.NewDiscard()
	tokens, err := authtoken.NewManager(authtoken.Config{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	require.NoError(t, err)
	pair, err := tokens.Issue(authtoken.Subject{UserID: "cici", Role: mid.RoleCustomer, EmailVerified: true})
	require.NoError(t, err)

	h := web.NewWebHandler(web.HandlerOptions{}, web.WithGlobalMiddleware(mid.Errors(log)))
	cartrepobridge.AddHttpRoutes(h.Group(""), cartrepobridge.Config{
		Repository:    cartrepo.NewRepository(log, mem),
		Authenticated: mid.Authenticate(tokens),
	})
	return h, pair.AccessToken
}

func call(t *testing.T, h http.Handler, token, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec.Code, out
}

func TestCartFlow(t *testing.T) {
	mem := &memCart{products: map[string]product{"kopi": {price: 50000, stock: 5}, "teh": {price: 20000, stock: 2}}}
	h, token := newHandler(t, mem)

	code, _ := call(t, h, "", http.MethodGet, "/cart", "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = call(t, h, token, http.MethodPost, "/cart", `{"productId":"kopi","quantity":3}`)
	require.Equal(t, http.StatusOK, code)
	code, _ = call(t, h, token, http.MethodPost, "/cart", `{"productId":"teh","quantity":1}`)
	require.Equal(t, http.StatusOK, code)

	code, body := call(t, h, token, http.MethodPost, "/cart", `{"productId":"kopi","quantity":3}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Stok tidak cukup. Tersedia: 5, di keranjang: 3", body["message"])

	code, body = call(t, h, token, http.MethodPost, "/cart", `{"productId":"gula","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Produk tidak ditemukan", body["message"])

	code, _ = call(t, h, token, http.MethodPost, "/cart", `{"productId":"kopi","quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = call(t, h, token, http.MethodGet, "/cart", "")
	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, float64(4), data["totalItems"])
	assert.Equal(t, float64(170000), data["totalPrice"])
	assert.Equal(t, float64(150000), data["items"].([]any)[0].(map[string]any)["subtotal"])
}

func TestUpdateRemoveClear(t *testing.T) {
	mem := &memCart{products: map[string]product{"kopi": {price: 50000, stock: 5}}}
	h, token := newHandler(t, mem)
	code, _ := call(t, h, token, http.MethodPost, "/cart", `{"productId":"kopi","quantity":1}`)
	require.Equal(t, http.StatusOK, code)

	code, _ = call(t, h, token, http.MethodPut, "/cart/ci1", `{}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := call(t, h, token, http.MethodPut, "/cart/ci1", `{"quantity":9}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Stok tidak cukup. Tersedia: 5", body["message"])

	code, body = call(t, h, token, http.MethodPut, "/cart/ci1", `{"quantity":4}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(4), body["data"].(map[string]any)["quantity"])

	code, body = call(t, h, token, http.MethodPut, "/cart/ci1", `{"quantity":0}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Item dihapus dari keranjang", body["message"])
	assert.Empty(t, mem.items)

	code, _ = call(t, h, token, http.MethodDelete, "/cart/ci1", "")
	assert.Equal(t, http.StatusNotFound, code)

	_, _ = call(t, h, token, http.MethodPost, "/cart", `{"productId":"kopi","quantity":1}`)
	code, body = call(t, h, token, http.MethodDelete, "/cart", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Keranjang berhasil dikosongkan", body["message"])
	assert.Empty(t, mem.items)
}
