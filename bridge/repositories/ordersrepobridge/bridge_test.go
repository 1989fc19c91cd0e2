package ordersrepobridge_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/kingjawir/marketplace/bridge/repositories/ordersrepobridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/repositories/ordersrepo"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/authtoken"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memOrders has one seller ("ani", store s-ani) and a cart per buyer.
type memOrders struct {
	carts  map[string][]ordersrepo.CheckoutLine
	orders map[string]ordersrepo.OrderDetail
}

func (m *memOrders) Checkout(_ context.Context, userID string, plan func([]ordersrepo.CheckoutLine) (int64, error)) (ordersrepo.Order, error) {
	lines := m.carts[userID]
	total, err := plan(lines)
	if err != nil {
		return ordersrepo.Order{}, err
	}
	o := ordersrepo.OrderDetail{Order: ordersrepo.Order{OrderID: "o1", UserID: userID, Status: ordersrepo.StatusPending, TotalAmount: total}, CustomerName: "Cici"}
	for _, l := range lines {
		pid, sid, owner := l.ProductID, l.StoreID, "ani"
		o.Items = append(o.Items, ordersrepo.OrderItem{OrderItemID: "i-" + pid, ProductID: &pid, StoreID: &sid, StoreUserID: &owner, ProductName: l.Name, Price: l.Price, Quantity: l.Quantity})
	}
	m.orders[o.OrderID] = o
	delete(m.carts, userID)
	return o.Order, nil
}

func (m *memOrders) GetByID(_ context.Context, id string) (ordersrepo.OrderDetail, error) {
	o, ok := m.orders[id]
	if !ok {
		return ordersrepo.OrderDetail{}, ordersrepo.ErrOrderNotFound
	}
	return o, nil
}

func (m *memOrders) ListByUser(_ context.Context, userID string, _ fop.Page) ([]ordersrepo.OrderDetail, int, error) {
	var out []ordersrepo.OrderDetail
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, len(out), nil
}

func (m *memOrders) ListByStore(_ context.Context, storeID string, status *string, _ fop.Page) ([]ordersrepo.OrderDetail, int, error) {
	var out []ordersrepo.OrderDetail
	for _, o := range m.orders {
		if o.HasStore(storeID) && (status == nil || o.Status == *status) {
			out = append(out, o)
		}
	}
	return out, len(out), nil
}

func (m *memOrders) StoreIDByUser(_ context.Context, userID string) (string, error) {
	if userID == "ani" {
		return "s-ani", nil
	}
	return "", ordersrepo.ErrNoStore
}

func (m *memOrders) SetStatus(_ context.Context, id, from, to string) (ordersrepo.Order, error) {
	o := m.orders[id]
	if o.Status != from {
		return ordersrepo.Order{}, ordersrepo.ErrStatusConflict
	}
	o.Status = to
	m.orders[id] = o
	return o.Order, nil
}

func (m *memOrders) Cancel(ctx context.Context, id, from string) (ordersrepo.Order, error) {
	return m.SetStatus(ctx, id, from, ordersrepo.StatusCancelled)
}

type env struct {
	h     *web.WebHandler
	mem   *memOrders
	token map[string]string
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

	e := env{
		mem: &memOrders{
			carts: map[string][]ordersrepo.CheckoutLine{
				"cici": {
					{ProductID: "kopi", Name: "Kopi Gayo", Price: 50000, Stock: 5, StoreID: "s-ani", Quantity: 2},
					{ProductID: "teh", Name: "Teh Melati", Price: 10000, Stock: 9, StoreID: "s-ani", Quantity: 1},
				},
				"dodi": {{ProductID: "kopi", Name: "Kopi Gayo", Price: 50000, Stock: 1, StoreID: "s-ani", Quantity: 3}},
			},
			orders: map[string]ordersrepo.OrderDetail{},
		},
		token: map[string]string{},
	}
	for user, role := range map[string]string{"ani": mid.RoleSeller, "budi": mid.RoleSeller, "cici": mid.RoleCustomer, "dodi": mid.RoleCustomer, "eko": mid.RoleCustomer} {
		pair, err := tokens.Issue(authtoken.Subject{UserID: user, Role: role, EmailVerified: true})
		require.NoError(t, err)
		e.token[user] = pair.AccessToken
	}

	e.h = web.NewWebHandler(web.HandlerOptions{}, web.WithGlobalMiddleware(mid.Errors(log)))
	ordersrepobridge.AddHttpRoutes(e.h.Group(""), ordersrepobridge.Config{
		Repository:    ordersrepo.NewRepository(log, e.mem),
		Authenticated: mid.Authenticate(tokens),
	})
	return e
}

func (e env) do(t *testing.T, user, method, path, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.token[user])
	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	return rec.Code, out
}

func TestCheckout(t *testing.T) {
	e := newEnv(t)

	code, body := e.do(t, "eko", http.MethodPost, "/orders", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Keranjang kosong", body["message"])

	code, body = e.do(t, "dodi", http.MethodPost, "/orders", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Stok Kopi Gayo tidak cukup. Tersedia: 1", body["message"])

	code, body = e.do(t, "cici", http.MethodPost, "/orders", "")
	require.Equal(t, http.StatusCreated, code)
	order := body["data"].(map[string]any)
	assert.Equal(t, float64(110000), order["totalAmount"])
	assert.Equal(t, "PENDING", order["status"])
	assert.Len(t, order["items"], 2)

	code, body = e.do(t, "cici", http.MethodGet, "/orders?limit=5", "")
	require.Equal(t, http.StatusOK, code)
	list := body["data"].(map[string]any)
	assert.Equal(t, float64(1), list["total"])
	assert.Equal(t, float64(5), list["limit"])
	assert.Equal(t, float64(1), list["totalPages"])

	code, _ = e.do(t, "ani", http.MethodGet, "/orders/o1", "")
	assert.Equal(t, http.StatusOK, code)
	code, body = e.do(t, "eko", http.MethodGet, "/orders/o1", "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Anda tidak memiliki akses ke order ini", body["message"])
}

func TestStatusFlow(t *testing.T) {
	e := newEnv(t)
	code, _ := e.do(t, "cici", http.MethodPost, "/orders", "")
	require.Equal(t, http.StatusCreated, code)

	code, _ = e.do(t, "cici", http.MethodGet, "/seller/orders", "")
	assert.Equal(t, http.StatusForbidden, code)

	code, body := e.do(t, "ani", http.MethodGet, "/seller/orders?status=pending", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["data"].(map[string]any)["orders"], 1)

	code, _ = e.do(t, "ani", http.MethodGet, "/seller/orders?status=LOST", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = e.do(t, "budi", http.MethodPut, "/seller/orders/o1/status", `{"status":"PAID"}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Anda belum memiliki toko", body["message"])

	code, body = e.do(t, "ani", http.MethodPut, "/seller/orders/o1/status", `{"status":"DONE"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Status tidak dapat diubah dari PENDING ke DONE", body["message"])

	code, body = e.do(t, "ani", http.MethodPut, "/seller/orders/o1/status", `{"status":"paid"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Status order diubah ke PAID", body["message"])

	code, body = e.do(t, "cici", http.MethodPost, "/orders/o1/cancel", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Order dengan status PAID tidak dapat dibatalkan", body["message"])

	code, body = e.do(t, "ani", http.MethodPut, "/seller/orders/o1/status", `{"status":"CANCELLED"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Order berhasil dibatalkan", body["message"])
	assert.Equal(t, ordersrepo.StatusCancelled, e.mem.orders["o1"].Status)
}
