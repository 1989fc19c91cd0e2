package dashboardsrepobridge_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kingjawir/marketplace/bridge/repositories/dashboardsrepobridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/repositories/dashboardsrepo"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/authtoken"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticStats answers every aggregate with a constant. Only "ani" owns a
// store.
type staticStats struct{}

func (staticStats) StoreIDByUser(_ context.Context, userID string) (string, error) {
	if userID != "ani" {
		return "", dashboardsrepo.ErrNoStore
	}
	return "s-ani", nil
}

func (staticStats) CountUsers(_ context.Context, role *string) (int, error) {
	if role != nil {
		return 3, nil
	}
	return 12, nil
}

func (staticStats) CountProducts(context.Context, *string) (int, error) { return 8, nil }

func (staticStats) CountOrders(_ context.Context, _ *string, status *string) (int, error) {
	if status != nil {
		return 1, nil
	}
	return 5, nil
}

func (staticStats) Revenue(context.Context, *string) (int64, error) { return 250000, nil }

func (staticStats) RecentOrders(context.Context, *string, int) ([]dashboardsrepo.RecentOrder, error) {
	return []dashboardsrepo.RecentOrder{{OrderID: "o1", Status: "DONE", TotalAmount: 250000, CustomerName: "Cici"}}, nil
}

func (staticStats) TopProducts(context.Context, *string, int) ([]dashboardsrepo.TopProduct, error) {
	id := "p1"
	return []dashboardsrepo.TopProduct{{ProductID: &id, Name: "Kopi Gayo", Sold: 5, Revenue: 250000}}, nil
}

func (staticStats) OrdersByStatus(context.Context) (map[string]int, error) {
	return map[string]int{"DONE": 1, "PENDING": 4}, nil
}

func (staticStats) DailySales(_ context.Context, _ string, since time.Time) ([]dashboardsrepo.DailyPoint, error) {
	return []dashboardsrepo.DailyPoint{{Day: since, Revenue: 100000, Orders: 2}}, nil
}

func (staticStats) ProductPerformance(context.Context, string) ([]dashboardsrepo.TopProduct, error) {
	return nil, nil
}

func TestDashboards(t *testing.T) {
	log := logger.NewDiscard()
	tokens, err := authtoken.NewManager(authtoken.Config{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	require.NoError(t, err)
	token := map[string]string{}
	for user, role := range map[string]string{"ani": mid.RoleSeller, "budi": mid.RoleSeller, "admin": mid.RoleAdmin} {
		pair, err := tokens.Issue(authtoken.Subject{UserID: user, Role: role, EmailVerified: true})
		require.NoError(t, err)
		token[user] = pair.AccessToken
	}

	h := web.NewWebHandler(web.HandlerOptions{}, web.WithGlobalMiddleware(mid.Errors(log)))
	dashboardsrepobridge.AddHttpRoutes(h.Group(""), dashboardsrepobridge.Config{
		Repository:    dashboardsrepo.NewRepository(log, staticStats{}),
		Authenticated: mid.Authenticate(tokens),
	})

	get := func(user, path string) (int, map[string]any) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token[user])
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		var out map[string]any
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
		return rec.Code, out
	}

	code, _ := get("ani", "/admin/stats")
	assert.Equal(t, http.StatusForbidden, code)

	code, body := get("admin", "/admin/stats")
	require.Equal(t, http.StatusOK, code)
	stats := body["data"].(map[string]any)
	assert.Equal(t, float64(12), stats["totalUsers"])
	assert.Equal(t, float64(3), stats["totalSellers"])
	assert.Equal(t, float64(4), stats["ordersByStatus"].(map[string]any)["PENDING"])
	assert.Equal(t, "Kopi Gayo", stats["topProducts"].([]any)[0].(map[string]any)["name"])

	code, body = get("budi", "/api/seller/dashboard")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Anda belum memiliki toko", body["message"])

	code, body = get("ani", "/api/seller/dashboard")
	require.Equal(t, http.StatusOK, code)
	seller := body["data"].(map[string]any)
	assert.Equal(t, float64(250000), seller["stats"].(map[string]any)["totalRevenue"])
	assert.Equal(t, "Cici", seller["recentOrders"].([]any)[0].(map[string]any)["customer"])

	code, _ = get("ani", "/api/seller/analytics?period=year")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = get("ani", "/api/seller/analytics?period=month")
	require.Equal(t, http.StatusOK, code)
	analytics := body["data"].(map[string]any)
	assert.Equal(t, "month", analytics["period"])
	assert.Len(t, analytics["revenueData"], 30)
	assert.Len(t, analytics["orderData"], 30)
	first := analytics["revenueData"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(100000), first["revenue"])
	assert.Len(t, first["date"], len("2006-01-02"))
}
