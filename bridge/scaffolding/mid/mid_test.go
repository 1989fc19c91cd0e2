package mid_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kingjawir/marketplace/bridge/scaffolding/errs"
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/authtoken"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTokens(t *testing.T) *authtoken.Manager {
	t.Helper()
	m, err := authtoken.NewManager(authtoken.Config{
		AccessSecret:  "a",
		RefreshSecret: "r",
		AccessTTL:     time.Minute,
		RefreshTTL:    time.Hour,
	})
	require.NoError(t, err)
	return m
}

func serve(h *web.WebHandler, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	return rec, body
}

func whoami(ctx context.Context, r *http.Request) web.Encoder {
	claims, err := mid.GetClaims(ctx)
	if err != nil {
		return errs.New(errs.Internal, err)
	}
	return web.NewJSONResponse(map[string]string{"id": claims.UserID, "role": claims.Role})
}

func TestAuthenticate(t *testing.T) {
	tokens := newTokens(t)
	log := logger.NewDiscard()

	h := web.NewWebHandler(web.HandlerOptions{}, web.WithGlobalMiddleware(mid.Errors(log)))
	h.GET("/me", whoami, mid.Authenticate(tokens))
	h.GET("/admin", whoami, mid.Authenticate(tokens), mid.RequireRoles(mid.RoleAdmin))

	pair, err := tokens.Issue(authtoken.Subject{UserID: "usr1", Role: mid.RoleSeller})
	require.NoError(t, err)

	t.Run("missing token", func(t *testing.T) {
		rec, body := serve(h, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "UNAUTHORIZED", body["error"].(map[string]any)["code"])
	})

	t.Run("bearer", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec, body := serve(h, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "usr1", body["id"])
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: mid.AccessCookie, Value: pair.AccessToken})
		rec, _ := serve(h, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
		rec, body := serve(h, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Forbidden - Requires role: ADMIN", body["message"])
	})
}

func TestErrorsHidesInternalDetails(t *testing.T) {
	log := logger.NewDiscard()
	h := web.NewWebHandler(web.HandlerOptions{}, web.WithGlobalMiddleware(mid.Errors(log), mid.Panics()))

	h.GET("/plain", func(ctx context.Context, r *http.Request) web.Encoder {
		return errs.New(errs.InternalOnlyLog, errors.New("pq: connection refused"))
	})
	h.GET("/panic", func(ctx context.Context, r *http.Request) web.Encoder {
		panic("boom")
	})
	h.GET("/notfound", func(ctx context.Context, r *http.Request) web.Encoder {
		return errs.Newf(errs.NotFound, "Produk tidak ditemukan")
	})

	for _, path := range []string{"/plain", "/panic"} {
		rec, body := serve(h, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code, path)
		assert.Equal(t, "Internal server error", body["message"], path)
		assert.Equal(t, false, body["success"], path)
	}

	rec, body := serve(h, httptest.NewRequest(http.MethodGet, "/notfound", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Produk tidak ditemukan", body["message"])
}
