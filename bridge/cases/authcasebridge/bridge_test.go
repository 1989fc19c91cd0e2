package authcasebridge_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/kingjawir/marketplace/bridge/cases/authcasebridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/cases/authcase"
	"github.com/kingjawir/marketplace/core/cases/authcase/authcasetest"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/authtoken"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	h        *web.WebHandler
	mailer   *authcasetest.Mailer
	sessions *authcasetest.Sessions
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

	e := env{mailer: &authcasetest.Mailer{}, sessions: authcasetest.NewSessions()}
	c := authcase.NewCase(log, authcase.Config{AppURL: "http://shop.test"}, authcase.Deps{
		Users:         authcasetest.NewUsers(),
		Sessions:      e.sessions,
		Verifications: authcasetest.NewVerifications(),
		Tokens:        tokens,
		Mailer:        e.mailer,
	})

	e.h = web.NewWebHandler(web.HandlerOptions{}, web.WithGlobalMiddleware(mid.Errors(log)))
	authcasebridge.AddHttpRoutes(e.h.Group("/api"), authcasebridge.Config{
		Log:           log,
		Case:          c,
		AppURL:        "http://shop.test/",
		Authenticated: mid.Authenticate(tokens),
	})
	return e
}

type result struct {
	code    int
	body    map[string]any
	cookies map[string]*http.Cookie
}

func (e env) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) result {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)

	res := result{code: rec.Code, cookies: map[string]*http.Cookie{}}
	_ = json.Unmarshal(rec.Body.Bytes(), &res.body)
	for _, c := range rec.Result().Cookies() {
		res.cookies[c.Name] = c
	}
	return res
}

func errCode(r result) string {
	detail, _ := r.body["error"].(map[string]any)
	code, _ := detail["code"].(string)
	return code
}

func TestRegisterLoginMe(t *testing.T) {
	e := newEnv(t)

	reg := e.do(t, http.MethodPost, "/api/auth/register", `{"email":"ani@toko.id","password":"rahasia","name":"Ani"}`)
	require.Equal(t, http.StatusCreated, reg.code)
	assert.Equal(t, true, reg.body["success"])
	user := reg.body["data"].(map[string]any)
	assert.Equal(t, "ani@toko.id", user["email"])
	assert.Equal(t, "CUSTOMER", user["role"])
	assert.NotContains(t, user, "passwordHash")
	require.Len(t, e.mailer.Sent, 1)

	dup := e.do(t, http.MethodPost, "/api/auth/register", `{"email":"ani@toko.id","password":"rahasia","name":"Ani"}`)
	assert.Equal(t, http.StatusConflict, dup.code)
	assert.Equal(t, "USER_ALREADY_EXISTS", errCode(dup))

	login := e.do(t, http.MethodPost, "/api/auth/login", `{"email":"ani@toko.id","password":"rahasia"}`)
	require.Equal(t, http.StatusOK, login.code)
	access := login.cookies[mid.AccessCookie]
	refresh := login.cookies[authcasebridge.RefreshCookie]
	require.NotNil(t, access)
	require.NotNil(t, refresh)
	assert.True(t, access.HttpOnly)
	assert.Equal(t, login.body["data"].(map[string]any)["accessToken"], access.Value)

	me := e.do(t, http.MethodGet, "/api/auth/me", "", access)
	require.Equal(t, http.StatusOK, me.code)
	assert.Equal(t, "Ani", me.body["data"].(map[string]any)["name"])

	anon := e.do(t, http.MethodGet, "/api/auth/me", "")
	assert.Equal(t, http.StatusUnauthorized, anon.code)
}

func TestLoginFailures(t *testing.T) {
	e := newEnv(t)
	e.do(t, http.MethodPost, "/api/auth/register", `{"email":"budi@toko.id","password":"rahasia","name":"Budi"}`)

	bad := e.do(t, http.MethodPost, "/api/auth/login", `{"email":"budi@toko.id","password":"salah123"}`)
	assert.Equal(t, http.StatusUnauthorized, bad.code)
	assert.Equal(t, "INVALID_CREDENTIALS", errCode(bad))
	assert.Equal(t, "Email atau password salah", bad.body["message"])
	assert.Empty(t, bad.cookies)

	invalid := e.do(t, http.MethodPost, "/api/auth/register", `{"email":"nope","password":"1","name":"B"}`)
	assert.Equal(t, http.StatusBadRequest, invalid.code)
	assert.Equal(t, "VALIDATION_ERROR", errCode(invalid))
	details := invalid.body["error"].(map[string]any)["details"].(map[string]any)
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "name")

	garbage := e.do(t, http.MethodPost, "/api/auth/login", `{`)
	assert.Equal(t, "BAD_REQUEST", errCode(garbage))
}

func TestRefreshRotatesAndLogoutClears(t *testing.T) {
	e := newEnv(t)
	e.do(t, http.MethodPost, "/api/auth/register", `{"email":"citra@toko.id","password":"rahasia","name":"Citra"}`)
	login := e.do(t, http.MethodPost, "/api/auth/login", `{"email":"citra@toko.id","password":"rahasia"}`)
	first := login.cookies[authcasebridge.RefreshCookie]
	require.NotNil(t, first)

	rotated := e.do(t, http.MethodPost, "/api/auth/refresh", "", first)
	require.Equal(t, http.StatusOK, rotated.code)
	second := rotated.cookies[authcasebridge.RefreshCookie]
	require.NotNil(t, second)
	assert.NotEqual(t, first.Value, second.Value)
	assert.False(t, e.sessions.Has(first.Value))

	reused := e.do(t, http.MethodPost, "/api/auth/refresh", "", first)
	assert.Equal(t, "TOKEN_INVALID", errCode(reused))
	require.Contains(t, reused.cookies, authcasebridge.RefreshCookie)
	assert.Negative(t, reused.cookies[authcasebridge.RefreshCookie].MaxAge)

	viaBody := e.do(t, http.MethodPost, "/api/auth/refresh", `{"refreshToken":"`+second.Value+`"}`)
	require.Equal(t, http.StatusOK, viaBody.code)
	third := viaBody.cookies[authcasebridge.RefreshCookie]

	out := e.do(t, http.MethodPost, "/api/auth/logout", "", third)
	assert.Equal(t, http.StatusOK, out.code)
	assert.Equal(t, "Logout berhasil", out.body["message"])
	assert.Negative(t, out.cookies[mid.AccessCookie].MaxAge)
	assert.False(t, e.sessions.Has(third.Value))

	missing := e.do(t, http.MethodPost, "/api/auth/refresh", "")
	assert.Equal(t, http.StatusUnauthorized, missing.code)
}

func TestVerifyAndResetPassword(t *testing.T) {
	e := newEnv(t)
	e.do(t, http.MethodPost, "/api/auth/register", `{"email":"dewi@toko.id","password":"rahasia","name":"Dewi"}`)

	token := e.mailer.LastToken(t)
	verified := e.do(t, http.MethodGet, "/api/auth/verify-email?token="+url.QueryEscape(token), "")
	assert.Equal(t, http.StatusOK, verified.code)

	again := e.do(t, http.MethodPost, "/api/auth/resend-verification", `{"email":"dewi@toko.id"}`)
	assert.Equal(t, "EMAIL_ALREADY_VERIFIED", errCode(again))

	forgot := e.do(t, http.MethodPost, "/api/auth/forgot-password", `{"email":"siapa@toko.id"}`)
	assert.Equal(t, http.StatusOK, forgot.code, "unknown emails are not revealed")

	e.do(t, http.MethodPost, "/api/auth/forgot-password", `{"email":"dewi@toko.id"}`)
	reset := e.do(t, http.MethodPost, "/api/auth/reset-password", `{"token":"`+e.mailer.LastToken(t)+`","password":"baru1234"}`)
	require.Equal(t, http.StatusOK, reset.code)

	login := e.do(t, http.MethodPost, "/api/auth/login", `{"email":"dewi@toko.id","password":"baru1234"}`)
	assert.Equal(t, http.StatusOK, login.code)

	same := e.do(t, http.MethodPost, "/api/auth/change-password",
		`{"currentPassword":"baru1234","newPassword":"baru1234"}`, login.cookies[mid.AccessCookie])
	assert.Equal(t, "SAME_PASSWORD", errCode(same))
}

func TestGoogleDisabled(t *testing.T) {
	e := newEnv(t)

	start := e.do(t, http.MethodGet, "/api/auth/google", "")
	assert.Equal(t, http.StatusBadRequest, start.code)

	cb := httptest.NewRecorder()
	e.h.ServeHTTP(cb, httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?state=x&code=y", nil))
	assert.Equal(t, http.StatusFound, cb.Code)
	assert.Equal(t, "http://shop.test/auth/login?error=invalid_state", cb.Header().Get("Location"))
}
