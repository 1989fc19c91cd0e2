package web_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/telemetry"
)

type payload struct {
	Name string `json:"name"`
}

func (p payload) Validate() error {
	if p.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func TestHandleJSON(t *testing.T) {
	h := web.NewWebHandler(web.HandlerOptions{}, web.WithTelemetry(telemetry.NewTelemetry()))
	h.GET("/items/{id}", func(ctx context.Context, r *http.Request) web.Encoder {
		return web.NewJSONResponseWithStatus(map[string]string{"id": web.Param(r, "id")}, http.StatusCreated)
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items/abc", nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if got := rec.Body.String(); got != `{"id":"abc"}` {
		t.Errorf("body = %s", got)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type = %s", ct)
	}
}

func TestHandleNilIsNoContent(t *testing.T) {
	h := web.NewWebHandler(web.HandlerOptions{})
	h.DELETE("/items/{id}", func(ctx context.Context, r *http.Request) web.Encoder {
		return nil
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/items/1", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := web.NewWebHandler(web.HandlerOptions{CORSOrigins: []string{"http://shop.local"}})
	called := false
	h.Handle(http.MethodOptions, "/cart", func(ctx context.Context, r *http.Request) web.Encoder {
		called = true
		return nil
	})

	req := httptest.NewRequest(http.MethodOptions, "/cart", nil)
	req.Header.Set("Origin", "http://shop.local")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if called {
		t.Error("handler should not run for preflight")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://shop.local" {
		t.Errorf("allow origin = %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("allow credentials = %q", got)
	}
}

func TestGroupMiddlewareOrder(t *testing.T) {
	var order []string
	mark := func(name string) web.Middleware {
		return func(next web.HandlerFunc) web.HandlerFunc {
			return func(ctx context.Context, r *http.Request) web.Encoder {
				order = append(order, name)
				return next(ctx, r)
			}
		}
	}

	h := web.NewWebHandler(web.HandlerOptions{}, web.WithGlobalMiddleware(mark("global")))
	api := h.Group("/api", mark("group"))
	api.GET("/ping", func(ctx context.Context, r *http.Request) web.Encoder {
		order = append(order, "handler")
		return web.NewJSONResponse("pong")
	}, mark("route"))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	want := []string{"global", "group", "route", "handler"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Fatalf("order = %v, want %v", order, want)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"kopi"}`, false},
		{"empty body", ``, true},
		{"bad json", `{"name":`, true},
		{"fails validation", `{"name":""}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var p payload
			err := web.Decode(r, &p)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeOptionalAcceptsEmptyBody(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	var v struct{ Token string }
	if err := web.DecodeOptional(r, &v); err != nil {
		t.Fatalf("DecodeOptional: %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer abc.def")
	if got := web.BearerToken(r); got != "abc.def" {
		t.Errorf("BearerToken = %q", got)
	}
	r.Header.Set("Authorization", "Basic zzz")
	if got := web.BearerToken(r); got != "" {
		t.Errorf("BearerToken = %q, want empty", got)
	}
}

func TestSetCookieAndRedirect(t *testing.T) {
	h := web.NewWebHandler(web.HandlerOptions{})
	h.GET("/login", func(ctx context.Context, r *http.Request) web.Encoder {
		web.SetCookie(ctx, "accessToken", "tok", 900_000_000_000, web.CookieOptions{})
		return web.NewRedirect("http://shop.local/")
	})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "http://shop.local/" {
		t.Errorf("Location = %q", loc)
	}
	cookie := rec.Header().Get("Set-Cookie")
	if !strings.Contains(cookie, "accessToken=tok") || !strings.Contains(cookie, "HttpOnly") {
		t.Errorf("Set-Cookie = %q", cookie)
	}
}
