// Package web contains a small web framework extension over net/http.
package web

import (
	"context"
	"net/http"
	"time"
)

// Encoder defines behavior that can encode a data model and provide
// the content type for that encoding.
type Encoder interface {
	Encode() (data []byte, contentType string, err error)
}

type ctxKey int

const writerKey ctxKey = 1

func setWriter(ctx context.Context, w http.ResponseWriter) context.Context {
	return context.WithValue(ctx, writerKey, w)
}

// GetWriter returns the response writer for handlers that need to set headers
// or cookies before returning an Encoder.
func GetWriter(ctx context.Context) http.ResponseWriter {
	v, ok := ctx.Value(writerKey).(http.ResponseWriter)
	if !ok {
		return nil
	}
	return v
}

// CookieOptions control the attributes of cookies set by SetCookie.
type CookieOptions struct {
	Secure   bool
	Domain   string
	SameSite http.SameSite
}

// SetCookie writes an HttpOnly cookie on the response held in ctx.
func SetCookie(ctx context.Context, name, value string, ttl time.Duration, opts CookieOptions) {
	w := GetWriter(ctx)
	if w == nil {
		return
	}
	sameSite := opts.SameSite
	if sameSite == 0 {
		sameSite = http.SameSiteLaxMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   int(ttl.Seconds()),
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: sameSite,
	})
}

// ClearCookie expires the named cookie.
func ClearCookie(ctx context.Context, name string, opts CookieOptions) {
	w := GetWriter(ctx)
	if w == nil {
		return
	}
	sameSite := opts.SameSite
	if sameSite == 0 {
		sameSite = http.SameSiteLaxMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: sameSite,
	})
}

// Cookie returns the value of the named request cookie or "".
func Cookie(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// Redirect is an Encoder that answers with a redirect.
type Redirect struct {
	URL    string
	Status int
}

func NewRedirect(url string) Redirect {
	return Redirect{URL: url, Status: http.StatusFound}
}

func (r Redirect) Encode() ([]byte, string, error) {
	return nil, "", nil
}

func (r Redirect) HTTPStatus() int {
	return r.Status
}
