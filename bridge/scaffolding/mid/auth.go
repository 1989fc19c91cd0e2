package mid

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/kingjawir/marketplace/bridge/scaffolding/errs"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/authtoken"
)

// AccessCookie is the cookie holding the access token.
const AccessCookie = "accessToken"

// TokenParser verifies access tokens.
type TokenParser interface {
	ParseAccess(tok string) (*authtoken.Claims, error)
}

// Authenticate requires a valid access token, read from the accessToken
// cookie or an Authorization bearer header, and stores the caller claims.
func Authenticate(tokens TokenParser) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			tok := web.Cookie(r, AccessCookie)
			if tok == "" {
				tok = web.BearerToken(r)
			}
			if tok == "" {
				return errs.Newf(errs.Unauthorized, "Unauthorized - Please login")
			}

			claims, err := tokens.ParseAccess(tok)
			if err != nil {
				if errors.Is(err, authtoken.ErrTokenExpired) {
					return errs.Newf(errs.TokenExpired, "Token expired")
				}
				return errs.Newf(errs.Unauthorized, "Unauthorized - Please login")
			}

			ctx = SetClaims(ctx, Claims{
				UserID:        claims.Subject,
				Role:          claims.Role,
				EmailVerified: claims.EmailVerified,
			})

			return next(ctx, r)
		}
	}
}

// RequireRoles rejects callers whose role is not in roles. It must run after
// Authenticate.
func RequireRoles(roles ...string) web.Middleware {
	return func(next web.HandlerFunc) web.HandlerFunc {
		return func(ctx context.Context, r *http.Request) web.Encoder {
			claims, err := GetClaims(ctx)
			if err != nil {
				return errs.Newf(errs.Unauthorized, "Unauthorized - Please login")
			}

			if !slices.Contains(roles, claims.Role) {
				return errs.Newf(errs.Forbidden, "Forbidden - Requires role: %s", strings.Join(roles, " or "))
			}

			return next(ctx, r)
		}
	}
}
