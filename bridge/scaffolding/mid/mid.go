// Package mid provides app level middleware support.
package mid

import (
	"context"
	"errors"

	"github.com/kingjawir/marketplace/infrastructure/web"
)

// Claims is the authenticated caller as seen by handlers.
type Claims struct {
	UserID        string
	Role          string
	EmailVerified bool
}

// Roles understood by the role guards.
const (
	RoleCustomer = "CUSTOMER"
	RoleSeller   = "SELLER"
	RoleAdmin    = "ADMIN"
)

// IsAdmin reports whether the caller is an administrator.
func (c Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

type ctxKey int

const (
	claimKey ctxKey = iota + 1
)

// SetClaims stores the caller in the context.
func SetClaims(ctx context.Context, claims Claims) context.Context {
	return context.WithValue(ctx, claimKey, claims)
}

// GetClaims returns the caller from the context.
func GetClaims(ctx context.Context) (Claims, error) {
	v, ok := ctx.Value(claimKey).(Claims)
	if !ok {
		return Claims{}, errors.New("claims not found in context")
	}
	return v, nil
}

// GetUserID returns the user id from the context.
func GetUserID(ctx context.Context) (string, error) {
	c, err := GetClaims(ctx)
	if err != nil {
		return "", errors.New("user id not found in context")
	}
	return c.UserID, nil
}

// isError tests if the Encoder has an error inside of it.
func isError(e web.Encoder) error {
	err, isError := e.(error)
	if isError {
		return err
	}
	return nil
}
