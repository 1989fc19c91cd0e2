// Package verificationsrepo stores one time tokens for email verification and
// password reset.
package verificationsrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/kingjawir/marketplace/core/repositories"
	"github.com/kingjawir/marketplace/sdk/logger"
)

// Token types.
const (
	TypeEmail         = "email"
	TypeResetPassword = "reset_password"
)

// Lifetimes of each token type.
const (
	EmailTTL         = 24 * time.Hour
	ResetPasswordTTL = time.Hour
)

var ErrTokenNotFound = fmt.Errorf("verification token %w", repositories.ErrNotFound)

type Verification struct {
	TokenID   string    `db:"token_id"`
	UserID    string    `db:"user_id"`
	Token     string    `db:"token"`
	TokenType string    `db:"token_type"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// Expired reports whether the token is past its expiry at now.
func (v Verification) Expired(now time.Time) bool {
	return v.ExpiresAt.Before(now)
}

type CreateVerification struct {
	UserID    string
	Token     string
	TokenType string
	ExpiresAt time.Time
}

type Storer interface {
	Create(ctx context.Context, input CreateVerification) (Verification, error)
	GetByToken(ctx context.Context, token string) (Verification, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUserAndType(ctx context.Context, userID, tokenType string) error
}

type Repository struct {
	log    *logger.Logger
	storer Storer
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// Replace deletes the user's previous tokens of the same type and stores the
// new one.
func (r *Repository) Replace(ctx context.Context, input CreateVerification) (Verification, error) {
	if err := r.storer.DeleteByUserAndType(ctx, input.UserID, input.TokenType); err != nil {
		return Verification{}, fmt.Errorf("verification repository replace: %w", err)
	}
	v, err := r.storer.Create(ctx, input)
	if err != nil {
		return Verification{}, fmt.Errorf("verification repository replace: %w", err)
	}
	return v, nil
}

func (r *Repository) GetByToken(ctx context.Context, token string) (Verification, error) {
	v, err := r.storer.GetByToken(ctx, token)
	if err != nil {
		return Verification{}, fmt.Errorf("verification repository get by token: %w", err)
	}
	return v, nil
}

func (r *Repository) Delete(ctx context.Context, token string) error {
	if err := r.storer.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("verification repository delete: %w", err)
	}
	return nil
}
