// Package usersessionsrepo stores issued refresh tokens so they can be
// rotated and revoked.
package usersessionsrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/kingjawir/marketplace/core/repositories"
	"github.com/kingjawir/marketplace/sdk/logger"
)

var ErrSessionNotFound = fmt.Errorf("session %w", repositories.ErrNotFound)

type UserSession struct {
	SessionID string    `db:"session_id"`
	UserID    string    `db:"user_id"`
	Token     string    `db:"token"`
	ExpiresAt time.Time `db:"expires_at"`
	CreatedAt time.Time `db:"created_at"`
}

// Expired reports whether the session is past its expiry at now.
func (s UserSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

type CreateUserSession struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}

type Storer interface {
	Create(ctx context.Context, input CreateUserSession) (UserSession, error)
	GetByToken(ctx context.Context, token string) (UserSession, error)
	DeleteByToken(ctx context.Context, token string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
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

func (r *Repository) Create(ctx context.Context, input CreateUserSession) (UserSession, error) {
	session, err := r.storer.Create(ctx, input)
	if err != nil {
		return UserSession{}, fmt.Errorf("user session repository create: %w", err)
	}
	return session, nil
}

func (r *Repository) GetByToken(ctx context.Context, token string) (UserSession, error) {
	session, err := r.storer.GetByToken(ctx, token)
	if err != nil {
		return UserSession{}, fmt.Errorf("user session repository get by token: %w", err)
	}
	return session, nil
}

// DeleteByToken removes a single session. A token that is already gone is
// not an error.
func (r *Repository) DeleteByToken(ctx context.Context, token string) error {
	if err := r.storer.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("user session repository delete by token: %w", err)
	}
	return nil
}

// RevokeAll removes every session of a user, e.g. after a password reset.
func (r *Repository) RevokeAll(ctx context.Context, userID string) error {
	n, err := r.storer.DeleteByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("user session repository revoke all: %w", err)
	}
	r.log.InfoContext(ctx, "sessions revoked", "user_id", userID, "count", n)
	return nil
}

// Prune deletes sessions that expired before now.
func (r *Repository) Prune(ctx context.Context, now time.Time) (int64, error) {
	n, err := r.storer.DeleteExpired(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("user session repository prune: %w", err)
	}
	return n, nil
}
