// Package authcase implements account flows that span several repositories:
// registration, login, token rotation, email verification, password reset
// and Google sign in.
package authcase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kingjawir/marketplace/core/repositories/usersessionsrepo"
	"github.com/kingjawir/marketplace/core/repositories/usersrepo"
	"github.com/kingjawir/marketplace/core/repositories/verificationsrepo"
	"github.com/kingjawir/marketplace/sdk/authtoken"
	"github.com/kingjawir/marketplace/sdk/logger"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrOAuthNoPassword    = errors.New("account uses google sign in")
	ErrInvalidPassword    = errors.New("current password is wrong")
	ErrSamePassword       = errors.New("new password equals the current one")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrAlreadyVerified    = errors.New("email already verified")
	ErrUserExists         = errors.New("email already registered")
	ErrGoogleDisabled     = errors.New("google sign in is not configured")
	ErrGoogleFailed       = errors.New("google authentication failed")
)

type Config struct {
	AppURL string `env:"APP_URL" default:"http://localhost:3000"`
}

// Users is the part of the user repository the flows need.
type Users interface {
	Create(ctx context.Context, input usersrepo.CreateUser) (usersrepo.User, error)
	GetByID(ctx context.Context, userID string) (usersrepo.User, error)
	GetByEmail(ctx context.Context, email string) (usersrepo.User, error)
	GetByGoogleID(ctx context.Context, googleID string) (usersrepo.User, error)
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	SetEmailVerified(ctx context.Context, userID string) error
	LinkGoogle(ctx context.Context, userID, googleID string, avatarURL *string) (usersrepo.User, error)
}

type Sessions interface {
	Create(ctx context.Context, input usersessionsrepo.CreateUserSession) (usersessionsrepo.UserSession, error)
	GetByToken(ctx context.Context, token string) (usersessionsrepo.UserSession, error)
	DeleteByToken(ctx context.Context, token string) error
	RevokeAll(ctx context.Context, userID string) error
}

type Verifications interface {
	Replace(ctx context.Context, input verificationsrepo.CreateVerification) (verificationsrepo.Verification, error)
	GetByToken(ctx context.Context, token string) (verificationsrepo.Verification, error)
	Delete(ctx context.Context, token string) error
}

type Mailer interface {
	SendVerification(ctx context.Context, to, link string) error
	SendPasswordReset(ctx context.Context, to, link string) error
}

type Deps struct {
	Users         Users
	Sessions      Sessions
	Verifications Verifications
	Tokens        *authtoken.Manager
	Mailer        Mailer
	Google        GoogleProvider
}

type Case struct {
	log  *logger.Logger
	cfg  Config
	deps Deps
	now  func() time.Time
}

func NewCase(log *logger.Logger, cfg Config, deps Deps) *Case {
	return &Case{log: log, cfg: cfg, deps: deps, now: time.Now}
}

// Session is a signed in user with a freshly issued token pair.
type Session struct {
	User   usersrepo.User
	Tokens authtoken.Pair
}

// AccessTTL and RefreshTTL drive cookie lifetimes in the bridge.
func (c *Case) AccessTTL() time.Duration  { return c.deps.Tokens.AccessTTL() }
func (c *Case) RefreshTTL() time.Duration { return c.deps.Tokens.RefreshTTL() }

// IssueSession signs a token pair for user and stores the refresh token.
func (c *Case) IssueSession(ctx context.Context, user usersrepo.User) (Session, error) {
	pair, err := c.deps.Tokens.Issue(authtoken.Subject{
		UserID:        user.UserID,
		Role:          user.Role,
		EmailVerified: user.EmailVerified,
	})
	if err != nil {
		return Session{}, fmt.Errorf("issue session: %w", err)
	}

	if _, err := c.deps.Sessions.Create(ctx, usersessionsrepo.CreateUserSession{
		UserID:    user.UserID,
		Token:     pair.RefreshToken,
		ExpiresAt: pair.RefreshExpiresAt,
	}); err != nil {
		return Session{}, fmt.Errorf("issue session: %w", err)
	}
	return Session{User: user, Tokens: pair}, nil
}

// ReissueFor reloads userID and issues a new session, used after the role
// changes.
func (c *Case) ReissueFor(ctx context.Context, userID string) (Session, error) {
	user, err := c.deps.Users.GetByID(ctx, userID)
	if err != nil {
		return Session{}, fmt.Errorf("reissue: %w", err)
	}
	return c.IssueSession(ctx, user)
}

func (c *Case) Me(ctx context.Context, userID string) (usersrepo.User, error) {
	user, err := c.deps.Users.GetByID(ctx, userID)
	if err != nil {
		return usersrepo.User{}, fmt.Errorf("me: %w", err)
	}
	return user, nil
}

// Refresh rotates a refresh token: the stored row is removed and a new pair
// is issued.
func (c *Case) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	if refreshToken == "" {
		return Session{}, ErrTokenInvalid
	}

	claims, err := c.deps.Tokens.ParseRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, authtoken.ErrTokenExpired) {
			_ = c.deps.Sessions.DeleteByToken(ctx, refreshToken)
			return Session{}, ErrTokenExpired
		}
		return Session{}, ErrTokenInvalid
	}

	stored, err := c.deps.Sessions.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, usersessionsrepo.ErrSessionNotFound) {
			return Session{}, ErrTokenInvalid
		}
		return Session{}, fmt.Errorf("refresh: %w", err)
	}
	if stored.Expired(c.now()) {
		_ = c.deps.Sessions.DeleteByToken(ctx, refreshToken)
		return Session{}, ErrTokenExpired
	}

	user, err := c.deps.Users.GetByID(ctx, claims.Subject)
	if err != nil {
		return Session{}, fmt.Errorf("refresh: %w", err)
	}
	if err := c.deps.Sessions.DeleteByToken(ctx, refreshToken); err != nil {
		return Session{}, fmt.Errorf("refresh: %w", err)
	}
	return c.IssueSession(ctx, user)
}

// Logout forgets the refresh token. An empty or unknown token is fine.
func (c *Case) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := c.deps.Sessions.DeleteByToken(ctx, refreshToken); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
