// Package authtoken issues and verifies the access and refresh JWTs used by
// the marketplace API.
package authtoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kingjawir/marketplace/sdk/environment"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// Config holds signing secrets and lifetimes.
type Config struct {
	AccessSecret  string        `env:"JWT_SECRET" required:"true"`
	RefreshSecret string        `env:"JWT_REFRESH_SECRET" required:"true"`
	AccessTTL     time.Duration `env:"ACCESS_TOKEN_TTL" default:"15m"`
	RefreshTTL    time.Duration `env:"REFRESH_TOKEN_TTL" default:"168h"`
	Issuer        string        `env:"JWT_ISSUER" default:"marketplace"`
}

// Claims are carried by access tokens.
type Claims struct {
	Role          string `json:"role"`
	EmailVerified bool   `json:"emailVerified"`
	jwt.RegisteredClaims
}

// RefreshClaims are carried by refresh tokens. The JTI makes two tokens
// issued in the same second distinct.
type RefreshClaims struct {
	jwt.RegisteredClaims
}

// Subject identifies the user a token is minted for.
type Subject struct {
	UserID        string
	Role          string
	EmailVerified bool
}

// Pair is an access and refresh token issued together.
type Pair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

type Manager struct {
	cfg Config
	now func() time.Time
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("authtoken: secrets must be set")
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = 15 * time.Minute
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 7 * 24 * time.Hour
	}
	return &Manager{cfg: cfg, now: time.Now}, nil
}

func NewManagerFromEnv(prefix string) (*Manager, error) {
	var cfg Config
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing token config: %w", err)
	}
	return NewManager(cfg)
}

// AccessTTL is the lifetime of access tokens, used for cookie max-age.
func (m *Manager) AccessTTL() time.Duration { return m.cfg.AccessTTL }

// RefreshTTL is the lifetime of refresh tokens.
func (m *Manager) RefreshTTL() time.Duration { return m.cfg.RefreshTTL }

// Issue signs a new access and refresh token for sub.
func (m *Manager) Issue(sub Subject) (Pair, error) {
	now := m.now()

	accessExp := now.Add(m.cfg.AccessTTL)
	access := &Claims{
		Role:          sub.Role,
		EmailVerified: sub.EmailVerified,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub.UserID,
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(accessExp),
		},
	}
	accessTok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, access).SignedString([]byte(m.cfg.AccessSecret))
	if err != nil {
		return Pair{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshExp := now.Add(m.cfg.RefreshTTL)
	refresh := &RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   sub.UserID,
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(refreshExp),
		},
	}
	refreshTok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refresh).SignedString([]byte(m.cfg.RefreshSecret))
	if err != nil {
		return Pair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return Pair{
		AccessToken:      accessTok,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshTok,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// ParseAccess verifies an access token.
func (m *Manager) ParseAccess(tok string) (*Claims, error) {
	claims := &Claims{}
	if err := m.parse(tok, claims, m.cfg.AccessSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseRefresh verifies a refresh token.
func (m *Manager) ParseRefresh(tok string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := m.parse(tok, claims, m.cfg.RefreshSecret); err != nil {
		return nil, err
	}
	return claims, nil
}

func (m *Manager) parse(tok string, claims jwt.Claims, secret string) error {
	token, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return ErrTokenInvalid
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return ErrTokenInvalid
	}
	return nil
}
