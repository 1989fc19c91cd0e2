// Package authcasetest provides in-memory stores and a recording mailer for
// exercising the auth case without a database.
package authcasetest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kingjawir/marketplace/core/repositories/usersessionsrepo"
	"github.com/kingjawir/marketplace/core/repositories/usersrepo"
	"github.com/kingjawir/marketplace/core/repositories/verificationsrepo"
	"github.com/stretchr/testify/require"
)

func NewUsers() *Users {
	return &Users{users: map[string]usersrepo.User{}}
}

func NewSessions() *Sessions {
	return &Sessions{rows: map[string]usersessionsrepo.UserSession{}}
}

func NewVerifications() *Verifications {
	return &Verifications{rows: map[string]verificationsrepo.Verification{}}
}

// Count reports how many refresh sessions are stored.
func (m *Sessions) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// Has reports whether the refresh token is stored.
func (m *Sessions) Has(token string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[token]
	return ok
}

// Expire moves a stored session's expiry to at.
func (m *Sessions) Expire(token string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.rows[token]; ok {
		s.ExpiresAt = at
		m.rows[token] = s
	}
}

// Expire moves a stored verification token's expiry to at.
func (m *Verifications) Expire(token string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.rows[token]; ok {
		v.ExpiresAt = at
		m.rows[token] = v
	}
}

// Count reports how many verification tokens are stored.
func (m *Verifications) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

type Users struct {
	mu    sync.Mutex
	seq   int
	users map[string]usersrepo.User
}

func (m *Users) Create(_ context.Context, in usersrepo.CreateUser) (usersrepo.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == in.Email {
			return usersrepo.User{}, usersrepo.ErrEmailTaken
		}
	}
	m.seq++
	u := usersrepo.User{
		UserID:        fmt.Sprintf("u%d", m.seq),
		Email:         in.Email,
		PasswordHash:  in.PasswordHash,
		Name:          in.Name,
		Role:          in.Role,
		EmailVerified: in.EmailVerified,
		GoogleID:      in.GoogleID,
		AvatarURL:     in.AvatarURL,
	}
	m.users[u.UserID] = u
	return u, nil
}

func (m *Users) GetByID(_ context.Context, id string) (usersrepo.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return usersrepo.User{}, usersrepo.ErrUserNotFound
	}
	return u, nil
}

func (m *Users) find(pred func(usersrepo.User) bool) (usersrepo.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if pred(u) {
			return u, nil
		}
	}
	return usersrepo.User{}, usersrepo.ErrUserNotFound
}

func (m *Users) GetByEmail(_ context.Context, email string) (usersrepo.User, error) {
	return m.find(func(u usersrepo.User) bool { return u.Email == email })
}

func (m *Users) GetByGoogleID(_ context.Context, id string) (usersrepo.User, error) {
	return m.find(func(u usersrepo.User) bool { return u.GoogleID != nil && *u.GoogleID == id })
}

func (m *Users) update(id string, fn func(*usersrepo.User)) (usersrepo.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return usersrepo.User{}, usersrepo.ErrUserNotFound
	}
	fn(&u)
	m.users[id] = u
	return u, nil
}

func (m *Users) UpdatePassword(_ context.Context, id, hash string) error {
	_, err := m.update(id, func(u *usersrepo.User) { u.PasswordHash = &hash })
	return err
}

func (m *Users) SetEmailVerified(_ context.Context, id string) error {
	_, err := m.update(id, func(u *usersrepo.User) { u.EmailVerified = true })
	return err
}

func (m *Users) LinkGoogle(_ context.Context, id, googleID string, avatar *string) (usersrepo.User, error) {
	return m.update(id, func(u *usersrepo.User) {
		u.GoogleID = &googleID
		u.EmailVerified = true
		if avatar != nil {
			u.AvatarURL = avatar
		}
	})
}

type Sessions struct {
	mu   sync.Mutex
	rows map[string]usersessionsrepo.UserSession
}

func (m *Sessions) Create(_ context.Context, in usersessionsrepo.CreateUserSession) (usersessionsrepo.UserSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := usersessionsrepo.UserSession{UserID: in.UserID, Token: in.Token, ExpiresAt: in.ExpiresAt}
	m.rows[in.Token] = s
	return s, nil
}

func (m *Sessions) GetByToken(_ context.Context, token string) (usersessionsrepo.UserSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[token]
	if !ok {
		return usersessionsrepo.UserSession{}, usersessionsrepo.ErrSessionNotFound
	}
	return s, nil
}

func (m *Sessions) DeleteByToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, token)
	return nil
}

func (m *Sessions) RevokeAll(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, s := range m.rows {
		if s.UserID == userID {
			delete(m.rows, k)
		}
	}
	return nil
}

type Verifications struct {
	mu   sync.Mutex
	rows map[string]verificationsrepo.Verification
}

func (m *Verifications) Replace(_ context.Context, in verificationsrepo.CreateVerification) (verificationsrepo.Verification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.rows {
		if v.UserID == in.UserID && v.TokenType == in.TokenType {
			delete(m.rows, k)
		}
	}
	v := verificationsrepo.Verification{UserID: in.UserID, Token: in.Token, TokenType: in.TokenType, ExpiresAt: in.ExpiresAt}
	m.rows[in.Token] = v
	return v, nil
}

func (m *Verifications) GetByToken(_ context.Context, token string) (verificationsrepo.Verification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.rows[token]
	if !ok {
		return verificationsrepo.Verification{}, verificationsrepo.ErrTokenNotFound
	}
	return v, nil
}

func (m *Verifications) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, token)
	return nil
}

type SentMail struct {
	Kind, To, Link string
}

type Mailer struct {
	mu   sync.Mutex
	Sent []SentMail
	Fail bool
}

func (m *Mailer) record(Kind, To, Link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return fmt.Errorf("smtp down")
	}
	m.Sent = append(m.Sent, SentMail{kind, to, link})
	return nil
}

func (m *Mailer) SendVerification(_ context.Context, to, link string) error {
	return m.record("verify", to, link)
}

func (m *Mailer) SendPasswordReset(_ context.Context, to, link string) error {
	return m.record("reset", to, link)
}

func (m *Mailer) LastToken(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.Sent)
	_, token, ok := strings.Cut(m.Sent[len(m.Sent)-1].Link, "token=")
	require.True(t, ok)
	return token
}

// Get returns the stored user without going through the repository surface.
func (m *Users) Get(id string) (usersrepo.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	return u, ok
}

// SetRole mimics the role change a store repository applies in its own
// transaction.
func (m *Users) SetRole(id, role string) {
	_, _ = m.update(id, func(u *usersrepo.User) { u.Role = role })
}
