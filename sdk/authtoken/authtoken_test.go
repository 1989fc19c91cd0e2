package authtoken

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		Issuer:        "marketplace",
	})
	require.NoError(t, err)
	return m
}

func TestIssueAndParse(t *testing.T) {
	m := newTestManager(t)

	pair, err := m.Issue(Subject{UserID: "usr1", Role: "SELLER", EmailVerified: true})
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	claims, err := m.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "usr1", claims.Subject)
	assert.Equal(t, "SELLER", claims.Role)
	assert.True(t, claims.EmailVerified)

	refresh, err := m.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "usr1", refresh.Subject)
	assert.NotEmpty(t, refresh.ID)
}

func TestRefreshTokensAreUnique(t *testing.T) {
	m := newTestManager(t)
	a, err := m.Issue(Subject{UserID: "usr1"})
	require.NoError(t, err)
	b, err := m.Issue(Subject{UserID: "usr1"})
	require.NoError(t, err)
	assert.NotEqual(t, a.RefreshToken, b.RefreshToken)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	m := newTestManager(t)
	pair, err := m.Issue(Subject{UserID: "usr1"})
	require.NoError(t, err)

	_, err = m.ParseAccess(pair.RefreshToken)
	assert.True(t, errors.Is(err, ErrTokenInvalid))

	_, err = m.ParseRefresh(pair.AccessToken)
	assert.True(t, errors.Is(err, ErrTokenInvalid))
}

func TestExpiredToken(t *testing.T) {
	m := newTestManager(t)
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }

	pair, err := m.Issue(Subject{UserID: "usr1"})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestGarbageToken(t *testing.T) {
	m := newTestManager(t)
	_, err := m.ParseAccess("not.a.jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestNewManagerRequiresSecrets(t *testing.T) {
	_, err := NewManager(Config{AccessSecret: "x"})
	assert.Error(t, err)
}
