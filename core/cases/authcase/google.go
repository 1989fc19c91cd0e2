package authcase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kingjawir/marketplace/core/repositories/usersrepo"
	"github.com/kingjawir/marketplace/sdk/environment"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURI  string `env:"GOOGLE_REDIRECT_URI" default:"http://localhost:4101/auth/google/callback"`
}

// GoogleUser is the OpenID Connect profile returned by Google.
type GoogleUser struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleProvider runs the authorization code flow with PKCE.
type GoogleProvider interface {
	AuthURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (GoogleUser, error)
}

type GoogleOAuth struct {
	cfg *oauth2.Config
}

func NewGoogleOAuth(cfg GoogleConfig) *GoogleOAuth {
	return &GoogleOAuth{cfg: &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Endpoint:     google.Endpoint,
		Scopes:       []string{"openid", "email", "profile"},
	}}
}

// NewGoogleOAuthFromEnv returns nil when no client id is configured.
func NewGoogleOAuthFromEnv(prefix string) (*GoogleOAuth, error) {
	var cfg GoogleConfig
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing google config: %w", err)
	}
	if cfg.ClientID == "" {
		return nil, nil
	}
	return NewGoogleOAuth(cfg), nil
}

func (g *GoogleOAuth) AuthURL(state, verifier string) string {
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.S256ChallengeOption(verifier))
}

func (g *GoogleOAuth) Exchange(ctx context.Context, code, verifier string) (GoogleUser, error) {
	tok, err := g.cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return GoogleUser{}, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return GoogleUser{}, err
	}
	resp, err := g.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return GoogleUser{}, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return GoogleUser{}, fmt.Errorf("fetch user info: status %d", resp.StatusCode)
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return GoogleUser{}, fmt.Errorf("decode user info: %w", err)
	}
	return user, nil
}

// GoogleStart returns the consent URL plus the state and PKCE verifier the
// caller must keep until the callback.
func (c *Case) GoogleStart() (authURL, state, verifier string, err error) {
	if c.deps.Google == nil {
		return "", "", "", ErrGoogleDisabled
	}
	state = oauth2.GenerateVerifier()
	verifier = oauth2.GenerateVerifier()
	return c.deps.Google.AuthURL(state, verifier), state, verifier, nil
}

// GoogleCallback signs in the Google account, linking it to an existing
// user with the same email or creating a new one.
func (c *Case) GoogleCallback(ctx context.Context, code, verifier string) (Session, bool, error) {
	if c.deps.Google == nil {
		return Session{}, false, ErrGoogleDisabled
	}
	profile, err := c.deps.Google.Exchange(ctx, code, verifier)
	if err != nil {
		c.log.ErrorContext(ctx, "google oauth", "error", err)
		return Session{}, false, ErrGoogleFailed
	}

	user, created, err := c.findOrCreateGoogleUser(ctx, profile)
	if err != nil {
		return Session{}, false, fmt.Errorf("google callback: %w", err)
	}
	session, err := c.IssueSession(ctx, user)
	return session, created, err
}

func (c *Case) findOrCreateGoogleUser(ctx context.Context, profile GoogleUser) (usersrepo.User, bool, error) {
	var avatar *string
	if profile.Picture != "" {
		avatar = &profile.Picture
	}

	user, err := c.deps.Users.GetByGoogleID(ctx, profile.Sub)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, usersrepo.ErrUserNotFound) {
		return usersrepo.User{}, false, err
	}

	user, err = c.deps.Users.GetByEmail(ctx, profile.Email)
	if err == nil {
		user, err = c.deps.Users.LinkGoogle(ctx, user.UserID, profile.Sub, avatar)
		return user, false, err
	}
	if !errors.Is(err, usersrepo.ErrUserNotFound) {
		return usersrepo.User{}, false, err
	}

	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name, _, _ = strings.Cut(profile.Email, "@")
	}
	user, err = c.deps.Users.Create(ctx, usersrepo.CreateUser{
		Email:         profile.Email,
		Name:          name,
		Role:          usersrepo.RoleCustomer,
		EmailVerified: true,
		GoogleID:      &profile.Sub,
		AvatarURL:     avatar,
	})
	if err != nil {
		return usersrepo.User{}, false, err
	}
	c.log.InfoContext(ctx, "user created from google", "user_id", user.UserID)
	return user, true, nil
}
