package authcasebridge

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kingjawir/marketplace/bridge/repositories/usersrepobridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/errs"
	"github.com/kingjawir/marketplace/bridge/scaffolding/fopbridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/cases/authcase"
	"github.com/kingjawir/marketplace/core/repositories/usersrepo"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/logger"
)

const (
	RefreshCookie = "refreshToken"

	googleStateCookie    = "googleState"
	googleVerifierCookie = "googleVerifier"
	googleCookieTTL      = 10 * time.Minute
)

type bridge struct {
	log     *logger.Logger
	auth    *authcase.Case
	cookies web.CookieOptions
	appURL  string
}

func newBridge(cfg Config) *bridge {
	return &bridge{
		log:     cfg.Log,
		auth:    cfg.Case,
		cookies: cfg.Cookies,
		appURL:  strings.TrimSuffix(cfg.AppURL, "/"),
	}
}

func authError(err error) *errs.Error {
	switch {
	case errors.Is(err, authcase.ErrInvalidCredentials):
		return errs.Newf(errs.InvalidCredentials, "Email atau password salah")
	case errors.Is(err, authcase.ErrOAuthNoPassword):
		return errs.Newf(errs.OAuthNoPassword, "Akun ini menggunakan login Google")
	case errors.Is(err, authcase.ErrInvalidPassword):
		return errs.Newf(errs.InvalidPassword, "Password saat ini salah")
	case errors.Is(err, authcase.ErrSamePassword):
		return errs.Newf(errs.SamePassword, "Password baru tidak boleh sama dengan password lama")
	case errors.Is(err, authcase.ErrTokenExpired):
		return errs.Newf(errs.TokenExpired, "Token sudah kedaluwarsa")
	case errors.Is(err, authcase.ErrTokenInvalid):
		return errs.Newf(errs.TokenInvalid, "Token tidak valid")
	case errors.Is(err, authcase.ErrAlreadyVerified):
		return errs.Newf(errs.EmailAlreadyVerified, "Email sudah diverifikasi")
	case errors.Is(err, authcase.ErrUserExists), errors.Is(err, usersrepo.ErrEmailTaken):
		return errs.Newf(errs.UserAlreadyExists, "Email sudah terdaftar")
	case errors.Is(err, usersrepo.ErrUserNotFound):
		return errs.Newf(errs.UserNotFound, "User tidak ditemukan")
	case errors.Is(err, authcase.ErrGoogleDisabled):
		return errs.Newf(errs.BadRequest, "Login Google belum dikonfigurasi")
	}
	return errs.New(errs.InternalOnlyLog, err)
}

// SetSessionCookies writes the access and refresh cookies of a freshly
// issued session.
func SetSessionCookies(ctx context.Context, auth *authcase.Case, opts web.CookieOptions, s authcase.Session) {
	web.SetCookie(ctx, mid.AccessCookie, s.Tokens.AccessToken, auth.AccessTTL(), opts)
	web.SetCookie(ctx, RefreshCookie, s.Tokens.RefreshToken, auth.RefreshTTL(), opts)
}

func (b *bridge) setSession(ctx context.Context, s authcase.Session) {
	SetSessionCookies(ctx, b.auth, b.cookies, s)
}

func (b *bridge) clearSession(ctx context.Context) {
	web.ClearCookie(ctx, mid.AccessCookie, b.cookies)
	web.ClearCookie(ctx, RefreshCookie, b.cookies)
}

// NewSessionResponse is the payload returned wherever a session is issued.
func NewSessionResponse(s authcase.Session) SessionResponse {
	return SessionResponse{
		User:         usersrepobridge.MarshalToBridge(s.User),
		AccessToken:  s.Tokens.AccessToken,
		RefreshToken: s.Tokens.RefreshToken,
	}
}

func (b *bridge) httpRegister(ctx context.Context, r *http.Request) web.Encoder {
	var input RegisterInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	user, err := b.auth.Register(ctx, authcase.RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
	})
	if err != nil {
		return authError(err)
	}
	return fopbridge.NewCreatedResponse("Registrasi berhasil. Silakan cek email untuk verifikasi.", usersrepobridge.MarshalToBridge(user))
}

func (b *bridge) httpLogin(ctx context.Context, r *http.Request) web.Encoder {
	var input LoginInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	session, err := b.auth.Login(ctx, input.Email, input.Password)
	if err != nil {
		return authError(err)
	}
	b.setSession(ctx, session)
	return fopbridge.NewResponse("Login berhasil", NewSessionResponse(session))
}

func (b *bridge) httpRefresh(ctx context.Context, r *http.Request) web.Encoder {
	token := web.Cookie(r, RefreshCookie)
	if token == "" {
		var input RefreshInput
		if err := web.DecodeOptional(r, &input); err != nil {
			return errs.FromDecode(err)
		}
		token = input.RefreshToken
	}
	if token == "" {
		return errs.Newf(errs.TokenInvalid, "Refresh token tidak ditemukan")
	}

	session, err := b.auth.Refresh(ctx, token)
	if err != nil {
		if errors.Is(err, authcase.ErrTokenInvalid) || errors.Is(err, authcase.ErrTokenExpired) {
			b.clearSession(ctx)
		}
		return authError(err)
	}
	b.setSession(ctx, session)
	return fopbridge.NewResponse("Token berhasil diperbarui", NewSessionResponse(session))
}

func (b *bridge) httpLogout(ctx context.Context, r *http.Request) web.Encoder {
	if token := web.Cookie(r, RefreshCookie); token != "" {
		if err := b.auth.Logout(ctx, token); err != nil {
			return authError(err)
		}
	}
	b.clearSession(ctx)
	return fopbridge.NewMessage("Logout berhasil")
}

func (b *bridge) httpMe(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	user, err := b.auth.Me(ctx, userID)
	if err != nil {
		return authError(err)
	}
	return fopbridge.NewResponse("User berhasil diambil", usersrepobridge.MarshalToBridge(user))
}

func (b *bridge) httpVerifyEmailLink(ctx context.Context, r *http.Request) web.Encoder {
	token := web.QueryParam(r, "token")
	if token == "" {
		return errs.Newf(errs.TokenInvalid, "Token tidak valid")
	}
	if err := b.auth.VerifyEmail(ctx, token); err != nil {
		return authError(err)
	}
	return fopbridge.NewMessage("Email berhasil diverifikasi")
}

func (b *bridge) httpVerifyEmail(ctx context.Context, r *http.Request) web.Encoder {
	var input TokenInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}
	if err := b.auth.VerifyEmail(ctx, input.Token); err != nil {
		return authError(err)
	}
	return fopbridge.NewMessage("Email berhasil diverifikasi")
}

func (b *bridge) httpResendVerification(ctx context.Context, r *http.Request) web.Encoder {
	var input EmailInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}
	if err := b.auth.ResendVerification(ctx, input.Email); err != nil {
		return authError(err)
	}
	return fopbridge.NewMessage("Email verifikasi telah dikirim ulang")
}

func (b *bridge) httpForgotPassword(ctx context.Context, r *http.Request) web.Encoder {
	var input EmailInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}
	if err := b.auth.ForgotPassword(ctx, input.Email); err != nil {
		return authError(err)
	}
	return fopbridge.NewMessage("Jika email terdaftar, link reset password telah dikirim")
}

func (b *bridge) httpResetPassword(ctx context.Context, r *http.Request) web.Encoder {
	var input ResetPasswordInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}
	if err := b.auth.ResetPassword(ctx, input.Token, input.Password); err != nil {
		return authError(err)
	}
	b.clearSession(ctx)
	return fopbridge.NewMessage("Password berhasil direset. Silakan login kembali.")
}

func (b *bridge) httpChangePassword(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	var input ChangePasswordInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}
	if err := b.auth.ChangePassword(ctx, userID, input.CurrentPassword, input.NewPassword); err != nil {
		return authError(err)
	}
	return fopbridge.NewMessage("Password berhasil diubah")
}

func (b *bridge) httpGoogleStart(ctx context.Context, r *http.Request) web.Encoder {
	authURL, state, verifier, err := b.auth.GoogleStart()
	if err != nil {
		return authError(err)
	}
	web.SetCookie(ctx, googleStateCookie, state, googleCookieTTL, b.cookies)
	web.SetCookie(ctx, googleVerifierCookie, verifier, googleCookieTTL, b.cookies)
	return web.NewRedirect(authURL)
}

// httpGoogleCallback always ends in a redirect back to the app, carrying an
// error query parameter when sign in failed.
func (b *bridge) httpGoogleCallback(ctx context.Context, r *http.Request) web.Encoder {
	state := web.Cookie(r, googleStateCookie)
	verifier := web.Cookie(r, googleVerifierCookie)
	web.ClearCookie(ctx, googleStateCookie, b.cookies)
	web.ClearCookie(ctx, googleVerifierCookie, b.cookies)

	if errParam := web.QueryParam(r, "error"); errParam != "" {
		return b.loginRedirect("google_" + errParam)
	}
	if state == "" || web.QueryParam(r, "state") != state {
		b.log.WarnContext(ctx, "google callback state mismatch")
		return b.loginRedirect("invalid_state")
	}

	session, created, err := b.auth.GoogleCallback(ctx, web.QueryParam(r, "code"), verifier)
	if err != nil {
		b.log.ErrorContext(ctx, "google callback", "error", err)
		return b.loginRedirect("google_auth_failed")
	}

	b.setSession(ctx, session)
	b.log.InfoContext(ctx, "google sign in", "user_id", session.User.UserID, "created", created)
	return web.NewRedirect(b.appURL + "/")
}

func (b *bridge) loginRedirect(reason string) web.Redirect {
	return web.NewRedirect(b.appURL + "/auth/login?error=" + url.QueryEscape(reason))
}
