package authcase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kingjawir/marketplace/core/repositories/usersrepo"
	"github.com/kingjawir/marketplace/core/repositories/verificationsrepo"
	"github.com/kingjawir/marketplace/sdk/cryptids"
	"github.com/kingjawir/marketplace/sdk/passwords"
)

type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Register creates a customer account and mails a verification link. A mail
// failure does not fail the registration.
func (c *Case) Register(ctx context.Context, input RegisterInput) (usersrepo.User, error) {
	if _, err := c.deps.Users.GetByEmail(ctx, input.Email); err == nil {
		return usersrepo.User{}, ErrUserExists
	} else if !errors.Is(err, usersrepo.ErrUserNotFound) {
		return usersrepo.User{}, fmt.Errorf("register: %w", err)
	}

	hash, err := passwords.Hash(input.Password)
	if err != nil {
		return usersrepo.User{}, fmt.Errorf("register: %w", err)
	}

	user, err := c.deps.Users.Create(ctx, usersrepo.CreateUser{
		Email:        input.Email,
		PasswordHash: &hash,
		Name:         input.Name,
		Role:         usersrepo.RoleCustomer,
	})
	if err != nil {
		if errors.Is(err, usersrepo.ErrEmailTaken) {
			return usersrepo.User{}, ErrUserExists
		}
		return usersrepo.User{}, fmt.Errorf("register: %w", err)
	}

	c.sendVerification(ctx, user)
	return user, nil
}

func (c *Case) sendVerification(ctx context.Context, user usersrepo.User) {
	token, err := c.newToken(ctx, user.UserID, verificationsrepo.TypeEmail, verificationsrepo.EmailTTL)
	if err != nil {
		c.log.ErrorContext(ctx, "create verification token", "user_id", user.UserID, "error", err)
		return
	}
	if err := c.deps.Mailer.SendVerification(ctx, user.Email, c.link("/auth/verify-email", token)); err != nil {
		c.log.ErrorContext(ctx, "send verification email", "user_id", user.UserID, "error", err)
	}
}

func (c *Case) newToken(ctx context.Context, userID, tokenType string, ttl time.Duration) (string, error) {
	token, err := cryptids.GenerateTokenHex(32)
	if err != nil {
		return "", err
	}
	_, err = c.deps.Verifications.Replace(ctx, verificationsrepo.CreateVerification{
		UserID:    userID,
		Token:     token,
		TokenType: tokenType,
		ExpiresAt: c.now().Add(ttl),
	})
	return token, err
}

func (c *Case) link(path, token string) string {
	return c.cfg.AppURL + path + "?token=" + url.QueryEscape(token)
}

func (c *Case) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := c.deps.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, usersrepo.ErrUserNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("login: %w", err)
	}
	if !user.HasPassword() {
		return Session{}, ErrOAuthNoPassword
	}
	if err := passwords.Compare(*user.PasswordHash, password); err != nil {
		if errors.Is(err, passwords.ErrMismatch) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("login: %w", err)
	}

	c.log.InfoContext(ctx, "user logged in", "user_id", user.UserID)
	return c.IssueSession(ctx, user)
}

// consumeToken loads a one time token of the wanted type. Expired tokens
// are deleted on sight.
func (c *Case) consumeToken(ctx context.Context, token, tokenType string) (verificationsrepo.Verification, error) {
	if token == "" {
		return verificationsrepo.Verification{}, ErrTokenInvalid
	}
	v, err := c.deps.Verifications.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, verificationsrepo.ErrTokenNotFound) {
			return verificationsrepo.Verification{}, ErrTokenInvalid
		}
		return verificationsrepo.Verification{}, err
	}
	if v.TokenType != tokenType {
		return verificationsrepo.Verification{}, ErrTokenInvalid
	}
	if v.Expired(c.now()) {
		_ = c.deps.Verifications.Delete(ctx, token)
		return verificationsrepo.Verification{}, ErrTokenExpired
	}
	return v, nil
}

func (c *Case) VerifyEmail(ctx context.Context, token string) error {
	v, err := c.consumeToken(ctx, token, verificationsrepo.TypeEmail)
	if err != nil {
		return err
	}

	user, err := c.deps.Users.GetByID(ctx, v.UserID)
	if err != nil {
		return fmt.Errorf("verify email: %w", err)
	}
	if user.EmailVerified {
		_ = c.deps.Verifications.Delete(ctx, token)
		return ErrAlreadyVerified
	}

	if err := c.deps.Users.SetEmailVerified(ctx, v.UserID); err != nil {
		return fmt.Errorf("verify email: %w", err)
	}
	if err := c.deps.Verifications.Delete(ctx, token); err != nil {
		return fmt.Errorf("verify email: %w", err)
	}
	c.log.InfoContext(ctx, "email verified", "user_id", v.UserID)
	return nil
}

// ResendVerification replaces any outstanding email token with a new one.
func (c *Case) ResendVerification(ctx context.Context, email string) error {
	user, err := c.deps.Users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("resend verification: %w", err)
	}
	if user.EmailVerified {
		return ErrAlreadyVerified
	}

	token, err := c.newToken(ctx, user.UserID, verificationsrepo.TypeEmail, verificationsrepo.EmailTTL)
	if err != nil {
		return fmt.Errorf("resend verification: %w", err)
	}
	if err := c.deps.Mailer.SendVerification(ctx, user.Email, c.link("/auth/verify-email", token)); err != nil {
		return fmt.Errorf("resend verification: %w", err)
	}
	return nil
}

// ForgotPassword never reveals whether the email exists. Google only
// accounts get no link.
func (c *Case) ForgotPassword(ctx context.Context, email string) error {
	user, err := c.deps.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, usersrepo.ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("forgot password: %w", err)
	}
	if !user.HasPassword() {
		return nil
	}

	token, err := c.newToken(ctx, user.UserID, verificationsrepo.TypeResetPassword, verificationsrepo.ResetPasswordTTL)
	if err != nil {
		return fmt.Errorf("forgot password: %w", err)
	}
	if err := c.deps.Mailer.SendPasswordReset(ctx, user.Email, c.link("/auth/reset-password", token)); err != nil {
		c.log.ErrorContext(ctx, "send reset email", "user_id", user.UserID, "error", err)
	}
	return nil
}

// ResetPassword sets a new password from a reset token and signs the user
// out everywhere.
func (c *Case) ResetPassword(ctx context.Context, token, password string) error {
	v, err := c.consumeToken(ctx, token, verificationsrepo.TypeResetPassword)
	if err != nil {
		return err
	}

	user, err := c.deps.Users.GetByID(ctx, v.UserID)
	if err != nil {
		_ = c.deps.Verifications.Delete(ctx, token)
		return fmt.Errorf("reset password: %w", err)
	}
	if user.HasPassword() && passwords.Compare(*user.PasswordHash, password) == nil {
		return ErrSamePassword
	}

	if err := c.setPassword(ctx, user.UserID, password); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if err := c.deps.Verifications.Delete(ctx, token); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	if err := c.deps.Sessions.RevokeAll(ctx, user.UserID); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}
	return nil
}

func (c *Case) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := c.deps.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	if !user.HasPassword() {
		return ErrOAuthNoPassword
	}
	if err := passwords.Compare(*user.PasswordHash, current); err != nil {
		if errors.Is(err, passwords.ErrMismatch) {
			return ErrInvalidPassword
		}
		return fmt.Errorf("change password: %w", err)
	}
	if current == next {
		return ErrSamePassword
	}

	if err := c.setPassword(ctx, userID, next); err != nil {
		return fmt.Errorf("change password: %w", err)
	}
	return nil
}

func (c *Case) setPassword(ctx context.Context, userID, plain string) error {
	hash, err := passwords.Hash(plain)
	if err != nil {
		return err
	}
	return c.deps.Users.UpdatePassword(ctx, userID, hash)
}
