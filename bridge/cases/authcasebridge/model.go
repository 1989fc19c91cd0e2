package authcasebridge

import (
	"strings"

	"github.com/kingjawir/marketplace/bridge/repositories/usersrepobridge"
	"github.com/kingjawir/marketplace/sdk/validation"
)

type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (in *RegisterInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(validation.IsEmail(strings.TrimSpace(in.Email)), "email", "Format email tidak valid")
	fe.Check(len(in.Password) >= 6, "password", "Password minimal 6 karakter")
	fe.Check(validation.LenBetween(strings.TrimSpace(in.Name), 2, 100), "name", "Nama minimal 2 karakter")
	return fe.Err()
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *LoginInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(validation.IsEmail(strings.TrimSpace(in.Email)), "email", "Format email tidak valid")
	fe.Check(in.Password != "", "password", "Password wajib diisi")
	return fe.Err()
}

type RefreshInput struct {
	RefreshToken string `json:"refreshToken"`
}

type TokenInput struct {
	Token string `json:"token"`
}

func (in *TokenInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(strings.TrimSpace(in.Token) != "", "token", "Token wajib diisi")
	return fe.Err()
}

type EmailInput struct {
	Email string `json:"email"`
}

func (in *EmailInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(validation.IsEmail(strings.TrimSpace(in.Email)), "email", "Format email tidak valid")
	return fe.Err()
}

type ResetPasswordInput struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (in *ResetPasswordInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(strings.TrimSpace(in.Token) != "", "token", "Token wajib diisi")
	fe.Check(len(in.Password) >= 6, "password", "Password minimal 6 karakter")
	return fe.Err()
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (in *ChangePasswordInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(in.CurrentPassword != "", "currentPassword", "Password saat ini wajib diisi")
	fe.Check(len(in.NewPassword) >= 6, "newPassword", "Password baru minimal 6 karakter")
	return fe.Err()
}

// SessionResponse is returned by login and refresh. The tokens are also set
// as cookies.
type SessionResponse struct {
	User         usersrepobridge.User `json:"user"`
	AccessToken  string               `json:"accessToken"`
	RefreshToken string               `json:"refreshToken"`
}
