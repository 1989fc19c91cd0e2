package usersrepobridge

import (
	"strings"
	"time"

	"github.com/kingjawir/marketplace/bridge/scaffolding/fopbridge"
	"github.com/kingjawir/marketplace/core/repositories/usersrepo"
	"github.com/kingjawir/marketplace/sdk/validation"
)

// User is the public shape of a user. The password hash never leaves the
// server.
type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Role          string    `json:"role"`
	EmailVerified bool      `json:"emailVerified"`
	HasPassword   bool      `json:"hasPassword"`
	GoogleLinked  bool      `json:"googleLinked"`
	Avatar        *string   `json:"avatar"`
	Phone         *string   `json:"phone"`
	Address       *string   `json:"address"`
	Bio           *string   `json:"bio"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type StoreSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	ProductCount int    `json:"productCount"`
}

type Counts struct {
	Orders  int `json:"orders"`
	Reviews int `json:"reviews"`
	Cart    int `json:"cartItems"`
}

type UserDetail struct {
	User
	Store  *StoreSummary `json:"store"`
	Counts Counts        `json:"_count"`
}

type UserList struct {
	Users      []UserDetail         `json:"users"`
	Pagination fopbridge.Pagination `json:"pagination"`
}

type Migration struct {
	Version   string     `json:"version"`
	Applied   bool       `json:"applied"`
	Checksum  string     `json:"checksum,omitempty"`
	AppliedAt *time.Time `json:"appliedAt,omitempty"`
}

// UpdateProfileInput is the body of PUT /profile. Fields left out are
// unchanged; blank optional fields are cleared.
type UpdateProfileInput struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Bio     *string `json:"bio"`
}

func (in *UpdateProfileInput) Validate() error {
	fe := validation.FieldErrors{}
	if in.Name != nil {
		fe.Check(validation.LenBetween(strings.TrimSpace(*in.Name), 2, 100), "name", "Nama harus 2-100 karakter")
	}
	if in.Phone != nil {
		if p := strings.TrimSpace(*in.Phone); p != "" {
			fe.Check(validation.IsPhone(p), "phone", "Format nomor telepon tidak valid")
		}
	}
	if in.Address != nil {
		fe.Check(validation.LenBetween(*in.Address, 0, 500), "address", "Alamat maksimal 500 karakter")
	}
	if in.Bio != nil {
		fe.Check(validation.LenBetween(*in.Bio, 0, 500), "bio", "Bio maksimal 500 karakter")
	}
	return fe.Err()
}

type UpdateAvatarInput struct {
	AvatarURL string `json:"avatarUrl"`
}

func (in *UpdateAvatarInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(validation.IsHTTPURL(strings.TrimSpace(in.AvatarURL)), "avatarUrl", "URL avatar tidak valid")
	return fe.Err()
}

type UpdateRoleInput struct {
	Role string `json:"role"`
}

func (in *UpdateRoleInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(usersrepo.ValidRole(strings.ToUpper(strings.TrimSpace(in.Role))), "role", roleMessage)
	return fe.Err()
}

const roleMessage = "Role tidak valid. Gunakan: CUSTOMER, SELLER, atau ADMIN"
