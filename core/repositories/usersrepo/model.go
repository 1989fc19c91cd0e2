package usersrepo

import (
	"time"
)

// Roles a user can hold.
const (
	RoleCustomer = "CUSTOMER"
	RoleSeller   = "SELLER"
	RoleAdmin    = "ADMIN"
)

// ValidRole reports whether role is one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	UserID        string    `db:"user_id"`
	Email         string    `db:"email"`
	PasswordHash  *string   `db:"password_hash"`
	Name          string    `db:"name"`
	Role          string    `db:"role"`
	EmailVerified bool      `db:"email_verified"`
	GoogleID      *string   `db:"google_id"`
	AvatarURL     *string   `db:"avatar_url"`
	Phone         *string   `db:"phone"`
	Address       *string   `db:"address"`
	Bio           *string   `db:"bio"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// HasPassword is false for accounts created through Google sign in.
func (u User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// UserDetail is a user with its store and activity counts, as shown on the
// profile page and in the admin panel.
type UserDetail struct {
	User
	StoreID           *string `db:"store_id"`
	StoreName         *string `db:"store_name"`
	StoreSlug         *string `db:"store_slug"`
	StoreProductCount int     `db:"store_product_count"`
	OrderCount        int     `db:"order_count"`
	ReviewCount       int     `db:"review_count"`
	CartCount         int     `db:"cart_count"`
}

type CreateUser struct {
	Email         string
	PasswordHash  *string
	Name          string
	Role          string
	EmailVerified bool
	GoogleID      *string
	AvatarURL     *string
}

// UpdateProfile changes profile fields. A nil field is left unchanged; a
// pointer to an empty string clears an optional field.
type UpdateProfile struct {
	Name    *string
	Phone   *string
	Address *string
	Bio     *string
}

// QueryFilter holds the available fields a user list can be filtered on.
type QueryFilter struct {
	Search *string
	Role   *string
}
