package storesrepo

import "time"

type Store struct {
	StoreID     string    `db:"store_id"`
	UserID      string    `db:"user_id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Description *string   `db:"description"`
	LogoURL     *string   `db:"logo_url"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// StoreDetail is a store with its product count and public owner fields.
type StoreDetail struct {
	Store
	ProductCount int     `db:"product_count"`
	OwnerName    string  `db:"owner_name"`
	OwnerAvatar  *string `db:"owner_avatar"`
}

type CreateStore struct {
	UserID      string
	Name        string
	Slug        string
	Description *string
	LogoURL     *string
}

// UpdateStore leaves nil fields unchanged.
type UpdateStore struct {
	Name        *string
	Slug        *string
	Description *string
	LogoURL     *string
}

type QueryFilter struct {
	Search *string
}
