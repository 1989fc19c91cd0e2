package storesrepobridge

import (
	"strings"
	"time"

	"github.com/kingjawir/marketplace/bridge/cases/authcasebridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/fopbridge"
	"github.com/kingjawir/marketplace/sdk/validation"
)

type Owner struct {
	Name   string  `json:"name"`
	Avatar *string `json:"avatar"`
}

type Store struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  *string   `json:"description"`
	LogoURL      *string   `json:"logo"`
	ProductCount *int      `json:"productCount,omitempty"`
	Owner        *Owner    `json:"user,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type StoreEnvelope struct {
	Store Store `json:"store"`
}

// StoreWithSession is returned when the caller's role changed and new
// tokens were issued.
type StoreWithSession struct {
	Store *Store `json:"store,omitempty"`
	authcasebridge.SessionResponse
}

type StoreList struct {
	Stores     []Store              `json:"stores"`
	Pagination fopbridge.Pagination `json:"pagination"`
}

type CreateStoreInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo"`
}

func (in *CreateStoreInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(validation.LenBetween(strings.TrimSpace(in.Name), 3, 100), "name", "Nama toko harus 3-100 karakter")
	checkOptional(fe, in.Description, in.LogoURL)
	return fe.Err()
}

// UpdateStoreInput leaves omitted fields unchanged.
type UpdateStoreInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	LogoURL     *string `json:"logo"`
}

func (in *UpdateStoreInput) Validate() error {
	fe := validation.FieldErrors{}
	if in.Name != nil {
		fe.Check(validation.LenBetween(strings.TrimSpace(*in.Name), 3, 100), "name", "Nama toko harus 3-100 karakter")
	}
	checkOptional(fe, in.Description, in.LogoURL)
	return fe.Err()
}

func checkOptional(fe validation.FieldErrors, description, logo *string) {
	if description != nil {
		fe.Check(validation.LenBetween(*description, 0, 1000), "description", "Deskripsi maksimal 1000 karakter")
	}
	if logo != nil {
		if l := strings.TrimSpace(*logo); l != "" {
			fe.Check(validation.IsHTTPURL(l), "logo", "URL logo tidak valid")
		}
	}
}
