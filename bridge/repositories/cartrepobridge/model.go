package cartrepobridge

import (
	"strings"
	"time"

	"github.com/kingjawir/marketplace/sdk/validation"
)

type StoreRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type CartProduct struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Slug     string   `json:"slug"`
	Price    int64    `json:"price"`
	Stock    int      `json:"stock"`
	ImageURL *string  `json:"imageUrl"`
	Store    StoreRef `json:"store"`
}

type Item struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Line struct {
	Item
	Product  CartProduct `json:"product"`
	Subtotal int64       `json:"subtotal"`
}

type Cart struct {
	Items      []Line `json:"items"`
	TotalItems int    `json:"totalItems"`
	TotalPrice int64  `json:"totalPrice"`
}

const maxQuantity = 9999

type AddInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (in *AddInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(strings.TrimSpace(in.ProductID) != "", "productId", "productId harus diisi")
	fe.Check(in.Quantity >= 1 && in.Quantity <= maxQuantity, "quantity", "Quantity harus 1-9999")
	return fe.Err()
}

// UpdateInput takes a pointer so a missing quantity is not read as zero,
// which would remove the line.
type UpdateInput struct {
	Quantity *int `json:"quantity"`
}

func (in *UpdateInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(in.Quantity != nil, "quantity", "quantity harus diisi")
	if in.Quantity != nil {
		fe.Check(*in.Quantity <= maxQuantity, "quantity", "Quantity maksimal 9999")
	}
	return fe.Err()
}
