package ordersrepobridge

import (
	"strings"
	"time"

	"github.com/kingjawir/marketplace/core/repositories/ordersrepo"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/sdk/validation"
)

type Customer struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

// ProductRef is nil on items whose product has since been deleted.
type ProductRef struct {
	ID       string  `json:"id"`
	Slug     *string `json:"slug"`
	ImageURL *string `json:"imageUrl"`
}

type StoreRef struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
	Slug *string `json:"slug"`
}

type Item struct {
	ID          string      `json:"id"`
	ProductID   *string     `json:"productId"`
	ProductName string      `json:"productName"`
	Price       int64       `json:"price"`
	Quantity    int         `json:"quantity"`
	Subtotal    int64       `json:"subtotal"`
	Product     *ProductRef `json:"product"`
	Store       *StoreRef   `json:"store"`
}

type Order struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Status      string    `json:"status"`
	TotalAmount int64     `json:"totalAmount"`
	Customer    *Customer `json:"user,omitempty"`
	Items       []Item    `json:"items,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OrderList flattens the page info next to the orders.
type OrderList struct {
	Orders []Order `json:"orders"`
	fop.PageInfo
}

type UpdateStatusInput struct {
	Status string `json:"status"`
}

func (in *UpdateStatusInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(ordersrepo.ValidStatus(strings.ToUpper(strings.TrimSpace(in.Status))), "status", statusMessage)
	return fe.Err()
}

const statusMessage = "Status tidak valid"
