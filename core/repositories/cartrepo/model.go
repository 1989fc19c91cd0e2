package cartrepo

import "time"

type CartItem struct {
	CartItemID string    `db:"cart_item_id"`
	UserID     string    `db:"user_id"`
	ProductID  string    `db:"product_id"`
	Quantity   int       `db:"quantity"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// CartLine is a cart item with the product and store it refers to.
type CartLine struct {
	CartItem
	ProductName     string  `db:"product_name"`
	ProductSlug     string  `db:"product_slug"`
	ProductImageURL *string `db:"product_image_url"`
	Price           int64   `db:"product_price"`
	Stock           int     `db:"product_stock"`
	StoreID         string  `db:"store_id"`
	StoreName       string  `db:"store_name"`
	StoreSlug       string  `db:"store_slug"`
}

func (l CartLine) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

type Cart struct {
	Items      []CartLine
	TotalItems int
	TotalPrice int64
}

// NewCart sums the lines of a cart.
func NewCart(lines []CartLine) Cart {
	cart := Cart{Items: lines}
	if cart.Items == nil {
		cart.Items = []CartLine{}
	}
	for _, l := range lines {
		cart.TotalItems += l.Quantity
		cart.TotalPrice += l.Subtotal()
	}
	return cart
}
