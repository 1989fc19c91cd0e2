package ordersrepo

import "time"

// Order statuses.
const (
	StatusPending   = "PENDING"
	StatusPaid      = "PAID"
	StatusShipped   = "SHIPPED"
	StatusDone      = "DONE"
	StatusCancelled = "CANCELLED"
)

var transitions = map[string][]string{
	StatusPending:   {StatusPaid, StatusCancelled},
	StatusPaid:      {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDone},
	StatusDone:      {},
	StatusCancelled: {},
}

func ValidStatus(status string) bool {
	_, ok := transitions[status]
	return ok
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	OrderID     string    `db:"order_id"`
	UserID      string    `db:"user_id"`
	Status      string    `db:"status"`
	TotalAmount int64     `db:"total_amount"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// OrderItem keeps the name and price a product had at checkout. ProductID is
// nil once the product has been deleted.
type OrderItem struct {
	OrderItemID     string  `db:"order_item_id"`
	OrderID         string  `db:"order_id"`
	ProductID       *string `db:"product_id"`
	StoreID         *string `db:"store_id"`
	ProductName     string  `db:"product_name"`
	Price           int64   `db:"price"`
	Quantity        int     `db:"quantity"`
	ProductSlug     *string `db:"product_slug"`
	ProductImageURL *string `db:"product_image_url"`
	StoreName       *string `db:"store_name"`
	StoreSlug       *string `db:"store_slug"`
	StoreUserID     *string `db:"store_user_id"`
}

func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Quantity)
}

type OrderDetail struct {
	Order
	CustomerName    string      `db:"customer_name"`
	CustomerEmail   string      `db:"customer_email"`
	CustomerPhone   *string     `db:"customer_phone"`
	CustomerAddress *string     `db:"customer_address"`
	Items           []OrderItem `db:"-"`
}

// HasStore reports whether any item of the order was sold by storeID.
func (o OrderDetail) HasStore(storeID string) bool {
	for _, it := range o.Items {
		if it.StoreID != nil && *it.StoreID == storeID {
			return true
		}
	}
	return false
}

// HasSeller reports whether any item of the order was sold by the store of
// userID.
func (o OrderDetail) HasSeller(userID string) bool {
	for _, it := range o.Items {
		if it.StoreUserID != nil && *it.StoreUserID == userID {
			return true
		}
	}
	return false
}

// CheckoutLine is a cart line read under lock while an order is placed.
type CheckoutLine struct {
	ProductID string `db:"product_id"`
	Name      string `db:"name"`
	Price     int64  `db:"price"`
	Stock     int    `db:"stock"`
	StoreID   string `db:"store_id"`
	Quantity  int    `db:"quantity"`
}

// Actor is the caller reading an order.
type Actor struct {
	UserID  string
	IsAdmin bool
}
