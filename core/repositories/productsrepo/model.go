package productsrepo

import "time"

type Product struct {
	ProductID   string    `db:"product_id"`
	StoreID     string    `db:"store_id"`
	CategoryID  string    `db:"category_id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Description *string   `db:"description"`
	Price       int64     `db:"price"`
	Stock       int       `db:"stock"`
	ImageURL    *string   `db:"image_url"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// ProductDetail is a product joined with its store, category and review
// summary.
type ProductDetail struct {
	Product
	StoreName     string  `db:"store_name"`
	StoreSlug     string  `db:"store_slug"`
	StoreUserID   string  `db:"store_user_id"`
	CategoryName  string  `db:"category_name"`
	CategorySlug  string  `db:"category_slug"`
	AverageRating float64 `db:"average_rating"`
	ReviewCount   int     `db:"review_count"`
}

type CreateProduct struct {
	StoreID     string
	CategoryID  string
	Name        string
	Slug        string
	Description *string
	Price       int64
	Stock       int
	ImageURL    *string
}

// UpdateProduct leaves nil fields unchanged. An empty Description or ImageURL
// clears the column.
type UpdateProduct struct {
	CategoryID  *string
	Name        *string
	Slug        *string
	Description *string
	Price       *int64
	Stock       *int
	ImageURL    *string
}

type QueryFilter struct {
	CategoryID   *string
	CategorySlug *string
	StoreID      *string
	StoreSlug    *string
	Search       *string
	MinPrice     *int64
	MaxPrice     *int64
}

// Actor is the caller of a mutating operation.
type Actor struct {
	UserID  string
	IsAdmin bool
}
