package categoriesrepo

import "time"

type Category struct {
	CategoryID  string    `db:"category_id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type CategoryWithCount struct {
	Category
	ProductCount int `db:"product_count"`
}

type CreateCategory struct {
	Name        string
	Slug        string
	Description *string
}

type UpdateCategory struct {
	Name        *string
	Slug        *string
	Description *string
}
