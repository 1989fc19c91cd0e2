package productsrepobridge

import (
	"strings"
	"time"

	"github.com/kingjawir/marketplace/bridge/scaffolding/fopbridge"
	"github.com/kingjawir/marketplace/sdk/validation"
)

// Ref is the short form of a related store or category.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Product struct {
	ID            string    `json:"id"`
	StoreID       string    `json:"storeId"`
	CategoryID    string    `json:"categoryId"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   *string   `json:"description"`
	Price         int64     `json:"price"`
	Stock         int       `json:"stock"`
	ImageURL      *string   `json:"imageUrl"`
	Store         Ref       `json:"store"`
	Category      Ref       `json:"category"`
	AverageRating float64   `json:"averageRating"`
	ReviewCount   int       `json:"reviewCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type ProductEnvelope struct {
	Product Product `json:"product"`
}

type ProductList struct {
	Products   []Product            `json:"products"`
	Pagination fopbridge.Pagination `json:"pagination"`
}

const (
	maxPrice = 999_999_999
	maxStock = 999_999
)

type CreateProductInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       int64   `json:"price"`
	Stock       int     `json:"stock"`
	CategoryID  string  `json:"categoryId"`
	ImageURL    *string `json:"imageUrl"`
}

func (in *CreateProductInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(validation.LenBetween(strings.TrimSpace(in.Name), 1, 100), "name", "Nama product harus 1-100 karakter")
	fe.Check(in.Price >= 0 && in.Price <= maxPrice, "price", priceMessage)
	fe.Check(in.Stock >= 0 && in.Stock <= maxStock, "stock", stockMessage)
	fe.Check(strings.TrimSpace(in.CategoryID) != "", "categoryId", "Category wajib diisi")
	checkOptional(fe, in.Description, in.ImageURL)
	return fe.Err()
}

// UpdateProductInput leaves omitted fields unchanged.
type UpdateProductInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Stock       *int    `json:"stock"`
	CategoryID  *string `json:"categoryId"`
	ImageURL    *string `json:"imageUrl"`
}

func (in *UpdateProductInput) Validate() error {
	fe := validation.FieldErrors{}
	if in.Name != nil {
		fe.Check(validation.LenBetween(strings.TrimSpace(*in.Name), 1, 100), "name", "Nama product harus 1-100 karakter")
	}
	if in.Price != nil {
		fe.Check(*in.Price >= 0 && *in.Price <= maxPrice, "price", priceMessage)
	}
	if in.Stock != nil {
		fe.Check(*in.Stock >= 0 && *in.Stock <= maxStock, "stock", stockMessage)
	}
	if in.CategoryID != nil {
		fe.Check(strings.TrimSpace(*in.CategoryID) != "", "categoryId", "Category wajib diisi")
	}
	checkOptional(fe, in.Description, in.ImageURL)
	return fe.Err()
}

const (
	priceMessage = "Harga harus antara 0 dan 999999999"
	stockMessage = "Stock harus antara 0 dan 999999"
)

func checkOptional(fe validation.FieldErrors, description, image *string) {
	if description != nil {
		fe.Check(validation.LenBetween(*description, 0, 5000), "description", "Deskripsi maksimal 5000 karakter")
	}
	if image != nil {
		if u := strings.TrimSpace(*image); u != "" {
			fe.Check(validation.IsHTTPURL(u), "imageUrl", "URL gambar tidak valid")
		}
	}
}
