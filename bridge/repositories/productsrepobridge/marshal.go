package productsrepobridge

import (
	"math"
	"strings"

	"github.com/kingjawir/marketplace/core/repositories/productsrepo"
)

// MarshalToBridge converts a joined product row to its public shape.
func MarshalToBridge(p productsrepo.ProductDetail) Product {
	return Product{
		ID:            p.ProductID,
		StoreID:       p.StoreID,
		CategoryID:    p.CategoryID,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		Price:         p.Price,
		Stock:         p.Stock,
		ImageURL:      p.ImageURL,
		Store:         Ref{ID: p.StoreID, Name: p.StoreName, Slug: p.StoreSlug},
		Category:      Ref{ID: p.CategoryID, Name: p.CategoryName, Slug: p.CategorySlug},
		AverageRating: math.Round(p.AverageRating*10) / 10,
		ReviewCount:   p.ReviewCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func marshalProducts(ps []productsrepo.ProductDetail) []Product {
	out := make([]Product, len(ps))
	for i, p := range ps {
		out[i] = MarshalToBridge(p)
	}
	return out
}

func marshalCreate(in CreateProductInput) productsrepo.CreateProduct {
	return productsrepo.CreateProduct{
		CategoryID:  strings.TrimSpace(in.CategoryID),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
	}
}

func marshalUpdate(in UpdateProductInput) productsrepo.UpdateProduct {
	return productsrepo.UpdateProduct{
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		ImageURL:    in.ImageURL,
	}
}
