package cartrepobridge

import "github.com/kingjawir/marketplace/core/repositories/cartrepo"

func marshalItem(i cartrepo.CartItem) Item {
	return Item{
		ID:        i.CartItemID,
		ProductID: i.ProductID,
		Quantity:  i.Quantity,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

func marshalCart(c cartrepo.Cart) Cart {
	lines := make([]Line, len(c.Items))
	for i, l := range c.Items {
		lines[i] = Line{
			Item: marshalItem(l.CartItem),
			Product: CartProduct{
				ID:       l.ProductID,
				Name:     l.ProductName,
				Slug:     l.ProductSlug,
				Price:    l.Price,
				Stock:    l.Stock,
				ImageURL: l.ProductImageURL,
				Store:    StoreRef{ID: l.StoreID, Name: l.StoreName, Slug: l.StoreSlug},
			},
			Subtotal: l.Subtotal(),
		}
	}
	return Cart{Items: lines, TotalItems: c.TotalItems, TotalPrice: c.TotalPrice}
}
