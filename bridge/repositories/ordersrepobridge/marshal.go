package ordersrepobridge

import "github.com/kingjawir/marketplace/core/repositories/ordersrepo"

func marshalOrder(o ordersrepo.Order) Order {
	return Order{
		ID:          o.OrderID,
		UserID:      o.UserID,
		Status:      o.Status,
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func marshalDetail(d ordersrepo.OrderDetail) Order {
	out := marshalOrder(d.Order)
	out.Customer = &Customer{
		Name:    d.CustomerName,
		Email:   d.CustomerEmail,
		Phone:   d.CustomerPhone,
		Address: d.CustomerAddress,
	}
	out.Items = make([]Item, len(d.Items))
	for i, it := range d.Items {
		item := Item{
			ID:          it.OrderItemID,
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal(),
		}
		if it.ProductID != nil {
			item.Product = &ProductRef{ID: *it.ProductID, Slug: it.ProductSlug, ImageURL: it.ProductImageURL}
		}
		if it.StoreID != nil {
			item.Store = &StoreRef{ID: *it.StoreID, Name: it.StoreName, Slug: it.StoreSlug}
		}
		out.Items[i] = item
	}
	return out
}

func marshalDetails(ds []ordersrepo.OrderDetail) []Order {
	out := make([]Order, len(ds))
	for i, d := range ds {
		out[i] = marshalDetail(d)
	}
	return out
}
