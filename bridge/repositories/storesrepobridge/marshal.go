package storesrepobridge

import "github.com/kingjawir/marketplace/core/repositories/storesrepo"

func marshalStore(s storesrepo.Store) Store {
	return Store{
		ID:          s.StoreID,
		UserID:      s.UserID,
		Name:        s.Name,
		Slug:        s.Slug,
		Description: s.Description,
		LogoURL:     s.LogoURL,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func marshalDetail(d storesrepo.StoreDetail) Store {
	s := marshalStore(d.Store)
	count := d.ProductCount
	s.ProductCount = &count
	s.Owner = &Owner{Name: d.OwnerName, Avatar: d.OwnerAvatar}
	return s
}

func marshalDetails(ds []storesrepo.StoreDetail) []Store {
	out := make([]Store, len(ds))
	for i, d := range ds {
		out[i] = marshalDetail(d)
	}
	return out
}

func marshalUpdate(in UpdateStoreInput) storesrepo.UpdateStore {
	return storesrepo.UpdateStore{
		Name:        in.Name,
		Description: in.Description,
		LogoURL:     in.LogoURL,
	}
}
