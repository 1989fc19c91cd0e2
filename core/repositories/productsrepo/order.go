package productsrepo

import (
	"fmt"

	"github.com/kingjawir/marketplace/core/repositories"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
)

// DefaultOrderBy lists the newest products first.
var DefaultOrderBy = fop.NewBy("p.created_at", fop.DESC)

var namedSorts = map[string]fop.By{
	"newest":     DefaultOrderBy,
	"price_asc":  fop.NewBy("p.price", fop.ASC),
	"price_desc": fop.NewBy("p.price", fop.DESC),
}

var orderByFields = map[string]string{
	"createdAt": "p.created_at",
	"price":     "p.price",
	"name":      "p.name",
	"stock":     "p.stock",
}

var ErrInvalidSort = fmt.Errorf("%w: sort must be newest, price_asc or price_desc", repositories.ErrInvalid)

// ParseSort accepts a named sort or a "field,direction" pair.
func ParseSort(sort string) (fop.By, error) {
	if by, ok := namedSorts[sort]; ok {
		return by, nil
	}
	by, err := fop.ParseOrder(orderByFields, sort, DefaultOrderBy)
	if err != nil {
		return fop.By{}, ErrInvalidSort
	}
	return by, nil
}
