package categoriesrepobridge

import (
	"github.com/kingjawir/marketplace/core/repositories/categoriesrepo"
	"github.com/kingjawir/marketplace/sdk/validation"
)

func marshalCategory(c categoriesrepo.Category) Category {
	return Category{
		ID:          c.CategoryID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func marshalWithCount(c categoriesrepo.CategoryWithCount) Category {
	out := marshalCategory(c.Category)
	out.ProductCount = validation.IntPtr(c.ProductCount)
	return out
}

func marshalCreate(in CreateCategoryInput) categoriesrepo.CreateCategory {
	return categoriesrepo.CreateCategory{
		Name:        in.Name,
		Slug:        validation.StringPtrValue(in.Slug),
		Description: in.Description,
	}
}

func marshalUpdate(in UpdateCategoryInput) categoriesrepo.UpdateCategory {
	return categoriesrepo.UpdateCategory{
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
	}
}
