package categoriesrepobridge

import (
	"strings"
	"time"

	"github.com/kingjawir/marketplace/sdk/validation"
)

type Category struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  *string   `json:"description"`
	ProductCount *int      `json:"productCount,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type CategoryEnvelope struct {
	Category Category `json:"category"`
}

type CategoryList struct {
	Categories []Category `json:"categories"`
}

type CreateCategoryInput struct {
	Name        string  `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
}

func (in *CreateCategoryInput) Validate() error {
	fe := validation.FieldErrors{}
	fe.Check(validation.LenBetween(strings.TrimSpace(in.Name), 2, 50), "name", nameMessage)
	checkSlug(fe, in.Slug)
	checkDescription(fe, in.Description)
	return fe.Err()
}

type UpdateCategoryInput struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
}

func (in *UpdateCategoryInput) Validate() error {
	fe := validation.FieldErrors{}
	if in.Name != nil {
		fe.Check(validation.LenBetween(strings.TrimSpace(*in.Name), 2, 50), "name", nameMessage)
	}
	checkSlug(fe, in.Slug)
	checkDescription(fe, in.Description)
	return fe.Err()
}

const nameMessage = "Nama category harus 2-50 karakter"

func checkSlug(fe validation.FieldErrors, slug *string) {
	if slug == nil {
		return
	}
	s := strings.TrimSpace(*slug)
	fe.Check(validation.LenBetween(s, 2, 50) && validation.IsSlug(s), "slug", "Slug hanya boleh huruf kecil, angka dan tanda hubung")
}

func checkDescription(fe validation.FieldErrors, description *string) {
	if description != nil {
		fe.Check(validation.LenBetween(*description, 0, 500), "description", "Deskripsi maksimal 500 karakter")
	}
}
