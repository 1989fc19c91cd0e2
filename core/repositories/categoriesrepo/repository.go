package categoriesrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/kingjawir/marketplace/core/repositories"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/kingjawir/marketplace/sdk/validation"
)

var (
	ErrCategoryNotFound = fmt.Errorf("category %w", repositories.ErrNotFound)
	ErrNameTaken        = fmt.Errorf("category name %w", repositories.ErrAlreadyExists)
	ErrSlugTaken        = fmt.Errorf("category slug %w", repositories.ErrAlreadyExists)
	ErrInvalidSlug      = fmt.Errorf("%w: slug must be lowercase words joined by hyphens", repositories.ErrInvalid)
)

// InUseError is returned when a category still has products.
type InUseError struct {
	Products int
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("category still has %d products", e.Products)
}

func (e *InUseError) Unwrap() error {
	return repositories.ErrInvalid
}

type Storer interface {
	Create(ctx context.Context, input CreateCategory) (Category, error)
	GetByID(ctx context.Context, categoryID string) (CategoryWithCount, error)
	GetBySlug(ctx context.Context, slug string) (CategoryWithCount, error)
	List(ctx context.Context) ([]CategoryWithCount, error)
	Update(ctx context.Context, categoryID string, input UpdateCategory) (Category, error)
	Delete(ctx context.Context, categoryID string) error
}

type Repository struct {
	log    *logger.Logger
	storer Storer
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// Create stores a category. A blank slug is derived from the name.
func (r *Repository) Create(ctx context.Context, input CreateCategory) (Category, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)
	if input.Slug == "" {
		input.Slug = validation.Slugify(input.Name)
	}
	if !validation.IsSlug(input.Slug) {
		return Category{}, ErrInvalidSlug
	}
	input.Description = validation.TrimToNil(input.Description)

	category, err := r.storer.Create(ctx, input)
	if err != nil {
		return Category{}, fmt.Errorf("category repository create: %w", err)
	}
	return category, nil
}

func (r *Repository) GetByID(ctx context.Context, categoryID string) (CategoryWithCount, error) {
	category, err := r.storer.GetByID(ctx, categoryID)
	if err != nil {
		return CategoryWithCount{}, fmt.Errorf("category repository get by id: %w", err)
	}
	return category, nil
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (CategoryWithCount, error) {
	category, err := r.storer.GetBySlug(ctx, slug)
	if err != nil {
		return CategoryWithCount{}, fmt.Errorf("category repository get by slug: %w", err)
	}
	return category, nil
}

func (r *Repository) List(ctx context.Context) ([]CategoryWithCount, error) {
	categories, err := r.storer.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("category repository list: %w", err)
	}
	return categories, nil
}

func (r *Repository) Update(ctx context.Context, categoryID string, input UpdateCategory) (Category, error) {
	if _, err := r.storer.GetByID(ctx, categoryID); err != nil {
		return Category{}, fmt.Errorf("category repository update: %w", err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
	}
	if input.Slug != nil {
		slug := strings.TrimSpace(*input.Slug)
		if !validation.IsSlug(slug) {
			return Category{}, ErrInvalidSlug
		}
		input.Slug = &slug
	}

	category, err := r.storer.Update(ctx, categoryID, input)
	if err != nil {
		return Category{}, fmt.Errorf("category repository update: %w", err)
	}
	return category, nil
}

// Delete refuses to remove a category that products still reference.
func (r *Repository) Delete(ctx context.Context, categoryID string) error {
	category, err := r.storer.GetByID(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("category repository delete: %w", err)
	}
	if category.ProductCount > 0 {
		return &InUseError{Products: category.ProductCount}
	}

	if err := r.storer.Delete(ctx, categoryID); err != nil {
		return fmt.Errorf("category repository delete: %w", err)
	}
	return nil
}
