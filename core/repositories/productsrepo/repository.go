package productsrepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kingjawir/marketplace/core/repositories"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/kingjawir/marketplace/sdk/validation"
)

var (
	ErrProductNotFound  = fmt.Errorf("product %w", repositories.ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", repositories.ErrNotFound)
	ErrNoStore          = fmt.Errorf("user has no store: %w", repositories.ErrNotFound)
	ErrNotOwner         = fmt.Errorf("product belongs to another store: %w", repositories.ErrNotOwner)
	ErrPriceRange       = fmt.Errorf("%w: minPrice is greater than maxPrice", repositories.ErrInvalid)
)

type Storer interface {
	Create(ctx context.Context, input CreateProduct) (Product, error)
	GetByID(ctx context.Context, productID string) (ProductDetail, error)
	GetBySlug(ctx context.Context, slug string) (ProductDetail, error)
	List(ctx context.Context, filter QueryFilter, orderBy fop.By, page fop.Page) ([]ProductDetail, int, error)
	Update(ctx context.Context, productID string, input UpdateProduct) (Product, error)
	Delete(ctx context.Context, productID string) error
	StoreIDByUser(ctx context.Context, userID string) (string, error)
	CategoryExists(ctx context.Context, categoryID string) (bool, error)
}

type Repository struct {
	log    *logger.Logger
	storer Storer
	now    func() time.Time
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
		now:    time.Now,
	}
}

// Create adds a product to the caller's store.
func (r *Repository) Create(ctx context.Context, userID string, input CreateProduct) (ProductDetail, error) {
	storeID, err := r.storer.StoreIDByUser(ctx, userID)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("product repository create: %w", err)
	}
	if err := r.requireCategory(ctx, input.CategoryID); err != nil {
		return ProductDetail{}, err
	}

	input.StoreID = storeID
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = validation.UniqueSlug(input.Name, r.now())
	input.Description = validation.TrimToNil(input.Description)
	input.ImageURL = validation.TrimToNil(input.ImageURL)

	product, err := r.storer.Create(ctx, input)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("product repository create: %w", err)
	}
	return r.GetByID(ctx, product.ProductID)
}

func (r *Repository) GetByID(ctx context.Context, productID string) (ProductDetail, error) {
	product, err := r.storer.GetByID(ctx, productID)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("product repository get by id: %w", err)
	}
	return product, nil
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (ProductDetail, error) {
	product, err := r.storer.GetBySlug(ctx, slug)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("product repository get by slug: %w", err)
	}
	return product, nil
}

func (r *Repository) List(ctx context.Context, filter QueryFilter, orderBy fop.By, page fop.Page) ([]ProductDetail, int, error) {
	filter.Search = validation.TrimToNil(filter.Search)
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, 0, ErrPriceRange
	}

	products, total, err := r.storer.List(ctx, filter, orderBy, page)
	if err != nil {
		return nil, 0, fmt.Errorf("product repository list: %w", err)
	}
	return products, total, nil
}

// Mine lists the products of the caller's store.
func (r *Repository) Mine(ctx context.Context, userID string, page fop.Page) ([]ProductDetail, int, error) {
	storeID, err := r.storer.StoreIDByUser(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("product repository mine: %w", err)
	}
	return r.List(ctx, QueryFilter{StoreID: &storeID}, DefaultOrderBy, page)
}

// Update changes a product owned by the actor's store. Admins may change any
// product.
func (r *Repository) Update(ctx context.Context, actor Actor, productID string, input UpdateProduct) (ProductDetail, error) {
	current, err := r.owned(ctx, actor, productID)
	if err != nil {
		return ProductDetail{}, err
	}

	if input.CategoryID != nil {
		if err := r.requireCategory(ctx, *input.CategoryID); err != nil {
			return ProductDetail{}, err
		}
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
		if name != current.Name {
			input.Slug = validation.StringPtr(validation.UniqueSlug(name, r.now()))
		}
	}

	if _, err := r.storer.Update(ctx, productID, input); err != nil {
		return ProductDetail{}, fmt.Errorf("product repository update: %w", err)
	}
	return r.GetByID(ctx, productID)
}

func (r *Repository) Delete(ctx context.Context, actor Actor, productID string) error {
	if _, err := r.owned(ctx, actor, productID); err != nil {
		return err
	}
	if err := r.storer.Delete(ctx, productID); err != nil {
		return fmt.Errorf("product repository delete: %w", err)
	}
	r.log.InfoContext(ctx, "product deleted", "product_id", productID, "user_id", actor.UserID)
	return nil
}

func (r *Repository) owned(ctx context.Context, actor Actor, productID string) (ProductDetail, error) {
	product, err := r.GetByID(ctx, productID)
	if err != nil {
		return ProductDetail{}, err
	}
	if !actor.IsAdmin && product.StoreUserID != actor.UserID {
		return ProductDetail{}, ErrNotOwner
	}
	return product, nil
}

func (r *Repository) requireCategory(ctx context.Context, categoryID string) error {
	ok, err := r.storer.CategoryExists(ctx, categoryID)
	if err != nil {
		return fmt.Errorf("product repository category lookup: %w", err)
	}
	if !ok {
		return ErrCategoryNotFound
	}
	return nil
}
