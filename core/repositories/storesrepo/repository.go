package storesrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kingjawir/marketplace/core/repositories"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/kingjawir/marketplace/sdk/validation"
)

var (
	ErrStoreNotFound = fmt.Errorf("store %w", repositories.ErrNotFound)
	ErrNoStore       = fmt.Errorf("user has no store: %w", repositories.ErrNotFound)
	ErrStoreExists   = fmt.Errorf("store %w", repositories.ErrAlreadyExists)
	ErrActiveOrders  = fmt.Errorf("%w: store has unfinished orders", repositories.ErrInvalid)
)

type Storer interface {
	// Create inserts the store and promotes its owner to SELLER in one
	// transaction. Admins keep their role.
	Create(ctx context.Context, input CreateStore) (Store, error)
	GetByUserID(ctx context.Context, userID string) (StoreDetail, error)
	GetBySlug(ctx context.Context, slug string) (StoreDetail, error)
	List(ctx context.Context, filter QueryFilter, page fop.Page) ([]StoreDetail, int, error)
	Update(ctx context.Context, storeID string, input UpdateStore) (Store, error)
	HasActiveOrders(ctx context.Context, storeID string) (bool, error)
	// Delete removes the store, its products and any cart lines holding them,
	// then demotes the owner to CUSTOMER. Admins keep their role.
	Delete(ctx context.Context, storeID string, userID string) error
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

func (r *Repository) Create(ctx context.Context, input CreateStore) (Store, error) {
	if _, err := r.storer.GetByUserID(ctx, input.UserID); err == nil {
		return Store{}, ErrStoreExists
	} else if !isNotFound(err) {
		return Store{}, fmt.Errorf("store repository create: %w", err)
	}

	input.Name = strings.TrimSpace(input.Name)
	input.Slug = validation.UniqueSlug(input.Name, r.now())
	input.Description = validation.TrimToNil(input.Description)
	input.LogoURL = validation.TrimToNil(input.LogoURL)

	store, err := r.storer.Create(ctx, input)
	if err != nil {
		return Store{}, fmt.Errorf("store repository create: %w", err)
	}
	r.log.InfoContext(ctx, "store created", "store_id", store.StoreID, "user_id", store.UserID)
	return store, nil
}

// Mine returns the caller's store or ErrNoStore.
func (r *Repository) Mine(ctx context.Context, userID string) (StoreDetail, error) {
	store, err := r.storer.GetByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return StoreDetail{}, ErrNoStore
		}
		return StoreDetail{}, fmt.Errorf("store repository mine: %w", err)
	}
	return store, nil
}

func (r *Repository) GetBySlug(ctx context.Context, slug string) (StoreDetail, error) {
	store, err := r.storer.GetBySlug(ctx, slug)
	if err != nil {
		return StoreDetail{}, fmt.Errorf("store repository get by slug: %w", err)
	}
	return store, nil
}

func (r *Repository) List(ctx context.Context, filter QueryFilter, page fop.Page) ([]StoreDetail, int, error) {
	filter.Search = validation.TrimToNil(filter.Search)
	stores, total, err := r.storer.List(ctx, filter, page)
	if err != nil {
		return nil, 0, fmt.Errorf("store repository list: %w", err)
	}
	return stores, total, nil
}

// Update changes the caller's store. Renaming regenerates the slug.
func (r *Repository) Update(ctx context.Context, userID string, input UpdateStore) (Store, error) {
	current, err := r.Mine(ctx, userID)
	if err != nil {
		return Store{}, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		input.Name = &name
		if name != current.Name {
			input.Slug = validation.StringPtr(validation.UniqueSlug(name, r.now()))
		}
	}

	store, err := r.storer.Update(ctx, current.StoreID, input)
	if err != nil {
		return Store{}, fmt.Errorf("store repository update: %w", err)
	}
	return store, nil
}

// Delete removes the caller's store unless an order holding its products is
// still PENDING, PAID or SHIPPED.
func (r *Repository) Delete(ctx context.Context, userID string) error {
	current, err := r.Mine(ctx, userID)
	if err != nil {
		return err
	}

	active, err := r.storer.HasActiveOrders(ctx, current.StoreID)
	if err != nil {
		return fmt.Errorf("store repository delete: %w", err)
	}
	if active {
		return ErrActiveOrders
	}

	if err := r.storer.Delete(ctx, current.StoreID, userID); err != nil {
		return fmt.Errorf("store repository delete: %w", err)
	}
	r.log.InfoContext(ctx, "store deleted", "store_id", current.StoreID, "user_id", userID)
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repositories.ErrNotFound)
}
