package cartrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/kingjawir/marketplace/core/repositories"
	"github.com/kingjawir/marketplace/sdk/logger"
)

var (
	ErrCartItemNotFound = fmt.Errorf("cart item %w", repositories.ErrNotFound)
	ErrProductNotFound  = fmt.Errorf("product %w", repositories.ErrNotFound)
	ErrInvalidQuantity  = fmt.Errorf("%w: quantity must be positive", repositories.ErrInvalid)
)

// StockError reports a quantity the product cannot cover.
type StockError struct {
	Available int
	InCart    int
}

func (e *StockError) Error() string {
	if e.InCart > 0 {
		return fmt.Sprintf("insufficient stock: available %d, in cart %d", e.Available, e.InCart)
	}
	return fmt.Sprintf("insufficient stock: available %d", e.Available)
}

func (e *StockError) Unwrap() error {
	return repositories.ErrInvalid
}

type Storer interface {
	List(ctx context.Context, userID string) ([]CartLine, error)
	Get(ctx context.Context, userID, cartItemID string) (CartItem, error)
	GetByProduct(ctx context.Context, userID, productID string) (CartItem, error)
	ProductStock(ctx context.Context, productID string) (int, error)
	// Upsert inserts a line or adds quantity to the existing one.
	Upsert(ctx context.Context, userID, productID string, quantity int) (CartItem, error)
	SetQuantity(ctx context.Context, cartItemID string, quantity int) (CartItem, error)
	Delete(ctx context.Context, userID, cartItemID string) error
	Clear(ctx context.Context, userID string) (int64, error)
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

func (r *Repository) Get(ctx context.Context, userID string) (Cart, error) {
	lines, err := r.storer.List(ctx, userID)
	if err != nil {
		return Cart{}, fmt.Errorf("cart repository get: %w", err)
	}
	return NewCart(lines), nil
}

// Add puts quantity units of a product in the cart. The existing quantity
// counts against the stock.
func (r *Repository) Add(ctx context.Context, userID, productID string, quantity int) (CartItem, error) {
	if quantity <= 0 {
		return CartItem{}, ErrInvalidQuantity
	}

	stock, err := r.storer.ProductStock(ctx, productID)
	if err != nil {
		return CartItem{}, fmt.Errorf("cart repository add: %w", err)
	}

	inCart := 0
	existing, err := r.storer.GetByProduct(ctx, userID, productID)
	switch {
	case err == nil:
		inCart = existing.Quantity
	case !errors.Is(err, ErrCartItemNotFound):
		return CartItem{}, fmt.Errorf("cart repository add: %w", err)
	}

	if stock < inCart+quantity {
		return CartItem{}, &StockError{Available: stock, InCart: inCart}
	}

	item, err := r.storer.Upsert(ctx, userID, productID, quantity)
	if err != nil {
		return CartItem{}, fmt.Errorf("cart repository add: %w", err)
	}
	return item, nil
}

// Update sets the quantity of a line. A quantity of zero or less removes the
// line and reports removed.
func (r *Repository) Update(ctx context.Context, userID, cartItemID string, quantity int) (item CartItem, removed bool, err error) {
	current, err := r.storer.Get(ctx, userID, cartItemID)
	if err != nil {
		return CartItem{}, false, fmt.Errorf("cart repository update: %w", err)
	}

	if quantity <= 0 {
		if err := r.storer.Delete(ctx, userID, cartItemID); err != nil {
			return CartItem{}, false, fmt.Errorf("cart repository update: %w", err)
		}
		return current, true, nil
	}

	stock, err := r.storer.ProductStock(ctx, current.ProductID)
	if err != nil {
		return CartItem{}, false, fmt.Errorf("cart repository update: %w", err)
	}
	if stock < quantity {
		return CartItem{}, false, &StockError{Available: stock}
	}

	item, err = r.storer.SetQuantity(ctx, cartItemID, quantity)
	if err != nil {
		return CartItem{}, false, fmt.Errorf("cart repository update: %w", err)
	}
	return item, false, nil
}

func (r *Repository) Remove(ctx context.Context, userID, cartItemID string) error {
	if err := r.storer.Delete(ctx, userID, cartItemID); err != nil {
		return fmt.Errorf("cart repository remove: %w", err)
	}
	return nil
}

func (r *Repository) Clear(ctx context.Context, userID string) error {
	n, err := r.storer.Clear(ctx, userID)
	if err != nil {
		return fmt.Errorf("cart repository clear: %w", err)
	}
	r.log.DebugContext(ctx, "cart cleared", "user_id", userID, "lines", n)
	return nil
}
