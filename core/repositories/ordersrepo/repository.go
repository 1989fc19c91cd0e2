package ordersrepo

import (
	"context"
	"fmt"

	"github.com/kingjawir/marketplace/core/repositories"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/sdk/logger"
)

var (
	ErrOrderNotFound  = fmt.Errorf("order %w", repositories.ErrNotFound)
	ErrNoStore        = fmt.Errorf("user has no store: %w", repositories.ErrNotFound)
	ErrEmptyCart      = fmt.Errorf("%w: cart is empty", repositories.ErrInvalid)
	ErrInvalidStatus  = fmt.Errorf("%w: unknown order status", repositories.ErrInvalid)
	ErrNoAccess       = fmt.Errorf("%w: no access to order", repositories.ErrForbidden)
	ErrNotInOrder     = fmt.Errorf("%w: store has no items in order", repositories.ErrForbidden)
	ErrStatusConflict = fmt.Errorf("%w: order status changed concurrently", repositories.ErrInvalid)
)

// StockError reports a cart line the product stock cannot cover.
type StockError struct {
	Product   string
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d", e.Product, e.Available)
}

func (e *StockError) Unwrap() error {
	return repositories.ErrInvalid
}

// TransitionError reports a status change the state machine forbids.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("order status cannot change from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return repositories.ErrInvalid
}

// PlanCheckout validates locked cart lines against stock and returns the
// order total.
func PlanCheckout(lines []CheckoutLine) (int64, error) {
	if len(lines) == 0 {
		return 0, ErrEmptyCart
	}
	var total int64
	for _, l := range lines {
		if l.Stock < l.Quantity {
			return 0, &StockError{Product: l.Name, Available: l.Stock}
		}
		total += l.Price * int64(l.Quantity)
	}
	return total, nil
}

type Storer interface {
	// Checkout locks the user's cart products, creates a PENDING order with
	// price snapshots, decrements stock and clears the cart in one
	// transaction. plan validates the locked lines.
	Checkout(ctx context.Context, userID string, plan func([]CheckoutLine) (int64, error)) (Order, error)
	GetByID(ctx context.Context, orderID string) (OrderDetail, error)
	ListByUser(ctx context.Context, userID string, page fop.Page) ([]OrderDetail, int, error)
	ListByStore(ctx context.Context, storeID string, status *string, page fop.Page) ([]OrderDetail, int, error)
	StoreIDByUser(ctx context.Context, userID string) (string, error)
	// SetStatus moves the order from one status to another. It fails with
	// ErrStatusConflict when the order is no longer in from.
	SetStatus(ctx context.Context, orderID, from, to string) (Order, error)
	// Cancel sets CANCELLED and gives the stock back in one transaction.
	Cancel(ctx context.Context, orderID, from string) (Order, error)
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

func (r *Repository) Checkout(ctx context.Context, userID string) (OrderDetail, error) {
	order, err := r.storer.Checkout(ctx, userID, PlanCheckout)
	if err != nil {
		return OrderDetail{}, fmt.Errorf("order repository checkout: %w", err)
	}
	r.log.InfoContext(ctx, "order placed", "order_id", order.OrderID, "user_id", userID, "total", order.TotalAmount)
	return r.storer.GetByID(ctx, order.OrderID)
}

func (r *Repository) ListMine(ctx context.Context, userID string, page fop.Page) ([]OrderDetail, int, error) {
	orders, total, err := r.storer.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("order repository list mine: %w", err)
	}
	return orders, total, nil
}

// Get returns an order to its buyer, to a seller with items in it, or to an
// admin.
func (r *Repository) Get(ctx context.Context, actor Actor, orderID string) (OrderDetail, error) {
	order, err := r.storer.GetByID(ctx, orderID)
	if err != nil {
		return OrderDetail{}, fmt.Errorf("order repository get: %w", err)
	}
	if actor.IsAdmin || order.UserID == actor.UserID || order.HasSeller(actor.UserID) {
		return order, nil
	}
	return OrderDetail{}, ErrNoAccess
}

// Cancel lets a buyer cancel their own PENDING order.
func (r *Repository) Cancel(ctx context.Context, userID, orderID string) (Order, error) {
	order, err := r.storer.GetByID(ctx, orderID)
	if err != nil {
		return Order{}, fmt.Errorf("order repository cancel: %w", err)
	}
	if order.UserID != userID {
		return Order{}, ErrNoAccess
	}
	if order.Status != StatusPending {
		return Order{}, &TransitionError{From: order.Status, To: StatusCancelled}
	}

	cancelled, err := r.storer.Cancel(ctx, orderID, order.Status)
	if err != nil {
		return Order{}, fmt.Errorf("order repository cancel: %w", err)
	}
	r.log.InfoContext(ctx, "order cancelled", "order_id", orderID, "by", userID)
	return cancelled, nil
}

// SellerOrders lists orders holding products of the seller's store, with the
// items narrowed to that store.
func (r *Repository) SellerOrders(ctx context.Context, userID string, status *string, page fop.Page) ([]OrderDetail, int, error) {
	if status != nil && !ValidStatus(*status) {
		return nil, 0, ErrInvalidStatus
	}
	storeID, err := r.storer.StoreIDByUser(ctx, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("order repository seller orders: %w", err)
	}
	orders, total, err := r.storer.ListByStore(ctx, storeID, status, page)
	if err != nil {
		return nil, 0, fmt.Errorf("order repository seller orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus moves an order along the state machine on behalf of a seller
// with items in it. Cancelling restores stock.
func (r *Repository) UpdateStatus(ctx context.Context, userID, orderID, status string) (Order, error) {
	if !ValidStatus(status) {
		return Order{}, ErrInvalidStatus
	}

	order, err := r.storer.GetByID(ctx, orderID)
	if err != nil {
		return Order{}, fmt.Errorf("order repository update status: %w", err)
	}
	storeID, err := r.storer.StoreIDByUser(ctx, userID)
	if err != nil {
		return Order{}, fmt.Errorf("order repository update status: %w", err)
	}
	if !order.HasStore(storeID) {
		return Order{}, ErrNotInOrder
	}
	if !CanTransition(order.Status, status) {
		return Order{}, &TransitionError{From: order.Status, To: status}
	}

	var updated Order
	if status == StatusCancelled {
		updated, err = r.storer.Cancel(ctx, orderID, order.Status)
	} else {
		updated, err = r.storer.SetStatus(ctx, orderID, order.Status, status)
	}
	if err != nil {
		return Order{}, fmt.Errorf("order repository update status: %w", err)
	}
	r.log.InfoContext(ctx, "order status changed", "order_id", orderID, "from", order.Status, "to", status)
	return updated, nil
}
