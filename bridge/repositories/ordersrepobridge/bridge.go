package ordersrepobridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kingjawir/marketplace/bridge/scaffolding/errs"
	"github.com/kingjawir/marketplace/bridge/scaffolding/fopbridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/repositories/ordersrepo"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/infrastructure/web"
)

const defaultLimit = 10

type bridge struct {
	orderRepository *ordersrepo.Repository
}

func newBridge(cfg Config) *bridge {
	return &bridge{orderRepository: cfg.Repository}
}

func orderError(err error) *errs.Error {
	var (
		stock      *ordersrepo.StockError
		transition *ordersrepo.TransitionError
	)
	switch {
	case errors.As(err, &stock):
		return errs.FromRepo(err, fmt.Sprintf("Stok %s tidak cukup. Tersedia: %d", stock.Product, stock.Available))
	case errors.As(err, &transition):
		return errs.FromRepo(err, fmt.Sprintf("Status tidak dapat diubah dari %s ke %s", transition.From, transition.To))
	case errors.Is(err, ordersrepo.ErrEmptyCart):
		return errs.FromRepo(err, "Keranjang kosong")
	case errors.Is(err, ordersrepo.ErrNoStore):
		return errs.FromRepo(err, "Anda belum memiliki toko")
	case errors.Is(err, ordersrepo.ErrInvalidStatus):
		return errs.Newf(errs.ValidationError, statusMessage)
	case errors.Is(err, ordersrepo.ErrNoAccess):
		return errs.FromRepo(err, "Anda tidak memiliki akses ke order ini")
	case errors.Is(err, ordersrepo.ErrNotInOrder):
		return errs.FromRepo(err, "Anda tidak memiliki produk dalam order ini")
	case errors.Is(err, ordersrepo.ErrStatusConflict):
		return errs.FromRepo(err, "Status order berubah, silakan muat ulang")
	}
	return errs.FromRepo(err, "Order tidak ditemukan")
}

func (b *bridge) httpCheckout(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	order, err := b.orderRepository.Checkout(ctx, userID)
	if err != nil {
		return orderError(err)
	}
	return fopbridge.NewCreatedResponse("Order berhasil dibuat", marshalDetail(order))
}

func (b *bridge) httpListMine(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}
	page, err := fopbridge.ParsePage(r, defaultLimit)
	if err != nil {
		return errs.New(errs.BadRequest, err)
	}

	orders, total, err := b.orderRepository.ListMine(ctx, userID, page)
	if err != nil {
		return orderError(err)
	}
	return fopbridge.NewResponse("Daftar order berhasil diambil", OrderList{
		Orders:   marshalDetails(orders),
		PageInfo: fop.NewPageInfo(page, total),
	})
}

func (b *bridge) httpGet(ctx context.Context, r *http.Request) web.Encoder {
	claims, err := mid.GetClaims(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	order, err := b.orderRepository.Get(ctx, ordersrepo.Actor{UserID: claims.UserID, IsAdmin: claims.IsAdmin()}, web.Param(r, "order_id"))
	if err != nil {
		return orderError(err)
	}
	return fopbridge.NewResponse("Detail order berhasil diambil", marshalDetail(order))
}

func (b *bridge) httpCancel(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	order, err := b.orderRepository.Cancel(ctx, userID, web.Param(r, "order_id"))
	if err != nil {
		var transition *ordersrepo.TransitionError
		if errors.As(err, &transition) {
			return errs.FromRepo(err, fmt.Sprintf("Order dengan status %s tidak dapat dibatalkan", transition.From))
		}
		return orderError(err)
	}
	return fopbridge.NewResponse("Order berhasil dibatalkan", marshalOrder(order))
}

func (b *bridge) httpSellerOrders(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}
	page, err := fopbridge.ParsePage(r, defaultLimit)
	if err != nil {
		return errs.New(errs.BadRequest, err)
	}

	var status *string
	if s := strings.ToUpper(strings.TrimSpace(web.QueryParam(r, "status"))); s != "" {
		status = &s
	}

	orders, total, err := b.orderRepository.SellerOrders(ctx, userID, status, page)
	if err != nil {
		return orderError(err)
	}
	return fopbridge.NewResponse("Daftar order seller berhasil diambil", OrderList{
		Orders:   marshalDetails(orders),
		PageInfo: fop.NewPageInfo(page, total),
	})
}

func (b *bridge) httpUpdateStatus(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	var input UpdateStatusInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}
	status := strings.ToUpper(strings.TrimSpace(input.Status))

	order, err := b.orderRepository.UpdateStatus(ctx, userID, web.Param(r, "order_id"), status)
	if err != nil {
		return orderError(err)
	}
	if status == ordersrepo.StatusCancelled {
		return fopbridge.NewResponse("Order berhasil dibatalkan", marshalOrder(order))
	}
	return fopbridge.NewResponse("Status order diubah ke "+status, marshalOrder(order))
}
