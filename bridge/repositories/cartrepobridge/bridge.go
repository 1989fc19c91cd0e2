package cartrepobridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/kingjawir/marketplace/bridge/scaffolding/errs"
	"github.com/kingjawir/marketplace/bridge/scaffolding/fopbridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/repositories/cartrepo"
	"github.com/kingjawir/marketplace/infrastructure/web"
)

type bridge struct {
	cartRepository *cartrepo.Repository
}

func newBridge(cfg Config) *bridge {
	return &bridge{cartRepository: cfg.Repository}
}

func cartError(err error) *errs.Error {
	var stock *cartrepo.StockError
	switch {
	case errors.As(err, &stock):
		msg := fmt.Sprintf("Stok tidak cukup. Tersedia: %d", stock.Available)
		if stock.InCart > 0 {
			msg = fmt.Sprintf("%s, di keranjang: %d", msg, stock.InCart)
		}
		return errs.FromRepo(err, msg)
	case errors.Is(err, cartrepo.ErrProductNotFound):
		return errs.FromRepo(err, "Produk tidak ditemukan")
	case errors.Is(err, cartrepo.ErrInvalidQuantity):
		return errs.FromRepo(err, "Quantity minimal 1")
	}
	return errs.FromRepo(err, "Item tidak ditemukan di keranjang")
}

func (b *bridge) httpGet(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	cart, err := b.cartRepository.Get(ctx, userID)
	if err != nil {
		return cartError(err)
	}
	return fopbridge.NewResponse("Keranjang berhasil diambil", marshalCart(cart))
}

func (b *bridge) httpAdd(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	var input AddInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	item, err := b.cartRepository.Add(ctx, userID, strings.TrimSpace(input.ProductID), input.Quantity)
	if err != nil {
		return cartError(err)
	}
	return fopbridge.NewResponse("Produk ditambahkan ke keranjang", marshalItem(item))
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	var input UpdateInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	item, removed, err := b.cartRepository.Update(ctx, userID, web.Param(r, "cart_item_id"), *input.Quantity)
	if err != nil {
		return cartError(err)
	}
	if removed {
		return fopbridge.NewMessage("Item dihapus dari keranjang")
	}
	return fopbridge.NewResponse("Quantity berhasil diupdate", marshalItem(item))
}

func (b *bridge) httpRemove(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	if err := b.cartRepository.Remove(ctx, userID, web.Param(r, "cart_item_id")); err != nil {
		return cartError(err)
	}
	return fopbridge.NewMessage("Item berhasil dihapus dari keranjang")
}

func (b *bridge) httpClear(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	if err := b.cartRepository.Clear(ctx, userID); err != nil {
		return cartError(err)
	}
	return fopbridge.NewMessage("Keranjang berhasil dikosongkan")
}
