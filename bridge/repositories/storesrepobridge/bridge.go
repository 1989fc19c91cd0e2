package storesrepobridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/kingjawir/marketplace/bridge/cases/authcasebridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/errs"
	"github.com/kingjawir/marketplace/bridge/scaffolding/fopbridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/cases/authcase"
	"github.com/kingjawir/marketplace/core/repositories/storesrepo"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/kingjawir/marketplace/sdk/validation"
)

type bridge struct {
	log             *logger.Logger
	storeRepository *storesrepo.Repository
	auth            *authcase.Case
	cookies         web.CookieOptions
}

func newBridge(cfg Config) *bridge {
	return &bridge{
		log:             cfg.Log,
		storeRepository: cfg.Repository,
		auth:            cfg.Auth,
		cookies:         cfg.Cookies,
	}
}

func storeError(err error) *errs.Error {
	switch {
	case errors.Is(err, storesrepo.ErrNoStore):
		return errs.FromRepo(err, "Anda belum memiliki toko")
	case errors.Is(err, storesrepo.ErrStoreExists):
		return errs.FromRepo(err, "Anda sudah memiliki toko")
	case errors.Is(err, storesrepo.ErrActiveOrders):
		return errs.FromRepo(err, "Tidak dapat menghapus toko. Masih ada pesanan yang belum selesai")
	case errors.Is(err, storesrepo.ErrStoreNotFound):
		return errs.FromRepo(err, "Toko tidak ditemukan")
	}
	return errs.FromRepo(err, "Toko tidak ditemukan")
}

// reissue signs a new token pair carrying the caller's new role.
func (b *bridge) reissue(ctx context.Context, userID string) (authcase.Session, error) {
	session, err := b.auth.ReissueFor(ctx, userID)
	if err != nil {
		return authcase.Session{}, err
	}
	authcasebridge.SetSessionCookies(ctx, b.auth, b.cookies, session)
	return session, nil
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	var input CreateStoreInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	store, err := b.storeRepository.Create(ctx, storesrepo.CreateStore{
		UserID:      userID,
		Name:        input.Name,
		Description: input.Description,
		LogoURL:     input.LogoURL,
	})
	if err != nil {
		return storeError(err)
	}

	session, err := b.reissue(ctx, userID)
	if err != nil {
		return errs.New(errs.InternalOnlyLog, err)
	}
	out := marshalStore(store)
	return fopbridge.NewCreatedResponse("Toko berhasil dibuat! Role Anda sekarang SELLER", StoreWithSession{
		Store:           &out,
		SessionResponse: authcasebridge.NewSessionResponse(session),
	})
}

func (b *bridge) httpMine(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	store, err := b.storeRepository.Mine(ctx, userID)
	if err != nil {
		return storeError(err)
	}
	return fopbridge.NewResponse("Store ditemukan", StoreEnvelope{Store: marshalDetail(store)})
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	var input UpdateStoreInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	store, err := b.storeRepository.Update(ctx, userID, marshalUpdate(input))
	if err != nil {
		return storeError(err)
	}
	return fopbridge.NewResponse("Toko berhasil diupdate", StoreEnvelope{Store: marshalStore(store)})
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	if err := b.storeRepository.Delete(ctx, userID); err != nil {
		return storeError(err)
	}

	session, err := b.reissue(ctx, userID)
	if err != nil {
		return errs.New(errs.InternalOnlyLog, err)
	}
	return fopbridge.NewResponse("Toko berhasil dihapus. Role Anda sekarang CUSTOMER", StoreWithSession{
		SessionResponse: authcasebridge.NewSessionResponse(session),
	})
}

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	page, err := fopbridge.ParsePage(r, 12)
	if err != nil {
		return errs.New(errs.BadRequest, err)
	}

	filter := storesrepo.QueryFilter{Search: validation.StringPtrIfNotEmpty(web.QueryParam(r, "search"))}
	stores, total, err := b.storeRepository.List(ctx, filter, page)
	if err != nil {
		return storeError(err)
	}
	return fopbridge.NewResponse("Daftar toko berhasil diambil", StoreList{
		Stores:     marshalDetails(stores),
		Pagination: fop.NewPageInfo(page, total),
	})
}

func (b *bridge) httpGetBySlug(ctx context.Context, r *http.Request) web.Encoder {
	store, err := b.storeRepository.GetBySlug(ctx, web.Param(r, "slug"))
	if err != nil {
		return storeError(err)
	}
	return fopbridge.NewResponse("Store ditemukan", StoreEnvelope{Store: marshalDetail(store)})
}
