package productsrepobridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/kingjawir/marketplace/bridge/scaffolding/errs"
	"github.com/kingjawir/marketplace/bridge/scaffolding/fopbridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/repositories/productsrepo"
	"github.com/kingjawir/marketplace/core/repositories/storesrepo"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/validation"
)

const defaultLimit = 20

type bridge struct {
	productRepository *productsrepo.Repository
	storeRepository   *storesrepo.Repository
}

func newBridge(cfg Config) *bridge {
	return &bridge{
		productRepository: cfg.Repository,
		storeRepository:   cfg.Stores,
	}
}

func productError(err error) *errs.Error {
	switch {
	case errors.Is(err, productsrepo.ErrNoStore):
		return errs.FromRepo(err, "Anda belum memiliki toko")
	case errors.Is(err, productsrepo.ErrCategoryNotFound):
		return errs.FromRepo(err, "Category tidak ditemukan")
	case errors.Is(err, productsrepo.ErrNotOwner):
		return errs.FromRepo(err, "Anda tidak memiliki akses ke product ini")
	case errors.Is(err, productsrepo.ErrPriceRange):
		return errs.Newf(errs.ValidationError, "minPrice tidak boleh lebih besar dari maxPrice")
	case errors.Is(err, productsrepo.ErrInvalidSort):
		return errs.Newf(errs.ValidationError, "Sort tidak valid. Gunakan: newest, price_asc, atau price_desc")
	}
	return errs.FromRepo(err, "Product tidak ditemukan")
}

func actor(ctx context.Context) (productsrepo.Actor, error) {
	claims, err := mid.GetClaims(ctx)
	if err != nil {
		return productsrepo.Actor{}, err
	}
	return productsrepo.Actor{UserID: claims.UserID, IsAdmin: claims.IsAdmin()}, nil
}

// parseFilter reads the catalogue query string.
func parseFilter(r *http.Request) (productsrepo.QueryFilter, error) {
	minPrice, err := web.QueryInt64Ptr(r, "minPrice")
	if err != nil {
		return productsrepo.QueryFilter{}, err
	}
	maxPrice, err := web.QueryInt64Ptr(r, "maxPrice")
	if err != nil {
		return productsrepo.QueryFilter{}, err
	}
	return productsrepo.QueryFilter{
		CategoryID:   validation.StringPtrIfNotEmpty(web.QueryParam(r, "categoryId")),
		CategorySlug: validation.StringPtrIfNotEmpty(web.QueryParam(r, "category")),
		Search:       validation.StringPtrIfNotEmpty(web.QueryParam(r, "search")),
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
	}, nil
}

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	page, err := fopbridge.ParsePage(r, defaultLimit)
	if err != nil {
		return errs.New(errs.BadRequest, err)
	}
	filter, err := parseFilter(r)
	if err != nil {
		return errs.New(errs.BadRequest, err)
	}
	orderBy := productsrepo.DefaultOrderBy
	if sort := web.QueryParam(r, "sort"); sort != "" {
		if orderBy, err = productsrepo.ParseSort(sort); err != nil {
			return productError(err)
		}
	}

	products, total, err := b.productRepository.List(ctx, filter, orderBy, page)
	if err != nil {
		return productError(err)
	}
	return fopbridge.NewResponse("Products retrieved", ProductList{
		Products:   marshalProducts(products),
		Pagination: fop.NewPageInfo(page, total),
	})
}

func (b *bridge) httpGetBySlug(ctx context.Context, r *http.Request) web.Encoder {
	product, err := b.productRepository.GetBySlug(ctx, web.Param(r, "slug"))
	if err != nil {
		return productError(err)
	}
	return fopbridge.NewResponse("Product ditemukan", ProductEnvelope{Product: MarshalToBridge(product)})
}

func (b *bridge) httpListByStore(ctx context.Context, r *http.Request) web.Encoder {
	page, err := fopbridge.ParsePage(r, defaultLimit)
	if err != nil {
		return errs.New(errs.BadRequest, err)
	}

	store, err := b.storeRepository.GetBySlug(ctx, web.Param(r, "slug"))
	if err != nil {
		return errs.FromRepo(err, "Store tidak ditemukan")
	}

	products, total, err := b.productRepository.List(ctx, productsrepo.QueryFilter{StoreID: &store.StoreID}, productsrepo.DefaultOrderBy, page)
	if err != nil {
		return productError(err)
	}
	return fopbridge.NewResponse("Products retrieved", ProductList{
		Products:   marshalProducts(products),
		Pagination: fop.NewPageInfo(page, total),
	})
}

func (b *bridge) httpMine(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}
	page, err := fopbridge.ParsePage(r, defaultLimit)
	if err != nil {
		return errs.New(errs.BadRequest, err)
	}

	products, total, err := b.productRepository.Mine(ctx, userID, page)
	if err != nil {
		return productError(err)
	}
	return fopbridge.NewResponse("Products retrieved", ProductList{
		Products:   marshalProducts(products),
		Pagination: fop.NewPageInfo(page, total),
	})
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	var input CreateProductInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	product, err := b.productRepository.Create(ctx, userID, marshalCreate(input))
	if err != nil {
		return productError(err)
	}
	return fopbridge.NewCreatedResponse("Product berhasil dibuat", ProductEnvelope{Product: MarshalToBridge(product)})
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	act, err := actor(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	var input UpdateProductInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	product, err := b.productRepository.Update(ctx, act, web.Param(r, "product_id"), marshalUpdate(input))
	if err != nil {
		return productError(err)
	}
	return fopbridge.NewResponse("Product berhasil diupdate", ProductEnvelope{Product: MarshalToBridge(product)})
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	act, err := actor(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	if err := b.productRepository.Delete(ctx, act, web.Param(r, "product_id")); err != nil {
		return productError(err)
	}
	return fopbridge.NewMessage("Product berhasil dihapus")
}
