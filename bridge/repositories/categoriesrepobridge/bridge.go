package categoriesrepobridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/kingjawir/marketplace/bridge/scaffolding/errs"
	"github.com/kingjawir/marketplace/bridge/scaffolding/fopbridge"
	"github.com/kingjawir/marketplace/core/repositories/categoriesrepo"
	"github.com/kingjawir/marketplace/infrastructure/web"
)

type bridge struct {
	categoryRepository *categoriesrepo.Repository
}

func newBridge(cfg Config) *bridge {
	return &bridge{categoryRepository: cfg.Repository}
}

func categoryError(err error) *errs.Error {
	var inUse *categoriesrepo.InUseError
	switch {
	case errors.As(err, &inUse):
		return errs.FromRepo(err, fmt.Sprintf("Tidak bisa hapus category yang masih memiliki %d produk", inUse.Products))
	case errors.Is(err, categoriesrepo.ErrNameTaken):
		return errs.FromRepo(err, "Nama category sudah ada")
	case errors.Is(err, categoriesrepo.ErrSlugTaken):
		return errs.FromRepo(err, "Slug sudah digunakan")
	case errors.Is(err, categoriesrepo.ErrInvalidSlug):
		return errs.NewWithDetails(errs.ValidationError, "Validasi gagal", map[string]string{
			"slug": "Slug hanya boleh huruf kecil, angka dan tanda hubung",
		})
	}
	return errs.FromRepo(err, "Category tidak ditemukan")
}

func (b *bridge) httpList(ctx context.Context, r *http.Request) web.Encoder {
	categories, err := b.categoryRepository.List(ctx)
	if err != nil {
		return categoryError(err)
	}

	out := make([]Category, len(categories))
	for i, c := range categories {
		out[i] = marshalWithCount(c)
	}
	return fopbridge.NewResponse("Categories retrieved", CategoryList{Categories: out})
}

func (b *bridge) httpGetBySlug(ctx context.Context, r *http.Request) web.Encoder {
	category, err := b.categoryRepository.GetBySlug(ctx, web.Param(r, "slug"))
	if err != nil {
		return categoryError(err)
	}
	return fopbridge.NewResponse("Category ditemukan", CategoryEnvelope{Category: marshalWithCount(category)})
}

func (b *bridge) httpCreate(ctx context.Context, r *http.Request) web.Encoder {
	var input CreateCategoryInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	category, err := b.categoryRepository.Create(ctx, marshalCreate(input))
	if err != nil {
		return categoryError(err)
	}
	return fopbridge.NewCreatedResponse("Category berhasil dibuat", CategoryEnvelope{Category: marshalCategory(category)})
}

func (b *bridge) httpUpdate(ctx context.Context, r *http.Request) web.Encoder {
	var input UpdateCategoryInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	category, err := b.categoryRepository.Update(ctx, web.Param(r, "category_id"), marshalUpdate(input))
	if err != nil {
		return categoryError(err)
	}
	return fopbridge.NewResponse("Category berhasil diupdate", CategoryEnvelope{Category: marshalCategory(category)})
}

func (b *bridge) httpDelete(ctx context.Context, r *http.Request) web.Encoder {
	if err := b.categoryRepository.Delete(ctx, web.Param(r, "category_id")); err != nil {
		return categoryError(err)
	}
	return fopbridge.NewMessage("Category berhasil dihapus")
}
