package copywritingcasebridge

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kingjawir/marketplace/bridge/scaffolding/errs"
	"github.com/kingjawir/marketplace/bridge/scaffolding/fopbridge"
	"github.com/kingjawir/marketplace/core/cases/copywritingcase"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/logger"
)

type bridge struct {
	log   *logger.Logger
	cases *copywritingcase.Case
}

func newBridge(cfg Config) *bridge {
	return &bridge{log: cfg.Log, cases: cfg.Case}
}

// copyError maps case errors. generic is shown for model failures.
func copyError(err error, generic string) *errs.Error {
	switch {
	case errors.Is(err, copywritingcase.ErrInvalidInput), errors.Is(err, copywritingcase.ErrInvalidPlatform):
		return errs.New(errs.ValidationError, err)
	case errors.Is(err, copywritingcase.ErrGeneration):
		return errs.Wrap(errs.Internal, generic, err)
	case errors.Is(err, copywritingcase.ErrMalformed):
		return errs.Wrap(errs.Internal, "Format response AI tidak valid. Silakan coba lagi.", err)
	}
	return errs.New(errs.InternalOnlyLog, err)
}

func (b *bridge) httpGenerateDescription(ctx context.Context, r *http.Request) web.Encoder {
	var input DescriptionInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	d, err := b.cases.GenerateDescription(ctx, input.ProductInput)
	if err != nil {
		return copyError(err, "Gagal menghasilkan deskripsi produk")
	}
	return fopbridge.NewResponse("Deskripsi produk berhasil dihasilkan", d)
}

func (b *bridge) httpGenerateMarketing(ctx context.Context, r *http.Request) web.Encoder {
	var input MarketingInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	platform, _ := copywritingcase.ParsePlatform(input.Platform)
	m, err := b.cases.GenerateMarketing(ctx, input.ProductDescription, platform)
	if err != nil {
		return copyError(err, "Gagal menghasilkan konten pemasaran")
	}
	return fopbridge.NewResponse("Konten pemasaran berhasil dihasilkan", m)
}

func (b *bridge) httpSellerDescription(ctx context.Context, r *http.Request) web.Encoder {
	var input SellerDescriptionInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	d, err := b.cases.GenerateSellerDescription(ctx, copywritingcase.SellerDescriptionInput{
		ProductName:        strings.TrimSpace(input.ProductName),
		Category:           strings.TrimSpace(input.Category),
		Specs:              input.Specs,
		TargetMarket:       copywritingcase.TargetMarket(input.TargetMarket),
		CurrentDescription: input.CurrentDescription,
	})
	if err != nil {
		return copyError(err, "Gagal generate deskripsi dengan AI")
	}
	return fopbridge.NewResponse("Deskripsi berhasil di-generate", d)
}

func (b *bridge) httpImproveDescription(ctx context.Context, r *http.Request) web.Encoder {
	var input ImproveInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	improved, err := b.cases.ImproveDescription(ctx, input.CurrentDescription, strings.TrimSpace(input.ProductName), input.Improvements)
	if err != nil {
		return copyError(err, "Gagal improve deskripsi")
	}
	return fopbridge.NewResponse("Deskripsi berhasil di-improve", Improved{ImprovedDescription: improved})
}

func (b *bridge) httpTips(ctx context.Context, r *http.Request) web.Encoder {
	return fopbridge.NewResponse("Tips deskripsi produk", copywritingcase.DescriptionTips())
}
