package pricingcasebridge

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kingjawir/marketplace/bridge/scaffolding/errs"
	"github.com/kingjawir/marketplace/bridge/scaffolding/fopbridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/metrics"
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/cases/pricingcase"
	"github.com/kingjawir/marketplace/core/repositories/priceanalysesrepo"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/kingjawir/marketplace/sdk/validation"
)

type bridge struct {
	log   *logger.Logger
	cases *pricingcase.Case
	jobs  *priceanalysesrepo.Repository
}

func newBridge(cfg Config) *bridge {
	return &bridge{log: cfg.Log, cases: cfg.Case, jobs: cfg.Jobs}
}

func pricingError(err error) *errs.Error {
	switch {
	case errors.Is(err, pricingcase.ErrEmptyQuery), errors.Is(err, priceanalysesrepo.ErrEmptyQuery):
		return errs.Newf(errs.ValidationError, "Query wajib diisi")
	case errors.Is(err, pricingcase.ErrInvalidLimit), errors.Is(err, priceanalysesrepo.ErrInvalidLimit):
		return errs.Newf(errs.ValidationError, limitMessage)
	case errors.Is(err, pricingcase.ErrInvalidPrice):
		return errs.Newf(errs.ValidationError, "Harga tidak valid")
	case errors.Is(err, pricingcase.ErrNoProducts):
		return errs.Newf(errs.NotFound, "Tidak ada produk ditemukan untuk query tersebut")
	case errors.Is(err, pricingcase.ErrSourcesFailed):
		return errs.Wrap(errs.Internal, "Gagal mengambil data produk dari Tokopedia dan Blibli", err)
	case errors.Is(err, priceanalysesrepo.ErrAnalysisNotFound):
		return errs.Newf(errs.NotFound, "Analisis harga tidak ditemukan")
	}
	return errs.New(errs.InternalOnlyLog, err)
}

func (b *bridge) httpAnalyze(ctx context.Context, r *http.Request) web.Encoder {
	limit, err := web.QueryInt(r, "limit", pricingcase.DefaultLimit)
	if err != nil {
		return errs.Newf(errs.ValidationError, limitMessage)
	}
	userPrice, err := web.QueryInt64Ptr(r, "userPrice")
	if err != nil {
		return errs.Newf(errs.ValidationError, "Harga tidak valid")
	}

	result, err := b.cases.Analyze(ctx, pricingcase.Request{
		Query:     web.QueryParam(r, "query"),
		Limit:     limit,
		UserPrice: positiveOrNil(userPrice),
	}, nil)
	if err != nil {
		return pricingError(err)
	}
	metrics.AddAnalyses()
	return fopbridge.NewResponse("Price analysis completed successfully", result)
}

func (b *bridge) httpEnqueue(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	var input EnqueueInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	job, err := b.jobs.Enqueue(ctx, priceanalysesrepo.CreatePriceAnalysis{
		UserID:      userID,
		Query:       input.Query,
		ResultLimit: input.Limit,
		UserPrice:   positiveOrNil(input.UserPrice),
	})
	if err != nil {
		return pricingError(err)
	}
	return fopbridge.NewCreatedResponse("Analisis harga masuk antrean", marshalJob(job))
}

func (b *bridge) httpGetJob(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	job, err := b.jobs.Get(ctx, userID, web.Param(r, "analysis_id"))
	if err != nil {
		return pricingError(err)
	}
	return fopbridge.NewResponse("Analisis harga berhasil diambil", marshalJob(job))
}

func (b *bridge) httpListJobs(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	page, err := fopbridge.ParsePage(r, 10)
	if err != nil {
		return errs.New(errs.BadRequest, err)
	}

	jobs, total, err := b.jobs.List(ctx, userID, page)
	if err != nil {
		return pricingError(err)
	}
	return fopbridge.NewResponse("Analisis harga berhasil diambil", JobList{
		Jobs:       marshalJobs(jobs),
		Pagination: fop.NewPageInfo(page, total),
	})
}

func (b *bridge) httpSellerAnalyze(ctx context.Context, r *http.Request) web.Encoder {
	productName := strings.TrimSpace(web.QueryParam(r, "productName"))
	if !validation.LenBetween(productName, 3, 200) {
		return errs.Newf(errs.ValidationError, "Nama produk minimal 3 karakter")
	}
	limit, err := web.QueryInt(r, "limit", pricingcase.DefaultLimit)
	if err != nil {
		return errs.Newf(errs.ValidationError, limitMessage)
	}
	userPrice, err := web.QueryInt64Ptr(r, "userPrice")
	if err != nil {
		return errs.Newf(errs.ValidationError, "Harga tidak valid")
	}

	result, err := b.cases.AnalyzeForSeller(ctx, productName, positiveOrNil(userPrice), limit)
	if err != nil {
		return pricingError(err)
	}
	metrics.AddAnalyses()
	return fopbridge.NewResponse("Analisis harga berhasil", result)
}

func (b *bridge) httpQuickCheck(ctx context.Context, r *http.Request) web.Encoder {
	var input QuickCheckInput
	if err := web.Decode(r, &input); err != nil {
		return errs.FromDecode(err)
	}

	check, err := b.cases.QuickCheck(ctx, strings.TrimSpace(input.ProductName), input.UserPrice)
	if err != nil {
		b.log.ErrorContext(ctx, "quick price check", "error", err)
		if e := pricingError(err); e.Code != errs.InternalOnlyLog {
			return e
		}
		return errs.Wrap(errs.Internal, "Gagal melakukan quick check", err)
	}
	return fopbridge.NewResponse("Quick check berhasil", check)
}
