package dashboardsrepobridge

import (
	"context"
	"errors"
	"net/http"

	"github.com/kingjawir/marketplace/bridge/scaffolding/errs"
	"github.com/kingjawir/marketplace/bridge/scaffolding/fopbridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/repositories/dashboardsrepo"
	"github.com/kingjawir/marketplace/infrastructure/web"
)

type bridge struct {
	dashboardRepository *dashboardsrepo.Repository
}

func newBridge(cfg Config) *bridge {
	return &bridge{dashboardRepository: cfg.Repository}
}

func dashboardError(err error, generic string) *errs.Error {
	switch {
	case errors.Is(err, dashboardsrepo.ErrNoStore):
		return errs.FromRepo(err, "Anda belum memiliki toko")
	case errors.Is(err, dashboardsrepo.ErrInvalidPeriod):
		return errs.Newf(errs.ValidationError, "Period tidak valid. Gunakan: day, week, atau month")
	}
	return errs.Wrap(errs.Internal, generic, err)
}

func (b *bridge) httpAdminStats(ctx context.Context, r *http.Request) web.Encoder {
	stats, err := b.dashboardRepository.AdminStats(ctx)
	if err != nil {
		return errs.FromRepo(err, "")
	}
	return fopbridge.NewResponse("Statistik berhasil diambil", marshalAdmin(stats))
}

func (b *bridge) httpSellerDashboard(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	dashboard, err := b.dashboardRepository.Seller(ctx, userID)
	if err != nil {
		return dashboardError(err, "Gagal mengambil data dashboard")
	}
	return fopbridge.NewResponse("Dashboard data retrieved", marshalSeller(dashboard))
}

func (b *bridge) httpSellerAnalytics(ctx context.Context, r *http.Request) web.Encoder {
	userID, err := mid.GetUserID(ctx)
	if err != nil {
		return errs.New(errs.Unauthorized, err)
	}

	analytics, err := b.dashboardRepository.Analytics(ctx, userID, web.QueryParam(r, "period"))
	if err != nil {
		return dashboardError(err, "Gagal mengambil data analytics")
	}
	return fopbridge.NewResponse("Analytics data retrieved", marshalAnalytics(analytics))
}
