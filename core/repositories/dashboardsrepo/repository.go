// Package dashboardsrepo aggregates sales figures for the admin panel and the
// seller dashboard.
package dashboardsrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/kingjawir/marketplace/core/repositories"
	"github.com/kingjawir/marketplace/sdk/logger"
	"golang.org/x/sync/errgroup"
)

const listSize = 5

var (
	ErrNoStore       = fmt.Errorf("user has no store: %w", repositories.ErrNotFound)
	ErrInvalidPeriod = fmt.Errorf("%w: period must be day, week or month", repositories.ErrInvalid)
)

// Storer answers single aggregate queries. A nil storeID means the whole
// marketplace.
type Storer interface {
	StoreIDByUser(ctx context.Context, userID string) (string, error)
	CountUsers(ctx context.Context, role *string) (int, error)
	CountProducts(ctx context.Context, storeID *string) (int, error)
	CountOrders(ctx context.Context, storeID *string, status *string) (int, error)
	// Revenue sums DONE orders, or the store's items in DONE orders.
	Revenue(ctx context.Context, storeID *string) (int64, error)
	RecentOrders(ctx context.Context, storeID *string, limit int) ([]RecentOrder, error)
	// TopProducts ranks by units sold in orders that were not cancelled.
	TopProducts(ctx context.Context, storeID *string, limit int) ([]TopProduct, error)
	OrdersByStatus(ctx context.Context) (map[string]int, error)
	DailySales(ctx context.Context, storeID string, since time.Time) ([]DailyPoint, error)
	ProductPerformance(ctx context.Context, storeID string) ([]TopProduct, error)
}

type Repository struct {
	log    *logger.Logger
	storer Storer
	now    func() time.Time
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
		now:    time.Now,
	}
}

// AdminStats runs every marketplace wide aggregate concurrently.
func (r *Repository) AdminStats(ctx context.Context) (AdminStats, error) {
	var stats AdminStats
	seller := "SELLER"

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.TotalUsers, err = r.storer.CountUsers(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalSellers, err = r.storer.CountUsers(gctx, &seller)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalProducts, err = r.storer.CountProducts(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalOrders, err = r.storer.CountOrders(gctx, nil, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalRevenue, err = r.storer.Revenue(gctx, nil)
		return err
	})
	g.Go(func() (err error) {
		stats.RecentOrders, err = r.storer.RecentOrders(gctx, nil, listSize)
		return err
	})
	g.Go(func() (err error) {
		stats.TopProducts, err = r.storer.TopProducts(gctx, nil, listSize)
		return err
	})
	g.Go(func() (err error) {
		stats.OrdersByStatus, err = r.storer.OrdersByStatus(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return AdminStats{}, fmt.Errorf("dashboard repository admin stats: %w", err)
	}
	return stats, nil
}

// Seller builds the dashboard of the caller's store.
func (r *Repository) Seller(ctx context.Context, userID string) (SellerDashboard, error) {
	storeID, err := r.storer.StoreIDByUser(ctx, userID)
	if err != nil {
		return SellerDashboard{}, fmt.Errorf("dashboard repository seller: %w", err)
	}

	var d SellerDashboard
	pending, done, cancelled := "PENDING", "DONE", "CANCELLED"

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Stats.TotalRevenue, err = r.storer.Revenue(gctx, &storeID)
		return err
	})
	g.Go(func() (err error) {
		d.Stats.TotalOrders, err = r.storer.CountOrders(gctx, &storeID, nil)
		return err
	})
	g.Go(func() (err error) {
		d.Stats.TotalProducts, err = r.storer.CountProducts(gctx, &storeID)
		return err
	})
	g.Go(func() (err error) {
		d.Stats.PendingOrders, err = r.storer.CountOrders(gctx, &storeID, &pending)
		return err
	})
	g.Go(func() (err error) {
		d.Stats.CompletedOrders, err = r.storer.CountOrders(gctx, &storeID, &done)
		return err
	})
	g.Go(func() (err error) {
		d.Stats.CancelledOrders, err = r.storer.CountOrders(gctx, &storeID, &cancelled)
		return err
	})
	g.Go(func() (err error) {
		d.RecentOrders, err = r.storer.RecentOrders(gctx, &storeID, listSize)
		return err
	})
	g.Go(func() (err error) {
		d.TopProducts, err = r.storer.TopProducts(gctx, &storeID, listSize)
		return err
	})

	if err := g.Wait(); err != nil {
		return SellerDashboard{}, fmt.Errorf("dashboard repository seller: %w", err)
	}
	return d, nil
}

// Analytics buckets the store's sales per day over the period. An empty
// period means week.
func (r *Repository) Analytics(ctx context.Context, userID, period string) (Analytics, error) {
	if period == "" {
		period = PeriodWeek
	}
	days, ok := periodDays[period]
	if !ok {
		return Analytics{}, ErrInvalidPeriod
	}

	storeID, err := r.storer.StoreIDByUser(ctx, userID)
	if err != nil {
		return Analytics{}, fmt.Errorf("dashboard repository analytics: %w", err)
	}

	start := truncateDay(r.now()).AddDate(0, 0, 1-days)

	var (
		points      []DailyPoint
		performance []TopProduct
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		points, err = r.storer.DailySales(gctx, storeID, start)
		return err
	})
	g.Go(func() (err error) {
		performance, err = r.storer.ProductPerformance(gctx, storeID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Analytics{}, fmt.Errorf("dashboard repository analytics: %w", err)
	}

	filled := FillDays(start, days, points)
	return Analytics{
		Period:             period,
		RevenueData:        filled,
		OrderData:          filled,
		ProductPerformance: performance,
	}, nil
}
