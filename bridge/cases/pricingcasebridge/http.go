// Package pricingcasebridge serves market price analysis over REST, as
// queued jobs and as a websocket progress stream.
package pricingcasebridge

import (
	"net/http"

	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/cases/pricingcase"
	"github.com/kingjawir/marketplace/core/repositories/priceanalysesrepo"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/logger"
)

type Config struct {
	Log  *logger.Logger
	Case *pricingcase.Case
	Jobs *priceanalysesrepo.Repository
	// AllowedOrigins limits which pages may open the stream. Empty allows
	// any origin.
	AllowedOrigins []string
	Authenticated  web.Middleware
}

// AddHttpRoutes registers the price analysis routes and the stream.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg)

	analysis := group.Group("/api/price-analysis")
	analysis.GET("", b.httpAnalyze)
	analysis.HandleRaw(http.MethodGet, "/stream", newStream(cfg))

	jobs := analysis.Group("/jobs", cfg.Authenticated)
	jobs.POST("", b.httpEnqueue)
	jobs.GET("", b.httpListJobs)
	jobs.GET("/{analysis_id}", b.httpGetJob)

	seller := group.Group("/api/seller/price-analysis", cfg.Authenticated, mid.RequireRoles(mid.RoleSeller, mid.RoleAdmin))
	seller.GET("", b.httpSellerAnalyze)
	seller.POST("/quick-check", b.httpQuickCheck)
}
