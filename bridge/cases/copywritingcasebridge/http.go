// Package copywritingcasebridge serves the AI copywriting endpoints: product
// descriptions, marketing posts and the seller description tools.
package copywritingcasebridge

import (
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/cases/copywritingcase"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/logger"
)

type Config struct {
	Log           *logger.Logger
	Case          *copywritingcase.Case
	Authenticated web.Middleware
}

func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg)

	group.POST("/api/product-description/generate", b.httpGenerateDescription)
	group.POST("/api/marketing/generate", b.httpGenerateMarketing)

	seller := group.Group("/api/seller/ai", cfg.Authenticated, mid.RequireRoles(mid.RoleSeller, mid.RoleAdmin))
	seller.POST("/generate-description", b.httpSellerDescription)
	seller.POST("/improve-description", b.httpImproveDescription)
	seller.GET("/description-tips", b.httpTips)
}
