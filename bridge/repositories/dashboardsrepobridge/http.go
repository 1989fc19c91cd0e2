// Package dashboardsrepobridge serves the admin statistics and the seller
// dashboard and analytics.
package dashboardsrepobridge

import (
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/repositories/dashboardsrepo"
	"github.com/kingjawir/marketplace/infrastructure/web"
)

type Config struct {
	Repository    *dashboardsrepo.Repository
	Authenticated web.Middleware
}

// AddHttpRoutes registers the dashboard routes.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg)

	group.GET("/admin/stats", b.httpAdminStats, cfg.Authenticated, mid.RequireRoles(mid.RoleAdmin))

	seller := group.Group("/api/seller", cfg.Authenticated, mid.RequireRoles(mid.RoleSeller, mid.RoleAdmin))
	seller.GET("/dashboard", b.httpSellerDashboard)
	seller.GET("/analytics", b.httpSellerAnalytics)
}
