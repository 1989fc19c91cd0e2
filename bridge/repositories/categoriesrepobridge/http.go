// Package categoriesrepobridge serves the category catalogue. Writes are
// admin only.
package categoriesrepobridge

import (
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/repositories/categoriesrepo"
	"github.com/kingjawir/marketplace/infrastructure/web"
)

type Config struct {
	Repository    *categoriesrepo.Repository
	Authenticated web.Middleware
}

// AddHttpRoutes registers the category routes.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg)

	categories := group.Group("/categories")
	categories.GET("", b.httpList)
	categories.GET("/{slug}", b.httpGetBySlug)

	admin := categories.Group("", cfg.Authenticated, mid.RequireRoles(mid.RoleAdmin))
	admin.POST("", b.httpCreate)
	admin.PUT("/{category_id}", b.httpUpdate)
	admin.DELETE("/{category_id}", b.httpDelete)
}
