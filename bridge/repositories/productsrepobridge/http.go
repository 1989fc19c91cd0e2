// Package productsrepobridge serves the product catalogue and the seller's
// product management.
package productsrepobridge

import (
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/repositories/productsrepo"
	"github.com/kingjawir/marketplace/core/repositories/storesrepo"
	"github.com/kingjawir/marketplace/infrastructure/web"
)

type Config struct {
	Repository *productsrepo.Repository
	// Stores resolves the store of /stores/{slug}/products.
	Stores        *storesrepo.Repository
	Authenticated web.Middleware
}

// AddHttpRoutes registers the product routes.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg)

	group.GET("/products", b.httpList)
	group.GET("/products/{slug}", b.httpGetBySlug)
	group.GET("/stores/{slug}/products", b.httpListByStore)

	seller := group.Group("/products", cfg.Authenticated, mid.RequireRoles(mid.RoleSeller, mid.RoleAdmin))
	seller.GET("/my-products", b.httpMine)
	seller.POST("", b.httpCreate)
	seller.PUT("/{product_id}", b.httpUpdate)
	seller.DELETE("/{product_id}", b.httpDelete)
}
