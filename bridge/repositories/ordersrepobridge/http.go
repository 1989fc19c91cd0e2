// Package ordersrepobridge serves checkout, the buyer's orders and the
// seller's order handling.
package ordersrepobridge

import (
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/core/repositories/ordersrepo"
	"github.com/kingjawir/marketplace/infrastructure/web"
)

type Config struct {
	Repository    *ordersrepo.Repository
	Authenticated web.Middleware
}

// AddHttpRoutes registers the order routes.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg)

	orders := group.Group("/orders", cfg.Authenticated)
	orders.POST("", b.httpCheckout)
	orders.GET("", b.httpListMine)
	orders.GET("/{order_id}", b.httpGet)
	orders.POST("/{order_id}/cancel", b.httpCancel)

	seller := group.Group("/seller/orders", cfg.Authenticated, mid.RequireRoles(mid.RoleSeller, mid.RoleAdmin))
	seller.GET("", b.httpSellerOrders)
	seller.PUT("/{order_id}/status", b.httpUpdateStatus)
}
