// Package cartrepobridge serves the caller's shopping cart.
package cartrepobridge

import (
	"github.com/kingjawir/marketplace/core/repositories/cartrepo"
	"github.com/kingjawir/marketplace/infrastructure/web"
)

type Config struct {
	Repository    *cartrepo.Repository
	Authenticated web.Middleware
}

// AddHttpRoutes registers the cart routes. Every route needs a session.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg)

	cart := group.Group("/cart", cfg.Authenticated)
	cart.GET("", b.httpGet)
	cart.POST("", b.httpAdd)
	cart.PUT("/{cart_item_id}", b.httpUpdate)
	cart.DELETE("/{cart_item_id}", b.httpRemove)
	cart.DELETE("", b.httpClear)
}
