// Package reviewsrepobridge serves product reviews.
package reviewsrepobridge

import (
	"github.com/kingjawir/marketplace/core/repositories/reviewsrepo"
	"github.com/kingjawir/marketplace/infrastructure/web"
)

type Config struct {
	Repository    *reviewsrepo.Repository
	Authenticated web.Middleware
}

// AddHttpRoutes registers the review routes.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg)

	group.GET("/products/{product}/reviews", b.httpForProduct)

	reviews := group.Group("/reviews", cfg.Authenticated)
	reviews.POST("", b.httpCreate)
	reviews.PUT("/{review_id}", b.httpUpdate)
	reviews.DELETE("/{review_id}", b.httpDelete)
}
