// Package storesrepobridge serves the seller's own store and the public
// store directory.
package storesrepobridge

import (
	"github.com/kingjawir/marketplace/core/cases/authcase"
	"github.com/kingjawir/marketplace/core/repositories/storesrepo"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/logger"
)

type Config struct {
	Log        *logger.Logger
	Repository *storesrepo.Repository
	// Auth reissues tokens after opening or closing a store changes the
	// caller's role.
	Auth          *authcase.Case
	Cookies       web.CookieOptions
	Authenticated web.Middleware
}

// AddHttpRoutes registers the store routes.
func AddHttpRoutes(group *web.RouteGroup, cfg Config) {
	b := newBridge(cfg)

	own := group.Group("/store", cfg.Authenticated)
	own.POST("", b.httpCreate)
	own.GET("", b.httpMine)
	own.PUT("", b.httpUpdate)
	own.DELETE("", b.httpDelete)

	group.GET("/stores", b.httpList)
	group.GET("/stores/{slug}", b.httpGetBySlug)
}
