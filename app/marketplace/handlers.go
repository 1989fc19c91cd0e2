package main

import (
	"context"
	"expvar"
	"net/http"

	"github.com/kingjawir/marketplace/app/marketplace/config"
	"github.com/kingjawir/marketplace/bridge/cases/authcasebridge"
	"github.com/kingjawir/marketplace/bridge/cases/copywritingcasebridge"
	"github.com/kingjawir/marketplace/bridge/cases/pricingcasebridge"
	"github.com/kingjawir/marketplace/bridge/repositories/cartrepobridge"
	"github.com/kingjawir/marketplace/bridge/repositories/categoriesrepobridge"
	"github.com/kingjawir/marketplace/bridge/repositories/dashboardsrepobridge"
	"github.com/kingjawir/marketplace/bridge/repositories/ordersrepobridge"
	"github.com/kingjawir/marketplace/bridge/repositories/productsrepobridge"
	"github.com/kingjawir/marketplace/bridge/repositories/reviewsrepobridge"
	"github.com/kingjawir/marketplace/bridge/repositories/storesrepobridge"
	"github.com/kingjawir/marketplace/bridge/repositories/usersrepobridge"
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/infrastructure/workers"
)

type health struct {
	Message string                   `json:"message"`
	Build   string                   `json:"build"`
	Workers *workers.MetricsSnapshot `json:"workers,omitempty"`
}

func (h health) Encode() ([]byte, string, error) {
	return web.NewJSONResponse(h).Encode()
}

func webHandler(cfg config.Marketplace) (http.Handler, error) {

	// INITIALIZATION
	app, err := web.NewWebHandlerFromEnv(appName,
		web.WithLogging(cfg.Logger.Logger),
		web.WithTelemetry(cfg.Telemetry),
		web.WithGlobalMiddleware(
			mid.Logger(cfg.Logger), // Request logging
			mid.Errors(cfg.Logger), // Error handling
			mid.Metrics(),          // Metrics collection
			mid.Panics(),           // Panic recovery
		),
	)
	if err != nil {
		return nil, err
	}
	addRoutes(app, cfg)
	return app, nil
}

func addRoutes(app *web.WebHandler, cfg config.Marketplace) {
	authenticated := mid.Authenticate(cfg.Tokens)
	cookies := web.CookieOptions{
		Secure: cfg.Settings.CookieSecure,
		Domain: cfg.Settings.CookieDomain,
	}
	root := app.Group("")

	root.GET("/{$}", func(ctx context.Context, r *http.Request) web.Encoder {
		h := health{Message: "Marketplace API", Build: cfg.Build}
		if cfg.WorkerStats != nil {
			snap := cfg.WorkerStats()
			h.Workers = &snap
		}
		return h
	})
	app.HandleRaw("GET /debug/vars", expvar.Handler())

	// AUTH & ACCOUNTS
	authcasebridge.AddHttpRoutes(root, authcasebridge.Config{
		Log:           cfg.Logger,
		Case:          cfg.Cases.Auth,
		Cookies:       cookies,
		AppURL:        cfg.Settings.AppURL,
		Authenticated: authenticated,
	})
	usersrepobridge.AddHttpRoutes(root, usersrepobridge.Config{
		Log:            cfg.Logger,
		Repository:     cfg.Repositories.Users,
		Migrations:     cfg.Repositories.Migrations,
		MigrationFiles: cfg.MigrationFiles,
		Authenticated:  authenticated,
	})

	// CATALOGUE
	storesrepobridge.AddHttpRoutes(root, storesrepobridge.Config{
		Log:           cfg.Logger,
		Repository:    cfg.Repositories.Stores,
		Auth:          cfg.Cases.Auth,
		Cookies:       cookies,
		Authenticated: authenticated,
	})
	categoriesrepobridge.AddHttpRoutes(root, categoriesrepobridge.Config{
		Repository:    cfg.Repositories.Categories,
		Authenticated: authenticated,
	})
	productsrepobridge.AddHttpRoutes(root, productsrepobridge.Config{
		Repository:    cfg.Repositories.Products,
		Stores:        cfg.Repositories.Stores,
		Authenticated: authenticated,
	})
	reviewsrepobridge.AddHttpRoutes(root, reviewsrepobridge.Config{
		Repository:    cfg.Repositories.Reviews,
		Authenticated: authenticated,
	})

	// SHOPPING
	cartrepobridge.AddHttpRoutes(root, cartrepobridge.Config{
		Repository:    cfg.Repositories.Cart,
		Authenticated: authenticated,
	})
	ordersrepobridge.AddHttpRoutes(root, ordersrepobridge.Config{
		Repository:    cfg.Repositories.Orders,
		Authenticated: authenticated,
	})
	dashboardsrepobridge.AddHttpRoutes(root, dashboardsrepobridge.Config{
		Repository:    cfg.Repositories.Dashboards,
		Authenticated: authenticated,
	})

	// AI
	pricingcasebridge.AddHttpRoutes(root, pricingcasebridge.Config{
		Log:            cfg.Logger,
		Case:           cfg.Cases.Pricing,
		Jobs:           cfg.Repositories.PriceAnalyses,
		AllowedOrigins: cfg.Settings.StreamOrigins,
		Authenticated:  authenticated,
	})
	copywritingcasebridge.AddHttpRoutes(root, copywritingcasebridge.Config{
		Log:           cfg.Logger,
		Case:          cfg.Cases.Copywriting,
		Authenticated: authenticated,
	})
}
