package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/kingjawir/marketplace/app/scraper/api"
	"github.com/kingjawir/marketplace/bridge/scaffolding/mid"
	"github.com/kingjawir/marketplace/infrastructure/scraper"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/sdk/environment"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/kingjawir/marketplace/sdk/telemetry"
)

var build = "develop"
var appName = "SCRAPER"

func main() {
	if err := environment.LoadEnv(); err != nil {
		fmt.Println("loading .env:", err)
	}
	ctx := context.Background()

	log, err := logger.NewFromEnv(appName, logger.WithService("scraper"))
	if err != nil {
		fmt.Println("oh no we couldn't even get logging going.")
		os.Exit(1)
	}

	if err := run(ctx, log); err != nil {
		log.ErrorContext(ctx, "startup", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger) error {
	log.InfoContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0), "build", build)

	var browserCfg scraper.BrowserConfig
	if err := environment.ParseEnvTags("", &browserCfg); err != nil {
		return fmt.Errorf("parsing browser config: %w", err)
	}
	browser := scraper.NewBrowser(log, browserCfg)
	defer func() {
		log.InfoContext(ctx, "shutdown", "status", "closing browser")
		if err := browser.Close(); err != nil {
			log.ErrorContext(ctx, "close browser", "err", err)
		}
	}()

	var cacheCfg scraper.CacheConfig
	if err := environment.ParseEnvTags("", &cacheCfg); err != nil {
		return fmt.Errorf("parsing cache config: %w", err)
	}
	cache, err := scraper.OpenCache(ctx, cacheCfg)
	if err != nil {
		return fmt.Errorf("opening scrape cache: %w", err)
	}
	defer cache.Close()

	pruneCtx, stopPrune := context.WithCancel(ctx)
	defer stopPrune()
	go pruneCache(pruneCtx, log, cache, cacheCfg.TTL)

	service := scraper.NewService(log, browser, cache)

	app, err := web.NewWebHandlerFromEnv(appName,
		web.WithLogging(log.Logger),
		web.WithTelemetry(telemetry.NewTelemetry()),
		web.WithCORS([]string{"*"}),
		web.WithGlobalMiddleware(
			mid.Logger(log),
			mid.Errors(log),
			mid.Panics(),
		),
	)
	if err != nil {
		return fmt.Errorf("webhandler: %w", err)
	}
	api.AddHandlers(app, api.Config{Log: log, Searcher: service})

	server, err := web.NewServerFromEnv(appName,
		web.WithHandler(app),
		web.WithPort(environment.GetPrefixEnvOrDefault(appName, "PORT", ":4103")),
		web.WithErrorLog(logger.NewStdLogger(log, slog.LevelError)),
	)
	if err != nil {
		return fmt.Errorf("webserver: %w", err)
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "startup", "status", "scraper started", "host", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.InfoContext(ctx, "shutdown", "status", "shutdown started", "signal", sig)
		defer log.InfoContext(ctx, "shutdown", "status", "shutdown complete", "signal", sig)

		ctx, cancel := context.WithTimeout(ctx, server.Config.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}
	return nil
}

func pruneCache(ctx context.Context, log *logger.Logger, cache *scraper.Cache, every time.Duration) {
	if every <= 0 {
		return
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := cache.Prune(ctx)
			if err != nil {
				log.WarnContext(ctx, "prune scrape cache", "err", err)
				continue
			}
			if n > 0 {
				log.DebugContext(ctx, "pruned scrape cache", "removed", n)
			}
		}
	}
}
