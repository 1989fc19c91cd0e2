package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/kingjawir/marketplace/app/tooling/commands"
	"github.com/kingjawir/marketplace/infrastructure/postgresdb"
	"github.com/kingjawir/marketplace/infrastructure/scraper"
	"github.com/kingjawir/marketplace/sdk/environment"
	"github.com/kingjawir/marketplace/sdk/logger"
)

var build = "develop"
var appName = "TOOLING"

func main() {
	if err := environment.LoadEnv(); err != nil {
		fmt.Println("loading .env:", err)
	}

	log, err := logger.NewFromEnv(appName, logger.WithOutput(os.Stderr))
	if err != nil {
		fmt.Println("oh no we couldn't even get logging going.")
		os.Exit(1)
	}

	// Commands stop at the next cancellation point on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, log); err != nil {
		log.ErrorContext(ctx, "tooling", "err", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, log *logger.Logger) error {
	log.DebugContext(ctx, "startup", "GOMAXPROCS", runtime.GOMAXPROCS(0))

	env := commands.Env{
		Log:   log,
		Build: build,
		OpenDB: func(ctx context.Context) (*postgresdb.Pool, error) {
			pg, err := postgresdb.NewFromEnv(appName, postgresdb.WithTracer(postgresdb.NewLoggingQueryTracer(log.Logger)))
			if err != nil {
				return nil, fmt.Errorf("configuring postgres support: %w", err)
			}
			log.InfoContext(ctx, "init", "service", "postgres")
			return pg, nil
		},
		OpenScraper: func(ctx context.Context) (commands.Scraper, func() error, error) {
			return openScraper(ctx, log)
		},
	}

	return commands.NewRootCmd(env).ExecuteContext(ctx)
}

func openScraper(ctx context.Context, log *logger.Logger) (commands.Scraper, func() error, error) {
	var browserCfg scraper.BrowserConfig
	if err := environment.ParseEnvTags("", &browserCfg); err != nil {
		return nil, nil, fmt.Errorf("parsing browser config: %w", err)
	}
	browser := scraper.NewBrowser(log, browserCfg)

	var cacheCfg scraper.CacheConfig
	if err := environment.ParseEnvTags("", &cacheCfg); err != nil {
		return nil, nil, fmt.Errorf("parsing cache config: %w", err)
	}
	cache, err := scraper.OpenCache(ctx, cacheCfg)
	if err != nil {
		browser.Close()
		return nil, nil, fmt.Errorf("opening scrape cache: %w", err)
	}

	closeFn := func() error {
		cacheErr := cache.Close()
		if err := browser.Close(); err != nil {
			return err
		}
		return cacheErr
	}
	return scraper.NewService(log, browser, cache), closeFn, nil
}
