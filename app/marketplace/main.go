package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/kingjawir/marketplace/app/marketplace/config"
	"github.com/kingjawir/marketplace/bridge/scaffolding/metrics"
	"github.com/kingjawir/marketplace/core/cases/authcase"
	"github.com/kingjawir/marketplace/core/cases/copywritingcase"
	"github.com/kingjawir/marketplace/core/cases/pricingcase"
	"github.com/kingjawir/marketplace/core/repositories/cartrepo"
	"github.com/kingjawir/marketplace/core/repositories/cartrepo/stores/cartpgxstore"
	"github.com/kingjawir/marketplace/core/repositories/categoriesrepo"
	"github.com/kingjawir/marketplace/core/repositories/categoriesrepo/stores/categoriespgxstore"
	"github.com/kingjawir/marketplace/core/repositories/dashboardsrepo"
	"github.com/kingjawir/marketplace/core/repositories/dashboardsrepo/stores/dashboardspgxstore"
	"github.com/kingjawir/marketplace/core/repositories/ordersrepo"
	"github.com/kingjawir/marketplace/core/repositories/ordersrepo/stores/orderspgxstore"
	"github.com/kingjawir/marketplace/core/repositories/priceanalysesrepo"
	"github.com/kingjawir/marketplace/core/repositories/priceanalysesrepo/stores/priceanalysespgxstore"
	"github.com/kingjawir/marketplace/core/repositories/productsrepo"
	"github.com/kingjawir/marketplace/core/repositories/productsrepo/stores/productspgxstore"
	"github.com/kingjawir/marketplace/core/repositories/reviewsrepo"
	"github.com/kingjawir/marketplace/core/repositories/reviewsrepo/stores/reviewspgxstore"
	"github.com/kingjawir/marketplace/core/repositories/schemamigrationsrepo"
	"github.com/kingjawir/marketplace/core/repositories/schemamigrationsrepo/stores/schemamigrationspgxstore"
	"github.com/kingjawir/marketplace/core/repositories/storesrepo"
	"github.com/kingjawir/marketplace/core/repositories/storesrepo/stores/storespgxstore"
	"github.com/kingjawir/marketplace/core/repositories/usersessionsrepo"
	"github.com/kingjawir/marketplace/core/repositories/usersessionsrepo/stores/usersessionspgxstore"
	"github.com/kingjawir/marketplace/core/repositories/usersrepo"
	"github.com/kingjawir/marketplace/core/repositories/usersrepo/stores/userspgxstore"
	"github.com/kingjawir/marketplace/core/repositories/verificationsrepo"
	"github.com/kingjawir/marketplace/core/repositories/verificationsrepo/stores/verificationspgxstore"
	"github.com/kingjawir/marketplace/infrastructure/llm"
	"github.com/kingjawir/marketplace/infrastructure/mailer"
	"github.com/kingjawir/marketplace/infrastructure/postgresdb"
	"github.com/kingjawir/marketplace/infrastructure/scraperclient"
	"github.com/kingjawir/marketplace/infrastructure/web"
	"github.com/kingjawir/marketplace/infrastructure/workers"
	"github.com/kingjawir/marketplace/schema"
	"github.com/kingjawir/marketplace/sdk/authtoken"
	"github.com/kingjawir/marketplace/sdk/environment"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/kingjawir/marketplace/sdk/telemetry"
)

var build = "develop"
var appName = "MARKETPLACE"

func main() {
	if err := environment.LoadEnv(); err != nil {
		fmt.Println("loading .env:", err)
	}
	ctx := context.Background()

	log, err := logger.NewFromEnv(appName, logger.WithService("marketplace"))
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

	var settings config.Settings
	if err := environment.ParseEnvTags("", &settings); err != nil {
		return fmt.Errorf("parsing settings: %w", err)
	}

	// :*: START DATABASES :*:
	pg, err := postgresdb.NewFromEnv(appName, postgresdb.WithLogger(log.Logger))
	if err != nil {
		return fmt.Errorf("configuring postgres support: %w", err)
	}
	defer func() {
		log.InfoContext(ctx, "shutdown", "status", "closing database connection")
		pg.Close()
	}()

	if err := postgresdb.Migrate(ctx, log, pg); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	migrationFiles, err := postgresdb.MigrationFiles(schema.MigrationsFS, "pgmigrations")
	if err != nil {
		return fmt.Errorf("listing migrations: %w", err)
	}

	// REPOSITORIES //
	log.InfoContext(ctx, "startup", "status", "initializing repository support")
	repos := config.Repositories{
		Users:         usersrepo.NewRepository(log, userspgxstore.NewStore(log, pg)),
		Migrations:    schemamigrationsrepo.NewRepository(log, schemamigrationspgxstore.NewStore(log, pg)),
		Stores:        storesrepo.NewRepository(log, storespgxstore.NewStore(log, pg)),
		Categories:    categoriesrepo.NewRepository(log, categoriespgxstore.NewStore(log, pg)),
		Products:      productsrepo.NewRepository(log, productspgxstore.NewStore(log, pg)),
		Cart:          cartrepo.NewRepository(log, cartpgxstore.NewStore(log, pg)),
		Orders:        ordersrepo.NewRepository(log, orderspgxstore.NewStore(log, pg)),
		Reviews:       reviewsrepo.NewRepository(log, reviewspgxstore.NewStore(log, pg)),
		Dashboards:    dashboardsrepo.NewRepository(log, dashboardspgxstore.NewStore(log, pg)),
		PriceAnalyses: priceanalysesrepo.NewRepository(log, priceanalysespgxstore.NewStore(log, pg)),
	}
	sessions := usersessionsrepo.NewRepository(log, usersessionspgxstore.NewStore(log, pg))
	verifications := verificationsrepo.NewRepository(log, verificationspgxstore.NewStore(log, pg))

	// CASES //
	tokens, err := authtoken.NewManagerFromEnv("")
	if err != nil {
		return fmt.Errorf("configuring tokens: %w", err)
	}
	mail, err := mailer.NewFromEnv(log, "")
	if err != nil {
		return fmt.Errorf("configuring mailer: %w", err)
	}
	model, err := llm.NewClientFromEnv(ctx, log, "")
	if err != nil {
		return fmt.Errorf("configuring llm: %w", err)
	}
	scrapers, err := scraperclient.NewFromEnv(log, "")
	if err != nil {
		return fmt.Errorf("configuring scraper client: %w", err)
	}

	deps := authcase.Deps{
		Users:         repos.Users,
		Sessions:      sessions,
		Verifications: verifications,
		Tokens:        tokens,
		Mailer:        mail,
	}
	google, err := authcase.NewGoogleOAuthFromEnv("")
	if err != nil {
		return fmt.Errorf("configuring google sign in: %w", err)
	}
	if google != nil {
		deps.Google = google
	}

	pricing := pricingcase.NewCase(log, scrapers, model)
	site := config.Marketplace{
		Build:     build,
		Logger:    log,
		Telemetry: telemetry.NewTelemetry(),
		Settings:  settings,
		Tokens:    tokens,
		Cases: config.Cases{
			Auth:        authcase.NewCase(log, authcase.Config{AppURL: settings.AppURL}, deps),
			Pricing:     pricing,
			Copywriting: copywritingcase.NewCase(log, model),
		},
		Repositories:   repos,
		MigrationFiles: migrationFiles,
	}

	// WORKERS //
	poolMetrics := workers.NewLoggerMetrics(log, time.Minute)
	pool, err := workers.NewFromEnv("PRICEWORKER",
		pricingcase.NewJobProcessor(log, pricing, repos.PriceAnalyses, settings.JobMaxAttempts),
		workers.WithName("price-analysis"),
		workers.WithLogger(log),
		workers.WithMetrics(poolMetrics),
		workers.WithMiddleware(workers.ConsecutiveErrorShutdown(20)),
	)
	if err != nil {
		return fmt.Errorf("configuring worker pool: %w", err)
	}
	site.WorkerStats = pool.Metrics
	pool.AddPreProcessHooks(workers.LogStartHook[priceanalysesrepo.PriceAnalysis](log))
	pool.AddPostProcessHooks(
		workers.LogEndHook[priceanalysesrepo.PriceAnalysis](log),
		func(_ context.Context, _ priceanalysesrepo.PriceAnalysis, err error) error {
			if err == nil {
				metrics.AddAnalyses()
			}
			return nil
		},
	)

	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()

	go func() {
		if err := pool.Start(workerCtx); err != nil {
			log.ErrorContext(ctx, "worker pool stopped", "err", err)
		}
	}()
	go sweepStaleJobs(workerCtx, log, repos.PriceAnalyses, settings)

	// WEB //
	handler, err := webHandler(site)
	if err != nil {
		return fmt.Errorf("webhandler: %w", err)
	}
	server, err := web.NewServerFromEnv(appName,
		web.WithHandler(handler),
		web.WithErrorLog(logger.NewStdLogger(log, slog.LevelError)),
	)
	if err != nil {
		return fmt.Errorf("webserver: %w", err)
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "startup", "status", "api router started", "host", server.Addr)
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

		stopWorkers()
		pool.Stop()
		return shutdownServer(ctx, log, server)
	}
}

func shutdownServer(ctx context.Context, log *logger.Logger, server *web.WebServer) error {
	ctx, cancel := context.WithTimeout(ctx, server.Config.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		server.Close()
		return fmt.Errorf("could not stop server gracefully: %w", err)
	}
	log.InfoContext(ctx, "shutdown", "status", "server stopped")
	return nil
}

// sweepStaleJobs hands analyses held by a dead worker back to the queue.
func sweepStaleJobs(ctx context.Context, log *logger.Logger, jobs *priceanalysesrepo.Repository, settings config.Settings) {
	ticker := time.NewTicker(settings.StaleJobSweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := jobs.RequeueStale(ctx, settings.StaleJobAfter); err != nil && !errors.Is(err, context.Canceled) {
				log.ErrorContext(ctx, "requeue stale analyses", "err", err)
			}
		}
	}
}
