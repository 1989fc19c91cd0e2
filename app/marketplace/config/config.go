package config

import (
	"time"

	"github.com/kingjawir/marketplace/core/cases/authcase"
	"github.com/kingjawir/marketplace/core/cases/copywritingcase"
	"github.com/kingjawir/marketplace/core/cases/pricingcase"
	"github.com/kingjawir/marketplace/core/repositories/cartrepo"
	"github.com/kingjawir/marketplace/core/repositories/categoriesrepo"
	"github.com/kingjawir/marketplace/core/repositories/dashboardsrepo"
	"github.com/kingjawir/marketplace/core/repositories/ordersrepo"
	"github.com/kingjawir/marketplace/core/repositories/priceanalysesrepo"
	"github.com/kingjawir/marketplace/core/repositories/productsrepo"
	"github.com/kingjawir/marketplace/core/repositories/reviewsrepo"
	"github.com/kingjawir/marketplace/core/repositories/schemamigrationsrepo"
	"github.com/kingjawir/marketplace/core/repositories/storesrepo"
	"github.com/kingjawir/marketplace/core/repositories/usersrepo"
	"github.com/kingjawir/marketplace/infrastructure/workers"
	"github.com/kingjawir/marketplace/sdk/authtoken"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/kingjawir/marketplace/sdk/telemetry"
)

// Settings are the site wide values read from the environment.
type Settings struct {
	AppURL         string        `env:"APP_URL" default:"http://localhost:3000"`
	CookieSecure   bool          `env:"COOKIE_SECURE" default:"false"`
	CookieDomain   string        `env:"COOKIE_DOMAIN"`
	StreamOrigins  []string      `env:"STREAM_ORIGINS" separator:","`
	StaleJobAfter  time.Duration `env:"STALE_JOB_AFTER" default:"5m"`
	StaleJobSweep  time.Duration `env:"STALE_JOB_SWEEP" default:"1m"`
	JobMaxAttempts int           `env:"JOB_MAX_ATTEMPTS" default:"3"`
}

type Cases struct {
	Auth        *authcase.Case
	Pricing     *pricingcase.Case
	Copywriting *copywritingcase.Case
}

// Repositories are the data access layers the API serves.
type Repositories struct {
	Users         *usersrepo.Repository
	Migrations    *schemamigrationsrepo.Repository
	Stores        *storesrepo.Repository
	Categories    *categoriesrepo.Repository
	Products      *productsrepo.Repository
	Cart          *cartrepo.Repository
	Orders        *ordersrepo.Repository
	Reviews       *reviewsrepo.Repository
	Dashboards    *dashboardsrepo.Repository
	PriceAnalyses *priceanalysesrepo.Repository
}

// Marketplace is everything the route table needs.
type Marketplace struct {
	Build     string
	Logger    *logger.Logger
	Telemetry telemetry.Telemetry
	Settings  Settings

	Tokens         *authtoken.Manager
	Cases          Cases
	Repositories   Repositories
	MigrationFiles []string

	// WorkerStats reports the price analysis pool, nil when it is not running.
	WorkerStats func() workers.MetricsSnapshot
}
