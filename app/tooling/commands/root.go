// Package commands holds the tooling CLI.
package commands

import (
	"context"

	"github.com/kingjawir/marketplace/infrastructure/postgresdb"
	"github.com/kingjawir/marketplace/infrastructure/scraper"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/spf13/cobra"
)

// Scraper is the part of scraper.Service the scrape command drives.
type Scraper interface {
	Search(ctx context.Context, src scraper.Source, query string, limit int) ([]scraper.Product, error)
	SearchAll(ctx context.Context, query string, limit int) ([]scraper.Product, error)
}

// Env carries what commands need. Connections are opened per command so
// help and --list never touch the database.
type Env struct {
	Log   *logger.Logger
	Build string

	OpenDB      func(ctx context.Context) (*postgresdb.Pool, error)
	OpenScraper func(ctx context.Context) (Scraper, func() error, error)
}

// NewRootCmd creates the root command.
func NewRootCmd(env Env) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tooling",
		Short: "Marketplace maintenance commands",
		Long: `tooling runs database migrations, loads demo data and scrapes
marketplace search results from the command line.

Configuration is read from the environment and an optional .env file
(TOOLING_PG_DATABASE_URL, CHROME_BIN, SCRAPER_CACHE_PATH, ...).`,
		Version:       env.Build,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newMigrateCmd(env))
	rootCmd.AddCommand(newSeedCmd(env))
	rootCmd.AddCommand(newScrapeCmd(env))
	return rootCmd
}
