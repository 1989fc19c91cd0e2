package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/kingjawir/marketplace/infrastructure/postgresdb"
	"github.com/kingjawir/marketplace/schema"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/spf13/cobra"
)

// Migrate applies every pending migration.
func Migrate(ctx context.Context, log *logger.Logger, pool *postgresdb.Pool) error {
	// Increase timeout for migrations
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	log.InfoContext(ctx, "migration started", "step", "testing simple query")

	var ok bool
	if err := pool.QueryRow(ctx, "SELECT true").Scan(&ok); err != nil {
		return fmt.Errorf("simple query failed: %w", err)
	}

	log.InfoContext(ctx, "simple query successful", "step", "running migrations")

	if err := postgresdb.Migrate(ctx, log, pool); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}
	return nil
}

func newMigrateCmd(env Env) *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: `Applies the SQL files embedded from schema/pgmigrations in name order.
Applied files are recorded with a checksum; editing one afterwards is an error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				files, err := postgresdb.MigrationFiles(schema.MigrationsFS, "pgmigrations")
				if err != nil {
					return err
				}
				for _, f := range files {
					fmt.Fprintln(cmd.OutOrStdout(), f)
				}
				return nil
			}

			ctx := cmd.Context()
			pool, err := env.OpenDB(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := Migrate(ctx, env.Log, pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations complete")
			return nil
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "print the embedded migration files without touching the database")
	return cmd
}
