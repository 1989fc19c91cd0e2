package postgresdb

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kingjawir/marketplace/schema"
	"github.com/kingjawir/marketplace/sdk/logger"
)

// ErrChecksumMismatch is returned when an applied migration file has been
// edited afterwards.
var ErrChecksumMismatch = errors.New("migration checksum mismatch")

// AppliedMigration is a row of the schema_migrations table.
type AppliedMigration struct {
	Version   string    `db:"version"`
	Checksum  string    `db:"checksum"`
	AppliedAt time.Time `db:"applied_at"`
}

// Migrate runs all pending migrations from schema/pgmigrations/*.sql files.
// Migrations are applied in alphabetical order (use numeric prefixes: 001_xxx.sql, 002_xxx.sql).
// Already-applied migrations are tracked in the schema_migrations table.
// This is a forward-only migration system - no rollbacks.
func Migrate(ctx context.Context, log *logger.Logger, pool *Pool) error {
	if err := StatusCheck(ctx, pool); err != nil {
		return fmt.Errorf("status check database: %w", err)
	}

	log.InfoContext(ctx, "running database migrations")

	applied, err := RunMigrations(ctx, log, pool, schema.MigrationsFS, "pgmigrations")
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	log.InfoContext(ctx, "migrations complete", "applied", applied)
	return nil
}

// RunMigrations applies every .sql file in dir of fsys that is not recorded
// yet and returns the number of files applied.
func RunMigrations(ctx context.Context, log *logger.Logger, pool *Pool, fsys fs.FS, dir string) (int, error) {
	if err := createMigrationsTable(ctx, pool); err != nil {
		return 0, fmt.Errorf("create migrations table: %w", err)
	}

	files, err := MigrationFiles(fsys, dir)
	if err != nil {
		return 0, fmt.Errorf("get migration files: %w", err)
	}

	applied := 0
	for _, file := range files {
		ok, err := applyMigration(ctx, log, pool, fsys, path.Join(dir, file))
		if err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", file, err)
		}
		if ok {
			applied++
		}
	}

	return applied, nil
}

func createMigrationsTable(ctx context.Context, pool *Pool) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version VARCHAR(255) PRIMARY KEY,
			checksum VARCHAR(64) NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	_, err := pool.Exec(ctx, query)
	return err
}

// MigrationFiles returns the sorted list of .sql file names in dir.
func MigrationFiles(fsys fs.FS, dir string) ([]string, error) {
	var files []string

	err := fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".sql") {
			files = append(files, path.Base(p))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Checksum is the hex sha256 of a migration file's contents.
func Checksum(content []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(content))
}

// applyMigration applies a single migration if it hasn't been applied yet and
// reports whether it ran.
func applyMigration(ctx context.Context, log *logger.Logger, pool *Pool, fsys fs.FS, filePath string) (bool, error) {
	version := path.Base(filePath)

	content, err := fs.ReadFile(fsys, filePath)
	if err != nil {
		return false, fmt.Errorf("read migration file: %w", err)
	}

	checksum := Checksum(content)

	var existing string
	err = pool.QueryRow(ctx, "SELECT checksum FROM schema_migrations WHERE version = $1", version).Scan(&existing)
	switch {
	case err == nil:
		if existing != checksum {
			return false, fmt.Errorf("%w: %s (expected %s, got %s)", ErrChecksumMismatch, version, existing, checksum)
		}
		log.DebugContext(ctx, "migration already applied", "version", version)
		return false, nil
	case !errors.Is(err, pgx.ErrNoRows):
		return false, fmt.Errorf("lookup migration: %w", err)
	}

	err = WithTx(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(content)); err != nil {
			return fmt.Errorf("execute migration: %w", err)
		}
		if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version, checksum) VALUES ($1, $2)", version, checksum); err != nil {
			return fmt.Errorf("record migration: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	log.InfoContext(ctx, "migration applied", "version", version, "checksum", checksum[:8])
	return true, nil
}
