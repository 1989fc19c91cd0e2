package schemamigrationspgxstore

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/kingjawir/marketplace/core/repositories/schemamigrationsrepo"
	"github.com/kingjawir/marketplace/infrastructure/postgresdb"
	"github.com/kingjawir/marketplace/sdk/logger"
)

type Store struct {
	log  *logger.Logger
	pool *postgresdb.Pool
}

func NewStore(log *logger.Logger, pool *postgresdb.Pool) *Store {
	return &Store{
		log:  log,
		pool: pool,
	}
}

func (s *Store) List(ctx context.Context) ([]schemamigrationsrepo.SchemaMigration, error) {
	rows, err := s.pool.Query(ctx, `SELECT version, checksum, applied_at FROM schema_migrations ORDER BY version`)
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	migrations, err := pgx.CollectRows(rows, pgx.RowToStructByName[schemamigrationsrepo.SchemaMigration])
	if err != nil {
		return nil, postgresdb.HandlePgError(err)
	}
	return migrations, nil
}
