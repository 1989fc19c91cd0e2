package usersessionspgxstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kingjawir/marketplace/core/repositories/usersessionsrepo"
	"github.com/kingjawir/marketplace/infrastructure/postgresdb"
	"github.com/kingjawir/marketplace/sdk/cryptids"
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

func (s *Store) Create(ctx context.Context, input usersessionsrepo.CreateUserSession) (usersessionsrepo.UserSession, error) {
	id, err := cryptids.GenerateID()
	if err != nil {
		return usersessionsrepo.UserSession{}, fmt.Errorf("generate id: %w", err)
	}

	query := `INSERT INTO user_sessions (session_id, user_id, token, expires_at)
		VALUES (@session_id, @user_id, @token, @expires_at)
		RETURNING session_id, user_id, token, expires_at, created_at`

	args := pgx.NamedArgs{
		"session_id": id,
		"user_id":    input.UserID,
		"token":      input.Token,
		"expires_at": input.ExpiresAt,
	}

	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return usersessionsrepo.UserSession{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	session, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[usersessionsrepo.UserSession])
	if err != nil {
		return usersessionsrepo.UserSession{}, postgresdb.HandlePgError(err)
	}
	return session, nil
}

func (s *Store) GetByToken(ctx context.Context, token string) (usersessionsrepo.UserSession, error) {
	query := `SELECT session_id, user_id, token, expires_at, created_at
		FROM user_sessions
		WHERE token = @token`

	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{"token": token})
	if err != nil {
		return usersessionsrepo.UserSession{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	session, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[usersessionsrepo.UserSession])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return usersessionsrepo.UserSession{}, usersessionsrepo.ErrSessionNotFound
		}
		return usersessionsrepo.UserSession{}, postgresdb.HandlePgError(err)
	}
	return session, nil
}

func (s *Store) DeleteByToken(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM user_sessions WHERE token = @token`, pgx.NamedArgs{"token": token})
	return postgresdb.HandlePgError(err)
}

func (s *Store) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM user_sessions WHERE user_id = @user_id`, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return 0, postgresdb.HandlePgError(err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM user_sessions WHERE expires_at <= @before`, pgx.NamedArgs{"before": before})
	if err != nil {
		return 0, postgresdb.HandlePgError(err)
	}
	return tag.RowsAffected(), nil
}
