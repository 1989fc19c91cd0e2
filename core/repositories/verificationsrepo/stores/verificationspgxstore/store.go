package verificationspgxstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kingjawir/marketplace/core/repositories/verificationsrepo"
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

func (s *Store) Create(ctx context.Context, input verificationsrepo.CreateVerification) (verificationsrepo.Verification, error) {
	id, err := cryptids.GenerateID()
	if err != nil {
		return verificationsrepo.Verification{}, fmt.Errorf("generate id: %w", err)
	}

	query := `INSERT INTO verification_tokens (token_id, user_id, token, token_type, expires_at)
		VALUES (@token_id, @user_id, @token, @token_type, @expires_at)
		RETURNING token_id, user_id, token, token_type, expires_at, created_at`

	args := pgx.NamedArgs{
		"token_id":   id,
		"user_id":    input.UserID,
		"token":      input.Token,
		"token_type": input.TokenType,
		"expires_at": input.ExpiresAt,
	}

	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return verificationsrepo.Verification{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	v, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[verificationsrepo.Verification])
	if err != nil {
		return verificationsrepo.Verification{}, postgresdb.HandlePgError(err)
	}
	return v, nil
}

func (s *Store) GetByToken(ctx context.Context, token string) (verificationsrepo.Verification, error) {
	query := `SELECT token_id, user_id, token, token_type, expires_at, created_at
		FROM verification_tokens
		WHERE token = @token`

	rows, err := s.pool.Query(ctx, query, pgx.NamedArgs{"token": token})
	if err != nil {
		return verificationsrepo.Verification{}, postgresdb.HandlePgError(err)
	}
	defer rows.Close()

	v, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[verificationsrepo.Verification])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return verificationsrepo.Verification{}, verificationsrepo.ErrTokenNotFound
		}
		return verificationsrepo.Verification{}, postgresdb.HandlePgError(err)
	}
	return v, nil
}

func (s *Store) DeleteByToken(ctx context.Context, token string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM verification_tokens WHERE token = @token`, pgx.NamedArgs{"token": token})
	return postgresdb.HandlePgError(err)
}

func (s *Store) DeleteByUserAndType(ctx context.Context, userID, tokenType string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM verification_tokens WHERE user_id = @user_id AND token_type = @token_type`,
		pgx.NamedArgs{"user_id": userID, "token_type": tokenType})
	return postgresdb.HandlePgError(err)
}
