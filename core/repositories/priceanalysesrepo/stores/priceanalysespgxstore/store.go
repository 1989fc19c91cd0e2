package priceanalysespgxstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/kingjawir/marketplace/core/repositories/priceanalysesrepo"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/infrastructure/postgresdb"
	"github.com/kingjawir/marketplace/sdk/cryptids"
	"github.com/kingjawir/marketplace/sdk/logger"
)

const columns = `analysis_id, user_id, query, result_limit, user_price, processing_status, result,
	error_message, retry_count, processing_time_ms, worker_id, checked_out_at, created_at, updated_at`

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

func (s *Store) Create(ctx context.Context, input priceanalysesrepo.CreatePriceAnalysis) (priceanalysesrepo.PriceAnalysis, error) {
	id, err := cryptids.GenerateID()
	if err != nil {
		return priceanalysesrepo.PriceAnalysis{}, fmt.Errorf("generate id: %w", err)
	}

	query := `INSERT INTO price_analyses (analysis_id, user_id, query, result_limit, user_price)
		VALUES (@analysis_id, @user_id, @query, @result_limit, @user_price)
		RETURNING ` + columns

	args := pgx.NamedArgs{
		"analysis_id":  id,
		"user_id":      input.UserID,
		"query":        input.Query,
		"result_limit": input.ResultLimit,
		"user_price":   input.UserPrice,
	}
	return s.one(ctx, query, args, priceanalysesrepo.ErrAnalysisNotFound)
}

func (s *Store) GetByID(ctx context.Context, analysisID string) (priceanalysesrepo.PriceAnalysis, error) {
	query := `SELECT ` + columns + ` FROM price_analyses WHERE analysis_id = @analysis_id`
	return s.one(ctx, query, pgx.NamedArgs{"analysis_id": analysisID}, priceanalysesrepo.ErrAnalysisNotFound)
}

func (s *Store) ListByUser(ctx context.Context, userID string, page fop.Page) ([]priceanalysesrepo.PriceAnalysis, int, error) {
	args := pgx.NamedArgs{"user_id": userID}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM price_analyses WHERE user_id = @user_id`, args).Scan(&total); err != nil {
		return nil, 0, postgresdb.HandlePgError(err)
	}

	buf := bytes.NewBufferString(`SELECT ` + columns + ` FROM price_analyses WHERE user_id = @user_id`)
	if err := postgresdb.AddOrderByClause(buf, "created_at", "analysis_id", postgresdb.DESC); err != nil {
		return nil, 0, err
	}
	postgresdb.AddLimitOffsetClause(buf, args, page.Limit, page.Offset())

	rows, err := s.pool.Query(ctx, buf.String(), args)
	if err != nil {
		return nil, 0, postgresdb.HandlePgError(err)
	}
	analyses, err := pgx.CollectRows(rows, pgx.RowToStructByName[priceanalysesrepo.PriceAnalysis])
	if err != nil {
		return nil, 0, postgresdb.HandlePgError(err)
	}
	return analyses, total, nil
}

// Checkout claims the oldest pending job. SKIP LOCKED lets concurrent workers
// pass over rows another worker is claiming.
func (s *Store) Checkout(ctx context.Context, workerID string) (priceanalysesrepo.PriceAnalysis, error) {
	query := `UPDATE price_analyses SET
			processing_status = 'processing',
			worker_id = @worker_id,
			checked_out_at = NOW(),
			updated_at = NOW()
		WHERE analysis_id = (
			SELECT analysis_id FROM price_analyses
			WHERE processing_status = 'pending'
			ORDER BY created_at
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + columns

	return s.one(ctx, query, pgx.NamedArgs{"worker_id": workerID}, priceanalysesrepo.ErrNoPending)
}

func (s *Store) Complete(ctx context.Context, analysisID string, result json.RawMessage, processingTimeMS int) error {
	query := `UPDATE price_analyses SET
			processing_status = 'completed',
			result = @result,
			error_message = NULL,
			processing_time_ms = @processing_time_ms,
			updated_at = NOW()
		WHERE analysis_id = @analysis_id`

	args := pgx.NamedArgs{
		"analysis_id":        analysisID,
		"result":             []byte(result),
		"processing_time_ms": processingTimeMS,
	}
	return s.exec(ctx, query, args)
}

func (s *Store) Fail(ctx context.Context, analysisID, message string, maxRetries int) error {
	query := `UPDATE price_analyses SET
			retry_count = retry_count + 1,
			processing_status = CASE WHEN retry_count + 1 < @max_retries THEN 'pending' ELSE 'failed' END,
			error_message = @error_message,
			worker_id = NULL,
			checked_out_at = NULL,
			updated_at = NOW()
		WHERE analysis_id = @analysis_id`

	args := pgx.NamedArgs{
		"analysis_id":   analysisID,
		"error_message": message,
		"max_retries":   maxRetries,
	}
	return s.exec(ctx, query, args)
}

func (s *Store) Requeue(ctx context.Context, before time.Time) (int64, error) {
	query := `UPDATE price_analyses SET
			processing_status = 'pending',
			worker_id = NULL,
			checked_out_at = NULL,
			updated_at = NOW()
		WHERE processing_status = 'processing' AND checked_out_at < @before`

	tag, err := s.pool.Exec(ctx, query, pgx.NamedArgs{"before": before})
	if err != nil {
		return 0, postgresdb.HandlePgError(err)
	}
	return tag.RowsAffected(), nil
}

func (s *Store) exec(ctx context.Context, query string, args pgx.NamedArgs) error {
	tag, err := s.pool.Exec(ctx, query, args)
	if err != nil {
		return postgresdb.HandlePgError(err)
	}
	if tag.RowsAffected() == 0 {
		return priceanalysesrepo.ErrAnalysisNotFound
	}
	return nil
}

func (s *Store) one(ctx context.Context, query string, args pgx.NamedArgs, notFound error) (priceanalysesrepo.PriceAnalysis, error) {
	rows, err := s.pool.Query(ctx, query, args)
	if err != nil {
		return priceanalysesrepo.PriceAnalysis{}, postgresdb.HandlePgError(err)
	}
	analysis, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[priceanalysesrepo.PriceAnalysis])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return priceanalysesrepo.PriceAnalysis{}, notFound
		}
		return priceanalysesrepo.PriceAnalysis{}, postgresdb.HandlePgError(err)
	}
	return analysis, nil
}
