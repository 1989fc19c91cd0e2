// Package priceanalysesrepo stores queued price analyses and hands them out to
// workers. A job moves pending -> processing -> completed, or back to pending
// on failure until its retries run out.
package priceanalysesrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kingjawir/marketplace/core/repositories"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/sdk/logger"
)

var (
	ErrAnalysisNotFound = fmt.Errorf("price analysis %w", repositories.ErrNotFound)
	ErrNoPending        = fmt.Errorf("no pending price analysis: %w", repositories.ErrNotFound)
	ErrEmptyQuery       = fmt.Errorf("%w: query is required", repositories.ErrInvalid)
	ErrInvalidLimit     = fmt.Errorf("%w: limit must be between 1 and %d", repositories.ErrInvalid, MaxLimit)
)

type Storer interface {
	Create(ctx context.Context, input CreatePriceAnalysis) (PriceAnalysis, error)
	GetByID(ctx context.Context, analysisID string) (PriceAnalysis, error)
	ListByUser(ctx context.Context, userID string, page fop.Page) ([]PriceAnalysis, int, error)
	// Checkout claims the oldest pending job for workerID. It returns
	// ErrNoPending when the queue is empty.
	Checkout(ctx context.Context, workerID string) (PriceAnalysis, error)
	Complete(ctx context.Context, analysisID string, result json.RawMessage, processingTimeMS int) error
	// Fail records the error and puts the job back to pending while
	// retry_count stays below maxRetries.
	Fail(ctx context.Context, analysisID, message string, maxRetries int) error
	// Requeue returns processing jobs checked out before the cutoff to pending.
	Requeue(ctx context.Context, before time.Time) (int64, error)
}

type Repository struct {
	log    *logger.Logger
	storer Storer
}

func NewRepository(log *logger.Logger, storer Storer) *Repository {
	return &Repository{
		log:    log,
		storer: storer,
	}
}

// Enqueue validates and stores a new pending analysis.
func (r *Repository) Enqueue(ctx context.Context, input CreatePriceAnalysis) (PriceAnalysis, error) {
	input.Query = strings.TrimSpace(input.Query)
	if input.Query == "" {
		return PriceAnalysis{}, ErrEmptyQuery
	}
	if input.ResultLimit == 0 {
		input.ResultLimit = DefaultLimit
	}
	if input.ResultLimit < 1 || input.ResultLimit > MaxLimit {
		return PriceAnalysis{}, ErrInvalidLimit
	}

	analysis, err := r.storer.Create(ctx, input)
	if err != nil {
		return PriceAnalysis{}, fmt.Errorf("price analysis repository enqueue: %w", err)
	}
	r.log.InfoContext(ctx, "price analysis queued", "analysis_id", analysis.AnalysisID, "query", analysis.Query)
	return analysis, nil
}

// Get returns one of the user's analyses. Jobs of other users are reported
// as missing.
func (r *Repository) Get(ctx context.Context, userID, analysisID string) (PriceAnalysis, error) {
	analysis, err := r.storer.GetByID(ctx, analysisID)
	if err != nil {
		return PriceAnalysis{}, fmt.Errorf("price analysis repository get: %w", err)
	}
	if analysis.UserID != userID {
		return PriceAnalysis{}, ErrAnalysisNotFound
	}
	return analysis, nil
}

func (r *Repository) List(ctx context.Context, userID string, page fop.Page) ([]PriceAnalysis, int, error) {
	analyses, total, err := r.storer.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, 0, fmt.Errorf("price analysis repository list: %w", err)
	}
	return analyses, total, nil
}

func (r *Repository) Checkout(ctx context.Context, workerID string) (PriceAnalysis, error) {
	analysis, err := r.storer.Checkout(ctx, workerID)
	if err != nil {
		return PriceAnalysis{}, fmt.Errorf("price analysis repository checkout: %w", err)
	}
	return analysis, nil
}

func (r *Repository) Complete(ctx context.Context, analysisID string, result json.RawMessage, processingTimeMS int) error {
	if err := r.storer.Complete(ctx, analysisID, result, processingTimeMS); err != nil {
		return fmt.Errorf("price analysis repository complete: %w", err)
	}
	return nil
}

func (r *Repository) Fail(ctx context.Context, analysisID string, cause error, maxRetries int) error {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	if err := r.storer.Fail(ctx, analysisID, msg, maxRetries); err != nil {
		return fmt.Errorf("price analysis repository fail: %w", err)
	}
	return nil
}

// RequeueStale releases jobs whose worker has held them longer than timeout.
func (r *Repository) RequeueStale(ctx context.Context, timeout time.Duration) (int64, error) {
	n, err := r.storer.Requeue(ctx, time.Now().Add(-timeout))
	if err != nil {
		return 0, fmt.Errorf("price analysis repository requeue: %w", err)
	}
	if n > 0 {
		r.log.WarnContext(ctx, "requeued stale price analyses", "count", n)
	}
	return n, nil
}
