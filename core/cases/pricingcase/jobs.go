package pricingcase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kingjawir/marketplace/core/repositories/priceanalysesrepo"
	"github.com/kingjawir/marketplace/infrastructure/workers"
	"github.com/kingjawir/marketplace/sdk/logger"
)

// JobQueue is the part of the price analysis repository the worker uses.
type JobQueue interface {
	Checkout(ctx context.Context, workerID string) (priceanalysesrepo.PriceAnalysis, error)
	Complete(ctx context.Context, analysisID string, result json.RawMessage, processingTimeMS int) error
	Fail(ctx context.Context, analysisID string, cause error, maxRetries int) error
}

// JobProcessor runs queued analyses inside a worker pool.
type JobProcessor struct {
	log        *logger.Logger
	cases      *Case
	queue      JobQueue
	maxRetries int
}

var _ workers.Processor[priceanalysesrepo.PriceAnalysis] = (*JobProcessor)(nil)

// NewJobProcessor builds a processor. maxRetries is how many times a failed
// job goes back to the queue before it is marked failed.
func NewJobProcessor(log *logger.Logger, cases *Case, queue JobQueue, maxRetries int) *JobProcessor {
	return &JobProcessor{log: log, cases: cases, queue: queue, maxRetries: maxRetries}
}

func (p *JobProcessor) Checkout(ctx context.Context, workerID string) (priceanalysesrepo.PriceAnalysis, error) {
	job, err := p.queue.Checkout(ctx, workerID)
	if err != nil {
		if errors.Is(err, priceanalysesrepo.ErrNoPending) {
			return priceanalysesrepo.PriceAnalysis{}, workers.ErrNoWorkAvailable
		}
		return priceanalysesrepo.PriceAnalysis{}, err
	}
	return job, nil
}

func (p *JobProcessor) Process(ctx context.Context, job priceanalysesrepo.PriceAnalysis) (priceanalysesrepo.PriceAnalysis, error) {
	result, err := p.cases.Analyze(ctx, Request{
		Query:     job.Query,
		Limit:     job.ResultLimit,
		UserPrice: job.UserPrice,
	}, nil)
	if err != nil {
		return job, err
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return job, fmt.Errorf("encode analysis: %w", err)
	}
	job.Result = raw
	return job, nil
}

func (p *JobProcessor) Complete(ctx context.Context, job priceanalysesrepo.PriceAnalysis, processingTimeMS int) error {
	return p.queue.Complete(ctx, job.AnalysisID, job.Result, processingTimeMS)
}

// Fail requeues the job unless the error can never succeed on retry.
func (p *JobProcessor) Fail(ctx context.Context, job priceanalysesrepo.PriceAnalysis, cause error) error {
	retries := p.maxRetries
	if permanent(cause) {
		retries = 0
	}
	p.log.WarnContext(ctx, "price analysis job failed",
		"analysis_id", job.AnalysisID, "retry_count", job.RetryCount, "error", cause)
	return p.queue.Fail(ctx, job.AnalysisID, cause, retries)
}

func permanent(err error) bool {
	return errors.Is(err, ErrEmptyQuery) || errors.Is(err, ErrInvalidLimit) || errors.Is(err, ErrNoProducts)
}
