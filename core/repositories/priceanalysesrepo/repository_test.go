package priceanalysesrepo_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/kingjawir/marketplace/core/repositories"
	"github.com/kingjawir/marketplace/core/repositories/priceanalysesrepo"
	"github.com/kingjawir/marketplace/core/scaffolding/fop"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queue is an in-memory Storer that mirrors the status rules of the pgx store.
type queue struct {
	jobs  []*priceanalysesrepo.PriceAnalysis
	seq   int
	clock time.Time
}

func (q *queue) Create(ctx context.Context, in priceanalysesrepo.CreatePriceAnalysis) (priceanalysesrepo.PriceAnalysis, error) {
	q.seq++
	job := &priceanalysesrepo.PriceAnalysis{
		AnalysisID:       string(rune('a' + q.seq - 1)),
		UserID:           in.UserID,
		Query:            in.Query,
		ResultLimit:      in.ResultLimit,
		UserPrice:        in.UserPrice,
		ProcessingStatus: priceanalysesrepo.StatusPending,
	}
	q.jobs = append(q.jobs, job)
	return *job, nil
}

func (q *queue) find(id string) *priceanalysesrepo.PriceAnalysis {
	for _, j := range q.jobs {
		if j.AnalysisID == id {
			return j
		}
	}
	return nil
}

func (q *queue) GetByID(ctx context.Context, id string) (priceanalysesrepo.PriceAnalysis, error) {
	if j := q.find(id); j != nil {
		return *j, nil
	}
	return priceanalysesrepo.PriceAnalysis{}, priceanalysesrepo.ErrAnalysisNotFound
}

func (q *queue) ListByUser(ctx context.Context, userID string, p fop.Page) ([]priceanalysesrepo.PriceAnalysis, int, error) {
	var out []priceanalysesrepo.PriceAnalysis
	for _, j := range q.jobs {
		if j.UserID == userID {
			out = append(out, *j)
		}
	}
	return out, len(out), nil
}

func (q *queue) Checkout(ctx context.Context, workerID string) (priceanalysesrepo.PriceAnalysis, error) {
	for _, j := range q.jobs {
		if j.ProcessingStatus == priceanalysesrepo.StatusPending {
			j.ProcessingStatus = priceanalysesrepo.StatusProcessing
			j.WorkerID = &workerID
			at := q.clock
			j.CheckedOutAt = &at
			return *j, nil
		}
	}
	return priceanalysesrepo.PriceAnalysis{}, priceanalysesrepo.ErrNoPending
}

func (q *queue) Complete(ctx context.Context, id string, result json.RawMessage, ms int) error {
	j := q.find(id)
	if j == nil {
		return priceanalysesrepo.ErrAnalysisNotFound
	}
	j.ProcessingStatus = priceanalysesrepo.StatusCompleted
	j.Result = result
	j.ProcessingTimeMS = &ms
	return nil
}

func (q *queue) Fail(ctx context.Context, id, msg string, maxRetries int) error {
	j := q.find(id)
	if j == nil {
		return priceanalysesrepo.ErrAnalysisNotFound
	}
	j.RetryCount++
	j.ErrorMessage = &msg
	j.WorkerID, j.CheckedOutAt = nil, nil
	if j.RetryCount < maxRetries {
		j.ProcessingStatus = priceanalysesrepo.StatusPending
	} else {
		j.ProcessingStatus = priceanalysesrepo.StatusFailed
	}
	return nil
}

func (q *queue) Requeue(ctx context.Context, before time.Time) (int64, error) {
	var n int64
	for _, j := range q.jobs {
		if j.ProcessingStatus == priceanalysesrepo.StatusProcessing && j.CheckedOutAt.Before(before) {
			j.ProcessingStatus = priceanalysesrepo.StatusPending
			j.WorkerID, j.CheckedOutAt = nil, nil
			n++
		}
	}
	return n, nil
}

func TestEnqueueValidation(t *testing.T) {
	repo := priceanalysesrepo.NewRepository(logger.NewDiscard(), &queue{})
	ctx := context.Background()

	_, err := repo.Enqueue(ctx, priceanalysesrepo.CreatePriceAnalysis{UserID: "u1", Query: "   "})
	assert.ErrorIs(t, err, priceanalysesrepo.ErrEmptyQuery)
	assert.ErrorIs(t, err, repositories.ErrInvalid)

	_, err = repo.Enqueue(ctx, priceanalysesrepo.CreatePriceAnalysis{UserID: "u1", Query: "iphone", ResultLimit: 51})
	assert.ErrorIs(t, err, priceanalysesrepo.ErrInvalidLimit)

	job, err := repo.Enqueue(ctx, priceanalysesrepo.CreatePriceAnalysis{UserID: "u1", Query: " iphone 15 "})
	require.NoError(t, err)
	assert.Equal(t, "iphone 15", job.Query)
	assert.Equal(t, priceanalysesrepo.DefaultLimit, job.ResultLimit)
	assert.Equal(t, priceanalysesrepo.StatusPending, job.ProcessingStatus)
}

func TestGetHidesOtherUsersJobs(t *testing.T) {
	repo := priceanalysesrepo.NewRepository(logger.NewDiscard(), &queue{})
	ctx := context.Background()

	job, err := repo.Enqueue(ctx, priceanalysesrepo.CreatePriceAnalysis{UserID: "u1", Query: "kopi"})
	require.NoError(t, err)

	_, err = repo.Get(ctx, "u2", job.AnalysisID)
	assert.ErrorIs(t, err, priceanalysesrepo.ErrAnalysisNotFound)

	got, err := repo.Get(ctx, "u1", job.AnalysisID)
	require.NoError(t, err)
	assert.Equal(t, job.AnalysisID, got.AnalysisID)
}

func TestFailRetriesUntilExhausted(t *testing.T) {
	store := &queue{}
	repo := priceanalysesrepo.NewRepository(logger.NewDiscard(), store)
	ctx := context.Background()

	job, err := repo.Enqueue(ctx, priceanalysesrepo.CreatePriceAnalysis{UserID: "u1", Query: "sepatu"})
	require.NoError(t, err)

	for attempt := 1; attempt <= 3; attempt++ {
		claimed, err := repo.Checkout(ctx, "w1")
		require.NoError(t, err, "attempt %d", attempt)
		require.Equal(t, job.AnalysisID, claimed.AnalysisID)
		require.NoError(t, repo.Fail(ctx, claimed.AnalysisID, errors.New("scraper down"), 3))
	}

	got, err := repo.Get(ctx, "u1", job.AnalysisID)
	require.NoError(t, err)
	assert.Equal(t, priceanalysesrepo.StatusFailed, got.ProcessingStatus)
	assert.Equal(t, 3, got.RetryCount)
	assert.True(t, got.Done())

	_, err = repo.Checkout(ctx, "w1")
	assert.ErrorIs(t, err, priceanalysesrepo.ErrNoPending)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestCompleteStoresResult(t *testing.T) {
	store := &queue{}
	repo := priceanalysesrepo.NewRepository(logger.NewDiscard(), store)
	ctx := context.Background()

	job, err := repo.Enqueue(ctx, priceanalysesrepo.CreatePriceAnalysis{UserID: "u1", Query: "tas"})
	require.NoError(t, err)
	_, err = repo.Checkout(ctx, "w1")
	require.NoError(t, err)

	require.NoError(t, repo.Complete(ctx, job.AnalysisID, json.RawMessage(`{"query":"tas"}`), 120))

	got, err := repo.Get(ctx, "u1", job.AnalysisID)
	require.NoError(t, err)
	assert.Equal(t, priceanalysesrepo.StatusCompleted, got.ProcessingStatus)
	assert.JSONEq(t, `{"query":"tas"}`, string(got.Result))
	require.NotNil(t, got.ProcessingTimeMS)
	assert.Equal(t, 120, *got.ProcessingTimeMS)
}

func TestRequeueStale(t *testing.T) {
	store := &queue{clock: time.Now().Add(-time.Hour)}
	repo := priceanalysesrepo.NewRepository(logger.NewDiscard(), store)
	ctx := context.Background()

	_, err := repo.Enqueue(ctx, priceanalysesrepo.CreatePriceAnalysis{UserID: "u1", Query: "laptop"})
	require.NoError(t, err)
	_, err = repo.Checkout(ctx, "w1")
	require.NoError(t, err)

	n, err := repo.RequeueStale(ctx, 10*time.Minute)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	again, err := repo.Checkout(ctx, "w2")
	require.NoError(t, err)
	assert.Equal(t, "w2", *again.WorkerID)
}
