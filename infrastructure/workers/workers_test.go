package workers_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kingjawir/marketplace/infrastructure/workers"
	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type job struct {
	ID    string
	fails int
	panic bool
}

func (j job) GetID() string { return j.ID }

// fakeQueue hands out queued jobs and records how each one ended.
type fakeQueue struct {
	mu        sync.Mutex
	queue     []job
	attempts  map[string]int
	completed []string
	failed    []string
	drained   chan struct{}
	want      int
}

func newFakeQueue(jobs ...job) *fakeQueue {
	return &fakeQueue{
		queue:    jobs,
		attempts: map[string]int{},
		drained:  make(chan struct{}),
		want:     len(jobs),
	}
}

func (q *fakeQueue) Checkout(ctx context.Context, workerID string) (job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.queue) == 0 {
		return job{}, workers.ErrNoWorkAvailable
	}
	j := q.queue[0]
	q.queue = q.queue[1:]
	return j, nil
}

func (q *fakeQueue) Process(ctx context.Context, j job) (job, error) {
	q.mu.Lock()
	q.attempts[j.ID]++
	n := q.attempts[j.ID]
	q.mu.Unlock()

	if j.panic {
		panic("boom")
	}
	if n <= j.fails {
		return j, errors.New("transient")
	}
	return j, nil
}

func (q *fakeQueue) finish(record *[]string, id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	*record = append(*record, id)
	if len(q.completed)+len(q.failed) == q.want {
		close(q.drained)
	}
}

func (q *fakeQueue) Complete(ctx context.Context, j job, ms int) error {
	q.finish(&q.completed, j.ID)
	return nil
}

func (q *fakeQueue) Fail(ctx context.Context, j job, err error) error {
	q.finish(&q.failed, j.ID)
	return nil
}

func runUntilDrained(t *testing.T, pool *workers.WorkerPool[job], q *fakeQueue) {
	t.Helper()

	errc := make(chan error, 1)
	go func() { errc <- pool.Start(context.Background()) }()

	select {
	case <-q.drained:
	case <-time.After(5 * time.Second):
		t.Fatal("queue not drained")
	}
	pool.Stop()
	require.NoError(t, <-errc)
}

func TestPoolProcessesEveryJob(t *testing.T) {
	q := newFakeQueue(job{ID: "a"}, job{ID: "b"}, job{ID: "c"}, job{ID: "d"})
	metrics := workers.NewInMemoryMetrics()
	pool := workers.NewWorkerPool("test", 3, q,
		workers.WithLogger(logger.NewDiscard()),
		workers.WithPollInterval(time.Millisecond),
		workers.WithIdleInterval(5*time.Millisecond),
		workers.WithMetrics(metrics),
	)

	runUntilDrained(t, pool, q)

	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, q.completed)
	assert.Empty(t, q.failed)

	snap := pool.Metrics()
	assert.EqualValues(t, 4, snap.TasksCompleted)
	assert.EqualValues(t, 0, snap.TasksInProgress)
}

func TestPoolRetriesBeforeFailing(t *testing.T) {
	q := newFakeQueue(job{ID: "flaky", fails: 1}, job{ID: "broken", fails: 10})
	pool := workers.NewWorkerPool("retry", 1, q,
		workers.WithLogger(logger.NewDiscard()),
		workers.WithPollInterval(time.Millisecond),
		workers.WithMaxRetries(2),
		workers.WithRetryDelay(time.Millisecond),
	)

	runUntilDrained(t, pool, q)

	assert.Equal(t, []string{"flaky"}, q.completed)
	assert.Equal(t, []string{"broken"}, q.failed)
	assert.Equal(t, 2, q.attempts["broken"])
}

func TestPoolFailsPanickingTask(t *testing.T) {
	q := newFakeQueue(job{ID: "p", panic: true}, job{ID: "ok"})
	pool := workers.NewWorkerPool("panic", 1, q,
		workers.WithLogger(logger.NewDiscard()),
		workers.WithPollInterval(time.Millisecond),
	)

	runUntilDrained(t, pool, q)

	assert.Equal(t, []string{"p"}, q.failed)
	assert.Equal(t, []string{"ok"}, q.completed)
}

func TestHooksSeeEveryTask(t *testing.T) {
	q := newFakeQueue(job{ID: "x"}, job{ID: "y", fails: 5})
	pool := workers.NewWorkerPool("hooks", 1, q,
		workers.WithLogger(logger.NewDiscard()),
		workers.WithPollInterval(time.Millisecond),
		workers.WithMaxRetries(1),
	)

	var started, ended, endedErr atomic.Int32
	pool.AddPreProcessHooks(func(ctx context.Context, j job) error {
		started.Add(1)
		return nil
	})
	pool.AddPostProcessHooks(func(ctx context.Context, j job, err error) error {
		ended.Add(1)
		if err != nil {
			endedErr.Add(1)
		}
		return nil
	})

	runUntilDrained(t, pool, q)

	assert.EqualValues(t, 2, started.Load())
	assert.EqualValues(t, 2, ended.Load())
	assert.EqualValues(t, 1, endedErr.Load())
}

func TestConsecutiveErrorShutdown(t *testing.T) {
	var calls atomic.Int32
	failing := workers.ConsecutiveErrorShutdown(2)(func(ctx context.Context, workerID string) error {
		calls.Add(1)
		return errors.New("db down")
	})

	ctx := context.Background()
	for range 2 {
		err := failing(ctx, "w1")
		require.Error(t, err)
		require.NotErrorIs(t, err, workers.ErrWorkerShutdown)
	}
	assert.ErrorIs(t, failing(ctx, "w1"), workers.ErrWorkerShutdown)

	// counts are per worker
	assert.NotErrorIs(t, failing(ctx, "w2"), workers.ErrWorkerShutdown)
}

func TestPoolShutdownErrorStopsPool(t *testing.T) {
	q := newFakeQueue()
	pool := workers.NewWorkerPool("fatal", 2, q,
		workers.WithLogger(logger.NewDiscard()),
		workers.WithPollInterval(time.Millisecond),
		workers.WithMiddleware(func(next workers.WorkFunc) workers.WorkFunc {
			return func(ctx context.Context, workerID string) error {
				return workers.ErrPoolShutdown
			}
		}),
	)

	err := pool.Start(context.Background())
	assert.ErrorIs(t, err, workers.ErrPoolShutdown)
}

func TestStartReturnsOnContextCancel(t *testing.T) {
	q := newFakeQueue()
	metrics := workers.NewLoggerMetrics(logger.NewDiscard(), time.Millisecond)
	pool := workers.NewWorkerPool("idle", 2, q,
		workers.WithLogger(logger.NewDiscard()),
		workers.WithIdleInterval(time.Millisecond),
		workers.WithMetrics(metrics),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	require.NoError(t, pool.Start(ctx))
	assert.Positive(t, pool.Metrics().CheckoutErrors)
}
