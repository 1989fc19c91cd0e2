// Package workers runs a fixed set of goroutines that poll a Processor for
// tasks. Workers poll quickly while there is work and back off to the idle
// interval once the queue is empty.
package workers

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/kingjawir/marketplace/sdk/environment"
	"github.com/kingjawir/marketplace/sdk/logger"
)

var (
	ErrWorkerShutdown  = errors.New("worker should shutdown")
	ErrPoolShutdown    = errors.New("pool should shutdown")
	ErrNoWorkAvailable = errors.New("no work available")
)

// Options is the env-configurable part of a pool.
type Options struct {
	Name         string        `env:"WORKER_NAME" default:"worker"`
	WorkerCount  int           `env:"WORKER_COUNT" default:"2"`
	PollInterval time.Duration `env:"WORKER_POLL_INTERVAL" default:"1s"`
	IdleInterval time.Duration `env:"WORKER_IDLE_INTERVAL" default:"10s"`
	MaxRetries   int           `env:"WORKER_MAX_RETRIES" default:"3"`
}

type options struct {
	Options
	middlewares []Middleware
	metrics     Metrics
	log         *logger.Logger
	retryDelay  time.Duration
}

type Option func(*options)

func WithName(name string) Option {
	return func(o *options) { o.Name = name }
}

func WithWorkerCount(count int) Option {
	return func(o *options) { o.WorkerCount = count }
}

func WithPollInterval(interval time.Duration) Option {
	return func(o *options) { o.PollInterval = interval }
}

func WithIdleInterval(interval time.Duration) Option {
	return func(o *options) { o.IdleInterval = interval }
}

// WithMaxRetries sets how many times Process is attempted per checkout.
func WithMaxRetries(n int) Option {
	return func(o *options) { o.MaxRetries = n }
}

// WithRetryDelay sets the first backoff delay; it doubles per attempt.
func WithRetryDelay(d time.Duration) Option {
	return func(o *options) { o.retryDelay = d }
}

func WithLogger(log *logger.Logger) Option {
	return func(o *options) { o.log = log }
}

func WithMiddleware(middlewares ...Middleware) Option {
	return func(o *options) { o.middlewares = append(o.middlewares, middlewares...) }
}

func WithMetrics(m Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WorkerPool runs Processor[T] cycles on WorkerCount goroutines.
type WorkerPool[T Task] struct {
	processor    Processor[T]
	name         string
	workerCount  int
	pollInterval time.Duration
	idleInterval time.Duration
	maxRetries   int
	retryDelay   time.Duration
	log          *logger.Logger

	workFunc         WorkFunc
	middlewares      []Middleware
	preProcessHooks  []PreProcessHook[T]
	postProcessHooks []PostProcessHook[T]
	metrics          Metrics

	mu      sync.Mutex
	cancel  context.CancelFunc
	running bool
	workers sync.WaitGroup
	errors  chan error
}

// NewFromEnv reads <PREFIX>_WORKER_* and builds a pool.
func NewFromEnv[T Task](prefix string, processor Processor[T], opts ...Option) (*WorkerPool[T], error) {
	var cfg Options
	if err := environment.ParseEnvTags(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing worker config: %w", err)
	}
	return newWorkerPool(processor, cfg, opts...), nil
}

func NewWorkerPool[T Task](name string, workerCount int, processor Processor[T], opts ...Option) *WorkerPool[T] {
	cfg := Options{
		Name:         name,
		WorkerCount:  workerCount,
		PollInterval: time.Second,
		IdleInterval: 10 * time.Second,
		MaxRetries:   3,
	}
	return newWorkerPool(processor, cfg, opts...)
}

func newWorkerPool[T Task](processor Processor[T], cfg Options, opts ...Option) *WorkerPool[T] {
	o := &options{
		Options:    cfg,
		metrics:    noopMetrics{},
		retryDelay: time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.log == nil {
		o.log = logger.NewDefault()
	}
	if o.WorkerCount <= 0 {
		o.WorkerCount = 1
	}
	if o.PollInterval <= 0 {
		o.PollInterval = time.Second
	}
	if o.IdleInterval <= 0 {
		o.IdleInterval = 10 * time.Second
	}

	wp := &WorkerPool[T]{
		processor:    processor,
		name:         o.Name,
		workerCount:  o.WorkerCount,
		pollInterval: o.PollInterval,
		idleInterval: o.IdleInterval,
		maxRetries:   o.MaxRetries,
		retryDelay:   o.retryDelay,
		log:          o.log,
		middlewares:  o.middlewares,
		metrics:      o.metrics,
	}
	wp.buildMiddlewareChain()
	return wp
}

// Start launches the workers and blocks until ctx is cancelled, Stop is
// called, or every worker has exited. It returns the first ErrPoolShutdown a
// worker reported.
func (wp *WorkerPool[T]) Start(ctx context.Context) error {
	wp.mu.Lock()
	if wp.running {
		wp.mu.Unlock()
		return errors.New("worker pool already running")
	}
	ctx, wp.cancel = context.WithCancel(ctx)
	wp.errors = make(chan error, wp.workerCount)
	wp.running = true
	wp.mu.Unlock()

	started := time.Now()
	wp.log.InfoContext(ctx, "starting worker pool", "name", wp.name, "worker_count", wp.workerCount, "poll_interval", wp.pollInterval)
	wp.metrics.Start(ctx, wp.name)

	for i := range wp.workerCount {
		wp.workers.Add(1)
		go wp.worker(ctx, fmt.Sprintf("%s-worker-%d", wp.name, i+1))
	}

	// A worker asking for pool shutdown takes the rest down with it.
	var poolErr error
	done := make(chan struct{})
	go func() {
		wp.workers.Wait()
		close(done)
	}()
	select {
	case poolErr = <-wp.errors:
		wp.cancel()
		<-done
	case <-done:
	}

	wp.metrics.Stop(context.WithoutCancel(ctx))
	wp.log.InfoContext(ctx, "worker pool stopped", "name", wp.name, "total_runtime", time.Since(started))

	wp.mu.Lock()
	wp.running = false
	wp.cancel()
	wp.mu.Unlock()
	return poolErr
}

// Stop cancels the workers. Start returns once they have drained.
func (wp *WorkerPool[T]) Stop() {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if !wp.running {
		return
	}
	wp.log.Info("stopping worker pool", "name", wp.name)
	wp.cancel()
}

func (wp *WorkerPool[T]) Metrics() MetricsSnapshot {
	return wp.metrics.Snapshot()
}

func (wp *WorkerPool[T]) worker(ctx context.Context, workerID string) {
	defer wp.workers.Done()
	defer wp.metrics.RecordWorkerStopped()
	wp.metrics.RecordWorkerStarted()

	wp.log.DebugContext(ctx, "worker started", "worker_id", workerID)
	defer wp.log.DebugContext(context.WithoutCancel(ctx), "worker stopped", "worker_id", workerID)

	current := time.Millisecond
	ticker := time.NewTicker(current)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		err := wp.workWithPanicRecovery(ctx, workerID)

		next := wp.pollInterval
		switch {
		case err == nil:
		case errors.Is(err, ErrWorkerShutdown):
			wp.log.InfoContext(ctx, "worker shutting down as requested", "worker_id", workerID)
			return
		case errors.Is(err, ErrPoolShutdown):
			wp.log.ErrorContext(ctx, "worker requesting pool shutdown", "worker_id", workerID, "error", err)
			select {
			case wp.errors <- fmt.Errorf("worker %s: %w", workerID, err):
			default:
			}
			return
		case errors.Is(err, ErrNoWorkAvailable):
			next = wp.idleInterval
		case ctx.Err() != nil:
			return
		default:
			wp.log.ErrorContext(ctx, "task processing error", "worker_id", workerID, "error", err)
		}

		if next != current {
			current = next
			ticker.Reset(next)
		}
	}
}

func (wp *WorkerPool[T]) workWithPanicRecovery(ctx context.Context, workerID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			wp.log.ErrorContext(ctx, "panic recovered in worker", "worker_id", workerID, "panic", r, "stack_trace", string(debug.Stack()))
			wp.metrics.RecordWorkerPanic()
			err = fmt.Errorf("panic recovered: %v", r)
		}
	}()
	return wp.workFunc(ctx, workerID)
}

// work runs Checkout -> hooks -> Process -> hooks -> Complete/Fail. A panic
// inside Process fails the task instead of the worker.
func (wp *WorkerPool[T]) work(ctx context.Context, workerID string) error {
	task, err := wp.processor.Checkout(ctx, workerID)
	if err != nil {
		wp.metrics.RecordCheckoutError()
		if errors.Is(err, ErrNoWorkAvailable) {
			return err
		}
		return fmt.Errorf("checkout failed: %w", err)
	}
	wp.metrics.RecordTaskCheckedOut()

	var (
		processed  T
		processErr error
		started    = time.Now()
	)

	// Finishing must survive cancellation so a checked out task is never left
	// in limbo.
	finishCtx := context.WithoutCancel(ctx)

	defer func() {
		if r := recover(); r != nil {
			wp.log.ErrorContext(ctx, "panic recovered in task", "worker_id", workerID, "task_id", task.GetID(), "panic", r, "stack_trace", string(debug.Stack()))
			wp.metrics.RecordWorkerPanic()
			processErr = fmt.Errorf("panic: %v", r)
		}
		duration := time.Since(started)

		hookTask := processed
		if processErr != nil {
			hookTask = task
		}
		for _, hook := range wp.postProcessHooks {
			if err := hook(finishCtx, hookTask, processErr); err != nil {
				wp.log.ErrorContext(ctx, "post-process hook failed", "task_id", task.GetID(), "error", err)
			}
		}

		if processErr != nil {
			wp.metrics.RecordTaskFailed(duration)
			if err := wp.processor.Fail(finishCtx, task, processErr); err != nil {
				wp.log.ErrorContext(ctx, "failed to mark task as failed", "task_id", task.GetID(), "error", err)
			}
			return
		}
		wp.metrics.RecordTaskCompleted(duration)
		if err := wp.processor.Complete(finishCtx, processed, int(duration.Milliseconds())); err != nil {
			wp.log.ErrorContext(ctx, "failed to mark task as complete", "task_id", task.GetID(), "error", err)
		}
	}()

	for _, hook := range wp.preProcessHooks {
		if err := hook(ctx, task); err != nil {
			wp.log.ErrorContext(ctx, "pre-process hook failed", "task_id", task.GetID(), "error", err)
		}
	}

	processed, processErr = wp.processWithRetry(ctx, task)
	if processErr != nil {
		return fmt.Errorf("task %s: %w", task.GetID(), processErr)
	}
	return nil
}

func (wp *WorkerPool[T]) processWithRetry(ctx context.Context, task T) (T, error) {
	attempts := max(wp.maxRetries, 1)

	var (
		processed T
		lastErr   error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			wp.metrics.RecordRetryAttempt()
			delay := wp.retryDelay * time.Duration(1<<(attempt-2))
			select {
			case <-ctx.Done():
				return processed, ctx.Err()
			case <-time.After(delay):
			}
		}

		processed, lastErr = wp.processor.Process(ctx, task)
		if lastErr == nil {
			if attempt > 1 {
				wp.metrics.RecordRetrySuccess()
			}
			return processed, nil
		}
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}
		wp.log.WarnContext(ctx, "task attempt failed", "task_id", task.GetID(), "attempt", attempt, "error", lastErr)
	}

	if attempts > 1 {
		wp.metrics.RecordRetryExhausted()
	}
	return processed, fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
