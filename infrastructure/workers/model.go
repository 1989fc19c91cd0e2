package workers

import "context"

// Task is anything a pool can hand to a worker.
type Task interface {
	GetID() string
}

// Processor owns the task lifecycle. Checkout must be safe for concurrent
// workers and return ErrNoWorkAvailable when the queue is empty.
type Processor[T Task] interface {
	Checkout(ctx context.Context, workerID string) (T, error)
	Process(ctx context.Context, task T) (T, error)
	Complete(ctx context.Context, task T, processingTimeMS int) error
	Fail(ctx context.Context, task T, err error) error
}

// WorkFunc runs one checkout/process/finish cycle for a worker.
type WorkFunc func(ctx context.Context, workerID string) error

// Middleware wraps a WorkFunc.
type Middleware func(WorkFunc) WorkFunc

// PreProcessHook runs after checkout and before Process.
type PreProcessHook[T Task] func(ctx context.Context, task T) error

// PostProcessHook runs after Process and before Complete or Fail.
type PostProcessHook[T Task] func(ctx context.Context, task T, err error) error
