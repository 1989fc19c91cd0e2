package workers

import (
	"context"

	"github.com/kingjawir/marketplace/sdk/logger"
)

// AddPreProcessHooks registers hooks run between Checkout and Process.
func (wp *WorkerPool[T]) AddPreProcessHooks(hooks ...PreProcessHook[T]) {
	wp.preProcessHooks = append(wp.preProcessHooks, hooks...)
}

// AddPostProcessHooks registers hooks run between Process and Complete/Fail.
func (wp *WorkerPool[T]) AddPostProcessHooks(hooks ...PostProcessHook[T]) {
	wp.postProcessHooks = append(wp.postProcessHooks, hooks...)
}

// LogStartHook logs every task a worker picks up.
func LogStartHook[T Task](log *logger.Logger) PreProcessHook[T] {
	return func(ctx context.Context, task T) error {
		log.DebugContext(ctx, "task started", "task_id", task.GetID())
		return nil
	}
}

// LogEndHook logs the outcome of every task.
func LogEndHook[T Task](log *logger.Logger) PostProcessHook[T] {
	return func(ctx context.Context, task T, err error) error {
		if err != nil {
			log.WarnContext(ctx, "task ended with error", "task_id", task.GetID(), "error", err)
			return nil
		}
		log.DebugContext(ctx, "task ended", "task_id", task.GetID())
		return nil
	}
}
