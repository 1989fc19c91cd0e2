package workers

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kingjawir/marketplace/sdk/logger"
)

// Metrics collects pool orchestration counters.
type Metrics interface {
	RecordWorkerStarted()
	RecordWorkerStopped()
	RecordWorkerPanic()

	RecordTaskCheckedOut()
	RecordTaskCompleted(duration time.Duration)
	RecordTaskFailed(duration time.Duration)
	RecordCheckoutError()

	RecordRetryAttempt()
	RecordRetrySuccess()
	RecordRetryExhausted()

	Snapshot() MetricsSnapshot

	Start(ctx context.Context, poolName string)
	Stop(ctx context.Context)
}

// MetricsSnapshot is a point-in-time view of a pool.
type MetricsSnapshot struct {
	Pool            string        `json:"pool"`
	WorkersActive   int64         `json:"workersActive"`
	WorkerPanics    int64         `json:"workerPanics"`
	TasksCheckedOut int64         `json:"tasksCheckedOut"`
	TasksCompleted  int64         `json:"tasksCompleted"`
	TasksFailed     int64         `json:"tasksFailed"`
	TasksInProgress int64         `json:"tasksInProgress"`
	CheckoutErrors  int64         `json:"checkoutErrors"`
	RetryAttempts   int64         `json:"retryAttempts"`
	RetrySuccesses  int64         `json:"retrySuccesses"`
	RetryExhausted  int64         `json:"retryExhausted"`
	AverageDuration time.Duration `json:"averageDurationNs"`
	MinDuration     time.Duration `json:"minDurationNs"`
	MaxDuration     time.Duration `json:"maxDurationNs"`
	Throughput      float64       `json:"throughputPerSec"`
	ErrorRate       float64       `json:"errorRatePct"`
	Uptime          time.Duration `json:"uptimeNs"`
	CollectedAt     time.Time     `json:"collectedAt"`
}

type noopMetrics struct{}

func (noopMetrics) RecordWorkerStarted()              {}
func (noopMetrics) RecordWorkerStopped()              {}
func (noopMetrics) RecordWorkerPanic()                {}
func (noopMetrics) RecordTaskCheckedOut()             {}
func (noopMetrics) RecordTaskCompleted(time.Duration) {}
func (noopMetrics) RecordTaskFailed(time.Duration)    {}
func (noopMetrics) RecordCheckoutError()              {}
func (noopMetrics) RecordRetryAttempt()               {}
func (noopMetrics) RecordRetrySuccess()               {}
func (noopMetrics) RecordRetryExhausted()             {}
func (noopMetrics) Snapshot() MetricsSnapshot         { return MetricsSnapshot{} }
func (noopMetrics) Start(context.Context, string)     {}
func (noopMetrics) Stop(context.Context)              {}

// InMemoryMetrics keeps counters in atomics.
type InMemoryMetrics struct {
	poolName  string
	startTime time.Time

	workersStarted atomic.Int64
	workersStopped atomic.Int64
	workerPanics   atomic.Int64

	tasksCheckedOut atomic.Int64
	tasksCompleted  atomic.Int64
	tasksFailed     atomic.Int64
	checkoutErrors  atomic.Int64

	retryAttempts  atomic.Int64
	retrySuccesses atomic.Int64
	retryExhausted atomic.Int64

	totalDurationNs atomic.Int64

	mu          sync.RWMutex
	minDuration time.Duration
	maxDuration time.Duration
}

func NewInMemoryMetrics() *InMemoryMetrics {
	return &InMemoryMetrics{minDuration: math.MaxInt64}
}

func (m *InMemoryMetrics) Start(ctx context.Context, poolName string) {
	m.poolName = poolName
	m.startTime = time.Now()
}

func (m *InMemoryMetrics) Stop(ctx context.Context) {}

func (m *InMemoryMetrics) RecordWorkerStarted()  { m.workersStarted.Add(1) }
func (m *InMemoryMetrics) RecordWorkerStopped()  { m.workersStopped.Add(1) }
func (m *InMemoryMetrics) RecordWorkerPanic()    { m.workerPanics.Add(1) }
func (m *InMemoryMetrics) RecordTaskCheckedOut() { m.tasksCheckedOut.Add(1) }
func (m *InMemoryMetrics) RecordCheckoutError()  { m.checkoutErrors.Add(1) }
func (m *InMemoryMetrics) RecordRetryAttempt()   { m.retryAttempts.Add(1) }
func (m *InMemoryMetrics) RecordRetrySuccess()   { m.retrySuccesses.Add(1) }
func (m *InMemoryMetrics) RecordRetryExhausted() { m.retryExhausted.Add(1) }

func (m *InMemoryMetrics) RecordTaskCompleted(d time.Duration) {
	m.tasksCompleted.Add(1)
	m.observe(d)
}

func (m *InMemoryMetrics) RecordTaskFailed(d time.Duration) {
	m.tasksFailed.Add(1)
	m.observe(d)
}

func (m *InMemoryMetrics) observe(d time.Duration) {
	m.totalDurationNs.Add(int64(d))

	m.mu.Lock()
	m.minDuration = min(m.minDuration, d)
	m.maxDuration = max(m.maxDuration, d)
	m.mu.Unlock()
}

func (m *InMemoryMetrics) Snapshot() MetricsSnapshot {
	now := time.Now()
	uptime := now.Sub(m.startTime)

	completed := m.tasksCompleted.Load()
	failed := m.tasksFailed.Load()
	finished := completed + failed

	m.mu.RLock()
	minDur, maxDur := m.minDuration, m.maxDuration
	m.mu.RUnlock()
	if minDur == math.MaxInt64 {
		minDur = 0
	}

	snap := MetricsSnapshot{
		Pool:            m.poolName,
		WorkersActive:   m.workersStarted.Load() - m.workersStopped.Load(),
		WorkerPanics:    m.workerPanics.Load(),
		TasksCheckedOut: m.tasksCheckedOut.Load(),
		TasksCompleted:  completed,
		TasksFailed:     failed,
		TasksInProgress: m.tasksCheckedOut.Load() - finished,
		CheckoutErrors:  m.checkoutErrors.Load(),
		RetryAttempts:   m.retryAttempts.Load(),
		RetrySuccesses:  m.retrySuccesses.Load(),
		RetryExhausted:  m.retryExhausted.Load(),
		MinDuration:     minDur,
		MaxDuration:     maxDur,
		Uptime:          uptime,
		CollectedAt:     now,
	}
	if finished > 0 {
		snap.AverageDuration = time.Duration(m.totalDurationNs.Load() / finished)
		snap.ErrorRate = float64(failed) / float64(finished) * 100
	}
	if uptime > 0 {
		snap.Throughput = float64(finished) / uptime.Seconds()
	}
	return snap
}

// LoggerMetrics is InMemoryMetrics that also logs a snapshot every interval
// and once on stop.
type LoggerMetrics struct {
	*InMemoryMetrics
	log      *logger.Logger
	interval time.Duration

	done chan struct{}
	wg   sync.WaitGroup
}

func NewLoggerMetrics(log *logger.Logger, interval time.Duration) *LoggerMetrics {
	return &LoggerMetrics{
		InMemoryMetrics: NewInMemoryMetrics(),
		log:             log,
		interval:        interval,
		done:            make(chan struct{}),
	}
}

func (l *LoggerMetrics) Start(ctx context.Context, poolName string) {
	l.InMemoryMetrics.Start(ctx, poolName)
	if l.interval <= 0 {
		return
	}

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		for {
			select {
			case <-l.done:
				return
			case <-ticker.C:
				l.logSnapshot(ctx, "periodic")
			}
		}
	}()
}

func (l *LoggerMetrics) Stop(ctx context.Context) {
	close(l.done)
	l.wg.Wait()
	l.logSnapshot(ctx, "shutdown")
}

func (l *LoggerMetrics) logSnapshot(ctx context.Context, trigger string) {
	s := l.Snapshot()
	l.log.InfoContext(ctx, "worker pool metrics",
		"pool", s.Pool,
		"trigger", trigger,
		"workers_active", s.WorkersActive,
		"completed", s.TasksCompleted,
		"failed", s.TasksFailed,
		"in_progress", s.TasksInProgress,
		"retries", s.RetryAttempts,
		"avg_duration", s.AverageDuration,
		"error_rate_pct", s.ErrorRate,
	)
}
