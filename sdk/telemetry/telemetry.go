// Package telemetry carries request scoped trace values through a context.
package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type telKey int

const (
	traceIDKey telKey = iota + 1
	startKey
)

// NoTrace is returned when a context carries no trace id.
const NoTrace = "--------NOTRACE--------"

type TraceValues struct {
	TraceID    string
	Now        time.Time
	StatusCode int
}

type Telemetry struct{}

// NewTelemetry creates a new telemetry instance.
func NewTelemetry() Telemetry {
	return Telemetry{}
}

// SetTraceID stores a fresh trace id and the request start time.
func (t Telemetry) SetTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, uuid.NewString())
}

// GetTraceID returns the trace id stored by SetTraceID.
func (t Telemetry) GetTraceID(ctx context.Context) string {
	return TraceID(ctx)
}

// WithTraceID stores id as the trace id, used by workers and websocket
// sessions that do not pass through the HTTP handler.
func WithTraceID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, startKey, time.Now())
	return context.WithValue(ctx, traceIDKey, id)
}

// TraceID returns the trace id in ctx or NoTrace.
func TraceID(ctx context.Context) string {
	v, ok := ctx.Value(traceIDKey).(string)
	if !ok {
		return NoTrace
	}
	return v
}

// Since reports the time elapsed since the trace was started.
func Since(ctx context.Context) time.Duration {
	v, ok := ctx.Value(startKey).(time.Time)
	if !ok {
		return 0
	}
	return time.Since(v)
}
