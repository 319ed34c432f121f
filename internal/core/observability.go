package core

import (
	"context"
	"time"
)

// Logger is the minimal logging surface the service needs. Callers plug in
// their own implementation; the default discards everything.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// MetricsRecorder receives one observation per service operation.
type MetricsRecorder interface {
	Observe(ctx context.Context, operation string, success bool, duration time.Duration)
}

// RunMetricsRecorder optionally receives per-run simulation totals in
// addition to operation observations.
type RunMetricsRecorder interface {
	ObserveRun(ctx context.Context, run Run)
}

// TraceSpan represents one in-flight traced operation.
type TraceSpan interface {
	End(err error)
}

// Tracer starts spans around service operations.
type Tracer interface {
	Start(ctx context.Context, operation string) (context.Context, TraceSpan)
}

type noopLogger struct{}

func (noopLogger) Infof(string, ...any) {}
func (noopLogger) Warnf(string, ...any) {}

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, bool, time.Duration) {}

type noopTracer struct{}

type noopSpan struct{}

func (noopSpan) End(error) {}

func (noopTracer) Start(ctx context.Context, _ string) (context.Context, TraceSpan) {
	return ctx, noopSpan{}
}
