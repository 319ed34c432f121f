package core

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestExpvarRecorderAggregates(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	ctx := context.Background()

	rec.Observe(ctx, "save_run", true, 10*time.Millisecond)
	rec.Observe(ctx, "save_run", true, 5*time.Millisecond)
	rec.Observe(ctx, "save_run", false, time.Millisecond)
	rec.Observe(ctx, "", true, time.Second) // ignored
	rec.ObserveRun(ctx, Run{Divisions: 3, QuiescentEvents: 2})

	snap := rec.Snapshot()
	if got := snap.Results["save_run"]["success"]; got != 2 {
		t.Fatalf("success count %d, want 2", got)
	}
	if got := snap.Results["save_run"]["error"]; got != 1 {
		t.Fatalf("error count %d, want 1", got)
	}
	if snap.DurationsMS["save_run"] < 15 {
		t.Fatalf("duration total %f, want >= 15ms", snap.DurationsMS["save_run"])
	}
	if len(snap.Results) != 1 {
		t.Fatalf("empty operation was recorded: %+v", snap.Results)
	}
	if snap.Runs != 1 || snap.Divisions != 3 || snap.QuiescenceRevisits != 2 {
		t.Fatalf("run totals not aggregated: %+v", snap)
	}
}

func TestPrometheusRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusMetricsRecorder(reg)
	ctx := context.Background()

	rec.Observe(ctx, OpGenerateLineage, true, 20*time.Millisecond)
	rec.Observe(ctx, OpGenerateLineage, false, time.Millisecond)
	rec.ObserveRun(ctx, Run{Divisions: 9, QuiescentEvents: 4})

	if got := testutil.ToFloat64(rec.results.WithLabelValues(OpGenerateLineage, "success")); got != 1 {
		t.Fatalf("success counter %f, want 1", got)
	}
	if got := testutil.ToFloat64(rec.results.WithLabelValues(OpGenerateLineage, "error")); got != 1 {
		t.Fatalf("error counter %f, want 1", got)
	}
	if got := testutil.ToFloat64(rec.runs); got != 1 {
		t.Fatalf("runs counter %f, want 1", got)
	}
	// 9 divisions create 18 cells plus the zygote.
	if got := testutil.ToFloat64(rec.cellsCreated); got != 19 {
		t.Fatalf("cells counter %f, want 19", got)
	}
	if got := testutil.ToFloat64(rec.quiescentEvents); got != 4 {
		t.Fatalf("quiescence counter %f, want 4", got)
	}
}

func TestJSONTracerRecordsSpans(t *testing.T) {
	var buf strings.Builder
	tracer := NewJSONTracer(&buf)

	_, span := tracer.Start(context.Background(), "save_run")
	span.End(nil)
	_, span = tracer.Start(context.Background(), "store_artifact")
	span.End(errors.New("boom"))

	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Status != "success" || entries[1].Status != "error" {
		t.Fatalf("unexpected statuses: %+v", entries)
	}
	if entries[1].Error != "boom" {
		t.Fatalf("error message %q", entries[1].Error)
	}
	if lines := strings.Count(strings.TrimSpace(buf.String()), "\n") + 1; lines != 2 {
		t.Fatalf("expected 2 encoded lines, got %d: %s", lines, buf.String())
	}
}
