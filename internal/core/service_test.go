package core

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"lineagecore/internal/blob"
	blobmemory "lineagecore/internal/blob/memory"
	"lineagecore/internal/infra/persistence/memory"
	"lineagecore/pkg/lineage"
)

func newTestService(t *testing.T, opts ...ServiceOption) (*Service, *memory.Store, *blobmemory.Store) {
	t.Helper()
	store := memory.NewStore()
	blobs := blobmemory.New()
	opts = append([]ServiceOption{WithRand(lineage.NewPCGSource(12))}, opts...)
	return NewService(store, blobs, opts...), store, blobs
}

func TestRunSimulationPersistsRunAndArtifact(t *testing.T) {
	svc, store, blobs := newTestService(t)
	ctx := context.Background()

	report, err := svc.RunSimulation(ctx, Params{TotalCells: 2, CycleTime: 1.0, MitoticA: 1.0})
	if err != nil {
		t.Fatalf("run simulation: %v", err)
	}
	if report.Newick != "(2:1.0000,3:1.0000)1:1.0000" {
		t.Fatalf("unexpected newick: %s", report.Newick)
	}
	if report.Run.AliveCells != 2 || report.Run.Generations != 2 || report.Run.Divisions != 1 {
		t.Fatalf("unexpected run summary: %+v", report.Run)
	}
	if want := fmt.Sprintf("runs/%s.tree", report.Run.ID); report.Run.ArtifactKey != want {
		t.Fatalf("artifact key %s, want %s", report.Run.ArtifactKey, want)
	}

	saved, ok := store.GetRun(ctx, report.Run.ID)
	if !ok {
		t.Fatalf("run %s not persisted", report.Run.ID)
	}
	if saved.ArtifactKey != report.Run.ArtifactKey {
		t.Fatalf("persisted artifact key %s, want %s", saved.ArtifactKey, report.Run.ArtifactKey)
	}

	_, rc, err := blobs.Get(ctx, report.Run.ArtifactKey)
	if err != nil {
		t.Fatalf("get artifact: %v", err)
	}
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != report.Newick+"\n" {
		t.Fatalf("artifact content %q, want newick plus newline", string(data))
	}
}

func TestRunSimulationObservesOperations(t *testing.T) {
	rec := NewExpvarMetricsRecorder("")
	svc, _, _ := newTestService(t, WithMetricsRecorder(rec))

	if _, err := svc.RunSimulation(context.Background(), Params{TotalCells: 5, CycleTime: 1.0, MitoticA: 1.0}); err != nil {
		t.Fatalf("run simulation: %v", err)
	}

	snapshot := rec.Snapshot()
	for _, op := range []string{OpGenerateLineage, OpStoreArtifact, OpSaveRun} {
		if snapshot.Results[op]["success"] != 1 {
			t.Fatalf("operation %s not observed: %+v", op, snapshot.Results)
		}
	}
	if snapshot.Runs != 1 || snapshot.Divisions != 4 {
		t.Fatalf("run totals not observed: %+v", snapshot)
	}
}

func TestRunSimulationTracesOperations(t *testing.T) {
	var buf strings.Builder
	tracer := NewJSONTracer(&buf)
	svc, _, _ := newTestService(t, WithTracer(tracer))

	if _, err := svc.RunSimulation(context.Background(), Params{TotalCells: 2, CycleTime: 1.0, MitoticA: 1.0}); err != nil {
		t.Fatalf("run simulation: %v", err)
	}

	entries := tracer.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 trace spans, got %d", len(entries))
	}
	if entries[0].Operation != OpGenerateLineage || entries[0].Status != "success" {
		t.Fatalf("unexpected first span: %+v", entries[0])
	}
	if !strings.Contains(buf.String(), OpStoreArtifact) {
		t.Fatalf("trace output missing %s: %s", OpStoreArtifact, buf.String())
	}
}

type failingBlobStore struct {
	blob.Store
}

func (failingBlobStore) Put(context.Context, string, io.Reader, blob.PutOptions) (blob.Info, error) {
	return blob.Info{}, fmt.Errorf("bucket unavailable")
}

func TestRunSimulationArtifactFailureSavesNothing(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, failingBlobStore{}, WithRand(lineage.NewPCGSource(12)))
	ctx := context.Background()

	if _, err := svc.RunSimulation(ctx, Params{TotalCells: 2, CycleTime: 1.0, MitoticA: 1.0}); err == nil {
		t.Fatal("expected artifact failure to surface")
	}
	runs, err := store.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("run record saved despite artifact failure: %+v", runs)
	}
}

func TestArtifactReaderRoundTrip(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	report, err := svc.RunSimulation(ctx, Params{TotalCells: 4, CycleTime: 2.0, MitoticA: 1.0})
	if err != nil {
		t.Fatalf("run simulation: %v", err)
	}
	info, rc, err := svc.ArtifactReader(ctx, report.Run)
	if err != nil {
		t.Fatalf("artifact reader: %v", err)
	}
	defer func() { _ = rc.Close() }()
	if info.ContentType != "text/x-nh" {
		t.Fatalf("content type %s", info.ContentType)
	}
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(string(data), "(") {
		t.Fatalf("unexpected artifact prefix: %q", string(data))
	}
}

func TestListRunsOrdered(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.RunSimulation(ctx, Params{TotalCells: 2, CycleTime: 1.0, MitoticA: 1.0}); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}
	runs, err := svc.ListRuns(ctx)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for i := 1; i < len(runs); i++ {
		if runs[i].CreatedAt.Before(runs[i-1].CreatedAt) {
			t.Fatalf("runs out of order: %v before %v", runs[i].CreatedAt, runs[i-1].CreatedAt)
		}
	}
}
