package core

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"lineagecore/internal/blob"
	"lineagecore/pkg/lineage"
)

// Operation names reported to metrics and tracing.
const (
	OpGenerateLineage = "generate_lineage"
	OpStoreArtifact   = "store_artifact"
	OpSaveRun         = "save_run"
)

// Service orchestrates one full simulation: generate the lineage, store the
// Newick artifact, and persist the run record.
type Service struct {
	store   RunStore
	blobs   blob.Store
	logger  Logger
	metrics MetricsRecorder
	tracer  Tracer
	rng     Rand
	now     func() time.Time
	newID   func() string
}

// ServiceOption customizes service construction.
type ServiceOption func(*Service)

// WithLogger installs a logger; the default discards all output.
func WithLogger(l Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithMetricsRecorder installs a metrics recorder.
func WithMetricsRecorder(m MetricsRecorder) ServiceOption {
	return func(s *Service) { s.metrics = m }
}

// WithTracer installs a tracer.
func WithTracer(t Tracer) ServiceOption {
	return func(s *Service) { s.tracer = t }
}

// WithRand fixes the random source handed to simulations, making service
// runs deterministic.
func WithRand(r Rand) ServiceOption {
	return func(s *Service) { s.rng = r }
}

// NewService constructs a service over the given run store and blob store.
func NewService(store RunStore, blobs blob.Store, opts ...ServiceOption) *Service {
	s := &Service{
		store:   store,
		blobs:   blobs,
		logger:  noopLogger{},
		metrics: noopMetrics{},
		tracer:  noopTracer{},
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunReport couples a persisted run record with its serialized tree and
// stored artifact metadata.
type RunReport struct {
	Run      Run
	Newick   string
	Artifact blob.Info
}

// RunSimulation executes one complete growth run for the given parameters.
// The artifact is stored under runs/<id>.tree before the run record is saved,
// so a saved record always points at an existing artifact.
func (s *Service) RunSimulation(ctx context.Context, params Params) (RunReport, error) {
	id := s.newID()

	var result *Result
	started := s.now()
	_ = s.observed(ctx, OpGenerateLineage, func(context.Context) error {
		opts := []lineage.Option{}
		if s.rng != nil {
			opts = append(opts, lineage.WithRand(s.rng))
		}
		result = lineage.NewSimulation(params, opts...).Generate()
		return nil
	})
	elapsed := s.now().Sub(started)

	newick := result.Newick()
	run := Run{
		ID:              id,
		CreatedAt:       s.now().UTC(),
		Params:          params,
		Generations:     result.Generations,
		AliveCells:      result.AliveCells,
		Divisions:       result.Divisions,
		QuiescentEvents: result.QuiescentEvents,
		ArtifactKey:     fmt.Sprintf("runs/%s.tree", id),
		Elapsed:         elapsed,
	}

	var artifact blob.Info
	if err := s.observed(ctx, OpStoreArtifact, func(ctx context.Context) error {
		var err error
		artifact, err = s.blobs.Put(ctx, run.ArtifactKey, strings.NewReader(newick+"\n"), blob.PutOptions{
			ContentType: "text/x-nh",
			Metadata:    map[string]string{"run_id": id},
		})
		return err
	}); err != nil {
		return RunReport{}, fmt.Errorf("store artifact: %w", err)
	}

	if err := s.observed(ctx, OpSaveRun, func(ctx context.Context) error {
		return s.store.SaveRun(ctx, run)
	}); err != nil {
		return RunReport{}, fmt.Errorf("save run: %w", err)
	}

	if rec, ok := s.metrics.(RunMetricsRecorder); ok {
		rec.ObserveRun(ctx, run)
	}
	s.logger.Infof("run %s: %d cells over %d generations (%d divisions, %d quiescence revisits)",
		id, run.AliveCells, run.Generations, run.Divisions, run.QuiescentEvents)

	return RunReport{Run: run, Newick: newick, Artifact: artifact}, nil
}

// GetRun returns a previously recorded run.
func (s *Service) GetRun(ctx context.Context, id string) (Run, bool) {
	return s.store.GetRun(ctx, id)
}

// ListRuns returns all recorded runs ordered by creation time.
func (s *Service) ListRuns(ctx context.Context) ([]Run, error) {
	return s.store.ListRuns(ctx)
}

// ArtifactReader opens the stored Newick artifact of a run.
func (s *Service) ArtifactReader(ctx context.Context, run Run) (blob.Info, io.ReadCloser, error) {
	return s.blobs.Get(ctx, run.ArtifactKey)
}

func (s *Service) observed(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, op)
	start := s.now()
	err := fn(ctx)
	s.metrics.Observe(ctx, op, err == nil, s.now().Sub(start))
	span.End(err)
	if err != nil {
		s.logger.Warnf("%s: %v", op, err)
	}
	return err
}
