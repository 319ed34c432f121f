package lineage

import "context"

// RunStore is a minimal abstraction over durable backends for run records.
// It mirrors the subset of store capabilities used directly by higher layers.
type RunStore interface {
	// SaveRun persists a run record. Saving an existing ID overwrites it.
	SaveRun(ctx context.Context, run Run) error
	// GetRun returns a run by ID.
	GetRun(ctx context.Context, id string) (Run, bool)
	// ListRuns returns all recorded runs ordered by creation time ascending.
	ListRuns(ctx context.Context) ([]Run, error)
}
