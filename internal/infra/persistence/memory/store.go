// Package memory provides an in-memory implementation of the run store used
// for tests and ephemeral environments. Durable backends embed it and
// snapshot its state after successful writes.
package memory

import (
	"context"
	"sort"
	"sync"

	"lineagecore/pkg/lineage"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain persistence interface.
var _ lineage.RunStore = (*Store)(nil)

// Snapshot captures the full store state for durable backends to persist.
type Snapshot struct {
	Runs []lineage.Run `json:"runs"`
}

// Store implements lineage.RunStore backed by process memory.
type Store struct {
	mu   sync.RWMutex
	runs map[string]lineage.Run
}

// NewStore returns an empty in-memory run store.
func NewStore() *Store {
	return &Store{runs: make(map[string]lineage.Run)}
}

// SaveRun records a run, overwriting any previous record with the same ID.
func (s *Store) SaveRun(_ context.Context, run lineage.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run.CreatedAt = run.CreatedAt.UTC()
	s.runs[run.ID] = run
	return nil
}

// GetRun returns a run by ID.
func (s *Store) GetRun(_ context.Context, id string) (lineage.Run, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	return run, ok
}

// ListRuns returns all runs ordered by creation time ascending, ID as tie-break.
func (s *Store) ListRuns(_ context.Context) ([]lineage.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]lineage.Run, 0, len(s.runs))
	for _, run := range s.runs {
		out = append(out, run)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// ExportState returns a snapshot of the current state.
func (s *Store) ExportState() Snapshot {
	runs, _ := s.ListRuns(context.Background())
	return Snapshot{Runs: runs}
}

// ImportState replaces the store contents with the snapshot.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = make(map[string]lineage.Run, len(snapshot.Runs))
	for _, run := range snapshot.Runs {
		s.runs[run.ID] = run
	}
}
