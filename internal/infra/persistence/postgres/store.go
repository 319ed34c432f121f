// Package postgres provides a Postgres-backed run store that mirrors the
// in-memory semantics while snapshotting state to a server-side table.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"lineagecore/internal/infra/persistence/memory"
	"lineagecore/pkg/lineage"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ lineage.RunStore = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/lineagecore?sslmode=disable"
	runsBucket    = "runs"
)

// Store persists state to Postgres while reusing the in-memory implementation.
type Store struct {
	*memory.Store
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens a Postgres-backed run store using the provided DSN (falls
// back to defaultDSN), ensures the snapshot table exists, and hydrates the
// in-memory store from any existing snapshot.
func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	db, err := sql.Open(defaultDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS lineage_state (
		bucket TEXT PRIMARY KEY,
		payload BYTEA NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	s := &Store{Store: memory.NewStore(), db: db}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load(ctx context.Context) error {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM lineage_state WHERE bucket = $1`, runsBucket).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	var snapshot memory.Snapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return fmt.Errorf("decode runs: %w", err)
	}
	s.ImportState(snapshot)
	return nil
}

func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := json.Marshal(s.ExportState())
	if err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `INSERT INTO lineage_state(bucket,payload) VALUES($1,$2)
		ON CONFLICT (bucket) DO UPDATE SET payload = EXCLUDED.payload`, runsBucket, data); err != nil {
		return fmt.Errorf("upsert %s: %w", runsBucket, err)
	}
	return nil
}

// SaveRun records the run in memory, then snapshots state to Postgres.
func (s *Store) SaveRun(ctx context.Context, run lineage.Run) error {
	if err := s.Store.SaveRun(ctx, run); err != nil {
		return err
	}
	return s.persist(ctx)
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }
