// Package postgres provides a Postgres-backed snapshot store for deployments
// that share one registry snapshot between processes.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver

	"chemcore/pkg/chem"
)

var _ chem.SnapshotStore = (*Store)(nil)

const (
	defaultDriver = "pgx"
	// defaultDSN matches what OpenSnapshotStore falls back to when the
	// environment sets nothing.
	defaultDSN = "postgres://localhost/chemcore?sslmode=disable"

	snapshotBucket = "registry_snapshot"
)

const stateTableDDL = `CREATE TABLE IF NOT EXISTS state (
	bucket TEXT PRIMARY KEY,
	payload JSONB NOT NULL
)`

const upsertStateSQL = `INSERT INTO state(bucket,payload) VALUES($1,$2) ON CONFLICT(bucket) DO UPDATE SET payload=EXCLUDED.payload`

var (
	openMu  sync.Mutex
	openSQL = sql.Open
)

func openDB(driverName, dsn string) (*sql.DB, error) {
	openMu.Lock()
	open := openSQL
	openMu.Unlock()
	return open(driverName, dsn)
}

// OverrideSQLOpen replaces the database opener for tests. The returned
// function restores the previous opener.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) (restore func()) {
	openMu.Lock()
	defer openMu.Unlock()
	prev := openSQL
	openSQL = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		openSQL = prev
	}
}

// Store persists registry snapshots to a Postgres state table as JSONB payloads.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// NewStore opens a Postgres-backed store using the provided DSN (falls back to
// defaultDSN) and ensures the state table exists.
func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	db, err := openDB(defaultDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, stateTableDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure state table: %w", err)
	}
	return &Store{db: db}, nil
}

// SaveSnapshot encodes the snapshot and upserts it within a transaction.
func (s *Store) SaveSnapshot(ctx context.Context, snapshot chem.RegistrySnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, upsertStateSQL, snapshotBucket, payload); err != nil {
			return fmt.Errorf("upsert %s: %w", snapshotBucket, err)
		}
		return nil
	})
}

func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// LoadSnapshot reads the stored snapshot. The boolean reports whether one exists.
func (s *Store) LoadSnapshot(ctx context.Context) (chem.RegistrySnapshot, bool, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT bucket, payload FROM state`)
	if err != nil {
		return chem.RegistrySnapshot{}, false, fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var payload []byte
	found := false
	for rows.Next() {
		var bucket string
		var data []byte
		if err := rows.Scan(&bucket, &data); err != nil {
			return chem.RegistrySnapshot{}, false, fmt.Errorf("scan state: %w", err)
		}
		if bucket == snapshotBucket {
			payload = data
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		return chem.RegistrySnapshot{}, false, fmt.Errorf("iterate state: %w", err)
	}
	if !found || len(payload) == 0 {
		return chem.RegistrySnapshot{}, false, nil
	}
	var snapshot chem.RegistrySnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return chem.RegistrySnapshot{}, false, fmt.Errorf("decode %s: %w", snapshotBucket, err)
	}
	return snapshot, true, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying handle for integration tests.
func (s *Store) DB() *sql.DB { return s.db }
