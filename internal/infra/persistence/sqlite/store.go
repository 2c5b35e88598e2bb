// Package sqlite persists registry snapshots to an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // cgo-free sqlite driver

	"chemcore/pkg/chem"
)

var _ chem.SnapshotStore = (*Store)(nil)

const snapshotBucket = "registry_snapshot"

const stateTableDDL = `CREATE TABLE IF NOT EXISTS state (
	bucket TEXT PRIMARY KEY,
	payload BLOB NOT NULL
)`

// Store persists registry snapshots to a single SQLite table as JSON blobs.
// Saves replace the previous snapshot in place.
type Store struct {
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore constructs a SQLite-backed snapshot store. An empty path defaults
// to chemcore.db in the working directory.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "chemcore.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(context.Background(), stateTableDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create state table: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// SaveSnapshot encodes the snapshot and upserts it into the state table.
func (s *Store) SaveSnapshot(ctx context.Context, snapshot chem.RegistrySnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, snapshotBucket, payload); err != nil {
		return fmt.Errorf("upsert %s: %w", snapshotBucket, err)
	}
	return nil
}

// LoadSnapshot reads the stored snapshot. The boolean reports whether one exists.
func (s *Store) LoadSnapshot(ctx context.Context) (chem.RegistrySnapshot, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM state WHERE bucket = ?`, snapshotBucket).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return chem.RegistrySnapshot{}, false, nil
	}
	if err != nil {
		return chem.RegistrySnapshot{}, false, fmt.Errorf("select state: %w", err)
	}
	var snapshot chem.RegistrySnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return chem.RegistrySnapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snapshot, true, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying handle for integration tests.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns where the database file lives on disk.
func (s *Store) Path() string { return s.path }
