// Package memory provides an in-memory implementation of the snapshot store
// used for tests and ephemeral environments.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"chemcore/pkg/chem"
)

// Compile-time contract assertion ensuring memory.Store adheres to the snapshot store interface.
var _ chem.SnapshotStore = (*Store)(nil)

// Store keeps the most recent registry snapshot as an encoded payload. The
// payload round trip gives callers an independent copy on every load.
type Store struct {
	mu      sync.RWMutex
	payload []byte
}

// NewStore constructs an empty in-memory snapshot store.
func NewStore() *Store {
	return &Store{}
}

// SaveSnapshot replaces the stored snapshot.
func (s *Store) SaveSnapshot(_ context.Context, snapshot chem.RegistrySnapshot) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	s.mu.Lock()
	s.payload = payload
	s.mu.Unlock()
	return nil
}

// LoadSnapshot returns the stored snapshot when one has been saved.
func (s *Store) LoadSnapshot(context.Context) (chem.RegistrySnapshot, bool, error) {
	s.mu.RLock()
	payload := s.payload
	s.mu.RUnlock()
	if len(payload) == 0 {
		return chem.RegistrySnapshot{}, false, nil
	}
	var snapshot chem.RegistrySnapshot
	if err := json.Unmarshal(payload, &snapshot); err != nil {
		return chem.RegistrySnapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return snapshot, true, nil
}

// Close releases no resources for the in-memory store.
func (s *Store) Close() error {
	return nil
}
