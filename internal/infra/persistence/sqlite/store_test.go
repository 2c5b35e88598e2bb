package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"chemcore/pkg/chem"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "registry.db")
	store, err := NewStore(path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStorePersistsSnapshotAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.db")
	ctx := context.Background()

	store, err := NewStore(path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	snapshot := chem.BuildRegistrySnapshot()
	if err := store.SaveSnapshot(ctx, snapshot); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	loaded, found, err := reopened.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if !found {
		t.Fatalf("expected persisted snapshot after reopen")
	}
	want, err := snapshot.Digest()
	if err != nil {
		t.Fatalf("digest original: %v", err)
	}
	got, err := loaded.Digest()
	if err != nil {
		t.Fatalf("digest loaded: %v", err)
	}
	if got != want {
		t.Fatalf("digest mismatch after reopen: %s vs %s", got, want)
	}
}

func TestLoadSnapshotOnFreshDatabase(t *testing.T) {
	store := newTestStore(t)
	if _, found, err := store.LoadSnapshot(context.Background()); err != nil {
		t.Fatalf("load snapshot: %v", err)
	} else if found {
		t.Fatalf("expected fresh database to report no snapshot")
	}
}

func TestSaveSnapshotOverwritesPrevious(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	snapshot := chem.BuildRegistrySnapshot()
	if err := store.SaveSnapshot(ctx, snapshot); err != nil {
		t.Fatalf("first save: %v", err)
	}
	doctored := snapshot
	doctored.SchemaVersion = snapshot.SchemaVersion + 1
	if err := store.SaveSnapshot(ctx, doctored); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, found, err := store.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if !found {
		t.Fatalf("expected snapshot after saves")
	}
	if loaded.SchemaVersion != doctored.SchemaVersion {
		t.Fatalf("expected second save to win, got schema version %d", loaded.SchemaVersion)
	}
}

func TestNewStoreCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state", "registry.db")
	store, err := NewStore(path)
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	defer func() { _ = store.Close() }()

	if store.Path() != path {
		t.Fatalf("expected path %s, got %s", path, store.Path())
	}
	if store.DB() == nil {
		t.Fatalf("expected live database handle")
	}
}
