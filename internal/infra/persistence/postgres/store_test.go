package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"chemcore/internal/infra/persistence/postgres/testutil"
	"chemcore/pkg/chem"
)

func openStubStore(t *testing.T) (*Store, *testutil.StubConn) {
	t.Helper()
	db, conn := testutil.NewStubDB()
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	t.Cleanup(restore)
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store, conn
}

func TestNewStoreEnsuresStateTable(t *testing.T) {
	store, conn := openStubStore(t)
	if store.DB() == nil {
		t.Fatalf("expected live database handle")
	}
	sawDDL := false
	for _, stmt := range conn.Execs {
		if strings.Contains(strings.ToUpper(stmt), "CREATE TABLE IF NOT EXISTS STATE") {
			sawDDL = true
			break
		}
	}
	if !sawDDL {
		t.Fatalf("expected state table DDL, got execs: %v", conn.Execs)
	}
}

func TestSaveAndLoadSnapshotRoundTrip(t *testing.T) {
	store, conn := openStubStore(t)
	ctx := context.Background()

	snapshot := chem.BuildRegistrySnapshot()
	if err := store.SaveSnapshot(ctx, snapshot); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := store.SaveSnapshot(ctx, snapshot); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if rows := len(conn.Tables["state"]); rows != 1 {
		t.Fatalf("expected upsert to keep a single row, got %d", rows)
	}

	loaded, found, err := store.LoadSnapshot(ctx)
	if err != nil {
		t.Fatalf("load snapshot: %v", err)
	}
	if !found {
		t.Fatalf("expected snapshot after save")
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
		t.Fatalf("digest mismatch after round trip: %s vs %s", got, want)
	}
}

func TestLoadSnapshotWhenEmpty(t *testing.T) {
	store, _ := openStubStore(t)
	if _, found, err := store.LoadSnapshot(context.Background()); err != nil {
		t.Fatalf("load snapshot: %v", err)
	} else if found {
		t.Fatalf("expected empty store to report no snapshot")
	}
}

func TestNewStorePingFailure(t *testing.T) {
	db, conn := testutil.NewStubDB()
	conn.FailPing = true
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	if _, err := NewStore(""); err == nil || !strings.Contains(err.Error(), "ping postgres") {
		t.Fatalf("expected ping failure, got %v", err)
	}
}

func TestNewStoreTableCreationFailure(t *testing.T) {
	db, conn := testutil.NewStubDB()
	conn.FailExec = true
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()

	if _, err := NewStore(""); err == nil || !strings.Contains(err.Error(), "ensure state table") {
		t.Fatalf("expected table creation failure, got %v", err)
	}
}

func TestNewStoreOpenFailure(t *testing.T) {
	restore := OverrideSQLOpen(func(_, _ string) (*sql.DB, error) {
		return nil, fmt.Errorf("dial refused")
	})
	defer restore()

	if _, err := NewStore(""); err == nil || !strings.Contains(err.Error(), "open postgres") {
		t.Fatalf("expected open failure, got %v", err)
	}
}

func TestSaveSnapshotBeginFailure(t *testing.T) {
	store, conn := openStubStore(t)
	conn.FailBegin = true
	err := store.SaveSnapshot(context.Background(), chem.BuildRegistrySnapshot())
	if err == nil || !strings.Contains(err.Error(), "begin tx") {
		t.Fatalf("expected begin failure, got %v", err)
	}
}

func TestSaveSnapshotExecFailureRollsBack(t *testing.T) {
	store, conn := openStubStore(t)
	conn.FailExec = true
	err := store.SaveSnapshot(context.Background(), chem.BuildRegistrySnapshot())
	if err == nil || !strings.Contains(err.Error(), "upsert registry_snapshot") {
		t.Fatalf("expected upsert failure, got %v", err)
	}
	if conn.Rollbacks != 1 {
		t.Fatalf("expected one rollback after failed upsert, got %d", conn.Rollbacks)
	}
}

func TestSaveSnapshotCommitFailure(t *testing.T) {
	store, conn := openStubStore(t)
	conn.FailCommit = true
	err := store.SaveSnapshot(context.Background(), chem.BuildRegistrySnapshot())
	if err == nil || !strings.Contains(err.Error(), "commit") {
		t.Fatalf("expected commit failure, got %v", err)
	}
}

func TestLoadSnapshotQueryFailure(t *testing.T) {
	store, conn := openStubStore(t)
	conn.FailQuery = true
	if _, _, err := store.LoadSnapshot(context.Background()); err == nil || !strings.Contains(err.Error(), "select state") {
		t.Fatalf("expected query failure, got %v", err)
	}
}

func TestLoadSnapshotRowsError(t *testing.T) {
	store, conn := openStubStore(t)
	ctx := context.Background()
	if err := store.SaveSnapshot(ctx, chem.BuildRegistrySnapshot()); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}
	conn.RowsErr = fmt.Errorf("boom")
	if _, _, err := store.LoadSnapshot(ctx); err == nil || !strings.Contains(err.Error(), "iterate state") {
		t.Fatalf("expected iteration failure, got %v", err)
	}
}

func TestLoadSnapshotCorruptPayload(t *testing.T) {
	store, conn := openStubStore(t)
	conn.Tables["state"] = []map[string]any{{
		"bucket":  "registry_snapshot",
		"payload": []byte("{not json"),
	}}
	if _, _, err := store.LoadSnapshot(context.Background()); err == nil || !strings.Contains(err.Error(), "decode registry_snapshot") {
		t.Fatalf("expected decode failure, got %v", err)
	}
}

func TestLoadSnapshotIgnoresForeignBuckets(t *testing.T) {
	store, conn := openStubStore(t)
	conn.Tables["state"] = []map[string]any{{
		"bucket":  "unrelated",
		"payload": []byte(`{"schema_version":1}`),
	}}
	if _, found, err := store.LoadSnapshot(context.Background()); err != nil {
		t.Fatalf("load snapshot: %v", err)
	} else if found {
		t.Fatalf("expected foreign buckets to be ignored")
	}
}
