package memory

import (
	"bytes"
	"context"
	"io"
	"testing"

	"chemcore/internal/blob/core"
)

func TestStore_PutGetHeadListDelete(t *testing.T) {
	ctx := context.Background()
	store := New()

	info, err := store.Put(ctx, "bundles/dev/manifest.json", bytes.NewReader([]byte("{}")), core.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"digest": "abc"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != 2 || info.ContentType != "application/json" {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := store.Put(ctx, "bundles/dev/manifest.json", bytes.NewReader([]byte("x")), core.PutOptions{}); err == nil {
		t.Fatalf("expected duplicate failure")
	}

	h, err := store.Head(ctx, "bundles/dev/manifest.json")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if h.Metadata["digest"] != "abc" {
		t.Fatalf("expected metadata round trip, got %+v", h.Metadata)
	}

	_, rc, err := store.Get(ctx, "bundles/dev/manifest.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(b) != "{}" {
		t.Fatalf("unexpected content %q", b)
	}

	list, err := store.List(ctx, "bundles/")
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v %+v", err, list)
	}

	ok, err := store.Delete(ctx, "bundles/dev/manifest.json")
	if err != nil || !ok {
		t.Fatalf("delete: %v %v", ok, err)
	}
	if _, err := store.Head(ctx, "bundles/dev/manifest.json"); err == nil {
		t.Fatalf("expected head failure after delete")
	}
}

func TestStore_GetReturnsIndependentCopies(t *testing.T) {
	ctx := context.Background()
	store := New()
	if _, err := store.Put(ctx, "k", bytes.NewReader([]byte("data")), core.PutOptions{Metadata: map[string]string{"a": "1"}}); err != nil {
		t.Fatalf("put: %v", err)
	}

	info, rc, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = rc.Close()
	info.Metadata["a"] = "mutated"

	again, err := store.Head(ctx, "k")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if again.Metadata["a"] != "1" {
		t.Fatalf("metadata mutation leaked into store")
	}
}

func TestStore_PresignUnsupported(t *testing.T) {
	store := New()
	if _, err := store.PresignURL(context.Background(), "k", core.SignedURLOptions{}); err != core.ErrUnsupported {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
}

func TestStore_DriverIdentifier(t *testing.T) {
	if got := New().Driver(); got != core.DriverMemory {
		t.Fatalf("unexpected driver %s", got)
	}
}
