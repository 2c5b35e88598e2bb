package core

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"expvar"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestExpvarMetricsRecorderExports(t *testing.T) {
	recorder := NewExpvarMetricsRecorder("")
	if recorder.Name() == "" {
		t.Fatalf("expected recorder to have export name")
	}
	recorder.Observe(context.Background(), "test_op", true, 10*time.Millisecond)
	recorder.Observe(context.Background(), "test_op", false, 5*time.Millisecond)

	snapshot := recorder.Snapshot()
	if snapshot.DurationsMS["test_op"] != 15 {
		t.Fatalf("expected 15ms total duration, snapshot=%+v", snapshot)
	}
	if snapshot.Results["test_op"]["success"] != 1 || snapshot.Results["test_op"]["error"] != 1 {
		t.Fatalf("unexpected results snapshot=%+v", snapshot)
	}

	if v := expvar.Get(recorder.Name()); v == nil {
		t.Fatalf("expected expvar export to be registered")
	} else if !strings.Contains(v.String(), "test_op") {
		t.Fatalf("expected expvar output to contain operation: %s", v.String())
	}
}

func TestExpvarMetricsRecorderHonorsExplicitName(t *testing.T) {
	recorder := NewExpvarMetricsRecorder("chemcore_test_metrics_explicit")
	if recorder.Name() != "chemcore_test_metrics_explicit" {
		t.Fatalf("recorder name %q", recorder.Name())
	}
	if expvar.Get("chemcore_test_metrics_explicit") == nil {
		t.Fatalf("explicit name not registered")
	}
}

func TestExpvarMetricsRecorderSkipsEmptyOperation(t *testing.T) {
	recorder := NewExpvarMetricsRecorder("")
	recorder.Observe(context.Background(), "", true, time.Second)
	snapshot := recorder.Snapshot()
	if len(snapshot.DurationsMS) != 0 || len(snapshot.Results) != 0 {
		t.Fatalf("empty operation recorded: %+v", snapshot)
	}
}

func TestExpvarMetricsSnapshotIsACopy(t *testing.T) {
	recorder := NewExpvarMetricsRecorder("")
	recorder.Observe(context.Background(), "test_op", true, time.Millisecond)

	first := recorder.Snapshot()
	first.DurationsMS["test_op"] = 999
	first.Results["test_op"]["success"] = 999

	second := recorder.Snapshot()
	if second.DurationsMS["test_op"] == 999 || second.Results["test_op"]["success"] == 999 {
		t.Fatalf("snapshot mutation leaked into recorder: %+v", second)
	}
}

func TestPrometheusMetricsRecorderObservations(t *testing.T) {
	reg := prometheus.NewRegistry()
	recorder, err := NewPrometheusMetricsRecorder(reg)
	if err != nil {
		t.Fatalf("NewPrometheusMetricsRecorder: %v", err)
	}

	ctx := context.Background()
	recorder.Observe(ctx, "save_snapshot", true, 25*time.Millisecond)
	recorder.Observe(ctx, "save_snapshot", false, 5*time.Millisecond)
	recorder.Observe(ctx, "", true, time.Second)

	if got := testutil.ToFloat64(recorder.operations.WithLabelValues("save_snapshot", "success")); got != 1 {
		t.Errorf("success counter %v, want 1", got)
	}
	if got := testutil.ToFloat64(recorder.operations.WithLabelValues("save_snapshot", "error")); got != 1 {
		t.Errorf("error counter %v, want 1", got)
	}
	if got := testutil.CollectAndCount(recorder.operations); got != 2 {
		t.Errorf("operations exported %d series, want 2", got)
	}
	if got := testutil.CollectAndCount(recorder.durations); got != 1 {
		t.Errorf("durations exported %d series, want 1", got)
	}
}

func TestPrometheusMetricsRecorderRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPrometheusMetricsRecorder(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewPrometheusMetricsRecorder(reg); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestJSONTracerRecordsSpans(t *testing.T) {
	var buf bytes.Buffer
	tracer := NewJSONTracer(&buf)

	_, span := tracer.Start(context.Background(), "save_snapshot")
	span.End(nil)
	_, span = tracer.Start(context.Background(), "export_bundle")
	span.End(errors.New("bucket unreachable"))

	entries := tracer.Entries()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(entries), entries)
	}
	if entries[0].Operation != "save_snapshot" || entries[0].Status != "success" || entries[0].Error != "" {
		t.Errorf("unexpected success entry: %+v", entries[0])
	}
	if entries[1].Operation != "export_bundle" || entries[1].Status != "error" || entries[1].Error != "bucket unreachable" {
		t.Errorf("unexpected error entry: %+v", entries[1])
	}
	for _, entry := range entries {
		if entry.DurationMS < 0 {
			t.Errorf("negative duration: %+v", entry)
		}
		if entry.EndedAt.Before(entry.StartedAt) {
			t.Errorf("span ends before it starts: %+v", entry)
		}
	}

	dec := json.NewDecoder(&buf)
	var decoded []JSONTraceEntry
	for {
		var entry JSONTraceEntry
		if err := dec.Decode(&entry); err == io.EOF {
			break
		} else if err != nil {
			t.Fatalf("decode trace output: %v", err)
		}
		decoded = append(decoded, entry)
	}
	if len(decoded) != 2 {
		t.Fatalf("trace output carries %d entries, want 2", len(decoded))
	}
	if decoded[1].Error != "bucket unreachable" {
		t.Errorf("encoded error %q", decoded[1].Error)
	}
}

func TestJSONTracerToleratesNilWriter(t *testing.T) {
	tracer := NewJSONTracer(nil)
	_, span := tracer.Start(context.Background(), "verify_registry")
	span.End(nil)
	if len(tracer.Entries()) != 1 {
		t.Fatalf("nil-writer tracer dropped the span")
	}
}

func TestJSONTracerEntriesAreACopy(t *testing.T) {
	tracer := NewJSONTracer(nil)
	_, span := tracer.Start(context.Background(), "load_snapshot")
	span.End(nil)

	entries := tracer.Entries()
	entries[0].Operation = "mutated"
	if tracer.Entries()[0].Operation != "load_snapshot" {
		t.Fatalf("entry mutation leaked into tracer")
	}
}
