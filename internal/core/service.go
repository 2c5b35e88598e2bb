package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"chemcore/internal/blob"
	"chemcore/pkg/chem"
)

// Operation names used for metrics, traces, and audit entries.
const (
	opSaveSnapshot   = "save_snapshot"
	opLoadSnapshot   = "load_snapshot"
	opVerifyRegistry = "verify_registry"
	opExportBundle   = "export_bundle"
)

// auditSubjects maps operation names to the subject recorded in audit entries.
// Operations missing from the map are not audited.
var auditSubjects = map[string]string{
	opSaveSnapshot:   "snapshot",
	opLoadSnapshot:   "snapshot",
	opVerifyRegistry: "registry",
	opExportBundle:   "bundle",
}

// DriftCheckName identifies the synthetic violation reported when the live
// registry no longer matches the persisted snapshot.
const DriftCheckName = "snapshot_drift"

// BundleManifest describes an exported registry bundle. The manifest is
// written alongside the snapshot so consumers can verify integrity without
// loading the registry first.
type BundleManifest struct {
	SchemaVersion int         `json:"schema_version"`
	CreatedAt     time.Time   `json:"created_at"`
	Driver        string      `json:"driver"`
	SnapshotKey   string      `json:"snapshot_key"`
	ManifestKey   string      `json:"manifest_key"`
	Digest        string      `json:"digest"`
	Checks        CheckResult `json:"checks"`
}

// Service exposes snapshot persistence, verification, and bundle export on
// top of the process-wide chemical registries.
type Service struct {
	store   SnapshotStore
	engine  *CheckEngine
	clock   Clock
	logger  Logger
	audit   AuditRecorder
	metrics MetricsRecorder
	tracer  Tracer
}

// NewService constructs a service backed by the supplied snapshot store.
func NewService(store SnapshotStore, opts ...Option) *Service {
	options := defaultServiceOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Service{
		store:   store,
		engine:  options.engine,
		clock:   options.clock,
		logger:  options.logger,
		audit:   options.audit,
		metrics: options.metrics,
		tracer:  options.tracer,
	}
}

// Store returns the underlying snapshot store.
func (s *Service) Store() SnapshotStore {
	return s.store
}

// Engine returns the check engine evaluated before persistence and export.
func (s *Service) Engine() *CheckEngine {
	return s.engine
}

// Snapshot captures the current registry state without persisting it.
func (s *Service) Snapshot() RegistrySnapshot {
	return chem.BuildRegistrySnapshot()
}

// SaveSnapshot captures the registry, runs the check engine, and persists the
// snapshot. Blocking violations abort the save with a CheckViolationError.
func (s *Service) SaveSnapshot(ctx context.Context) (RegistrySnapshot, error) {
	var snapshot RegistrySnapshot
	err := s.instrument(ctx, opSaveSnapshot, func(ctx context.Context) (string, error) {
		snapshot = chem.BuildRegistrySnapshot()
		result, err := s.engine.Evaluate(ctx, snapshot)
		if err != nil {
			return "", fmt.Errorf("evaluate checks: %w", err)
		}
		if result.HasBlocking() {
			return "", chem.CheckViolationError{Result: result}
		}
		if err := s.store.SaveSnapshot(ctx, snapshot); err != nil {
			return "", fmt.Errorf("persist snapshot: %w", err)
		}
		digest, err := snapshot.Digest()
		if err != nil {
			return "", fmt.Errorf("digest snapshot: %w", err)
		}
		return digest, nil
	})
	return snapshot, err
}

// LoadSnapshot returns the persisted snapshot. The boolean reports whether a
// snapshot was found.
func (s *Service) LoadSnapshot(ctx context.Context) (RegistrySnapshot, bool, error) {
	var (
		snapshot RegistrySnapshot
		found    bool
	)
	err := s.instrument(ctx, opLoadSnapshot, func(ctx context.Context) (string, error) {
		var err error
		snapshot, found, err = s.store.LoadSnapshot(ctx)
		if err != nil {
			return "", fmt.Errorf("load snapshot: %w", err)
		}
		if !found {
			return "no snapshot persisted", nil
		}
		digest, err := snapshot.Digest()
		if err != nil {
			return "", fmt.Errorf("digest snapshot: %w", err)
		}
		return digest, nil
	})
	return snapshot, found, err
}

// VerifyRegistry runs the check engine against the live registry and compares
// its digest with the persisted snapshot when one exists. The returned result
// is populated even when the error reports blocking violations.
func (s *Service) VerifyRegistry(ctx context.Context) (CheckResult, error) {
	var result CheckResult
	err := s.instrument(ctx, opVerifyRegistry, func(ctx context.Context) (string, error) {
		snapshot := chem.BuildRegistrySnapshot()
		var err error
		result, err = s.engine.Evaluate(ctx, snapshot)
		if err != nil {
			return "", fmt.Errorf("evaluate checks: %w", err)
		}

		liveDigest, err := snapshot.Digest()
		if err != nil {
			return "", fmt.Errorf("digest snapshot: %w", err)
		}
		persisted, found, err := s.store.LoadSnapshot(ctx)
		if err != nil {
			return "", fmt.Errorf("load snapshot: %w", err)
		}
		if found {
			storedDigest, err := persisted.Digest()
			if err != nil {
				return "", fmt.Errorf("digest persisted snapshot: %w", err)
			}
			if storedDigest != liveDigest {
				result.Violations = append(result.Violations, chem.Violation{
					Check:    DriftCheckName,
					Severity: chem.SeverityBlock,
					Subject:  "registry_snapshot",
					Message:  fmt.Sprintf("live registry digest %s differs from persisted digest %s", liveDigest, storedDigest),
				})
			}
		}

		if result.HasBlocking() {
			return "", chem.CheckViolationError{Result: result}
		}
		if len(result.Violations) > 0 {
			s.logger.Warn("registry checks reported advisory findings", "count", len(result.Violations))
		}
		return liveDigest, nil
	})
	return result, err
}

// ExportBundle writes the current snapshot and a manifest to the destination
// blob store under the given key prefix. Blocking violations abort the export.
func (s *Service) ExportBundle(ctx context.Context, dest blob.Store, prefix string) (BundleManifest, error) {
	var manifest BundleManifest
	err := s.instrument(ctx, opExportBundle, func(ctx context.Context) (string, error) {
		snapshot := chem.BuildRegistrySnapshot()
		result, err := s.engine.Evaluate(ctx, snapshot)
		if err != nil {
			return "", fmt.Errorf("evaluate checks: %w", err)
		}
		if result.HasBlocking() {
			return "", chem.CheckViolationError{Result: result}
		}
		digest, err := snapshot.Digest()
		if err != nil {
			return "", fmt.Errorf("digest snapshot: %w", err)
		}

		snapshotKey := path.Join(prefix, "snapshot.json")
		manifestKey := path.Join(prefix, "manifest.json")
		payload, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode snapshot: %w", err)
		}
		if _, err := dest.Put(ctx, snapshotKey, bytes.NewReader(payload), blob.PutOptions{
			ContentType: "application/json",
			Metadata:    map[string]string{"digest": digest},
		}); err != nil {
			return "", fmt.Errorf("write snapshot object: %w", err)
		}

		manifest = BundleManifest{
			SchemaVersion: chem.SnapshotSchemaVersion,
			CreatedAt:     s.clock.Now(),
			Driver:        string(dest.Driver()),
			SnapshotKey:   snapshotKey,
			ManifestKey:   manifestKey,
			Digest:        digest,
			Checks:        result,
		}
		encoded, err := json.MarshalIndent(manifest, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode manifest: %w", err)
		}
		if _, err := dest.Put(ctx, manifestKey, bytes.NewReader(encoded), blob.PutOptions{
			ContentType: "application/json",
			Metadata:    map[string]string{"digest": digest},
		}); err != nil {
			return "", fmt.Errorf("write manifest object: %w", err)
		}
		return digest, nil
	})
	return manifest, err
}

// instrument wraps an operation with timing, tracing, metrics, logging, and
// audit recording. The callback returns the audit detail for the entry.
func (s *Service) instrument(ctx context.Context, operation string, fn func(context.Context) (string, error)) error {
	start := s.clock.Now()
	ctx, span := s.tracer.Start(ctx, operation)
	detail, err := fn(ctx)
	duration := s.clock.Now().Sub(start)
	span.End(err)
	s.metrics.Observe(ctx, operation, err == nil, duration)
	if err != nil {
		s.logger.Error("operation failed", "operation", operation, "error", err)
		s.recordAuditError(ctx, operation, err, duration)
		return err
	}
	s.logger.Debug("operation completed", "operation", operation, "duration", duration)
	s.recordAuditSuccess(ctx, operation, detail, duration)
	return nil
}

func (s *Service) recordAuditSuccess(ctx context.Context, operation, detail string, duration time.Duration) {
	subject, ok := auditSubjects[operation]
	if !ok {
		return
	}
	s.audit.Record(ctx, AuditEntry{
		Operation: operation,
		Subject:   subject,
		Detail:    detail,
		Status:    AuditStatusSuccess,
		Duration:  duration,
		Timestamp: s.clock.Now(),
	})
}

func (s *Service) recordAuditError(ctx context.Context, operation string, opErr error, duration time.Duration) {
	subject, ok := auditSubjects[operation]
	if !ok {
		return
	}
	s.audit.Record(ctx, AuditEntry{
		Operation: operation,
		Subject:   subject,
		Detail:    opErr.Error(),
		Status:    AuditStatusError,
		Duration:  duration,
		Timestamp: s.clock.Now(),
	})
}
