package chem

import (
	"context"
	"errors"
	"testing"
)

type stubCheck struct {
	name   string
	result CheckResult
	err    error
}

func (c stubCheck) Name() string { return c.name }

func (c stubCheck) Evaluate(_ context.Context, _ RegistrySnapshot) (CheckResult, error) {
	return c.result, c.err
}

func TestCheckResultMergeAndBlocking(t *testing.T) {
	var result CheckResult
	if result.HasBlocking() {
		t.Fatalf("expected empty result not to block")
	}

	result.Merge(CheckResult{Violations: []Violation{{
		Check:    "labels",
		Severity: SeverityWarn,
		Subject:  "Sid",
		Message:  "label differs from key",
	}}})
	if result.HasBlocking() {
		t.Fatalf("expected warn-only result not to block")
	}

	result.Merge(CheckResult{Violations: []Violation{{
		Check:    "identity",
		Severity: SeverityBlock,
		Subject:  "C",
		Message:  "alias resolved to a second instance",
	}}})
	if !result.HasBlocking() {
		t.Fatalf("expected blocking violation to block")
	}
	if len(result.Violations) != 2 {
		t.Fatalf("got %d violations after merge, expected 2", len(result.Violations))
	}
}

func TestCheckEngineAggregatesResults(t *testing.T) {
	engine := NewCheckEngine()
	engine.Register(stubCheck{name: "first", result: CheckResult{Violations: []Violation{
		{Check: "first", Severity: SeverityLog, Subject: "R", Message: "wildcard element has no name"},
	}}})
	engine.Register(stubCheck{name: "second", result: CheckResult{Violations: []Violation{
		{Check: "second", Severity: SeverityWarn, Subject: "Sid", Message: "label differs from key"},
	}}})

	if len(engine.Checks()) != 2 {
		t.Fatalf("got %d registered checks, expected 2", len(engine.Checks()))
	}

	result, err := engine.Evaluate(context.Background(), BuildRegistrySnapshot())
	if err != nil {
		t.Fatalf("evaluate checks: %v", err)
	}
	if len(result.Violations) != 2 {
		t.Fatalf("got %d violations, expected 2", len(result.Violations))
	}
	if result.HasBlocking() {
		t.Fatalf("expected log and warn violations not to block")
	}
}

func TestCheckEngineStopsOnEvaluationError(t *testing.T) {
	boom := errors.New("snapshot unavailable")
	engine := NewCheckEngine()
	engine.Register(stubCheck{name: "broken", err: boom})
	engine.Register(stubCheck{name: "unreached", result: CheckResult{Violations: []Violation{
		{Check: "unreached", Severity: SeverityBlock},
	}}})

	result, err := engine.Evaluate(context.Background(), BuildRegistrySnapshot())
	if !errors.Is(err, boom) {
		t.Fatalf("expected evaluation error, got %v", err)
	}
	if len(result.Violations) != 0 {
		t.Fatalf("expected no violations from an aborted run, got %+v", result.Violations)
	}
}

func TestCheckViolationErrorMessage(t *testing.T) {
	err := CheckViolationError{Result: CheckResult{Violations: []Violation{
		{Check: "identity", Severity: SeverityBlock, Subject: "C", Message: "duplicate"},
	}}}
	if err.Error() != "registry blocked by check violations" {
		t.Fatalf("got message %q", err.Error())
	}
}
