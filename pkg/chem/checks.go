package chem

import "context"

// Severity indicates how a check violation should be treated by callers.
type Severity string

const (
	// SeverityBlock marks violations that must stop dependent work.
	SeverityBlock Severity = "block"
	// SeverityWarn marks violations that should be surfaced but tolerated.
	SeverityWarn Severity = "warn"
	// SeverityLog marks informational findings.
	SeverityLog Severity = "log"
)

// Violation reports a single check finding against the registries.
type Violation struct {
	Check    string   `json:"check"`
	Severity Severity `json:"severity"`
	Subject  string   `json:"subject"`
	Message  string   `json:"message"`
}

// CheckResult aggregates violations from one or more checks.
type CheckResult struct {
	Violations []Violation `json:"violations,omitempty"`
}

// Merge appends violations from another result.
func (r *CheckResult) Merge(other CheckResult) {
	if len(other.Violations) == 0 {
		return
	}
	r.Violations = append(r.Violations, other.Violations...)
}

// HasBlocking reports whether the result contains blocking violations.
func (r CheckResult) HasBlocking() bool {
	for _, v := range r.Violations {
		if v.Severity == SeverityBlock {
			return true
		}
	}
	return false
}

// Check inspects the registries, or their externalized snapshot, for one
// class of defects.
type Check interface {
	Name() string
	Evaluate(ctx context.Context, snapshot RegistrySnapshot) (CheckResult, error)
}

// CheckEngine orchestrates check evaluation.
type CheckEngine struct {
	checks []Check
}

// NewCheckEngine constructs an empty engine.
func NewCheckEngine() *CheckEngine {
	return &CheckEngine{}
}

// Register appends a check to the engine.
func (e *CheckEngine) Register(check Check) {
	e.checks = append(e.checks, check)
}

// Checks returns the registered checks in evaluation order.
func (e *CheckEngine) Checks() []Check {
	return append([]Check(nil), e.checks...)
}

// Evaluate executes all registered checks and aggregates their results.
func (e *CheckEngine) Evaluate(ctx context.Context, snapshot RegistrySnapshot) (CheckResult, error) {
	var combined CheckResult
	for _, check := range e.checks {
		res, err := check.Evaluate(ctx, snapshot)
		if err != nil {
			return CheckResult{}, err
		}
		combined.Merge(res)
	}
	return combined, nil
}

// CheckViolationError is returned when blocking violations are present.
type CheckViolationError struct {
	Result CheckResult
}

func (e CheckViolationError) Error() string {
	return "registry blocked by check violations"
}
