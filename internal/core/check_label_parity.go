package core

import (
	"context"
	"fmt"

	"chemcore/pkg/chem"
)

// NewLabelParityCheck returns the check reporting entries whose display label
// differs from their registry key. The upstream value tables ship one such
// entry, so the findings are advisory rather than blocking.
func NewLabelParityCheck() chem.Check {
	return labelParityCheck{}
}

type labelParityCheck struct{}

func (labelParityCheck) Name() string { return "label_parity" }

func (labelParityCheck) Evaluate(_ context.Context, snapshot chem.RegistrySnapshot) (chem.CheckResult, error) {
	var res chem.CheckResult

	for _, rec := range snapshot.AtomTypes {
		if rec.Key != rec.Label {
			res.Violations = append(res.Violations, chem.Violation{
				Check:    "label_parity",
				Severity: chem.SeverityWarn,
				Subject:  rec.Key,
				Message:  fmt.Sprintf("display label %q differs from registry key %q", rec.Label, rec.Key),
			})
		}
	}

	for _, rec := range snapshot.Elements {
		if rec.Name == "" {
			res.Violations = append(res.Violations, chem.Violation{
				Check:    "label_parity",
				Severity: chem.SeverityLog,
				Subject:  rec.Symbol,
				Message:  "element has no chemical name",
			})
		}
	}

	return res, nil
}
