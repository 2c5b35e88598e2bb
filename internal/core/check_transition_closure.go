package core

import (
	"context"
	"fmt"

	"chemcore/pkg/chem"
)

// NewTransitionClosureCheck returns the check verifying that every ladder edge
// lands on a registered entry one rung away, and that entries outside a ladder
// stay outside in both directions.
func NewTransitionClosureCheck() chem.Check {
	return transitionClosureCheck{}
}

type transitionClosureCheck struct{}

func (transitionClosureCheck) Name() string { return "transition_closure" }

func (c transitionClosureCheck) Evaluate(_ context.Context, _ chem.RegistrySnapshot) (chem.CheckResult, error) {
	var res chem.CheckResult

	for _, s := range chem.ElectronStates() {
		if next, ok := chem.RadicalSuccessor(s.Label()); ok {
			if _, registered := chem.FindElectronState(next.Label()); !registered {
				res.Violations = append(res.Violations, c.violation(s.Label(),
					fmt.Sprintf("successor %s is not registered", next.Label())))
			} else if next.Order() != s.Order()+1 {
				res.Violations = append(res.Violations, c.violation(s.Label(),
					fmt.Sprintf("successor %s skips from order %d to %d", next.Label(), s.Order(), next.Order())))
			}
		}
		if prev, ok := chem.RadicalPredecessor(s.Label()); ok {
			if _, registered := chem.FindElectronState(prev.Label()); !registered {
				res.Violations = append(res.Violations, c.violation(s.Label(),
					fmt.Sprintf("predecessor %s is not registered", prev.Label())))
			} else if prev.Order() != s.Order()-1 {
				res.Violations = append(res.Violations, c.violation(s.Label(),
					fmt.Sprintf("predecessor %s skips from order %d to %d", prev.Label(), s.Order(), prev.Order())))
			}
		}
	}
	if _, ok := chem.RadicalSuccessor("4"); ok {
		res.Violations = append(res.Violations, c.violation("4", "ceiling state has a successor"))
	}
	if _, ok := chem.RadicalPredecessor("0"); ok {
		res.Violations = append(res.Violations, c.violation("0", "ground state has a predecessor"))
	}

	ladder := map[string]bool{"S": true, "D": true, "T": true}
	for _, b := range chem.BondTypes() {
		next, upOK := chem.OrderSuccessor(b.Label())
		prev, downOK := chem.OrderPredecessor(b.Label())
		if !ladder[b.Label()] {
			if upOK || downOK {
				res.Violations = append(res.Violations, c.violation(b.Label(), "entry outside the order ladder has a transition"))
			}
			continue
		}
		if upOK {
			if !ladder[next.Label()] {
				res.Violations = append(res.Violations, c.violation(b.Label(),
					fmt.Sprintf("successor %s leaves the order ladder", next.Label())))
			} else if next.Order() != b.Order()+1 {
				res.Violations = append(res.Violations, c.violation(b.Label(),
					fmt.Sprintf("successor %s skips from order %g to %g", next.Label(), b.Order(), next.Order())))
			} else if back, ok := chem.OrderPredecessor(next.Label()); !ok || back != b {
				res.Violations = append(res.Violations, c.violation(b.Label(),
					fmt.Sprintf("successor %s does not step back", next.Label())))
			}
		}
		if downOK {
			if !ladder[prev.Label()] {
				res.Violations = append(res.Violations, c.violation(b.Label(),
					fmt.Sprintf("predecessor %s leaves the order ladder", prev.Label())))
			} else if prev.Order() != b.Order()-1 {
				res.Violations = append(res.Violations, c.violation(b.Label(),
					fmt.Sprintf("predecessor %s skips from order %g to %g", prev.Label(), b.Order(), prev.Order())))
			}
		}
	}

	return res, nil
}

func (transitionClosureCheck) violation(subject, message string) chem.Violation {
	return chem.Violation{
		Check:    "transition_closure",
		Severity: chem.SeverityBlock,
		Subject:  subject,
		Message:  message,
	}
}
