package core

import (
	"context"
	"fmt"

	"chemcore/pkg/chem"
)

// NewEquivalenceLawsCheck returns the check verifying the matching laws the
// registries promise: reflexivity, symmetry, wildcard coverage, and the
// biradical family structure.
func NewEquivalenceLawsCheck() chem.Check {
	return equivalenceLawsCheck{}
}

type equivalenceLawsCheck struct{}

func (equivalenceLawsCheck) Name() string { return "equivalence_laws" }

func (c equivalenceLawsCheck) Evaluate(_ context.Context, _ chem.RegistrySnapshot) (chem.CheckResult, error) {
	var res chem.CheckResult

	universal := chem.MustAtomType("R")
	nonHydrogen := chem.MustAtomType("R!H")
	hydrogen := chem.MustAtomType("H")
	atomTypes := chem.AtomTypes()

	for _, at := range atomTypes {
		if !at.Equivalent(at) {
			res.Violations = append(res.Violations, c.violation(at.Key(), "not equivalent to itself"))
		}
		if !universal.Equivalent(at) || !at.Equivalent(universal) {
			res.Violations = append(res.Violations, c.violation(at.Key(), "universal wildcard does not cover it"))
		}
		wantNonH := at != hydrogen
		if nonHydrogen.Equivalent(at) != wantNonH || at.Equivalent(nonHydrogen) != wantNonH {
			res.Violations = append(res.Violations, c.violation(at.Key(), "non-hydrogen wildcard misclassifies it"))
		}
		for _, other := range atomTypes {
			if at.Equivalent(other) != other.Equivalent(at) {
				res.Violations = append(res.Violations, c.violation(at.Key(),
					fmt.Sprintf("asymmetric match against %s", other.Key())))
			}
		}
	}

	states := chem.ElectronStates()
	generic := chem.MustElectronState("2")
	for _, s := range states {
		if !s.Equivalent(s) {
			res.Violations = append(res.Violations, c.violation(s.Label(), "not equivalent to itself"))
		}
		for _, other := range states {
			if s.Equivalent(other) != other.Equivalent(s) {
				res.Violations = append(res.Violations, c.violation(s.Label(),
					fmt.Sprintf("asymmetric match against %s", other.Label())))
			}
		}
		wantGeneric := s.Order() == 2
		if generic.Equivalent(s) != wantGeneric {
			res.Violations = append(res.Violations, c.violation(s.Label(), "generic biradical family misclassifies it"))
		}
	}
	singlet := chem.MustElectronState("2S")
	triplet := chem.MustElectronState("2T")
	if singlet.Equivalent(triplet) || triplet.Equivalent(singlet) {
		res.Violations = append(res.Violations, c.violation("2S", "matches 2T though spin multiplicities differ"))
	}

	for _, b := range chem.BondTypes() {
		for _, other := range chem.BondTypes() {
			want := b.Label() == other.Label()
			if b.Equivalent(other) != want {
				res.Violations = append(res.Violations, c.violation(b.Label(),
					fmt.Sprintf("label equality broken against %s", other.Label())))
			}
		}
	}

	return res, nil
}

func (equivalenceLawsCheck) violation(subject, message string) chem.Violation {
	return chem.Violation{
		Check:    "equivalence_laws",
		Severity: chem.SeverityBlock,
		Subject:  subject,
		Message:  message,
	}
}
