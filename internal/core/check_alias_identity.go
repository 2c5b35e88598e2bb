package core

import (
	"context"
	"fmt"
	"strconv"

	"chemcore/pkg/chem"
)

// NewAliasIdentityCheck returns the check verifying that every published alias
// resolves to the one registered instance for its entry.
func NewAliasIdentityCheck() chem.Check {
	return aliasIdentityCheck{}
}

type aliasIdentityCheck struct{}

func (aliasIdentityCheck) Name() string { return "alias_identity" }

func (c aliasIdentityCheck) Evaluate(_ context.Context, snapshot chem.RegistrySnapshot) (chem.CheckResult, error) {
	var res chem.CheckResult

	for _, rec := range snapshot.Elements {
		canonical, ok := chem.FindElement(rec.Number)
		if !ok {
			res.Violations = append(res.Violations, c.violation(rec.Symbol,
				fmt.Sprintf("element number %d does not resolve", rec.Number)))
			continue
		}
		for _, alias := range rec.Aliases {
			resolved, ok := lookupElementAlias(alias)
			if !ok {
				res.Violations = append(res.Violations, c.violation(rec.Symbol,
					fmt.Sprintf("alias %q does not resolve", alias)))
				continue
			}
			if resolved != canonical {
				res.Violations = append(res.Violations, c.violation(rec.Symbol,
					fmt.Sprintf("alias %q resolves to a different instance", alias)))
			}
		}
	}

	for _, rec := range snapshot.AtomTypes {
		if _, ok := chem.FindAtomType(rec.Key); !ok {
			res.Violations = append(res.Violations, c.violation(rec.Key, "key does not resolve"))
		}
	}

	for _, rec := range snapshot.ElectronStates {
		if _, ok := chem.FindElectronState(rec.Label); !ok {
			res.Violations = append(res.Violations, c.violation(rec.Label, "label does not resolve"))
		}
	}

	for _, rec := range snapshot.BondTypes {
		canonical, ok := chem.FindBondType(rec.Label)
		if !ok {
			res.Violations = append(res.Violations, c.violation(rec.Label, "label does not resolve"))
			continue
		}
		for _, alias := range rec.Aliases {
			resolved, ok := lookupBondAlias(alias)
			if !ok {
				res.Violations = append(res.Violations, c.violation(rec.Label,
					fmt.Sprintf("alias %q does not resolve", alias)))
				continue
			}
			if resolved != canonical {
				res.Violations = append(res.Violations, c.violation(rec.Label,
					fmt.Sprintf("alias %q resolves to a different instance", alias)))
			}
		}
	}

	return res, nil
}

func (aliasIdentityCheck) violation(subject, message string) chem.Violation {
	return chem.Violation{
		Check:    "alias_identity",
		Severity: chem.SeverityBlock,
		Subject:  subject,
		Message:  message,
	}
}

// lookupElementAlias resolves a snapshot alias, trying the numeric form first
// so stringified atomic numbers hit the number index.
func lookupElementAlias(alias string) (*chem.Element, bool) {
	if n, err := strconv.Atoi(alias); err == nil {
		return chem.FindElement(n)
	}
	return chem.FindElement(alias)
}

func lookupBondAlias(alias string) (*chem.BondType, bool) {
	if order, err := strconv.ParseFloat(alias, 64); err == nil {
		if bt, ok := chem.FindBondType(order); ok {
			return bt, true
		}
	}
	return chem.FindBondType(alias)
}
