// Package core wires the chemical registries to verification checks,
// snapshot persistence, and bundle export.
package core

import "chemcore/pkg/chem"

// DefaultChecks returns the built-in verification set in registration order.
func DefaultChecks() []Check {
	return []Check{
		NewAliasIdentityCheck(),
		NewEquivalenceLawsCheck(),
		NewTransitionClosureCheck(),
		NewLabelParityCheck(),
	}
}

// NewDefaultCheckEngine builds a check engine with the built-in verification set.
func NewDefaultCheckEngine() *CheckEngine {
	engine := chem.NewCheckEngine()
	for _, check := range DefaultChecks() {
		engine.Register(check)
	}
	return engine
}
