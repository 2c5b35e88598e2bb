package chem

import "fmt"

// ConfigurationError reports a constructor argument that could not be
// resolved against the registries: an unknown alias, a nil object, or a
// value of an unsupported kind. It always indicates a caller bug.
type ConfigurationError struct {
	Field string
	Value any
}

func (e ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s argument %v (%T)", e.Field, e.Value, e.Value)
}

// ChemicalValidityError reports a radical-count or bond-order transition
// outside its defined range, such as adding a fifth unpaired electron or
// raising the order of a triple bond. Callers applying a transformation are
// expected to treat it as a rejection of that transformation.
type ChemicalValidityError struct {
	Op    string
	State string
}

func (e ChemicalValidityError) Error() string {
	return fmt.Sprintf("cannot %s from %q", e.Op, e.State)
}
