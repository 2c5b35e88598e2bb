package chem

import "fmt"

// Atom represents an atom in a chemical species or functional group. Its
// atom type and electron state are candidate lists: a concrete atom holds
// exactly one of each, while a pattern atom may hold several and matches
// existentially. The zero value is not usable; construct atoms with NewAtom
// or NewAtomFromArgs.
//
// Atoms carry no internal synchronization. The enclosing graph is expected
// to serialize mutations, typically by holding the graph exclusively while
// a transformation is applied.
type Atom struct {
	atomTypes      []*AtomType
	electronStates []*ElectronState
	charge         int
	label          string

	// Connectivity holds extended-connectivity scratch values written by
	// graph algorithms (Morgan 1965). The atom itself never reads or
	// interprets these slots, and Copy resets them.
	Connectivity [3]int
}

// NewAtom constructs an atom. atomTypes accepts a registry key (string), an
// *AtomType, or a non-empty slice of either ([]string, []*AtomType, or
// []any); electronStates accepts the same shapes over labels and
// *ElectronState values. charge is the formal charge, zero throughout this
// domain. label tags center atoms and reactive sites; empty means untagged.
func NewAtom(atomTypes, electronStates any, charge int, label string) (*Atom, error) {
	types, err := normalizeAtomTypes(atomTypes)
	if err != nil {
		return nil, err
	}
	states, err := normalizeElectronStates(electronStates)
	if err != nil {
		return nil, err
	}
	return &Atom{atomTypes: types, electronStates: states, charge: charge, label: label}, nil
}

func normalizeAtomTypes(v any) ([]*AtomType, error) {
	var out []*AtomType
	add := func(item any) error {
		switch it := item.(type) {
		case string:
			t, ok := FindAtomType(it)
			if !ok {
				return ConfigurationError{Field: "atom type", Value: it}
			}
			out = append(out, t)
		case *AtomType:
			if it == nil {
				return ConfigurationError{Field: "atom type", Value: it}
			}
			out = append(out, it)
		default:
			return ConfigurationError{Field: "atom type", Value: item}
		}
		return nil
	}
	switch list := v.(type) {
	case []string:
		for _, item := range list {
			if err := add(item); err != nil {
				return nil, err
			}
		}
	case []*AtomType:
		for _, item := range list {
			if err := add(item); err != nil {
				return nil, err
			}
		}
	case []any:
		for _, item := range list {
			if err := add(item); err != nil {
				return nil, err
			}
		}
	default:
		if err := add(v); err != nil {
			return nil, err
		}
	}
	if len(out) == 0 {
		return nil, ConfigurationError{Field: "atom type", Value: v}
	}
	return out, nil
}

func normalizeElectronStates(v any) ([]*ElectronState, error) {
	var out []*ElectronState
	add := func(item any) error {
		switch it := item.(type) {
		case string:
			s, ok := FindElectronState(it)
			if !ok {
				return ConfigurationError{Field: "electron state", Value: it}
			}
			out = append(out, s)
		case *ElectronState:
			if it == nil {
				return ConfigurationError{Field: "electron state", Value: it}
			}
			out = append(out, it)
		default:
			return ConfigurationError{Field: "electron state", Value: item}
		}
		return nil
	}
	switch list := v.(type) {
	case []string:
		for _, item := range list {
			if err := add(item); err != nil {
				return nil, err
			}
		}
	case []*ElectronState:
		for _, item := range list {
			if err := add(item); err != nil {
				return nil, err
			}
		}
	case []any:
		for _, item := range list {
			if err := add(item); err != nil {
				return nil, err
			}
		}
	default:
		if err := add(v); err != nil {
			return nil, err
		}
	}
	if len(out) == 0 {
		return nil, ConfigurationError{Field: "electron state", Value: v}
	}
	return out, nil
}

// AtomTypes returns a copy of the candidate atom type list.
func (a *Atom) AtomTypes() []*AtomType {
	return append([]*AtomType(nil), a.atomTypes...)
}

// ElectronStates returns a copy of the candidate electron state list.
func (a *Atom) ElectronStates() []*ElectronState {
	return append([]*ElectronState(nil), a.electronStates...)
}

// ResolvedType returns the atom type when exactly one candidate is present.
func (a *Atom) ResolvedType() (*AtomType, bool) {
	if len(a.atomTypes) != 1 {
		return nil, false
	}
	return a.atomTypes[0], true
}

// ResolvedState returns the electron state when exactly one candidate is
// present.
func (a *Atom) ResolvedState() (*ElectronState, bool) {
	if len(a.electronStates) != 1 {
		return nil, false
	}
	return a.electronStates[0], true
}

// Charge returns the formal charge of the atom.
func (a *Atom) Charge() int { return a.charge }

// Label returns the tag marking the atom as a center or reactive site.
func (a *Atom) Label() string { return a.label }

// Equivalent reports whether two atoms match: some pair drawn from the two
// candidate atom type lists must be equivalent AND some pair drawn from the
// two candidate electron state lists must be equivalent.
func (a *Atom) Equivalent(other *Atom) bool {
	return anyAtomTypePair(a.atomTypes, other.atomTypes) &&
		anyElectronStatePair(a.electronStates, other.electronStates)
}

func anyAtomTypePair(left, right []*AtomType) bool {
	for _, lt := range left {
		for _, rt := range right {
			if lt.Equivalent(rt) {
				return true
			}
		}
	}
	return false
}

func anyElectronStatePair(left, right []*ElectronState) bool {
	for _, ls := range left {
		for _, rs := range right {
			if ls.Equivalent(rs) {
				return true
			}
		}
	}
	return false
}

// Copy returns an independent copy of the atom. The candidate lists are
// fresh slices over the shared registry singletons and the connectivity
// scratch starts zeroed.
func (a *Atom) Copy() *Atom {
	return &Atom{
		atomTypes:      append([]*AtomType(nil), a.atomTypes...),
		electronStates: append([]*ElectronState(nil), a.electronStates...),
		charge:         a.charge,
		label:          a.label,
	}
}

// IsCenter reports whether the atom carries any label.
func (a *Atom) IsCenter() bool { return len(a.label) > 0 }

// Element returns the element the atom represents. It reports false when
// the atom type is ambiguous or a wildcard.
func (a *Atom) Element() (*Element, bool) {
	t, ok := a.ResolvedType()
	if !ok || t.element == nil {
		return nil, false
	}
	return t.element, true
}

// IsElement reports whether the atom resolves to the element with the given
// symbol. Ambiguous and wildcard atoms report false.
func (a *Atom) IsElement(symbol string) bool {
	e, ok := a.Element()
	if !ok {
		return false
	}
	reference, ok := FindElement(symbol)
	return ok && e == reference
}

// IsHydrogen reports whether the atom is a hydrogen atom.
func (a *Atom) IsHydrogen() bool { return a.IsElement("H") }

// IsCarbon reports whether the atom is a carbon atom.
func (a *Atom) IsCarbon() bool { return a.IsElement("C") }

// IsOxygen reports whether the atom is an oxygen atom.
func (a *Atom) IsOxygen() bool { return a.IsElement("O") }

// IsNonHydrogen reports whether the atom is anything other than hydrogen.
func (a *Atom) IsNonHydrogen() bool { return !a.IsHydrogen() }

// HasFreeElectron reports whether the atom has one or more unpaired
// electrons. Atoms with an ambiguous electron state report false.
func (a *Atom) HasFreeElectron() bool {
	n, ok := a.FreeElectronCount()
	return ok && n > 0
}

// FreeElectronCount returns the number of unpaired electrons when exactly
// one candidate electron state is present.
func (a *Atom) FreeElectronCount() (int, bool) {
	s, ok := a.ResolvedState()
	if !ok {
		return 0, false
	}
	return s.order, true
}

// CanIncreaseFreeElectron reports whether IncreaseFreeElectron would
// succeed: a resolved electron state below the four-electron ceiling.
func (a *Atom) CanIncreaseFreeElectron() bool {
	s, ok := a.ResolvedState()
	if !ok {
		return false
	}
	_, ok = RadicalSuccessor(s.label)
	return ok
}

// CanDecreaseFreeElectron reports whether DecreaseFreeElectron would
// succeed: a resolved electron state with at least one unpaired electron.
func (a *Atom) CanDecreaseFreeElectron() bool {
	s, ok := a.ResolvedState()
	if !ok {
		return false
	}
	_, ok = RadicalPredecessor(s.label)
	return ok
}

// IncreaseFreeElectron adds one unpaired electron, stepping the state along
// 0, 1, 2, 3, 4; the 2S and 2T biradicals both step to 3. At the ceiling it
// returns a ChemicalValidityError and leaves the atom unchanged. Calling it
// on an atom with an ambiguous electron state panics.
func (a *Atom) IncreaseFreeElectron() error {
	s := a.mustResolvedState("IncreaseFreeElectron")
	next, ok := RadicalSuccessor(s.label)
	if !ok {
		return ChemicalValidityError{Op: "increase free electron count", State: s.label}
	}
	a.electronStates = []*ElectronState{next}
	return nil
}

// DecreaseFreeElectron removes one unpaired electron, mirroring
// IncreaseFreeElectron; every member of the "2" family steps to 1. At the
// floor it returns a ChemicalValidityError and leaves the atom unchanged.
// Calling it on an atom with an ambiguous electron state panics.
func (a *Atom) DecreaseFreeElectron() error {
	s := a.mustResolvedState("DecreaseFreeElectron")
	prev, ok := RadicalPredecessor(s.label)
	if !ok {
		return ChemicalValidityError{Op: "decrease free electron count", State: s.label}
	}
	a.electronStates = []*ElectronState{prev}
	return nil
}

func (a *Atom) mustResolvedState(op string) *ElectronState {
	s, ok := a.ResolvedState()
	if !ok {
		panic(fmt.Sprintf("chem: %s requires a resolved electron state, atom holds %d candidates", op, len(a.electronStates)))
	}
	return s
}
