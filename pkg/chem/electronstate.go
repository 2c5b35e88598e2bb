package chem

import "fmt"

// ElectronState describes the unpaired-electron count of an atom together
// with its allowed spin multiplicities. A single canonical instance exists
// per label.
type ElectronState struct {
	label string
	order int
	spin  []int
}

// Label returns the state label.
func (s *ElectronState) Label() string { return s.label }

// Order returns the number of unpaired electrons.
func (s *ElectronState) Order() int { return s.order }

// Spin returns a copy of the allowed spin multiplicities
// (singlet = 1, doublet = 2, triplet = 3, ...).
func (s *ElectronState) Spin() []int { return append([]int(nil), s.spin...) }

func (s *ElectronState) String() string { return s.label }

// Equivalent reports whether two electron states match. The biradical
// wildcard "2" matches "2", "2S", and "2T" in either direction; all other
// pairs require exact label equality, so "2S" and "2T" do not match each
// other.
func (s *ElectronState) Equivalent(other *ElectronState) bool {
	if s.label == "2" && (other.label == "2" || other.label == "2S" || other.label == "2T") {
		return true
	}
	if (s.label == "2" || s.label == "2S" || s.label == "2T") && other.label == "2" {
		return true
	}
	return s.label == other.label
}

type electronStateRegistry struct {
	ordered []*ElectronState
	byLabel map[string]*ElectronState
}

var electronStates = loadElectronStates()

func loadElectronStates() electronStateRegistry {
	r := electronStateRegistry{byLabel: make(map[string]*ElectronState)}
	add := func(label string, order int, spin ...int) {
		s := &ElectronState{label: label, order: order, spin: spin}
		r.ordered = append(r.ordered, s)
		r.byLabel[label] = s
	}

	add("0", 0, 1)
	add("1", 1, 2)
	add("2", 2, 1, 3)
	add("2S", 2, 1)
	add("2T", 2, 3)
	add("3", 3, 2, 4)
	add("4", 4, 1, 3, 5)
	return r
}

// radicalIncrease maps a state label to the state reached by adding one
// unpaired electron. Labels absent from the map are at the ceiling. The
// singlet and triplet biradicals both collapse onto the generic "3".
var radicalIncrease = map[string]string{
	"0":  "1",
	"1":  "2",
	"2":  "3",
	"2S": "3",
	"2T": "3",
	"3":  "4",
}

// radicalDecrease mirrors radicalIncrease; every member of the "2" family
// steps down to "1". Labels absent from the map are at the floor.
var radicalDecrease = map[string]string{
	"1":  "0",
	"2":  "1",
	"2S": "1",
	"2T": "1",
	"3":  "2",
	"4":  "3",
}

// RadicalSuccessor returns the electron state reached by adding one
// unpaired electron to the state labelled label, or false when the label is
// at the ceiling or unknown.
func RadicalSuccessor(label string) (*ElectronState, bool) {
	next, ok := radicalIncrease[label]
	if !ok {
		return nil, false
	}
	return MustElectronState(next), true
}

// RadicalPredecessor returns the electron state reached by removing one
// unpaired electron, or false when the label is at the floor or unknown.
func RadicalPredecessor(label string) (*ElectronState, bool) {
	prev, ok := radicalDecrease[label]
	if !ok {
		return nil, false
	}
	return MustElectronState(prev), true
}

// FindElectronState resolves an electron state by label.
func FindElectronState(label string) (*ElectronState, bool) {
	s, ok := electronStates.byLabel[label]
	return s, ok
}

// MustElectronState resolves like FindElectronState and panics on an
// unknown label.
func MustElectronState(label string) *ElectronState {
	s, ok := FindElectronState(label)
	if !ok {
		panic(fmt.Sprintf("chem: unknown electron state %q", label))
	}
	return s
}

// ElectronStates returns the seeded electron states in registration order.
func ElectronStates() []*ElectronState {
	return append([]*ElectronState(nil), electronStates.ordered...)
}
