package chem

import "fmt"

// BondType describes a bond's numeric order, pi-electron count, and
// optional geometric qualifier. A single canonical instance exists per
// label; S, D, T, and B are additionally aliased by name and numeric order.
type BondType struct {
	label       string
	name        string
	order       float64
	piElectrons int
	location    string
}

// Label returns the short label (S, D, Dcis, Dtrans, T, B).
func (t *BondType) Label() string { return t.label }

// Name returns the long name (single, double, ...).
func (t *BondType) Name() string { return t.name }

// Order returns the numeric bond order: 1, 2, 3, or 1.5 for benzene.
func (t *BondType) Order() float64 { return t.order }

// PiElectrons returns the number of pi electrons contributing to the bond.
func (t *BondType) PiElectrons() int { return t.piElectrons }

// Location returns the geometric qualifier ("cis" or "trans") or an empty
// string for bonds without one.
func (t *BondType) Location() string { return t.location }

func (t *BondType) String() string { return t.label }

// Equivalent reports whether two bond types match. Matching is strict label
// equality: no wildcard or order-based fuzziness, so D does not match Dcis
// or Dtrans even though all three have order 2.
func (t *BondType) Equivalent(other *BondType) bool {
	return t.label == other.label
}

type bondTypeRegistry struct {
	ordered []*BondType
	byAlias map[string]*BondType
	byOrder map[float64]*BondType
}

var bondTypes = loadBondTypes()

func loadBondTypes() bondTypeRegistry {
	r := bondTypeRegistry{
		byAlias: make(map[string]*BondType),
		byOrder: make(map[float64]*BondType),
	}
	add := func(label, name string, order float64, piElectrons int, location string) {
		t := &BondType{label: label, name: name, order: order, piElectrons: piElectrons, location: location}
		r.ordered = append(r.ordered, t)
		r.byAlias[label] = t
		// cis/trans variants are reachable by label only; the order and
		// name aliases belong to the plain variant of the same order.
		if location == "" {
			r.byAlias[name] = t
			r.byOrder[order] = t
		}
	}

	add("S", "single", 1, 0, "")
	add("D", "double", 2, 2, "")
	add("Dcis", "double_cis", 2, 2, "cis")
	add("Dtrans", "double_trans", 2, 2, "trans")
	add("T", "triple", 3, 4, "")
	add("B", "benzene", 1.5, 1, "")
	return r
}

// orderIncrease maps a bond type label to the label reached by raising the
// order by one. Only the plain single/double/triple ladder participates;
// benzene, cis, and trans bonds are absent on purpose.
var orderIncrease = map[string]string{
	"S": "D",
	"D": "T",
}

// orderDecrease mirrors orderIncrease.
var orderDecrease = map[string]string{
	"T": "D",
	"D": "S",
}

// OrderSuccessor returns the bond type reached by raising the order of the
// bond type labelled label by one, or false when no such transition exists.
func OrderSuccessor(label string) (*BondType, bool) {
	next, ok := orderIncrease[label]
	if !ok {
		return nil, false
	}
	return MustBondType(next), true
}

// OrderPredecessor returns the bond type reached by lowering the order by
// one, or false when no such transition exists.
func OrderPredecessor(label string) (*BondType, bool) {
	prev, ok := orderDecrease[label]
	if !ok {
		return nil, false
	}
	return MustBondType(prev), true
}

// FindBondType resolves a bond type by alias: a label or name (string) or a
// numeric order (int or float64; 1.5 selects benzene). It reports false for
// unknown aliases and for alias values of any other type.
func FindBondType(alias any) (*BondType, bool) {
	switch v := alias.(type) {
	case string:
		t, ok := bondTypes.byAlias[v]
		return t, ok
	case int:
		t, ok := bondTypes.byOrder[float64(v)]
		return t, ok
	case float64:
		t, ok := bondTypes.byOrder[v]
		return t, ok
	}
	return nil, false
}

// MustBondType resolves like FindBondType and panics on an unknown alias.
func MustBondType(alias any) *BondType {
	t, ok := FindBondType(alias)
	if !ok {
		panic(fmt.Sprintf("chem: unknown bond type alias %v", alias))
	}
	return t
}

// BondTypes returns the seeded bond types in registration order.
func BondTypes() []*BondType {
	return append([]*BondType(nil), bondTypes.ordered...)
}
