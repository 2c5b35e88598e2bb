package chem

import "fmt"

// AtomType combines an element with information about its local bonding
// structure, e.g. Cd is a carbon with one double bond and two single bonds.
// Wildcard types (R, R!H) carry no element. A single canonical instance
// exists per registry key.
type AtomType struct {
	key         string
	label       string
	element     *Element
	description string
}

// Key returns the registry lookup key. It differs from Label only for the
// Sid entry, whose label reads "Sids"; reaction templates reference the
// entry by key, so externalized atoms store keys rather than labels.
func (t *AtomType) Key() string { return t.key }

// Label returns the display label used by the equivalence rules.
func (t *AtomType) Label() string { return t.label }

// Element returns the owning element, or nil for wildcard types.
func (t *AtomType) Element() *Element { return t.element }

// Description returns the one-line description of the bonding context.
func (t *AtomType) Description() string { return t.description }

func (t *AtomType) String() string { return t.label }

// atomTypeRule is one step of the wildcard matching chain. It reports a
// verdict and whether the rule decided the pair; undecided pairs fall
// through to the next rule.
type atomTypeRule func(a, b *AtomType) (verdict, decided bool)

// atomTypeRules is evaluated in order until a rule decides. Wildcards are
// checked before the bare-element rule, so R and R!H win even when both
// operands also satisfy a later rule.
var atomTypeRules = []atomTypeRule{
	matchUniversalWildcard,
	matchNonHydrogenWildcard,
	matchBareElement,
	matchExactLabel,
}

// Equivalent reports whether two atom types match under the wildcard rules
// used by functional-group and reaction-template patterns. The relation is
// symmetric in its operands.
func (t *AtomType) Equivalent(other *AtomType) bool {
	for _, rule := range atomTypeRules {
		if verdict, decided := rule(t, other); decided {
			return verdict
		}
	}
	return false
}

func matchUniversalWildcard(a, b *AtomType) (bool, bool) {
	if a.label == "R" || b.label == "R" {
		return true, true
	}
	return false, false
}

func matchNonHydrogenWildcard(a, b *AtomType) (bool, bool) {
	if a.label == "R!H" {
		return b.label != "H", true
	}
	if b.label == "R!H" {
		return a.label != "H", true
	}
	return false, false
}

// matchBareElement matches a type labelled by its own element symbol (C, O,
// Si, ...) against any type of the same element regardless of bonding
// context. Types without an element never reach a verdict here.
func matchBareElement(a, b *AtomType) (bool, bool) {
	if a.element == nil || b.element == nil {
		return false, false
	}
	if a.label == a.element.symbol && a.element.symbol == b.element.symbol {
		return true, true
	}
	if b.label == b.element.symbol && b.element.symbol == a.element.symbol {
		return true, true
	}
	return false, false
}

func matchExactLabel(a, b *AtomType) (bool, bool) {
	if a.label == b.label {
		return true, true
	}
	return false, false
}

type atomTypeRegistry struct {
	ordered []*AtomType
	byKey   map[string]*AtomType
}

var atomTypes = loadAtomTypes()

func loadAtomTypes() atomTypeRegistry {
	r := atomTypeRegistry{byKey: make(map[string]*AtomType)}
	add := func(key, label string, element *Element, description string) {
		t := &AtomType{key: key, label: label, element: element, description: description}
		r.ordered = append(r.ordered, t)
		r.byKey[key] = t
	}

	add("H", "H", MustElement("H"), "hydrogen")
	add("C", "C", MustElement("C"), "carbon")
	add("N", "N", MustElement("N"), "nitrogen")
	add("O", "O", MustElement("O"), "oxygen")
	add("F", "F", MustElement("F"), "fluorine")
	add("Ne", "Ne", MustElement("Ne"), "neon")
	add("Si", "Si", MustElement("Si"), "silicon")
	add("P", "P", MustElement("P"), "phosphorus")
	add("S", "S", MustElement("S"), "sulfur")
	add("Cl", "Cl", MustElement("Cl"), "chlorine")
	add("Ar", "Ar", MustElement("Ar"), "argon")
	add("Br", "Br", MustElement("Br"), "bromine")
	add("I", "I", MustElement("I"), "iodine")
	add("R", "R", nil, "generic functional group")
	add("R!H", "R!H", nil, "generic non-hydrogen functional group")
	add("Ct", "Ct", MustElement("C"), "carbon with one triple bond and one single bond")
	add("Cs", "Cs", MustElement("C"), "carbon with four single bonds")
	add("Cd", "Cd", MustElement("C"), "carbon with one double bond and two single bonds")
	add("Cdd", "Cdd", MustElement("C"), "carbon with two double bonds")
	add("Cb", "Cb", MustElement("C"), "carbon belonging to a benzene ring")
	add("Cbf", "Cbf", MustElement("C"), "carbon belonging to a fused benzene ring")
	add("CO", "CO", MustElement("C"), "non-central carbon bonded with a double bond to a non-central oxygen")
	add("Os", "Os", MustElement("O"), "oxygen with two single bonds")
	add("Od", "Od", MustElement("O"), "oxygen with one double bond")
	add("Sit", "Sit", MustElement("Si"), "silicon with one triple bond and one single bond")
	add("Sis", "Sis", MustElement("Si"), "silicon with four single bonds")
	// Sid carries label "Sids" in the upstream value tables; the seed
	// contract keeps the mismatch rather than silently repairing it.
	add("Sid", "Sids", MustElement("Si"), "silicon with one double bond and two single bonds")
	add("Sidd", "Sidd", MustElement("Si"), "silicon with two double bonds")
	add("Sib", "Sib", MustElement("Si"), "silicon belonging to a benzene ring")
	add("Sibf", "Sibf", MustElement("Si"), "silicon belonging to a fused benzene ring")
	add("SiO", "SiO", MustElement("Si"), "non-central silicon bonded with a double bond to a non-central oxygen")
	return r
}

// FindAtomType resolves an atom type by registry key.
func FindAtomType(key string) (*AtomType, bool) {
	t, ok := atomTypes.byKey[key]
	return t, ok
}

// MustAtomType resolves like FindAtomType and panics on an unknown key.
func MustAtomType(key string) *AtomType {
	t, ok := FindAtomType(key)
	if !ok {
		panic(fmt.Sprintf("chem: unknown atom type %q", key))
	}
	return t
}

// AtomTypes returns the seeded atom types in registration order.
func AtomTypes() []*AtomType {
	return append([]*AtomType(nil), atomTypes.ordered...)
}
