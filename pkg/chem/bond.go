package chem

import "fmt"

// Bond represents a chemical bond between two atoms. Its bond type is a
// candidate list: a concrete bond holds exactly one type, while a pattern
// bond may hold several and matches existentially. The two endpoint atoms
// are owned by the enclosing graph, never by the bond; their order carries
// no meaning beyond "endpoint 1 / endpoint 2".
type Bond struct {
	bondTypes []*BondType
	atoms     [2]*Atom
}

// NewBond constructs a bond. bondTypes accepts a label, name, or numeric
// order alias (string, int, or float64), a *BondType, or a non-empty slice
// of any of those ([]string, []*BondType, or []any). Endpoints may be nil
// while a pattern is under construction.
func NewBond(bondTypes any, a, b *Atom) (*Bond, error) {
	types, err := normalizeBondTypes(bondTypes)
	if err != nil {
		return nil, err
	}
	return &Bond{bondTypes: types, atoms: [2]*Atom{a, b}}, nil
}

func normalizeBondTypes(v any) ([]*BondType, error) {
	var out []*BondType
	add := func(item any) error {
		switch it := item.(type) {
		case string, int, float64:
			t, ok := FindBondType(it)
			if !ok {
				return ConfigurationError{Field: "bond type", Value: it}
			}
			out = append(out, t)
		case *BondType:
			if it == nil {
				return ConfigurationError{Field: "bond type", Value: it}
			}
			out = append(out, it)
		default:
			return ConfigurationError{Field: "bond type", Value: item}
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
	case []*BondType:
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
		return nil, ConfigurationError{Field: "bond type", Value: v}
	}
	return out, nil
}

// BondTypes returns a copy of the candidate bond type list.
func (b *Bond) BondTypes() []*BondType {
	return append([]*BondType(nil), b.bondTypes...)
}

// ResolvedType returns the bond type when exactly one candidate is present.
func (b *Bond) ResolvedType() (*BondType, bool) {
	if len(b.bondTypes) != 1 {
		return nil, false
	}
	return b.bondTypes[0], true
}

// Atoms returns the two endpoint atoms in positional order.
func (b *Bond) Atoms() [2]*Atom { return b.atoms }

// Equivalent reports whether two bonds match: some pair drawn from the two
// candidate bond type lists must be equivalent.
func (b *Bond) Equivalent(other *Bond) bool {
	for _, lt := range b.bondTypes {
		for _, rt := range other.bondTypes {
			if lt.Equivalent(rt) {
				return true
			}
		}
	}
	return false
}

// Copy returns a bond with an independent candidate list. The endpoint
// references are carried over unchanged: a bond's identity without its
// endpoints is meaningless in this model.
func (b *Bond) Copy() *Bond {
	return &Bond{
		bondTypes: append([]*BondType(nil), b.bondTypes...),
		atoms:     b.atoms,
	}
}

// IsSingle reports whether the bond is resolved to order 1.
func (b *Bond) IsSingle() bool { return b.hasOrder(1) }

// IsDouble reports whether the bond is resolved to order 2. All three
// double-bond variants (D, Dcis, Dtrans) report true.
func (b *Bond) IsDouble() bool { return b.hasOrder(2) }

// IsTriple reports whether the bond is resolved to order 3.
func (b *Bond) IsTriple() bool { return b.hasOrder(3) }

// IsBenzene reports whether the bond is resolved to the aromatic order 1.5.
func (b *Bond) IsBenzene() bool { return b.hasOrder(1.5) }

func (b *Bond) hasOrder(order float64) bool {
	t, ok := b.ResolvedType()
	return ok && t.order == order
}

// CanIncreaseOrder reports whether IncreaseOrder would succeed: a resolved
// plain single or double bond. Benzene, cis, and trans bonds report false.
func (b *Bond) CanIncreaseOrder() bool {
	t, ok := b.ResolvedType()
	if !ok {
		return false
	}
	_, ok = OrderSuccessor(t.label)
	return ok
}

// CanDecreaseOrder reports whether DecreaseOrder would succeed: a resolved
// plain double or triple bond. Benzene, cis, and trans bonds report false.
func (b *Bond) CanDecreaseOrder() bool {
	t, ok := b.ResolvedType()
	if !ok {
		return false
	}
	_, ok = OrderPredecessor(t.label)
	return ok
}

// IncreaseOrder raises the bond order one step along single, double,
// triple. Benzene, cis, and trans bonds sit outside the ladder, so the call
// returns a ChemicalValidityError for them as it does at the triple-bond
// ceiling, leaving the bond unchanged. Calling it on a bond with an
// ambiguous type panics.
func (b *Bond) IncreaseOrder() error {
	t := b.mustResolvedType("IncreaseOrder")
	next, ok := OrderSuccessor(t.label)
	if !ok {
		return ChemicalValidityError{Op: "increase bond order", State: t.label}
	}
	b.bondTypes = []*BondType{next}
	return nil
}

// DecreaseOrder lowers the bond order one step along triple, double,
// single, with the same failure behavior as IncreaseOrder at the floor and
// for benzene, cis, and trans bonds.
func (b *Bond) DecreaseOrder() error {
	t := b.mustResolvedType("DecreaseOrder")
	prev, ok := OrderPredecessor(t.label)
	if !ok {
		return ChemicalValidityError{Op: "decrease bond order", State: t.label}
	}
	b.bondTypes = []*BondType{prev}
	return nil
}

func (b *Bond) mustResolvedType(op string) *BondType {
	t, ok := b.ResolvedType()
	if !ok {
		panic(fmt.Sprintf("chem: %s requires a resolved bond type, bond holds %d candidates", op, len(b.bondTypes)))
	}
	return t
}
