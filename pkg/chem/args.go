package chem

// AtomArgs is the externalized constructor-argument tuple for an Atom. The
// candidate lists are stored as registry keys, so rebuilding through
// NewAtomFromArgs yields an atom equivalent to the original. The tuple is
// how enclosing systems copy and persist graph nodes.
type AtomArgs struct {
	AtomTypes      []string `json:"atom_types"`
	ElectronStates []string `json:"electron_states"`
	Charge         int      `json:"charge"`
	Label          string   `json:"label,omitempty"`
}

// Args externalizes the atom's constructor arguments. Connectivity scratch
// values are deliberately excluded: they belong to the graph algorithm that
// wrote them, not to the atom.
func (a *Atom) Args() AtomArgs {
	types := make([]string, len(a.atomTypes))
	for i, t := range a.atomTypes {
		types[i] = t.key
	}
	states := make([]string, len(a.electronStates))
	for i, s := range a.electronStates {
		states[i] = s.label
	}
	return AtomArgs{AtomTypes: types, ElectronStates: states, Charge: a.charge, Label: a.label}
}

// NewAtomFromArgs rebuilds an atom from an externalized argument tuple.
func NewAtomFromArgs(args AtomArgs) (*Atom, error) {
	return NewAtom(args.AtomTypes, args.ElectronStates, args.Charge, args.Label)
}

// BondArgs is the externalized constructor-argument tuple for a Bond. The
// endpoint atoms are not part of the tuple; the enclosing graph owns them
// and supplies them again on reconstruction.
type BondArgs struct {
	BondTypes []string `json:"bond_types"`
}

// Args externalizes the bond's constructor arguments.
func (b *Bond) Args() BondArgs {
	types := make([]string, len(b.bondTypes))
	for i, t := range b.bondTypes {
		types[i] = t.label
	}
	return BondArgs{BondTypes: types}
}

// NewBondFromArgs rebuilds a bond from an externalized argument tuple and
// the two endpoint atoms.
func NewBondFromArgs(args BondArgs, a, b *Atom) (*Bond, error) {
	return NewBond(args.BondTypes, a, b)
}
