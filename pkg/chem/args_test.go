package chem

import (
	"encoding/json"
	"testing"
)

func TestAtomArgsRoundTrip(t *testing.T) {
	src := mustAtom(t, []string{"Cs", "Cd"}, "1", 0, "*1")
	args := src.Args()

	rebuilt, err := NewAtomFromArgs(args)
	if err != nil {
		t.Fatalf("rebuild atom: %v", err)
	}
	if !rebuilt.Equivalent(src) {
		t.Fatalf("expected rebuilt atom to be equivalent to the source")
	}
	if rebuilt.Label() != "*1" || rebuilt.Charge() != 0 {
		t.Fatalf("rebuilt atom lost label or charge: %q %d", rebuilt.Label(), rebuilt.Charge())
	}
	if len(rebuilt.AtomTypes()) != 2 {
		t.Fatalf("got %d atom types after round trip, expected 2", len(rebuilt.AtomTypes()))
	}
}

func TestAtomArgsUseRegistryKeysNotLabels(t *testing.T) {
	src := mustAtom(t, "Sid", "0", 0, "")
	args := src.Args()
	if len(args.AtomTypes) != 1 || args.AtomTypes[0] != "Sid" {
		t.Fatalf("got atom type keys %v, expected [Sid]", args.AtomTypes)
	}

	rebuilt, err := NewAtomFromArgs(args)
	if err != nil {
		t.Fatalf("rebuild Sid atom: %v", err)
	}
	at, ok := rebuilt.ResolvedType()
	if !ok || at != MustAtomType("Sid") {
		t.Fatalf("rebuilt atom did not resolve to the Sid singleton")
	}
}

func TestBondArgsRoundTrip(t *testing.T) {
	a := mustAtom(t, "Cs", "0", 0, "*1")
	b := mustAtom(t, "Cd", "0", 0, "*2")
	src := mustBond(t, []string{"S", "D"}, a, b)

	args := src.Args()
	rebuilt, err := NewBondFromArgs(args, a, b)
	if err != nil {
		t.Fatalf("rebuild bond: %v", err)
	}
	if !rebuilt.Equivalent(src) {
		t.Fatalf("expected rebuilt bond to be equivalent to the source")
	}
	ends := rebuilt.Atoms()
	if ends[0] != a || ends[1] != b {
		t.Fatalf("rebuilt bond lost its endpoints")
	}
}

func TestAtomArgsJSONShape(t *testing.T) {
	args := AtomArgs{
		AtomTypes:      []string{"Cs"},
		ElectronStates: []string{"1"},
		Charge:         0,
		Label:          "*1",
	}
	raw, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("marshal args: %v", err)
	}
	expected := `{"atom_types":["Cs"],"electron_states":["1"],"charge":0,"label":"*1"}`
	if string(raw) != expected {
		t.Fatalf("got %s, expected %s", raw, expected)
	}

	var back AtomArgs
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal args: %v", err)
	}
	if _, err := NewAtomFromArgs(back); err != nil {
		t.Fatalf("rebuild from decoded args: %v", err)
	}
}

func TestNewAtomFromArgsRejectsUnknownNames(t *testing.T) {
	_, err := NewAtomFromArgs(AtomArgs{AtomTypes: []string{"Sids"}, ElectronStates: []string{"0"}})
	if err == nil {
		t.Fatalf("expected error for the Sids display label")
	}
	_, err = NewBondFromArgs(BondArgs{BondTypes: []string{"double_cis"}}, nil, nil)
	if err == nil {
		t.Fatalf("expected error for the double_cis display name")
	}
}
