package chem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
)

// SnapshotSchemaVersion identifies the layout of RegistrySnapshot
// documents. Bump it when a record field changes meaning.
const SnapshotSchemaVersion = 1

// ElementRecord externalizes one element together with its lookup aliases.
type ElementRecord struct {
	Number  int      `json:"number"`
	Name    string   `json:"name,omitempty"`
	Symbol  string   `json:"symbol"`
	MassKg  float64  `json:"mass_kg_per_mol"`
	Valence []int    `json:"valence"`
	Aliases []string `json:"aliases"`
}

// AtomTypeRecord externalizes one atom type. Key and Label differ only for
// the Sid entry.
type AtomTypeRecord struct {
	Key         string `json:"key"`
	Label       string `json:"label"`
	Element     string `json:"element,omitempty"`
	Description string `json:"description"`
}

// ElectronStateRecord externalizes one electron state together with its
// position in the radical ladder.
type ElectronStateRecord struct {
	Label       string `json:"label"`
	Order       int    `json:"order"`
	Spin        []int  `json:"spin"`
	IncreasesTo string `json:"increases_to,omitempty"`
	DecreasesTo string `json:"decreases_to,omitempty"`
}

// BondTypeRecord externalizes one bond type together with its lookup
// aliases and its position in the order ladder.
type BondTypeRecord struct {
	Label       string   `json:"label"`
	Name        string   `json:"name"`
	Order       float64  `json:"order"`
	PiElectrons int      `json:"pi_electrons"`
	Location    string   `json:"location,omitempty"`
	Aliases     []string `json:"aliases"`
	IncreasesTo string   `json:"increases_to,omitempty"`
	DecreasesTo string   `json:"decreases_to,omitempty"`
}

// RegistrySnapshot is the externalized state of all four registries in
// registration order. Two snapshots built from the same seed data are
// byte-identical after JSON encoding, so digests detect drift.
type RegistrySnapshot struct {
	SchemaVersion  int                   `json:"schema_version"`
	Elements       []ElementRecord       `json:"elements"`
	AtomTypes      []AtomTypeRecord      `json:"atom_types"`
	ElectronStates []ElectronStateRecord `json:"electron_states"`
	BondTypes      []BondTypeRecord      `json:"bond_types"`
}

// BuildRegistrySnapshot externalizes the current registry contents.
func BuildRegistrySnapshot() RegistrySnapshot {
	snap := RegistrySnapshot{SchemaVersion: SnapshotSchemaVersion}

	for _, e := range Elements() {
		aliases := []string{strconv.Itoa(e.number), e.symbol}
		if e.name != "" {
			aliases = append(aliases, e.name)
		}
		snap.Elements = append(snap.Elements, ElementRecord{
			Number:  e.number,
			Name:    e.name,
			Symbol:  e.symbol,
			MassKg:  e.mass,
			Valence: e.Valence(),
			Aliases: aliases,
		})
	}

	for _, t := range AtomTypes() {
		record := AtomTypeRecord{Key: t.key, Label: t.label, Description: t.description}
		if t.element != nil {
			record.Element = t.element.symbol
		}
		snap.AtomTypes = append(snap.AtomTypes, record)
	}

	for _, s := range ElectronStates() {
		record := ElectronStateRecord{Label: s.label, Order: s.order, Spin: s.Spin()}
		if next, ok := RadicalSuccessor(s.label); ok {
			record.IncreasesTo = next.label
		}
		if prev, ok := RadicalPredecessor(s.label); ok {
			record.DecreasesTo = prev.label
		}
		snap.ElectronStates = append(snap.ElectronStates, record)
	}

	for _, t := range BondTypes() {
		record := BondTypeRecord{
			Label:       t.label,
			Name:        t.name,
			Order:       t.order,
			PiElectrons: t.piElectrons,
			Location:    t.location,
			Aliases:     []string{t.label},
		}
		if t.location == "" {
			record.Aliases = append(record.Aliases, t.name, strconv.FormatFloat(t.order, 'g', -1, 64))
		}
		if next, ok := OrderSuccessor(t.label); ok {
			record.IncreasesTo = next.label
		}
		if prev, ok := OrderPredecessor(t.label); ok {
			record.DecreasesTo = prev.label
		}
		snap.BondTypes = append(snap.BondTypes, record)
	}

	return snap
}

// Digest returns the hex-encoded SHA-256 of the snapshot's JSON encoding.
func (s RegistrySnapshot) Digest() (string, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

// SnapshotStore persists registry snapshots. Implementations hold at most
// one snapshot and overwrite it on save.
type SnapshotStore interface {
	// SaveSnapshot persists the snapshot, replacing any previous one.
	SaveSnapshot(ctx context.Context, snapshot RegistrySnapshot) error
	// LoadSnapshot returns the persisted snapshot, reporting false when
	// none has been saved.
	LoadSnapshot(ctx context.Context) (RegistrySnapshot, bool, error)
	// Close releases any underlying resources.
	Close() error
}
