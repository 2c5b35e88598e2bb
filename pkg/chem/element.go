// Package chem defines the typed chemical primitives shared by molecular
// graph and reaction-template code: registries of elements, atom types,
// electron states, and bond types, plus the Atom and Bond entities built
// from them. Registries are loaded once at package initialization and are
// immutable afterward, so lookups are safe for concurrent use.
package chem

import "fmt"

// Element describes a chemical element. A single canonical instance exists
// per element; lookups by atomic number, symbol, or name all return that
// instance, so identity comparison answers "same element".
type Element struct {
	number  int
	name    string
	symbol  string
	mass    float64
	valence []int
}

// Number returns the atomic number. The R pseudo-element reports 0.
func (e *Element) Number() int { return e.number }

// Name returns the element name. Empty for the R pseudo-element.
func (e *Element) Name() string { return e.name }

// Symbol returns the element symbol.
func (e *Element) Symbol() string { return e.symbol }

// Mass returns the molar mass in kg/mol.
func (e *Element) Mass() float64 { return e.mass }

// Valence returns a copy of the allowed bond counts for the element.
func (e *Element) Valence() []int { return append([]int(nil), e.valence...) }

func (e *Element) String() string { return e.symbol }

type elementRegistry struct {
	ordered  []*Element
	byNumber map[int]*Element
	byAlias  map[string]*Element
}

var elements = loadElements()

func loadElements() elementRegistry {
	r := elementRegistry{
		byNumber: make(map[int]*Element),
		byAlias:  make(map[string]*Element),
	}
	add := func(number int, name, symbol string, mass float64, valence ...int) {
		e := &Element{number: number, name: name, symbol: symbol, mass: mass, valence: valence}
		r.ordered = append(r.ordered, e)
		r.byNumber[number] = e
		r.byAlias[symbol] = e
		if name != "" {
			r.byAlias[name] = e
		}
	}

	// The R pseudo-element backs the universal wildcard in group patterns.
	add(0, "", "R", 0.0, 0)
	add(1, "hydrogen", "H", 0.00100794, 1)
	add(2, "helium", "He", 0.004002602, 0)
	add(6, "carbon", "C", 0.0120107, 4)
	add(7, "nitrogen", "N", 0.01400674, 3, 5)
	add(8, "oxygen", "O", 0.0159994, 2)
	add(9, "fluorine", "F", 0.018998403, 1)
	add(10, "neon", "Ne", 0.0201797, 0)
	add(14, "silicon", "Si", 0.0280855, 4)
	add(15, "phosphorus", "P", 0.030973761, 3, 5)
	add(16, "sulfur", "S", 0.032065, 2, 6)
	add(17, "chlorine", "Cl", 0.035453, 1)
	add(18, "argon", "Ar", 0.039348, 0)
	add(35, "bromine", "Br", 0.079904, 1)
	add(53, "iodine", "I", 0.12690447, 1)
	return r
}

// FindElement resolves an element by alias: an atomic number (int) or a
// symbol or name (string). It reports false for unknown aliases and for
// alias values of any other type.
func FindElement(alias any) (*Element, bool) {
	switch v := alias.(type) {
	case int:
		e, ok := elements.byNumber[v]
		return e, ok
	case string:
		e, ok := elements.byAlias[v]
		return e, ok
	}
	return nil, false
}

// MustElement resolves like FindElement and panics on an unknown alias.
// Seed aliases are fixed, so a miss is a programming error.
func MustElement(alias any) *Element {
	e, ok := FindElement(alias)
	if !ok {
		panic(fmt.Sprintf("chem: unknown element alias %v", alias))
	}
	return e
}

// Elements returns the seeded elements in registration order.
func Elements() []*Element {
	return append([]*Element(nil), elements.ordered...)
}
