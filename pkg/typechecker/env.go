package typechecker

import "github.com/GiGurra/fl/pkg/types"

// Environment represents a lexical scope used during typechecking.
type Environment struct {
	parent  *Environment
	symbols map[string]binding
}

type binding struct {
	typ     types.Type
	mutable bool
}

// NewEnvironment creates a new environment with an optional parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		parent:  parent,
		symbols: make(map[string]binding),
	}
}

// Define binds a name to a type in the current scope.
func (e *Environment) Define(name string, typ types.Type, mutable bool) {
	e.symbols[name] = binding{typ: typ, mutable: mutable}
}

// Lookup searches for a name in the current scope chain.
func (e *Environment) Lookup(name string) (types.Type, bool) {
	if b, ok := e.symbols[name]; ok {
		return b.typ, true
	}
	if e.parent != nil {
		return e.parent.Lookup(name)
	}
	return nil, false
}

// LookupBinding additionally reports mutability.
func (e *Environment) LookupBinding(name string) (types.Type, bool, bool) {
	if b, ok := e.symbols[name]; ok {
		return b.typ, b.mutable, true
	}
	if e.parent != nil {
		return e.parent.LookupBinding(name)
	}
	return nil, false, false
}

// Narrow re-binds a name in the nearest scope that holds it, keeping the
// original mutability. Used by `is` flow narrowing inside branch scopes.
func (e *Environment) Narrow(name string, typ types.Type) {
	if b, ok := e.symbols[name]; ok {
		e.symbols[name] = binding{typ: typ, mutable: b.mutable}
		return
	}
	// Shadow in the current scope so narrowing ends with it.
	if parent := e.parent; parent != nil {
		if t, mutable, ok := parent.LookupBinding(name); ok {
			_ = t
			e.symbols[name] = binding{typ: typ, mutable: mutable}
		}
	}
}

// Extend returns a child environment.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}
