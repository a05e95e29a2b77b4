// Package types models Fluffy's structural type system. Compatibility is
// decided by shape alone; declared names are labels for diagnostics and
// constraint lookup, never part of the comparison.
package types

import (
	"sort"
	"strings"

	"github.com/GiGurra/fl/pkg/ast"
)

// Type is implemented by every type the checker understands.
type Type interface {
	Name() string
}

type PrimitiveKind string

const (
	PrimitiveNil    PrimitiveKind = "Nil"
	PrimitiveBool   PrimitiveKind = "Bool"
	PrimitiveString PrimitiveKind = "String"
	PrimitiveInt    PrimitiveKind = "Int"
	PrimitiveFloat  PrimitiveKind = "Float"
)

type PrimitiveType struct {
	Kind PrimitiveKind
}

func (p PrimitiveType) Name() string { return string(p.Kind) }

// Convenience singletons.
var (
	Nil    = PrimitiveType{Kind: PrimitiveNil}
	Bool   = PrimitiveType{Kind: PrimitiveBool}
	String = PrimitiveType{Kind: PrimitiveString}
	Int    = PrimitiveType{Kind: PrimitiveInt}
	Float  = PrimitiveType{Kind: PrimitiveFloat}
)

// UnknownType stands in when inference gave up; it is compatible with
// everything so one failure does not cascade.
type UnknownType struct{}

func (UnknownType) Name() string { return "Unknown" }

// AnyType is the implicit top type.
type AnyType struct{}

func (AnyType) Name() string { return "Any" }

// RecordType is a structural record shape. TypeName carries the declared
// label when the shape came from a `type` declaration.
type RecordType struct {
	TypeName string
	Fields   map[string]Type
}

func (r RecordType) Name() string {
	if r.TypeName != "" {
		return r.TypeName
	}
	return formatRecord(r)
}

type ListType struct {
	Element Type
}

func (l ListType) Name() string { return "[" + typeName(l.Element) + "]" }

type RangeType struct{}

func (RangeType) Name() string { return "Range" }

// FunctionType models `(P1, P2) -> R`. Variadic functions exist only as
// builtins; the last param type repeats for trailing arguments.
type FunctionType struct {
	Params   []Type
	Return   Type
	Variadic bool
}

func (f FunctionType) Name() string { return Format(f) }

type UnionType struct {
	Members []Type
}

func (u UnionType) Name() string { return Format(u) }

// RefinementType narrows Base with a compile-time predicate over the value
// (`self`) and, for records, its fields.
type RefinementType struct {
	RefName   string
	Base      Type
	Predicate ast.Expression
}

func (r RefinementType) Name() string {
	if r.RefName != "" {
		return r.RefName
	}
	return typeName(r.Base) + " where <predicate>"
}

// Underlying strips refinement layers down to the plain structural type.
func Underlying(t Type) Type {
	for {
		ref, ok := t.(RefinementType)
		if !ok {
			return t
		}
		t = ref.Base
	}
}

// Refinements returns the predicate chain from the outside in.
func Refinements(t Type) []RefinementType {
	var out []RefinementType
	for {
		ref, ok := t.(RefinementType)
		if !ok {
			return out
		}
		out = append(out, ref)
		t = ref.Base
	}
}

// Optional wraps t as `t?`, the `t | Nil` union.
func Optional(t Type) Type {
	if IsOptional(t) {
		return t
	}
	return UnionType{Members: []Type{t, Nil}}
}

// IsOptional reports whether t admits nil.
func IsOptional(t Type) bool {
	switch val := t.(type) {
	case PrimitiveType:
		return val.Kind == PrimitiveNil
	case UnionType:
		for _, m := range val.Members {
			if IsOptional(m) {
				return true
			}
		}
	}
	return false
}

func typeName(t Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}

// Format renders a type the way source code spells it.
func Format(t Type) string {
	switch val := t.(type) {
	case nil:
		return "<nil>"
	case PrimitiveType:
		return string(val.Kind)
	case UnknownType:
		return "Unknown"
	case AnyType:
		return "Any"
	case RecordType:
		if val.TypeName != "" {
			return val.TypeName
		}
		return formatRecord(val)
	case ListType:
		return "[" + Format(val.Element) + "]"
	case RangeType:
		return "Range"
	case FunctionType:
		parts := make([]string, len(val.Params))
		for i, p := range val.Params {
			parts[i] = Format(p)
		}
		return "(" + strings.Join(parts, ", ") + ") -> " + Format(val.Return)
	case UnionType:
		// `T | Nil` prints as the `T?` sugar.
		if len(val.Members) == 2 {
			if isNil(val.Members[1]) {
				return Format(val.Members[0]) + "?"
			}
			if isNil(val.Members[0]) {
				return Format(val.Members[1]) + "?"
			}
		}
		parts := make([]string, len(val.Members))
		for i, m := range val.Members {
			parts[i] = Format(m)
		}
		return strings.Join(parts, " | ")
	case RefinementType:
		return val.Name()
	}
	return t.Name()
}

func isNil(t Type) bool {
	p, ok := t.(PrimitiveType)
	return ok && p.Kind == PrimitiveNil
}

func formatRecord(r RecordType) string {
	names := make([]string, 0, len(r.Fields))
	for name := range r.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + Format(r.Fields[name])
	}
	return "{ " + strings.Join(parts, ", ") + " }"
}
