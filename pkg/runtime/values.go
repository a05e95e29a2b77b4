package runtime

import (
	"fmt"
	"math/big"
	"sort"
	"strconv"
	"strings"

	"github.com/GiGurra/fl/pkg/ast"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindRange
	KindRecord
	KindFunction
	KindNativeFunction
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindRange:
		return "range"
	case KindRecord:
		return "record"
	case KindFunction:
		return "function"
	case KindNativeFunction:
		return "native_function"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

// IntValue carries arbitrary precision; literals never overflow.
type IntValue struct {
	Val *big.Int
}

func (v IntValue) Kind() Kind { return KindInt }

func NewInt(i int64) IntValue {
	return IntValue{Val: big.NewInt(i)}
}

type FloatValue struct {
	Val float64
}

func (v FloatValue) Kind() Kind { return KindFloat }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

//-----------------------------------------------------------------------------
// Collections and ranges
//-----------------------------------------------------------------------------

type ListValue struct {
	Elements []Value
}

func (v *ListValue) Kind() Kind { return KindList }

// RangeValue covers `start..end`, endpoints inclusive.
type RangeValue struct {
	Start *big.Int
	End   *big.Int
}

func (v RangeValue) Kind() Kind { return KindRange }

// RecordValue keeps the optional declared-type label for display and `is`.
type RecordValue struct {
	TypeName string
	Fields   map[string]Value
}

func (v *RecordValue) Kind() Kind { return KindRecord }

//-----------------------------------------------------------------------------
// Functions & closures
//-----------------------------------------------------------------------------

// FunctionValue closes over the environment where the function or lambda
// literal was evaluated.
type FunctionValue struct {
	Name    string
	Params  []*ast.FunctionParameter
	Body    ast.Expression
	Closure *Environment
}

func (v *FunctionValue) Kind() Kind { return KindFunction }

type NativeFunc func(args []Value) (Value, error)

type NativeFunctionValue struct {
	Name  string
	Arity int // -1 for variadic
	Impl  NativeFunc
}

func (v NativeFunctionValue) Kind() Kind { return KindNativeFunction }

//-----------------------------------------------------------------------------
// Display and truthiness
//-----------------------------------------------------------------------------

// Truthy reports the conditional meaning of a value: only nil and false are
// falsey.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case NilValue:
		return false
	case BoolValue:
		return val.Val
	default:
		return true
	}
}

// Stringify renders a value for `print` and string interpolation.
func Stringify(v Value) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case NilValue:
		return "nil"
	case BoolValue:
		return strconv.FormatBool(val.Val)
	case IntValue:
		return val.Val.String()
	case FloatValue:
		return strconv.FormatFloat(val.Val, 'g', -1, 64)
	case StringValue:
		return val.Val
	case *ListValue:
		parts := make([]string, len(val.Elements))
		for i, elem := range val.Elements {
			parts[i] = Stringify(elem)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case RangeValue:
		return val.Start.String() + ".." + val.End.String()
	case *RecordValue:
		names := make([]string, 0, len(val.Fields))
		for name := range val.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, len(names))
		for i, name := range names {
			parts[i] = name + ": " + Stringify(val.Fields[name])
		}
		body := "{ " + strings.Join(parts, ", ") + " }"
		if len(names) == 0 {
			body = "{}"
		}
		if val.TypeName != "" {
			return val.TypeName + " " + body
		}
		return body
	case *FunctionValue:
		if val.Name != "" {
			return "<fn " + val.Name + ">"
		}
		return "<fn>"
	case NativeFunctionValue:
		return "<native fn " + val.Name + ">"
	}
	return fmt.Sprintf("<%s>", v.Kind())
}

// Equal is structural equality as exposed by `==`.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av.Val == bv.Val
	case IntValue:
		if bv, ok := b.(IntValue); ok {
			return av.Val.Cmp(bv.Val) == 0
		}
		return false
	case FloatValue:
		bv, ok := b.(FloatValue)
		return ok && av.Val == bv.Val
	case StringValue:
		bv, ok := b.(StringValue)
		return ok && av.Val == bv.Val
	case RangeValue:
		bv, ok := b.(RangeValue)
		return ok && av.Start.Cmp(bv.Start) == 0 && av.End.Cmp(bv.End) == 0
	case *ListValue:
		bv, ok := b.(*ListValue)
		if !ok || len(av.Elements) != len(bv.Elements) {
			return false
		}
		for i := range av.Elements {
			if !Equal(av.Elements[i], bv.Elements[i]) {
				return false
			}
		}
		return true
	case *RecordValue:
		bv, ok := b.(*RecordValue)
		if !ok || len(av.Fields) != len(bv.Fields) {
			return false
		}
		for name, value := range av.Fields {
			other, present := bv.Fields[name]
			if !present || !Equal(value, other) {
				return false
			}
		}
		return true
	}
	// Functions compare by identity.
	return a == b
}
