package interpreter

import (
	"fmt"

	"github.com/GiGurra/fl/pkg/ast"
	"github.com/GiGurra/fl/pkg/runtime"
)

// matchPattern tries a pattern against a value, binding names into env.
// Bindings from a partially matched pattern may remain in env; callers hand
// in a throwaway scope per clause.
func (i *Interpreter) matchPattern(env *runtime.Environment, pattern ast.Pattern, value runtime.Value) (bool, error) {
	switch p := pattern.(type) {
	case *ast.WildcardPattern:
		return true, nil
	case *ast.Identifier:
		env.Define(p.Name, value)
		return true, nil
	case *ast.LiteralPattern:
		expected, err := i.evalExpression(env, p.Literal.(ast.Expression))
		if err != nil {
			return false, err
		}
		return runtime.Equal(expected, value), nil
	case *ast.TypedPattern:
		ok, err := i.valueMatchesType(env, value, p.Type)
		if err != nil || !ok {
			return false, err
		}
		return i.matchPattern(env, p.Pattern, value)
	case *ast.RecordPattern:
		record, ok := value.(*runtime.RecordValue)
		if !ok {
			return false, nil
		}
		if p.TypeName != nil {
			ok, err := i.valueMatchesType(env, value, &ast.SimpleTypeExpression{Name: p.TypeName})
			if err != nil || !ok {
				return false, err
			}
		}
		for _, field := range p.Fields {
			fieldValue, present := record.Fields[field.Name.Name]
			if !present {
				return false, nil
			}
			if field.Pattern == nil {
				// Shorthand `{ name }` binds the field under its own name.
				env.Define(field.Name.Name, fieldValue)
				continue
			}
			ok, err := i.matchPattern(env, field.Pattern, fieldValue)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	}
	return false, fmt.Errorf("unsupported pattern %s", pattern.NodeType())
}

// valueMatchesType is the runtime side of `is`: structural shape plus any
// `where` predicates behind a declared name.
func (i *Interpreter) valueMatchesType(env *runtime.Environment, value runtime.Value, typeExpr ast.TypeExpression) (bool, error) {
	switch t := typeExpr.(type) {
	case *ast.SimpleTypeExpression:
		switch t.Name.Name {
		case "Any":
			return true, nil
		case "Nil":
			_, ok := value.(runtime.NilValue)
			return ok, nil
		case "Bool":
			_, ok := value.(runtime.BoolValue)
			return ok, nil
		case "Int":
			_, ok := value.(runtime.IntValue)
			return ok, nil
		case "Float":
			_, ok := value.(runtime.FloatValue)
			return ok, nil
		case "String":
			_, ok := value.(runtime.StringValue)
			return ok, nil
		}
		decl, ok := i.decls[t.Name.Name]
		if !ok {
			return false, fmt.Errorf("unknown type '%s'", t.Name.Name)
		}
		matches, err := i.valueMatchesType(env, value, decl.Body)
		if err != nil || !matches {
			return false, err
		}
		if decl.Where != nil {
			return i.evalPredicate(env, decl.Where, value)
		}
		return true, nil
	case *ast.RecordTypeExpression:
		record, ok := value.(*runtime.RecordValue)
		if !ok {
			return false, nil
		}
		// Width subtyping: extra fields on the value are fine.
		for _, field := range t.Fields {
			fieldValue, present := record.Fields[field.Name.Name]
			if !present {
				return false, nil
			}
			ok, err := i.valueMatchesType(env, fieldValue, field.Type)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case *ast.ListTypeExpression:
		list, ok := value.(*runtime.ListValue)
		if !ok {
			return false, nil
		}
		for _, element := range list.Elements {
			ok, err := i.valueMatchesType(env, element, t.Element)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case *ast.FunctionTypeExpression:
		switch fn := value.(type) {
		case *runtime.FunctionValue:
			return len(fn.Params) == len(t.Params), nil
		case runtime.NativeFunctionValue:
			return fn.Arity < 0 || fn.Arity == len(t.Params), nil
		}
		return false, nil
	case *ast.NullableTypeExpression:
		if _, ok := value.(runtime.NilValue); ok {
			return true, nil
		}
		return i.valueMatchesType(env, value, t.Inner)
	case *ast.UnionTypeExpression:
		for _, member := range t.Members {
			ok, err := i.valueMatchesType(env, value, member)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	}
	return false, fmt.Errorf("unsupported type expression %s", typeExpr.NodeType())
}
