package interpreter

import (
	"fmt"
	"math/big"

	"github.com/GiGurra/fl/pkg/ast"
	"github.com/GiGurra/fl/pkg/runtime"
)

// evalStatement evaluates one statement. Expression statements yield their
// value; declarations and loops yield nil.
func (i *Interpreter) evalStatement(env *runtime.Environment, stmt ast.Statement) (runtime.Value, error) {
	switch s := stmt.(type) {
	case ast.Expression:
		return i.evalExpression(env, s)
	case *ast.VariableDeclaration:
		return nil, i.evalVariableDeclaration(env, s)
	case *ast.FunctionDefinition:
		fn := &runtime.FunctionValue{
			Name:    s.Name.Name,
			Params:  s.Params,
			Body:    s.Body,
			Closure: env,
		}
		env.Define(s.Name.Name, fn)
		return nil, nil
	case *ast.TypeDeclaration:
		i.decls[s.Name.Name] = s
		return nil, nil
	case *ast.WhileLoop:
		return nil, i.evalWhileLoop(env, s)
	case *ast.ForLoop:
		return nil, i.evalForLoop(env, s)
	case *ast.ReturnStatement:
		var value runtime.Value = runtime.NilValue{}
		if s.Argument != nil {
			v, err := i.evalExpression(env, s.Argument)
			if err != nil {
				return nil, err
			}
			value = v
		}
		return nil, returnSignal{value: value}
	case *ast.BreakStatement:
		return nil, breakSignal{}
	case *ast.ContinueStatement:
		return nil, continueSignal{}
	case *ast.ImportStatement:
		return nil, fmt.Errorf("import must appear at the top of the module")
	}
	return nil, fmt.Errorf("unsupported statement %s", stmt.NodeType())
}

func (i *Interpreter) evalVariableDeclaration(env *runtime.Environment, decl *ast.VariableDeclaration) error {
	value, err := i.evalExpression(env, decl.Value)
	if err != nil {
		return err
	}
	// A refined annotation the checker deferred becomes a checked cast.
	if decl.TypeAnnotation != nil {
		if err := i.enforceRefinement(env, decl.TypeAnnotation, value); err != nil {
			return err
		}
	}
	env.Define(decl.Name.Name, value)
	return nil
}

// enforceRefinement re-checks `where` predicates behind a type annotation at
// runtime. Structural mismatches are the checker's job; only predicate
// violations surface here.
func (i *Interpreter) enforceRefinement(env *runtime.Environment, annotation ast.TypeExpression, value runtime.Value) error {
	simple, ok := annotation.(*ast.SimpleTypeExpression)
	if !ok {
		return nil
	}
	decl, ok := i.decls[simple.Name.Name]
	if !ok {
		return nil
	}
	for decl != nil {
		if decl.Where != nil {
			holds, err := i.evalPredicate(env, decl.Where, value)
			if err != nil {
				return err
			}
			if !holds {
				return fmt.Errorf("value %s does not satisfy constraint of %s",
					runtime.Stringify(value), simple.Name.Name)
			}
		}
		base, ok := decl.Body.(*ast.SimpleTypeExpression)
		if !ok {
			return nil
		}
		decl = i.decls[base.Name.Name]
	}
	return nil
}

// evalPredicate runs a `where` clause with `self` and, for records, each
// field bound in a child of the global scope.
func (i *Interpreter) evalPredicate(env *runtime.Environment, predicate ast.Expression, value runtime.Value) (bool, error) {
	predEnv := i.global.Extend()
	predEnv.Define("self", value)
	if record, ok := value.(*runtime.RecordValue); ok {
		for name, field := range record.Fields {
			predEnv.Define(name, field)
		}
	}
	result, err := i.evalExpression(predEnv, predicate)
	if err != nil {
		return false, err
	}
	return runtime.Truthy(result), nil
}

func (i *Interpreter) evalWhileLoop(env *runtime.Environment, loop *ast.WhileLoop) error {
	for {
		cond, err := i.evalExpression(env, loop.Condition)
		if err != nil {
			return err
		}
		if !runtime.Truthy(cond) {
			return nil
		}
		if _, err := i.evalBlock(env.Extend(), loop.Body); err != nil {
			switch err.(type) {
			case breakSignal:
				return nil
			case continueSignal:
				continue
			}
			return err
		}
	}
}

func (i *Interpreter) evalForLoop(env *runtime.Environment, loop *ast.ForLoop) error {
	iterable, err := i.evalExpression(env, loop.Iterable)
	if err != nil {
		return err
	}

	runBody := func(element runtime.Value) (stop bool, err error) {
		bodyEnv := env.Extend()
		bodyEnv.Define(loop.Binding.Name, element)
		if _, err := i.evalBlock(bodyEnv, loop.Body); err != nil {
			switch err.(type) {
			case breakSignal:
				return true, nil
			case continueSignal:
				return false, nil
			}
			return true, err
		}
		return false, nil
	}

	switch it := iterable.(type) {
	case *runtime.ListValue:
		for _, element := range it.Elements {
			stop, err := runBody(element)
			if err != nil || stop {
				return err
			}
		}
		return nil
	case runtime.RangeValue:
		for cur := new(big.Int).Set(it.Start); cur.Cmp(it.End) <= 0; cur.Add(cur, bigOne) {
			stop, err := runBody(runtime.IntValue{Val: new(big.Int).Set(cur)})
			if err != nil || stop {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("for loop requires a list or range, got %s", iterable.Kind())
}

// evalBlock evaluates statements in the given scope and yields the tail
// expression value (nil value for empty blocks and non-expression tails).
func (i *Interpreter) evalBlock(env *runtime.Environment, block *ast.BlockExpression) (runtime.Value, error) {
	var result runtime.Value = runtime.NilValue{}
	if block == nil {
		return result, nil
	}
	for idx, stmt := range block.Body {
		val, err := i.evalStatement(env, stmt)
		if err != nil {
			return nil, err
		}
		if idx == len(block.Body)-1 {
			if _, ok := stmt.(ast.Expression); ok {
				result = val
			}
		}
	}
	return result, nil
}
