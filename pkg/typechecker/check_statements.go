package typechecker

import (
	"fmt"

	"github.com/GiGurra/fl/pkg/ast"
	"github.com/GiGurra/fl/pkg/types"
)

func (c *Checker) checkStatement(env *Environment, stmt ast.Statement) []Diagnostic {
	switch s := stmt.(type) {
	case ast.Expression:
		_, diags := c.checkExpression(env, s)
		return diags
	case *ast.VariableDeclaration:
		return c.checkVariableDeclaration(env, s)
	case *ast.FunctionDefinition:
		return c.checkFunctionDefinition(env, s)
	case *ast.TypeDeclaration:
		// Collected before the body walk.
		return nil
	case *ast.WhileLoop:
		return c.checkWhileLoop(env, s)
	case *ast.ForLoop:
		return c.checkForLoop(env, s)
	case *ast.ReturnStatement:
		return c.checkReturnStatement(env, s)
	case *ast.BreakStatement:
		if c.loopDepth == 0 {
			return []Diagnostic{{Message: "typechecker: break outside loop", Node: s}}
		}
		return nil
	case *ast.ContinueStatement:
		if c.loopDepth == 0 {
			return []Diagnostic{{Message: "typechecker: continue outside loop", Node: s}}
		}
		return nil
	case *ast.ImportStatement:
		return []Diagnostic{{Message: "typechecker: import must appear at the top of the module", Node: s}}
	}
	return []Diagnostic{{
		Message: fmt.Sprintf("typechecker: unsupported statement %s", stmt.NodeType()),
		Node:    stmt,
	}}
}

func (c *Checker) checkVariableDeclaration(env *Environment, decl *ast.VariableDeclaration) []Diagnostic {
	valueType, diags := c.checkExpression(env, decl.Value)

	var declared types.Type
	if decl.TypeAnnotation != nil {
		annotated, annDiags := c.resolveTypeExpression(decl.TypeAnnotation, decl)
		diags = append(diags, annDiags...)
		declared = annotated

		context := fmt.Sprintf("binding '%s'", decl.Name.Name)
		diags = append(diags, c.requireAssignable(declared, valueType, decl.Value, decl, context)...)
	} else {
		declared = valueType
	}

	env.Define(decl.Name.Name, declared, decl.Mutable)
	return diags
}

// requireAssignable enforces dst ← src flow. A refined destination becomes a
// constraint obligation resolved after the walk; everything else is decided
// structurally on the spot.
func (c *Checker) requireAssignable(dst, src types.Type, value ast.Expression, node ast.Node, context string) []Diagnostic {
	if ref, ok := dst.(types.RefinementType); ok {
		if !types.Assignable(types.Underlying(ref), types.Underlying(src)) {
			return []Diagnostic{{
				Message: fmt.Sprintf("typechecker: %s: %s is not assignable to %s", context, types.Format(src), types.Format(dst)),
				Node:    node,
			}}
		}
		c.obligations = append(c.obligations, ConstraintObligation{
			Target:  ref,
			Source:  src,
			Value:   value,
			Node:    node,
			Context: context,
		})
		return nil
	}
	if !types.Assignable(dst, src) {
		return []Diagnostic{{
			Message: fmt.Sprintf("typechecker: %s: %s is not assignable to %s", context, types.Format(src), types.Format(dst)),
			Node:    node,
		}}
	}
	return nil
}

func (c *Checker) checkFunctionDefinition(env *Environment, decl *ast.FunctionDefinition) []Diagnostic {
	fnType, diags := c.functionSignature(decl)
	// Module-level functions are already registered; nested ones bind here.
	if _, ok := env.Lookup(decl.Name.Name); !ok {
		env.Define(decl.Name.Name, fnType, false)
	}

	bodyEnv := env.Extend()
	for i, param := range decl.Params {
		bodyEnv.Define(param.Name.Name, fnType.Params[i], false)
	}

	c.pushReturnType(fnType.Return)
	savedLoopDepth := c.loopDepth
	c.loopDepth = 0
	bodyType, bodyDiags := c.checkBlock(bodyEnv, decl.Body)
	c.loopDepth = savedLoopDepth
	c.popReturnType()
	diags = append(diags, bodyDiags...)

	// The body's tail expression is the implicit return value.
	if decl.ReturnType != nil && !isUnknown(bodyType) && !blockEndsWithReturn(decl.Body) {
		context := fmt.Sprintf("result of '%s'", decl.Name.Name)
		var tail ast.Expression
		if n := len(decl.Body.Body); n > 0 {
			if expr, ok := decl.Body.Body[n-1].(ast.Expression); ok {
				tail = expr
			}
		}
		diags = append(diags, c.requireAssignable(fnType.Return, bodyType, tail, decl, context)...)
	}
	return diags
}

func blockEndsWithReturn(block *ast.BlockExpression) bool {
	if block == nil || len(block.Body) == 0 {
		return false
	}
	_, ok := block.Body[len(block.Body)-1].(*ast.ReturnStatement)
	return ok
}

func (c *Checker) checkWhileLoop(env *Environment, loop *ast.WhileLoop) []Diagnostic {
	condType, diags := c.checkExpression(env, loop.Condition)
	if !types.Assignable(types.Bool, condType) {
		diags = append(diags, Diagnostic{
			Message: fmt.Sprintf("typechecker: while condition must be Bool, got %s", types.Format(condType)),
			Node:    loop.Condition,
		})
	}
	c.loopDepth++
	_, bodyDiags := c.checkBlock(env.Extend(), loop.Body)
	c.loopDepth--
	return append(diags, bodyDiags...)
}

func (c *Checker) checkForLoop(env *Environment, loop *ast.ForLoop) []Diagnostic {
	iterType, diags := c.checkExpression(env, loop.Iterable)

	var element types.Type = types.UnknownType{}
	switch it := types.Underlying(iterType).(type) {
	case types.ListType:
		element = it.Element
	case types.RangeType:
		element = types.Int
	case types.UnknownType:
	default:
		diags = append(diags, Diagnostic{
			Message: fmt.Sprintf("typechecker: for loop requires a list or range, got %s", types.Format(iterType)),
			Node:    loop.Iterable,
		})
	}

	bodyEnv := env.Extend()
	bodyEnv.Define(loop.Binding.Name, element, false)
	c.loopDepth++
	_, bodyDiags := c.checkBlock(bodyEnv, loop.Body)
	c.loopDepth--
	return append(diags, bodyDiags...)
}

func (c *Checker) checkReturnStatement(env *Environment, ret *ast.ReturnStatement) []Diagnostic {
	expected, inFunction := c.currentReturnType()
	if !inFunction {
		return []Diagnostic{{Message: "typechecker: return outside function", Node: ret}}
	}

	var diags []Diagnostic
	var valueType types.Type = types.Nil
	if ret.Argument != nil {
		valueType, diags = c.checkExpression(env, ret.Argument)
	}
	diags = append(diags, c.requireAssignable(expected, valueType, ret.Argument, ret, "return value")...)
	return diags
}

// checkBlock types a block in the given scope, returning the tail expression
// type (Nil for empty blocks and non-expression tails).
func (c *Checker) checkBlock(env *Environment, block *ast.BlockExpression) (types.Type, []Diagnostic) {
	var diags []Diagnostic
	var result types.Type = types.Nil
	if block == nil {
		return result, nil
	}
	for i, stmt := range block.Body {
		if expr, ok := stmt.(ast.Expression); ok && i == len(block.Body)-1 {
			exprType, exprDiags := c.checkExpression(env, expr)
			diags = append(diags, exprDiags...)
			result = exprType
			continue
		}
		diags = append(diags, c.checkStatement(env, stmt)...)
	}
	return result, diags
}
