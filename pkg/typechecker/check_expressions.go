package typechecker

import (
	"fmt"

	"github.com/GiGurra/fl/pkg/ast"
	"github.com/GiGurra/fl/pkg/types"
)

func (c *Checker) checkExpression(env *Environment, expr ast.Expression) (types.Type, []Diagnostic) {
	switch e := expr.(type) {
	case *ast.Identifier:
		if t, ok := env.Lookup(e.Name); ok {
			return t, nil
		}
		return types.UnknownType{}, []Diagnostic{{
			Message: fmt.Sprintf("typechecker: unknown identifier '%s'", e.Name),
			Node:    e,
		}}
	case *ast.StringLiteral:
		return types.String, nil
	case *ast.IntegerLiteral:
		return types.Int, nil
	case *ast.FloatLiteral:
		return types.Float, nil
	case *ast.BooleanLiteral:
		return types.Bool, nil
	case *ast.NilLiteral:
		return types.Nil, nil
	case *ast.ListLiteral:
		return c.checkListLiteral(env, e)
	case *ast.RecordLiteral:
		return c.checkRecordLiteral(env, e)
	case *ast.StringInterpolation:
		var diags []Diagnostic
		for _, part := range e.Parts {
			_, partDiags := c.checkExpression(env, part)
			diags = append(diags, partDiags...)
		}
		return types.String, diags
	case *ast.UnaryExpression:
		return c.checkUnaryExpression(env, e)
	case *ast.BinaryExpression:
		return c.checkBinaryExpression(env, e)
	case *ast.AssignmentExpression:
		return c.checkAssignmentExpression(env, e)
	case *ast.FunctionCall:
		return c.checkFunctionCall(env, e)
	case *ast.MemberAccessExpression:
		return c.checkMemberAccess(env, e)
	case *ast.IndexExpression:
		return c.checkIndexExpression(env, e)
	case *ast.RangeExpression:
		return c.checkRangeExpression(env, e)
	case *ast.LambdaExpression:
		return c.checkLambdaExpression(env, e)
	case *ast.BlockExpression:
		return c.checkBlock(env.Extend(), e)
	case *ast.IfExpression:
		return c.checkIfExpression(env, e)
	case *ast.MatchExpression:
		return c.checkMatchExpression(env, e)
	case *ast.IsExpression:
		_, diags := c.checkExpression(env, e.Value)
		_, typeDiags := c.resolveTypeExpression(e.Type, e)
		return types.Bool, append(diags, typeDiags...)
	}
	return types.UnknownType{}, []Diagnostic{{
		Message: fmt.Sprintf("typechecker: unsupported expression %s", expr.NodeType()),
		Node:    expr,
	}}
}

func (c *Checker) checkListLiteral(env *Environment, list *ast.ListLiteral) (types.Type, []Diagnostic) {
	var diags []Diagnostic
	var element types.Type = types.UnknownType{}
	for i, elem := range list.Elements {
		elemType, elemDiags := c.checkExpression(env, elem)
		diags = append(diags, elemDiags...)
		if i == 0 {
			element = elemType
			continue
		}
		if isUnknown(element) || isUnknown(elemType) {
			continue
		}
		if !types.Assignable(element, elemType) {
			if types.Assignable(elemType, element) {
				element = elemType
				continue
			}
			element = types.AnyType{}
		}
	}
	return types.ListType{Element: element}, diags
}

func (c *Checker) checkRecordLiteral(env *Environment, record *ast.RecordLiteral) (types.Type, []Diagnostic) {
	var diags []Diagnostic
	fields := make(map[string]types.Type, len(record.Fields))
	for _, field := range record.Fields {
		fieldType, fieldDiags := c.checkExpression(env, field.Value)
		diags = append(diags, fieldDiags...)
		if _, dup := fields[field.Name.Name]; dup {
			diags = append(diags, Diagnostic{
				Message: fmt.Sprintf("typechecker: duplicate field '%s' in record literal", field.Name.Name),
				Node:    field,
			})
		}
		fields[field.Name.Name] = fieldType
	}
	shape := types.RecordType{Fields: fields}

	if record.TypeName == nil {
		return shape, diags
	}

	declared, ok := c.decls[record.TypeName.Name]
	if !ok {
		diags = append(diags, Diagnostic{
			Message: fmt.Sprintf("typechecker: unknown type '%s'", record.TypeName.Name),
			Node:    record,
		})
		return shape, diags
	}
	if _, ok := types.Underlying(declared).(types.RecordType); !ok {
		diags = append(diags, Diagnostic{
			Message: fmt.Sprintf("typechecker: type '%s' is not a record", record.TypeName.Name),
			Node:    record,
		})
		return shape, diags
	}

	context := fmt.Sprintf("construction of %s", record.TypeName.Name)
	diags = append(diags, c.requireAssignable(declared, shape, record, record, context)...)
	return declared, diags
}

func (c *Checker) checkUnaryExpression(env *Environment, unary *ast.UnaryExpression) (types.Type, []Diagnostic) {
	operandType, diags := c.checkExpression(env, unary.Operand)
	switch unary.Operator {
	case "!":
		if !isUnknown(operandType) && !types.Assignable(types.Bool, operandType) {
			diags = append(diags, Diagnostic{
				Message: fmt.Sprintf("typechecker: operator '!' requires Bool, got %s", types.Format(operandType)),
				Node:    unary,
			})
		}
		return types.Bool, diags
	case "-":
		base := types.Underlying(operandType)
		if types.Equal(base, types.Int) || types.Equal(base, types.Float) {
			return base, diags
		}
		if isUnknown(base) {
			return types.UnknownType{}, diags
		}
		diags = append(diags, Diagnostic{
			Message: fmt.Sprintf("typechecker: operator '-' requires Int or Float, got %s", types.Format(operandType)),
			Node:    unary,
		})
		return types.UnknownType{}, diags
	}
	diags = append(diags, Diagnostic{
		Message: fmt.Sprintf("typechecker: unsupported unary operator '%s'", unary.Operator),
		Node:    unary,
	})
	return types.UnknownType{}, diags
}

func (c *Checker) checkBinaryExpression(env *Environment, bin *ast.BinaryExpression) (types.Type, []Diagnostic) {
	leftType, diags := c.checkExpression(env, bin.Left)
	rightType, rightDiags := c.checkExpression(env, bin.Right)
	diags = append(diags, rightDiags...)

	left := types.Underlying(leftType)
	right := types.Underlying(rightType)
	if isUnknown(left) || isUnknown(right) {
		switch bin.Operator {
		case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
			return types.Bool, diags
		default:
			return types.UnknownType{}, diags
		}
	}

	fail := func() (types.Type, []Diagnostic) {
		diags = append(diags, Diagnostic{
			Message: fmt.Sprintf("typechecker: operator '%s' not defined for %s and %s",
				bin.Operator, types.Format(leftType), types.Format(rightType)),
			Node: bin,
		})
		return types.UnknownType{}, diags
	}

	switch bin.Operator {
	case "+":
		if types.Equal(left, types.String) && types.Equal(right, types.String) {
			return types.String, diags
		}
		fallthrough
	case "-", "*", "/", "%":
		if types.Equal(left, types.Int) && types.Equal(right, types.Int) {
			return types.Int, diags
		}
		if types.Equal(left, types.Float) && types.Equal(right, types.Float) {
			return types.Float, diags
		}
		return fail()
	case "<", "<=", ">", ">=":
		numeric := func(t types.Type) bool {
			return types.Equal(t, types.Int) || types.Equal(t, types.Float)
		}
		if (numeric(left) && numeric(right) && types.Equal(left, right)) ||
			(types.Equal(left, types.String) && types.Equal(right, types.String)) {
			return types.Bool, diags
		}
		return fail()
	case "==", "!=":
		return types.Bool, diags
	case "&&", "||":
		if types.Assignable(types.Bool, left) && types.Assignable(types.Bool, right) {
			return types.Bool, diags
		}
		return fail()
	}
	diags = append(diags, Diagnostic{
		Message: fmt.Sprintf("typechecker: unsupported binary operator '%s'", bin.Operator),
		Node:    bin,
	})
	return types.UnknownType{}, diags
}

func (c *Checker) checkAssignmentExpression(env *Environment, assign *ast.AssignmentExpression) (types.Type, []Diagnostic) {
	valueType, diags := c.checkExpression(env, assign.Value)

	switch target := assign.Target.(type) {
	case *ast.Identifier:
		declared, mutable, ok := env.LookupBinding(target.Name)
		if !ok {
			diags = append(diags, Diagnostic{
				Message: fmt.Sprintf("typechecker: unknown identifier '%s'", target.Name),
				Node:    target,
			})
			return valueType, diags
		}
		if !mutable {
			diags = append(diags, Diagnostic{
				Message: fmt.Sprintf("typechecker: cannot assign to immutable binding '%s'", target.Name),
				Node:    assign,
			})
		}
		context := fmt.Sprintf("assignment to '%s'", target.Name)
		diags = append(diags, c.requireAssignable(declared, valueType, assign.Value, assign, context)...)
		return declared, diags
	case *ast.MemberAccessExpression:
		fieldType, targetDiags := c.checkMemberAccess(env, target)
		diags = append(diags, targetDiags...)
		context := fmt.Sprintf("assignment to field '%s'", target.Member.Name)
		diags = append(diags, c.requireAssignable(fieldType, valueType, assign.Value, assign, context)...)
		return fieldType, diags
	case *ast.IndexExpression:
		elemType, targetDiags := c.checkIndexExpression(env, target)
		diags = append(diags, targetDiags...)
		diags = append(diags, c.requireAssignable(elemType, valueType, assign.Value, assign, "assignment to element")...)
		return elemType, diags
	}
	diags = append(diags, Diagnostic{
		Message: fmt.Sprintf("typechecker: invalid assignment target %s", assign.Target.NodeType()),
		Node:    assign,
	})
	return valueType, diags
}

func (c *Checker) checkFunctionCall(env *Environment, call *ast.FunctionCall) (types.Type, []Diagnostic) {
	calleeType, diags := c.checkExpression(env, call.Callee)

	argTypes := make([]types.Type, len(call.Arguments))
	for i, arg := range call.Arguments {
		argType, argDiags := c.checkExpression(env, arg)
		diags = append(diags, argDiags...)
		argTypes[i] = argType
	}

	fn, ok := types.Underlying(calleeType).(types.FunctionType)
	if !ok {
		if isUnknown(calleeType) {
			return types.UnknownType{}, diags
		}
		diags = append(diags, Diagnostic{
			Message: fmt.Sprintf("typechecker: cannot call value of type %s", types.Format(calleeType)),
			Node:    call,
		})
		return types.UnknownType{}, diags
	}

	if fn.Variadic {
		min := len(fn.Params) - 1
		if len(call.Arguments) < min {
			diags = append(diags, Diagnostic{
				Message: fmt.Sprintf("typechecker: call expects at least %d argument(s), got %d", min, len(call.Arguments)),
				Node:    call,
			})
			return fn.Return, diags
		}
	} else if len(fn.Params) != len(call.Arguments) {
		diags = append(diags, Diagnostic{
			Message: fmt.Sprintf("typechecker: call expects %d argument(s), got %d", len(fn.Params), len(call.Arguments)),
			Node:    call,
		})
		return fn.Return, diags
	}

	calleeLabel := "function"
	if ident, ok := call.Callee.(*ast.Identifier); ok {
		calleeLabel = fmt.Sprintf("'%s'", ident.Name)
	}
	for i := range call.Arguments {
		paramIdx := i
		if paramIdx >= len(fn.Params) {
			paramIdx = len(fn.Params) - 1
		}
		context := fmt.Sprintf("argument %d of %s", i+1, calleeLabel)
		diags = append(diags, c.requireAssignable(fn.Params[paramIdx], argTypes[i], call.Arguments[i], call.Arguments[i], context)...)
	}
	return fn.Return, diags
}

func (c *Checker) checkMemberAccess(env *Environment, access *ast.MemberAccessExpression) (types.Type, []Diagnostic) {
	objectType, diags := c.checkExpression(env, access.Object)
	base := types.Underlying(objectType)

	// Builtin length property on strings and lists.
	if access.Member.Name == "len" {
		switch base.(type) {
		case types.ListType:
			return types.Int, diags
		case types.PrimitiveType:
			if types.Equal(base, types.String) {
				return types.Int, diags
			}
		}
	}

	switch obj := base.(type) {
	case types.RecordType:
		if fieldType, ok := obj.Fields[access.Member.Name]; ok {
			return fieldType, diags
		}
		diags = append(diags, Diagnostic{
			Message: fmt.Sprintf("typechecker: %s has no field '%s'", types.Format(objectType), access.Member.Name),
			Node:    access,
		})
		return types.UnknownType{}, diags
	case types.UnknownType:
		return types.UnknownType{}, diags
	}
	diags = append(diags, Diagnostic{
		Message: fmt.Sprintf("typechecker: %s has no members", types.Format(objectType)),
		Node:    access,
	})
	return types.UnknownType{}, diags
}

func (c *Checker) checkIndexExpression(env *Environment, index *ast.IndexExpression) (types.Type, []Diagnostic) {
	objectType, diags := c.checkExpression(env, index.Object)
	indexType, indexDiags := c.checkExpression(env, index.Index)
	diags = append(diags, indexDiags...)

	if !isUnknown(types.Underlying(indexType)) && !types.Equal(types.Underlying(indexType), types.Int) {
		diags = append(diags, Diagnostic{
			Message: fmt.Sprintf("typechecker: index must be Int, got %s", types.Format(indexType)),
			Node:    index.Index,
		})
	}

	switch obj := types.Underlying(objectType).(type) {
	case types.ListType:
		return obj.Element, diags
	case types.PrimitiveType:
		if types.Equal(obj, types.String) {
			return types.String, diags
		}
	case types.UnknownType:
		return types.UnknownType{}, diags
	}
	diags = append(diags, Diagnostic{
		Message: fmt.Sprintf("typechecker: cannot index %s", types.Format(objectType)),
		Node:    index,
	})
	return types.UnknownType{}, diags
}

func (c *Checker) checkRangeExpression(env *Environment, rng *ast.RangeExpression) (types.Type, []Diagnostic) {
	startType, diags := c.checkExpression(env, rng.Start)
	endType, endDiags := c.checkExpression(env, rng.End)
	diags = append(diags, endDiags...)
	for _, pair := range []struct {
		t    types.Type
		node ast.Expression
	}{{startType, rng.Start}, {endType, rng.End}} {
		base := types.Underlying(pair.t)
		if !isUnknown(base) && !types.Equal(base, types.Int) {
			diags = append(diags, Diagnostic{
				Message: fmt.Sprintf("typechecker: range endpoint must be Int, got %s", types.Format(pair.t)),
				Node:    pair.node,
			})
		}
	}
	return types.RangeType{}, diags
}

func (c *Checker) checkLambdaExpression(env *Environment, lambda *ast.LambdaExpression) (types.Type, []Diagnostic) {
	var diags []Diagnostic
	params := make([]types.Type, len(lambda.Params))
	bodyEnv := env.Extend()
	for i, param := range lambda.Params {
		var paramType types.Type = types.UnknownType{}
		if param.Type != nil {
			t, paramDiags := c.resolveTypeExpression(param.Type, param)
			diags = append(diags, paramDiags...)
			paramType = t
		}
		params[i] = paramType
		bodyEnv.Define(param.Name.Name, paramType, false)
	}

	c.pushReturnType(types.UnknownType{})
	bodyType, bodyDiags := c.checkExpression(bodyEnv, lambda.Body)
	c.popReturnType()
	diags = append(diags, bodyDiags...)
	return types.FunctionType{Params: params, Return: bodyType}, diags
}

func (c *Checker) checkIfExpression(env *Environment, ifExpr *ast.IfExpression) (types.Type, []Diagnostic) {
	condType, diags := c.checkExpression(env, ifExpr.Condition)
	if !types.Assignable(types.Bool, condType) {
		diags = append(diags, Diagnostic{
			Message: fmt.Sprintf("typechecker: if condition must be Bool, got %s", types.Format(condType)),
			Node:    ifExpr.Condition,
		})
	}

	thenEnv := env.Extend()
	c.applyNarrowing(thenEnv, ifExpr.Condition)
	thenType, thenDiags := c.checkBlock(thenEnv, ifExpr.Body)
	diags = append(diags, thenDiags...)

	result := thenType
	hasElse := false
	for _, clause := range ifExpr.OrClauses {
		if clause.Condition != nil {
			clauseCondType, condDiags := c.checkExpression(env, clause.Condition)
			diags = append(diags, condDiags...)
			if !types.Assignable(types.Bool, clauseCondType) {
				diags = append(diags, Diagnostic{
					Message: fmt.Sprintf("typechecker: elsif condition must be Bool, got %s", types.Format(clauseCondType)),
					Node:    clause.Condition,
				})
			}
		} else {
			hasElse = true
		}
		clauseEnv := env.Extend()
		if clause.Condition != nil {
			c.applyNarrowing(clauseEnv, clause.Condition)
		}
		clauseType, clauseDiags := c.checkBlock(clauseEnv, clause.Body)
		diags = append(diags, clauseDiags...)
		result = joinTypes(result, clauseType)
	}

	// A missing else makes the whole expression nullable.
	if !hasElse {
		result = joinTypes(result, types.Nil)
	}
	return result, diags
}

// applyNarrowing refines identifier types along a taken `is` branch. Only
// conjunction shapes narrow: `x is T`, `x is T && ...`.
func (c *Checker) applyNarrowing(env *Environment, condition ast.Expression) {
	switch cond := condition.(type) {
	case *ast.IsExpression:
		ident, ok := cond.Value.(*ast.Identifier)
		if !ok {
			return
		}
		narrowed, diags := c.resolveTypeExpression(cond.Type, cond)
		if len(diags) > 0 {
			return
		}
		env.Narrow(ident.Name, narrowed)
	case *ast.BinaryExpression:
		if cond.Operator == "&&" {
			c.applyNarrowing(env, cond.Left)
			c.applyNarrowing(env, cond.Right)
		}
	}
}

func (c *Checker) checkMatchExpression(env *Environment, match *ast.MatchExpression) (types.Type, []Diagnostic) {
	subjectType, diags := c.checkExpression(env, match.Subject)

	var result types.Type
	for i, clause := range match.Clauses {
		clauseEnv := env.Extend()
		diags = append(diags, c.bindPattern(clauseEnv, clause.Pattern, subjectType)...)
		if clause.Guard != nil {
			guardType, guardDiags := c.checkExpression(clauseEnv, clause.Guard)
			diags = append(diags, guardDiags...)
			if !types.Assignable(types.Bool, guardType) {
				diags = append(diags, Diagnostic{
					Message: fmt.Sprintf("typechecker: match guard must be Bool, got %s", types.Format(guardType)),
					Node:    clause.Guard,
				})
			}
		}
		bodyType, bodyDiags := c.checkExpression(clauseEnv, clause.Body)
		diags = append(diags, bodyDiags...)
		if i == 0 {
			result = bodyType
		} else {
			result = joinTypes(result, bodyType)
		}
	}
	return result, diags
}

// bindPattern introduces pattern bindings typed against the subject.
func (c *Checker) bindPattern(env *Environment, pattern ast.Pattern, subject types.Type) []Diagnostic {
	switch p := pattern.(type) {
	case *ast.WildcardPattern, *ast.LiteralPattern:
		return nil
	case *ast.Identifier:
		env.Define(p.Name, subject, false)
		return nil
	case *ast.TypedPattern:
		narrowed, diags := c.resolveTypeExpression(p.Type, p)
		diags = append(diags, c.bindPattern(env, p.Pattern, narrowed)...)
		return diags
	case *ast.RecordPattern:
		var diags []Diagnostic
		shape := subject
		if p.TypeName != nil {
			declared, ok := c.decls[p.TypeName.Name]
			if !ok {
				diags = append(diags, Diagnostic{
					Message: fmt.Sprintf("typechecker: unknown type '%s'", p.TypeName.Name),
					Node:    p,
				})
			} else {
				shape = declared
			}
		}
		record, ok := types.Underlying(shape).(types.RecordType)
		for _, field := range p.Fields {
			var fieldType types.Type = types.UnknownType{}
			if ok {
				if t, present := record.Fields[field.Name.Name]; present {
					fieldType = t
				} else {
					diags = append(diags, Diagnostic{
						Message: fmt.Sprintf("typechecker: %s has no field '%s'", types.Format(shape), field.Name.Name),
						Node:    field,
					})
				}
			}
			if field.Pattern == nil {
				env.Define(field.Name.Name, fieldType, false)
				continue
			}
			diags = append(diags, c.bindPattern(env, field.Pattern, fieldType)...)
		}
		return diags
	}
	return []Diagnostic{{
		Message: fmt.Sprintf("typechecker: unsupported pattern %s", pattern.NodeType()),
		Node:    pattern,
	}}
}

// joinTypes computes the least common shape of two branch results.
func joinTypes(a, b types.Type) types.Type {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if isUnknown(a) || isUnknown(b) {
		return types.UnknownType{}
	}
	if types.Equal(a, b) {
		return a
	}
	if types.Assignable(a, b) {
		return a
	}
	if types.Assignable(b, a) {
		return b
	}
	return types.UnionType{Members: []types.Type{a, b}}
}
