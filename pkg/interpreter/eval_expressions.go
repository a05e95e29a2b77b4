package interpreter

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/GiGurra/fl/pkg/ast"
	"github.com/GiGurra/fl/pkg/runtime"
)

func (i *Interpreter) evalExpression(env *runtime.Environment, expr ast.Expression) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return env.Get(e.Name)
	case *ast.StringLiteral:
		return runtime.StringValue{Val: e.Value}, nil
	case *ast.IntegerLiteral:
		return runtime.IntValue{Val: new(big.Int).Set(e.Value)}, nil
	case *ast.FloatLiteral:
		return runtime.FloatValue{Val: e.Value}, nil
	case *ast.BooleanLiteral:
		return runtime.BoolValue{Val: e.Value}, nil
	case *ast.NilLiteral:
		return runtime.NilValue{}, nil
	case *ast.ListLiteral:
		elements := make([]runtime.Value, len(e.Elements))
		for idx, elem := range e.Elements {
			v, err := i.evalExpression(env, elem)
			if err != nil {
				return nil, err
			}
			elements[idx] = v
		}
		return &runtime.ListValue{Elements: elements}, nil
	case *ast.RecordLiteral:
		return i.evalRecordLiteral(env, e)
	case *ast.StringInterpolation:
		var sb strings.Builder
		for _, part := range e.Parts {
			v, err := i.evalExpression(env, part)
			if err != nil {
				return nil, err
			}
			sb.WriteString(runtime.Stringify(v))
		}
		return runtime.StringValue{Val: sb.String()}, nil
	case *ast.UnaryExpression:
		return i.evalUnary(env, e)
	case *ast.BinaryExpression:
		return i.evalBinary(env, e)
	case *ast.AssignmentExpression:
		return i.evalAssignment(env, e)
	case *ast.FunctionCall:
		return i.evalFunctionCall(env, e)
	case *ast.MemberAccessExpression:
		return i.evalMemberAccess(env, e)
	case *ast.IndexExpression:
		return i.evalIndex(env, e)
	case *ast.RangeExpression:
		return i.evalRange(env, e)
	case *ast.LambdaExpression:
		return &runtime.FunctionValue{Params: e.Params, Body: e.Body, Closure: env}, nil
	case *ast.BlockExpression:
		return i.evalBlock(env.Extend(), e)
	case *ast.IfExpression:
		return i.evalIf(env, e)
	case *ast.MatchExpression:
		return i.evalMatch(env, e)
	case *ast.IsExpression:
		value, err := i.evalExpression(env, e.Value)
		if err != nil {
			return nil, err
		}
		ok, err := i.valueMatchesType(env, value, e.Type)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: ok}, nil
	}
	return nil, fmt.Errorf("unsupported expression %s", expr.NodeType())
}

func (i *Interpreter) evalRecordLiteral(env *runtime.Environment, lit *ast.RecordLiteral) (runtime.Value, error) {
	fields := make(map[string]runtime.Value, len(lit.Fields))
	for _, field := range lit.Fields {
		v, err := i.evalExpression(env, field.Value)
		if err != nil {
			return nil, err
		}
		fields[field.Name.Name] = v
	}
	record := &runtime.RecordValue{Fields: fields}
	if lit.TypeName == nil {
		return record, nil
	}

	record.TypeName = lit.TypeName.Name
	// Constructing through a refined name re-checks the predicate chain.
	if err := i.enforceRefinement(env, &ast.SimpleTypeExpression{Name: lit.TypeName}, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (i *Interpreter) evalUnary(env *runtime.Environment, unary *ast.UnaryExpression) (runtime.Value, error) {
	operand, err := i.evalExpression(env, unary.Operand)
	if err != nil {
		return nil, err
	}
	switch unary.Operator {
	case "!":
		return runtime.BoolValue{Val: !runtime.Truthy(operand)}, nil
	case "-":
		switch v := operand.(type) {
		case runtime.IntValue:
			return runtime.IntValue{Val: new(big.Int).Neg(v.Val)}, nil
		case runtime.FloatValue:
			return runtime.FloatValue{Val: -v.Val}, nil
		}
		return nil, fmt.Errorf("operator '-' requires a number, got %s", operand.Kind())
	}
	return nil, fmt.Errorf("unsupported unary operator '%s'", unary.Operator)
}

func (i *Interpreter) evalBinary(env *runtime.Environment, bin *ast.BinaryExpression) (runtime.Value, error) {
	if bin.Operator == "&&" || bin.Operator == "||" {
		left, err := i.evalExpression(env, bin.Left)
		if err != nil {
			return nil, err
		}
		truthy := runtime.Truthy(left)
		if bin.Operator == "&&" && !truthy {
			return runtime.BoolValue{Val: false}, nil
		}
		if bin.Operator == "||" && truthy {
			return runtime.BoolValue{Val: true}, nil
		}
		right, err := i.evalExpression(env, bin.Right)
		if err != nil {
			return nil, err
		}
		return runtime.BoolValue{Val: runtime.Truthy(right)}, nil
	}

	left, err := i.evalExpression(env, bin.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evalExpression(env, bin.Right)
	if err != nil {
		return nil, err
	}

	switch bin.Operator {
	case "==":
		return runtime.BoolValue{Val: runtime.Equal(left, right)}, nil
	case "!=":
		return runtime.BoolValue{Val: !runtime.Equal(left, right)}, nil
	}

	if li, ok := left.(runtime.IntValue); ok {
		if ri, ok := right.(runtime.IntValue); ok {
			return evalIntBinary(bin.Operator, li.Val, ri.Val)
		}
	}
	if lf, ok := left.(runtime.FloatValue); ok {
		if rf, ok := right.(runtime.FloatValue); ok {
			return evalFloatBinary(bin.Operator, lf.Val, rf.Val)
		}
	}
	if ls, ok := left.(runtime.StringValue); ok {
		if rs, ok := right.(runtime.StringValue); ok {
			return evalStringBinary(bin.Operator, ls.Val, rs.Val)
		}
	}
	return nil, fmt.Errorf("operator '%s' not defined for %s and %s",
		bin.Operator, left.Kind(), right.Kind())
}

func evalIntBinary(op string, a, b *big.Int) (runtime.Value, error) {
	switch op {
	case "+":
		return runtime.IntValue{Val: new(big.Int).Add(a, b)}, nil
	case "-":
		return runtime.IntValue{Val: new(big.Int).Sub(a, b)}, nil
	case "*":
		return runtime.IntValue{Val: new(big.Int).Mul(a, b)}, nil
	case "/":
		if b.Sign() == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return runtime.IntValue{Val: new(big.Int).Quo(a, b)}, nil
	case "%":
		if b.Sign() == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return runtime.IntValue{Val: new(big.Int).Rem(a, b)}, nil
	case "<":
		return runtime.BoolValue{Val: a.Cmp(b) < 0}, nil
	case "<=":
		return runtime.BoolValue{Val: a.Cmp(b) <= 0}, nil
	case ">":
		return runtime.BoolValue{Val: a.Cmp(b) > 0}, nil
	case ">=":
		return runtime.BoolValue{Val: a.Cmp(b) >= 0}, nil
	}
	return nil, fmt.Errorf("operator '%s' not defined for int", op)
}

func evalFloatBinary(op string, a, b float64) (runtime.Value, error) {
	switch op {
	case "+":
		return runtime.FloatValue{Val: a + b}, nil
	case "-":
		return runtime.FloatValue{Val: a - b}, nil
	case "*":
		return runtime.FloatValue{Val: a * b}, nil
	case "/":
		if b == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return runtime.FloatValue{Val: a / b}, nil
	case "<":
		return runtime.BoolValue{Val: a < b}, nil
	case "<=":
		return runtime.BoolValue{Val: a <= b}, nil
	case ">":
		return runtime.BoolValue{Val: a > b}, nil
	case ">=":
		return runtime.BoolValue{Val: a >= b}, nil
	}
	return nil, fmt.Errorf("operator '%s' not defined for float", op)
}

func evalStringBinary(op string, a, b string) (runtime.Value, error) {
	switch op {
	case "+":
		return runtime.StringValue{Val: a + b}, nil
	case "<":
		return runtime.BoolValue{Val: a < b}, nil
	case "<=":
		return runtime.BoolValue{Val: a <= b}, nil
	case ">":
		return runtime.BoolValue{Val: a > b}, nil
	case ">=":
		return runtime.BoolValue{Val: a >= b}, nil
	}
	return nil, fmt.Errorf("operator '%s' not defined for string", op)
}

func (i *Interpreter) evalAssignment(env *runtime.Environment, assign *ast.AssignmentExpression) (runtime.Value, error) {
	value, err := i.evalExpression(env, assign.Value)
	if err != nil {
		return nil, err
	}

	switch target := assign.Target.(type) {
	case *ast.Identifier:
		if err := env.Assign(target.Name, value); err != nil {
			return nil, err
		}
		return value, nil
	case *ast.MemberAccessExpression:
		object, err := i.evalExpression(env, target.Object)
		if err != nil {
			return nil, err
		}
		record, ok := object.(*runtime.RecordValue)
		if !ok {
			return nil, fmt.Errorf("%s has no members", object.Kind())
		}
		if _, present := record.Fields[target.Member.Name]; !present {
			return nil, fmt.Errorf("record has no field '%s'", target.Member.Name)
		}
		record.Fields[target.Member.Name] = value
		return value, nil
	case *ast.IndexExpression:
		object, err := i.evalExpression(env, target.Object)
		if err != nil {
			return nil, err
		}
		idxValue, err := i.evalExpression(env, target.Index)
		if err != nil {
			return nil, err
		}
		idx, ok := intFromValue(idxValue)
		if !ok {
			return nil, fmt.Errorf("index must be an int, got %s", idxValue.Kind())
		}
		list, ok := object.(*runtime.ListValue)
		if !ok {
			return nil, fmt.Errorf("cannot assign into %s", object.Kind())
		}
		if idx < 0 || idx >= len(list.Elements) {
			return nil, fmt.Errorf("index %d out of bounds for list of length %d", idx, len(list.Elements))
		}
		list.Elements[idx] = value
		return value, nil
	}
	return nil, fmt.Errorf("invalid assignment target %s", assign.Target.NodeType())
}

func (i *Interpreter) evalFunctionCall(env *runtime.Environment, call *ast.FunctionCall) (runtime.Value, error) {
	callee, err := i.evalExpression(env, call.Callee)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, len(call.Arguments))
	for idx, arg := range call.Arguments {
		v, err := i.evalExpression(env, arg)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}
	return i.callValue(callee, args)
}

func (i *Interpreter) callValue(callee runtime.Value, args []runtime.Value) (runtime.Value, error) {
	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		if len(args) != len(fn.Params) {
			return nil, fmt.Errorf("%s expects %d argument(s), got %d",
				functionLabel(fn), len(fn.Params), len(args))
		}
		callEnv := fn.Closure.Extend()
		for idx, param := range fn.Params {
			callEnv.Define(param.Name.Name, args[idx])
		}
		result, err := i.evalFunctionBody(callEnv, fn.Body)
		if err != nil {
			return nil, err
		}
		return result, nil
	case runtime.NativeFunctionValue:
		if fn.Arity >= 0 && len(args) != fn.Arity {
			return nil, fmt.Errorf("%s expects %d argument(s), got %d", fn.Name, fn.Arity, len(args))
		}
		return fn.Impl(args)
	}
	return nil, fmt.Errorf("cannot call value of kind %s", callee.Kind())
}

func (i *Interpreter) evalFunctionBody(env *runtime.Environment, body ast.Expression) (runtime.Value, error) {
	var result runtime.Value
	var err error
	if block, ok := body.(*ast.BlockExpression); ok {
		result, err = i.evalBlock(env, block)
	} else {
		result, err = i.evalExpression(env, body)
	}
	if err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.value, nil
		}
		return nil, err
	}
	return result, nil
}

func functionLabel(fn *runtime.FunctionValue) string {
	if fn.Name != "" {
		return "'" + fn.Name + "'"
	}
	return "function"
}

func (i *Interpreter) evalMemberAccess(env *runtime.Environment, access *ast.MemberAccessExpression) (runtime.Value, error) {
	object, err := i.evalExpression(env, access.Object)
	if err != nil {
		return nil, err
	}

	if access.Member.Name == "len" {
		switch v := object.(type) {
		case runtime.StringValue:
			return runtime.NewInt(int64(len([]rune(v.Val)))), nil
		case *runtime.ListValue:
			return runtime.NewInt(int64(len(v.Elements))), nil
		}
	}

	if record, ok := object.(*runtime.RecordValue); ok {
		if v, present := record.Fields[access.Member.Name]; present {
			return v, nil
		}
		return nil, fmt.Errorf("record has no field '%s'", access.Member.Name)
	}
	return nil, fmt.Errorf("%s has no members", object.Kind())
}

func (i *Interpreter) evalIndex(env *runtime.Environment, index *ast.IndexExpression) (runtime.Value, error) {
	object, err := i.evalExpression(env, index.Object)
	if err != nil {
		return nil, err
	}
	idxValue, err := i.evalExpression(env, index.Index)
	if err != nil {
		return nil, err
	}
	idx, ok := intFromValue(idxValue)
	if !ok {
		return nil, fmt.Errorf("index must be an int, got %s", idxValue.Kind())
	}

	switch v := object.(type) {
	case *runtime.ListValue:
		if idx < 0 || idx >= len(v.Elements) {
			return nil, fmt.Errorf("index %d out of bounds for list of length %d", idx, len(v.Elements))
		}
		return v.Elements[idx], nil
	case runtime.StringValue:
		runes := []rune(v.Val)
		if idx < 0 || idx >= len(runes) {
			return nil, fmt.Errorf("index %d out of bounds for string of length %d", idx, len(runes))
		}
		return runtime.StringValue{Val: string(runes[idx])}, nil
	}
	return nil, fmt.Errorf("cannot index %s", object.Kind())
}

func (i *Interpreter) evalRange(env *runtime.Environment, rng *ast.RangeExpression) (runtime.Value, error) {
	start, err := i.evalExpression(env, rng.Start)
	if err != nil {
		return nil, err
	}
	end, err := i.evalExpression(env, rng.End)
	if err != nil {
		return nil, err
	}
	si, ok := start.(runtime.IntValue)
	if !ok {
		return nil, fmt.Errorf("range endpoint must be an int, got %s", start.Kind())
	}
	ei, ok := end.(runtime.IntValue)
	if !ok {
		return nil, fmt.Errorf("range endpoint must be an int, got %s", end.Kind())
	}
	return runtime.RangeValue{Start: si.Val, End: ei.Val}, nil
}

func (i *Interpreter) evalIf(env *runtime.Environment, ifExpr *ast.IfExpression) (runtime.Value, error) {
	cond, err := i.evalExpression(env, ifExpr.Condition)
	if err != nil {
		return nil, err
	}
	if runtime.Truthy(cond) {
		return i.evalBlock(env.Extend(), ifExpr.Body)
	}
	for _, clause := range ifExpr.OrClauses {
		if clause.Condition == nil {
			return i.evalBlock(env.Extend(), clause.Body)
		}
		cond, err := i.evalExpression(env, clause.Condition)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(cond) {
			return i.evalBlock(env.Extend(), clause.Body)
		}
	}
	return runtime.NilValue{}, nil
}

func (i *Interpreter) evalMatch(env *runtime.Environment, match *ast.MatchExpression) (runtime.Value, error) {
	subject, err := i.evalExpression(env, match.Subject)
	if err != nil {
		return nil, err
	}
	for _, clause := range match.Clauses {
		clauseEnv := env.Extend()
		matched, err := i.matchPattern(clauseEnv, clause.Pattern, subject)
		if err != nil {
			return nil, err
		}
		if !matched {
			continue
		}
		if clause.Guard != nil {
			guard, err := i.evalExpression(clauseEnv, clause.Guard)
			if err != nil {
				return nil, err
			}
			if !runtime.Truthy(guard) {
				continue
			}
		}
		return i.evalExpression(clauseEnv, clause.Body)
	}
	return nil, fmt.Errorf("no match clause matched value %s", runtime.Stringify(subject))
}
