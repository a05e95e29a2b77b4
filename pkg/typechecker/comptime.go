package typechecker

import (
	"math/big"

	"github.com/GiGurra/fl/pkg/ast"
)

// constValue is the compile-time value domain used for constraint proofs.
type constValue interface{ isConst() }

type constInt struct{ val *big.Int }
type constFloat float64
type constString string
type constBool bool
type constNil struct{}
type constList struct{ elements []constValue }
type constRecord struct{ fields map[string]constValue }

func (constInt) isConst()    {}
func (constFloat) isConst()  {}
func (constString) isConst() {}
func (constBool) isConst()   {}
func (constNil) isConst()    {}
func (constList) isConst()   {}
func (constRecord) isConst() {}

// evalConst evaluates an expression over literals and the given bindings.
// The second result is false whenever any sub-expression is not a
// compile-time constant; proofs then fall back to entailment.
func evalConst(expr ast.Expression, bindings map[string]constValue) (constValue, bool) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return constInt{val: e.Value}, true
	case *ast.FloatLiteral:
		return constFloat(e.Value), true
	case *ast.StringLiteral:
		return constString(e.Value), true
	case *ast.BooleanLiteral:
		return constBool(e.Value), true
	case *ast.NilLiteral:
		return constNil{}, true
	case *ast.Identifier:
		v, ok := bindings[e.Name]
		return v, ok
	case *ast.ListLiteral:
		elements := make([]constValue, len(e.Elements))
		for i, elem := range e.Elements {
			v, ok := evalConst(elem, bindings)
			if !ok {
				return nil, false
			}
			elements[i] = v
		}
		return constList{elements: elements}, true
	case *ast.RecordLiteral:
		fields := make(map[string]constValue, len(e.Fields))
		for _, field := range e.Fields {
			v, ok := evalConst(field.Value, bindings)
			if !ok {
				return nil, false
			}
			fields[field.Name.Name] = v
		}
		return constRecord{fields: fields}, true
	case *ast.MemberAccessExpression:
		object, ok := evalConst(e.Object, bindings)
		if !ok {
			return nil, false
		}
		if e.Member.Name == "len" {
			switch obj := object.(type) {
			case constString:
				return constInt{val: big.NewInt(int64(len([]rune(string(obj)))))}, true
			case constList:
				return constInt{val: big.NewInt(int64(len(obj.elements)))}, true
			}
		}
		if record, ok := object.(constRecord); ok {
			v, present := record.fields[e.Member.Name]
			return v, present
		}
		return nil, false
	case *ast.UnaryExpression:
		operand, ok := evalConst(e.Operand, bindings)
		if !ok {
			return nil, false
		}
		switch e.Operator {
		case "!":
			b, ok := operand.(constBool)
			if !ok {
				return nil, false
			}
			return constBool(!b), true
		case "-":
			switch v := operand.(type) {
			case constInt:
				return constInt{val: new(big.Int).Neg(v.val)}, true
			case constFloat:
				return constFloat(-v), true
			}
		}
		return nil, false
	case *ast.BinaryExpression:
		return evalConstBinary(e, bindings)
	}
	return nil, false
}

func evalConstBinary(e *ast.BinaryExpression, bindings map[string]constValue) (constValue, bool) {
	// Short-circuit forms first.
	if e.Operator == "&&" || e.Operator == "||" {
		left, ok := evalConst(e.Left, bindings)
		if !ok {
			return nil, false
		}
		lb, ok := left.(constBool)
		if !ok {
			return nil, false
		}
		if e.Operator == "&&" && !bool(lb) {
			return constBool(false), true
		}
		if e.Operator == "||" && bool(lb) {
			return constBool(true), true
		}
		right, ok := evalConst(e.Right, bindings)
		if !ok {
			return nil, false
		}
		rb, ok := right.(constBool)
		return rb, ok
	}

	left, ok := evalConst(e.Left, bindings)
	if !ok {
		return nil, false
	}
	right, ok := evalConst(e.Right, bindings)
	if !ok {
		return nil, false
	}

	switch e.Operator {
	case "==":
		eq, ok := constEqual(left, right)
		return constBool(eq), ok
	case "!=":
		eq, ok := constEqual(left, right)
		return constBool(!eq), ok
	}

	if li, lok := left.(constInt); lok {
		ri, rok := right.(constInt)
		if !rok {
			return nil, false
		}
		cmp := li.val.Cmp(ri.val)
		switch e.Operator {
		case "<":
			return constBool(cmp < 0), true
		case "<=":
			return constBool(cmp <= 0), true
		case ">":
			return constBool(cmp > 0), true
		case ">=":
			return constBool(cmp >= 0), true
		case "+":
			return constInt{val: new(big.Int).Add(li.val, ri.val)}, true
		case "-":
			return constInt{val: new(big.Int).Sub(li.val, ri.val)}, true
		case "*":
			return constInt{val: new(big.Int).Mul(li.val, ri.val)}, true
		case "/":
			if ri.val.Sign() == 0 {
				return nil, false
			}
			return constInt{val: new(big.Int).Quo(li.val, ri.val)}, true
		case "%":
			if ri.val.Sign() == 0 {
				return nil, false
			}
			return constInt{val: new(big.Int).Rem(li.val, ri.val)}, true
		}
		return nil, false
	}

	if lf, lok := left.(constFloat); lok {
		rf, rok := right.(constFloat)
		if !rok {
			return nil, false
		}
		switch e.Operator {
		case "<":
			return constBool(lf < rf), true
		case "<=":
			return constBool(lf <= rf), true
		case ">":
			return constBool(lf > rf), true
		case ">=":
			return constBool(lf >= rf), true
		case "+":
			return constFloat(lf + rf), true
		case "-":
			return constFloat(lf - rf), true
		case "*":
			return constFloat(lf * rf), true
		case "/":
			if rf == 0 {
				return nil, false
			}
			return constFloat(lf / rf), true
		}
		return nil, false
	}

	if ls, lok := left.(constString); lok {
		rs, rok := right.(constString)
		if !rok {
			return nil, false
		}
		switch e.Operator {
		case "+":
			return constString(ls + rs), true
		case "<":
			return constBool(ls < rs), true
		case "<=":
			return constBool(ls <= rs), true
		case ">":
			return constBool(ls > rs), true
		case ">=":
			return constBool(ls >= rs), true
		}
	}
	return nil, false
}

func constEqual(a, b constValue) (bool, bool) {
	switch av := a.(type) {
	case constInt:
		bv, ok := b.(constInt)
		if !ok {
			return false, true
		}
		return av.val.Cmp(bv.val) == 0, true
	case constFloat:
		bv, ok := b.(constFloat)
		return ok && av == bv, true
	case constString:
		bv, ok := b.(constString)
		return ok && av == bv, true
	case constBool:
		bv, ok := b.(constBool)
		return ok && av == bv, true
	case constNil:
		_, ok := b.(constNil)
		return ok, true
	case constList:
		bv, ok := b.(constList)
		if !ok || len(av.elements) != len(bv.elements) {
			return false, true
		}
		for i := range av.elements {
			eq, decided := constEqual(av.elements[i], bv.elements[i])
			if !decided || !eq {
				return false, decided
			}
		}
		return true, true
	case constRecord:
		bv, ok := b.(constRecord)
		if !ok || len(av.fields) != len(bv.fields) {
			return false, true
		}
		for name, value := range av.fields {
			other, present := bv.fields[name]
			if !present {
				return false, true
			}
			eq, decided := constEqual(value, other)
			if !decided || !eq {
				return false, decided
			}
		}
		return true, true
	}
	return false, false
}
