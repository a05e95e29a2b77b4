package typechecker

import (
	"math/big"

	"github.com/GiGurra/fl/pkg/ast"
)

// atom is a single comparison over one subject, `self` or a field name,
// against a numeric constant. Predicates that normalize into conjunctions of
// atoms participate in entailment; anything richer falls through to the
// runtime `is` check.
type atom struct {
	subject string
	op      string
	bound   *big.Float
}

// normalizePredicate flattens a predicate into atoms. It accepts `&&`
// conjunctions of comparisons where one operand names the subject and the
// other is a numeric constant. The bool result is false when any conjunct
// falls outside that shape.
func normalizePredicate(predicate ast.Expression) ([]atom, bool) {
	bin, ok := predicate.(*ast.BinaryExpression)
	if !ok {
		return nil, false
	}
	if bin.Operator == "&&" {
		left, ok := normalizePredicate(bin.Left)
		if !ok {
			return nil, false
		}
		right, ok := normalizePredicate(bin.Right)
		if !ok {
			return nil, false
		}
		return append(left, right...), true
	}

	switch bin.Operator {
	case "<", "<=", ">", ">=", "==":
	default:
		return nil, false
	}

	if subject, ok := atomSubject(bin.Left); ok {
		if bound, ok := numericBound(bin.Right); ok {
			return []atom{{subject: subject, op: bin.Operator, bound: bound}}, true
		}
	}
	// Constant on the left flips the comparison.
	if subject, ok := atomSubject(bin.Right); ok {
		if bound, ok := numericBound(bin.Left); ok {
			return []atom{{subject: subject, op: flipOperator(bin.Operator), bound: bound}}, true
		}
	}
	return nil, false
}

func atomSubject(expr ast.Expression) (string, bool) {
	switch e := expr.(type) {
	case *ast.Identifier:
		return e.Name, true
	case *ast.MemberAccessExpression:
		if obj, ok := e.Object.(*ast.Identifier); ok && obj.Name == "self" {
			return e.Member.Name, true
		}
	}
	return "", false
}

func numericBound(expr ast.Expression) (*big.Float, bool) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return new(big.Float).SetInt(e.Value), true
	case *ast.FloatLiteral:
		return big.NewFloat(e.Value), true
	case *ast.UnaryExpression:
		if e.Operator != "-" {
			return nil, false
		}
		inner, ok := numericBound(e.Operand)
		if !ok {
			return nil, false
		}
		return inner.Neg(inner), true
	}
	return nil, false
}

func flipOperator(op string) string {
	switch op {
	case "<":
		return ">"
	case "<=":
		return ">="
	case ">":
		return "<"
	case ">=":
		return "<="
	}
	return op
}

// implies reports whether `have` guarantees `want` for every value of the
// shared subject. `age >= 21` implies `age >= 18`; `age >= 18` does not
// imply `age > 18`.
func implies(have, want atom) bool {
	if have.subject != want.subject {
		return false
	}
	cmp := have.bound.Cmp(want.bound)

	switch want.op {
	case ">=":
		switch have.op {
		case ">=", ">", "==":
			return cmp >= 0
		}
	case ">":
		switch have.op {
		case ">":
			return cmp >= 0
		case ">=", "==":
			return cmp > 0
		}
	case "<=":
		switch have.op {
		case "<=", "<", "==":
			return cmp <= 0
		}
	case "<":
		switch have.op {
		case "<":
			return cmp <= 0
		case "<=", "==":
			return cmp < 0
		}
	case "==":
		return have.op == "==" && cmp == 0
	}
	return false
}
