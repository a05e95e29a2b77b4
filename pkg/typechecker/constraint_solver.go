package typechecker

import (
	"fmt"

	"github.com/GiGurra/fl/pkg/ast"
	"github.com/GiGurra/fl/pkg/types"
)

// ConstraintObligation records a value flowing into a refined type. It is
// resolved after the module walk so every declaration is in view.
type ConstraintObligation struct {
	Target  types.RefinementType
	Source  types.Type
	Value   ast.Expression
	Node    ast.Node
	Context string
}

// resolveObligations discharges each recorded obligation:
//
//  1. the source already carries the same refinement,
//  2. the source expression is constant and the predicate evaluates true,
//  3. the source's own refinement entails the target predicate.
//
// Anything weaker is a diagnostic pointing at `is` for a runtime check.
func (c *Checker) resolveObligations() []Diagnostic {
	var diags []Diagnostic
	for _, ob := range c.obligations {
		if types.Assignable(ob.Target, ob.Source) {
			continue
		}

		if proved, failed := c.proveByEvaluation(ob); proved {
			continue
		} else if failed {
			diags = append(diags, Diagnostic{
				Message: fmt.Sprintf("typechecker: %s: value does not satisfy constraint of %s",
					ob.Context, types.Format(ob.Target)),
				Node: ob.Node,
			})
			continue
		}

		if c.proveByEntailment(ob) {
			continue
		}

		diags = append(diags, Diagnostic{
			Message: fmt.Sprintf("typechecker: %s: cannot prove %s satisfies constraint of %s; narrow with 'is %s' first",
				ob.Context, types.Format(ob.Source), types.Format(ob.Target), types.Format(ob.Target)),
			Node: ob.Node,
		})
	}
	return diags
}

// proveByEvaluation decides the predicate outright when the source
// expression is compile-time constant. The second result reports a definite
// counterexample, distinct from "not constant".
func (c *Checker) proveByEvaluation(ob ConstraintObligation) (proved bool, failed bool) {
	if ob.Value == nil {
		return false, false
	}
	self, ok := evalConst(ob.Value, nil)
	if !ok {
		return false, false
	}
	for _, ref := range refinementChain(ob.Target) {
		holds, decided := evalPredicateAgainst(ref.Predicate, self)
		if !decided {
			return false, false
		}
		if !holds {
			return false, true
		}
	}
	return true, false
}

// refinementChain lists target predicates outermost first, including
// refinements stacked under the target's base.
func refinementChain(t types.Type) []types.RefinementType {
	return types.Refinements(t)
}

// evalPredicateAgainst evaluates a predicate with `self` bound to the value
// and, for record values, fields in direct scope.
func evalPredicateAgainst(predicate ast.Expression, self constValue) (bool, bool) {
	bindings := map[string]constValue{"self": self}
	if record, ok := self.(constRecord); ok {
		for name, value := range record.fields {
			bindings[name] = value
		}
	}
	result, ok := evalConst(predicate, bindings)
	if !ok {
		return false, false
	}
	b, ok := result.(constBool)
	if !ok {
		return false, false
	}
	return bool(b), true
}

// proveByEntailment proves the target predicate from the refinement the
// source type already carries, using interval reasoning on conjunctions of
// comparisons over the same field or `self`.
func (c *Checker) proveByEntailment(ob ConstraintObligation) bool {
	sourceRefs := types.Refinements(ob.Source)
	if len(sourceRefs) == 0 {
		return false
	}
	if !types.Assignable(types.Underlying(ob.Target), types.Underlying(ob.Source)) {
		return false
	}

	var known []atom
	for _, ref := range sourceRefs {
		atoms, ok := normalizePredicate(ref.Predicate)
		if !ok {
			return false
		}
		known = append(known, atoms...)
	}

	for _, ref := range refinementChain(ob.Target) {
		wanted, ok := normalizePredicate(ref.Predicate)
		if !ok {
			return false
		}
		for _, want := range wanted {
			if !anyImplies(known, want) {
				return false
			}
		}
	}
	return true
}

func anyImplies(known []atom, want atom) bool {
	for _, have := range known {
		if implies(have, want) {
			return true
		}
	}
	return false
}
