package typechecker

import (
	"testing"

	"github.com/GiGurra/fl/pkg/parser"
)

func parsePredicate(t *testing.T, src string) []atom {
	t.Helper()
	expr, err := parser.ParseExpression(src)
	if err != nil {
		t.Fatalf("ParseExpression(%q) returned error: %v", src, err)
	}
	atoms, ok := normalizePredicate(expr)
	if !ok {
		t.Fatalf("predicate %q did not normalize", src)
	}
	return atoms
}

func TestConstraintProvedForConstantRecord(t *testing.T) {
	expectClean(t, `
type Person = { name: String, age: Int }
type Adult = Person where age >= 18

let a: Adult = { name: "ada", age: 36 }
`)
}

func TestConstraintFailsForConstantRecord(t *testing.T) {
	expectDiagnostic(t, `
type Person = { name: String, age: Int }
type Adult = Person where age >= 18

let a: Adult = { name: "kid", age: 7 }
`, "does not satisfy constraint of Adult")
}

func TestConstraintProvedForConstantScalar(t *testing.T) {
	expectClean(t, `
type Port = Int where self >= 1 && self <= 65535

let p: Port = 8080
`)
}

func TestConstraintFailsForConstantScalar(t *testing.T) {
	expectDiagnostic(t, `
type Port = Int where self >= 1 && self <= 65535

let p: Port = 70000
`, "does not satisfy constraint of Port")
}

func TestConstraintUnprovableWithoutNarrowing(t *testing.T) {
	expectDiagnostic(t, `
type Person = { name: String, age: Int }
type Adult = Person where age >= 18

fn admit(a: Adult) -> String { a.name }

fn gate(p: Person) -> String {
  admit(p)
}
`, "narrow with 'is Adult' first")
}

func TestConstraintEntailmentBetweenRefinements(t *testing.T) {
	expectClean(t, `
type Person = { name: String, age: Int }
type Adult = Person where age >= 18
type Senior = Person where age >= 65

fn admit(a: Adult) -> String { a.name }

fn comp(s: Senior) -> String {
  admit(s)
}
`)
}

func TestConstraintEntailmentRejectsWeakerSource(t *testing.T) {
	expectDiagnostic(t, `
type Person = { name: String, age: Int }
type Adult = Person where age >= 18
type Senior = Person where age >= 65

fn board(s: Senior) -> String { s.name }

fn comp(a: Adult) -> String {
  board(a)
}
`, "cannot prove")
}

func TestConstraintEvaluatesPredicateOverFields(t *testing.T) {
	expectClean(t, `
type Span = { lo: Int, hi: Int }
type Ordered = Span where lo <= hi

let s: Ordered = { lo: 1, hi: 9 }
`)
}

func TestConstraintStringLengthPredicate(t *testing.T) {
	expectClean(t, `
type Handle = String where self.len >= 3

let h: Handle = "ada"
`)
}

func TestConstraintStringLengthPredicateFails(t *testing.T) {
	expectDiagnostic(t, `
type Handle = String where self.len >= 3

let h: Handle = "ab"
`, "does not satisfy constraint of Handle")
}

func TestEntailmentIntervalReasoning(t *testing.T) {
	cases := []struct {
		have, want string
		expected   bool
	}{
		{"age >= 21", "age >= 18", true},
		{"age >= 18", "age >= 21", false},
		{"age > 18", "age >= 18", true},
		{"age >= 18", "age > 18", false},
		{"age == 30", "age >= 18", true},
		{"age <= 10", "age < 18", true},
		{"age < 18", "age <= 10", false},
		{"18 <= age", "age >= 18", true},
		{"size >= 21", "age >= 18", false},
	}
	for _, tc := range cases {
		have := parsePredicate(t, tc.have)
		want := parsePredicate(t, tc.want)
		if got := implies(have[0], want[0]); got != tc.expected {
			t.Fatalf("implies(%q, %q) = %v, want %v", tc.have, tc.want, got, tc.expected)
		}
	}
}

func TestNormalizePredicateRejectsDisjunction(t *testing.T) {
	expr, err := parser.ParseExpression(`self < 0 or self > 10`)
	if err != nil {
		t.Fatalf("ParseExpression returned error: %v", err)
	}
	if _, ok := normalizePredicate(expr); ok {
		t.Fatalf("expected disjunction to fall outside the atom language")
	}
}
