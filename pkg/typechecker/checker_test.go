package typechecker

import (
	"strings"
	"testing"

	"github.com/GiGurra/fl/pkg/parser"
)

func checkSource(t *testing.T, src string) []Diagnostic {
	t.Helper()
	module, err := parser.ParseModule(src)
	if err != nil {
		t.Fatalf("ParseModule returned error: %v", err)
	}
	diags, err := New().CheckModule(module)
	if err != nil {
		t.Fatalf("CheckModule returned error: %v", err)
	}
	return diags
}

func expectClean(t *testing.T, src string) {
	t.Helper()
	if diags := checkSource(t, src); len(diags) != 0 {
		t.Fatalf("expected no diagnostics, got %v", diags)
	}
}

func expectDiagnostic(t *testing.T, src, fragment string) {
	t.Helper()
	diags := checkSource(t, src)
	for _, d := range diags {
		if strings.Contains(d.Message, fragment) {
			return
		}
	}
	t.Fatalf("expected diagnostic containing %q, got %v", fragment, diags)
}

func TestCheckerAcceptsAnnotatedDeclaration(t *testing.T) {
	expectClean(t, `
let name: String = "fluffy"
let count: Int = 42
`)
}

func TestCheckerRejectsAnnotationMismatch(t *testing.T) {
	expectDiagnostic(t, `let count: Int = "no"`, "not assignable")
}

func TestCheckerRejectsAssignmentToImmutable(t *testing.T) {
	expectDiagnostic(t, `
let count = 1
count = 2
`, "immutable")
}

func TestCheckerAllowsAssignmentToMutable(t *testing.T) {
	expectClean(t, `
var count = 1
count = count + 1
`)
}

func TestCheckerStructuralRecordWidth(t *testing.T) {
	expectClean(t, `
type Named = { name: String }

fn greet(x: Named) -> String {
  x.name
}

greet({ name: "ada", age: 36 })
`)
}

func TestCheckerRejectsMissingField(t *testing.T) {
	expectDiagnostic(t, `
type Named = { name: String }

fn greet(x: Named) -> String {
  x.name
}

greet({ age: 36 })
`, "not assignable")
}

func TestCheckerFunctionReturnMismatch(t *testing.T) {
	expectDiagnostic(t, `
fn answer() -> Int {
  "forty-two"
}
`, "result of 'answer'")
}

func TestCheckerBreakOutsideLoop(t *testing.T) {
	expectDiagnostic(t, `break`, "break outside loop")
}

func TestCheckerReturnOutsideFunction(t *testing.T) {
	expectDiagnostic(t, `return 1`, "return outside function")
}

func TestCheckerUnknownType(t *testing.T) {
	expectDiagnostic(t, `let x: Mystery = 1`, "unknown type 'Mystery'")
}

func TestCheckerConditionMustBeBool(t *testing.T) {
	expectDiagnostic(t, `
while 1 {
  break
}
`, "while condition must be Bool")
}

func TestCheckerForLoopOverRangeBindsInt(t *testing.T) {
	expectClean(t, `
var total = 0
for i in 1..10 {
  total = total + i
}
`)
}

func TestCheckerForLoopRejectsNonIterable(t *testing.T) {
	expectDiagnostic(t, `
for x in 42 {
  x
}
`, "requires a list or range")
}

func TestCheckerArithmeticTypeMismatch(t *testing.T) {
	expectDiagnostic(t, `let x = 1 + 1.5`, "not defined for Int and Float")
}

func TestCheckerNullableAcceptsNil(t *testing.T) {
	expectClean(t, `
fn lookup(found: Bool) -> String? {
  if found { "hit" } else { nil }
}
`)
}

func TestCheckerNarrowingWithIs(t *testing.T) {
	expectClean(t, `
type Person = { name: String, age: Int }
type Adult = Person where age >= 18

fn admit(a: Adult) -> String {
  a.name
}

fn gate(p: Person) -> String {
  if p is Adult {
    admit(p)
  } else {
    "denied"
  }
}
`)
}

func TestCheckerTypeRedeclaration(t *testing.T) {
	expectDiagnostic(t, `
type A = { x: Int }
type A = { y: Int }
`, "redeclared")
}

func TestCheckerPredicateMustBeBool(t *testing.T) {
	expectDiagnostic(t, `
type Person = { name: String, age: Int }
type Odd = Person where age + 1
`, "must be Bool")
}

func TestCheckerMatchJoinsClauseTypes(t *testing.T) {
	expectClean(t, `
fn describe(n: Int) -> String {
  match n {
    case 0 => "zero"
    case x if x > 0 => "positive"
    case _ => "negative"
  }
}
`)
}

func TestCheckerCallArityMismatch(t *testing.T) {
	expectDiagnostic(t, `
fn add(a: Int, b: Int) -> Int { a + b }
add(1)
`, "expects 2 argument")
}
