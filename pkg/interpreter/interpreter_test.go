package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/GiGurra/fl/pkg/parser"
	"github.com/GiGurra/fl/pkg/runtime"
)

func runSource(t *testing.T, src string) (runtime.Value, *runtime.Environment, string) {
	t.Helper()
	module, err := parser.ParseModule(src)
	if err != nil {
		t.Fatalf("ParseModule returned error: %v", err)
	}
	interp := New()
	var out bytes.Buffer
	interp.SetOutput(&out)
	value, env, err := interp.EvaluateModule(module)
	if err != nil {
		t.Fatalf("EvaluateModule returned error: %v", err)
	}
	return value, env, out.String()
}

func runSourceExpectingError(t *testing.T, src, fragment string) {
	t.Helper()
	module, err := parser.ParseModule(src)
	if err != nil {
		t.Fatalf("ParseModule returned error: %v", err)
	}
	interp := New()
	interp.SetOutput(&bytes.Buffer{})
	_, _, err = interp.EvaluateModule(module)
	if err == nil {
		t.Fatalf("expected runtime error containing %q, got none", fragment)
	}
	if !strings.Contains(err.Error(), fragment) {
		t.Fatalf("expected error containing %q, got %v", fragment, err)
	}
}

func expectValue(t *testing.T, src, want string) {
	t.Helper()
	value, _, _ := runSource(t, src)
	if got := runtime.Stringify(value); got != want {
		t.Fatalf("module evaluated to %q, want %q", got, want)
	}
}

func TestArithmetic(t *testing.T) {
	expectValue(t, `1 + 2 * 3`, "7")
	expectValue(t, `(1 + 2) * 3`, "9")
	expectValue(t, `10 % 3`, "1")
	expectValue(t, `1.5 + 2.25`, "3.75")
	expectValue(t, `-5 + 2`, "-3")
}

func TestBigIntegerArithmetic(t *testing.T) {
	expectValue(t,
		`99999999999999999999999999 * 99999999999999999999999999`,
		"9999999999999999999999999800000000000000000000000001")
}

func TestStringConcatAndInterpolation(t *testing.T) {
	expectValue(t, `"foo" + "bar"`, "foobar")
	expectValue(t, `
let name = "world"
"hello ${name}, ${1 + 1} times"
`, "hello world, 2 times")
}

func TestVariablesAndAssignment(t *testing.T) {
	expectValue(t, `
var count = 1
count = count + 41
count
`, "42")
}

func TestAssignToUndefinedFails(t *testing.T) {
	runSourceExpectingError(t, `missing = 1`, "undefined variable 'missing'")
}

func TestAssignToRecordField(t *testing.T) {
	expectValue(t, `
var p = { name: "ada", age: 36 }
p.name = "grace"
p.name
`, "grace")
	runSourceExpectingError(t, `
var p = { name: "ada" }
p.email = "x"
`, "record has no field 'email'")
}

func TestAssignToListElement(t *testing.T) {
	expectValue(t, `
var xs = [1, 2, 3]
xs[1] = 20
xs[0] + xs[1] + xs[2]
`, "24")
	runSourceExpectingError(t, `
var xs = [1]
xs[5] = 0
`, "out of bounds")
}

func TestFunctionsAndClosures(t *testing.T) {
	expectValue(t, `
fn make_adder(n: Int) -> (Int) -> Int {
  (x) => x + n
}

let add3 = make_adder(3)
add3(4)
`, "7")
}

func TestRecursion(t *testing.T) {
	expectValue(t, `
fn fib(n: Int) -> Int {
  if n < 2 { n } else { fib(n - 1) + fib(n - 2) }
}
fib(10)
`, "55")
}

func TestEarlyReturn(t *testing.T) {
	expectValue(t, `
fn clamp(n: Int) -> Int {
  if n > 100 {
    return 100
  }
  n
}
clamp(250)
`, "100")
}

func TestWhileLoopWithBreakAndContinue(t *testing.T) {
	expectValue(t, `
var total = 0
var n = 0
while true {
  n = n + 1
  if n > 10 {
    break
  }
  if n % 2 == 0 {
    continue
  }
  total = total + n
}
total
`, "25")
}

func TestForLoopOverRange(t *testing.T) {
	expectValue(t, `
var total = 0
for i in 1..10 {
  total = total + i
}
total
`, "55")
}

func TestForLoopOverList(t *testing.T) {
	expectValue(t, `
var joined = ""
for word in ["a", "b", "c"] {
  joined = joined + word
}
joined
`, "abc")
}

func TestRecordsAndMemberAccess(t *testing.T) {
	expectValue(t, `
let p = { name: "ada", age: 36 }
p.name + " is ${p.age}"
`, "ada is 36")
}

func TestListIndexAndLen(t *testing.T) {
	expectValue(t, `
let xs = [10, 20, 30]
xs[1] + xs.len
`, "23")
}

func TestIndexOutOfBounds(t *testing.T) {
	runSourceExpectingError(t, `[1, 2][5]`, "out of bounds")
}

func TestDivisionByZero(t *testing.T) {
	runSourceExpectingError(t, `1 / 0`, "division by zero")
}

func TestIfElsifElse(t *testing.T) {
	expectValue(t, `
fn describe(n: Int) -> String {
  if n < 0 {
    "negative"
  } elsif n == 0 {
    "zero"
  } else {
    "positive"
  }
}
describe(0)
`, "zero")
}

func TestMatchWithGuardsAndPatterns(t *testing.T) {
	expectValue(t, `
fn judge(n: Int) -> String {
  match n {
    case 0 => "zero"
    case x if x > 0 => "plus ${x}"
    case _ => "minus"
  }
}
judge(7)
`, "plus 7")
}

func TestMatchRecordPattern(t *testing.T) {
	expectValue(t, `
let shape = { kind: "circle", radius: 3 }
match shape {
  case { kind: "circle", radius } => "circle r=${radius}"
  case _ => "other"
}
`, "circle r=3")
}

func TestMatchNoClauseIsError(t *testing.T) {
	runSourceExpectingError(t, `
match 5 {
  case 1 => "one"
}
`, "no match clause matched")
}

func TestIsStructural(t *testing.T) {
	expectValue(t, `
type Named = { name: String }
let p = { name: "ada", age: 36 }
if p is Named { "yes" } else { "no" }
`, "yes")
}

func TestIsRefinementPredicate(t *testing.T) {
	expectValue(t, `
type Person = { name: String, age: Int }
type Adult = Person where age >= 18

let kid = { name: "kim", age: 7 }
let grown = { name: "ada", age: 36 }
"${kid is Adult} ${grown is Adult}"
`, "false true")
}

func TestRefinedConstructionRejectsViolation(t *testing.T) {
	runSourceExpectingError(t, `
type Person = { name: String, age: Int }
type Adult = Person where age >= 18

Adult { name: "kim", age: 7 }
`, "does not satisfy constraint of Adult")
}

func TestNullableFlow(t *testing.T) {
	expectValue(t, `
fn first_or_nil(xs: [Int]) -> Int? {
  if xs.len > 0 { xs[0] } else { nil }
}
"${first_or_nil([9])} ${first_or_nil([])}"
`, "9 nil")
}

func TestPrintBuiltin(t *testing.T) {
	_, _, out := runSource(t, `
print("hello", 1 + 1)
print([1, 2])
`)
	want := "hello 2\n[1, 2]\n"
	if out != want {
		t.Fatalf("print wrote %q, want %q", out, want)
	}
}

func TestStrAndPushBuiltins(t *testing.T) {
	expectValue(t, `str(42) + "!"`, "42!")
	expectValue(t, `
let xs = push([1, 2], 3)
xs.len
`, "3")
}

func TestShadowingInBlocks(t *testing.T) {
	expectValue(t, `
let x = 1
let y = {
  let x = 2
  x + 1
}
x + y
`, "4")
}

func TestModuleValueExposesBindings(t *testing.T) {
	module, err := parser.ParseModule(`
fn greet(name: String) -> String { "hi " + name }
let answer = 42
`)
	if err != nil {
		t.Fatalf("ParseModule returned error: %v", err)
	}
	interp := New()
	_, env, err := interp.EvaluateModule(module)
	if err != nil {
		t.Fatalf("EvaluateModule returned error: %v", err)
	}
	mod := ModuleValue(env)
	record, ok := mod.(*runtime.RecordValue)
	if !ok {
		t.Fatalf("ModuleValue should produce a record")
	}
	if _, ok := record.Fields["greet"]; !ok {
		t.Fatalf("module value missing 'greet'")
	}
	if runtime.Stringify(record.Fields["answer"]) != "42" {
		t.Fatalf("module value 'answer' = %s", runtime.Stringify(record.Fields["answer"]))
	}
}
