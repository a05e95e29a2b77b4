package parser

import (
	"testing"

	"github.com/GiGurra/fl/pkg/ast"
)

func mustParseModule(t *testing.T, src string) *ast.Module {
	t.Helper()
	module, err := ParseModule(src)
	if err != nil {
		t.Fatalf("ParseModule failed: %v\nsource:\n%s", err, src)
	}
	return module
}

func mustParseExpression(t *testing.T, src string) ast.Expression {
	t.Helper()
	expr, err := ParseExpression(src)
	if err != nil {
		t.Fatalf("ParseExpression(%q) failed: %v", src, err)
	}
	return expr
}

func TestParseVariableDeclarations(t *testing.T) {
	module := mustParseModule(t, `
		let x = 1
		var y: Int = 2
		let p: Person = Person { name: "Alice", age: 30 }
	`)
	if len(module.Body) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(module.Body))
	}

	first, ok := module.Body[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("expected VariableDeclaration, got %T", module.Body[0])
	}
	if first.Mutable || first.Name.Name != "x" || first.TypeAnnotation != nil {
		t.Fatalf("unexpected first declaration %+v", first)
	}

	second := module.Body[1].(*ast.VariableDeclaration)
	if !second.Mutable {
		t.Fatalf("expected var to be mutable")
	}
	if _, ok := second.TypeAnnotation.(*ast.SimpleTypeExpression); !ok {
		t.Fatalf("expected simple type annotation, got %T", second.TypeAnnotation)
	}

	third := module.Body[2].(*ast.VariableDeclaration)
	record, ok := third.Value.(*ast.RecordLiteral)
	if !ok {
		t.Fatalf("expected record literal, got %T", third.Value)
	}
	if record.TypeName == nil || record.TypeName.Name != "Person" {
		t.Fatalf("expected named record literal, got %+v", record.TypeName)
	}
	if len(record.Fields) != 2 || record.Fields[1].Name.Name != "age" {
		t.Fatalf("unexpected record fields %+v", record.Fields)
	}
}

func TestParseOperatorPrecedence(t *testing.T) {
	expr := mustParseExpression(t, "1 + 2 * 3")
	bin, ok := expr.(*ast.BinaryExpression)
	if !ok || bin.Operator != "+" {
		t.Fatalf("expected top-level '+', got %#v", expr)
	}
	right, ok := bin.Right.(*ast.BinaryExpression)
	if !ok || right.Operator != "*" {
		t.Fatalf("expected '*' on the right, got %#v", bin.Right)
	}

	expr = mustParseExpression(t, "a || b && c == d")
	or, ok := expr.(*ast.BinaryExpression)
	if !ok || or.Operator != "||" {
		t.Fatalf("expected top-level '||', got %#v", expr)
	}
	and, ok := or.Right.(*ast.BinaryExpression)
	if !ok || and.Operator != "&&" {
		t.Fatalf("expected '&&' under '||', got %#v", or.Right)
	}
}

func TestParseIsExpression(t *testing.T) {
	expr := mustParseExpression(t, "p is Adult && q")
	and, ok := expr.(*ast.BinaryExpression)
	if !ok || and.Operator != "&&" {
		t.Fatalf("expected '&&' at top, got %#v", expr)
	}
	is, ok := and.Left.(*ast.IsExpression)
	if !ok {
		t.Fatalf("expected IsExpression on the left, got %T", and.Left)
	}
	simple, ok := is.Type.(*ast.SimpleTypeExpression)
	if !ok || simple.Name.Name != "Adult" {
		t.Fatalf("unexpected is-type %#v", is.Type)
	}
}

func TestParseFunctionDefinition(t *testing.T) {
	module := mustParseModule(t, `
		fn greet(p: { name: String }) String {
			return "hello, " + p.name
		}
	`)
	fn, ok := module.Body[0].(*ast.FunctionDefinition)
	if !ok {
		t.Fatalf("expected FunctionDefinition, got %T", module.Body[0])
	}
	if fn.Name.Name != "greet" || len(fn.Params) != 1 {
		t.Fatalf("unexpected signature %+v", fn)
	}
	record, ok := fn.Params[0].Type.(*ast.RecordTypeExpression)
	if !ok || len(record.Fields) != 1 || record.Fields[0].Name.Name != "name" {
		t.Fatalf("expected structural parameter type, got %#v", fn.Params[0].Type)
	}
	if _, ok := fn.ReturnType.(*ast.SimpleTypeExpression); !ok {
		t.Fatalf("expected simple return type, got %T", fn.ReturnType)
	}
}

func TestParseFunctionDefinitionArrowReturnType(t *testing.T) {
	module := mustParseModule(t, `
		fn add(a: Int, b: Int) -> Int { a + b }
		fn noop() { nil }
	`)
	add, ok := module.Body[0].(*ast.FunctionDefinition)
	if !ok {
		t.Fatalf("expected FunctionDefinition, got %T", module.Body[0])
	}
	simple, ok := add.ReturnType.(*ast.SimpleTypeExpression)
	if !ok || simple.Name.Name != "Int" {
		t.Fatalf("expected Int return type, got %#v", add.ReturnType)
	}
	noop := module.Body[1].(*ast.FunctionDefinition)
	if noop.ReturnType != nil {
		t.Fatalf("expected no return type, got %#v", noop.ReturnType)
	}
}

func TestParseTypeDeclarations(t *testing.T) {
	module := mustParseModule(t, `
		type Person { name: String, age: Int }
		type Age = Int
		type Adult = Person where age >= 18
	`)
	person := module.Body[0].(*ast.TypeDeclaration)
	if person.Name.Name != "Person" || person.Where != nil {
		t.Fatalf("unexpected Person declaration %+v", person)
	}
	if record, ok := person.Body.(*ast.RecordTypeExpression); !ok || len(record.Fields) != 2 {
		t.Fatalf("expected two-field record body, got %#v", person.Body)
	}

	alias := module.Body[1].(*ast.TypeDeclaration)
	if _, ok := alias.Body.(*ast.SimpleTypeExpression); !ok {
		t.Fatalf("expected alias body, got %T", alias.Body)
	}

	adult := module.Body[2].(*ast.TypeDeclaration)
	if adult.Where == nil {
		t.Fatalf("expected where clause on Adult")
	}
	cmp, ok := adult.Where.(*ast.BinaryExpression)
	if !ok || cmp.Operator != ">=" {
		t.Fatalf("unexpected where predicate %#v", adult.Where)
	}
}

func TestParseIfElsifElse(t *testing.T) {
	expr := mustParseExpression(t, `if x > 1 { "big" } elsif x > 0 { "small" } else { "neg" }`)
	ifExpr, ok := expr.(*ast.IfExpression)
	if !ok {
		t.Fatalf("expected IfExpression, got %T", expr)
	}
	if len(ifExpr.OrClauses) != 2 {
		t.Fatalf("expected 2 or-clauses, got %d", len(ifExpr.OrClauses))
	}
	if ifExpr.OrClauses[0].Condition == nil {
		t.Fatalf("elsif clause lost its condition")
	}
	if ifExpr.OrClauses[1].Condition != nil {
		t.Fatalf("else clause should have nil condition")
	}
}

func TestParseHeaderSuppressesRecordLiteral(t *testing.T) {
	module := mustParseModule(t, `
		if ready { done() }
		while going { step() }
	`)
	ifStmt, ok := module.Body[0].(*ast.IfExpression)
	if !ok {
		t.Fatalf("expected IfExpression, got %T", module.Body[0])
	}
	if _, ok := ifStmt.Condition.(*ast.Identifier); !ok {
		t.Fatalf("condition should be a bare identifier, got %T", ifStmt.Condition)
	}
}

func TestParseMatchExpression(t *testing.T) {
	expr := mustParseExpression(t, `match p {
		case Person { name, age: a } if a > 10 => name,
		case x: Adult => "adult",
		case nil => "none",
		case _ => "other"
	}`)
	m, ok := expr.(*ast.MatchExpression)
	if !ok {
		t.Fatalf("expected MatchExpression, got %T", expr)
	}
	if len(m.Clauses) != 4 {
		t.Fatalf("expected 4 clauses, got %d", len(m.Clauses))
	}

	rec, ok := m.Clauses[0].Pattern.(*ast.RecordPattern)
	if !ok || rec.TypeName.Name != "Person" || len(rec.Fields) != 2 {
		t.Fatalf("unexpected record pattern %#v", m.Clauses[0].Pattern)
	}
	if rec.Fields[0].Pattern != nil {
		t.Fatalf("shorthand field should have nil sub-pattern")
	}
	if m.Clauses[0].Guard == nil {
		t.Fatalf("expected guard on first clause")
	}

	typed, ok := m.Clauses[1].Pattern.(*ast.TypedPattern)
	if !ok {
		t.Fatalf("expected TypedPattern, got %T", m.Clauses[1].Pattern)
	}
	if _, ok := typed.Pattern.(*ast.Identifier); !ok {
		t.Fatalf("typed pattern should wrap identifier, got %T", typed.Pattern)
	}

	if _, ok := m.Clauses[2].Pattern.(*ast.LiteralPattern); !ok {
		t.Fatalf("expected literal pattern, got %T", m.Clauses[2].Pattern)
	}
	if _, ok := m.Clauses[3].Pattern.(*ast.WildcardPattern); !ok {
		t.Fatalf("expected wildcard pattern, got %T", m.Clauses[3].Pattern)
	}
}

func TestParseLambdaAndCalls(t *testing.T) {
	expr := mustParseExpression(t, "apply((x: Int) => x + 1, xs[0].value)")
	call, ok := expr.(*ast.FunctionCall)
	if !ok || len(call.Arguments) != 2 {
		t.Fatalf("unexpected call %#v", expr)
	}
	lam, ok := call.Arguments[0].(*ast.LambdaExpression)
	if !ok || len(lam.Params) != 1 || lam.Params[0].Name.Name != "x" {
		t.Fatalf("unexpected lambda %#v", call.Arguments[0])
	}
	member, ok := call.Arguments[1].(*ast.MemberAccessExpression)
	if !ok || member.Member.Name != "value" {
		t.Fatalf("unexpected member access %#v", call.Arguments[1])
	}
	if _, ok := member.Object.(*ast.IndexExpression); !ok {
		t.Fatalf("expected index under member access, got %T", member.Object)
	}
}

func TestParseGroupedExpressionStillWorks(t *testing.T) {
	expr := mustParseExpression(t, "(1 + 2) * 3")
	bin, ok := expr.(*ast.BinaryExpression)
	if !ok || bin.Operator != "*" {
		t.Fatalf("expected '*', got %#v", expr)
	}
}

func TestParseTypeExpressions(t *testing.T) {
	module := mustParseModule(t, `
		let a: [Int] = []
		let b: Int? = nil
		let c: Int | String = 1
		let f: (Int, Int) -> Int = (x: Int, y: Int) => x + y
	`)
	listTy := module.Body[0].(*ast.VariableDeclaration).TypeAnnotation
	if _, ok := listTy.(*ast.ListTypeExpression); !ok {
		t.Fatalf("expected list type, got %T", listTy)
	}
	nullable := module.Body[1].(*ast.VariableDeclaration).TypeAnnotation
	if _, ok := nullable.(*ast.NullableTypeExpression); !ok {
		t.Fatalf("expected nullable type, got %T", nullable)
	}
	union := module.Body[2].(*ast.VariableDeclaration).TypeAnnotation
	if u, ok := union.(*ast.UnionTypeExpression); !ok || len(u.Members) != 2 {
		t.Fatalf("expected 2-member union, got %#v", union)
	}
	fnTy := module.Body[3].(*ast.VariableDeclaration).TypeAnnotation
	if f, ok := fnTy.(*ast.FunctionTypeExpression); !ok || len(f.Params) != 2 {
		t.Fatalf("expected function type, got %#v", fnTy)
	}
}

func TestParseImports(t *testing.T) {
	module := mustParseModule(t, `
		import "util/strings"
		import "geometry"

		let x = 1
	`)
	if len(module.Imports) != 2 {
		t.Fatalf("expected 2 imports, got %d", len(module.Imports))
	}
	if module.Imports[0].Path != "util/strings" {
		t.Fatalf("unexpected import path %q", module.Imports[0].Path)
	}
}

func TestParseStringInterpolation(t *testing.T) {
	expr := mustParseExpression(t, `"hi ${name}, next year ${age + 1}"`)
	interp, ok := expr.(*ast.StringInterpolation)
	if !ok {
		t.Fatalf("expected StringInterpolation, got %T", expr)
	}
	if len(interp.Parts) != 4 {
		t.Fatalf("expected 4 parts, got %d", len(interp.Parts))
	}
	if _, ok := interp.Parts[3].(*ast.BinaryExpression); !ok {
		t.Fatalf("expected expression part, got %T", interp.Parts[3])
	}
}

func TestParseAssignmentTargets(t *testing.T) {
	mustParseExpression(t, "x = 1")
	mustParseExpression(t, "p.age = 2")
	mustParseExpression(t, "xs[0] = 3")

	if _, err := ParseExpression("1 = 2"); err == nil {
		t.Fatalf("expected error assigning to literal")
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"let = 1",
		"fn (x) {}",
		"type = Int",
		"match x { }",
		"if x { 1 } elsif { 2 }",
		"let x: = 1",
		"1 +",
	}
	for _, src := range cases {
		if _, err := ParseModule(src); err == nil {
			t.Errorf("ParseModule(%q): expected error, got none", src)
		}
	}
}

func TestParseImportAfterStatementRejected(t *testing.T) {
	if _, err := ParseModule("let x = 1\nimport \"dep\""); err == nil {
		t.Fatalf("expected error for late import")
	}
}
