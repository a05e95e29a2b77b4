package runtime

import (
	"math/big"
	"testing"
)

func TestTruthyOnlyNilAndFalseAreFalsey(t *testing.T) {
	if Truthy(NilValue{}) {
		t.Fatalf("nil should be falsey")
	}
	if Truthy(BoolValue{Val: false}) {
		t.Fatalf("false should be falsey")
	}
	for _, v := range []Value{
		BoolValue{Val: true},
		NewInt(0),
		FloatValue{Val: 0},
		StringValue{Val: ""},
		&ListValue{},
	} {
		if !Truthy(v) {
			t.Fatalf("expected %s to be truthy", Stringify(v))
		}
	}
}

func TestStringifyRecordSortsFields(t *testing.T) {
	rec := &RecordValue{
		TypeName: "Person",
		Fields: map[string]Value{
			"name": StringValue{Val: "ada"},
			"age":  NewInt(36),
		},
	}
	got := Stringify(rec)
	want := `Person { age: 36, name: ada }`
	if got != want {
		t.Fatalf("Stringify = %q, want %q", got, want)
	}
}

func TestStringifyList(t *testing.T) {
	list := &ListValue{Elements: []Value{NewInt(1), NewInt(2), NewInt(3)}}
	if got := Stringify(list); got != "[1, 2, 3]" {
		t.Fatalf("Stringify = %q", got)
	}
}

func TestEqualStructural(t *testing.T) {
	a := &RecordValue{Fields: map[string]Value{"x": NewInt(1)}}
	b := &RecordValue{Fields: map[string]Value{"x": IntValue{Val: big.NewInt(1)}}}
	if !Equal(a, b) {
		t.Fatalf("records with equal fields should compare equal")
	}
	c := &RecordValue{Fields: map[string]Value{"x": NewInt(2)}}
	if Equal(a, c) {
		t.Fatalf("records with different fields should not compare equal")
	}
}

func TestEnvironmentScoping(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("x", NewInt(1))

	child := global.Extend()
	child.Define("y", NewInt(2))

	if _, err := child.Get("x"); err != nil {
		t.Fatalf("child should see parent binding: %v", err)
	}
	if _, err := global.Get("y"); err == nil {
		t.Fatalf("parent should not see child binding")
	}

	if err := child.Assign("x", NewInt(10)); err != nil {
		t.Fatalf("Assign through scope chain: %v", err)
	}
	v, err := global.Get("x")
	if err != nil {
		t.Fatalf("Get after Assign: %v", err)
	}
	if Stringify(v) != "10" {
		t.Fatalf("assignment did not reach defining scope, got %s", Stringify(v))
	}

	if err := child.Assign("missing", NewInt(0)); err == nil {
		t.Fatalf("expected error assigning undefined variable")
	}
}
