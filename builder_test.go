package jso

import "testing"

func TestArrayBuilderChaining(t *testing.T) {
	v := NewArrayBuilder().Push(Int(1)).Push(Int(2)).Push(NewString("x")).Build()
	if v.Kind() != KindArray || v.Array().Len() != 3 {
		t.Fatalf("Build() = %v, want a 3-element array", v)
	}
	e, _ := v.Array().Get(2)
	if e.StringValue().Go() != "x" {
		t.Fatalf("element 2 = %v, want \"x\"", e)
	}
}

func TestObjectBuilderChaining(t *testing.T) {
	v := NewObjectBuilder().Set("a", Int(1)).Set("b", Bool(true)).Build()
	if v.Kind() != KindObject || v.Object().Len() != 2 {
		t.Fatalf("Build() = %v, want a 2-member object", v)
	}
	a, ok := v.Object().Get("a")
	if !ok || a.Int() != 1 {
		t.Fatalf("a = %v, %v, want 1, true", a, ok)
	}
}

func TestObjectBuilderOverwrite(t *testing.T) {
	v := NewObjectBuilder().Set("a", Int(1)).Set("a", Int(2)).Build()
	if v.Object().Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after overwriting the same key", v.Object().Len())
	}
	a, _ := v.Object().Get("a")
	if a.Int() != 2 {
		t.Fatalf("a = %d, want 2", a.Int())
	}
}
