package types

import "testing"

func TestPrimitiveStrings(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{Boolean, "boolean"},
		{Integer, "integer"},
		{Float, "float"},
		{String, "string"},
		{Void, "void"},
		{Null, "null"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestPrimitivesAreSingletons(t *testing.T) {
	if !Integer.Equals(Integer) {
		t.Error("Integer should equal itself")
	}
	if Integer.Equals(Float) {
		t.Error("Integer should not equal Float")
	}
	if Void.Equals(Integer) {
		t.Error("Void should not equal a primitive")
	}
}

func TestArrayStringAndEquals(t *testing.T) {
	a1 := NewArray(Integer, 1)
	a2 := NewArray(Integer, 2)
	if got := a1.String(); got != "integer[]" {
		t.Errorf("String() = %q, want integer[]", got)
	}
	if got := a2.String(); got != "integer[][]" {
		t.Errorf("String() = %q, want integer[][]", got)
	}
	if !a1.Equals(NewArray(Integer, 1)) {
		t.Error("arrays with same elem/rank should be equal")
	}
	if a1.Equals(a2) {
		t.Error("arrays of different rank should not be equal")
	}
	if a1.Equals(NewArray(Float, 1)) {
		t.Error("arrays of different element type should not be equal")
	}
}

func TestArrayDescend(t *testing.T) {
	rank2 := NewArray(String, 2)
	descended := rank2.Descend()
	want := NewArray(String, 1)
	if !descended.Equals(want) {
		t.Errorf("Descend() = %v, want %v", descended, want)
	}
	rank1 := NewArray(String, 1)
	if got := rank1.Descend(); got != String {
		t.Errorf("Descend() of rank-1 array = %v, want the element type", got)
	}
}

func TestNewArrayPanicsOnNonPositiveRank(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected NewArray(rank=0) to panic")
		}
	}()
	NewArray(Integer, 0)
}

func TestClassEqualsByName(t *testing.T) {
	a := &Class{Name: "Counter"}
	b := &Class{Name: "Counter"}
	c := &Class{Name: "Other"}
	if !a.Equals(b) {
		t.Error("classes with the same name should be equal")
	}
	if a.Equals(c) {
		t.Error("classes with different names should not be equal")
	}
}

func TestFunctionEquals(t *testing.T) {
	f1 := &Function{Params: []Type{Integer, String}, Ret: Boolean}
	f2 := &Function{Params: []Type{Integer, String}, Ret: Boolean}
	f3 := &Function{Params: []Type{Integer}, Ret: Boolean}
	if !f1.Equals(f2) {
		t.Error("functions with the same signature should be equal")
	}
	if f1.Equals(f3) {
		t.Error("functions with a different arity should not be equal")
	}
	if got, want := f1.String(), "(integer, string) -> boolean"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestIsNumeric(t *testing.T) {
	if !IsNumeric(Integer) || !IsNumeric(Float) {
		t.Error("Integer and Float should both be numeric")
	}
	if IsNumeric(Boolean) || IsNumeric(String) {
		t.Error("Boolean and String should not be numeric")
	}
}

func TestIsReferenceLike(t *testing.T) {
	if !IsReferenceLike(&Class{Name: "Counter"}) {
		t.Error("a class type should be reference-like")
	}
	if !IsReferenceLike(NewArray(Integer, 1)) {
		t.Error("an array type should be reference-like")
	}
	if !IsReferenceLike(String) {
		t.Error("string should be reference-like")
	}
	if IsReferenceLike(Integer) || IsReferenceLike(Boolean) {
		t.Error("numeric and boolean types should not be reference-like")
	}
}

func TestUnifyNumeric(t *testing.T) {
	if got, ok := UnifyNumeric(Integer, Integer); !ok || got != Type(Integer) {
		t.Errorf("UnifyNumeric(int, int) = %v, %v, want Integer, true", got, ok)
	}
	if got, ok := UnifyNumeric(Integer, Float); !ok || got != Type(Float) {
		t.Errorf("UnifyNumeric(int, float) = %v, %v, want Float, true", got, ok)
	}
	if _, ok := UnifyNumeric(Integer, Boolean); ok {
		t.Error("UnifyNumeric should reject a non-numeric operand")
	}
}

func TestIsAssignable(t *testing.T) {
	tests := []struct {
		name     string
		src, dst Type
		want     bool
	}{
		{"identity", Integer, Integer, true},
		{"int to float widening", Integer, Float, true},
		{"float to int narrowing rejected", Float, Integer, false},
		{"null to class", Null, &Class{Name: "Counter"}, true},
		{"null to array", Null, NewArray(Integer, 1), true},
		{"null to integer rejected", Null, Integer, false},
		{"mismatched classes rejected", &Class{Name: "A"}, &Class{Name: "B"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAssignable(tt.src, tt.dst); got != tt.want {
				t.Errorf("IsAssignable(%v, %v) = %v, want %v", tt.src, tt.dst, got, tt.want)
			}
		})
	}
}
