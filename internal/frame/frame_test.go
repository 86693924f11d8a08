package frame

import "testing"

func TestLayoutAssignsAscendingParamOffsets(t *testing.T) {
	l := New("add")
	if err := l.AddParam("a"); err != nil {
		t.Fatal(err)
	}
	if err := l.AddParam("b"); err != nil {
		t.Fatal(err)
	}
	if err := l.Seal(); err != nil {
		t.Fatal(err)
	}

	if off, ok := l.Offset("a"); !ok || off != 8 {
		t.Errorf("Offset(a) = %d, %v, want 8, true", off, ok)
	}
	if off, ok := l.Offset("b"); !ok || off != 16 {
		t.Errorf("Offset(b) = %d, %v, want 16, true", off, ok)
	}
}

func TestLayoutAssignsDescendingLocalOffsets(t *testing.T) {
	l := New("f")
	if err := l.AddLocal("x"); err != nil {
		t.Fatal(err)
	}
	if err := l.AddLocal("y"); err != nil {
		t.Fatal(err)
	}
	if err := l.Seal(); err != nil {
		t.Fatal(err)
	}

	if off, ok := l.Offset("x"); !ok || off != -8 {
		t.Errorf("Offset(x) = %d, %v, want -8, true", off, ok)
	}
	if off, ok := l.Offset("y"); !ok || off != -16 {
		t.Errorf("Offset(y) = %d, %v, want -16, true", off, ok)
	}
	if got := l.Size(); got != 16 {
		t.Errorf("Size() = %d, want 16", got)
	}
}

func TestLayoutRejectsDuplicateNames(t *testing.T) {
	l := New("f")
	if err := l.AddParam("x"); err != nil {
		t.Fatal(err)
	}
	if err := l.AddParam("x"); err == nil {
		t.Error("expected an error adding a duplicate parameter")
	}
	if err := l.AddLocal("x"); err == nil {
		t.Error("expected an error reusing a parameter name as a local")
	}
}

func TestSealedLayoutRejectsFurtherMutation(t *testing.T) {
	l := New("f")
	if err := l.AddLocal("x"); err != nil {
		t.Fatal(err)
	}
	if err := l.Seal(); err != nil {
		t.Fatal(err)
	}
	if err := l.AddLocal("y"); err == nil {
		t.Error("expected an error adding a local after Seal")
	}
	if err := l.Seal(); err == nil {
		t.Error("expected an error sealing twice")
	}
}

func TestUnsealedOffsetLookupMisses(t *testing.T) {
	l := New("f")
	if err := l.AddParam("a"); err != nil {
		t.Fatal(err)
	}
	if _, ok := l.Offset("a"); ok {
		t.Error("Offset should not resolve before Seal")
	}
}
