package compiscript_test

import (
	"strings"
	"testing"

	"github.com/compiscript-lang/compiscript/internal/cst"
	"github.com/compiscript-lang/compiscript/internal/reporter"
	"github.com/compiscript-lang/compiscript/internal/source"
	"github.com/compiscript-lang/compiscript/pkg/compiscript"
)

// fakeTree is a minimal cst.Tree, built by hand to stand in for an
// external parser front-end in these wiring tests.
type fakeTree struct {
	kind     string
	text     string
	attrs    map[string]string
	children []cst.Tree
}

func (f *fakeTree) Kind() string         { return f.kind }
func (f *fakeTree) Text() string         { return f.text }
func (f *fakeTree) Pos() source.Position { return source.Zero }
func (f *fakeTree) Children() []cst.Tree { return f.children }
func (f *fakeTree) Attr(key string) string {
	if f.attrs == nil {
		return ""
	}
	return f.attrs[key]
}

func leaf(kind, text string) *fakeTree {
	return &fakeTree{kind: kind, text: text}
}

func TestAnalyzeAndLowerSimpleProgram(t *testing.T) {
	// var x = 1 + 2; print(x);
	varDecl := &fakeTree{
		kind:  "varDecl",
		attrs: map[string]string{"name": "x"},
		children: []cst.Tree{
			&fakeTree{
				kind:  "binaryExpr",
				attrs: map[string]string{"op": "+"},
				children: []cst.Tree{
					leaf("intLiteral", "1"),
					leaf("intLiteral", "2"),
				},
			},
		},
	}
	printStmt := &fakeTree{
		kind:     "printStmt",
		children: []cst.Tree{leaf("identifier", "x")},
	}
	program := &fakeTree{kind: "program", children: []cst.Tree{varDecl, printStmt}}

	result, err := compiscript.Analyze(program)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if !result.Ok() {
		t.Fatalf("Analyze reported errors: %+v", result.Diagnostics)
	}

	lowered, err := compiscript.LowerProgram(result.Program)
	if err != nil {
		t.Fatalf("LowerProgram: %v", err)
	}
	if len(lowered.Functions) != 1 || lowered.Functions[0].Name != "main" {
		t.Fatalf("expected a single synthetic main function, got %+v", lowered.Functions)
	}
}

func TestAnalyzeReportsUndeclaredIdentifierAsError(t *testing.T) {
	// print(y); -- y was never declared anywhere.
	printStmt := &fakeTree{
		kind:     "printStmt",
		children: []cst.Tree{leaf("identifier", "y")},
	}
	program := &fakeTree{kind: "program", children: []cst.Tree{printStmt}}

	result, err := compiscript.Analyze(program)
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if result.Ok() {
		t.Fatal("expected Analyze to report an error for an undeclared identifier")
	}
	found := false
	for _, d := range result.Diagnostics {
		if d.Code == reporter.EUndeclared {
			found = true
		}
	}
	if !found {
		t.Errorf("diagnostics = %+v, want one with code %s", result.Diagnostics, reporter.EUndeclared)
	}
}

func TestAnalyzeRejectsWrongRootKind(t *testing.T) {
	_, err := compiscript.Analyze(&fakeTree{kind: "notAProgram"})
	if err == nil {
		t.Fatal("expected an error for a tree whose root isn't a program")
	}
	if !strings.Contains(err.Error(), "compiscript") {
		t.Errorf("error = %q, want it wrapped with the compiscript: prefix", err.Error())
	}
}
