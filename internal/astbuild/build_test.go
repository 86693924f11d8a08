package astbuild

import (
	"testing"

	"github.com/compiscript-lang/compiscript/internal/ast"
	"github.com/compiscript-lang/compiscript/internal/cst"
	"github.com/compiscript-lang/compiscript/internal/source"
)

// fakeTree is a minimal cst.Tree used to drive the builder in tests
// without a real parser front-end.
type fakeTree struct {
	kind     string
	text     string
	attrs    map[string]string
	children []cst.Tree
	pos      source.Position
}

func (f *fakeTree) Kind() string     { return f.kind }
func (f *fakeTree) Text() string     { return f.text }
func (f *fakeTree) Children() []cst.Tree { return f.children }
func (f *fakeTree) Pos() source.Position { return f.pos }
func (f *fakeTree) Attr(key string) string {
	if f.attrs == nil {
		return ""
	}
	return f.attrs[key]
}

func leaf(kind, text string) *fakeTree {
	return &fakeTree{kind: kind, text: text}
}

func TestBuildSimpleProgram(t *testing.T) {
	// var x = 1 + 2; print(x);
	varDecl := &fakeTree{
		kind:  "varDecl",
		attrs: map[string]string{"name": "x"},
		children: []cst.Tree{
			&fakeTree{
				kind: "binaryExpr",
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

	out, err := Build(program)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(out.Statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(out.Statements))
	}

	decl, ok := out.Statements[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("statement 0 is %T, want *ast.VarDecl", out.Statements[0])
	}
	if decl.Name != "x" {
		t.Errorf("decl.Name = %q, want %q", decl.Name, "x")
	}
	bin, ok := decl.Init.(*ast.BinaryExpression)
	if !ok {
		t.Fatalf("decl.Init is %T, want *ast.BinaryExpression", decl.Init)
	}
	if bin.Op != ast.OpAdd {
		t.Errorf("bin.Op = %q, want %q", bin.Op, ast.OpAdd)
	}

	pr, ok := out.Statements[1].(*ast.PrintStmt)
	if !ok {
		t.Fatalf("statement 1 is %T, want *ast.PrintStmt", out.Statements[1])
	}
	id, ok := pr.Expr.(*ast.Identifier)
	if !ok || id.Name != "x" {
		t.Errorf("pr.Expr = %#v, want Identifier{Name: x}", pr.Expr)
	}
}

func TestBuildRejectsWrongRootKind(t *testing.T) {
	if _, err := Build(leaf("notAProgram", "")); err == nil {
		t.Fatal("expected error for wrong root kind")
	}
}

func TestBuildIfWithoutElse(t *testing.T) {
	ifTree := &fakeTree{
		kind: "ifStmt",
		children: []cst.Tree{
			leaf("boolLiteral", "true"),
			&fakeTree{kind: "block"},
		},
	}
	program := &fakeTree{kind: "program", children: []cst.Tree{ifTree}}
	out, err := Build(program)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	stmt, ok := out.Statements[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("got %T, want *ast.IfStmt", out.Statements[0])
	}
	if stmt.Else != nil {
		t.Errorf("stmt.Else = %#v, want nil", stmt.Else)
	}
}
