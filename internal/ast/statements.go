package ast

import (
	"bytes"

	"github.com/compiscript-lang/compiscript/internal/source"
	"github.com/compiscript-lang/compiscript/internal/types"
)

// TypeExpr is a parsed-but-unresolved type annotation: a base name plus
// an array rank (counted from the number of trailing "[]" the grammar
// saw). The Type Linker pass resolves this into a types.Type.
type TypeExpr struct {
	Name     string
	Rank     int
	Position source.Position
}

func (t *TypeExpr) String() string {
	s := t.Name
	for i := 0; i < t.Rank; i++ {
		s += "[]"
	}
	return s
}

// Block is `{ statements... }`, introducing a new block scope.
type Block struct {
	Statements []Statement
	Position   source.Position
}

func (b *Block) statementNode()      {}
func (b *Block) Pos() source.Position { return b.Position }
func (b *Block) String() string {
	var out bytes.Buffer
	out.WriteString("{\n")
	for _, s := range b.Statements {
		out.WriteString(s.String())
		out.WriteByte('\n')
	}
	out.WriteString("}")
	return out.String()
}

// VarDecl is `let name : Type = init;` or `const name : Type = init;`.
// Annotation may be nil when the declaration omits a type and relies on
// the initializer to determine it (spec §4.3's type-inference rule for
// untyped locals).
type VarDecl struct {
	Name        string
	Annotation  *TypeExpr
	Init        Expression
	IsConst     bool
	ResolvedType types.Type
	Position    source.Position
}

func (v *VarDecl) statementNode()      {}
func (v *VarDecl) Pos() source.Position { return v.Position }
func (v *VarDecl) String() string {
	kw := "let"
	if v.IsConst {
		kw = "const"
	}
	s := kw + " " + v.Name
	if v.Annotation != nil {
		s += " : " + v.Annotation.String()
	}
	if v.Init != nil {
		s += " = " + v.Init.String()
	}
	return s + ";"
}

// Assign is `target = value;`. Target is an Identifier, IndexExpression,
// or PropertyAccess — the type checker rejects anything else.
type Assign struct {
	Target   Expression
	Value    Expression
	Position source.Position
}

func (a *Assign) statementNode()      {}
func (a *Assign) Pos() source.Position { return a.Position }
func (a *Assign) String() string {
	return a.Target.String() + " = " + a.Value.String() + ";"
}

// ExprStmt is an expression evaluated for its side effect, e.g. a bare
// call statement.
type ExprStmt struct {
	Expr     Expression
	Position source.Position
}

func (e *ExprStmt) statementNode()      {}
func (e *ExprStmt) Pos() source.Position { return e.Position }
func (e *ExprStmt) String() string       { return e.Expr.String() + ";" }

// PrintStmt is the builtin `print(expr);` statement.
type PrintStmt struct {
	Expr     Expression
	Position source.Position
}

func (p *PrintStmt) statementNode()      {}
func (p *PrintStmt) Pos() source.Position { return p.Position }
func (p *PrintStmt) String() string       { return "print(" + p.Expr.String() + ");" }

// ReturnStmt is `return;` or `return expr;`.
type ReturnStmt struct {
	Value    Expression // nil for a bare `return;`
	Position source.Position
}

func (r *ReturnStmt) statementNode()      {}
func (r *ReturnStmt) Pos() source.Position { return r.Position }
func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "return;"
	}
	return "return " + r.Value.String() + ";"
}

// BreakStmt is `break;`, valid only inside a loop or a switch's case body.
type BreakStmt struct {
	Position source.Position
}

func (b *BreakStmt) statementNode()      {}
func (b *BreakStmt) Pos() source.Position { return b.Position }
func (b *BreakStmt) String() string       { return "break;" }

// ContinueStmt is `continue;`, valid only inside a loop.
type ContinueStmt struct {
	Position source.Position
}

func (c *ContinueStmt) statementNode()      {}
func (c *ContinueStmt) Pos() source.Position { return c.Position }
func (c *ContinueStmt) String() string       { return "continue;" }
