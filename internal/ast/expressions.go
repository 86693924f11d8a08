package ast

import (
	"bytes"
	"strings"

	"github.com/compiscript-lang/compiscript/internal/source"
)

// BinaryOp enumerates the binary operators the grammar accepts. The
// type checker's result_* functions (internal/semantic) dispatch on
// this set rather than on the raw operator text.
type BinaryOp string

const (
	OpAdd     BinaryOp = "+"
	OpSub     BinaryOp = "-"
	OpMul     BinaryOp = "*"
	OpDiv     BinaryOp = "/"
	OpMod     BinaryOp = "%"
	OpLt      BinaryOp = "<"
	OpLe      BinaryOp = "<="
	OpGt      BinaryOp = ">"
	OpGe      BinaryOp = ">="
	OpEq      BinaryOp = "=="
	OpNe      BinaryOp = "!="
	OpAnd     BinaryOp = "&&"
	OpOr      BinaryOp = "||"
)

// UnaryOp enumerates the unary operators.
type UnaryOp string

const (
	OpNeg UnaryOp = "-"
	OpNot UnaryOp = "!"
)

// BinaryExpression is `left op right`.
type BinaryExpression struct {
	typed
	Left, Right Expression
	Op          BinaryOp
	Position    source.Position
}

func (b *BinaryExpression) expressionNode()      {}
func (b *BinaryExpression) Pos() source.Position { return b.Position }
func (b *BinaryExpression) String() string {
	return "(" + b.Left.String() + " " + string(b.Op) + " " + b.Right.String() + ")"
}

// UnaryExpression is `op operand`.
type UnaryExpression struct {
	typed
	Operand  Expression
	Op       UnaryOp
	Position source.Position
}

func (u *UnaryExpression) expressionNode()      {}
func (u *UnaryExpression) Pos() source.Position { return u.Position }
func (u *UnaryExpression) String() string {
	return "(" + string(u.Op) + u.Operand.String() + ")"
}

// TernaryExpression is `cond ? then : else`.
type TernaryExpression struct {
	typed
	Cond, Then, Else Expression
	Position         source.Position
}

func (t *TernaryExpression) expressionNode()      {}
func (t *TernaryExpression) Pos() source.Position { return t.Position }
func (t *TernaryExpression) String() string {
	return "(" + t.Cond.String() + " ? " + t.Then.String() + " : " + t.Else.String() + ")"
}

// CallExpression is `callee(args...)`. Callee is either an Identifier
// (a plain function call) or a PropertyAccess (a method call).
type CallExpression struct {
	typed
	Callee   Expression
	Args     []Expression
	Position source.Position
}

func (c *CallExpression) expressionNode()      {}
func (c *CallExpression) Pos() source.Position { return c.Position }
func (c *CallExpression) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	var out bytes.Buffer
	out.WriteString(c.Callee.String())
	out.WriteByte('(')
	out.WriteString(strings.Join(parts, ", "))
	out.WriteByte(')')
	return out.String()
}

// IndexExpression is `object[index]`.
type IndexExpression struct {
	typed
	Object, Index Expression
	Position      source.Position
}

func (ix *IndexExpression) expressionNode()      {}
func (ix *IndexExpression) Pos() source.Position { return ix.Position }
func (ix *IndexExpression) String() string {
	return ix.Object.String() + "[" + ix.Index.String() + "]"
}

// PropertyAccess is `object.name`, a field read or a method reference
// used as the callee of a CallExpression.
type PropertyAccess struct {
	typed
	Object   Expression
	Name     string
	Position source.Position
}

func (p *PropertyAccess) expressionNode()      {}
func (p *PropertyAccess) Pos() source.Position { return p.Position }
func (p *PropertyAccess) String() string {
	return p.Object.String() + "." + p.Name
}

// NewExpression is `new ClassName(args...)`.
type NewExpression struct {
	typed
	ClassName string
	Args      []Expression
	Position  source.Position
}

func (n *NewExpression) expressionNode()      {}
func (n *NewExpression) Pos() source.Position { return n.Position }
func (n *NewExpression) String() string {
	parts := make([]string, len(n.Args))
	for i, a := range n.Args {
		parts[i] = a.String()
	}
	return "new " + n.ClassName + "(" + strings.Join(parts, ", ") + ")"
}
