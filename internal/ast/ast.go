// Package ast defines the Compiscript Abstract Syntax Tree: the node
// types the Declaration Collector, Type Linker, and Type-Check Visitor
// walk, and the AST->IR lowering stage consumes. Every node carries its
// source position for diagnostics and, on expression nodes, a resolved
// type slot the type checker fills in (mirroring the teacher's
// GetType/SetType convention).
package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/compiscript-lang/compiscript/internal/source"
	"github.com/compiscript-lang/compiscript/internal/types"
)

// Node is the base interface every AST node implements.
type Node interface {
	String() string
	Pos() source.Position
}

// Expression is a node that produces a value and carries a resolved
// type once the type checker has run.
type Expression interface {
	Node
	expressionNode()
	GetType() types.Type
	SetType(t types.Type)
}

// Statement is a node that performs an action and produces no value.
type Statement interface {
	Node
	statementNode()
}

// Program is the root node: the whole compilation unit.
type Program struct {
	Statements []Statement
}

func (p *Program) Pos() source.Position {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return source.Zero
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteByte('\n')
	}
	return out.String()
}

// typed is embedded by every expression node to supply the GetType/
// SetType pair without repeating the two methods on each struct.
type typed struct {
	resolved types.Type
}

func (t *typed) GetType() types.Type   { return t.resolved }
func (t *typed) SetType(ty types.Type) { t.resolved = ty }

// Identifier is a bare name reference: a variable, parameter, function,
// or class name used as a value.
type Identifier struct {
	typed
	Name     string
	Position source.Position
}

func (i *Identifier) expressionNode()     {}
func (i *Identifier) Pos() source.Position { return i.Position }
func (i *Identifier) String() string      { return i.Name }

// This is the `this` receiver expression, valid only inside a method body.
type This struct {
	typed
	Position source.Position
}

func (t *This) expressionNode()     {}
func (t *This) Pos() source.Position { return t.Position }
func (t *This) String() string      { return "this" }

// IntegerLiteral is an integer constant.
type IntegerLiteral struct {
	typed
	Value    int64
	Position source.Position
}

func (l *IntegerLiteral) expressionNode()     {}
func (l *IntegerLiteral) Pos() source.Position { return l.Position }
func (l *IntegerLiteral) String() string      { return strconv.FormatInt(l.Value, 10) }

// FloatLiteral is a floating-point constant.
type FloatLiteral struct {
	typed
	Value    float64
	Position source.Position
}

func (l *FloatLiteral) expressionNode()     {}
func (l *FloatLiteral) Pos() source.Position { return l.Position }
func (l *FloatLiteral) String() string      { return strconv.FormatFloat(l.Value, 'g', -1, 64) }

// StringLiteral is a string constant.
type StringLiteral struct {
	typed
	Value    string
	Position source.Position
}

func (l *StringLiteral) expressionNode()     {}
func (l *StringLiteral) Pos() source.Position { return l.Position }
func (l *StringLiteral) String() string      { return "\"" + l.Value + "\"" }

// BooleanLiteral is `true` or `false`.
type BooleanLiteral struct {
	typed
	Value    bool
	Position source.Position
}

func (l *BooleanLiteral) expressionNode()     {}
func (l *BooleanLiteral) Pos() source.Position { return l.Position }
func (l *BooleanLiteral) String() string {
	if l.Value {
		return "true"
	}
	return "false"
}

// NullLiteral is the `null` literal.
type NullLiteral struct {
	typed
	Position source.Position
}

func (l *NullLiteral) expressionNode()     {}
func (l *NullLiteral) Pos() source.Position { return l.Position }
func (l *NullLiteral) String() string      { return "null" }

// ArrayLiteral is `[e1, e2, ...]`.
type ArrayLiteral struct {
	typed
	Elements []Expression
	Position source.Position
}

func (l *ArrayLiteral) expressionNode()     {}
func (l *ArrayLiteral) Pos() source.Position { return l.Position }
func (l *ArrayLiteral) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
