package ast

import (
	"strings"

	"github.com/compiscript-lang/compiscript/internal/source"
)

// Param is one formal parameter of a function or method.
type Param struct {
	Name       string
	Annotation *TypeExpr
	Position   source.Position
}

// FunctionDecl is a top-level function or, when ReceiverClass is
// non-empty, a method body registered under its owning class.
type FunctionDecl struct {
	Name          string
	Params        []Param
	ReturnType    *TypeExpr // nil means the function returns void
	Body          *Block
	ReceiverClass string // set by the declaration pass when nested in a class
	Position      source.Position
}

func (f *FunctionDecl) statementNode()      {}
func (f *FunctionDecl) Pos() source.Position { return f.Position }
func (f *FunctionDecl) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		s := p.Name
		if p.Annotation != nil {
			s += " : " + p.Annotation.String()
		}
		parts[i] = s
	}
	s := "function " + f.Name + "(" + strings.Join(parts, ", ") + ")"
	if f.ReturnType != nil {
		s += " : " + f.ReturnType.String()
	}
	return s + " " + f.Body.String()
}

// FieldDecl is one instance field of a class.
type FieldDecl struct {
	Name       string
	Annotation *TypeExpr
	Init       Expression // nil when the field has no initializer
	Position   source.Position
}

// ClassDecl is a class definition: fields, methods, and an optional
// constructor, with an optional superclass for single inheritance.
type ClassDecl struct {
	Name       string
	Superclass string // empty when the class has no explicit superclass
	Fields     []*FieldDecl
	Methods    []*FunctionDecl
	// Constructor is the method literally named the class's own name,
	// matching the grammar's constructor-by-name-match convention
	// (no separate `constructor` keyword). Nil when the class declares
	// no constructor.
	Constructor *FunctionDecl
	Position    source.Position
}

func (c *ClassDecl) statementNode()      {}
func (c *ClassDecl) Pos() source.Position { return c.Position }
func (c *ClassDecl) String() string {
	s := "class " + c.Name
	if c.Superclass != "" {
		s += " : " + c.Superclass
	}
	s += " {\n"
	for _, f := range c.Fields {
		s += "let " + f.Name
		if f.Annotation != nil {
			s += " : " + f.Annotation.String()
		}
		s += ";\n"
	}
	if c.Constructor != nil {
		s += c.Constructor.String() + "\n"
	}
	for _, m := range c.Methods {
		s += m.String() + "\n"
	}
	return s + "}"
}
