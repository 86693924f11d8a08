package ast

import (
	"fmt"
	"strings"
)

// Dump renders an indented textual tree of program, for debugging and
// for tests; no CLI subcommand exposes it. It is deliberately plain
// text rather than a graph format: nothing downstream of the pipeline
// consumes a machine-readable AST export.
func Dump(program *Program) string {
	var b strings.Builder
	for _, s := range program.Statements {
		dumpStatement(&b, s, 0)
	}
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func dumpStatement(b *strings.Builder, s Statement, depth int) {
	switch n := s.(type) {
	case *Block:
		indent(b, depth)
		b.WriteString("Block\n")
		for _, st := range n.Statements {
			dumpStatement(b, st, depth+1)
		}
	case *VarDecl:
		indent(b, depth)
		fmt.Fprintf(b, "VarDecl %s const=%v\n", n.Name, n.IsConst)
		if n.Init != nil {
			dumpExpression(b, n.Init, depth+1)
		}
	case *Assign:
		indent(b, depth)
		b.WriteString("Assign\n")
		dumpExpression(b, n.Target, depth+1)
		dumpExpression(b, n.Value, depth+1)
	case *ExprStmt:
		indent(b, depth)
		b.WriteString("ExprStmt\n")
		dumpExpression(b, n.Expr, depth+1)
	case *PrintStmt:
		indent(b, depth)
		b.WriteString("PrintStmt\n")
		dumpExpression(b, n.Expr, depth+1)
	case *ReturnStmt:
		indent(b, depth)
		b.WriteString("ReturnStmt\n")
		if n.Value != nil {
			dumpExpression(b, n.Value, depth+1)
		}
	case *BreakStmt:
		indent(b, depth)
		b.WriteString("BreakStmt\n")
	case *ContinueStmt:
		indent(b, depth)
		b.WriteString("ContinueStmt\n")
	case *IfStmt:
		indent(b, depth)
		b.WriteString("IfStmt\n")
		dumpExpression(b, n.Cond, depth+1)
		dumpStatement(b, n.Then, depth+1)
		if n.Else != nil {
			dumpStatement(b, n.Else, depth+1)
		}
	case *WhileStmt:
		indent(b, depth)
		b.WriteString("WhileStmt\n")
		dumpExpression(b, n.Cond, depth+1)
		dumpStatement(b, n.Body, depth+1)
	case *DoWhileStmt:
		indent(b, depth)
		b.WriteString("DoWhileStmt\n")
		dumpStatement(b, n.Body, depth+1)
		dumpExpression(b, n.Cond, depth+1)
	case *ForStmt:
		indent(b, depth)
		b.WriteString("ForStmt\n")
		if n.Init != nil {
			dumpStatement(b, n.Init, depth+1)
		}
		if n.Cond != nil {
			dumpExpression(b, n.Cond, depth+1)
		}
		if n.Step != nil {
			dumpStatement(b, n.Step, depth+1)
		}
		dumpStatement(b, n.Body, depth+1)
	case *ForeachStmt:
		indent(b, depth)
		fmt.Fprintf(b, "ForeachStmt %s\n", n.VarName)
		dumpExpression(b, n.Collection, depth+1)
		dumpStatement(b, n.Body, depth+1)
	case *SwitchStmt:
		indent(b, depth)
		b.WriteString("SwitchStmt\n")
		dumpExpression(b, n.Cond, depth+1)
		for _, c := range n.Cases {
			indent(b, depth+1)
			b.WriteString("Case\n")
			dumpExpression(b, c.Value, depth+2)
			for _, st := range c.Statements {
				dumpStatement(b, st, depth+2)
			}
		}
		if n.Default != nil {
			indent(b, depth+1)
			b.WriteString("Default\n")
			for _, st := range n.Default {
				dumpStatement(b, st, depth+2)
			}
		}
	case *FunctionDecl:
		indent(b, depth)
		fmt.Fprintf(b, "FunctionDecl %s\n", n.Name)
		dumpStatement(b, n.Body, depth+1)
	case *ClassDecl:
		indent(b, depth)
		fmt.Fprintf(b, "ClassDecl %s\n", n.Name)
		for _, f := range n.Fields {
			indent(b, depth+1)
			fmt.Fprintf(b, "FieldDecl %s\n", f.Name)
		}
		if n.Constructor != nil {
			dumpStatement(b, n.Constructor, depth+1)
		}
		for _, m := range n.Methods {
			dumpStatement(b, m, depth+1)
		}
	default:
		indent(b, depth)
		fmt.Fprintf(b, "%T\n", n)
	}
}

func dumpExpression(b *strings.Builder, e Expression, depth int) {
	switch n := e.(type) {
	case *Identifier:
		indent(b, depth)
		fmt.Fprintf(b, "Identifier %s\n", n.Name)
	case *This:
		indent(b, depth)
		b.WriteString("This\n")
	case *IntegerLiteral:
		indent(b, depth)
		fmt.Fprintf(b, "IntegerLiteral %d\n", n.Value)
	case *FloatLiteral:
		indent(b, depth)
		fmt.Fprintf(b, "FloatLiteral %g\n", n.Value)
	case *StringLiteral:
		indent(b, depth)
		fmt.Fprintf(b, "StringLiteral %q\n", n.Value)
	case *BooleanLiteral:
		indent(b, depth)
		fmt.Fprintf(b, "BooleanLiteral %v\n", n.Value)
	case *NullLiteral:
		indent(b, depth)
		b.WriteString("NullLiteral\n")
	case *ArrayLiteral:
		indent(b, depth)
		b.WriteString("ArrayLiteral\n")
		for _, el := range n.Elements {
			dumpExpression(b, el, depth+1)
		}
	case *BinaryExpression:
		indent(b, depth)
		fmt.Fprintf(b, "BinaryExpression %s\n", n.Op)
		dumpExpression(b, n.Left, depth+1)
		dumpExpression(b, n.Right, depth+1)
	case *UnaryExpression:
		indent(b, depth)
		fmt.Fprintf(b, "UnaryExpression %s\n", n.Op)
		dumpExpression(b, n.Operand, depth+1)
	case *TernaryExpression:
		indent(b, depth)
		b.WriteString("TernaryExpression\n")
		dumpExpression(b, n.Cond, depth+1)
		dumpExpression(b, n.Then, depth+1)
		dumpExpression(b, n.Else, depth+1)
	case *CallExpression:
		indent(b, depth)
		b.WriteString("CallExpression\n")
		dumpExpression(b, n.Callee, depth+1)
		for _, a := range n.Args {
			dumpExpression(b, a, depth+1)
		}
	case *IndexExpression:
		indent(b, depth)
		b.WriteString("IndexExpression\n")
		dumpExpression(b, n.Object, depth+1)
		dumpExpression(b, n.Index, depth+1)
	case *PropertyAccess:
		indent(b, depth)
		fmt.Fprintf(b, "PropertyAccess %s\n", n.Name)
		dumpExpression(b, n.Object, depth+1)
	case *NewExpression:
		indent(b, depth)
		fmt.Fprintf(b, "NewExpression %s\n", n.ClassName)
		for _, a := range n.Args {
			dumpExpression(b, a, depth+1)
		}
	default:
		indent(b, depth)
		fmt.Fprintf(b, "%T\n", n)
	}
}
