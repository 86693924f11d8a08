// Package astbuild turns a cst.Tree produced by an external parser into
// the internal/ast tree the rest of the pipeline operates on. It is the
// one package allowed to know the concrete grammar rule names (cst.Kind
// strings); everything downstream works only in terms of internal/ast.
package astbuild

import (
	"fmt"
	"strconv"

	"github.com/compiscript-lang/compiscript/internal/ast"
	"github.com/compiscript-lang/compiscript/internal/cst"
)

// Build walks a top-level "program" cst.Tree and produces an
// ast.Program. It returns an error if the tree's shape doesn't match
// what astbuild expects from the grammar (a malformed or unexpected
// Tree implementation — never a Compiscript syntax error, which the
// external parser itself must have already reported via cst.Parser's
// error return).
func Build(tree cst.Tree) (*ast.Program, error) {
	if tree.Kind() != "program" {
		return nil, fmt.Errorf("astbuild: expected root kind %q, got %q", "program", tree.Kind())
	}
	stmts, err := buildStatements(tree.Children())
	if err != nil {
		return nil, err
	}
	return &ast.Program{Statements: stmts}, nil
}

func buildStatements(children []cst.Tree) ([]ast.Statement, error) {
	out := make([]ast.Statement, 0, len(children))
	for _, c := range children {
		s, err := buildStatement(c)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func buildStatement(t cst.Tree) (ast.Statement, error) {
	switch t.Kind() {
	case "block":
		stmts, err := buildStatements(t.Children())
		if err != nil {
			return nil, err
		}
		return &ast.Block{Statements: stmts, Position: t.Pos()}, nil

	case "varDecl", "constDecl":
		return buildVarDecl(t)

	case "assign":
		target, err := buildExpression(t.Children()[0])
		if err != nil {
			return nil, err
		}
		value, err := buildExpression(t.Children()[1])
		if err != nil {
			return nil, err
		}
		return &ast.Assign{Target: target, Value: value, Position: t.Pos()}, nil

	case "exprStmt":
		expr, err := buildExpression(t.Children()[0])
		if err != nil {
			return nil, err
		}
		return &ast.ExprStmt{Expr: expr, Position: t.Pos()}, nil

	case "printStmt":
		expr, err := buildExpression(t.Children()[0])
		if err != nil {
			return nil, err
		}
		return &ast.PrintStmt{Expr: expr, Position: t.Pos()}, nil

	case "returnStmt":
		if len(t.Children()) == 0 {
			return &ast.ReturnStmt{Position: t.Pos()}, nil
		}
		v, err := buildExpression(t.Children()[0])
		if err != nil {
			return nil, err
		}
		return &ast.ReturnStmt{Value: v, Position: t.Pos()}, nil

	case "breakStmt":
		return &ast.BreakStmt{Position: t.Pos()}, nil

	case "continueStmt":
		return &ast.ContinueStmt{Position: t.Pos()}, nil

	case "ifStmt":
		return buildIf(t)
	case "whileStmt":
		return buildWhile(t)
	case "doWhileStmt":
		return buildDoWhile(t)
	case "forStmt":
		return buildFor(t)
	case "foreachStmt":
		return buildForeach(t)
	case "switchStmt":
		return buildSwitch(t)
	case "functionDecl":
		return buildFunction(t)
	case "classDecl":
		return buildClass(t)

	default:
		return nil, fmt.Errorf("astbuild: unrecognized statement kind %q", t.Kind())
	}
}

func buildVarDecl(t cst.Tree) (ast.Statement, error) {
	name := t.Attr("name")
	var annotation *ast.TypeExpr
	var init ast.Expression
	for _, c := range t.Children() {
		switch c.Kind() {
		case "typeAnnotation":
			annotation = buildTypeExpr(c)
		default:
			e, err := buildExpression(c)
			if err != nil {
				return nil, err
			}
			init = e
		}
	}
	return &ast.VarDecl{
		Name:       name,
		Annotation: annotation,
		Init:       init,
		IsConst:    t.Kind() == "constDecl",
		Position:   t.Pos(),
	}, nil
}

func buildTypeExpr(t cst.Tree) *ast.TypeExpr {
	rank, _ := strconv.Atoi(t.Attr("rank"))
	return &ast.TypeExpr{Name: t.Attr("base"), Rank: rank, Position: t.Pos()}
}

func buildIf(t cst.Tree) (ast.Statement, error) {
	children := t.Children()
	cond, err := buildExpression(children[0])
	if err != nil {
		return nil, err
	}
	then, err := buildStatement(children[1])
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Statement
	if len(children) > 2 {
		elseStmt, err = buildStatement(children[2])
		if err != nil {
			return nil, err
		}
	}
	return &ast.IfStmt{Cond: cond, Then: then, Else: elseStmt, Position: t.Pos()}, nil
}

func buildWhile(t cst.Tree) (ast.Statement, error) {
	children := t.Children()
	cond, err := buildExpression(children[0])
	if err != nil {
		return nil, err
	}
	body, err := buildStatement(children[1])
	if err != nil {
		return nil, err
	}
	return &ast.WhileStmt{Cond: cond, Body: body, Position: t.Pos()}, nil
}

func buildDoWhile(t cst.Tree) (ast.Statement, error) {
	children := t.Children()
	body, err := buildStatement(children[0])
	if err != nil {
		return nil, err
	}
	cond, err := buildExpression(children[1])
	if err != nil {
		return nil, err
	}
	return &ast.DoWhileStmt{Body: body, Cond: cond, Position: t.Pos()}, nil
}

func buildFor(t cst.Tree) (ast.Statement, error) {
	var init ast.Statement
	var cond ast.Expression
	var step ast.Statement
	var body ast.Statement
	var err error

	if initTree := findChild(t, "forInit"); initTree != nil && len(initTree.Children()) > 0 {
		init, err = buildStatement(initTree.Children()[0])
		if err != nil {
			return nil, err
		}
	}
	if condTree := findChild(t, "forCond"); condTree != nil && len(condTree.Children()) > 0 {
		cond, err = buildExpression(condTree.Children()[0])
		if err != nil {
			return nil, err
		}
	}
	if stepTree := findChild(t, "forStep"); stepTree != nil && len(stepTree.Children()) > 0 {
		step, err = buildStatement(stepTree.Children()[0])
		if err != nil {
			return nil, err
		}
	}
	bodyTree := findChild(t, "forBody")
	if bodyTree == nil {
		return nil, fmt.Errorf("astbuild: forStmt missing body")
	}
	body, err = buildStatement(bodyTree.Children()[0])
	if err != nil {
		return nil, err
	}
	return &ast.ForStmt{Init: init, Cond: cond, Step: step, Body: body, Position: t.Pos()}, nil
}

func buildForeach(t cst.Tree) (ast.Statement, error) {
	children := t.Children()
	collection, err := buildExpression(children[0])
	if err != nil {
		return nil, err
	}
	body, err := buildStatement(children[1])
	if err != nil {
		return nil, err
	}
	return &ast.ForeachStmt{
		VarName:    t.Attr("name"),
		Collection: collection,
		Body:       body,
		Position:   t.Pos(),
	}, nil
}

func buildSwitch(t cst.Tree) (ast.Statement, error) {
	children := t.Children()
	if len(children) == 0 {
		return nil, fmt.Errorf("astbuild: switchStmt missing condition")
	}
	cond, err := buildExpression(children[0])
	if err != nil {
		return nil, err
	}
	var cases []*ast.SwitchCase
	var deflt []ast.Statement
	for _, c := range children[1:] {
		switch c.Kind() {
		case "switchCase":
			value, err := buildExpression(c.Children()[0])
			if err != nil {
				return nil, err
			}
			stmts, err := buildStatements(c.Children()[1:])
			if err != nil {
				return nil, err
			}
			cases = append(cases, &ast.SwitchCase{Value: value, Statements: stmts, Position: c.Pos()})
		case "switchDefault":
			stmts, err := buildStatements(c.Children())
			if err != nil {
				return nil, err
			}
			deflt = stmts
		default:
			return nil, fmt.Errorf("astbuild: unexpected switch arm kind %q", c.Kind())
		}
	}
	return &ast.SwitchStmt{Cond: cond, Cases: cases, Default: deflt, Position: t.Pos()}, nil
}

func buildFunction(t cst.Tree) (*ast.FunctionDecl, error) {
	params := buildParams(findChild(t, "params"))
	var retType *ast.TypeExpr
	if rt := findChild(t, "returnType"); rt != nil {
		retType = buildTypeExpr(rt)
	}
	bodyTree := findChild(t, "block")
	if bodyTree == nil {
		return nil, fmt.Errorf("astbuild: functionDecl %q missing body", t.Attr("name"))
	}
	bodyStmt, err := buildStatement(bodyTree)
	if err != nil {
		return nil, err
	}
	block, ok := bodyStmt.(*ast.Block)
	if !ok {
		return nil, fmt.Errorf("astbuild: functionDecl %q body did not build into a Block", t.Attr("name"))
	}
	return &ast.FunctionDecl{
		Name:       t.Attr("name"),
		Params:     params,
		ReturnType: retType,
		Body:       block,
		Position:   t.Pos(),
	}, nil
}

func buildParams(t cst.Tree) []ast.Param {
	if t == nil {
		return nil
	}
	var out []ast.Param
	for _, c := range t.Children() {
		var ann *ast.TypeExpr
		if len(c.Children()) > 0 {
			ann = buildTypeExpr(c.Children()[0])
		}
		out = append(out, ast.Param{Name: c.Attr("name"), Annotation: ann, Position: c.Pos()})
	}
	return out
}

func buildClass(t cst.Tree) (*ast.ClassDecl, error) {
	decl := &ast.ClassDecl{
		Name:       t.Attr("name"),
		Superclass: t.Attr("superclass"),
		Position:   t.Pos(),
	}
	for _, c := range t.Children() {
		switch c.Kind() {
		case "fieldDecl":
			var ann *ast.TypeExpr
			var init ast.Expression
			for _, fc := range c.Children() {
				if fc.Kind() == "typeAnnotation" {
					ann = buildTypeExpr(fc)
					continue
				}
				e, err := buildExpression(fc)
				if err != nil {
					return nil, err
				}
				init = e
			}
			decl.Fields = append(decl.Fields, &ast.FieldDecl{
				Name:       c.Attr("name"),
				Annotation: ann,
				Init:       init,
				Position:   c.Pos(),
			})
		case "functionDecl":
			m, err := buildFunction(c)
			if err != nil {
				return nil, err
			}
			m.ReceiverClass = decl.Name
			if m.Name == decl.Name {
				decl.Constructor = m
			} else {
				decl.Methods = append(decl.Methods, m)
			}
		default:
			return nil, fmt.Errorf("astbuild: unexpected class member kind %q", c.Kind())
		}
	}
	return decl, nil
}

func findChild(t cst.Tree, kind string) cst.Tree {
	for _, c := range t.Children() {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

func buildExpression(t cst.Tree) (ast.Expression, error) {
	switch t.Kind() {
	case "intLiteral":
		v, err := strconv.ParseInt(t.Text(), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("astbuild: invalid integer literal %q: %w", t.Text(), err)
		}
		return &ast.IntegerLiteral{Value: v, Position: t.Pos()}, nil

	case "floatLiteral":
		v, err := strconv.ParseFloat(t.Text(), 64)
		if err != nil {
			return nil, fmt.Errorf("astbuild: invalid float literal %q: %w", t.Text(), err)
		}
		return &ast.FloatLiteral{Value: v, Position: t.Pos()}, nil

	case "stringLiteral":
		return &ast.StringLiteral{Value: t.Text(), Position: t.Pos()}, nil

	case "boolLiteral":
		return &ast.BooleanLiteral{Value: t.Text() == "true", Position: t.Pos()}, nil

	case "nullLiteral":
		return &ast.NullLiteral{Position: t.Pos()}, nil

	case "arrayLiteral":
		elems, err := buildExpressions(t.Children())
		if err != nil {
			return nil, err
		}
		return &ast.ArrayLiteral{Elements: elems, Position: t.Pos()}, nil

	case "identifier":
		return &ast.Identifier{Name: t.Text(), Position: t.Pos()}, nil

	case "this":
		return &ast.This{Position: t.Pos()}, nil

	case "binaryExpr":
		left, err := buildExpression(t.Children()[0])
		if err != nil {
			return nil, err
		}
		right, err := buildExpression(t.Children()[1])
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpression{Left: left, Right: right, Op: ast.BinaryOp(t.Attr("op")), Position: t.Pos()}, nil

	case "unaryExpr":
		operand, err := buildExpression(t.Children()[0])
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Operand: operand, Op: ast.UnaryOp(t.Attr("op")), Position: t.Pos()}, nil

	case "ternaryExpr":
		cond, err := buildExpression(t.Children()[0])
		if err != nil {
			return nil, err
		}
		thenE, err := buildExpression(t.Children()[1])
		if err != nil {
			return nil, err
		}
		elseE, err := buildExpression(t.Children()[2])
		if err != nil {
			return nil, err
		}
		return &ast.TernaryExpression{Cond: cond, Then: thenE, Else: elseE, Position: t.Pos()}, nil

	case "callExpr":
		callee, err := buildExpression(t.Children()[0])
		if err != nil {
			return nil, err
		}
		args, err := buildExpressions(t.Children()[1:])
		if err != nil {
			return nil, err
		}
		return &ast.CallExpression{Callee: callee, Args: args, Position: t.Pos()}, nil

	case "indexExpr":
		object, err := buildExpression(t.Children()[0])
		if err != nil {
			return nil, err
		}
		index, err := buildExpression(t.Children()[1])
		if err != nil {
			return nil, err
		}
		return &ast.IndexExpression{Object: object, Index: index, Position: t.Pos()}, nil

	case "propertyAccess":
		object, err := buildExpression(t.Children()[0])
		if err != nil {
			return nil, err
		}
		return &ast.PropertyAccess{Object: object, Name: t.Attr("name"), Position: t.Pos()}, nil

	case "newExpr":
		args, err := buildExpressions(t.Children())
		if err != nil {
			return nil, err
		}
		return &ast.NewExpression{ClassName: t.Attr("class"), Args: args, Position: t.Pos()}, nil

	default:
		return nil, fmt.Errorf("astbuild: unrecognized expression kind %q", t.Kind())
	}
}

func buildExpressions(children []cst.Tree) ([]ast.Expression, error) {
	out := make([]ast.Expression, 0, len(children))
	for _, c := range children {
		e, err := buildExpression(c)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
