package semantic

import (
	"testing"

	"github.com/compiscript-lang/compiscript/internal/ast"
	"github.com/compiscript-lang/compiscript/internal/reporter"
)

func runPipeline(t *testing.T, program *ast.Program) *reporter.Reporter {
	t.Helper()
	rep := reporter.New()
	ctx := NewPassContext(rep)
	pm := NewPassManager(DeclarationPass{}, TypeLinkPass{}, TypeCheckPass{})
	if err := pm.RunAll(program, ctx); err != nil {
		t.Fatalf("pipeline returned internal error: %v", err)
	}
	return rep
}

func hasCode(rep *reporter.Reporter, code reporter.Code) bool {
	for _, d := range rep.Diagnostics() {
		if d.Code == code {
			return true
		}
	}
	return false
}

func TestUndeclaredIdentifier(t *testing.T) {
	program := &ast.Program{
		Statements: []ast.Statement{
			&ast.PrintStmt{Expr: &ast.Identifier{Name: "missing"}},
		},
	}
	rep := runPipeline(t, program)
	if !hasCode(rep, reporter.EUndeclared) {
		t.Fatalf("expected E100, got: %s", rep.Summary())
	}
}

func TestMissingReturn(t *testing.T) {
	fn := &ast.FunctionDecl{
		Name:       "f",
		ReturnType: &ast.TypeExpr{Name: "integer"},
		Body: &ast.Block{
			Statements: []ast.Statement{
				&ast.ExprStmt{Expr: &ast.IntegerLiteral{Value: 1}},
			},
		},
	}
	program := &ast.Program{Statements: []ast.Statement{fn}}
	rep := runPipeline(t, program)
	if !hasCode(rep, reporter.EMissingReturn) {
		t.Fatalf("expected E303, got: %s", rep.Summary())
	}
}

func TestMissingReturnSatisfiedByIfElse(t *testing.T) {
	fn := &ast.FunctionDecl{
		Name:       "f",
		ReturnType: &ast.TypeExpr{Name: "integer"},
		Body: &ast.Block{
			Statements: []ast.Statement{
				&ast.IfStmt{
					Cond: &ast.BooleanLiteral{Value: true},
					Then: &ast.Block{Statements: []ast.Statement{
						&ast.ReturnStmt{Value: &ast.IntegerLiteral{Value: 1}},
					}},
					Else: &ast.Block{Statements: []ast.Statement{
						&ast.ReturnStmt{Value: &ast.IntegerLiteral{Value: 2}},
					}},
				},
			},
		},
	}
	program := &ast.Program{Statements: []ast.Statement{fn}}
	rep := runPipeline(t, program)
	if hasCode(rep, reporter.EMissingReturn) {
		t.Fatalf("did not expect E303, got: %s", rep.Summary())
	}
}

func TestLoopNeverCountsAsDefinitelyReturning(t *testing.T) {
	fn := &ast.FunctionDecl{
		Name:       "f",
		ReturnType: &ast.TypeExpr{Name: "integer"},
		Body: &ast.Block{
			Statements: []ast.Statement{
				&ast.WhileStmt{
					Cond: &ast.BooleanLiteral{Value: true},
					Body: &ast.Block{Statements: []ast.Statement{
						&ast.ReturnStmt{Value: &ast.IntegerLiteral{Value: 1}},
					}},
				},
			},
		},
	}
	program := &ast.Program{Statements: []ast.Statement{fn}}
	rep := runPipeline(t, program)
	if !hasCode(rep, reporter.EMissingReturn) {
		t.Fatalf("expected E303 since a loop body may run zero times, got: %s", rep.Summary())
	}
}

func TestBreakOutsideLoop(t *testing.T) {
	program := &ast.Program{
		Statements: []ast.Statement{
			&ast.BreakStmt{},
		},
	}
	rep := runPipeline(t, program)
	if !hasCode(rep, reporter.EBadBreakContinue) {
		t.Fatalf("expected E300, got: %s", rep.Summary())
	}
}

func TestAssignTypeMismatch(t *testing.T) {
	program := &ast.Program{
		Statements: []ast.Statement{
			&ast.VarDecl{Name: "x", Annotation: &ast.TypeExpr{Name: "integer"}, Init: &ast.IntegerLiteral{Value: 1}},
			&ast.Assign{Target: &ast.Identifier{Name: "x"}, Value: &ast.StringLiteral{Value: "no"}},
		},
	}
	rep := runPipeline(t, program)
	if !hasCode(rep, reporter.EAssignIncompatible) {
		t.Fatalf("expected E200, got: %s", rep.Summary())
	}
}

func TestAssignToConstant(t *testing.T) {
	program := &ast.Program{
		Statements: []ast.Statement{
			&ast.VarDecl{Name: "x", IsConst: true, Init: &ast.IntegerLiteral{Value: 1}},
			&ast.Assign{Target: &ast.Identifier{Name: "x"}, Value: &ast.IntegerLiteral{Value: 2}},
		},
	}
	rep := runPipeline(t, program)
	if !hasCode(rep, reporter.EAssignToConst) {
		t.Fatalf("expected E401, got: %s", rep.Summary())
	}
}

func TestSwitchNonBooleanNonStringReportsTwoErrors(t *testing.T) {
	program := &ast.Program{
		Statements: []ast.Statement{
			&ast.SwitchStmt{
				Cond: &ast.IntegerLiteral{Value: 1},
				Cases: []*ast.SwitchCase{
					{Value: &ast.IntegerLiteral{Value: 1}},
				},
			},
		},
	}
	rep := runPipeline(t, program)
	if !hasCode(rep, reporter.ECondNotBoolean) || !hasCode(rep, reporter.EOperandTypes) {
		t.Fatalf("expected both E301 and E201, got: %s", rep.Summary())
	}
}

func TestInheritanceCycleDetected(t *testing.T) {
	a := &ast.ClassDecl{Name: "A", Superclass: "B"}
	b := &ast.ClassDecl{Name: "B", Superclass: "A"}
	program := &ast.Program{Statements: []ast.Statement{a, b}}
	rep := runPipeline(t, program)
	if !hasCode(rep, reporter.EInheritanceLoop) {
		t.Fatalf("expected E140, got: %s", rep.Summary())
	}
}

func TestClassFieldInheritedLookup(t *testing.T) {
	base := &ast.ClassDecl{
		Name: "Animal",
		Fields: []*ast.FieldDecl{
			{Name: "name", Annotation: &ast.TypeExpr{Name: "string"}},
		},
	}
	derived := &ast.ClassDecl{Name: "Dog", Superclass: "Animal"}
	fn := &ast.FunctionDecl{
		Name: "main",
		Body: &ast.Block{
			Statements: []ast.Statement{
				&ast.VarDecl{Name: "d", Init: &ast.NewExpression{ClassName: "Dog"}},
				&ast.PrintStmt{Expr: &ast.PropertyAccess{Object: &ast.Identifier{Name: "d"}, Name: "name"}},
			},
		},
	}
	program := &ast.Program{Statements: []ast.Statement{base, derived, fn}}
	rep := runPipeline(t, program)
	if rep.HasErrors() {
		t.Fatalf("unexpected errors: %s", rep.Summary())
	}
}

func TestCallArityMismatch(t *testing.T) {
	fn := &ast.FunctionDecl{
		Name:   "add",
		Params: []ast.Param{{Name: "a", Annotation: &ast.TypeExpr{Name: "integer"}}},
		Body:   &ast.Block{},
	}
	caller := &ast.FunctionDecl{
		Name: "main",
		Body: &ast.Block{
			Statements: []ast.Statement{
				&ast.ExprStmt{Expr: &ast.CallExpression{
					Callee: &ast.Identifier{Name: "add"},
					Args:   []ast.Expression{&ast.IntegerLiteral{Value: 1}, &ast.IntegerLiteral{Value: 2}},
				}},
			},
		},
	}
	program := &ast.Program{Statements: []ast.Statement{fn, caller}}
	rep := runPipeline(t, program)
	if !hasCode(rep, reporter.ECallArity) {
		t.Fatalf("expected E202, got: %s", rep.Summary())
	}
}

func TestReturnValueInVoidFunctionReportsOperandTypes(t *testing.T) {
	fn := &ast.FunctionDecl{
		Name: "f",
		Body: &ast.Block{
			Statements: []ast.Statement{
				&ast.ReturnStmt{Value: &ast.IntegerLiteral{Value: 1}},
			},
		},
	}
	program := &ast.Program{Statements: []ast.Statement{fn}}
	rep := runPipeline(t, program)
	if !hasCode(rep, reporter.EOperandTypes) {
		t.Fatalf("expected E201, got: %s", rep.Summary())
	}
}

func TestReturnWithoutValueInNonVoidFunctionReportsMissingReturn(t *testing.T) {
	fn := &ast.FunctionDecl{
		Name:       "f",
		ReturnType: &ast.TypeExpr{Name: "integer"},
		Body: &ast.Block{
			Statements: []ast.Statement{
				&ast.ReturnStmt{},
			},
		},
	}
	program := &ast.Program{Statements: []ast.Statement{fn}}
	rep := runPipeline(t, program)
	if !hasCode(rep, reporter.EMissingReturn) {
		t.Fatalf("expected E303, got: %s", rep.Summary())
	}
}

func TestEmptyArrayLiteralReportsOperandTypes(t *testing.T) {
	program := &ast.Program{
		Statements: []ast.Statement{
			&ast.VarDecl{Name: "xs", Init: &ast.ArrayLiteral{}},
		},
	}
	rep := runPipeline(t, program)
	if !hasCode(rep, reporter.EOperandTypes) {
		t.Fatalf("expected E201, got: %s", rep.Summary())
	}
}

func TestNestedFunctionCanBeCalledAndCapturesOuterParameter(t *testing.T) {
	// function outer(x: integer): integer {
	//   function inner(): integer { return x; }
	//   return inner();
	// }
	inner := &ast.FunctionDecl{
		Name:       "inner",
		ReturnType: &ast.TypeExpr{Name: "integer"},
		Body: &ast.Block{
			Statements: []ast.Statement{
				&ast.ReturnStmt{Value: &ast.Identifier{Name: "x"}},
			},
		},
	}
	outer := &ast.FunctionDecl{
		Name:       "outer",
		Params:     []ast.Param{{Name: "x", Annotation: &ast.TypeExpr{Name: "integer"}}},
		ReturnType: &ast.TypeExpr{Name: "integer"},
		Body: &ast.Block{
			Statements: []ast.Statement{
				inner,
				&ast.ReturnStmt{Value: &ast.CallExpression{Callee: &ast.Identifier{Name: "inner"}}},
			},
		},
	}
	program := &ast.Program{Statements: []ast.Statement{outer}}

	rep := reporter.New()
	ctx := NewPassContext(rep)
	pm := NewPassManager(DeclarationPass{}, TypeLinkPass{}, TypeCheckPass{})
	if err := pm.RunAll(program, ctx); err != nil {
		t.Fatalf("pipeline returned internal error: %v", err)
	}
	if rep.HasErrors() {
		t.Fatalf("unexpected errors: %s", rep.Summary())
	}

	outerInfo := ctx.Functions["outer"]
	innerInfo := outerInfo.Nested["inner"]
	if innerInfo == nil {
		t.Fatalf("expected \"inner\" to be registered as a nested function of \"outer\"")
	}
	if !innerInfo.Captured["x"] {
		t.Errorf("expected \"inner\" to have captured \"x\", captured = %v", innerInfo.Captured)
	}
}

func TestIntegerAssignableToFloat(t *testing.T) {
	program := &ast.Program{
		Statements: []ast.Statement{
			&ast.VarDecl{Name: "x", Annotation: &ast.TypeExpr{Name: "float"}, Init: &ast.IntegerLiteral{Value: 1}},
		},
	}
	rep := runPipeline(t, program)
	if rep.HasErrors() {
		t.Fatalf("integer->float promotion should be allowed, got: %s", rep.Summary())
	}
}
