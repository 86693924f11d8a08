package semantic

import (
	"github.com/compiscript-lang/compiscript/internal/ast"
	"github.com/compiscript-lang/compiscript/internal/reporter"
	"github.com/compiscript-lang/compiscript/internal/types"
)

// TypeCheckPass is Pass 3: the flow-sensitive visitor that type-checks
// every expression and statement, validates break/continue nesting,
// enforces constant immutability, and runs the "definitely returns"
// analysis that backs the missing-return diagnostic. Unlike
// DeclarationPass and TypeLinkPass, this pass is the only one that
// needs to reason about control flow, so it is also where dead-code
// (spec §4.4, E500) is detected: any statement following one that
// definitely returns is unreachable.
type TypeCheckPass struct{}

func (TypeCheckPass) Name() string { return "type-check" }

func (TypeCheckPass) Run(program *ast.Program, ctx *PassContext) error {
	for _, stmt := range program.Statements {
		checkTopLevel(stmt, ctx)
	}
	return nil
}

func checkTopLevel(stmt ast.Statement, ctx *PassContext) {
	switch decl := stmt.(type) {
	case *ast.ClassDecl:
		checkClass(decl, ctx)
	case *ast.FunctionDecl:
		checkFunction(ctx.Functions[decl.Name], ctx)
	case *ast.VarDecl:
		checkVarDecl(decl, ctx.Global, ctx)
	default:
		checkStatementIn(stmt, ctx.Global, ctx)
	}
}

func checkClass(decl *ast.ClassDecl, ctx *PassContext) {
	info := ctx.Classes[decl.Name]
	prevClass := ctx.CurrentClass
	ctx.CurrentClass = info
	defer func() { ctx.CurrentClass = prevClass }()

	classScope := ctx.PushScope(ScopeClass, decl.Name)
	defer ctx.PopScope()

	for _, f := range decl.Fields {
		t, ok := info.Fields[f.Name]
		if !ok {
			if f.Init != nil {
				t = checkExpression(f.Init, classScope, ctx)
				info.Fields[f.Name] = t
			} else {
				t = types.Void
			}
		} else if f.Init != nil {
			initType := checkExpression(f.Init, classScope, ctx)
			if !types.IsAssignable(initType, t) {
				ctx.Reporter.Report(reporter.EAssignIncompatible, f.Init.Pos(),
					"cannot initialize field %q of type %s with value of type %s", f.Name, t, initType)
			}
		}
		classScope.Define(&Symbol{Name: f.Name, Kind: SymField, Type: t})
	}

	if decl.Constructor != nil {
		checkFunction(info.ConstructorInfo, ctx)
	}
	for _, m := range decl.Methods {
		checkFunction(info.MethodInfos[m.Name], ctx)
	}
}

// checkFunction type-checks one function, method, constructor, or
// nested function body. info carries its resolved signature and the
// table of functions declared directly inside it (spec's first-class
// nested functions), which are pre-declared as SymFunction symbols in
// its own scope so calls can forward-reference a nested function
// declared later in the same body.
func checkFunction(info *FunctionInfo, ctx *PassContext) {
	decl := info.Decl
	sig := info.Type

	fnScope := ctx.PushScope(ScopeFunction, decl.Name)
	defer ctx.PopScope()

	prevFn, prevRet, prevFnScope := ctx.CurrentFunction, ctx.CurrentReturnType, ctx.CurrentFunctionScope
	ctx.CurrentFunction = info
	ctx.CurrentReturnType = sig.Ret
	ctx.CurrentFunctionScope = fnScope
	defer func() {
		ctx.CurrentFunction = prevFn
		ctx.CurrentReturnType = prevRet
		ctx.CurrentFunctionScope = prevFnScope
	}()

	for i, p := range decl.Params {
		fnScope.Define(&Symbol{Name: p.Name, Kind: SymParameter, Type: sig.Params[i]})
	}
	for name, nested := range info.Nested {
		fnScope.Define(&Symbol{Name: name, Kind: SymFunction, Type: nested.Type, OwningFunction: fnScope})
	}

	definitelyReturns := checkBlock(decl.Body, fnScope, ctx)
	if sig.Ret != types.Type(types.Void) && !definitelyReturns {
		ctx.Reporter.Report(reporter.EMissingReturn, decl.Position,
			"function %q must return a value of type %s on every path", decl.Name, sig.Ret)
	}
}

// checkNestedFunction type-checks a function declared as a statement
// inside another function's body. Its signature and nested-function
// table were already recorded by Pass 1 under the enclosing function's
// FunctionInfo.Nested, keyed by name. A nested function declaration
// never counts toward the enclosing block's "definitely returns"
// analysis.
func checkNestedFunction(decl *ast.FunctionDecl, ctx *PassContext) bool {
	if ctx.CurrentFunction == nil {
		return false
	}
	info, ok := ctx.CurrentFunction.Nested[decl.Name]
	if !ok {
		return false
	}
	checkFunction(info, ctx)
	return false
}

func checkVarDecl(decl *ast.VarDecl, scope *Scope, ctx *PassContext) {
	var declType types.Type
	if decl.Annotation != nil {
		declType, _ = resolveTypeExpr(decl.Annotation, ctx)
	}
	var initType types.Type
	if decl.Init != nil {
		initType = checkExpression(decl.Init, scope, ctx)
		if declType == nil {
			declType = initType
		} else if !types.IsAssignable(initType, declType) {
			ctx.Reporter.Report(reporter.EAssignIncompatible, decl.Init.Pos(),
				"cannot initialize %q of type %s with value of type %s", decl.Name, declType, initType)
		}
	}
	if declType == nil {
		declType = types.Void
	}
	decl.ResolvedType = declType

	if scope == ctx.Global {
		if sym, ok := ctx.Global.Lookup(decl.Name); ok {
			sym.Type = declType
			return
		}
	}
	if _, dup := scope.Lookup(decl.Name); dup {
		ctx.Reporter.Report(reporter.EDuplicateID, decl.Position,
			"%q is already declared in this scope", decl.Name)
		return
	}
	kind := SymVariable
	if decl.IsConst {
		kind = SymConstant
	}
	scope.Define(&Symbol{Name: decl.Name, Kind: kind, Type: declType, ReadOnly: decl.IsConst})
}

// checkBlock type-checks every statement of a block in a fresh nested
// scope and returns whether the block definitely returns on every path.
func checkBlock(b *ast.Block, parent *Scope, ctx *PassContext) bool {
	scope := NewScope(ScopeBlock, parent, "")
	prevScope := ctx.CurrentScope
	ctx.CurrentScope = scope
	defer func() { ctx.CurrentScope = prevScope }()
	return checkStatements(b.Statements, scope, ctx)
}

func checkStatements(stmts []ast.Statement, scope *Scope, ctx *PassContext) bool {
	returned := false
	for _, s := range stmts {
		if returned {
			ctx.Reporter.Warn(reporter.EDeadCode, s.Pos(), "unreachable statement")
		}
		if checkStatementIn(s, scope, ctx) {
			returned = true
		}
	}
	return returned
}

// checkStatementIn type-checks a single statement in scope and reports
// whether it definitely returns. Only Block/If/Return route through
// here with a true result; loops and switch are conservatively treated
// as never definitely returning (spec §4.4: a loop might run zero
// times, so a return inside it can't be guaranteed).
func checkStatementIn(stmt ast.Statement, scope *Scope, ctx *PassContext) bool {
	switch s := stmt.(type) {
	case *ast.Block:
		return checkBlock(s, scope, ctx)
	case *ast.VarDecl:
		checkVarDecl(s, scope, ctx)
		return false
	case *ast.Assign:
		checkAssign(s, scope, ctx)
		return false
	case *ast.ExprStmt:
		checkExpression(s.Expr, scope, ctx)
		return false
	case *ast.PrintStmt:
		checkExpression(s.Expr, scope, ctx)
		return false
	case *ast.ReturnStmt:
		checkReturn(s, ctx)
		return true
	case *ast.BreakStmt:
		if !ctx.InLoop() && !ctx.InSwitch() {
			ctx.Reporter.Report(reporter.EBadBreakContinue, s.Position, "break outside of a loop or switch")
		}
		return false
	case *ast.ContinueStmt:
		if !ctx.InLoop() {
			ctx.Reporter.Report(reporter.EBadBreakContinue, s.Position, "continue outside of a loop")
		}
		return false
	case *ast.IfStmt:
		return checkIf(s, scope, ctx)
	case *ast.WhileStmt:
		checkLoopCondition(s.Cond, scope, ctx)
		ctx.LoopDepth++
		checkStatementIn(s.Body, scope, ctx)
		ctx.LoopDepth--
		return false
	case *ast.DoWhileStmt:
		ctx.LoopDepth++
		checkStatementIn(s.Body, scope, ctx)
		ctx.LoopDepth--
		checkLoopCondition(s.Cond, scope, ctx)
		return false
	case *ast.ForStmt:
		return checkFor(s, scope, ctx)
	case *ast.ForeachStmt:
		return checkForeach(s, scope, ctx)
	case *ast.SwitchStmt:
		return checkSwitch(s, scope, ctx)
	case *ast.FunctionDecl:
		return checkNestedFunction(s, ctx)
	default:
		return false
	}
}

func checkLoopCondition(cond ast.Expression, scope *Scope, ctx *PassContext) {
	t := checkExpression(cond, scope, ctx)
	if t != types.Type(types.Boolean) {
		ctx.Reporter.Report(reporter.ECondNotBoolean, cond.Pos(), "loop condition must be boolean, got %s", t)
	}
}

func checkIf(s *ast.IfStmt, scope *Scope, ctx *PassContext) bool {
	condType := checkExpression(s.Cond, scope, ctx)
	if condType != types.Type(types.Boolean) {
		ctx.Reporter.Report(reporter.ECondNotBoolean, s.Cond.Pos(), "if condition must be boolean, got %s", condType)
	}
	thenReturns := checkStatementIn(s.Then, scope, ctx)
	if s.Else == nil {
		return false
	}
	elseReturns := checkStatementIn(s.Else, scope, ctx)
	return thenReturns && elseReturns
}

func checkFor(s *ast.ForStmt, scope *Scope, ctx *PassContext) bool {
	forScope := NewScope(ScopeBlock, scope, "")
	prevScope := ctx.CurrentScope
	ctx.CurrentScope = forScope
	defer func() { ctx.CurrentScope = prevScope }()

	if s.Init != nil {
		checkStatementIn(s.Init, forScope, ctx)
	}
	if s.Cond != nil {
		checkLoopCondition(s.Cond, forScope, ctx)
	}
	ctx.LoopDepth++
	checkStatementIn(s.Body, forScope, ctx)
	if s.Step != nil {
		checkStatementIn(s.Step, forScope, ctx)
	}
	ctx.LoopDepth--
	return false
}

func checkForeach(s *ast.ForeachStmt, scope *Scope, ctx *PassContext) bool {
	collType := checkExpression(s.Collection, scope, ctx)
	arr, ok := collType.(*types.Array)
	elemType := types.Type(types.Void)
	if !ok {
		if collType != nil {
			ctx.Reporter.Report(reporter.EIndexInvalid, s.Collection.Pos(),
				"foreach requires an array, got %s", collType)
		}
	} else {
		elemType = arr.Descend()
	}

	bodyScope := NewScope(ScopeBlock, scope, "")
	bodyScope.Define(&Symbol{Name: s.VarName, Kind: SymVariable, Type: elemType})
	prevScope := ctx.CurrentScope
	ctx.CurrentScope = bodyScope
	ctx.LoopDepth++
	checkStatementIn(s.Body, bodyScope, ctx)
	ctx.LoopDepth--
	ctx.CurrentScope = prevScope
	return false
}

func checkSwitch(s *ast.SwitchStmt, scope *Scope, ctx *PassContext) bool {
	condType := checkExpression(s.Cond, scope, ctx)
	if condType != types.Type(types.Boolean) && condType != types.Type(types.String) {
		// Two-diagnostic policy: a non-boolean/non-string switch
		// condition is both an operand-type error (the case
		// comparisons will all be invalid) and a dedicated
		// condition-type error, reported together.
		ctx.Reporter.Report(reporter.ECondNotBoolean, s.Cond.Pos(),
			"switch condition must be boolean or string, got %s", condType)
		ctx.Reporter.Report(reporter.EOperandTypes, s.Cond.Pos(),
			"case comparisons against %s are invalid", condType)
	}

	ctx.SwitchDepth++
	defer func() { ctx.SwitchDepth-- }()

	for _, c := range s.Cases {
		caseType := checkExpression(c.Value, scope, ctx)
		if condType != nil && caseType != nil && !types.IsAssignable(caseType, condType) && !types.IsAssignable(condType, caseType) {
			ctx.Reporter.Report(reporter.EOperandTypes, c.Value.Pos(),
				"case value of type %s is not comparable to switch condition of type %s", caseType, condType)
		}
		caseScope := NewScope(ScopeBlock, scope, "")
		prevScope := ctx.CurrentScope
		ctx.CurrentScope = caseScope
		checkStatements(c.Statements, caseScope, ctx)
		ctx.CurrentScope = prevScope
	}
	if s.Default != nil {
		defaultScope := NewScope(ScopeBlock, scope, "")
		prevScope := ctx.CurrentScope
		ctx.CurrentScope = defaultScope
		checkStatements(s.Default, defaultScope, ctx)
		ctx.CurrentScope = prevScope
	}
	// A switch never counts as definitely returning: Compiscript has
	// no exhaustiveness requirement on cases, so the checker can't
	// prove every path returns even when a default arm is present.
	return false
}

func checkReturn(s *ast.ReturnStmt, ctx *PassContext) {
	if ctx.CurrentReturnType == nil {
		ctx.Reporter.Report(reporter.EReturnOutside, s.Position, "return used outside of a function")
		return
	}
	if s.Value == nil {
		if ctx.CurrentReturnType != types.Type(types.Void) {
			ctx.Reporter.Report(reporter.EMissingReturn, s.Position,
				"function must return a value of type %s", ctx.CurrentReturnType)
		}
		return
	}
	valueType := checkExpression(s.Value, ctx.CurrentScope, ctx)
	if ctx.CurrentReturnType == types.Type(types.Void) {
		ctx.Reporter.Report(reporter.EOperandTypes, s.Value.Pos(), "void function cannot return a value")
		return
	}
	if !types.IsAssignable(valueType, ctx.CurrentReturnType) {
		ctx.Reporter.Report(reporter.EAssignIncompatible, s.Value.Pos(),
			"cannot return value of type %s from function declared to return %s", valueType, ctx.CurrentReturnType)
	}
}

func checkAssign(s *ast.Assign, scope *Scope, ctx *PassContext) {
	valueType := checkExpression(s.Value, scope, ctx)
	targetType := checkExpression(s.Target, scope, ctx)

	if id, ok := s.Target.(*ast.Identifier); ok {
		if sym, _, found := scope.Resolve(id.Name); found && sym.ReadOnly {
			ctx.Reporter.Report(reporter.EAssignToConst, s.Position, "cannot assign to constant %q", id.Name)
			return
		}
	}
	switch s.Target.(type) {
	case *ast.Identifier, *ast.IndexExpression, *ast.PropertyAccess:
	default:
		ctx.Reporter.Report(reporter.EAssignIncompatible, s.Position, "invalid assignment target")
		return
	}
	if targetType != nil && valueType != nil && !types.IsAssignable(valueType, targetType) {
		ctx.Reporter.Report(reporter.EAssignIncompatible, s.Position,
			"cannot assign value of type %s to target of type %s", valueType, targetType)
	}
}
