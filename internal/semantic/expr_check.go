package semantic

import (
	"github.com/compiscript-lang/compiscript/internal/ast"
	"github.com/compiscript-lang/compiscript/internal/reporter"
	"github.com/compiscript-lang/compiscript/internal/types"
)

// checkExpression type-checks expr, annotates it via SetType, and
// returns its resolved type (nil only when a prior error makes no
// sensible type available, so callers must treat a nil result as
// "already reported, don't cascade").
func checkExpression(expr ast.Expression, scope *Scope, ctx *PassContext) types.Type {
	var t types.Type
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		t = types.Integer
	case *ast.FloatLiteral:
		t = types.Float
	case *ast.StringLiteral:
		t = types.String
	case *ast.BooleanLiteral:
		t = types.Boolean
	case *ast.NullLiteral:
		t = types.Null
	case *ast.ArrayLiteral:
		t = checkArrayLiteral(e, scope, ctx)
	case *ast.Identifier:
		t = checkIdentifier(e, scope, ctx)
	case *ast.This:
		t = checkThis(e, ctx)
	case *ast.BinaryExpression:
		t = checkBinary(e, scope, ctx)
	case *ast.UnaryExpression:
		t = checkUnary(e, scope, ctx)
	case *ast.TernaryExpression:
		t = checkTernary(e, scope, ctx)
	case *ast.CallExpression:
		t = checkCall(e, scope, ctx)
	case *ast.IndexExpression:
		t = checkIndex(e, scope, ctx)
	case *ast.PropertyAccess:
		t = checkProperty(e, scope, ctx)
	case *ast.NewExpression:
		t = checkNew(e, scope, ctx)
	}
	expr.SetType(t)
	return t
}

func checkArrayLiteral(e *ast.ArrayLiteral, scope *Scope, ctx *PassContext) types.Type {
	if len(e.Elements) == 0 {
		ctx.Reporter.Report(reporter.EOperandTypes, e.Position,
			"empty array literal has no element type without surrounding context")
		return types.NewArray(types.Void, 1)
	}
	elemType := checkExpression(e.Elements[0], scope, ctx)
	for _, el := range e.Elements[1:] {
		t := checkExpression(el, scope, ctx)
		if t != nil && elemType != nil && !t.Equals(elemType) {
			ctx.Reporter.Report(reporter.EOperandTypes, el.Pos(),
				"array element of type %s does not match preceding elements of type %s", t, elemType)
		}
	}
	if elemType == nil {
		elemType = types.Void
	}
	return types.NewArray(elemType, 1)
}

func checkIdentifier(e *ast.Identifier, scope *Scope, ctx *PassContext) types.Type {
	sym, declScope, found := scope.Resolve(e.Name)
	if !found {
		ctx.Reporter.Report(reporter.EUndeclared, e.Position, "undeclared identifier %q", e.Name)
		return nil
	}
	maybeCapture(e.Name, declScope, ctx)
	return sym.Type
}

// maybeCapture records name in the current function's captured set when
// the scope it resolves in is a ScopeFunction other than the current
// function's own: a reference from inside a nested function to an outer
// function's parameter or nested function (spec's lexical-capture
// discovery). Names that resolve in a block, class or global scope,
// including an outer function's local variables, are not recorded.
func maybeCapture(name string, declScope *Scope, ctx *PassContext) {
	if ctx.CurrentFunction == nil || declScope == nil {
		return
	}
	if declScope.Kind != ScopeFunction || declScope == ctx.CurrentFunctionScope {
		return
	}
	if ctx.CurrentFunction.Captured == nil {
		ctx.CurrentFunction.Captured = make(map[string]bool)
	}
	ctx.CurrentFunction.Captured[name] = true
}

func checkThis(e *ast.This, ctx *PassContext) types.Type {
	if ctx.CurrentClass == nil {
		ctx.Reporter.Report(reporter.EThisContext, e.Position, "this used outside of a method")
		return nil
	}
	return &types.Class{Name: ctx.CurrentClass.Name}
}

func checkBinary(e *ast.BinaryExpression, scope *Scope, ctx *PassContext) types.Type {
	lt := checkExpression(e.Left, scope, ctx)
	rt := checkExpression(e.Right, scope, ctx)
	if lt == nil || rt == nil {
		return nil
	}
	switch e.Op {
	case ast.OpAdd:
		if lt == types.Type(types.String) && rt == types.Type(types.String) {
			return types.String
		}
		if u, ok := types.UnifyNumeric(lt, rt); ok {
			return u
		}
	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		if u, ok := types.UnifyNumeric(lt, rt); ok {
			return u
		}
	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe:
		if _, ok := types.UnifyNumeric(lt, rt); ok {
			return types.Boolean
		}
	case ast.OpEq, ast.OpNe:
		if lt.Equals(rt) || types.IsAssignable(lt, rt) || types.IsAssignable(rt, lt) {
			return types.Boolean
		}
	case ast.OpAnd, ast.OpOr:
		if lt == types.Type(types.Boolean) && rt == types.Type(types.Boolean) {
			return types.Boolean
		}
	}
	ctx.Reporter.Report(reporter.EOperandTypes, e.Position,
		"operator %s is not defined for operand types %s and %s", e.Op, lt, rt)
	return nil
}

func checkUnary(e *ast.UnaryExpression, scope *Scope, ctx *PassContext) types.Type {
	t := checkExpression(e.Operand, scope, ctx)
	if t == nil {
		return nil
	}
	switch e.Op {
	case ast.OpNeg:
		if types.IsNumeric(t) {
			return t
		}
	case ast.OpNot:
		if t == types.Type(types.Boolean) {
			return types.Boolean
		}
	}
	ctx.Reporter.Report(reporter.EOperandTypes, e.Position, "operator %s is not defined for operand type %s", e.Op, t)
	return nil
}

func checkTernary(e *ast.TernaryExpression, scope *Scope, ctx *PassContext) types.Type {
	condType := checkExpression(e.Cond, scope, ctx)
	if condType != nil && condType != types.Type(types.Boolean) {
		ctx.Reporter.Report(reporter.ECondNotBoolean, e.Cond.Pos(), "ternary condition must be boolean, got %s", condType)
	}
	thenType := checkExpression(e.Then, scope, ctx)
	elseType := checkExpression(e.Else, scope, ctx)
	if thenType == nil || elseType == nil {
		return nil
	}
	if thenType.Equals(elseType) {
		return thenType
	}
	if u, ok := types.UnifyNumeric(thenType, elseType); ok {
		return u
	}
	if types.IsAssignable(elseType, thenType) {
		return thenType
	}
	if types.IsAssignable(thenType, elseType) {
		return elseType
	}
	ctx.Reporter.Report(reporter.EOperandTypes, e.Position,
		"ternary branches have incompatible types %s and %s", thenType, elseType)
	return nil
}

func checkCall(e *ast.CallExpression, scope *Scope, ctx *PassContext) types.Type {
	var sig *types.Function
	switch callee := e.Callee.(type) {
	case *ast.Identifier:
		if sym, declScope, found := scope.Resolve(callee.Name); found && sym.Kind == SymFunction {
			maybeCapture(callee.Name, declScope, ctx)
			callee.SetType(sym.Type)
			sig = sym.Type.(*types.Function)
		} else if fn, ok := ctx.Functions[callee.Name]; ok {
			callee.SetType(fn.Type)
			sig = fn.Type
		} else {
			ctx.Reporter.Report(reporter.EUndeclared, callee.Position, "undeclared function %q", callee.Name)
			checkExpressions(e.Args, scope, ctx)
			return nil
		}
	case *ast.PropertyAccess:
		objType := checkExpression(callee.Object, scope, ctx)
		cls, ok := classOf(objType, ctx)
		if !ok {
			checkExpressions(e.Args, scope, ctx)
			if objType != nil {
				ctx.Reporter.Report(reporter.EMemberNotFound, callee.Position,
					"cannot call method %q on non-class type %s", callee.Name, objType)
			}
			return nil
		}
		method, ok := cls.Method(callee.Name)
		if !ok {
			checkExpressions(e.Args, scope, ctx)
			ctx.Reporter.Report(reporter.EMemberNotFound, callee.Position,
				"class %q has no method %q", cls.Name, callee.Name)
			return nil
		}
		callee.SetType(method)
		sig = method
	default:
		ctx.Reporter.Report(reporter.EMemberNotFound, e.Position, "expression is not callable")
		checkExpressions(e.Args, scope, ctx)
		return nil
	}

	argTypes := checkExpressions(e.Args, scope, ctx)
	if len(argTypes) != len(sig.Params) {
		ctx.Reporter.Report(reporter.ECallArity, e.Position,
			"call expects %d argument(s), got %d", len(sig.Params), len(argTypes))
		return sig.Ret
	}
	for i, at := range argTypes {
		if at != nil && !types.IsAssignable(at, sig.Params[i]) {
			ctx.Reporter.Report(reporter.EAssignIncompatible, e.Args[i].Pos(),
				"argument %d has type %s, want %s", i+1, at, sig.Params[i])
		}
	}
	return sig.Ret
}

func checkExpressions(exprs []ast.Expression, scope *Scope, ctx *PassContext) []types.Type {
	out := make([]types.Type, len(exprs))
	for i, e := range exprs {
		out[i] = checkExpression(e, scope, ctx)
	}
	return out
}

func classOf(t types.Type, ctx *PassContext) (*ClassInfo, bool) {
	c, ok := t.(*types.Class)
	if !ok {
		return nil, false
	}
	info, ok := ctx.Classes[c.Name]
	return info, ok
}

func checkIndex(e *ast.IndexExpression, scope *Scope, ctx *PassContext) types.Type {
	objType := checkExpression(e.Object, scope, ctx)
	idxType := checkExpression(e.Index, scope, ctx)
	if idxType != nil && idxType != types.Type(types.Integer) {
		ctx.Reporter.Report(reporter.EIndexInvalid, e.Index.Pos(), "array index must be integer, got %s", idxType)
	}
	arr, ok := objType.(*types.Array)
	if !ok {
		if objType != nil {
			ctx.Reporter.Report(reporter.EIndexInvalid, e.Position, "cannot index non-array type %s", objType)
		}
		return nil
	}
	return arr.Descend()
}

func checkProperty(e *ast.PropertyAccess, scope *Scope, ctx *PassContext) types.Type {
	objType := checkExpression(e.Object, scope, ctx)
	cls, ok := classOf(objType, ctx)
	if !ok {
		if objType != nil {
			ctx.Reporter.Report(reporter.EMemberNotFound, e.Position,
				"cannot access member %q on non-class type %s", e.Name, objType)
		}
		return nil
	}
	if t, ok := cls.FieldType(e.Name); ok {
		return t
	}
	if m, ok := cls.Method(e.Name); ok {
		return m
	}
	ctx.Reporter.Report(reporter.EMemberNotFound, e.Position, "class %q has no member %q", cls.Name, e.Name)
	return nil
}

func checkNew(e *ast.NewExpression, scope *Scope, ctx *PassContext) types.Type {
	cls, ok := ctx.Classes[e.ClassName]
	if !ok {
		ctx.Reporter.Report(reporter.EUnknownType, e.Position, "unknown class %q", e.ClassName)
		checkExpressions(e.Args, scope, ctx)
		return nil
	}
	argTypes := checkExpressions(e.Args, scope, ctx)
	if cls.Constructor == nil {
		if len(argTypes) != 0 {
			ctx.Reporter.Report(reporter.ECallArity, e.Position,
				"class %q has no constructor, expected 0 arguments, got %d", cls.Name, len(argTypes))
		}
		return &types.Class{Name: cls.Name}
	}
	if len(argTypes) != len(cls.Constructor.Params) {
		ctx.Reporter.Report(reporter.ECallArity, e.Position,
			"constructor of %q expects %d argument(s), got %d", cls.Name, len(cls.Constructor.Params), len(argTypes))
		return &types.Class{Name: cls.Name}
	}
	for i, at := range argTypes {
		if at != nil && !types.IsAssignable(at, cls.Constructor.Params[i]) {
			ctx.Reporter.Report(reporter.EAssignIncompatible, e.Args[i].Pos(),
				"constructor argument %d has type %s, want %s", i+1, at, cls.Constructor.Params[i])
		}
	}
	return &types.Class{Name: cls.Name}
}
