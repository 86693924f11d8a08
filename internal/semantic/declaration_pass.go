package semantic

import (
	"github.com/compiscript-lang/compiscript/internal/ast"
	"github.com/compiscript-lang/compiscript/internal/reporter"
	"github.com/compiscript-lang/compiscript/internal/types"
)

// DeclarationPass is Pass 1: it walks every top-level statement once
// and registers every class and function name (and every global
// variable/constant name) so that forward references — a function
// calling another function declared later in the file, a class field
// typed as a class declared later — resolve correctly in later passes.
// It does not resolve type annotations: that is TypeLinkPass's job,
// since a class's field type may itself name a class this pass hasn't
// reached yet.
type DeclarationPass struct{}

func (DeclarationPass) Name() string { return "declaration" }

func (DeclarationPass) Run(program *ast.Program, ctx *PassContext) error {
	for _, stmt := range program.Statements {
		switch decl := stmt.(type) {
		case *ast.ClassDecl:
			registerClass(decl, ctx)
		case *ast.FunctionDecl:
			registerFunction(decl, ctx)
		case *ast.VarDecl:
			registerGlobalVar(decl, ctx)
		}
	}
	return nil
}

func registerClass(decl *ast.ClassDecl, ctx *PassContext) {
	if _, dup := ctx.Classes[decl.Name]; dup {
		ctx.Reporter.Report(reporter.EDuplicateID, decl.Position,
			"class %q is already declared", decl.Name)
		return
	}

	info := &ClassInfo{
		Name:        decl.Name,
		Decl:        decl,
		SuperName:   decl.Superclass,
		Fields:      make(map[string]types.Type),
		Methods:     make(map[string]*types.Function),
		MethodDecls: make(map[string]*ast.FunctionDecl),
	}
	ctx.Classes[decl.Name] = info

	seenFields := make(map[string]bool)
	for _, f := range decl.Fields {
		if seenFields[f.Name] {
			ctx.Reporter.Report(reporter.EDuplicateID, f.Position,
				"field %q is already declared on class %q", f.Name, decl.Name)
			continue
		}
		seenFields[f.Name] = true
		info.FieldOrder = append(info.FieldOrder, f.Name)
	}

	info.MethodInfos = make(map[string]*FunctionInfo)
	seenMethods := make(map[string]bool)
	for _, m := range decl.Methods {
		if seenMethods[m.Name] {
			ctx.Reporter.Report(reporter.EDuplicateID, m.Position,
				"method %q is already declared on class %q", m.Name, decl.Name)
			continue
		}
		seenMethods[m.Name] = true
		info.MethodDecls[m.Name] = m
		checkDuplicateParams(m, ctx)
		methodInfo := &FunctionInfo{Name: m.Name, Decl: m}
		info.MethodInfos[m.Name] = methodInfo
		registerNestedFunctions(m.Body, methodInfo, ctx)
	}

	if decl.Constructor != nil {
		info.ConstructorDecl = decl.Constructor
		checkDuplicateParams(decl.Constructor, ctx)
		info.ConstructorInfo = &FunctionInfo{Name: decl.Constructor.Name, Decl: decl.Constructor}
		registerNestedFunctions(decl.Constructor.Body, info.ConstructorInfo, ctx)
	}
}

func registerFunction(decl *ast.FunctionDecl, ctx *PassContext) {
	if _, dup := ctx.Functions[decl.Name]; dup {
		ctx.Reporter.Report(reporter.EDuplicateID, decl.Position,
			"function %q is already declared", decl.Name)
		return
	}
	info := &FunctionInfo{Name: decl.Name, Decl: decl}
	ctx.Functions[decl.Name] = info
	checkDuplicateParams(decl, ctx)
	registerNestedFunctions(decl.Body, info, ctx)
}

// registerNestedFunctions walks owner's body for function declarations
// nested directly inside it (without descending into a nested
// function's own body, which that function registers for itself) and
// records each one under owner.Nested, recursing so functions nested
// several levels deep are discovered too.
func registerNestedFunctions(body *ast.Block, owner *FunctionInfo, ctx *PassContext) {
	if body == nil {
		return
	}
	var found []*ast.FunctionDecl
	collectNestedFunctionDecls(body.Statements, &found)
	for _, nested := range found {
		if owner.Nested == nil {
			owner.Nested = make(map[string]*FunctionInfo)
		}
		if _, dup := owner.Nested[nested.Name]; dup {
			ctx.Reporter.Report(reporter.EDuplicateID, nested.Position,
				"function %q is already declared in this scope", nested.Name)
			continue
		}
		checkDuplicateParams(nested, ctx)
		info := &FunctionInfo{Name: nested.Name, Decl: nested}
		owner.Nested[nested.Name] = info
		registerNestedFunctions(nested.Body, info, ctx)
	}
}

// collectNestedFunctionDecls finds every FunctionDecl statement reachable
// from stmts through blocks, if/loop/switch bodies, without descending
// into a FunctionDecl's own body (that body's nested functions belong
// to it, discovered by its own registerNestedFunctions call).
func collectNestedFunctionDecls(stmts []ast.Statement, out *[]*ast.FunctionDecl) {
	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.FunctionDecl:
			*out = append(*out, s)
		case *ast.Block:
			collectNestedFunctionDecls(s.Statements, out)
		case *ast.IfStmt:
			collectNestedFunctionDecls([]ast.Statement{s.Then}, out)
			if s.Else != nil {
				collectNestedFunctionDecls([]ast.Statement{s.Else}, out)
			}
		case *ast.WhileStmt:
			collectNestedFunctionDecls([]ast.Statement{s.Body}, out)
		case *ast.DoWhileStmt:
			collectNestedFunctionDecls([]ast.Statement{s.Body}, out)
		case *ast.ForStmt:
			collectNestedFunctionDecls([]ast.Statement{s.Body}, out)
		case *ast.ForeachStmt:
			collectNestedFunctionDecls([]ast.Statement{s.Body}, out)
		case *ast.SwitchStmt:
			for _, c := range s.Cases {
				collectNestedFunctionDecls(c.Statements, out)
			}
			collectNestedFunctionDecls(s.Default, out)
		}
	}
}

func registerGlobalVar(decl *ast.VarDecl, ctx *PassContext) {
	if _, dup := ctx.Global.Lookup(decl.Name); dup {
		ctx.Reporter.Report(reporter.EDuplicateID, decl.Position,
			"%q is already declared in this scope", decl.Name)
		return
	}
	kind := SymVariable
	if decl.IsConst {
		kind = SymConstant
	}
	ctx.Global.Define(&Symbol{Name: decl.Name, Kind: kind, ReadOnly: decl.IsConst})
}

func checkDuplicateParams(fn *ast.FunctionDecl, ctx *PassContext) {
	seen := make(map[string]bool)
	for _, p := range fn.Params {
		if seen[p.Name] {
			ctx.Reporter.Report(reporter.EDuplicateParam, p.Position,
				"parameter %q is already declared in function %q", p.Name, fn.Name)
			continue
		}
		seen[p.Name] = true
	}
}
