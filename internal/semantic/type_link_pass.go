package semantic

import (
	"github.com/compiscript-lang/compiscript/internal/ast"
	"github.com/compiscript-lang/compiscript/internal/reporter"
	"github.com/compiscript-lang/compiscript/internal/types"
)

// primitiveByName maps the grammar's built-in type names to their
// singleton types.Type. Anything else is looked up as a class name.
var primitiveByName = map[string]types.Type{
	"boolean": types.Boolean,
	"integer": types.Integer,
	"float":   types.Float,
	"string":  types.String,
	"void":    types.Void,
}

// TypeLinkPass is Pass 2: it resolves every explicit type annotation
// recorded by DeclarationPass — class superclasses, field types,
// function/method parameter and return types — into internal/types
// values, reporting E120 for a name that matches no primitive and no
// declared class. It also detects inheritance cycles (spec §4.3's
// "every class's ancestor chain terminates" invariant) with a
// three-color depth-first walk over the class graph before any field
// or method type is trusted, since a cycle would make FieldType/Method
// lookups loop forever.
type TypeLinkPass struct{}

func (TypeLinkPass) Name() string { return "type-link" }

func (TypeLinkPass) Run(program *ast.Program, ctx *PassContext) error {
	linkSuperclasses(ctx)
	if ctx.Reporter.HasErrors() {
		return nil
	}

	for _, stmt := range program.Statements {
		switch decl := stmt.(type) {
		case *ast.ClassDecl:
			linkClassMembers(decl, ctx)
		case *ast.FunctionDecl:
			linkFunctionSignature(decl, ctx)
		case *ast.VarDecl:
			linkGlobalVarAnnotation(decl, ctx)
		}
	}
	return nil
}

func linkSuperclasses(ctx *PassContext) {
	for _, info := range ctx.Classes {
		if info.SuperName == "" {
			continue
		}
		super, ok := ctx.Classes[info.SuperName]
		if !ok {
			ctx.Reporter.Report(reporter.EUnknownType, info.Decl.Position,
				"class %q extends unknown class %q", info.Name, info.SuperName)
			continue
		}
		info.Superclass = super
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int)
	var visit func(name string) bool
	visit = func(name string) bool {
		info, ok := ctx.Classes[name]
		if !ok || info.Superclass == nil {
			color[name] = black
			return true
		}
		switch color[name] {
		case gray:
			ctx.Reporter.Report(reporter.EInheritanceLoop, info.Decl.Position,
				"inheritance cycle detected at class %q", name)
			return false
		case black:
			return true
		}
		color[name] = gray
		ok2 := visit(info.Superclass.Name)
		color[name] = black
		return ok2
	}
	for name := range ctx.Classes {
		if color[name] == white {
			visit(name)
		}
	}

	// Break any cycle's links so member lookup never loops, even
	// though the cycle has already been reported.
	for name, info := range ctx.Classes {
		seen := map[string]bool{name: true}
		for cl := info.Superclass; cl != nil; cl = cl.Superclass {
			if seen[cl.Name] {
				info.Superclass = nil
				break
			}
			seen[cl.Name] = true
		}
	}
}

func resolveTypeExpr(te *ast.TypeExpr, ctx *PassContext) (types.Type, bool) {
	if te == nil {
		return nil, false
	}
	var base types.Type
	if p, ok := primitiveByName[te.Name]; ok {
		base = p
	} else if c, ok := ctx.Classes[te.Name]; ok {
		base = &types.Class{Name: c.Name}
	} else {
		ctx.Reporter.Report(reporter.EUnknownType, te.Position, "unknown type %q", te.Name)
		return nil, false
	}
	if te.Rank == 0 {
		return base, true
	}
	return types.NewArray(base, te.Rank), true
}

func linkClassMembers(decl *ast.ClassDecl, ctx *PassContext) {
	info := ctx.Classes[decl.Name]
	for _, f := range decl.Fields {
		if f.Annotation == nil {
			// Untyped fields are resolved from their initializer by
			// TypeCheckPass, which has expression-typing available.
			continue
		}
		t, ok := resolveTypeExpr(f.Annotation, ctx)
		if ok {
			info.Fields[f.Name] = t
		}
	}
	for _, m := range decl.Methods {
		sig := signatureOf(m, ctx)
		info.Methods[m.Name] = sig
		if mi, ok := info.MethodInfos[m.Name]; ok {
			mi.Type = sig
			linkNestedFunctions(mi, ctx)
		}
	}
	if decl.Constructor != nil {
		info.Constructor = signatureOf(decl.Constructor, ctx)
		if info.ConstructorInfo != nil {
			info.ConstructorInfo.Type = info.Constructor
			linkNestedFunctions(info.ConstructorInfo, ctx)
		}
	}
}

func linkFunctionSignature(decl *ast.FunctionDecl, ctx *PassContext) {
	info := ctx.Functions[decl.Name]
	info.Type = signatureOf(decl, ctx)
	linkNestedFunctions(info, ctx)
}

// linkNestedFunctions resolves the parameter/return type annotations of
// every function declared inside owner's body, recursing into functions
// nested several levels deep the same way registerNestedFunctions
// discovered them in Pass 1.
func linkNestedFunctions(owner *FunctionInfo, ctx *PassContext) {
	for _, nested := range owner.Nested {
		nested.Type = signatureOf(nested.Decl, ctx)
		linkNestedFunctions(nested, ctx)
	}
}

func signatureOf(fn *ast.FunctionDecl, ctx *PassContext) *types.Function {
	params := make([]types.Type, len(fn.Params))
	for i, p := range fn.Params {
		if t, ok := resolveTypeExpr(p.Annotation, ctx); ok {
			params[i] = t
		} else {
			params[i] = types.Void
		}
	}
	ret := types.Type(types.Void)
	if fn.ReturnType != nil {
		if t, ok := resolveTypeExpr(fn.ReturnType, ctx); ok {
			ret = t
		}
	}
	return &types.Function{Params: params, Ret: ret}
}

func linkGlobalVarAnnotation(decl *ast.VarDecl, ctx *PassContext) {
	if decl.Annotation == nil {
		return
	}
	sym, ok := ctx.Global.Lookup(decl.Name)
	if !ok {
		return
	}
	if t, ok := resolveTypeExpr(decl.Annotation, ctx); ok {
		sym.Type = t
	}
}
