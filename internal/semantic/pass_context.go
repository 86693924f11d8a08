package semantic

import (
	"github.com/compiscript-lang/compiscript/internal/ast"
	"github.com/compiscript-lang/compiscript/internal/reporter"
	"github.com/compiscript-lang/compiscript/internal/types"
)

// ClassInfo is the Declaration Pass's record of one class: its
// resolved superclass link, field types, and method signatures. Pass 2
// fills in Superclass once every class name is known and walks the
// chain for inheritance-cycle checks; Pass 3 walks it for member lookup.
type ClassInfo struct {
	Name        string
	Decl        *ast.ClassDecl
	Superclass  *ClassInfo // resolved by the Type Linker; nil until then
	SuperName   string     // the raw name from the declaration, "" if none
	Fields      map[string]types.Type
	FieldOrder  []string
	Methods     map[string]*types.Function
	MethodDecls map[string]*ast.FunctionDecl
	Constructor *types.Function
	ConstructorDecl *ast.FunctionDecl

	// MethodInfos/ConstructorInfo mirror MethodDecls/ConstructorDecl but
	// carry each method's own FunctionInfo (nested-function table,
	// captured set), since methods nest functions the same as top-level
	// functions do.
	MethodInfos     map[string]*FunctionInfo
	ConstructorInfo *FunctionInfo
}

// FieldType looks up a field on this class or, failing that, walks the
// superclass chain (spec §4.4's inherited-member lookup).
func (c *ClassInfo) FieldType(name string) (types.Type, bool) {
	for cl := c; cl != nil; cl = cl.Superclass {
		if t, ok := cl.Fields[name]; ok {
			return t, true
		}
	}
	return nil, false
}

// Method looks up a method on this class or a superclass.
func (c *ClassInfo) Method(name string) (*types.Function, bool) {
	for cl := c; cl != nil; cl = cl.Superclass {
		if m, ok := cl.Methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

// IsSubclassOf reports whether c is other or descends from it.
func (c *ClassInfo) IsSubclassOf(other *ClassInfo) bool {
	for cl := c; cl != nil; cl = cl.Superclass {
		if cl == other {
			return true
		}
	}
	return false
}

// FunctionInfo is the Declaration Pass's record of one function: its
// resolved signature, the declaration it came from, any functions
// declared inside its own body (first-class nested functions, keyed by
// name), and the set of outer-scope identifiers Pass 3 finds it
// referencing (lexical-capture discovery).
type FunctionInfo struct {
	Name string
	Decl *ast.FunctionDecl
	Type *types.Function

	Nested   map[string]*FunctionInfo
	Captured map[string]bool
}

// PassContext is the shared state threaded through DeclarationPass,
// TypeLinkPass, and TypeCheckPass. Earlier passes populate the
// registries; later passes read and refine them, mirroring the
// teacher's pass-context idiom but scaled to Compiscript's smaller
// symbol universe (no overloads, no units, no interfaces).
type PassContext struct {
	Reporter *reporter.Reporter

	Global    *Scope
	Classes   map[string]*ClassInfo
	Functions map[string]*FunctionInfo

	// CurrentScope is the innermost lexical scope visited by the
	// active pass; passes push/pop as they enter/leave blocks.
	CurrentScope *Scope

	// CurrentClass/CurrentFunction are set while TypeCheckPass walks
	// a method or function body, used for `this` resolution, member
	// lookup defaults, and the missing-return check.
	CurrentClass        *ClassInfo
	CurrentFunction      *FunctionInfo
	CurrentFunctionScope *Scope
	CurrentReturnType    types.Type

	LoopDepth   int
	SwitchDepth int
}

// NewPassContext creates an empty context with an initialized global
// scope and registries.
func NewPassContext(rep *reporter.Reporter) *PassContext {
	global := NewScope(ScopeGlobal, nil, "")
	return &PassContext{
		Reporter:     rep,
		Global:       global,
		Classes:      make(map[string]*ClassInfo),
		Functions:    make(map[string]*FunctionInfo),
		CurrentScope: global,
	}
}

// PushScope opens a new scope nested under the current one and makes
// it current.
func (ctx *PassContext) PushScope(kind ScopeKind, owner string) *Scope {
	s := NewScope(kind, ctx.CurrentScope, owner)
	ctx.CurrentScope = s
	return s
}

// PopScope restores the parent of the current scope. Panics if called
// at global scope, which would indicate a pass bug (unbalanced push/pop).
func (ctx *PassContext) PopScope() {
	if ctx.CurrentScope.Parent == nil {
		panic("semantic: cannot pop global scope")
	}
	ctx.CurrentScope = ctx.CurrentScope.Parent
}

// InLoop reports whether the current position is nested inside a loop,
// for validating break/continue.
func (ctx *PassContext) InLoop() bool { return ctx.LoopDepth > 0 }

// InSwitch reports whether the current position is nested inside a
// switch case/default body, which (per spec §4.4) also accepts break.
func (ctx *PassContext) InSwitch() bool { return ctx.SwitchDepth > 0 }
