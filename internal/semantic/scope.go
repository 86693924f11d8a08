package semantic

import "github.com/compiscript-lang/compiscript/internal/types"

// ScopeKind identifies the kind of lexical scope a Scope represents.
// The Type-Check Visitor's capture analysis walks the scope chain
// looking at Kind to decide whether a symbol reference crosses a
// function boundary (spec §4.4's closure-capture rule).
type ScopeKind int

const (
	ScopeGlobal ScopeKind = iota
	ScopeClass
	ScopeFunction
	ScopeBlock
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeClass:
		return "class"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "unknown"
	}
}

// SymbolKind classifies what a Symbol denotes.
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymConstant
	SymParameter
	SymField
	SymFunction
	SymClass
)

// Symbol is one declared name: a variable, constant, parameter, field,
// function, or class, with its resolved type in Type (a *types.Function
// for a SymFunction symbol).
type Symbol struct {
	Name    string
	Kind    SymbolKind
	Type    types.Type
	ReadOnly bool

	// OwningFunction is set, for a nested-function SymFunction symbol,
	// to the function scope it is declared in. Capture detection uses
	// the scope Resolve returns and does not read this field.
	OwningFunction *Scope
}

// Scope is one level of the lexical nesting chain: global, class body,
// function body, or a nested block (if/while/for/switch-case bodies).
// Symbols is name-keyed rather than holding direct AST pointers, per
// the tagged/name-keyed design this pipeline favors over cyclic
// references between scopes and declarations.
type Scope struct {
	Kind    ScopeKind
	Parent  *Scope
	Symbols map[string]*Symbol

	// Owner is the name of the function or class this scope was
	// opened for (empty for ScopeGlobal and plain ScopeBlock scopes).
	Owner string
}

// NewScope creates a scope of the given kind with the given parent
// (nil only for the root global scope).
func NewScope(kind ScopeKind, parent *Scope, owner string) *Scope {
	return &Scope{
		Kind:    kind,
		Parent:  parent,
		Symbols: make(map[string]*Symbol),
		Owner:   owner,
	}
}

// Define registers sym in this scope under sym.Name. Callers are
// expected to have already checked for a duplicate via Lookup before
// calling Define; Define itself always overwrites.
func (s *Scope) Define(sym *Symbol) {
	s.Symbols[sym.Name] = sym
}

// Lookup searches this scope only.
func (s *Scope) Lookup(name string) (*Symbol, bool) {
	sym, ok := s.Symbols[name]
	return sym, ok
}

// Resolve searches this scope and every enclosing scope, returning the
// symbol and the scope it was found in (needed by capture detection to
// compare against the current function scope).
func (s *Scope) Resolve(name string) (*Symbol, *Scope, bool) {
	for sc := s; sc != nil; sc = sc.Parent {
		if sym, ok := sc.Symbols[name]; ok {
			return sym, sc, true
		}
	}
	return nil, nil, false
}

// EnclosingFunction walks outward from s and returns the nearest
// ScopeFunction ancestor (including s itself), or nil if s is not
// nested inside a function (i.e. we're at global or class scope).
func (s *Scope) EnclosingFunction() *Scope {
	for sc := s; sc != nil; sc = sc.Parent {
		if sc.Kind == ScopeFunction {
			return sc
		}
	}
	return nil
}
