// Package compiscript wires the pipeline's stages — AST construction,
// the three-pass semantic analyzer, and AST->IR lowering — into the
// two entry points external callers (the CLI, an IDE integration, a
// test harness) actually need: Analyze and LowerProgram.
package compiscript

import (
	"fmt"

	"github.com/compiscript-lang/compiscript/internal/ast"
	"github.com/compiscript-lang/compiscript/internal/astbuild"
	"github.com/compiscript-lang/compiscript/internal/cst"
	"github.com/compiscript-lang/compiscript/internal/ir"
	"github.com/compiscript-lang/compiscript/internal/reporter"
	"github.com/compiscript-lang/compiscript/internal/semantic"
)

// Result is the outcome of Analyze: the built AST, the fully populated
// pass context (symbol tables, class/function registries), and every
// diagnostic the three semantic passes reported.
type Result struct {
	Program     *ast.Program
	Context     *semantic.PassContext
	Diagnostics []reporter.Diagnostic
}

// Ok reports whether Analyze found no errors (warnings alone don't
// fail analysis).
func (r *Result) Ok() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == reporter.SeverityError {
			return false
		}
	}
	return true
}

// Analyze runs the full front end over a parse tree an external parser
// produced: AST construction, then the declaration/type-link/type-check
// passes in order. Passes after the first to report an error are
// skipped (PassManager.RunAll's accumulate-but-don't-cascade policy),
// but AST construction failures (a parser contract violation, not a
// Compiscript program error) are returned as a plain Go error instead
// of a diagnostic, since they mean the external parser handed back a
// tree astbuild could not even walk.
func Analyze(tree cst.Tree) (*Result, error) {
	program, err := astbuild.Build(tree)
	if err != nil {
		return nil, fmt.Errorf("compiscript: building AST: %w", err)
	}

	rep := reporter.New()
	ctx := semantic.NewPassContext(rep)
	pm := semantic.NewPassManager(
		semantic.DeclarationPass{},
		semantic.TypeLinkPass{},
		semantic.TypeCheckPass{},
	)
	if err := pm.RunAll(program, ctx); err != nil {
		return nil, fmt.Errorf("compiscript: running semantic passes: %w", err)
	}

	return &Result{
		Program:     program,
		Context:     ctx,
		Diagnostics: rep.Diagnostics(),
	}, nil
}

// LowerProgram lowers a type-checked AST to the three-address-code IR.
// Callers should only call this once Analyze's Result.Ok() is true: a
// program with type errors may use constructs the lowering stage
// cannot make sense of (an unresolved call target, a missing return
// type), and lowering a rejected program is never meaningful.
func LowerProgram(program *ast.Program) (*ir.Program, error) {
	return ir.LowerProgram(program)
}
