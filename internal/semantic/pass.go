package semantic

import "github.com/compiscript-lang/compiscript/internal/ast"

// Pass is a single semantic-analysis stage. The multi-pass architecture
// lets later passes assume earlier ones have already populated the
// PassContext: DeclarationPass knows every top-level name before
// TypeLinkPass resolves a single type annotation, and TypeLinkPass
// knows every resolved type before TypeCheckPass type-checks a single
// expression.
type Pass interface {
	// Name identifies the pass for logging and test output.
	Name() string

	// Run executes the pass over program, reading and writing ctx.
	// Semantic errors are reported through ctx.Reporter, never
	// returned as a Go error — Run returning a non-nil error signals
	// an internal invariant violation in the pass itself, not a
	// problem with the user's program.
	Run(program *ast.Program, ctx *PassContext) error
}

// PassManager runs a fixed sequence of passes in order, stopping early
// if a pass reports fatal errors a later pass couldn't sensibly
// recover from.
type PassManager struct {
	passes []Pass
}

// NewPassManager builds a manager that will run passes in the given order.
func NewPassManager(passes ...Pass) *PassManager {
	return &PassManager{passes: passes}
}

// AddPass appends a pass to run after every pass already added.
func (pm *PassManager) AddPass(p Pass) {
	pm.passes = append(pm.passes, p)
}

// Passes returns the registered passes in run order.
func (pm *PassManager) Passes() []Pass {
	return pm.passes
}

// RunAll runs every registered pass in order. It stops after a pass
// that leaves ctx.Reporter with errors, since DeclarationPass and
// TypeLinkPass failures make the next pass's assumptions unsound
// (spec §4.1: passes accumulate diagnostics but a later pass never
// runs against an incompletely-populated symbol table).
func (pm *PassManager) RunAll(program *ast.Program, ctx *PassContext) error {
	for _, p := range pm.passes {
		if err := p.Run(program, ctx); err != nil {
			return err
		}
		if ctx.Reporter.HasErrors() {
			break
		}
	}
	return nil
}
