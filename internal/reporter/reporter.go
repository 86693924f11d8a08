// Package reporter implements the closed-set diagnostic reporter shared
// by every semantic pass and the IR lowering stage. It mirrors the
// teacher's two-layer error design (a typed, structured error plus a
// human-renderable message) but collapses it to the fixed Compiscript
// error-code catalogue instead of DWScript's open SemanticErrorType enum.
package reporter

import (
	"fmt"
	"strings"

	"github.com/compiscript-lang/compiscript/internal/source"
)

// Code is one of the closed set of diagnostic codes this pipeline emits.
// Unlike the teacher's SemanticErrorType, this set never grows at
// runtime: every pass, current and future, picks from this list.
type Code string

const (
	// Name-resolution and declaration codes (E100 comes from the type
	// checker, E120/E140 from the type linker).
	EUndeclared      Code = "E100"
	EDuplicateID     Code = "E101"
	EDuplicateParam  Code = "E102"
	EUnknownType     Code = "E120"
	EInheritanceLoop Code = "E140"

	// Type-check codes.
	EAssignIncompatible Code = "E200"
	EOperandTypes       Code = "E201"
	ECallArity          Code = "E202"
	EIndexInvalid       Code = "E203"
	EMemberNotFound     Code = "E204"
	EThisContext        Code = "E205"

	// Control-flow codes.
	EBadBreakContinue Code = "E300"
	ECondNotBoolean   Code = "E301"
	EReturnOutside    Code = "E302"
	EMissingReturn    Code = "E303"

	// Mutability codes.
	EAssignToConst Code = "E401"

	// Advisory (non-fatal) codes.
	EDeadCode Code = "E500"

	// IR generation failure. The type checker is expected to reject
	// everything that would trip this; it exists as a defensive code
	// for lowering-stage invariants (e.g. break/continue outside a
	// loop reaching IR generation undetected).
	EIRGen Code = "E_IRGEN"
)

// Severity distinguishes diagnostics that block successful compilation
// from advisory ones (currently only EDeadCode, which TypeCheckPass
// always reports through Warn).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one reported problem: a code, a rendered message, the
// source position it concerns, and optional structured fields a caller
// can use without re-parsing Message (mirrors SemanticError's Expected/
// Got/VariableName fields in the teacher, generalized to a single Args
// map since Compiscript's smaller code set doesn't warrant a field per
// error kind).
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string
	Pos      source.Position
	Args     map[string]string
}

// Format renders the diagnostic the way the CLI prints it:
// "line:col: severity CODE: message".
func (d Diagnostic) Format() string {
	return fmt.Sprintf("%s: %s %s: %s", d.Pos, d.Severity, d.Code, d.Message)
}

// Reporter accumulates diagnostics across all passes. It never halts a
// pass on the first error (spec §4.1's "accumulate, don't stop" policy);
// PassManager consults HasErrors between passes to decide whether later
// passes would be meaningless to run.
type Reporter struct {
	diags []Diagnostic
}

// New returns an empty Reporter.
func New() *Reporter {
	return &Reporter{}
}

// Report appends a diagnostic at SeverityError.
func (r *Reporter) Report(code Code, pos source.Position, format string, a ...any) {
	r.diags = append(r.diags, Diagnostic{
		Code:     code,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, a...),
		Pos:      pos,
	})
}

// ReportWith is Report plus structured Args, for callers that want the
// caller/checker to inspect specific fields (e.g. golden tests asserting
// on Args["expected"] rather than parsing Message).
func (r *Reporter) ReportWith(code Code, pos source.Position, args map[string]string, format string, a ...any) {
	r.diags = append(r.diags, Diagnostic{
		Code:     code,
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, a...),
		Pos:      pos,
		Args:     args,
	})
}

// Warn appends a diagnostic at SeverityWarning.
func (r *Reporter) Warn(code Code, pos source.Position, format string, a ...any) {
	r.diags = append(r.diags, Diagnostic{
		Code:     code,
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, a...),
		Pos:      pos,
	})
}

// Diagnostics returns all reported diagnostics in report order.
func (r *Reporter) Diagnostics() []Diagnostic {
	return r.diags
}

// HasErrors reports whether any SeverityError diagnostic was reported.
// Warnings alone don't block the pipeline from proceeding to the next
// pass or to IR lowering.
func (r *Reporter) HasErrors() bool {
	for _, d := range r.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of SeverityError diagnostics.
func (r *Reporter) ErrorCount() int {
	n := 0
	for _, d := range r.diags {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Summary renders every diagnostic, one per line, in report order.
func (r *Reporter) Summary() string {
	var b strings.Builder
	for _, d := range r.diags {
		b.WriteString(d.Format())
		b.WriteByte('\n')
	}
	return b.String()
}
