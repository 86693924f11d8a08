package ir

import "strings"

// Pretty renders p deterministically: one line per function header,
// one line per basic block label, two-space indented instructions.
// This is the exact textual contract the golden tests in
// internal/ir and the `compiscript ir` CLI subcommand rely on —
// changing the format here is a breaking change to both.
func Pretty(p *Program) string {
	var b strings.Builder
	for i, fn := range p.Functions {
		if i > 0 {
			b.WriteByte('\n')
		}
		PrettyFunction(&b, fn)
	}
	return b.String()
}

// PrettyFunction renders one function into b.
func PrettyFunction(b *strings.Builder, fn *Function) {
	b.WriteString("function ")
	b.WriteString(fn.Name)
	b.WriteByte('(')
	b.WriteString(strings.Join(fn.Params, ", "))
	b.WriteString("):\n")
	for _, block := range fn.Blocks {
		b.WriteString(block.Label.Name)
		b.WriteString(":\n")
		for _, instr := range block.Instructions {
			// LabelInstr is only ever the block's own opening label
			// (see Lowering.newBlock in lower.go),
			// already printed above, so it's skipped here rather than
			// printed twice.
			if _, ok := instr.(LabelInstr); ok {
				continue
			}
			b.WriteString("  ")
			b.WriteString(instr.String())
			b.WriteByte('\n')
		}
	}
}
