package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/compiscript-lang/compiscript/internal/ir"
	"github.com/compiscript-lang/compiscript/internal/reporter"
	"github.com/compiscript-lang/compiscript/pkg/compiscript"
)

var (
	irOutputJSON bool
	irQuery      string
)

var irCmd = &cobra.Command{
	Use:   "ir [file]",
	Short: "Lower a JSON parse tree to three-address-code IR and print it",
	Long: `ir runs the same pipeline as check, and for a program with no
errors also lowers the checked AST to three-address-code IR, printing it
in the pipeline's pretty-printed text form by default.

Examples:
  # Print the lowered IR
  compiscript ir program.json

  # Emit the full {ok, errors, ir} report as JSON
  compiscript ir program.json --json`,
	Args: cobra.ExactArgs(1),
	RunE: runIR,
}

func init() {
	rootCmd.AddCommand(irCmd)
	irCmd.Flags().BoolVar(&irOutputJSON, "json", false, "emit the {ok, errors, ir} report as JSON")
	irCmd.Flags().StringVar(&irQuery, "query", "", "gjson path to extract from the JSON report (implies --json)")
}

func runIR(_ *cobra.Command, args []string) error {
	filename := args[0]

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	tree, err := parseJSONTree(content)
	if err != nil {
		return fmt.Errorf("failed to parse CST JSON in %s: %w", filename, err)
	}

	result, err := compiscript.Analyze(tree)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	if !result.Ok() {
		for _, d := range result.Diagnostics {
			fmt.Fprintln(os.Stderr, d.Format())
		}
		return fmt.Errorf("refusing to lower %s: semantic analysis reported errors", filename)
	}

	lowered, err := compiscript.LowerProgram(result.Program)
	if err != nil {
		d := reporter.Diagnostic{Code: reporter.EIRGen, Severity: reporter.SeverityError, Message: err.Error()}
		fmt.Fprintln(os.Stderr, d.Format())
		return fmt.Errorf("lowering failed: %w", err)
	}
	irText := ir.Pretty(lowered)

	if irQuery != "" || irOutputJSON {
		doc, err := buildReport(result, irText)
		if err != nil {
			return fmt.Errorf("building JSON report: %w", err)
		}
		printReport(doc, irQuery)
		return nil
	}

	fmt.Print(irText)
	return nil
}
