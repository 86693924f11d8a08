package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/compiscript-lang/compiscript/pkg/compiscript"
)

var (
	checkOutputJSON bool
	checkQuery      string
)

var checkCmd = &cobra.Command{
	Use:   "check [file]",
	Short: "Run the semantic pipeline over a JSON parse tree and report diagnostics",
	Long: `check reads a JSON-encoded concrete syntax tree, builds its AST, and
runs the declaration/type-link/type-check passes over it, printing every
diagnostic the three passes reported.

Examples:
  # Check a program, one diagnostic per line
  compiscript check program.json

  # Check a program, emit the full JSON report
  compiscript check program.json --json

  # Pull a single field out of the report with a gjson path
  compiscript check program.json --query errors.0.message`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().BoolVar(&checkOutputJSON, "json", false, "emit the {ok, errors} report as JSON")
	checkCmd.Flags().StringVar(&checkQuery, "query", "", "gjson path to extract from the JSON report (implies --json)")
}

func runCheck(_ *cobra.Command, args []string) error {
	filename := args[0]

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking %s...\n", filename)
	}

	tree, err := parseJSONTree(content)
	if err != nil {
		return fmt.Errorf("failed to parse CST JSON in %s: %w", filename, err)
	}

	result, err := compiscript.Analyze(tree)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if checkQuery != "" || checkOutputJSON {
		doc, err := buildReport(result, "")
		if err != nil {
			return fmt.Errorf("building JSON report: %w", err)
		}
		printReport(doc, checkQuery)
	} else {
		for _, d := range result.Diagnostics {
			fmt.Println(d.Format())
		}
		if result.Ok() {
			fmt.Printf("%s: ok\n", filename)
		}
	}

	if !result.Ok() {
		return fmt.Errorf("semantic analysis failed with %d error(s)", errorCount(result.Diagnostics))
	}
	return nil
}
