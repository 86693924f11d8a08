// Package cmd implements the compiscript CLI's subcommands.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version, GitCommit and BuildDate are overridden at link time via
// -ldflags "-X github.com/compiscript-lang/compiscript/cmd/compiscript/cmd.Version=...".
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:     "compiscript",
	Short:   "Compiscript AST/semantic/IR pipeline driver",
	Long:    `compiscript runs the Compiscript front end (AST build, declaration/type-link/type-check passes, and AST->TAC lowering) over a JSON-encoded parse tree and reports diagnostics or prints the lowered IR.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(`{{printf "%s version %s\n" .Name .Version}}`)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

var verbose bool
