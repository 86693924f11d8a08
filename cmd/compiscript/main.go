// Command compiscript is a thin CLI wrapper around pkg/compiscript: it
// reads a JSON-encoded concrete syntax tree (standing in for a real
// Compiscript grammar front-end, which this module deliberately does
// not implement) and drives Analyze/LowerProgram over it.
package main

import (
	"fmt"
	"os"

	"github.com/compiscript-lang/compiscript/cmd/compiscript/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
