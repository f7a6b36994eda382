// Command cadenzac is the Cadenza compiler's command-line front end: a thin
// cobra shell over pkg/compiler, matching spec.md §6's command surface
// (transpile, compile, run) plus a watch mode for iterative development.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:           "cadenzac",
		Short:         "Cadenza compiler",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newTranspileCmd())
	root.AddCommand(newCompileCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newWatchCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}
