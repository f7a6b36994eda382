package main

import (
	"fmt"
	"os"

	"github.com/cadenzalang/cadenzac/pkg/diagnostics"
	"github.com/mattn/go-isatty"
)

// printDiagnostics renders every diagnostic in sink to stderr, colored when
// stderr is a terminal, and returns spec.md §6's process exit code.
func printDiagnostics(sink *diagnostics.Sink) int {
	items := sink.Items()
	if len(items) == 0 {
		return sink.ExitCode()
	}
	color := isatty.IsTerminal(os.Stderr.Fd())
	fmt.Fprintln(os.Stderr, diagnostics.RenderAll(items, color))
	return sink.ExitCode()
}
