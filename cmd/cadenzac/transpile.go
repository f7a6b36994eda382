package main

import (
	"os"
	"strings"

	"github.com/cadenzalang/cadenzac/pkg/compiler"
	"github.com/spf13/cobra"
)

func newTranspileCmd() *cobra.Command {
	var target string
	cmd := &cobra.Command{
		Use:   "transpile <input.cdz> [output.cs]",
		Short: "Transpile a Cadenza source file to C#",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if target != "csharp" {
				cmd.SilenceUsage = false
				return &unsupportedTargetError{target: target}
			}
			input := args[0]
			output := strings.TrimSuffix(input, ".cdz") + ".cs"
			if len(args) == 2 {
				output = args[1]
			}
			sink := compiler.Transpile(input, output)
			if code := printDiagnostics(sink); code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "csharp", "generation target")
	return cmd
}

type unsupportedTargetError struct{ target string }

func (e *unsupportedTargetError) Error() string {
	return "unsupported transpile target: " + e.target
}
