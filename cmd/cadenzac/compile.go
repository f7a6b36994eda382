package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cadenzalang/cadenzac/pkg/compiler"
	"github.com/cadenzalang/cadenzac/pkg/emitter"
	"github.com/spf13/cobra"
)

func newCompileCmd() *cobra.Command {
	var kind string
	var output string
	cmd := &cobra.Command{
		Use:   "compile <input.cdz>",
		Short: "Compile a Cadenza source file to a .NET assembly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if kind != "executable" && kind != "library" {
				return fmt.Errorf("unsupported compile kind: %s", kind)
			}
			res, sink := compiler.Build(context.Background(), args[0], output, emitter.Kind(kind))
			if code := printDiagnostics(sink); code != 0 {
				os.Exit(code)
			}
			fmt.Fprint(cmd.OutOrStdout(), res.Stdout)
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "executable", "executable or library")
	cmd.Flags().StringVarP(&output, "output", "o", "", "path to copy the built assembly to")
	return cmd
}
