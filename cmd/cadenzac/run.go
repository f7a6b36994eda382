package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cadenzalang/cadenzac/pkg/compiler"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <input.cdz>",
		Short: "Compile a Cadenza source file in memory and invoke its entry point",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, sink := compiler.Run(context.Background(), args[0])
			if code := printDiagnostics(sink); code != 0 {
				os.Exit(code)
			}
			fmt.Fprint(cmd.OutOrStdout(), res.Stdout)
			if res.ExitCode != 0 {
				os.Exit(res.ExitCode)
			}
			return nil
		},
	}
}
