package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cadenzalang/cadenzac/pkg/cli"
	"github.com/cadenzalang/cadenzac/pkg/compiler"
	"github.com/cadenzalang/cadenzac/pkg/diagnostics"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var root string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recompile Cadenza sources under a directory on every save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := cli.NewWatcher(root, func(path string) {
				transpileOnSave(cmd, path)
			})
			if err != nil {
				return err
			}
			defer w.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "watching %s for .cdz changes (ctrl-c to stop)\n", root)
			select {}
		},
	}
	cmd.Flags().StringVar(&root, "dir", ".", "directory to watch")
	return cmd
}

func transpileOnSave(cmd *cobra.Command, path string) {
	output := strings.TrimSuffix(path, ".cdz") + ".cs"
	sink := compiler.Transpile(path, output)
	if !sink.HasErrors() && len(sink.Items()) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", path, output)
		return
	}
	color := false
	fmt.Fprintln(os.Stderr, diagnostics.RenderAll(sink.Items(), color))
}
