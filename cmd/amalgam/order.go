package main

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"amalgam/internal/order"
	"amalgam/internal/source"
)

func newOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order [flags] [srcdir]",
		Short: "Print the order in which body files are emitted",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOrder,
	}
	registerMergeFlags(cmd)
	return cmd
}

func runOrder(cmd *cobra.Command, args []string) error {
	st, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	cfg := st.cfg
	if err := applyMergeFlags(cmd, &cfg); err != nil {
		return err
	}
	dir, err := st.sourceDir(args)
	if err != nil {
		return err
	}

	paths, err := source.ListDir(dir, cfg.Source.Extensions)
	if err != nil {
		return err
	}
	var bodies []string
	for _, p := range paths {
		if filepath.Ext(p) != ".h" {
			bodies = append(bodies, source.BaseName(p))
		}
	}
	names, err := order.Apply(bodies, cfg.Merge.Priority)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, name := range names {
		mark := " "
		if slices.Contains(cfg.Merge.Priority, name) {
			mark = "*"
		}
		fmt.Fprintf(out, "%3d %s %s\n", i+1, mark, name)
	}
	return nil
}
