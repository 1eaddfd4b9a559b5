package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"amalgam/internal/diag"
	"amalgam/internal/incgraph"
	"amalgam/internal/include"
	"amalgam/internal/source"
)

func newIncludesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "includes [flags] [srcdir]",
		Short: "List the external and internal includes of a source tree",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runIncludes,
	}
	registerMergeFlags(cmd)
	cmd.Flags().Bool("graph", false, "also print the include graph by depth and any cycles")
	cmd.Flags().Bool("per-file", false, "print the includes of every file")
	return cmd
}

func runIncludes(cmd *cobra.Command, args []string) error {
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
	showGraph, err := cmd.Flags().GetBool("graph")
	if err != nil {
		return fmt.Errorf("failed to get graph flag: %w", err)
	}
	perFile, err := cmd.Flags().GetBool("per-file")
	if err != nil {
		return fmt.Errorf("failed to get per-file flag: %w", err)
	}

	paths, err := source.ListDir(dir, cfg.Source.Extensions)
	if err != nil {
		return err
	}
	fs := source.NewFileSet()
	fs.SetNormalize(cfg.Source.Normalize)
	if err := fs.LoadAll(cmd.Context(), paths, cfg.Source.Jobs); err != nil {
		return err
	}
	set, err := include.Collect(include.NewClassifier(cfg.Merge.InternalPrefix), fs.Files())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printList(out, "external", set.External)
	printList(out, "internal", set.Internal)
	if perFile {
		for _, fi := range set.PerFile {
			fmt.Fprintf(out, "%s: %s\n", fi.File, strings.Join(append(angle(fi.External), fi.Internal...), " "))
		}
	}
	if showGraph {
		a := incgraph.Analyze(set, diag.NopReporter{})
		printGraph(out, a)
	}
	return nil
}

func printList(out io.Writer, title string, names []string) {
	fmt.Fprintf(out, "%s (%d):\n", title, len(names))
	for _, name := range names {
		fmt.Fprintf(out, "  %s\n", name)
	}
}

func printGraph(out io.Writer, a *incgraph.Analysis) {
	fmt.Fprintln(out, "graph:")
	for depth, level := range a.Levels() {
		fmt.Fprintf(out, "  %d: %s\n", depth, strings.Join(level, " "))
	}
	if cycles := a.Cycles(); len(cycles) > 0 {
		fmt.Fprintf(out, "cycles: %s\n", strings.Join(cycles, " "))
	}
}

func angle(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = "<" + name + ">"
	}
	return out
}
