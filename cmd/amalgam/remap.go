package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"amalgam/internal/sourcemap"
)

func newRemapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remap [flags] <map> <line>...",
		Short: "Map output line numbers back to the original files",
		Args:  cobra.MinimumNArgs(2),
		RunE:  runRemap,
	}
	cmd.Flags().String("check", "", "verify that the map belongs to this merged file")
	return cmd
}

func runRemap(cmd *cobra.Command, args []string) error {
	m, err := sourcemap.Load(args[0])
	if err != nil {
		return err
	}

	checkPath, err := cmd.Flags().GetString("check")
	if err != nil {
		return fmt.Errorf("failed to get check flag: %w", err)
	}
	if checkPath != "" {
		content, err := os.ReadFile(checkPath)
		if err != nil {
			return err
		}
		if !m.Matches(content) {
			return fmt.Errorf("%s does not match source map %s (built for %s)", checkPath, args[0], m.Output)
		}
	}

	out := cmd.OutOrStdout()
	for _, arg := range args[1:] {
		n, err := strconv.ParseUint(arg, 10, 32)
		if err != nil || n == 0 {
			return fmt.Errorf("invalid line number %q", arg)
		}
		if uint32(n) > m.Lines {
			return fmt.Errorf("line %d is past the end of %s (%d lines)", n, m.Output, m.Lines)
		}
		pos, ok := m.Lookup(uint32(n))
		if !ok {
			fmt.Fprintf(out, "%s:%d: generated\n", m.Output, n)
			continue
		}
		fmt.Fprintf(out, "%s:%d: %s\n", m.Output, n, pos)
	}
	return nil
}
