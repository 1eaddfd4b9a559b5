package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"amalgam/internal/banner"
	"amalgam/internal/diag"
	"amalgam/internal/merge"
	"amalgam/internal/observ"
	"amalgam/internal/source"
	"amalgam/internal/sourcemap"
	"amalgam/internal/ui"
)

func newMergeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge [flags] [srcdir] <output>",
		Short: "Merge a source tree into one file",
		Long: `Merge flattens the root header, emits every body file in priority order and writes
the result to <output>. Without srcdir the [source].dir of amalgam.toml is used.
Nothing is written when the merge fails.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runMerge,
	}
	registerMergeFlags(cmd)
	cmd.Flags().String("version-number", "", "project version, numeric (10203) or dotted (1.2.3)")
	cmd.Flags().String("git-commit", "", "git commit of the merged sources")
	cmd.Flags().String("git-describe", "", "git describe of the merged sources")
	cmd.Flags().String("project", "", "project name used in the banner")
	cmd.Flags().String("license", "", "license file spliced after the banner")
	cmd.Flags().String("authors", "", "authors file spliced after the license")
	cmd.Flags().String("sourcemap", "", "also write a source map to this file")
	cmd.Flags().Int("jobs", 0, "max parallel file reads (0 = config or 1)")
	cmd.Flags().Bool("normalize", false, "strip byte order marks and convert CRLF line endings")
	cmd.Flags().Bool("localize", false, "make non-exported file-scope declarations static")
	cmd.Flags().StringSlice("exported", nil, "names that keep external linkage with --localize")
	cmd.Flags().Bool("warnings-as-errors", false, "fail when the merge reports warnings")
	cmd.Flags().Bool("summary", false, "print a summary table after writing")
	cmd.Flags().String("ui", "off", "progress UI (auto|on|off)")
	cmd.Flags().String("show", "warning", "lowest severity of diagnostics to print (info|warning|error)")
	return cmd
}

type mergeRequest struct {
	output           string
	sourcemap        string
	info             banner.Info
	opts             merge.Options
	warningsAsErrors bool
	summary          bool
	ui               switchMode
	show             diag.Severity
}

func runMerge(cmd *cobra.Command, args []string) error {
	req, err := buildMergeRequest(cmd, args)
	if err != nil {
		return err
	}
	quiet, err := isQuiet(cmd)
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	bag := diag.NewBag(0)
	req.opts.Reporter = diag.BagReporter{Bag: bag}
	if showTimings {
		req.opts.Timer = observ.NewTimer()
	}

	errOut := cmd.ErrOrStderr()
	var res *merge.Result
	if req.ui.enabled(os.Stdout) {
		res, err = runMergeWithUI(cmd.Context(), req.opts)
	} else {
		res, err = merge.Run(cmd.Context(), req.opts)
	}
	if err != nil {
		printDiagnostics(errOut, bag, req.show)
		dumpTrace(cmd, errOut)
		return err
	}

	if !quiet {
		printDiagnostics(errOut, bag, req.show)
	}
	if req.warningsAsErrors && bag.HasWarnings() {
		n := len(bag.Filter(diag.SevWarning))
		return fmt.Errorf("%d warning(s) treated as errors, %s not written", n, req.output)
	}

	outputs := []merge.Output{{Path: req.output, Data: res.Output}}
	if req.sourcemap != "" {
		data, err := encodeSourceMap(req.output, res)
		if err != nil {
			return err
		}
		outputs = append(outputs, merge.Output{Path: req.sourcemap, Data: data})
	}
	// вывод и карта появляются вместе или не появляются вовсе
	if err := merge.WriteFiles(outputs...); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(errOut, "%s %d bytes to %s\n", okColor.Sprint("Wrote"), len(res.Output), req.output)
	}
	if req.summary {
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderSummary(ui.Summary{
			Output:   req.output,
			Bytes:    len(res.Output),
			Files:    res.Files,
			Headers:  len(res.Headers),
			Bodies:   len(res.Order),
			Lines:    res.Stats.Lines,
			Markers:  res.Stats.Markers,
			Warnings: len(bag.Filter(diag.SevWarning)),
		}, 80))
	}
	if showTimings {
		printTimings(errOut, req.opts.Timer)
	}
	return nil
}

// buildMergeRequest merges amalgam.toml, flags and positional arguments.
func buildMergeRequest(cmd *cobra.Command, args []string) (*mergeRequest, error) {
	st, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	cfg := st.cfg
	if err := applyMergeFlags(cmd, &cfg); err != nil {
		return nil, err
	}
	if err := overrideBool(cmd, "normalize", &cfg.Source.Normalize); err != nil {
		return nil, err
	}
	if err := overrideInt(cmd, "jobs", &cfg.Source.Jobs); err != nil {
		return nil, err
	}
	if err := overrideBool(cmd, "localize", &cfg.Merge.Localize); err != nil {
		return nil, err
	}
	if err := overrideStrings(cmd, "exported", &cfg.Merge.Exported); err != nil {
		return nil, err
	}

	// пути из манифеста считаются от его каталога, пути из флагов от cwd
	licensePath, authorsPath := st.resolve(cfg.Banner.License), st.resolve(cfg.Banner.Authors)
	if err := overrideString(cmd, "license", &licensePath); err != nil {
		return nil, err
	}
	if err := overrideString(cmd, "authors", &authorsPath); err != nil {
		return nil, err
	}
	if err := overrideString(cmd, "project", &cfg.Banner.Project); err != nil {
		return nil, err
	}

	var dirArgs []string
	output := args[len(args)-1]
	if len(args) == 2 {
		dirArgs = args[:1]
	}
	dir, err := st.sourceDir(dirArgs)
	if err != nil {
		return nil, err
	}

	info, err := bannerInfo(cmd, cfg.Banner.Project, licensePath, authorsPath)
	if err != nil {
		return nil, err
	}

	sourcemapPath, err := cmd.Flags().GetString("sourcemap")
	if err != nil {
		return nil, fmt.Errorf("failed to get sourcemap flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return nil, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	summary, err := cmd.Flags().GetBool("summary")
	if err != nil {
		return nil, fmt.Errorf("failed to get summary flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := parseSwitch("ui", uiFlag)
	if err != nil {
		return nil, err
	}
	showFlag, err := cmd.Flags().GetString("show")
	if err != nil {
		return nil, fmt.Errorf("failed to get show flag: %w", err)
	}
	show, err := diag.ParseSeverity(showFlag)
	if err != nil {
		return nil, fmt.Errorf("invalid --show value: %w", err)
	}

	return &mergeRequest{
		output:    output,
		sourcemap: sourcemapPath,
		info:      info,
		opts: merge.Options{
			Dir:        dir,
			Extensions: cfg.Source.Extensions,
			Root:       cfg.Merge.Root,
			Keep:       cfg.Merge.Keep,
			Prefix:     cfg.Merge.InternalPrefix,
			Priority:   cfg.Merge.Priority,
			Banner:     info.Lines(),
			Localize:   cfg.Merge.Localize,
			Exported:   cfg.Merge.Exported,
			Normalize:  cfg.Source.Normalize,
			Jobs:       cfg.Source.Jobs,
		},
		warningsAsErrors: warningsAsErrors,
		summary:          summary,
		ui:               mode,
		show:             show,
	}, nil
}

func bannerInfo(cmd *cobra.Command, projectName, licensePath, authorsPath string) (banner.Info, error) {
	versionStr, err := cmd.Flags().GetString("version-number")
	if err != nil {
		return banner.Info{}, fmt.Errorf("failed to get version-number flag: %w", err)
	}
	gitCommit, err := cmd.Flags().GetString("git-commit")
	if err != nil {
		return banner.Info{}, fmt.Errorf("failed to get git-commit flag: %w", err)
	}
	gitDescribe, err := cmd.Flags().GetString("git-describe")
	if err != nil {
		return banner.Info{}, fmt.Errorf("failed to get git-describe flag: %w", err)
	}

	var v banner.Version
	if versionStr != "" {
		if v, err = banner.ParseVersion(versionStr); err != nil {
			return banner.Info{}, err
		}
	}
	info := banner.Info{
		Project:     projectName,
		Version:     v,
		GitCommit:   valueOrUnknown(strings.TrimSpace(gitCommit)),
		GitDescribe: valueOrUnknown(strings.TrimSpace(gitDescribe)),
	}
	if licensePath != "" {
		lines, err := banner.ReadText(licensePath)
		if err != nil {
			return banner.Info{}, fmt.Errorf("failed to read license: %w", err)
		}
		info.LicenseName, info.License = filepath.Base(licensePath), lines
	}
	if authorsPath != "" {
		lines, err := banner.ReadText(authorsPath)
		if err != nil {
			return banner.Info{}, fmt.Errorf("failed to read authors: %w", err)
		}
		info.AuthorsName, info.Authors = filepath.Base(authorsPath), lines
	}
	return info, nil
}

func encodeSourceMap(output string, res *merge.Result) ([]byte, error) {
	m, err := sourcemap.Build(filepath.Base(output), res.Output, res.Origins)
	if err != nil {
		return nil, err
	}
	data, err := m.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to encode source map: %w", err)
	}
	return data, nil
}

// printDiagnostics prints diagnostics of at least min severity, sorted.
func printDiagnostics(w io.Writer, bag *diag.Bag, min diag.Severity) {
	bag.Sort()
	for _, d := range bag.Filter(min) {
		c := warnColor
		if d.Severity >= diag.SevError {
			c = errColor
		}
		fmt.Fprintln(w, c.Sprint(d.Format()))
	}
}

// runMergeWithUI runs the merge in the background while a progress view
// follows its events.
func runMergeWithUI(ctx context.Context, opts merge.Options) (*merge.Result, error) {
	paths, err := source.ListDir(opts.Dir, opts.Extensions)
	if err != nil {
		return nil, err
	}
	files := make([]string, len(paths))
	for i, p := range paths {
		files[i] = source.BaseName(p)
	}
	return runWithProgress(ctx, "merge "+opts.Dir, files, opts)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
