package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/diagfmt"
	"swiftstyle/internal/driver"
	"swiftstyle/internal/fix"
	"swiftstyle/internal/observ"
	"swiftstyle/internal/report"
	"swiftstyle/internal/rules"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] <path>...",
	Short: "Check Swift files against the style rules",
	Long: `Analyse the given files and directories (recursively, *.swift) and report
style findings. Exit status: 0 clean, 1 findings at or above --fail-on,
2 tooling or configuration errors.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLint,
}

func init() {
	addConfigFlags(lintCmd)
	lintCmd.Flags().String("format", "text", "output format (text|json|sarif|short)")
	lintCmd.Flags().String("output", "", "write the report to file instead of stdout")
	lintCmd.Flags().String("path-mode", "auto", "path display (auto|absolute|relative|basename)")
	lintCmd.Flags().Bool("fail-fast", false, "stop at the first tooling error")
	lintCmd.Flags().Bool("fix", false, "apply safe fixes, then report what is left")
	lintCmd.Flags().Bool("cache", false, "reuse results of unchanged files")
	lintCmd.Flags().Bool("timings", false, "print per-stage timings to stderr")
	lintCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	lintCmd.Flags().Bool("with-notes", false, "include notes and fix suggestions")
	lintCmd.Flags().Bool("per-rule", false, "append per-rule counts to the text summary")
	lintCmd.Flags().Bool("no-suppressions", false, "ignore swiftstyle:disable directives")
}

type lintFlags struct {
	cfg            configFlags
	format         outputFormat
	output         string
	pathMode       diagfmt.PathMode
	failFast       bool
	fix            bool
	cache          bool
	timings        bool
	ui             switchMode
	withNotes      bool
	perRule        bool
	noSuppressions bool
	quiet          bool
	maxDiagnostics int
}

func readLintFlags(cmd *cobra.Command) (lintFlags, error) {
	var f lintFlags
	var err error
	if f.cfg, err = readConfigFlags(cmd); err != nil {
		return f, err
	}
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	if f.format, err = readOutputFormat(formatStr); err != nil {
		return f, err
	}
	if f.output, err = cmd.Flags().GetString("output"); err != nil {
		return f, fmt.Errorf("failed to get output flag: %w", err)
	}
	pathModeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return f, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	var ok bool
	if f.pathMode, ok = diagfmt.ParsePathMode(pathModeStr); !ok {
		return f, fmt.Errorf("invalid --path-mode value %q (expected auto|absolute|relative|basename)", pathModeStr)
	}
	bools := []struct {
		name string
		dst  *bool
	}{
		{"fail-fast", &f.failFast},
		{"fix", &f.fix},
		{"cache", &f.cache},
		{"timings", &f.timings},
		{"with-notes", &f.withNotes},
		{"per-rule", &f.perRule},
		{"no-suppressions", &f.noSuppressions},
	}
	for _, b := range bools {
		if *b.dst, err = cmd.Flags().GetBool(b.name); err != nil {
			return f, fmt.Errorf("failed to get %s flag: %w", b.name, err)
		}
	}
	uiStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readSwitchMode("ui", uiStr); err != nil {
		return f, err
	}
	if f.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return f, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if f.maxDiagnostics, err = cmd.Root().PersistentFlags().GetInt("max-diagnostics"); err != nil {
		return f, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	return f, nil
}

func runLint(cmd *cobra.Command, args []string) error {
	flags, err := readLintFlags(cmd)
	if err != nil {
		return err
	}
	logger := state.log()

	out, closeOut, err := openOutput(flags.output)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); cerr != nil {
			logger.Error("failed to close output", zap.Error(cerr))
		}
	}()
	colored := false
	if f, ok := out.(*os.File); ok && flags.format == formatText {
		if colored, err = useColor(cmd, f); err != nil {
			return err
		}
	}

	reg := rules.NewRegistry()
	render := renderOptions{
		format:    flags.format,
		color:     colored,
		pathMode:  flags.pathMode,
		withNotes: flags.withNotes,
		perRule:   flags.perRule,
		quiet:     flags.quiet,
		args:      os.Args[1:],
		rules:     reg.All(),
	}

	cfg, err := resolveConfig(flags.cfg, reg)
	if err != nil {
		d, ok := asConfigError(err)
		if !ok {
			return err
		}
		logger.Debug("configuration rejected", zap.Error(err))
		rep := report.Build(nil, d)
		if err := renderReport(out, rep, nil, render); err != nil {
			return err
		}
		return exitWith(report.ExitTooling)
	}
	if cfg.Path != "" {
		logger.Info("configuration loaded", zap.String("path", cfg.Path))
	}

	timer := observ.NewTimer()
	phase := timer.Begin("collect")
	files := driver.Collect(args, cfg.Exclude)
	timer.End(phase, fmt.Sprintf("%d files", len(files)))
	logger.Debug("files discovered", zap.Int("count", len(files)))

	opts := driver.Options{
		Registry:       reg,
		Settings:       cfg.Rules,
		Exclude:        cfg.Exclude,
		Jobs:           cfg.Jobs,
		MaxDiagnostics: flags.maxDiagnostics,
		FailFast:       flags.failFast,
		NoSuppressions: flags.noSuppressions,
		Logger:         logger,
		Timer:          timer,
	}
	if flags.cache {
		cache, err := driver.OpenCache("swiftstyle")
		if err != nil {
			// без кэша работаем как обычно
			logger.Warn("result cache unavailable", zap.Error(err))
		} else {
			logger.Debug("result cache", zap.String("dir", cache.Dir()))
			opts.Cache = cache
		}
	}

	ctx := cmd.Context()
	useUI := shouldUseTUI(flags.ui, flags.quiet) && flags.output == "" && flags.format == formatText
	phase = timer.Begin("lint")
	res, err := lint(ctx, files, opts, useUI)
	interrupted := false
	if err != nil {
		if res == nil || ctx.Err() == nil {
			return err
		}
		// отчёт по уже проверенным файлам всё равно печатаем
		logger.Warn("lint interrupted", zap.Error(err))
		interrupted = true
	}
	timer.End(phase, "")
	rep := report.Build(res.Files)

	if flags.fix && !interrupted {
		phase = timer.Begin("fix")
		var applied int
		res, applied, err = fixUntilStable(ctx, files, opts, res, logger)
		if err != nil {
			return err
		}
		timer.End(phase, fmt.Sprintf("%d applied", applied))
		if applied > 0 {
			if !flags.quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "applied %d %s\n", applied, pluralize(applied, "fix", "fixes"))
			}
			rep = report.Build(res.Files)
		}
	}

	phase = timer.Begin("report")
	if err := renderReport(out, rep, res.FileSet, render); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	timer.End(phase, "")
	if flags.timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if interrupted {
		return exitWith(report.ExitTooling)
	}
	return exitWith(rep.ExitCode(cfg.FailOn))
}

func lint(ctx context.Context, files []string, opts driver.Options, useUI bool) (*driver.Result, error) {
	if useUI && len(files) > 0 {
		return runLintWithUI(ctx, "swiftstyle lint", files, opts)
	}
	return driver.LintFiles(ctx, files, opts)
}

// maxFixPasses bounds fix-then-relint rounds. A later round picks up fixes
// that overlapped an earlier one or only became visible after it.
const maxFixPasses = 5

// fixUntilStable applies fixes and re-lints until a round applies nothing.
// It returns the result of the last lint and the total number of fixes.
func fixUntilStable(ctx context.Context, files []string, opts driver.Options, res *driver.Result, logger *zap.Logger) (*driver.Result, int, error) {
	total := 0
	for pass := 1; pass <= maxFixPasses; pass++ {
		applied, err := applyFixes(res, report.Build(res.Files), logger)
		if err != nil {
			return res, total, err
		}
		if applied == 0 {
			break
		}
		total += applied
		logger.Debug("fix pass", zap.Int("pass", pass), zap.Int("applied", applied))
		if res, err = driver.LintFiles(ctx, files, opts); err != nil {
			return res, total, err
		}
	}
	return res, total, nil
}

// applyFixes writes every always-safe fix of the report to disk and returns
// how many were applied.
func applyFixes(res *driver.Result, rep *report.Report, logger *zap.Logger) (int, error) {
	findings := make([]diag.Diagnostic, 0, len(rep.Diagnostics()))
	for _, d := range rep.Diagnostics() {
		if d.IsFinding() {
			findings = append(findings, d)
		}
	}
	result, err := fix.Apply(res.FileSet, findings, fix.ApplyOptions{Mode: fix.ApplyModeAll})
	if errors.Is(err, fix.ErrNoFixes) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to apply fixes: %w", err)
	}
	for _, change := range result.FileChanges {
		logger.Info("fixed file", zap.String("path", change.Path), zap.Int("edits", change.EditCount))
	}
	for _, skip := range result.Skipped {
		logger.Debug("fix skipped", zap.String("id", skip.ID), zap.String("reason", skip.Reason))
	}
	return len(result.Applied), nil
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
