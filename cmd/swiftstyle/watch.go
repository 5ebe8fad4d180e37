package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/driver"
	"swiftstyle/internal/observ"
	"swiftstyle/internal/report"
	"swiftstyle/internal/rules"
	"swiftstyle/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <path>...",
	Short: "Re-lint Swift files whenever they change",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWatch,
}

func init() {
	addConfigFlags(watchCmd)
	watchCmd.Flags().String("format", "text", "output format (text|json|short)")
	watchCmd.Flags().Duration("debounce", watcher.DefaultDebounce, "quiet period before re-linting")
	watchCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9464")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfgFlags, err := readConfigFlags(cmd)
	if err != nil {
		return err
	}
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := readOutputFormat(formatStr)
	if err != nil {
		return err
	}
	if format == formatSarif {
		return errors.New("watch does not support --format sarif")
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	metricsAddr, err := cmd.Flags().GetString("metrics-addr")
	if err != nil {
		return fmt.Errorf("failed to get metrics-addr flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	colored, err := useColor(cmd, os.Stdout)
	if err != nil {
		return err
	}

	logger := state.log()
	out := cmd.OutOrStdout()
	render := renderOptions{format: format, color: colored}

	reg := rules.NewRegistry()
	cfg, err := resolveConfig(cfgFlags, reg)
	if err != nil {
		if d, ok := asConfigError(err); ok {
			if rerr := renderReport(out, report.Build(nil, d), nil, render); rerr != nil {
				return rerr
			}
			return exitWith(report.ExitTooling)
		}
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observ.NewMetrics(registry)

	ctx := cmd.Context()
	if metricsAddr != "" {
		stop, err := serveMetrics(ctx, metricsAddr, registry, logger)
		if err != nil {
			return err
		}
		defer stop()
	}

	opts := driver.Options{
		Registry:       reg,
		Settings:       cfg.Rules,
		Exclude:        cfg.Exclude,
		Jobs:           cfg.Jobs,
		MaxDiagnostics: maxDiagnostics,
		Logger:         logger,
		Metrics:        metrics,
	}
	if cache, err := driver.OpenCache("swiftstyle"); err == nil {
		opts.Cache = cache
	} else {
		logger.Warn("result cache unavailable", zap.Error(err))
	}

	w, err := watcher.New(watcher.Options{
		Debounce: debounce,
		Ext:      driver.SourceExt,
		Exclude:  cfg.Exclude,
		Logger:   logger,
		Metrics:  metrics,
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	if err := w.Add(args...); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to watch: %w", err)
	}

	relint := func(ctx context.Context, changed []string) {
		if len(changed) > 0 {
			fmt.Fprintf(out, "\n[%s] %d %s changed\n", time.Now().Format(time.TimeOnly), len(changed), pluralize(len(changed), "file", "files"))
		}
		if err := lintOnce(ctx, out, args, opts, render, cfg.FailOn); err != nil && ctx.Err() == nil {
			logger.Error("lint failed", zap.Error(err))
		}
	}
	relint(ctx, nil)
	logger.Info("watching", zap.Strings("paths", args))
	return w.Run(ctx, relint)
}

// lintOnce lints the whole path set; unchanged files come from the cache.
func lintOnce(ctx context.Context, out io.Writer, paths []string, opts driver.Options, render renderOptions, failOn diag.Severity) error {
	res, err := driver.Lint(ctx, paths, opts)
	if err != nil {
		return err
	}
	rep := report.Build(res.Files)
	if err := renderReport(out, rep, res.FileSet, render); err != nil {
		return err
	}
	if render.format == formatText && rep.ExitCode(failOn) == report.ExitClean {
		fmt.Fprintln(out, "clean")
	}
	return nil
}

// serveMetrics exposes /metrics until ctx is done or stop is called.
func serveMetrics(ctx context.Context, addr string, registry *prometheus.Registry, logger *zap.Logger) (func(), error) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observ.Handler(registry))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	// даём серверу шанс упасть сразу, например на занятом порту
	select {
	case err := <-errCh:
		return nil, fmt.Errorf("metrics server: %w", err)
	case <-time.After(50 * time.Millisecond):
	}
	logger.Info("serving metrics", zap.String("addr", addr))

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown", zap.Error(err))
		}
	}()
	return func() {
		close(done)
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server", zap.Error(err))
		}
	}, nil
}
