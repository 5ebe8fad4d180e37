package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"swiftstyle/internal/prof"
)

// runState holds what PersistentPreRunE sets up for the whole invocation.
type runState struct {
	mu       sync.Mutex
	logger   *zap.Logger
	cleanups []func()
}

var state = &runState{logger: zap.NewNop()}

func (s *runState) log() *zap.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logger
}

func (s *runState) onClose(fn func()) {
	s.mu.Lock()
	s.cleanups = append(s.cleanups, fn)
	s.mu.Unlock()
}

// close runs cleanups in reverse order and syncs the logger. Idempotent.
func (s *runState) close() {
	s.mu.Lock()
	cleanups := s.cleanups
	s.cleanups = nil
	logger := s.logger
	s.mu.Unlock()
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	// sync на stderr возвращает EINVAL на некоторых системах, игнорируем
	_ = logger.Sync()
}

func setupRun(cmd *cobra.Command, args []string) error {
	root := cmd.Root()
	verbose, err := root.PersistentFlags().GetBool("verbose")
	if err != nil {
		return fmt.Errorf("failed to get verbose flag: %w", err)
	}
	quiet, err := root.PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	logger, err := newLogger(verbose, quiet)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	state.mu.Lock()
	state.logger = logger
	state.mu.Unlock()

	traceCleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	state.onClose(traceCleanup)

	profCleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	state.onClose(profCleanup)
	return nil
}

// newLogger builds the tool logger. Findings go to stdout through the
// reporters; the logger only ever writes to stderr.
func newLogger(verbose, quiet bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = !verbose
	cfg.Sampling = nil
	cfg.Level = zap.NewAtomicLevelAt(logLevel(verbose, quiet))
	return cfg.Build()
}

func logLevel(verbose, quiet bool) zapcore.Level {
	switch {
	case verbose:
		return zapcore.DebugLevel
	case quiet:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// setupProfiling starts the profilers requested on the command line.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	var opts prof.Options
	var err error
	if opts.CPUProfile, err = root.PersistentFlags().GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.MemProfile, err = root.PersistentFlags().GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.RuntimeTrace, err = root.PersistentFlags().GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return func() {}, nil
	}
	session, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "profile: %v\n", err)
		}
	}, nil
}
