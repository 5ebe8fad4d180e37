package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"swiftstyle/internal/trace"
)

type traceFlags struct {
	output    string
	level     string
	mode      string
	ringSize  int
	heartbeat time.Duration
}

func readTraceFlags(cmd *cobra.Command) (traceFlags, error) {
	pf := cmd.Root().PersistentFlags()
	var f traceFlags
	var err error
	if f.output, err = pf.GetString("trace"); err != nil {
		return f, fmt.Errorf("failed to get trace flag: %w", err)
	}
	if f.level, err = pf.GetString("trace-level"); err != nil {
		return f, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	if f.mode, err = pf.GetString("trace-mode"); err != nil {
		return f, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	if f.ringSize, err = pf.GetInt("trace-ring-size"); err != nil {
		return f, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	if f.heartbeat, err = pf.GetDuration("trace-heartbeat"); err != nil {
		return f, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}
	return f, nil
}

// setupTracing attaches a tracer to the command context. --trace without an
// explicit level traces driver and pass boundaries.
func setupTracing(cmd *cobra.Command) (func(), error) {
	flags, err := readTraceFlags(cmd)
	if err != nil {
		return nil, err
	}
	level, err := trace.ParseLevel(flags.level)
	if err != nil {
		return nil, err
	}
	if level == trace.LevelOff && flags.output != "" && !cmd.Root().PersistentFlags().Changed("trace-level") {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	mode, err := trace.ParseMode(flags.mode)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: flags.output,
		RingSize:   flags.ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)

	var heartbeat *trace.Heartbeat
	if flags.heartbeat > 0 {
		heartbeat = trace.StartHeartbeat(tracer, flags.heartbeat)
	}
	return func() {
		if heartbeat != nil {
			heartbeat.Stop()
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}
