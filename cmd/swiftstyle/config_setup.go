package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"swiftstyle/internal/config"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/rule"
)

// configFlags are shared by lint and watch.
type configFlags struct {
	path    string
	failOn  string
	jobs    int
	exclude []string
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "configuration file (default: discovered .swiftstyle.*)")
	cmd.Flags().String("fail-on", "", "lowest severity that fails the run (warning|error)")
	cmd.Flags().Int("jobs", 0, "files analysed in parallel (0 = GOMAXPROCS)")
	cmd.Flags().StringArray("exclude", nil, "exclude glob, repeatable")
}

func readConfigFlags(cmd *cobra.Command) (configFlags, error) {
	var f configFlags
	var err error
	if f.path, err = cmd.Flags().GetString("config"); err != nil {
		return f, fmt.Errorf("failed to get config flag: %w", err)
	}
	if f.failOn, err = cmd.Flags().GetString("fail-on"); err != nil {
		return f, fmt.Errorf("failed to get fail-on flag: %w", err)
	}
	if f.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.exclude, err = cmd.Flags().GetStringArray("exclude"); err != nil {
		return f, fmt.Errorf("failed to get exclude flag: %w", err)
	}
	return f, nil
}

// resolveConfig loads the configuration and layers the command-line
// overrides on top. Every failure is a *config.Error.
func resolveConfig(flags configFlags, reg *rule.Registry) (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, &config.Error{Code: diag.CfgParseError, Msg: err.Error(), Err: err}
	}
	cfg, err := config.Resolve(flags.path, wd, reg)
	if err != nil {
		return nil, err
	}
	if flags.failOn != "" {
		sev, err := diag.ParseSeverity(flags.failOn)
		if err != nil {
			return nil, &config.Error{Code: diag.CfgBadSeverity, Key: "--fail-on", Msg: err.Error(), Err: err}
		}
		cfg.FailOn = sev
	}
	if flags.jobs < 0 {
		return nil, &config.Error{Code: diag.CfgBadParamValue, Key: "--jobs", Msg: fmt.Sprintf("must be >= 0, got %d", flags.jobs)}
	}
	if flags.jobs > 0 {
		cfg.Jobs = flags.jobs
	}
	for _, pattern := range flags.exclude {
		if err := cfg.Exclude.Add(pattern); err != nil {
			return nil, &config.Error{Code: diag.CfgBadGlob, Key: "--exclude", Msg: err.Error(), Err: err}
		}
	}
	return cfg, nil
}

// asConfigError extracts the run-level diagnostic of a configuration failure.
func asConfigError(err error) (diag.Diagnostic, bool) {
	var cfgErr *config.Error
	if errors.As(err, &cfgErr) {
		return cfgErr.Diagnostic(), true
	}
	return diag.Diagnostic{}, false
}
