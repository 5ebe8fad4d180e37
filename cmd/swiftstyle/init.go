package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"swiftstyle/internal/config"
	"swiftstyle/internal/rules"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default .swiftstyle.yaml",
	Long: `Write a .swiftstyle.yaml listing every rule with its default severity and
parameters. The directory defaults to the current one and is created if it
does not exist. An existing configuration is never overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	target, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	// Ensure directory exists
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err = os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	path, err := config.WriteDefault(target, rules.NewRegistry())
	if errors.Is(err, config.ErrExists) {
		return fmt.Errorf("already initialized: %w", err)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", path)
	return nil
}
