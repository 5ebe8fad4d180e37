package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// switchMode is the shared auto|on|off value of --ui and --color.
type switchMode string

const (
	modeAuto switchMode = "auto"
	modeOn   switchMode = "on"
	modeOff  switchMode = "off"
)

func readSwitchMode(flag, value string) (switchMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return modeAuto, nil
	case "on", "always":
		return modeOn, nil
	case "off", "never":
		return modeOff, nil
	default:
		return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
	}
}

// resolve turns auto into on when f is a terminal.
func (m switchMode) resolve(f *os.File) bool {
	switch m {
	case modeOn:
		return true
	case modeOff:
		return false
	default:
		return f != nil && isTerminal(f)
	}
}

// useColor applies --color to stdout output and to fatih/color globally.
// NO_COLOR disables auto mode.
func useColor(cmd *cobra.Command, out *os.File) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	mode, err := readSwitchMode("color", value)
	if err != nil {
		return false, err
	}
	if mode == modeAuto && os.Getenv("NO_COLOR") != "" {
		mode = modeOff
	}
	on := mode.resolve(out)
	color.NoColor = !on
	return on, nil
}

func shouldUseTUI(mode switchMode, quiet bool) bool {
	if quiet {
		return false
	}
	return mode.resolve(os.Stdout)
}
