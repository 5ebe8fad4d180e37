package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"swiftstyle/internal/report"
	"swiftstyle/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "swiftstyle",
	Short: "Rule-based style linter for Swift sources",
	Long: `swiftstyle checks Swift source files against a table of mechanical style
rules and reports findings with precise locations.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRun,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		state.close()
	},
}

// exitError carries a non-zero process status out of RunE.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func exitWith(code int) error {
	if code == report.ExitClean {
		return nil
	}
	return &exitError{code: code}
}

// exitCode maps the outcome of Execute to a process status. Usage and
// startup errors count as tooling failures.
func exitCode(err error) int {
	if err == nil {
		return report.ExitClean
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return report.ExitTooling
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("verbose", false, "enable debug logging")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics per file (0 = unlimited)")

	pf.String("trace", "", "write pipeline trace to file (- for stderr)")
	pf.String("trace-level", "off", "trace depth (off|phase|file|rule)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring)")
	pf.Int("trace-ring-size", 4096, "ring buffer capacity for --trace-mode ring")
	pf.Duration("trace-heartbeat", 0, "emit trace heartbeats at this interval (0 = off)")

	pf.String("cpu-profile", "", "write CPU profile to file")
	pf.String("mem-profile", "", "write heap profile to file")
	pf.String("runtime-trace", "", "write Go runtime trace to file")
}

// main runs the root command under a signal-aware context and exits with
// the status the command asked for.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	// PersistentPostRun не вызывается, если RunE вернул ошибку
	state.close()

	var ee *exitError
	if err != nil && !errors.As(err, &ee) {
		fmt.Fprintf(os.Stderr, "swiftstyle: %v\n", err)
	}
	os.Exit(exitCode(err))
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
