package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/diagfmt"
	"swiftstyle/internal/driver"
	"swiftstyle/internal/report"
	"swiftstyle/internal/source"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.swift",
	Short: "Dump the token stream of a Swift file",
	Long:  "Tokenize prints every token of a Swift source file with its leading trivia and position.\nPass - to read the source from standard input.",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Tokenize(filePath, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = diagfmt.FormatTokensJSON(out, result.Tokens, result.FileSet)
	default:
		err = diagfmt.FormatTokensPretty(out, result.Tokens, result.FileSet)
	}
	if err != nil {
		return err
	}
	return reportDumpDiagnostics(cmd, result.Bag, result.FileSet)
}

// reportDumpDiagnostics prints the lexer or parser diagnostics of a debug
// dump to stderr. Any of them makes the command exit with the tooling status.
func reportDumpDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) error {
	if bag.Len() == 0 {
		return nil
	}
	colored, err := useColor(cmd, os.Stderr)
	if err != nil {
		return err
	}
	bag.Sort()
	diagfmt.Pretty(cmd.ErrOrStderr(), bag.Items(), fs, diagfmt.PrettyOpts{
		Color:     colored,
		Context:   2,
		ShowNotes: true,
	})
	return exitWith(report.ExitTooling)
}
