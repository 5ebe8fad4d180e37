package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"swiftstyle/internal/diagfmt"
	"swiftstyle/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.swift",
	Short: "Dump the syntax tree of a Swift file",
	Long:  "Parse builds the syntax tree of a Swift source file and prints it.\nPass - to read the source from standard input.",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "tree" && format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Parse(cmd.Context(), filePath, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if result.Tree != nil {
		out := cmd.OutOrStdout()
		switch format {
		case "json":
			err = diagfmt.FormatTreeJSON(out, result.Tree)
		default:
			err = diagfmt.FormatTreePretty(out, result.Tree, result.FileSet)
		}
		if err != nil {
			return err
		}
	}
	return reportDumpDiagnostics(cmd, result.Bag, result.FileSet)
}
