package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/diagfmt"
	"swiftstyle/internal/report"
	"swiftstyle/internal/rule"
	"swiftstyle/internal/source"
	"swiftstyle/internal/version"
)

type outputFormat string

const (
	formatText  outputFormat = "text"
	formatJSON  outputFormat = "json"
	formatSarif outputFormat = "sarif"
	formatShort outputFormat = "short"
)

func readOutputFormat(value string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case "", "pretty":
		return formatText, nil
	case formatText, formatJSON, formatSarif, formatShort:
		return f, nil
	}
	return "", fmt.Errorf("unsupported format %q (must be text, json, sarif or short)", value)
}

type renderOptions struct {
	format    outputFormat
	color     bool
	pathMode  diagfmt.PathMode
	withNotes bool
	perRule   bool
	quiet     bool
	args      []string
	rules     []*rule.Rule
}

// renderReport writes rep in the requested format. fs may be nil when the
// run stopped before any file was read.
func renderReport(w io.Writer, rep *report.Report, fs *source.FileSet, opts renderOptions) error {
	if fs == nil {
		fs = source.NewFileSet()
	}
	switch opts.format {
	case formatJSON:
		return diagfmt.JSON(w, rep, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         opts.pathMode,
			IncludeNotes:     opts.withNotes,
			IncludeFixes:     true,
			ToolVersion:      version.Version,
		})
	case formatSarif:
		return diagfmt.Sarif(w, rep, fs, diagfmt.SarifRunMeta{
			ToolName:       "swiftstyle",
			ToolVersion:    version.Version,
			InvocationArgs: opts.args,
			Rules:          opts.rules,
		})
	case formatShort:
		text := diag.FormatShort(rep.Diagnostics(), fs, opts.withNotes)
		if text == "" {
			return nil
		}
		_, err := io.WriteString(w, text+"\n")
		return err
	default:
		diagfmt.Pretty(w, rep.Diagnostics(), fs, diagfmt.PrettyOpts{
			Color:     opts.color,
			Context:   1,
			PathMode:  opts.pathMode,
			ShowNotes: opts.withNotes,
			ShowFixes: opts.withNotes,
		})
		if !opts.quiet {
			diagfmt.PrettySummary(w, rep, opts.color, opts.perRule)
		}
		return nil
	}
}

// openOutput returns stdout or the --output file.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}
