package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"swiftstyle/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show swiftstyle build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		info := version.Get()
		switch strings.ToLower(format) {
		case "pretty":
			if _, err := useColor(cmd, os.Stdout); err != nil {
				return err
			}
			renderVersionPretty(cmd.OutOrStdout(), info)
			return nil
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		}
	},
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func renderVersionPretty(out io.Writer, info version.Info) {
	fmt.Fprintf(out, "swiftstyle %s\n", version.Colored())
	fmt.Fprintf(out, "commit:  %s\n", valueOrUnknown(info.GitCommit))
	fmt.Fprintf(out, "built:   %s\n", valueOrUnknown(info.BuildDate))
	fmt.Fprintf(out, "go:      %s %s\n", info.GoVersion, info.Platform)
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
