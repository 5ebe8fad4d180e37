package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"swiftstyle/internal/rule"
	"swiftstyle/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the available rules with their defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		reg := rules.NewRegistry()
		switch strings.ToLower(format) {
		case "text", "pretty":
			writeRulesText(cmd.OutOrStdout(), reg.All())
			return nil
		case "json":
			return writeRulesJSON(cmd.OutOrStdout(), reg.All())
		default:
			return fmt.Errorf("unsupported format %q (must be text or json)", format)
		}
	},
}

func init() {
	rulesCmd.Flags().String("format", "text", "output format (text|json)")
}

type paramJSON struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Default any    `json:"default"`
	Doc     string `json:"doc,omitempty"`
	Min     *int   `json:"min,omitempty"`
}

type ruleJSON struct {
	ID          string      `json:"id"`
	Code        string      `json:"code"`
	Severity    string      `json:"severity"`
	Description string      `json:"description"`
	Params      []paramJSON `json:"params,omitempty"`
}

func writeRulesJSON(w io.Writer, all []*rule.Rule) error {
	out := make([]ruleJSON, 0, len(all))
	for _, rl := range all {
		rj := ruleJSON{
			ID:          rl.ID,
			Code:        rl.Code.ID(),
			Severity:    rl.Severity.Label(),
			Description: rl.Description,
		}
		for _, p := range rl.Params {
			pj := paramJSON{Name: p.Name, Kind: p.Kind.String(), Default: p.Default, Doc: p.Doc}
			if p.Kind == rule.ParamInt {
				pj.Min = &p.Min
			}
			rj.Params = append(rj.Params, pj)
		}
		out = append(out, rj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeRulesText(w io.Writer, all []*rule.Rule) {
	idWidth := 0
	for _, rl := range all {
		idWidth = max(idWidth, runewidth.StringWidth(rl.ID))
	}
	for _, rl := range all {
		fmt.Fprintf(w, "%s  %s  %-7s  %s\n", rl.Code.ID(), runewidth.FillRight(rl.ID, idWidth), rl.Severity.Label(), rl.Description)
		for _, p := range rl.Params {
			fmt.Fprintf(w, "    %s (%s, default %v)", p.Name, p.Kind, formatDefault(p.Default))
			if p.Doc != "" {
				fmt.Fprintf(w, ": %s", p.Doc)
			}
			fmt.Fprintln(w)
		}
	}
}

func formatDefault(v any) string {
	if list, ok := v.([]string); ok {
		return "[" + strings.Join(list, ", ") + "]"
	}
	return fmt.Sprint(v)
}
