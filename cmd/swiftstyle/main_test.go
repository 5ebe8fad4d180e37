package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"swiftstyle/internal/config"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/diagfmt"
	"swiftstyle/internal/report"
	"swiftstyle/internal/rule"
	"swiftstyle/internal/rules"
)

func TestExitCode(t *testing.T) {
	require.Equal(t, report.ExitClean, exitCode(nil))
	require.Equal(t, report.ExitFindings, exitCode(exitWith(report.ExitFindings)))
	require.NoError(t, exitWith(report.ExitClean))
	require.Equal(t, report.ExitTooling, exitCode(errors.New("unknown flag")))
}

func TestReadSwitchMode(t *testing.T) {
	for in, want := range map[string]switchMode{"": modeAuto, "AUTO": modeAuto, "on": modeOn, "never": modeOff} {
		got, err := readSwitchMode("ui", in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := readSwitchMode("ui", "sometimes")
	require.ErrorContains(t, err, "--ui")
	require.True(t, modeOn.resolve(nil))
	require.False(t, modeAuto.resolve(nil))
}

func TestReadOutputFormat(t *testing.T) {
	got, err := readOutputFormat("")
	require.NoError(t, err)
	require.Equal(t, formatText, got)
	got, err = readOutputFormat("SARIF")
	require.NoError(t, err)
	require.Equal(t, formatSarif, got)
	_, err = readOutputFormat("xml")
	require.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, logLevel(true, true))
	require.Equal(t, zapcore.ErrorLevel, logLevel(false, true))
	require.Equal(t, zapcore.WarnLevel, logLevel(false, false))
}

func TestResolveConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".swiftstyle.yaml")
	require.NoError(t, os.WriteFile(path, []byte("line_length:\n  params:\n    max: 80\n"), 0o644))

	cfg, err := resolveConfig(configFlags{
		path:    path,
		failOn:  "warning",
		jobs:    3,
		exclude: []string{"**/Generated/**"},
	}, rules.NewRegistry())
	require.NoError(t, err)
	require.Equal(t, diag.SevWarning, cfg.FailOn)
	require.Equal(t, 3, cfg.Jobs)
	require.True(t, cfg.Exclude.Match("App/Generated/Model.swift"))
	require.Equal(t, 80, cfg.Rules["line_length"].Params.Int("max"))
}

func TestResolveConfigErrors(t *testing.T) {
	reg := rules.NewRegistry()
	dir := t.TempDir()
	path := filepath.Join(dir, ".swiftstyle.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bogus_rule: true\n"), 0o644))

	_, err := resolveConfig(configFlags{path: path}, reg)
	d, ok := asConfigError(err)
	require.True(t, ok)
	require.Equal(t, diag.CfgUnknownRule, d.Code)

	_, err = resolveConfig(configFlags{path: filepath.Join(dir, "missing.yaml"), failOn: "warning"}, reg)
	var cfgErr *config.Error
	require.ErrorAs(t, err, &cfgErr)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = resolveConfig(configFlags{path: empty, failOn: "fatal"}, reg)
	d, ok = asConfigError(err)
	require.True(t, ok)
	require.Equal(t, diag.CfgBadSeverity, d.Code)

	_, err = resolveConfig(configFlags{path: empty, jobs: -1}, reg)
	d, ok = asConfigError(err)
	require.True(t, ok)
	require.Equal(t, diag.CfgBadParamValue, d.Code)
}

func TestRenderConfigErrorShort(t *testing.T) {
	rep := report.Build(nil, diag.Diagnostic{Severity: diag.SevError, Code: diag.CfgUnknownRule, Message: "unknown rule"})
	var buf bytes.Buffer
	require.NoError(t, renderReport(&buf, rep, nil, renderOptions{format: formatShort}))
	require.Equal(t, "error CFG5001 unknown rule\n", buf.String())
	require.Equal(t, report.ExitTooling, rep.ExitCode(diag.SevError))
}

func TestRulesJSON(t *testing.T) {
	reg := rules.NewRegistry()
	var buf bytes.Buffer
	require.NoError(t, writeRulesJSON(&buf, reg.All()))

	var got []ruleJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, reg.Len())
	seen := map[string]bool{}
	for _, r := range got {
		require.False(t, seen[r.ID], "duplicate %s", r.ID)
		seen[r.ID] = true
		require.NotEmpty(t, r.Description, r.ID)
	}
	require.True(t, seen["line_length"])

	buf.Reset()
	writeRulesText(&buf, []*rule.Rule{reg.All()[0]})
	require.Contains(t, buf.String(), reg.All()[0].ID)
}

// runCLI executes the real command tree. Flags keep their values between
// runs, so every call passes the flags it depends on.
func runCLI(t *testing.T, args ...string) int {
	t.Helper()
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	state.close()
	return exitCode(err)
}

func TestLintCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "style.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("naming_case:\n  severity: error\n"), 0o644))
	good := filepath.Join(dir, "Good.swift")
	bad := filepath.Join(dir, "Bad.swift")
	require.NoError(t, os.WriteFile(good, []byte("let count = 3\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("let MAX_WIDGET_COUNT = 3\n"), 0o644))
	out := filepath.Join(dir, "report.json")

	lint := func(target string) (int, diagfmt.ReportJSON) {
		code := runCLI(t, "lint", "--config", cfgPath, "--format", "json", "--ui", "off",
			"--fail-on", "error", "--output", out, target)
		data, err := os.ReadFile(out)
		require.NoError(t, err)
		var rep diagfmt.ReportJSON
		require.NoError(t, json.Unmarshal(data, &rep))
		return code, rep
	}

	code, rep := lint(good)
	require.Equal(t, report.ExitClean, code)
	require.Equal(t, 1, rep.Summary.Files)
	require.Zero(t, rep.Summary.Errors)

	code, rep = lint(bad)
	require.Equal(t, report.ExitFindings, code)
	require.Equal(t, 1, rep.Summary.Errors)
	var rulesHit []string
	for _, d := range rep.Files[0].Diagnostics {
		rulesHit = append(rulesHit, d.Rule)
	}
	require.Contains(t, rulesHit, "naming_case")

	code, rep = lint(dir)
	require.Equal(t, report.ExitFindings, code)
	require.Equal(t, 2, rep.Summary.Files)
}

func TestLintCommandConfigError(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "style.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("no_such_rule: true\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "A.swift"), []byte("let a = 1\n"), 0o644))
	out := filepath.Join(dir, "report.txt")

	code := runCLI(t, "lint", "--config", cfgPath, "--format", "short", "--ui", "off",
		"--fail-on", "error", "--output", out, dir)
	require.Equal(t, report.ExitTooling, code)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), "CFG5001")
}

func TestLintFixRunsUntilStable(t *testing.T) {
	fixFlag := lintCmd.Flags().Lookup("fix")
	t.Cleanup(func() { require.NoError(t, fixFlag.Value.Set("false")) })

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "style.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("trailing_whitespace: true\n"), 0o644))
	path := filepath.Join(dir, "Fix.swift")
	// removing the semicolon leaves the space before it trailing
	require.NoError(t, os.WriteFile(path, []byte("let count = 1 ;   \n"), 0o644))
	out := filepath.Join(dir, "report.json")

	code := runCLI(t, "lint", "--config", cfgPath, "--fix", "--format", "json", "--ui", "off",
		"--fail-on", "error", "--output", out, path)
	require.Equal(t, report.ExitClean, code)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "let count = 1\n", string(data))

	data, err = os.ReadFile(out)
	require.NoError(t, err)
	var rep diagfmt.ReportJSON
	require.NoError(t, json.Unmarshal(data, &rep))
	for _, f := range rep.Files {
		for _, d := range f.Diagnostics {
			require.NotContains(t, []string{"trailing_semicolon", "trailing_whitespace"}, d.Rule)
		}
	}
}
