package diagfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/fix"
	"swiftstyle/internal/lexer"
	"swiftstyle/internal/parser"
	"swiftstyle/internal/report"
	"swiftstyle/internal/rule"
	"swiftstyle/internal/source"
)

func sampleReport(t *testing.T) (*report.Report, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("Sources/A.swift", []byte("let a = 1;\nlet b = x!\n"))

	semi := finding("trailing_semicolon", diag.StyTrailingSemicolon, diag.SevWarning,
		source.Span{File: id, Start: 9, End: 10}, "Trailing semicolon")
	semi.Fixes = append(semi.Fixes, fix.Safe("Remove semicolon", fix.Delete(semi.Primary, ";")))
	unwrap := finding("force_unwrap", diag.StyForceUnwrap, diag.SevError,
		source.Span{File: id, Start: 20, End: 21}, "Force unwrapping should be avoided")
	cfg := diag.NewError(diag.CfgUnknownRule, source.Span{}, `unknown rule "bogus"`)

	rep := report.Build([]report.FileResult{
		{Path: "Sources/A.swift", FileID: id, Diagnostics: []diag.Diagnostic{semi, unwrap}},
	}, cfg)
	return rep, fs
}

// TestJSONReport проверяет структуру JSON отчёта
func TestJSONReport(t *testing.T) {
	rep, fs := sampleReport(t)

	var buf bytes.Buffer
	err := JSON(&buf, rep, fs, JSONOpts{
		IncludePositions: true,
		IncludeFixes:     true,
		IncludePreviews:  true,
		ToolVersion:      "1.2.3",
	})
	require.NoError(t, err)

	var out ReportJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out), buf.String())

	require.Equal(t, rep.RunID, out.RunID)
	require.Equal(t, "swiftstyle", out.Tool)
	require.Equal(t, "1.2.3", out.Version)

	// ошибка конфигурации не привязана к файлу
	require.Len(t, out.Diagnostics, 1)
	require.Equal(t, "CFG5001", out.Diagnostics[0].Code)
	require.Nil(t, out.Diagnostics[0].Location)

	require.Len(t, out.Files, 1)
	diags := out.Files[0].Diagnostics
	require.Len(t, diags, 2)

	semi := diags[0]
	require.Equal(t, "warning", semi.Severity)
	require.Equal(t, "STY3007", semi.Code)
	require.Equal(t, "trailing_semicolon", semi.Rule)
	require.NotNil(t, semi.Location)
	require.Equal(t, LocationJSON{
		File: "Sources/A.swift", StartByte: 9, EndByte: 10,
		StartLine: 1, StartCol: 10, EndLine: 1, EndCol: 11,
	}, *semi.Location)

	require.Len(t, semi.Fixes, 1)
	fx := semi.Fixes[0]
	require.Equal(t, "always-safe", fx.Applicability)
	require.True(t, fx.IsPreferred)
	require.Len(t, fx.Edits, 1)
	require.Equal(t, []string{"let a = 1;"}, fx.Edits[0].BeforeLines)
	require.Equal(t, []string{"let a = 1"}, fx.Edits[0].AfterLines)

	require.Equal(t, "error", diags[1].Severity)
	require.Empty(t, diags[1].Fixes)

	require.Equal(t, SummaryJSON{Files: 1, Errors: 1, Warnings: 1, Tooling: 1, Fixable: 1}, out.Summary)
	require.Len(t, out.Rules, 2)
}

func TestJSONOmitsOptionalParts(t *testing.T) {
	rep, fs := sampleReport(t)

	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, rep, fs, JSONOpts{Max: 1}))

	var out ReportJSON
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out.Files[0].Diagnostics, 1)
	d := out.Files[0].Diagnostics[0]
	require.Empty(t, d.Fixes)
	require.Zero(t, d.Location.StartLine)
	require.NotContains(t, buf.String(), "start_line")
}

func TestSarifLinksRules(t *testing.T) {
	rep, fs := sampleReport(t)
	meta := SarifRunMeta{
		ToolVersion: "1.2.3",
		Rules: []*rule.Rule{
			{ID: "trailing_semicolon", Code: diag.StyTrailingSemicolon, Description: "Trailing semicolon", Severity: diag.SevWarning},
			{ID: "force_unwrap", Code: diag.StyForceUnwrap, Description: "Force unwrap", Severity: diag.SevWarning},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Sarif(&buf, rep, fs, meta))

	var log sarifLog
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log), buf.String())
	require.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)
	run := log.Runs[0]
	require.Len(t, run.Tool.Driver.Rules, 2)
	require.Equal(t, "swiftstyle/"+rep.RunID, run.AutomationDetails.ID)
	require.False(t, run.Invocations[0].ExecutionSuccessful)

	require.Len(t, run.Results, 3)
	byRule := map[string]sarifResult{}
	for _, r := range run.Results {
		byRule[r.RuleID] = r
	}

	cfg := byRule["CFG5001"]
	require.Nil(t, cfg.RuleIndex)
	require.Empty(t, cfg.Locations)

	unwrap := byRule["force_unwrap"]
	require.NotNil(t, unwrap.RuleIndex)
	require.Equal(t, 1, *unwrap.RuleIndex)
	require.Equal(t, "error", unwrap.Level)
	require.Equal(t, "Sources/A.swift", unwrap.Locations[0].PhysicalLocation.ArtifactLocation.URI)
	require.Equal(t, uint32(2), unwrap.Locations[0].PhysicalLocation.Region.StartLine)

	semi := byRule["trailing_semicolon"]
	require.Len(t, semi.Fixes, 1)
	repl := semi.Fixes[0].ArtifactChanges[0].Replacements[0]
	require.Nil(t, repl.InsertedContent)
	require.Equal(t, uint32(10), repl.DeletedRegion.StartColumn)
}

func parseTree(t *testing.T, src string) (*source.FileSet, *source.File) {
	t.Helper()
	fs := source.NewFileSet()
	return fs, fs.Get(fs.AddVirtual("T.swift", []byte(src)))
}

func TestTokensOutput(t *testing.T) {
	fs, file := parseTree(t, "// hi\nlet a = 1\n")
	toks, err := lexer.All(file, lexer.Options{})
	require.NoError(t, err)

	var pretty bytes.Buffer
	require.NoError(t, FormatTokensPretty(&pretty, toks, fs))
	first := strings.SplitN(pretty.String(), "\n", 2)[0]
	require.Contains(t, first, `"let"`)
	require.Contains(t, first, "at 2:1-2:4")
	require.Contains(t, first, `LineComment "// hi"`)

	var raw bytes.Buffer
	require.NoError(t, FormatTokensJSON(&raw, toks, fs))
	var out []TokenOutput
	require.NoError(t, json.Unmarshal(raw.Bytes(), &out))
	require.Equal(t, "EOF", out[len(out)-1].Kind)
	require.Equal(t, uint32(2), out[0].Line)
	require.NotEmpty(t, out[0].Leading)
}

func TestTreeOutput(t *testing.T) {
	fs, file := parseTree(t, "import UIKit\nlet a = 1\n")
	toks, err := lexer.All(file, lexer.Options{})
	require.NoError(t, err)
	tree, err := parser.ParseFile(context.Background(), file, toks, parser.Options{})
	require.NoError(t, err)

	var pretty bytes.Buffer
	require.NoError(t, FormatTreePretty(&pretty, tree, fs))
	out := pretty.String()
	require.True(t, strings.HasPrefix(out, "T.swift (span: 1:1-"), out)
	require.Contains(t, out, "├─ ImportDecl")
	require.Contains(t, out, "└─ VarDecl")

	var raw bytes.Buffer
	require.NoError(t, FormatTreeJSON(&raw, tree))
	var root NodeOutput
	require.NoError(t, json.Unmarshal(raw.Bytes(), &root))
	require.Equal(t, "File", root.Kind)
	require.Len(t, root.Children, 2)
	require.Equal(t, "VarDecl", root.Children[1].Kind)
}
