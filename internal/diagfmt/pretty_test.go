package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/fix"
	"swiftstyle/internal/report"
	"swiftstyle/internal/source"
)

func finding(rule string, code diag.Code, sev diag.Severity, sp source.Span, msg string) diag.Diagnostic {
	d := diag.New(sev, code, sp, msg)
	d.Rule = rule
	return d
}

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("/home/user/project/Sources/App/View.swift", []byte("let value = x!\n"))
	fs.SetBaseDir("/home/user/project")

	d := finding("force_unwrap", diag.StyForceUnwrap, diag.SevWarning,
		source.Span{File: id, Start: 13, End: 14}, "Force unwrapping should be avoided")

	tests := []struct {
		name string
		mode PathMode
		want string
	}{
		{"absolute", PathModeAbsolute, "/home/user/project/Sources/App/View.swift:1:14:"},
		{"relative", PathModeRelative, "Sources/App/View.swift:1:14:"},
		{"basename", PathModeBasename, "View.swift:1:14:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, []diag.Diagnostic{d}, fs, PrettyOpts{PathMode: tt.mode})
			require.True(t, strings.HasPrefix(buf.String(), tt.want), buf.String())
		})
	}
}

func TestPrettyExcerpt(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("View.swift", []byte("import UIKit\nlet value = x!\n"))
	d := finding("force_unwrap", diag.StyForceUnwrap, diag.SevWarning,
		source.Span{File: id, Start: 26, End: 27}, "Force unwrapping should be avoided")

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, fs, PrettyOpts{Context: 1})

	want := "View.swift:2:14: WARNING STY3013: Force unwrapping should be avoided [force_unwrap]\n" +
		"1 | import UIKit\n" +
		"2 | let value = x!\n" +
		"  |              ^\n"
	require.Equal(t, want, buf.String())
}

func TestPrettyUnderlineWidth(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("Names.swift", []byte("\tlet BadName = 1\n"))
	d := finding("naming_case", diag.StyNamingCase, diag.SevError,
		source.Span{File: id, Start: 5, End: 12}, "bad name")

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, fs, PrettyOpts{})

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "1 |     let BadName = 1", lines[1])
	// табуляция раскрыта в 4 пробела
	require.Equal(t, "  |         ^~~~~~~", lines[2])
}

func TestPrettyRunLevel(t *testing.T) {
	fs := source.NewFileSet()
	fs.AddVirtual("A.swift", []byte("let a = 1\n"))
	d := diag.NewError(diag.CfgUnknownRule, source.Span{}, `unknown rule "bogus"`)

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, fs, PrettyOpts{})
	require.Equal(t, "ERROR CFG5001: unknown rule \"bogus\"\n", buf.String())
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("Semi.swift", []byte("let a = 1;\n"))
	d := finding("trailing_semicolon", diag.StyTrailingSemicolon, diag.SevWarning,
		source.Span{File: id, Start: 9, End: 10}, "Trailing semicolon")
	d.Notes = append(d.Notes, diag.Note{Span: source.Span{File: id, Start: 0, End: 3}, Msg: "statement starts here"})
	d.Fixes = append(d.Fixes, fix.Safe("Remove semicolon", fix.Delete(source.Span{File: id, Start: 9, End: 10}, ";")))

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, fs, PrettyOpts{ShowNotes: true, ShowFixes: true, ShowPreview: true})
	out := buf.String()

	require.Contains(t, out, "  note: Semi.swift:1:1: statement starts here\n")
	require.Contains(t, out, "  fix #1: Remove semicolon (always-safe)\n")
	require.Contains(t, out, "    edit Semi.swift:1:10 apply=\"\"\n")
	require.Contains(t, out, "      - let a = 1;\n")
	require.Contains(t, out, "      + let a = 1\n")
}

func TestPrettyWidthClips(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("Long.swift", []byte("let veryLongIdentifierName = anotherVeryLongIdentifier\n"))
	d := finding("line_length", diag.StyLineLength, diag.SevWarning,
		source.Span{File: id, Start: 0, End: 3}, "Line too long")

	var buf bytes.Buffer
	Pretty(&buf, []diag.Diagnostic{d}, fs, PrettyOpts{Width: 20})
	lines := strings.Split(buf.String(), "\n")
	require.Contains(t, lines[1], "…")
	require.LessOrEqual(t, len([]rune(strings.TrimPrefix(lines[1], "1 | "))), 20)
}

func TestPrettySummary(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("A.swift", []byte("let a = 1;\nlet b = x!\n"))
	semi := finding("trailing_semicolon", diag.StyTrailingSemicolon, diag.SevWarning,
		source.Span{File: id, Start: 9, End: 10}, "Trailing semicolon")
	semi.Fixes = append(semi.Fixes, fix.Safe("Remove semicolon", fix.Delete(semi.Primary, ";")))
	unwrap := finding("force_unwrap", diag.StyForceUnwrap, diag.SevError,
		source.Span{File: id, Start: 20, End: 21}, "Force unwrapping should be avoided")

	rep := report.Build([]report.FileResult{
		{Path: "A.swift", FileID: id, Diagnostics: []diag.Diagnostic{semi, unwrap}},
		{Path: "B.swift", Skipped: true},
	})

	var buf bytes.Buffer
	PrettySummary(&buf, rep, false, true)
	out := buf.String()
	require.Contains(t, out, "1 file checked: 1 error, 1 warning, 0 info (1 fixable with --fix)\n")
	require.Contains(t, out, "1 file skipped\n")
	require.Contains(t, out, "STY3013 force_unwrap")
	require.Contains(t, out, "STY3007 trailing_semicolon 1")
}

func TestParsePathMode(t *testing.T) {
	for _, name := range []string{"auto", "absolute", "relative", "basename"} {
		m, ok := ParsePathMode(name)
		require.True(t, ok, name)
		require.Equal(t, name, m.String())
	}
	m, ok := ParsePathMode("")
	require.True(t, ok)
	require.Equal(t, PathModeAuto, m)
	_, ok = ParsePathMode("short")
	require.False(t, ok)
}
