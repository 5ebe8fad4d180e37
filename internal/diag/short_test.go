package diag

import (
	"testing"

	"swiftstyle/internal/source"
)

func TestFormatShort(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	file := fs.Add("/workspace/Sources/App/Widget.swift", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     StyForceUnwrap,
			Rule:     "force_unwrap",
			Message:  "avoid force unwrap",
			Primary:  source.Span{File: file, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     SynUnexpectedToken,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 2, End: 3}, Msg: "note line"},
			},
		},
	}

	expected := "Sources/App/Widget.swift:1:1: error SYN2001 first line second\n" +
		"Sources/App/Widget.swift:2:1: note SYN2001 note line\n" +
		"Sources/App/Widget.swift:2:1: warning STY3013 [force_unwrap] avoid force unwrap"

	if got := FormatShort(diags, fs, true); got != expected {
		t.Fatalf("unexpected short output:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestFormatShortRunLevel(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")
	file := fs.Add("/workspace/A.swift", []byte("let a = 1;\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     StyTrailingSemicolon,
			Rule:     "trailing_semicolon",
			Message:  "trailing semicolon",
			Primary:  source.Span{File: file, Start: 9, End: 10},
		},
		{Severity: SevError, Code: CfgUnknownRule, Message: "unknown rule \"bogus\""},
	}
	expected := "error CFG5001 unknown rule \"bogus\"\n" +
		"A.swift:1:10: warning STY3007 [trailing_semicolon] trailing semicolon"
	if got := FormatShort(diags, fs, false); got != expected {
		t.Fatalf("unexpected short output:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
	if got := FormatShort(diags[1:], nil, false); got != "error CFG5001 unknown rule \"bogus\"" {
		t.Fatalf("nil FileSet: got %q", got)
	}
}
