package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/source"
)

func spanOf(id source.FileID, start, end uint32) source.Span {
	return source.Span{File: id, Start: start, End: end}
}

func TestGatherCandidatesSkipsDuplicateFixIDs(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.swift", []byte("let a = 1;\n"))
	span := spanOf(fileID, 9, 10)

	diagnostics := []diag.Diagnostic{{
		Code:    diag.StyTrailingSemicolon,
		Message: "trailing semicolon",
		Primary: span,
		Fixes: []diag.Fix{
			New("remove semicolon", []diag.TextEdit{Delete(span, ";")}, WithID("fix-duplicate")),
			New("remove semicolon again", []diag.TextEdit{Delete(span, ";")}, WithID("fix-duplicate")),
		},
	}}

	candidates, skips := gatherCandidates(diagnostics)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if len(skips) != 1 {
		t.Fatalf("expected 1 skipped fix, got %d", len(skips))
	}
	if skips[0].ID != "fix-duplicate" || skips[0].Reason != "duplicate fix id" {
		t.Fatalf("unexpected skip %+v", skips[0])
	}
}

func TestApplyAllSkipsConflictsAndStaleGuards(t *testing.T) {
	fs := source.NewFileSet()
	src := "let a = 1;  \nlet b = 2;\n"
	id := fs.AddVirtual("test.swift", []byte(src))

	diagnostics := []diag.Diagnostic{
		{Code: diag.StyTrailingSemicolon, Primary: spanOf(id, 9, 10),
			Fixes: []diag.Fix{Safe("remove semicolon", Delete(spanOf(id, 9, 10), ";"))}},
		{Code: diag.StyTrailingWhitespace, Primary: spanOf(id, 10, 12),
			Fixes: []diag.Fix{Safe("remove trailing whitespace", Delete(spanOf(id, 10, 12), "  "))}},
		// перекрывает первый
		{Code: diag.StyTrailingSemicolon, Primary: spanOf(id, 9, 11),
			Fixes: []diag.Fix{Safe("overlap", Delete(spanOf(id, 9, 11), "; "))}},
		// устаревший guard
		{Code: diag.StyTrailingSemicolon, Primary: spanOf(id, 22, 23),
			Fixes: []diag.Fix{Safe("stale", Delete(spanOf(id, 22, 23), "!"))}},
		{Code: diag.StyNamingCase, Primary: spanOf(id, 17, 18),
			Fixes: []diag.Fix{New("rename", []diag.TextEdit{Replace(spanOf(id, 17, 18), "x", "b")},
				WithApplicability(diag.FixApplicabilityManualReview))}},
	}

	res, err := Apply(fs, diagnostics, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 {
		t.Fatalf("expected 2 applied fixes, got %+v", res.Applied)
	}
	if len(res.Skipped) != 3 {
		t.Fatalf("expected 3 skipped fixes, got %+v", res.Skipped)
	}
	if len(res.FileChanges) != 1 {
		t.Fatalf("expected one changed file, got %d", len(res.FileChanges))
	}
	if got, want := string(res.FileChanges[0].Content), "let a = 1\nlet b = 2;\n"; got != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
}

func TestApplyWritesFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "View.swift")
	if err := os.WriteFile(path, []byte("let a = 1;\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	d := diag.Diagnostic{
		Code:    diag.StyTrailingSemicolon,
		Primary: spanOf(id, 9, 10),
		Fixes:   []diag.Fix{Safe("remove semicolon", Delete(spanOf(id, 9, 10), ";"))},
	}
	if _, err := Apply(fs, []diag.Diagnostic{d}, ApplyOptions{Mode: ApplyModeAll}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "let a = 1\n" {
		t.Fatalf("file content = %q", data)
	}
}

func TestApplyKeepsBOMAndLineEndings(t *testing.T) {
	cases := []struct {
		name  string
		raw   string
		edits func(id source.FileID) []diag.TextEdit
		want  string
	}{
		{
			name: "delete semicolon",
			raw:  "\xEF\xBB\xBFimport Foundation\r\nlet a = 1;\r\nlet b = 2\r\n",
			edits: func(id source.FileID) []diag.TextEdit {
				return []diag.TextEdit{Delete(spanOf(id, 27, 28), ";")}
			},
			want: "\xEF\xBB\xBFimport Foundation\r\nlet a = 1\r\nlet b = 2\r\n",
		},
		{
			name: "insert final newline",
			raw:  "let a = 1\r\nlet b = 2",
			edits: func(id source.FileID) []diag.TextEdit {
				return []diag.TextEdit{Insert(spanOf(id, 19, 19), "\n")}
			},
			want: "let a = 1\r\nlet b = 2\r\n",
		},
		{
			name: "mixed endings untouched",
			raw:  "let a = 1;\nlet b = 2\r\nlet c = 3\n",
			edits: func(id source.FileID) []diag.TextEdit {
				return []diag.TextEdit{Delete(spanOf(id, 9, 10), ";")}
			},
			want: "let a = 1\nlet b = 2\r\nlet c = 3\n",
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "View.swift")
			if err := os.WriteFile(path, []byte(tt.raw), 0o600); err != nil {
				t.Fatal(err)
			}
			fs := source.NewFileSet()
			id, err := fs.Load(path)
			if err != nil {
				t.Fatal(err)
			}
			edits := tt.edits(id)
			d := diag.Diagnostic{
				Code:    diag.StyTrailingSemicolon,
				Primary: edits[0].Span,
				Fixes:   []diag.Fix{Safe(tt.name, edits...)},
			}
			if _, err := Apply(fs, []diag.Diagnostic{d}, ApplyOptions{Mode: ApplyModeAll}); err != nil {
				t.Fatalf("Apply: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tt.want {
				t.Fatalf("file content = %q, want %q", data, tt.want)
			}
		})
	}
}

func TestApplyWithoutFixes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.swift", []byte("let a = 1\n"))
	_, err := Apply(fs, []diag.Diagnostic{{Code: diag.StyNamingCase, Primary: spanOf(id, 4, 5)}}, ApplyOptions{Mode: ApplyModeAll})
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("expected ErrNoFixes, got %v", err)
	}
}

func TestApplyEdits(t *testing.T) {
	got, err := ApplyEdits([]byte("if (ok) {"), []diag.TextEdit{
		Replace(spanOf(1, 6, 7), "", ")"),
		Replace(spanOf(1, 3, 4), "", "("),
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "if ok {" {
		t.Fatalf("got %q", got)
	}
	if _, err := ApplyEdits([]byte("abc"), []diag.TextEdit{Delete(spanOf(1, 0, 2), ""), Delete(spanOf(1, 1, 3), "")}); err == nil {
		t.Fatal("expected overlap error")
	}
}
