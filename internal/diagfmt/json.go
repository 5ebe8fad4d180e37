package diagfmt

import (
	"encoding/json"
	"io"
	"sort"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/report"
	"swiftstyle/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
}

// FixEditJSON представляет одно редактирование для JSON
type FixEditJSON struct {
	Location    LocationJSON `json:"location"`
	NewText     string       `json:"new_text"`
	OldText     string       `json:"old_text,omitempty"`
	BeforeLines []string     `json:"before_lines,omitempty"`
	AfterLines  []string     `json:"after_lines,omitempty"`
}

// FixJSON представляет предложение по исправлению для JSON
type FixJSON struct {
	ID            string        `json:"id,omitempty"`
	Title         string        `json:"title"`
	Kind          string        `json:"kind"`
	Applicability string        `json:"applicability"`
	IsPreferred   bool          `json:"is_preferred,omitempty"`
	Edits         []FixEditJSON `json:"edits,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity string        `json:"severity"`
	Code     string        `json:"code"`
	Rule     string        `json:"rule,omitempty"`
	Message  string        `json:"message"`
	Location *LocationJSON `json:"location,omitempty"`
	Notes    []NoteJSON    `json:"notes,omitempty"`
	Fixes    []FixJSON     `json:"fixes,omitempty"`
}

// FileJSON is one analysed file.
type FileJSON struct {
	Path        string           `json:"path"`
	Skipped     bool             `json:"skipped,omitempty"`
	Cached      bool             `json:"cached,omitempty"`
	Dropped     int              `json:"dropped,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
}

// SummaryJSON mirrors report.Summary.
type SummaryJSON struct {
	Files    int `json:"files"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
	Tooling  int `json:"tooling"`
	Fixable  int `json:"fixable"`
}

// RuleCountJSON is one row of the per-rule breakdown.
type RuleCountJSON struct {
	Rule  string `json:"rule"`
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// ReportJSON представляет корневую структуру JSON вывода
type ReportJSON struct {
	RunID       string           `json:"run_id"`
	Tool        string           `json:"tool"`
	Version     string           `json:"version,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics,omitempty"` // run-level
	Files       []FileJSON       `json:"files"`
	Summary     SummaryJSON      `json:"summary"`
	Rules       []RuleCountJSON  `json:"rules"`
}

// makeLocation создаёт LocationJSON из Span
func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) *LocationJSON {
	f := fileOf(fs, span)
	if f == nil {
		return nil
	}
	loc := &LocationJSON{
		File:      formatPath(f, fs, pathMode),
		StartByte: span.Start,
		EndByte:   span.End,
	}
	if includePositions {
		startPos, endPos := f.Position(span.Start), f.Position(span.End)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}
	return loc
}

// BuildDiagnosticsJSON converts diagnostics without serialising them.
func BuildDiagnosticsJSON(diags []diag.Diagnostic, fs *source.FileSet, opts JSONOpts) []DiagnosticJSON {
	n := len(diags)
	if opts.Max > 0 && opts.Max < n {
		n = opts.Max
	}
	out := make([]DiagnosticJSON, 0, n)
	for i := range n {
		d := diags[i]
		dj := DiagnosticJSON{
			Severity: d.Severity.Label(),
			Code:     d.Code.ID(),
			Rule:     d.Rule,
			Message:  d.Message,
		}
		if d.Code.Category() != diag.CatConfig {
			dj.Location = makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions)
		}
		if opts.IncludeNotes && len(d.Notes) > 0 {
			dj.Notes = make([]NoteJSON, len(d.Notes))
			for j, note := range d.Notes {
				dj.Notes[j] = NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Span, fs, opts.PathMode, opts.IncludePositions),
				}
			}
		}
		if opts.IncludeFixes && len(d.Fixes) > 0 {
			dj.Fixes = buildFixes(d.Fixes, fs, opts)
		}
		out = append(out, dj)
	}
	return out
}

func buildFixes(fixes []diag.Fix, fs *source.FileSet, opts JSONOpts) []FixJSON {
	sorted := append([]diag.Fix(nil), fixes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		fi, fj := sorted[i], sorted[j]
		if fi.IsPreferred != fj.IsPreferred {
			return fi.IsPreferred
		}
		if fi.Applicability != fj.Applicability {
			return fi.Applicability < fj.Applicability
		}
		return fi.Title < fj.Title
	})
	out := make([]FixJSON, 0, len(sorted))
	for _, f := range sorted {
		fj := FixJSON{
			ID:            f.ID,
			Title:         f.Title,
			Kind:          f.Kind.String(),
			Applicability: f.Applicability.String(),
			IsPreferred:   f.IsPreferred,
		}
		for _, edit := range f.Edits {
			loc := makeLocation(edit.Span, fs, opts.PathMode, opts.IncludePositions)
			if loc == nil {
				continue
			}
			ej := FixEditJSON{Location: *loc, NewText: edit.NewText, OldText: edit.OldText}
			if opts.IncludePreviews {
				if pv, err := previewEdit(fs, edit); err == nil {
					ej.BeforeLines = pv.before
					ej.AfterLines = pv.after
				}
			}
			fj.Edits = append(fj.Edits, ej)
		}
		out = append(out, fj)
	}
	return out
}

// BuildReportJSON формирует структуру JSON-вывода без сериализации.
func BuildReportJSON(rep *report.Report, fs *source.FileSet, opts JSONOpts) ReportJSON {
	out := ReportJSON{
		RunID:       rep.RunID,
		Tool:        "swiftstyle",
		Version:     opts.ToolVersion,
		Diagnostics: BuildDiagnosticsJSON(rep.Run, fs, opts),
		Files:       make([]FileJSON, 0, len(rep.Files)),
		Rules:       make([]RuleCountJSON, 0, len(rep.ByRule)),
		Summary: SummaryJSON{
			Files:    rep.Summary.Files,
			Skipped:  rep.Summary.Skipped,
			Errors:   rep.Summary.Error,
			Warnings: rep.Summary.Warning,
			Info:     rep.Summary.Info,
			Tooling:  rep.Summary.Tooling,
			Fixable:  rep.Summary.Fixable,
		},
	}
	for i := range rep.Files {
		f := &rep.Files[i]
		out.Files = append(out.Files, FileJSON{
			Path:        f.Path,
			Skipped:     f.Skipped,
			Cached:      f.Cached,
			Dropped:     f.Dropped,
			Diagnostics: BuildDiagnosticsJSON(f.Diagnostics, fs, opts),
		})
	}
	for _, rc := range rep.ByRule {
		out.Rules = append(out.Rules, RuleCountJSON{Rule: rc.Rule, Code: rc.Code.ID(), Count: rc.Count})
	}
	return out
}

// JSON форматирует отчёт в JSON.
func JSON(w io.Writer, rep *report.Report, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildReportJSON(rep, fs, opts))
}
