package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/report"
	"swiftstyle/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, code, path, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Faint),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgMagenta),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Ожидает отсортированный срез. Для каждой диагностики печатает
// <path>:<line>:<col>: <SEV> <CODE>: <Message> [rule],
// затем строку исходника с подчёркиванием ^~~~ по Span, затем заметки и исправления.
func Pretty(w io.Writer, diags []diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for i := range diags {
		prettyOne(w, &diags[i], fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	file := diagFile(fs, d)
	sev := p.severity(d.Severity).Sprint(d.Severity.String())
	rule := ""
	if d.Rule != "" {
		rule = " " + p.code.Sprintf("[%s]", d.Rule)
	}
	if file == nil {
		fmt.Fprintf(w, "%s %s: %s%s\n", sev, p.code.Sprint(d.Code.ID()), d.Message, rule)
		return
	}

	start := file.Position(d.Primary.Start)
	fmt.Fprintf(w, "%s: %s %s: %s%s\n",
		p.path.Sprint(location(file, fs, d.Primary.Start, opts.PathMode)),
		sev, p.code.Sprint(d.Code.ID()), d.Message, rule)
	writeExcerpt(w, file, d.Primary, start, opts, p)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			nf := fileOf(fs, n.Span)
			if nf == nil {
				fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
				continue
			}
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(nf, fs, n.Span.Start, opts.PathMode), n.Msg)
		}
	}
	if opts.ShowFixes {
		for i, f := range d.Fixes {
			id := ""
			if f.ID != "" {
				id = ", id=" + f.ID
			}
			fmt.Fprintf(w, "  fix #%d: %s (%s%s)\n", i+1, f.Title, f.Applicability, id)
			for _, e := range f.Edits {
				ef := fileOf(fs, e.Span)
				if ef == nil {
					continue
				}
				fmt.Fprintf(w, "    edit %s apply=%q\n", location(ef, fs, e.Span.Start, opts.PathMode), e.NewText)
				if !opts.ShowPreview {
					continue
				}
				pv, err := previewEdit(fs, e)
				if err != nil {
					continue
				}
				fmt.Fprintln(w, "    preview:")
				for _, l := range pv.before {
					fmt.Fprintf(w, "      - %s\n", l)
				}
				for _, l := range pv.after {
					fmt.Fprintf(w, "      + %s\n", l)
				}
			}
		}
	}
}

func fileOf(fs *source.FileSet, sp source.Span) *source.File {
	if fs == nil || int(sp.File) >= fs.Len() {
		return nil
	}
	return fs.Get(sp.File)
}

// diagFile returns nil for run-level diagnostics, which carry no location.
func diagFile(fs *source.FileSet, d *diag.Diagnostic) *source.File {
	if d.Code.Category() == diag.CatConfig {
		return nil
	}
	return fileOf(fs, d.Primary)
}

func location(f *source.File, fs *source.FileSet, off uint32, mode PathMode) string {
	pos := f.Position(off)
	return fmt.Sprintf("%s:%d:%d", formatPath(f, fs, mode), pos.Line, pos.Col)
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return f.FormatPath("auto", "")
	}
}

// writeExcerpt prints context lines, the primary line and a caret underline
// sized in display columns.
func writeExcerpt(w io.Writer, f *source.File, sp source.Span, start source.LineCol, opts PrettyOpts, p palette) {
	if start.Line == 0 || start.Line > f.LineCount() {
		return
	}
	first := start.Line
	if opts.Context > 0 {
		first = max(1, start.Line-uint32(opts.Context))
	}
	gutterWidth := len(fmt.Sprint(start.Line))
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(w, "%s %s\n",
			p.gutter.Sprintf("%*d |", gutterWidth, ln),
			clip(expandTabs(f.GetLine(ln)), opts.Width))
	}

	line := f.GetLine(start.Line)
	lineSpan := f.LineSpan(start.Line)
	col := int(sp.Start - lineSpan.Start)
	end := int(min(sp.End, lineSpan.End) - lineSpan.Start)
	col = min(col, len(line))
	end = max(min(end, len(line)), col)

	pad := runewidth.StringWidth(expandTabs(line[:col]))
	width := max(runewidth.StringWidth(expandTabs(line[col:end])), 1)
	if opts.Width > 0 && pad+width > int(opts.Width) {
		// подчёркивание за пределами обрезанной строки не рисуем
		width = max(int(opts.Width)-pad, 1)
	}
	fmt.Fprintf(w, "%s %s%s\n",
		p.gutter.Sprintf("%*s |", gutterWidth, ""),
		strings.Repeat(" ", pad),
		p.caret.Sprint("^"+strings.Repeat("~", width-1)))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func clip(s string, width uint8) string {
	if width == 0 {
		return s
	}
	return runewidth.Truncate(s, int(width), "…")
}

// PrettySummary prints run totals and, when perRule is set, the per-rule
// breakdown.
func PrettySummary(w io.Writer, rep *report.Report, colored, perRule bool) {
	p := newPalette(colored)
	s := rep.Summary
	parts := []string{
		fmt.Sprintf("%d %s", s.Error, plural(s.Error, "error")),
		fmt.Sprintf("%d %s", s.Warning, plural(s.Warning, "warning")),
		fmt.Sprintf("%d %s", s.Info, plural(s.Info, "info")),
	}
	if s.Tooling > 0 {
		parts = append(parts, p.err.Sprintf("%d tooling %s", s.Tooling, plural(s.Tooling, "error")))
	}
	fmt.Fprintf(w, "%d %s checked: %s", s.Files-s.Skipped, plural(s.Files-s.Skipped, "file"), strings.Join(parts, ", "))
	if s.Fixable > 0 {
		fmt.Fprintf(w, " (%d fixable with --fix)", s.Fixable)
	}
	fmt.Fprintln(w)
	if s.Skipped > 0 {
		fmt.Fprintf(w, "%d %s skipped\n", s.Skipped, plural(s.Skipped, "file"))
	}
	if !perRule {
		return
	}
	nameWidth := 0
	for _, rc := range rep.ByRule {
		nameWidth = max(nameWidth, runewidth.StringWidth(rc.Rule))
	}
	for _, rc := range rep.ByRule {
		fmt.Fprintf(w, "  %s %s %d\n", p.code.Sprint(rc.Code.ID()), runewidth.FillRight(rc.Rule, nameWidth), rc.Count)
	}
}

func plural(n int, word string) string {
	if n == 1 || strings.HasSuffix(word, "info") {
		return word
	}
	return word + "s"
}
