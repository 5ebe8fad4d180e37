package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/fix"
	"swiftstyle/internal/rule"
	"swiftstyle/internal/source"
)

var urlPattern = regexp.MustCompile(`[A-Za-z][A-Za-z0-9+.-]*://[^\s"'<>)]+`)

func lineLength() *rule.Rule {
	return &rule.Rule{
		ID:          "line_length",
		Code:        diag.StyLineLength,
		Description: "Lines should not exceed the configured number of characters.",
		Severity:    diag.SevWarning,
		Params: []rule.Param{
			{Name: "max", Kind: rule.ParamInt, Default: 120, Min: 1, Doc: "maximum characters per line"},
			{Name: "ignore_comments", Kind: rule.ParamBool, Default: false, Doc: "skip lines holding only comments"},
			{Name: "ignore_urls", Kind: rule.ParamBool, Default: true, Doc: "do not count URLs"},
		},
		Check: checkLineLength,
	}
}

func checkLineLength(p *rule.Pass) {
	limit := p.Params.Int("max")
	ignoreComments := p.Params.Bool("ignore_comments")
	ignoreURLs := p.Params.Bool("ignore_urls")
	f := p.Unit.File
	var lf *lineFacts
	if ignoreComments {
		lf = collectLines(p.Unit)
	}
	for line := uint32(1); line <= f.LineCount(); line++ {
		sp := f.LineSpan(line)
		text := f.Text(sp)
		n := utf8.RuneCountInString(text)
		if n <= limit {
			continue
		}
		if lf != nil && lf.commentOnly(line) {
			continue
		}
		if ignoreURLs && utf8.RuneCountInString(urlPattern.ReplaceAllString(text, "")) <= limit {
			continue
		}
		// подсвечиваем хвост после лимита
		cut := sp.Start + uint32(len(prefixRunes(text, limit))) // #nosec G115 -- bounded by line length
		msg := fmt.Sprintf("line is %d characters long, limit is %d", n, limit)
		if w := runewidth.StringWidth(text); w != n {
			msg += fmt.Sprintf(" (%d columns wide)", w)
		}
		p.Finding(source.Span{File: sp.File, Start: cut, End: sp.End}, msg).Emit()
	}
}

// prefixRunes returns the first n runes of s.
func prefixRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func indentation() *rule.Rule {
	return &rule.Rule{
		ID:          "indentation",
		Code:        diag.StyIndentation,
		Description: "Indent with spaces, in multiples of the configured width.",
		Severity:    diag.SevWarning,
		Params: []rule.Param{
			{Name: "width", Kind: rule.ParamInt, Default: 2, Min: 1, Doc: "spaces per indentation level"},
		},
		Check: checkIndentation,
	}
}

func checkIndentation(p *rule.Pass) {
	width := p.Params.Int("width")
	f := p.Unit.File
	lf := collectLines(p.Unit)
	for line := uint32(1); line <= lf.count; line++ {
		if lf.startsInString[line] || lf.startsInComment[line] {
			continue
		}
		sp := f.LineSpan(line)
		text := f.Text(sp)
		if isBlank(text) {
			continue
		}
		ws := text[:leadingIndent(text)]
		if ws == "" {
			continue
		}
		wsSpan := source.Span{File: sp.File, Start: sp.Start, End: sp.Start + uint32(len(ws))} // #nosec G115 -- bounded by line length
		switch {
		case strings.ContainsRune(ws, '\t'):
			p.Finding(wsSpan, "indentation contains a tab; indent with spaces").Emit()
		case len(ws)%width != 0:
			p.Finding(wsSpan, fmt.Sprintf("indentation of %d spaces is not a multiple of %d", len(ws), width)).Emit()
		}
	}
}

func trailingWhitespace() *rule.Rule {
	return &rule.Rule{
		ID:          "trailing_whitespace",
		Code:        diag.StyTrailingWhitespace,
		Description: "Lines should not end with spaces or tabs.",
		Severity:    diag.SevWarning,
		Params: []rule.Param{
			{Name: "ignore_comments", Kind: rule.ParamBool, Default: false, Doc: "skip lines holding only comments"},
		},
		Check: checkTrailingWhitespace,
	}
}

func checkTrailingWhitespace(p *rule.Pass) {
	ignoreComments := p.Params.Bool("ignore_comments")
	f := p.Unit.File
	lf := collectLines(p.Unit)
	for line := uint32(1); line <= lf.count; line++ {
		// пробелы внутри многострочной строки значимы
		if lf.endsInString[line] {
			continue
		}
		if ignoreComments && lf.commentOnly(line) {
			continue
		}
		sp := f.LineSpan(line)
		text := f.Text(sp)
		n := trailingBlank(text)
		if n == 0 {
			continue
		}
		ws := source.Span{File: sp.File, Start: sp.End - uint32(n), End: sp.End} // #nosec G115 -- bounded by line length
		p.Finding(ws, "line has trailing whitespace").
			WithFixSuggestion(fix.Safe("remove trailing whitespace", fix.Delete(ws, text[len(text)-n:]))).
			Emit()
	}
}

func verticalWhitespace() *rule.Rule {
	return &rule.Rule{
		ID:          "vertical_whitespace",
		Code:        diag.StyVerticalWhitespace,
		Description: "Limit the number of consecutive blank lines.",
		Severity:    diag.SevWarning,
		Params: []rule.Param{
			{Name: "max_empty_lines", Kind: rule.ParamInt, Default: 1, Min: 0, Doc: "blank lines allowed in a row"},
		},
		Check: checkVerticalWhitespace,
	}
}

func checkVerticalWhitespace(p *rule.Pass) {
	limit := p.Params.Int("max_empty_lines")
	f := p.Unit.File
	lf := collectLines(p.Unit)
	run, runStart := 0, uint32(0)
	flush := func(end uint32) {
		if run > limit {
			first := f.LineSpan(runStart + uint32(limit)) // #nosec G115 -- limit < run
			last := f.LineSpan(end)
			p.Finding(first.Cover(last), fmt.Sprintf("%d consecutive blank lines, limit is %d", run, limit)).Emit()
		}
		run = 0
	}
	for line := uint32(1); line <= lf.count; line++ {
		if !lf.startsInString[line] && !lf.startsInComment[line] && isBlank(f.GetLine(line)) {
			if run == 0 {
				runStart = line
			}
			run++
			continue
		}
		if run > 0 {
			flush(line - 1)
		}
	}
	if run > 0 {
		flush(lf.count)
	}
}

func trailingNewline() *rule.Rule {
	return &rule.Rule{
		ID:          "trailing_newline",
		Code:        diag.StyTrailingNewline,
		Description: "Files end with exactly one newline.",
		Severity:    diag.SevWarning,
		Check:       checkTrailingNewline,
	}
}

func checkTrailingNewline(p *rule.Pass) {
	f := p.Unit.File
	size := f.Size()
	if size == 0 {
		return
	}
	content := f.Content
	if content[size-1] != '\n' {
		at := p.Unit.Span(size, size)
		p.Finding(at, "file does not end with a newline").
			WithFixSuggestion(fix.Safe("add trailing newline", fix.Insert(at, "\n"))).
			Emit()
		return
	}
	k := uint32(0)
	for k < size && content[size-1-k] == '\n' {
		k++
	}
	if k == 1 || k == size {
		return
	}
	extra := p.Unit.Span(size-k+1, size)
	p.Finding(extra, fmt.Sprintf("file ends with %d newlines, expected one", k)).
		WithFixSuggestion(fix.Safe("remove extra trailing newlines", fix.Delete(extra, strings.Repeat("\n", int(k-1))))).
		Emit()
}

func fileLength() *rule.Rule {
	return &rule.Rule{
		ID:          "file_length",
		Code:        diag.StyFileLength,
		Description: "Files should not exceed the configured number of lines.",
		Severity:    diag.SevWarning,
		Params: []rule.Param{
			{Name: "max", Kind: rule.ParamInt, Default: 400, Min: 1, Doc: "maximum lines per file"},
		},
		Check: checkFileLength,
	}
}

func checkFileLength(p *rule.Pass) {
	limit := p.Params.Int("max")
	f := p.Unit.File
	n := f.LineCount()
	if int(n) <= limit {
		return
	}
	first := f.LineSpan(uint32(limit) + 1) // #nosec G115 -- limit < n
	p.Finding(first, fmt.Sprintf("file has %d lines, limit is %d", n, limit)).Emit()
}
