package rules

import (
	"swiftstyle/internal/rule"
	"swiftstyle/internal/source"
	"swiftstyle/internal/token"
)

// lineFacts records, per 1-based line, what the lexer knows about it.
// Textual rules consult it instead of re-scanning the raw text.
type lineFacts struct {
	count           uint32
	startsInString  []bool // line begins inside a multi-line string literal
	endsInString    []bool // the line break belongs to a string literal
	startsInComment []bool // line begins inside a block comment
	comment         []bool // line carries comment text
	code            []bool // line carries a significant token
}

func collectLines(u *rule.Unit) *lineFacts {
	n := u.File.LineCount()
	lf := &lineFacts{
		count:           n,
		startsInString:  make([]bool, n+2),
		endsInString:    make([]bool, n+2),
		startsInComment: make([]bool, n+2),
		comment:         make([]bool, n+2),
		code:            make([]bool, n+2),
	}
	for _, tok := range u.Tokens {
		for _, tv := range tok.Leading {
			if !tv.IsComment() {
				continue
			}
			first, last := lineRange(u.File, tv.Span)
			for l := first; l <= last; l++ {
				lf.comment[l] = true
				if l > first {
					lf.startsInComment[l] = true
				}
			}
		}
		if tok.Kind == token.EOF {
			continue
		}
		first, last := lineRange(u.File, tok.Span)
		for l := first; l <= last; l++ {
			lf.code[l] = true
			if tok.Kind != token.StringLit {
				continue
			}
			if l > first {
				lf.startsInString[l] = true
			}
			if l < last {
				lf.endsInString[l] = true
			}
		}
	}
	return lf
}

// lineRange returns the first and last line touched by sp.
func lineRange(f *source.File, sp source.Span) (first, last uint32) {
	first = f.Position(sp.Start).Line
	last = first
	if sp.End > sp.Start {
		last = f.Position(sp.End - 1).Line
	}
	return first, last
}

func (lf *lineFacts) commentOnly(line uint32) bool {
	return lf.comment[line] && !lf.code[line]
}

// leadingIndent returns the byte length of the leading spaces and tabs of s.
func leadingIndent(s string) int {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// trailingBlank returns the byte length of the trailing spaces and tabs of s.
func trailingBlank(s string) int {
	i := len(s)
	for i > 0 && (s[i-1] == ' ' || s[i-1] == '\t') {
		i--
	}
	return len(s) - i
}

func isBlank(s string) bool {
	return leadingIndent(s) == len(s)
}
