package engine

import (
	"slices"
	"strings"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/source"
	"swiftstyle/internal/token"
)

const directivePrefix = "swiftstyle:"

// wildcard matches every rule id in a directive.
const wildcard = "all"

// DirectiveKind is the action of a swiftstyle: comment.
type DirectiveKind uint8

const (
	DirectiveDisable     DirectiveKind = iota // until a matching enable
	DirectiveEnable                           // ends a disable region
	DirectiveDisableNext                      // the line after the comment
	DirectiveDisableThis                      // the comment's own line
)

var directiveKinds = map[string]DirectiveKind{
	"disable":      DirectiveDisable,
	"enable":       DirectiveEnable,
	"disable:next": DirectiveDisableNext,
	"disable:this": DirectiveDisableThis,
}

// Directive is one parsed suppression comment.
type Directive struct {
	Kind  DirectiveKind
	Rules []string // rule ids, or "all"
	Line  uint32   // line of the comment
	Span  source.Span
}

func (d Directive) matches(id string) bool {
	return slices.Contains(d.Rules, wildcard) || slices.Contains(d.Rules, id)
}

// Suppressions answers whether a finding is silenced by directives in its file.
type Suppressions struct {
	file       *source.File
	regions    []Directive // disable/enable in source order
	singleLine map[uint32][]Directive
}

// ParseSuppressions scans comment trivia for swiftstyle: directives.
// Malformed directives are ignored.
func ParseSuppressions(file *source.File, toks []token.Token) *Suppressions {
	s := &Suppressions{file: file, singleLine: make(map[uint32][]Directive)}
	for i := range toks {
		for _, tr := range toks[i].Leading {
			if tr.Kind != token.TriviaLineComment && tr.Kind != token.TriviaBlockComment {
				continue
			}
			d, ok := parseDirective(tr.Text)
			if !ok {
				continue
			}
			d.Span = tr.Span
			d.Line = file.Position(tr.Span.Start).Line
			switch d.Kind {
			case DirectiveDisable, DirectiveEnable:
				s.regions = append(s.regions, d)
			case DirectiveDisableNext:
				s.singleLine[d.Line+1] = append(s.singleLine[d.Line+1], d)
			case DirectiveDisableThis:
				s.singleLine[d.Line] = append(s.singleLine[d.Line], d)
			}
		}
	}
	return s
}

// parseDirective recognises "// swiftstyle:<kind> id[, id...]" and the
// block comment form.
func parseDirective(text string) (Directive, bool) {
	body, ok := strings.CutPrefix(text, "//")
	if !ok {
		body, ok = strings.CutPrefix(text, "/*")
		if !ok {
			return Directive{}, false
		}
		body = strings.TrimSuffix(body, "*/")
	}
	body = strings.TrimSpace(body)
	body, ok = strings.CutPrefix(body, directivePrefix)
	if !ok {
		return Directive{}, false
	}
	fields := strings.FieldsFunc(body, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	if len(fields) < 2 {
		return Directive{}, false
	}
	kind, ok := directiveKinds[fields[0]]
	if !ok {
		return Directive{}, false
	}
	return Directive{Kind: kind, Rules: fields[1:]}, true
}

// Empty reports whether the file has no directives.
func (s *Suppressions) Empty() bool {
	return s == nil || (len(s.regions) == 0 && len(s.singleLine) == 0)
}

// Directives returns all directives in source order.
func (s *Suppressions) Directives() []Directive {
	if s == nil {
		return nil
	}
	out := slices.Clone(s.regions)
	for _, ds := range s.singleLine {
		out = append(out, ds...)
	}
	slices.SortFunc(out, func(a, b Directive) int {
		return int(a.Span.Start) - int(b.Span.Start)
	})
	return out
}

// Suppressed reports whether d is silenced. Tooling diagnostics never are.
func (s *Suppressions) Suppressed(d diag.Diagnostic) bool {
	if s.Empty() || !d.IsFinding() || d.Primary.File != s.file.ID {
		return false
	}
	line := s.file.Position(d.Primary.Start).Line
	for _, dir := range s.singleLine[line] {
		if dir.matches(d.Rule) {
			return true
		}
	}
	disabled := false
	for _, dir := range s.regions {
		if dir.Line > line {
			break
		}
		if dir.matches(d.Rule) {
			disabled = dir.Kind == DirectiveDisable
		}
	}
	return disabled
}

// Filter wraps next so suppressed diagnostics are dropped.
func (s *Suppressions) Filter(next diag.Reporter) diag.Reporter {
	return suppressingReporter{supp: s, next: next}
}

type suppressingReporter struct {
	supp *Suppressions
	next diag.Reporter
}

func (r suppressingReporter) Report(d diag.Diagnostic) {
	if r.supp.Suppressed(d) {
		return
	}
	r.next.Report(d)
}
