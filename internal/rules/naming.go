package rules

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"swiftstyle/internal/ast"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/rule"
)

func namingCase() *rule.Rule {
	return &rule.Rule{
		ID:          "naming_case",
		Code:        diag.StyNamingCase,
		Description: "Types are UpperCamelCase; values, functions, parameters and enum cases are lowerCamelCase.",
		Severity:    diag.SevError,
		Params: []rule.Param{
			{Name: "excluded", Kind: rule.ParamList, Default: []string{}, Doc: "names never reported"},
		},
		Check: checkNamingCase,
	}
}

type caseStyle uint8

const (
	lowerCamelCase caseStyle = iota
	upperCamelCase
)

func (s caseStyle) String() string {
	if s == upperCamelCase {
		return "UpperCamelCase"
	}
	return "lowerCamelCase"
}

func checkNamingCase(p *rule.Pass) {
	tree := p.Unit.Tree
	excluded := p.Params.List("excluded")
	report := func(id ast.NodeID, tok int, what, name string, style caseStyle) {
		if name == "" || name == "_" || slices.Contains(excluded, name) || hasCase(name, style) {
			return
		}
		want := suggestName(name, style)
		if want == "" {
			return
		}
		sp := tree.Node(id).Span
		if tok >= 0 && tok < len(tree.Tokens) {
			sp = tree.Tokens[tok].Span
		}
		p.Finding(sp, fmt.Sprintf("%s name '%s' should be %s: '%s'", what, name, style, want)).Emit()
	}
	for id, n := range tree.All() {
		switch n.Kind {
		case ast.KindClassDecl, ast.KindStructDecl, ast.KindEnumDecl, ast.KindProtocolDecl, ast.KindActorDecl:
			report(id, n.Tok, "type", n.Text, upperCamelCase)
		case ast.KindTypealiasDecl, ast.KindAssociatedTypeDecl:
			report(id, n.Tok, "type alias", n.Text, upperCamelCase)
		case ast.KindFuncDecl:
			// операторы (static func ==) не проверяем
			if tok, ok := tree.KeyToken(id); ok && tok.IsIdent() {
				report(id, n.Tok, "function", n.Text, lowerCamelCase)
			}
		case ast.KindParam:
			report(id, n.Tok, "parameter", n.Text, lowerCamelCase)
			if n.Label != "" {
				report(id, n.Tok-1, "argument label", n.Label, lowerCamelCase)
			}
		case ast.KindEnumElement:
			report(id, n.Tok, "enum case", n.Text, lowerCamelCase)
		case ast.KindIdentPattern:
			report(id, n.Tok, "variable", n.Text, lowerCamelCase)
		}
	}
}

// unquote strips backticks from `name`.
func unquote(name string) string {
	if len(name) >= 2 && name[0] == '`' && name[len(name)-1] == '`' {
		return name[1 : len(name)-1]
	}
	return name
}

// splitAffixes separates leading underscores (private backing storage) from
// the name body.
func splitAffixes(name string) (prefix, body string) {
	name = unquote(name)
	body = strings.TrimLeft(name, "_")
	return name[:len(name)-len(body)], body
}

func hasCase(name string, style caseStyle) bool {
	_, body := splitAffixes(name)
	if body == "" {
		return true
	}
	if strings.ContainsRune(body, '_') {
		return false
	}
	r, _ := utf8.DecodeRuneInString(body)
	if !unicode.IsLetter(r) {
		return true
	}
	if style == upperCamelCase {
		return unicode.IsUpper(r)
	}
	return unicode.IsLower(r)
}

// nameWords splits an identifier into words at underscores, lower-to-upper
// transitions and the end of acronyms ("URLSession" -> URL, Session).
func nameWords(body string) []string {
	var words []string
	for part := range strings.SplitSeq(body, "_") {
		runes := []rune(part)
		start := 0
		for i := 1; i < len(runes); i++ {
			prev, cur := runes[i-1], runes[i]
			boundary := unicode.IsLower(prev) && unicode.IsUpper(cur) ||
				unicode.IsUpper(prev) && unicode.IsUpper(cur) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) ||
				unicode.IsDigit(prev) && unicode.IsLetter(cur)
			if boundary {
				words = append(words, string(runes[start:i]))
				start = i
			}
		}
		if start < len(runes) {
			words = append(words, string(runes[start:]))
		}
	}
	return words
}

// suggestName rewrites name in the requested style.
// Words taken from snake_case or SCREAMING_CASE are title-cased; acronyms
// inside camel case names keep their capitals.
func suggestName(name string, style caseStyle) string {
	prefix, body := splitAffixes(name)
	words := nameWords(body)
	if len(words) == 0 {
		return ""
	}
	lower := cases.Lower(language.Und)
	title := cases.Title(language.Und)
	snake := strings.ContainsRune(body, '_') || isAllUpper(body)

	var sb strings.Builder
	sb.WriteString(prefix)
	for i, w := range words {
		switch {
		case i == 0 && style == lowerCamelCase:
			sb.WriteString(lower.String(w))
		case snake:
			sb.WriteString(title.String(w))
		default:
			r, size := utf8.DecodeRuneInString(w)
			sb.WriteRune(unicode.ToUpper(r))
			sb.WriteString(w[size:])
		}
	}
	return sb.String()
}

func isAllUpper(s string) bool {
	seen := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			seen = true
		}
	}
	return seen
}
