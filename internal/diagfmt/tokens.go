package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"swiftstyle/internal/source"
	"swiftstyle/internal/token"
)

// TriviaOutput is one piece of leading trivia.
type TriviaOutput struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// TokenOutput is the JSON form of a token.
type TokenOutput struct {
	Kind    string         `json:"kind"`
	Text    string         `json:"text,omitempty"`
	Span    source.Span    `json:"span"`
	Line    uint32         `json:"line"`
	Col     uint32         `json:"col"`
	Leading []TriviaOutput `json:"leading,omitempty"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, tok := range tokens {
		startPos, endPos := fs.Resolve(tok.Span)

		var sb strings.Builder
		fmt.Fprintf(&sb, "%4d: %-14s", i+1, tok.Kind.String())
		if tok.Text != "" {
			fmt.Fprintf(&sb, " %q", tok.Text)
		}
		fmt.Fprintf(&sb, " at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		if len(tok.Leading) > 0 {
			parts := make([]string, len(tok.Leading))
			for j, tr := range tok.Leading {
				parts[j] = fmt.Sprintf("%s %q", tr.Kind, tr.Text)
			}
			fmt.Fprintf(&sb, " (leading: %s)", strings.Join(parts, ", "))
		}
		if _, err := fmt.Fprintln(w, sb.String()); err != nil {
			return err
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	output := make([]TokenOutput, 0, len(tokens))
	for _, tok := range tokens {
		pos, _ := fs.Resolve(tok.Span)
		out := TokenOutput{
			Kind: tok.Kind.String(),
			Text: tok.Text,
			Span: tok.Span,
			Line: pos.Line,
			Col:  pos.Col,
		}
		for _, tr := range tok.Leading {
			out.Leading = append(out.Leading, TriviaOutput{Kind: tr.Kind.String(), Text: tr.Text})
		}
		output = append(output, out)
		if tok.Kind == token.EOF {
			break
		}
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}
