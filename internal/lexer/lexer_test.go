package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/lexer"
	"swiftstyle/internal/source"
	"swiftstyle/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(d diag.Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

func (r *testReporter) ErrorMessages() []string {
	messages := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		messages = append(messages, fmt.Sprintf("[%s] %s: %s", d.Code.ID(), d.Severity, d.Message))
	}
	return messages
}

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.swift", []byte(input))
	file := fs.Get(fileID)

	reporter := &testReporter{}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	return lx, reporter
}

// collectAllTokens собирает все токены до EOF включительно
func collectAllTokens(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}

// expectTokens проверяет последовательность токенов (без EOF)
func expectTokens(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tokens := collectAllTokens(lx)
	tokens = tokens[:len(tokens)-1]

	if len(tokens) != len(expected) {
		t.Fatalf("Expected %d tokens, got %d\nInput: %q\nTokens: %v\nErrors: %v",
			len(expected), len(tokens), input, tokensToString(tokens), reporter.ErrorMessages())
	}
	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("Token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
}

func expectSingleToken(t *testing.T, input string, expectedKind token.Kind, expectedText string) {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tok := lx.Next()
	if tok.Kind != expectedKind {
		t.Errorf("Expected kind %v, got %v (errors: %v)", expectedKind, tok.Kind, reporter.ErrorMessages())
	}
	if tok.Text != expectedText {
		t.Errorf("Expected text %q, got %q", expectedText, tok.Text)
	}
	if next := lx.Next(); next.Kind != token.EOF {
		t.Errorf("Expected a single token, next is %v(%q)", next.Kind, next.Text)
	}
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func TestIdentifiers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"foo", token.Ident},
		{"_bar", token.Ident},
		{"camelCase", token.Ident},
		{"MAX_WIDGET_COUNT", token.Ident},
		{"`default`", token.Ident},
		{"$0", token.Ident},
		{"$value", token.Ident},
		{"имя", token.Ident},
		{"caféCount", token.Ident},
		{"π", token.Ident},
		{"_", token.Underscore},
		{"mutating", token.Ident},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestKeywords(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"func", token.KwFunc},
		{"guard", token.KwGuard},
		{"fileprivate", token.KwFileprivate},
		{"self", token.KwSelf},
		{"Self", token.KwSelfType},
		{"nil", token.KwNil},
		{"associatedtype", token.KwAssociatedtype},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"0", token.IntLit},
		{"1_000_000", token.IntLit},
		{"0xFF", token.IntLit},
		{"0b1010", token.IntLit},
		{"0o17", token.IntLit},
		{"3.14", token.FloatLit},
		{"1e-3", token.FloatLit},
		{"2.5E10", token.FloatLit},
		{"0x1.8p1", token.FloatLit},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestRangesAndTupleAccess(t *testing.T) {
	expectTokens(t, "1...5", []token.Kind{token.IntLit, token.DotDotDot, token.IntLit})
	expectTokens(t, "0..<n", []token.Kind{token.IntLit, token.DotDotLt, token.Ident})
	// t.0.1 — два доступа к элементам кортежа, а не float
	expectTokens(t, "t.0.1", []token.Kind{token.Ident, token.Dot, token.IntLit, token.Dot, token.IntLit})
}

func TestOperatorsGreedy(t *testing.T) {
	expectTokens(t, "a === b !== c ?? d", []token.Kind{
		token.Ident, token.EqEqEq, token.Ident, token.BangEqEq, token.Ident, token.QQ, token.Ident,
	})
	expectTokens(t, "x += 1; y <<= 2", []token.Kind{
		token.Ident, token.PlusAssign, token.IntLit, token.Semicolon, token.Ident, token.ShlAssign, token.IntLit,
	})
	expectTokens(t, "func f() -> Int", []token.Kind{
		token.KwFunc, token.Ident, token.LParen, token.RParen, token.Arrow, token.Ident,
	})
}

func TestGreaterThanNeverJoins(t *testing.T) {
	expectTokens(t, "Array<Array<Int>>", []token.Kind{
		token.Ident, token.Lt, token.Ident, token.Lt, token.Ident, token.Gt, token.Gt,
	})
}

func TestOptionalsAndAttributes(t *testing.T) {
	expectTokens(t, "@IBOutlet weak var label: UILabel!", []token.Kind{
		token.At, token.Ident, token.Ident, token.KwVar, token.Ident, token.Colon, token.Ident, token.Bang,
	})
	expectTokens(t, "try! foo?.bar as? Baz", []token.Kind{
		token.KwTry, token.Bang, token.Ident, token.Question, token.Dot, token.Ident, token.KwAs, token.Question, token.Ident,
	})
	expectTokens(t, `#if DEBUG`, []token.Kind{token.Hash, token.KwIf, token.Ident})
	expectTokens(t, `\.name`, []token.Kind{token.Backslash, token.Dot, token.Ident})
}

func TestStrings(t *testing.T) {
	tests := []string{
		`"hello"`,
		`"esc \" \\ \n \t \u{1F600}"`,
		`"value: \(x + (y * 2))"`,
		`"nested \("inner \(deep)")"`,
		`#"raw \d+ "quoted""#`,
		`#"raw with \#(interp)"#`,
		"\"\"\"\n  multi\n  \"line\"\n  \"\"\"",
		"\"\"\"\n  joined \\\n  line\n  \"\"\"",
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.StringLit, input)
		})
	}
}

func TestLexErrorsStopTheFile(t *testing.T) {
	tests := []struct {
		input string
		code  diag.Code
	}{
		{"let s = \"open\nlet t = 1", diag.LexUnterminatedString},
		{`let s = "never closed`, diag.LexUnterminatedString},
		{"/* outer /* inner */ still open", diag.LexUnterminatedBlockComment},
		{`let s = "bad \q escape"`, diag.LexBadEscape},
		{"let x = 12abc", diag.LexBadNumber},
		{"let ☃ = 1", diag.LexUnknownChar},
		{"\"\"\"\nnever closed", diag.LexUnterminatedString},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lx, reporter := makeTestLexer(tt.input)
			toks := collectAllTokens(lx)
			if lx.Err() == nil {
				t.Fatalf("expected lexical error, tokens: %s", tokensToString(toks))
			}
			if lx.Err().Code != tt.code {
				t.Fatalf("code = %s, want %s", lx.Err().Code.ID(), tt.code.ID())
			}
			if len(reporter.diagnostics) != 1 {
				t.Fatalf("expected exactly one reported diagnostic, got %v", reporter.ErrorMessages())
			}
			if next := lx.Next(); next.Kind != token.EOF {
				t.Fatalf("lexer must stay at EOF after an error, got %v", next.Kind)
			}
		})
	}
}

func TestTriviaAttachment(t *testing.T) {
	src := "/// Doc\n// plain\nlet a = 1 /* tail */\n"
	lx, _ := makeTestLexer(src)
	toks := collectAllTokens(lx)

	first := toks[0]
	if first.Kind != token.KwLet {
		t.Fatalf("first token = %v", first.Kind)
	}
	kinds := make([]token.TriviaKind, 0, len(first.Leading))
	for _, tv := range first.Leading {
		kinds = append(kinds, tv.Kind)
	}
	want := []token.TriviaKind{token.TriviaDocLine, token.TriviaNewline, token.TriviaLineComment, token.TriviaNewline}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Fatalf("leading trivia kinds = %v, want %v", kinds, want)
	}

	eof := toks[len(toks)-1]
	if eof.Kind != token.EOF || len(eof.Leading) != 3 {
		t.Fatalf("EOF must carry trailing trivia, got %d items", len(eof.Leading))
	}
	if eof.Leading[1].Kind != token.TriviaBlockComment {
		t.Fatalf("expected block comment before EOF, got %v", eof.Leading[1].Kind)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	src := "#!/usr/bin/env swift\n" +
		"import UIKit\n\n" +
		"/** Docs */\n" +
		"final class ViewController: UIViewController {\n" +
		"\t@IBOutlet weak var label: UILabel!\n" +
		"    private let names = [\"a\", \"b\"]   \n" +
		"    func greet(_ name: String) -> String {\n" +
		"        return \"Hello, \\(name)!\" // trailing\n" +
		"    }\n" +
		"}\n\n\n"
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("rt.swift", []byte(src)))
	toks, err := lexer.All(file, lexer.Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var b strings.Builder
	for _, tok := range toks {
		for _, tv := range tok.Leading {
			b.WriteString(tv.Text)
		}
		b.WriteString(tok.Text)
	}
	if b.String() != src {
		t.Fatalf("round trip mismatch:\nwant %q\ngot  %q", src, b.String())
	}
	for _, tok := range toks {
		if got := string(file.Content[tok.Span.Start:tok.Span.End]); got != tok.Text {
			t.Fatalf("span/text mismatch: %q vs %q", got, tok.Text)
		}
	}
}

func TestTokensSequenceRestarts(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("seq.swift", []byte("let a = b")))
	seq := lexer.Tokens(file, lexer.Options{})

	count := func() int {
		n := 0
		for range seq {
			n++
		}
		return n
	}
	if first, second := count(), count(); first != 5 || second != 5 {
		t.Fatalf("expected 5 tokens on each pass, got %d and %d", first, second)
	}

	// ранний выход не должен ломать последующие проходы
	for tok := range seq {
		if tok.Kind == token.Assign {
			break
		}
	}
	if count() != 5 {
		t.Fatal("sequence must restart after early break")
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("guard x")
	if lx.Peek().Kind != token.KwGuard {
		t.Fatal("Peek must see guard")
	}
	if lx.Next().Kind != token.KwGuard {
		t.Fatal("Next after Peek must return guard")
	}
	if lx.Next().Kind != token.Ident {
		t.Fatal("expected identifier")
	}
}
