package fuzztests

import (
	"testing"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/lexer"
	"swiftstyle/internal/source"
	"swiftstyle/internal/testkit"
)

// FuzzLexerRoundTrip checks that a successfully lexed file is reproduced
// byte for byte by its tokens and trivia.
func FuzzLexerRoundTrip(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		fs := source.NewFileSet()
		file := fs.Get(fs.AddVirtual("fuzz.swift", input))

		bag := diag.NewBag(64)
		toks, err := lexer.All(file, lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
		if err != nil {
			if bag.Len() != 1 {
				t.Fatalf("lexer error must produce exactly one diagnostic, got %d", bag.Len())
			}
			return
		}
		if err := testkit.CheckTokenRoundTrip(file, toks); err != nil {
			t.Fatalf("%v\ninput: %q", err, truncateForLog(input, 200))
		}
	})
}
