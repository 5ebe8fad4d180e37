package lexer

import (
	"swiftstyle/internal/diag"
)

type Options struct {
	// Reporter receives the lexical error, if any. May be nil.
	Reporter diag.Reporter
}
