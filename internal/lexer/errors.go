package lexer

import (
	"fmt"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/source"
)

// Error is the first lexical error of a file. Lexing stops there.
type Error struct {
	Code diag.Code
	Span source.Span
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Code.ID(), e.Span, e.Msg)
}

// Diagnostic converts the error into a tooling diagnostic.
func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.NewError(e.Code, e.Span, e.Msg)
}

// errLex records the first error and forwards it to the reporter.
func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.err != nil {
		return
	}
	lx.err = &Error{Code: code, Span: sp, Msg: msg}
	if lx.opts.Reporter != nil {
		lx.opts.Reporter.Report(lx.err.Diagnostic())
	}
}
