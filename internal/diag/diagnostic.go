package diag

import (
	"swiftstyle/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Rule     string // rule id for style findings, empty for tooling diagnostics
	Message  string
	Primary  source.Span
	Notes    []Note
	Fixes    []Fix
}

// IsFinding reports whether d is a style finding produced by a rule.
func (d Diagnostic) IsFinding() bool {
	return d.Code.Category() == CatStyle
}
