package rule

import (
	"swiftstyle/internal/ast"
	"swiftstyle/internal/diag"
	"swiftstyle/internal/source"
	"swiftstyle/internal/token"
)

// Rule is one entry of the rule table. Check must be pure: it reads the
// unit and reports through the pass, never retaining either.
type Rule struct {
	ID          string // snake_case, e.g. "line_length"
	Code        diag.Code
	Description string
	Severity    diag.Severity // default severity
	Params      []Param
	Check       func(*Pass)
}

// Param looks up a declared parameter by name.
func (r *Rule) Param(name string) (Param, bool) {
	for _, p := range r.Params {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// DefaultParams returns the declared defaults.
func (r *Rule) DefaultParams() Params {
	out := make(Params, len(r.Params))
	for _, p := range r.Params {
		out[p.Name] = p.Default
	}
	return out
}

// Unit is the read-only input of rule evaluation for one file.
type Unit struct {
	File   *source.File
	Tokens []token.Token
	Tree   *ast.Tree
}

// NewUnit wraps a parsed file.
func NewUnit(tree *ast.Tree) *Unit {
	return &Unit{File: tree.File, Tokens: tree.Tokens, Tree: tree}
}

// Span builds a span in the unit's file.
func (u *Unit) Span(start, end uint32) source.Span {
	return source.Span{File: u.File.ID, Start: start, End: end}
}

// Pass carries one rule's view of a unit and its resolved setting.
type Pass struct {
	Rule     *Rule
	Unit     *Unit
	Severity diag.Severity
	Params   Params
	Reporter diag.Reporter
}

// Finding starts a finding of the pass's rule at sp. Call Emit on the result.
func (p *Pass) Finding(sp source.Span, msg string) *diag.ReportBuilder {
	return diag.NewReportBuilder(p.Reporter, p.Severity, p.Rule.Code, sp, msg).WithRule(p.Rule.ID)
}
