// Package diag defines the diagnostic model shared by all pipeline stages.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for style findings and for
//     tooling failures (lex, parse, I/O, configuration, rule crashes).
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//   - Model fix suggestions as structured edits that internal/fix can apply.
//
// # Codes
//
// Code is a compact numeric identifier with a stable string form:
//
//	LEX1xxx  lexical errors
//	SYN2xxx  syntax errors
//	STY3xxx  style findings, one code per rule
//	IO4xxx   file system errors
//	CFG5xxx  configuration errors
//	RUL6xxx  rule internal errors
//
// Only STY codes are findings. Everything else is a tooling diagnostic and
// forces exit status 2.
//
// # Data model
//
// Diagnostic carries Severity, Code, the Rule id (findings only), Message,
// the Primary span, optional Notes and optional Fixes. Notes should add new
// context rather than repeat the message.
//
// # Fix suggestions
//
// Fix holds a title, a kind, an applicability level and concrete TextEdits.
// The CLI applies only AlwaysSafe fixes. TextEdit.OldText acts as a guard the
// fix engine checks before rewriting a file.
//
// # Consumers
//
//   - internal/diagfmt renders diagnostics as text, json, sarif or short.
//   - internal/fix applies fixes to files on disk.
//   - internal/driver and internal/report collect bags per file and per run.
package diag
