package config

import (
	"fmt"
	"strings"

	"swiftstyle/internal/diag"
)

// Error is a configuration problem detected before any file is analysed.
type Error struct {
	Code diag.Code
	Path string // config file, empty for flags
	Line int    // 1-based, 0 when unknown
	Key  string // dotted key, e.g. "line_length.params.max"
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		if e.Line > 0 {
			fmt.Fprintf(&sb, ":%d", e.Line)
		}
		sb.WriteString(": ")
	}
	if e.Key != "" {
		sb.WriteString(e.Key)
		sb.WriteString(": ")
	}
	sb.WriteString(e.Msg)
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Diagnostic converts the error into a tooling diagnostic for reporting.
func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Severity: diag.SevError,
		Code:     e.Code,
		Message:  e.Error(),
	}
}
