package diagfmt

import "swiftstyle/internal/rule"

// PathMode selects how a file path is printed in front of a diagnostic.
// Auto prints the path as it was given on the command line.
type PathMode uint8

const (
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative // relative to the working directory
	PathModeBasename
)

var pathModeNames = [...]string{
	PathModeAuto:     "auto",
	PathModeAbsolute: "absolute",
	PathModeRelative: "relative",
	PathModeBasename: "basename",
}

// ParsePathMode maps a --path-mode value; the empty string means auto.
func ParsePathMode(s string) (PathMode, bool) {
	if s == "" {
		return PathModeAuto, true
	}
	for m, name := range pathModeNames {
		if name == s {
			return PathMode(m), true
		}
	}
	return PathModeAuto, false
}

func (m PathMode) String() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return pathModeNames[PathModeAuto]
}

// PrettyOpts drives the text renderer.
type PrettyOpts struct {
	Color       bool
	Context     int8 // source lines shown above the offending line
	PathMode    PathMode
	Width       uint8 // обрезать строки исходника, 0 - без ограничения
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool // with ShowFixes: print the line as it reads after the fix
}

// JSONOpts drives the JSON document.
type JSONOpts struct {
	IncludePositions bool // line/col next to byte offsets
	PathMode         PathMode
	Max              int // cap on rendered items; the Bag cap is separate
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
	ToolVersion      string
}

// SarifRunMeta fills the tool and invocation sections of a SARIF run.
// Rules become the driver's rule descriptors.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
	Rules          []*rule.Rule
}
