package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gobwas/glob"
)

// Excluder matches paths against exclude globs. Patterns use '/' as the
// separator; "**" crosses directories and "*" does not.
type Excluder struct {
	patterns []string
	globs    []glob.Glob
}

// NewExcluder compiles patterns.
func NewExcluder(patterns ...string) *Excluder {
	e := &Excluder{}
	for _, p := range patterns {
		// встроенные шаблоны заведомо корректны
		_ = e.Add(p)
	}
	return e
}

// Add compiles and appends a pattern. Duplicates are ignored.
func (e *Excluder) Add(pattern string) error {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return errors.New("empty exclude pattern")
	}
	if slices.Contains(e.patterns, pattern) {
		return nil
	}
	g, err := glob.Compile(pattern, '/')
	if err != nil {
		return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
	}
	e.patterns = append(e.patterns, pattern)
	e.globs = append(e.globs, g)
	return nil
}

// Patterns returns the source patterns in insertion order.
func (e *Excluder) Patterns() []string {
	if e == nil {
		return nil
	}
	return slices.Clone(e.patterns)
}

// Match reports whether path is excluded. Leading "**/" also matches at the
// top of a relative path.
func (e *Excluder) Match(path string) bool {
	if e == nil || len(e.globs) == 0 {
		return false
	}
	return e.match(normalize(path))
}

// MatchDir reports whether everything under dir is excluded, so a walk can
// skip it. "**/Pods/**" matches the directory "App/Pods".
func (e *Excluder) MatchDir(dir string) bool {
	if e == nil || len(e.globs) == 0 {
		return false
	}
	p := normalize(dir)
	if p == "." {
		return false
	}
	return e.match(p + "/")
}

func normalize(path string) string {
	p := filepath.ToSlash(filepath.Clean(path))
	return strings.TrimPrefix(p, "./")
}

func (e *Excluder) match(p string) bool {
	rooted := p
	if !strings.HasPrefix(rooted, "/") {
		rooted = "/" + rooted
	}
	for _, g := range e.globs {
		if g.Match(p) || g.Match(rooted) {
			return true
		}
	}
	return false
}
