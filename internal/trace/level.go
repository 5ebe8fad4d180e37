package trace

import (
	"fmt"
	"strings"
)

// Level controls how deep a trace goes.
type Level uint8

const (
	LevelOff Level = iota
	LevelPhase
	LevelFile
	LevelRule
)

var levelNames = [...]string{
	LevelOff:   "off",
	LevelPhase: "phase",
	LevelFile:  "file",
	LevelRule:  "rule",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the level names case-insensitively.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for l, n := range levelNames {
		if n == name {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (expected off|phase|file|rule)", s)
}

// Covers reports whether spans of the given scope are recorded at this level.
func (l Level) Covers(scope Scope) bool {
	switch l {
	case LevelPhase:
		return scope <= ScopePass
	case LevelFile:
		return scope <= ScopeFile
	case LevelRule:
		return scope <= ScopeRule
	}
	return false
}
