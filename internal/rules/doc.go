// Package rules holds the built-in style rule table.
//
// Each rule is a plain value: an id, a STY code, a default severity,
// declared parameters and a Check function that reads the unit (tokens and
// syntax tree) and reports findings through the pass. Rules never keep state
// between calls, so the engine may run them in any order and concurrently.
//
// Textual rules (line length, whitespace) work on lines and on the trivia
// attached to tokens; structural rules (naming, force unwrap, nesting) walk
// the syntax tree.
package rules
