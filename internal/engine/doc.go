// Package engine evaluates the rule table against one parsed file.
//
// Rules run concurrently on a bounded errgroup against the read-only tree.
// Findings flow through a serialised reporter chain (suppressions, dedup,
// bag) and come back sorted by position. A rule that panics is isolated into
// a single RUL6001 diagnostic; the remaining rules are unaffected.
package engine
