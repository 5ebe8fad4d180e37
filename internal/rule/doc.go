// Package rule defines the lint rule contract: the rule value table entry,
// declared parameters, the per-file unit a rule inspects and the Pass that
// rules report findings through.
package rule
