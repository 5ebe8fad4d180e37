// Package report aggregates per-file results into a run report and decides
// the process exit status.
package report

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/source"
)

// Exit statuses of a lint run.
const (
	ExitClean    = 0 // nothing at or above the threshold
	ExitFindings = 1 // at least one finding at or above the threshold
	ExitTooling  = 2 // lex, parse, I/O, rule-internal or config failure
)

// FileResult is the outcome of one file pipeline.
type FileResult struct {
	Path        string
	FileID      source.FileID
	Diagnostics []diag.Diagnostic // sorted, deduplicated
	Dropped     int               // diagnostics cut by --max-diagnostics
	Skipped     bool              // abandoned after cancellation
	Cached      bool
	Duration    time.Duration
}

// Counts tallies the result's diagnostics.
func (r *FileResult) Counts() diag.Counts {
	var c diag.Counts
	for _, d := range r.Diagnostics {
		c.Add(countOf(d))
	}
	return c
}

func countOf(d diag.Diagnostic) diag.Counts {
	var c diag.Counts
	if d.Code.IsTooling() {
		c.Tooling = 1
		return c
	}
	switch d.Severity {
	case diag.SevInfo:
		c.Info = 1
	case diag.SevWarning:
		c.Warning = 1
	case diag.SevError:
		c.Error = 1
	}
	return c
}

// RuleCount is the number of findings of one rule across the run.
type RuleCount struct {
	Rule  string
	Code  diag.Code
	Count int
}

// Summary holds run totals.
type Summary struct {
	Files   int
	Skipped int
	Cached  int
	Fixable int // findings carrying a safe fix
	diag.Counts
}

// Report is produced once per run.
type Report struct {
	RunID   string
	Files   []FileResult
	Run     []diag.Diagnostic // run-level diagnostics without a file
	Summary Summary
	ByRule  []RuleCount
}

// Build aggregates results. Files are ordered by path; result order from the
// worker pool does not matter.
func Build(results []FileResult, run ...diag.Diagnostic) *Report {
	files := slices.Clone(results)
	slices.SortStableFunc(files, func(a, b FileResult) int {
		return cmp.Compare(a.Path, b.Path)
	})

	rep := &Report{
		RunID: uuid.NewString(),
		Files: files,
		Run:   slices.Clone(run),
	}
	byRule := map[string]*RuleCount{}
	for _, d := range run {
		rep.Summary.Add(countOf(d))
	}
	for i := range files {
		f := &files[i]
		rep.Summary.Files++
		if f.Skipped {
			rep.Summary.Skipped++
		}
		if f.Cached {
			rep.Summary.Cached++
		}
		for _, d := range f.Diagnostics {
			rep.Summary.Add(countOf(d))
			if !d.IsFinding() {
				continue
			}
			if hasSafeFix(d) {
				rep.Summary.Fixable++
			}
			rc, ok := byRule[d.Rule]
			if !ok {
				rc = &RuleCount{Rule: d.Rule, Code: d.Code}
				byRule[d.Rule] = rc
			}
			rc.Count++
		}
	}
	for _, rc := range byRule {
		rep.ByRule = append(rep.ByRule, *rc)
	}
	slices.SortFunc(rep.ByRule, func(a, b RuleCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Rule, b.Rule)
	})
	return rep
}

func hasSafeFix(d diag.Diagnostic) bool {
	for _, f := range d.Fixes {
		if f.Applicability == diag.FixApplicabilityAlwaysSafe {
			return true
		}
	}
	return false
}

// Diagnostics returns run-level diagnostics followed by every file's, in
// report order.
func (r *Report) Diagnostics() []diag.Diagnostic {
	out := slices.Clone(r.Run)
	for i := range r.Files {
		out = append(out, r.Files[i].Diagnostics...)
	}
	return out
}

// ExitCode applies the exit policy. Tooling failures win over findings.
func (r *Report) ExitCode(failOn diag.Severity) int {
	if r.Summary.Tooling > 0 {
		return ExitTooling
	}
	for _, d := range r.Diagnostics() {
		if d.IsFinding() && d.Severity >= failOn {
			return ExitFindings
		}
	}
	return ExitClean
}
