package fix

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	ApplyModeOnce ApplyMode = iota
	ApplyModeAll
	ApplyModeID
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	DryRun   bool // compute new contents without writing files
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Title         string
	Code          diag.Code
	Rule          string
	Message       string
	Applicability diag.FixApplicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	ID     string
	Title  string
	Reason string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	FileID    source.FileID
	EditCount int
	Content   []byte // new content
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	fix   diag.Fix
	order int
}

// Apply collects fixes from diagnostics, selects a subset according to opts,
// and applies them to the files in fs. Fixes whose edits overlap an already
// accepted fix, or whose guard text no longer matches, are skipped.
func Apply(fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied:     make([]AppliedFix, 0),
		Skipped:     make([]SkippedFix, 0),
		FileChanges: make([]FileChange, 0),
	}
	if fs == nil {
		return result, errors.New("fix: FileSet is nil")
	}

	candidates, buildSkips := gatherCandidates(diagnostics)
	result.Skipped = append(result.Skipped, buildSkips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	sortCandidates(candidates)

	selected, selectionSkips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, selectionSkips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	applied, skipped, changes, err := applyCandidates(fs, selected, opts.DryRun)
	result.Applied = append(result.Applied, applied...)
	result.Skipped = append(result.Skipped, skipped...)
	result.FileChanges = append(result.FileChanges, changes...)
	if err != nil {
		return result, err
	}
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// gatherCandidates flattens the fixes of every diagnostic. Fixes without
// edits and repeated ids are skipped; missing ids are synthesised from the
// code, file, offset and fix index.
func gatherCandidates(diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	cands := make([]candidate, 0)
	skips := make([]SkippedFix, 0)
	seen := make(map[string]struct{})

	order := 0
	for _, d := range diagnostics {
		for idx, f := range d.Fixes {
			if len(f.Edits) == 0 {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "fix has no edits"})
				continue
			}
			if f.ID == "" {
				f.ID = fmt.Sprintf("%s-%d-%d-%d", d.Code.ID(), d.Primary.File, d.Primary.Start, idx)
			}
			if _, dup := seen[f.ID]; dup {
				skips = append(skips, SkippedFix{ID: f.ID, Title: f.Title, Reason: "duplicate fix id"})
				continue
			}
			seen[f.ID] = struct{}{}
			cands = append(cands, candidate{diag: d, fix: f, order: order})
			order++
		}
	}
	return cands, skips
}

// sortCandidates orders by file, span, insertion order, code, preference,
// id and title.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		di, dj := candidates[i].diag, candidates[j].diag
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if candidates[i].order != candidates[j].order {
			return candidates[i].order < candidates[j].order
		}
		if di.Code != dj.Code {
			return di.Code < dj.Code
		}
		if candidates[i].fix.IsPreferred != candidates[j].fix.IsPreferred {
			return candidates[i].fix.IsPreferred
		}
		if candidates[i].fix.ID != candidates[j].fix.ID {
			return candidates[i].fix.ID < candidates[j].fix.ID
		}
		return candidates[i].fix.Title < candidates[j].fix.Title
	})
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, cand := range candidates {
			if cand.fix.ID == opts.TargetID {
				return []candidate{cand}, nil
			}
		}
		return nil, []SkippedFix{{ID: opts.TargetID, Reason: "fix id not found"}}
	case ApplyModeAll:
		selected := make([]candidate, 0, len(candidates))
		skipped := make([]SkippedFix, 0)
		for _, cand := range candidates {
			if cand.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				selected = append(selected, cand)
				continue
			}
			skipped = append(skipped, SkippedFix{
				ID:     cand.fix.ID,
				Title:  cand.fix.Title,
				Reason: fmt.Sprintf("applicability is %s", cand.fix.Applicability),
			})
		}
		return selected, skipped
	case ApplyModeOnce:
		// первый безопасный, иначе первый вообще
		for _, cand := range candidates {
			if cand.fix.Applicability == diag.FixApplicabilityAlwaysSafe {
				return []candidate{cand}, nil
			}
		}
		return candidates[:1], nil
	default:
		return nil, nil
	}
}

func applyCandidates(fs *source.FileSet, selected []candidate, dryRun bool) ([]AppliedFix, []SkippedFix, []FileChange, error) {
	accepted := make(map[source.FileID][]diag.TextEdit)
	applied := make([]AppliedFix, 0, len(selected))
	skipped := make([]SkippedFix, 0)
	baseDir := fs.BaseDir()

	for _, cand := range selected {
		reason := checkCandidate(fs, cand.fix.Edits, accepted, dryRun)
		if reason != "" {
			skipped = append(skipped, SkippedFix{ID: cand.fix.ID, Title: cand.fix.Title, Reason: reason})
			continue
		}
		for _, e := range cand.fix.Edits {
			accepted[e.Span.File] = append(accepted[e.Span.File], e)
		}
		applied = append(applied, AppliedFix{
			ID:            cand.fix.ID,
			Title:         cand.fix.Title,
			Code:          cand.diag.Code,
			Rule:          cand.diag.Rule,
			Message:       cand.diag.Message,
			Applicability: cand.fix.Applicability,
			PrimaryPath:   formatFilePath(fs, cand.diag.Primary.File),
			EditCount:     len(cand.fix.Edits),
		})
	}

	fileChanges := make([]FileChange, 0, len(accepted))
	for fileID, edits := range accepted {
		file := fs.Get(fileID)
		content, err := ApplyEdits(file.Content, edits)
		if err != nil {
			return applied, skipped, fileChanges, fmt.Errorf("%s: %w", file.Path, err)
		}
		if !dryRun {
			if err := writeBack(file, edits); err != nil {
				return applied, skipped, fileChanges, err
			}
		}
		fileChanges = append(fileChanges, FileChange{
			Path:      file.FormatPath("relative", baseDir),
			FileID:    fileID,
			EditCount: len(edits),
			Content:   content,
		})
	}
	slices.SortFunc(fileChanges, func(a, b FileChange) int {
		return strings.Compare(a.Path, b.Path)
	})
	return applied, skipped, fileChanges, nil
}

// checkCandidate returns why edits cannot be applied, or "".
func checkCandidate(fs *source.FileSet, edits []diag.TextEdit, accepted map[source.FileID][]diag.TextEdit, dryRun bool) string {
	for i, edit := range edits {
		file := fs.Get(edit.Span.File)
		if file == nil {
			return "target file is unknown"
		}
		if !dryRun && file.Flags&source.FileVirtual != 0 {
			return "target file is virtual"
		}
		if edit.Span.End < edit.Span.Start || int(edit.Span.End) > len(file.Content) {
			return "edit span out of range"
		}
		if edit.OldText != "" && string(file.Content[edit.Span.Start:edit.Span.End]) != edit.OldText {
			return "existing text does not match expected content"
		}
		if conflictsWithExisting(accepted[edit.Span.File], edit) {
			return fmt.Sprintf("conflicts with previously applied edits in %s", file.FormatPath("auto", fs.BaseDir()))
		}
		for _, other := range edits[:i] {
			if other.Span.File == edit.Span.File && spansConflict(other, edit) {
				return "fix has overlapping edits"
			}
		}
	}
	return ""
}

// writeBack applies edits to the bytes as they were on disk, so a BOM and the
// line breaks outside the edited ranges are written back unchanged.
func writeBack(file *source.File, edits []diag.TextEdit) error {
	crlf := file.UsesCRLF()
	disk := make([]diag.TextEdit, len(edits))
	for i, e := range edits {
		e.Span.Start = file.OriginalOffset(e.Span.Start)
		e.Span.End = file.OriginalOffset(e.Span.End)
		if crlf {
			e.NewText = strings.ReplaceAll(e.NewText, "\n", "\r\n")
		}
		disk[i] = e
	}
	content, err := ApplyEdits(file.Original(), disk)
	if err != nil {
		return fmt.Errorf("%s: %w", file.Path, err)
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(file.Path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(file.Path, content, mode); err != nil {
		return fmt.Errorf("write %s: %w", file.Path, err)
	}
	return nil
}

// ApplyEdits splices non-overlapping edits, expressed against the original
// content, into a copy of content.
func ApplyEdits(content []byte, edits []diag.TextEdit) ([]byte, error) {
	sorted := slices.Clone(edits)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Span.Start == sorted[j].Span.Start {
			return sorted[i].Span.End < sorted[j].Span.End
		}
		return sorted[i].Span.Start < sorted[j].Span.Start
	})
	out := make([]byte, 0, len(content))
	pos := 0
	for _, e := range sorted {
		start, end := int(e.Span.Start), int(e.Span.End)
		if start < pos || end < start || end > len(content) {
			return nil, fmt.Errorf("edit %d-%d overlaps or is out of range", start, end)
		}
		out = append(out, content[pos:start]...)
		out = append(out, e.NewText...)
		pos = end
	}
	out = append(out, content[pos:]...)
	return out, nil
}

func conflictsWithExisting(existing []diag.TextEdit, edit diag.TextEdit) bool {
	for _, prev := range existing {
		if spansConflict(prev, edit) {
			return true
		}
	}
	return false
}

// spansConflict reports whether two text edits' spans overlap.
// Spans are half-open. Two insertions conflict only at the same offset;
// an insertion conflicts with a span strictly containing its position.
func spansConflict(a, b diag.TextEdit) bool {
	aStart, aEnd := a.Span.Start, a.Span.End
	bStart, bEnd := b.Span.Start, b.Span.End

	if aStart == aEnd && bStart == bEnd {
		return aStart == bStart
	}
	if aStart == aEnd {
		return bStart < aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart < bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}

func formatFilePath(fs *source.FileSet, fileID source.FileID) string {
	file := fs.Get(fileID)
	if file == nil {
		return ""
	}
	return file.FormatPath("auto", fs.BaseDir())
}
