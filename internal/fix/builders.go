package fix

import (
	"swiftstyle/internal/diag"
	"swiftstyle/internal/source"
)

// Option mutates fix during construction.
type Option func(*diag.Fix)

// WithApplicability overrides applicability metadata.
func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) {
		f.Applicability = app
	}
}

// WithID sets stable identifier for fix.
func WithID(id string) Option {
	return func(f *diag.Fix) {
		f.ID = id
	}
}

// Preferred marks fix as preferred suggestion.
func Preferred() Option {
	return func(f *diag.Fix) {
		f.IsPreferred = true
	}
}

// New builds an always-safe quick fix from edits.
func New(title string, edits []diag.TextEdit, opts ...Option) diag.Fix {
	f := diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         edits,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

// Safe is the preferred quick fix --fix applies without review.
func Safe(title string, edits ...diag.TextEdit) diag.Fix {
	return New(title, edits, Preferred())
}

// Insert adds text at the start of at.
func Insert(at source.Span, text string) diag.TextEdit {
	return diag.TextEdit{
		Span:    source.Span{File: at.File, Start: at.Start, End: at.Start},
		NewText: text,
	}
}

// Delete removes span; expect guards against stale content.
func Delete(span source.Span, expect string) diag.TextEdit {
	return diag.TextEdit{Span: span, OldText: expect}
}

// Replace swaps the text covered by span for newText.
func Replace(span source.Span, newText, expect string) diag.TextEdit {
	return diag.TextEdit{Span: span, NewText: newText, OldText: expect}
}
