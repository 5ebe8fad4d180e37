package diagfmt

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"

	"swiftstyle/internal/diag"
	"swiftstyle/internal/source"
)

// fixPreview holds the lines touched by an edit, before and after.
type fixPreview struct {
	before []string
	after  []string
}

func previewEdit(fs *source.FileSet, edit diag.TextEdit) (fixPreview, error) {
	if fs == nil {
		return fixPreview{}, errors.New("nil FileSet")
	}
	file := fileOf(fs, edit.Span)
	if file == nil {
		return fixPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	if edit.Span.Start > edit.Span.End || edit.Span.End > file.Size() {
		return fixPreview{}, fmt.Errorf("edit span %d-%d out of range", edit.Span.Start, edit.Span.End)
	}

	// расширяем до целых строк
	from := min(file.LineSpan(file.Position(edit.Span.Start).Line).Start, edit.Span.Start)
	to := max(file.LineSpan(file.Position(edit.Span.End).Line).End, edit.Span.End)

	relStart, err := safecast.Conv[int](edit.Span.Start - from)
	if err != nil {
		return fixPreview{}, fmt.Errorf("preview offset overflow: %w", err)
	}
	relEnd, err := safecast.Conv[int](edit.Span.End - from)
	if err != nil {
		return fixPreview{}, fmt.Errorf("preview offset overflow: %w", err)
	}
	block := string(file.Content[from:to])
	after := block[:relStart] + edit.NewText + block[relEnd:]
	return fixPreview{
		before: previewLines(block),
		after:  previewLines(after),
	}, nil
}

func previewLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
