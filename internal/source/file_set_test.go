package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("Widget.swift", []byte("hello world"), 0)
	id2 := fs.Add("Widget.swift", []byte("hello universe"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("unexpected ids %d, %d", id1, id2)
	}

	latest, ok := fs.GetLatest("Widget.swift")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d, %v; want %d", latest, ok, id2)
	}
	// старая версия остаётся доступной
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Fatalf("first version content = %q", got)
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.swift", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("LineIdx = %v, want %v", file.LineIdx, expected)
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Fatalf("LineIdx[%d] = %d, want %d", i, file.LineIdx[i], val)
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Fatal("expected FileVirtual flag")
	}
}

func TestCRLFAndBOMNormalization(t *testing.T) {
	fs := NewFileSet()
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("let a = 1\r\nlet b = 2\r\n")...)
	id := fs.AddBytes("crlf.swift", raw)
	f := fs.Get(id)
	if string(f.Content) != "let a = 1\nlet b = 2\n" {
		t.Fatalf("content not normalised: %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("pos.swift", []byte("ab\ncd\n\nef"))

	cases := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}}, // '\n' belongs to line 1
		{3, LineCol{2, 1}},
		{4, LineCol{2, 2}},
		{6, LineCol{3, 1}},
		{7, LineCol{4, 1}},
		{9, LineCol{4, 3}}, // EOF
	}
	for _, c := range cases {
		start, _ := fs.Resolve(Span{File: id, Start: c.off, End: c.off})
		if start != c.want {
			t.Fatalf("offset %d: got %+v, want %+v", c.off, start, c.want)
		}
	}
}

func TestLineHelpers(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("lines.swift", []byte("first\n\nthird")))

	if f.LineCount() != 3 {
		t.Fatalf("LineCount = %d", f.LineCount())
	}
	if got := f.GetLine(1); got != "first" {
		t.Fatalf("line 1 = %q", got)
	}
	if got := f.GetLine(2); got != "" {
		t.Fatalf("line 2 = %q", got)
	}
	if got := f.GetLine(3); got != "third" {
		t.Fatalf("line 3 = %q", got)
	}
	if got := f.GetLine(4); got != "" {
		t.Fatalf("line 4 = %q", got)
	}

	withNL := fs.Get(fs.AddVirtual("nl.swift", []byte("a\nb\n")))
	if withNL.LineCount() != 2 {
		t.Fatalf("trailing newline must not open a line, got %d", withNL.LineCount())
	}
	empty := fs.Get(fs.AddVirtual("empty.swift", nil))
	if empty.LineCount() != 0 {
		t.Fatalf("empty file LineCount = %d", empty.LineCount())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Loaded.swift")
	if err := os.WriteFile(path, []byte("import UIKit\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got, ok := fs.GetByPath(path); !ok || got.ID != id {
		t.Fatalf("GetByPath mismatch")
	}
	if _, err := fs.Load(filepath.Join(dir, "missing.swift")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestConcurrentAdd(t *testing.T) {
	fs := NewFileSet()
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fs.AddVirtual(fmt.Sprintf("f%d.swift", i), []byte("x"))
			_ = fs.Get(id)
		}(i)
	}
	wg.Wait()
	if fs.Len() != 32 {
		t.Fatalf("Len = %d", fs.Len())
	}
}

func TestOriginalRestoresBOMAndCRLF(t *testing.T) {
	fs := NewFileSet()
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("import Foundation\r\nlet a = 1;\nlet b = 2\r\n")...)
	f := fs.Get(fs.AddBytes("mixed.swift", raw))

	if got := f.Original(); string(got) != string(raw) {
		t.Fatalf("Original() = %q, want %q", got, raw)
	}
	// смещение ';' в нормализованном тексте
	semi := uint32(len("import Foundation\nlet a = 1"))
	if f.Content[semi] != ';' {
		t.Fatalf("content[%d] = %q", semi, f.Content[semi])
	}
	if got := f.OriginalOffset(semi); raw[got] != ';' {
		t.Fatalf("OriginalOffset(%d) = %d -> %q", semi, got, raw[got])
	}
	// перевод строки, бывший CRLF, отображается на '\r'
	if got := f.OriginalOffset(f.CRLF[0]); raw[got] != '\r' {
		t.Fatalf("OriginalOffset(crlf) -> %q", raw[got])
	}
	if !f.UsesCRLF() {
		t.Fatal("expected CRLF style for 2 of 3 line breaks")
	}

	plain := fs.Get(fs.AddBytes("plain.swift", []byte("let a = 1\n")))
	if string(plain.Original()) != "let a = 1\n" || plain.UsesCRLF() || plain.OriginalOffset(4) != 4 {
		t.Fatal("plain file must map onto itself")
	}
}
