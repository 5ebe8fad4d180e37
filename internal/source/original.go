package source

import "slices"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Original rebuilds the file bytes as they were on disk: the BOM and every
// CRLF line break removed on load are put back.
func (f *File) Original() []byte {
	if f.Flags&(FileHadBOM|FileNormalizedCRLF) == 0 {
		return slices.Clone(f.Content)
	}
	out := make([]byte, 0, len(f.Content)+len(f.CRLF)+len(utf8BOM))
	if f.Flags&FileHadBOM != 0 {
		out = append(out, utf8BOM...)
	}
	prev := uint32(0)
	for _, off := range f.CRLF {
		out = append(out, f.Content[prev:off]...)
		out = append(out, '\r')
		prev = off
	}
	return append(out, f.Content[prev:]...)
}

// OriginalOffset maps an offset in Content to the same position in the bytes
// returned by Original. An offset at a restored line break lands before its '\r'.
func (f *File) OriginalOffset(off uint32) uint32 {
	n, _ := slices.BinarySearch(f.CRLF, off)
	out := off + uint32(n) // #nosec G115 -- n <= len(CRLF) <= len(Content)
	if f.Flags&FileHadBOM != 0 {
		out += uint32(len(utf8BOM))
	}
	return out
}

// UsesCRLF reports whether at least half of the line breaks were CRLF on disk.
// Text inserted into such a file should break lines the same way.
func (f *File) UsesCRLF() bool {
	return len(f.CRLF) > 0 && 2*len(f.CRLF) >= len(f.LineIdx)
}
