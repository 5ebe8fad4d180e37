package source

import (
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// normalizeCRLF заменяет все \r\n на \n, не трогая одиночные \r.
// Возвращает новый слайс и смещения (в новом слайсе) тех \n, что были \r\n.
func normalizeCRLF(content []byte) ([]byte, []uint32) {
	if !slices.Contains(content, '\r') {
		return content, nil
	}

	out := make([]byte, 0, len(content))
	var crlf []uint32
	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			crlf = append(crlf, uint32(len(out))) // #nosec G115 -- content length is checked by Add
			out = append(out, '\n')
			i += 2
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, crlf
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32+1)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) // #nosec G115 -- content length is checked by Add
		}
	}
	return out
}

// toLineCol maps a byte offset to a 1-based position.
// The '\n' byte itself belongs to the line it terminates.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// количество переводов строк строго до off
	n := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= off })
	var startOff uint32
	if n > 0 {
		startOff = lineIdx[n-1] + 1
	}
	return LineCol{Line: uint32(n + 1), Col: off - startOff + 1} // #nosec G115 -- n <= len(content)
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}

// AbsolutePath returns the normalised absolute form of path.
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns path relative to baseDir. Paths that would escape
// baseDir fall back to their absolute form.
func RelativePath(path, baseDir string) (string, error) {
	abs, err := AbsolutePath(path)
	if err != nil {
		return "", err
	}
	base, err := AbsolutePath(baseDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return abs, nil
	}
	return rel, nil
}

// BaseName returns the last element of path.
func BaseName(path string) string {
	return filepath.Base(path)
}
