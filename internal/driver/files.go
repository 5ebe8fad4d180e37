package driver

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"swiftstyle/internal/config"
)

// SourceExt is the extension picked up when walking directories.
const SourceExt = ".swift"

// Collect expands paths into the sorted, de-duplicated list of files to lint.
// Directories are walked recursively for *.swift files; hidden directories
// and excluded ones are pruned. Explicit file arguments are kept whatever
// their extension unless an exclude pattern matches them.
//
// Paths that cannot be stat'ed or walked are kept as they are: reading them
// later fails and the file gets an IO diagnostic, so one bad argument never
// hides the rest of the batch.
func Collect(paths []string, ex *config.Excluder) []string {
	seen := make(map[string]struct{})
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			if !ex.Match(root) {
				add(root)
			}
			continue
		}
		// колбэк никогда не возвращает ошибку, кроме SkipDir
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// нечитаемый каталог уходит в пакет и получит IO-диагностику
				add(path)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != root && (strings.HasPrefix(d.Name(), ".") || ex.MatchDir(path)) {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(path, SourceExt) && !ex.Match(path) {
				add(path)
			}
			return nil
		})
	}

	// детерминированный порядок
	slices.Sort(files)
	return files
}
