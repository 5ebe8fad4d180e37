// Package watcher re-runs a callback when Swift sources under the watched
// roots change. Bursts of file system events are coalesced: the callback
// fires once the tree has been quiet for the debounce interval.
package watcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"swiftstyle/internal/config"
	"swiftstyle/internal/observ"
)

// DefaultDebounce is used when Options.Debounce is zero.
const DefaultDebounce = 200 * time.Millisecond

// Options configure a Watcher.
type Options struct {
	Debounce time.Duration
	Ext      string // watched extension, ".swift" by default
	Exclude  *config.Excluder
	Logger   *zap.Logger
	Metrics  *observ.Metrics
}

// Watcher wraps an fsnotify watcher over a set of roots.
type Watcher struct {
	fsw   *fsnotify.Watcher
	opts  Options
	log   *zap.Logger
	files map[string]bool // explicitly watched files
}

// New creates a watcher. Call Add to register roots, then Run.
func New(opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Ext == "" {
		opts.Ext = ".swift"
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{fsw: fsw, opts: opts, log: log, files: map[string]bool{}}, nil
}

// Close releases the underlying fsnotify watcher. It is safe to call more
// than once and after Run has returned.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Add registers roots. Directories are watched recursively; for a file its
// parent directory is watched and events are narrowed to that file.
func (w *Watcher) Add(paths ...string) error {
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			w.files[filepath.Clean(p)] = true
			if err := w.fsw.Add(filepath.Dir(p)); err != nil {
				return err
			}
			continue
		}
		if err := w.watchRecursive(p); err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) watchRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.skipDir(path, d.Name()) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) skipDir(path, name string) bool {
	return strings.HasPrefix(name, ".") || w.opts.Exclude.MatchDir(path)
}

func (w *Watcher) relevant(path string) bool {
	path = filepath.Clean(path)
	if w.files[path] {
		return true
	}
	return strings.HasSuffix(path, w.opts.Ext) && !w.opts.Exclude.Match(path)
}

// Run delivers batches of changed paths to onChange until ctx is done. The
// callback runs on the watcher goroutine; events arriving meanwhile are
// queued by fsnotify and form the next batch. Run closes the watcher on
// return.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context, []string)) error {
	defer w.Close()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.opts.Metrics.ObserveWatchEvent()
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if !w.skipDir(ev.Name, filepath.Base(ev.Name)) {
						if err := w.watchRecursive(ev.Name); err != nil {
							w.log.Warn("failed to watch new directory", zap.String("path", ev.Name), zap.Error(err))
						}
					}
					continue
				}
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !w.relevant(ev.Name) {
				continue
			}
			w.log.Debug("change", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
			pending[filepath.Clean(ev.Name)] = struct{}{}
			timer.Reset(w.opts.Debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.log.Warn("watcher queue overflow; changes may be missed")
				continue
			}
			w.log.Error("watcher error", zap.Error(err))

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			clear(pending)
			slices.Sort(paths)
			onChange(ctx, paths)
		}
	}
}
