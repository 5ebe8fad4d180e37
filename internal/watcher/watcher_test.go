package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"swiftstyle/internal/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcherBatchesSwiftChanges(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Pods"), 0o755))

	w, err := New(Options{Debounce: 50 * time.Millisecond, Exclude: config.NewExcluder("**/Pods/**")})
	require.NoError(t, err)
	require.NoError(t, w.Add(dir))

	ctx, cancel := context.WithCancel(context.Background())
	batches := make(chan []string, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, paths []string) {
			batches <- paths
		})
	}()

	target := filepath.Join(dir, "View.swift")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Pods", "Dep.swift"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(target, []byte("let a = 1\n"), 0o600))

	seen := map[string]bool{}
	deadline := time.After(5 * time.Second)
	for !seen[target] {
		select {
		case paths := <-batches:
			for _, p := range paths {
				seen[p] = true
			}
		case <-deadline:
			t.Fatalf("no change reported for %s; saw %v", target, seen)
		}
	}
	require.False(t, seen[filepath.Join(dir, "notes.txt")])
	require.False(t, seen[filepath.Join(dir, "Pods", "Dep.swift")])

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestAddMissingPath(t *testing.T) {
	w, err := New(Options{})
	require.NoError(t, err)
	require.Error(t, w.Add(filepath.Join(t.TempDir(), "missing")))
	// fsnotify's reader goroutine must be gone, goleak checks it in TestMain
	require.NoError(t, w.Close())
}

func TestCloseAfterRun(t *testing.T) {
	w, err := New(Options{})
	require.NoError(t, err)
	require.NoError(t, w.Add(t.TempDir()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.NoError(t, w.Run(ctx, func(context.Context, []string) {}))
	require.NoError(t, w.Close())
}
