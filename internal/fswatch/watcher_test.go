package fswatch

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestWatcher() *Watcher {
	return NewWatcher(slog.New(slog.NewTextHandler(io.Discard, nil)), 50*time.Millisecond)
}

func TestIsGitPath(t *testing.T) {
	cases := map[string]bool{
		"/repo/.git":                true,
		"/repo/.git/refs/heads/main": true,
		"/repo/src/main.go":          false,
		"/repo/.gitignore":           false,
	}
	for path, want := range cases {
		if got := isGitPath(path); got != want {
			t.Errorf("isGitPath(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestClassify(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "kept.txt")
	if err := os.WriteFile(existing, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	vanished := filepath.Join(dir, "gone.txt")

	b := classify(dir, map[string]bool{
		existing:                  true,
		vanished:                  true,
		filepath.Join(dir, ".git"): true,
	})

	if !b.FsChanged {
		t.Error("expected FsChanged = true")
	}
	if !b.GitChanged {
		t.Error("expected GitChanged = true for terminal git event")
	}
	if len(b.ChangedFiles) != 1 || b.ChangedFiles[0] != existing {
		t.Errorf("ChangedFiles = %v, want only %v (vanished file excluded)", b.ChangedFiles, existing)
	}
}

func TestClassifyContinuousGitEventIgnored(t *testing.T) {
	dir := t.TempDir()
	b := classify(dir, map[string]bool{
		filepath.Join(dir, ".git", "index"): false, // continuous, not terminal
	})
	if b.GitChanged {
		t.Error("continuous git-path event must not set GitChanged")
	}
}

func TestStartWatchingIdempotentAndMissingRoot(t *testing.T) {
	w := newTestWatcher()
	defer w.StopAll()

	dir := t.TempDir()
	if err := w.StartWatching(dir); err != nil {
		t.Fatalf("StartWatching: %v", err)
	}
	if err := w.StartWatching(dir); err != nil {
		t.Fatalf("second StartWatching should be a no-op, got: %v", err)
	}
	if len(w.roots) != 1 {
		t.Fatalf("expected exactly one watched root, got %d", len(w.roots))
	}

	if err := w.StartWatching(filepath.Join(dir, "does-not-exist")); err == nil {
		t.Fatal("expected error watching a missing root")
	}
}

func TestStartWriteStopDeliversBatch(t *testing.T) {
	w := newTestWatcher()
	dir := t.TempDir()

	if err := w.StartWatching(dir); err != nil {
		t.Fatalf("StartWatching: %v", err)
	}
	defer w.StopWatching(dir)

	target := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(target, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case b := <-w.Batches():
		if !b.FsChanged {
			t.Error("expected FsChanged = true after writing a file")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for batch")
	}
}
