// Package fswatch implements spec.md §4.2's Filesystem Watcher: debounced,
// recursive change notification over a directory subtree, classified into
// filesystem-vs-version-control batches.
//
// Grounded on internal/server/watcher.go's fsnotify + manual recursive-walk
// + time.AfterFunc debounce shape, generalized from "one watcher tied to one
// repo's .git dir" into "any number of independently started/stopped roots".
package fswatch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is spec.md §4.2's default debounce window.
const DefaultDebounce = 300 * time.Millisecond

// Batch is a classified set of filesystem events delivered after the
// debounce window elapses.
type Batch struct {
	Root         string
	FsChanged    bool
	GitChanged   bool
	ChangedFiles []string
}

// watchedRoot holds the live state for one started root.
type watchedRoot struct {
	root     string
	watcher  *fsnotify.Watcher
	cancel   chan struct{}
	mu       sync.Mutex
	pending  map[string]bool // path -> isTerminalEvent (write/create, not just any touch)
	timer    *time.Timer
}

// Watcher manages any number of independently watched roots.
type Watcher struct {
	logger   *slog.Logger
	debounce time.Duration

	mu    sync.Mutex
	roots map[string]*watchedRoot

	batches chan Batch
}

// NewWatcher constructs a Watcher. debounce <= 0 uses DefaultDebounce.
func NewWatcher(logger *slog.Logger, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		logger:   logger,
		debounce: debounce,
		roots:    make(map[string]*watchedRoot),
		batches:  make(chan Batch, 64),
	}
}

// Batches returns the channel classified batches are delivered on.
func (w *Watcher) Batches() <-chan Batch {
	return w.batches
}

// StartWatching installs a recursive watcher under root. Idempotent: if root
// is already watched, succeeds with no effect.
func (w *Watcher) StartWatching(root string) error {
	root = filepath.Clean(root)

	w.mu.Lock()
	if _, exists := w.roots[root]; exists {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("fswatch: start_watching: root does not exist: %s", root)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fswatch: start_watching: %w", err)
	}
	walkAndWatch(fw, root, w.logger)

	wr := &watchedRoot{
		root:    root,
		watcher: fw,
		cancel:  make(chan struct{}),
		pending: make(map[string]bool),
	}

	w.mu.Lock()
	w.roots[root] = wr
	w.mu.Unlock()

	go w.watchLoop(wr)
	w.logger.Info("started watching", "root", root)
	return nil
}

// StopWatching removes the watcher for root, if any.
func (w *Watcher) StopWatching(root string) {
	root = filepath.Clean(root)

	w.mu.Lock()
	wr, ok := w.roots[root]
	if ok {
		delete(w.roots, root)
	}
	w.mu.Unlock()

	if ok {
		close(wr.cancel)
		_ = wr.watcher.Close()
		w.logger.Info("stopped watching", "root", root)
	}
}

// StopAll removes every watched root.
func (w *Watcher) StopAll() {
	w.mu.Lock()
	roots := make([]string, 0, len(w.roots))
	for root := range w.roots {
		roots = append(roots, root)
	}
	w.mu.Unlock()

	for _, root := range roots {
		w.StopWatching(root)
	}
}

// walkAndWatch adds fsnotify watches to dir and all its subdirectories.
// Missing directories are silently skipped (directories can legitimately
// disappear between the caller's check and the walk).
func walkAndWatch(fw *fsnotify.Watcher, dir string, logger *slog.Logger) {
	_ = filepath.Walk(dir, func(path string, fi os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if fi.IsDir() {
			if addErr := fw.Add(path); addErr != nil {
				logger.Warn("failed to watch directory", "dir", path, "err", addErr)
			}
		}
		return nil
	})
}

func (w *Watcher) watchLoop(wr *watchedRoot) {
	var debounceTimer *time.Timer

	flush := func() {
		wr.mu.Lock()
		pending := wr.pending
		wr.pending = make(map[string]bool)
		wr.mu.Unlock()

		if len(pending) == 0 {
			return
		}
		w.batches <- classify(wr.root, pending)
	}

	for {
		select {
		case <-wr.cancel:
			return

		case event, ok := <-wr.watcher.Events:
			if !ok {
				return
			}
			if shouldIgnoreEvent(event) {
				continue
			}

			// New directories created inside the tree must themselves be
			// watched, or their children's events never surface.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					walkAndWatch(wr.watcher, event.Name, w.logger)
				}
			}

			terminal := event.Op&(fsnotify.Write|fsnotify.Create) != 0

			wr.mu.Lock()
			// A terminal event always wins over a continuous one already
			// recorded for the same path within this debounce window.
			if terminal || !wr.pending[event.Name] {
				wr.pending[event.Name] = terminal
			}
			wr.mu.Unlock()

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(w.debounce, flush)

		case err, ok := <-wr.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "root", wr.root, "err", err)
		}
	}
}

func shouldIgnoreEvent(event fsnotify.Event) bool {
	base := filepath.Base(event.Name)
	if strings.HasSuffix(base, ".lock") {
		return true
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Chmod) == 0 {
		return true
	}
	return false
}

// isGitPath implements spec.md §4.2's classification rule: a path is a git
// path if it contains "/.git/" as a directory segment or terminates at
// "/.git".
func isGitPath(path string) bool {
	slash := filepath.ToSlash(path)
	return strings.Contains(slash, "/.git/") || strings.HasSuffix(slash, "/.git")
}

// classify implements spec.md §4.2's batch projection: fs_changed if any
// user path appears, git_changed if any terminal event touched a git path,
// changed_files is the surviving user paths that still exist on disk.
func classify(root string, pending map[string]bool) Batch {
	b := Batch{Root: root}
	for path, terminal := range pending {
		if isGitPath(path) {
			if terminal {
				b.GitChanged = true
			}
			continue
		}

		b.FsChanged = true
		if _, err := os.Stat(path); err == nil {
			b.ChangedFiles = append(b.ChangedFiles, path)
		}
	}
	return b
}
