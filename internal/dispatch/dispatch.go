// Package dispatch implements spec.md §6's Command Surface: the
// discriminated dispatch from a snake_case wire identifier to a handler
// method, the shape spec.md §9 prescribes for "dynamic dispatch between
// command name and handler" and cmd/vista/main.go's subsystem-wiring
// style generalizes into.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kiri-dev/kiri/internal/gitmodel"
	"github.com/kiri-dev/kiri/internal/remote"
	"github.com/kiri-dev/kiri/internal/terminal"
)

// Dispatcher holds every subsystem a Command Surface operation might touch
// and routes wire identifiers to the method that implements them.
type Dispatcher struct {
	logger    *slog.Logger
	terminals *terminal.Manager
	remote    *remote.Server
	handlers  map[string]handlerFunc

	diffCacheSize int
	diffCachesMu  sync.Mutex
	diffCaches    map[string]*gitmodel.LRUCache[*gitmodel.CommitDiff]
}

type handlerFunc func(d *Dispatcher, ctx context.Context, args json.RawMessage) (any, error)

// Config wires every dependency a Command Surface operation can call into.
type Config struct {
	Logger        *slog.Logger
	Terminals     *terminal.Manager
	Remote        *remote.Server
	DiffCacheSize int // per-repository commit-diff LRU cache size
}

// NewDispatcher builds a Dispatcher with every known wire identifier
// registered.
func NewDispatcher(cfg Config) *Dispatcher {
	size := cfg.DiffCacheSize
	if size <= 0 {
		size = 500
	}
	d := &Dispatcher{
		logger:        cfg.Logger,
		terminals:     cfg.Terminals,
		remote:        cfg.Remote,
		diffCacheSize: size,
		diffCaches:    make(map[string]*gitmodel.LRUCache[*gitmodel.CommitDiff]),
	}
	d.handlers = registry()
	return d
}

// commitDiffCache returns the per-repository commit-diff LRU cache for
// repoPath, creating it on first use — mirrors the teacher's one-cache-
// per-open-repository lifetime rather than a single shared cache.
func (d *Dispatcher) commitDiffCache(repoPath string) *gitmodel.LRUCache[*gitmodel.CommitDiff] {
	d.diffCachesMu.Lock()
	defer d.diffCachesMu.Unlock()
	cache, ok := d.diffCaches[repoPath]
	if !ok {
		cache = gitmodel.NewLRUCache[*gitmodel.CommitDiff](d.diffCacheSize)
		d.diffCaches[repoPath] = cache
	}
	return cache
}

// Dispatch decodes args for the named command, invokes its handler, and
// returns the result or a human-readable error string, per spec.md §6:
// "each takes the arguments listed and returns either the value or a
// human-readable error string."
func (d *Dispatcher) Dispatch(ctx context.Context, command string, args json.RawMessage) (any, error) {
	handler, ok := d.handlers[command]
	if !ok {
		return nil, fmt.Errorf("unknown command: %s", command)
	}
	result, err := handler(d, ctx, args)
	if err != nil {
		d.logger.Warn("command failed", "command", command, "error", err)
		return nil, err
	}
	return result, nil
}

// decodeArgs unmarshals args into dest, treating an empty payload as a
// valid zero-value call (several commands take no arguments).
func decodeArgs(args json.RawMessage, dest any) error {
	if len(args) == 0 {
		return nil
	}
	return json.Unmarshal(args, dest)
}
