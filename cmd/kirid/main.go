// Package main is the entry point for kirid, the kiri backend daemon:
// PTY terminals, filesystem watching, the git read-model, worktree
// isolation, and the remote-access server, all reachable through a single
// Command Surface dispatcher.
package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/kiri-dev/kiri/internal/config"
	"github.com/kiri-dev/kiri/internal/dispatch"
	"github.com/kiri-dev/kiri/internal/fswatch"
	"github.com/kiri-dev/kiri/internal/remote"
	"github.com/kiri-dev/kiri/internal/settings"
	"github.com/kiri-dev/kiri/internal/termcolor"
	"github.com/kiri-dev/kiri/internal/terminal"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	logger := newLogger()
	slog.SetDefault(logger)

	cfg := config.Load(logger)

	terminals := terminal.NewManager(logger)
	watcher := fswatch.NewWatcher(logger, cfg.WatchDebounce)
	settingsStore := settings.NewStore(cfg.SettingsPath, logger)

	remoteServer := remote.NewServer(remote.Config{
		Logger:         logger,
		Terminals:      terminals,
		Settings:       settingsStore,
		WebFS:          remoteWebFS(logger),
		StatusPoll:     cfg.StatusPoll,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	d := dispatch.NewDispatcher(dispatch.Config{
		Logger:        logger,
		Terminals:     terminals,
		Remote:        remoteServer,
		DiffCacheSize: cfg.DiffCacheSize,
	})
	_ = d // wired to the front-end transport by the desktop shell, out of this daemon's scope

	cw := termcolor.NewWriter(os.Stdout, termcolor.ColorAuto)
	printBanner(cw)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	terminals.CloseAll()
	watcher.StopAll()
	if remoteServer.IsRunning() {
		if err := remoteServer.Stop(); err != nil {
			logger.Error("remote server shutdown error", "err", err)
		}
	}
	logger.Info("shutdown complete")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	switch os.Getenv("KIRI_LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if os.Getenv("KIRI_LOG_FORMAT") == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}

// remoteWebFS serves the remote-control UI from KIRI_WEB_DIR if set; the
// remote server runs without a static UI otherwise (spec.md §6's
// GET /{token}/<path> then 404s for every path except /api/health and /ws).
func remoteWebFS(logger *slog.Logger) fs.FS {
	dir := os.Getenv("KIRI_WEB_DIR")
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); err != nil {
		logger.Warn("KIRI_WEB_DIR not found, remote UI disabled", "dir", dir, "err", err)
		return nil
	}
	return os.DirFS(dir)
}

func printBanner(cw *termcolor.Writer) {
	fmt.Printf("%s %s\n", cw.BoldCyan("kirid"), cw.Green(version))
	fmt.Printf("  commit:  %s\n", commit)
	fmt.Printf("  go:      %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	if termcolor.IsTerminal(os.Stdout.Fd()) {
		fmt.Printf("\n%s\n", cw.Bold("Press Ctrl+C to stop."))
	}
}
