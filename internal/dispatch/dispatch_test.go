package dispatch

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/kiri-dev/kiri/internal/terminal"
)

func newTestDispatcher() *Dispatcher {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDispatcher(Config{
		Logger:    logger,
		Terminals: terminal.NewManager(logger),
	})
}

func TestDispatchUnknownCommand(t *testing.T) {
	d := newTestDispatcher()
	if _, err := d.Dispatch(context.Background(), "no_such_command", nil); err == nil {
		t.Error("expected error for unknown command")
	}
}

func TestDispatchGetHomeDirectory(t *testing.T) {
	d := newTestDispatcher()
	result, err := d.Dispatch(context.Background(), "get_home_directory", nil)
	if err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if home, ok := result.(string); !ok || home == "" {
		t.Errorf("expected non-empty home directory string, got %#v", result)
	}
}

func TestDispatchTerminalLifecycle(t *testing.T) {
	d := newTestDispatcher()

	createArgs, _ := json.Marshal(map[string]any{"cols": 80, "rows": 24})
	result, err := d.Dispatch(context.Background(), "create_terminal", createArgs)
	if err != nil {
		t.Fatalf("create_terminal: %v", err)
	}
	id, ok := result.(string)
	if !ok || id == "" {
		t.Fatalf("expected non-empty terminal id, got %#v", result)
	}

	closeArgs, _ := json.Marshal(map[string]any{"id": id})
	if _, err := d.Dispatch(context.Background(), "close_terminal", closeArgs); err != nil {
		t.Fatalf("close_terminal: %v", err)
	}
}

func TestDispatchRemoteCommandsWithoutServerConfigured(t *testing.T) {
	d := newTestDispatcher()
	if _, err := d.Dispatch(context.Background(), "start_remote_server", nil); err == nil {
		t.Error("expected error when remote server is not configured")
	}
	result, err := d.Dispatch(context.Background(), "is_remote_server_running", nil)
	if err != nil {
		t.Fatalf("is_remote_server_running: %v", err)
	}
	if running, ok := result.(bool); !ok || running {
		t.Errorf("expected false when remote server is not configured, got %#v", result)
	}
}
