package remote

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/kiri-dev/kiri/internal/settings"
	"github.com/kiri-dev/kiri/internal/terminal"
)

func silentLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(Config{
		Logger:    silentLogger(),
		Terminals: terminal.NewManager(silentLogger()),
		Settings:  settings.NewStore(t.TempDir()+"/kiri-settings.json", silentLogger()),
	})
}

func TestNewServerDefaults(t *testing.T) {
	s := NewServer(Config{Logger: silentLogger()})

	if s.statusPoll != 2*time.Second {
		t.Errorf("statusPoll = %v, want 2s", s.statusPoll)
	}
	if s.rateLimit.rps != 10 {
		t.Errorf("rateLimit.rps = %d, want 10", s.rateLimit.rps)
	}
	if s.rateLimit.burst != 20 {
		t.Errorf("rateLimit.burst = %d, want 20", s.rateLimit.burst)
	}
	if s.Token() == "" {
		t.Error("expected a freshly generated token")
	}
}

func TestServerTokenRegenerate(t *testing.T) {
	s := newTestServer(t)
	original := s.Token()

	regenerated := s.RegenerateToken()
	if regenerated == original {
		t.Error("RegenerateToken returned the same value")
	}
	if s.Token() != regenerated {
		t.Errorf("Token() = %q after regenerate, want %q", s.Token(), regenerated)
	}
}

func TestServerStartStopLifecycle(t *testing.T) {
	s := newTestServer(t)

	if s.IsRunning() {
		t.Fatal("server should not be running before Start")
	}

	if err := s.Start(0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !s.IsRunning() {
		t.Fatal("expected IsRunning() true after Start")
	}

	if err := s.Start(0); err == nil {
		t.Error("expected error starting an already-running server")
	}

	if err := s.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if s.IsRunning() {
		t.Error("expected IsRunning() false after Stop")
	}

	// Stop is idempotent.
	if err := s.Stop(); err != nil {
		t.Errorf("second Stop returned error: %v", err)
	}
}

func TestServerStartRejectsInvalidPort(t *testing.T) {
	s := newTestServer(t)
	if err := s.Start(-1); err == nil {
		t.Error("expected error for negative port")
	}
	if err := s.Start(70000); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestServerHealthEndpointUnauthenticated(t *testing.T) {
	s := newTestServer(t)
	if err := s.Start(0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	addr := s.listener.Addr().String()
	resp, err := http.Get("http://" + addr + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want %q", body.Status, "ok")
	}
}

func TestServerTokenGatedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	if err := s.Start(0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	addr := s.listener.Addr().String()

	resp, err := http.Get("http://" + addr + "/wrong-token/api/health")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status with wrong token = %d, want 404", resp.StatusCode)
	}

	resp2, err := http.Get("http://" + addr + "/" + s.Token() + "/api/health")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Errorf("status with correct token = %d, want 200", resp2.StatusCode)
	}
}
