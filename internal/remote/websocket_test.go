package remote

import (
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// TestWebSocketClosesImmediatelyWithoutRegistry verifies spec.md §4.3's
// documented behavior: with no WindowRegistry wired, the socket closes
// right after upgrade instead of streaming status updates.
func TestWebSocketClosesImmediatelyWithoutRegistry(t *testing.T) {
	s := newTestServer(t)
	if err := s.Start(0); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	url := "ws://" + s.listener.Addr().String() + "/" + s.Token() + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("expected the connection to close without a registry, got a message instead")
	}
}
