package remote

import (
	"compress/flate"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 4096
)

// upgrader allows all origins; the daemon's WebSocket is only reachable
// through the token-gated path prefix, which is the actual access control.
var upgrader = websocket.Upgrader{
	CheckOrigin:       func(_ *http.Request) bool { return true },
	EnableCompression: true,
}

// handleWebSocket upgrades the connection, then runs the read/write pumps
// until the client disconnects. Per spec.md §4.3, when no WindowRegistry is
// wired the socket closes immediately after upgrade.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.registry == nil {
		s.logger.Warn("websocket: no window registry wired, closing immediately")
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = conn.Close()
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "err", err)
		return
	}
	conn.EnableWriteCompression(true)
	if err := conn.SetCompressionLevel(flate.BestSpeed); err != nil {
		s.logger.Error("failed to set compression level", "err", err)
	}
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	s.logger.Info("websocket client connected", "addr", conn.RemoteAddr())

	done := make(chan struct{})
	s.clientWg.Add(2)
	go s.statusPushLoop(conn, done)
	go s.clientReadPump(conn, done)

	<-done
	_ = conn.Close()
	s.logger.Info("websocket client disconnected", "addr", conn.RemoteAddr())
}

// statusPushLoop pushes a StatusUpdate every s.statusPoll and sends a ping
// keepalive every pingPeriod, until done is closed by clientReadPump.
func (s *Server) statusPushLoop(conn *websocket.Conn, done chan struct{}) {
	defer s.clientWg.Done()
	ticker := time.NewTicker(s.statusPoll)
	defer ticker.Stop()
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-s.shutdown:
			return
		case <-ticker.C:
			update := s.buildStatusUpdate()
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(update); err != nil {
				s.logger.Error("status push failed", "addr", conn.RemoteAddr(), "err", err)
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// clientReadPump blocks on reads, dispatching ClientAction frames and
// answering pings, until the connection closes or a read error occurs.
func (s *Server) clientReadPump(conn *websocket.Conn, done chan struct{}) {
	defer s.clientWg.Done()
	defer close(done)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Error("websocket read error", "addr", conn.RemoteAddr(), "err", err)
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var action ClientAction
		if err := json.Unmarshal(data, &action); err != nil {
			s.logger.Warn("malformed client action, ignoring", "err", err)
			continue
		}
		s.handleClientAction(action)
	}
}

// handleClientAction implements spec.md §4.3's discriminated dispatch for
// incoming frames: unknown actions are logged and ignored, both actions
// silently drop when no WindowRegistry is present (handled by the caller
// returning before this is ever reached).
func (s *Server) handleClientAction(action ClientAction) {
	switch action.Action {
	case "openProject":
		if err := s.registry.FocusOrRegister(action.Path); err != nil {
			s.logger.Warn("openProject failed", "path", action.Path, "err", err)
		}
	case "closeProject":
		if err := s.registry.Close(action.Path); err != nil {
			s.logger.Warn("closeProject failed", "path", action.Path, "err", err)
		}
	default:
		s.logger.Warn("unknown client action, ignoring", "action", action.Action)
	}
}

// buildStatusUpdate assembles one StatusUpdate frame from the Window
// Registry, Settings Store, and PTY Manager, refreshing the process table
// once (not once per terminal) per spec.md §4.3.
func (s *Server) buildStatusUpdate() StatusUpdate {
	openProjects := s.registry.OpenProjects()

	open := make(map[string]bool, len(openProjects))
	for _, p := range openProjects {
		open[p.Path] = true
	}

	recent := s.settings.RecentProjects(open)
	recentViews := make([]RecentProjectView, 0, len(recent))
	for _, p := range recent {
		recentViews = append(recentViews, RecentProjectView{
			Path:       p.Path,
			Name:       p.Name,
			LastOpened: p.LastOpened.Unix(),
			GitBranch:  p.GitBranch,
		})
	}

	procs := readProcessTable()
	terminalViews := make([]TerminalView, 0)
	for _, info := range s.terminals.List() {
		name := ""
		if info.Pid != 0 {
			name = procs.processName(info.Pid)
		}
		terminalViews = append(terminalViews, TerminalView{
			ID:          string(info.ID),
			IsAlive:     info.Alive,
			ProcessName: name,
			Cwd:         info.Cwd,
		})
	}

	return StatusUpdate{
		OpenProjects:   openProjects,
		RecentProjects: recentViews,
		Terminals:      terminalViews,
		Timestamp:      time.Now().Unix(),
	}
}

