package remote

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kiri-dev/kiri/internal/settings"
	"github.com/kiri-dev/kiri/internal/terminal"
)

// Server is the Remote-Access Server of spec.md §4.3: a singleton that
// transitions Stopped -> Running -> Stopped, matching the RemoteServerState
// entity of spec.md §3.
type Server struct {
	logger     *slog.Logger
	token      *AuthToken
	terminals  *terminal.Manager
	settings   *settings.Store
	registry   WindowRegistry // host collaborator; nil unless wired by the desktop shell
	webFS      fs.FS          // remote UI static assets; nil if unavailable
	statusPoll time.Duration
	rateLimit  struct{ rps, burst int }

	mu         sync.Mutex // serializes start/stop, per spec.md §5
	running    atomic.Bool
	listener   net.Listener
	httpServer *http.Server
	rl         *rateLimiter
	shutdown   chan struct{}
	serveDone  chan struct{}
	clientWg   sync.WaitGroup
}

// Config configures a new Server.
type Config struct {
	Logger         *slog.Logger
	Terminals      *terminal.Manager
	Settings       *settings.Store
	Registry       WindowRegistry // optional; nil means the WS channel self-closes
	WebFS          fs.FS          // optional; nil means static assets are absent
	StatusPoll     time.Duration  // default 2s
	RateLimitRPS   int            // default 10
	RateLimitBurst int            // default 20
}

// NewServer constructs a Server with a fresh auth token, not yet listening.
func NewServer(cfg Config) *Server {
	if cfg.StatusPoll <= 0 {
		cfg.StatusPoll = 2 * time.Second
	}
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 10
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 20
	}

	s := &Server{
		logger:     cfg.Logger,
		token:      NewAuthToken(),
		terminals:  cfg.Terminals,
		settings:   cfg.Settings,
		registry:   cfg.Registry,
		webFS:      cfg.WebFS,
		statusPoll: cfg.StatusPoll,
	}
	s.rateLimit.rps, s.rateLimit.burst = cfg.RateLimitRPS, cfg.RateLimitBurst
	return s
}

// Token returns the current auth token value.
func (s *Server) Token() string {
	return s.token.String()
}

// RegenerateToken replaces the auth token and returns the new value.
func (s *Server) RegenerateToken() string {
	return s.token.Regenerate()
}

// IsRunning reports whether the server is currently serving. Self-heals per
// spec.md §4.3: if the serve goroutine has exited without an explicit Stop,
// the running flag is cleared.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() && s.serveDone != nil {
		select {
		case <-s.serveDone:
			s.running.Store(false)
		default:
		}
	}
	return s.running.Load()
}

// Start binds a TCP listener eagerly (so port-in-use surfaces synchronously)
// then spawns the HTTP server in the background. Only one caller may
// start/stop at a time.
func (s *Server) Start(port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return fmt.Errorf("remote: server already running")
	}
	if port < 0 || port > 65535 {
		return fmt.Errorf("remote: invalid port %d", port)
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("remote: bind: %w", err)
	}

	s.rl = newRateLimiter(s.rateLimit.rps, s.rateLimit.burst, time.Second)
	s.shutdown = make(chan struct{})
	s.serveDone = make(chan struct{})

	const apiWriteDeadline = 30 * time.Second

	gated := http.NewServeMux()
	gated.HandleFunc("/api/health", writeDeadline(apiWriteDeadline, s.handleHealth))
	gated.HandleFunc("/ws", s.rl.middleware(s.handleWebSocket))
	if s.webFS != nil {
		gated.Handle("/", writeDeadline(apiWriteDeadline, http.FileServer(http.FS(s.webFS)).ServeHTTP))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", writeDeadline(apiWriteDeadline, s.handleHealth))
	mux.Handle("/", tokenGate(s.token, gated))

	s.httpServer = &http.Server{
		Handler:      requestLogger(s.logger, mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // long-lived WebSocket connections
		IdleTimeout:  120 * time.Second,
	}

	s.listener = ln
	s.running.Store(true)

	go func() {
		defer close(s.serveDone)
		if err := s.httpServer.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.logger.Error("remote server exited", "err", err)
		}
	}()

	s.logger.Info("remote server started", "addr", ln.Addr().String(), "token", s.token.String())
	return nil
}

// Stop fires the shutdown signal, waits for in-flight connections to
// complete, and clears running state.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running.Load() {
		return nil
	}

	close(s.shutdown)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("remote server shutdown error", "err", err)
	}
	<-s.serveDone

	s.rl.Close()
	s.clientWg.Wait()

	s.running.Store(false)
	s.logger.Info("remote server stopped")
	return nil
}
