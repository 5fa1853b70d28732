// Package terminal implements spec.md §4.1's PTY Terminal Manager: creating,
// writing to, resizing, and closing pseudo-terminal-backed shells.
//
// Grounded on rolldone-make-sync's internal/devsync/ptymanager.go and
// localclient/ptylocalbridge.go: a mutex-guarded map[id]*instance, one
// blocking reader goroutine per live terminal, and github.com/creack/pty for
// the actual PTY syscalls, which is the only pack dependency that touches
// pseudo-terminals at all.
package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"

	"github.com/creack/pty"
	"github.com/google/uuid"
)

const (
	defaultCols = 80
	defaultRows = 24
)

// ID is an opaque terminal identifier, a UUID v4 string per spec.md §3.
type ID string

// Output is a chunk of PTY output delivered to a terminal's subscriber.
// Closed is true on the final delivery, when the shell process has exited.
type Output struct {
	ID     ID
	Data   []byte
	Closed bool
}

// instance holds the live state of one spawned shell.
type instance struct {
	id   ID
	cmd  *exec.Cmd
	pty  *os.File
	cwd  string
	cols int
	rows int

	mu     sync.Mutex
	closed bool
}

// Info is a point-in-time snapshot of one terminal, used by the
// Remote-Access Server's StatusUpdate broadcast.
type Info struct {
	ID    ID
	Pid   int
	Cwd   string
	Alive bool
}

// Manager owns every live terminal for this daemon instance. One Manager is
// constructed in cmd/kirid/main.go and threaded into the dispatch layer, the
// same single-component-per-dependency shape the teacher uses for its
// Repository/RepoSession constructors.
type Manager struct {
	logger *slog.Logger

	mu        sync.RWMutex
	terminals map[ID]*instance

	output chan Output
}

// NewManager constructs a Manager. output receives every terminal's PTY
// bytes (and a final Closed=true record on exit); the dispatch/remote layer
// drains it and fans each chunk out to whichever client is attached.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		logger:    logger,
		terminals: make(map[ID]*instance),
		output:    make(chan Output, 256),
	}
}

// Output returns the channel every terminal's PTY bytes are published on.
func (m *Manager) Output() <-chan Output {
	return m.output
}

// Create spawns a new login shell attached to a PTY of the given size,
// defaulting to 80x24 per spec.md §4.1, and starts its reader goroutine.
// cwd defaults to the user's home directory when empty.
func (m *Manager) Create(cwd string, cols, rows int) (ID, error) {
	if cols <= 0 {
		cols = defaultCols
	}
	if rows <= 0 {
		rows = defaultRows
	}

	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/zsh"
	}
	if cwd == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cwd = home
		}
	}
	cmd := exec.Command(shell, "-l")
	if cwd != "" {
		cmd.Dir = cwd
	}
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	f, err := pty.StartWithSize(cmd, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)}) //nolint:gosec // cols/rows are bounds-checked above
	if err != nil {
		return "", fmt.Errorf("terminal: spawning shell: %w", err)
	}

	id := ID(uuid.NewString())
	inst := &instance{id: id, cmd: cmd, pty: f, cwd: cwd, cols: cols, rows: rows}

	m.mu.Lock()
	m.terminals[id] = inst
	m.mu.Unlock()

	m.logger.Info("terminal created", "id", id, "shell", shell, "cwd", cwd, "cols", cols, "rows", rows)
	go m.readLoop(inst)
	return id, nil
}

// readLoop is the one blocking reader goroutine for this terminal's whole
// lifetime — never shared with another terminal's loop, per spec.md §5.
func (m *Manager) readLoop(inst *instance) {
	buf := make([]byte, 4096)
	for {
		n, err := inst.pty.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			m.output <- Output{ID: inst.id, Data: chunk}
		}
		if err != nil {
			break
		}
	}

	m.mu.Lock()
	delete(m.terminals, inst.id)
	m.mu.Unlock()

	inst.mu.Lock()
	inst.closed = true
	inst.mu.Unlock()

	m.logger.Info("terminal closed", "id", inst.id)
	m.output <- Output{ID: inst.id, Closed: true}
}

// Write sends bytes to the terminal's PTY (keystrokes from the client).
func (m *Manager) Write(id ID, data []byte) error {
	inst, err := m.get(id)
	if err != nil {
		return err
	}
	_, err = inst.pty.Write(data)
	if err != nil {
		return fmt.Errorf("terminal: writing to %s: %w", id, err)
	}
	return nil
}

// Resize applies a real PTY resize via pty.Setsize. This is implemented for
// real, unlike the original Rust implementation's no-op stub, per spec.md
// §4.1's explicit resize requirement (SPEC_FULL.md §6's Redesign note).
func (m *Manager) Resize(id ID, cols, rows int) error {
	inst, err := m.get(id)
	if err != nil {
		return err
	}
	if cols <= 0 || rows <= 0 {
		return fmt.Errorf("terminal: invalid size %dx%d", cols, rows)
	}
	if err := pty.Setsize(inst.pty, &pty.Winsize{Cols: uint16(cols), Rows: uint16(rows)}); err != nil { //nolint:gosec // bounds-checked above
		return fmt.Errorf("terminal: resizing %s: %w", id, err)
	}
	inst.mu.Lock()
	inst.cols, inst.rows = cols, rows
	inst.mu.Unlock()
	return nil
}

// Close terminates the terminal's shell process and releases its PTY.
func (m *Manager) Close(id ID) error {
	inst, err := m.get(id)
	if err != nil {
		return err
	}

	inst.mu.Lock()
	already := inst.closed
	inst.closed = true
	inst.mu.Unlock()
	if already {
		return nil
	}

	if inst.cmd.Process != nil {
		_ = inst.cmd.Process.Kill()
	}
	_ = inst.pty.Close()

	m.mu.Lock()
	delete(m.terminals, id)
	m.mu.Unlock()
	return nil
}

// CloseAll terminates every live terminal. Called during daemon shutdown.
func (m *Manager) CloseAll() {
	m.mu.RLock()
	ids := make([]ID, 0, len(m.terminals))
	for id := range m.terminals {
		ids = append(ids, id)
	}
	m.mu.RUnlock()

	for _, id := range ids {
		_ = m.Close(id)
	}
}

// Count returns the number of live terminals.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.terminals)
}

// List returns a snapshot of every live terminal, for the Remote-Access
// Server's per-tick StatusUpdate broadcast.
func (m *Manager) List() []Info {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]Info, 0, len(m.terminals))
	for _, inst := range m.terminals {
		pid := 0
		if inst.cmd.Process != nil {
			pid = inst.cmd.Process.Pid
		}
		inst.mu.Lock()
		alive := !inst.closed
		inst.mu.Unlock()
		infos = append(infos, Info{ID: inst.id, Pid: pid, Cwd: inst.cwd, Alive: alive})
	}
	return infos
}

func (m *Manager) get(id ID) (*instance, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	inst, ok := m.terminals[id]
	if !ok {
		return nil, fmt.Errorf("terminal: not found: %s", id)
	}
	return inst, nil
}
