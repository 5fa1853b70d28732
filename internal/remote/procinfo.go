package remote

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// procInfo is one /proc/<pid> row needed for terminal-process enrichment.
type procInfo struct {
	pid  int
	ppid int
	name string
}

// processTable is a per-tick snapshot of every process on the system,
// refreshed once per status tick per spec.md §4.3 ("refreshed once per
// tick, not once per terminal"), grounded on SPEC_FULL.md §4's port of
// remote_access.rs's refreshed_system()/lookup_process_name().
type processTable struct {
	byPid      map[int]procInfo
	childOfPid map[int][]int
}

// readProcessTable scans /proc for every numeric pid directory, parsing
// /proc/<pid>/stat for name and parent pid. Missing or unreadable entries
// (processes that exited mid-scan) are silently skipped.
func readProcessTable() *processTable {
	t := &processTable{byPid: make(map[int]procInfo), childOfPid: make(map[int][]int)}

	entries, err := os.ReadDir("/proc")
	if err != nil {
		return t
	}

	for _, e := range entries {
		pid, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		info, ok := readProcStat(pid)
		if !ok {
			continue
		}
		t.byPid[pid] = info
		t.childOfPid[info.ppid] = append(t.childOfPid[info.ppid], pid)
	}
	return t
}

// readProcStat parses /proc/<pid>/stat's "pid (comm) state ppid ..." format.
// The comm field is parenthesized and may itself contain spaces or
// parentheses, so it is located by the last ')' rather than naive splitting.
func readProcStat(pid int) (procInfo, bool) {
	data, err := os.ReadFile(filepath.Join("/proc", strconv.Itoa(pid), "stat"))
	if err != nil {
		return procInfo{}, false
	}
	line := string(data)

	open := strings.IndexByte(line, '(')
	shut := strings.LastIndexByte(line, ')')
	if open < 0 || shut < 0 || shut <= open {
		return procInfo{}, false
	}
	name := line[open+1 : shut]

	rest := strings.Fields(line[shut+1:])
	if len(rest) < 2 {
		return procInfo{}, false
	}
	ppid, err := strconv.Atoi(rest[1])
	if err != nil {
		return procInfo{}, false
	}
	return procInfo{pid: pid, ppid: ppid, name: name}, true
}

// processName resolves the process name for a shell pid: the first child of
// that pid if one exists, else the shell's own name, matching the original
// implementation's fallback order.
func (t *processTable) processName(shellPid int) string {
	if children, ok := t.childOfPid[shellPid]; ok && len(children) > 0 {
		if child, ok := t.byPid[children[0]]; ok {
			return child.name
		}
	}
	if shell, ok := t.byPid[shellPid]; ok {
		return shell.name
	}
	return ""
}
