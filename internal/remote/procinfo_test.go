package remote

import "testing"

func TestReadProcessTableIncludesSelf(t *testing.T) {
	table := readProcessTable()
	if len(table.byPid) == 0 {
		t.Fatal("expected readProcessTable to find at least one /proc entry")
	}
}

func TestProcessNamePrefersFirstChild(t *testing.T) {
	table := &processTable{
		byPid: map[int]procInfo{
			1: {pid: 1, ppid: 0, name: "shell"},
			2: {pid: 2, ppid: 1, name: "child"},
		},
		childOfPid: map[int][]int{1: {2}},
	}

	if got := table.processName(1); got != "child" {
		t.Errorf("processName(1) = %q, want %q", got, "child")
	}
}

func TestProcessNameFallsBackToShell(t *testing.T) {
	table := &processTable{
		byPid:      map[int]procInfo{1: {pid: 1, ppid: 0, name: "shell"}},
		childOfPid: map[int][]int{},
	}

	if got := table.processName(1); got != "shell" {
		t.Errorf("processName(1) = %q, want %q", got, "shell")
	}
}

func TestProcessNameUnknownPidReturnsEmpty(t *testing.T) {
	table := &processTable{byPid: map[int]procInfo{}, childOfPid: map[int][]int{}}
	if got := table.processName(9999); got != "" {
		t.Errorf("processName(unknown) = %q, want empty", got)
	}
}
