// Package isolation implements spec.md §4.4's Worktree Isolation Engine:
// detecting ports and compose project names across a worktree's source
// tree, allocating collision-free replacements, and applying them to a
// copy of the tree via one of three text-transform kernels.
//
// Grounded on internal/gitcore/gitignore.go for the glob-pattern-over-a-
// directory-tree shape, and on SPEC_FULL.md §4's port of
// _examples/original_source/compose_isolation.rs for the state machine in
// compose_name.go.
package isolation

// PortSource is one detected port occurrence, per spec.md §4.4.1.
type PortSource struct {
	FilePath     string
	VariableName string
	PortValue    uint16
	LineNumber   int
}

// PortAssignment is one resolved (original -> new) port mapping, per
// spec.md §4.4.2.
type PortAssignment struct {
	VariableName string
	OriginalPort uint16
	AssignedPort uint16
}

// AllocationResult is the outcome of one allocation run.
type AllocationResult struct {
	Assignments []PortAssignment
	Overflowed  []uint16 // original ports that would exceed 65535
}

// ComposeWarning is a non-auto-rewritten compose project-name finding, per
// spec.md §4.4.5 and SPEC_FULL.md §5.
type ComposeWarning struct {
	Type    string // "ContainerName" | "VolumeName"
	Value   string
	Line    int
	Message string
}

// ComposeFileInfo is the detection result for one compose file.
type ComposeFileInfo struct {
	FilePath string
	Name     string // root-level "name:" value, if present
	Warnings []ComposeWarning
}

// ComposeReplacement pairs a compose file with the project name it should
// be rewritten to, per spec.md §6's apply_compose_isolation(worktree,
// replacements[]).
type ComposeReplacement struct {
	FilePath string
	NewName  string
}

// EnvReplacement records one env-kernel substitution, per spec.md §4.4.3.
type EnvReplacement struct {
	VariableName string
	OriginalPort uint16
	NewPort      uint16
	LineNumber   int
}

// CopyResult is the outcome of Apply, per spec.md §4.4.4.
type CopyResult struct {
	Copied      []string
	Skipped     []string
	Transformed []string
	Errors      []string
}
