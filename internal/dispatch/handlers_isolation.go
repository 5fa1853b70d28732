package dispatch

import (
	"context"
	"encoding/json"

	"github.com/kiri-dev/kiri/internal/isolation"
)

func handleDetectPorts(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Dir string `json:"dir"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return isolation.DetectPorts(a.Dir)
}

func handleAllocateWorktreePorts(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Sources       []isolation.PortSource `json:"sources"`
		WorktreeIndex int                    `json:"worktreeIndex"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return isolation.Allocate(a.Sources, a.WorktreeIndex)
}

func handleCopyFilesWithPorts(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Source      string                    `json:"source"`
		Target      string                    `json:"target"`
		Patterns    []string                  `json:"patterns"`
		Assignments []isolation.PortAssignment `json:"assignments"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return isolation.Apply(a.Source, a.Target, a.Patterns, a.Assignments), nil
}

func handleDetectComposeFiles(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Dir string `json:"dir"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return isolation.DetectComposeFiles(a.Dir)
}

func handleApplyComposeIsolation(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Worktree     string                        `json:"worktree"`
		Replacements []isolation.ComposeReplacement `json:"replacements"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	_ = a.Worktree // replacements already carry absolute file paths
	return isolation.ApplyComposeIsolation(a.Replacements), nil
}
