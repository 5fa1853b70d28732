package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kiri-dev/kiri/internal/gitmodel"
)

func handleGetGitStatus(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Path string `json:"path"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return gitmodel.GetStatus(a.Path)
}

func handleGetGitFileStatus(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Repo string `json:"repo"`
		File string `json:"file"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	status, err := gitmodel.GetStatus(a.Repo)
	if err != nil {
		return nil, err
	}
	for _, entry := range status.Entries {
		if entry.Path == a.File || entry.OldPath == a.File {
			return entry, nil
		}
	}
	return gitmodel.StatusEntry{Path: a.File, Kind: ""}, nil
}

func handleGetCommitLog(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Repo string `json:"repo"`
		Max  int    `json:"max"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	repo, err := gitmodel.NewRepository(a.Repo)
	if err != nil {
		return nil, err
	}
	max := a.Max
	if max <= 0 {
		max = 100
	}
	return repo.GetCommitLog(repo.Head(), 0, max), nil
}

func handleGetCommitDiff(d *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Repo string `json:"repo"`
		Hash string `json:"hash"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	repo, err := gitmodel.NewRepository(a.Repo)
	if err != nil {
		return nil, err
	}
	hash, err := gitmodel.NewHash(a.Hash)
	if err != nil {
		return nil, err
	}
	return repo.GetCommitDiff(hash, d.commitDiffCache(a.Repo))
}

func handlePushCommits(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Repo   string `json:"repo"`
		Remote string `json:"remote"`
		Branch string `json:"branch"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return nil, gitmodel.Push(a.Repo, a.Remote, a.Branch)
}

func handleListWorktrees(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Repo string `json:"repo"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return gitmodel.ListWorktrees(a.Repo)
}

func handleCreateWorktree(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Repo      string `json:"repo"`
		Name      string `json:"name"`
		Branch    string `json:"branch"`
		NewBranch bool   `json:"newBranch"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Name == "" {
		return nil, fmt.Errorf("create_worktree: name is required")
	}
	return gitmodel.CreateWorktree(a.Repo, a.Name, a.Branch, a.NewBranch)
}

func handleRemoveWorktree(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Repo string `json:"repo"`
		Name string `json:"name"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return nil, gitmodel.RemoveWorktree(a.Repo, a.Name)
}

func handleGetWorktreeContext(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Path string `json:"path"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return gitmodel.GetWorktreeContext(a.Path)
}

func handleListBranches(_ *Dispatcher, _ context.Context, args json.RawMessage) (any, error) {
	var a struct {
		Repo string `json:"repo"`
	}
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return gitmodel.ListBranches(a.Repo)
}
