package gitmodel

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// No go-git/libgit2 binding exists anywhere in the retrieved pack (gitmodel's
// own object/pack/ref reading has no write path), so worktree lifecycle
// mutations shell out to the real `git` binary — the same approach the
// teacher itself uses for quick operations (internal/server/status.go's
// `git diff --stat`). Reads (list) stay pure-Go where practical but parsing
// `git worktree list --porcelain` output is simpler and more robust than
// re-deriving worktree state from linked .git files.

// ListWorktrees implements spec.md §4.5's list_worktrees: the main worktree
// plus every linked worktree, with branch, lock, and validity projected from
// `git worktree list --porcelain`.
func ListWorktrees(repoPath string) ([]WorktreeInfo, error) {
	out, err := runGit(repoPath, "worktree", "list", "--porcelain")
	if err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}
	return parseWorktreePorcelain(out), nil
}

func parseWorktreePorcelain(out string) []WorktreeInfo {
	var result []WorktreeInfo
	var cur *WorktreeInfo

	flush := func() {
		if cur != nil {
			cur.Valid = cur.Path != "" && dirExists(cur.Path)
			cur.Name = filepath.Base(cur.Path)
			result = append(result, *cur)
			cur = nil
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "worktree "):
			flush()
			cur = &WorktreeInfo{Path: strings.TrimPrefix(line, "worktree ")}
		case strings.HasPrefix(line, "branch "):
			if cur != nil {
				cur.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
			}
		case line == "bare":
			if cur != nil {
				cur.IsMain = true
			}
		case line == "locked" || strings.HasPrefix(line, "locked "):
			if cur != nil {
				cur.Locked = true
			}
		case line == "detached":
			if cur != nil {
				cur.Branch = ""
			}
		}
	}
	flush()

	if len(result) > 0 {
		result[0].IsMain = true
	}
	return result
}

// CreateWorktree implements spec.md §6's create_worktree: places the new
// worktree at <repo_parent>/<repo_dir_name>-<name>, refusing if that
// directory already exists. When newBranch is true and the branch does not
// exist yet, it is created from HEAD (`git worktree add -b <branch> <path>`);
// otherwise the named branch is checked out (`git worktree add <path>
// <branch>`), so an existing branch is reused. With no branch, git itself
// chooses (`git worktree add <path>`).
func CreateWorktree(repoPath, name, branch string, newBranch bool) (string, error) {
	absRepo, err := filepath.Abs(repoPath)
	if err != nil {
		return "", fmt.Errorf("resolving repo path: %w", err)
	}
	parent := filepath.Dir(absRepo)
	target := filepath.Join(parent, filepath.Base(absRepo)+"-"+name)

	if dirExists(target) {
		return "", fmt.Errorf("create worktree: target already exists: %s", target)
	}

	branchExists := branch != "" && branchExists(repoPath, branch)

	var args []string
	switch {
	case branch == "":
		args = []string{"worktree", "add", target}
	case newBranch && !branchExists:
		args = []string{"worktree", "add", "-b", branch, target}
	default:
		args = []string{"worktree", "add", target, branch}
	}

	if _, err := runGit(repoPath, args...); err != nil {
		return "", fmt.Errorf("create worktree: %w", err)
	}
	return target, nil
}

// RemoveWorktree implements spec.md §6's remove_worktree: refuses to remove
// a locked worktree, prunes git metadata, then removes the working-tree
// directory if it is still present on disk.
func RemoveWorktree(repoPath, name string) error {
	worktrees, err := ListWorktrees(repoPath)
	if err != nil {
		return fmt.Errorf("remove worktree: %w", err)
	}

	var target *WorktreeInfo
	for i := range worktrees {
		if worktrees[i].Name == name {
			target = &worktrees[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("remove worktree: no such worktree: %s", name)
	}
	if target.Locked {
		return fmt.Errorf("remove worktree: %s is locked", name)
	}

	if _, err := runGit(repoPath, "worktree", "remove", "--force", target.Path); err != nil {
		// Fall back to prune+manual removal if git itself refuses (e.g. the
		// directory was already deleted out from under it).
		if _, pruneErr := runGit(repoPath, "worktree", "prune"); pruneErr != nil {
			return fmt.Errorf("remove worktree: %w (prune also failed: %v)", err, pruneErr)
		}
	}

	if dirExists(target.Path) {
		if err := os.RemoveAll(target.Path); err != nil {
			return fmt.Errorf("remove worktree: removing directory: %w", err)
		}
	}
	return nil
}

// Push implements spec.md §6's push_commits(repo, remote?, branch?).
func Push(repoPath, remote, branch string) error {
	args := []string{"push"}
	if remote != "" {
		args = append(args, remote)
	}
	if branch != "" {
		args = append(args, branch)
	}
	if _, err := runGit(repoPath, args...); err != nil {
		return fmt.Errorf("push: %w", err)
	}
	return nil
}

// WorktreeContext is the projection get_worktree_context(path) returns: what
// worktree (if any) a given filesystem path belongs to.
type WorktreeContext struct {
	Path         string `json:"path"`
	Branch       string `json:"branch"`
	IsMain       bool   `json:"isMain"`
	MainRepoPath string `json:"mainRepoPath"`
}

// GetWorktreeContext implements spec.md §6's get_worktree_context(path):
// opens the repository rooted at path and reports whether it is the main
// working tree or a linked worktree, and if linked, where the main
// repository lives.
func GetWorktreeContext(path string) (*WorktreeContext, error) {
	repo, err := NewRepository(path)
	if err != nil {
		return nil, err
	}

	linkedMarker := filepath.Join(".git", "worktrees")
	idx := strings.Index(repo.GitDir(), linkedMarker)
	if idx < 0 {
		return &WorktreeContext{
			Path:   repo.WorkDir(),
			Branch: strings.TrimPrefix(repo.HeadRef(), "refs/heads/"),
			IsMain: true,
		}, nil
	}

	mainGitDir := repo.GitDir()[:idx+len(".git")]
	return &WorktreeContext{
		Path:         repo.WorkDir(),
		Branch:       strings.TrimPrefix(repo.HeadRef(), "refs/heads/"),
		IsMain:       false,
		MainRepoPath: filepath.Dir(mainGitDir),
	}, nil
}

// ListBranches implements spec.md §6's list_branches(repo).
func ListBranches(repoPath string) ([]string, error) {
	out, err := runGit(repoPath, "for-each-ref", "--format=%(refname:short)", "refs/heads/")
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	var branches []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line != "" {
			branches = append(branches, line)
		}
	}
	return branches, nil
}

func branchExists(repoPath, branch string) bool {
	_, err := runGit(repoPath, "show-ref", "--verify", "--quiet", "refs/heads/"+branch)
	return err == nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}
