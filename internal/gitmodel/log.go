package gitmodel

import (
	"strings"
)

// GetCommitLog implements spec.md §4.5's get_commit_log: walks commits
// reachable from ref (HEAD if empty), paginating with skip/maxCount the way
// CommitLog does, and annotates each with pushed/branch/graph-column.
//
// branch and graphColumn are computed relative to current/base: current
// defaults to HEAD, base to the merge-base of current and the upstream
// tracking ref if one resolves, otherwise to current itself (every commit
// then classifies as "current"). pushed reports whether the commit is an
// ancestor of the single upstream-tracking ref for the current branch, per
// spec.md §9's accepted Open Question (one ref, not "any remote branch").
func (r *Repository) GetCommitLog(ref Hash, skip, maxCount int) []CommitInfo {
	commits := r.CommitLog(ref, skip, maxCount)
	if len(commits) == 0 {
		return nil
	}

	current := ref
	if current == "" {
		current = r.Head()
	}

	upstream := r.upstreamRef(current)
	base := current
	pushedSet := map[Hash]bool{}
	if upstream != "" {
		if mb := r.MergeBase(current, upstream); mb != "" {
			base = mb
		}
		for h := range r.ancestorsPublic(upstream) {
			pushedSet[h] = true
		}
	}

	// graphColumn: commits reachable only from current sit in column 0 (the
	// primary line), commits reachable only from base sit in column 1, and
	// commits reachable from both stay on column 0 since they're shared
	// history both lines pass through.
	result := make([]CommitInfo, 0, len(commits))
	for _, c := range commits {
		branch := BranchCurrent
		if base != current {
			branch = r.ClassifyBranch(c.ID, current, base)
		}
		column := 0
		if branch == BranchBase {
			column = 1
		}

		parents := make([]string, len(c.Parents))
		for i, p := range c.Parents {
			parents[i] = string(p)
		}

		subject, body := splitCommitMessage(c.Message)

		result = append(result, CommitInfo{
			ShortID:      c.ID.Short(),
			FullHash:     string(c.ID),
			Subject:      subject,
			Body:         body,
			Author:       c.Author.Name,
			Email:        c.Author.Email,
			Timestamp:    c.Committer.When.Unix(),
			ParentHashes: parents,
			Pushed:       pushedSet[c.ID],
			Branch:       branch,
			GraphColumn:  column,
		})
	}
	return result
}

// ancestorsPublic exposes the ancestors walk for package-internal callers
// that already hold no lock (GetCommitLog computes its own snapshot above
// MergeBase/ClassifyBranch, which take the lock themselves).
func (r *Repository) ancestorsPublic(start Hash) map[Hash]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ancestors(start)
}

// upstreamRef resolves the single upstream-tracking ref for a local branch
// tip: refs/remotes/origin/<branch>. Only that one ref is consulted; spec.md
// §9's accepted Open Question restricts pushed-detection to one upstream ref
// rather than walking every remote-tracking branch.
func (r *Repository) upstreamRef(branchTip Hash) Hash {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var branchName string
	for ref, hash := range r.refs {
		if hash == branchTip {
			if name, ok := strings.CutPrefix(ref, "refs/heads/"); ok {
				branchName = name
				break
			}
		}
	}
	if branchName == "" {
		return ""
	}

	return r.refs["refs/remotes/origin/"+branchName]
}

// splitCommitMessage splits a raw commit message into its subject (first
// line) and body (the remainder, with the blank separator line stripped).
func splitCommitMessage(msg string) (subject, body string) {
	msg = strings.TrimRight(msg, "\n")
	idx := strings.Index(msg, "\n")
	if idx == -1 {
		return msg, ""
	}
	subject = msg[:idx]
	body = strings.TrimLeft(msg[idx+1:], "\n")
	return subject, body
}
