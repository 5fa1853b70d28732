package gitmodel

import "strings"

// GetStatus implements spec.md §4.5's get_status: walks upward from path for
// a .git directory (via NewRepository), enumerates file status including
// untracked files (recursively) but excluding ignored ones, and projects
// each remaining entry into one of {added, modified, deleted, renamed,
// untracked, conflicted}; the ignored kind is never produced. Entries that
// map to no status are dropped.
func GetStatus(path string) (*RepositoryStatus, error) {
	repo, err := NewRepository(path)
	if err != nil {
		return nil, err
	}
	return repo.GetStatus()
}

// GetStatus computes the working tree status of an already-open repository.
func (r *Repository) GetStatus() (*RepositoryStatus, error) {
	raw, err := ComputeWorkingTreeStatus(r)
	if err != nil {
		return nil, err
	}

	ignore := loadIgnoreMatcher(r.WorkDir(), r.GitDir())
	conflicted := r.conflictedPaths()

	// Rename detection: a staged deletion whose blob hash also appears as a
	// staged addition under a different path is a rename, matching the
	// single-hash-match heuristic git itself falls back on without -M.
	deletedByHash := map[Hash]string{}
	addedByHash := map[Hash]string{}
	byPath := map[string]*FileStatus{}
	for i := range raw.Files {
		f := &raw.Files[i]
		byPath[f.Path] = f
	}

	index, _ := ReadIndex(r.GitDir())
	head := map[string]Hash{}
	if headHash := r.Head(); headHash != "" {
		if c, ok := r.commitsMap()[headHash]; ok {
			head, _ = flattenTree(r, c.Tree, "")
		}
	}
	for path, f := range byPath {
		if f.IndexStatus == StatusDeleted {
			if h, ok := head[path]; ok {
				deletedByHash[h] = path
			}
		}
	}
	if index != nil {
		for path, f := range byPath {
			if f.IndexStatus == StatusAdded {
				if e, ok := index.ByPath[path]; ok {
					addedByHash[e.Hash] = path
				}
			}
		}
	}

	renamedNew := map[string]string{} // newPath -> oldPath
	for hash, oldPath := range deletedByHash {
		if newPath, ok := addedByHash[hash]; ok {
			renamedNew[newPath] = oldPath
		}
	}

	entries := make([]StatusEntry, 0, len(raw.Files))
	for _, f := range raw.Files {
		if f.IsUntracked {
			ignored := ignore.isIgnored(f.Path, false)
			for i := 0; !ignored && i < len(f.Path); i++ {
				if f.Path[i] == '/' {
					ignored = ignore.isIgnored(f.Path[:i], true)
				}
			}
			if ignored {
				continue
			}
		}
		if conflicted[f.Path] {
			entries = append(entries, StatusEntry{Path: f.Path, Kind: EntryConflicted})
			continue
		}
		if oldPath, ok := renamedNew[f.Path]; ok {
			entries = append(entries, StatusEntry{Path: f.Path, OldPath: oldPath, Kind: EntryRenamed})
			continue
		}

		switch {
		case f.IsUntracked:
			entries = append(entries, StatusEntry{Path: f.Path, Kind: EntryUntracked})
		case f.IndexStatus == StatusAdded:
			entries = append(entries, StatusEntry{Path: f.Path, Kind: EntryAdded})
		case f.IndexStatus == StatusDeleted || f.WorkStatus == StatusDeleted:
			entries = append(entries, StatusEntry{Path: f.Path, Kind: EntryDeleted})
		case f.IndexStatus == StatusModified || f.WorkStatus == StatusModified:
			entries = append(entries, StatusEntry{Path: f.Path, Kind: EntryModified})
		}
	}

	// Drop the "deleted" half of any pair we reclassified as a rename.
	filtered := entries[:0]
	for _, e := range entries {
		if e.Kind == EntryDeleted {
			isRenameSource := false
			for _, old := range renamedNew {
				if old == e.Path {
					isRenameSource = true
					break
				}
			}
			if isRenameSource {
				continue
			}
		}
		filtered = append(filtered, e)
	}

	branch := ""
	if !r.HeadDetached() {
		branch = strings.TrimPrefix(r.HeadRef(), "refs/heads/")
	}

	return &RepositoryStatus{CurrentBranch: branch, Entries: filtered}, nil
}

// conflictedPaths returns the set of paths that have stage>0 entries in the
// index (an unresolved merge conflict).
func (r *Repository) conflictedPaths() map[string]bool {
	index, err := ReadIndex(r.GitDir())
	if err != nil || index == nil {
		return nil
	}
	conflicted := map[string]bool{}
	for _, e := range index.Entries {
		if e.Stage != 0 {
			conflicted[e.Path] = true
		}
	}
	return conflicted
}
