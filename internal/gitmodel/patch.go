package gitmodel

import "fmt"

// RenderPatch flattens a FileDiff's hunks into spec.md §4.5's fixed 3-char
// prefix scheme: each line is prefixed with "+ " (addition), "- " (deletion),
// or "  " (context), with a "@@ -oldStart,oldLines +newStart,newLines @@"
// header line preceding each hunk.
func RenderPatch(fd *FileDiff) string {
	if fd.IsBinary {
		return ""
	}
	out := make([]byte, 0, 256)
	for _, hunk := range fd.Hunks {
		out = append(out, fmt.Sprintf("@@ -%d,%d +%d,%d @@\n",
			hunk.OldStart, hunk.OldLines, hunk.NewStart, hunk.NewLines)...)
		for _, line := range hunk.Lines {
			switch line.Type {
			case LineTypeAddition:
				out = append(out, "+ "...)
			case LineTypeDeletion:
				out = append(out, "- "...)
			default:
				out = append(out, "  "...)
			}
			out = append(out, line.Content...)
			out = append(out, '\n')
		}
	}
	return string(out)
}

// GetCommitDiff implements spec.md §4.5's get_commit_diff: the full set of
// file changes and their rendered patches for a single commit against its
// first parent (or the empty tree for a root commit). cache is optional
// (nil disables caching); when present, results are keyed by commit hash.
func (r *Repository) GetCommitDiff(commit Hash, cache *LRUCache[*CommitDiff]) (*CommitDiff, error) {
	if cache != nil {
		if cd, ok := cache.Get(string(commit)); ok {
			return cd, nil
		}
	}

	c, err := r.GetCommit(commit)
	if err != nil {
		return nil, err
	}

	var oldTree Hash
	if len(c.Parents) > 0 {
		parent, err := r.GetCommit(c.Parents[0])
		if err != nil {
			return nil, fmt.Errorf("resolving parent %s: %w", c.Parents[0], err)
		}
		oldTree = parent.Tree
	}

	entries, err := TreeDiff(r, oldTree, c.Tree, "")
	if err != nil {
		return nil, fmt.Errorf("diffing trees for %s: %w", commit, err)
	}

	result := &CommitDiff{
		CommitHash: commit,
		Entries:    entries,
		Patch:      make(map[string]string, len(entries)),
	}

	for _, e := range entries {
		fd, err := ComputeFileDiff(r, e.OldHash, e.NewHash, e.Path, DefaultContextLines)
		if err != nil {
			// Per spec.md §7, batch operations accumulate rather than abort;
			// a single undiffable file (e.g. corrupt blob) is skipped.
			continue
		}
		result.Patch[e.Path] = RenderPatch(fd)
		result.Stats.FilesChanged++
		for _, hunk := range fd.Hunks {
			for _, line := range hunk.Lines {
				switch line.Type {
				case LineTypeAddition:
					result.Stats.Insertions++
				case LineTypeDeletion:
					result.Stats.Deletions++
				}
			}
		}
	}

	if cache != nil {
		cache.Put(string(commit), result)
	}
	return result, nil
}
