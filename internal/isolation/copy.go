package isolation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentCopies bounds how many files Apply transforms at once — a
// worktree can carry thousands of matched files, and copying/transforming
// them is I/O-bound enough that a bounded fan-out is worth it.
const maxConcurrentCopies = 8

type kernel int

const (
	kernelEnv kernel = iota
	kernelCompose
	kernelGeneric
)

// classifyFile implements spec.md §4.4.3's file classification rules.
func classifyFile(path string) kernel {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".env") {
		return kernelEnv
	}
	if isComposeFileName(base) {
		return kernelCompose
	}
	return kernelGeneric
}

// runKernel applies the file's classified kernel to content.
func runKernel(path, content string, assignments map[uint16]uint16) string {
	switch classifyFile(path) {
	case kernelEnv:
		out, _ := transformEnv(content, assignments)
		return out
	case kernelCompose:
		return transformCompose(content, assignments)
	default:
		return transformGeneric(content, assignments)
	}
}

// Apply implements spec.md §4.4.4: for every file matched by patterns
// (glob, relative to sourceRoot — directories match recursively), copy or
// transform it into targetRoot. A failed glob pattern is recorded as one
// error and does not abort the others.
func Apply(sourceRoot, targetRoot string, patterns []string, assignments []PortAssignment) CopyResult {
	var (
		result CopyResult
		mu     sync.Mutex
	)
	assignMap := assignmentMap(assignments)

	var allMatches []string
	for _, pattern := range patterns {
		matches, err := matchFiles(sourceRoot, pattern)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("pattern %q: %v", pattern, err))
			continue
		}
		allMatches = append(allMatches, matches...)
	}

	var g errgroup.Group
	g.SetLimit(maxConcurrentCopies)
	for _, rel := range allMatches {
		rel := rel
		g.Go(func() error {
			var local CopyResult
			applyOne(sourceRoot, targetRoot, rel, assignMap, &local)
			mu.Lock()
			result.Copied = append(result.Copied, local.Copied...)
			result.Skipped = append(result.Skipped, local.Skipped...)
			result.Transformed = append(result.Transformed, local.Transformed...)
			result.Errors = append(result.Errors, local.Errors...)
			mu.Unlock()
			return nil // per-file errors accumulate in result; never abort the batch
		})
	}
	_ = g.Wait()
	return result
}

// matchFiles resolves pattern (relative to root, "**"-capable) to every
// matched file, expanding matched directories recursively.
func matchFiles(root, pattern string) ([]string, error) {
	var matched []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr // unreadable entries are skipped
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if !matchGlob(pattern, rel) {
			return nil
		}
		if info.IsDir() {
			_ = filepath.Walk(path, func(innerPath string, innerInfo os.FileInfo, innerErr error) error {
				if innerErr != nil || innerInfo.IsDir() {
					return nil //nolint:nilerr
				}
				innerRel, err := filepath.Rel(root, innerPath)
				if err == nil {
					matched = append(matched, filepath.ToSlash(innerRel))
				}
				return nil
			})
			return nil
		}
		matched = append(matched, rel)
		return nil
	})
	return matched, err
}

func applyOne(sourceRoot, targetRoot, rel string, assignments map[uint16]uint16, result *CopyResult) {
	src := filepath.Join(sourceRoot, filepath.FromSlash(rel))
	dst := filepath.Join(targetRoot, filepath.FromSlash(rel))

	if _, err := os.Stat(dst); err == nil {
		if len(assignments) == 0 {
			result.Skipped = append(result.Skipped, rel)
			return
		}

		original, err := os.ReadFile(dst) //nolint:gosec // dst is derived from a caller-controlled root join
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: read destination: %v", rel, err))
			return
		}
		transformed := runKernel(dst, string(original), assignments)
		if transformed == string(original) {
			result.Skipped = append(result.Skipped, rel)
			return
		}
		if err := os.WriteFile(dst, []byte(transformed), 0o644); err != nil { //nolint:gosec // matches source perms convention
			result.Errors = append(result.Errors, fmt.Sprintf("%s: write destination: %v", rel, err))
			return
		}
		result.Transformed = append(result.Transformed, rel)
		return
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil { //nolint:gosec // directory, not secret data
		result.Errors = append(result.Errors, fmt.Sprintf("%s: mkdir: %v", rel, err))
		return
	}

	raw, err := os.ReadFile(src) //nolint:gosec // src is derived from a caller-controlled root join
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("%s: read source: %v", rel, err))
		return
	}

	out := raw
	if len(assignments) > 0 {
		out = []byte(runKernel(src, string(raw), assignments))
	}
	if err := os.WriteFile(dst, out, 0o644); err != nil { //nolint:gosec // matches source perms convention
		result.Errors = append(result.Errors, fmt.Sprintf("%s: write destination: %v", rel, err))
		return
	}
	result.Copied = append(result.Copied, rel)
}
