package isolation

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	rootNameRe      = regexp.MustCompile(`^name:\s*(.*)$`)
	containerNameRe = regexp.MustCompile(`^\s*container_name:\s*(.*)$`)
	topKeyRe        = regexp.MustCompile(`^(\S+):\s*$`)
	volumeNameRe    = regexp.MustCompile(`^\s*name:\s*(.*)$`)
)

// DetectComposeFiles walks root for compose files and reports each one's
// root project name plus container_name/top-level-volumes-name warnings,
// per spec.md §4.4.5. The state machine tracks 2-space-indent top-level
// keys vs. 4-space-indent nested properties (matching
// original_source/compose_isolation.rs's precise indentation discipline,
// per SPEC_FULL.md §4, rather than a simplified regex).
func DetectComposeFiles(root string) ([]ComposeFileInfo, error) {
	var infos []ComposeFileInfo
	err := filepath.Walk(root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return nil //nolint:nilerr
		}
		if info.IsDir() || !isComposeFileName(filepath.Base(path)) {
			return nil
		}
		cfi, err := detectComposeFile(path)
		if err == nil {
			infos = append(infos, cfi)
		}
		return nil
	})
	return infos, err
}

func detectComposeFile(path string) (ComposeFileInfo, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from a caller-controlled tree walk
	if err != nil {
		return ComposeFileInfo{}, err
	}
	defer f.Close()

	info := ComposeFileInfo{FilePath: path}

	inVolumesSection := false
	lineNo := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()

		// Root-level "name:" — column 0, optional quotes, optional trailing
		// comment.
		if m := rootNameRe.FindStringSubmatch(raw); m != nil {
			info.Name = unquoteComposeValue(m[1])
			inVolumesSection = false
			continue
		}

		indent := leadingSpaces(raw)
		trimmed := strings.TrimSpace(raw)

		// A 0-indent "key:" line starts (or ends, if not "volumes") a
		// top-level section.
		if indent == 0 {
			if key := topKeyRe.FindStringSubmatch(trimmed); key != nil {
				inVolumesSection = key[1] == "volumes"
				continue
			}
		}

		if m := containerNameRe.FindStringSubmatch(raw); m != nil {
			info.Warnings = append(info.Warnings, ComposeWarning{
				Type:    "ContainerName",
				Value:   unquoteComposeValue(m[1]),
				Line:    lineNo,
				Message: "container_name is not rewritten automatically; rename it to avoid collisions between worktrees",
			})
			continue
		}

		// Nested "name:" under a 4-space-indented volume entry, only while
		// inside the top-level "volumes:" section.
		if inVolumesSection && indent >= 4 {
			if m := volumeNameRe.FindStringSubmatch(raw); m != nil {
				info.Warnings = append(info.Warnings, ComposeWarning{
					Type:    "VolumeName",
					Value:   unquoteComposeValue(m[1]),
					Line:    lineNo,
					Message: "named volume is not rewritten automatically; rename it to avoid collisions between worktrees",
				})
			}
		}
	}

	return info, scanner.Err()
}

// TransformComposeName rewrites the root-level "name:" line to newName,
// preserving the original quoting style and trailing comment.
func TransformComposeName(content, newName string) string {
	hadTrailingNewline := strings.HasSuffix(content, "\n")
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")

	for i, line := range lines {
		m := rootNameRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		quote, comment := quoteStyleAndComment(m[1])
		lines[i] = "name: " + quote + newName + quote + comment
		break
	}

	out := strings.Join(lines, "\n")
	if hadTrailingNewline {
		out += "\n"
	}
	return out
}

// ApplyComposeIsolation rewrites each replacement's compose file's
// root-level project name in place, per spec.md §6's
// apply_compose_isolation. A missing or unwritable file accumulates into
// Errors rather than aborting the rest, matching the engine's general
// per-item batch policy.
func ApplyComposeIsolation(replacements []ComposeReplacement) CopyResult {
	var result CopyResult
	for _, r := range replacements {
		content, err := os.ReadFile(r.FilePath) //nolint:gosec // caller-controlled worktree path
		if err != nil {
			result.Errors = append(result.Errors, r.FilePath+": "+err.Error())
			continue
		}
		rewritten := TransformComposeName(string(content), r.NewName)
		if rewritten == string(content) {
			result.Skipped = append(result.Skipped, r.FilePath)
			continue
		}
		if err := os.WriteFile(r.FilePath, []byte(rewritten), 0o644); err != nil {
			result.Errors = append(result.Errors, r.FilePath+": "+err.Error())
			continue
		}
		result.Transformed = append(result.Transformed, r.FilePath)
	}
	return result
}

func leadingSpaces(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}

// unquoteComposeValue strips a single matching pair of quotes and any
// trailing "# comment" from a YAML scalar value.
func unquoteComposeValue(v string) string {
	v = stripTrailingComment(v)
	v = strings.TrimSpace(v)
	if len(v) >= 2 {
		if (v[0] == '"' && v[len(v)-1] == '"') || (v[0] == '\'' && v[len(v)-1] == '\'') {
			return v[1 : len(v)-1]
		}
	}
	return v
}

func stripTrailingComment(v string) string {
	if idx := strings.Index(v, "#"); idx >= 0 {
		return strings.TrimSpace(v[:idx])
	}
	return v
}

// quoteStyleAndComment extracts the quote character (or "") and the
// trailing "  # comment" suffix (or "") from a raw name value, so a
// transform can reproduce both exactly.
func quoteStyleAndComment(raw string) (quote, comment string) {
	trimmed := raw
	if idx := strings.Index(trimmed, "#"); idx >= 0 {
		trimmed = strings.TrimRight(trimmed[:idx], " \t")
		comment = raw[len(trimmed):]
		if trimmed == "" {
			comment = " " + comment
		}
	}
	trimmed = strings.TrimSpace(trimmed)
	if len(trimmed) >= 2 && ((trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"') || (trimmed[0] == '\'' && trimmed[len(trimmed)-1] == '\'')) {
		quote = string(trimmed[0])
	}
	return quote, comment
}
