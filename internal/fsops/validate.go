// Package fsops implements spec.md §6's filesystem and search Command
// Surface operations: read_directory, read_file, write_file,
// get_home_directory, delete_path, reveal_in_finder,
// copy_paths_to_directory, move_path, search_files, search_content.
//
// Unlike internal/gitmodel's repository-relative paths, fsops operates on
// absolute workstation paths — a user may ask to browse any directory they
// have access to, not just the open project's tree. validatePath therefore
// adapts internal/server/validation.go's discipline to this wider domain:
// it still rejects ".." traversal and null bytes, but allows (and in fact
// requires) an absolute path.
package fsops

import (
	"fmt"
	"path/filepath"
	"strings"
)

// validatePath rejects path arguments that are unsafe to hand to os/io/fs
// calls: empty paths, null bytes, relative paths, and any ".." component
// that could walk outside the path the caller named.
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path must not be empty")
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("path contains null byte")
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %q", path)
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("path contains '..' component")
	}
	return nil
}

// sanitizePath validates path and returns its cleaned form.
func sanitizePath(path string) (string, error) {
	if err := validatePath(path); err != nil {
		return "", err
	}
	cleaned := filepath.Clean(path)
	if strings.Contains(cleaned, "..") {
		return "", fmt.Errorf("path attempts directory traversal")
	}
	return cleaned, nil
}
