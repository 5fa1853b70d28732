package fsops

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// ReadDirectory lists the immediate children of path.
func ReadDirectory(path string) ([]FileEntry, error) {
	clean, err := sanitizePath(path)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(clean)
	if err != nil {
		return nil, fmt.Errorf("fsops: read directory: %w", err)
	}

	out := make([]FileEntry, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue // entry vanished between ReadDir and Info; skip rather than fail the whole listing
		}
		out = append(out, FileEntry{
			Name:    e.Name(),
			Path:    filepath.Join(clean, e.Name()),
			IsDir:   e.IsDir(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDir != out[j].IsDir {
			return out[i].IsDir
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// GetHomeDirectory returns the current user's home directory.
func GetHomeDirectory() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("fsops: home directory: %w", err)
	}
	return home, nil
}
