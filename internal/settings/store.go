// Package settings provides read-only access to kiri-settings.json, the
// desktop shell's persisted recent-projects list. spec.md §6 names the file
// and wire shape; the read-only, filter-already-open behavior is carried
// forward from _examples/original_source/'s remote_access.rs
// load_recent_projects, which spec.md's distillation dropped.
package settings

import (
	"encoding/json"
	"log/slog"
	"os"
	"time"
)

// RecentProject is one entry of the persisted recentProjects array.
type RecentProject struct {
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	LastOpened time.Time `json:"lastOpened"`
	GitBranch  string    `json:"gitBranch"`
}

type fileShape struct {
	RecentProjects []RecentProject `json:"recentProjects"`
}

// Store reads kiri-settings.json on demand. It never writes the file.
type Store struct {
	path   string
	logger *slog.Logger
}

// NewStore constructs a Store bound to path. The file need not exist yet;
// RecentProjects returns an empty slice until it does.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// RecentProjects returns the persisted recent projects, excluding any whose
// path is currently open (open is a set of canonical paths), matching the
// original implementation's filter-already-open behavior.
func (s *Store) RecentProjects(open map[string]bool) []RecentProject {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read settings file", "path", s.path, "err", err)
		}
		return nil
	}

	var shape fileShape
	if err := json.Unmarshal(data, &shape); err != nil {
		s.logger.Warn("failed to parse settings file", "path", s.path, "err", err)
		return nil
	}

	if len(open) == 0 {
		return shape.RecentProjects
	}

	filtered := make([]RecentProject, 0, len(shape.RecentProjects))
	for _, p := range shape.RecentProjects {
		if open[p.Path] {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}
