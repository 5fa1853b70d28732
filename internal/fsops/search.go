package fsops

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".hg":          true,
	".svn":         true,
}

// SearchFiles walks root looking for entries whose name contains query
// (case-insensitive), stopping once maxResults matches are found.
func SearchFiles(root, query string, maxResults int) (SearchResult, error) {
	clean, err := sanitizePath(root)
	if err != nil {
		return SearchResult{}, err
	}
	needle := strings.ToLower(query)
	var result SearchResult

	err = filepath.WalkDir(clean, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // unreadable entry; skip rather than abort the scan
		}
		if d.IsDir() && skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		if len(result.Matches) >= maxResults {
			result.Truncated = true
			return filepath.SkipAll
		}
		if strings.Contains(strings.ToLower(d.Name()), needle) {
			result.Matches = append(result.Matches, SearchMatch{Path: path})
		}
		return nil
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

// SearchContent walks root's regular files and returns the first maxResults
// lines containing query (case-insensitive).
func SearchContent(root, query string, maxResults int) (SearchResult, error) {
	clean, err := sanitizePath(root)
	if err != nil {
		return SearchResult{}, err
	}
	needle := strings.ToLower(query)
	var result SearchResult

	err = filepath.WalkDir(clean, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if len(result.Matches) >= maxResults {
			result.Truncated = true
			return filepath.SkipAll
		}
		matchFileContent(path, needle, maxResults, &result)
		return nil
	})
	if err != nil {
		return result, err
	}
	return result, nil
}

func matchFileContent(path, needle string, maxResults int, result *SearchResult) {
	f, err := os.Open(path)
	if err != nil {
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if !strings.Contains(strings.ToLower(line), needle) {
			continue
		}
		result.Matches = append(result.Matches, SearchMatch{Path: path, LineNumber: lineNum, Line: line})
		if len(result.Matches) >= maxResults {
			result.Truncated = true
			return
		}
	}
}
