package fsops

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidatePathRejectsRelativeAndTraversal(t *testing.T) {
	cases := []string{"", "relative/path", "../escape", "/etc/../etc/passwd", "/has\x00null"}
	for _, c := range cases {
		if err := validatePath(c); err == nil {
			t.Errorf("validatePath(%q) = nil, want error", c)
		}
	}
	if err := validatePath("/clean/absolute/path"); err != nil {
		t.Errorf("validatePath(valid) = %v, want nil", err)
	}
}

func TestReadWriteDeleteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")

	if err := WriteFile(path, "hello"); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got != "hello" {
		t.Errorf("ReadFile = %q, want %q", got, "hello")
	}

	if err := DeletePath(path); err != nil {
		t.Fatalf("DeletePath: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected file to be gone after DeletePath")
	}
}

func TestReadDirectorySortsDirsFirst(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "b.txt"), nil, 0o644)
	os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0o644)
	os.Mkdir(filepath.Join(dir, "sub"), 0o755)

	entries, err := ReadDirectory(dir)
	if err != nil {
		t.Fatalf("ReadDirectory: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}
	if !entries[0].IsDir || entries[0].Name != "sub" {
		t.Errorf("expected directory first, got %+v", entries[0])
	}
	if entries[1].Name != "a.txt" || entries[2].Name != "b.txt" {
		t.Errorf("expected alphabetical files after dir, got %q, %q", entries[1].Name, entries[2].Name)
	}
}

func TestCopyPathsToDirectoryAccumulatesErrors(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "dest")
	good := filepath.Join(dir, "good.txt")
	os.WriteFile(good, []byte("x"), 0o644)

	result := CopyPathsToDirectory([]string{good, "relative/bad"}, target)
	if len(result.Copied) != 1 {
		t.Errorf("expected 1 copied file, got %+v", result)
	}
	if len(result.Errors) != 1 {
		t.Errorf("expected 1 error for the bad source, got %+v", result)
	}
}

func TestMovePathRenamesWithinSameFilesystem(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.txt")
	dest := filepath.Join(dir, "b.txt")
	os.WriteFile(src, []byte("content"), 0o644)

	got, err := MovePath(src, dest)
	if err != nil {
		t.Fatalf("MovePath: %v", err)
	}
	if got != dest {
		t.Errorf("MovePath returned %q, want %q", got, dest)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source should no longer exist after move")
	}
}

func TestSearchFilesFindsByName(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "widget_handler.go"), nil, 0o644)
	os.WriteFile(filepath.Join(dir, "other.go"), nil, 0o644)
	os.Mkdir(filepath.Join(dir, "node_modules"), 0o755)
	os.WriteFile(filepath.Join(dir, "node_modules", "widget_handler.go"), nil, 0o644)

	result, err := SearchFiles(dir, "widget", 10)
	if err != nil {
		t.Fatalf("SearchFiles: %v", err)
	}
	if len(result.Matches) != 1 {
		t.Errorf("expected 1 match excluding node_modules, got %+v", result.Matches)
	}
}

func TestSearchContentTruncatesAtMaxResults(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("needle\nneedle\nneedle\n"), 0o644)

	result, err := SearchContent(dir, "needle", 2)
	if err != nil {
		t.Fatalf("SearchContent: %v", err)
	}
	if len(result.Matches) != 2 {
		t.Errorf("expected 2 matches (truncated), got %d", len(result.Matches))
	}
	if !result.Truncated {
		t.Error("expected Truncated = true")
	}
}
