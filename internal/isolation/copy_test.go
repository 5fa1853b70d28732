package isolation

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyCopiesTransformsAndSkips(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()

	writeFile(t, filepath.Join(source, ".env"), "PORT=3000\n")
	writeFile(t, filepath.Join(source, "README.md"), "hello\n")

	// Pre-existing, unchanged-after-transform destination file.
	writeFile(t, filepath.Join(target, "README.md"), "hello\n")

	assignments := []PortAssignment{{VariableName: "PORT", OriginalPort: 3000, AssignedPort: 3100}}
	result := Apply(source, target, []string{"**/*"}, assignments)

	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	if !contains(result.Copied, ".env") {
		t.Errorf("expected .env copied, got %+v", result)
	}
	copiedContent, err := os.ReadFile(filepath.Join(target, ".env"))
	if err != nil {
		t.Fatal(err)
	}
	if string(copiedContent) != "PORT=3100\n" {
		t.Errorf(".env content = %q, want %q", copiedContent, "PORT=3100\n")
	}

	if !contains(result.Skipped, "README.md") {
		t.Errorf("expected README.md skipped (no-op transform on existing file), got %+v", result)
	}
}

func TestApplyEmptyAssignmentsSkipsExisting(t *testing.T) {
	source := t.TempDir()
	target := t.TempDir()
	writeFile(t, filepath.Join(source, "a.txt"), "hello")
	writeFile(t, filepath.Join(target, "a.txt"), "different")

	result := Apply(source, target, []string{"*.txt"}, nil)
	if !contains(result.Skipped, "a.txt") {
		t.Errorf("expected a.txt skipped with empty assignments, got %+v", result)
	}
	content, _ := os.ReadFile(filepath.Join(target, "a.txt"))
	if string(content) != "different" {
		t.Error("destination must not be overwritten when assignments are empty")
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
