package isolation

import (
	"path/filepath"
	"testing"
)

func TestDetectComposeFileNameAndWarnings(t *testing.T) {
	dir := t.TempDir()
	content := `name: myapp  # project name
services:
  web:
    container_name: myapp_web
volumes:
  dbdata:
    name: myapp_dbdata
`
	path := filepath.Join(dir, "docker-compose.yml")
	writeFile(t, path, content)

	infos, err := DetectComposeFiles(dir)
	if err != nil {
		t.Fatalf("DetectComposeFiles: %v", err)
	}
	if len(infos) != 1 {
		t.Fatalf("expected 1 compose file, got %d", len(infos))
	}
	info := infos[0]
	if info.Name != "myapp" {
		t.Errorf("Name = %q, want %q", info.Name, "myapp")
	}

	var sawContainer, sawVolume bool
	for _, w := range info.Warnings {
		if w.Type == "ContainerName" && w.Value == "myapp_web" {
			sawContainer = true
		}
		if w.Type == "VolumeName" && w.Value == "myapp_dbdata" {
			sawVolume = true
		}
	}
	if !sawContainer {
		t.Errorf("missing container_name warning, got %+v", info.Warnings)
	}
	if !sawVolume {
		t.Errorf("missing volume name warning, got %+v", info.Warnings)
	}
}

func TestTransformComposeNamePreservesQuoteAndComment(t *testing.T) {
	content := "name: \"myapp\"  # keep this\nservices:\n  web: {}\n"
	out := TransformComposeName(content, "myapp-feature-x")
	want := "name: \"myapp-feature-x\"  # keep this"
	if !containsLine(out, want) {
		t.Errorf("got:\n%s\nwant line:\n%s", out, want)
	}
}
