package fsops

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

const filePerm = 0o644

// ReadFile returns path's full contents as a string.
func ReadFile(path string) (string, error) {
	clean, err := sanitizePath(path)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(clean)
	if err != nil {
		return "", fmt.Errorf("fsops: read file: %w", err)
	}
	return string(data), nil
}

// WriteFile overwrites (or creates) path with content.
func WriteFile(path, content string) error {
	clean, err := sanitizePath(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(clean, []byte(content), filePerm); err != nil {
		return fmt.Errorf("fsops: write file: %w", err)
	}
	return nil
}

// DeletePath removes path, recursively if it is a directory.
func DeletePath(path string) error {
	clean, err := sanitizePath(path)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(clean); err != nil {
		return fmt.Errorf("fsops: delete path: %w", err)
	}
	return nil
}

// RevealInFinder opens the host OS's file manager with path selected.
func RevealInFinder(path string) error {
	clean, err := sanitizePath(path)
	if err != nil {
		return err
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", "-R", clean)
	case "windows":
		cmd = exec.Command("explorer", "/select,", clean)
	default:
		cmd = exec.Command("xdg-open", filepath.Dir(clean))
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("fsops: reveal in finder: %w", err)
	}
	return nil
}
