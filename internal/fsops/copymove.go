package fsops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"go.uber.org/multierr"
)

// CopyPathsToDirectory copies each of sources into target, preserving each
// source's base name. Per spec.md's propagation policy, a bad source never
// aborts the batch — its error is recorded and the rest proceed.
func CopyPathsToDirectory(sources []string, target string) CopyResult {
	result := CopyResult{}

	cleanTarget, err := sanitizePath(target)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("target: %v", err))
		return result
	}
	if err := os.MkdirAll(cleanTarget, 0o755); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("target: %v", err))
		return result
	}

	for _, src := range sources {
		cleanSrc, err := sanitizePath(src)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", src, err))
			continue
		}
		dest := filepath.Join(cleanTarget, filepath.Base(cleanSrc))
		if err := copyPath(cleanSrc, dest); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", src, err))
			continue
		}
		result.Copied = append(result.Copied, dest)
	}
	return result
}

func copyPath(src, dest string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return copyDir(src, dest)
	}
	return copyFile(src, dest, info.Mode())
}

// copyDir copies every entry of src into dest. A failure on one entry
// doesn't stop the rest of the tree from copying — every entry's error (if
// any) is combined into the single error copyDir returns.
func copyDir(src, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	var combined error
	for _, e := range entries {
		s := filepath.Join(src, e.Name())
		d := filepath.Join(dest, e.Name())
		combined = multierr.Append(combined, copyPath(s, d))
	}
	return combined
}

func copyFile(src, dest string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// MovePath renames source to target, falling back to copy-then-delete when
// the rename crosses a filesystem boundary (os.Rename's EXDEV). Returns the
// final path.
func MovePath(source, target string) (string, error) {
	cleanSrc, err := sanitizePath(source)
	if err != nil {
		return "", err
	}
	cleanTarget, err := sanitizePath(target)
	if err != nil {
		return "", err
	}

	err = os.Rename(cleanSrc, cleanTarget)
	if err == nil {
		return cleanTarget, nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return "", fmt.Errorf("fsops: move path: %w", err)
	}

	if err := copyPath(cleanSrc, cleanTarget); err != nil {
		return "", fmt.Errorf("fsops: move path: %w", err)
	}
	if err := os.RemoveAll(cleanSrc); err != nil {
		return "", fmt.Errorf("fsops: move path: cleanup source: %w", err)
	}
	return cleanTarget, nil
}
