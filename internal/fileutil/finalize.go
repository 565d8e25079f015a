// Package fileutil provides atomic file writes.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// TempFile is a temporary file that replaces its target once committed.
type TempFile struct {
	File   *os.File
	Name   string
	target string
}

// CreateTemp creates a temporary file next to target.
// Caller must defer CleanupOnError.
func CreateTemp(target string) (*TempFile, error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return nil, fmt.Errorf("creating temporary file: %w", err)
	}

	return &TempFile{
		File:   tmpFile,
		Name:   tmpFile.Name(),
		target: target,
	}, nil
}

// CleanupOnError closes the temp file and removes it if the write failed.
func (tf *TempFile) CleanupOnError(errp *error) {
	tf.File.Close() //nolint:gosec // best-effort cleanup

	if *errp != nil {
		os.Remove(tf.Name) //nolint:gosec // best-effort cleanup
	}
}

// Commit sets perm on the temporary file and renames it over the target.
// It returns the size of the written file.
func (tf *TempFile) Commit(perm os.FileMode) (int64, error) {
	if err := os.Chmod(tf.Name, perm); err != nil {
		return 0, fmt.Errorf("setting file permissions: %w", err)
	}

	if err := tf.File.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return 0, fmt.Errorf("closing temporary file: %w", err)
	}

	if err := os.Rename(tf.Name, tf.target); err != nil {
		return 0, fmt.Errorf("renaming output file: %w", err)
	}

	info, err := os.Stat(tf.target)
	if err != nil {
		return 0, fmt.Errorf("stat output %q: %w", tf.target, err)
	}

	return info.Size(), nil
}

// WriteFile atomically replaces path with data.
func WriteFile(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := CreateTemp(path)
	if err != nil {
		return err
	}

	defer tmp.CleanupOnError(&err)

	if _, err = tmp.File.Write(data); err != nil {
		return fmt.Errorf("writing %q: %w", path, err)
	}

	if _, err = tmp.Commit(perm); err != nil {
		return err
	}

	return nil
}
