package fileutil_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/idelchi/numcrypt/internal/fileutil"
)

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	if err := os.WriteFile(path, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := fileutil.WriteFile(path, []byte("new content"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if string(got) != "new content" {
		t.Errorf("content = %q", got)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("perm = %o, want 600", perm)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %d entries", len(entries))
	}
}

func TestCleanupOnError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tmp, err := fileutil.CreateTemp(filepath.Join(dir, "target"))
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}

	failure := errors.New("boom")
	tmp.CleanupOnError(&failure)

	if _, err := os.Stat(tmp.Name); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("temporary file still exists: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "target")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("target created despite failure: %v", err)
	}
}
