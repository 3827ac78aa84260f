package tempfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateMakesAFileAndRegistersIt(t *testing.T) {
	dir := t.TempDir()
	f, err := Create(dir, "cc-*.s")
	if err != nil {
		t.Fatalf("Create: %s", err)
	}
	defer f.Cleanup()

	if _, err := os.Stat(f.Name); err != nil {
		t.Fatalf("temp file not created: %s", err)
	}
	if filepath.Dir(f.Name) != dir {
		t.Fatalf("temp file created in wrong dir: %s", f.Name)
	}
}

func TestCommitRenamesAndStopsCleanup(t *testing.T) {
	dir := t.TempDir()
	f, err := Create(dir, "cc-*.s")
	if err != nil {
		t.Fatalf("Create: %s", err)
	}

	final := filepath.Join(dir, "out.s")
	if err := f.Commit(final); err != nil {
		t.Fatalf("Commit: %s", err)
	}

	if _, err := os.Stat(final); err != nil {
		t.Fatalf("committed file missing: %s", err)
	}
	if _, err := os.Stat(f.Name); !os.IsNotExist(err) {
		t.Fatalf("original temp name should no longer exist")
	}

	// Cleanup after Commit must be a harmless no-op.
	f.Cleanup()
	if _, err := os.Stat(final); err != nil {
		t.Fatalf("Cleanup after Commit should not remove the committed file: %s", err)
	}
}

func TestCleanupRemovesTheFile(t *testing.T) {
	dir := t.TempDir()
	f, err := Create(dir, "cc-*.s")
	if err != nil {
		t.Fatalf("Create: %s", err)
	}
	f.Cleanup()
	if _, err := os.Stat(f.Name); !os.IsNotExist(err) {
		t.Fatalf("Cleanup should have removed the file")
	}
	// Calling it twice should not panic.
	f.Cleanup()
}
