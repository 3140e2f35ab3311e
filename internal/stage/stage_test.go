package stage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCommitMovesStagedTree(t *testing.T) {
	base := t.TempDir()
	dest := filepath.Join(base, "out.scriv")

	d, err := Begin(dest)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer d.Abort()

	if err := d.WriteFile(filepath.Join("Files", "Data", "X", "content.rtf"), []byte("hello")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatalf("destination exists before commit")
	}

	if err := d.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dest, "Files", "Data", "X", "content.rtf"))
	if err != nil {
		t.Fatalf("read committed file: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("committed content = %q", data)
	}
	if _, err := os.Stat(dest + ".lock"); !os.IsNotExist(err) {
		t.Errorf("lock file left behind after commit")
	}
}

func TestAbortDiscardsStagedTree(t *testing.T) {
	base := t.TempDir()
	dest := filepath.Join(base, "out.scriv")

	d, err := Begin(dest)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	staged := d.Path()
	if err := d.WriteFile("a.txt", []byte("x")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	d.Abort()

	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("destination exists after abort")
	}
	if _, err := os.Stat(staged); !os.IsNotExist(err) {
		t.Errorf("staging directory survives abort")
	}
}

func TestCommitReplacesExistingDestination(t *testing.T) {
	base := t.TempDir()
	dest := filepath.Join(base, "out.scriv")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dest, "stale.txt"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	d, err := Begin(dest)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer d.Abort()
	if err := d.WriteFile("fresh.txt", []byte("new")); err != nil {
		t.Fatal(err)
	}
	if err := d.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dest, "stale.txt")); !os.IsNotExist(err) {
		t.Errorf("stale file survives replacement")
	}
	if _, err := os.Stat(filepath.Join(dest, "fresh.txt")); err != nil {
		t.Errorf("fresh file missing: %v", err)
	}
}

func TestSecondWriterRejected(t *testing.T) {
	base := t.TempDir()
	dest := filepath.Join(base, "out.scriv")

	d, err := Begin(dest)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	defer d.Abort()

	if _, err := Begin(dest); err == nil {
		t.Fatal("second Begin on a locked destination succeeded")
	}
}

func TestReplaceFileWritesAndOverwrites(t *testing.T) {
	base := t.TempDir()
	dest := filepath.Join(base, "nested", "out.md")

	if err := ReplaceFile(dest, []byte("first")); err != nil {
		t.Fatalf("ReplaceFile: %v", err)
	}
	if err := ReplaceFile(dest, []byte("second")); err != nil {
		t.Fatalf("ReplaceFile overwrite: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(data) != "second" {
		t.Errorf("content = %q, want %q", data, "second")
	}
	if _, err := os.Stat(dest + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind")
	}
}

func TestAbortAfterCommitKeepsDestination(t *testing.T) {
	base := t.TempDir()
	dest := filepath.Join(base, "out.scriv")

	d, err := Begin(dest)
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := d.WriteFile("a.txt", []byte("x")); err != nil {
		t.Fatal(err)
	}
	if err := d.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	d.Abort()

	if _, err := os.Stat(filepath.Join(dest, "a.txt")); err != nil {
		t.Errorf("destination gone after post-commit abort: %v", err)
	}
}
