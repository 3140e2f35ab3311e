// Package stage builds filesystem artifacts in a throwaway directory
// and promotes them to their destination with one rename, so a crash or
// cancellation mid-write never leaves a half-written artifact in place.
// The rename is the only step that must be atomic.
package stage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Dir is one in-progress staging area tied to a destination path. Use
// Begin, write files, then Commit; Abort is safe to defer because it
// does nothing after a successful Commit.
type Dir struct {
	path      string
	dest      string
	lock      *flock.Flock
	committed bool
}

// Begin creates a staging directory beside dest, on the same filesystem
// so the final rename cannot degrade into a copy. An exclusive lock on
// the destination makes a second concurrent writer fail fast instead of
// corrupting the artifact.
func Begin(dest string) (*Dir, error) {
	parent := filepath.Dir(dest)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create destination parent: %w", err)
	}

	lock := flock.New(dest + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock destination: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("destination %s is being written by another process", dest)
	}

	tmp, err := os.MkdirTemp(parent, ".staging-*")
	if err != nil {
		releaseLock(lock)
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return &Dir{path: tmp, dest: dest, lock: lock}, nil
}

// Path returns the staging directory root.
func (d *Dir) Path() string {
	return d.path
}

// WriteFile writes data under the staging root, creating any parent
// directories. rel must be a relative path.
func (d *Dir) WriteFile(rel string, data []byte) error {
	full := filepath.Join(d.path, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", rel, err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", rel, err)
	}
	return nil
}

// MkdirAll creates an empty directory under the staging root.
func (d *Dir) MkdirAll(rel string) error {
	if err := os.MkdirAll(filepath.Join(d.path, rel), 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", rel, err)
	}
	return nil
}

// Commit replaces the destination with the staged tree. An existing
// destination is removed first; the rename itself is the atomic step.
func (d *Dir) Commit() error {
	if d.committed {
		return fmt.Errorf("staging directory already committed")
	}
	if err := os.RemoveAll(d.dest); err != nil {
		return fmt.Errorf("failed to remove existing destination: %w", err)
	}
	if err := os.Rename(d.path, d.dest); err != nil {
		return fmt.Errorf("failed to move staged tree into place: %w", err)
	}
	d.committed = true
	releaseLock(d.lock)
	return nil
}

// Abort discards the staged tree. After Commit it only releases
// bookkeeping, so deferring Abort alongside a conditional Commit is the
// intended usage.
func (d *Dir) Abort() {
	if d.committed {
		return
	}
	d.committed = true
	os.RemoveAll(d.path)
	releaseLock(d.lock)
}

func releaseLock(l *flock.Flock) {
	_ = l.Unlock()
	_ = os.Remove(l.Path())
}

// ReplaceFile writes a single file through a temp sibling and a rename,
// the file counterpart of the directory staging above. dest keeps its
// old contents if the write fails partway.
func ReplaceFile(dest string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create destination parent: %w", err)
	}
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move %s into place: %w", dest, err)
	}
	return nil
}
