package scrivener

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"inkwell/internal/domain"
	"inkwell/internal/zipio"
)

// PackageBundle compresses a bundle directory into a single zip archive
// at archivePath, for backups and transfers. Entries are rooted under
// the bundle's own directory name, so unpacking recreates the bundle in
// place. WalkDir visits lexically, which keeps the entry order stable
// across runs.
func PackageBundle(bundlePath, archivePath string) error {
	if err := ValidateBundle(bundlePath); err != nil {
		return err
	}

	root := filepath.Clean(bundlePath)
	prefix := filepath.Base(root)
	w := zipio.NewWriter()

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", rel, err)
		}
		return w.AddEntry(prefix+"/"+filepath.ToSlash(rel), data, true)
	})
	if err != nil {
		return err
	}

	tmp := archivePath + ".tmp"
	if err := os.WriteFile(tmp, w.Finalize(), 0o644); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	if err := os.Rename(tmp, archivePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move archive into place: %w", err)
	}
	return nil
}

// ArchiveHasBundle reports whether the archive carries a bundle
// manifest, distinguishing zipped bundles from plain zips of notes.
func ArchiveHasBundle(archivePath string) (bool, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return false, fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if strings.EqualFold(filepath.Ext(f.Name), manifestExt) {
			return true, nil
		}
	}
	return false, nil
}

// UnpackArchive extracts a zipped bundle into destDir and returns the
// path of the bundle root inside it: the first *.scriv directory, or
// destDir itself when the archive holds the bundle contents directly.
func UnpackArchive(archivePath, destDir string) (string, error) {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if err := extractEntry(f, destDir); err != nil {
			return "", err
		}
	}
	return findBundleRoot(destDir)
}

func extractEntry(f *zip.File, destDir string) error {
	rel := filepath.FromSlash(f.Name)
	if !filepath.IsLocal(rel) {
		return &domain.ValidationError{Message: fmt.Sprintf("archive entry %q escapes the destination", f.Name)}
	}
	target := filepath.Join(destDir, rel)

	if f.FileInfo().IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive entry %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("failed to read archive entry %s: %w", f.Name, err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}
	return nil
}

// findBundleRoot walks the unpacked tree for a *.scriv directory,
// falling back to the destination itself when it already holds a
// manifest.
func findBundleRoot(destDir string) (string, error) {
	var found string
	err := filepath.WalkDir(destDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && strings.EqualFold(filepath.Ext(d.Name()), bundleExt) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if found != "" {
		return found, nil
	}
	if _, err := findManifest(destDir); err != nil {
		return "", err
	}
	return destDir, nil
}
