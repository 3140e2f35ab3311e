package scrivener

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models/scrivx"
)

const (
	legacyManifestName = "project.scrivx"
	manifestExt        = ".scrivx"
	bundleExt          = ".scriv"

	filesDirName = "Files"
	docsDirName  = "Docs"
	dataDirName  = "Data"
)

const (
	versionFileName    = "version.txt"
	versionFileContent = "16"

	contentFileName  = "content.rtf"
	notesFileName    = "notes.rtf"
	synopsisFileName = "synopsis.txt"
)

// bundleLayout ties a bundle directory to its manifest file and detected
// on-disk format version.
type bundleLayout struct {
	root     string
	manifest string
	version  scrivx.FormatVersion
}

// openBundle validates that path is a readable bundle directory and
// locates its manifest. The checks are side-effect-free.
func openBundle(path string) (*bundleLayout, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &domain.NotFoundError{Message: fmt.Sprintf("bundle %s does not exist", path)}
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotDirectory, path)
	}

	manifest, err := findManifest(path)
	if err != nil {
		return nil, err
	}

	version := scrivx.FormatV3
	if dirExists(filepath.Join(path, filesDirName, docsDirName)) &&
		!dirExists(filepath.Join(path, filesDirName, dataDirName)) {
		version = scrivx.FormatV2
	}

	return &bundleLayout{root: path, manifest: manifest, version: version}, nil
}

// findManifest prefers the legacy fixed name and otherwise accepts any
// *.scrivx file, smallest name first so the choice is deterministic.
func findManifest(root string) (string, error) {
	legacy := filepath.Join(root, legacyManifestName)
	if fileExists(legacy) {
		return legacy, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return "", fmt.Errorf("failed to read bundle directory: %w", err)
	}
	var candidates []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), manifestExt) {
			candidates = append(candidates, e.Name())
		}
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w in %s", domain.ErrNoManifest, root)
	}
	sort.Strings(candidates)
	return filepath.Join(root, candidates[0]), nil
}

// itemKey is the name that ties a binder item to its files on disk: the
// UUID directory for v3, the integer id for v2.
func (b *bundleLayout) itemKey(it *scrivx.BinderItem) string {
	if b.version == scrivx.FormatV3 && it.UUID != "" {
		return it.UUID
	}
	return it.ID
}

func (b *bundleLayout) contentPath(it *scrivx.BinderItem) string {
	if b.version == scrivx.FormatV2 {
		return filepath.Join(b.root, filesDirName, docsDirName, b.itemKey(it)+".rtf")
	}
	return filepath.Join(b.root, filesDirName, dataDirName, b.itemKey(it), contentFileName)
}

func (b *bundleLayout) notesPath(it *scrivx.BinderItem) string {
	if b.version == scrivx.FormatV2 {
		return filepath.Join(b.root, filesDirName, docsDirName, b.itemKey(it)+"_notes.rtf")
	}
	return filepath.Join(b.root, filesDirName, dataDirName, b.itemKey(it), notesFileName)
}

func (b *bundleLayout) synopsisPath(it *scrivx.BinderItem) string {
	if b.version == scrivx.FormatV2 {
		return filepath.Join(b.root, filesDirName, docsDirName, b.itemKey(it)+"_synopsis.txt")
	}
	return filepath.Join(b.root, filesDirName, dataDirName, b.itemKey(it), synopsisFileName)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
