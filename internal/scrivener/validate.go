package scrivener

import (
	"path/filepath"
	"strings"

	"inkwell/internal/domain/models/scrivx"
)

// ValidateBundle runs the pre-flight checks on a bundle path without
// reading any item content: the path must be a directory containing a
// manifest file. Side-effect-free, so callers can probe freely.
func ValidateBundle(path string) error {
	_, err := openBundle(path)
	return err
}

// InspectBundle parses a bundle's manifest into the foreign project tree
// without converting content. The returned project carries the detected
// on-disk layout version.
func InspectBundle(path string) (*scrivx.Project, error) {
	layout, err := openBundle(path)
	if err != nil {
		return nil, err
	}
	p, err := parseManifestFile(layout.manifest)
	if err != nil {
		return nil, err
	}
	p.Version = layout.version
	if p.Title == "" {
		p.Title = strings.TrimSuffix(filepath.Base(path), bundleExt)
	}
	return p, nil
}
