// Package workspace persists a project as a directory of markdown files
// so the tree can be inspected and edited with ordinary tools between
// pipeline runs. Documents are .md files with a YAML frontmatter block;
// folders are directories carrying a small folder.yaml manifest; the
// project root holds project.yaml with the title, author, targets and
// the label/status tables. The top-level draft, research and trash
// directories map to the three folder kinds.
//
// Identifiers are process-local and are never written to disk; every
// Load mints fresh ones. Documents reference labels and statuses by
// name, resolved against project.yaml.
package workspace

import (
	"log/slog"
	"strings"
	"unicode"
)

const (
	manifestName       = "project.yaml"
	folderManifestName = "folder.yaml"

	// createdLayout is the frontmatter timestamp format. Local time,
	// no zone, matching how the files are meant to be hand-edited.
	createdLayout = "2006-01-02 15:04:05"
)

// Workspace loads and saves project directories.
type Workspace struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Workspace {
	return &Workspace{logger: logger}
}

// fileSlug makes a title safe to use as a file or directory name.
// Path separators and characters some filesystems reject become
// hyphens; the numeric prefix added by Save keeps sibling names unique,
// so collisions after sanitization are harmless.
func fileSlug(title string) string {
	var b strings.Builder
	for _, r := range title {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r), r < 0x20:
			b.WriteRune('-')
		default:
			b.WriteRune(r)
		}
	}
	slug := strings.TrimFunc(b.String(), func(r rune) bool {
		return unicode.IsSpace(r) || r == '.'
	})
	if runes := []rune(slug); len(runes) > 60 {
		slug = strings.TrimRightFunc(string(runes[:60]), unicode.IsSpace)
	}
	if slug == "" {
		return "untitled"
	}
	return slug
}

// stripOrderPrefix removes the "NNN-" ordering prefix Save puts on
// file and directory names. Names without the prefix pass through.
func stripOrderPrefix(name string) string {
	i := 0
	for i < len(name) && name[i] >= '0' && name[i] <= '9' {
		i++
	}
	if i > 0 && i < len(name) && name[i] == '-' {
		return name[i+1:]
	}
	return name
}

// orderPrefix parses the numeric ordering prefix, ok=false when the
// name has none.
func orderPrefix(name string) (int, bool) {
	i := 0
	n := 0
	for i < len(name) && name[i] >= '0' && name[i] <= '9' {
		n = n*10 + int(name[i]-'0')
		i++
	}
	if i == 0 || i >= len(name) || name[i] != '-' {
		return 0, false
	}
	return n, true
}
