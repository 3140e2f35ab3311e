package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models/manuscript"
)

// FileImporter assembles loose files into a fresh project draft. Each
// file becomes one document; files that cannot be read or converted are
// skipped with a warning so one bad input never fails the batch.
type FileImporter struct {
	registry *Registry
	logger   *slog.Logger
}

func NewFileImporter(registry *Registry, logger *slog.Logger) *FileImporter {
	return &FileImporter{registry: registry, logger: logger}
}

// CanImport reports whether a converter is registered for the file's
// extension.
func (im *FileImporter) CanImport(filename string) bool {
	return im.registry.Get(filepath.Ext(filename)) != nil
}

// ImportFiles converts each named file and appends the results to the
// draft in argument order. Progress moves monotonically 0.0 through 1.0
// and may be nil.
func (im *FileImporter) ImportFiles(ctx context.Context, title string, paths []string, progress domain.ProgressFunc) (*manuscript.Project, *domain.Result, error) {
	if progress == nil {
		progress = domain.NopProgress
	}
	im.logger.Info("starting file import", "files", len(paths))
	progress(0.0, "converting files")

	project := &manuscript.Project{
		Title: title,
		Draft: &manuscript.Folder{
			ID:    uuid.NewString(),
			Title: "Draft",
			Kind:  manuscript.FolderKindDraft,
		},
	}
	result := &domain.Result{FoldersImported: 1}

	for n, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		im.importOne(ctx, path, project, result)
		progress(float64(n+1)/float64(len(paths)), "converting files")
	}

	im.logger.Info("file import complete",
		"documents", result.DocumentsImported,
		"skipped", result.ItemsSkipped,
		"warnings", len(result.Warnings))
	progress(1.0, "complete")
	return project, result, nil
}

func (im *FileImporter) importOne(ctx context.Context, path string, project *manuscript.Project, result *domain.Result) {
	name := filepath.Base(path)

	if !im.CanImport(name) {
		result.ItemsSkipped++
		result.AddWarning(name, fmt.Sprintf("unsupported file type %q", filepath.Ext(name)), domain.SeverityWarning)
		im.logger.Warn("skipping unsupported file type", "file", name)
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		result.ItemsSkipped++
		result.AddWarning(name, fmt.Sprintf("failed to read file: %v", err), domain.SeverityError)
		im.logger.Warn("failed to read file", "file", name, "error", err)
		return
	}

	markdown, err := im.registry.Convert(ctx, name, content)
	if err != nil {
		result.ItemsSkipped++
		result.AddWarning(name, fmt.Sprintf("failed to convert file: %v", err), domain.SeverityError)
		im.logger.Warn("failed to convert file", "file", name, "error", err)
		return
	}

	doc := &manuscript.Document{
		ID:               uuid.NewString(),
		Title:            documentTitle(name),
		Content:          markdown,
		Order:            len(project.Draft.Documents) + 1,
		IncludeInCompile: true,
	}
	if info, err := os.Stat(path); err == nil {
		doc.CreatedAt = info.ModTime()
	}
	project.Draft.Documents = append(project.Draft.Documents, doc)
	result.DocumentsImported++
}

// documentTitle derives a title from a filename: extension dropped,
// path separators replaced.
func documentTitle(filename string) string {
	base := filepath.Base(filename)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	title = strings.ReplaceAll(title, "/", "-")
	if title == "" {
		return base
	}
	return title
}
