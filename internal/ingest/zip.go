package ingest

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models/manuscript"
)

// ZipImporter builds a project from an archive of loose files,
// recreating the archive's directory layout as draft subfolders. Files
// with no registered converter are skipped without a warning since
// archives routinely carry images and other assets.
type ZipImporter struct {
	registry *Registry
	logger   *slog.Logger
}

func NewZipImporter(registry *Registry, logger *slog.Logger) *ZipImporter {
	return &ZipImporter{registry: registry, logger: logger}
}

// ImportZip converts every supported entry of the archive at zipPath.
// Entries are visited in archive order; each directory path becomes a
// chain of subfolders under the draft. Progress moves monotonically
// 0.0 through 1.0 and may be nil.
func (im *ZipImporter) ImportZip(ctx context.Context, title, zipPath string, progress domain.ProgressFunc) (*manuscript.Project, *domain.Result, error) {
	if progress == nil {
		progress = domain.NopProgress
	}

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open zip file: %w", err)
	}
	defer zr.Close()

	im.logger.Info("starting zip import", "archive", zipPath, "entries", len(zr.File))
	progress(0.0, "reading archive")

	run := &zipRun{
		importer: im,
		project: &manuscript.Project{
			Title: title,
			Draft: &manuscript.Folder{
				ID:    uuid.NewString(),
				Title: "Draft",
				Kind:  manuscript.FolderKindDraft,
			},
		},
		result:  &domain.Result{FoldersImported: 1},
		folders: make(map[string]*manuscript.Folder),
	}
	run.folders[""] = run.project.Draft

	for n, entry := range zr.File {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if !entry.FileInfo().IsDir() {
			run.importEntry(ctx, entry)
		}
		progress(float64(n+1)/float64(len(zr.File)), "converting files")
	}

	im.logger.Info("zip import complete",
		"documents", run.result.DocumentsImported,
		"folders", run.result.FoldersImported,
		"skipped", run.result.ItemsSkipped,
		"warnings", len(run.result.Warnings))
	progress(1.0, "complete")
	return run.project, run.result, nil
}

// zipRun carries the state of one ImportZip call, most importantly the
// directory-path-to-folder table that keeps sibling folders unique.
type zipRun struct {
	importer *ZipImporter
	project  *manuscript.Project
	result   *domain.Result
	folders  map[string]*manuscript.Folder
}

func (r *zipRun) importEntry(ctx context.Context, entry *zip.File) {
	// Zip entries use forward slashes regardless of OS.
	name := path.Clean(entry.Name)
	if name == "." || name == ".." || strings.HasPrefix(name, "../") {
		r.result.ItemsSkipped++
		r.importer.logger.Warn("skipping unsafe archive path", "entry", entry.Name)
		return
	}

	base := path.Base(name)
	if r.importer.registry.Get(path.Ext(base)) == nil {
		r.result.ItemsSkipped++
		r.importer.logger.Debug("skipping unsupported file type", "entry", name)
		return
	}

	rc, err := entry.Open()
	if err != nil {
		r.result.ItemsSkipped++
		r.result.AddWarning(base, fmt.Sprintf("failed to open archive entry: %v", err), domain.SeverityError)
		r.importer.logger.Warn("failed to open archive entry", "entry", name, "error", err)
		return
	}
	content, err := io.ReadAll(rc)
	rc.Close()
	if err != nil {
		r.result.ItemsSkipped++
		r.result.AddWarning(base, fmt.Sprintf("failed to read archive entry: %v", err), domain.SeverityError)
		r.importer.logger.Warn("failed to read archive entry", "entry", name, "error", err)
		return
	}

	markdown, err := r.importer.registry.Convert(ctx, base, content)
	if err != nil {
		r.result.ItemsSkipped++
		r.result.AddWarning(base, fmt.Sprintf("failed to convert file: %v", err), domain.SeverityError)
		r.importer.logger.Warn("failed to convert archive entry", "entry", name, "error", err)
		return
	}

	folder := r.folderFor(path.Dir(name))
	doc := &manuscript.Document{
		ID:               uuid.NewString(),
		Title:            documentTitle(base),
		Content:          markdown,
		Order:            len(folder.Documents) + 1,
		IncludeInCompile: true,
	}
	if mod := entry.Modified; !mod.IsZero() {
		doc.CreatedAt = mod
	}
	folder.Documents = append(folder.Documents, doc)
	r.result.DocumentsImported++
}

// folderFor returns the draft subfolder for a slash-separated directory
// path, creating the chain on first use. "." and "" mean the draft
// root.
func (r *zipRun) folderFor(dir string) *manuscript.Folder {
	if dir == "." || dir == "/" {
		dir = ""
	}
	if f, ok := r.folders[dir]; ok {
		return f
	}

	parent := r.folderFor(path.Dir(dir))
	f := &manuscript.Folder{
		ID:    uuid.NewString(),
		Title: path.Base(dir),
		Kind:  manuscript.FolderKindSub,
	}
	parent.Folders = append(parent.Folders, f)
	r.folders[dir] = f
	r.result.FoldersImported++
	return f
}
