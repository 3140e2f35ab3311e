package scrivener

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models/manuscript"
	"inkwell/internal/richtext"
	"inkwell/internal/stage"
)

// Exporter writes a native project tree out as a version 3 Scrivener
// bundle. Like the Importer, it is stateless across calls.
type Exporter struct {
	logger *slog.Logger
}

func NewExporter(logger *slog.Logger) *Exporter {
	return &Exporter{logger: logger}
}

// Export writes p as a bundle at destPath, appending the .scriv
// extension when absent. The bundle is assembled in a staging directory
// and moved into place in one rename, so an interrupted export never
// leaves a half-written bundle at the destination. An existing bundle at
// destPath is replaced.
func (ex *Exporter) Export(ctx context.Context, p *manuscript.Project, destPath string, progress domain.ProgressFunc) (*domain.Result, error) {
	if progress == nil {
		progress = domain.NopProgress
	}
	progress(0.0, "validating project")

	if err := p.Validate(); err != nil {
		return nil, &domain.ValidationError{Message: err.Error()}
	}
	if !strings.EqualFold(filepath.Ext(destPath), bundleExt) {
		destPath += bundleExt
	}
	ex.logger.Info("starting export", "title", p.Title, "dest", destPath)
	progress(0.05, "assigning identifiers")

	tables := buildExportTables(p)
	progress(0.15, "writing documents")

	staging, err := stage.Begin(destPath)
	if err != nil {
		return nil, err
	}
	defer staging.Abort()

	run := &exportRun{
		staging: staging,
		tables:  tables,
		result:  &domain.Result{},
		logger:  ex.logger,
	}
	for _, root := range p.Roots() {
		run.total += root.CountDocuments()
	}

	base := strings.TrimSuffix(filepath.Base(destPath), bundleExt)
	manifestName := base + manifestExt
	if err := staging.WriteFile(manifestName, []byte(writeManifest(p, tables))); err != nil {
		return nil, err
	}
	if err := staging.WriteFile(filepath.Join(filesDirName, versionFileName), []byte(versionFileContent)); err != nil {
		return nil, err
	}
	if err := staging.MkdirAll(filepath.Join(filesDirName, dataDirName)); err != nil {
		return nil, err
	}

	for _, root := range p.Roots() {
		if err := run.writeFolder(ctx, root, progress); err != nil {
			return nil, err
		}
	}
	progress(0.95, "finalizing bundle")

	if err := staging.Commit(); err != nil {
		return nil, err
	}
	ex.logger.Info("export complete",
		"documents", run.result.DocumentsImported,
		"folders", run.result.FoldersImported,
		"dest", destPath)
	progress(1.0, "complete")
	return run.result, nil
}

// exportRun accumulates the state of one Export call.
type exportRun struct {
	staging *stage.Dir
	tables  *exportTables
	result  *domain.Result
	logger  *slog.Logger

	total int
	done  int
}

func (r *exportRun) writeFolder(ctx context.Context, f *manuscript.Folder, progress domain.ProgressFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.result.FoldersImported++

	for _, doc := range f.SortedDocuments() {
		if err := r.writeDocument(doc); err != nil {
			return err
		}
		r.done++
		if r.total > 0 {
			progress(0.15+0.75*float64(r.done)/float64(r.total), "writing documents")
		}
	}
	for _, sub := range f.Folders {
		if err := r.writeFolder(ctx, sub, progress); err != nil {
			return err
		}
	}
	return nil
}

// writeDocument emits the item's data directory. Content is always
// written, even when empty, so every Text item re-imports with the same
// shape; notes and synopsis files exist only when there is something to
// say.
func (r *exportRun) writeDocument(doc *manuscript.Document) error {
	dir := filepath.Join(filesDirName, dataDirName, r.tables.uuidFor(doc.ID))
	if err := r.staging.WriteFile(filepath.Join(dir, contentFileName), richtext.MarkdownToRTF(doc.Content)); err != nil {
		return err
	}
	if doc.Notes != "" {
		if err := r.staging.WriteFile(filepath.Join(dir, notesFileName), richtext.MarkdownToRTF(doc.Notes)); err != nil {
			return err
		}
	}
	if doc.Synopsis != "" {
		if err := r.staging.WriteFile(filepath.Join(dir, synopsisFileName), []byte(doc.Synopsis)); err != nil {
			return err
		}
	}
	r.result.DocumentsImported++
	return nil
}
