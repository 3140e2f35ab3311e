package workspace

import (
	"context"
	"fmt"
	"path"
	"time"

	"gopkg.in/yaml.v3"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models/manuscript"
	"inkwell/internal/stage"
)

// Save writes the project under dir, replacing any previous workspace
// there. The tree is staged beside the destination and promoted with a
// single rename, so an interrupted save leaves the old workspace
// untouched.
func (w *Workspace) Save(ctx context.Context, project *manuscript.Project, dir string) error {
	if err := project.Validate(); err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	w.logger.Info("saving workspace",
		"dir", dir,
		"documents", project.Draft.CountDocuments(),
		"title", project.Title)

	staging, err := stage.Begin(dir)
	if err != nil {
		return fmt.Errorf("failed to stage workspace: %w", err)
	}
	defer staging.Abort()

	manifest, err := yaml.Marshal(buildProjectManifest(project))
	if err != nil {
		return fmt.Errorf("failed to marshal project manifest: %w", err)
	}
	if err := staging.WriteFile(manifestName, manifest); err != nil {
		return err
	}

	for _, root := range project.Roots() {
		if err := w.saveFolder(ctx, staging, root.Kind.String(), root, project); err != nil {
			return err
		}
	}

	if err := staging.Commit(); err != nil {
		return err
	}
	w.logger.Info("workspace saved", "dir", dir)
	return nil
}

func buildProjectManifest(project *manuscript.Project) *projectManifest {
	m := &projectManifest{
		Title:         project.Title,
		Author:        project.Author,
		DraftTarget:   project.DraftTarget,
		SessionTarget: project.SessionTarget,
	}
	for _, l := range project.Labels {
		m.Labels = append(m.Labels, labelManifest{Name: l.Name, Color: l.Color})
	}
	for _, s := range project.Statuses {
		m.Statuses = append(m.Statuses, s.Name)
	}
	return m
}

// saveFolder writes one folder directory: its folder.yaml, its
// documents in sibling order, then its subfolders. The numeric filename
// prefix keeps a plain directory listing in manuscript order.
func (w *Workspace) saveFolder(ctx context.Context, staging *stage.Dir, rel string, f *manuscript.Folder, project *manuscript.Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	manifest, err := yaml.Marshal(&folderManifest{
		Title:   f.Title,
		Created: formatCreated(f.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal folder manifest: %w", err)
	}
	if err := staging.WriteFile(path.Join(rel, folderManifestName), manifest); err != nil {
		return err
	}

	for i, doc := range f.SortedDocuments() {
		name := fmt.Sprintf("%03d-%s.md", i+1, fileSlug(doc.Title))
		data, err := buildDocFile(documentFrontmatter(doc, project), doc.Content)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", doc.Title, err)
		}
		if err := staging.WriteFile(path.Join(rel, name), data); err != nil {
			return err
		}
	}

	for i, sub := range f.Folders {
		subRel := path.Join(rel, fmt.Sprintf("%03d-%s", i+1, fileSlug(sub.Title)))
		if err := w.saveFolder(ctx, staging, subRel, sub, project); err != nil {
			return err
		}
	}
	return nil
}

func documentFrontmatter(doc *manuscript.Document, project *manuscript.Project) *docFrontmatter {
	include := doc.IncludeInCompile
	order := doc.Order
	fm := &docFrontmatter{
		Title:    doc.Title,
		Synopsis: doc.Synopsis,
		Notes:    doc.Notes,
		Keywords: doc.Keywords,
		Include:  &include,
		Created:  formatCreated(doc.CreatedAt),
		Order:    &order,
		Target:   doc.TargetWordCount,
		Icon:     doc.IconName,
	}
	if doc.LabelID != nil {
		if l, ok := project.LabelByID(*doc.LabelID); ok {
			fm.Label = l.Name
		}
	}
	if doc.StatusID != nil {
		if s, ok := project.StatusByID(*doc.StatusID); ok {
			fm.Status = s.Name
		}
	}
	return fm
}

func formatCreated(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(createdLayout)
}
