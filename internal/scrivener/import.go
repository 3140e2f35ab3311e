package scrivener

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models/manuscript"
	"inkwell/internal/domain/models/scrivx"
	"inkwell/internal/richtext"
)

// largeProjectItems is the binder size above which validation attaches a
// warning. Imports still proceed; the point is to flag pathological
// bundles up front.
const largeProjectItems = 10000

// Importer reads a Scrivener bundle into a native project tree. One
// Importer may serve many calls; all per-run state lives in an importRun.
type Importer struct {
	logger *slog.Logger
}

func NewImporter(logger *slog.Logger) *Importer {
	return &Importer{logger: logger}
}

// Import converts the bundle at path. A fatal error (missing or broken
// manifest, not a directory) aborts with err != nil; per-item failures
// are downgraded to warnings on the result and conversion continues.
// Progress moves monotonically 0.0 through 1.0 and may be nil.
func (im *Importer) Import(ctx context.Context, path string, progress domain.ProgressFunc) (*manuscript.Project, *domain.Result, error) {
	if progress == nil {
		progress = domain.NopProgress
	}
	im.logger.Info("starting import", "path", path)
	progress(0.0, "validating bundle")

	layout, err := openBundle(path)
	if err != nil {
		return nil, nil, err
	}
	progress(0.05, "reading project structure")

	foreign, err := parseManifestFile(layout.manifest)
	if err != nil {
		return nil, nil, err
	}
	foreign.Version = layout.version
	im.logger.Info("parsed manifest",
		"version", foreign.Version.String(),
		"items", foreign.ItemCount(),
		"labels", len(foreign.Labels),
		"statuses", len(foreign.Statuses))

	result := &domain.Result{}
	if n := foreign.ItemCount(); n > largeProjectItems {
		result.AddWarning("", fmt.Sprintf("project has %d binder items, import may be slow", n), domain.SeverityWarning)
	}
	progress(0.15, "converting content")

	project := &manuscript.Project{Title: foreign.Title}
	if project.Title == "" {
		project.Title = strings.TrimSuffix(filepath.Base(path), bundleExt)
	}

	run := &importRun{
		layout:    layout,
		result:    result,
		labelIDs:  make(map[int]string),
		statusIDs: make(map[int]string),
		keywords:  make(map[int]string),
		logger:    im.logger,
	}
	run.convertMetadata(foreign, project)

	roots := flattenRoots(foreign.Items)
	for i, it := range roots {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		if err := run.convertRoot(ctx, it, project); err != nil {
			return nil, nil, err
		}
		progress(0.15+0.75*float64(i+1)/float64(len(roots)), "converting content")
	}
	progress(0.95, "finalizing project")

	if project.Draft == nil {
		project.Draft = &manuscript.Folder{
			ID:    newLocalID(),
			Title: "Draft",
			Kind:  manuscript.FolderKindDraft,
		}
		result.AddWarning("", "bundle has no draft folder, created an empty one", domain.SeverityWarning)
	}
	project.DraftTarget = foreign.Targets.DraftTarget
	project.SessionTarget = foreign.Targets.SessionTarget
	if err := project.Validate(); err != nil {
		return nil, nil, &domain.ValidationError{Message: err.Error()}
	}

	im.logger.Info("import complete",
		"documents", result.DocumentsImported,
		"folders", result.FoldersImported,
		"skipped", result.ItemsSkipped,
		"warnings", len(result.Warnings))
	progress(1.0, "complete")
	return project, result, nil
}

// importRun accumulates the state of one Import call: the bundle layout,
// the result being built, and the foreign-to-local id maps for labels,
// statuses and keywords. Nothing here outlives the call.
type importRun struct {
	layout    *bundleLayout
	result    *domain.Result
	labelIDs  map[int]string
	statusIDs map[int]string
	keywords  map[int]string
	logger    *slog.Logger
}

// convertMetadata builds the local label and status tables and the
// keyword id map. It runs before any tree conversion so document foreign
// keys can be rewritten on the fly.
func (r *importRun) convertMetadata(src *scrivx.Project, dst *manuscript.Project) {
	for _, l := range src.Labels {
		local := manuscript.Label{
			ID:    newLocalID(),
			Name:  l.Name,
			Color: colorNameForLabel(l.Name, l.Color),
		}
		dst.Labels = append(dst.Labels, local)
		r.labelIDs[l.ID] = local.ID
	}
	for _, s := range src.Statuses {
		local := manuscript.Status{ID: newLocalID(), Name: s.Name}
		dst.Statuses = append(dst.Statuses, local)
		r.statusIDs[s.ID] = local.ID
	}
	for _, kw := range src.Keywords {
		r.keywords[kw.ID] = kw.Title
	}
}

// convertRoot routes one top-level binder item. The first draft,
// research and trash folders become the project roots; everything else,
// including extra special folders, lands inside research.
func (r *importRun) convertRoot(ctx context.Context, it *scrivx.BinderItem, dst *manuscript.Project) error {
	switch it.Kind {
	case scrivx.ItemKindDraftFolder:
		if dst.Draft == nil {
			dst.Draft = r.convertFolder(it, manuscript.FolderKindDraft)
			return r.convertChildren(ctx, dst.Draft, it.Children, 0)
		}
	case scrivx.ItemKindResearchFolder:
		if dst.Research == nil {
			dst.Research = r.convertFolder(it, manuscript.FolderKindResearch)
			return r.convertChildren(ctx, dst.Research, it.Children, 0)
		}
	case scrivx.ItemKindTrashFolder:
		if dst.Trash == nil {
			dst.Trash = r.convertFolder(it, manuscript.FolderKindTrash)
			return r.convertChildren(ctx, dst.Trash, it.Children, 0)
		}
	}
	research := r.ensureResearch(dst)
	return r.convertChildren(ctx, research, []*scrivx.BinderItem{it}, len(research.Documents))
}

func (r *importRun) ensureResearch(dst *manuscript.Project) *manuscript.Folder {
	if dst.Research == nil {
		dst.Research = &manuscript.Folder{
			ID:    newLocalID(),
			Title: "Research",
			Kind:  manuscript.FolderKindResearch,
		}
	}
	return dst.Research
}

// convertChildren converts a sibling list into parent. order seeds the
// sibling sort key for documents; folders do not consume order keys.
// Each item resolves to one of four shapes: content only becomes a
// document, children only a folder, both a folder whose own content is
// inserted as its first child document, and neither an empty placeholder
// folder.
func (r *importRun) convertChildren(ctx context.Context, parent *manuscript.Folder, items []*scrivx.BinderItem, order int) error {
	for _, child := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if child.Kind.IsMedia() {
			r.result.ItemsSkipped++
			r.result.AddWarning(child.Title, fmt.Sprintf("%s items are not imported", child.Kind), domain.SeverityInfo)
			r.logger.Info("skipping media item", "title", child.Title, "kind", child.Kind.String())
			continue
		}

		hasContent := child.Kind == scrivx.ItemKindText || fileExists(r.layout.contentPath(child))
		switch scrivx.ClassifyItem(hasContent, len(child.Children) > 0) {
		case scrivx.ShapeDocumentOnly:
			parent.Documents = append(parent.Documents, r.convertDocument(child, order))
			order++
		case scrivx.ShapeBoth:
			sub := r.convertFolder(child, manuscript.FolderKindSub)
			sub.Documents = append(sub.Documents, r.convertDocument(child, 0))
			if err := r.convertChildren(ctx, sub, child.Children, 1); err != nil {
				return err
			}
			parent.Folders = append(parent.Folders, sub)
		default: // folder only, or empty placeholder
			sub := r.convertFolder(child, manuscript.FolderKindSub)
			if err := r.convertChildren(ctx, sub, child.Children, 0); err != nil {
				return err
			}
			parent.Folders = append(parent.Folders, sub)
		}
	}
	return nil
}

func (r *importRun) convertFolder(it *scrivx.BinderItem, kind manuscript.FolderKind) *manuscript.Folder {
	r.result.FoldersImported++
	return &manuscript.Folder{
		ID:        newLocalID(),
		Title:     it.Title,
		CreatedAt: it.Created,
		Kind:      kind,
	}
}

func (r *importRun) convertDocument(it *scrivx.BinderItem, order int) *manuscript.Document {
	doc := &manuscript.Document{
		ID:               newLocalID(),
		Title:            it.Title,
		Content:          r.contentMarkdown(it),
		Notes:            r.notesMarkdown(it),
		Synopsis:         r.readSynopsis(it),
		CreatedAt:        it.Created,
		Order:            order,
		Keywords:         r.keywordTitles(it),
		IncludeInCompile: it.IncludeInCompile,
		TargetWordCount:  it.TargetWordCount,
		IconName:         it.IconName,
	}
	if it.LabelID != nil {
		if local, ok := r.labelIDs[*it.LabelID]; ok {
			doc.LabelID = &local
		}
	}
	if it.StatusID != nil {
		if local, ok := r.statusIDs[*it.StatusID]; ok {
			doc.StatusID = &local
		}
	}
	r.result.DocumentsImported++
	return doc
}

func (r *importRun) contentMarkdown(it *scrivx.BinderItem) string {
	data, err := os.ReadFile(r.layout.contentPath(it))
	if err != nil {
		if it.Kind == scrivx.ItemKindText {
			r.result.AddWarning(it.Title, "content file is missing", domain.SeverityWarning)
		}
		return ""
	}
	return r.decodeRichText(data, it.Title)
}

func (r *importRun) notesMarkdown(it *scrivx.BinderItem) string {
	data, err := os.ReadFile(r.layout.notesPath(it))
	if err != nil {
		// Most items have no notes; absence is not worth a warning.
		return ""
	}
	return r.decodeRichText(data, it.Title)
}

func (r *importRun) readSynopsis(it *scrivx.BinderItem) string {
	data, err := os.ReadFile(r.layout.synopsisPath(it))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// decodeRichText turns one RTF file into Markdown. A failed decode falls
// back to reading the bytes as plain UTF-8 text; bytes that are not even
// that drop the content. Both fallbacks are recorded on the result, so a
// single broken file never aborts the run.
func (r *importRun) decodeRichText(data []byte, itemTitle string) string {
	md, err := richtext.RTFToMarkdown(data)
	if err == nil {
		return md
	}
	r.logger.Warn("rich text decode failed", "title", itemTitle, "error", err)
	if utf8.Valid(data) {
		r.result.AddWarning(itemTitle, "rich text could not be decoded, imported as plain text", domain.SeverityWarning)
		return richtext.CleanupMarkdown(string(data))
	}
	r.result.AddWarning(itemTitle, "rich text could not be decoded, content dropped", domain.SeverityError)
	return ""
}

func (r *importRun) keywordTitles(it *scrivx.BinderItem) []string {
	var out []string
	for _, id := range it.KeywordIDs {
		if title, ok := r.keywords[id]; ok && title != "" {
			out = append(out, title)
		}
	}
	return out
}

// flattenRoots expands Root containers in place of themselves; some
// legacy manifests wrap the entire binder in a single Root item, and the
// special folders must still be found beneath it.
func flattenRoots(items []*scrivx.BinderItem) []*scrivx.BinderItem {
	var out []*scrivx.BinderItem
	for _, it := range items {
		if it.Kind == scrivx.ItemKindRoot {
			out = append(out, flattenRoots(it.Children)...)
			continue
		}
		out = append(out, it)
	}
	return out
}

// newLocalID mints ids for imported items. Imports never reuse foreign
// ids, so merging two imports into one workspace cannot collide.
func newLocalID() string {
	return uuid.NewString()
}
