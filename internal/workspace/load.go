package workspace

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models/manuscript"
)

// Load reads a workspace directory back into a project tree. Every item
// gets a fresh id; labels and statuses that documents reference by name
// but project.yaml does not list are registered on the fly, so a
// hand-edited workspace still loads. Per-file problems become warnings
// on the result and the load continues; only a missing or unparseable
// project manifest is fatal.
func (w *Workspace) Load(ctx context.Context, dir string) (*manuscript.Project, *domain.Result, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, nil, &domain.NotFoundError{Message: fmt.Sprintf("workspace %s does not exist", dir)}
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to stat workspace: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrNotDirectory, dir)
	}

	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("%w in %s", domain.ErrNoManifest, dir)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read project manifest: %w", err)
	}
	var manifest projectManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, nil, fmt.Errorf("failed to parse project manifest: %w", err)
	}

	w.logger.Info("loading workspace", "dir", dir, "title", manifest.Title)

	run := &loadRun{
		project: &manuscript.Project{
			Title:         manifest.Title,
			Author:        manifest.Author,
			DraftTarget:   manifest.DraftTarget,
			SessionTarget: manifest.SessionTarget,
		},
		result:   &domain.Result{},
		labels:   make(map[string]string),
		statuses: make(map[string]string),
		logger:   w.logger,
	}
	for _, l := range manifest.Labels {
		run.labelID(l.Name, l.Color)
	}
	for _, name := range manifest.Statuses {
		run.statusID(name)
	}

	if err := run.loadRoots(ctx, dir); err != nil {
		return nil, nil, err
	}

	if err := run.project.Validate(); err != nil {
		return nil, nil, &domain.ValidationError{Message: err.Error()}
	}
	w.logger.Info("workspace loaded",
		"documents", run.result.DocumentsImported,
		"folders", run.result.FoldersImported,
		"warnings", len(run.result.Warnings))
	return run.project, run.result, nil
}

// loadRun accumulates the state of one Load call: the project being
// built, the result, and the name-to-id tables for labels and statuses.
type loadRun struct {
	project  *manuscript.Project
	result   *domain.Result
	labels   map[string]string
	statuses map[string]string
	logger   *slog.Logger
}

func (r *loadRun) loadRoots(ctx context.Context, dir string) error {
	draftPath := filepath.Join(dir, manuscript.FolderKindDraft.String())
	if dirExists(draftPath) {
		draft, err := r.loadFolder(ctx, draftPath, "Draft", manuscript.FolderKindDraft)
		if err != nil {
			return err
		}
		r.project.Draft = draft
	} else {
		r.project.Draft = &manuscript.Folder{
			ID:    uuid.NewString(),
			Title: "Draft",
			Kind:  manuscript.FolderKindDraft,
		}
		r.result.AddWarning("", "workspace has no draft directory, created an empty one", domain.SeverityWarning)
	}

	researchPath := filepath.Join(dir, manuscript.FolderKindResearch.String())
	if dirExists(researchPath) {
		research, err := r.loadFolder(ctx, researchPath, "Research", manuscript.FolderKindResearch)
		if err != nil {
			return err
		}
		r.project.Research = research
	}

	trashPath := filepath.Join(dir, manuscript.FolderKindTrash.String())
	if dirExists(trashPath) {
		trash, err := r.loadFolder(ctx, trashPath, "Trash", manuscript.FolderKindTrash)
		if err != nil {
			return err
		}
		r.project.Trash = trash
	}
	return nil
}

// loadFolder reads one directory into a folder node: folder.yaml for
// the title, .md files as documents, subdirectories as subfolders. The
// numeric filename prefix orders siblings; unprefixed names sort after
// prefixed ones, lexically.
func (r *loadRun) loadFolder(ctx context.Context, dirPath, fallbackTitle string, kind manuscript.FolderKind) (*manuscript.Folder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dirPath, err)
	}

	folder := &manuscript.Folder{
		ID:    uuid.NewString(),
		Title: fallbackTitle,
		Kind:  kind,
	}
	r.result.FoldersImported++

	var docFiles, subdirs []string
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case strings.HasPrefix(name, "."):
			continue
		case entry.IsDir():
			subdirs = append(subdirs, name)
		case name == folderManifestName:
			r.readFolderManifest(filepath.Join(dirPath, name), folder)
		case strings.EqualFold(filepath.Ext(name), ".md"):
			docFiles = append(docFiles, name)
		default:
			r.result.ItemsSkipped++
			r.logger.Debug("skipping non-markdown file", "file", name, "dir", dirPath)
		}
	}
	sortSiblings(docFiles)
	sortSiblings(subdirs)

	for i, name := range docFiles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r.loadDocument(filepath.Join(dirPath, name), name, i+1, folder)
	}
	for _, name := range subdirs {
		sub, err := r.loadFolder(ctx, filepath.Join(dirPath, name), stripOrderPrefix(name), manuscript.FolderKindSub)
		if err != nil {
			return nil, err
		}
		folder.Folders = append(folder.Folders, sub)
	}
	return folder, nil
}

func (r *loadRun) readFolderManifest(path string, folder *manuscript.Folder) {
	data, err := os.ReadFile(path)
	if err != nil {
		r.result.AddWarning(folder.Title, fmt.Sprintf("failed to read folder manifest: %v", err), domain.SeverityWarning)
		return
	}
	var manifest folderManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		r.result.AddWarning(folder.Title, fmt.Sprintf("invalid folder manifest: %v", err), domain.SeverityWarning)
		return
	}
	if manifest.Title != "" {
		folder.Title = manifest.Title
	}
	folder.CreatedAt = r.parseCreated(manifest.Created, folder.Title)
}

// loadDocument reads one .md file into a document. position is the
// 1-based place in the prefix-sorted sibling listing, used as the order
// when the frontmatter does not carry one.
func (r *loadRun) loadDocument(path, name string, position int, folder *manuscript.Folder) {
	content, err := os.ReadFile(path)
	if err != nil {
		r.result.ItemsSkipped++
		r.result.AddWarning(name, fmt.Sprintf("failed to read file: %v", err), domain.SeverityError)
		return
	}

	baseTitle := stripOrderPrefix(strings.TrimSuffix(name, filepath.Ext(name)))
	doc := &manuscript.Document{
		ID:               uuid.NewString(),
		Title:            baseTitle,
		Order:            position,
		IncludeInCompile: true,
	}

	meta, body, hasMeta := splitFrontmatter(content)
	if hasMeta {
		var fm docFrontmatter
		if err := yaml.Unmarshal(meta, &fm); err != nil {
			r.result.AddWarning(name, fmt.Sprintf("invalid frontmatter, keeping file as plain content: %v", err), domain.SeverityWarning)
			body = string(content)
		} else {
			r.applyFrontmatter(&fm, doc, name)
		}
	}
	doc.Content = strings.TrimRight(body, "\n")

	folder.Documents = append(folder.Documents, doc)
	r.result.DocumentsImported++
}

func (r *loadRun) applyFrontmatter(fm *docFrontmatter, doc *manuscript.Document, name string) {
	if fm.Title != "" {
		doc.Title = fm.Title
	}
	doc.Synopsis = fm.Synopsis
	doc.Notes = fm.Notes
	doc.Keywords = fm.Keywords
	doc.TargetWordCount = fm.Target
	doc.IconName = fm.Icon
	doc.CreatedAt = r.parseCreated(fm.Created, name)
	if fm.Include != nil {
		doc.IncludeInCompile = *fm.Include
	}
	if fm.Order != nil {
		doc.Order = *fm.Order
	}
	if fm.Label != "" {
		id := r.labelID(fm.Label, "")
		doc.LabelID = &id
	}
	if fm.Status != "" {
		id := r.statusID(fm.Status)
		doc.StatusID = &id
	}
}

// labelID resolves a label name to its local id, registering the label
// when project.yaml did not list it.
func (r *loadRun) labelID(name, color string) string {
	if id, ok := r.labels[name]; ok {
		return id
	}
	id := uuid.NewString()
	r.labels[name] = id
	r.project.Labels = append(r.project.Labels, manuscript.Label{ID: id, Name: name, Color: color})
	return id
}

func (r *loadRun) statusID(name string) string {
	if id, ok := r.statuses[name]; ok {
		return id
	}
	id := uuid.NewString()
	r.statuses[name] = id
	r.project.Statuses = append(r.project.Statuses, manuscript.Status{ID: id, Name: name})
	return id
}

func (r *loadRun) parseCreated(value, itemTitle string) time.Time {
	if value == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(createdLayout, value, time.Local)
	if err != nil {
		r.result.AddWarning(itemTitle, fmt.Sprintf("invalid created timestamp %q", value), domain.SeverityWarning)
		return time.Time{}
	}
	return t
}

// sortSiblings orders names by their numeric prefix, prefixed names
// first, ties and the rest lexically.
func sortSiblings(names []string) {
	sort.Slice(names, func(i, j int) bool {
		pi, iok := orderPrefix(names[i])
		pj, jok := orderPrefix(names[j])
		if iok != jok {
			return iok
		}
		if iok && pi != pj {
			return pi < pj
		}
		return names[i] < names[j]
	})
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
