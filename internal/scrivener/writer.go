package scrivener

import (
	"fmt"
	"strings"
	"time"

	"inkwell/internal/domain/models/manuscript"
	"inkwell/internal/domain/models/scrivx"
)

// writeManifest renders a project as a version 3 manifest document.
// Section order is fixed: Binder, then Collections, Keywords,
// SectionTypes, LabelSettings, StatusSettings, ProjectTargets,
// RecentWritingHistory, PrintSettings. Scrivener tolerates reordering,
// but a fixed order keeps two exports of the same tree identical apart
// from the generated UUIDs.
//
// Integer item ids count from 1 in the same pre-order walk that
// buildExportTables used for UUID assignment, so both id schemes name
// items consistently.
func writeManifest(p *manuscript.Project, tables *exportTables) string {
	w := &manifestWriter{project: p, tables: tables, nextID: 1}

	w.line(`<?xml version="1.0" encoding="UTF-8"?>`)
	w.line(`<ScrivenerProject Title="%s" Version="2.0" Creator="Inkwell">`, escapeXML(p.Title))
	w.depth++
	w.writeBinder()
	w.line(`<Collections/>`)
	w.writeKeywords()
	w.line(`<SectionTypes/>`)
	w.writeLabelSettings()
	w.writeStatusSettings()
	w.writeProjectTargets()
	w.line(`<RecentWritingHistory/>`)
	w.line(`<PrintSettings/>`)
	w.depth--
	w.line(`</ScrivenerProject>`)

	return w.buf.String()
}

type manifestWriter struct {
	buf     strings.Builder
	project *manuscript.Project
	tables  *exportTables
	nextID  int
	depth   int
}

func (w *manifestWriter) line(format string, args ...any) {
	for i := 0; i < w.depth; i++ {
		w.buf.WriteString("    ")
	}
	if len(args) == 0 {
		w.buf.WriteString(format)
	} else {
		fmt.Fprintf(&w.buf, format, args...)
	}
	w.buf.WriteByte('\n')
}

func (w *manifestWriter) writeBinder() {
	w.line(`<Binder>`)
	w.depth++
	for _, root := range w.project.Roots() {
		w.writeFolder(root)
	}
	w.depth--
	w.line(`</Binder>`)
}

func (w *manifestWriter) writeFolder(f *manuscript.Folder) {
	id := w.nextID
	w.nextID++

	w.line(`<BinderItem ID="%d" UUID="%s" Type="%s"%s>`,
		id, w.tables.uuidFor(f.ID), folderKindName(f.Kind), dateAttrs(f.CreatedAt))
	w.depth++
	w.line(`<Title>%s</Title>`, escapeXML(f.Title))

	docs := f.SortedDocuments()
	if len(docs) > 0 || len(f.Folders) > 0 {
		w.line(`<Children>`)
		w.depth++
		for _, doc := range docs {
			w.writeDocument(doc)
		}
		for _, sub := range f.Folders {
			w.writeFolder(sub)
		}
		w.depth--
		w.line(`</Children>`)
	}

	w.depth--
	w.line(`</BinderItem>`)
}

func (w *manifestWriter) writeDocument(doc *manuscript.Document) {
	id := w.nextID
	w.nextID++

	w.line(`<BinderItem ID="%d" UUID="%s" Type="Text"%s>`,
		id, w.tables.uuidFor(doc.ID), dateAttrs(doc.CreatedAt))
	w.depth++
	w.line(`<Title>%s</Title>`, escapeXML(doc.Title))
	w.line(`<MetaData>`)
	w.depth++
	w.line(`<IncludeInCompile>%s</IncludeInCompile>`, yesNo(doc.IncludeInCompile))
	if doc.LabelID != nil {
		w.line(`<LabelID>%d</LabelID>`, w.tables.labelIDFor(*doc.LabelID))
	}
	if doc.StatusID != nil {
		w.line(`<StatusID>%d</StatusID>`, w.tables.statusIDFor(*doc.StatusID))
	}
	if doc.TargetWordCount > 0 {
		w.line(`<TargetWordCount>%d</TargetWordCount>`, doc.TargetWordCount)
	}
	if doc.IconName != "" {
		w.line(`<IconFileName>%s</IconFileName>`, escapeXML(doc.IconName))
	}
	if len(doc.Keywords) > 0 {
		w.line(`<Keywords>`)
		w.depth++
		for _, kw := range doc.Keywords {
			w.line(`<KeywordID>%d</KeywordID>`, w.tables.keywordIDFor(kw))
		}
		w.depth--
		w.line(`</Keywords>`)
	}
	w.depth--
	w.line(`</MetaData>`)
	w.depth--
	w.line(`</BinderItem>`)
}

// writeKeywords emits the project keyword table in sorted order, with
// palette colors cycling by index.
func (w *manifestWriter) writeKeywords() {
	if len(w.tables.keywords) == 0 {
		w.line(`<Keywords/>`)
		return
	}
	w.line(`<Keywords>`)
	w.depth++
	for i, kw := range w.tables.keywords {
		color := keywordPalette[i%len(keywordPalette)]
		w.line(`<Keyword ID="%d">`, w.tables.keywordIDFor(kw))
		w.depth++
		w.line(`<Title>%s</Title>`, escapeXML(kw))
		w.line(`<Color>%s</Color>`, formatColor(color))
		w.depth--
		w.line(`</Keyword>`)
	}
	w.depth--
	w.line(`</Keywords>`)
}

func (w *manifestWriter) writeLabelSettings() {
	w.line(`<LabelSettings>`)
	w.depth++
	w.line(`<Title>Label</Title>`)
	w.line(`<DefaultLabelID>-1</DefaultLabelID>`)
	if len(w.project.Labels) == 0 {
		w.line(`<Labels/>`)
	} else {
		w.line(`<Labels>`)
		w.depth++
		for _, l := range w.project.Labels {
			w.line(`<Label ID="%d" Color="%s">%s</Label>`,
				w.tables.labelIDFor(l.ID), formatColor(swatchColor(l.Color)), escapeXML(l.Name))
		}
		w.depth--
		w.line(`</Labels>`)
	}
	w.depth--
	w.line(`</LabelSettings>`)
}

func (w *manifestWriter) writeStatusSettings() {
	w.line(`<StatusSettings>`)
	w.depth++
	w.line(`<Title>Status</Title>`)
	w.line(`<DefaultStatusID>-1</DefaultStatusID>`)
	if len(w.project.Statuses) == 0 {
		w.line(`<StatusItems/>`)
	} else {
		w.line(`<StatusItems>`)
		w.depth++
		for _, s := range w.project.Statuses {
			w.line(`<Status ID="%d">%s</Status>`, w.tables.statusIDFor(s.ID), escapeXML(s.Name))
		}
		w.depth--
		w.line(`</StatusItems>`)
	}
	w.depth--
	w.line(`</StatusSettings>`)
}

func (w *manifestWriter) writeProjectTargets() {
	w.line(`<ProjectTargets>`)
	w.depth++
	w.line(`<DraftTarget>%d</DraftTarget>`, w.project.DraftTarget)
	w.line(`<SessionTarget>%d</SessionTarget>`, w.project.SessionTarget)
	w.depth--
	w.line(`</ProjectTargets>`)
}

func folderKindName(kind manuscript.FolderKind) string {
	switch kind {
	case manuscript.FolderKindDraft:
		return scrivx.ItemKindDraftFolder.String()
	case manuscript.FolderKindResearch:
		return scrivx.ItemKindResearchFolder.String()
	case manuscript.FolderKindTrash:
		return scrivx.ItemKindTrashFolder.String()
	default:
		return scrivx.ItemKindFolder.String()
	}
}

// dateAttrs renders the Created and Modified attributes, or nothing when
// the timestamp is unknown.
func dateAttrs(t time.Time) string {
	s := formatDate(t)
	if s == "" {
		return ""
	}
	return fmt.Sprintf(` Created="%s" Modified="%s"`, s, s)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// escapeXML substitutes the five predefined entities. Attribute and
// element text share the same escaping.
func escapeXML(s string) string {
	if !strings.ContainsAny(s, `&<>"'`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '&':
			b.WriteString("&amp;")
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&apos;")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
