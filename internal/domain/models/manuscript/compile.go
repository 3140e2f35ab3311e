package manuscript

// CompilableDocument is one entry in the flattened compile stream that the
// format exporters consume. Folders appear as heading-only entries so the
// output formats can open a chapter before its scenes.
type CompilableDocument struct {
	Title     string
	Content   string
	Synopsis  string
	Depth     int
	IsFolder  bool
	WordCount int
}

// Compile flattens the draft tree depth-first into export order: each
// folder emits a heading entry, then its documents sorted by Order, then
// its subfolders in slice order. Documents excluded from compile are
// dropped along with nothing else; an excluded folder still descends, so
// only the heading is suppressed.
func (p *Project) Compile() []CompilableDocument {
	if p.Draft == nil {
		return nil
	}
	var out []CompilableDocument
	// The draft root itself is a container, not a chapter: children of
	// the root start at depth 0 and the root emits no heading.
	for _, doc := range p.Draft.SortedDocuments() {
		out = appendDocument(out, doc, 0)
	}
	for _, sub := range p.Draft.Folders {
		out = appendFolder(out, sub, 0)
	}
	return out
}

func appendFolder(out []CompilableDocument, f *Folder, depth int) []CompilableDocument {
	out = append(out, CompilableDocument{
		Title:    f.Title,
		Depth:    depth,
		IsFolder: true,
	})
	for _, doc := range f.SortedDocuments() {
		out = appendDocument(out, doc, depth+1)
	}
	for _, sub := range f.Folders {
		out = appendFolder(out, sub, depth+1)
	}
	return out
}

func appendDocument(out []CompilableDocument, doc *Document, depth int) []CompilableDocument {
	if !doc.IncludeInCompile {
		return out
	}
	return append(out, CompilableDocument{
		Title:     doc.Title,
		Content:   doc.Content,
		Synopsis:  doc.Synopsis,
		Depth:     depth,
		WordCount: doc.WordCount(),
	})
}
