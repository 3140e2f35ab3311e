package export

import (
	"inkwell/internal/domain/models/manuscript"
)

// chapter is one entry of the flattened draft with its heading level in
// the output hierarchy resolved from tree depth.
type chapter struct {
	Title   string
	Level   int // 1..6
	Content string
	Folder  bool
	Words   int
}

const maxHeadingLevel = 6

// buildChapters flattens the draft into the render order shared by every
// exporter. Depth converts to a heading level capped at six.
func buildChapters(p *manuscript.Project) []chapter {
	docs := p.Compile()
	chapters := make([]chapter, 0, len(docs))
	for _, d := range docs {
		level := d.Depth + 1
		if level > maxHeadingLevel {
			level = maxHeadingLevel
		}
		chapters = append(chapters, chapter{
			Title:   d.Title,
			Level:   level,
			Content: d.Content,
			Folder:  d.IsFolder,
			Words:   d.WordCount,
		})
	}
	return chapters
}

// headed reports whether this entry renders its own title heading under
// the given settings: folders when chapter titles are on, documents when
// the separator policy is the chapter heading itself.
func (c chapter) headed(s CompileSettings) bool {
	if c.Folder {
		return s.IncludeChapterTitles
	}
	return s.Separator == SeparatorChapterHeading
}

// tocChapters returns the entries a table of contents lists: exactly the
// ones that render a visible heading. An empty result means the output
// has no headings to point at and the contents section is omitted even
// when requested.
func tocChapters(chapters []chapter, s CompileSettings) []chapter {
	var toc []chapter
	for _, c := range chapters {
		if c.headed(s) {
			toc = append(toc, c)
		}
	}
	return toc
}

func totalWords(chapters []chapter) int {
	total := 0
	for _, c := range chapters {
		total += c.Words
	}
	return total
}
