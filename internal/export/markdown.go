package export

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"inkwell/internal/domain/models/manuscript"
)

// MarkdownExporter renders the compile stream as a single Markdown file.
type MarkdownExporter struct{}

func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{}
}

func (e *MarkdownExporter) Format() Format { return FormatMarkdown }

func (e *MarkdownExporter) FileExtension() string { return ".md" }

func (e *MarkdownExporter) Name() string { return "Markdown" }

// frontMatter is the YAML block emitted ahead of the document body.
type frontMatter struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author,omitempty"`
	Words  int    `yaml:"words"`
}

func (e *MarkdownExporter) Export(ctx context.Context, project *manuscript.Project, settings CompileSettings) ([]byte, error) {
	chapters := buildChapters(project)
	title := settings.ResolveTitle(project.Title)
	author := settings.ResolveAuthor(project.Author)

	var b strings.Builder

	if settings.IncludeFrontMatter {
		meta, err := yaml.Marshal(frontMatter{Title: title, Author: author, Words: totalWords(chapters)})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal front matter: %w", err)
		}
		b.WriteString("---\n")
		b.Write(meta)
		b.WriteString("---\n\n")
	}

	if settings.IncludeTitlePage {
		b.WriteString("# " + title + "\n")
		if author != "" {
			b.WriteString("\nby " + author + "\n")
		}
		b.WriteString("\n")
	}

	if settings.IncludeTableOfContents {
		if toc := tocChapters(chapters, settings); len(toc) > 0 {
			b.WriteString("## Contents\n\n")
			for _, c := range toc {
				b.WriteString(strings.Repeat("  ", c.Level-1) + "- " + c.Title + "\n")
			}
			b.WriteString("\n")
		}
	}

	prevDoc := false
	for _, c := range chapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.Folder {
			if settings.IncludeChapterTitles {
				if prevDoc {
					b.WriteString("\n")
				}
				b.WriteString(mdHeading(c.Level, c.Title) + "\n\n")
				prevDoc = false
			}
			continue
		}
		if prevDoc {
			b.WriteString(markdownSeparator(settings.Separator))
		}
		if settings.Separator == SeparatorChapterHeading {
			b.WriteString(mdHeading(c.Level, c.Title) + "\n\n")
		}
		if content := strings.TrimRight(c.Content, "\n"); content != "" {
			b.WriteString(content + "\n")
		}
		prevDoc = true
	}

	return []byte(b.String()), nil
}

// markdownSeparator is the text inserted between two consecutive
// documents. The chapter heading policy inserts only a break; the
// heading itself is written per document.
func markdownSeparator(s Separator) string {
	switch s {
	case SeparatorBlankLine, SeparatorChapterHeading:
		return "\n"
	case SeparatorThreeAsterisks:
		return "\n***\n\n"
	case SeparatorPageBreak:
		return "\n---\n\n"
	default:
		return ""
	}
}

func mdHeading(level int, title string) string {
	return strings.Repeat("#", level) + " " + title
}
