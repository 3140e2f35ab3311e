package export

import (
	"context"
	"strings"
	"unicode/utf8"

	"inkwell/internal/domain/models/manuscript"
)

// TextExporter renders the compile stream as plain text with all
// markdown syntax stripped.
type TextExporter struct{}

func NewTextExporter() *TextExporter {
	return &TextExporter{}
}

func (e *TextExporter) Format() Format { return FormatText }

func (e *TextExporter) FileExtension() string { return ".txt" }

func (e *TextExporter) Name() string { return "Plain text" }

func (e *TextExporter) Export(ctx context.Context, project *manuscript.Project, settings CompileSettings) ([]byte, error) {
	chapters := buildChapters(project)
	title := settings.ResolveTitle(project.Title)
	author := settings.ResolveAuthor(project.Author)

	var b strings.Builder

	if settings.IncludeTitlePage {
		upper := strings.ToUpper(title)
		b.WriteString(upper + "\n")
		b.WriteString(strings.Repeat("=", utf8.RuneCountInString(upper)) + "\n")
		if author != "" {
			b.WriteString("by " + author + "\n")
		}
		b.WriteString("\n")
	}

	if settings.IncludeTableOfContents {
		if toc := tocChapters(chapters, settings); len(toc) > 0 {
			b.WriteString("CONTENTS\n--------\n")
			for _, c := range toc {
				b.WriteString(strings.Repeat("  ", c.Level-1) + c.Title + "\n")
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
				writeTextHeading(&b, c.Title)
				prevDoc = false
			}
			continue
		}
		if prevDoc {
			b.WriteString(textSeparator(settings.Separator))
		}
		if settings.Separator == SeparatorChapterHeading {
			writeTextHeading(&b, c.Title)
		}
		if content := strings.TrimRight(stripMarkdownText(c.Content), "\n"); content != "" {
			b.WriteString(content + "\n")
		}
		prevDoc = true
	}

	return []byte(b.String()), nil
}

func writeTextHeading(b *strings.Builder, title string) {
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("-", utf8.RuneCountInString(title)) + "\n\n")
}

func textSeparator(s Separator) string {
	switch s {
	case SeparatorBlankLine, SeparatorChapterHeading:
		return "\n"
	case SeparatorThreeAsterisks:
		return "\n* * *\n\n"
	case SeparatorPageBreak:
		return "\n\f\n"
	default:
		return ""
	}
}

// stripMarkdownText removes markdown syntax while preserving the line
// structure. Fence lines drop but their code stays; links keep the
// visible text and lose the target.
func stripMarkdownText(markdown string) string {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")
	markdown = strings.ReplaceAll(markdown, "\r", "\n")

	lines := strings.Split(markdown, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		cleaned = append(cleaned, stripMarkdownLine(line))
	}
	return strings.Join(cleaned, "\n")
}

func stripMarkdownLine(line string) string {
	if level, rest := headingLine(line); level > 0 {
		line = rest
	}

	line = stripLinkTargets(line)

	for _, marker := range []string{"***", "___", "**", "__", "~~", "==", "*", "_", "`"} {
		line = strings.ReplaceAll(line, marker, "")
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "---" || trimmed == "***" {
		return ""
	}
	return strings.TrimRight(line, " \t")
}

// stripLinkTargets rewrites [text](url) to text.
func stripLinkTargets(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		if text[i] != '[' {
			b.WriteByte(text[i])
			i++
			continue
		}
		close := strings.Index(text[i:], "](")
		if close == -1 {
			b.WriteByte(text[i])
			i++
			continue
		}
		end := strings.IndexByte(text[i+close+2:], ')')
		if end == -1 {
			b.WriteByte(text[i])
			i++
			continue
		}
		b.WriteString(text[i+1 : i+close])
		i += close + 2 + end + 1
	}
	return b.String()
}
