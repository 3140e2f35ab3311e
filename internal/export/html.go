package export

import (
	"context"
	"fmt"
	"html"
	"strings"

	"inkwell/internal/domain/models/manuscript"
	"inkwell/internal/richtext"
)

// HTMLExporter renders the compile stream as one self-contained HTML
// page. Content goes markdown to run lists to markup, so inline styles
// come out as real elements instead of leftover markers.
type HTMLExporter struct{}

func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{}
}

func (e *HTMLExporter) Format() Format { return FormatHTML }

func (e *HTMLExporter) FileExtension() string { return ".html" }

func (e *HTMLExporter) Name() string { return "HTML" }

func (e *HTMLExporter) Export(ctx context.Context, project *manuscript.Project, settings CompileSettings) ([]byte, error) {
	chapters := buildChapters(project)
	title := settings.ResolveTitle(project.Title)
	author := settings.ResolveAuthor(project.Author)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\"/>\n")
	b.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	b.WriteString("<style>\n" + pageCSS(settings) + "</style>\n")
	b.WriteString("</head>\n<body>\n")

	if settings.IncludeTitlePage {
		b.WriteString("<header class=\"title-page\">\n")
		b.WriteString("<h1>" + html.EscapeString(title) + "</h1>\n")
		if author != "" {
			b.WriteString("<p class=\"author\">by " + html.EscapeString(author) + "</p>\n")
		}
		b.WriteString("</header>\n")
	}

	if settings.IncludeFrontMatter {
		b.WriteString("<section class=\"front-matter\">\n")
		b.WriteString("<p>" + html.EscapeString(title) + "</p>\n")
		if author != "" {
			b.WriteString("<p>" + html.EscapeString(author) + "</p>\n")
		}
		b.WriteString(fmt.Sprintf("<p>%d words</p>\n", totalWords(chapters)))
		b.WriteString("</section>\n")
	}

	// Anchor ids are positional so duplicate titles stay distinct.
	anchors := make(map[int]string)
	for i, c := range chapters {
		if c.headed(settings) {
			anchors[i] = fmt.Sprintf("ch-%d", len(anchors)+1)
		}
	}

	if settings.IncludeTableOfContents && len(anchors) > 0 {
		b.WriteString("<nav class=\"contents\">\n<h2>Contents</h2>\n<ol>\n")
		for i, c := range chapters {
			id, ok := anchors[i]
			if !ok {
				continue
			}
			b.WriteString(fmt.Sprintf("<li class=\"level-%d\"><a href=\"#%s\">%s</a></li>\n",
				c.Level, id, html.EscapeString(c.Title)))
		}
		b.WriteString("</ol>\n</nav>\n")
	}

	prevDoc := false
	for i, c := range chapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.Folder {
			if id, ok := anchors[i]; ok {
				b.WriteString(fmt.Sprintf("<h%d id=\"%s\">%s</h%d>\n", c.Level, id, html.EscapeString(c.Title), c.Level))
				prevDoc = false
			}
			continue
		}
		if prevDoc {
			b.WriteString(htmlSeparator(settings.Separator))
		}
		if id, ok := anchors[i]; ok {
			b.WriteString(fmt.Sprintf("<h%d id=\"%s\">%s</h%d>\n", c.Level, id, html.EscapeString(c.Title), c.Level))
		}
		writeBlocksHTML(&b, markdownBlocks(c.Content))
		prevDoc = true
	}

	b.WriteString("</body>\n</html>\n")
	return []byte(b.String()), nil
}

func htmlSeparator(s Separator) string {
	switch s {
	case SeparatorThreeAsterisks:
		return "<p class=\"scene-break\">* * *</p>\n"
	case SeparatorPageBreak:
		return "<hr class=\"page-break\"/>\n"
	default:
		return ""
	}
}

// writeBlocksHTML renders parsed content blocks. Content headings keep
// their authored level; chapter structure does not shift them.
func writeBlocksHTML(b *strings.Builder, blocks []mdBlock) {
	for _, blk := range blocks {
		if blk.level > 0 {
			b.WriteString(fmt.Sprintf("<h%d>%s</h%d>\n", blk.level, inlineHTML(blk.lines[0]), blk.level))
			continue
		}
		b.WriteString("<p>")
		for i, line := range blk.lines {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(inlineHTML(line))
		}
		b.WriteString("</p>\n")
	}
}

// inlineHTML renders one line's runs. A linked run renders as the link
// alone, matching the precedence the markdown bridge applies.
func inlineHTML(runs []richtext.Run) string {
	var b strings.Builder
	for _, r := range runs {
		text := html.EscapeString(r.Text)
		if r.Link != "" {
			b.WriteString("<a href=\"" + html.EscapeString(r.Link) + "\">" + text + "</a>")
			continue
		}
		var open, closing string
		if r.Bold {
			open += "<strong>"
			closing = "</strong>" + closing
		}
		if r.Italic {
			open += "<em>"
			closing = "</em>" + closing
		}
		if r.Strikethrough {
			open += "<del>"
			closing = "</del>" + closing
		}
		if r.Underline {
			open += "<u>"
			closing = "</u>" + closing
		}
		if r.Highlight {
			open += "<mark>"
			closing = "</mark>" + closing
		}
		b.WriteString(open + text + closing)
	}
	return b.String()
}

// pageCSS derives the stylesheet from the font settings. The same rules
// serve the standalone page and the EPUB stylesheet.
func pageCSS(s CompileSettings) string {
	family := "Georgia, 'Times New Roman', serif"
	switch s.FontStyle {
	case FontSans:
		family = "'Helvetica Neue', Arial, sans-serif"
	case FontMono:
		family = "'Courier New', monospace"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "body { font-family: %s; font-size: %.4gpt; line-height: %.4g; max-width: 40em; margin: 0 auto; padding: 2em; }\n",
		family, s.FontSize, s.LineSpacing)
	b.WriteString("h1, h2, h3, h4, h5, h6 { line-height: 1.2; }\n")
	b.WriteString(".title-page { text-align: center; margin: 4em 0; }\n")
	b.WriteString(".title-page .author { font-style: italic; }\n")
	b.WriteString(".front-matter { text-align: center; margin: 2em 0; }\n")
	b.WriteString(".scene-break { text-align: center; }\n")
	b.WriteString(".page-break { border: none; page-break-after: always; }\n")
	b.WriteString("mark { background: #fced77; }\n")
	return b.String()
}
