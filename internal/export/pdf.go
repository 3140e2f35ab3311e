package export

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"inkwell/internal/domain/models/manuscript"
	"inkwell/internal/richtext"
)

// PDFExporter writes a single-column PDF by direct object assembly:
// catalog, page tree, two base-14 fonts, one content stream per page,
// cross-reference table, trailer. Line wrapping works against an
// average glyph width, which is enough fidelity for prose pagination.
type PDFExporter struct{}

func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

func (e *PDFExporter) Format() Format { return FormatPDF }

func (e *PDFExporter) FileExtension() string { return ".pdf" }

func (e *PDFExporter) Name() string { return "PDF" }

func (e *PDFExporter) Export(ctx context.Context, project *manuscript.Project, settings CompileSettings) ([]byte, error) {
	chapters := buildChapters(project)
	title := settings.ResolveTitle(project.Title)
	author := settings.ResolveAuthor(project.Author)

	l := newPDFLayout(settings)

	if settings.IncludeTitlePage {
		l.titlePage(title, author)
	}

	if settings.IncludeFrontMatter {
		l.breakPage()
		l.centered("F2", l.size+2, title)
		if author != "" {
			l.centered("F1", l.size, author)
		}
		l.centered("F1", l.size, fmt.Sprintf("%d words", totalWords(chapters)))
	}

	if settings.IncludeTableOfContents {
		if toc := tocChapters(chapters, settings); len(toc) > 0 {
			l.breakPage()
			l.line("F2", headingSize(l.size, 1), "Contents")
			l.blank(l.size)
			for _, c := range toc {
				l.line("F1", l.size, strings.Repeat("  ", c.Level-1)+c.Title)
			}
		}
	}

	l.breakPage()

	prevDoc := false
	for _, c := range chapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.Folder {
			if settings.IncludeChapterTitles {
				l.heading(c.Level, c.Title)
				prevDoc = false
			}
			continue
		}
		if prevDoc {
			l.separator(settings.Separator)
		}
		if settings.Separator == SeparatorChapterHeading {
			l.heading(c.Level, c.Title)
		}
		l.content(c.Content)
		prevDoc = true
	}

	l.trimEmptyPages()
	if settings.IncludePageNumbers {
		l.numberPages(settings.IncludeTitlePage)
	}

	return l.render(), nil
}

// pdfLayout paginates text operators into per-page content streams.
// The cursor y is the top of the next line, measured from the page
// bottom in points.
type pdfLayout struct {
	pageW, pageH             float64
	left, right, top, bottom float64
	usable                   float64
	size                     float64
	spacing                  float64
	factor                   float64 // average glyph width as a fraction of the size
	regularFont, boldFont    string

	pages []*bytes.Buffer
	cur   *bytes.Buffer
	y     float64
	dirty bool
}

func newPDFLayout(settings CompileSettings) *pdfLayout {
	w, h := settings.PageSize.dimensions()
	l := &pdfLayout{
		pageW:   w,
		pageH:   h,
		left:    settings.Margins.Left * 72,
		right:   settings.Margins.Right * 72,
		top:     settings.Margins.Top * 72,
		bottom:  settings.Margins.Bottom * 72,
		size:    settings.FontSize,
		spacing: settings.LineSpacing,
		factor:  0.5,
	}
	l.usable = l.pageW - l.left - l.right
	switch settings.FontStyle {
	case FontSans:
		l.regularFont, l.boldFont = "Helvetica", "Helvetica-Bold"
	case FontMono:
		l.regularFont, l.boldFont = "Courier", "Courier-Bold"
		l.factor = 0.6
	default:
		l.regularFont, l.boldFont = "Times-Roman", "Times-Bold"
	}
	l.startPage()
	return l
}

func (l *pdfLayout) startPage() {
	l.cur = &bytes.Buffer{}
	l.pages = append(l.pages, l.cur)
	l.y = l.pageH - l.top
	l.dirty = false
}

// breakPage starts a fresh page unless the current one is still empty.
func (l *pdfLayout) breakPage() {
	if l.dirty {
		l.startPage()
	}
}

func (l *pdfLayout) advance(size float64) float64 {
	return size * 1.2 * l.spacing
}

func (l *pdfLayout) width(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size * l.factor
}

// drawText emits one positioned show-text operation.
func (l *pdfLayout) drawText(buf *bytes.Buffer, font string, size, x, baseline float64, text string) {
	fmt.Fprintf(buf, "BT /%s %.2f Tf %.2f %.2f Td (", font, size, x, baseline)
	buf.Write(pdfEncode(text))
	buf.WriteString(") Tj ET\n")
}

// line places one pre-wrapped line at the left margin, breaking the
// page when it does not fit.
func (l *pdfLayout) line(font string, size float64, text string) {
	adv := l.advance(size)
	if l.y-adv < l.bottom {
		l.startPage()
	}
	l.drawText(l.cur, font, size, l.left, l.y-size, text)
	l.y -= adv
	l.dirty = true
}

func (l *pdfLayout) centered(font string, size float64, text string) {
	adv := l.advance(size)
	if l.y-adv < l.bottom {
		l.startPage()
	}
	x := l.left + (l.usable-l.width(text, size))/2
	if x < l.left {
		x = l.left
	}
	l.drawText(l.cur, font, size, x, l.y-size, text)
	l.y -= adv
	l.dirty = true
}

// blank advances the cursor without drawing. Deferred to the next line
// when it would cross the bottom margin, so pages never start blank.
func (l *pdfLayout) blank(size float64) {
	if l.y-l.advance(size) < l.bottom {
		return
	}
	l.y -= l.advance(size)
}

func (l *pdfLayout) para(text string) {
	for _, seg := range l.wrap(text, l.size) {
		l.line("F1", l.size, seg)
	}
}

func (l *pdfLayout) heading(level int, title string) {
	size := headingSize(l.size, level)
	l.blank(l.size)
	for _, seg := range l.wrap(title, size) {
		l.line("F2", size, seg)
	}
	l.blank(l.size / 2)
}

func (l *pdfLayout) content(markdown string) {
	for _, blk := range markdownBlocks(markdown) {
		if blk.level > 0 {
			l.heading(blk.level, richtext.PlainText(blk.lines[0]))
			continue
		}
		var parts []string
		for _, line := range blk.lines {
			parts = append(parts, richtext.PlainText(line))
		}
		l.para(strings.Join(parts, " "))
		l.blank(l.size / 2)
	}
}

func (l *pdfLayout) separator(s Separator) {
	switch s {
	case SeparatorBlankLine:
		l.blank(l.size)
	case SeparatorThreeAsterisks:
		l.blank(l.size / 2)
		l.centered("F1", l.size, "* * *")
		l.blank(l.size / 2)
	case SeparatorPageBreak:
		l.breakPage()
	}
}

func (l *pdfLayout) titlePage(title, author string) {
	l.breakPage()
	// The title block sits a third of the way down the text area.
	l.y = l.pageH - l.top - (l.pageH-l.top-l.bottom)/3
	l.centered("F2", l.size+10, title)
	l.blank(l.size)
	if author != "" {
		l.centered("F1", l.size, "by "+author)
	}
	l.startPage()
}

// wrap splits text into lines that fit the printable width. A word
// wider than the whole line overflows rather than being broken.
func (l *pdfLayout) wrap(text string, size float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	cur := words[0]
	for _, word := range words[1:] {
		if l.width(cur+" "+word, size) > l.usable {
			lines = append(lines, cur)
			cur = word
			continue
		}
		cur += " " + word
	}
	return append(lines, cur)
}

// trimEmptyPages drops pages nothing was drawn on. A forced break at
// the end of the layout would otherwise leave a blank final page.
func (l *pdfLayout) trimEmptyPages() {
	for len(l.pages) > 1 && l.pages[len(l.pages)-1].Len() == 0 {
		l.pages = l.pages[:len(l.pages)-1]
	}
}

// numberPages stamps a centered folio in the bottom margin of every
// page, skipping the title page when one was rendered.
func (l *pdfLayout) numberPages(skipFirst bool) {
	for i, page := range l.pages {
		if skipFirst && i == 0 {
			continue
		}
		folio := strconv.Itoa(i + 1)
		size := l.size * 0.8
		x := l.left + (l.usable-l.width(folio, size))/2
		l.drawText(page, "F1", size, x, l.bottom/2, folio)
	}
}

// render assembles the final file: header, objects in number order,
// cross-reference table, trailer. Object 1 is the catalog, 2 the page
// tree, 3 and 4 the fonts; each page contributes a content stream and
// a page object after those.
func (l *pdfLayout) render() []byte {
	objs := make([]string, 0, 4+2*len(l.pages))
	kids := make([]string, 0, len(l.pages))
	for i := range l.pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 6+2*i))
	}

	objs = append(objs, "<< /Type /Catalog /Pages 2 0 R >>")
	objs = append(objs, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(l.pages)))
	objs = append(objs, fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding >>", l.regularFont))
	objs = append(objs, fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /%s /Encoding /WinAnsiEncoding >>", l.boldFont))

	for i, page := range l.pages {
		stream := page.String()
		objs = append(objs, fmt.Sprintf("<< /Length %d >>\nstream\n%sendstream", len(stream), stream))
		objs = append(objs, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %.2f %.2f] /Resources << /Font << /F1 3 0 R /F2 4 0 R >> >> /Contents %d 0 R >>",
			l.pageW, l.pageH, 5+2*i))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	offsets := make([]int, len(objs)+1)
	for i, body := range objs {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objs); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xrefPos)
	return buf.Bytes()
}

// pdfEncode maps text to WinAnsi bytes with the string delimiters
// escaped. Runes outside the code page degrade to a question mark.
func pdfEncode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		b, ok := charmap.Windows1252.EncodeRune(r)
		if !ok {
			b = '?'
		}
		switch b {
		case '(', ')', '\\':
			out = append(out, '\\', b)
		default:
			out = append(out, b)
		}
	}
	return out
}
