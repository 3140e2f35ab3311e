package export

import (
	"context"
	"fmt"
	"html"
	"strings"

	"inkwell/internal/domain/models/manuscript"
	"inkwell/internal/richtext"
	"inkwell/internal/zipio"
)

// DocxExporter assembles an OOXML word-processing package with the
// minimal part set mainstream readers accept. Part text is built by
// string assembly so the schema-mandated element order is explicit.
type DocxExporter struct{}

func NewDocxExporter() *DocxExporter {
	return &DocxExporter{}
}

func (e *DocxExporter) Format() Format { return FormatDOCX }

func (e *DocxExporter) FileExtension() string { return ".docx" }

func (e *DocxExporter) Name() string { return "DOCX" }

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>
</Types>
`

const docxPackageRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
<Relationship Id="rId3" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties" Target="docProps/app.xml"/>
</Relationships>
`

func (e *DocxExporter) Export(ctx context.Context, project *manuscript.Project, settings CompileSettings) ([]byte, error) {
	chapters := buildChapters(project)
	title := settings.ResolveTitle(project.Title)
	author := settings.ResolveAuthor(project.Author)

	body := &docxBody{}

	if settings.IncludeTitlePage {
		body.styledText("Title", title)
		if author != "" {
			body.centeredText("by " + author)
		}
		body.pageBreak()
	}

	if settings.IncludeFrontMatter {
		body.centeredText(title)
		if author != "" {
			body.centeredText(author)
		}
		body.centeredText(fmt.Sprintf("%d words", totalWords(chapters)))
		body.pageBreak()
	}

	if settings.IncludeTableOfContents {
		if toc := tocChapters(chapters, settings); len(toc) > 0 {
			body.styledText("Heading1", "Contents")
			for _, c := range toc {
				body.indentedText(c.Level-1, c.Title)
			}
			body.pageBreak()
		}
	}

	prevDoc := false
	for _, c := range chapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.Folder {
			if settings.IncludeChapterTitles {
				body.styledText(headingStyle(c.Level), c.Title)
				prevDoc = false
			}
			continue
		}
		if prevDoc {
			body.separator(settings.Separator)
		}
		if settings.Separator == SeparatorChapterHeading {
			body.styledText(headingStyle(c.Level), c.Title)
		}
		for _, blk := range markdownBlocks(c.Content) {
			if blk.level > 0 {
				body.headingRuns(blk.level, blk.lines[0])
				continue
			}
			body.paragraph(blk.lines)
		}
		prevDoc = true
	}

	w := zipio.NewWriter()
	parts := []struct {
		path string
		data string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxPackageRels},
		{"word/document.xml", docxDocument(body.b.String(), settings)},
		{"word/styles.xml", docxStyles(settings)},
		{"word/_rels/document.xml.rels", docxDocumentRels(body.rels)},
		{"docProps/core.xml", docxCore(title, author)},
		{"docProps/app.xml", docxApp(totalWords(chapters))},
	}
	for _, part := range parts {
		if err := w.AddEntry(part.path, []byte(part.data), true); err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", part.path, err)
		}
	}
	return w.Finalize(), nil
}

// docxBody accumulates body paragraphs plus the hyperlink targets they
// reference, in encounter order.
type docxBody struct {
	b    strings.Builder
	rels []string
}

// addRel registers a hyperlink target and returns its relationship id.
// rId1 is the styles part, so targets start at rId2.
func (d *docxBody) addRel(url string) string {
	d.rels = append(d.rels, url)
	return fmt.Sprintf("rId%d", len(d.rels)+1)
}

func (d *docxBody) styledText(style, text string) {
	d.b.WriteString(`<w:p><w:pPr><w:pStyle w:val="` + style + `"/></w:pPr>`)
	d.plainRun(text)
	d.b.WriteString("</w:p>\n")
}

func (d *docxBody) centeredText(text string) {
	d.b.WriteString(`<w:p><w:pPr><w:jc w:val="center"/></w:pPr>`)
	d.plainRun(text)
	d.b.WriteString("</w:p>\n")
}

func (d *docxBody) indentedText(level int, text string) {
	d.b.WriteString(fmt.Sprintf(`<w:p><w:pPr><w:ind w:left="%d"/></w:pPr>`, 360*level))
	d.plainRun(text)
	d.b.WriteString("</w:p>\n")
}

func (d *docxBody) pageBreak() {
	d.b.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>` + "\n")
}

func (d *docxBody) separator(s Separator) {
	switch s {
	case SeparatorBlankLine:
		d.b.WriteString("<w:p/>\n")
	case SeparatorThreeAsterisks:
		d.centeredText("* * *")
	case SeparatorPageBreak:
		d.pageBreak()
	}
}

func (d *docxBody) headingRuns(level int, runs []richtext.Run) {
	d.b.WriteString(`<w:p><w:pPr><w:pStyle w:val="` + headingStyle(level) + `"/></w:pPr>`)
	d.runs(runs)
	d.b.WriteString("</w:p>\n")
}

func (d *docxBody) paragraph(lines [][]richtext.Run) {
	d.b.WriteString("<w:p>")
	for i, line := range lines {
		if i > 0 {
			d.plainRun(" ")
		}
		d.runs(line)
	}
	d.b.WriteString("</w:p>\n")
}

// runs renders inline content. A linked run becomes a hyperlink element
// wrapping a single Hyperlink-styled run, ignoring other attributes on
// the span, the same precedence the markdown bridge applies.
func (d *docxBody) runs(runs []richtext.Run) {
	for _, r := range runs {
		if r.Link != "" {
			d.b.WriteString(`<w:hyperlink r:id="` + d.addRel(r.Link) + `">`)
			d.b.WriteString(`<w:r><w:rPr><w:rStyle w:val="Hyperlink"/></w:rPr><w:t xml:space="preserve">` +
				html.EscapeString(r.Text) + `</w:t></w:r></w:hyperlink>`)
			continue
		}
		d.b.WriteString("<w:r>")
		if props := runProps(r); props != "" {
			d.b.WriteString("<w:rPr>" + props + "</w:rPr>")
		}
		d.b.WriteString(`<w:t xml:space="preserve">` + html.EscapeString(r.Text) + `</w:t></w:r>`)
	}
}

func (d *docxBody) plainRun(text string) {
	d.b.WriteString(`<w:r><w:t xml:space="preserve">` + html.EscapeString(text) + `</w:t></w:r>`)
}

func runProps(r richtext.Run) string {
	var b strings.Builder
	if r.Bold {
		b.WriteString("<w:b/>")
	}
	if r.Italic {
		b.WriteString("<w:i/>")
	}
	if r.Strikethrough {
		b.WriteString("<w:strike/>")
	}
	if r.Underline {
		b.WriteString(`<w:u w:val="single"/>`)
	}
	if r.Highlight {
		b.WriteString(`<w:highlight w:val="yellow"/>`)
	}
	return b.String()
}

func headingStyle(level int) string {
	return fmt.Sprintf("Heading%d", level)
}

// docxDocument wraps the body with the document element and the section
// properties carrying page size and margins in twips.
func docxDocument(body string, settings CompileSettings) string {
	pageW, pageH := settings.PageSize.dimensions()
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">` + "\n")
	b.WriteString("<w:body>\n")
	b.WriteString(body)
	b.WriteString("<w:sectPr>\n")
	fmt.Fprintf(&b, `<w:pgSz w:w="%d" w:h="%d"/>`+"\n", twips(pageW), twips(pageH))
	fmt.Fprintf(&b, `<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d" w:header="720" w:footer="720" w:gutter="0"/>`+"\n",
		inchTwips(settings.Margins.Top), inchTwips(settings.Margins.Right),
		inchTwips(settings.Margins.Bottom), inchTwips(settings.Margins.Left))
	b.WriteString("</w:sectPr>\n")
	b.WriteString("</w:body>\n</w:document>\n")
	return b.String()
}

// twips converts points to twentieths of a point, rounded.
func twips(points float64) int {
	return int(points*20 + 0.5)
}

func inchTwips(inches float64) int {
	return int(inches*1440 + 0.5)
}

func docxStyles(settings CompileSettings) string {
	font := "Times New Roman"
	switch settings.FontStyle {
	case FontSans:
		font = "Arial"
	case FontMono:
		font = "Courier New"
	}
	bodySize := halfPoints(settings.FontSize)
	lineRule := int(240*settings.LineSpacing + 0.5)

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` + "\n")
	b.WriteString("<w:docDefaults>\n")
	fmt.Fprintf(&b, `<w:rPrDefault><w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s"/><w:sz w:val="%d"/></w:rPr></w:rPrDefault>`+"\n", font, font, bodySize)
	fmt.Fprintf(&b, `<w:pPrDefault><w:pPr><w:spacing w:line="%d" w:lineRule="auto"/></w:pPr></w:pPrDefault>`+"\n", lineRule)
	b.WriteString("</w:docDefaults>\n")
	b.WriteString(`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style>` + "\n")
	fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:pPr><w:jc w:val="center"/><w:spacing w:before="2400" w:after="480"/></w:pPr><w:rPr><w:b/><w:sz w:val="%d"/></w:rPr></w:style>`+"\n",
		halfPoints(settings.FontSize+16))
	for level := 1; level <= maxHeadingLevel; level++ {
		fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="Heading%d"><w:name w:val="heading %d"/><w:basedOn w:val="Normal"/><w:pPr><w:spacing w:before="360" w:after="240"/><w:outlineLvl w:val="%d"/></w:pPr><w:rPr><w:b/><w:sz w:val="%d"/></w:rPr></w:style>`+"\n",
			level, level, level-1, halfPoints(headingSize(settings.FontSize, level)))
	}
	b.WriteString(`<w:style w:type="character" w:styleId="Hyperlink"><w:name w:val="Hyperlink"/><w:rPr><w:color w:val="0563C1"/><w:u w:val="single"/></w:rPr></w:style>` + "\n")
	b.WriteString("</w:styles>\n")
	return b.String()
}

func halfPoints(points float64) int {
	return int(points*2 + 0.5)
}

// headingSize steps the body size up by level, flattening out past the
// third level.
func headingSize(base float64, level int) float64 {
	switch level {
	case 1:
		return base + 8
	case 2:
		return base + 6
	case 3:
		return base + 4
	default:
		return base + 2
	}
}

func docxDocumentRels(hyperlinks []string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` + "\n")
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>` + "\n")
	for i, url := range hyperlinks {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="%s" TargetMode="External"/>`+"\n",
			i+2, html.EscapeString(url))
	}
	b.WriteString("</Relationships>\n")
	return b.String()
}

func docxCore(title, author string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">` + "\n")
	b.WriteString("<dc:title>" + html.EscapeString(title) + "</dc:title>\n")
	if author != "" {
		b.WriteString("<dc:creator>" + html.EscapeString(author) + "</dc:creator>\n")
	}
	b.WriteString("</cp:coreProperties>\n")
	return b.String()
}

func docxApp(words int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	b.WriteString(`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` + "\n")
	b.WriteString("<Application>Inkwell</Application>\n")
	fmt.Fprintf(&b, "<Words>%d</Words>\n", words)
	b.WriteString("</Properties>\n")
	return b.String()
}
