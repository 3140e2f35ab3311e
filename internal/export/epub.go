package export

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkwell/internal/domain/models/manuscript"
	"inkwell/internal/zipio"
)

// EpubExporter assembles an EPUB 3 container. Chapters split at folder
// boundaries: each folder opens a new spine document and its documents
// flow into it under the separator policy, so readers get one page per
// chapter rather than one per scene.
type EpubExporter struct{}

func NewEpubExporter() *EpubExporter {
	return &EpubExporter{}
}

func (e *EpubExporter) Format() Format { return FormatEPUB }

func (e *EpubExporter) FileExtension() string { return ".epub" }

func (e *EpubExporter) Name() string { return "EPUB" }

// epubPage is one XHTML document in the container.
type epubPage struct {
	id    string
	file  string
	title string
	body  strings.Builder
	inTOC bool
}

func (e *EpubExporter) Export(ctx context.Context, project *manuscript.Project, settings CompileSettings) ([]byte, error) {
	chapters := buildChapters(project)
	title := settings.ResolveTitle(project.Title)
	author := settings.ResolveAuthor(project.Author)
	pubID := "urn:uuid:" + uuid.NewString()

	var prelims []*epubPage

	if settings.IncludeTitlePage {
		p := &epubPage{id: "titlepage", file: "title.xhtml", title: title}
		p.body.WriteString(`<section class="title-page">` + "\n")
		p.body.WriteString("<h1>" + html.EscapeString(title) + "</h1>\n")
		if author != "" {
			p.body.WriteString(`<p class="author">by ` + html.EscapeString(author) + "</p>\n")
		}
		p.body.WriteString("</section>\n")
		prelims = append(prelims, p)
	}

	if settings.IncludeFrontMatter {
		p := &epubPage{id: "frontmatter", file: "frontmatter.xhtml", title: title}
		p.body.WriteString(`<section class="front-matter">` + "\n")
		p.body.WriteString("<p>" + html.EscapeString(title) + "</p>\n")
		if author != "" {
			p.body.WriteString("<p>" + html.EscapeString(author) + "</p>\n")
		}
		fmt.Fprintf(&p.body, "<p>%d words</p>\n", totalWords(chapters))
		p.body.WriteString("</section>\n")
		prelims = append(prelims, p)
	}

	var chapterPages []*epubPage
	newChapterPage := func(pageTitle string) *epubPage {
		n := len(chapterPages) + 1
		p := &epubPage{
			id:    fmt.Sprintf("chapter-%d", n),
			file:  fmt.Sprintf("chapter-%03d.xhtml", n),
			title: pageTitle,
			inTOC: true,
		}
		chapterPages = append(chapterPages, p)
		return p
	}

	var current *epubPage
	prevDoc := false
	for _, c := range chapters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c.Folder {
			current = newChapterPage(c.Title)
			if settings.IncludeChapterTitles {
				fmt.Fprintf(&current.body, "<h%d>%s</h%d>\n", c.Level, html.EscapeString(c.Title), c.Level)
			}
			prevDoc = false
			continue
		}
		// Documents ahead of any folder, and every document under the
		// page break policy, get their own spine entry.
		if current == nil || (settings.Separator == SeparatorPageBreak && prevDoc) {
			current = newChapterPage(c.Title)
			prevDoc = false
		}
		if prevDoc {
			current.body.WriteString(htmlSeparator(settings.Separator))
		}
		if settings.Separator == SeparatorChapterHeading {
			fmt.Fprintf(&current.body, "<h%d>%s</h%d>\n", c.Level, html.EscapeString(c.Title), c.Level)
		}
		writeBlocksHTML(&current.body, markdownBlocks(c.Content))
		prevDoc = true
	}

	pages := prelims
	if settings.IncludeTableOfContents && len(chapterPages) > 0 {
		toc := &epubPage{id: "contents", file: "contents.xhtml", title: "Contents"}
		toc.body.WriteString("<h1>Contents</h1>\n<ol>\n")
		for _, p := range chapterPages {
			fmt.Fprintf(&toc.body, `<li><a href="%s">%s</a></li>`+"\n", p.file, html.EscapeString(p.title))
		}
		toc.body.WriteString("</ol>\n")
		pages = append(pages, toc)
	}
	pages = append(pages, chapterPages...)

	w := zipio.NewWriter()
	if err := w.AddEntry("mimetype", []byte("application/epub+zip"), false); err != nil {
		return nil, fmt.Errorf("failed to add mimetype: %w", err)
	}
	if err := w.AddEntry("META-INF/container.xml", []byte(epubContainer), true); err != nil {
		return nil, fmt.Errorf("failed to add container.xml: %w", err)
	}
	if err := w.AddEntry("OEBPS/content.opf", []byte(epubOPF(pubID, title, author, pages)), true); err != nil {
		return nil, fmt.Errorf("failed to add content.opf: %w", err)
	}
	if err := w.AddEntry("OEBPS/toc.ncx", []byte(epubNCX(pubID, title, pages)), true); err != nil {
		return nil, fmt.Errorf("failed to add toc.ncx: %w", err)
	}
	if err := w.AddEntry("OEBPS/nav.xhtml", []byte(epubNav(pages)), true); err != nil {
		return nil, fmt.Errorf("failed to add nav.xhtml: %w", err)
	}
	if err := w.AddEntry("OEBPS/styles.css", []byte(pageCSS(settings)), true); err != nil {
		return nil, fmt.Errorf("failed to add styles.css: %w", err)
	}
	for _, p := range pages {
		if err := w.AddEntry("OEBPS/"+p.file, []byte(epubXHTML(p.title, p.body.String())), true); err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", p.file, err)
		}
	}
	return w.Finalize(), nil
}

const epubContainer = `<?xml version="1.0" encoding="UTF-8"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
<rootfiles>
<rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/>
</rootfiles>
</container>
`

func epubXHTML(title, body string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString(`<html xmlns="http://www.w3.org/1999/xhtml">` + "\n<head>\n")
	b.WriteString("<title>" + html.EscapeString(title) + "</title>\n")
	b.WriteString(`<link rel="stylesheet" type="text/css" href="styles.css"/>` + "\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func epubOPF(pubID, title, author string, pages []*epubPage) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<package xmlns="http://www.idpf.org/2007/opf" version="3.0" unique-identifier="pub-id">` + "\n")
	b.WriteString(`<metadata xmlns:dc="http://purl.org/dc/elements/1.1/">` + "\n")
	b.WriteString(`<dc:identifier id="pub-id">` + pubID + "</dc:identifier>\n")
	b.WriteString("<dc:title>" + html.EscapeString(title) + "</dc:title>\n")
	b.WriteString("<dc:language>en</dc:language>\n")
	if author != "" {
		b.WriteString("<dc:creator>" + html.EscapeString(author) + "</dc:creator>\n")
	}
	b.WriteString(`<meta property="dcterms:modified">` + time.Now().UTC().Format("2006-01-02T15:04:05Z") + "</meta>\n")
	b.WriteString("</metadata>\n<manifest>\n")
	b.WriteString(`<item id="nav" href="nav.xhtml" media-type="application/xhtml+xml" properties="nav"/>` + "\n")
	b.WriteString(`<item id="ncx" href="toc.ncx" media-type="application/x-dtbncx+xml"/>` + "\n")
	b.WriteString(`<item id="css" href="styles.css" media-type="text/css"/>` + "\n")
	for _, p := range pages {
		fmt.Fprintf(&b, `<item id="%s" href="%s" media-type="application/xhtml+xml"/>`+"\n", p.id, p.file)
	}
	b.WriteString("</manifest>\n")
	b.WriteString(`<spine toc="ncx">` + "\n")
	for _, p := range pages {
		fmt.Fprintf(&b, `<itemref idref="%s"/>`+"\n", p.id)
	}
	b.WriteString("</spine>\n</package>\n")
	return b.String()
}

func epubNCX(pubID, title string, pages []*epubPage) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<ncx xmlns="http://www.daisy.org/z3986/2005/ncx/" version="2005-1">` + "\n<head>\n")
	b.WriteString(`<meta name="dtb:uid" content="` + pubID + `"/>` + "\n")
	b.WriteString(`<meta name="dtb:depth" content="1"/>` + "\n")
	b.WriteString(`<meta name="dtb:totalPageCount" content="0"/>` + "\n")
	b.WriteString(`<meta name="dtb:maxPageNumber" content="0"/>` + "\n")
	b.WriteString("</head>\n")
	b.WriteString("<docTitle><text>" + html.EscapeString(title) + "</text></docTitle>\n<navMap>\n")
	order := 0
	for _, p := range pages {
		if !p.inTOC {
			continue
		}
		order++
		fmt.Fprintf(&b, `<navPoint id="navpoint-%d" playOrder="%d"><navLabel><text>%s</text></navLabel><content src="%s"/></navPoint>`+"\n",
			order, order, html.EscapeString(p.title), p.file)
	}
	b.WriteString("</navMap>\n</ncx>\n")
	return b.String()
}

func epubNav(pages []*epubPage) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString(`<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">` + "\n<head>\n")
	b.WriteString("<title>Contents</title>\n</head>\n<body>\n")
	b.WriteString(`<nav epub:type="toc">` + "\n<h1>Contents</h1>\n<ol>\n")
	for _, p := range pages {
		if !p.inTOC {
			continue
		}
		fmt.Fprintf(&b, `<li><a href="%s">%s</a></li>`+"\n", p.file, html.EscapeString(p.title))
	}
	b.WriteString("</ol>\n</nav>\n</body>\n</html>\n")
	return b.String()
}
