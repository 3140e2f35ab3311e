package export

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"testing"
)

// readArchive unpacks a produced container into part name to content.
func readArchive(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a readable archive: %v", err)
	}
	parts := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Name, err)
		}
		parts[f.Name] = string(content)
	}
	return parts
}

func exportDocx(t *testing.T, settings CompileSettings) map[string]string {
	t.Helper()
	out, err := NewDocxExporter().Export(context.Background(), exportTestProject(), settings)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	return readArchive(t, out)
}

func TestDocxPartSet(t *testing.T) {
	parts := exportDocx(t, DefaultSettings())

	var names []string
	for name := range parts {
		names = append(names, name)
	}
	sort.Strings(names)
	want := []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"docProps/app.xml",
		"docProps/core.xml",
		"word/_rels/document.xml.rels",
		"word/document.xml",
		"word/styles.xml",
	}
	if len(names) != len(want) {
		t.Fatalf("part names = %v, want %v", names, want)
	}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("part names = %v, want %v", names, want)
		}
	}
}

func TestDocxDocumentBody(t *testing.T) {
	parts := exportDocx(t, DefaultSettings())
	doc := parts["word/document.xml"]

	for _, want := range []string{
		`<w:pStyle w:val="Title"/>`,
		">The Glass Harbor<",
		`<w:pStyle w:val="Heading1"/>`,
		">Part One<",
		"<w:b/>",
		">cold<",
		"<w:i/>",
		"<w:strike/>",
		`<w:hyperlink r:id="rId2">`,
		`<w:rStyle w:val="Hyperlink"/>`,
		`<w:pgSz w:w="12240" w:h="15840"/>`,
		`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440"`,
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document.xml missing %q", want)
		}
	}
	if strings.Contains(doc, "Dropped.") {
		t.Error("excluded document leaked into document.xml")
	}
}

func TestDocxHyperlinkRelationship(t *testing.T) {
	parts := exportDocx(t, DefaultSettings())
	rels := parts["word/_rels/document.xml.rels"]

	for _, want := range []string{
		`Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"`,
		`Id="rId2"`,
		`Target="https://example.com/letter"`,
		`TargetMode="External"`,
	} {
		if !strings.Contains(rels, want) {
			t.Errorf("document.xml.rels missing %q", want)
		}
	}
}

func TestDocxStylesAndProps(t *testing.T) {
	parts := exportDocx(t, DefaultSettings())

	styles := parts["word/styles.xml"]
	for _, want := range []string{
		`w:ascii="Times New Roman"`,
		`<w:sz w:val="24"/>`,
		`<w:spacing w:line="360" w:lineRule="auto"/>`,
		`w:styleId="Heading1"`,
		`w:styleId="Heading6"`,
		`w:styleId="Hyperlink"`,
	} {
		if !strings.Contains(styles, want) {
			t.Errorf("styles.xml missing %q", want)
		}
	}

	if core := parts["docProps/core.xml"]; !strings.Contains(core, "<dc:title>The Glass Harbor</dc:title>") {
		t.Error("core.xml missing title")
	}
	app := parts["docProps/app.xml"]
	if !strings.Contains(app, "<Application>Inkwell</Application>") || !strings.Contains(app, "<Words>") {
		t.Error("app.xml missing application or word count")
	}
}

func TestDocxSeparators(t *testing.T) {
	settings := DefaultSettings()
	settings.IncludeTitlePage = false
	settings.Separator = SeparatorPageBreak
	parts := exportDocx(t, settings)
	if !strings.Contains(parts["word/document.xml"], `<w:br w:type="page"/>`) {
		t.Error("page break separator missing")
	}

	settings.Separator = SeparatorThreeAsterisks
	parts = exportDocx(t, settings)
	if !strings.Contains(parts["word/document.xml"], ">* * *<") {
		t.Error("scene break separator missing")
	}
}

func TestDocxPageGeometry(t *testing.T) {
	settings := DefaultSettings()
	settings.PageSize = PageA4
	settings.Margins = Margins{Top: 0.5, Bottom: 0.5, Left: 1.25, Right: 0.75}

	parts := exportDocx(t, settings)
	doc := parts["word/document.xml"]
	if !strings.Contains(doc, `<w:pgSz w:w="11906" w:h="16838"/>`) {
		t.Error("a4 page size wrong")
	}
	if !strings.Contains(doc, `<w:pgMar w:top="720" w:right="1080" w:bottom="720" w:left="1800"`) {
		t.Error("margins not converted to twips")
	}
}

func TestDocxSansFont(t *testing.T) {
	settings := DefaultSettings()
	settings.FontStyle = FontSans
	parts := exportDocx(t, settings)
	if !strings.Contains(parts["word/styles.xml"], `w:ascii="Arial"`) {
		t.Error("sans font missing from styles")
	}
}
