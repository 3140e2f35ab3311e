package export

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"inkwell/internal/domain/models/manuscript"
)

func exportPDF(t *testing.T, p *manuscript.Project, settings CompileSettings) string {
	t.Helper()
	out, err := NewPDFExporter().Export(context.Background(), p, settings)
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	return string(out)
}

func TestPDFStructure(t *testing.T) {
	got := exportPDF(t, exportTestProject(), DefaultSettings())

	if !strings.HasPrefix(got, "%PDF-1.4\n") {
		t.Fatal("missing PDF header")
	}
	if !strings.HasSuffix(got, "%%EOF\n") {
		t.Fatal("missing end-of-file marker")
	}
	for _, want := range []string{
		"/Type /Catalog",
		"/Type /Pages",
		"/BaseFont /Times-Roman",
		"/BaseFont /Times-Bold",
		"/Encoding /WinAnsiEncoding",
		"startxref",
		"(The Glass Harbor) Tj",
		"(by M. Ashford) Tj",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}

	// The page total must agree everywhere: kids list, count, xref.
	pageCount := strings.Count(got, "/Type /Page ")
	if pageCount < 2 {
		t.Fatalf("page count = %d, want at least a title page and a body page", pageCount)
	}
	if !strings.Contains(got, fmt.Sprintf("/Count %d", pageCount)) {
		t.Error("page tree count disagrees with page objects")
	}
	objects := 4 + 2*pageCount
	if !strings.Contains(got, fmt.Sprintf("xref\n0 %d\n", objects+1)) {
		t.Error("xref size disagrees with object count")
	}
	if !strings.Contains(got, fmt.Sprintf("/Size %d", objects+1)) {
		t.Error("trailer size disagrees with object count")
	}
}

func TestPDFPageNumbers(t *testing.T) {
	got := exportPDF(t, exportTestProject(), DefaultSettings())
	if !strings.Contains(got, "(2) Tj") {
		t.Error("second page folio missing")
	}
	settings := DefaultSettings()
	settings.IncludePageNumbers = false
	got = exportPDF(t, exportTestProject(), settings)
	if strings.Contains(got, "(2) Tj") {
		t.Error("folio rendered with page numbers off")
	}
}

func TestPDFPaginatesLongText(t *testing.T) {
	p := &manuscript.Project{
		Title: "Long",
		Draft: &manuscript.Folder{
			ID:   "draft",
			Kind: manuscript.FolderKindDraft,
			Documents: []*manuscript.Document{
				{ID: "d", Title: "Wall", Order: 1, IncludeInCompile: true,
					Content: strings.TrimSpace(strings.Repeat("athwart the long grey harbor wall ", 600))},
			},
		},
	}
	settings := DefaultSettings()
	settings.IncludeTitlePage = false
	settings.IncludePageNumbers = false

	got := exportPDF(t, p, settings)
	if pages := strings.Count(got, "/Type /Page "); pages < 2 {
		t.Errorf("long text produced %d page(s), want several", pages)
	}
}

func TestPDFFontSelection(t *testing.T) {
	settings := DefaultSettings()
	settings.FontStyle = FontSans
	got := exportPDF(t, exportTestProject(), settings)
	if !strings.Contains(got, "/BaseFont /Helvetica") {
		t.Error("sans font not selected")
	}

	settings.FontStyle = FontMono
	got = exportPDF(t, exportTestProject(), settings)
	if !strings.Contains(got, "/BaseFont /Courier") {
		t.Error("mono font not selected")
	}
}

func TestPDFEncodesOutsideASCII(t *testing.T) {
	p := &manuscript.Project{
		Title: "Café (Ω)",
		Draft: &manuscript.Folder{
			ID:   "draft",
			Kind: manuscript.FolderKindDraft,
			Documents: []*manuscript.Document{
				{ID: "d", Title: "One", Order: 1, IncludeInCompile: true, Content: "Night at the café."},
			},
		},
	}
	settings := DefaultSettings()
	got := exportPDF(t, p, settings)

	// The e-acute maps into the code page, the omega degrades, and the
	// parentheses arrive escaped.
	if !strings.Contains(got, "(Caf\xe9 \\(?\\)) Tj") {
		t.Error("title not encoded as expected")
	}
	if !strings.Contains(got, "caf\xe9.") {
		t.Error("body text lost its accented character")
	}
}

func TestPDFA4MediaBox(t *testing.T) {
	settings := DefaultSettings()
	settings.PageSize = PageA4
	got := exportPDF(t, exportTestProject(), settings)
	if !strings.Contains(got, "/MediaBox [0 0 595.28 841.89]") {
		t.Error("a4 media box missing")
	}
}
