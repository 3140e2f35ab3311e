package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"inkwell/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRegistryRoutesByExtension(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	tests := []struct {
		filename string
		content  string
		want     string
	}{
		{"notes.md", "# Notes\n\nBody.", "# Notes\n\nBody."},
		{"NOTES.MD", "upper", "upper"},
		{"plain.txt", "just text", "just text"},
		{"plain.text", "more text", "more text"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := r.Convert(ctx, tt.filename, []byte(tt.content))
			if err != nil {
				t.Fatalf("Convert: %v", err)
			}
			if got != tt.want {
				t.Errorf("Convert = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRegistryUnsupportedExtension(t *testing.T) {
	r := NewRegistry()
	_, err := r.Convert(context.Background(), "deck.pptx", []byte("x"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Convert error = %v, want validation error", err)
	}
	if r.Get(".pptx") != nil {
		t.Error("Get returned a converter for an unregistered extension")
	}
}

func TestRegistrySupportedExtensions(t *testing.T) {
	got := NewRegistry().SupportedExtensions()
	want := []string{".htm", ".html", ".markdown", ".md", ".rtf", ".text", ".txt"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SupportedExtensions = %v, want %v", got, want)
	}
}

func TestHTMLConversion(t *testing.T) {
	r := NewRegistry()
	input := `<h1>Title</h1><p>Hello <strong>world</strong>, see <a href="https://example.com">the site</a>.</p>`
	got, err := r.Convert(context.Background(), "page.html", []byte(input))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	for _, want := range []string{"# Title", "**world**", "[the site](https://example.com", "Hello"} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown missing %q in %q", want, got)
		}
	}
}

func TestHTMLConversionStripsActiveContent(t *testing.T) {
	r := NewRegistry()
	input := `<p onclick="steal()">Safe</p><script>alert('xss')</script><p>After</p>`
	got, err := r.Convert(context.Background(), "page.htm", []byte(input))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	for _, banned := range []string{"alert", "script", "onclick", "steal"} {
		if strings.Contains(got, banned) {
			t.Errorf("markdown retains %q: %q", banned, got)
		}
	}
	if !strings.Contains(got, "Safe") || !strings.Contains(got, "After") {
		t.Errorf("markdown lost safe content: %q", got)
	}
}

func TestRTFConversion(t *testing.T) {
	r := NewRegistry()
	input := `{\rtf1\ansi\ansicpg1252\deff0 Hello {\b bold} world}`
	got, err := r.Convert(context.Background(), "scene.rtf", []byte(input))
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if !strings.Contains(got, "Hello **bold** world") {
		t.Errorf("markdown = %q", got)
	}
}

func TestConverterNames(t *testing.T) {
	r := NewRegistry()
	tests := []struct {
		ext  string
		name string
	}{
		{".md", "markdown"},
		{".txt", "plaintext"},
		{".html", "html"},
		{".rtf", "rtf"},
	}
	for _, tt := range tests {
		c := r.Get(tt.ext)
		if c == nil {
			t.Fatalf("no converter for %s", tt.ext)
		}
		if c.Name() != tt.name {
			t.Errorf("converter for %s = %q, want %q", tt.ext, c.Name(), tt.name)
		}
	}
}

func TestDocumentTitle(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"chapter one.md", "chapter one"},
		{"/tmp/in/scene.rtf", "scene"},
		{"README", "README"},
		{".hidden", ".hidden"},
	}
	for _, tt := range tests {
		if got := documentTitle(tt.filename); got != tt.want {
			t.Errorf("documentTitle(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}

func TestImportFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		return path
	}

	paths := []string{
		writeFile("alpha.md", "# Alpha\n\nFirst body."),
		writeFile("beta.txt", "Second body."),
		writeFile("gamma.xyz", "binary"),
		filepath.Join(dir, "missing.md"),
		writeFile("broken.rtf", "not rtf at all"),
		writeFile("delta.rtf", `{\rtf1\ansi Third {\i body}.}`),
	}

	var fractions []float64
	progress := func(f float64, _ string) { fractions = append(fractions, f) }

	importer := NewFileImporter(NewRegistry(), testLogger())
	project, result, err := importer.ImportFiles(context.Background(), "Loose Pages", paths, progress)
	if err != nil {
		t.Fatalf("ImportFiles: %v", err)
	}

	if project.Title != "Loose Pages" {
		t.Errorf("title = %q", project.Title)
	}
	if err := project.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	if result.DocumentsImported != 3 || result.FoldersImported != 1 || result.ItemsSkipped != 3 {
		t.Errorf("counts = %d docs, %d folders, %d skipped",
			result.DocumentsImported, result.FoldersImported, result.ItemsSkipped)
	}
	if !result.HasErrors() {
		t.Error("read and convert failures should surface as error warnings")
	}

	docs := project.Draft.SortedDocuments()
	if len(docs) != 3 {
		t.Fatalf("draft documents = %d", len(docs))
	}
	wantTitles := []string{"alpha", "beta", "delta"}
	for i, doc := range docs {
		if doc.Title != wantTitles[i] {
			t.Errorf("doc %d title = %q, want %q", i, doc.Title, wantTitles[i])
		}
		if doc.Order != i+1 {
			t.Errorf("doc %d order = %d", i, doc.Order)
		}
		if !doc.IncludeInCompile {
			t.Errorf("doc %d excluded from compile", i)
		}
		if doc.ID == "" {
			t.Errorf("doc %d has no id", i)
		}
	}
	if docs[2].Content != "Third *body*." {
		t.Errorf("rtf content = %q", docs[2].Content)
	}

	bySeverity := map[domain.Severity]int{}
	for _, w := range result.Warnings {
		bySeverity[w.Severity]++
	}
	if bySeverity[domain.SeverityWarning] != 1 || bySeverity[domain.SeverityError] != 2 {
		t.Errorf("warnings by severity = %v", bySeverity)
	}

	if len(fractions) == 0 || fractions[len(fractions)-1] != 1.0 {
		t.Fatalf("progress fractions = %v", fractions)
	}
	for i := 1; i < len(fractions); i++ {
		if fractions[i] < fractions[i-1] {
			t.Errorf("progress went backwards at %d: %v", i, fractions)
		}
	}
}

func TestImportFilesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	importer := NewFileImporter(NewRegistry(), testLogger())
	_, _, err := importer.ImportFiles(ctx, "", []string{"a.md"}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
