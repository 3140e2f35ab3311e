package export

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models/manuscript"
)

// exportTestProject builds a small draft with one root document, one
// part folder holding two chapters, and one excluded document.
func exportTestProject() *manuscript.Project {
	part := &manuscript.Folder{ID: "part1", Title: "Part One", Kind: manuscript.FolderKindSub}
	part.Documents = []*manuscript.Document{
		{
			ID: "d1", Title: "Chapter One", Order: 1, IncludeInCompile: true,
			Content: "# Morning\n\nThe **cold** light crept in.\n\nShe read [the letter](https://example.com/letter) again.",
		},
		{
			ID: "d2", Title: "Chapter Two", Order: 2, IncludeInCompile: true,
			Content: "A plain paragraph with *emphasis* and ~~a cut line~~.",
		},
	}

	draft := &manuscript.Folder{ID: "draft", Title: "Draft", Kind: manuscript.FolderKindDraft}
	draft.Documents = []*manuscript.Document{
		{ID: "d0", Title: "Opening", Order: 1, IncludeInCompile: true, Content: "It began at sea."},
		{ID: "dx", Title: "Cut Scene", Order: 2, Content: "Dropped."},
	}
	draft.Folders = []*manuscript.Folder{part}

	return &manuscript.Project{
		Title:  "The Glass Harbor",
		Author: "M. Ashford",
		Draft:  draft,
	}
}

func TestRegistryHasAllFormats(t *testing.T) {
	got := NewRegistry().Formats()
	want := []Format{FormatDOCX, FormatEPUB, FormatHTML, FormatMarkdown, FormatPDF, FormatText}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Formats() = %v, want %v", got, want)
	}
}

func TestRegistryRoutesByFormat(t *testing.T) {
	r := NewRegistry()
	out, err := r.Export(context.Background(), FormatMarkdown, exportTestProject(), DefaultSettings())
	if err != nil {
		t.Fatalf("Export returned error: %v", err)
	}
	if !strings.HasPrefix(string(out), "# The Glass Harbor") {
		t.Errorf("markdown output starts with %q", string(out[:30]))
	}
}

func TestRegistryRejectsInvalidSettings(t *testing.T) {
	settings := DefaultSettings()
	settings.PageSize = "legal"

	_, err := NewRegistry().Export(context.Background(), FormatText, exportTestProject(), settings)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRegistryUnknownFormat(t *testing.T) {
	r := NewRegistry()
	if r.Get(Format("rtf")) != nil {
		t.Fatal("expected nil exporter for unregistered format")
	}
	_, err := r.Export(context.Background(), Format("rtf"), exportTestProject(), DefaultSettings())
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"markdown", FormatMarkdown, false},
		{"md", FormatMarkdown, false},
		{".md", FormatMarkdown, false},
		{"TXT", FormatText, false},
		{"plain", FormatText, false},
		{"htm", FormatHTML, false},
		{"docx", FormatDOCX, false},
		{"EPUB", FormatEPUB, false},
		{"pdf", FormatPDF, false},
		{"doc", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("ParseFormat(%q) error = %v, want validation error", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseFormat(%q) returned error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExporterMetadata(t *testing.T) {
	r := NewRegistry()
	for _, f := range r.Formats() {
		e := r.Get(f)
		if e.Format() != f {
			t.Errorf("exporter for %q reports format %q", f, e.Format())
		}
		if !strings.HasPrefix(e.FileExtension(), ".") {
			t.Errorf("%s extension %q missing leading dot", f, e.FileExtension())
		}
		if e.Name() == "" {
			t.Errorf("%s has empty name", f)
		}
	}
}

func TestExportersHonorCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRegistry()
	for _, f := range r.Formats() {
		_, err := r.Get(f).Export(ctx, exportTestProject(), DefaultSettings())
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%s: expected context.Canceled, got %v", f, err)
		}
	}
}
