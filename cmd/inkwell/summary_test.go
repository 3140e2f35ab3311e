package main

import (
	"bytes"
	"strings"
	"testing"

	"inkwell/internal/domain"
)

func TestWriteSummaryPlainLines(t *testing.T) {
	var buf bytes.Buffer
	writeSummary(&buf, []summaryRow{
		{"Documents", "3"},
		{"Workspace", "/tmp/ws"},
	})
	want := "documents: 3\nworkspace: /tmp/ws\n"
	if buf.String() != want {
		t.Fatalf("plain summary = %q, want %q", buf.String(), want)
	}
}

func TestWriteImportSummaryCountsAndWarnings(t *testing.T) {
	result := &domain.Result{
		DocumentsImported: 4,
		FoldersImported:   2,
		ItemsSkipped:      1,
	}
	result.AddWarning("Sketches", "embedded image dropped", domain.SeverityInfo)
	result.AddWarning("Chapter 3", "unreadable content file", domain.SeverityError)

	var buf bytes.Buffer
	writeImportSummary(&buf, "/tmp/ws", result)
	out := buf.String()

	for _, line := range []string{
		"documents: 4",
		"folders: 2",
		"skipped: 1",
		"info: 1",
		"warnings: 0",
		"errors: 1",
		"[info] Sketches: embedded image dropped",
		"[error] Chapter 3: unreadable content file",
	} {
		if !strings.Contains(out, line) {
			t.Errorf("summary missing %q:\n%s", line, out)
		}
	}
}

func TestSeverityCounts(t *testing.T) {
	warnings := []domain.Warning{
		{Severity: domain.SeverityInfo},
		{Severity: domain.SeverityWarning},
		{Severity: domain.SeverityWarning},
		{Severity: domain.SeverityError},
	}
	infos, warns, errs := severityCounts(warnings)
	if infos != 1 || warns != 2 || errs != 1 {
		t.Fatalf("severityCounts = %d, %d, %d", infos, warns, errs)
	}
}

func TestSizeString(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{1 << 20, "1.0 MiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tc := range cases {
		if got := sizeString(tc.n); got != tc.want {
			t.Errorf("sizeString(%d) = %q, want %q", tc.n, got, tc.want)
		}
	}
}

func TestRenderTableHeaderless(t *testing.T) {
	out := renderTable(nil, [][]string{{"Documents", "3"}, {"Folders", "1"}}, []columnAlignment{alignLeft, alignRight})
	if !strings.Contains(out, "Documents") || !strings.Contains(out, "3") {
		t.Fatalf("table missing cells:\n%s", out)
	}
	if strings.Contains(out, "DOCUMENTS") {
		t.Fatalf("headerless table should not render a header row:\n%s", out)
	}
}

func TestFormatsOutput(t *testing.T) {
	stdout, _, err := runCLI(t, "formats")
	if err != nil {
		t.Fatalf("formats: %v", err)
	}
	for _, format := range []string{"scriv", "docx", "epub", "pdf", "markdown", "text", "html"} {
		requireContains(t, stdout, format)
	}
	requireContains(t, stdout, ".epub")
	requireContains(t, stdout, "Scrivener bundle")
}
