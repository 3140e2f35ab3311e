package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// seedWorkspace imports two markdown chapters and returns the workspace
// directory.
func seedWorkspace(t *testing.T, base, title string) string {
	t.Helper()
	ch1 := filepath.Join(base, "ch1.md")
	ch2 := filepath.Join(base, "ch2.md")
	writeFile(t, ch1, "# One\n\nHello **world**.\n")
	writeFile(t, ch2, "The second chapter.\n")
	ws := filepath.Join(base, "ws")
	if _, _, err := runCLI(t, "import", ch1, ch2, "-o", ws, "--title", title); err != nil {
		t.Fatalf("seed import: %v", err)
	}
	return ws
}

func TestExportMarkdown(t *testing.T) {
	base := t.TempDir()
	ws := seedWorkspace(t, base, "Night Train")
	out := filepath.Join(base, "out.md")

	stdout, _, err := runCLI(t, "export", ws, "--format", "markdown", "-o", out)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	requireContains(t, stdout, "format: markdown")
	requireContains(t, stdout, "documents: 2")

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	requireContains(t, string(data), "Hello **world**.")
	requireContains(t, string(data), "The second chapter.")
}

func TestExportScrivZipRoundTrip(t *testing.T) {
	base := t.TempDir()
	ws := seedWorkspace(t, base, "Night Train")
	bundle := filepath.Join(base, "night.scriv")

	stdout, _, err := runCLI(t, "export", ws, "--format", "scriv", "-o", bundle, "--zip")
	if err != nil {
		t.Fatalf("export scriv: %v", err)
	}
	requireContains(t, stdout, "format: scriv")
	archive := filepath.Join(base, "night.zip")
	requireContains(t, stdout, "archive: "+archive)
	if _, err := os.Stat(archive); err != nil {
		t.Fatalf("archive missing: %v", err)
	}

	// The packaged archive imports back through the bundle pipeline.
	ws2 := filepath.Join(base, "ws2")
	stdout, _, err = runCLI(t, "import", archive, "-o", ws2)
	if err != nil {
		t.Fatalf("import archive: %v", err)
	}
	requireContains(t, stdout, "documents: 2")

	out := filepath.Join(base, "out.txt")
	if _, _, err := runCLI(t, "export", ws2, "--format", "text", "-o", out); err != nil {
		t.Fatalf("export text: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	requireContains(t, string(data), "Hello world.")
	requireContains(t, string(data), "The second chapter.")
}

func TestExportWithSettingsFile(t *testing.T) {
	base := t.TempDir()
	ws := seedWorkspace(t, base, "Night Train")
	preset := filepath.Join(base, "compile.toml")
	writeFile(t, preset, "font = \"monospace\"\npage_size = \"A4\"\n")
	out := filepath.Join(base, "out.html")

	if _, _, err := runCLI(t, "export", ws, "--format", "html", "-o", out, "--settings", preset); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	requireContains(t, string(data), "monospace")
}

func TestExportRejectsBadSettings(t *testing.T) {
	base := t.TempDir()
	ws := seedWorkspace(t, base, "Night Train")
	preset := filepath.Join(base, "compile.toml")
	writeFile(t, preset, "page_size = \"tabloid\"\n")

	_, _, err := runCLI(t, "export", ws, "--format", "html", "-o", filepath.Join(base, "out.html"), "--settings", preset)
	if err == nil {
		t.Fatal("expected invalid settings to fail")
	}
	requireContains(t, err.Error(), "invalid settings")
}

func TestExportUnknownFormat(t *testing.T) {
	base := t.TempDir()
	ws := seedWorkspace(t, base, "Night Train")

	_, _, err := runCLI(t, "export", ws, "--format", "yaml", "-o", filepath.Join(base, "out.yaml"))
	if err == nil {
		t.Fatal("expected unknown format to fail")
	}
	requireContains(t, err.Error(), "unknown export format")
}

func TestExportZipOnlyForScriv(t *testing.T) {
	base := t.TempDir()
	ws := seedWorkspace(t, base, "Night Train")

	_, _, err := runCLI(t, "export", ws, "--format", "markdown", "-o", filepath.Join(base, "out.md"), "--zip")
	if err == nil {
		t.Fatal("expected --zip with a document format to fail")
	}
	requireContains(t, err.Error(), "scriv")
}

func TestArchiveName(t *testing.T) {
	cases := map[string]string{
		"novel.scriv":       "novel.zip",
		"/tmp/a/b.scriv":    "/tmp/a/b.zip",
		"bare":              "bare.zip",
		"dotted.name.scriv": "dotted.name.zip",
	}
	for in, want := range cases {
		if got := archiveName(in); got != want {
			t.Errorf("archiveName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExportMissingWorkspace(t *testing.T) {
	base := t.TempDir()
	_, _, err := runCLI(t, "export", filepath.Join(base, "nope"), "--format", "markdown", "-o", filepath.Join(base, "out.md"))
	if err == nil {
		t.Fatal("expected a missing workspace to fail")
	}
	if strings.Contains(err.Error(), "completed with warnings") {
		t.Fatalf("load failure should not read as a warning outcome: %v", err)
	}
}
