package config_test

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"inkwell/internal/config"
	"inkwell/internal/export"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("INKWELL_ENV", "")
	t.Setenv("INKWELL_LOG_LEVEL", "")
	t.Setenv("INKWELL_LOG_FORMAT", "")
	t.Setenv("INKWELL_LOG_DIR", "")
	t.Setenv("INKWELL_LOG_MAX_FILES", "")

	cfg := config.Load()
	if cfg.Environment != "dev" {
		t.Errorf("Environment = %q, want dev", cfg.Environment)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug in dev", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want text", cfg.LogFormat)
	}
	if cfg.LogDir != "" {
		t.Errorf("LogDir = %q, want empty", cfg.LogDir)
	}
	if cfg.LogMaxFiles != 10 {
		t.Errorf("LogMaxFiles = %d, want 10", cfg.LogMaxFiles)
	}
}

func TestLoadProdDefaultsToInfo(t *testing.T) {
	t.Setenv("INKWELL_ENV", "prod")
	t.Setenv("INKWELL_LOG_LEVEL", "")

	cfg := config.Load()
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info in prod", cfg.LogLevel)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("INKWELL_ENV", "prod")
	t.Setenv("INKWELL_LOG_LEVEL", "warn")
	t.Setenv("INKWELL_LOG_FORMAT", "json")
	t.Setenv("INKWELL_LOG_DIR", "/tmp/inkwell-logs")
	t.Setenv("INKWELL_LOG_MAX_FILES", "3")

	cfg := config.Load()
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
	if cfg.LogDir != "/tmp/inkwell-logs" {
		t.Errorf("LogDir = %q", cfg.LogDir)
	}
	if cfg.LogMaxFiles != 3 {
		t.Errorf("LogMaxFiles = %d, want 3", cfg.LogMaxFiles)
	}
}

func TestLoadIgnoresBadMaxFiles(t *testing.T) {
	t.Setenv("INKWELL_LOG_MAX_FILES", "not-a-number")
	cfg := config.Load()
	if cfg.LogMaxFiles != 10 {
		t.Errorf("LogMaxFiles = %d, want default 10", cfg.LogMaxFiles)
	}

	t.Setenv("INKWELL_LOG_MAX_FILES", "-2")
	cfg = config.Load()
	if cfg.LogMaxFiles != 10 {
		t.Errorf("LogMaxFiles = %d, want default 10 for negative value", cfg.LogMaxFiles)
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		cfg := &config.Config{LogLevel: tt.name}
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestNewLoggerFormats(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{LogLevel: "info", LogFormat: "json"}
	cfg.NewLogger(&buf).Info("hello", "key", "value")
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("json logger output = %q", buf.String())
	}

	buf.Reset()
	cfg = &config.Config{LogLevel: "info", LogFormat: "text"}
	cfg.NewLogger(&buf).Info("hello", "key", "value")
	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("text logger output = %q", buf.String())
	}
}

func TestNewLoggerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{LogLevel: "error", LogFormat: "text"}
	logger := cfg.NewLogger(&buf)
	logger.Info("dropped")
	logger.Error("kept")
	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Errorf("info record leaked through error level: %q", out)
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("error record missing: %q", out)
	}
}

func TestSetupLogFileCreatesAndPrunes(t *testing.T) {
	dir := t.TempDir()

	// Seed old logs whose names sort before any new timestamp.
	old := []string{"inkwell-2020-01-01T00-00-00.log", "inkwell-2020-01-02T00-00-00.log"}
	for _, name := range old {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("old"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	f, err := config.SetupLogFile(dir, 2)
	if err != nil {
		t.Fatalf("SetupLogFile failed: %v", err)
	}
	defer f.Close()

	if !strings.HasPrefix(filepath.Base(f.Name()), "inkwell-") {
		t.Errorf("log file name = %q, want inkwell- prefix", f.Name())
	}
	if !strings.HasSuffix(f.Name(), ".log") {
		t.Errorf("log file name = %q, want .log suffix", f.Name())
	}

	files, err := filepath.Glob(filepath.Join(dir, "inkwell-*.log"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d log files after cleanup, want 2: %v", len(files), files)
	}
	// The oldest seeded file is the one removed.
	if _, err := os.Stat(filepath.Join(dir, old[0])); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected %s to be pruned", old[0])
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := config.LoadSettings(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("expected error for missing settings file")
	}
}

func TestLoadSettingsDefaultsWhenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compile.toml")
	if err := os.WriteFile(path, []byte(""), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := config.LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	want := export.DefaultSettings()
	if got != want {
		t.Errorf("empty preset = %+v, want defaults %+v", got, want)
	}
}

func TestLoadSettingsOverrides(t *testing.T) {
	preset := `
page_size = "A4"
font = "monospace"
font_size = 11
line_spacing = 2.0
separator = "page_break"
title = "  Working Title  "
author = "E. Blake"

[margins]
top = 0.5
bottom = 0.5

[include]
title_page = false
table_of_contents = true
`
	path := filepath.Join(t.TempDir(), "compile.toml")
	if err := os.WriteFile(path, []byte(preset), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := config.LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}

	if got.PageSize != export.PageA4 {
		t.Errorf("PageSize = %q, want a4", got.PageSize)
	}
	if got.FontStyle != export.FontMono {
		t.Errorf("FontStyle = %q, want mono", got.FontStyle)
	}
	if got.FontSize != 11 {
		t.Errorf("FontSize = %v, want 11", got.FontSize)
	}
	if got.LineSpacing != 2.0 {
		t.Errorf("LineSpacing = %v, want 2.0", got.LineSpacing)
	}
	if got.Separator != export.SeparatorPageBreak {
		t.Errorf("Separator = %q, want pageBreak", got.Separator)
	}
	if got.TitleOverride != "Working Title" {
		t.Errorf("TitleOverride = %q", got.TitleOverride)
	}
	if got.AuthorOverride != "E. Blake" {
		t.Errorf("AuthorOverride = %q", got.AuthorOverride)
	}
	if got.Margins.Top != 0.5 || got.Margins.Bottom != 0.5 {
		t.Errorf("Margins = %+v, want 0.5 top and bottom", got.Margins)
	}
	// Keys absent from the file keep their defaults.
	if got.Margins.Left != 1 || got.Margins.Right != 1 {
		t.Errorf("Margins = %+v, want default 1.0 left and right", got.Margins)
	}
	if got.IncludeTitlePage {
		t.Error("IncludeTitlePage = true, want false from preset")
	}
	if !got.IncludeTableOfContents {
		t.Error("IncludeTableOfContents = false, want true from preset")
	}
	if !got.IncludeChapterTitles {
		t.Error("IncludeChapterTitles = false, want default true")
	}
	if !got.IncludePageNumbers {
		t.Error("IncludePageNumbers = false, want default true")
	}
}

func TestLoadSettingsSeparatorSpellings(t *testing.T) {
	tests := []struct {
		in   string
		want export.Separator
	}{
		{"none", export.SeparatorNone},
		{"blankLine", export.SeparatorBlankLine},
		{"blank-line", export.SeparatorBlankLine},
		{"three_asterisks", export.SeparatorThreeAsterisks},
		{"asterisks", export.SeparatorThreeAsterisks},
		{"PAGEBREAK", export.SeparatorPageBreak},
		{"chapter heading", export.SeparatorChapterHeading},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "compile.toml")
			body := "separator = \"" + tt.in + "\"\n"
			if err := os.WriteFile(path, []byte(body), 0644); err != nil {
				t.Fatal(err)
			}
			got, err := config.LoadSettings(path)
			if err != nil {
				t.Fatalf("LoadSettings failed: %v", err)
			}
			if got.Separator != tt.want {
				t.Errorf("Separator = %q, want %q", got.Separator, tt.want)
			}
		})
	}
}

func TestLoadSettingsRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown page size", "page_size = \"tabloid\"\n"},
		{"unknown separator", "separator = \"stars\"\n"},
		{"font size out of range", "font_size = 200\n"},
		{"margins swallow page", "[margins]\nleft = 5.0\nright = 5.0\n"},
		{"malformed toml", "page_size = [broken\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "compile.toml")
			if err := os.WriteFile(path, []byte(tt.body), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := config.LoadSettings(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestDefaultSettingsRoundTrip(t *testing.T) {
	if got := config.DefaultSettings().Compile(); got != export.DefaultSettings() {
		t.Errorf("DefaultSettings().Compile() = %+v, want export defaults", got)
	}
}
