package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"inkwell/internal/export"
)

// Settings is the TOML shape of a compile-settings preset. Keys absent
// from the file keep their default values, so a preset only has to name
// what it changes.
type Settings struct {
	PageSize    string          `toml:"page_size"`
	Font        string          `toml:"font"`
	FontSize    float64         `toml:"font_size"`
	LineSpacing float64         `toml:"line_spacing"`
	Separator   string          `toml:"separator"`
	Title       string          `toml:"title"`
	Author      string          `toml:"author"`
	Margins     MarginSettings  `toml:"margins"`
	Include     IncludeSettings `toml:"include"`
}

// MarginSettings are page margins in inches.
type MarginSettings struct {
	Top    float64 `toml:"top"`
	Bottom float64 `toml:"bottom"`
	Left   float64 `toml:"left"`
	Right  float64 `toml:"right"`
}

// IncludeSettings toggles the optional compile sections.
type IncludeSettings struct {
	TitlePage       bool `toml:"title_page"`
	TableOfContents bool `toml:"table_of_contents"`
	ChapterTitles   bool `toml:"chapter_titles"`
	PageNumbers     bool `toml:"page_numbers"`
	FrontMatter     bool `toml:"front_matter"`
}

// DefaultSettings returns the standard manuscript preset in file form.
func DefaultSettings() Settings {
	return settingsFrom(export.DefaultSettings())
}

// LoadSettings parses a preset file and resolves it against the
// defaults. The result is normalized and validated.
func LoadSettings(path string) (export.CompileSettings, error) {
	preset := DefaultSettings()

	f, err := os.Open(path)
	if err != nil {
		return export.CompileSettings{}, fmt.Errorf("open settings: %w", err)
	}
	defer f.Close()

	decoder := toml.NewDecoder(f)
	if err := decoder.Decode(&preset); err != nil {
		return export.CompileSettings{}, fmt.Errorf("parse settings: %w", err)
	}

	preset.normalize()
	compiled := preset.Compile()
	if err := compiled.Validate(); err != nil {
		return export.CompileSettings{}, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return compiled, nil
}

func settingsFrom(cs export.CompileSettings) Settings {
	return Settings{
		PageSize:    string(cs.PageSize),
		Font:        string(cs.FontStyle),
		FontSize:    cs.FontSize,
		LineSpacing: cs.LineSpacing,
		Separator:   string(cs.Separator),
		Title:       cs.TitleOverride,
		Author:      cs.AuthorOverride,
		Margins: MarginSettings{
			Top:    cs.Margins.Top,
			Bottom: cs.Margins.Bottom,
			Left:   cs.Margins.Left,
			Right:  cs.Margins.Right,
		},
		Include: IncludeSettings{
			TitlePage:       cs.IncludeTitlePage,
			TableOfContents: cs.IncludeTableOfContents,
			ChapterTitles:   cs.IncludeChapterTitles,
			PageNumbers:     cs.IncludePageNumbers,
			FrontMatter:     cs.IncludeFrontMatter,
		},
	}
}

// normalize folds case and maps spelling variants onto the canonical
// names. Values it cannot place are left for validation to reject.
func (s *Settings) normalize() {
	s.PageSize = strings.ToLower(strings.TrimSpace(s.PageSize))
	s.Font = normalizeFont(s.Font)
	s.Separator = normalizeSeparator(s.Separator)
	s.Title = strings.TrimSpace(s.Title)
	s.Author = strings.TrimSpace(s.Author)
}

func normalizeFont(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "serif":
		return string(export.FontSerif)
	case "sans", "sans-serif", "sansserif":
		return string(export.FontSans)
	case "mono", "monospace":
		return string(export.FontMono)
	}
	return value
}

func normalizeSeparator(value string) string {
	key := strings.ToLower(strings.TrimSpace(value))
	for _, sep := range []string{"_", "-", " "} {
		key = strings.ReplaceAll(key, sep, "")
	}
	switch key {
	case "none":
		return string(export.SeparatorNone)
	case "blankline":
		return string(export.SeparatorBlankLine)
	case "threeasterisks", "asterisks":
		return string(export.SeparatorThreeAsterisks)
	case "pagebreak":
		return string(export.SeparatorPageBreak)
	case "chapterheading":
		return string(export.SeparatorChapterHeading)
	}
	return value
}

// Compile converts the preset into the exporters' settings value.
func (s Settings) Compile() export.CompileSettings {
	return export.CompileSettings{
		PageSize:    export.PageSize(s.PageSize),
		FontStyle:   export.FontStyle(s.Font),
		FontSize:    s.FontSize,
		LineSpacing: s.LineSpacing,
		Separator:   export.Separator(s.Separator),
		Margins: export.Margins{
			Top:    s.Margins.Top,
			Bottom: s.Margins.Bottom,
			Left:   s.Margins.Left,
			Right:  s.Margins.Right,
		},
		IncludeTitlePage:       s.Include.TitlePage,
		IncludeTableOfContents: s.Include.TableOfContents,
		IncludeChapterTitles:   s.Include.ChapterTitles,
		IncludePageNumbers:     s.Include.PageNumbers,
		IncludeFrontMatter:     s.Include.FrontMatter,
		TitleOverride:          s.Title,
		AuthorOverride:         s.Author,
	}
}
