// Package export renders a manuscript into distributable formats. Every
// exporter consumes the same flattened compile stream and a shared
// CompileSettings value, so the formats differ only in how they put
// chapters on the page.
package export

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// PageSize selects the physical page for paginated formats.
type PageSize string

const (
	PageLetter PageSize = "letter"
	PageA4     PageSize = "a4"
)

// FontStyle selects the typeface family for formats that embed one.
type FontStyle string

const (
	FontSerif FontStyle = "serif"
	FontSans  FontStyle = "sans"
	FontMono  FontStyle = "mono"
)

// Separator is the policy applied between consecutive documents.
type Separator string

const (
	SeparatorNone           Separator = "none"
	SeparatorBlankLine      Separator = "blankLine"
	SeparatorThreeAsterisks Separator = "threeAsterisks"
	SeparatorPageBreak      Separator = "pageBreak"
	SeparatorChapterHeading Separator = "chapterHeading"
)

// Margins are page margins in inches.
type Margins struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

func (m Margins) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Top, validation.Min(0.0)),
		validation.Field(&m.Bottom, validation.Min(0.0)),
		validation.Field(&m.Left, validation.Min(0.0)),
		validation.Field(&m.Right, validation.Min(0.0)),
	)
}

// CompileSettings carries every knob the exporters honor. The zero value
// is not usable; start from DefaultSettings and override fields.
type CompileSettings struct {
	PageSize    PageSize
	Margins     Margins
	FontStyle   FontStyle
	FontSize    float64 // points
	LineSpacing float64 // multiple of single spacing

	IncludeTitlePage       bool
	IncludeTableOfContents bool
	IncludeChapterTitles   bool
	IncludePageNumbers     bool
	IncludeFrontMatter     bool

	Separator Separator

	// Overrides replace the project's own title/author when non-empty.
	TitleOverride  string
	AuthorOverride string
}

// DefaultSettings returns the standard manuscript preset: US letter,
// one-inch margins, 12pt serif at 1.5 spacing, chapter titles and page
// numbers on.
func DefaultSettings() CompileSettings {
	return CompileSettings{
		PageSize:             PageLetter,
		Margins:              Margins{Top: 1, Bottom: 1, Left: 1, Right: 1},
		FontStyle:            FontSerif,
		FontSize:             12,
		LineSpacing:          1.5,
		IncludeTitlePage:     true,
		IncludeChapterTitles: true,
		IncludePageNumbers:   true,
		Separator:            SeparatorBlankLine,
	}
}

func (s CompileSettings) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.PageSize, validation.Required, validation.In(PageLetter, PageA4)),
		validation.Field(&s.FontStyle, validation.Required, validation.In(FontSerif, FontSans, FontMono)),
		validation.Field(&s.FontSize, validation.Min(6.0), validation.Max(72.0)),
		validation.Field(&s.LineSpacing, validation.Min(0.5), validation.Max(3.0)),
		validation.Field(&s.Separator, validation.Required,
			validation.In(SeparatorNone, SeparatorBlankLine, SeparatorThreeAsterisks, SeparatorPageBreak, SeparatorChapterHeading)),
		validation.Field(&s.Margins, validation.By(marginsFitPage(s))),
	)
}

// marginsFitPage rejects margin pairs that leave no printable area on
// the selected page.
func marginsFitPage(s CompileSettings) validation.RuleFunc {
	return func(value interface{}) error {
		m, ok := value.(Margins)
		if !ok {
			return nil
		}
		w, h := s.PageSize.dimensions()
		if (m.Left+m.Right)*72 >= w {
			return errors.New("horizontal margins leave no printable width")
		}
		if (m.Top+m.Bottom)*72 >= h {
			return errors.New("vertical margins leave no printable height")
		}
		return nil
	}
}

// dimensions returns the page width and height in points. Unknown sizes
// fall back to letter so geometry helpers stay total.
func (p PageSize) dimensions() (w, h float64) {
	switch p {
	case PageA4:
		return 595.28, 841.89
	default:
		return 612, 792
	}
}

// ResolveTitle returns the override when set, the project title when
// present, and a placeholder otherwise.
func (s CompileSettings) ResolveTitle(projectTitle string) string {
	if s.TitleOverride != "" {
		return s.TitleOverride
	}
	if projectTitle != "" {
		return projectTitle
	}
	return "Untitled"
}

// ResolveAuthor returns the override when set, otherwise the project
// author. Empty means no author line is rendered.
func (s CompileSettings) ResolveAuthor(projectAuthor string) string {
	if s.AuthorOverride != "" {
		return s.AuthorOverride
	}
	return projectAuthor
}
