package ingest

import (
	"context"
	"fmt"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// htmlConverter converts HTML files to markdown in two stages: sanitize
// the markup, then translate what survives.
type htmlConverter struct {
	sanitizer *HTMLSanitizer
	converter *md.Converter
}

// NewHTMLConverter creates the HTML to markdown converter. Input is
// always sanitized before translation.
func NewHTMLConverter() Converter {
	return &htmlConverter{
		sanitizer: NewHTMLSanitizer(),
		converter: md.NewConverter("", true, nil),
	}
}

func (c *htmlConverter) Convert(ctx context.Context, input []byte) (string, error) {
	sanitized, err := c.sanitizer.Sanitize(string(input))
	if err != nil {
		return "", fmt.Errorf("failed to sanitize HTML: %w", err)
	}

	markdown, err := c.converter.ConvertString(sanitized)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to markdown: %w", err)
	}

	return markdown, nil
}

func (c *htmlConverter) SupportedExtensions() []string {
	return []string{".html", ".htm"}
}

func (c *htmlConverter) Name() string {
	return "html"
}
