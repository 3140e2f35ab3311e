package ingest

import (
	"context"
	"fmt"

	"inkwell/internal/richtext"
)

// rtfConverter decodes RTF through the rich-text codec and renders the
// resulting runs as markdown.
type rtfConverter struct{}

// NewRTFConverter creates the RTF to markdown converter.
func NewRTFConverter() Converter {
	return &rtfConverter{}
}

func (c *rtfConverter) Convert(ctx context.Context, input []byte) (string, error) {
	markdown, err := richtext.RTFToMarkdown(input)
	if err != nil {
		return "", fmt.Errorf("failed to convert RTF to markdown: %w", err)
	}
	return markdown, nil
}

func (c *rtfConverter) SupportedExtensions() []string {
	return []string{".rtf"}
}

func (c *rtfConverter) Name() string {
	return "rtf"
}
