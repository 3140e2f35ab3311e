package ingest

import "context"

// markdownConverter is a passthrough; markdown needs no conversion.
type markdownConverter struct{}

// NewMarkdownConverter creates the markdown passthrough converter.
func NewMarkdownConverter() Converter {
	return &markdownConverter{}
}

func (c *markdownConverter) Convert(ctx context.Context, input []byte) (string, error) {
	return string(input), nil
}

func (c *markdownConverter) SupportedExtensions() []string {
	return []string{".md", ".markdown"}
}

func (c *markdownConverter) Name() string {
	return "markdown"
}
