package ingest

import "context"

// textConverter handles plain text files. Plain text is valid markdown,
// so this is effectively a passthrough.
type textConverter struct{}

// NewTextConverter creates the plain-text converter.
func NewTextConverter() Converter {
	return &textConverter{}
}

func (c *textConverter) Convert(ctx context.Context, input []byte) (string, error) {
	return string(input), nil
}

func (c *textConverter) SupportedExtensions() []string {
	return []string{".txt", ".text"}
}

func (c *textConverter) Name() string {
	return "plaintext"
}
