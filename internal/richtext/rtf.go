package richtext

// RTFToMarkdown decodes RTF bytes and renders the runs as markdown.
// Decode errors propagate so callers can apply their own fallback
// (plain-text reinterpretation, per-item warnings) without this package
// deciding for them.
func RTFToMarkdown(data []byte) (string, error) {
	runs, err := DecodeRTF(data)
	if err != nil {
		return "", err
	}
	return RunsToMarkdown(runs), nil
}

// MarkdownToRTF parses markdown and encodes the runs as an RTF document.
func MarkdownToRTF(markdown string) []byte {
	return EncodeRTF(MarkdownToRuns(markdown))
}
