package manuscript

import (
	"strings"
	"unicode"
)

// CountWords counts the words in a markdown string, stripping syntax
// markers first so formatting does not inflate the count.
func CountWords(markdown string) int {
	text := stripMarkdown(markdown)

	words := strings.FieldsFunc(text, unicode.IsSpace)

	count := 0
	for _, word := range words {
		if strings.TrimSpace(word) != "" {
			count++
		}
	}
	return count
}

func stripMarkdown(markdown string) string {
	text := removeFencedBlocks(markdown)

	// Inline markers carry no words of their own.
	for _, marker := range []string{"`", "***", "**", "*", "__", "_", "~~", "==", "#"} {
		text = strings.ReplaceAll(text, marker, "")
	}

	// Links count the visible text, not the target.
	text = stripLinkTargets(text)

	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "> ")
		if len(line) > 2 && unicode.IsDigit(rune(line[0])) && line[1] == '.' {
			line = line[2:]
		}
		if line == "---" {
			line = ""
		}
		cleaned = append(cleaned, line)
	}
	return strings.Join(cleaned, " ")
}

func removeFencedBlocks(text string) string {
	for {
		start := strings.Index(text, "```")
		if start == -1 {
			break
		}
		end := strings.Index(text[start+3:], "```")
		if end == -1 {
			break
		}
		text = text[:start] + text[start+3+end+3:]
	}
	return text
}

// stripLinkTargets rewrites [text](url) to text so the url is not counted.
func stripLinkTargets(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		if text[i] != '[' {
			b.WriteByte(text[i])
			i++
			continue
		}
		close := strings.Index(text[i:], "](")
		if close == -1 {
			b.WriteByte(text[i])
			i++
			continue
		}
		end := strings.IndexByte(text[i+close+2:], ')')
		if end == -1 {
			b.WriteByte(text[i])
			i++
			continue
		}
		b.WriteString(text[i+1 : i+close])
		i += close + 2 + end + 1
	}
	return b.String()
}
