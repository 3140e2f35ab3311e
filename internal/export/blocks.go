package export

import (
	"strings"

	"inkwell/internal/richtext"
)

// mdBlock is one renderable markdown unit: a heading line or a paragraph
// of consecutive body lines, with inline styles resolved to run lists.
type mdBlock struct {
	level int // 0 for a paragraph
	lines [][]richtext.Run
}

// markdownBlocks splits document content into blocks. Heading markers
// are recognized through level six here; the run bridge itself only
// tags the first three levels, so deeper prefixes are handled before
// the line reaches it.
func markdownBlocks(md string) []mdBlock {
	md = strings.ReplaceAll(md, "\r\n", "\n")
	md = strings.ReplaceAll(md, "\r", "\n")

	var blocks []mdBlock
	var para [][]richtext.Run
	flush := func() {
		if len(para) > 0 {
			blocks = append(blocks, mdBlock{lines: para})
			para = nil
		}
	}

	for _, line := range strings.Split(md, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		if level, rest := headingLine(line); level > 0 {
			flush()
			blocks = append(blocks, mdBlock{
				level: level,
				lines: [][]richtext.Run{richtext.MarkdownToRuns(rest)},
			})
			continue
		}
		para = append(para, richtext.MarkdownToRuns(line))
	}
	flush()
	return blocks
}

// headingLine returns the ATX heading level and remaining text, or level
// zero when the line is body text. A marker needs a space after the
// hashes, so "#hashtag" stays prose.
func headingLine(line string) (int, string) {
	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level == 0 || level > maxHeadingLevel || level >= len(line) || line[level] != ' ' {
		return 0, line
	}
	return level, strings.TrimLeft(line[level:], " ")
}
