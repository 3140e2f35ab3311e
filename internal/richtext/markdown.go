package richtext

import (
	"regexp"
	"sort"
	"strings"
)

// Marker patterns, one per attribute. Inner spans exclude the marker
// character and newlines, which keeps every match inside a single line.
// NUL is excluded too: claimed spans are masked with NUL bytes between
// passes, so no later pattern can reach into an earlier claim.
var (
	linkPattern      = regexp.MustCompile(`\[([^\]\n\x00]*)\]\(([^)\n\x00]*)\)`)
	boldItalicStars  = regexp.MustCompile(`\*\*\*([^*\n\x00]+)\*\*\*`)
	boldItalicUnders = regexp.MustCompile(`___([^_\n\x00]+)___`)
	boldStars        = regexp.MustCompile(`\*\*([^*\n\x00]+)\*\*`)
	boldUnders       = regexp.MustCompile(`__([^_\n\x00]+)__`)
	italicStars      = regexp.MustCompile(`\*([^*\n\x00]+)\*`)
	italicUnders     = regexp.MustCompile(`_([^_\n\x00]+)_`)
	strikePattern    = regexp.MustCompile(`~~([^~\n\x00]+)~~`)
	highlightPattern = regexp.MustCompile(`==([^=\n\x00]+)==`)
)

// stylePasses orders the marker scan. Earlier passes claim their spans
// first; later candidates overlapping a claimed span are discarded, so
// the asterisks of ***x*** are never re-read as bold or italic.
var stylePasses = []struct {
	re   *regexp.Regexp
	attr Run
}{
	{boldItalicStars, Run{Bold: true, Italic: true}},
	{boldItalicUnders, Run{Bold: true, Italic: true}},
	{boldStars, Run{Bold: true}},
	{boldUnders, Run{Bold: true}},
	{italicStars, Run{Italic: true}},
	{italicUnders, Run{Italic: true}},
	{strikePattern, Run{Strikethrough: true}},
	{highlightPattern, Run{Highlight: true}},
}

// MarkdownToRuns parses markdown into a run list. Matching is flat:
// links claim first, then styles in precedence order, and whatever no
// pattern claims stays as plain text with the markers intact. Heading
// prefixes apply to their own line only.
func MarkdownToRuns(markdown string) []Run {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")
	markdown = strings.ReplaceAll(markdown, "\r", "\n")

	var runs []Run
	lines := strings.Split(markdown, "\n")
	for i, line := range lines {
		heading := 0
		body := line
		switch {
		case strings.HasPrefix(line, "### "):
			heading, body = 3, line[4:]
		case strings.HasPrefix(line, "## "):
			heading, body = 2, line[3:]
		case strings.HasPrefix(line, "# "):
			heading, body = 1, line[2:]
		}
		runs = append(runs, lineRuns(body, heading)...)
		if i < len(lines)-1 {
			runs = append(runs, Run{Text: "\n"})
		}
	}
	return mergeRuns(runs)
}

// span is one claimed region of a line: the half-open byte range it
// covers and the run it produces, with markers already stripped.
type span struct {
	start, end int
	run        Run
}

func lineRuns(line string, heading int) []Run {
	spans := claimSpans(line)
	var runs []Run
	pos := 0
	for _, sp := range spans {
		if sp.start > pos {
			runs = append(runs, Run{Text: line[pos:sp.start], Heading: heading})
		}
		r := sp.run
		r.Heading = heading
		runs = append(runs, r)
		pos = sp.end
	}
	if pos < len(line) {
		runs = append(runs, Run{Text: line[pos:], Heading: heading})
	}
	return runs
}

func claimSpans(line string) []span {
	masked := []byte(line)
	var claimed []span
	claim := func(start, end int, run Run) {
		claimed = append(claimed, span{start: start, end: end, run: run})
		for i := start; i < end; i++ {
			masked[i] = 0
		}
	}

	for _, m := range linkPattern.FindAllStringSubmatchIndex(line, -1) {
		claim(m[0], m[1], Run{Text: line[m[2]:m[3]], Link: line[m[4]:m[5]]})
	}
	for _, pass := range stylePasses {
		// Scan the masked text so markers inside earlier claims cannot
		// open a false span, but slice run text from the original line.
		text := string(masked)
		for _, m := range pass.re.FindAllStringSubmatchIndex(text, -1) {
			inner := line[m[2]:m[3]]
			if strings.TrimSpace(inner) == "" {
				continue
			}
			r := pass.attr
			r.Text = inner
			claim(m[0], m[1], r)
		}
	}

	sort.Slice(claimed, func(i, j int) bool { return claimed[i].start < claimed[j].start })
	return claimed
}

// RunsToMarkdown renders a run list back to markdown and passes the
// result through CleanupMarkdown, which merges identical markers meeting
// at run boundaries.
func RunsToMarkdown(runs []Run) string {
	var b strings.Builder
	lineStart := true
	for _, r := range runs {
		rendered := renderRun(r, lineStart)
		if rendered == "" {
			continue
		}
		b.WriteString(rendered)
		lineStart = strings.HasSuffix(rendered, "\n")
	}
	return CleanupMarkdown(b.String())
}

// renderRun wraps one run's trimmed core in its markers. Whitespace-only
// runs pass through untouched so no marker ever wraps pure whitespace.
func renderRun(r Run, lineStart bool) string {
	text := r.Text
	if strings.TrimSpace(text) == "" {
		return text
	}
	lead := text[:len(text)-len(strings.TrimLeft(text, " \t\n"))]
	trail := text[len(strings.TrimRight(text, " \t\n")):]
	core := text[len(lead) : len(text)-len(trail)]

	var b strings.Builder
	b.WriteString(lead)
	if r.Heading > 0 && (lineStart || strings.Contains(lead, "\n")) {
		for i := 0; i < r.Heading; i++ {
			b.WriteByte('#')
		}
		b.WriteByte(' ')
	}
	if r.Link != "" {
		b.WriteString("[")
		b.WriteString(core)
		b.WriteString("](")
		b.WriteString(r.Link)
		b.WriteString(")")
	} else {
		prefix, suffix := styleMarkers(r)
		if prefix == "" {
			b.WriteString(core)
		} else {
			// Markers cannot span lines, so wrap each line separately.
			for i, seg := range strings.Split(core, "\n") {
				if i > 0 {
					b.WriteByte('\n')
				}
				b.WriteString(wrapSegment(seg, prefix, suffix))
			}
		}
	}
	b.WriteString(trail)
	return b.String()
}

func styleMarkers(r Run) (prefix, suffix string) {
	var marker string
	switch {
	case r.Bold && r.Italic:
		marker = "***"
	case r.Bold:
		marker = "**"
	case r.Italic:
		marker = "*"
	}
	if marker != "" {
		prefix, suffix = marker, marker
	}
	if r.Strikethrough {
		prefix, suffix = prefix+"~~", "~~"+suffix
	}
	if r.Highlight {
		prefix, suffix = prefix+"==", "=="+suffix
	}
	if r.Underline {
		prefix, suffix = prefix+"<u>", "</u>"+suffix
	}
	return prefix, suffix
}

func wrapSegment(segment, prefix, suffix string) string {
	if strings.TrimSpace(segment) == "" {
		return segment
	}
	lead := segment[:len(segment)-len(strings.TrimLeft(segment, " \t"))]
	trail := segment[len(strings.TrimRight(segment, " \t")):]
	return lead + prefix + segment[len(lead):len(segment)-len(trail)] + suffix + trail
}
