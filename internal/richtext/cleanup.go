package richtext

import (
	"regexp"
	"strings"
)

var blankLineRuns = regexp.MustCompile(`\n{3,}`)

// markerJoins lists the collapse substitutions in the order they must
// run: triple markers before their double prefixes, so an adjacent pair
// of bold-italic spans is not half-eaten by the bold rule.
var markerJoins = []struct{ old, new string }{
	{"******", ""},
	{"*** ***", " "},
	{"****", ""},
	{"** **", " "},
	{"~~~~", ""},
	{"~~ ~~", " "},
	{"====", ""},
	{"== ==", " "},
}

// CleanupMarkdown normalizes converter output: line endings become LF,
// empty marker pairs collapse, identical markers meeting across a run
// boundary merge into one span, trailing whitespace is stripped per line,
// and long blank stretches shrink to one empty line. The pass is
// idempotent, so running it over already-clean text changes nothing.
func CleanupMarkdown(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	for _, j := range markerJoins {
		text = strings.ReplaceAll(text, j.old, j.new)
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	text = strings.Join(lines, "\n")

	return blankLineRuns.ReplaceAllString(text, "\n\n")
}
