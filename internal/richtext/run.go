// Package richtext bridges between run-formatted text and its textual
// encodings. The run list is the neutral middle: Markdown and RTF both
// convert through it, so importers and exporters never translate between
// each other directly.
package richtext

// Run is a maximal span of text sharing one attribute set. A run list
// covers its document completely; concatenating the Text fields yields
// the full plain text.
type Run struct {
	Text string

	Bold          bool
	Italic        bool
	Strikethrough bool
	Underline     bool
	Highlight     bool

	// Link is the target URL; a linked run renders as the link alone,
	// ignoring any style attributes it also carries.
	Link string

	// Heading is 0 for body text or 1..3 for a heading line. The
	// attribute is line-scoped: it never spans a newline.
	Heading int
}

// Plain reports whether the run carries no formatting at all.
func (r Run) Plain() bool {
	return !r.Bold && !r.Italic && !r.Strikethrough && !r.Underline &&
		!r.Highlight && r.Link == "" && r.Heading == 0
}

// sameAttrs reports whether two runs carry identical attributes and can
// be merged into one span.
func sameAttrs(a, b Run) bool {
	return a.Bold == b.Bold && a.Italic == b.Italic &&
		a.Strikethrough == b.Strikethrough && a.Underline == b.Underline &&
		a.Highlight == b.Highlight && a.Link == b.Link && a.Heading == b.Heading
}

// mergeRuns joins adjacent runs with identical attributes and drops
// empty spans, producing the canonical minimal run list.
func mergeRuns(runs []Run) []Run {
	out := make([]Run, 0, len(runs))
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && sameAttrs(out[n-1], r) {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}

// PlainText concatenates the text of every run.
func PlainText(runs []Run) string {
	total := 0
	for _, r := range runs {
		total += len(r.Text)
	}
	b := make([]byte, 0, total)
	for _, r := range runs {
		b = append(b, r.Text...)
	}
	return string(b)
}
