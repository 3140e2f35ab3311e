package richtext

import (
	"reflect"
	"testing"
)

func TestMarkdownToRunsStyles(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []Run
	}{
		{
			"plain text",
			"just words",
			[]Run{{Text: "just words"}},
		},
		{
			"bold",
			"a **b** c",
			[]Run{{Text: "a "}, {Text: "b", Bold: true}, {Text: " c"}},
		},
		{
			"bold italic beats bold and italic",
			"***x***",
			[]Run{{Text: "x", Bold: true, Italic: true}},
		},
		{
			"underscore variants",
			"__b__ and _i_",
			[]Run{{Text: "b", Bold: true}, {Text: " and "}, {Text: "i", Italic: true}},
		},
		{
			"strikethrough and highlight",
			"~~gone~~ ==marked==",
			[]Run{{Text: "gone", Strikethrough: true}, {Text: " "}, {Text: "marked", Highlight: true}},
		},
		{
			"link claims before styles",
			"[**label**](https://x.test)",
			[]Run{{Text: "**label**", Link: "https://x.test"}},
		},
		{
			"whitespace interior not claimed",
			"a ** ** b",
			[]Run{{Text: "a ** ** b"}},
		},
		{
			"markers spanning lines stay literal",
			"**a\nb**",
			[]Run{{Text: "**a\nb**"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkdownToRuns(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MarkdownToRuns(%q) =\n%#v\nwant\n%#v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMarkdownToRunsHeadings(t *testing.T) {
	got := MarkdownToRuns("# Title\nbody\n## Sub **bold**")
	want := []Run{
		{Text: "Title", Heading: 1},
		{Text: "\nbody\n"},
		{Text: "Sub ", Heading: 2},
		{Text: "bold", Heading: 2, Bold: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("heading parse =\n%#v\nwant\n%#v", got, want)
	}
}

func TestAdjacentBoldRunsScenario(t *testing.T) {
	runs := MarkdownToRuns("**bold** **more**")
	want := []Run{
		{Text: "bold", Bold: true},
		{Text: " "},
		{Text: "more", Bold: true},
	}
	if !reflect.DeepEqual(runs, want) {
		t.Fatalf("parse = %#v, want two bold runs separated by one space", runs)
	}

	back := RunsToMarkdown(runs)
	if back != "**bold more**" {
		t.Errorf("round-trip = %q, want %q", back, "**bold more**")
	}
}

func TestRunsToMarkdownWrapping(t *testing.T) {
	tests := []struct {
		name string
		in   []Run
		want string
	}{
		{
			"trimmed span wrapping",
			[]Run{{Text: "word "}, {Text: "bold ", Bold: true}, {Text: "word"}},
			"word **bold** word",
		},
		{
			"whitespace-only run never wrapped",
			[]Run{{Text: "x"}, {Text: "   ", Bold: true}, {Text: "y"}},
			"x   y",
		},
		{
			"link ignores styles on the run",
			[]Run{{Text: "here", Bold: true, Link: "https://x.test"}},
			"[here](https://x.test)",
		},
		{
			"combined attributes nest",
			[]Run{{Text: "x", Bold: true, Strikethrough: true}},
			"**~~x~~**",
		},
		{
			"underline is html",
			[]Run{{Text: "u", Underline: true}},
			"<u>u</u>",
		},
		{
			"heading line",
			[]Run{{Text: "Title", Heading: 2}, {Text: "\nbody"}},
			"## Title\nbody",
		},
		{
			"multi-line styled run wraps per line",
			[]Run{{Text: "a\nb", Italic: true}},
			"*a*\n*b*",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RunsToMarkdown(tt.in); got != tt.want {
				t.Errorf("RunsToMarkdown = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMarkdownRoundTrip(t *testing.T) {
	inputs := []string{
		"plain paragraph",
		"**bold** and *italic* and ~~struck~~",
		"# Title\n\nbody with ==highlight==",
		"see [the site](https://example.test) today",
		"***all three***",
	}
	for _, in := range inputs {
		got := RunsToMarkdown(MarkdownToRuns(in))
		if got != in {
			t.Errorf("round-trip changed %q into %q", in, got)
		}
	}
}

func TestPlainText(t *testing.T) {
	runs := []Run{{Text: "a ", Bold: true}, {Text: "b"}}
	if got := PlainText(runs); got != "a b" {
		t.Errorf("PlainText = %q", got)
	}
}
