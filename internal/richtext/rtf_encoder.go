package richtext

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// rtfHeader declares plain ANSI RTF with one font and a yellow highlight
// color at index 1.
const rtfHeader = `{\rtf1\ansi\ansicpg1252\deff0\uc1` +
	`{\fonttbl{\f0\fnil\fcharset0 Helvetica;}}` +
	`{\colortbl;\red255\green255\blue0;}` + "\n" + `\pard\f0\fs24 `

// EncodeRTF renders runs as an RTF document. Styled spans are written as
// groups so state restores itself at the closing brace, and all non-ASCII
// content is escaped to 7-bit with \uN sequences.
func EncodeRTF(runs []Run) []byte {
	var b strings.Builder
	b.WriteString(rtfHeader)
	for _, r := range runs {
		writeRunRTF(&b, r)
	}
	b.WriteString("}")
	return []byte(b.String())
}

func writeRunRTF(b *strings.Builder, r Run) {
	if r.Link != "" {
		b.WriteString(`{\field{\*\fldinst{HYPERLINK "`)
		writeEscapedRTF(b, r.Link)
		b.WriteString(`"}}{\fldrslt `)
		writeEscapedRTF(b, r.Text)
		b.WriteString(`}}`)
		return
	}

	var controls []string
	if r.Heading > 0 {
		controls = append(controls, headingControl(r.Heading), `\b`)
	}
	if r.Bold && r.Heading == 0 {
		controls = append(controls, `\b`)
	}
	if r.Italic {
		controls = append(controls, `\i`)
	}
	if r.Strikethrough {
		controls = append(controls, `\strike`)
	}
	if r.Underline {
		controls = append(controls, `\ul`)
	}
	if r.Highlight {
		controls = append(controls, `\highlight1`)
	}

	if len(controls) == 0 {
		writeEscapedRTF(b, r.Text)
		return
	}
	b.WriteString("{")
	for _, c := range controls {
		b.WriteString(c)
	}
	b.WriteString(" ")
	writeEscapedRTF(b, r.Text)
	b.WriteString("}")
}

func headingControl(level int) string {
	switch level {
	case 1:
		return `\fs48`
	case 2:
		return `\fs36`
	default:
		return `\fs28`
	}
}

func writeEscapedRTF(b *strings.Builder, s string) {
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == '{':
			b.WriteString(`\{`)
		case r == '}':
			b.WriteString(`\}`)
		case r == '\n':
			b.WriteString("\\par\n")
		case r == '\t':
			b.WriteString(`\tab `)
		case r < 0x80:
			b.WriteRune(r)
		case r <= 0xffff:
			fmt.Fprintf(b, `\u%d?`, int16(uint16(r)))
		default:
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(b, `\u%d?\u%d?`, int16(uint16(r1)), int16(uint16(r2)))
		}
	}
}
