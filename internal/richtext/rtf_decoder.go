package richtext

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf16"

	"golang.org/x/text/encoding/charmap"
)

// rtfDest says where character data inside the current group goes.
type rtfDest int

const (
	destBody rtfDest = iota
	destSkip
	destFieldInst
	destFieldResult
)

// rtfState is the group-scoped decoder state, saved on { and restored
// on }.
type rtfState struct {
	attrs Run
	uc    int
	dest  rtfDest
}

type rtfDecoder struct {
	src []byte
	pos int

	cur   rtfState
	stack []rtfState

	runs []Run

	skip        int  // chars to swallow after \uN
	starPending bool // saw \* opening an optional destination
	highSurr    rune // first half of a surrogate pair from \uN

	fieldURL   string
	fieldLevel int
	instText   strings.Builder
}

// DecodeRTF converts an RTF byte stream into formatting runs. Only the
// character-level subset matters here: bold/italic/strikethrough/
// underline/highlight toggles, paragraph breaks, hyperlink fields, hex
// and \uN escapes. Font tables, color tables, stylesheets, embedded
// pictures and other destinations are skipped. Raw high bytes and \'hh
// escapes decode as Windows-1252.
func DecodeRTF(data []byte) ([]Run, error) {
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte(`{\rtf`)) {
		return nil, fmt.Errorf("not an RTF document")
	}
	d := &rtfDecoder{
		src:        data,
		cur:        rtfState{uc: 1},
		fieldLevel: -1,
	}
	if err := d.parse(); err != nil {
		return nil, err
	}
	return mergeRuns(d.runs), nil
}

func (d *rtfDecoder) parse() error {
	for d.pos < len(d.src) {
		switch c := d.src[d.pos]; c {
		case '{':
			d.pos++
			d.stack = append(d.stack, d.cur)
		case '}':
			d.pos++
			if len(d.stack) == 0 {
				return fmt.Errorf("unbalanced group close at byte %d", d.pos-1)
			}
			closing := d.cur
			d.cur = d.stack[len(d.stack)-1]
			d.stack = d.stack[:len(d.stack)-1]
			d.closeGroup(closing)
		case '\\':
			if err := d.control(); err != nil {
				return err
			}
		case '\r', '\n':
			// Line breaks in the source are formatting of the RTF
			// itself, not document content.
			d.pos++
		default:
			d.emitByte(c)
			d.pos++
		}
	}
	return nil
}

func (d *rtfDecoder) closeGroup(closing rtfState) {
	if closing.dest == destFieldInst && d.cur.dest != destFieldInst {
		d.fieldURL = parseHyperlink(d.instText.String())
		d.instText.Reset()
	}
	if d.fieldLevel >= 0 && len(d.stack) < d.fieldLevel {
		d.fieldURL = ""
		d.fieldLevel = -1
	}
}

func (d *rtfDecoder) control() error {
	d.pos++ // the backslash
	if d.pos >= len(d.src) {
		return fmt.Errorf("dangling control at end of input")
	}
	c := d.src[d.pos]
	switch {
	case c == '\'':
		d.pos++
		if d.pos+2 > len(d.src) {
			return fmt.Errorf("truncated hex escape at byte %d", d.pos)
		}
		hi, lo := unhex(d.src[d.pos]), unhex(d.src[d.pos+1])
		if hi < 0 || lo < 0 {
			return fmt.Errorf("invalid hex escape at byte %d", d.pos)
		}
		d.pos += 2
		d.emitByte(byte(hi<<4 | lo))
	case c == '*':
		d.pos++
		d.starPending = true
	case c == '\\' || c == '{' || c == '}':
		d.pos++
		d.emit(string(rune(c)))
	case c == '~':
		d.pos++
		d.emit(" ")
	case c == '-':
		d.pos++ // optional hyphen renders as nothing
	case c == '_':
		d.pos++
		d.emit("-")
	case c == '\r' || c == '\n':
		d.pos++
		d.emit("\n")
	case isAlpha(c):
		word, num, hasNum := d.readControlWord()
		d.apply(word, num, hasNum)
	default:
		d.pos++ // unrecognized control symbol, dropped
	}
	return nil
}

// readControlWord consumes letters, an optional signed number, and the
// single space delimiter when present.
func (d *rtfDecoder) readControlWord() (word string, num int, hasNum bool) {
	start := d.pos
	for d.pos < len(d.src) && isAlpha(d.src[d.pos]) {
		d.pos++
	}
	word = string(d.src[start:d.pos])

	neg := false
	if d.pos < len(d.src) && d.src[d.pos] == '-' {
		neg = true
		d.pos++
	}
	for d.pos < len(d.src) && d.src[d.pos] >= '0' && d.src[d.pos] <= '9' {
		num = num*10 + int(d.src[d.pos]-'0')
		hasNum = true
		d.pos++
	}
	if neg {
		if hasNum {
			num = -num
		} else {
			d.pos-- // the minus belonged to the next token
		}
	}
	if d.pos < len(d.src) && d.src[d.pos] == ' ' {
		d.pos++
	}
	return word, num, hasNum
}

func (d *rtfDecoder) apply(word string, num int, hasNum bool) {
	// A control word ends any pending \uN fallback sequence.
	if word != "u" {
		d.skip = 0
	}
	if d.starPending {
		d.starPending = false
		if word != "fldinst" {
			d.cur.dest = destSkip
			return
		}
	}
	if d.cur.dest == destSkip {
		return
	}

	switch word {
	case "fonttbl", "colortbl", "stylesheet", "info", "pict",
		"header", "footer", "footnote", "listtable", "listoverridetable":
		d.cur.dest = destSkip
	case "field":
		d.fieldLevel = len(d.stack)
	case "fldinst":
		d.cur.dest = destFieldInst
	case "fldrslt":
		d.cur.dest = destFieldResult
	case "b":
		// Heading groups carry \b for renderers; the heading level
		// already implies it.
		if d.cur.attrs.Heading == 0 {
			d.cur.attrs.Bold = !hasNum || num != 0
		}
	case "i":
		d.cur.attrs.Italic = !hasNum || num != 0
	case "strike":
		d.cur.attrs.Strikethrough = !hasNum || num != 0
	case "ul", "uldb":
		d.cur.attrs.Underline = !hasNum || num != 0
	case "ulnone":
		d.cur.attrs.Underline = false
	case "highlight", "cb":
		d.cur.attrs.Highlight = hasNum && num != 0
	case "fs":
		// The three heading sizes the encoder emits; anything else is
		// body text.
		switch num {
		case 48:
			d.cur.attrs.Heading = 1
		case 36:
			d.cur.attrs.Heading = 2
		case 28:
			d.cur.attrs.Heading = 3
		default:
			d.cur.attrs.Heading = 0
		}
	case "plain":
		d.cur.attrs = Run{}
	case "par", "line":
		d.emit("\n")
	case "tab":
		d.emit("\t")
	case "sect", "page":
		d.emit("\n")
	case "u":
		d.unicodeChar(num)
	case "uc":
		if hasNum {
			d.cur.uc = num
		}
	case "emdash":
		d.emit("—")
	case "endash":
		d.emit("–")
	case "lquote":
		d.emit("‘")
	case "rquote":
		d.emit("’")
	case "ldblquote":
		d.emit("“")
	case "rdblquote":
		d.emit("”")
	case "bullet":
		d.emit("•")
	}
}

func (d *rtfDecoder) unicodeChar(num int) {
	if num < 0 {
		num += 65536
	}
	r := rune(num)
	switch {
	case utf16.IsSurrogate(r):
		if d.highSurr != 0 {
			d.emit(string(utf16.DecodeRune(d.highSurr, r)))
			d.highSurr = 0
		} else {
			d.highSurr = r
		}
	default:
		d.emit(string(r))
	}
	d.skip = d.cur.uc
}

// emitByte routes one source character, honoring the \uN skip counter
// and decoding high bytes through the Windows-1252 table.
func (d *rtfDecoder) emitByte(b byte) {
	if d.skip > 0 {
		d.skip--
		return
	}
	if b < 0x80 {
		d.emit(string(rune(b)))
		return
	}
	d.emit(string(charmap.Windows1252.DecodeByte(b)))
}

func (d *rtfDecoder) emit(s string) {
	switch d.cur.dest {
	case destSkip:
	case destFieldInst:
		d.instText.WriteString(s)
	case destFieldResult:
		d.appendRun(s, d.fieldURL)
	default:
		d.appendRun(s, "")
	}
}

func (d *rtfDecoder) appendRun(s, link string) {
	r := d.cur.attrs
	r.Text = s
	r.Link = link
	if n := len(d.runs); n > 0 && sameAttrs(d.runs[n-1], r) {
		d.runs[n-1].Text += s
		return
	}
	d.runs = append(d.runs, r)
}

// parseHyperlink extracts the target from HYPERLINK field instructions,
// preferring the quoted form over a bare token.
func parseHyperlink(inst string) string {
	idx := strings.Index(inst, "HYPERLINK")
	if idx < 0 {
		return ""
	}
	rest := strings.TrimSpace(inst[idx+len("HYPERLINK"):])
	if strings.HasPrefix(rest, `"`) {
		if end := strings.Index(rest[1:], `"`); end >= 0 {
			return rest[1 : 1+end]
		}
	}
	if fields := strings.Fields(rest); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func unhex(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
