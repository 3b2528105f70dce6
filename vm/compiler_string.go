package vm

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"slumber/types"
)

// interpolate compiles the body of a double quoted string. Plain strings
// become a literal; strings with variable references become a
// BuildStringStep.
func (c *Compiler) interpolate(text string, line int) {
	var parts []StringPart
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			parts = append(parts, StringPart{Text: buf.String()})
			buf.Reset()
		}
	}

	for i := 0; i < len(text); {
		ch := text[i]
		switch {
		case ch == '\\' && i+1 < len(text):
			n := unescape(&buf, text, i)
			i += n
		case ch == '$' || ch == '@' || ch == '%':
			ref, width, n := varReference(text[i:])
			if n == 0 {
				buf.WriteByte(ch)
				i++
				continue
			}
			flush()
			parts = append(parts, StringPart{Value: c.valueBlockText(ref, line), Width: width})
			i += n
		default:
			if ch == '\n' {
				line++
			}
			buf.WriteByte(ch)
			i++
		}
	}
	flush()

	switch {
	case len(parts) == 0:
		c.literal(types.NewString(""), line)
	case len(parts) == 1 && parts[0].Value == nil:
		c.literal(types.NewString(parts[0].Text), line)
	default:
		c.add(&BuildStringStep{Parts: parts}, line)
	}
}

// unescape writes the escape at text[i] and returns how many bytes it used
func unescape(b *strings.Builder, text string, i int) int {
	next := text[i+1]
	switch next {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case '"', '\\', '$':
		b.WriteByte(next)
	case 'u':
		if r, ok := hexRune(text, i+2, 4); ok {
			b.WriteRune(r)
			return 6
		}
		b.WriteString(text[i : i+2])
	case 'x':
		if r, ok := hexRune(text, i+2, 2); ok {
			b.WriteRune(r)
			return 4
		}
		b.WriteString(text[i : i+2])
	default:
		b.WriteString(text[i : i+2])
	}
	return 2
}

func hexRune(text string, start, digits int) (rune, bool) {
	if start+digits > len(text) {
		return 0, false
	}
	v, err := strconv.ParseUint(text[start:start+digits], 16, 32)
	if err != nil || !utf8.ValidRune(rune(v)) {
		return 0, false
	}
	return rune(v), true
}

// varReference scans $[width]name[index]... at the start of text. It
// returns the value expression, the width and the bytes consumed, or 0
// consumed when text does not start a reference. @name and %name only
// interpolate when indexed, so "a@b.com" stays literal.
func varReference(text string) (string, int, int) {
	sigil := text[0]
	i := 1
	width := 0
	if sigil == '$' && i < len(text) && text[i] == '[' {
		end := strings.IndexByte(text[i:], ']')
		if end < 0 {
			return "", 0, 0
		}
		w, err := strconv.Atoi(strings.TrimSpace(text[i+1 : i+end]))
		if err != nil {
			return "", 0, 0
		}
		width = w
		i += end + 1
	}
	start := i
	for i < len(text) && isNameByte(text[i]) {
		i++
	}
	if i == start {
		return "", 0, 0
	}
	ref := string(sigil) + text[start:i]
	indexed := false
	for i < len(text) && text[i] == '[' {
		end := groupClose(text, i)
		if end < 0 {
			break
		}
		ref += text[i:end]
		i = end
		indexed = true
	}
	if sigil != '$' && !indexed {
		return "", 0, 0
	}
	return ref, width, i
}

// groupClose returns the offset just past the ']' matching text[start]
func groupClose(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return -1
}

func isNameByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
