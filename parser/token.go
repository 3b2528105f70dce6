package parser

// EOT is the text of the boundary token the lexer emits for a terminator
const EOT = "\x00EOT"

// Token is one lexical unit with the line it started on
type Token struct {
	Text string
	Line int
	// Marker is a column offset for diagnostics, -1 when unknown
	Marker int
	// Adjacent is set when no whitespace separates this token from the
	// previous one, e.g. the "(1)" in foo(1)
	Adjacent bool
}

// NewToken returns a token without a marker
func NewToken(text string, line int) Token {
	return Token{Text: text, Line: line, Marker: -1}
}

// Copy derives a token with new text on the same line
func (t Token) Copy(text string) Token {
	return Token{Text: text, Line: t.Line, Marker: t.Marker}
}

// CopyAt derives a token with new text and line
func (t Token) CopyAt(text string, line int) Token {
	return Token{Text: text, Line: line, Marker: -1}
}

// IsEOT reports whether t is a term boundary
func (t Token) IsEOT() bool { return t.Text == EOT }

func (t Token) String() string {
	if t.IsEOT() {
		return "EOT"
	}
	return t.Text
}

// Inner strips the first and last byte of a wrapped token such as "(x)"
func (t Token) Inner() string {
	if len(t.Text) < 2 {
		return ""
	}
	return t.Text[1 : len(t.Text)-1]
}

// Wrapped reports whether t is a single balanced construct opened by open
func (t Token) Wrapped(open byte) bool {
	if len(t.Text) < 2 || t.Text[0] != open {
		return false
	}
	return matchingEnd(t.Text) == len(t.Text)-1
}

// joinText concatenates token text with single spaces
func joinText(tokens []Token) string {
	n := 0
	for _, t := range tokens {
		n += len(t.Text) + 1
	}
	b := make([]byte, 0, n)
	for i, t := range tokens {
		if i > 0 {
			b = append(b, ' ')
		}
		b = append(b, t.Text...)
	}
	return string(b)
}
