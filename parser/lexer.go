package parser

import "strings"

// TokenList is the output of one lexing pass
type TokenList struct {
	Tokens []Token
	// Comments keeps the text of every top level comment for tooling
	Comments []Token
}

// Lexer splits source text into whitespace separated tokens, keeping every
// balanced construct whole.
type Lexer struct {
	input      string
	position   int  // current position in input (points to current char)
	ch         byte // current char under examination
	line       int
	terminator byte

	current      strings.Builder
	currentLine  int
	currentStart int

	out TokenList
}

// NewLexer returns a lexer over input. terminator is the character that
// ends a term (';' for statements, ',' for parameters, ':' for messages);
// 0 disables term splitting. line is the line number of input's first line.
func NewLexer(input string, terminator byte, line int) *Lexer {
	if line < 1 {
		line = 1
	}
	l := &Lexer{
		input:      input,
		line:       line,
		terminator: terminator,
		position:   -1,
	}
	l.readChar()
	return l
}

// Lex is a convenience wrapper around NewLexer and Run
func Lex(input string, terminator byte, line int) (*TokenList, error) {
	return NewLexer(input, terminator, line).Run()
}

// readChar advances one character, counting the newline it leaves behind
func (l *Lexer) readChar() {
	if l.position >= 0 && l.position < len(l.input) && l.input[l.position] == '\n' {
		l.line++
	}
	l.position++
	if l.position >= len(l.input) {
		l.ch = 0
		return
	}
	l.ch = l.input[l.position]
}

// peekChar returns the next character without advancing
func (l *Lexer) peekChar() byte {
	if l.position+1 >= len(l.input) {
		return 0
	}
	return l.input[l.position+1]
}

func (l *Lexer) atEnd() bool { return l.position >= len(l.input) }

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// Run lexes the whole input. A stray closing character is reported and
// skipped so later ones are found too. An opener that is never closed
// swallows the rest of the input, so it ends the pass. One problem comes
// back as a *SyntaxError, several as an *ErrorList.
func (l *Lexer) Run() (*TokenList, error) {
	errs := &ErrorList{}
	for !l.atEnd() {
		c := l.ch
		switch {
		case isSpace(c):
			l.flush()
			l.readChar()

		case l.terminator != 0 && c == l.terminator:
			l.flush()
			l.out.Tokens = append(l.out.Tokens, NewToken(EOT, l.line))
			l.readChar()

		case c == '#':
			l.flush()
			if err := l.readGroup(true); err != nil {
				errs.Add(err)
				return nil, lexErr(errs)
			}

		case c == '%' && l.current.Len() == 0 && (isSpace(l.peekChar()) || l.peekChar() == 0):
			// "% " is the modulus operator; "%name" and "%(" are map sigils
			l.emit(NewToken("% ", l.line))
			l.readChar()

		case openingRule(c) != nil:
			l.flush()
			if err := l.readGroup(false); err != nil {
				errs.Add(err)
				return nil, lexErr(errs)
			}

		case closingRule(c) != nil:
			l.flush()
			errs.Add(l.errorAt(&groupFailure{rule: closingRule(c), offset: l.position, missingOpen: true}))
			l.readChar()

		default:
			if l.current.Len() == 0 {
				l.currentLine = l.line
				l.currentStart = l.position
			}
			l.current.WriteByte(c)
			l.readChar()
		}
	}
	l.flush()
	if len(errs.Errors) > 0 {
		return nil, lexErr(errs)
	}
	return &l.out, nil
}

func lexErr(errs *ErrorList) error {
	if len(errs.Errors) == 1 {
		return errs.Errors[0]
	}
	return errs
}

func (l *Lexer) emit(t Token) {
	l.out.Tokens = append(l.out.Tokens, t)
}

// flush emits the pending bare token, if any
func (l *Lexer) flush() {
	if l.current.Len() == 0 {
		return
	}
	t := NewToken(l.current.String(), l.currentLine)
	t.Adjacent = l.adjacentAt(l.currentStart)
	l.emit(t)
	l.current.Reset()
}

// adjacentAt reports whether the character before offset is part of a token
func (l *Lexer) adjacentAt(offset int) bool {
	if offset == 0 || len(l.out.Tokens) == 0 || l.out.Tokens[len(l.out.Tokens)-1].IsEOT() {
		return false
	}
	prev := l.input[offset-1]
	return !isSpace(prev) && prev != l.terminator
}

// readGroup consumes one balanced construct starting at the current char
func (l *Lexer) readGroup(comment bool) error {
	start, line := l.position, l.line
	end, fail := groupEnd(l.input, start)
	if fail != nil {
		return l.errorAt(fail)
	}
	text := l.input[start:end]
	adjacent := l.adjacentAt(start)
	for l.position < end {
		l.readChar()
	}
	if comment {
		l.out.Comments = append(l.out.Comments, NewToken(strings.TrimRight(text, "\r\n"), line))
		return nil
	}
	t := NewToken(text, line)
	t.Adjacent = adjacent
	l.emit(t)
	return nil
}

// errorAt converts an unbalanced construct into a SyntaxError
func (l *Lexer) errorAt(f *groupFailure) *SyntaxError {
	line := l.line
	if f.offset > l.position {
		line += strings.Count(l.input[l.position:f.offset], "\n")
	}
	lineStart := strings.LastIndexByte(l.input[:f.offset], '\n') + 1
	lineEnd := strings.IndexByte(l.input[f.offset:], '\n')
	if lineEnd < 0 {
		lineEnd = len(l.input)
	} else {
		lineEnd += f.offset
	}
	return &SyntaxError{
		Description: f.describe(),
		Line:        line,
		Snippet:     l.input[lineStart:lineEnd],
		Marker:      f.offset - lineStart,
	}
}
