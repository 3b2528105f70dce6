package parser

import (
	"fmt"
	"strings"
)

// SyntaxError is one compile time diagnostic
type SyntaxError struct {
	Description string
	Line        int
	Snippet     string
	// Marker is the column the caret points at, -1 for none
	Marker int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Description)
}

// Format renders the error with its source line and caret
func (e *SyntaxError) Format(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d: %s", name, e.Line, e.Description)
	if e.Snippet != "" {
		b.WriteString("\n\t")
		b.WriteString(strings.TrimRight(e.Snippet, "\r\n"))
		if e.Marker >= 0 {
			b.WriteString("\n\t")
			b.WriteString(strings.Repeat(" ", e.Marker))
			b.WriteByte('^')
		}
	}
	return b.String()
}

func newSyntaxError(tok Token, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Description: fmt.Sprintf(format, args...),
		Line:        tok.Line,
		Snippet:     tok.Text,
		Marker:      tok.Marker,
	}
}

// ErrorList is every syntax error found while compiling one source unit
type ErrorList struct {
	Name   string
	Errors []*SyntaxError
}

// Add appends err, flattening nested lists
func (l *ErrorList) Add(err error) {
	switch e := err.(type) {
	case nil:
	case *SyntaxError:
		l.Errors = append(l.Errors, e)
	case *ErrorList:
		l.Errors = append(l.Errors, e.Errors...)
	default:
		l.Errors = append(l.Errors, &SyntaxError{Description: err.Error(), Marker: -1})
	}
}

// Err returns nil when the list is empty
func (l *ErrorList) Err() error {
	if len(l.Errors) == 0 {
		return nil
	}
	return l
}

func (l *ErrorList) Error() string {
	name := l.Name
	if name == "" {
		name = "<unknown>"
	}
	parts := make([]string, len(l.Errors))
	for i, e := range l.Errors {
		parts[i] = e.Format(name)
	}
	return strings.Join(parts, "\n")
}
