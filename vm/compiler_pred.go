package vm

import (
	"strings"

	"slumber/parser"
)

// predicate compiles a condition into a Check
func (c *Compiler) predicate(tokens []parser.Token) Check {
	s, err := c.parser.ParsePredicate(tokens)
	if err != nil {
		line := 0
		if len(tokens) > 0 {
			line = tokens[0].Line
		}
		c.fail(line, err)
		return constCheck(false)
	}
	return c.check(s)
}

func (c *Compiler) predicateText(text string, line int) Check {
	tokens, err := c.parser.Tokens(text, line)
	if err != nil {
		c.fail(line, err)
		return constCheck(false)
	}
	if len(tokens) == 0 {
		c.fail(line, &parser.SyntaxError{Description: "expected a predicate", Line: line, Marker: -1})
		return constCheck(false)
	}
	return c.predicate(tokens)
}

func (c *Compiler) check(s *parser.Statement) Check {
	switch s.Kind {
	case parser.PredOr:
		return &OrCheck{Left: c.predicate(s.Left), Right: c.predicate(s.Right)}
	case parser.PredAnd:
		return &AndCheck{Left: c.predicate(s.Left), Right: c.predicate(s.Right)}
	case parser.PredNot:
		return &NotCheck{Check: c.predicate(s.Right)}
	case parser.PredGroup:
		group := s.Right[0]
		return c.predicateText(group.Inner(), group.Line)
	case parser.PredBinary:
		name, negate := negated(s.Op)
		return &BinaryCheck{Name: name, Negate: negate, Left: c.valueBlock(s.Left), Right: c.valueBlock(s.Right)}
	case parser.PredUnary:
		name, negate := negated(s.Op)
		return &UnaryCheck{Name: name, Negate: negate, Value: c.valueBlock(s.Right)}
	case parser.PredValue:
		return &ValueCheck{Value: c.valueBlock(s.Tokens)}
	}
	c.fail(s.Line, &parser.SyntaxError{Description: "cannot compile " + s.Kind.String(), Line: s.Line, Marker: -1})
	return constCheck(false)
}

// negated splits "!name" into name and true; "!=" is its own predicate
func negated(op string) (string, bool) {
	if op != "!=" && len(op) > 1 && strings.HasPrefix(op, "!") {
		return op[1:], true
	}
	return op, false
}
