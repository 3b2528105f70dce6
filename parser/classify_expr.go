package parser

import (
	"strconv"
	"strings"
)

// ParseValue classifies a value expression. Operators are split by scanning
// for the loosest one: => first, then the additive family (+ - .) at its
// last occurrence, then any other operator at its rightmost occurrence.
// Chains therefore associate to the left and * does not bind tighter than
// anything but + - and '.'.
func (p *Parser) ParseValue(tokens []Token) (*Statement, error) {
	if len(tokens) == 0 {
		return nil, &SyntaxError{Description: "expected a value", Marker: -1}
	}
	line := tokens[0].Line

	if i := indexText(tokens, "=>"); i >= 0 {
		if i == 0 || i == len(tokens)-1 {
			return nil, newSyntaxError(tokens[i], "=> needs a key and a value")
		}
		return &Statement{Kind: ValueHashPair, Line: line, Op: "=>", Left: tokens[:i], Right: tokens[i+1:]}, nil
	}

	if p.hasPredicate(tokens) {
		if _, err := p.ParsePredicate(tokens); err != nil {
			return nil, err
		}
		return &Statement{Kind: ValuePredicate, Line: line, Right: tokens}, nil
	}

	if len(tokens) == 1 {
		return p.classifySingle(tokens[0])
	}

	for i := len(tokens) - 2; i >= 1; i-- {
		t := tokens[i].Text
		if (t == "+" || t == "-" || t == ".") && p.kw.IsOperator(t) {
			return p.operation(tokens, i)
		}
	}
	for i := len(tokens) - 2; i >= 1; i-- {
		if p.kw.IsOperator(tokens[i].Text) {
			return p.operation(tokens, i)
		}
	}

	if tokens[0].Text == "-" && len(tokens) == 2 {
		return &Statement{Kind: ValueNegate, Line: line, Right: tokens[1:]}, nil
	}
	if p.kw.IsOperator(tokens[len(tokens)-1].Text) {
		return nil, newSyntaxError(tokens[len(tokens)-1], "operator %s is missing its right operand", tokens[len(tokens)-1].Text)
	}
	return nil, newSyntaxError(tokens[1], "unexpected '%s' after '%s'", tokens[1].Text, tokens[0].Text)
}

func (p *Parser) operation(tokens []Token, i int) (*Statement, error) {
	op := NormalizeOperator(tokens[i].Text)
	return &Statement{Kind: ValueOperation, Line: tokens[0].Line, Op: op, Left: tokens[:i], Right: tokens[i+1:]}, nil
}

// hasPredicate reports whether a value expression is really a comparison
func (p *Parser) hasPredicate(tokens []Token) bool {
	first := tokens[0].Text
	if first == "!" || p.kw.IsUnaryPredicate(first) {
		return true
	}
	if len(first) > 1 && first[0] == '!' && first != "!=" {
		return true
	}
	for _, t := range tokens[1:] {
		if t.Text == "&&" || t.Text == "||" || p.kw.IsPredicate(t.Text) {
			return true
		}
	}
	return false
}

// classifySingle handles one compound token
func (p *Parser) classifySingle(tok Token) (*Statement, error) {
	t := tok.Text
	one := func(kind Kind) (*Statement, error) {
		return &Statement{Kind: kind, Line: tok.Line, Tokens: []Token{tok}}, nil
	}
	switch {
	case t == "$null":
		return one(ValueNull)
	case t == "true" || t == "false":
		return one(ValueBoolean)
	case tok.Wrapped('\''):
		return one(ValueLiteral)
	case tok.Wrapped('"'):
		return one(ValueString)
	case tok.Wrapped('`'):
		return one(ValueBacktick)
	case tok.Wrapped('{'):
		return one(ValueBlock)
	case tok.Wrapped('('):
		if strings.TrimSpace(tok.Inner()) == "" {
			return nil, newSyntaxError(tok, "empty parentheses")
		}
		return one(ValueGroup)
	case tok.Wrapped('['):
		return p.classifyObject(tok)
	case isVariable(t):
		return one(ValueVariable)
	}
	if kind, ok := numberKind(t); ok {
		return one(kind)
	}
	if strings.HasPrefix(t, "^") && isIdentifier(t[1:]) {
		return one(ValueClass)
	}
	if strings.HasPrefix(t, "&") && isIdentifier(t[1:]) {
		return one(ValueFunction)
	}

	segs := Segments(t)
	if n := len(segs); n >= 2 {
		last := segs[n-1]
		head := segs[0]
		switch {
		case last[0] == '[':
			base := tok.Copy(strings.Join(segs[:n-1], ""))
			return &Statement{Kind: ValueIndexed, Line: tok.Line, Left: []Token{base}, Right: []Token{tok.Copy(last)}}, nil
		case n == 2 && last[0] == '(' && head == "@":
			return &Statement{Kind: ValueArray, Line: tok.Line, Tokens: []Token{tok.Copy(last)}}, nil
		case n == 2 && last[0] == '(' && head == "%":
			return &Statement{Kind: ValueHash, Line: tok.Line, Tokens: []Token{tok.Copy(last)}}, nil
		case n == 2 && last[0] == '(' && isIdentifier(head):
			return &Statement{Kind: ValueCall, Line: tok.Line, Op: head, Right: []Token{tok.Copy(last)}}, nil
		}
	}
	if len(t) > 1 && t[0] == '-' {
		return &Statement{Kind: ValueNegate, Line: tok.Line, Right: []Token{tok.Copy(t[1:])}}, nil
	}
	if isIdentifier(t) {
		return one(ValueLiteral)
	}
	return nil, newSyntaxError(tok, "unrecognized value '%s'", t)
}

// classifyObject handles [target message: args] and its variants
func (p *Parser) classifyObject(tok Token) (*Statement, error) {
	parts, err := p.SplitTerms(tok.Inner(), ':', tok.Line)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 || len(parts) > 2 {
		return nil, newSyntaxError(tok, "object expression expects [target message: arguments]")
	}
	head := parts[0]
	s := &Statement{Line: tok.Line}
	if len(parts) == 2 {
		s.Right = []Token{tok.Copy(parts[1].Text())}
	}
	switch {
	case head[0].Text == "new":
		if len(head) != 2 || !isIdentifier(strings.TrimPrefix(head[1].Text, "^")) {
			return nil, newSyntaxError(tok, "new expects a class name")
		}
		s.Kind = ValueObjectNew
		s.Op = strings.TrimPrefix(head[1].Text, "^")
	case len(head) == 1:
		s.Kind = ValueObjectAccess
		s.Left = head
	case len(head) == 2:
		if !isIdentifier(head[1].Text) {
			return nil, newSyntaxError(head[1], "bad message name '%s'", head[1].Text)
		}
		s.Op = head[1].Text
		s.Left = head[:1]
		s.Kind = ValueObjectAccess
		if t := head[0].Text; isIdentifier(t) || strings.HasPrefix(t, "^") && isIdentifier(t[1:]) {
			s.Kind = ValueObjectStatic
			s.Left = []Token{head[0].Copy(strings.TrimPrefix(t, "^"))}
		}
	default:
		return nil, newSyntaxError(tok, "object expression expects [target message: arguments]")
	}
	return s, nil
}

// numberKind recognizes 42, 0xff, 42L, 4.2 and 1e3
func numberKind(t string) (Kind, bool) {
	if t == "" || !(t[0] >= '0' && t[0] <= '9' || t[0] == '-' || t[0] == '.') {
		return 0, false
	}
	if strings.HasSuffix(t, "L") {
		if _, err := strconv.ParseInt(t[:len(t)-1], 0, 64); err == nil {
			return ValueLong, true
		}
		return 0, false
	}
	if _, err := strconv.ParseInt(t, 0, 64); err == nil {
		return ValueNumber, true
	}
	if strings.Trim(t, "0123456789.eE+-") != "" {
		return 0, false
	}
	if _, err := strconv.ParseFloat(t, 64); err == nil {
		return ValueDouble, true
	}
	return 0, false
}

// Segments splits a compound token at group boundaries:
// foo(1)[2] gives foo, (1), [2]
func Segments(text string) []string {
	var segs []string
	start := 0
	for i := 0; i < len(text); {
		c := text[i]
		if c == '#' || openingRule(c) == nil {
			i++
			continue
		}
		end, fail := groupEnd(text, i)
		if fail != nil {
			return []string{text}
		}
		if i > start {
			segs = append(segs, text[start:i])
		}
		segs = append(segs, text[i:end])
		i, start = end, end
	}
	if start < len(text) {
		segs = append(segs, text[start:])
	}
	return segs
}

func indexText(tokens []Token, text string) int {
	for i, t := range tokens {
		if t.Text == text {
			return i
		}
	}
	return -1
}
