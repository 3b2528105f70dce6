package vm

import (
	"strings"

	"slumber/parser"
	"slumber/types"
)

var returnFlags = map[parser.Kind]Signal{
	parser.StmtReturn:   SignalReturn,
	parser.StmtBreak:    SignalBreak,
	parser.StmtContinue: SignalContinue,
	parser.StmtThrow:    SignalThrow,
	parser.StmtYield:    SignalYield,
	parser.StmtCallcc:   SignalCallcc | SignalYield,
	parser.StmtHalt:     SignalReturn,
	parser.StmtDone:     SignalReturn,
}

func (c *Compiler) statement(s *parser.Statement) {
	line := s.Line
	switch s.Kind {
	case parser.StmtExpression:
		c.add(PushFrameStep{}, line)
		c.value(s.Right)
		c.add(PopFrameStep{}, line)

	case parser.StmtAssign:
		// value first, then the target
		c.add(PushFrameStep{}, line)
		c.value(s.Right)
		c.add(&AssignStep{Target: c.target(s.Left[0])}, line)
		c.add(PopFrameStep{}, line)

	case parser.StmtAssignOp:
		c.add(PushFrameStep{}, line)
		c.value(s.Left)
		c.value(s.Right)
		c.add(&OperatorStep{Op: s.Op}, line)
		c.add(&AssignStep{Target: c.target(s.Left[0])}, line)
		c.add(PopFrameStep{}, line)

	case parser.StmtAssignTuple:
		tuple := s.Left[0]
		terms, err := c.parser.SplitTerms(tuple.Inner(), ',', tuple.Line)
		if err != nil {
			c.fail(line, err)
			return
		}
		targets := make([]Target, 0, len(terms))
		for _, t := range terms {
			targets = append(targets, c.target(t[0]))
		}
		c.add(PushFrameStep{}, line)
		c.value(s.Right)
		c.add(&AssignTupleStep{Targets: targets}, line)
		c.add(PopFrameStep{}, line)

	case parser.StmtIf:
		c.ifStatement(s)

	case parser.StmtWhile:
		check := c.predicateText(s.Tokens[0].Inner(), s.Tokens[0].Line)
		c.add(&LoopStep{Check: check, Body: c.block(s.Tokens[1])}, line)

	case parser.StmtAssignWhile:
		expr := s.Tokens[1]
		check := &AssignWhileCheck{Target: s.Tokens[0].Text, Value: c.valueBlockText(expr.Inner(), expr.Line)}
		c.add(&LoopStep{Check: check, Body: c.block(s.Tokens[2])}, line)

	case parser.StmtFor:
		c.forStatement(s)

	case parser.StmtForeach:
		c.foreach(line, "", s.Tokens[0].Text, s.Tokens[1], s.Tokens[2])

	case parser.StmtForeachKV:
		c.foreach(line, s.Tokens[0].Text, s.Tokens[1].Text, s.Tokens[2], s.Tokens[3])

	case parser.StmtTry:
		c.add(&TryStep{Body: c.block(s.Tokens[0]), Var: s.Tokens[1].Text, Catch: c.block(s.Tokens[2])}, line)

	case parser.StmtBind:
		c.add(&BindStep{Keyword: s.Op, Name: s.Tokens[0].Text, Body: c.block(s.Tokens[1])}, line)

	case parser.StmtBindPredicate:
		check := c.predicateText(s.Tokens[0].Inner(), s.Tokens[0].Line)
		c.add(&BindPredicateStep{Keyword: s.Op, Check: check, Body: c.block(s.Tokens[1])}, line)

	case parser.StmtBindFilter:
		filter := s.Tokens[1]
		text := filter.Text
		if filter.Wrapped('"') || filter.Wrapped('\'') {
			text = filter.Inner()
		}
		c.add(&BindFilterStep{Keyword: s.Op, Name: s.Tokens[0].Text, Filter: text, Body: c.block(s.Tokens[2])}, line)

	default:
		flag, ok := returnFlags[s.Kind]
		if !ok {
			c.fail(line, &parser.SyntaxError{Description: "cannot compile " + s.Kind.String(), Line: line, Marker: -1})
			return
		}
		c.add(PushFrameStep{}, line)
		switch {
		case s.Kind == parser.StmtHalt:
			c.add(&LiteralStep{Value: Halt()}, line)
		case len(s.Right) > 0:
			c.value(s.Right)
		default:
			c.add(&LiteralStep{Value: types.NewNull()}, line)
		}
		c.add(&ReturnStep{Flag: flag}, line)
	}
}

// ifStatement lowers if/else if/else into nested DecideSteps
func (c *Compiler) ifStatement(s *parser.Statement) {
	check := c.predicateText(s.Tokens[0].Inner(), s.Tokens[0].Line)
	then := c.block(s.Tokens[1])
	var otherwise *Block
	switch {
	case len(s.Right) == 1 && s.Right[0].Wrapped('{'):
		otherwise = c.block(s.Right[0])
	case len(s.Right) > 0:
		chained, err := c.parser.ClassifyStatement(s.Right)
		if err != nil {
			c.fail(s.Line, err)
			return
		}
		c.begin()
		c.statement(chained)
		otherwise = c.end()
	}
	c.add(&DecideStep{Check: check, Then: then, Else: otherwise}, s.Line)
}

// forStatement lowers for (init; pred; step) into init statements and a loop
func (c *Compiler) forStatement(s *parser.Statement) {
	header := s.Tokens[0]
	parts, err := forParts(header)
	if err != nil {
		c.fail(s.Line, err)
		return
	}
	for _, st := range c.statementList(parts[0], header.Line) {
		c.statement(st)
	}
	var check Check = constCheck(true)
	if len(parts[1]) > 0 {
		check = c.predicate(parts[1])
	}
	var incr *Block
	if len(parts[2]) > 0 {
		c.begin()
		for _, st := range c.statementList(parts[2], header.Line) {
			c.statement(st)
		}
		incr = c.end()
	}
	c.add(&LoopStep{Check: check, Body: c.block(s.Tokens[1]), Incr: incr}, s.Line)
}

// forParts splits a for header at ';' into exactly three token runs
func forParts(header parser.Token) ([][]parser.Token, error) {
	list, err := parser.Lex(header.Inner(), ';', header.Line)
	if err != nil {
		return nil, err
	}
	parts := [][]parser.Token{nil}
	for _, t := range parser.Merge(list.Tokens) {
		if t.IsEOT() {
			parts = append(parts, nil)
			continue
		}
		parts[len(parts)-1] = append(parts[len(parts)-1], t)
	}
	if len(parts) != 3 {
		return nil, &parser.SyntaxError{
			Description: "for expects (init; predicate; step)",
			Line:        header.Line,
			Snippet:     header.Text,
			Marker:      header.Marker,
		}
	}
	return parts, nil
}

// statementList classifies a ',' separated run of statements
func (c *Compiler) statementList(tokens []parser.Token, line int) []*parser.Statement {
	if len(tokens) == 0 {
		return nil
	}
	terms, err := c.parser.SplitTerms(parser.Term(tokens).Text(), ',', line)
	if err != nil {
		c.fail(line, err)
		return nil
	}
	var out []*parser.Statement
	for _, t := range terms {
		st, err := c.parser.ClassifyStatement(t)
		if err != nil {
			c.fail(line, err)
			continue
		}
		out = append(out, st)
	}
	return out
}

// foreach lowers to: evaluate the source, create an iterator, loop while it
// has items, destroy the iterator
func (c *Compiler) foreach(line int, key, value string, source, body parser.Token) {
	c.add(PushFrameStep{}, line)
	c.valueText(source.Inner(), source.Line)
	c.add(IterCreateStep{}, line)
	c.add(&LoopStep{Check: &IterCheck{Key: key, Value: value}, Body: c.block(body)}, line)
	c.add(IterDestroyStep{}, line)
}

// target builds the storage side of an assignment
func (c *Compiler) target(tok parser.Token) Target {
	v, err := c.parser.ParseValue([]parser.Token{tok})
	if err != nil {
		c.fail(tok.Line, err)
		return &VarTarget{Name: tok.Text}
	}
	switch v.Kind {
	case parser.ValueVariable:
		return &VarTarget{Name: tok.Text}
	case parser.ValueIndexed:
		index := v.Right[0]
		return &IndexTarget{
			Base:  c.baseTarget(v.Left[0]),
			Index: c.valueBlockText(index.Inner(), index.Line),
		}
	}
	c.fail(tok.Line, &parser.SyntaxError{Description: "cannot assign to " + v.Kind.String(), Line: tok.Line, Snippet: tok.Text, Marker: -1})
	return &VarTarget{Name: tok.Text}
}

// baseTarget is the container side of an indexed target. Anything that is
// not storage itself is evaluated and written through.
func (c *Compiler) baseTarget(tok parser.Token) Target {
	v, err := c.parser.ParseValue([]parser.Token{tok})
	if err == nil && (v.Kind == parser.ValueVariable || v.Kind == parser.ValueIndexed) {
		return c.target(tok)
	}
	return &ExprTarget{Value: c.valueBlock([]parser.Token{tok})}
}

func isNamedArg(term parser.Term) bool {
	return len(term) >= 3 && term[1].Text == "=>" && strings.HasPrefix(term[0].Text, "$") && len(term[0].Text) > 1
}
