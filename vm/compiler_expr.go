package vm

import (
	"math"
	"strconv"
	"strings"

	"slumber/parser"
	"slumber/types"
)

// value appends steps that push the value of tokens onto the current frame
func (c *Compiler) value(tokens []parser.Token) {
	s, err := c.parser.ParseValue(tokens)
	if err != nil {
		line := 0
		if len(tokens) > 0 {
			line = tokens[0].Line
		}
		c.fail(line, err)
		return
	}
	c.valueStatement(s)
}

func (c *Compiler) literal(v *types.Scalar, line int) {
	c.add(&LiteralStep{Value: v}, line)
}

func (c *Compiler) valueStatement(s *parser.Statement) {
	line := s.Line
	tok := s.Token()
	switch s.Kind {
	case parser.ValueNull:
		c.literal(types.NewNull(), line)

	case parser.ValueBoolean:
		c.literal(types.NewBool(tok.Text == "true"), line)

	case parser.ValueLiteral:
		if tok.Wrapped('\'') {
			c.literal(types.NewString(unquoteSingle(tok.Inner())), line)
			return
		}
		c.literal(types.NewString(tok.Text), line)

	case parser.ValueString:
		c.interpolate(tok.Inner(), tok.Line)

	case parser.ValueBacktick:
		c.add(PushFrameStep{}, line)
		c.interpolate(tok.Inner(), tok.Line)
		c.add(&CallStep{Name: "__exec__"}, line)

	case parser.ValueNumber:
		n, err := strconv.ParseInt(tok.Text, 0, 64)
		if err != nil {
			c.fail(line, &parser.SyntaxError{Description: "bad number " + tok.Text, Line: line, Marker: -1})
			return
		}
		if n >= math.MinInt32 && n <= math.MaxInt32 {
			c.literal(types.NewInt(int32(n)), line)
		} else {
			c.literal(types.NewLong(n), line)
		}

	case parser.ValueLong:
		n, err := strconv.ParseInt(strings.TrimSuffix(tok.Text, "L"), 0, 64)
		if err != nil {
			c.fail(line, &parser.SyntaxError{Description: "bad number " + tok.Text, Line: line, Marker: -1})
			return
		}
		c.literal(types.NewLong(n), line)

	case parser.ValueDouble:
		f, err := strconv.ParseFloat(tok.Text, 64)
		if err != nil {
			c.fail(line, &parser.SyntaxError{Description: "bad number " + tok.Text, Line: line, Marker: -1})
			return
		}
		c.literal(types.NewDouble(f), line)

	case parser.ValueClass:
		c.add(&ClassStep{Name: tok.Text[1:]}, line)

	case parser.ValueBlock:
		c.add(&ClosureStep{Block: c.block(tok)}, line)

	case parser.ValueFunction:
		c.add(&FunctionRefStep{Name: tok.Text[1:]}, line)

	case parser.ValueVariable:
		c.add(&VariableStep{Name: tok.Text}, line)

	case parser.ValueIndexed:
		c.value(s.Left)
		index := s.Right[0]
		c.valueText(index.Inner(), index.Line)
		c.add(IndexStep{}, line)

	case parser.ValueHashPair:
		c.value(s.Left)
		c.value(s.Right)
		c.add(MakePairStep{}, line)

	case parser.ValueCall:
		c.add(PushFrameStep{}, line)
		c.args(s.Right[0].Inner(), line, true)
		c.add(&CallStep{Name: s.Op}, line)

	case parser.ValueObjectNew:
		c.add(PushFrameStep{}, line)
		c.messageArgs(s, line)
		c.add(&ObjectNewStep{Class: s.Op}, line)

	case parser.ValueObjectAccess:
		c.value(s.Left)
		c.add(PushFrameStep{}, line)
		c.messageArgs(s, line)
		c.add(&ObjectAccessStep{Message: s.Op}, line)

	case parser.ValueObjectStatic:
		c.add(PushFrameStep{}, line)
		c.messageArgs(s, line)
		c.add(&ObjectStaticStep{Class: s.Left[0].Text, Message: s.Op}, line)

	case parser.ValueArray:
		c.add(PushFrameStep{}, line)
		c.args(tok.Inner(), line, false)
		c.add(MakeArrayStep{}, line)

	case parser.ValueHash:
		c.add(PushFrameStep{}, line)
		c.args(tok.Inner(), line, false)
		c.add(MakeHashStep{}, line)

	case parser.ValueGroup:
		c.valueText(tok.Inner(), tok.Line)

	case parser.ValueOperation:
		c.value(s.Left)
		c.value(s.Right)
		c.add(&OperatorStep{Op: s.Op}, line)

	case parser.ValueNegate:
		c.value(s.Right)
		c.add(NegateStep{}, line)

	case parser.ValuePredicate:
		c.add(&PredicateValueStep{Check: c.predicate(s.Right)}, line)

	default:
		c.fail(line, &parser.SyntaxError{Description: "cannot compile " + s.Kind.String(), Line: line, Snippet: tok.Text, Marker: -1})
	}
}

// args compiles a ',' separated list, pushing each item. In calls, a
// `$name => value` item is a named argument whose key is not evaluated.
func (c *Compiler) args(text string, line int, named bool) {
	if strings.TrimSpace(text) == "" {
		return
	}
	terms, err := c.parser.SplitTerms(text, ',', line)
	if err != nil {
		c.fail(line, err)
		return
	}
	for _, term := range terms {
		if named && isNamedArg(term) {
			c.literal(types.NewString(term[0].Text), term[0].Line)
			c.value(term[2:])
			c.add(MakePairStep{}, term[0].Line)
			continue
		}
		c.value(term)
	}
}

// messageArgs compiles the text after ':' in an object expression
func (c *Compiler) messageArgs(s *parser.Statement, line int) {
	if len(s.Right) == 0 {
		return
	}
	c.args(s.Right[0].Text, line, true)
}

// unquoteSingle resolves the two escapes a single quoted literal has
func unquoteSingle(text string) string {
	if !strings.Contains(text, "\\") {
		return text
	}
	var b strings.Builder
	for i := 0; i < len(text); i++ {
		if text[i] == '\\' && i+1 < len(text) && (text[i+1] == '\'' || text[i+1] == '\\') {
			i++
		}
		b.WriteByte(text[i])
	}
	return b.String()
}
