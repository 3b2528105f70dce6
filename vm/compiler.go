package vm

import (
	"slumber/parser"
)

// Compiler lowers classified statements into blocks. Nested blocks are
// built on a fresh current block while the enclosing one waits on backup.
type Compiler struct {
	parser  *parser.Parser
	name    string
	current *Block
	backup  []*Block
	errs    *parser.ErrorList
}

// Compile turns src into a block. Any syntax error fails the whole unit:
// the result is either a complete block or an *parser.ErrorList.
func Compile(name, src string, p *parser.Parser) (*Block, error) {
	if p == nil {
		p = parser.New(nil)
	}
	c := &Compiler{parser: p, name: name, errs: &parser.ErrorList{Name: name}}
	block := c.blockText(src, 1)
	if err := c.errs.Err(); err != nil {
		return nil, err
	}
	return block, nil
}

func (c *Compiler) begin() {
	c.backup = append(c.backup, c.current)
	c.current = NewBlock()
}

func (c *Compiler) end() *Block {
	b := c.current
	n := len(c.backup)
	c.current = c.backup[n-1]
	c.backup = c.backup[:n-1]
	return b
}

func (c *Compiler) add(step Step, line int) {
	c.current.Add(step, line)
}

// fail records err, filling in line where the parser had none
func (c *Compiler) fail(line int, err error) {
	list := &parser.ErrorList{}
	list.Add(err)
	for _, e := range list.Errors {
		if e.Line == 0 {
			e.Line = line
		}
	}
	c.errs.Add(list)
}

// blockText compiles a statement list into a new block
func (c *Compiler) blockText(src string, line int) *Block {
	c.begin()
	stmts, err := c.parser.ParseStatements(src, line)
	if err != nil {
		c.fail(line, err)
	}
	for _, s := range stmts {
		c.statement(s)
	}
	return c.end()
}

// block compiles the body of a {block} token
func (c *Compiler) block(tok parser.Token) *Block {
	return c.blockText(tok.Inner(), tok.Line)
}

// valueBlock compiles tokens into a block that leaves one value on its frame
func (c *Compiler) valueBlock(tokens []parser.Token) *Block {
	c.begin()
	c.value(tokens)
	return c.end()
}

// valueText lexes text and compiles it as one value
func (c *Compiler) valueText(text string, line int) {
	tokens, err := c.parser.Tokens(text, line)
	if err != nil {
		c.fail(line, err)
		return
	}
	if len(tokens) == 0 {
		c.fail(line, &parser.SyntaxError{Description: "expected a value", Line: line, Snippet: text, Marker: -1})
		return
	}
	c.value(tokens)
}

func (c *Compiler) valueBlockText(text string, line int) *Block {
	c.begin()
	c.valueText(text, line)
	return c.end()
}
