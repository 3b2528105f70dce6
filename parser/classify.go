package parser

import "strings"

// assignOps maps compound assignment spellings to their operator
var assignOps = map[string]string{
	"+=":  "+",
	"-=":  "-",
	"*=":  "*",
	"/=":  "/",
	"%=":  "%",
	".=":  ".",
	"x=":  "x",
	"**=": "**",
	"<<=": "<<",
	">>=": ">>",
	"&=":  "&",
	"|=":  "|",
	"^=":  "^",
}

var returnFamily = map[string]Kind{
	"return":   StmtReturn,
	"break":    StmtBreak,
	"continue": StmtContinue,
	"throw":    StmtThrow,
	"yield":    StmtYield,
	"callcc":   StmtCallcc,
	"halt":     StmtHalt,
	"done":     StmtDone,
}

// ClassifyStatement matches one statement term against the statement shapes.
// Compound control structures are tried before the general forms.
func (p *Parser) ClassifyStatement(term Term) (*Statement, error) {
	if len(term) == 0 {
		return nil, &SyntaxError{Description: "empty statement", Marker: -1}
	}
	head := term[0]
	switch head.Text {
	case "if":
		return p.classifyIf(term)
	case "while":
		return p.classifyWhile(term)
	case "for":
		return p.classifyFor(term)
	case "foreach":
		return p.classifyForeach(term)
	case "try":
		return p.classifyTry(term)
	case "else", "catch":
		return nil, newSyntaxError(head, "'%s' without a preceding block statement", head.Text)
	}
	if kind, ok := returnFamily[head.Text]; ok {
		return p.classifyReturn(kind, term)
	}
	if p.kw.IsEnvironment(head.Text) {
		return p.classifyBind(term)
	}
	if len(term) >= 2 {
		if term[1].Text == "=" {
			return p.classifyAssign(term)
		}
		if op, ok := assignOps[term[1].Text]; ok {
			if len(term) < 3 {
				return nil, newSyntaxError(term[1], "missing value after %s", term[1].Text)
			}
			if err := p.checkTarget(term[0]); err != nil {
				return nil, err
			}
			return &Statement{Kind: StmtAssignOp, Line: head.Line, Op: op, Left: term[:1], Right: term[2:]}, nil
		}
	}
	if len(term) == 1 && isVariable(strings.TrimRight(head.Text, "+-")) {
		switch {
		case strings.HasSuffix(head.Text, "++"):
			target := head.Copy(strings.TrimSuffix(head.Text, "++"))
			return &Statement{Kind: StmtAssignOp, Line: head.Line, Op: "+", Left: []Token{target}, Right: []Token{head.Copy("1")}}, nil
		case strings.HasSuffix(head.Text, "--"):
			target := head.Copy(strings.TrimSuffix(head.Text, "--"))
			return &Statement{Kind: StmtAssignOp, Line: head.Line, Op: "-", Left: []Token{target}, Right: []Token{head.Copy("1")}}, nil
		}
	}
	if _, err := p.ParseValue(term); err != nil {
		return nil, err
	}
	return &Statement{Kind: StmtExpression, Line: head.Line, Right: term}, nil
}

func (p *Parser) classifyIf(term Term) (*Statement, error) {
	if len(term) < 3 || !term[1].Wrapped('(') || !term[2].Wrapped('{') {
		return nil, newSyntaxError(term[0], "if expects (predicate) {block}")
	}
	s := &Statement{Kind: StmtIf, Line: term[0].Line, Tokens: []Token{term[1], term[2]}}
	rest := term[3:]
	if len(rest) == 0 {
		return s, nil
	}
	if rest[0].Text != "else" || len(rest) < 2 {
		return nil, newSyntaxError(rest[0], "unexpected '%s' after if block", rest[0].Text)
	}
	rest = rest[1:]
	switch {
	case len(rest) == 1 && rest[0].Wrapped('{'):
		s.Right = rest
	case rest[0].Text == "if":
		if _, err := p.classifyIf(rest); err != nil {
			return nil, err
		}
		s.Right = rest
	default:
		return nil, newSyntaxError(rest[0], "else expects {block} or if")
	}
	return s, nil
}

func (p *Parser) classifyWhile(term Term) (*Statement, error) {
	switch {
	case len(term) == 3 && term[1].Wrapped('(') && term[2].Wrapped('{'):
		return &Statement{Kind: StmtWhile, Line: term[0].Line, Tokens: []Token{term[1], term[2]}}, nil
	case len(term) == 4 && isVariable(term[1].Text) && term[2].Wrapped('(') && term[3].Wrapped('{'):
		return &Statement{Kind: StmtAssignWhile, Line: term[0].Line, Tokens: term[1:4]}, nil
	case len(term) == 5 && isVariable(term[1].Text) && term[2].Text == "=" && term[3].Wrapped('(') && term[4].Wrapped('{'):
		return &Statement{Kind: StmtAssignWhile, Line: term[0].Line, Tokens: []Token{term[1], term[3], term[4]}}, nil
	}
	return nil, newSyntaxError(term[0], "while expects (predicate) {block} or $var (expression) {block}")
}

func (p *Parser) classifyFor(term Term) (*Statement, error) {
	if len(term) != 3 || !term[1].Wrapped('(') || !term[2].Wrapped('{') {
		return nil, newSyntaxError(term[0], "for expects (init; predicate; step) {block}")
	}
	return &Statement{Kind: StmtFor, Line: term[0].Line, Tokens: term[1:3]}, nil
}

func (p *Parser) classifyForeach(term Term) (*Statement, error) {
	if len(term) == 6 && isVariable(term[1].Text) && term[2].Text == "=>" && isVariable(term[3].Text) &&
		term[4].Wrapped('(') && term[5].Wrapped('{') {
		return &Statement{Kind: StmtForeachKV, Line: term[0].Line, Tokens: []Token{term[1], term[3], term[4], term[5]}}, nil
	}
	if len(term) == 4 && isVariable(term[1].Text) && term[2].Wrapped('(') && term[3].Wrapped('{') {
		return &Statement{Kind: StmtForeach, Line: term[0].Line, Tokens: term[1:4]}, nil
	}
	return nil, newSyntaxError(term[0], "foreach expects $var (expression) {block} or $key => $value (expression) {block}")
}

func (p *Parser) classifyTry(term Term) (*Statement, error) {
	if len(term) != 5 || !term[1].Wrapped('{') || term[2].Text != "catch" || !isVariable(term[3].Text) || !term[4].Wrapped('{') {
		return nil, newSyntaxError(term[0], "try expects {block} catch $var {block}")
	}
	return &Statement{Kind: StmtTry, Line: term[0].Line, Tokens: []Token{term[1], term[3], term[4]}}, nil
}

func (p *Parser) classifyReturn(kind Kind, term Term) (*Statement, error) {
	s := &Statement{Kind: kind, Line: term[0].Line, Op: term[0].Text, Right: term[1:]}
	switch kind {
	case StmtBreak, StmtContinue, StmtHalt, StmtDone:
		if len(s.Right) > 0 {
			return nil, newSyntaxError(term[1], "%s takes no value", term[0].Text)
		}
	case StmtThrow, StmtCallcc:
		if len(s.Right) == 0 {
			return nil, newSyntaxError(term[0], "%s requires a value", term[0].Text)
		}
	}
	return s, nil
}

func (p *Parser) classifyBind(term Term) (*Statement, error) {
	kw := term[0]
	last := term[len(term)-1]
	if !last.Wrapped('{') {
		return nil, newSyntaxError(kw, "%s expects a {block}", kw.Text)
	}
	switch len(term) {
	case 3:
		if term[1].Wrapped('(') {
			return &Statement{Kind: StmtBindPredicate, Line: kw.Line, Op: kw.Text, Tokens: term[1:3]}, nil
		}
		return &Statement{Kind: StmtBind, Line: kw.Line, Op: kw.Text, Tokens: term[1:3]}, nil
	case 4:
		return &Statement{Kind: StmtBindFilter, Line: kw.Line, Op: kw.Text, Tokens: term[1:4]}, nil
	}
	return nil, newSyntaxError(kw, "%s expects name {block}, (predicate) {block} or name filter {block}", kw.Text)
}

func (p *Parser) classifyAssign(term Term) (*Statement, error) {
	if len(term) < 3 {
		return nil, newSyntaxError(term[1], "missing value after =")
	}
	target := term[0]
	if target.Wrapped('(') {
		items, err := p.SplitTerms(target.Inner(), ',', target.Line)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, newSyntaxError(target, "empty tuple")
		}
		for _, item := range items {
			if len(item) != 1 {
				return nil, newSyntaxError(target, "tuple elements must be variables")
			}
			if err := p.checkTarget(item[0]); err != nil {
				return nil, err
			}
		}
		return &Statement{Kind: StmtAssignTuple, Line: target.Line, Left: term[:1], Right: term[2:]}, nil
	}
	if err := p.checkTarget(target); err != nil {
		return nil, err
	}
	return &Statement{Kind: StmtAssign, Line: target.Line, Left: term[:1], Right: term[2:]}, nil
}

// checkTarget ensures tok names storage: a variable or an indexed value
func (p *Parser) checkTarget(tok Token) error {
	v, err := p.ParseValue([]Token{tok})
	if err != nil {
		return err
	}
	if v.Kind != ValueVariable && v.Kind != ValueIndexed {
		return newSyntaxError(tok, "cannot assign to %s", v.Kind)
	}
	return nil
}

// isVariable reports whether text is $name, @name or %name
func isVariable(text string) bool {
	if len(text) < 2 {
		return false
	}
	switch text[0] {
	case '$', '@', '%':
	default:
		return false
	}
	return isName(text[1:])
}

func isName(text string) bool {
	if text == "" {
		return false
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// isIdentifier is a bare function or class name
func isIdentifier(text string) bool {
	if text == "" || text[0] >= '0' && text[0] <= '9' {
		return false
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !(c == '_' || c == '.' || c == '$' && i > 0 || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
