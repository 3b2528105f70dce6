package parser

// Parser classifies token streams against the fixed grammar. It holds no
// per-compilation state and may be shared once its keywords are settled.
type Parser struct {
	kw *Keywords
}

// New returns a parser that recognizes kw. A nil kw uses DefaultKeywords.
func New(kw *Keywords) *Parser {
	if kw == nil {
		kw = DefaultKeywords()
	}
	return &Parser{kw: kw}
}

// Keywords returns the keyword set the parser consults
func (p *Parser) Keywords() *Keywords { return p.kw }

// ParseStatements lexes src as a ';' separated statement list and classifies
// each statement. Every malformed statement is reported; the returned error
// is an *ErrorList.
func (p *Parser) ParseStatements(src string, line int) ([]*Statement, error) {
	list, err := Lex(src, ';', line)
	if err != nil {
		errs := &ErrorList{}
		errs.Add(err)
		return nil, errs
	}
	errs := &ErrorList{}
	var out []*Statement
	for _, term := range Group(list.Tokens, true, p.kw) {
		stmt, err := p.ClassifyStatement(term)
		if err != nil {
			errs.Add(err)
			continue
		}
		out = append(out, stmt)
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SplitTerms lexes text and splits it at terminator, e.g. a parameter list
// at ',' or a message at ':'
func (p *Parser) SplitTerms(text string, terminator byte, line int) ([]Term, error) {
	list, err := Lex(text, terminator, line)
	if err != nil {
		return nil, err
	}
	return Group(list.Tokens, false, p.kw), nil
}

// Tokens lexes text into merged tokens with no term splitting
func (p *Parser) Tokens(text string, line int) ([]Token, error) {
	list, err := Lex(text, 0, line)
	if err != nil {
		return nil, err
	}
	return Merge(list.Tokens), nil
}

// ParseValueText lexes and classifies text as a single value expression
func (p *Parser) ParseValueText(text string, line int) (*Statement, error) {
	tokens, err := p.Tokens(text, line)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, &SyntaxError{Description: "expected a value", Line: line, Snippet: text, Marker: -1}
	}
	return p.ParseValue(tokens)
}

// ParsePredicateText lexes and classifies text as a predicate
func (p *Parser) ParsePredicateText(text string, line int) (*Statement, error) {
	tokens, err := p.Tokens(text, line)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, &SyntaxError{Description: "expected a predicate", Line: line, Snippet: text, Marker: -1}
	}
	return p.ParsePredicate(tokens)
}
