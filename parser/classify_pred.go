package parser

// ParsePredicate classifies a condition. || binds loosest, then &&, then a
// leading !, then the first binary predicate, then a unary -predicate.
// Anything else is tested for truth as a value.
func (p *Parser) ParsePredicate(tokens []Token) (*Statement, error) {
	if len(tokens) == 0 {
		return nil, &SyntaxError{Description: "expected a predicate", Marker: -1}
	}
	line := tokens[0].Line

	for _, op := range []string{"||", "&&"} {
		if i := indexText(tokens, op); i >= 0 {
			if i == 0 || i == len(tokens)-1 {
				return nil, newSyntaxError(tokens[i], "%s needs a predicate on both sides", op)
			}
			kind := PredOr
			if op == "&&" {
				kind = PredAnd
			}
			return &Statement{Kind: kind, Line: line, Op: op, Left: tokens[:i], Right: tokens[i+1:]}, nil
		}
	}

	first := tokens[0]
	if first.Text == "!" {
		if len(tokens) == 1 {
			return nil, newSyntaxError(first, "! needs a predicate")
		}
		return &Statement{Kind: PredNot, Line: line, Right: tokens[1:]}, nil
	}

	for i := 1; i < len(tokens)-1; i++ {
		if p.kw.IsPredicate(tokens[i].Text) {
			return &Statement{Kind: PredBinary, Line: line, Op: tokens[i].Text, Left: tokens[:i], Right: tokens[i+1:]}, nil
		}
	}
	if p.kw.IsPredicate(tokens[len(tokens)-1].Text) && len(tokens) > 1 {
		return nil, newSyntaxError(tokens[len(tokens)-1], "%s is missing its right operand", tokens[len(tokens)-1].Text)
	}

	if p.kw.IsUnaryPredicate(first.Text) {
		if len(tokens) == 1 {
			return nil, newSyntaxError(first, "%s needs an operand", first.Text)
		}
		return &Statement{Kind: PredUnary, Line: line, Op: first.Text, Right: tokens[1:]}, nil
	}

	if len(tokens) == 1 && first.Wrapped('(') {
		return &Statement{Kind: PredGroup, Line: line, Right: tokens}, nil
	}

	if len(first.Text) > 1 && first.Text[0] == '!' {
		rest := append([]Token{first.Copy(first.Text[1:])}, tokens[1:]...)
		return &Statement{Kind: PredNot, Line: line, Right: rest}, nil
	}

	if _, err := p.ParseValue(tokens); err != nil {
		return nil, err
	}
	return &Statement{Kind: PredValue, Line: line, Tokens: tokens}, nil
}
