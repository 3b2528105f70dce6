package parser

// Term is one top level unit: a statement, a parameter or a message part
type Term []Token

// Text joins the term's tokens with single spaces
func (t Term) Text() string { return joinText(t) }

// Line is the line of the first token
func (t Term) Line() int {
	if len(t) == 0 {
		return 0
	}
	return t[0].Line
}

// blockStatements open statements that end at their last {block}
var blockStatements = map[string]bool{
	"if":      true,
	"while":   true,
	"for":     true,
	"foreach": true,
	"try":     true,
}

// continuations keep a block statement going after a {block}
var continuations = map[string]bool{
	"else":  true,
	"catch": true,
}

// Merge collapses runs of adjacent tokens into single compound tokens, so
// foo, (1, 2) and [0] become the one token foo(1, 2)[0]. Block statement
// keywords stay apart from their header: if($x) is if ($x).
func Merge(tokens []Token) []Token {
	return merge(tokens, nil)
}

func merge(tokens []Token, kw *Keywords) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Adjacent && len(out) > 0 && !t.IsEOT() && fuses(out[len(out)-1], t, kw) {
			out[len(out)-1].Text += t.Text
			continue
		}
		t.Adjacent = false
		out = append(out, t)
	}
	return out
}

// fuses reports whether next joins last. Blocks never fuse with their
// neighbours: if ($x){ and }else.
func fuses(last, next Token, kw *Keywords) bool {
	if last.IsEOT() || last.Wrapped('{') || next.Wrapped('{') {
		return false
	}
	if next.Wrapped('(') && (blockStatements[last.Text] || (kw != nil && kw.IsEnvironment(last.Text))) {
		return false
	}
	return true
}

// Group merges adjacent tokens and splits the stream into terms at EOT.
// When statements is set, a term that starts with a block statement
// keyword (or a bind keyword) also ends after its final {block}.
func Group(tokens []Token, statements bool, kw *Keywords) []Term {
	merged := merge(tokens, kw)
	var terms []Term
	var current Term
	finish := func() {
		if len(current) > 0 {
			terms = append(terms, current)
		}
		current = nil
	}
	for i, t := range merged {
		if t.IsEOT() {
			finish()
			continue
		}
		current = append(current, t)
		if !statements || !t.Wrapped('{') || len(current) < 2 {
			continue
		}
		head := current[0].Text
		if !blockStatements[head] && (kw == nil || !kw.IsEnvironment(head)) {
			continue
		}
		if i+1 < len(merged) && continuations[merged[i+1].Text] {
			continue
		}
		finish()
	}
	finish()
	return terms
}
