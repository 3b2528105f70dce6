package parser

import "strings"

// Keywords is the set of names the classifier treats as syntax rather than
// ordinary identifiers. Bridges add to it before compiling anything; it is
// not safe to modify while compilations are running.
type Keywords struct {
	operators    map[string]bool
	predicates   map[string]bool
	unary        map[string]bool
	environments map[string]bool
}

// NewKeywords returns an empty keyword set
func NewKeywords() *Keywords {
	return &Keywords{
		operators:    make(map[string]bool),
		predicates:   make(map[string]bool),
		unary:        make(map[string]bool),
		environments: make(map[string]bool),
	}
}

// DefaultKeywords returns the core operators and predicates
func DefaultKeywords() *Keywords {
	k := NewKeywords()
	for _, op := range []string{"+", "-", "*", "/", "%", "**", "<<", ">>", "&", "|", "^", ".", "x", "<=>", "cmp"} {
		k.AddOperator(op)
	}
	for _, p := range []string{"==", "!=", "<", ">", "<=", ">=", "eq", "ne", "lt", "gt", "is", "isin", "iswm", "in", "=~"} {
		k.AddPredicate(p)
	}
	for _, p := range []string{"-isarray", "-ishash", "-isnumber", "-isfunction", "-istrue", "-isletter", "-isupper", "-islower", "-isnull", "-isobject"} {
		k.AddPredicate(p)
	}
	return k
}

// AddOperator registers an infix value operator
func (k *Keywords) AddOperator(op string) { k.operators[op] = true }

// AddPredicate registers a predicate. Names starting with '-' are unary.
func (k *Keywords) AddPredicate(name string) {
	if strings.HasPrefix(name, "-") && len(name) > 1 {
		k.unary[name] = true
		return
	}
	k.predicates[name] = true
}

// AddEnvironment registers a bind keyword such as "sub"
func (k *Keywords) AddEnvironment(name string) { k.environments[name] = true }

// RemoveEnvironment drops a bind keyword
func (k *Keywords) RemoveEnvironment(name string) { delete(k.environments, name) }

// IsOperator reports whether text is an infix operator. The lexer's
// "% " modulus token counts as "%".
func (k *Keywords) IsOperator(text string) bool {
	return k.operators[NormalizeOperator(text)]
}

// IsPredicate reports whether text is a binary predicate, including the
// negated "!name" form.
func (k *Keywords) IsPredicate(text string) bool {
	if k.predicates[text] {
		return true
	}
	if len(text) > 1 && text[0] == '!' && text != "!=" {
		return k.predicates[text[1:]]
	}
	return false
}

// IsUnaryPredicate reports whether text is a registered -name predicate
func (k *Keywords) IsUnaryPredicate(text string) bool {
	if k.unary[text] {
		return true
	}
	return len(text) > 2 && text[0] == '!' && k.unary[text[1:]]
}

// IsEnvironment reports whether text is a bind keyword
func (k *Keywords) IsEnvironment(text string) bool { return k.environments[text] }

// Clone returns an independent copy
func (k *Keywords) Clone() *Keywords {
	c := NewKeywords()
	for n := range k.operators {
		c.operators[n] = true
	}
	for n := range k.predicates {
		c.predicates[n] = true
	}
	for n := range k.unary {
		c.unary[n] = true
	}
	for n := range k.environments {
		c.environments[n] = true
	}
	return c
}

// NormalizeOperator maps lexer spellings onto registry names
func NormalizeOperator(text string) string {
	if text == "% " {
		return "%"
	}
	return text
}
