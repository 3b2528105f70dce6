package parser

import "fmt"

// Rule matches one balanced construct. Entity rules have distinct open and
// close characters and nest; single rules reuse one delimiter.
type Rule struct {
	Name  string
	Open  byte
	Close byte
	// Escape lets a backslash protect the close delimiter
	Escape bool
	// Comment rules run to end of line and are dropped from the token stream
	Comment bool
}

// Single reports whether the rule uses one delimiter for open and close
func (r *Rule) Single() bool { return r.Open == r.Close || r.Comment }

var (
	ruleParens   = &Rule{Name: "parentheses", Open: '(', Close: ')'}
	ruleBraces   = &Rule{Name: "braces", Open: '{', Close: '}'}
	ruleBrackets = &Rule{Name: "brackets", Open: '[', Close: ']'}
	ruleDouble   = &Rule{Name: "string", Open: '"', Close: '"', Escape: true}
	ruleSingle   = &Rule{Name: "literal", Open: '\'', Close: '\'', Escape: true}
	ruleBacktick = &Rule{Name: "backtick expression", Open: '`', Close: '`', Escape: true}
	ruleComment  = &Rule{Name: "comment", Open: '#', Close: '\n', Comment: true}
)

var rules = []*Rule{ruleParens, ruleBraces, ruleBrackets, ruleDouble, ruleSingle, ruleBacktick, ruleComment}

// openingRule returns the rule whose open delimiter is c
func openingRule(c byte) *Rule {
	for _, r := range rules {
		if r.Open == c {
			return r
		}
	}
	return nil
}

// closingRule returns the entity rule whose close delimiter is c
func closingRule(c byte) *Rule {
	for _, r := range rules {
		if !r.Single() && r.Close == c {
			return r
		}
	}
	return nil
}

// groupFailure describes an unbalanced construct. Offset points at the
// witness: the unclosed opener or the stray closer.
type groupFailure struct {
	rule        *Rule
	offset      int
	missingOpen bool
}

func (f *groupFailure) describe() string {
	if f.missingOpen {
		return fmt.Sprintf("missing open %s: '%c' has no matching '%c'", f.rule.Name, f.rule.Close, f.rule.Open)
	}
	return fmt.Sprintf("missing close %s: '%c' is never closed", f.rule.Name, f.rule.Open)
}

// groupEnd scans the construct opened at text[start] and returns the
// offset just past its close.
func groupEnd(text string, start int) (int, *groupFailure) {
	type open struct {
		rule   *Rule
		offset int
	}
	first := openingRule(text[start])
	stack := []open{{first, start}}
	i := start + 1
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		if i >= len(text) {
			if top.rule.Comment {
				stack = stack[:len(stack)-1]
				continue
			}
			return -1, &groupFailure{rule: top.rule, offset: top.offset}
		}
		c := text[i]
		switch {
		case top.rule.Comment:
			if c == '\n' {
				stack = stack[:len(stack)-1]
			}
		case top.rule.Single():
			if top.rule.Escape && c == '\\' {
				i++
			} else if c == top.rule.Close {
				stack = stack[:len(stack)-1]
			}
		case c == top.rule.Close:
			stack = stack[:len(stack)-1]
		default:
			if r := openingRule(c); r != nil {
				stack = append(stack, open{r, i})
			} else if closingRule(c) != nil {
				return -1, &groupFailure{rule: top.rule, offset: top.offset}
			}
		}
		i++
	}
	if first.Comment {
		return i, nil
	}
	if i > len(text) {
		i = len(text)
	}
	return i, nil
}

// matchingEnd returns the index of the close delimiter matching text[0], or -1
func matchingEnd(text string) int {
	if text == "" || openingRule(text[0]) == nil || text[0] == '#' {
		return -1
	}
	end, fail := groupEnd(text, 0)
	if fail != nil {
		return -1
	}
	return end - 1
}
