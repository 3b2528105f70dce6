package builtins

import (
	"strconv"
	"strings"
	"unicode"

	"slumber/types"
	"slumber/vm"
)

// ============================================================================
// PREDICATES
// ============================================================================

// matchedKey is where the last successful regex predicate leaves its groups
// for matched()
const matchedKey = "matched"

func registerPredicates(r *vm.Registry, patterns *PatternCache) {
	numeric := func(test func(int) bool) vm.PredicateFunc {
		return func(_ string, _ *vm.ScriptInstance, args *vm.Frame) (bool, error) {
			left, right := popArg(args), popArg(args)
			return test(types.Compare(left, right)), nil
		}
	}
	r.RegisterPredicate("==", numeric(func(c int) bool { return c == 0 }))
	r.RegisterPredicate("!=", numeric(func(c int) bool { return c != 0 }))
	r.RegisterPredicate("<", numeric(func(c int) bool { return c < 0 }))
	r.RegisterPredicate(">", numeric(func(c int) bool { return c > 0 }))
	r.RegisterPredicate("<=", numeric(func(c int) bool { return c <= 0 }))
	r.RegisterPredicate(">=", numeric(func(c int) bool { return c >= 0 }))

	text := func(test func(int) bool) vm.PredicateFunc {
		return func(_ string, _ *vm.ScriptInstance, args *vm.Frame) (bool, error) {
			left, right := popString(args), popString(args)
			return test(strings.Compare(left, right)), nil
		}
	}
	r.RegisterPredicate("eq", text(func(c int) bool { return c == 0 }))
	r.RegisterPredicate("ne", text(func(c int) bool { return c != 0 }))
	r.RegisterPredicate("lt", text(func(c int) bool { return c < 0 }))
	r.RegisterPredicate("gt", text(func(c int) bool { return c > 0 }))

	r.RegisterPredicate("is", vm.PredicateFunc(predicateIs))
	r.RegisterPredicate("isin", vm.PredicateFunc(predicateIsin))
	r.RegisterPredicate("iswm", vm.PredicateFunc(predicateIswm))
	r.RegisterPredicate("in", vm.PredicateFunc(predicateIn))

	m := &matchPredicates{patterns: patterns}
	r.RegisterPredicate("ismatch", vm.PredicateFunc(m.isMatch))
	r.RegisterPredicate("hasmatch", vm.PredicateFunc(m.hasMatch))
	r.RegisterPredicate("=~", vm.PredicateFunc(m.hasMatch))

	unary := map[string]func(*types.Scalar) bool{
		"-isarray":    func(v *types.Scalar) bool { return v.Kind() == types.KindArray },
		"-ishash":     func(v *types.Scalar) bool { return v.Kind() == types.KindMap },
		"-isnull":     func(v *types.Scalar) bool { return v.IsNull() },
		"-istrue":     func(v *types.Scalar) bool { return v.Truthy() },
		"-isobject":   func(v *types.Scalar) bool { return v.Kind() == types.KindObject },
		"-isfunction": isFunction,
		"-isnumber":   isNumber,
		"-isletter":   allRunes(unicode.IsLetter),
		"-isupper":    allRunes(unicode.IsUpper),
		"-islower":    allRunes(unicode.IsLower),
		"-isdigit":    allRunes(unicode.IsDigit),
	}
	for name, test := range unary {
		r.RegisterPredicate(name, unaryPredicate(test))
	}
}

func unaryPredicate(test func(*types.Scalar) bool) vm.PredicateFunc {
	return func(_ string, _ *vm.ScriptInstance, args *vm.Frame) (bool, error) {
		return test(popArg(args)), nil
	}
}

// predicateIs compares identity: the same container, the same object, or
// equal string forms
func predicateIs(_ string, _ *vm.ScriptInstance, args *vm.Frame) (bool, error) {
	left, right := popArg(args), popArg(args)
	return types.SameIdentity(left, right), nil
}

// predicateIsin reports whether left is a substring of right
func predicateIsin(_ string, _ *vm.ScriptInstance, args *vm.Frame) (bool, error) {
	left, right := popString(args), popString(args)
	return strings.Contains(right, left), nil
}

// predicateIswm matches right against the wildcard pattern on the left
func predicateIswm(_ string, _ *vm.ScriptInstance, args *vm.Frame) (bool, error) {
	pattern, s := popString(args), popString(args)
	return wildcardMatch(pattern, s), nil
}

// predicateIn reports whether left is a live key of the hash on the right,
// or an element of the array on the right
func predicateIn(name string, _ *vm.ScriptInstance, args *vm.Frame) (bool, error) {
	left, right := popArg(args), popArg(args)
	switch right.Kind() {
	case types.KindMap:
		v, ok := right.Map().Get(left.String())
		return ok && !v.IsNull(), nil
	case types.KindArray:
		for _, item := range right.Array().Values() {
			if types.SameIdentity(left, item) {
				return true, nil
			}
		}
		return false, nil
	case types.KindNull:
		return false, nil
	}
	return false, vm.Errorf(name, "%s is not an array or hash", right.Describe())
}

type matchPredicates struct {
	patterns *PatternCache
}

// isMatch requires the whole left string to match the pattern on the right
func (m *matchPredicates) isMatch(name string, s *vm.ScriptInstance, args *vm.Frame) (bool, error) {
	return m.match(name, s, args, true)
}

// hasMatch looks for the pattern anywhere in the left string
func (m *matchPredicates) hasMatch(name string, s *vm.ScriptInstance, args *vm.Frame) (bool, error) {
	return m.match(name, s, args, false)
}

func (m *matchPredicates) match(name string, s *vm.ScriptInstance, args *vm.Frame, whole bool) (bool, error) {
	str, pattern := popString(args), popString(args)
	if whole {
		pattern = `^(?:` + pattern + `)$`
	}
	re, err := m.patterns.Compile(pattern)
	if err != nil {
		return false, vm.Errorf(name, "bad pattern: %v", err)
	}
	groups := re.FindStringSubmatch(str)
	if groups == nil {
		return false, nil
	}
	s.Environment().Meta()[matchedKey] = groups[1:]
	return true, nil
}

func isFunction(v *types.Scalar) bool {
	_, ok := v.Object().(vm.Function)
	return ok
}

func isNumber(v *types.Scalar) bool {
	if v.Kind().IsNumber() {
		return true
	}
	if v.Kind() != types.KindString {
		return false
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64)
	return err == nil
}

func allRunes(test func(rune) bool) func(*types.Scalar) bool {
	return func(v *types.Scalar) bool {
		s := v.String()
		if s == "" {
			return false
		}
		for _, r := range s {
			if !test(r) {
				return false
			}
		}
		return true
	}
}

// wildcardMatch matches s against pattern where * is any run of
// characters and ? is exactly one
func wildcardMatch(pattern, s string) bool {
	p, t := []rune(pattern), []rune(s)
	pi, ti := 0, 0
	star, mark := -1, 0
	for ti < len(t) {
		switch {
		case pi < len(p) && (p[pi] == '?' || p[pi] == t[ti]):
			pi++
			ti++
		case pi < len(p) && p[pi] == '*':
			star, mark = pi, ti
			pi++
		case star >= 0:
			pi = star + 1
			mark++
			ti = mark
		default:
			return false
		}
	}
	for pi < len(p) && p[pi] == '*' {
		pi++
	}
	return pi == len(p)
}
