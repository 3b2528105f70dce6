package builtins

import (
	"strings"
	"unicode/utf8"

	"slumber/types"
	"slumber/vm"
)

// ============================================================================
// STRINGS
// ============================================================================

// stringBuiltins holds the string functions that compile patterns
type stringBuiltins struct {
	patterns *PatternCache
}

// builtinJoin concatenates array elements with a separator
// join(separator, @array) -> string
func builtinJoin(name string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	sep := popString(args)
	a, _, err := popArray(name, args)
	if err != nil {
		return nil, err
	}
	parts := make([]string, 0, a.Len())
	for _, v := range a.Values() {
		parts = append(parts, v.String())
	}
	return types.NewString(strings.Join(parts, sep)), nil
}

// split breaks a string on a regular expression
// split('pattern', string) -> @array
func (b *stringBuiltins) split(name string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	pattern, str := popString(args), popString(args)
	re, err := b.patterns.Compile(pattern)
	if err != nil {
		return nil, vm.Errorf(name, "bad pattern: %v", err)
	}
	out := types.NewListArray()
	for _, part := range re.Split(str, -1) {
		out.Push(types.NewString(part))
	}
	return types.NewArray(out), nil
}

// matches returns the groups of the first match, or an empty array. A
// pattern without groups returns the whole match.
// matches(string, 'pattern') -> @array
func (b *stringBuiltins) matches(name string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	str, pattern := popString(args), popString(args)
	re, err := b.patterns.Compile(pattern)
	if err != nil {
		return nil, vm.Errorf(name, "bad pattern: %v", err)
	}
	out := types.NewListArray()
	groups := re.FindStringSubmatch(str)
	switch {
	case groups == nil:
	case len(groups) == 1:
		out.Push(types.NewString(groups[0]))
	default:
		for _, g := range groups[1:] {
			out.Push(types.NewString(g))
		}
	}
	return types.NewArray(out), nil
}

// builtinMatched returns the groups captured by the last successful
// ismatch or hasmatch in the current function
// matched() -> @array
func builtinMatched(_ string, s *vm.ScriptInstance, _ *vm.Frame) (*types.Scalar, error) {
	out := types.NewListArray()
	groups, _ := s.Environment().Meta()[matchedKey].([]string)
	for _, g := range groups {
		out.Push(types.NewString(g))
	}
	return types.NewArray(out), nil
}

// replace substitutes matches of a pattern. $1 style group references
// work in the replacement. max limits the number of replacements.
// replace(string, 'pattern', 'replacement', [max]) -> string
func (b *stringBuiltins) replace(name string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	str, pattern, repl := popString(args), popString(args), popString(args)
	limit := -1
	if !args.IsEmpty() {
		limit = int(args.Pop().Int())
	}
	re, err := b.patterns.Compile(pattern)
	if err != nil {
		return nil, vm.Errorf(name, "bad pattern: %v", err)
	}
	if limit < 0 {
		return types.NewString(re.ReplaceAllString(str, repl)), nil
	}

	var sb strings.Builder
	last := 0
	for _, m := range re.FindAllStringSubmatchIndex(str, limit) {
		sb.WriteString(str[last:m[0]])
		sb.Write(re.ExpandString(nil, repl, str, m))
		last = m[1]
	}
	sb.WriteString(str[last:])
	return types.NewString(sb.String()), nil
}

// builtinStrlen counts characters
// strlen(string) -> int
func builtinStrlen(_ string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	return types.NewInt(int32(utf8.RuneCountInString(popString(args)))), nil
}

// builtinSubstr slices a string by character position. Negative positions
// count from the end.
// substr(string, start, [end]) -> string
func builtinSubstr(_ string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	runes := []rune(popString(args))
	n := len(runes)
	start := int(popArg(args).Int())
	end := n
	if !args.IsEmpty() {
		end = int(args.Pop().Int())
	}
	start, end = clampSlice(start, end, n)
	return types.NewString(string(runes[start:end])), nil
}

// builtinIndexOf finds a substring, returning its character position or
// $null
// indexOf(string, substring, [start]) -> int
func builtinIndexOf(_ string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	runes := []rune(popString(args))
	sub := popString(args)
	start := 0
	if !args.IsEmpty() {
		start, _ = clampSlice(int(args.Pop().Int()), len(runes), len(runes))
	}
	i := strings.Index(string(runes[start:]), sub)
	if i < 0 {
		return null(), nil
	}
	return types.NewInt(int32(start + utf8.RuneCountInString(string(runes[start:])[:i]))), nil
}

// builtinUpper upper-cases a string
// uc(string) -> string
func builtinUpper(_ string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	return types.NewString(strings.ToUpper(popString(args))), nil
}

// builtinLower lower-cases a string
// lc(string) -> string
func builtinLower(_ string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	return types.NewString(strings.ToLower(popString(args))), nil
}

func clampSlice(start, end, n int) (int, int) {
	if start < 0 {
		start += n
	}
	if end < 0 {
		end += n
	}
	start = min(max(start, 0), n)
	end = min(max(end, 0), n)
	if start > end {
		start = end
	}
	return start, end
}
