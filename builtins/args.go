package builtins

import (
	"strings"

	"slumber/types"
	"slumber/vm"
)

// Argument helpers. Each pops the next argument and checks its kind,
// returning a ScriptError naming fn when the kind is wrong.

func popArg(args *vm.Frame) *types.Scalar {
	if args.IsEmpty() {
		return types.NewNull()
	}
	return args.Pop()
}

func popString(args *vm.Frame) string {
	return popArg(args).String()
}

func popArray(fn string, args *vm.Frame) (types.Array, *types.Scalar, error) {
	v := popArg(args)
	a := v.Array()
	if a == nil {
		return nil, v, vm.Errorf(fn, "expected an array, got %s", v.Describe())
	}
	return a, v, nil
}

func popMap(fn string, args *vm.Frame) (types.Map, *types.Scalar, error) {
	v := popArg(args)
	m := v.Map()
	if m == nil {
		return nil, v, vm.Errorf(fn, "expected a hash, got %s", v.Describe())
	}
	return m, v, nil
}

func popFunction(fn string, args *vm.Frame) (vm.Function, error) {
	v := popArg(args)
	f, ok := v.Object().(vm.Function)
	if !ok {
		return nil, vm.Errorf(fn, "expected a function, got %s", v.Describe())
	}
	return f, nil
}

func popClosure(fn string, args *vm.Frame) (*vm.Closure, error) {
	v := popArg(args)
	c, ok := v.Object().(*vm.Closure)
	if !ok {
		return nil, vm.Errorf(fn, "expected a closure, got %s", v.Describe())
	}
	return c, nil
}

// pair unpacks a `key => value` argument. Plain "k=v" strings are
// accepted too.
func pair(v *types.Scalar) (string, *types.Scalar, bool) {
	if kv, ok := v.Object().(*vm.KeyValuePair); ok {
		return kv.Key, kv.Value, true
	}
	if v.Kind() == types.KindString {
		if k, val, ok := strings.Cut(v.String(), "="); ok {
			return strings.TrimSpace(k), types.NewString(strings.TrimSpace(val)), true
		}
	}
	return "", nil, false
}

// variableName adds the scalar sigil to a bare name
func variableName(name string) string {
	if name == "" {
		return name
	}
	switch name[0] {
	case '$', '@', '%':
		return name
	}
	return "$" + name
}

func null() *types.Scalar { return types.NewNull() }
