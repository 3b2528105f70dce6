package builtins

import (
	"fmt"
	"strings"

	"slumber/types"
	"slumber/vm"
)

// ============================================================================
// CLOSURES AND SCOPES
// ============================================================================

// builtinLambda returns a new closure over the same code as its argument,
// with a fresh closure scope seeded from the pairs given
// lambda(&closure, $name => value...) -> &closure
func builtinLambda(name string, s *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	src, err := popClosure(name, args)
	if err != nil {
		return nil, err
	}
	c := vm.NewClosure(s, "", src.Block())
	if err := seedScope(name, c.Scope(), args); err != nil {
		return nil, err
	}
	return types.NewObject(c), nil
}

// builtinLet seeds an existing closure's scope
// let(&closure, $name => value...) -> &closure
func builtinLet(name string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	c, err := popClosure(name, args)
	if err != nil {
		return nil, err
	}
	if err := seedScope(name, c.Scope(), args); err != nil {
		return nil, err
	}
	return types.NewObject(c), nil
}

func seedScope(fn string, scope *vm.Scope, args *vm.Frame) error {
	for !args.IsEmpty() {
		item := args.Pop()
		k, v, ok := pair(item)
		if !ok {
			return vm.Errorf(fn, "%s is not a key => value pair", item.Describe())
		}
		scope.Put(variableName(k), v.Fresh())
	}
	return nil
}

// builtinDeclare backs local(), this() and global(). Each argument is a
// space separated list of variable names.
// local('$a @b %c') -> $null
func builtinDeclare(name string, s *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	scopes := s.Scopes()
	var scope *vm.Scope
	switch strings.TrimPrefix(name, "&") {
	case "local":
		scope = scopes.Local()
	case "this":
		scope = scopes.Closure()
	}
	for !args.IsEmpty() {
		for _, v := range strings.Fields(args.Pop().String()) {
			s.Declare(scope, v, nil)
		}
	}
	return null(), nil
}

// builtinUndeclare removes variables from the innermost scope holding them
// undeclare('$name'...) -> int
func builtinUndeclare(_ string, s *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	removed := 0
	for !args.IsEmpty() {
		for _, v := range strings.Fields(args.Pop().String()) {
			if s.Scopes().Undeclare(v) {
				removed++
			}
		}
	}
	return types.NewInt(int32(removed)), nil
}

// builtinInvoke calls a function with the elements of an array as its
// arguments
// invoke(&function, [@args], [message]) -> value
func builtinInvoke(name string, s *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	fn, err := popFunction(name, args)
	if err != nil {
		return nil, err
	}
	call := vm.NewFrame()
	if !args.IsEmpty() {
		v := args.Pop()
		if a := v.Array(); a != nil {
			call = vm.NewFrame(a.Values()...)
		} else if !v.IsNull() {
			return nil, vm.Errorf(name, "expected an array of arguments, got %s", v.Describe())
		}
	}
	message := ""
	if !args.IsEmpty() {
		message = args.Pop().String()
	}
	return s.Invoke(fn, message, call)
}

// builtinTypeOf names the kind of a value. Functions report "function" and
// other objects their Go type.
// typeOf(value) -> string
func builtinTypeOf(_ string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	v := popArg(args)
	if v.Kind() != types.KindObject {
		return types.NewString(v.Kind().String()), nil
	}
	if _, ok := v.Object().(vm.Function); ok {
		return types.NewString("function"), nil
	}
	return types.NewString(fmt.Sprintf("%T", v.Object())), nil
}

// builtinCheckError returns and clears the last soft error
// checkError() -> value
func builtinCheckError(_ string, s *vm.ScriptInstance, _ *vm.Frame) (*types.Scalar, error) {
	return s.CheckError(), nil
}

// builtinDebug reads, and optionally replaces, the script's debug flags
// debug([flags]) -> int
func builtinDebug(_ string, s *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	prev := s.Debug()
	if !args.IsEmpty() {
		s.SetDebug(int(args.Pop().Int()))
	}
	return types.NewInt(int32(prev)), nil
}

// builtinIff picks between two values. Missing branches default to 1 and 0.
// iff(condition, [then], [else]) -> value
func builtinIff(_ string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	cond := popArg(args).Truthy()
	then, otherwise := types.NewBool(true), types.NewBool(false)
	if !args.IsEmpty() {
		then = args.Pop()
	}
	if !args.IsEmpty() {
		otherwise = args.Pop()
	}
	if cond {
		return then, nil
	}
	return otherwise, nil
}
