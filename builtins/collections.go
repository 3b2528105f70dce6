package builtins

import (
	"slumber/types"
	"slumber/vm"
)

// ============================================================================
// ARRAYS AND HASHES
// ============================================================================

// builtinSize counts array elements or live hash entries. Anything else has
// size 0.
// size(@array) -> int
// size(%hash) -> int
func builtinSize(_ string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	v := popArg(args)
	switch v.Kind() {
	case types.KindArray:
		return types.NewInt(int32(v.Array().Len())), nil
	case types.KindMap:
		return types.NewInt(int32(len(types.LiveKeys(v.Map())))), nil
	}
	return types.NewInt(0), nil
}

// builtinPush appends values to an array and returns the last one
// push(@array, value...) -> value
func builtinPush(name string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	a, _, err := popArray(name, args)
	if err != nil {
		return nil, err
	}
	last := null()
	for !args.IsEmpty() {
		last = a.Push(args.Pop().Fresh())
	}
	return last, nil
}

// builtinPop removes the last element of an array
// pop(@array) -> value
func builtinPop(name string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	a, _, err := popArray(name, args)
	if err != nil {
		return nil, err
	}
	return a.Pop(), nil
}

// builtinShift removes the first element of an array
// shift(@array) -> value
func builtinShift(name string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	a, _, err := popArray(name, args)
	if err != nil {
		return nil, err
	}
	if a.Len() == 0 {
		return null(), nil
	}
	return a.RemoveAt(0), nil
}

// builtinAdd inserts into an array, at the front unless a position is
// given. On a hash it stores key => value pairs.
// add(@array, value, [position]) -> value
// add(%hash, key => value...) -> %hash
func builtinAdd(name string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	target := popArg(args)
	switch target.Kind() {
	case types.KindArray:
		v := popArg(args).Fresh()
		pos := 0
		if !args.IsEmpty() {
			pos = int(args.Pop().Int())
		}
		return target.Array().Insert(pos, v), nil
	case types.KindMap:
		m := target.Map()
		for !args.IsEmpty() {
			item := args.Pop()
			k, v, ok := pair(item)
			if !ok {
				return nil, vm.Errorf(name, "%s is not a key => value pair", item.Describe())
			}
			m.Put(k, v.Fresh())
		}
		return target, nil
	}
	return nil, vm.Errorf(name, "expected an array or hash, got %s", target.Describe())
}

// builtinRemove with no arguments drops the current foreach item.
// Otherwise it removes every element (or hash entry) identical to one of
// the given values.
// remove() -> int
// remove(@array|%hash, value...) -> @array|%hash
func builtinRemove(name string, s *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	if args.IsEmpty() {
		it := s.Environment().CurrentIterator()
		if it == nil {
			return nil, vm.Errorf(name, "no active foreach")
		}
		return types.NewBool(it.Remove()), nil
	}

	target := popArg(args)
	doomed := args.Args()
	matches := func(v *types.Scalar) bool {
		for _, d := range doomed {
			if types.SameIdentity(v, d) {
				return true
			}
		}
		return false
	}

	switch target.Kind() {
	case types.KindArray:
		a := target.Array()
		for i := a.Len() - 1; i >= 0; i-- {
			if v := a.Get(i); v != nil && matches(v) {
				a.RemoveAt(i)
			}
		}
		return target, nil
	case types.KindMap:
		m := target.Map()
		for _, k := range m.Keys() {
			if v, ok := m.Get(k); ok && matches(v) {
				m.Remove(k)
			}
		}
		return target, nil
	}
	return nil, vm.Errorf(name, "expected an array or hash, got %s", target.Describe())
}

// builtinRemoveAt removes by position or key and returns the last value
// removed
// removeAt(@array, index...) -> value
// removeAt(%hash, key...) -> value
func builtinRemoveAt(name string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	target := popArg(args)
	removed := null()
	switch target.Kind() {
	case types.KindArray:
		for !args.IsEmpty() {
			removed = target.Array().RemoveAt(int(args.Pop().Int()))
		}
	case types.KindMap:
		for !args.IsEmpty() {
			removed = target.Map().Remove(args.Pop().String())
		}
	default:
		return nil, vm.Errorf(name, "expected an array or hash, got %s", target.Describe())
	}
	return removed, nil
}

// builtinCopy returns a deep copy of a container
// copy(value) -> value
func builtinCopy(_ string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	return popArg(args).Copy(), nil
}

// builtinKeys lists the live keys of a hash in iteration order
// keys(%hash) -> @array
func builtinKeys(name string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	m, _, err := popMap(name, args)
	if err != nil {
		return nil, err
	}
	out := types.NewListArray()
	for _, k := range types.LiveKeys(m) {
		out.Push(types.NewString(k))
	}
	return types.NewArray(out), nil
}

// builtinValues lists hash values, either all live ones or those of the
// given keys
// values(%hash, [@keys]) -> @array
func builtinValues(name string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	m, _, err := popMap(name, args)
	if err != nil {
		return nil, err
	}
	keys := types.LiveKeys(m)
	if !args.IsEmpty() {
		a, _, err := popArray(name, args)
		if err != nil {
			return nil, err
		}
		keys = keys[:0]
		for _, k := range a.Values() {
			keys = append(keys, k.String())
		}
	}
	out := types.NewListArray()
	for _, k := range keys {
		v, ok := m.Get(k)
		if !ok {
			v = null()
		}
		out.Push(v)
	}
	return types.NewArray(out), nil
}

// builtinPutAll stores keys[i] => values[i]. Without values each key maps
// to itself.
// putAll(%hash, @keys, [@values]) -> %hash
func builtinPutAll(name string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	m, target, err := popMap(name, args)
	if err != nil {
		return nil, err
	}
	keys, _, err := popArray(name, args)
	if err != nil {
		return nil, err
	}
	values := keys
	if !args.IsEmpty() {
		if values, _, err = popArray(name, args); err != nil {
			return nil, err
		}
	}
	for i, k := range keys.Values() {
		v := values.Get(i)
		if v == nil {
			v = null()
		}
		m.Put(k.String(), v.Fresh())
	}
	return target, nil
}

// builtinArray collects its arguments into a new array
// array(value...) -> @array
func builtinArray(_ string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	out := types.NewListArray()
	for !args.IsEmpty() {
		out.Push(args.Pop().Fresh())
	}
	return types.NewArray(out), nil
}

// hashBuiltin builds hash(), ohash() and ohasha(). accessOrder moves an
// entry to the end each time it is read or written.
// hash(key => value...) -> %hash
func hashBuiltin(accessOrder bool) vm.FunctionFunc {
	return func(name string, _ *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
		m := types.NewOrderedMap(accessOrder)
		for !args.IsEmpty() {
			item := args.Pop()
			k, v, ok := pair(item)
			if !ok {
				return nil, vm.Errorf(name, "%s is not a key => value pair", item.Describe())
			}
			m.Put(k, v.Fresh())
		}
		return types.NewMap(m), nil
	}
}

func orderedMap(name string, v *types.Scalar) (*types.OrderedMap, error) {
	m, ok := v.Map().(*types.OrderedMap)
	if !ok {
		return nil, vm.Errorf(name, "%s does not support policies", v.Describe())
	}
	return m, nil
}

// builtinSetRemovalPolicy installs a function deciding whether the eldest
// entry goes after each insert. It is called as f(%hash, key, value).
// setRemovalPolicy(%hash, &function) -> %hash
func builtinSetRemovalPolicy(name string, s *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	target := popArg(args)
	m, err := orderedMap(name, target)
	if err != nil {
		return nil, err
	}
	fn, err := popFunction(name, args)
	if err != nil {
		return nil, err
	}
	m.SetRemovalPolicy(func(m *types.OrderedMap, key string, v *types.Scalar) bool {
		result, err := s.Invoke(fn, "removal", vm.NewFrame(types.NewMap(m), types.NewString(key), v))
		if err != nil {
			s.FlagError(types.NewString(err.Error()))
			return false
		}
		return result.Truthy()
	})
	return target, nil
}

// builtinSetMissPolicy installs a function supplying the value of a key
// read before it was written. It is called as f(%hash, key).
// setMissPolicy(%hash, &function) -> %hash
func builtinSetMissPolicy(name string, s *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	target := popArg(args)
	m, err := orderedMap(name, target)
	if err != nil {
		return nil, err
	}
	fn, err := popFunction(name, args)
	if err != nil {
		return nil, err
	}
	m.SetMissPolicy(func(m *types.OrderedMap, key string) *types.Scalar {
		result, err := s.Invoke(fn, "miss", vm.NewFrame(types.NewMap(m), types.NewString(key)))
		if err != nil {
			s.FlagError(types.NewString(err.Error()))
			return nil
		}
		return result.Fresh()
	})
	return target, nil
}

// builtinMap applies a function to every item and collects the results
// map(&function, @array|%hash|&generator) -> @array
func builtinMap(name string, s *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	return collect(name, s, args, true)
}

// builtinFilter is map without the $null results
// filter(&function, @array|%hash|&generator) -> @array
func builtinFilter(name string, s *vm.ScriptInstance, args *vm.Frame) (*types.Scalar, error) {
	return collect(name, s, args, false)
}

func collect(name string, s *vm.ScriptInstance, args *vm.Frame, keepNull bool) (*types.Scalar, error) {
	fn, err := popFunction(name, args)
	if err != nil {
		return nil, err
	}
	env := s.Environment()
	it := vm.NewIterator(popArg(args))
	out := types.NewListArray()
	for it.HasNext(env) {
		_, item := it.Next()
		result, err := s.Invoke(fn, name, vm.NewFrame(item))
		if err != nil {
			return nil, err
		}
		if keepNull || !result.IsNull() {
			out.Push(result.Fresh())
		}
	}
	if env.IsThrowing() {
		thrown := env.Thrown()
		env.ClearSignal()
		return nil, &vm.ThrowError{Value: thrown}
	}
	return types.NewArray(out), nil
}
