package vm

import (
	"slumber/types"
)

// Iterator is the state of one live foreach
type Iterator interface {
	// HasNext fetches the next item. Function iterators call out here, so
	// it may leave a throw on env.
	HasNext(env *Environment) bool
	Next() (key, value *types.Scalar)
	// Remove drops the item last returned by Next
	Remove() bool
}

// NewIterator picks the iterator for v
func NewIterator(v *types.Scalar) Iterator {
	switch v.Kind() {
	case types.KindArray:
		return &arrayIterator{array: v.Array()}
	case types.KindMap:
		m := v.Map()
		return &mapIterator{m: m, keys: types.LiveKeys(m)}
	case types.KindObject:
		switch obj := v.Object().(type) {
		case Function:
			return &functionIterator{fn: obj}
		case HostIterator:
			return &hostIterator{it: obj}
		}
	}
	return emptyIterator{}
}

type arrayIterator struct {
	array types.Array
	index int
}

func (it *arrayIterator) HasNext(*Environment) bool { return it.index < it.array.Len() }

func (it *arrayIterator) Next() (*types.Scalar, *types.Scalar) {
	key := types.NewInt(int32(it.index))
	v := it.array.Get(it.index)
	it.index++
	if v == nil {
		v = types.NewNull()
	}
	return key, v
}

func (it *arrayIterator) Remove() bool {
	if it.index == 0 {
		return false
	}
	it.index--
	it.array.RemoveAt(it.index)
	return true
}

// mapIterator walks a snapshot of the keys that held values at creation
type mapIterator struct {
	m    types.Map
	keys []string
	pos  int
	last string
	live bool
	next *types.Scalar
}

func (it *mapIterator) HasNext(*Environment) bool {
	for it.pos < len(it.keys) {
		k := it.keys[it.pos]
		if v, ok := it.m.Get(k); ok && !v.IsNull() {
			it.next = v
			return true
		}
		it.pos++
	}
	return false
}

func (it *mapIterator) Next() (*types.Scalar, *types.Scalar) {
	it.last = it.keys[it.pos]
	it.live = true
	it.pos++
	return types.NewString(it.last), it.next
}

func (it *mapIterator) Remove() bool {
	if !it.live {
		return false
	}
	it.m.Remove(it.last)
	it.live = false
	return true
}

// functionIterator calls a generator until it returns $null
type functionIterator struct {
	fn    Function
	count int
	next  *types.Scalar
}

func (it *functionIterator) HasNext(env *Environment) bool {
	v, err := env.script.callFunction("foreach", it.fn, NewFrame())
	if err != nil {
		env.Throw(thrownValue(err))
		return false
	}
	if v == nil || v.IsNull() || env.signal != SignalNone {
		return false
	}
	it.next = v
	return true
}

func (it *functionIterator) Next() (*types.Scalar, *types.Scalar) {
	key := types.NewInt(int32(it.count))
	it.count++
	return key, it.next
}

func (it *functionIterator) Remove() bool { return false }

type hostIterator struct {
	it    HostIterator
	count int
}

func (h *hostIterator) HasNext(*Environment) bool { return h.it.HasNext() }

func (h *hostIterator) Next() (*types.Scalar, *types.Scalar) {
	key := types.NewInt(int32(h.count))
	h.count++
	v := h.it.Next()
	if v == nil {
		v = types.NewNull()
	}
	return key, v
}

func (h *hostIterator) Remove() bool { return false }

type emptyIterator struct{}

func (emptyIterator) HasNext(*Environment) bool             { return false }
func (emptyIterator) Next() (*types.Scalar, *types.Scalar) { return types.NewNull(), types.NewNull() }
func (emptyIterator) Remove() bool                         { return false }
