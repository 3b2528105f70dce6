package types

import (
	"fmt"
	"sort"
)

// ReadOnlyError is panicked by read-only containers when a script tries to
// change them. The runtime turns it into a thrown value.
type ReadOnlyError struct {
	Op string
}

func (e *ReadOnlyError) Error() string {
	return fmt.Sprintf("read-only collection: %s not supported", e.Op)
}

// ReadOnly is implemented by containers that wrap host collections
type ReadOnly interface {
	ReadOnly() bool
}

// ReadOnlyArray exposes a host slice as an array
type ReadOnlyArray struct {
	items []any
}

// NewReadOnlyArray wraps items without copying them
func NewReadOnlyArray(items []any) *ReadOnlyArray {
	return &ReadOnlyArray{items: items}
}

func (r *ReadOnlyArray) ReadOnly() bool { return true }
func (r *ReadOnlyArray) Len() int       { return len(r.items) }

func (r *ReadOnlyArray) At(i int) *Scalar {
	if v := r.Get(i); v != nil {
		return v
	}
	panic(&ReadOnlyError{Op: "grow"})
}

func (r *ReadOnlyArray) Get(i int) *Scalar {
	if i < 0 {
		i += len(r.items)
	}
	if i < 0 || i >= len(r.items) {
		return nil
	}
	return FromHost(r.items[i])
}

func (r *ReadOnlyArray) Push(*Scalar) *Scalar        { panic(&ReadOnlyError{Op: "push"}) }
func (r *ReadOnlyArray) Pop() *Scalar                { panic(&ReadOnlyError{Op: "pop"}) }
func (r *ReadOnlyArray) Insert(int, *Scalar) *Scalar { panic(&ReadOnlyError{Op: "insert"}) }
func (r *ReadOnlyArray) RemoveAt(int) *Scalar        { panic(&ReadOnlyError{Op: "remove"}) }

func (r *ReadOnlyArray) Values() []*Scalar {
	out := make([]*Scalar, len(r.items))
	for i, item := range r.items {
		out[i] = FromHost(item)
	}
	return out
}

func (r *ReadOnlyArray) Sublist(from, to int) Array {
	from, to = clampRange(from, to, len(r.items))
	return &ReadOnlyArray{items: r.items[from:to]}
}

// ReadOnlyMap exposes a host map. Keys iterate in sorted order.
type ReadOnlyMap struct {
	items map[string]any
}

// NewReadOnlyMap wraps items without copying them
func NewReadOnlyMap(items map[string]any) *ReadOnlyMap {
	return &ReadOnlyMap{items: items}
}

func (r *ReadOnlyMap) ReadOnly() bool { return true }
func (r *ReadOnlyMap) Len() int       { return len(r.items) }

// At does not insert: a missing key reads as a detached null
func (r *ReadOnlyMap) At(key string) *Scalar {
	if v, ok := r.Get(key); ok {
		return v
	}
	return NewNull()
}

func (r *ReadOnlyMap) Get(key string) (*Scalar, bool) {
	item, ok := r.items[key]
	if !ok {
		return nil, false
	}
	return FromHost(item), true
}

func (r *ReadOnlyMap) Put(string, *Scalar)    { panic(&ReadOnlyError{Op: "put"}) }
func (r *ReadOnlyMap) Remove(string) *Scalar { panic(&ReadOnlyError{Op: "remove"}) }

func (r *ReadOnlyMap) Keys() []string {
	keys := make([]string, 0, len(r.items))
	for k := range r.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
