package vm

import "slumber/types"

// Frame is a value stack. Expression steps push their results onto the
// current frame; a call consumes its argument frame whole.
type Frame struct {
	values []*types.Scalar
}

// NewFrame returns a frame holding args in argument order, so that Pop
// yields args[0] first
func NewFrame(args ...*types.Scalar) *Frame {
	f := &Frame{values: make([]*types.Scalar, len(args))}
	for i, a := range args {
		f.values[len(args)-1-i] = a
	}
	return f
}

// Push adds v on top
func (f *Frame) Push(v *types.Scalar) {
	if v == nil {
		v = types.NewNull()
	}
	f.values = append(f.values, v)
}

// Pop removes the top value. Argument frames are arranged so the top is
// the first argument. An empty frame pops $null.
func (f *Frame) Pop() *types.Scalar {
	if len(f.values) == 0 {
		return types.NewNull()
	}
	v := f.values[len(f.values)-1]
	f.values = f.values[:len(f.values)-1]
	return v
}

// Peek returns the top value without removing it, or nil
func (f *Frame) Peek() *types.Scalar {
	if len(f.values) == 0 {
		return nil
	}
	return f.values[len(f.values)-1]
}

func (f *Frame) Len() int     { return len(f.values) }
func (f *Frame) IsEmpty() bool { return len(f.values) == 0 }

// Args returns the remaining values in argument order without consuming them
func (f *Frame) Args() []*types.Scalar {
	out := make([]*types.Scalar, len(f.values))
	for i, v := range f.values {
		out[len(f.values)-1-i] = v
	}
	return out
}

// reverse flips a frame filled in evaluation order into argument order
func (f *Frame) reverse() {
	for i, j := 0, len(f.values)-1; i < j; i, j = i+1, j-1 {
		f.values[i], f.values[j] = f.values[j], f.values[i]
	}
}
