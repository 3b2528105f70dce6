package types

// Array abstracts array storage so host collections can stand in for lists
type Array interface {
	Len() int
	// At returns the live slot for index i, growing the array with nulls
	// when i is past the end. Negative indexes count from the end.
	At(i int) *Scalar
	// Get returns the element at i without growing, or nil
	Get(i int) *Scalar
	Push(v *Scalar) *Scalar
	Pop() *Scalar
	Insert(i int, v *Scalar) *Scalar
	RemoveAt(i int) *Scalar
	Values() []*Scalar
	Sublist(from, to int) Array
}

// ListArray is the growable, slice backed Array
type ListArray struct {
	elements []*Scalar
}

// NewListArray returns an empty array
func NewListArray(values ...*Scalar) *ListArray {
	return &ListArray{elements: values}
}

func (l *ListArray) Len() int { return len(l.elements) }

func (l *ListArray) normalize(i int) int {
	if i < 0 {
		i += len(l.elements)
	}
	return i
}

func (l *ListArray) At(i int) *Scalar {
	i = l.normalize(i)
	if i < 0 {
		return NewNull()
	}
	for len(l.elements) <= i {
		l.elements = append(l.elements, NewNull())
	}
	return l.elements[i]
}

func (l *ListArray) Get(i int) *Scalar {
	i = l.normalize(i)
	if i < 0 || i >= len(l.elements) {
		return nil
	}
	return l.elements[i]
}

func (l *ListArray) Push(v *Scalar) *Scalar {
	l.elements = append(l.elements, v)
	return v
}

func (l *ListArray) Pop() *Scalar {
	if len(l.elements) == 0 {
		return NewNull()
	}
	v := l.elements[len(l.elements)-1]
	l.elements = l.elements[:len(l.elements)-1]
	return v
}

func (l *ListArray) Insert(i int, v *Scalar) *Scalar {
	i = l.normalize(i)
	if i < 0 {
		i = 0
	}
	if i >= len(l.elements) {
		l.At(i - 1)
		l.elements = append(l.elements, v)
		return v
	}
	l.elements = append(l.elements, nil)
	copy(l.elements[i+1:], l.elements[i:])
	l.elements[i] = v
	return v
}

func (l *ListArray) RemoveAt(i int) *Scalar {
	i = l.normalize(i)
	if i < 0 || i >= len(l.elements) {
		return NewNull()
	}
	v := l.elements[i]
	l.elements = append(l.elements[:i], l.elements[i+1:]...)
	return v
}

// Values returns a snapshot of the element slots
func (l *ListArray) Values() []*Scalar {
	out := make([]*Scalar, len(l.elements))
	copy(out, l.elements)
	return out
}

// Sublist returns the elements [from, to) as a new array sharing the slots
func (l *ListArray) Sublist(from, to int) Array {
	from, to = clampRange(from, to, len(l.elements))
	out := make([]*Scalar, to-from)
	copy(out, l.elements[from:to])
	return &ListArray{elements: out}
}

func clampRange(from, to, n int) (int, int) {
	if from < 0 {
		from += n
	}
	if to < 0 {
		to += n
	}
	if from < 0 {
		from = 0
	}
	if to > n {
		to = n
	}
	if from > to {
		from = to
	}
	return from, to
}
