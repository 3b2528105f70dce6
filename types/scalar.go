package types

import "strings"

// Scalar is the universal runtime value. Exactly one of value, array or hash
// is active at a time.
type Scalar struct {
	value Value
	array Array
	hash  Map
}

// NewNull returns a fresh $null scalar
func NewNull() *Scalar { return &Scalar{value: NullValue{}} }

// NewInt returns a 32-bit integer scalar
func NewInt(v int32) *Scalar { return &Scalar{value: IntValue{v}} }

// NewLong returns a 64-bit integer scalar
func NewLong(v int64) *Scalar { return &Scalar{value: LongValue{v}} }

// NewDouble returns a floating point scalar
func NewDouble(v float64) *Scalar { return &Scalar{value: DoubleValue{v}} }

// NewString returns a string scalar
func NewString(v string) *Scalar { return &Scalar{value: StrValue{v}} }

// NewObject wraps a host reference
func NewObject(v any) *Scalar {
	if v == nil {
		return NewNull()
	}
	return &Scalar{value: ObjValue{v}}
}

// NewBool returns 1 or 0
func NewBool(b bool) *Scalar {
	if b {
		return NewInt(1)
	}
	return NewInt(0)
}

// NewArray wraps an existing container
func NewArray(a Array) *Scalar { return &Scalar{array: a} }

// NewMap wraps an existing container
func NewMap(m Map) *Scalar { return &Scalar{hash: m} }

// FromValue wraps a primitive
func FromValue(v Value) *Scalar {
	if v == nil {
		v = NullValue{}
	}
	return &Scalar{value: v}
}

// Kind reports the active case
func (s *Scalar) Kind() Kind {
	switch {
	case s.array != nil:
		return KindArray
	case s.hash != nil:
		return KindMap
	case s.value == nil:
		return KindNull
	default:
		return s.value.Kind()
	}
}

// Value returns the primitive payload, or nil for containers
func (s *Scalar) Value() Value {
	if s.array != nil || s.hash != nil {
		return nil
	}
	if s.value == nil {
		return NullValue{}
	}
	return s.value
}

// Array returns the array reference, or nil
func (s *Scalar) Array() Array { return s.array }

// Map returns the map reference, or nil
func (s *Scalar) Map() Map { return s.hash }

// Object returns the host reference, or nil
func (s *Scalar) Object() any {
	if o, ok := s.value.(ObjValue); ok && s.array == nil && s.hash == nil {
		return o.Val
	}
	return nil
}

func (s *Scalar) IsNull() bool { return s.Kind() == KindNull }

// SetValue makes s hold what other holds. Primitives are copied; arrays,
// maps and object references are shared.
func (s *Scalar) SetValue(other *Scalar) {
	if other == nil {
		s.value, s.array, s.hash = NullValue{}, nil, nil
		return
	}
	s.value, s.array, s.hash = other.value, other.array, other.hash
}

// SetPrimitive replaces the contents with a primitive
func (s *Scalar) SetPrimitive(v Value) {
	if v == nil {
		v = NullValue{}
	}
	s.value, s.array, s.hash = v, nil, nil
}

// SetArray replaces the contents with an array reference
func (s *Scalar) SetArray(a Array) {
	s.value, s.array, s.hash = nil, a, nil
}

// SetMap replaces the contents with a map reference
func (s *Scalar) SetMap(m Map) {
	s.value, s.array, s.hash = nil, nil, m
}

// Fresh returns a new scalar sharing s's contents
func (s *Scalar) Fresh() *Scalar {
	n := &Scalar{}
	n.SetValue(s)
	return n
}

// Copy returns a deep copy: containers are rebuilt element by element,
// object references stay shared. A copied *OrderedMap keeps its ordering
// mode and policies.
func (s *Scalar) Copy() *Scalar {
	switch {
	case s.array != nil:
		out := NewListArray()
		for _, v := range s.array.Values() {
			out.Push(v.Copy())
		}
		return NewArray(out)
	case s.hash != nil:
		src, ordered := s.hash.(*OrderedMap)
		out := NewOrderedMap(ordered && src.accessOrder)
		for _, k := range s.hash.Keys() {
			v, _ := s.hash.Get(k)
			out.Put(k, v.Copy())
		}
		if ordered {
			out.removal, out.miss = src.removal, src.miss
		}
		return NewMap(out)
	default:
		return s.Fresh()
	}
}

// Identity is what the `is` predicate compares: the container itself,
// the object reference, or else the string form.
func (s *Scalar) Identity() any {
	switch {
	case s.array != nil:
		return s.array
	case s.hash != nil:
		return s.hash
	}
	if o, ok := s.value.(ObjValue); ok {
		return o
	}
	return s.String()
}

// SameIdentity compares Identity() of two scalars
func SameIdentity(a, b *Scalar) bool {
	ia, ib := a.Identity(), b.Identity()
	if oa, ok := ia.(ObjValue); ok {
		ob, ok := ib.(ObjValue)
		return ok && sameObject(oa.Val, ob.Val)
	}
	return sameObject(ia, ib)
}

func (s *Scalar) String() string {
	switch {
	case s.array != nil:
		return describeArray(s.array)
	case s.hash != nil:
		return describeMap(s.hash)
	case s.value == nil:
		return ""
	default:
		return s.value.String()
	}
}

// Describe is String with strings quoted, as they appear inside containers
func (s *Scalar) Describe() string {
	if s.Kind() == KindString {
		return "'" + strings.ReplaceAll(s.value.String(), "'", "\\'") + "'"
	}
	return s.String()
}

func (s *Scalar) Int() int32 {
	switch {
	case s.array != nil:
		return int32(s.array.Len())
	case s.hash != nil:
		return int32(s.hash.Len())
	case s.value == nil:
		return 0
	}
	return s.value.Int()
}

func (s *Scalar) Long() int64 {
	switch {
	case s.array != nil:
		return int64(s.array.Len())
	case s.hash != nil:
		return int64(s.hash.Len())
	case s.value == nil:
		return 0
	}
	return s.value.Long()
}

func (s *Scalar) Double() float64 {
	switch {
	case s.array != nil:
		return float64(s.array.Len())
	case s.hash != nil:
		return float64(s.hash.Len())
	case s.value == nil:
		return 0
	}
	return s.value.Double()
}

// Truthy: $null, "", "0" and numeric zero are false. Containers are true.
func (s *Scalar) Truthy() bool {
	if s.array != nil || s.hash != nil {
		return true
	}
	if s.value == nil {
		return false
	}
	return s.value.Truthy()
}

func describeArray(a Array) string {
	var b strings.Builder
	b.WriteString("@(")
	for i, v := range a.Values() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.Describe())
	}
	b.WriteByte(')')
	return b.String()
}

func describeMap(m Map) string {
	var b strings.Builder
	b.WriteString("%(")
	first := true
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		if v == nil || v.IsNull() {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(k)
		b.WriteString(" => ")
		b.WriteString(v.Describe())
	}
	b.WriteByte(')')
	return b.String()
}
