package types

import "fmt"

// ObjValue references a host object. Scalars holding one share the reference.
type ObjValue struct {
	Val any
}

func (o ObjValue) Kind() Kind { return KindObject }

func (o ObjValue) String() string {
	if s, ok := o.Val.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(o.Val)
}

func (o ObjValue) Int() int32      { return 0 }
func (o ObjValue) Long() int64     { return 0 }
func (o ObjValue) Double() float64 { return 0 }
func (o ObjValue) Truthy() bool    { return o.Val != nil }

// sameObject compares host references without panicking on uncomparable values
func sameObject(a, b any) (same bool) {
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}
