package types

// Kind identifies which case of a Scalar is active
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindLong
	KindDouble
	KindString
	KindObject
	KindArray
	KindMap
)

// String returns the name scripts see from typeOf()
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindMap:
		return "hash"
	default:
		return "unknown"
	}
}

// IsNumber reports whether k is one of the three numeric kinds
func (k Kind) IsNumber() bool {
	return k == KindInt || k == KindLong || k == KindDouble
}

// Value is the primitive payload of a Scalar.
// Implementations are immutable; a Scalar swaps its Value, never edits it.
type Value interface {
	Kind() Kind
	String() string
	Int() int32
	Long() int64
	Double() float64
	Truthy() bool
}

// Messenger is implemented by host objects that accept [obj message: args]
type Messenger interface {
	Send(message string, args []*Scalar) (*Scalar, error)
}
