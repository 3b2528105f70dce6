package types

// FromHost converts a Go value handed in by the host into a Scalar.
// Slices and string keyed maps are wrapped read-only, not copied.
func FromHost(v any) *Scalar {
	switch x := v.(type) {
	case nil:
		return NewNull()
	case *Scalar:
		return x
	case Value:
		return FromValue(x)
	case bool:
		return NewBool(x)
	case int:
		if x >= -1<<31 && x < 1<<31 {
			return NewInt(int32(x))
		}
		return NewLong(int64(x))
	case int32:
		return NewInt(x)
	case int64:
		return NewLong(x)
	case float32:
		return NewDouble(float64(x))
	case float64:
		return NewDouble(x)
	case string:
		return NewString(x)
	case []any:
		return NewArray(NewReadOnlyArray(x))
	case map[string]any:
		return NewMap(NewReadOnlyMap(x))
	case Array:
		return NewArray(x)
	case Map:
		return NewMap(x)
	default:
		return NewObject(x)
	}
}

// ToHost unwraps a scalar into plain Go values. Containers are copied.
func ToHost(s *Scalar) any {
	switch s.Kind() {
	case KindNull:
		return nil
	case KindInt:
		return s.Int()
	case KindLong:
		return s.Long()
	case KindDouble:
		return s.Double()
	case KindString:
		return s.String()
	case KindObject:
		return s.Object()
	case KindArray:
		vals := s.Array().Values()
		out := make([]any, len(vals))
		for i, v := range vals {
			out[i] = ToHost(v)
		}
		return out
	case KindMap:
		m := s.Map()
		out := make(map[string]any, m.Len())
		for _, k := range LiveKeys(m) {
			v, _ := m.Get(k)
			out[k] = ToHost(v)
		}
		return out
	}
	return nil
}
