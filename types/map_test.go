package types

import (
	"reflect"
	"testing"
)

func TestOrderedMapAtInsertsNull(t *testing.T) {
	m := NewOrderedMap(false)
	v := m.At("missing")
	if !v.IsNull() {
		t.Errorf("missing key should read as null, got %s", v)
	}
	if m.Len() != 1 {
		t.Errorf("At should insert the key, len = %d", m.Len())
	}
	if len(LiveKeys(m)) != 0 {
		t.Error("LiveKeys should skip null entries")
	}
}

func TestOrderedMapInsertionOrder(t *testing.T) {
	m := NewOrderedMap(false)
	for _, k := range []string{"c", "a", "b"} {
		m.Put(k, NewString(k))
	}
	m.Put("c", NewString("again"))
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Errorf("Keys() = %v", got)
	}
}

func TestOrderedMapAccessOrder(t *testing.T) {
	m := NewOrderedMap(true)
	m.Put("a", NewInt(1))
	m.Put("b", NewInt(2))
	m.At("a")
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("Keys() = %v, want [b a]", got)
	}
	m.Get("b")
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("Get must not reorder, Keys() = %v", got)
	}
}

func TestOrderedMapRemovalPolicy(t *testing.T) {
	m := NewOrderedMap(true)
	m.SetRemovalPolicy(func(om *OrderedMap, key string, v *Scalar) bool {
		return om.Len() > 2
	})
	m.Put("a", NewInt(1))
	m.Put("b", NewInt(2))
	m.At("a")
	m.Put("c", NewInt(3))
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"a", "c"}) {
		t.Errorf("Keys() = %v, want [a c]", got)
	}
}

func TestOrderedMapMissPolicy(t *testing.T) {
	m := NewOrderedMap(false)
	m.SetMissPolicy(func(om *OrderedMap, key string) *Scalar {
		return NewString("made " + key)
	})
	if got := m.At("x").String(); got != "made x" {
		t.Errorf("At(x) = %q", got)
	}
	if v, ok := m.Get("x"); !ok || v.String() != "made x" {
		t.Error("miss value should be stored")
	}
}

func TestReadOnlyMap(t *testing.T) {
	r := NewReadOnlyMap(map[string]any{"b": 2, "a": 1})
	if got := r.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Keys() = %v", got)
	}
	if !r.At("zz").IsNull() || r.Len() != 2 {
		t.Error("At on a read-only map must not insert")
	}
	defer func() {
		if _, ok := recover().(*ReadOnlyError); !ok {
			t.Error("Put should panic with ReadOnlyError")
		}
	}()
	r.Put("c", NewInt(3))
}

func TestCopyKeepsOrderingAndPolicies(t *testing.T) {
	m := NewOrderedMap(true)
	m.SetRemovalPolicy(func(om *OrderedMap, key string, v *Scalar) bool {
		return om.Len() > 2
	})
	m.SetMissPolicy(func(om *OrderedMap, key string) *Scalar {
		return NewString("made " + key)
	})
	m.Put("a", NewInt(1))
	m.Put("b", NewInt(2))

	c := NewMap(m).Copy().Map().(*OrderedMap)
	if !c.AccessOrder() {
		t.Fatal("copy lost access order")
	}
	if got := c.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("copied Keys() = %v, want [a b]", got)
	}
	c.At("a")
	if got := c.At("z").String(); got != "made z" {
		t.Errorf("copy lost miss policy, At(z) = %q", got)
	}
	if got := c.Keys(); !reflect.DeepEqual(got, []string{"a", "z"}) {
		t.Errorf("copy lost removal policy, Keys() = %v, want [a z]", got)
	}
	if got := m.Keys(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("original changed, Keys() = %v", got)
	}
}
