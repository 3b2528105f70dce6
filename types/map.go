package types

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// Map abstracts map storage. Keys are the string form of the key scalar.
type Map interface {
	Len() int
	// At returns the live slot for key, inserting a null entry when missing
	At(key string) *Scalar
	// Get peeks at key without inserting or touching access order
	Get(key string) (*Scalar, bool)
	Put(key string, v *Scalar)
	Remove(key string) *Scalar
	Keys() []string
}

// RemovalPolicy is consulted after a new key is inserted. Returning true
// evicts the eldest entry.
type RemovalPolicy func(m *OrderedMap, eldestKey string, eldest *Scalar) bool

// MissPolicy supplies the value for a key that is read but not present
type MissPolicy func(m *OrderedMap, key string) *Scalar

// OrderedMap keeps insertion order, or access order when accessOrder is set
type OrderedMap struct {
	entries     *linkedhashmap.Map
	accessOrder bool
	removal     RemovalPolicy
	miss        MissPolicy
}

// NewOrderedMap returns an empty map
func NewOrderedMap(accessOrder bool) *OrderedMap {
	return &OrderedMap{
		entries:     linkedhashmap.New(),
		accessOrder: accessOrder,
	}
}

// AccessOrder reports whether reads move entries to the end
func (m *OrderedMap) AccessOrder() bool { return m.accessOrder }

// SetRemovalPolicy installs (or clears, with nil) the eviction callback
func (m *OrderedMap) SetRemovalPolicy(p RemovalPolicy) { m.removal = p }

// SetMissPolicy installs (or clears, with nil) the miss callback
func (m *OrderedMap) SetMissPolicy(p MissPolicy) { m.miss = p }

func (m *OrderedMap) Len() int { return m.entries.Size() }

func (m *OrderedMap) At(key string) *Scalar {
	if raw, found := m.entries.Get(key); found {
		v := raw.(*Scalar)
		if m.accessOrder {
			m.entries.Remove(key)
			m.entries.Put(key, v)
		}
		return v
	}
	var v *Scalar
	if m.miss != nil {
		v = m.miss(m, key)
	}
	if v == nil {
		v = NewNull()
	}
	m.Put(key, v)
	return v
}

func (m *OrderedMap) Get(key string) (*Scalar, bool) {
	raw, found := m.entries.Get(key)
	if !found {
		return nil, false
	}
	return raw.(*Scalar), true
}

func (m *OrderedMap) Put(key string, v *Scalar) {
	if _, found := m.entries.Get(key); found {
		if m.accessOrder {
			m.entries.Remove(key)
		}
		m.entries.Put(key, v)
		return
	}
	m.entries.Put(key, v)
	if m.removal == nil || m.entries.Size() == 0 {
		return
	}
	it := m.entries.Iterator()
	if !it.Next() {
		return
	}
	eldestKey := it.Key().(string)
	if m.removal(m, eldestKey, it.Value().(*Scalar)) {
		m.entries.Remove(eldestKey)
	}
}

func (m *OrderedMap) Remove(key string) *Scalar {
	raw, found := m.entries.Get(key)
	if !found {
		return NewNull()
	}
	m.entries.Remove(key)
	return raw.(*Scalar)
}

func (m *OrderedMap) Keys() []string {
	raw := m.entries.Keys()
	keys := make([]string, len(raw))
	for i, k := range raw {
		keys[i] = k.(string)
	}
	return keys
}

// LiveKeys returns the keys whose values are not null. Reads auto-create
// null entries, so iteration normally goes through this.
func LiveKeys(m Map) []string {
	var keys []string
	for _, k := range m.Keys() {
		if v, ok := m.Get(k); ok && !v.IsNull() {
			keys = append(keys, k)
		}
	}
	return keys
}
