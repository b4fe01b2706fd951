package omap

import (
	"github.com/vedranvuk/ds/maps"
)

// OMap is a key-insertion-ordered map. Argument order is observable in
// pushkit (code rendering and left-to-right child popping both follow
// it), so a plain Go map is never enough.
//
// All mutating operations return a new map and leave the receiver
// untouched; a built OMap is safe to share across compiler runs.
type OMap[K comparable, V any] struct {
	m *maps.OrderedMap[K, V]
}

// New returns a new, empty ordered map.
func New[K comparable, V any]() *OMap[K, V] {
	return &OMap[K, V]{m: maps.MakeOrderedMap[K, V]()}
}

// From builds an ordered map from parallel key/value slices.
func From[K comparable, V any](keys []K, values []V) *OMap[K, V] {
	o := New[K, V]()
	for i, k := range keys {
		o.m.Put(k, values[i])
	}
	return o
}

// Add returns a copy with key set to value. A key that is already
// present keeps its original position.
func (o *OMap[K, V]) Add(key K, value V) *OMap[K, V] {
	n := New[K, V]()
	found := false
	for _, k := range o.m.Keys() {
		v, _ := o.m.Get(k)
		if k == key {
			v = value
			found = true
		}
		n.m.Put(k, v)
	}
	if !found {
		n.m.Put(key, value)
	}
	return n
}

// Discard returns a copy without key. Discarding an absent key returns
// an equal map.
func (o *OMap[K, V]) Discard(key K) *OMap[K, V] {
	n := New[K, V]()
	for _, k := range o.m.Keys() {
		if k == key {
			continue
		}
		v, _ := o.m.Get(k)
		n.m.Put(k, v)
	}
	return n
}

// Merge returns a copy with every entry of other added in other's
// order (existing keys keep their position, values updated).
func (o *OMap[K, V]) Merge(other *OMap[K, V]) *OMap[K, V] {
	n := o
	for _, k := range other.m.Keys() {
		v, _ := other.m.Get(k)
		n = n.Add(k, v)
	}
	return n
}

// Slice returns the positional sub-map [from, to). Bounds are clamped.
func (o *OMap[K, V]) Slice(from, to int) *OMap[K, V] {
	keys := o.m.Keys()
	if from < 0 {
		from = 0
	}
	if to > len(keys) {
		to = len(keys)
	}
	n := New[K, V]()
	for i := from; i < to; i++ {
		v, _ := o.m.Get(keys[i])
		n.m.Put(keys[i], v)
	}
	return n
}

// Get returns the value stored for key.
func (o *OMap[K, V]) Get(key K) (V, bool) {
	return o.m.Get(key)
}

// Contains reports whether key is present.
func (o *OMap[K, V]) Contains(key K) bool {
	_, ok := o.m.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (o *OMap[K, V]) Keys() []K {
	src := o.m.Keys()
	keys := make([]K, len(src))
	copy(keys, src)
	return keys
}

// Values returns the values in key insertion order.
func (o *OMap[K, V]) Values() []V {
	keys := o.m.Keys()
	values := make([]V, 0, len(keys))
	for _, k := range keys {
		v, _ := o.m.Get(k)
		values = append(values, v)
	}
	return values
}

// Len returns the number of entries.
func (o *OMap[K, V]) Len() int {
	return o.m.Len()
}

// Equal reports structural equality: same keys in the same order with
// values equal under eq.
func (o *OMap[K, V]) Equal(other *OMap[K, V], eq func(a, b V) bool) bool {
	if other == nil {
		return o.Len() == 0
	}
	aKeys := o.m.Keys()
	bKeys := other.m.Keys()
	if len(aKeys) != len(bKeys) {
		return false
	}
	for i, k := range aKeys {
		if bKeys[i] != k {
			return false
		}
		av, _ := o.m.Get(k)
		bv, _ := other.m.Get(k)
		if !eq(av, bv) {
			return false
		}
	}
	return true
}
