package typemap

import (
	"fmt"

	"github.com/sasha-s/go-deadlock"
)

// ValueMap is the homogeneous companion to Map: a thread-safe map whose
// values all share one static type V, so access needs no runtime identity
// check and every method is fully type-safe. It is the right container for
// collections of handlers or other same-typed values that still want the
// single-lock scoped-access discipline.
//
// The same locking caveats as Map apply: closures run under the container
// lock and must not call back into the same ValueMap.
type ValueMap[K comparable, V any] struct {
	mu   deadlock.RWMutex
	data map[K]V
}

// NewValueMap constructs an empty ValueMap.
func NewValueMap[K comparable, V any]() *ValueMap[K, V] {
	return &ValueMap[K, V]{data: make(map[K]V)}
}

// Set stores value under key, silently overwriting any existing entry.
func (m *ValueMap[K, V]) Set(key K, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

// Get retrieves the value stored at key.
func (m *ValueMap[K, V]) Get(key K) (V, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		var zero V
		return zero, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	return v, nil
}

// With invokes op with the value stored at key while the lock is held.
func (m *ValueMap[K, V]) With(key K, op func(value V)) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	op(v)
	return nil
}

// WithMut invokes op with a pointer to the value stored at key; the mutated
// value is written back before the lock is released.
func (m *ValueMap[K, V]) WithMut(key K, op func(value *V)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	op(&v)
	m.data[key] = v
	return nil
}

// Apply invokes fn for every entry, in unspecified order, while the lock is
// held. The first error stops the iteration and is returned.
func (m *ValueMap[K, V]) Apply(fn func(key K, value V) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for k, v := range m.data {
		if err := fn(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Remove detaches the entry at key, reporting whether one existed.
func (m *ValueMap[K, V]) Remove(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	delete(m.data, key)
	return ok
}

// ContainsKey reports whether an entry exists at key.
func (m *ValueMap[K, V]) ContainsKey(key K) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok
}

// Keys returns all stored keys in unspecified order.
func (m *ValueMap[K, V]) Keys() []K {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]K, 0, len(m.data))
	for k := range m.data {
		out = append(out, k)
	}
	return out
}

// Values returns all stored values in unspecified order.
func (m *ValueMap[K, V]) Values() []V {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]V, 0, len(m.data))
	for _, v := range m.data {
		out = append(out, v)
	}
	return out
}

// Len returns the number of entries.
func (m *ValueMap[K, V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// IsEmpty reports whether the ValueMap holds no entries.
func (m *ValueMap[K, V]) IsEmpty() bool {
	return m.Len() == 0
}

// Clear removes all entries.
func (m *ValueMap[K, V]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[K]V)
}
