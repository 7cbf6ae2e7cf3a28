package typemap

import (
	"errors"
	"fmt"

	"github.com/sasha-s/go-deadlock"

	"github.com/davidroman0O/typemap/internal/anyvalue"
)

// Map is a thread-safe heterogeneous container keyed by an application-chosen
// key type. Values of arbitrary concrete types coexist under distinct keys;
// each entry records the concrete type captured at insertion and every typed
// access is validated against it.
//
// All operations hold one container-wide lock for their entire duration,
// including the execution of caller-supplied closures passed to With and
// WithMut. A long-running closure therefore blocks every other operation on
// the same Map, and a closure that calls back into the same Map deadlocks.
// Independent Map instances share nothing.
type Map[K comparable] struct {
	mu   deadlock.RWMutex
	data map[K]anyvalue.Value
}

// New constructs an empty Map.
func New[K comparable]() *Map[K] {
	return &Map[K]{data: make(map[K]anyvalue.Value)}
}

// Set stores a value under key, capturing its concrete type. An existing
// entry at the same key is silently overwritten.
func (m *Map[K]) Set(key K, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = anyvalue.New(value)
}

// SetWith stores the value built by producer under key, with the same
// overwrite semantics as Set. The producer runs while the container lock is
// held; it must not call back into the same Map.
func (m *Map[K]) SetWith(key K, producer func() any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = anyvalue.New(producer())
}

// Remove detaches and drops the entry at key. Removing an absent key is a
// no-op; the return value reports whether an entry was actually removed.
func (m *Map[K]) Remove(key K) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	delete(m.data, key)
	return ok
}

// ContainsKey reports whether an entry exists at key.
func (m *Map[K]) ContainsKey(key K) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.data[key]
	return ok
}

// Keys returns all stored keys in unspecified order.
func (m *Map[K]) Keys() []K {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]K, 0, len(m.data))
	for k := range m.data {
		out = append(out, k)
	}
	return out
}

// Len returns the number of entries.
func (m *Map[K]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// IsEmpty reports whether the Map holds no entries.
func (m *Map[K]) IsEmpty() bool {
	return m.Len() == 0
}

// Clear removes all entries.
func (m *Map[K]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[K]anyvalue.Value)
}

// Get retrieves the value stored at key as T. T may be the stored concrete
// type or an interface the stored type implements.
func Get[T any, K comparable](m *Map[K], key K) (T, error) {
	var zero T
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()

	if !ok {
		return zero, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	out, ok := anyvalue.As[T](e)
	if !ok {
		return zero, fmt.Errorf("%w: wanted %v, got %v", ErrTypeMismatch, anyvalue.TypeOf[T](), e.Type())
	}
	return out, nil
}

// GetOrDefault retrieves the value stored at key as T, falling back to
// defaultValue when the key is absent. A type mismatch is still an error.
func GetOrDefault[T any, K comparable](m *Map[K], key K, defaultValue T) (T, error) {
	out, err := Get[T](m, key)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return defaultValue, nil
		}
		return out, err
	}
	return out, nil
}

// With looks up the entry at key, checks its type and invokes op with the
// stored value while the container lock is held. The value must not escape
// op; use WithMut for mutation.
func With[T any, K comparable, R any](m *Map[K], key K, op func(value T) R) (R, error) {
	var zero R
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok {
		return zero, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	v, ok := anyvalue.As[T](e)
	if !ok {
		return zero, fmt.Errorf("%w: wanted %v, got %v", ErrTypeMismatch, anyvalue.TypeOf[T](), e.Type())
	}
	return op(v), nil
}

// WithMut is With with mutable access: op receives a pointer to the stored
// value and any mutation is written back before the lock is released, making
// it visible to all subsequent accesses.
func WithMut[T any, K comparable, R any](m *Map[K], key K, op func(value *T) R) (R, error) {
	var zero R
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok {
		return zero, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	v, ok := anyvalue.As[T](e)
	if !ok {
		return zero, fmt.Errorf("%w: wanted %v, got %v", ErrTypeMismatch, anyvalue.TypeOf[T](), e.Type())
	}
	out := op(&v)
	m.data[key] = anyvalue.New(v)
	return out, nil
}

// Values returns the values of all entries whose stored type matches T, in
// unspecified order.
func Values[T any, K comparable](m *Map[K]) []T {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []T{}
	for _, e := range m.data {
		if v, ok := anyvalue.As[T](e); ok {
			out = append(out, v)
		}
	}
	return out
}

// KeysByType returns all keys whose stored value has exactly type T, in
// unspecified order.
func KeysByType[T any, K comparable](m *Map[K]) []K {
	m.mu.RLock()
	defer m.mu.RUnlock()

	want := anyvalue.TypeOf[T]()
	keys := []K{}
	for k, e := range m.data {
		if e.Is(want) {
			keys = append(keys, k)
		}
	}
	return keys
}
