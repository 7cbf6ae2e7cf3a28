// Package traitmap extends the keyed heterogeneous container with
// capability access: a value inserted with SetTrait is reachable both by
// its concrete type and through a declared interface, without the two views
// ever diverging. The interface view is built on demand from the concrete
// value while the container lock is held, never by copying it at insertion.
package traitmap

import (
	"fmt"
	"reflect"

	"github.com/sasha-s/go-deadlock"

	"github.com/davidroman0O/typemap"
	"github.com/davidroman0O/typemap/internal/anyvalue"
)

// entry carries the erased value plus, for trait-registered entries, the
// capability's identity and the conversion captured at insertion time that
// builds the capability view from the current concrete value.
type entry struct {
	val     anyvalue.Value
	trait   reflect.Type
	asTrait func(any) any
}

// Map is a thread-safe heterogeneous container whose entries can optionally
// be addressed through a capability interface declared at insertion. All
// operations hold one container-wide lock for their entire duration, caller
// closures included; a closure that calls back into the same Map deadlocks.
type Map[K comparable] struct {
	mu   deadlock.RWMutex
	data map[K]entry
}

// New constructs an empty Map.
func New[K comparable]() *Map[K] {
	return &Map[K]{data: make(map[K]entry)}
}

// Set stores a value under key without a capability registration; the entry
// is reachable by its concrete type only. An existing entry at the same key
// is silently overwritten, capability registration included.
func (m *Map[K]) Set(key K, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = entry{val: anyvalue.New(value)}
}

// SetWith stores the value built by producer under key, with the same
// semantics as Set. The producer runs while the container lock is held.
func (m *Map[K]) SetWith(key K, producer func() any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = entry{val: anyvalue.New(producer())}
}

// SetTrait stores a concrete value under key and registers it under the
// capability interface I, making it reachable both as its concrete type and
// through I. It fails with ErrTypeMismatch when I is not an interface type
// or when the value does not implement it; an existing entry at the same
// key is silently overwritten.
func SetTrait[I any, K comparable](m *Map[K], key K, value any) error {
	trait := anyvalue.TypeOf[I]()
	if trait.Kind() != reflect.Interface {
		return fmt.Errorf("%w: capability %v is not an interface type", typemap.ErrTypeMismatch, trait)
	}
	if value == nil {
		return fmt.Errorf("%w: nil value cannot satisfy capability %v", typemap.ErrTypeMismatch, trait)
	}
	if !reflect.TypeOf(value).Implements(trait) {
		return fmt.Errorf("%w: %v does not implement capability %v", typemap.ErrTypeMismatch, reflect.TypeOf(value), trait)
	}

	// The conversion is captured now, while I is statically known; access
	// time only replays it against whatever concrete value the entry holds.
	conv := func(v any) any {
		view, _ := v.(I)
		return view
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = entry{val: anyvalue.New(value), trait: trait, asTrait: conv}
	return nil
}

// Get retrieves the value stored at key as its concrete type T.
func Get[T any, K comparable](m *Map[K], key K) (T, error) {
	var zero T
	m.mu.RLock()
	e, ok := m.data[key]
	m.mu.RUnlock()

	if !ok {
		return zero, fmt.Errorf("%w: %v", typemap.ErrKeyNotFound, key)
	}
	out, ok := anyvalue.As[T](e.val)
	if !ok {
		return zero, fmt.Errorf("%w: wanted %v, got %v", typemap.ErrTypeMismatch, anyvalue.TypeOf[T](), e.val.Type())
	}
	return out, nil
}

// With invokes op with the concrete value stored at key while the container
// lock is held.
func With[T any, K comparable, R any](m *Map[K], key K, op func(value T) R) (R, error) {
	var zero R
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok {
		return zero, fmt.Errorf("%w: %v", typemap.ErrKeyNotFound, key)
	}
	v, ok := anyvalue.As[T](e.val)
	if !ok {
		return zero, fmt.Errorf("%w: wanted %v, got %v", typemap.ErrTypeMismatch, anyvalue.TypeOf[T](), e.val.Type())
	}
	return op(v), nil
}

// WithMut is With with mutable access: op receives a pointer to the stored
// value and any mutation is written back before the lock is released. The
// entry's capability registration is preserved, so a later WithTrait
// observes the mutated value.
func WithMut[T any, K comparable, R any](m *Map[K], key K, op func(value *T) R) (R, error) {
	var zero R
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.data[key]
	if !ok {
		return zero, fmt.Errorf("%w: %v", typemap.ErrKeyNotFound, key)
	}
	v, ok := anyvalue.As[T](e.val)
	if !ok {
		return zero, fmt.Errorf("%w: wanted %v, got %v", typemap.ErrTypeMismatch, anyvalue.TypeOf[T](), e.val.Type())
	}
	out := op(&v)
	e.val = anyvalue.New(v)
	m.data[key] = e
	return out, nil
}

// WithTrait invokes op with the capability-I view of the entry at key. The
// entry must have been registered under exactly I via SetTrait: an entry
// that exists but carries no registration, or one registered under a
// different capability, fails with ErrTypeMismatch, distinct from the
// ErrKeyNotFound of an absent key. The view is built from the current
// concrete value under the lock, so it observes all prior mutations.
func WithTrait[I any, K comparable, R any](m *Map[K], key K, op func(view I) R) (R, error) {
	var zero R
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.data[key]
	if !ok {
		return zero, fmt.Errorf("%w: %v", typemap.ErrKeyNotFound, key)
	}
	want := anyvalue.TypeOf[I]()
	if e.trait == nil {
		return zero, fmt.Errorf("%w: entry %v is not registered under a capability", typemap.ErrTypeMismatch, key)
	}
	if e.trait != want {
		return zero, fmt.Errorf("%w: wanted capability %v, registered %v", typemap.ErrTypeMismatch, want, e.trait)
	}
	view, ok := e.asTrait(e.val.Raw()).(I)
	if !ok {
		return zero, fmt.Errorf("%w: wanted capability %v, got %v", typemap.ErrTypeMismatch, want, e.val.Type())
	}
	return op(view), nil
}

// RegisteredTrait reports the capability interface the entry at key was
// registered under, or nil when it was stored without one.
func (m *Map[K]) RegisteredTrait(key K) (reflect.Type, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("%w: %v", typemap.ErrKeyNotFound, key)
	}
	return e.trait, nil
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
	m.data = make(map[K]entry)
}
