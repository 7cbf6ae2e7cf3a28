// Package typestore implements a thread-safe container addressed by type:
// the concrete type of each stored value is its key, so at most one value
// per type exists at any time. It is a natural fit for service-locator and
// configuration registries, where the type alone identifies the value.
package typestore

import (
	"fmt"
	"reflect"

	"github.com/sasha-s/go-deadlock"

	"github.com/davidroman0O/typemap"
	"github.com/davidroman0O/typemap/internal/anyvalue"
)

// Store maps a type identity to one value of that type. All operations hold
// one container-wide lock for their entire duration, caller closures
// included; a closure that calls back into the same Store deadlocks.
type Store struct {
	mu   deadlock.RWMutex
	data map[reflect.Type]anyvalue.Value
}

// New constructs an empty Store.
func New() *Store {
	return &Store{data: make(map[reflect.Type]anyvalue.Value)}
}

// Set stores value under its concrete type, silently overwriting any prior
// value of type T.
func Set[T any](s *Store, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[anyvalue.TypeOf[T]()] = anyvalue.New(value)
}

// SetWith stores the value built by producer under type T, with the same
// overwrite semantics as Set. The producer runs while the container lock is
// held; it must not call back into the same Store.
func SetWith[T any](s *Store, producer func() T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[anyvalue.TypeOf[T]()] = anyvalue.New(producer())
}

// Get retrieves the value stored under type T. A type that was never set
// and one that was removed both surface as ErrKeyNotFound carrying the
// type's name.
func Get[T any](s *Store) (T, error) {
	var zero T
	s.mu.RLock()
	e, ok := s.data[anyvalue.TypeOf[T]()]
	s.mu.RUnlock()

	if !ok {
		return zero, fmt.Errorf("%w: %v", typemap.ErrKeyNotFound, anyvalue.TypeOf[T]())
	}
	out, ok := anyvalue.As[T](e)
	if !ok {
		return zero, fmt.Errorf("%w: wanted %v, got %v", typemap.ErrTypeMismatch, anyvalue.TypeOf[T](), e.Type())
	}
	return out, nil
}

// GetOrDefault retrieves the value stored under type T, falling back to
// defaultValue when no value of that type is present.
func GetOrDefault[T any](s *Store, defaultValue T) T {
	out, err := Get[T](s)
	if err != nil {
		return defaultValue
	}
	return out
}

// With invokes op with the value stored under type T while the container
// lock is held. The value must not escape op; use WithMut for mutation.
func With[T any, R any](s *Store, op func(value T) R) (R, error) {
	var zero R
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[anyvalue.TypeOf[T]()]
	if !ok {
		return zero, fmt.Errorf("%w: %v", typemap.ErrKeyNotFound, anyvalue.TypeOf[T]())
	}
	v, ok := anyvalue.As[T](e)
	if !ok {
		return zero, fmt.Errorf("%w: wanted %v, got %v", typemap.ErrTypeMismatch, anyvalue.TypeOf[T](), e.Type())
	}
	return op(v), nil
}

// WithMut is With with mutable access: op receives a pointer to the stored
// value and any mutation is written back before the lock is released.
func WithMut[T any, R any](s *Store, op func(value *T) R) (R, error) {
	var zero R
	s.mu.Lock()
	defer s.mu.Unlock()

	key := anyvalue.TypeOf[T]()
	e, ok := s.data[key]
	if !ok {
		return zero, fmt.Errorf("%w: %v", typemap.ErrKeyNotFound, key)
	}
	v, ok := anyvalue.As[T](e)
	if !ok {
		return zero, fmt.Errorf("%w: wanted %v, got %v", typemap.ErrTypeMismatch, key, e.Type())
	}
	out := op(&v)
	s.data[key] = anyvalue.New(v)
	return out, nil
}

// Remove detaches the value stored under type T. Removing an absent type is
// a no-op; the return value reports whether a value was actually removed.
func Remove[T any](s *Store) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := anyvalue.TypeOf[T]()
	_, ok := s.data[key]
	delete(s.data, key)
	return ok
}

// Contains reports whether a value of type T is stored.
func Contains[T any](s *Store) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[anyvalue.TypeOf[T]()]
	return ok
}

// Types returns the names of all stored types in unspecified order.
func (s *Store) Types() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.data))
	for t := range s.data {
		out = append(out, t.String())
	}
	return out
}

// Len returns the number of stored values.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// IsEmpty reports whether the Store holds no values.
func (s *Store) IsEmpty() bool {
	return s.Len() == 0
}

// Clear removes all values.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[reflect.Type]anyvalue.Value)
}
